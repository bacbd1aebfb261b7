package intel

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/dagger-5328/honeytrap/pkg/session"
)

func scammerSays(contents ...string) []session.Message {
	msgs := make([]session.Message, 0, len(contents))
	for _, c := range contents {
		msgs = append(msgs, session.Message{Role: session.RoleScammer, Content: c})
	}
	return msgs
}

func TestBankAccountWithIFSC(t *testing.T) {
	x := New()
	got := x.ExtractText("account 1234567890123 IFSC: SBIN0001234")

	if len(got.BankAccounts) != 1 {
		t.Fatalf("bank accounts = %d, want 1", len(got.BankAccounts))
	}
	acct := got.BankAccounts[0]
	if acct.AccountNumber != "1234567890123" {
		t.Errorf("account number = %q", acct.AccountNumber)
	}
	if acct.IFSCCode != "SBIN0001234" {
		t.Errorf("ifsc = %q", acct.IFSCCode)
	}
	if acct.BankName != "State Bank of India" {
		t.Errorf("bank name = %q", acct.BankName)
	}
}

func TestBankAccountOrdinalPairing(t *testing.T) {
	// Pairing is by position in the match lists, not proximity.
	x := New()
	got := x.ExtractText("send to 111111111 or 222222222, codes HDFC0000123 then ICIC0000456")

	if len(got.BankAccounts) != 2 {
		t.Fatalf("bank accounts = %d, want 2", len(got.BankAccounts))
	}
	if got.BankAccounts[0].IFSCCode != "HDFC0000123" || got.BankAccounts[0].BankName != "HDFC Bank" {
		t.Errorf("first pairing = %+v", got.BankAccounts[0])
	}
	if got.BankAccounts[1].IFSCCode != "ICIC0000456" || got.BankAccounts[1].BankName != "ICICI Bank" {
		t.Errorf("second pairing = %+v", got.BankAccounts[1])
	}
}

func TestStandaloneIFSC(t *testing.T) {
	x := New()
	got := x.ExtractText("use code axis0000789 for the branch")

	if len(got.BankAccounts) != 1 {
		t.Fatalf("bank accounts = %d, want 1", len(got.BankAccounts))
	}
	acct := got.BankAccounts[0]
	if acct.AccountNumber != "" {
		t.Errorf("standalone entry has account number %q", acct.AccountNumber)
	}
	if acct.IFSCCode != "AXIS0000789" {
		t.Errorf("ifsc not upper-cased: %q", acct.IFSCCode)
	}
	if acct.BankName != "Axis Bank" {
		t.Errorf("bank name = %q", acct.BankName)
	}
}

func TestUnknownBankPrefix(t *testing.T) {
	x := New()
	got := x.ExtractText("code ZZZZ0000001")
	if len(got.BankAccounts) != 1 || got.BankAccounts[0].BankName != "Unknown Bank" {
		t.Fatalf("got %+v", got.BankAccounts)
	}
}

func TestUPIExtraction(t *testing.T) {
	x := New()
	got := x.ExtractText("Pay scammer@paytm or fraud@phonepe, questions to help@gmail.com")

	want := map[string]bool{"scammer@paytm": true, "fraud@phonepe": true}
	if len(got.UPIIDs) != 2 {
		t.Fatalf("upi ids = %v, want 2 entries", got.UPIIDs)
	}
	for _, id := range got.UPIIDs {
		if !want[id] {
			t.Errorf("unexpected upi id %q", id)
		}
	}
}

func TestUPIExcludesPlainTokens(t *testing.T) {
	x := New()
	got := x.ExtractText("mail me at someone@example.org")
	if len(got.UPIIDs) != 0 {
		t.Fatalf("upi ids = %v, want none", got.UPIIDs)
	}
}

func TestPhoneExtraction(t *testing.T) {
	x := New()
	got := x.ExtractText("Call +919876543210 right away")

	if len(got.PhoneNumbers) != 1 {
		t.Fatalf("phones = %v, want 1", got.PhoneNumbers)
	}
	if got.PhoneNumbers[0] != "+919876543210" {
		t.Errorf("phone = %q, want +919876543210", got.PhoneNumbers[0])
	}
}

func TestPhoneNationalFormat(t *testing.T) {
	x := New()
	got := x.ExtractText("WhatsApp on 98765 43210 only")

	if len(got.PhoneNumbers) != 1 || got.PhoneNumbers[0] != "+919876543210" {
		t.Fatalf("phones = %v, want [+919876543210]", got.PhoneNumbers)
	}
}

func TestPhoneFallbackPattern(t *testing.T) {
	// An unresolvable region forces the parser to reject every candidate,
	// exercising the plain digit-pattern fallback.
	x := New(WithRegion("ZZ"))
	got := x.ExtractText("call 9876543210 today")

	if len(got.PhoneNumbers) != 1 || got.PhoneNumbers[0] != "+919876543210" {
		t.Fatalf("fallback phones = %v, want [+919876543210]", got.PhoneNumbers)
	}
}

func TestURLExtraction(t *testing.T) {
	x := New()
	got := x.ExtractText("visit http://fake-bank.tk/verify and https://bit.ly/claim now")

	want := []string{"http://fake-bank.tk/verify", "https://bit.ly/claim"}
	if !reflect.DeepEqual(got.URLs, want) {
		t.Fatalf("urls = %v, want %v", got.URLs, want)
	}
}

func TestEmailExtraction(t *testing.T) {
	x := New()
	got := x.ExtractText("write to officer@fake-rbi.com or pay fraud@paytm.com")

	if len(got.Emails) != 1 || got.Emails[0] != "officer@fake-rbi.com" {
		t.Fatalf("emails = %v, want [officer@fake-rbi.com]", got.Emails)
	}
}

func TestCryptoExtraction(t *testing.T) {
	x := New()
	got := x.ExtractText("BTC 1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa or ETH 0x742d35Cc6634C0532925a3b844Bc454e4438f44e")

	if len(got.CryptoAddresses.Bitcoin) != 1 ||
		got.CryptoAddresses.Bitcoin[0] != "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa" {
		t.Errorf("bitcoin = %v", got.CryptoAddresses.Bitcoin)
	}
	if len(got.CryptoAddresses.Ethereum) != 1 ||
		got.CryptoAddresses.Ethereum[0] != "0x742d35Cc6634C0532925a3b844Bc454e4438f44e" {
		t.Errorf("ethereum = %v", got.CryptoAddresses.Ethereum)
	}
}

func TestAgentMessagesExcluded(t *testing.T) {
	x := New()
	transcript := []session.Message{
		{Role: session.RoleScammer, Content: "send money to my account"},
		{Role: session.RoleAgent, Content: "should I call +919876543210 or pay me@paytm?"},
	}
	got := x.ExtractAll(transcript)
	if !got.Empty() {
		t.Fatalf("intelligence mined from agent messages: %+v", got)
	}
}

func TestExtractionIdempotent(t *testing.T) {
	x := New()
	transcript := scammerSays(
		"Send to 1234567890123 IFSC: SBIN0001234 or UPI scammer@paytm",
		"Call +919876543210 or visit http://fake-bank.com immediately!",
	)

	first := x.ExtractAll(transcript)
	second := x.ExtractAll(transcript)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("re-extraction differs:\n%+v\n%+v", first, second)
	}
}

func TestDeduplication(t *testing.T) {
	x := New()
	got := x.ExtractText("pay scammer@paytm, yes scammer@paytm, see http://x.tk http://x.tk")

	if len(got.UPIIDs) != 1 {
		t.Errorf("upi ids = %v", got.UPIIDs)
	}
	if len(got.URLs) != 1 {
		t.Errorf("urls = %v", got.URLs)
	}
}

func TestEmptyInput(t *testing.T) {
	x := New()
	if got := x.ExtractText(""); !got.Empty() {
		t.Fatalf("non-empty intelligence from empty text: %+v", got)
	}
	if got := x.ExtractAll(nil); !got.Empty() {
		t.Fatalf("non-empty intelligence from nil transcript: %+v", got)
	}
}

func TestEmptyExtractionMarshalsArrays(t *testing.T) {
	x := New()
	in := x.ExtractText("nothing of interest here")

	data, err := json.Marshal(in)
	if err != nil {
		t.Fatal(err)
	}
	// The wire contract is [] for empty categories, never null.
	if strings.Contains(string(data), "null") {
		t.Fatalf("intelligence marshals null: %s", data)
	}

	h := in.Harvest()
	data, err = json.Marshal(h)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "null") {
		t.Fatalf("harvest marshals null: %s", data)
	}
	if !strings.Contains(string(data), `"bankAccounts":[]`) {
		t.Fatalf("harvest wire shape: %s", data)
	}
}

func TestHarvestMapping(t *testing.T) {
	in := Intelligence{
		BankAccounts: []BankAccount{
			{AccountNumber: "1234567890123", IFSCCode: "SBIN0001234", BankName: "State Bank of India"},
			{IFSCCode: "HDFC0000123", BankName: "HDFC Bank"},
		},
		UPIIDs:       []string{"scammer@paytm"},
		PhoneNumbers: []string{"+919876543210"},
		URLs:         []string{"http://fake-bank.com"},
	}

	h := in.Harvest()
	if len(h.BankAccounts) != 2 {
		t.Fatalf("harvest bank accounts = %v", h.BankAccounts)
	}
	if h.BankAccounts[0] != "1234567890123 (State Bank of India)" {
		t.Errorf("paired entry = %q", h.BankAccounts[0])
	}
	if h.BankAccounts[1] != "N/A (HDFC Bank)" {
		t.Errorf("standalone entry = %q", h.BankAccounts[1])
	}
	if len(h.PhishingLinks) != 1 || h.PhishingLinks[0] != "http://fake-bank.com" {
		t.Errorf("phishing links = %v", h.PhishingLinks)
	}
	if h.Empty() {
		t.Error("harvest with contact points reported empty")
	}
}

func TestGenerateReport(t *testing.T) {
	ts := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	x := New(WithClock(func() time.Time { return ts }))

	transcript := []session.Message{
		{Role: session.RoleScammer, Content: "Urgent! Your bank account is blocked. Verify at http://fake.tk"},
		{Role: session.RoleAgent, Content: "Oh no, what should I do?"},
		{Role: session.RoleScammer, Content: "Send the fee to scammer@paytm immediately"},
	}

	report := x.GenerateReport("conv-1", "banking_fraud", 86, transcript, "elderly_user", 95*time.Second)

	if report.ConversationID != "conv-1" || report.ScamType != "banking_fraud" {
		t.Errorf("identity fields: %+v", report)
	}
	if !report.Timestamp.Equal(ts) {
		t.Errorf("timestamp = %v", report.Timestamp)
	}
	if report.ConfidenceScore != 86 {
		t.Errorf("confidence = %d", report.ConfidenceScore)
	}
	if report.ConversationSummary.MessageCount != 3 {
		t.Errorf("message count = %d", report.ConversationSummary.MessageCount)
	}
	if report.ConversationSummary.DurationSeconds != 95 {
		t.Errorf("duration = %d", report.ConversationSummary.DurationSeconds)
	}
	if report.ConversationSummary.PersonaUsed != "elderly_user" {
		t.Errorf("persona = %q", report.ConversationSummary.PersonaUsed)
	}
	if len(report.ExtractedIntelligence.UPIIDs) != 1 {
		t.Errorf("extracted upis = %v", report.ExtractedIntelligence.UPIIDs)
	}
	if len(report.FullTranscript) != 3 {
		t.Errorf("transcript length = %d", len(report.FullTranscript))
	}
}

func TestAnalyzeTactics(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "urgency and social engineering",
			text: "Act now, verify your details immediately",
			want: []string{"urgency", "social_engineering"},
		},
		{
			name: "fear and authority",
			text: "The police and the government department will arrest you",
			want: []string{"fear", "authority"},
		},
		{
			name: "greed",
			text: "You have won a lottery reward",
			want: []string{"greed"},
		},
		{
			name: "none",
			text: "hello there",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AnalyzeTactics(scammerSays(tt.text))
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("tactics = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSuspiciousKeywords(t *testing.T) {
	got := SuspiciousKeywords("URGENT: your account blocked, claim your prize")
	want := map[string]bool{"urgent": true, "account blocked": true, "claim": true, "prize": true}

	if len(got) != len(want) {
		t.Fatalf("keywords = %v", got)
	}
	for _, k := range got {
		if !want[k] {
			t.Errorf("unexpected keyword %q", k)
		}
	}
}
