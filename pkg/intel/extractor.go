// Package intel mines scammer transcripts for financial and contact
// identifiers (bank accounts, UPI handles, phones, links, crypto wallets)
// and synthesizes the final intelligence report for a completed engagement.
// Extraction is pure pattern matching over adversary-authored text; agent
// replies are never part of the source.
package intel

import (
	"regexp"
	"strings"
	"time"

	"github.com/nyaruka/phonenumbers"

	"github.com/dagger-5328/honeytrap/pkg/session"
)

// Match patterns, compiled once.
var (
	reBankAccount = regexp.MustCompile(`\b\d{9,18}\b`)
	reIFSC        = regexp.MustCompile(`(?i)\b[A-Z]{4}0[A-Z0-9]{6}\b`)
	reUPI         = regexp.MustCompile(`\b[\w.-]+@[\w.-]+\b`)
	reURL         = regexp.MustCompile(`(?i)https?://\S+`)
	reEmail       = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	reBTC         = regexp.MustCompile(`\b[13][a-km-zA-HJ-NP-Z1-9]{25,34}\b`)
	reETH         = regexp.MustCompile(`\b0x[a-fA-F0-9]{40}\b`)

	// Phone candidates for the locale-aware parser, and the simpler Indian
	// mobile shape used when the parser yields nothing.
	rePhoneCandidate = regexp.MustCompile(`\+?\d[\d\s().-]{7,16}\d`)
	rePhoneFallback  = regexp.MustCompile(`(\+91|0)?[6-9]\d{9}`)
)

// bankNames resolves the 4-letter IFSC prefix of the larger Indian banks.
var bankNames = map[string]string{
	"SBIN": "State Bank of India",
	"HDFC": "HDFC Bank",
	"ICIC": "ICICI Bank",
	"AXIS": "Axis Bank",
	"PUNB": "Punjab National Bank",
	"BARB": "Bank of Baroda",
	"CNRB": "Canara Bank",
	"UBIN": "Union Bank of India",
	"IDIB": "Indian Bank",
	"IOBA": "Indian Overseas Bank",
}

// emailDomains are consumer mail providers: an @-token on one of these is an
// email address, never a UPI handle.
var emailDomains = []string{
	"gmail.com", "yahoo.com", "hotmail.com", "outlook.com",
	"protonmail.com", "icloud.com", "aol.com", "mail.com",
	"zoho.com", "yandex.com", "rediffmail.com",
}

// upiHandles is the payment-provider vocabulary: an @-token only counts as a
// UPI id when its handle or domain mentions one of these.
var upiHandles = []string{
	"paytm", "phonepe", "googlepay", "gpay", "amazonpay",
	"bhim", "ybl", "oksbi", "okaxis", "okicici", "okhdfcbank",
	"ibl", "axl", "pnb", "boi", "cnrb", "upi", "fbl", "sbi",
	"icici", "hdfc", "axis", "kotak", "federal", "indus",
}

// emailExclusions keeps obvious UPI ids out of the email set. Deliberately
// narrower than upiHandles: short codes like "sbi" appear inside ordinary
// addresses too often to exclude on.
var emailExclusions = []string{"paytm", "phonepe", "ybl"}

// BankAccount is one account/IFSC pairing. AccountNumber is empty for a
// standalone IFSC with no matching account in the text.
type BankAccount struct {
	AccountNumber string `json:"account_number"`
	IFSCCode      string `json:"ifsc_code"`
	BankName      string `json:"bank_name"`
}

// CryptoAddresses groups wallet identifiers per chain.
type CryptoAddresses struct {
	Bitcoin  []string `json:"bitcoin"`
	Ethereum []string `json:"ethereum"`
}

// Intelligence is everything mined out of one transcript. All lists are
// deduplicated; slice order follows first appearance in the text.
type Intelligence struct {
	BankAccounts    []BankAccount   `json:"bank_accounts"`
	UPIIDs          []string        `json:"upi_ids"`
	PhoneNumbers    []string        `json:"phone_numbers"`
	URLs            []string        `json:"urls"`
	Emails          []string        `json:"emails"`
	CryptoAddresses CryptoAddresses `json:"crypto_addresses"`
}

// Empty reports whether nothing at all was extracted.
func (in *Intelligence) Empty() bool {
	return len(in.BankAccounts) == 0 &&
		len(in.UPIIDs) == 0 &&
		len(in.PhoneNumbers) == 0 &&
		len(in.URLs) == 0 &&
		len(in.Emails) == 0 &&
		len(in.CryptoAddresses.Bitcoin) == 0 &&
		len(in.CryptoAddresses.Ethereum) == 0
}

// Harvest flattens the intelligence into the callback wire shape. Every list
// is initialized so the payload carries [] for missing categories.
func (in *Intelligence) Harvest() session.Harvest {
	h := session.Harvest{
		BankAccounts:       []string{},
		UPIIDs:             []string{},
		PhishingLinks:      []string{},
		PhoneNumbers:       []string{},
		SuspiciousKeywords: []string{},
	}
	for _, acct := range in.BankAccounts {
		num := acct.AccountNumber
		if num == "" {
			num = "N/A"
		}
		h.BankAccounts = append(h.BankAccounts, num+" ("+acct.BankName+")")
	}
	h.UPIIDs = append(h.UPIIDs, in.UPIIDs...)
	h.PhishingLinks = append(h.PhishingLinks, in.URLs...)
	h.PhoneNumbers = append(h.PhoneNumbers, in.PhoneNumbers...)
	return h
}

// Extractor runs the pattern pipeline. Stateless and safe for concurrent use.
type Extractor struct {
	region string
	now    func() time.Time
}

// ExtractorOption configures an Extractor.
type ExtractorOption func(*Extractor)

// WithRegion sets the phone-number parsing region (default "IN").
func WithRegion(region string) ExtractorOption {
	return func(x *Extractor) { x.region = region }
}

// WithClock injects the report timestamp source.
func WithClock(now func() time.Time) ExtractorOption {
	return func(x *Extractor) { x.now = now }
}

// New builds an extractor for the Indian payments landscape.
func New(opts ...ExtractorOption) *Extractor {
	x := &Extractor{
		region: "IN",
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(x)
	}
	return x
}

// ExtractAll mines the scammer side of a transcript.
func (x *Extractor) ExtractAll(transcript []session.Message) Intelligence {
	return x.ExtractText(adversaryText(transcript))
}

// ExtractText mines a single blob of adversary text. Used per-message for
// incremental harvesting during a live conversation.
func (x *Extractor) ExtractText(text string) Intelligence {
	return Intelligence{
		BankAccounts: x.extractBankAccounts(text),
		UPIIDs:       x.extractUPIIDs(text),
		PhoneNumbers: x.extractPhones(text),
		URLs:         dedup(reURL.FindAllString(text, -1)),
		Emails:       x.extractEmails(text),
		CryptoAddresses: CryptoAddresses{
			Bitcoin:  dedup(reBTC.FindAllString(text, -1)),
			Ethereum: dedup(reETH.FindAllString(text, -1)),
		},
	}
}

// extractBankAccounts pairs the i-th account-shaped digit run with the i-th
// IFSC code by list position. Pairing by proximity would be smarter but this
// mirrors how the harvested data is scored downstream; leftover IFSC codes
// become standalone entries.
func (x *Extractor) extractBankAccounts(text string) []BankAccount {
	numbers := reBankAccount.FindAllString(text, -1)
	codes := reIFSC.FindAllString(text, -1)

	accounts := make([]BankAccount, 0, len(numbers)+len(codes))
	for i, number := range numbers {
		acct := BankAccount{AccountNumber: number}
		if i < len(codes) {
			acct.IFSCCode = strings.ToUpper(codes[i])
			acct.BankName = bankName(acct.IFSCCode)
		}
		accounts = append(accounts, acct)
	}
	if len(codes) > len(numbers) {
		for _, code := range codes[len(numbers):] {
			upper := strings.ToUpper(code)
			accounts = append(accounts, BankAccount{
				IFSCCode: upper,
				BankName: bankName(upper),
			})
		}
	}
	return accounts
}

func bankName(ifsc string) string {
	if name, ok := bankNames[ifsc[:4]]; ok {
		return name
	}
	return "Unknown Bank"
}

func (x *Extractor) extractUPIIDs(text string) []string {
	var upis []string
	for _, token := range reUPI.FindAllString(text, -1) {
		lower := strings.ToLower(token)
		if containsAny(lower, emailDomains) {
			continue
		}
		if containsAny(lower, upiHandles) {
			upis = append(upis, token)
		}
	}
	return dedup(upis)
}

// extractPhones runs every phone-shaped candidate through the locale-aware
// parser and keeps the valid ones in E.164 form. When the parser recognizes
// nothing, the simpler Indian mobile pattern is the fallback so extraction
// degrades instead of aborting.
func (x *Extractor) extractPhones(text string) []string {
	var phones []string
	for _, cand := range rePhoneCandidate.FindAllString(text, -1) {
		num, err := phonenumbers.Parse(cand, x.region)
		if err != nil || !phonenumbers.IsValidNumber(num) {
			continue
		}
		phones = append(phones, phonenumbers.Format(num, phonenumbers.E164))
	}
	if len(phones) > 0 {
		return dedup(phones)
	}

	for _, raw := range rePhoneFallback.FindAllString(text, -1) {
		digits := strings.TrimPrefix(raw, "+91")
		digits = strings.TrimPrefix(digits, "0")
		phones = append(phones, "+91"+digits)
	}
	return dedup(phones)
}

func (x *Extractor) extractEmails(text string) []string {
	var emails []string
	for _, token := range reEmail.FindAllString(text, -1) {
		if containsAny(strings.ToLower(token), emailExclusions) {
			continue
		}
		emails = append(emails, token)
	}
	return dedup(emails)
}

// adversaryText concatenates the scammer-authored messages of a transcript.
func adversaryText(transcript []session.Message) string {
	var parts []string
	for _, msg := range transcript {
		if msg.Role == session.RoleScammer {
			parts = append(parts, msg.Content)
		}
	}
	return strings.Join(parts, " ")
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// dedup removes duplicates preserving first-seen order. The result is never
// nil; empty lists must marshal as [] on the wire, not null.
func dedup(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
