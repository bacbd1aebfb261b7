// Package simulator plays the adversary: scripted scam conversations per
// category, used by the demo command and the pipeline tests. Every script
// salts its messages with real-shaped identifiers (accounts, IFSC codes, UPI
// handles, phones, links) so the extraction pipeline has material to mine.
package simulator

import (
	"fmt"
	"math/rand"
	"time"
)

type script struct {
	openers   []string
	followups []string
}

var scripts = map[string]script{
	"banking_fraud": {
		openers: []string{
			"URGENT: Your bank account has been temporarily blocked due to suspicious activity. Click here to verify: http://fake-bank-verify.com",
			"Dear customer, your account will be suspended in 24 hours. Update your KYC immediately by calling +919876543210",
		},
		followups: []string{
			"Please provide your account number and IFSC code to verify your identity.",
			"Send Rs 500 to account 1234567890123 IFSC: SBIN0001234 for verification.",
			"Click this link immediately: http://phishing-site.com/verify",
			"Send money to UPI ID: scammer@paytm to activate your account.",
		},
	},
	"prize_lottery": {
		openers: []string{
			"Congratulations! You have won Rs 10,00,000 in the Mega Lottery Draw! Claim now!",
			"WINNER ALERT: Congratulations, you have won a lucky draw cash prize of Rs 5 lakhs. Claim now, limited time offer!",
		},
		followups: []string{
			"To claim your prize, send Rs 2000 processing fee to account 9876543210987 IFSC: HDFC0001234",
			"Pay tax of Rs 5000 via UPI: winner@phonepe to receive your prize money.",
			"Click here to claim: http://fake-lottery.com/claim?id=12345",
			"Call +919123456789 immediately to verify your winning.",
		},
	},
	"tech_support_scam": {
		openers: []string{
			"WARNING: Your computer is infected with a virus and malware has been detected. Act fast and call our certified technician at +919988776655 NOW!",
			"CRITICAL: Your computer is hacked and infected with malware. Your license expired. Download the security patch immediately: http://fake-antivirus.tk",
		},
		followups: []string{
			"Pay Rs 3000 for virus removal. Send to UPI: techsupport@paytm",
			"Your license is invalid. Pay Rs 5000 to account 5555666677778888 IFSC: ICIC0001234",
			"Call our toll-free number +918877665544 for immediate assistance.",
			"Click this link to fix your computer: http://scam-fix.com",
		},
	},
	"impersonation": {
		openers: []string{
			"Income Tax Department: a police complaint and arrest warrant case registered against you. Pay the fine immediately to avoid legal action. This is the final warning.",
			"Police Department: a police complaint has been filed and a warrant issued against you. Contact the officer at +919876543210 immediately, this is the last notice.",
		},
		followups: []string{
			"Pay the fine of Rs 10,000 to account 7777888899990000 IFSC: PUNB0001234 within 2 hours.",
			"Send Rs 2000 via UPI: govt@oksbi to clear the case.",
			"An arrest warrant will be issued if you don't pay Rs 25,000 immediately.",
			"Call this number +919123456789 to speak with the officer.",
		},
	},
	"investment_scam": {
		openers: []string{
			"Guaranteed returns of 300%! Our crypto trading investment scheme will double your money in 30 days. 100% guaranteed, risk free, limited slots available!",
			"Double your money in 7 days with our trading system! Guaranteed profit and passive income from bitcoin investment. Offer closes today, act now!",
		},
		followups: []string{
			"Send Rs 20,000 to start earning. UPI: crypto@paytm",
			"Deposit to our Bitcoin wallet: 1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa",
			"Transfer to account 3333444455556666 IFSC: AXIS0001234 to activate your account.",
			"Click here to join: http://fake-crypto-invest.com/signup",
		},
	},
	"upi_fraud": {
		openers: []string{
			"Your UPI payment failed and a refund initiated to your Paytm wallet. Click here to claim your cashback immediately: http://fake-upi-refund.tk",
			"PhonePe alert: accept this collect request on your wallet to receive Rs 10,000 cashback. Scan QR now, expires in 15 minutes!",
		},
		followups: []string{
			"Send Rs 10 to UPI: refund@paytm to process your cashback.",
			"Your UPI PIN is required for verification. Please share it.",
			"Transfer Rs 100 to account 2222333344445555 IFSC: BARB0001234 for wallet activation.",
			"Click this link to claim: http://fake-payment-link.com",
		},
	},
}

// ScamTypes lists the available script categories.
func ScamTypes() []string {
	// Fixed order for stable demo output.
	return []string{
		"banking_fraud", "prize_lottery", "tech_support_scam",
		"impersonation", "investment_scam", "upi_fraud",
	}
}

// Scammer walks one scripted conversation: a random opener for its category,
// then the followups in order, cycling when the script runs out.
type Scammer struct {
	scamType string
	script   script
	step     int
	rng      *rand.Rand
}

// New builds a scammer for the given scam type. Unknown types are an error;
// the scripts are the whole point of the simulator.
func New(scamType string, rng *rand.Rand) (*Scammer, error) {
	sc, ok := scripts[scamType]
	if !ok {
		return nil, fmt.Errorf("simulator: no script for scam type %q", scamType)
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Scammer{scamType: scamType, script: sc, rng: rng}, nil
}

// ScamType returns the category this scammer plays.
func (s *Scammer) ScamType() string { return s.scamType }

// Opening returns the conversation starter.
func (s *Scammer) Opening() string {
	return s.script.openers[s.rng.Intn(len(s.script.openers))]
}

// Next returns the scammer's next pressure message.
func (s *Scammer) Next() string {
	msg := s.script.followups[s.step%len(s.script.followups)]
	s.step++
	return msg
}
