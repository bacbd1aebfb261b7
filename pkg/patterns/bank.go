package patterns

// =============================================================================
// BUILT-IN PATTERN BANK
// The default vocabulary shipped with the binary. Deployments targeting other
// locales or fraud mixes replace this wholesale via Load/Parse; the detector
// only ever sees a *Catalog and does not care where it came from.
// All phrases are matched case-insensitively as substrings of the normalized
// message text.
// =============================================================================

// Default returns the built-in catalog. Callers share the returned value; it
// must be treated as read-only.
func Default() *Catalog {
	return defaultCatalog
}

var defaultCatalog = &Catalog{
	Categories: []Category{
		{
			Name: "banking_fraud",
			Keywords: []string{
				"account", "blocked", "suspended", "verify", "kyc",
				"debit card", "net banking", "otp", "unauthorised transaction",
				"reactivate", "deactivated",
			},
			UrgencyIndicators: []string{
				"immediately", "within 24 hours", "right now", "today itself",
			},
			AuthorityClaims: []string{
				"bank official", "reserve bank", "rbi", "customer care",
				"security team",
			},
			ConfidenceWeight: 0.9,
		},
		{
			Name: "prize_lottery",
			Keywords: []string{
				"congratulations", "won", "winner", "lottery", "prize",
				"lucky draw", "claim", "processing fee", "jackpot", "gift card",
			},
			UrgencyIndicators: []string{
				"expires today", "last chance", "claim now", "limited period",
			},
			AuthorityClaims:  nil,
			ConfidenceWeight: 0.85,
		},
		{
			Name: "tech_support_scam",
			Keywords: []string{
				"computer", "virus", "infected", "malware", "remote access",
				"anydesk", "teamviewer", "license expired", "refund pending",
				"hacked",
			},
			UrgencyIndicators: []string{
				"act fast", "before it spreads", "immediate action",
			},
			AuthorityClaims: []string{
				"microsoft", "windows support", "technical department",
				"certified technician",
			},
			ConfidenceWeight: 0.8,
		},
		{
			Name: "impersonation",
			Keywords: []string{
				"arrest", "warrant", "legal action", "court", "police complaint",
				"case registered", "fine", "summons", "aadhaar", "parcel seized",
			},
			UrgencyIndicators: []string{
				"within 2 hours", "final warning", "last notice",
			},
			AuthorityClaims: []string{
				"police", "cbi", "income tax", "customs", "government",
				"cyber cell", "enforcement directorate",
			},
			ConfidenceWeight: 0.95,
		},
		{
			Name: "investment_scam",
			Keywords: []string{
				"investment", "double your money", "guaranteed profit",
				"guaranteed returns", "trading", "stock tips", "crypto",
				"bitcoin", "wealth scheme", "passive income",
			},
			UrgencyIndicators: []string{
				"limited slots", "offer closes", "today only",
			},
			AuthorityClaims: []string{
				"sebi registered", "financial advisor", "portfolio manager",
			},
			ConfidenceWeight: 0.8,
		},
		{
			Name: "upi_fraud",
			Keywords: []string{
				"upi", "paytm", "phonepe", "google pay", "cashback",
				"payment failed", "scan qr", "collect request", "wallet",
				"refund initiated",
			},
			UrgencyIndicators: []string{
				"expires in 15 minutes", "claim immediately",
			},
			AuthorityClaims: []string{
				"paytm support", "npci", "upi helpdesk",
			},
			ConfidenceWeight: 0.9,
		},
	},

	RedFlags: []string{
		"click here",
		"verify immediately",
		"processing fee",
		"advance payment",
		"share otp",
		"send otp",
		"do not tell anyone",
		"keep this confidential",
		"act now",
		"100% guaranteed",
		"risk free",
		"urgent action required",
	},

	LegitimateIndicators: []string{
		"meeting",
		"appointment",
		"agenda",
		"webinar",
		"newsletter",
		"unsubscribe",
		"tracking number",
		"as discussed",
		"minutes of the meeting",
		"see you",
	},
}

// UrgencyVocabulary is the global pressure-language word list used by the
// detector's urgency boost, independent of any category. Matched as
// substrings, capped by the detector.
var UrgencyVocabulary = []string{
	"urgent", "immediately", "now", "hurry", "quick",
	"expire", "last chance", "limited time", "act fast",
}
