package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/spf13/viper"
)

// Builtins returns the built-in bank profiles. The slice is rebuilt on every
// call so callers cannot mutate shared state; profiles themselves are
// treated as immutable.
func Builtins() []*BankProfile {
	return []*BankProfile{hdfc(), icici(), sbi()}
}

// Load assembles the read-only profile table for this process: the built-in
// banks plus any banks registered under the "banks" config section. A config
// entry with a built-in name replaces that built-in, so patterns can be
// corrected without a code change.
func Load() ([]*BankProfile, error) {
	profiles := Builtins()

	var extras []bankConfig
	if err := viper.UnmarshalKey("banks", &extras); err != nil {
		return nil, fmt.Errorf("invalid banks config: %w", err)
	}

	for _, cfg := range extras {
		p, err := cfg.compile()
		if err != nil {
			return nil, fmt.Errorf("bank %q: %w", cfg.Name, err)
		}
		replaced := false
		for i, existing := range profiles {
			if strings.EqualFold(existing.Name, p.Name) {
				profiles[i] = p
				replaced = true
				break
			}
		}
		if !replaced {
			profiles = append(profiles, p)
		}
	}
	return profiles, nil
}

// Find returns the profile with the given name, case-insensitively.
func Find(profiles []*BankProfile, name string) (*BankProfile, bool) {
	for _, p := range profiles {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return nil, false
}

// bankConfig is the config-file shape of a bank registration.
type bankConfig struct {
	Name           string         `mapstructure:"name"`
	Indicators     []string       `mapstructure:"indicators"`
	DatePatterns   []string       `mapstructure:"date_patterns"`
	DateLayouts    []string       `mapstructure:"date_layouts"`
	RowPattern     string         `mapstructure:"row_pattern"`
	RowGroups      map[string]int `mapstructure:"row_groups"`
	ModeKeywords   []string       `mapstructure:"mode_keywords"` // "KEYWORD" or "KEYWORD=Label"
	NoiseLines     []string       `mapstructure:"noise_lines"`
	FooterPatterns []string       `mapstructure:"footer_patterns"`
	SummaryMarkers []string       `mapstructure:"summary_markers"`
}

func (c bankConfig) compile() (*BankProfile, error) {
	if c.Name == "" {
		return nil, fmt.Errorf("missing name")
	}
	if len(c.DatePatterns) == 0 || len(c.DateLayouts) == 0 {
		return nil, fmt.Errorf("date_patterns and date_layouts are required")
	}

	p := &BankProfile{
		Name:           c.Name,
		DateLayouts:    c.DateLayouts,
		Indicators:     c.Indicators,
		NoiseLines:     c.NoiseLines,
		SummaryMarkers: c.SummaryMarkers,
	}
	for _, pat := range c.DatePatterns {
		re, err := regexp.Compile(pat)
		if err != nil {
			return nil, fmt.Errorf("date pattern %q: %w", pat, err)
		}
		p.DatePatterns = append(p.DatePatterns, re)
	}
	for _, pat := range c.FooterPatterns {
		re, err := regexp.Compile(pat)
		if err != nil {
			return nil, fmt.Errorf("footer pattern %q: %w", pat, err)
		}
		p.FooterPatterns = append(p.FooterPatterns, re)
	}
	if c.RowPattern != "" {
		re, err := regexp.Compile(c.RowPattern)
		if err != nil {
			return nil, fmt.Errorf("row pattern: %w", err)
		}
		p.Row = &RowPattern{
			Re: re,
			Groups: RowGroups{
				Date:        c.RowGroups["date"],
				Mode:        c.RowGroups["mode"],
				Particulars: c.RowGroups["particulars"],
				Deposit:     c.RowGroups["deposit"],
				Withdrawal:  c.RowGroups["withdrawal"],
				Amount:      c.RowGroups["amount"],
				Balance:     c.RowGroups["balance"],
			},
		}
	}
	for _, kw := range c.ModeKeywords {
		keyword, label, found := strings.Cut(kw, "=")
		if !found {
			label = keyword
		}
		p.ModeKeywords = append(p.ModeKeywords, ModeKeyword{Keyword: keyword, Label: label})
	}
	return p, nil
}

func hdfc() *BankProfile {
	return &BankProfile{
		Name: "HDFC",
		DatePatterns: []*regexp.Regexp{
			regexp.MustCompile(`^\d{2}/\d{2}/\d{2,4}\b`),
			regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{2,4}\b`),
		},
		DateLayouts: []string{"02/01/06", "02/01/2006", "2/1/06", "2/1/2006"},
		Row: &RowPattern{
			// Date Narration Withdrawal/Deposit-Amount Closing-Balance
			Re:     regexp.MustCompile(`^(\d{2}/\d{2}/\d{2,4})\s+(.+?)\s+([\d,]+\.\d{2})\s+([\d,]+\.\d{2})$`),
			Groups: RowGroups{Date: 1, Particulars: 2, Amount: 3, Balance: 4},
		},
		ModeKeywords: selfLabeled("UPI", "NEFT", "IMPS", "RTGS", "ATM", "POS", "TRANSFER", "PAYMENT", "CHEQUE", "ECS", "DD"),
		Indicators:   []string{"HDFC BANK", "Chq./Ref.No."},
		NoiseLines: []string{
			"Date", "Narration", "Chq./Ref.No.", "Value Dt",
			"Withdrawal Amt.", "Deposit Amt.", "Closing Balance",
		},
		FooterPatterns: []*regexp.Regexp{
			regexp.MustCompile(`^Page No\s*\.?\s*:?\s*\d+$`),
		},
		SummaryMarkers: []string{
			"STATEMENT SUMMARY", "Generated On:", "Generated By:",
			"Requesting Branch Code", "This is a computer generated statement",
		},
	}
}

func icici() *BankProfile {
	return &BankProfile{
		Name: "ICICI",
		DatePatterns: []*regexp.Regexp{
			regexp.MustCompile(`^\d{2}-\d{2}-\d{4}\b`),
			regexp.MustCompile(`^\d{1,2}-\d{1,2}-\d{4}\b`),
		},
		DateLayouts: []string{"02-01-2006", "2-1-2006"},
		Row: &RowPattern{
			// Date Mode Particulars Deposits Withdrawals Balance
			Re:     regexp.MustCompile(`^(\d{2}-\d{2}-\d{4})\s+(\S+)\s+(.+?)\s+([\d,]+\.\d{2})\s+([\d,]+\.\d{2})\s+([\d,]+\.\d{2})$`),
			Groups: RowGroups{Date: 1, Mode: 2, Particulars: 3, Deposit: 4, Withdrawal: 5, Balance: 6},
		},
		ModeKeywords: []ModeKeyword{
			{Keyword: "B/F", Label: "B/F"},
			{Keyword: "MOBILE BANKING", Label: "MOBILE BANKING"},
			{Keyword: "ICICI ATM", Label: "ICICI ATM"},
			{Keyword: "BANK CHARGES", Label: "BANK CHARGES"},
			{Keyword: "CMS TRANSACTION", Label: "CMS TRANSACTION"},
			{Keyword: "CREDIT CARD", Label: "CREDIT CARD"},
		},
		Indicators: []string{"ICICI BANK", "MODE**"},
		NoiseLines: []string{"DATE", "MODE**", "PARTICULARS", "DEPOSITS", "WITHDRAWALS", "BALANCE"},
		FooterPatterns: []*regexp.Regexp{
			regexp.MustCompile(`^Page \d+ of \d+$`),
		},
		SummaryMarkers: []string{"STATEMENT SUMMARY", "Legends:"},
	}
}

func sbi() *BankProfile {
	return &BankProfile{
		Name: "SBI",
		DatePatterns: []*regexp.Regexp{
			regexp.MustCompile(`^\d{2}/\d{2}/\d{4}\b`),
			regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{4}\b`),
		},
		DateLayouts: []string{"02/01/2006", "2/1/2006"},
		Row: &RowPattern{
			Re:     regexp.MustCompile(`^(\d{2}/\d{2}/\d{4})\s+(.+?)\s+([\d,]+\.\d{2})\s+([\d,]+\.\d{2})$`),
			Groups: RowGroups{Date: 1, Particulars: 2, Amount: 3, Balance: 4},
		},
		ModeKeywords: selfLabeled("UPI", "NEFT", "IMPS", "RTGS", "ATM", "POS", "TRANSFER", "PAYMENT", "CHEQUE", "ECS", "DD"),
		Indicators:   []string{"STATE BANK OF INDIA", "sbi.co.in"},
		NoiseLines: []string{
			"Txn Date", "Value Date", "Description", "Ref No./Cheque No.",
			"Debit", "Credit", "Balance",
		},
		FooterPatterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)^page \d+( of \d+)?$`),
		},
		SummaryMarkers: []string{"STATEMENT SUMMARY", "computer generated statement"},
	}
}

func selfLabeled(keywords ...string) []ModeKeyword {
	out := make([]ModeKeyword, len(keywords))
	for i, kw := range keywords {
		out[i] = ModeKeyword{Keyword: kw, Label: kw}
	}
	return out
}
