package parser

import (
	"regexp"
	"strings"
)

// RawLine is one line of extracted statement text with its source position.
// Produced by the text-extraction layer, consumed only by Parse.
type RawLine struct {
	Text string
	Page int // 1-based source page
	Line int // position within the page
}

// ModeKeyword maps a keyword found in a transaction's particulars to a
// canonical mode label. Keywords are matched in declaration order and the
// first match wins.
type ModeKeyword struct {
	Keyword string
	Label   string
}

// RowGroups maps capture-group indices of a columnar row pattern to
// transaction fields. A zero index means the column is absent from the
// pattern. Deposit/Withdrawal are used by six-column layouts; Amount is used
// by layouts that print one signed/positional amount plus the balance.
type RowGroups struct {
	Date        int
	Mode        int
	Particulars int
	Deposit     int
	Withdrawal  int
	Amount      int
	Balance     int
}

// RowPattern is a profile's single-line transaction row regex, for sources
// that preserve column alignment. When it matches, amounts are assigned by
// column position directly.
type RowPattern struct {
	Re     *regexp.Regexp
	Groups RowGroups
}

// BankProfile is the immutable per-bank pattern set that parameterizes the
// shared parsing algorithm. One instance per supported bank, built once at
// startup and never mutated.
type BankProfile struct {
	Name string

	// DatePatterns open a new transaction when anchored at line start,
	// tried in order. DateLayouts are the matching Go time layouts.
	DatePatterns []*regexp.Regexp
	DateLayouts  []string

	// Row is the optional columnar row pattern (may be nil).
	Row *RowPattern

	ModeKeywords []ModeKeyword

	// Indicators are strong signature strings that identify the bank when
	// found in a statement-header context.
	Indicators []string

	// NoiseLines are exact column titles repeated on every page.
	// FooterPatterns match page furniture such as "Page 2 of 7".
	// SummaryMarkers open the running statement-summary block at document
	// end; everything after one is dropped until the next date line.
	NoiseLines     []string
	FooterPatterns []*regexp.Regexp
	SummaryMarkers []string
}

// Matches is the profile's validator predicate: does the text plausibly
// belong to this bank. Used as a cheap guard before committing to parsing.
func (p *BankProfile) Matches(text string) bool {
	upper := strings.ToUpper(text)
	for _, ind := range p.Indicators {
		if strings.Contains(upper, strings.ToUpper(ind)) {
			return true
		}
	}
	return false
}

// splitDate returns the date token anchored at the start of the line and the
// remainder, if the line opens a new transaction.
func (p *BankProfile) splitDate(line string) (date, rest string, ok bool) {
	for _, re := range p.DatePatterns {
		loc := re.FindStringIndex(line)
		if loc != nil && loc[0] == 0 {
			return line[:loc[1]], strings.TrimSpace(line[loc[1]:]), true
		}
	}
	return "", "", false
}

// startsWithDate reports whether the line opens a new transaction.
func (p *BankProfile) startsWithDate(line string) bool {
	_, _, ok := p.splitDate(line)
	return ok
}

// isNoise classifies repeated page furniture: column titles and page
// number markers. Extraction sometimes yields the whole column-title row as
// one line, so a line made up entirely of titles is noise too.
func (p *BankProfile) isNoise(line string) bool {
	for _, title := range p.NoiseLines {
		if line == title {
			return true
		}
	}
	if len(p.NoiseLines) > 0 {
		stripped := line
		for _, title := range p.NoiseLines {
			stripped = strings.ReplaceAll(stripped, title, "")
		}
		if stripped != line && strings.TrimSpace(stripped) == "" {
			return true
		}
	}
	for _, re := range p.FooterPatterns {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

// isSummaryMarker reports whether the line starts the trailing statement
// summary block.
func (p *BankProfile) isSummaryMarker(line string) bool {
	for _, marker := range p.SummaryMarkers {
		if strings.Contains(line, marker) {
			return true
		}
	}
	return false
}

// modeFor extracts the canonical mode label from particulars. Keywords are
// checked in profile order; no match leaves the mode blank rather than
// guessing.
func (p *BankProfile) modeFor(particulars string) string {
	upper := strings.ToUpper(particulars)
	for _, kw := range p.ModeKeywords {
		if strings.Contains(upper, strings.ToUpper(kw.Keyword)) {
			return kw.Label
		}
	}
	return ""
}
