package parser

import (
	"sort"
	"strings"
)

// Detection tuning. A strong signature indicator in the statement header
// outranks any amount of transaction-pattern density, and the threshold
// keeps sparse accidental matches from winning. Values validated against a
// labeled statement corpus; adjust there, not per call site.
const (
	strongIndicatorWeight = 5
	transactionLineWeight = 1
	minDetectionScore     = 5
	maxHeaderLines        = 50
)

// Detect scores the raw text against each known profile and returns the best
// match. Bank-name occurrences only count when they appear in the statement
// header region, so one bank's name inside another bank's transaction
// narration ("IMPS transfer to HDFC a/c") cannot misclassify the document.
// No clear winner yields an AmbiguousDetectionError rather than a guess.
func Detect(rawText string, profiles []*BankProfile) (*BankProfile, error) {
	lines := splitTrimmed(rawText)
	header := headerRegion(lines, profiles)

	candidates := make([]Candidate, 0, len(profiles))
	byName := make(map[string]*BankProfile, len(profiles))
	for _, p := range profiles {
		byName[p.Name] = p
		candidates = append(candidates, Candidate{Bank: p.Name, Score: score(p, header, lines)})
	}
	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].Score > candidates[j].Score })

	if len(candidates) == 0 || candidates[0].Score < minDetectionScore {
		return nil, &AmbiguousDetectionError{Candidates: candidates}
	}
	if len(candidates) > 1 && candidates[1].Score == candidates[0].Score {
		return nil, &AmbiguousDetectionError{Candidates: candidates[:2]}
	}
	return byName[candidates[0].Bank], nil
}

func score(p *BankProfile, header, lines []string) int {
	s := 0
	for _, ind := range p.Indicators {
		upper := strings.ToUpper(ind)
		for _, line := range header {
			if strings.Contains(strings.ToUpper(line), upper) {
				s += strongIndicatorWeight
				break
			}
		}
	}
	for _, line := range lines {
		if p.startsWithDate(line) {
			s += transactionLineWeight
		}
	}
	return s
}

// headerRegion is everything before the first line any profile recognizes as
// a transaction row, capped so a statement with no transactions at all does
// not treat its entire body as header.
func headerRegion(lines []string, profiles []*BankProfile) []string {
	end := len(lines)
	for i, line := range lines {
		for _, p := range profiles {
			if p.startsWithDate(line) {
				end = i
				break
			}
		}
		if end == i {
			break
		}
	}
	if end > maxHeaderLines {
		end = maxHeaderLines
	}
	return lines[:end]
}

func splitTrimmed(text string) []string {
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		if t := strings.TrimSpace(l); t != "" {
			lines = append(lines, t)
		}
	}
	return lines
}
