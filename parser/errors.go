package parser

import (
	"fmt"
	"strings"
)

// FormatMismatchError is returned when the page text fails the selected
// profile's validator predicate. The caller may retry with another profile.
type FormatMismatchError struct {
	Bank string
}

func (e *FormatMismatchError) Error() string {
	return fmt.Sprintf("text does not match %s statement format", e.Bank)
}

// Candidate is a scored profile considered during auto-detection.
type Candidate struct {
	Bank  string
	Score int
}

// AmbiguousDetectionError is returned when no profile clears the minimum
// detection score, or when two profiles tie for the top score. The caller
// must supply an explicit bank in that case.
type AmbiguousDetectionError struct {
	Candidates []Candidate
}

func (e *AmbiguousDetectionError) Error() string {
	if len(e.Candidates) == 0 {
		return "could not detect bank: no profile matched"
	}
	names := make([]string, len(e.Candidates))
	for i, c := range e.Candidates {
		names[i] = fmt.Sprintf("%s(%d)", c.Bank, c.Score)
	}
	return "could not detect bank: ambiguous between " + strings.Join(names, ", ")
}

// Gap records a transaction buffer that closed without a parsable amount or
// date. The malformed entry is skipped; the gap is reported so the caller
// knows the ledger may be incomplete. Gaps are findings, not failures.
type Gap struct {
	Page   int    `json:"page"`
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}
