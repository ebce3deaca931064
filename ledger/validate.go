package ledger

import "github.com/shopspring/decimal"

// balanceTolerance absorbs rounding noise carried over from the source
// documents. Differences at or below this value are not mismatches.
var balanceTolerance = decimal.New(1, -2) // 0.01

// Validate replays the balance equation over the transaction sequence:
//
//	previous balance + deposit - withdrawal = balance
//
// The first row and any brought-forward row seed the running balance and are
// exempt from the equation. A mismatch does not halt the run: the observed
// balance of the mismatched row becomes the baseline for the next comparison,
// so a single extraction glitch does not cascade. The input is never mutated.
func Validate(txs []Transaction) []ValidationResult {
	results := make([]ValidationResult, 0, len(txs))
	var current decimal.Decimal

	for i, tx := range txs {
		if i == 0 || tx.BroughtForward() {
			current = tx.Balance
			results = append(results, ValidationResult{Index: i, OK: true})
			continue
		}

		expected := current.Add(tx.Deposit).Sub(tx.Withdrawal)
		if expected.Sub(tx.Balance).Abs().GreaterThan(balanceTolerance) {
			results = append(results, ValidationResult{
				Index:    i,
				OK:       false,
				Expected: expected,
				Observed: tx.Balance,
			})
		} else {
			results = append(results, ValidationResult{Index: i, OK: true})
		}

		// Re-baseline from what the statement says, not from what we
		// computed, so one bad row cannot poison the rest.
		current = tx.Balance
	}

	return results
}

// Summarize folds a validation run into its summary.
func Summarize(results []ValidationResult) Summary {
	s := Summary{Transactions: len(results), FirstMismatch: -1}
	for _, r := range results {
		if !r.OK {
			if s.FirstMismatch == -1 {
				s.FirstMismatch = r.Index
			}
			s.Mismatches++
		}
	}
	return s
}
