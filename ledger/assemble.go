package ledger

// Assemble merges per-page (or per-document) transaction batches into one
// ledger. Batches are concatenated in the order given, preserving each
// transaction's original sequence index, and exact duplicates at batch
// boundaries are dropped. Validation runs once over the merged sequence,
// never per batch, because the opening-balance chain only holds across the
// whole document.
func Assemble(batches [][]Transaction, bank string) Ledger {
	var merged []Transaction
	for _, batch := range batches {
		for _, tx := range batch {
			if n := len(merged); n > 0 && boundaryDuplicate(merged[n-1], tx) {
				continue
			}
			merged = append(merged, tx)
		}
	}

	results := Validate(merged)
	return Ledger{
		Bank:         bank,
		Transactions: merged,
		Results:      results,
		Summary:      Summarize(results),
	}
}

// boundaryDuplicate detects the trailing partial entry of one page being
// captured again at the top of the next: identical date, mode, particulars
// and amounts in adjacent sequence positions.
func boundaryDuplicate(prev, next Transaction) bool {
	if next.Sequence-prev.Sequence > 1 {
		return false
	}
	return prev.Date.Equal(next.Date) &&
		prev.Mode == next.Mode &&
		prev.Particulars == next.Particulars &&
		prev.Deposit.Equal(next.Deposit) &&
		prev.Withdrawal.Equal(next.Withdrawal) &&
		prev.Balance.Equal(next.Balance)
}
