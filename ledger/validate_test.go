package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func txn(deposit, withdrawal, balance string) Transaction {
	return Transaction{
		Date:       time.Date(2024, 1, 15, 0, 0, 0, 0, time.Local),
		Deposit:    d(deposit),
		Withdrawal: d(withdrawal),
		Balance:    d(balance),
	}
}

func TestValidate_ConsistentChain(t *testing.T) {
	txs := []Transaction{
		txn("0", "0", "1000"),
		txn("500", "0", "1500"),
		txn("0", "200", "1300"),
	}
	results := Validate(txs)
	if len(results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(results))
	}
	for i, res := range results {
		if !res.OK {
			t.Errorf("Row %d unexpectedly flagged: expected %s observed %s",
				i, res.Expected.String(), res.Observed.String())
		}
	}
}

func TestValidate_SingleMismatch(t *testing.T) {
	txs := []Transaction{
		txn("0", "0", "1000"),
		txn("500", "0", "1400"),
	}
	results := Validate(txs)
	if results[0].OK != true {
		t.Errorf("First row should seed the chain and pass")
	}
	if results[1].OK {
		t.Fatalf("Second row should mismatch")
	}
	if results[1].Expected.String() != "1500" {
		t.Errorf("Expected 1500, got %s", results[1].Expected.String())
	}
	if results[1].Observed.String() != "1400" {
		t.Errorf("Observed should be 1400, got %s", results[1].Observed.String())
	}
}

func TestValidate_RebaselineAfterMismatch(t *testing.T) {
	// A single bad row must not cascade: validation continues from the
	// observed balance, so the third row checks against 1400, not 1500.
	txs := []Transaction{
		txn("0", "0", "1000"),
		txn("500", "0", "1400"),
		txn("100", "0", "1500"),
	}
	results := Validate(txs)
	if results[1].OK {
		t.Errorf("Second row should mismatch")
	}
	if !results[2].OK {
		t.Errorf("Third row should pass against re-baselined 1400: expected %s observed %s",
			results[2].Expected.String(), results[2].Observed.String())
	}
}

func TestValidate_ToleranceBoundary(t *testing.T) {
	within := []Transaction{
		txn("0", "0", "100.00"),
		txn("10.00", "0", "110.01"),
	}
	if res := Validate(within); !res[1].OK {
		t.Errorf("Drift of exactly 0.01 should be within tolerance")
	}

	beyond := []Transaction{
		txn("0", "0", "100.00"),
		txn("10.00", "0", "110.02"),
	}
	if res := Validate(beyond); res[1].OK {
		t.Errorf("Drift of 0.02 should mismatch")
	}
}

func TestValidate_BroughtForwardReseeds(t *testing.T) {
	bf := Transaction{
		Date:    time.Date(2024, 2, 1, 0, 0, 0, 0, time.Local),
		Mode:    "B/F",
		Balance: d("9000"),
	}
	txs := []Transaction{
		txn("0", "0", "1000"),
		bf,
		txn("0", "500", "8500"),
	}
	results := Validate(txs)
	if !results[1].OK {
		t.Errorf("B/F row must never be flagged")
	}
	if !results[2].OK {
		t.Errorf("Row after B/F should validate against the carried balance: expected %s",
			results[2].Expected.String())
	}
}

func TestValidate_Empty(t *testing.T) {
	if results := Validate(nil); len(results) != 0 {
		t.Errorf("Expected no results for empty input, got %d", len(results))
	}
}

func TestSummarize(t *testing.T) {
	txs := []Transaction{
		txn("0", "0", "1000"),
		txn("500", "0", "1400"),
		txn("0", "100", "1300"),
	}
	summary := Summarize(Validate(txs))
	if summary.Transactions != 3 {
		t.Errorf("Expected 3 transactions, got %d", summary.Transactions)
	}
	if summary.Mismatches != 1 {
		t.Errorf("Expected 1 mismatch, got %d", summary.Mismatches)
	}
	if summary.FirstMismatch != 1 {
		t.Errorf("Expected first mismatch at index 1, got %d", summary.FirstMismatch)
	}
}

func TestSummarize_Clean(t *testing.T) {
	summary := Summarize(Validate([]Transaction{txn("0", "0", "1000")}))
	if summary.Mismatches != 0 || summary.FirstMismatch != -1 {
		t.Errorf("Clean ledger should report no mismatches, got %+v", summary)
	}
}
