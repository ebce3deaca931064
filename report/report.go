// Package report renders an assembled ledger for people and for machines:
// CSV and JSON exports plus a colored console summary of the balance
// validation results.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"

	"github.com/crednx/bankparser/ledger"
)

// maxMismatchRows caps the per-row mismatch detail in the console report so
// a badly extracted statement does not scroll the summary away.
const maxMismatchRows = 10

// CSVWriter writes the ledger's transactions in six-column statement form.
type CSVWriter struct {
	IncludeHeader bool
}

// WriteToFile writes the ledger to a CSV file at the given path.
func (w *CSVWriter) WriteToFile(path string, led *ledger.Ledger) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer f.Close()

	return w.Write(f, led)
}

// Write writes the ledger in CSV form to the given writer.
func (w *CSVWriter) Write(out io.Writer, led *ledger.Ledger) error {
	writer := csv.NewWriter(out)
	defer writer.Flush()

	if w.IncludeHeader {
		header := []string{"Date", "Mode", "Particulars", "Deposits", "Withdrawals", "Balance"}
		if err := writer.Write(header); err != nil {
			return fmt.Errorf("failed to write CSV header: %w", err)
		}
	}

	for _, txn := range led.Transactions {
		row := []string{
			txn.Date.Format("02/01/2006"),
			txn.Mode,
			txn.Particulars,
			formatAmount(txn.Deposit),
			formatAmount(txn.Withdrawal),
			txn.Balance.StringFixed(2),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	return nil
}

// WriteJSON dumps the whole ledger, validation results included, as
// indented JSON.
func WriteJSON(out io.Writer, led *ledger.Ledger) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(led)
}

// WriteJSONFile is WriteJSON targeting a file path.
func WriteJSONFile(path string, led *ledger.Ledger) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(f, led)
}

// Console prints the validation report: a pass/fail verdict, the totals and
// per-row detail for the first few mismatches.
func Console(out io.Writer, led *ledger.Ledger) {
	pass := color.New(color.FgGreen, color.Bold)
	fail := color.New(color.FgRed, color.Bold)
	dim := color.New(color.Faint)

	fmt.Fprintf(out, "Bank: %s\n", led.Bank)
	fmt.Fprintf(out, "Transactions: %d\n", led.Summary.Transactions)

	if led.Summary.Mismatches == 0 {
		pass.Fprintln(out, "BALANCE VALIDATION PASSED")
		return
	}

	fail.Fprintf(out, "BALANCE VALIDATION FAILED (%d mismatches, first at row %d)\n",
		led.Summary.Mismatches, led.Summary.FirstMismatch+1)

	shown := 0
	for _, res := range led.Results {
		if res.OK {
			continue
		}
		if shown == maxMismatchRows {
			dim.Fprintf(out, "  ... and %d more\n", led.Summary.Mismatches-shown)
			break
		}
		txn := led.Transactions[res.Index]
		diff := res.Observed.Sub(res.Expected)
		fmt.Fprintf(out, "  row %d  %s  %s\n", res.Index+1,
			txn.Date.Format("02/01/2006"), truncate(txn.Particulars, 48))
		fmt.Fprintf(out, "    expected %s  observed %s  difference %s\n",
			res.Expected.StringFixed(2), res.Observed.StringFixed(2), diff.StringFixed(2))
		shown++
	}
}

func formatAmount(d decimal.Decimal) string {
	if d.IsZero() {
		return ""
	}
	return d.StringFixed(2)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
