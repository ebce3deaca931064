package ledger

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a single reconstructed statement entry. Deposit and
// Withdrawal are mutually exclusive; the synthetic brought-forward row
// carries a balance only. Transactions are read-only once emitted by the
// parser.
type Transaction struct {
	Date        time.Time       `json:"date"`
	Mode        string          `json:"mode"`
	Particulars string          `json:"particulars"`
	Deposit     decimal.Decimal `json:"deposit"`
	Withdrawal  decimal.Decimal `json:"withdrawal"`
	Balance     decimal.Decimal `json:"balance"`
	SourcePage  int             `json:"source_page"`
	Sequence    int             `json:"sequence"`
}

// BroughtForward reports whether the transaction is the opening carryover
// row that seeds the balance chain.
func (t Transaction) BroughtForward() bool {
	return t.Mode == "B/F" || (t.Mode == "" && strings.Contains(t.Particulars, "B/F"))
}

// ValidationResult is the balance-equation verdict for one transaction.
// Expected and Observed are only meaningful when OK is false.
type ValidationResult struct {
	Index    int             `json:"index"`
	OK       bool            `json:"ok"`
	Expected decimal.Decimal `json:"expected,omitempty"`
	Observed decimal.Decimal `json:"observed,omitempty"`
}

// Summary aggregates a validation run.
type Summary struct {
	Transactions  int `json:"transactions"`
	Mismatches    int `json:"mismatches"`
	FirstMismatch int `json:"first_mismatch"` // -1 when clean
}

// Ledger is the consolidated, validated output for one document (or one
// batch of documents for the same account). Immutable once returned.
type Ledger struct {
	Bank         string             `json:"bank"`
	Transactions []Transaction      `json:"transactions"`
	Results      []ValidationResult `json:"validation"`
	Summary      Summary            `json:"summary"`
}
