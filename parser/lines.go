package parser

import (
	"regexp"

	"github.com/shopspring/decimal"
)

var (
	bareNumberRe = regexp.MustCompile(`^\d+$`)

	// Monetary values with grouping: Western (78,410.00) or Indian
	// (1,71,908.86) digit grouping, one or two decimal places.
	amountRe = regexp.MustCompile(`^\d+(?:,\d{2,3})*(?:\.\d{1,2})?$`)

	nonNumericRe = regexp.MustCompile(`[^0-9.]`)
)

// isTransactionID classifies bare numeric transaction-identifier lines:
// 4-12 digit integers with no grouping commas and no decimal point. These
// sit between a transaction's description and its amounts and must not be
// misread as amounts.
func isTransactionID(line string) bool {
	if !bareNumberRe.MatchString(line) {
		return false
	}
	return len(line) >= 4 && len(line) <= 12
}

// isAmount classifies a line as a monetary amount. Transaction IDs are
// rejected first; unformatted integer runs of 5, 9 or 10+ digits are also
// rejected because statements print amounts with grouping or decimals while
// reference numbers come bare.
func isAmount(line string) bool {
	if isTransactionID(line) {
		return false
	}
	if !amountRe.MatchString(line) {
		return false
	}
	if bareNumberRe.MatchString(line) {
		if len(line) == 5 || len(line) >= 9 {
			return false
		}
	}
	return true
}

// parseAmount converts an amount string to a decimal, stripping grouping
// commas and currency noise.
func parseAmount(s string) (decimal.Decimal, error) {
	clean := nonNumericRe.ReplaceAllString(s, "")
	if clean == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(clean)
}
