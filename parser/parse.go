package parser

import (
	"strings"
	"time"

	"github.com/crednx/bankparser/ledger"
	"github.com/shopspring/decimal"
)

// record is the parser's working form of a transaction before the
// debit/credit direction of every row is known.
type record struct {
	date        time.Time
	page        int
	mode        string
	particulars []string
	deposit     decimal.Decimal
	withdrawal  decimal.Decimal
	amount      decimal.Decimal
	balance     decimal.Decimal
	resolved    bool // direction already assigned by column position
	bf          bool
}

// pending is the open buffer for the transaction currently being
// accumulated. It survives page boundaries: a description split across
// pages merges into one transaction.
type pending struct {
	dateToken   string
	page        int
	line        int
	particulars []string
	amounts     []decimal.Decimal
	columnar    *record
}

// Parse walks the line stream of all pages in order and reconstructs
// discrete transactions using the given bank profile. Lines accumulate into
// the current transaction buffer until the next date line closes it; page
// furniture, summary blocks and bare numeric transaction-ID lines are
// suppressed. Output order is input reading order: Sequence is strictly
// increasing and no reordering happens here.
//
// Returns FormatMismatchError when the profile's validator predicate rejects
// the text outright. Malformed buffers (no parsable amount) are skipped and
// reported as Gaps; they never fail the rest of the document.
func Parse(pages [][]RawLine, profile *BankProfile) ([]ledger.Transaction, []Gap, error) {
	if !profile.Matches(joinPages(pages)) {
		return nil, nil, &FormatMismatchError{Bank: profile.Name}
	}

	var (
		records   []record
		gaps      []Gap
		cur       *pending
		inSummary bool
	)

	flush := func() {
		if cur == nil {
			return
		}
		rec, gap := closePending(cur, profile)
		if gap != nil {
			gaps = append(gaps, *gap)
		} else {
			records = append(records, *rec)
		}
		cur = nil
	}

	for pageIdx, page := range pages {
		pageNo := pageIdx + 1
		for _, raw := range page {
			line := strings.TrimSpace(raw.Text)
			if line == "" || profile.isNoise(line) {
				continue
			}
			if profile.isSummaryMarker(line) {
				flush()
				inSummary = true
				continue
			}

			if profile.startsWithDate(line) {
				// A bare date before any amounts have shown up is the
				// value-date column printed on its own line, not the
				// start of the next transaction.
				if cur != nil && cur.columnar == nil && isBareDate(line, profile) &&
					len(cur.amounts) == 0 && len(cur.particulars) > 0 {
					continue
				}
				flush()
				inSummary = false
				cur = openPending(line, pageNo, raw.Line, profile)
				continue
			}
			if inSummary || cur == nil {
				continue
			}
			if isTransactionID(line) {
				continue
			}
			if isAmount(line) {
				if amt, err := parseAmount(line); err == nil {
					cur.amounts = append(cur.amounts, amt)
				}
				continue
			}
			cur.particulars = append(cur.particulars, line)
		}
	}
	flush()

	resolveDirections(records, profile)

	txs := make([]ledger.Transaction, 0, len(records))
	for i, r := range records {
		particulars := strings.Join(r.particulars, " ")
		mode := r.mode
		if mode == "" {
			mode = profile.modeFor(particulars)
		}
		txs = append(txs, ledger.Transaction{
			Date:        r.date,
			Mode:        mode,
			Particulars: particulars,
			Deposit:     r.deposit,
			Withdrawal:  r.withdrawal,
			Balance:     r.balance,
			SourcePage:  r.page,
			Sequence:    i + 1,
		})
	}
	return txs, gaps, nil
}

// open starts a new transaction buffer from a date line. Columnar sources
// resolve the whole row at once via the profile's row pattern; otherwise the
// remainder of the line seeds the particulars, with any trailing amount
// tokens peeled off into the amounts buffer.
func openPending(line string, page, lineNo int, profile *BankProfile) *pending {
	cur := &pending{page: page, line: lineNo}

	if profile.Row != nil {
		if m := profile.Row.Re.FindStringSubmatch(line); m != nil {
			cur.columnar = rowRecord(m, profile.Row.Groups, page)
			cur.dateToken = group(m, profile.Row.Groups.Date)
			if p := group(m, profile.Row.Groups.Particulars); p != "" {
				cur.particulars = append(cur.particulars, p)
			}
			return cur
		}
	}

	date, rest, _ := profile.splitDate(line)
	cur.dateToken = date
	rest, trailing := splitTrailingAmounts(rest)
	if rest != "" {
		cur.particulars = append(cur.particulars, rest)
	}
	cur.amounts = append(cur.amounts, trailing...)
	return cur
}

// closePending finalizes the buffer into a record, or reports a gap when no
// parsable amounts were collected.
func closePending(cur *pending, profile *BankProfile) (*record, *Gap) {
	date, err := parseDate(cur.dateToken, profile)
	if err != nil {
		return nil, &Gap{Page: cur.page, Line: cur.line, Reason: "unparsable date " + cur.dateToken}
	}

	if cur.columnar != nil {
		rec := cur.columnar
		rec.date = date
		rec.particulars = cur.particulars
		// Continuation lines and amounts collected after a columnar
		// row still belong to it.
		if len(cur.amounts) > 0 && rec.balance.IsZero() {
			rec.balance = cur.amounts[len(cur.amounts)-1]
		}
		return rec, nil
	}

	rec := &record{date: date, page: cur.page, particulars: cur.particulars}
	rec.bf = broughtForward(cur.particulars)

	switch n := len(cur.amounts); {
	case n == 0:
		return nil, &Gap{Page: cur.page, Line: cur.line, Reason: "no parsable amount"}
	case n == 1 && rec.bf:
		rec.balance = cur.amounts[0]
		rec.resolved = true
	case n == 1:
		return nil, &Gap{Page: cur.page, Line: cur.line, Reason: "amount without running balance"}
	case n == 3:
		rec.deposit = cur.amounts[0]
		rec.withdrawal = cur.amounts[1]
		rec.balance = cur.amounts[2]
		rec.resolved = true
	default:
		rec.amount = cur.amounts[0]
		rec.balance = cur.amounts[n-1]
	}
	return rec, nil
}

// rowRecord assigns amounts by column position from a matched row pattern.
func rowRecord(m []string, g RowGroups, page int) *record {
	rec := &record{page: page}
	if g.Deposit > 0 && g.Withdrawal > 0 {
		rec.deposit, _ = parseAmount(group(m, g.Deposit))
		rec.withdrawal, _ = parseAmount(group(m, g.Withdrawal))
		rec.resolved = true
	} else if g.Amount > 0 {
		rec.amount, _ = parseAmount(group(m, g.Amount))
	}
	if g.Balance > 0 {
		rec.balance, _ = parseAmount(group(m, g.Balance))
	}
	if g.Mode > 0 {
		rec.mode = strings.TrimSpace(group(m, g.Mode))
		if rec.mode == "B/F" {
			rec.bf = true
			rec.resolved = true
		}
	}
	return rec
}

// resolveDirections decides deposit vs withdrawal for rows whose layout only
// yields one unsigned amount, by replaying the balance chain: whichever side
// of the equation lands closer to the observed balance wins. Rows before the
// chain is seeded fall back to the profile's withdrawal-leaning keywords.
func resolveDirections(records []record, profile *BankProfile) {
	var current decimal.Decimal
	seeded := false

	for i := range records {
		r := &records[i]
		if r.bf {
			current = r.balance
			seeded = true
			continue
		}
		if !r.resolved {
			if seeded {
				creditDiff := current.Add(r.amount).Sub(r.balance).Abs()
				debitDiff := current.Sub(r.amount).Sub(r.balance).Abs()
				if creditDiff.LessThan(debitDiff) {
					r.deposit = r.amount
				} else {
					r.withdrawal = r.amount
				}
			} else if debitHint(strings.Join(r.particulars, " ")) {
				r.withdrawal = r.amount
			} else {
				r.deposit = r.amount
			}
			r.resolved = true
		}
		current = r.balance
		seeded = true
	}
}

var debitKeywords = []string{"UPI", "ATM", "POS", "PAYMENT", "WITHDRAWAL", "NEFT", "IMPS", "DEBIT"}

func debitHint(particulars string) bool {
	upper := strings.ToUpper(particulars)
	for _, kw := range debitKeywords {
		if strings.Contains(upper, kw) {
			return true
		}
	}
	return false
}

func broughtForward(particulars []string) bool {
	for _, p := range particulars {
		if strings.Contains(p, "B/F") {
			return true
		}
	}
	return false
}

// splitTrailingAmounts peels amount tokens off the right edge of a
// single-line transaction remainder. A bare transaction-ID token sitting
// just before the amounts is dropped as well.
func splitTrailingAmounts(rest string) (string, []decimal.Decimal) {
	fields := strings.Fields(rest)
	var amounts []decimal.Decimal

	end := len(fields)
	for end > 0 && isAmount(fields[end-1]) {
		amt, err := parseAmount(fields[end-1])
		if err != nil {
			break
		}
		amounts = append([]decimal.Decimal{amt}, amounts...)
		end--
	}
	if len(amounts) > 0 && end > 0 && isTransactionID(fields[end-1]) {
		end--
	}
	return strings.Join(fields[:end], " "), amounts
}

// isBareDate reports whether the line is a date token and nothing else.
func isBareDate(line string, profile *BankProfile) bool {
	_, rest, ok := profile.splitDate(line)
	return ok && rest == ""
}

func parseDate(token string, profile *BankProfile) (time.Time, error) {
	var err error
	var t time.Time
	for _, layout := range profile.DateLayouts {
		t, err = time.ParseInLocation(layout, token, time.Local)
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}

func group(m []string, idx int) string {
	if idx <= 0 || idx >= len(m) {
		return ""
	}
	return m[idx]
}

func joinPages(pages [][]RawLine) string {
	var b strings.Builder
	for _, page := range pages {
		for _, l := range page {
			b.WriteString(l.Text)
			b.WriteByte('\n')
		}
	}
	return b.String()
}
