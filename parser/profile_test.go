package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileSplitDate(t *testing.T) {
	hdfc := profileByName(t, "HDFC")

	cases := []struct {
		line     string
		wantDate string
		wantRest string
		wantOK   bool
	}{
		{"01/04/24 UPI-COFFEE HOUSE", "01/04/24", "UPI-COFFEE HOUSE", true},
		{"01/04/2024 SALARY", "01/04/2024", "SALARY", true},
		{"01/04/24", "01/04/24", "", true},
		{"UPI-COFFEE 01/04/24", "", "", false},
		{"NARRATION ONLY", "", "", false},
	}
	for _, c := range cases {
		date, rest, ok := hdfc.splitDate(c.line)
		assert.Equal(t, c.wantOK, ok, "line %q", c.line)
		assert.Equal(t, c.wantDate, date, "line %q", c.line)
		assert.Equal(t, c.wantRest, rest, "line %q", c.line)
	}
}

func TestProfileIsNoise(t *testing.T) {
	hdfc := profileByName(t, "HDFC")

	// Single column titles and the whole title row joined into one line are
	// both page furniture.
	assert.True(t, hdfc.isNoise("Narration"))
	assert.True(t, hdfc.isNoise("Date Narration Chq./Ref.No. Value Dt Withdrawal Amt. Deposit Amt. Closing Balance"))
	assert.True(t, hdfc.isNoise("Page No .: 3"))

	assert.False(t, hdfc.isNoise("UPI-NARRATION OF A REAL ROW"))
	assert.False(t, hdfc.isNoise("Closing Balance 54,900.00"))
}

func TestProfileModeFor(t *testing.T) {
	hdfc := profileByName(t, "HDFC")

	assert.Equal(t, "UPI", hdfc.modeFor("UPI-COFFEE HOUSE-PAY"))
	assert.Equal(t, "NEFT", hdfc.modeFor("neft corp payroll"))
	assert.Equal(t, "", hdfc.modeFor("INTEREST CAPITALISED"))

	// Declaration order breaks ties when several keywords appear.
	assert.Equal(t, "UPI", hdfc.modeFor("UPI VIA IMPS RAIL"))
}

func TestProfileMatches(t *testing.T) {
	icici := profileByName(t, "ICICI")
	require.True(t, icici.Matches("statement issued by icici bank limited"))
	require.False(t, icici.Matches("statement issued by some other bank"))
}
