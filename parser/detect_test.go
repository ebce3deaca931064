package parser

import (
	"errors"
	"strings"
	"testing"
)

func TestDetect_HDFC(t *testing.T) {
	text := strings.Join([]string{
		"HDFC BANK Ltd.",
		"MR JOHN DOE",
		"Account No: 50100123456789",
		"Date Narration Chq./Ref.No. Value Dt Withdrawal Amt. Deposit Amt. Closing Balance",
		"01/04/24 UPI-COFFEE HOUSE-PAY 100.00 4,900.00",
		"02/04/24 SALARY APR 50,000.00 54,900.00",
		"03/04/24 ATM WDL 2,000.00 52,900.00",
	}, "\n")

	profile, err := Detect(text, Builtins())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if profile.Name != "HDFC" {
		t.Errorf("Expected HDFC, got %s", profile.Name)
	}
}

func TestDetect_ICICI(t *testing.T) {
	text := strings.Join([]string{
		"ICICI BANK LIMITED",
		"Statement of Account",
		"DATE MODE** PARTICULARS DEPOSITS WITHDRAWALS BALANCE",
		"01-04-2024 B/F B/F 0.00 0.00 10,000.00",
		"02-04-2024 NEFT SALARY CREDIT 50,000.00 0.00 60,000.00",
	}, "\n")

	profile, err := Detect(text, Builtins())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if profile.Name != "ICICI" {
		t.Errorf("Expected ICICI, got %s", profile.Name)
	}
}

func TestDetect_NarrationMentionDoesNotMisclassify(t *testing.T) {
	// An ICICI statement whose narrations mention another bank: the rival
	// bank's name sits below the first transaction row, outside the header
	// region, so it earns no indicator points.
	text := strings.Join([]string{
		"ICICI BANK LIMITED",
		"Statement of Account",
		"01-04-2024 NEFT IMPS TO HDFC BANK A/C 5,000.00 0.00 15,000.00",
		"02-04-2024 NEFT TRANSFER TO HDFC BANK SAVINGS 2,000.00 0.00 13,000.00",
		"03-04-2024 UPI HDFC BANK CREDIT CARD BILL 1,000.00 0.00 12,000.00",
		"04-04-2024 UPI HDFC BANK LOAN EMI 3,000.00 0.00 9,000.00",
		"05-04-2024 UPI HDFC BANK FD OPENING 1,000.00 0.00 8,000.00",
		"06-04-2024 UPI HDFC BANK RD 1,000.00 0.00 7,000.00",
	}, "\n")

	profile, err := Detect(text, Builtins())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if profile.Name != "ICICI" {
		t.Errorf("Expected ICICI despite narration mentions, got %s", profile.Name)
	}
}

func TestDetect_NoMatchIsAmbiguous(t *testing.T) {
	text := "Some random document\nwith no statement structure at all\n"

	_, err := Detect(text, Builtins())
	var ambiguous *AmbiguousDetectionError
	if !errors.As(err, &ambiguous) {
		t.Fatalf("Expected AmbiguousDetectionError, got %v", err)
	}
}

func TestDetect_TieIsAmbiguous(t *testing.T) {
	// Both banks named in the header, no transaction rows to break the tie.
	text := "HDFC BANK and ICICI BANK joint notice\nNo transactions here\n"

	_, err := Detect(text, Builtins())
	var ambiguous *AmbiguousDetectionError
	if !errors.As(err, &ambiguous) {
		t.Fatalf("Expected AmbiguousDetectionError for a tie, got %v", err)
	}
	if len(ambiguous.Candidates) != 2 {
		t.Errorf("Expected the two tied candidates, got %d", len(ambiguous.Candidates))
	}
}
