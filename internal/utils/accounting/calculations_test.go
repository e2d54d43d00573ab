package accounting_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nguyenphap-mt/am-thuc-giao-tuyet-sub000/internal/apperrors"
	"github.com/nguyenphap-mt/am-thuc-giao-tuyet-sub000/internal/core/domain"
	"github.com/nguyenphap-mt/am-thuc-giao-tuyet-sub000/internal/utils/accounting"
)

func debitLine(amount int64) domain.JournalLine {
	return domain.JournalLine{Debit: decimal.NewFromInt(amount)}
}

func creditLine(amount int64) domain.JournalLine {
	return domain.JournalLine{Credit: decimal.NewFromInt(amount)}
}

func TestValidateJournalLines_Balanced(t *testing.T) {
	total, err := accounting.ValidateJournalLines([]domain.JournalLine{
		debitLine(60),
		debitLine(40),
		creditLine(100),
	})
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(100)))
}

func TestValidateJournalLines_TooFewLines(t *testing.T) {
	_, err := accounting.ValidateJournalLines([]domain.JournalLine{debitLine(100)})
	assert.ErrorIs(t, err, apperrors.ErrTooFewLines)
}

func TestValidateJournalLines_Unbalanced(t *testing.T) {
	_, err := accounting.ValidateJournalLines([]domain.JournalLine{
		debitLine(100),
		creditLine(90),
	})
	assert.ErrorIs(t, err, apperrors.ErrUnbalancedEntry)
}

func TestValidateJournalLines_BothSidesSet(t *testing.T) {
	_, err := accounting.ValidateJournalLines([]domain.JournalLine{
		{Debit: decimal.NewFromInt(50), Credit: decimal.NewFromInt(50)},
		creditLine(50),
	})
	assert.ErrorIs(t, err, apperrors.ErrDebitCreditOverlap)
}

func TestValidateJournalLines_NeitherSideSet(t *testing.T) {
	_, err := accounting.ValidateJournalLines([]domain.JournalLine{
		debitLine(50),
		{},
	})
	assert.ErrorIs(t, err, apperrors.ErrDebitCreditOverlap)
}

func TestValidateJournalLines_NegativeAmount(t *testing.T) {
	_, err := accounting.ValidateJournalLines([]domain.JournalLine{
		{Debit: decimal.NewFromInt(-10)},
		creditLine(10),
	})
	assert.ErrorIs(t, err, apperrors.ErrNonPositiveAmount)
}

func TestCalculateSignedAmount(t *testing.T) {
	amount := decimal.NewFromInt(100)
	testCases := []struct {
		name        string
		line        domain.JournalLine
		accountType domain.AccountType
		expected    decimal.Decimal
	}{
		{"debit asset is positive", debitLine(100), domain.Asset, amount},
		{"credit asset is negative", creditLine(100), domain.Asset, amount.Neg()},
		{"debit expense is positive", debitLine(100), domain.Expense, amount},
		{"debit liability is negative", debitLine(100), domain.Liability, amount.Neg()},
		{"credit revenue is positive", creditLine(100), domain.Revenue, amount},
		{"debit revenue is negative", debitLine(100), domain.Revenue, amount.Neg()},
		{"credit equity is positive", creditLine(100), domain.Equity, amount},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			signed, err := accounting.CalculateSignedAmount(tc.line, tc.accountType)
			require.NoError(t, err)
			assert.True(t, signed.Equal(tc.expected), "got %s, want %s", signed, tc.expected)
		})
	}
}

func TestCalculateSignedAmount_UnknownType(t *testing.T) {
	_, err := accounting.CalculateSignedAmount(debitLine(100), domain.AccountType("BOGUS"))
	assert.Error(t, err)
}

func TestReversedLines(t *testing.T) {
	original := []domain.JournalLine{
		{LineID: "a", JournalID: "j", AccountID: "acc-1", Debit: decimal.NewFromInt(70), Description: "thu"},
		{LineID: "b", JournalID: "j", AccountID: "acc-2", Credit: decimal.NewFromInt(70), Description: "ghi có"},
	}

	reversed := accounting.ReversedLines(original)

	require.Len(t, reversed, 2)
	assert.True(t, reversed[0].Credit.Equal(decimal.NewFromInt(70)))
	assert.True(t, reversed[0].Debit.IsZero())
	assert.True(t, reversed[1].Debit.Equal(decimal.NewFromInt(70)))
	assert.Equal(t, "acc-1", reversed[0].AccountID)
	assert.Equal(t, "thu", reversed[0].Description)
	// Identifiers are cleared so the reversal gets fresh ones.
	assert.Empty(t, reversed[0].LineID)
	assert.Empty(t, reversed[0].JournalID)
}

func TestRetainedEarnings(t *testing.T) {
	result := accounting.RetainedEarnings(decimal.NewFromInt(500), decimal.NewFromInt(320))
	assert.True(t, result.Equal(decimal.NewFromInt(180)))
}
