package accounting

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/nguyenphap-mt/am-thuc-giao-tuyet-sub000/internal/apperrors"
	"github.com/nguyenphap-mt/am-thuc-giao-tuyet-sub000/internal/core/domain"
)

// CalculateSignedAmount applies the correct sign to a line amount based on
// account type and side.
// DEBIT to ASSET/EXPENSE -> Positive (+)
// CREDIT to ASSET/EXPENSE -> Negative (-)
// DEBIT to LIABILITY/EQUITY/REVENUE -> Negative (-)
// CREDIT to LIABILITY/EQUITY/REVENUE -> Positive (+)
func CalculateSignedAmount(line domain.JournalLine, accountType domain.AccountType) (decimal.Decimal, error) {
	signedAmount := line.Amount()
	isDebit := line.IsDebit()

	switch accountType {
	case domain.Asset, domain.Expense:
		if !isDebit {
			signedAmount = signedAmount.Neg()
		}
	case domain.Liability, domain.Equity, domain.Revenue:
		if isDebit {
			signedAmount = signedAmount.Neg()
		}
	default:
		return decimal.Zero, fmt.Errorf("unknown account type '%s' encountered for account ID %s", accountType, line.AccountID)
	}
	return signedAmount, nil
}

// ValidateJournalLines enforces the double-entry invariants on a line set:
// at least two lines, exactly one positive side per line, and equal debit
// and credit sums.
func ValidateJournalLines(lines []domain.JournalLine) (total decimal.Decimal, err error) {
	if len(lines) < 2 {
		return decimal.Zero, apperrors.ErrTooFewLines
	}

	debitSum := decimal.Zero
	creditSum := decimal.Zero
	for _, line := range lines {
		debitSet := line.Debit.IsPositive()
		creditSet := line.Credit.IsPositive()
		if line.Debit.IsNegative() || line.Credit.IsNegative() {
			return decimal.Zero, apperrors.ErrNonPositiveAmount
		}
		if debitSet == creditSet {
			return decimal.Zero, apperrors.ErrDebitCreditOverlap
		}
		debitSum = debitSum.Add(line.Debit)
		creditSum = creditSum.Add(line.Credit)
	}

	if !debitSum.Equal(creditSum) {
		return decimal.Zero, apperrors.ErrUnbalancedEntry
	}
	return debitSum, nil
}

// ReversedLines returns the mirror of a posted line set: every debit
// becomes a credit of the same amount and vice versa. Identifiers are
// cleared so the caller can assign fresh ones.
func ReversedLines(lines []domain.JournalLine) []domain.JournalLine {
	reversed := make([]domain.JournalLine, len(lines))
	for i, line := range lines {
		reversed[i] = domain.JournalLine{
			AccountID:   line.AccountID,
			Debit:       line.Credit,
			Credit:      line.Debit,
			Description: line.Description,
		}
	}
	return reversed
}

// RetainedEarnings computes revenue minus expense from signed sums.
func RetainedEarnings(revenueNet, expenseNet decimal.Decimal) decimal.Decimal {
	return revenueNet.Sub(expenseNet)
}
