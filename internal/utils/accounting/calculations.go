package accounting

import (
	"fmt"

	"github.com/bizbooks-app/bizbooks_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PresentedBalance converts a raw debit-minus-credit balance into the figure
// presented for the account's type. Asset and expense balances are shown
// debit-positive; liability, equity and revenue balances credit-positive.
// Recomputation always stores the raw figure; sign convention is applied at
// the reporting layer only.
func PresentedBalance(accountType domain.AccountType, rawBalance decimal.Decimal) (decimal.Decimal, error) {
	switch accountType {
	case domain.Asset, domain.Expense:
		return rawBalance, nil
	case domain.Liability, domain.Equity, domain.Revenue:
		return rawBalance.Neg(), nil
	default:
		return decimal.Zero, fmt.Errorf("unknown account type '%s'", accountType)
	}
}

// TrialBalanceSides splits a raw balance into debit and credit columns for a
// trial balance row. A positive raw balance lands in the debit column, a
// negative one in the credit column, regardless of account type.
func TrialBalanceSides(rawBalance decimal.Decimal) (debit, credit decimal.Decimal) {
	if rawBalance.IsNegative() {
		return decimal.Zero, rawBalance.Neg()
	}
	return rawBalance, decimal.Zero
}

// ReplayBalances rewrites each line's running balance as the cumulative
// debit-minus-credit total over the slice and returns the final total, the
// account's raw balance. Lines must already be in replay order, that is
// (line_date, created_at, line_id) ascending. Every line contributes,
// including lines of draft entries; the fold reads nothing else, so replaying
// the same lines always yields the same snapshots.
func ReplayBalances(lines []domain.LedgerLine) decimal.Decimal {
	running := decimal.Zero
	for i := range lines {
		running = running.Add(lines[i].DebitAmount.Sub(lines[i].CreditAmount))
		lines[i].RunningBalance = running
	}
	return running
}

// ValidateEntryBalance checks the double-entry invariant for a set of ledger
// lines: both sides non-negative and debit total equal to credit total within
// domain.BalanceEpsilon.
func ValidateEntryBalance(lines []domain.LedgerLine) error {
	if len(lines) < 2 {
		return fmt.Errorf("journal entry must have at least two ledger lines")
	}

	debitTotal := decimal.Zero
	creditTotal := decimal.Zero
	for _, line := range lines {
		if line.DebitAmount.IsNegative() || line.CreditAmount.IsNegative() {
			return fmt.Errorf("ledger line amounts must be non-negative for account %s", line.AccountID)
		}
		if line.DebitAmount.IsZero() && line.CreditAmount.IsZero() {
			return fmt.Errorf("ledger line for account %s carries no amount", line.AccountID)
		}
		debitTotal = debitTotal.Add(line.DebitAmount)
		creditTotal = creditTotal.Add(line.CreditAmount)
	}

	if debitTotal.Sub(creditTotal).Abs().GreaterThan(domain.BalanceEpsilon) {
		return fmt.Errorf("journal entry does not balance: debit total is %s, credit total is %s",
			debitTotal.String(), creditTotal.String())
	}
	return nil
}

// EntryAmount computes the economic value of a balanced entry, which is the
// total of its debit side.
func EntryAmount(lines []domain.LedgerLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.DebitAmount)
	}
	return total
}
