package services

import (
	"testing"
	"time"

	"github.com/bizbooks-app/bizbooks_backend/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var matchRunDate = time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC)

func debitLine(lineID string, date time.Time, amount int64) domain.LedgerLine {
	return domain.LedgerLine{
		LineID:       lineID,
		AccountID:    "acc-1",
		LineDate:     date,
		DebitAmount:  decimal.NewFromInt(amount),
		CreditAmount: decimal.Zero,
	}
}

func creditLine(lineID string, date time.Time, amount int64) domain.LedgerLine {
	return domain.LedgerLine{
		LineID:       lineID,
		AccountID:    "acc-1",
		LineDate:     date,
		DebitAmount:  decimal.Zero,
		CreditAmount: decimal.NewFromInt(amount),
	}
}

func creditStmt(date time.Time, amount int64, description string) domain.StatementTransaction {
	return domain.StatementTransaction{
		Date:        date,
		Description: description,
		Amount:      decimal.NewFromInt(amount),
		Type:        domain.StatementCredit,
	}
}

func TestMatchStatements_ExactMatch(t *testing.T) {
	lines := []domain.LedgerLine{debitLine("line-1", matchRunDate, 500)}
	stmts := []domain.StatementTransaction{creditStmt(matchRunDate, 500, "Customer deposit")}

	result, err := matchStatements("acc-1", stmts, lines)

	require.NoError(t, err)
	require.Len(t, result.Matched, 1)
	assert.Empty(t, result.Unmatched)
	assert.Empty(t, result.Adjustment)

	item := result.Matched[0]
	assert.Equal(t, domain.MatchExact, item.MatchType)
	assert.Equal(t, domain.ConfidenceHigh, item.Confidence)
	require.NotNil(t, item.Ledger)
	assert.Equal(t, "line-1", item.Ledger.LineID)
	assert.True(t, item.AmountDelta.IsZero())
	assert.Equal(t, 0, item.DateDeltaDays)
	assert.False(t, item.NeedsReview)
	assert.False(t, item.NeedsCreation)
}

func TestMatchStatements_ExactToleratesSmallDeltas(t *testing.T) {
	// 0.50 off and two days apart still counts as exact.
	line := domain.LedgerLine{
		LineID:      "line-1",
		AccountID:   "acc-1",
		LineDate:    matchRunDate.Add(2 * 24 * time.Hour),
		DebitAmount: decimal.NewFromFloat(500.50),
	}
	stmts := []domain.StatementTransaction{creditStmt(matchRunDate, 500, "Deposit")}

	result, err := matchStatements("acc-1", stmts, []domain.LedgerLine{line})

	require.NoError(t, err)
	require.Len(t, result.Matched, 1)
	assert.Equal(t, domain.MatchExact, result.Matched[0].MatchType)
	assert.Equal(t, 2, result.Matched[0].DateDeltaDays)
}

func TestMatchStatements_FuzzyMatchNeedsReview(t *testing.T) {
	// Five units off and five days apart: outside exact, inside fuzzy.
	lines := []domain.LedgerLine{debitLine("line-1", matchRunDate.Add(5*24*time.Hour), 505)}
	stmts := []domain.StatementTransaction{creditStmt(matchRunDate, 500, "Deposit")}

	result, err := matchStatements("acc-1", stmts, lines)

	require.NoError(t, err)
	assert.Empty(t, result.Matched)
	assert.Empty(t, result.Unmatched)
	require.Len(t, result.Adjustment, 1)

	item := result.Adjustment[0]
	assert.Equal(t, domain.MatchFuzzy, item.MatchType)
	assert.Equal(t, domain.ConfidenceMedium, item.Confidence)
	assert.True(t, item.NeedsReview)
	assert.True(t, item.AmountDelta.Equal(decimal.NewFromInt(5)))
	assert.Equal(t, 5, item.DateDeltaDays)
	assert.Equal(t, domain.ReconciliationUnderReview, result.Status)
}

func TestMatchStatements_NoMatchNeedsCreation(t *testing.T) {
	lines := []domain.LedgerLine{debitLine("line-1", matchRunDate, 500)}
	stmts := []domain.StatementTransaction{creditStmt(matchRunDate, 900, "Unknown deposit")}

	result, err := matchStatements("acc-1", stmts, lines)

	require.NoError(t, err)
	assert.Empty(t, result.Matched)
	require.Len(t, result.Unmatched, 1)

	item := result.Unmatched[0]
	assert.Equal(t, domain.MatchNone, item.MatchType)
	assert.Equal(t, domain.ConfidenceLow, item.Confidence)
	assert.Nil(t, item.Ledger)
	assert.True(t, item.NeedsCreation)
	assert.Equal(t, domain.ReconciliationUnderReview, result.Status)
}

func TestMatchStatements_EveryStatementClassifiedOnce(t *testing.T) {
	lines := []domain.LedgerLine{
		debitLine("line-1", matchRunDate, 100),
		debitLine("line-2", matchRunDate, 205),
	}
	stmts := []domain.StatementTransaction{
		creditStmt(matchRunDate, 100, "Exact"),
		creditStmt(matchRunDate, 200, "Fuzzy"),
		creditStmt(matchRunDate, 999, "Nothing close"),
	}

	result, err := matchStatements("acc-1", stmts, lines)

	require.NoError(t, err)
	total := len(result.Matched) + len(result.Unmatched) + len(result.Adjustment)
	assert.Equal(t, len(stmts), total)
	assert.Equal(t, 3, result.Stats.TotalItems)
	assert.Equal(t, 1, result.Stats.MatchedItems)
	assert.Equal(t, 1, result.Stats.AdjustedItems)
	assert.Equal(t, 1, result.Stats.UnmatchedItems)
}

func TestMatchStatements_LineClaimedOnlyOnce(t *testing.T) {
	// Two identical statement rows but one ledger line: the second row must
	// not reuse the claimed line.
	lines := []domain.LedgerLine{debitLine("line-1", matchRunDate, 500)}
	stmts := []domain.StatementTransaction{
		creditStmt(matchRunDate, 500, "Deposit"),
		creditStmt(matchRunDate, 500, "Duplicate deposit"),
	}

	result, err := matchStatements("acc-1", stmts, lines)

	require.NoError(t, err)
	require.Len(t, result.Matched, 1)
	require.Len(t, result.Unmatched, 1)
	assert.Equal(t, "line-1", result.Matched[0].Ledger.LineID)
	assert.Nil(t, result.Unmatched[0].Ledger)
}

func TestMatchStatements_PrefersSmallerAmountDelta(t *testing.T) {
	lines := []domain.LedgerLine{
		debitLine("line-far", matchRunDate, 500),
		debitLine("line-near", matchRunDate, 500),
	}
	lines[0].DebitAmount = decimal.NewFromFloat(500.90)
	lines[1].DebitAmount = decimal.NewFromFloat(500.10)

	stmts := []domain.StatementTransaction{creditStmt(matchRunDate, 500, "Deposit")}

	result, err := matchStatements("acc-1", stmts, lines)

	require.NoError(t, err)
	require.Len(t, result.Matched, 1)
	assert.Equal(t, "line-near", result.Matched[0].Ledger.LineID)
}

func TestMatchStatements_PrefersSmallerDateDelta(t *testing.T) {
	lines := []domain.LedgerLine{
		debitLine("line-far", matchRunDate.Add(2*24*time.Hour), 500),
		debitLine("line-near", matchRunDate.Add(24*time.Hour), 500),
	}
	stmts := []domain.StatementTransaction{creditStmt(matchRunDate, 500, "Deposit")}

	result, err := matchStatements("acc-1", stmts, lines)

	require.NoError(t, err)
	require.Len(t, result.Matched, 1)
	assert.Equal(t, "line-near", result.Matched[0].Ledger.LineID)
}

func TestMatchStatements_TieBreaksOnLineID(t *testing.T) {
	// Identical amount and date deltas resolve to the lowest line ID,
	// independent of slice order.
	lines := []domain.LedgerLine{
		debitLine("line-b", matchRunDate, 500),
		debitLine("line-a", matchRunDate, 500),
	}
	stmts := []domain.StatementTransaction{creditStmt(matchRunDate, 500, "Deposit")}

	result, err := matchStatements("acc-1", stmts, lines)

	require.NoError(t, err)
	require.Len(t, result.Matched, 1)
	assert.Equal(t, "line-a", result.Matched[0].Ledger.LineID)
}

func TestMatchStatements_ReconciledWhenDifferenceZero(t *testing.T) {
	lines := []domain.LedgerLine{
		debitLine("line-1", matchRunDate, 300),
		debitLine("line-2", matchRunDate, 200),
	}
	stmts := []domain.StatementTransaction{
		creditStmt(matchRunDate, 300, "Deposit A"),
		creditStmt(matchRunDate, 200, "Deposit B"),
	}

	result, err := matchStatements("acc-1", stmts, lines)

	require.NoError(t, err)
	assert.Equal(t, domain.ReconciliationReconciled, result.Status)
	assert.True(t, result.Stats.Difference.IsZero())
	assert.True(t, result.Stats.BankBalance.Equal(decimal.NewFromInt(500)))
	assert.True(t, result.Stats.LedgerBalance.Equal(decimal.NewFromInt(500)))
}

func TestMatchStatements_MatchedWhenDifferenceRemains(t *testing.T) {
	// A credit ledger line has a negative net, so it still pairs with a credit
	// statement by absolute amount while the signed balances diverge.
	lines := []domain.LedgerLine{creditLine("line-1", matchRunDate, 500)}
	stmts := []domain.StatementTransaction{creditStmt(matchRunDate, 500, "Deposit")}

	result, err := matchStatements("acc-1", stmts, lines)

	require.NoError(t, err)
	require.Len(t, result.Matched, 1)
	assert.Equal(t, domain.ReconciliationMatched, result.Status)
	assert.False(t, result.Stats.Difference.IsZero())
}

func TestMatchStatements_DebitStatementSignsBankBalance(t *testing.T) {
	stmt := domain.StatementTransaction{
		Date:        matchRunDate,
		Description: "Card payment",
		Amount:      decimal.NewFromInt(80),
		Type:        domain.StatementDebit,
	}
	lines := []domain.LedgerLine{creditLine("line-1", matchRunDate, 80)}

	result, err := matchStatements("acc-1", []domain.StatementTransaction{stmt}, lines)

	require.NoError(t, err)
	require.Len(t, result.Matched, 1)
	assert.True(t, result.Stats.BankBalance.Equal(decimal.NewFromInt(-80)))
	assert.True(t, result.Stats.LedgerBalance.Equal(decimal.NewFromInt(-80)))
	assert.Equal(t, domain.ReconciliationReconciled, result.Status)
}

func TestMatchStatements_EmptyInputs(t *testing.T) {
	result, err := matchStatements("acc-1", nil, nil)

	require.NoError(t, err)
	assert.Empty(t, result.Matched)
	assert.Empty(t, result.Unmatched)
	assert.Empty(t, result.Adjustment)
	assert.Equal(t, 0, result.Stats.TotalItems)
	assert.Equal(t, domain.ReconciliationReconciled, result.Status)
}
