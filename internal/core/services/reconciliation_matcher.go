package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bizbooks-app/bizbooks_backend/internal/apperrors"
	"github.com/bizbooks-app/bizbooks_backend/internal/core/domain"
)

// Matching tolerances. Exact pairs within one currency unit and three days;
// fuzzy relaxes to ten units and seven days and routes the item to review.
var (
	exactAmountTolerance = decimal.NewFromInt(1)
	fuzzyAmountTolerance = decimal.NewFromInt(10)
)

const (
	exactDateTolerance = 3 * 24 * time.Hour
	fuzzyDateTolerance = 7 * 24 * time.Hour
)

// candidate is one unclaimed ledger line scored against a statement item.
type candidate struct {
	line        domain.LedgerLine
	amountDelta decimal.Decimal
	dateDelta   time.Duration
}

// better reports whether c ranks ahead of other. Tie-break order: smallest
// amount delta, then smallest date delta, then lowest line ID. Explicit
// ranking here replaces dependence on ledger array order.
func (c candidate) better(other candidate) bool {
	if !c.amountDelta.Equal(other.amountDelta) {
		return c.amountDelta.LessThan(other.amountDelta)
	}
	if c.dateDelta != other.dateDelta {
		return c.dateDelta < other.dateDelta
	}
	return c.line.LineID < other.line.LineID
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}

// matchStatements classifies every statement transaction against the given
// ledger lines. A ledger line consumed by one match is never reused for a
// later statement item within the run; claimed line IDs are tracked in a set.
// The function is pure: it never mutates its inputs and holds no state across
// runs.
func matchStatements(accountID string, stmts []domain.StatementTransaction, lines []domain.LedgerLine) (*domain.ReconciliationResult, error) {
	claimed := make(map[string]struct{}, len(stmts))

	result := &domain.ReconciliationResult{
		AccountID:  accountID,
		Matched:    []domain.ReconciliationItem{},
		Unmatched:  []domain.ReconciliationItem{},
		Adjustment: []domain.ReconciliationItem{},
	}

	bankBalance := decimal.Zero
	ledgerBalance := decimal.Zero

	for _, stmt := range stmts {
		bankBalance = bankBalance.Add(stmt.SignedAmount())

		var bestExact, bestFuzzy *candidate
		for i := range lines {
			line := lines[i]
			if _, taken := claimed[line.LineID]; taken {
				continue
			}

			cand := candidate{
				line:        line,
				amountDelta: line.Net().Abs().Sub(stmt.Amount).Abs(),
				dateDelta:   absDuration(line.LineDate.Sub(stmt.Date)),
			}

			if cand.amountDelta.LessThan(exactAmountTolerance) && cand.dateDelta < exactDateTolerance {
				if bestExact == nil || cand.better(*bestExact) {
					c := cand
					bestExact = &c
				}
			} else if cand.amountDelta.LessThan(fuzzyAmountTolerance) && cand.dateDelta < fuzzyDateTolerance {
				if bestFuzzy == nil || cand.better(*bestFuzzy) {
					c := cand
					bestFuzzy = &c
				}
			}
		}

		item := domain.ReconciliationItem{
			ItemID:    uuid.NewString(),
			Statement: stmt,
		}

		switch {
		case bestExact != nil:
			if err := claim(claimed, bestExact.line.LineID); err != nil {
				return nil, err
			}
			line := bestExact.line
			item.Ledger = &line
			item.MatchType = domain.MatchExact
			item.Confidence = domain.ConfidenceHigh
			item.AmountDelta = bestExact.amountDelta
			item.DateDeltaDays = int(bestExact.dateDelta / (24 * time.Hour))
			ledgerBalance = ledgerBalance.Add(line.Net())
			result.Matched = append(result.Matched, item)

		case bestFuzzy != nil:
			if err := claim(claimed, bestFuzzy.line.LineID); err != nil {
				return nil, err
			}
			line := bestFuzzy.line
			item.Ledger = &line
			item.MatchType = domain.MatchFuzzy
			item.Confidence = domain.ConfidenceMedium
			item.AmountDelta = bestFuzzy.amountDelta
			item.DateDeltaDays = int(bestFuzzy.dateDelta / (24 * time.Hour))
			item.NeedsReview = true
			ledgerBalance = ledgerBalance.Add(line.Net())
			result.Adjustment = append(result.Adjustment, item)

		default:
			item.MatchType = domain.MatchNone
			item.Confidence = domain.ConfidenceLow
			item.NeedsCreation = true
			result.Unmatched = append(result.Unmatched, item)
		}
	}

	result.Stats = domain.ReconciliationStats{
		TotalItems:     len(stmts),
		MatchedItems:   len(result.Matched),
		UnmatchedItems: len(result.Unmatched),
		AdjustedItems:  len(result.Adjustment),
		BankBalance:    bankBalance,
		LedgerBalance:  ledgerBalance,
		Difference:     bankBalance.Sub(ledgerBalance),
	}
	result.Status = runStatus(result.Stats)

	return result, nil
}

// claim records a ledger line as consumed within the run. Double claims are a
// programming defect, surfaced as ErrMatchInconsistency rather than silently
// letting one line satisfy two statement transactions.
func claim(claimed map[string]struct{}, lineID string) error {
	if _, taken := claimed[lineID]; taken {
		return fmt.Errorf("%w: line %s", apperrors.ErrMatchInconsistency, lineID)
	}
	claimed[lineID] = struct{}{}
	return nil
}

// runStatus derives the run's position in the reconciliation state machine.
// Pending fuzzy or unmatched items hold the run in under-review; reaching
// reconciled additionally requires a zero difference. There is no automatic
// path from under-review to reconciled; that takes resolution of every
// pending item or an explicit override.
func runStatus(stats domain.ReconciliationStats) domain.ReconciliationStatus {
	pending := stats.UnmatchedItems + stats.AdjustedItems
	switch {
	case pending > 0:
		return domain.ReconciliationUnderReview
	case stats.Difference.IsZero():
		return domain.ReconciliationReconciled
	default:
		return domain.ReconciliationMatched
	}
}
