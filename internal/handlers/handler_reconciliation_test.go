package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bizbooks-app/bizbooks_backend/internal/apperrors"
	"github.com/bizbooks-app/bizbooks_backend/internal/core/domain"
	portssvc "github.com/bizbooks-app/bizbooks_backend/internal/core/ports/services"
	"github.com/bizbooks-app/bizbooks_backend/internal/dto"
	"github.com/bizbooks-app/bizbooks_backend/internal/handlers"
	"github.com/bizbooks-app/bizbooks_backend/pkg/config"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ReconciliationHandlerTestSuite struct {
	suite.Suite
	router                    *gin.Engine
	mockReconciliationService *MockReconciliationService
	businessID                string
}

func (suite *ReconciliationHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.businessID = uuid.NewString()

	suite.mockReconciliationService = new(MockReconciliationService)

	container := &portssvc.ServiceContainer{
		Account:        new(MockAccountService),
		Journal:        new(MockJournalService),
		Reconciliation: suite.mockReconciliationService,
		Reporting:      new(MockReportingService),
	}
	handlers.RegisterRoutes(suite.router, &config.Config{IsProduction: true}, container)
}

func (suite *ReconciliationHandlerTestSuite) serve(req *http.Request) *httptest.ResponseRecorder {
	req.Header.Set("X-Business-ID", suite.businessID)
	req.Header.Set("X-Actor-ID", "tester")
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *ReconciliationHandlerTestSuite) TestAutoMatch_ResponseShape() {
	accountID := uuid.NewString()
	body := fmt.Sprintf(`{
		"accountId": %q,
		"statementTransactions": [
			{"date": "2025-06-02T00:00:00Z", "description": "Card settlement", "amount": "500", "type": "credit", "reference": "STMT-1"},
			{"date": "2025-06-04T00:00:00Z", "description": "Unknown fee", "amount": "12.50", "type": "debit", "reference": "STMT-2"}
		]
	}`, accountID)

	matchedLine := domain.LedgerLine{
		LineID:       uuid.NewString(),
		JournalID:    uuid.NewString(),
		AccountID:    accountID,
		LineDate:     time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		DebitAmount:  decimal.NewFromInt(500),
		CreditAmount: decimal.Zero,
	}
	result := &domain.ReconciliationResult{
		AccountID: accountID,
		Matched: []domain.ReconciliationItem{{
			ItemID:     uuid.NewString(),
			Statement:  domain.StatementTransaction{Date: matchedLine.LineDate, Amount: decimal.NewFromInt(500), Type: domain.StatementCredit, Reference: "STMT-1"},
			Ledger:     &matchedLine,
			MatchType:  domain.MatchExact,
			Confidence: domain.ConfidenceHigh,
		}},
		Unmatched: []domain.ReconciliationItem{{
			ItemID:        uuid.NewString(),
			Statement:     domain.StatementTransaction{Date: time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC), Amount: decimal.NewFromFloat(12.50), Type: domain.StatementDebit, Reference: "STMT-2"},
			MatchType:     domain.MatchNone,
			Confidence:    domain.ConfidenceLow,
			NeedsCreation: true,
		}},
		Adjustment: []domain.ReconciliationItem{},
		Stats: domain.ReconciliationStats{
			TotalItems:     2,
			MatchedItems:   1,
			UnmatchedItems: 1,
			BankBalance:    decimal.NewFromFloat(487.50),
			LedgerBalance:  decimal.NewFromInt(500),
			Difference:     decimal.NewFromFloat(12.50),
		},
		Status: domain.ReconciliationUnderReview,
	}

	suite.mockReconciliationService.On("AutoMatch",
		mock.Anything,
		suite.businessID,
		accountID,
		mock.MatchedBy(func(stmts []domain.StatementTransaction) bool {
			return len(stmts) == 2 && stmts[0].Amount.Equal(decimal.NewFromInt(500)) && stmts[1].Type == domain.StatementDebit
		}),
	).Return(result, nil).Once()

	req, _ := http.NewRequest(http.MethodPost, "/api/v1/reconciliation/auto-match", bytes.NewBufferString(body))
	w := suite.serve(req)

	suite.Equal(http.StatusOK, w.Code)

	// Every section of the contract must be present as its own top-level key.
	var raw map[string]json.RawMessage
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &raw))
	for _, key := range []string{"bankStatement", "ledgerEntries", "matchedItems", "unmatchedItems", "adjustments", "summary", "status"} {
		suite.Contains(raw, key)
	}

	var resp dto.AutoMatchResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.BankStatement, 2)
	suite.Equal("STMT-1", resp.BankStatement[0].Reference)
	suite.Require().Len(resp.LedgerEntries, 1)
	suite.Equal(matchedLine.LineID, resp.LedgerEntries[0].LineID)
	suite.Require().Len(resp.MatchedItems, 1)
	suite.Equal(domain.MatchExact, resp.MatchedItems[0].MatchType)
	suite.Require().Len(resp.UnmatchedItems, 1)
	suite.True(resp.UnmatchedItems[0].NeedsCreation)
	suite.Empty(resp.Adjustments)
	suite.Equal(2, resp.Summary.TotalItems)
	suite.True(resp.Summary.Difference.Equal(decimal.NewFromFloat(12.50)))
	suite.Equal(domain.ReconciliationUnderReview, resp.Status)

	suite.mockReconciliationService.AssertExpectations(suite.T())
}

func (suite *ReconciliationHandlerTestSuite) TestAutoMatch_AccountNotFound() {
	body := `{"accountId": "missing", "statementTransactions": [{"date": "2025-06-02T00:00:00Z", "amount": "10", "type": "credit"}]}`

	suite.mockReconciliationService.On("AutoMatch", mock.Anything, suite.businessID, "missing", mock.Anything).
		Return(nil, apperrors.ErrNotFound).Once()

	req, _ := http.NewRequest(http.MethodPost, "/api/v1/reconciliation/auto-match", bytes.NewBufferString(body))
	w := suite.serve(req)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *ReconciliationHandlerTestSuite) TestAutoMatch_InvalidStatement() {
	accountID := uuid.NewString()
	body := fmt.Sprintf(`{"accountId": %q, "statementTransactions": [{"date": "2025-06-02T00:00:00Z", "amount": "10", "type": "credit"}]}`, accountID)

	suite.mockReconciliationService.On("AutoMatch", mock.Anything, suite.businessID, accountID, mock.Anything).
		Return(nil, fmt.Errorf("%w: statement amounts must be non-negative", apperrors.ErrValidation)).Once()

	req, _ := http.NewRequest(http.MethodPost, "/api/v1/reconciliation/auto-match", bytes.NewBufferString(body))
	w := suite.serve(req)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func TestReconciliationHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(ReconciliationHandlerTestSuite))
}
