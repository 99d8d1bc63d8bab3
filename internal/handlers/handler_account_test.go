package handlers_test

import (
	"bytes"
	"context"
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

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

func (m *MockAccountService) CreateAccount(ctx context.Context, businessID string, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error) {
	args := m.Called(ctx, businessID, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) GetAccountByID(ctx context.Context, businessID string, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, businessID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) GetAccountsByIDs(ctx context.Context, businessID string, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, businessID, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}
func (m *MockAccountService) ListAccounts(ctx context.Context, businessID string) ([]domain.Account, error) {
	args := m.Called(ctx, businessID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}
func (m *MockAccountService) DeleteAccount(ctx context.Context, businessID string, accountID string, userID string) error {
	args := m.Called(ctx, businessID, accountID, userID)
	return args.Error(0)
}

// --- Mock JournalService ---
type MockJournalService struct {
	mock.Mock
}

var _ portssvc.JournalSvcFacade = (*MockJournalService)(nil)

func (m *MockJournalService) CreateJournalEntry(ctx context.Context, businessID string, req dto.CreateJournalEntryRequest, creatorUserID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, businessID, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}
func (m *MockJournalService) GetJournalEntryByID(ctx context.Context, businessID string, journalID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, businessID, journalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}
func (m *MockJournalService) ListJournalEntries(ctx context.Context, businessID string, params dto.ListJournalEntriesParams) (*dto.ListJournalEntriesResponse, error) {
	args := m.Called(ctx, businessID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListJournalEntriesResponse), args.Error(1)
}
func (m *MockJournalService) UpdateJournalEntry(ctx context.Context, businessID string, journalID string, req dto.UpdateJournalEntryRequest, userID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, businessID, journalID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}
func (m *MockJournalService) DeleteJournalEntry(ctx context.Context, businessID string, journalID string, userID string) error {
	args := m.Called(ctx, businessID, journalID, userID)
	return args.Error(0)
}
func (m *MockJournalService) ReverseJournalEntry(ctx context.Context, businessID string, journalID string, userID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, businessID, journalID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}
func (m *MockJournalService) ListLedgerLines(ctx context.Context, businessID string, accountID string, params dto.ListLedgerLinesParams) (*dto.ListLedgerLinesResponse, error) {
	args := m.Called(ctx, businessID, accountID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListLedgerLinesResponse), args.Error(1)
}
func (m *MockJournalService) RecomputeBalance(ctx context.Context, businessID string, accountID string) (decimal.Decimal, error) {
	args := m.Called(ctx, businessID, accountID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// --- Mock ReconciliationService ---
type MockReconciliationService struct {
	mock.Mock
}

var _ portssvc.ReconciliationSvcFacade = (*MockReconciliationService)(nil)

func (m *MockReconciliationService) AutoMatch(ctx context.Context, businessID string, accountID string, stmts []domain.StatementTransaction) (*domain.ReconciliationResult, error) {
	args := m.Called(ctx, businessID, accountID, stmts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReconciliationResult), args.Error(1)
}
func (m *MockReconciliationService) ApproveMatches(ctx context.Context, businessID string, itemIDs []string, userID string) []dto.ItemOutcome {
	args := m.Called(ctx, businessID, itemIDs, userID)
	return args.Get(0).([]dto.ItemOutcome)
}
func (m *MockReconciliationService) CreateEntriesForUnmatched(ctx context.Context, businessID string, req dto.CreateEntriesForUnmatchedRequest, userID string) []dto.ItemOutcome {
	args := m.Called(ctx, businessID, req, userID)
	return args.Get(0).([]dto.ItemOutcome)
}
func (m *MockReconciliationService) BulkAction(ctx context.Context, businessID string, req dto.BulkActionRequest, userID string) ([]dto.ItemOutcome, error) {
	args := m.Called(ctx, businessID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.ItemOutcome), args.Error(1)
}
func (m *MockReconciliationService) LockReconciliation(ctx context.Context, businessID string, req dto.LockReconciliationRequest, userID string) (*domain.ReconciliationLock, error) {
	args := m.Called(ctx, businessID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReconciliationLock), args.Error(1)
}
func (m *MockReconciliationService) ListLocks(ctx context.Context, businessID string, accountID string) ([]domain.ReconciliationLock, error) {
	args := m.Called(ctx, businessID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ReconciliationLock), args.Error(1)
}

// --- Mock ReportingService ---
type MockReportingService struct {
	mock.Mock
}

var _ portssvc.ReportingService = (*MockReportingService)(nil)

func (m *MockReportingService) TrialBalance(ctx context.Context, businessID string, asOf time.Time) (*domain.TrialBalanceReport, error) {
	args := m.Called(ctx, businessID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TrialBalanceReport), args.Error(1)
}

// --- Test Suite ---
type AccountHandlerTestSuite struct {
	suite.Suite
	router             *gin.Engine
	mockAccountService *MockAccountService
	mockJournalService *MockJournalService
	businessID         string
}

func (suite *AccountHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.businessID = uuid.NewString()

	suite.mockAccountService = new(MockAccountService)
	suite.mockJournalService = new(MockJournalService)

	container := &portssvc.ServiceContainer{
		Account:        suite.mockAccountService,
		Journal:        suite.mockJournalService,
		Reconciliation: new(MockReconciliationService),
		Reporting:      new(MockReportingService),
	}
	// Production config keeps swagger routes out of the test router.
	handlers.RegisterRoutes(suite.router, &config.Config{IsProduction: true}, container)
}

func (suite *AccountHandlerTestSuite) serve(req *http.Request) *httptest.ResponseRecorder {
	req.Header.Set("X-Business-ID", suite.businessID)
	req.Header.Set("X-Actor-ID", "tester")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Test Cases ---

func (suite *AccountHandlerTestSuite) TestCreateAccount_Success() {
	body := `{"code":"1000","name":"Business Checking","accountType":"ASSET"}`
	created := &domain.Account{
		AccountID:   uuid.NewString(),
		BusinessID:  suite.businessID,
		Code:        "1000",
		Name:        "Business Checking",
		AccountType: domain.Asset,
		IsActive:    true,
		Balance:     decimal.Zero,
	}

	suite.mockAccountService.On("CreateAccount",
		mock.Anything,
		suite.businessID,
		mock.MatchedBy(func(r dto.CreateAccountRequest) bool {
			return r.Code == "1000" && r.AccountType == domain.Asset
		}),
		"tester",
	).Return(created, nil).Once()

	req, _ := http.NewRequest(http.MethodPost, "/api/v1/accounts", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := suite.serve(req)

	suite.Equal(http.StatusCreated, w.Code)

	var resp dto.AccountResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(created.AccountID, resp.AccountID)
	suite.Equal("1000", resp.Code)
	suite.mockAccountService.AssertExpectations(suite.T())
}

func (suite *AccountHandlerTestSuite) TestCreateAccount_DuplicateCode() {
	body := `{"code":"1000","name":"Business Checking","accountType":"ASSET"}`

	suite.mockAccountService.On("CreateAccount", mock.Anything, suite.businessID, mock.Anything, "tester").
		Return(nil, fmt.Errorf("%w: account code 1000 already exists", apperrors.ErrConflict)).Once()

	req, _ := http.NewRequest(http.MethodPost, "/api/v1/accounts", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := suite.serve(req)

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *AccountHandlerTestSuite) TestCreateAccount_MissingBusinessHeader() {
	body := `{"code":"1000","name":"Business Checking","accountType":"ASSET"}`

	req, _ := http.NewRequest(http.MethodPost, "/api/v1/accounts", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockAccountService.AssertNotCalled(suite.T(), "CreateAccount", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountHandlerTestSuite) TestGetAccount_NotFound() {
	accountID := uuid.NewString()

	suite.mockAccountService.On("GetAccountByID", mock.Anything, suite.businessID, accountID).
		Return(nil, apperrors.ErrNotFound).Once()

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/accounts/"+accountID, nil)
	w := suite.serve(req)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *AccountHandlerTestSuite) TestListLedgerLines_Success() {
	accountID := uuid.NewString()
	expected := &dto.ListLedgerLinesResponse{
		Lines: []dto.LedgerLineResponse{
			{
				LineID:         uuid.NewString(),
				JournalID:      uuid.NewString(),
				AccountID:      accountID,
				Date:           time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
				DebitAmount:    decimal.NewFromInt(100),
				CreditAmount:   decimal.Zero,
				RunningBalance: decimal.NewFromInt(100),
			},
		},
	}

	suite.mockJournalService.On("ListLedgerLines",
		mock.Anything,
		suite.businessID,
		accountID,
		mock.MatchedBy(func(p dto.ListLedgerLinesParams) bool { return p.Limit == 10 }),
	).Return(expected, nil).Once()

	url := fmt.Sprintf("/api/v1/accounts/%s/ledger?limit=10", accountID)
	req, _ := http.NewRequest(http.MethodGet, url, nil)
	w := suite.serve(req)

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.ListLedgerLinesResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Require().Len(resp.Lines, 1)
	suite.Equal(expected.Lines[0].LineID, resp.Lines[0].LineID)
	suite.mockJournalService.AssertExpectations(suite.T())
}

func (suite *AccountHandlerTestSuite) TestRecomputeBalance_Success() {
	accountID := uuid.NewString()

	suite.mockJournalService.On("RecomputeBalance", mock.Anything, suite.businessID, accountID).
		Return(decimal.NewFromInt(425), nil).Once()

	req, _ := http.NewRequest(http.MethodPost, fmt.Sprintf("/api/v1/accounts/%s/recompute-balance", accountID), nil)
	w := suite.serve(req)

	suite.Equal(http.StatusOK, w.Code)

	var resp map[string]any
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(accountID, resp["accountID"])
	suite.mockJournalService.AssertExpectations(suite.T())
}

func (suite *AccountHandlerTestSuite) TestDeleteAccount_WithLedgerLines() {
	accountID := uuid.NewString()

	suite.mockAccountService.On("DeleteAccount", mock.Anything, suite.businessID, accountID, "tester").
		Return(fmt.Errorf("%w: account has ledger lines", apperrors.ErrConflict)).Once()

	req, _ := http.NewRequest(http.MethodDelete, "/api/v1/accounts/"+accountID, nil)
	w := suite.serve(req)

	suite.Equal(http.StatusConflict, w.Code)
}

func TestAccountHandler(t *testing.T) {
	suite.Run(t, new(AccountHandlerTestSuite))
}
