package services_test

import (
	"context"
	"testing"

	"github.com/bizbooks-app/bizbooks_backend/internal/apperrors"
	"github.com/bizbooks-app/bizbooks_backend/internal/core/domain"
	portssvc "github.com/bizbooks-app/bizbooks_backend/internal/core/ports/services"
	"github.com/bizbooks-app/bizbooks_backend/internal/core/services"
	"github.com/bizbooks-app/bizbooks_backend/internal/dto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type AccountServiceTestSuite struct {
	suite.Suite
	mockAccountRepo *MockAccountRepository
	service         portssvc.AccountSvcFacade
	businessID      string
	userID          string
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.service = services.NewAccountService(suite.mockAccountRepo)
	suite.businessID = uuid.NewString()
	suite.userID = uuid.NewString()
}

func (suite *AccountServiceTestSuite) TestCreateAccount_Success() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		Code:        "1000",
		Name:        "Business Checking",
		AccountType: domain.Asset,
		Description: "Primary operating account",
	}

	suite.mockAccountRepo.On("SaveAccount", ctx, mock.MatchedBy(func(a domain.Account) bool {
		return a.BusinessID == suite.businessID &&
			a.Code == "1000" &&
			a.AccountType == domain.Asset &&
			a.IsActive &&
			a.Balance.IsZero() &&
			a.CreatedBy == suite.userID
	})).Return(nil).Once()

	account, err := suite.service.CreateAccount(ctx, suite.businessID, req, suite.userID)

	suite.Require().NoError(err)
	suite.NotEmpty(account.AccountID)
	suite.Equal("Business Checking", account.Name)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_InvalidType() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		Code:        "9999",
		Name:        "Mystery",
		AccountType: domain.AccountType("CONTRA"),
	}

	_, err := suite.service.CreateAccount(ctx, suite.businessID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_DuplicateCode() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		Code:        "1000",
		Name:        "Business Checking",
		AccountType: domain.Asset,
	}

	suite.mockAccountRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).
		Return(apperrors.ErrConflict).Once()

	_, err := suite.service.CreateAccount(ctx, suite.businessID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *AccountServiceTestSuite) TestGetAccountByID_OtherBusinessHidden() {
	ctx := context.Background()
	account := &domain.Account{
		AccountID:  uuid.NewString(),
		BusinessID: uuid.NewString(),
		Code:       "1000",
	}

	suite.mockAccountRepo.On("FindAccountByID", ctx, account.AccountID).Return(account, nil).Once()

	_, err := suite.service.GetAccountByID(ctx, suite.businessID, account.AccountID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *AccountServiceTestSuite) TestGetAccountsByIDs_FiltersOtherBusinesses() {
	ctx := context.Background()
	mine := domain.Account{AccountID: uuid.NewString(), BusinessID: suite.businessID}
	theirs := domain.Account{AccountID: uuid.NewString(), BusinessID: uuid.NewString()}
	ids := []string{mine.AccountID, theirs.AccountID}

	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, ids).
		Return(map[string]domain.Account{
			mine.AccountID:   mine,
			theirs.AccountID: theirs,
		}, nil).Once()

	accounts, err := suite.service.GetAccountsByIDs(ctx, suite.businessID, ids)

	suite.Require().NoError(err)
	suite.Len(accounts, 1)
	suite.Contains(accounts, mine.AccountID)
	suite.NotContains(accounts, theirs.AccountID)
}

func (suite *AccountServiceTestSuite) TestDeleteAccount_WithLedgerLinesRejected() {
	ctx := context.Background()
	account := &domain.Account{AccountID: uuid.NewString(), BusinessID: suite.businessID}

	suite.mockAccountRepo.On("FindAccountByID", ctx, account.AccountID).Return(account, nil).Once()
	suite.mockAccountRepo.On("DeleteAccount", ctx, account.AccountID).
		Return(apperrors.ErrConflict).Once()

	err := suite.service.DeleteAccount(ctx, suite.businessID, account.AccountID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *AccountServiceTestSuite) TestDeleteAccount_Success() {
	ctx := context.Background()
	account := &domain.Account{AccountID: uuid.NewString(), BusinessID: suite.businessID}

	suite.mockAccountRepo.On("FindAccountByID", ctx, account.AccountID).Return(account, nil).Once()
	suite.mockAccountRepo.On("DeleteAccount", ctx, account.AccountID).Return(nil).Once()

	err := suite.service.DeleteAccount(ctx, suite.businessID, account.AccountID, suite.userID)

	suite.Require().NoError(err)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
