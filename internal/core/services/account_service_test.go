package services_test

import (
	"context"
	"testing"

	"github.com/plutoken/plubot_backend/internal/apperrors"
	"github.com/plutoken/plubot_backend/internal/core/domain"
	portssvc "github.com/plutoken/plubot_backend/internal/core/ports/services"
	"github.com/plutoken/plubot_backend/internal/core/services"
	"github.com/plutoken/plubot_backend/internal/dto"
	"github.com/plutoken/plubot_backend/internal/utils"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockAccountRepository is a mock type for the AccountRepositoryFacade interface
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) DeleteAccountCascade(ctx context.Context, accountID string) error {
	args := m.Called(ctx, accountID)
	return args.Error(0)
}

// stubKeyGenerator returns fixed key material.
type stubKeyGenerator struct {
	material portssvc.KeyMaterial
	err      error
}

func (s *stubKeyGenerator) GenerateKeyPair(_ context.Context) (portssvc.KeyMaterial, error) {
	return s.material, s.err
}

// --- Test Suite Setup ---

type AccountServiceTestSuite struct {
	suite.Suite
	mockRepo *MockAccountRepository
	keyGen   *stubKeyGenerator
	service  portssvc.AccountSvcFacade
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockAccountRepository)
	suite.keyGen = &stubKeyGenerator{
		material: portssvc.KeyMaterial{
			PayoutAddress: "0xdeadbeefdeadbeefdeadbeefdeadbeefdeadbeef",
			KeyReference:  "key-ref-1",
		},
	}
	suite.service = services.NewAccountService(suite.mockRepo, suite.keyGen)
}

// --- Test Cases ---

func (suite *AccountServiceTestSuite) TestRegisterAccount_Success() {
	ctx := context.Background()
	req := dto.RegisterAccountRequest{
		AccountID:  "user#1234",
		Contact:    "user@example.com",
		Credential: "correct horse battery",
	}

	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	account, err := suite.service.RegisterAccount(ctx, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(account)
	suite.Equal(req.AccountID, account.AccountID)
	suite.Equal(suite.keyGen.material.PayoutAddress, account.PayoutAddress)
	suite.Equal(suite.keyGen.material.KeyReference, account.KeyReference)
	suite.True(account.Balance.IsZero())
	suite.Equal(domain.DefaultLocale, account.Locale)
	suite.NotEmpty(account.RecoveryCode)

	// Credential is stored hashed, never in plaintext.
	suite.NotEqual(req.Credential, account.Credential)
	suite.True(utils.CheckCredentialHash(req.Credential, account.Credential))

	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestRegisterAccount_KeepsRequestedLocale() {
	ctx := context.Background()
	req := dto.RegisterAccountRequest{
		AccountID:  "user#1234",
		Contact:    "user@example.com",
		Credential: "correct horse battery",
		Locale:     "ru",
	}

	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	account, err := suite.service.RegisterAccount(ctx, req)

	suite.Require().NoError(err)
	suite.Equal("ru", account.Locale)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestRegisterAccount_Duplicate() {
	ctx := context.Background()
	req := dto.RegisterAccountRequest{
		AccountID:  "user#1234",
		Contact:    "user@example.com",
		Credential: "correct horse battery",
	}

	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(apperrors.ErrDuplicate).Once()

	account, err := suite.service.RegisterAccount(ctx, req)

	suite.Require().Error(err)
	suite.Nil(account)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestGetAccountByID_NotFound() {
	ctx := context.Background()

	suite.mockRepo.On("FindAccountByID", ctx, "ghost").Return(nil, apperrors.ErrNotFound).Once()

	account, err := suite.service.GetAccountByID(ctx, "ghost")

	suite.Require().Error(err)
	suite.Nil(account)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestDeleteAccount_Success() {
	ctx := context.Background()

	suite.mockRepo.On("DeleteAccountCascade", ctx, "user#1234").Return(nil).Once()

	suite.Require().NoError(suite.service.DeleteAccount(ctx, "user#1234"))
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestListAccounts_NormalizesPagination() {
	ctx := context.Background()

	// A non-positive limit falls back to the default page size.
	suite.mockRepo.On("ListAccounts", ctx, 20, 0).Return([]domain.Account{}, nil).Once()

	_, err := suite.service.ListAccounts(ctx, 0, -5)

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
