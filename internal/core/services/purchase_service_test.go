package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/plutoken/plubot_backend/internal/apperrors"
	"github.com/plutoken/plubot_backend/internal/core/domain"
	portssvc "github.com/plutoken/plubot_backend/internal/core/ports/services"
	"github.com/plutoken/plubot_backend/internal/core/services"
	"github.com/plutoken/plubot_backend/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockPurchaseRepository is a mock type for the PurchaseRepository interface
type MockPurchaseRepository struct {
	mock.Mock
}

func (m *MockPurchaseRepository) SavePurchase(ctx context.Context, purchase domain.PendingPurchase) error {
	args := m.Called(ctx, purchase)
	return args.Error(0)
}

func (m *MockPurchaseRepository) FindPendingByChannel(ctx context.Context, accountID, channel string) (*domain.PendingPurchase, error) {
	args := m.Called(ctx, accountID, channel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PendingPurchase), args.Error(1)
}

func (m *MockPurchaseRepository) ConfirmAndCredit(ctx context.Context, accountID, channel string, reason string) (*domain.PendingPurchase, decimal.Decimal, error) {
	args := m.Called(ctx, accountID, channel, reason)
	if args.Get(0) == nil {
		return nil, decimal.Zero, args.Error(2)
	}
	return args.Get(0).(*domain.PendingPurchase), args.Get(1).(decimal.Decimal), args.Error(2)
}

func (m *MockPurchaseRepository) ListPurchases(ctx context.Context, accountID string, limit int, offset int) ([]domain.PendingPurchase, error) {
	args := m.Called(ctx, accountID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PendingPurchase), args.Error(1)
}

// stubLinker formats deterministic payment references.
type stubLinker struct {
	channels []string
}

func (s *stubLinker) PaymentLink(channel string, total decimal.Decimal) (string, error) {
	return "https://pay.example/" + channel + "/" + total.String(), nil
}

func (s *stubLinker) Channels() []string {
	return s.channels
}

// stubVerifier answers with a configured error per call.
type stubVerifier struct {
	err   error
	calls int
}

func (s *stubVerifier) VerifyPayment(_ context.Context, _, _ string) error {
	s.calls++
	return s.err
}

// --- Test Suite Setup ---

type PurchaseServiceTestSuite struct {
	suite.Suite
	mockPurchase *MockPurchaseRepository
	mockAccount  *MockAccountRepository
	mockLedger   *MockLedgerRepository
	priceSource  *stubPriceSource
	linker       *stubLinker
	verifier     *stubVerifier
	service      portssvc.PurchaseSvcFacade
}

func (suite *PurchaseServiceTestSuite) SetupTest() {
	suite.mockPurchase = new(MockPurchaseRepository)
	suite.mockAccount = new(MockAccountRepository)
	suite.mockLedger = new(MockLedgerRepository)
	suite.priceSource = &stubPriceSource{price: decimal.NewFromInt(2)}
	suite.linker = &stubLinker{channels: []string{"cashapp", "stripe", "paypal"}}
	suite.verifier = &stubVerifier{}

	fees := domain.FeeSchedule{
		NativeMaker: decimal.RequireFromString("0.004"),
		NativeTaker: decimal.RequireFromString("0.007"),
		OtherMaker:  decimal.RequireFromString("0.005"),
		OtherTaker:  decimal.RequireFromString("0.012"),
	}
	ledgerSvc := services.NewLedgerService(suite.mockLedger, suite.mockAccount, suite.priceSource, fees, "xplt")
	suite.service = services.NewPurchaseService(suite.mockPurchase, suite.mockAccount, ledgerSvc, suite.linker, suite.verifier, time.Second)
}

func (suite *PurchaseServiceTestSuite) expectRegistered(accountID string) {
	suite.mockAccount.On("FindAccountByID", mock.Anything, accountID).
		Return(&domain.Account{AccountID: accountID}, nil).Once()
}

// --- Test Cases ---

func (suite *PurchaseServiceTestSuite) TestCreateIntents_FansOutPerChannel() {
	ctx := context.Background()
	suite.expectRegistered("user#1234")
	suite.mockPurchase.On("SavePurchase", ctx, mock.AnythingOfType("domain.PendingPurchase")).
		Return(nil).Times(3)

	intents, err := suite.service.CreateIntents(ctx, dto.CreatePurchaseRequest{
		AccountID: "user#1234",
		Amount:    decimal.NewFromInt(10),
		Asset:     "xplt",
	})

	suite.Require().NoError(err)
	suite.Require().Len(intents, 3)

	// One shared quote snapshot: 10/2.0 + 10*0.007 = 5.07 on every channel.
	for i, intent := range intents {
		suite.Equal(suite.linker.channels[i], intent.Channel)
		suite.Equal(domain.PurchasePending, intent.Status)
		suite.True(intent.QuotedTotal.Equal(decimal.RequireFromString("5.07")))
		suite.NotEmpty(intent.PaymentReference)
		suite.NotEmpty(intent.PurchaseID)
	}
	suite.mockPurchase.AssertExpectations(suite.T())
}

func (suite *PurchaseServiceTestSuite) TestCreateIntents_RestrictedChannels() {
	ctx := context.Background()
	suite.expectRegistered("user#1234")
	suite.mockPurchase.On("SavePurchase", ctx, mock.AnythingOfType("domain.PendingPurchase")).
		Return(nil).Once()

	intents, err := suite.service.CreateIntents(ctx, dto.CreatePurchaseRequest{
		AccountID: "user#1234",
		Amount:    decimal.NewFromInt(10),
		Asset:     "xplt",
		Channels:  []string{"paypal"},
	})

	suite.Require().NoError(err)
	suite.Require().Len(intents, 1)
	suite.Equal("paypal", intents[0].Channel)
}

func (suite *PurchaseServiceTestSuite) TestCreateIntents_Unregistered() {
	ctx := context.Background()
	suite.mockAccount.On("FindAccountByID", mock.Anything, "ghost").
		Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.CreateIntents(ctx, dto.CreatePurchaseRequest{
		AccountID: "ghost",
		Amount:    decimal.NewFromInt(10),
		Asset:     "xplt",
	})

	suite.ErrorIs(err, apperrors.ErrNotRegistered)
	suite.mockPurchase.AssertNotCalled(suite.T(), "SavePurchase")
}

func (suite *PurchaseServiceTestSuite) TestCreateIntents_RepoFailureIsNotNotRegistered() {
	ctx := context.Background()
	poolErr := errors.New("connection refused: db pool exhausted")
	suite.mockAccount.On("FindAccountByID", mock.Anything, "user#1234").
		Return(nil, poolErr).Once()

	_, err := suite.service.CreateIntents(ctx, dto.CreatePurchaseRequest{
		AccountID: "user#1234",
		Amount:    decimal.NewFromInt(10),
		Asset:     "xplt",
	})

	suite.ErrorIs(err, poolErr)
	suite.NotErrorIs(err, apperrors.ErrNotRegistered)
	suite.mockPurchase.AssertNotCalled(suite.T(), "SavePurchase")
}

func (suite *PurchaseServiceTestSuite) TestCreateIntents_PriceUnavailable() {
	ctx := context.Background()
	suite.expectRegistered("user#1234")
	suite.priceSource.err = apperrors.ErrPriceUnavailable

	_, err := suite.service.CreateIntents(ctx, dto.CreatePurchaseRequest{
		AccountID: "user#1234",
		Amount:    decimal.NewFromInt(10),
		Asset:     "xplt",
	})

	suite.ErrorIs(err, apperrors.ErrPriceUnavailable)
	suite.mockPurchase.AssertNotCalled(suite.T(), "SavePurchase")
}

func (suite *PurchaseServiceTestSuite) TestConfirmPurchase_Success() {
	ctx := context.Background()
	pending := &domain.PendingPurchase{
		PurchaseID:       "p-1",
		AccountID:        "user#1234",
		Amount:           decimal.NewFromInt(10),
		Asset:            "xplt",
		Channel:          "cashapp",
		PaymentReference: "https://pay.example/cashapp/5.07",
		Status:           domain.PurchasePending,
	}
	confirmed := *pending
	confirmed.Status = domain.PurchaseConfirmed

	suite.mockPurchase.On("FindPendingByChannel", ctx, "user#1234", "cashapp").
		Return(pending, nil).Once()
	suite.mockPurchase.On("ConfirmAndCredit", ctx, "user#1234", "cashapp", "purchase:xplt:cashapp").
		Return(&confirmed, decimal.NewFromInt(10), nil).Once()

	got, newBalance, err := suite.service.ConfirmPurchase(ctx, "user#1234", "cashapp")

	suite.Require().NoError(err)
	suite.Equal(domain.PurchaseConfirmed, got.Status)
	suite.True(newBalance.Equal(decimal.NewFromInt(10)))
	suite.Equal(1, suite.verifier.calls)
	suite.mockPurchase.AssertExpectations(suite.T())
}

func (suite *PurchaseServiceTestSuite) TestConfirmPurchase_VerificationFailureLeavesPending() {
	ctx := context.Background()
	pending := &domain.PendingPurchase{
		PurchaseID: "p-1",
		AccountID:  "user#1234",
		Amount:     decimal.NewFromInt(10),
		Asset:      "xplt",
		Channel:    "cashapp",
		Status:     domain.PurchasePending,
	}
	suite.verifier.err = apperrors.ErrPaymentNotVerified

	suite.mockPurchase.On("FindPendingByChannel", ctx, "user#1234", "cashapp").
		Return(pending, nil).Once()

	_, _, err := suite.service.ConfirmPurchase(ctx, "user#1234", "cashapp")

	suite.ErrorIs(err, apperrors.ErrPaymentNotVerified)
	suite.mockPurchase.AssertNotCalled(suite.T(), "ConfirmAndCredit")
}

func (suite *PurchaseServiceTestSuite) TestConfirmPurchase_TimeoutLeavesPending() {
	ctx := context.Background()
	pending := &domain.PendingPurchase{
		PurchaseID: "p-1",
		AccountID:  "user#1234",
		Amount:     decimal.NewFromInt(10),
		Asset:      "xplt",
		Channel:    "cashapp",
		Status:     domain.PurchasePending,
	}
	suite.verifier.err = apperrors.ErrExternalTimeout

	suite.mockPurchase.On("FindPendingByChannel", ctx, "user#1234", "cashapp").
		Return(pending, nil).Once()

	_, _, err := suite.service.ConfirmPurchase(ctx, "user#1234", "cashapp")

	suite.ErrorIs(err, apperrors.ErrExternalTimeout)
	suite.mockPurchase.AssertNotCalled(suite.T(), "ConfirmAndCredit")
}

func (suite *PurchaseServiceTestSuite) TestConfirmPurchase_NoPendingIntent() {
	ctx := context.Background()

	suite.mockPurchase.On("FindPendingByChannel", ctx, "user#1234", "cashapp").
		Return(nil, apperrors.ErrNoPendingIntent).Once()

	_, _, err := suite.service.ConfirmPurchase(ctx, "user#1234", "cashapp")

	suite.ErrorIs(err, apperrors.ErrNoPendingIntent)
	suite.Equal(0, suite.verifier.calls, "verification is skipped when nothing is pending")
}

func (suite *PurchaseServiceTestSuite) TestConfirmPurchase_AlreadyConfirmed() {
	ctx := context.Background()

	suite.mockPurchase.On("FindPendingByChannel", ctx, "user#1234", "cashapp").
		Return(nil, apperrors.ErrAlreadyConfirmed).Once()

	_, _, err := suite.service.ConfirmPurchase(ctx, "user#1234", "cashapp")

	suite.ErrorIs(err, apperrors.ErrAlreadyConfirmed)
	suite.mockPurchase.AssertNotCalled(suite.T(), "ConfirmAndCredit")
}

func TestPurchaseServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PurchaseServiceTestSuite))
}
