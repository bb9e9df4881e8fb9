package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/fsdevblog/groph-pay/internal/domain"
	"github.com/fsdevblog/groph-pay/internal/repository/repoargs"
	"github.com/fsdevblog/groph-pay/internal/service/mocks"
	"github.com/fsdevblog/groph-pay/pkg/uow"
	uowmocks "github.com/fsdevblog/groph-pay/pkg/uow/mocks"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/suite"
)

type DepositServiceTestSuite struct {
	suite.Suite
	mockCtrl        *gomock.Controller
	mockUOW         *uowmocks.MockUOW
	mockTX          *uowmocks.MockTX
	mockDepositRepo *mocks.MockDepositRequestRepository
	mockAccountRepo *mocks.MockAccountRepository
	service         *DepositService
}

func TestDepositServiceSuite(t *testing.T) {
	suite.Run(t, new(DepositServiceTestSuite))
}

func (s *DepositServiceTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockUOW = uowmocks.NewMockUOW(s.mockCtrl)
	s.mockTX = uowmocks.NewMockTX(s.mockCtrl)
	s.mockDepositRepo = mocks.NewMockDepositRequestRepository(s.mockCtrl)
	s.mockAccountRepo = mocks.NewMockAccountRepository(s.mockCtrl)

	s.mockUOW.EXPECT().
		GetRepository(uow.RepositoryName(repoargs.DepositRequestRepoName)).
		Return(s.mockDepositRepo, nil).AnyTimes()

	l := logrus.New()
	l.SetOutput(io.Discard)

	var err error
	s.service, err = NewDepositService(s.mockUOW, l)
	s.Require().NoError(err)
}

func (s *DepositServiceTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func (s *DepositServiceTestSuite) expectTransactionRepos() {
	s.mockTX.EXPECT().
		Get(uow.RepositoryName(repoargs.DepositRequestRepoName)).
		Return(s.mockDepositRepo, nil).AnyTimes()
	s.mockTX.EXPECT().
		Get(uow.RepositoryName(repoargs.AccountRepoName)).
		Return(s.mockAccountRepo, nil).AnyTimes()

	s.mockUOW.EXPECT().Do(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, fn func(context.Context, uow.TX) error) error {
			return fn(s.T().Context(), s.mockTX)
		},
	)
}

func (s *DepositServiceTestSuite) TestCreateDeposit() {
	userID := int64(42)
	amount := int64(500000) // 5000.00 в минорных единицах

	// на шаге создания заявки никаких операций со счетом быть не должно:
	// на MockAccountRepository ожиданий нет.
	s.mockDepositRepo.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, args repoargs.CreateDepositRequest) (*domain.DepositRequest, error) {
			s.Equal(userID, args.UserID)
			s.Equal(amount, args.Amount)
			s.Equal("HDFC Bank", args.Provider)
			// токен - валидный uuid, свежий на каждую заявку.
			_, parseErr := uuid.Parse(args.Token)
			s.NoError(parseErr)
			return &domain.DepositRequest{
				ID:       1,
				UserID:   args.UserID,
				Token:    args.Token,
				Provider: args.Provider,
				Amount:   args.Amount,
				Status:   domain.DepositStatusPending,
			}, nil
		})

	request, provider, err := s.service.CreateDeposit(s.T().Context(), userID, amount, "HDFC Bank")
	s.Require().NoError(err)
	s.Equal(domain.DepositStatusPending, request.Status)
	s.Equal("HDFC Bank", provider.Name)
	s.NotEmpty(provider.RedirectURL)
}

func (s *DepositServiceTestSuite) TestCreateDeposit_InvalidArgs() {
	cases := []struct {
		wantErr  error
		name     string
		provider string
		amount   int64
	}{
		{name: "zero amount", amount: 0, provider: "HDFC Bank", wantErr: domain.ErrInvalidAmount},
		{name: "negative amount", amount: -100, provider: "HDFC Bank", wantErr: domain.ErrInvalidAmount},
		{name: "unknown provider", amount: 100, provider: "Unknown Bank", wantErr: domain.ErrUnknownProvider},
	}

	for _, t := range cases {
		s.Run(t.name, func() {
			request, _, err := s.service.CreateDeposit(s.T().Context(), 1, t.amount, t.provider)
			s.Require().ErrorIs(err, t.wantErr)
			s.Nil(request)
		})
	}
}

func (s *DepositServiceTestSuite) TestSettle() {
	pending := domain.DepositRequest{
		ID:       1,
		UserID:   42,
		Token:    uuid.NewString(),
		Provider: "HDFC Bank",
		Amount:   500000,
		Status:   domain.DepositStatusPending,
	}

	s.expectTransactionRepos()

	s.mockDepositRepo.EXPECT().FindByTokenForUpdate(gomock.Any(), pending.Token).
		Return(&pending, nil)

	s.mockAccountRepo.EXPECT().GetOrCreate(gomock.Any(), pending.UserID).
		Return(&domain.Account{UserID: pending.UserID, AvailableAmount: 700000}, nil)
	s.mockAccountRepo.EXPECT().LockForUpdate(gomock.Any(), pending.UserID).
		Return(&domain.Account{UserID: pending.UserID, AvailableAmount: 700000}, nil)
	s.mockAccountRepo.EXPECT().AdjustAvailable(gomock.Any(), pending.UserID, pending.Amount).
		Return(&domain.Account{UserID: pending.UserID, AvailableAmount: 1200000}, nil)

	s.mockDepositRepo.EXPECT().UpdateStatus(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, args repoargs.UpdateDepositStatus) (*domain.DepositRequest, error) {
			s.Equal(pending.Token, args.Token)
			s.Equal(domain.DepositStatusSuccess, args.Status)
			settled := pending
			settled.Status = domain.DepositStatusSuccess
			return &settled, nil
		})

	request, err := s.service.Settle(s.T().Context(), SettleArgs{
		Token:  pending.Token,
		UserID: pending.UserID,
		Amount: pending.Amount,
	})
	s.Require().NoError(err)
	s.Equal(domain.DepositStatusSuccess, request.Status)
}

func (s *DepositServiceTestSuite) TestSettle_Replay() {
	settled := domain.DepositRequest{
		ID:     1,
		UserID: 42,
		Token:  uuid.NewString(),
		Amount: 500000,
		Status: domain.DepositStatusSuccess,
	}

	s.expectTransactionRepos()

	// заявка уже терминальна: повторное уведомление возвращает прежний исход,
	// повторного зачисления нет - на MockAccountRepository ожиданий нет.
	s.mockDepositRepo.EXPECT().FindByTokenForUpdate(gomock.Any(), settled.Token).
		Return(&settled, nil)

	request, err := s.service.Settle(s.T().Context(), SettleArgs{
		Token:  settled.Token,
		UserID: settled.UserID,
		Amount: settled.Amount,
	})
	s.Require().NoError(err)
	s.Equal(domain.DepositStatusSuccess, request.Status)
}

func (s *DepositServiceTestSuite) TestSettle_UnknownToken() {
	s.expectTransactionRepos()

	// неизвестный токен не порождает ни заявки, ни попытки пометить Failure.
	s.mockDepositRepo.EXPECT().FindByTokenForUpdate(gomock.Any(), "missing-token").
		Return(nil, domain.ErrRecordNotFound)

	request, err := s.service.Settle(s.T().Context(), SettleArgs{
		Token:  "missing-token",
		UserID: 42,
		Amount: 100,
	})
	s.Require().ErrorIs(err, domain.ErrUnknownToken)
	s.Nil(request)
}

func (s *DepositServiceTestSuite) TestSettle_FindErrorLeavesRequestUntouched() {
	findErr := errors.New("storage unavailable")

	s.expectTransactionRepos()

	// транзиентный сбой до того, как заявка найдена: судьба заявки неизвестна,
	// помечать её Failure нельзя - на UpdateStatus ожиданий нет.
	s.mockDepositRepo.EXPECT().FindByTokenForUpdate(gomock.Any(), "some-token").
		Return(nil, findErr)

	request, err := s.service.Settle(s.T().Context(), SettleArgs{
		Token:  "some-token",
		UserID: 42,
		Amount: 100,
	})
	s.Require().ErrorIs(err, findErr)
	s.Nil(request)
}

func (s *DepositServiceTestSuite) TestSettle_CreditFailureMarksRequestFailed() {
	pending := domain.DepositRequest{
		ID:     1,
		UserID: 42,
		Token:  uuid.NewString(),
		Amount: 500000,
		Status: domain.DepositStatusPending,
	}
	creditErr := errors.New("credit failed")

	s.expectTransactionRepos()

	s.mockDepositRepo.EXPECT().FindByTokenForUpdate(gomock.Any(), pending.Token).
		Return(&pending, nil)
	s.mockAccountRepo.EXPECT().GetOrCreate(gomock.Any(), pending.UserID).
		Return(&domain.Account{UserID: pending.UserID}, nil)
	s.mockAccountRepo.EXPECT().LockForUpdate(gomock.Any(), pending.UserID).
		Return(&domain.Account{UserID: pending.UserID}, nil)
	s.mockAccountRepo.EXPECT().AdjustAvailable(gomock.Any(), pending.UserID, pending.Amount).
		Return(nil, creditErr)

	// после отката заявка помечается Failure отдельной транзакцией.
	s.mockDepositRepo.EXPECT().UpdateStatus(gomock.Any(), repoargs.UpdateDepositStatus{
		Token:  pending.Token,
		Status: domain.DepositStatusFailure,
	}).Return(&domain.DepositRequest{Status: domain.DepositStatusFailure}, nil)

	request, err := s.service.Settle(s.T().Context(), SettleArgs{
		Token:  pending.Token,
		UserID: pending.UserID,
		Amount: pending.Amount,
	})
	s.Require().ErrorIs(err, creditErr)
	s.Nil(request)
}

func (s *DepositServiceTestSuite) TestFailStuckPending() {
	ttl := 24 * time.Hour
	stuck := []domain.DepositRequest{
		{ID: 1, Token: uuid.NewString(), Status: domain.DepositStatusPending},
		{ID: 2, Token: uuid.NewString(), Status: domain.DepositStatusPending},
	}

	s.expectTransactionRepos()

	s.mockDepositRepo.EXPECT().GetStuckPending(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, args repoargs.StuckPending) ([]domain.DepositRequest, error) {
			s.Equal(uint(100), args.Limit)
			// порог отсечения отстоит от текущего момента примерно на ttl.
			s.WithinDuration(time.Now().Add(-ttl), args.OlderThan, time.Minute)
			return stuck, nil
		})

	for _, request := range stuck {
		s.mockDepositRepo.EXPECT().UpdateStatus(gomock.Any(), repoargs.UpdateDepositStatus{
			Token:  request.Token,
			Status: domain.DepositStatusFailure,
		}).Return(&domain.DepositRequest{Status: domain.DepositStatusFailure}, nil)
	}

	count, err := s.service.FailStuckPending(s.T().Context(), ttl, 100)
	s.Require().NoError(err)
	s.Equal(len(stuck), count)
}
