package service

import (
	"context"
	"testing"
	"time"

	"github.com/fsdevblog/groph-pay/internal/domain"
	"github.com/fsdevblog/groph-pay/internal/repository/repoargs"
	"github.com/fsdevblog/groph-pay/internal/service/mocks"
	"github.com/fsdevblog/groph-pay/pkg/uow"
	uowmocks "github.com/fsdevblog/groph-pay/pkg/uow/mocks"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/suite"
)

type TransferServiceTestSuite struct {
	suite.Suite
	mockCtrl         *gomock.Controller
	mockUOW          *uowmocks.MockUOW
	mockTX           *uowmocks.MockTX
	mockUserRepo     *mocks.MockUserRepository
	mockAccountRepo  *mocks.MockAccountRepository
	mockTransferRepo *mocks.MockTransferRepository
	service          *TransferService
}

func TestTransferServiceSuite(t *testing.T) {
	suite.Run(t, new(TransferServiceTestSuite))
}

func (s *TransferServiceTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockUOW = uowmocks.NewMockUOW(s.mockCtrl)
	s.mockTX = uowmocks.NewMockTX(s.mockCtrl)
	s.mockUserRepo = mocks.NewMockUserRepository(s.mockCtrl)
	s.mockAccountRepo = mocks.NewMockAccountRepository(s.mockCtrl)
	s.mockTransferRepo = mocks.NewMockTransferRepository(s.mockCtrl)

	s.mockUOW.EXPECT().
		GetRepository(uow.RepositoryName(repoargs.UserRepoName)).
		Return(s.mockUserRepo, nil).AnyTimes()
	s.mockUOW.EXPECT().
		GetRepository(uow.RepositoryName(repoargs.TransferRepoName)).
		Return(s.mockTransferRepo, nil).AnyTimes()

	var err error
	s.service, err = NewTransferService(s.mockUOW)
	s.Require().NoError(err)
}

func (s *TransferServiceTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

// expectTransactionRepos настраивает выдачу репозиториев из транзакции и
// проброс колбэка UOW.Do в мок транзакции.
func (s *TransferServiceTestSuite) expectTransactionRepos() {
	s.mockTX.EXPECT().
		Get(uow.RepositoryName(repoargs.AccountRepoName)).
		Return(s.mockAccountRepo, nil).AnyTimes()
	s.mockTX.EXPECT().
		Get(uow.RepositoryName(repoargs.TransferRepoName)).
		Return(s.mockTransferRepo, nil).AnyTimes()

	s.mockUOW.EXPECT().Do(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, fn func(context.Context, uow.TX) error) error {
			return fn(s.T().Context(), s.mockTX)
		},
	)
}

func (s *TransferServiceTestSuite) TestTransfer() {
	sender := domain.User{ID: 1, Username: "alice", Phone: "+79990000001"}
	recipient := domain.User{ID: 2, Username: "bob", Phone: "+79990000002"}
	amount := int64(300000) // 3000.00 в минорных единицах

	s.mockUserRepo.EXPECT().FindUserByPhone(gomock.Any(), recipient.Phone).
		Return(&recipient, nil)

	s.expectTransactionRepos()

	s.mockAccountRepo.EXPECT().GetOrCreate(gomock.Any(), sender.ID).
		Return(&domain.Account{UserID: sender.ID, AvailableAmount: 1000000}, nil)
	s.mockAccountRepo.EXPECT().GetOrCreate(gomock.Any(), recipient.ID).
		Return(&domain.Account{UserID: recipient.ID}, nil)

	// баланс перечитывается под блокировкой.
	s.mockAccountRepo.EXPECT().LockForUpdate(gomock.Any(), sender.ID).
		Return(&domain.Account{UserID: sender.ID, AvailableAmount: 1000000}, nil)

	// дебет отправителя и кредит получателя на одну и ту же сумму.
	s.mockAccountRepo.EXPECT().AdjustAvailable(gomock.Any(), sender.ID, -amount).
		Return(&domain.Account{UserID: sender.ID, AvailableAmount: 700000}, nil)
	s.mockAccountRepo.EXPECT().AdjustAvailable(gomock.Any(), recipient.ID, amount).
		Return(&domain.Account{UserID: recipient.ID, AvailableAmount: amount}, nil)

	s.mockTransferRepo.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, args repoargs.CreateTransfer) (*domain.Transfer, error) {
			s.Equal(sender.ID, args.FromUserID)
			s.Equal(recipient.ID, args.ToUserID)
			s.Equal(amount, args.Amount)
			return &domain.Transfer{
				ID:         1,
				CreatedAt:  time.Now(),
				FromUserID: args.FromUserID,
				ToUserID:   args.ToUserID,
				Amount:     args.Amount,
			}, nil
		})

	transfer, err := s.service.Transfer(s.T().Context(), sender.ID, recipient.Phone, amount)
	s.Require().NoError(err)
	s.Equal(sender.ID, transfer.FromUserID)
	s.Equal(recipient.ID, transfer.ToUserID)
	s.Equal(amount, transfer.Amount)
}

func (s *TransferServiceTestSuite) TestTransfer_InsufficientFunds() {
	sender := domain.User{ID: 1}
	recipient := domain.User{ID: 2, Phone: "+79990000002"}
	amount := int64(300000)

	s.mockUserRepo.EXPECT().FindUserByPhone(gomock.Any(), recipient.Phone).
		Return(&recipient, nil)

	s.expectTransactionRepos()

	s.mockAccountRepo.EXPECT().GetOrCreate(gomock.Any(), sender.ID).
		Return(&domain.Account{UserID: sender.ID, AvailableAmount: 299999}, nil)
	s.mockAccountRepo.EXPECT().GetOrCreate(gomock.Any(), recipient.ID).
		Return(&domain.Account{UserID: recipient.ID}, nil)

	// под блокировкой баланса не хватает на один пайс; дальше дебета дело
	// дойти не должно - на AdjustAvailable ожиданий нет.
	s.mockAccountRepo.EXPECT().LockForUpdate(gomock.Any(), sender.ID).
		Return(&domain.Account{UserID: sender.ID, AvailableAmount: 299999}, nil)

	transfer, err := s.service.Transfer(s.T().Context(), sender.ID, recipient.Phone, amount)
	s.Require().ErrorIs(err, domain.ErrInsufficientFunds)
	s.Nil(transfer)
}

func (s *TransferServiceTestSuite) TestTransfer_SelfTransfer() {
	sender := domain.User{ID: 1, Phone: "+79990000001"}

	// перевод самому себе отклоняется до открытия транзакции,
	// даже при достаточном балансе.
	s.mockUserRepo.EXPECT().FindUserByPhone(gomock.Any(), sender.Phone).
		Return(&sender, nil)

	transfer, err := s.service.Transfer(s.T().Context(), sender.ID, sender.Phone, 100)
	s.Require().ErrorIs(err, domain.ErrInvalidTransfer)
	s.Nil(transfer)
}

func (s *TransferServiceTestSuite) TestTransfer_RecipientNotFound() {
	s.mockUserRepo.EXPECT().FindUserByPhone(gomock.Any(), "+70000000000").
		Return(nil, domain.ErrRecordNotFound)

	transfer, err := s.service.Transfer(s.T().Context(), 1, "+70000000000", 100)
	s.Require().ErrorIs(err, domain.ErrRecipientNotFound)
	s.Nil(transfer)
}

func (s *TransferServiceTestSuite) TestTransfer_NonPositiveAmount() {
	cases := []struct {
		name   string
		amount int64
	}{
		{name: "zero", amount: 0},
		{name: "negative", amount: -100},
	}

	for _, t := range cases {
		s.Run(t.name, func() {
			transfer, err := s.service.Transfer(s.T().Context(), 1, "+79990000002", t.amount)
			s.Require().ErrorIs(err, domain.ErrInvalidTransfer)
			s.Nil(transfer)
		})
	}
}

func (s *TransferServiceTestSuite) TestGetByUserID() {
	expected := []domain.Transfer{
		{ID: 2, FromUserID: 1, ToUserID: 3, Amount: 500},
		{ID: 1, FromUserID: 2, ToUserID: 1, Amount: 300},
	}

	s.mockTransferRepo.EXPECT().GetByUserID(gomock.Any(), int64(1)).
		Return(expected, nil)

	transfers, err := s.service.GetByUserID(s.T().Context(), 1)
	s.Require().NoError(err)
	s.Equal(expected, transfers)
}
