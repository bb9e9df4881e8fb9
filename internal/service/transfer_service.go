package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/fsdevblog/groph-pay/internal/domain"
	"github.com/fsdevblog/groph-pay/internal/repository/repoargs"
	"github.com/fsdevblog/groph-pay/pkg/uow"
)

type TransferService struct {
	uow          uow.UOW
	userRepo     UserRepository
	transferRepo TransferRepository
}

func NewTransferService(u uow.UOW) (*TransferService, error) {
	userRepo, userRepoErr := uow.GetRepositoryAs[UserRepository](u, uow.RepositoryName(repoargs.UserRepoName))
	if userRepoErr != nil {
		return nil, userRepoErr
	}
	transferRepo, transferRepoErr :=
		uow.GetRepositoryAs[TransferRepository](u, uow.RepositoryName(repoargs.TransferRepoName))
	if transferRepoErr != nil {
		return nil, transferRepoErr
	}
	return &TransferService{
		uow:          u,
		userRepo:     userRepo,
		transferRepo: transferRepo,
	}, nil
}

// Transfer выполняет p2p перевод amount (в минорных единицах) от fromUserID
// юзеру с номером телефона toPhone.
//
// Алгоритм работы:
//  1. Валидация до захвата каких-либо блокировок: сумма положительна, получатель
//     существует (domain.ErrRecipientNotFound), перевод не самому себе
//     (domain.ErrInvalidTransfer независимо от баланса).
//  2. Внутри одной транзакции: создаются недостающие счета, строка счета
//     отправителя берется под блокировку FOR UPDATE, баланс перечитывается под
//     блокировкой (domain.ErrInsufficientFunds при нехватке), затем дебет
//     отправителя, кредит получателя и запись в журнал переводов.
//
// Блокируется только счет отправителя: кредит получателя не может уйти в минус,
// а единственная блокировка не требует канонического порядка захвата для защиты
// от дедлоков. Операции над непересекающимися счетами не блокируют друг друга.
//
// Либо фиксируются все эффекты разом, либо ни одного: при любой ошибке внутри
// транзакции частичный дебет/кредит снаружи не виден.
func (s *TransferService) Transfer(
	ctx context.Context,
	fromUserID int64,
	toPhone string,
	amount int64,
) (*domain.Transfer, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("transferring: non-positive amount %d: %w", amount, domain.ErrInvalidTransfer)
	}

	recipient, recipientErr := s.userRepo.FindUserByPhone(ctx, toPhone)
	if recipientErr != nil {
		if errors.Is(recipientErr, domain.ErrRecordNotFound) {
			return nil, fmt.Errorf("transferring: %w", domain.ErrRecipientNotFound)
		}
		return nil, fmt.Errorf("transferring: %w", recipientErr)
	}

	if recipient.ID == fromUserID {
		return nil, fmt.Errorf("transferring: self transfer: %w", domain.ErrInvalidTransfer)
	}

	var transfer *domain.Transfer
	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		accountRepo, accountRepoErr := uow.GetAs[AccountRepository](tx, uow.RepositoryName(repoargs.AccountRepoName))
		if accountRepoErr != nil {
			return accountRepoErr //nolint:wrapcheck
		}
		transferRepo, transferRepoErr :=
			uow.GetAs[TransferRepository](tx, uow.RepositoryName(repoargs.TransferRepoName))
		if transferRepoErr != nil {
			return transferRepoErr //nolint:wrapcheck
		}

		// Счета создаются лениво, поэтому перед блокировкой гарантируем
		// существование обеих строк.
		if _, err := accountRepo.GetOrCreate(c, fromUserID); err != nil {
			return err //nolint:wrapcheck
		}
		if _, err := accountRepo.GetOrCreate(c, recipient.ID); err != nil {
			return err //nolint:wrapcheck
		}

		source, lockErr := accountRepo.LockForUpdate(c, fromUserID)
		if lockErr != nil {
			return lockErr //nolint:wrapcheck
		}

		if source.AvailableAmount < amount {
			return domain.ErrInsufficientFunds
		}

		if _, err := accountRepo.AdjustAvailable(c, fromUserID, -amount); err != nil {
			return err //nolint:wrapcheck
		}
		if _, err := accountRepo.AdjustAvailable(c, recipient.ID, amount); err != nil {
			return err //nolint:wrapcheck
		}

		created, createErr := transferRepo.Create(c, repoargs.CreateTransfer{
			FromUserID: fromUserID,
			ToUserID:   recipient.ID,
			Amount:     amount,
		})
		if createErr != nil {
			return createErr //nolint:wrapcheck
		}
		transfer = created
		return nil
	})

	if txErr != nil {
		return nil, fmt.Errorf("transferring: %w", txErr)
	}
	return transfer, nil
}

// GetByUserID возвращает историю переводов юзера (входящие и исходящие),
// отсортированную по дате создания по убыванию.
func (s *TransferService) GetByUserID(ctx context.Context, userID int64) ([]domain.Transfer, error) {
	transfers, err := s.transferRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return transfers, nil
}
