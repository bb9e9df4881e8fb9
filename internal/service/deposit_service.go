package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/fsdevblog/groph-pay/internal/domain"
	"github.com/fsdevblog/groph-pay/internal/repository/repoargs"
	"github.com/fsdevblog/groph-pay/pkg/uow"
)

// DepositService движок расчетов с внешними провайдерами: создание заявок на
// пополнение и идемпотентная обработка асинхронных уведомлений.
type DepositService struct {
	uow         uow.UOW
	depositRepo DepositRequestRepository
	l           logrus.FieldLogger
}

func NewDepositService(u uow.UOW, l logrus.FieldLogger) (*DepositService, error) {
	depositRepo, err :=
		uow.GetRepositoryAs[DepositRequestRepository](u, uow.RepositoryName(repoargs.DepositRequestRepoName))
	if err != nil {
		return nil, err
	}
	return &DepositService{
		uow:         u,
		depositRepo: depositRepo,
		l:           l.WithField("component", "deposit_service"),
	}, nil
}

// CreateDeposit регистрирует намерение пополнения: генерирует свежий
// корреляционный токен и создает заявку в статусе Pending. Баланс на этом шаге
// не меняется - заявка лишь обещание. Возвращает заявку и провайдера, на
// страницу которого нужно средиректить юзера.
func (s *DepositService) CreateDeposit(
	ctx context.Context,
	userID int64,
	amount int64,
	providerName string,
) (*domain.DepositRequest, Provider, error) {
	if amount <= 0 {
		return nil, Provider{}, fmt.Errorf("creating deposit: non-positive amount %d: %w", amount, domain.ErrInvalidAmount)
	}

	provider, providerErr := ProviderByName(providerName)
	if providerErr != nil {
		return nil, Provider{}, fmt.Errorf("creating deposit: %w", providerErr)
	}

	request, createErr := s.depositRepo.Create(ctx, repoargs.CreateDepositRequest{
		UserID:   userID,
		Token:    uuid.NewString(),
		Provider: provider.Name,
		Amount:   amount,
	})
	if createErr != nil {
		return nil, Provider{}, fmt.Errorf("creating deposit: %w", createErr)
	}
	return request, provider, nil
}

// GetByUserID возвращает заявки юзера на пополнение, новые первыми.
func (s *DepositService) GetByUserID(ctx context.Context, userID int64) ([]domain.DepositRequest, error) {
	requests, err := s.depositRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return requests, nil
}

// SettleArgs распарсенное уведомление провайдера о завершении платежа.
type SettleArgs struct {
	Token  string
	UserID int64
	Amount int64
}

// Settle обрабатывает одно входящее уведомление провайдера.
//
// Алгоритм работы:
//  1. Заявка ищется по токену под блокировкой строки (domain.ErrUnknownToken
//     если её нет). Блокировка сериализует конкурентные дубли уведомления.
//  2. Если заявка уже в терминальном статусе - это повторная доставка:
//     возвращается прежний исход без повторного зачисления (провайдер шлет
//     at-least-once, двойной кредит недопустим).
//  3. Иначе в той же транзакции блокируется строка счета, available
//     кредитуется на заявленную сумму и заявка переводится в Success.
//     Зачисление и смена статуса фиксируются строго вместе.
//
// Если после нахождения заявки шаг зачисления упал, отдельной best-effort
// транзакцией заявка помечается Failure, чтобы не зависнуть в Pending навсегда.
// Исходная ошибка при этом все равно возвращается: провайдер повторит
// уведомление, а повтор безопасен благодаря шагу 2.
func (s *DepositService) Settle(ctx context.Context, args SettleArgs) (*domain.DepositRequest, error) {
	var request *domain.DepositRequest
	var requestFound bool

	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		depositRepo, depositRepoErr :=
			uow.GetAs[DepositRequestRepository](tx, uow.RepositoryName(repoargs.DepositRequestRepoName))
		if depositRepoErr != nil {
			return depositRepoErr //nolint:wrapcheck
		}
		accountRepo, accountRepoErr := uow.GetAs[AccountRepository](tx, uow.RepositoryName(repoargs.AccountRepoName))
		if accountRepoErr != nil {
			return accountRepoErr //nolint:wrapcheck
		}

		found, findErr := depositRepo.FindByTokenForUpdate(c, args.Token)
		if findErr != nil {
			if errors.Is(findErr, domain.ErrRecordNotFound) {
				return domain.ErrUnknownToken
			}
			return findErr //nolint:wrapcheck
		}
		requestFound = true

		if found.IsTerminal() {
			// повторная доставка, возвращаем прежний исход.
			request = found
			return nil
		}

		// Владелец заявки - источник истины: уведомление с чужим идентификатором
		// счета зачисляется владельцу, расхождение лишь логируется.
		if args.UserID != found.UserID {
			s.l.WithFields(logrus.Fields{
				"token":          found.Token,
				"requestUserID":  found.UserID,
				"reportedUserID": args.UserID,
			}).Warn("notification user mismatch, crediting request owner")
		}
		if args.Amount != found.Amount {
			s.l.WithFields(logrus.Fields{
				"token":          found.Token,
				"requestAmount":  found.Amount,
				"reportedAmount": args.Amount,
			}).Warn("notification amount differs from requested")
		}

		if _, err := accountRepo.GetOrCreate(c, found.UserID); err != nil {
			return err //nolint:wrapcheck
		}
		if _, err := accountRepo.LockForUpdate(c, found.UserID); err != nil {
			return err //nolint:wrapcheck
		}
		if _, err := accountRepo.AdjustAvailable(c, found.UserID, args.Amount); err != nil {
			return err //nolint:wrapcheck
		}

		updated, updateErr := depositRepo.UpdateStatus(c, repoargs.UpdateDepositStatus{
			Token:  found.Token,
			Status: domain.DepositStatusSuccess,
		})
		if updateErr != nil {
			return updateErr //nolint:wrapcheck
		}
		request = updated
		return nil
	})

	if txErr != nil {
		// Failure ставится только когда заявка была найдена, а зачисление не
		// прошло: ошибка до или во время поиска (неизвестный токен, сбой
		// хранилища) ничего о судьбе заявки не говорит.
		if requestFound {
			s.markFailure(ctx, args.Token)
		}
		return nil, fmt.Errorf("settling deposit: %w", txErr)
	}
	return request, nil
}

// markFailure best-effort перевод заявки в Failure вне исходной транзакции.
// Неудача здесь не фатальна: заявку подберет свипер, а провайдер получит
// ошибку и повторит уведомление.
func (s *DepositService) markFailure(ctx context.Context, token string) {
	if _, err := s.depositRepo.UpdateStatus(ctx, repoargs.UpdateDepositStatus{
		Token:  token,
		Status: domain.DepositStatusFailure,
	}); err != nil {
		s.l.WithError(err).WithField("token", token).Error("failed to mark deposit request as Failure")
	}
}

// FailStuckPending помечает Failure заявки, зависшие в Pending дольше ttl.
// Возвращает количество обработанных заявок. Используется фоновым свипером:
// отдельная транзакция markFailure не атомарна с исходной, и падение процесса
// между ними оставило бы заявку Pending навсегда.
func (s *DepositService) FailStuckPending(ctx context.Context, ttl time.Duration, limit uint) (int, error) {
	var count int
	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		depositRepo, depositRepoErr :=
			uow.GetAs[DepositRequestRepository](tx, uow.RepositoryName(repoargs.DepositRequestRepoName))
		if depositRepoErr != nil {
			return depositRepoErr //nolint:wrapcheck
		}

		stuck, stuckErr := depositRepo.GetStuckPending(c, repoargs.StuckPending{
			OlderThan: time.Now().Add(-ttl),
			Limit:     limit,
		})
		if stuckErr != nil {
			return stuckErr //nolint:wrapcheck
		}

		for _, request := range stuck {
			if _, err := depositRepo.UpdateStatus(c, repoargs.UpdateDepositStatus{
				Token:  request.Token,
				Status: domain.DepositStatusFailure,
			}); err != nil {
				return err //nolint:wrapcheck
			}
			s.l.WithFields(logrus.Fields{
				"token":     request.Token,
				"createdAt": request.CreatedAt,
			}).Info("stuck pending deposit request marked as Failure")
			count++
		}
		return nil
	})

	if txErr != nil {
		return 0, fmt.Errorf("failing stuck pending deposits: %w", txErr)
	}
	return count, nil
}
