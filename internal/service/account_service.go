package service

import (
	"context"

	"github.com/fsdevblog/groph-pay/internal/domain"
	"github.com/fsdevblog/groph-pay/internal/repository/repoargs"
	"github.com/fsdevblog/groph-pay/pkg/uow"
)

type AccountService struct {
	uow         uow.UOW
	accountRepo AccountRepository
}

func NewAccountService(u uow.UOW) (*AccountService, error) {
	accountRepo, err := uow.GetRepositoryAs[AccountRepository](u, uow.RepositoryName(repoargs.AccountRepoName))
	if err != nil {
		return nil, err
	}
	return &AccountService{
		uow:         u,
		accountRepo: accountRepo,
	}, nil
}

// GetBalance возвращает текущий счет юзера. Счет создается лениво при первом
// запросе баланса, поэтому операция не падает для свежезарегистрированного юзера.
func (a *AccountService) GetBalance(ctx context.Context, userID int64) (*domain.Account, error) {
	account, err := a.accountRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return account, nil
}
