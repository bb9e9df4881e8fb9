package api

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"github.com/fsdevblog/groph-pay/internal/domain"
	"github.com/fsdevblog/groph-pay/internal/service"
)

// UserServicer интерфейс исключительно для моков.
type UserServicer interface {
	Register(ctx context.Context, args service.RegisterUserArgs) (*domain.User, string, error)
	Login(ctx context.Context, args service.LoginUserArgs) (*domain.User, string, error)
}

type AccountServicer interface {
	GetBalance(ctx context.Context, userID int64) (*domain.Account, error)
}

type TransferServicer interface {
	Transfer(ctx context.Context, fromUserID int64, toPhone string, amount int64) (*domain.Transfer, error)
	GetByUserID(ctx context.Context, userID int64) ([]domain.Transfer, error)
}

type DepositServicer interface {
	CreateDeposit(
		ctx context.Context,
		userID int64,
		amount int64,
		providerName string,
	) (*domain.DepositRequest, service.Provider, error)
	GetByUserID(ctx context.Context, userID int64) ([]domain.DepositRequest, error)
	Settle(ctx context.Context, args service.SettleArgs) (*domain.DepositRequest, error)
}
