package service

import (
	"context"

	"github.com/fsdevblog/groph-pay/internal/domain"
	"github.com/fsdevblog/groph-pay/internal/repository/repoargs"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

type UserRepository interface {
	CreateUser(ctx context.Context, args repoargs.CreateUser) (*domain.User, error)
	FindUserByUsername(ctx context.Context, username string) (*domain.User, error)
	FindUserByPhone(ctx context.Context, phone string) (*domain.User, error)
}

type AccountRepository interface {
	GetOrCreate(ctx context.Context, userID int64) (*domain.Account, error)
	LockForUpdate(ctx context.Context, userID int64) (*domain.Account, error)
	AdjustAvailable(ctx context.Context, userID int64, delta int64) (*domain.Account, error)
}

type TransferRepository interface {
	Create(ctx context.Context, args repoargs.CreateTransfer) (*domain.Transfer, error)
	GetByUserID(ctx context.Context, userID int64) ([]domain.Transfer, error)
}

type DepositRequestRepository interface {
	Create(ctx context.Context, args repoargs.CreateDepositRequest) (*domain.DepositRequest, error)
	FindByTokenForUpdate(ctx context.Context, token string) (*domain.DepositRequest, error)
	UpdateStatus(ctx context.Context, args repoargs.UpdateDepositStatus) (*domain.DepositRequest, error)
	GetByUserID(ctx context.Context, userID int64) ([]domain.DepositRequest, error)
	GetStuckPending(ctx context.Context, args repoargs.StuckPending) ([]domain.DepositRequest, error)
}
