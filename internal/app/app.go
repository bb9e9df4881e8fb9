package app

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/fsdevblog/groph-pay/internal/config"
	"github.com/fsdevblog/groph-pay/internal/repository/pgrepo"
	"github.com/fsdevblog/groph-pay/internal/repository/repoargs"
	"github.com/fsdevblog/groph-pay/internal/service"
	"github.com/fsdevblog/groph-pay/internal/transport/api"
	"github.com/fsdevblog/groph-pay/internal/worker"
	"github.com/fsdevblog/groph-pay/pkg/uow"

	// driver for migration applying postgres.
	_ "github.com/golang-migrate/migrate/v4/database/postgres" //nolint:revive
	// driver to get migrations from files (*.sql in our case).
	_ "github.com/golang-migrate/migrate/v4/source/file" //nolint:revive
)

type App struct {
	Config *config.Config
	Logger *logrus.Logger
}

func New(conf *config.Config, l *logrus.Logger) *App {
	return &App{
		Config: conf,
		Logger: l,
	}
}

func (a *App) Run() error {
	notifyCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.Logger.Infof("Starting app on %s", a.Config.RunAddress)
	conn, connErr := pgrepo.Connect(notifyCtx, a.Config.MigrationsDir, a.Config.DatabaseDSN, a.Logger)
	if connErr != nil {
		return fmt.Errorf("app run: %s", connErr.Error())
	}
	defer conn.Close()

	unitOfWork, uowErr := initUOW(conn)
	if uowErr != nil {
		return fmt.Errorf("app run: %s", uowErr.Error())
	}

	services, sErr := service.Factory(unitOfWork, []byte(a.Config.JWTUserSecret), a.Logger)
	if sErr != nil {
		return fmt.Errorf("app run: %s", sErr.Error())
	}

	router, routerErr := api.New(api.RouterArgs{
		Logger:          a.Logger,
		UserService:     services.UserService,
		AccountService:  services.AccountService,
		TransferService: services.TransferService,
		DepositService:  services.DepositService,
		JWTSecretKey:    []byte(a.Config.JWTUserSecret),
	})
	if routerErr != nil {
		return fmt.Errorf("app run: %s", routerErr.Error())
	}

	errChan := make(chan error, 1)

	go func() {
		if runErr := router.Run(a.Config.RunAddress); runErr != nil {
			errChan <- runErr
		}
	}()

	sweeper := worker.NewDepositSweeper(
		services.DepositService,
		a.Config.DepositPendingTTL,
		a.Config.DepositSweepInterval,
		a.Logger,
	)
	go sweeper.Run(notifyCtx)

	select {
	case <-notifyCtx.Done():
		return notifyCtx.Err() //nolint:wrapcheck
	case err := <-errChan:
		return err
	}
}

func initUOW(conn *pgxpool.Pool) (*uow.UnitOfWork, error) {
	unitOfWork := uow.NewUnitOfWork(conn)

	repositories := map[repoargs.RepositoryName]uow.RepositoryFactory{
		repoargs.UserRepoName: func(dbtx uow.DBTX) uow.Repository {
			return pgrepo.NewUserRepository(dbtx)
		},
		repoargs.AccountRepoName: func(dbtx uow.DBTX) uow.Repository {
			return pgrepo.NewAccountRepository(dbtx)
		},
		repoargs.TransferRepoName: func(dbtx uow.DBTX) uow.Repository {
			return pgrepo.NewTransferRepository(dbtx)
		},
		repoargs.DepositRequestRepoName: func(dbtx uow.DBTX) uow.Repository {
			return pgrepo.NewDepositRequestRepository(dbtx)
		},
	}

	for name, factory := range repositories {
		if regErr := unitOfWork.Register(uow.RepositoryName(name), factory); regErr != nil {
			return nil, fmt.Errorf("init UOW: %s", regErr.Error())
		}
	}

	return unitOfWork, nil
}
