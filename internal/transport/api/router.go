package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/fsdevblog/groph-pay/internal/transport/api/middlewares"
)

const (
	DefaultServiceTimeout = 3 * time.Second
)

const (
	RouteGroup       = "/api"
	RegisterRoute    = "/user/register"
	LoginRoute       = "/user/login"
	BalanceRoute     = "/user/balance"
	TransferRoute    = "/user/transfer"
	TransfersRoute   = "/user/transfers"
	DepositsRoute    = "/user/deposits"
	BankWebhookRoute = "/webhook/bank"
	MetricsRoute     = "/metrics"
)

type RouterArgs struct {
	Logger          *logrus.Logger
	UserService     UserServicer
	AccountService  AccountServicer
	TransferService TransferServicer
	DepositService  DepositServicer
	JWTSecretKey    []byte
}

func New(args RouterArgs) (*gin.Engine, error) {
	if err := registerValidators(); err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(gin.Recovery())
	if args.Logger != nil {
		r.Use(middlewares.Logger(args.Logger))
	}
	r.Use(middlewares.Errors())

	authHandler := NewAuthHandler(args.UserService)
	balanceHandler := NewBalanceHandler(args.AccountService)
	transferHandler := NewTransferHandler(args.TransferService)
	depositHandler := NewDepositHandler(args.DepositService)
	webhookHandler := NewWebhookHandler(args.DepositService)

	r.GET(MetricsRoute, gin.WrapH(promhttp.Handler()))

	api := r.Group(RouteGroup)

	api.POST(RegisterRoute, middlewares.NonAuthRequired(args.JWTSecretKey), authHandler.Register)
	api.POST(LoginRoute, middlewares.NonAuthRequired(args.JWTSecretKey), authHandler.Login)

	// уведомления присылает провайдер, юзерская авторизация здесь не применима.
	api.POST(BankWebhookRoute, webhookHandler.Notify)

	api.Use(middlewares.AuthRequired(args.JWTSecretKey))
	// ниже все роуты группы требуют авторизованного пользователя.
	api.GET(BalanceRoute, balanceHandler.Index)

	api.POST(TransferRoute, transferHandler.Create)
	api.GET(TransfersRoute, transferHandler.Index)

	api.POST(DepositsRoute, depositHandler.Create)
	api.GET(DepositsRoute, depositHandler.Index)

	return r, nil
}
