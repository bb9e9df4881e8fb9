package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	transfersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "groph_pay_transfers_total",
		Help: "Processed p2p transfers by outcome",
	}, []string{"outcome"})

	settlementsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "groph_pay_settlements_total",
		Help: "Processed bank webhook notifications by outcome",
	}, []string{"outcome"})
)

const (
	outcomeOK                = "ok"
	outcomeInsufficientFunds = "insufficient_funds"
	outcomeInvalid           = "invalid"
	outcomeUnknownToken      = "unknown_token"
	outcomeError             = "error"
)
