// Package worker содержит фоновые процессы приложения.
package worker

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	defaultServiceTimeout      = 3 * time.Second
	defaultSweepLimit     uint = 100
)

//go:generate mockgen -source=sweeper.go -destination=mocks/mocks.go -package=mocks

type DepositServicer interface {
	FailStuckPending(ctx context.Context, ttl time.Duration, limit uint) (int, error)
}

// DepositSweeper добивает заявки пополнения, зависшие в Pending: перевод в
// Failure после неудачного зачисления выполняется отдельной транзакцией, и
// падение процесса между ними оставило бы заявку Pending навсегда. Свипер
// закрывает эту дыру, а заодно заявки, по которым провайдер так и не прислал
// уведомление.
type DepositSweeper struct {
	svs      DepositServicer
	l        *logrus.Entry
	ttl      time.Duration
	interval time.Duration
	limit    uint
}

func NewDepositSweeper(svs DepositServicer, ttl, interval time.Duration, l *logrus.Logger) *DepositSweeper {
	loggerEntry := l.WithFields(logrus.Fields{
		"component": "worker",
		"module":    "deposit_sweeper",
	})

	return &DepositSweeper{
		svs:      svs,
		l:        loggerEntry,
		ttl:      ttl,
		interval: interval,
		limit:    defaultSweepLimit,
	}
}

// SetLimit устанавливает максимум заявок, обрабатываемых за один проход.
func (s *DepositSweeper) SetLimit(limit uint) *DepositSweeper {
	s.limit = limit
	return s
}

// Run запускает периодические проходы до отмены контекста.
func (s *DepositSweeper) Run(ctx context.Context) {
	s.l.WithFields(logrus.Fields{
		"ttl":      s.ttl.String(),
		"interval": s.interval.String(),
		"limit":    s.limit,
	}).Info("Starting")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.l.Info("Got stop signal, exiting...")
			return
		case <-ticker.C:
			if err := s.sweep(ctx); err != nil {
				s.l.WithError(err).Error("sweep error")
			}
		}
	}
}

func (s *DepositSweeper) sweep(ctx context.Context) error {
	reqCtx, cancel := context.WithTimeout(ctx, defaultServiceTimeout)
	defer cancel()

	count, err := s.svs.FailStuckPending(reqCtx, s.ttl, s.limit)
	if err != nil {
		return errors.Wrap(err, "sweeping stuck deposits")
	}
	if count > 0 {
		s.l.WithField("count", count).Info("stuck deposit requests failed")
	}
	return nil
}
