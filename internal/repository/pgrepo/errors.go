package pgrepo

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/fsdevblog/groph-pay/internal/domain"
)

const (
	uniqueViolationCode = "23505"
	checkViolationCode  = "23514"
)

// convertErr преобразует ошибку к стандартному виду для слоя репозитория.
// Особенности:
//   - pgx.ErrNoRows превращается в domain.ErrRecordNotFound.
//   - Нарушение уникального ключа (23505) - в domain.ErrDuplicateKey.
//   - Нарушение CHECK ограничения (23514) - в domain.ErrInsufficientFunds:
//     единственные CHECK на денежных таблицах запрещают отрицательные балансы.
//   - Все остальные ошибки возвращаются как domain.ErrUnknown с оригинальным сообщением.
//
// Используется для единообразной обработки и возврата ошибок из репозитория.
func convertErr(err error, format string, formatArgs ...any) error {
	if err == nil {
		return nil
	}

	msg := fmt.Sprintf(format, formatArgs...)

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("[repository/%s] %w", msg, domain.ErrRecordNotFound)
	}

	var pgErr *pgconn.PgError
	errType := domain.ErrUnknown

	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolationCode:
			errType = domain.ErrDuplicateKey
		case checkViolationCode:
			errType = domain.ErrInsufficientFunds
		}
	}

	return fmt.Errorf("[repository/%s] %w: %s", msg, errType, err.Error())
}
