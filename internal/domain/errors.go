package domain

import (
	"errors"
)

var (
	ErrRecordNotFound    = errors.New("record not found")
	ErrPasswordMissMatch = errors.New("password mismatch")
	ErrDuplicateKey      = errors.New("duplicate key")
	ErrUnknown           = errors.New("unknown error")

	// ErrInsufficientFunds дебет приведет к отрицательному available.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrInvalidTransfer перевод самому себе либо неположительная сумма.
	ErrInvalidTransfer = errors.New("invalid transfer")
	// ErrInvalidAmount неположительная сумма пополнения.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrRecipientNotFound получатель с указанным номером телефона не найден.
	ErrRecipientNotFound = errors.New("recipient not found")

	// ErrUnknownToken уведомление ссылается на несуществующую заявку пополнения.
	ErrUnknownToken = errors.New("unknown deposit token")
	// ErrUnknownProvider провайдер не входит в список поддерживаемых.
	ErrUnknownProvider = errors.New("unknown provider")
)
