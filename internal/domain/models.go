package domain

import (
	"time"
)

type User struct {
	ID        int64
	CreatedAt time.Time
	UpdatedAt time.Time
	Username  string
	Phone     string
	Password  string
}

// Account денежный счет юзера. Все суммы хранятся в минорных единицах валюты
// (пайсы), чтобы исключить плавающую точку в денежной арифметике.
type Account struct {
	UserID          int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
	AvailableAmount int64
	LockedAmount    int64
}

// Transfer неизменяемая запись о завершенном p2p переводе. Создается только
// последним шагом успешной транзакции перевода.
type Transfer struct {
	ID         int64
	CreatedAt  time.Time
	FromUserID int64
	ToUserID   int64
	Amount     int64
}

// DepositRequest запись о намерении пополнения через внешнего провайдера.
// Идентифицируется корреляционным токеном, который провайдер возвращает
// в асинхронном уведомлении. Записи никогда не удаляются - это аудиторский след.
type DepositRequest struct {
	ID        int64
	CreatedAt time.Time
	UpdatedAt time.Time
	UserID    int64
	Token     string
	Provider  string
	Amount    int64
	Status    DepositStatusType
}

// IsTerminal сообщает, достигла ли заявка конечного статуса. Конечный статус
// монотонен: никакие дальнейшие переходы не допускаются.
func (d *DepositRequest) IsTerminal() bool {
	return d.Status == DepositStatusSuccess || d.Status == DepositStatusFailure
}
