package repoargs

import (
	"time"

	"github.com/fsdevblog/groph-pay/internal/domain"
)

type CreateDepositRequest struct {
	UserID   int64
	Token    string
	Provider string
	Amount   int64
}

type UpdateDepositStatus struct {
	Token  string
	Status domain.DepositStatusType
}

// StuckPending параметры выборки зависших заявок для фонового свипера.
type StuckPending struct {
	OlderThan time.Time
	Limit     uint
}
