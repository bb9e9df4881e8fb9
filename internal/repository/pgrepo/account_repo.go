package pgrepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/fsdevblog/groph-pay/internal/domain"
	"github.com/fsdevblog/groph-pay/pkg/uow"
)

// AccountRepository единственный владелец мутаций балансов. Остальные слои
// запрашивают изменения через него и никогда не пишут в accounts напрямую.
type AccountRepository struct {
	conn uow.DBTX
}

func NewAccountRepository(conn uow.DBTX) *AccountRepository {
	return &AccountRepository{conn: conn}
}

const accountColumns = `user_id, created_at, updated_at, available_amount, locked_amount`

// GetOrCreate возвращает счет юзера, лениво создавая нулевую запись при первом
// обращении. Вставка идемпотентна за счет ON CONFLICT DO NOTHING, поэтому
// гонка двух конкурентных создании безопасна.
func (a *AccountRepository) GetOrCreate(ctx context.Context, userID int64) (*domain.Account, error) {
	const insertQuery = `
		INSERT INTO accounts (user_id)
		VALUES ($1)
		ON CONFLICT (user_id) DO NOTHING`

	if _, err := a.conn.Exec(ctx, insertQuery, userID); err != nil {
		return nil, convertErr(err, "creating account for user %d", userID)
	}

	const selectQuery = `SELECT ` + accountColumns + ` FROM accounts WHERE user_id = $1`

	var account domain.Account
	err := a.conn.QueryRow(ctx, selectQuery, userID).
		Scan(&account.UserID, &account.CreatedAt, &account.UpdatedAt, &account.AvailableAmount, &account.LockedAmount)
	if err != nil {
		return nil, convertErr(err, "getting account of user %d", userID)
	}
	return &account, nil
}

// LockForUpdate читает счет под эксклюзивной блокировкой строки (FOR UPDATE).
// Должен вызываться только внутри uow транзакции: блокировка держится до её
// коммита и сериализует конкурентные операции над одним счетом.
func (a *AccountRepository) LockForUpdate(ctx context.Context, userID int64) (*domain.Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM accounts WHERE user_id = $1 FOR UPDATE`

	var account domain.Account
	err := a.conn.QueryRow(ctx, query, userID).
		Scan(&account.UserID, &account.CreatedAt, &account.UpdatedAt, &account.AvailableAmount, &account.LockedAmount)
	if err != nil {
		return nil, convertErr(err, "locking account of user %d", userID)
	}
	return &account, nil
}

// AdjustAvailable применяет delta (любого знака) к available_amount. Если
// результат стал бы отрицательным, возвращает domain.ErrInsufficientFunds
// и ничего не меняет. Для дебета вызывается только под блокировкой строки
// из LockForUpdate в той же транзакции.
func (a *AccountRepository) AdjustAvailable(ctx context.Context, userID int64, delta int64) (*domain.Account, error) {
	const query = `
		UPDATE accounts
		SET available_amount = available_amount + $1, updated_at = now()
		WHERE user_id = $2 AND available_amount + $1 >= 0
		RETURNING ` + accountColumns

	var account domain.Account
	err := a.conn.QueryRow(ctx, query, delta, userID).
		Scan(&account.UserID, &account.CreatedAt, &account.UpdatedAt, &account.AvailableAmount, &account.LockedAmount)
	if err != nil {
		// Охранное условие в WHERE не дает апдейту пройти при нехватке средств,
		// поэтому отсутствие строки здесь означает именно нехватку: существование
		// счета гарантирует вызвавшая сторона через GetOrCreate/LockForUpdate.
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("[repository/adjusting balance of user %d] %w", userID, domain.ErrInsufficientFunds)
		}
		return nil, convertErr(err, "adjusting balance of user %d", userID)
	}
	return &account, nil
}
