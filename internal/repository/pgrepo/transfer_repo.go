package pgrepo

import (
	"context"

	"github.com/fsdevblog/groph-pay/internal/domain"
	"github.com/fsdevblog/groph-pay/internal/repository/repoargs"
	"github.com/fsdevblog/groph-pay/pkg/uow"
)

// TransferRepository журнал завершенных переводов. Записи создаются только
// внутри транзакции перевода и никогда не изменяются.
type TransferRepository struct {
	conn uow.DBTX
}

func NewTransferRepository(conn uow.DBTX) *TransferRepository {
	return &TransferRepository{conn: conn}
}

func (t *TransferRepository) Create(ctx context.Context, args repoargs.CreateTransfer) (*domain.Transfer, error) {
	const query = `
		INSERT INTO transfers (from_user_id, to_user_id, amount)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, from_user_id, to_user_id, amount`

	var transfer domain.Transfer
	err := t.conn.QueryRow(ctx, query, args.FromUserID, args.ToUserID, args.Amount).
		Scan(&transfer.ID, &transfer.CreatedAt, &transfer.FromUserID, &transfer.ToUserID, &transfer.Amount)
	if err != nil {
		return nil, convertErr(err, "creating transfer")
	}
	return &transfer, nil
}

// GetByUserID возвращает переводы, где юзер выступает отправителем или
// получателем, отсортированные по дате создания по убыванию.
func (t *TransferRepository) GetByUserID(ctx context.Context, userID int64) ([]domain.Transfer, error) {
	const query = `
		SELECT id, created_at, from_user_id, to_user_id, amount
		FROM transfers
		WHERE from_user_id = $1 OR to_user_id = $1
		ORDER BY created_at DESC, id DESC`

	rows, err := t.conn.Query(ctx, query, userID)
	if err != nil {
		return nil, convertErr(err, "getting transfers of user %d", userID)
	}
	defer rows.Close()

	var transfers []domain.Transfer
	for rows.Next() {
		var transfer domain.Transfer
		if scanErr := rows.Scan(
			&transfer.ID, &transfer.CreatedAt, &transfer.FromUserID, &transfer.ToUserID, &transfer.Amount,
		); scanErr != nil {
			return nil, convertErr(scanErr, "scanning transfers of user %d", userID)
		}
		transfers = append(transfers, transfer)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, convertErr(rowsErr, "getting transfers of user %d", userID)
	}
	return transfers, nil
}
