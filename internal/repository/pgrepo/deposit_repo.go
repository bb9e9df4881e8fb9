package pgrepo

import (
	"context"

	"github.com/fsdevblog/groph-pay/internal/domain"
	"github.com/fsdevblog/groph-pay/internal/repository/repoargs"
	"github.com/fsdevblog/groph-pay/pkg/uow"
)

// DepositRequestRepository журнал заявок на пополнение через внешних
// провайдеров. Строка живет вечно и служит аудиторским следом.
type DepositRequestRepository struct {
	conn uow.DBTX
}

func NewDepositRequestRepository(conn uow.DBTX) *DepositRequestRepository {
	return &DepositRequestRepository{conn: conn}
}

const depositColumns = `id, created_at, updated_at, user_id, token, provider, amount, status`

func (d *DepositRequestRepository) Create(
	ctx context.Context,
	args repoargs.CreateDepositRequest,
) (*domain.DepositRequest, error) {
	const query = `
		INSERT INTO deposit_requests (user_id, token, provider, amount, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + depositColumns

	row := d.conn.QueryRow(ctx, query, args.UserID, args.Token, args.Provider, args.Amount, domain.DepositStatusPending)
	request, err := scanDepositRequest(row)
	if err != nil {
		return nil, convertErr(err, "creating deposit request")
	}
	return request, nil
}

// FindByTokenForUpdate читает заявку под блокировкой строки. Вызывается только
// внутри uow транзакции: конкурентные дубли одного уведомления сериализуются
// на этой блокировке, и второй увидит уже терминальный статус.
func (d *DepositRequestRepository) FindByTokenForUpdate(
	ctx context.Context,
	token string,
) (*domain.DepositRequest, error) {
	const query = `SELECT ` + depositColumns + ` FROM deposit_requests WHERE token = $1 FOR UPDATE`

	request, err := scanDepositRequest(d.conn.QueryRow(ctx, query, token))
	if err != nil {
		return nil, convertErr(err, "locking deposit request by token")
	}
	return request, nil
}

// UpdateStatus переводит заявку из Pending в указанный статус. Переход
// разрешен только из Pending: терминальные статусы неизменны, попытка
// повторного перехода вернет domain.ErrRecordNotFound.
func (d *DepositRequestRepository) UpdateStatus(
	ctx context.Context,
	args repoargs.UpdateDepositStatus,
) (*domain.DepositRequest, error) {
	const query = `
		UPDATE deposit_requests
		SET status = $1, updated_at = now()
		WHERE token = $2 AND status = $3
		RETURNING ` + depositColumns

	row := d.conn.QueryRow(ctx, query, args.Status, args.Token, domain.DepositStatusPending)
	request, err := scanDepositRequest(row)
	if err != nil {
		return nil, convertErr(err, "updating deposit request status to %s", args.Status)
	}
	return request, nil
}

// GetByUserID возвращает заявки юзера, отсортированные по дате создания по убыванию.
func (d *DepositRequestRepository) GetByUserID(ctx context.Context, userID int64) ([]domain.DepositRequest, error) {
	const query = `
		SELECT ` + depositColumns + `
		FROM deposit_requests
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC`

	return d.queryMany(ctx, query, userID)
}

// GetStuckPending возвращает заявки, зависшие в Pending дольше указанного
// порога. Используется фоновым свипером.
func (d *DepositRequestRepository) GetStuckPending(
	ctx context.Context,
	args repoargs.StuckPending,
) ([]domain.DepositRequest, error) {
	const query = `
		SELECT ` + depositColumns + `
		FROM deposit_requests
		WHERE status = $1 AND created_at < $2
		ORDER BY created_at
		LIMIT $3`

	return d.queryMany(ctx, query, domain.DepositStatusPending, args.OlderThan, args.Limit)
}

func (d *DepositRequestRepository) queryMany(
	ctx context.Context,
	query string,
	queryArgs ...any,
) ([]domain.DepositRequest, error) {
	rows, err := d.conn.Query(ctx, query, queryArgs...)
	if err != nil {
		return nil, convertErr(err, "getting deposit requests")
	}
	defer rows.Close()

	var requests []domain.DepositRequest
	for rows.Next() {
		request, scanErr := scanDepositRequest(rows)
		if scanErr != nil {
			return nil, convertErr(scanErr, "scanning deposit requests")
		}
		requests = append(requests, *request)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, convertErr(rowsErr, "getting deposit requests")
	}
	return requests, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDepositRequest(row rowScanner) (*domain.DepositRequest, error) {
	var request domain.DepositRequest
	err := row.Scan(
		&request.ID,
		&request.CreatedAt,
		&request.UpdatedAt,
		&request.UserID,
		&request.Token,
		&request.Provider,
		&request.Amount,
		&request.Status,
	)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &request, nil
}
