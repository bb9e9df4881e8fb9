package pgrepo

import (
	"context"

	"github.com/fsdevblog/groph-pay/internal/domain"
	"github.com/fsdevblog/groph-pay/internal/repository/repoargs"
	"github.com/fsdevblog/groph-pay/pkg/uow"
)

type UserRepository struct {
	conn uow.DBTX
}

func NewUserRepository(conn uow.DBTX) *UserRepository {
	return &UserRepository{conn: conn}
}

// CreateUser создает юзера в базе данных. В случае конфликта юзернейма или
// номера телефона возвращает ошибку domain.ErrDuplicateKey, во всех других
// случаях - domain.ErrUnknown.
func (u *UserRepository) CreateUser(ctx context.Context, args repoargs.CreateUser) (*domain.User, error) {
	const query = `
		INSERT INTO users (username, phone, encrypted_password)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at, username, phone, encrypted_password`

	var user domain.User
	err := u.conn.QueryRow(ctx, query, args.Username, args.Phone, args.Password).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt, &user.Username, &user.Phone, &user.Password)
	if err != nil {
		return nil, convertErr(err, "creating user")
	}
	return &user, nil
}

// FindUserByUsername ищет юзера по его юзернейму. Возвращает ошибку
// domain.ErrRecordNotFound если запись не найдена.
func (u *UserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	const query = `
		SELECT id, created_at, updated_at, username, phone, encrypted_password
		FROM users
		WHERE username = $1`

	var user domain.User
	err := u.conn.QueryRow(ctx, query, username).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt, &user.Username, &user.Phone, &user.Password)
	if err != nil {
		return nil, convertErr(err, "finding user by username %s", username)
	}
	return &user, nil
}

// FindUserByPhone ищет юзера по номеру телефона. По нему адресуются p2p переводы.
func (u *UserRepository) FindUserByPhone(ctx context.Context, phone string) (*domain.User, error) {
	const query = `
		SELECT id, created_at, updated_at, username, phone, encrypted_password
		FROM users
		WHERE phone = $1`

	var user domain.User
	err := u.conn.QueryRow(ctx, query, phone).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt, &user.Username, &user.Phone, &user.Password)
	if err != nil {
		return nil, convertErr(err, "finding user by phone %s", phone)
	}
	return &user, nil
}
