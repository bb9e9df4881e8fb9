package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/fsdevblog/groph-pay/internal/domain"
	"github.com/fsdevblog/groph-pay/internal/repository/repoargs"
	"github.com/fsdevblog/groph-pay/internal/service/tokens"
	"github.com/fsdevblog/groph-pay/pkg/uow"
)

const JWTTokenExpire = 1 * time.Hour

type UserService struct {
	uow            uow.UOW
	userRepo       UserRepository
	jwtTokenSecret []byte
}

func NewUserService(u uow.UOW, jwtTokenSecret []byte) (*UserService, error) {
	userRepo, userRepoErr := uow.GetRepositoryAs[UserRepository](u, uow.RepositoryName(repoargs.UserRepoName))
	if userRepoErr != nil {
		return nil, userRepoErr
	}
	return &UserService{
		uow:            u,
		userRepo:       userRepo,
		jwtTokenSecret: jwtTokenSecret,
	}, nil
}

type RegisterUserArgs struct {
	Username string
	Phone    string
	Password string
}

// Register создает юзера в базе данных. После успешного создания генерирует jwt token.
// Возвращает 3 значения: созданный юзер, токен и ошибку. При конфликте юзернейма
// или телефона вернется ошибка domain.ErrDuplicateKey.
func (s *UserService) Register(ctx context.Context, args RegisterUserArgs) (*domain.User, string, error) {
	password, hashErr := s.hashPassword(args.Password)
	if hashErr != nil {
		return nil, "", fmt.Errorf("registering user: %s", hashErr.Error())
	}

	user, userErr := s.userRepo.CreateUser(ctx, repoargs.CreateUser{
		Username: args.Username,
		Phone:    args.Phone,
		Password: password,
	})
	if userErr != nil {
		return nil, "", fmt.Errorf("registering user: %w", userErr)
	}

	token, tokenErr := tokens.GenerateUserJWT(user.ID, JWTTokenExpire, s.jwtTokenSecret)
	if tokenErr != nil {
		return nil, "", fmt.Errorf("registering user: %s", tokenErr.Error())
	}
	return user, token, nil
}

type LoginUserArgs struct {
	Username string
	Password string
}

// Login аутентифицирует юзера по паре логин/пароль. При несовпадении пароля
// вернется ошибка domain.ErrPasswordMissMatch, при отсутствии юзера -
// domain.ErrRecordNotFound.
func (s *UserService) Login(ctx context.Context, args LoginUserArgs) (*domain.User, string, error) {
	user, userErr := s.userRepo.FindUserByUsername(ctx, args.Username)
	if userErr != nil {
		return nil, "", fmt.Errorf("logging in user: %w", userErr)
	}

	if !s.comparePasswords(user.Password, args.Password) {
		return nil, "", fmt.Errorf("logging in user: %w", domain.ErrPasswordMissMatch)
	}

	token, tokenErr := tokens.GenerateUserJWT(user.ID, JWTTokenExpire, s.jwtTokenSecret)
	if tokenErr != nil {
		return nil, "", fmt.Errorf("logging in user: %s", tokenErr.Error())
	}
	return user, token, nil
}

func (s *UserService) hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %s", err.Error())
	}
	return string(bytes), nil
}

func (s *UserService) comparePasswords(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}
