package service

import (
	"context"
	"testing"

	"github.com/fsdevblog/groph-pay/internal/domain"
	"github.com/fsdevblog/groph-pay/internal/repository/repoargs"
	"github.com/fsdevblog/groph-pay/internal/service/mocks"
	"github.com/fsdevblog/groph-pay/internal/service/tokens"
	"github.com/fsdevblog/groph-pay/pkg/uow"
	uowmocks "github.com/fsdevblog/groph-pay/pkg/uow/mocks"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
)

var testJWTSecret = []byte("test-secret")

type UserServiceTestSuite struct {
	suite.Suite
	mockCtrl     *gomock.Controller
	mockUOW      *uowmocks.MockUOW
	mockUserRepo *mocks.MockUserRepository
	service      *UserService
}

func TestUserServiceSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}

func (s *UserServiceTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockUOW = uowmocks.NewMockUOW(s.mockCtrl)
	s.mockUserRepo = mocks.NewMockUserRepository(s.mockCtrl)

	s.mockUOW.EXPECT().
		GetRepository(uow.RepositoryName(repoargs.UserRepoName)).
		Return(s.mockUserRepo, nil).AnyTimes()

	var err error
	s.service, err = NewUserService(s.mockUOW, testJWTSecret)
	s.Require().NoError(err)
}

func (s *UserServiceTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func (s *UserServiceTestSuite) TestRegister() {
	args := RegisterUserArgs{
		Username: "alice",
		Phone:    "+79990000001",
		Password: "password123",
	}

	s.mockUserRepo.EXPECT().CreateUser(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, create repoargs.CreateUser) (*domain.User, error) {
			s.Equal(args.Username, create.Username)
			s.Equal(args.Phone, create.Phone)
			// в базу уходит bcrypt хэш, а не открытый пароль.
			s.NoError(bcrypt.CompareHashAndPassword([]byte(create.Password), []byte(args.Password)))
			return &domain.User{
				ID:       1,
				Username: create.Username,
				Phone:    create.Phone,
				Password: create.Password,
			}, nil
		})

	user, token, err := s.service.Register(s.T().Context(), args)
	s.Require().NoError(err)
	s.Equal(args.Username, user.Username)
	s.Equal(user.ID, s.claimsUserID(token))
}

// claimsUserID извлекает ID юзера из подписанного jwt токена.
func (s *UserServiceTestSuite) claimsUserID(token string) int64 {
	parsed, err := tokens.ValidateUserJWT(token, testJWTSecret)
	s.Require().NoError(err)
	claims, ok := parsed.Claims.(*tokens.UserClaims)
	s.Require().True(ok)
	return claims.ID
}

func (s *UserServiceTestSuite) TestRegister_Duplicate() {
	s.mockUserRepo.EXPECT().CreateUser(gomock.Any(), gomock.Any()).
		Return(nil, domain.ErrDuplicateKey)

	user, token, err := s.service.Register(s.T().Context(), RegisterUserArgs{
		Username: "alice",
		Phone:    "+79990000001",
		Password: "password123",
	})
	s.Require().ErrorIs(err, domain.ErrDuplicateKey)
	s.Nil(user)
	s.Empty(token)
}

func (s *UserServiceTestSuite) TestLogin() {
	password := "password123"
	hashed, hashErr := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	s.Require().NoError(hashErr)

	stored := domain.User{ID: 1, Username: "alice", Password: string(hashed)}

	s.mockUserRepo.EXPECT().FindUserByUsername(gomock.Any(), stored.Username).
		Return(&stored, nil).Times(2)

	cases := []struct {
		wantErr  error
		name     string
		password string
	}{
		{name: "ok", password: password, wantErr: nil},
		{name: "wrong password", password: "wrong", wantErr: domain.ErrPasswordMissMatch},
	}

	for _, t := range cases {
		s.Run(t.name, func() {
			user, token, err := s.service.Login(s.T().Context(), LoginUserArgs{
				Username: stored.Username,
				Password: t.password,
			})
			if t.wantErr != nil {
				s.Require().ErrorIs(err, t.wantErr)
				return
			}
			s.Require().NoError(err)
			s.Equal(stored.ID, user.ID)
			s.Equal(stored.ID, s.claimsUserID(token))
		})
	}
}

func (s *UserServiceTestSuite) TestLogin_UserNotFound() {
	s.mockUserRepo.EXPECT().FindUserByUsername(gomock.Any(), "ghost").
		Return(nil, domain.ErrRecordNotFound)

	user, token, err := s.service.Login(s.T().Context(), LoginUserArgs{
		Username: "ghost",
		Password: "password123",
	})
	s.Require().ErrorIs(err, domain.ErrRecordNotFound)
	s.Nil(user)
	s.Empty(token)
}
