package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"testing"
	"time"

	"github.com/fsdevblog/groph-pay/internal/domain"
	"github.com/fsdevblog/groph-pay/internal/logger"
	"github.com/fsdevblog/groph-pay/internal/service"
	"github.com/fsdevblog/groph-pay/internal/service/tokens"
	"github.com/fsdevblog/groph-pay/internal/transport/api/mocks"
	"github.com/fsdevblog/groph-pay/internal/transport/api/testutils"
	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/suite"
)

type DepositHandlerTestSuite struct {
	suite.Suite
	router             *gin.Engine
	mockDepositService *mocks.MockDepositServicer
	jwtSecret          []byte
}

func TestDepositHandlerSuite(t *testing.T) {
	suite.Run(t, new(DepositHandlerTestSuite))
}

func (s *DepositHandlerTestSuite) SetupTest() {
	mockCtrl := gomock.NewController(s.T())
	defer mockCtrl.Finish()

	s.mockDepositService = mocks.NewMockDepositServicer(mockCtrl)
	s.jwtSecret = []byte("super secret key")

	var err error
	s.router, err = New(RouterArgs{
		Logger:         logger.New(os.Stdout),
		DepositService: s.mockDepositService,
		JWTSecretKey:   s.jwtSecret,
	})
	s.Require().NoError(err)
}

func (s *DepositHandlerTestSuite) userJWT(userID int64) string {
	token, err := tokens.GenerateUserJWT(userID, time.Hour, s.jwtSecret)
	s.Require().NoError(err)
	return token
}

func (s *DepositHandlerTestSuite) TestCreate() {
	var currentUserID int64 = 1
	currentUserJWTToken := s.userJWT(currentUserID)

	depositToken := "230e5b3c-0d78-4df9-9ee3-b60d9fa831e1"
	provider := service.Provider{
		Name:        "HDFC Bank",
		RedirectURL: "https://netbanking.hdfcbank.com/netbanking",
	}

	s.mockDepositService.EXPECT().
		CreateDeposit(gomock.Any(), currentUserID, int64(500000), provider.Name).
		Return(&domain.DepositRequest{
			UserID:   currentUserID,
			Token:    depositToken,
			Provider: provider.Name,
			Amount:   500000,
			Status:   domain.DepositStatusPending,
		}, provider, nil).Times(1)
	s.mockDepositService.EXPECT().
		CreateDeposit(gomock.Any(), currentUserID, int64(100), "Unknown Bank").
		Return(nil, service.Provider{}, domain.ErrUnknownProvider).Times(1)

	cases := []struct {
		name       string
		payload    string
		jwtToken   string
		wantStatus int
	}{
		{
			name:       "all ok",
			payload:    `{"sum":5000,"provider":"HDFC Bank"}`,
			jwtToken:   currentUserJWTToken,
			wantStatus: http.StatusOK,
		}, {
			name:       "unknown provider",
			payload:    `{"sum":1,"provider":"Unknown Bank"}`,
			jwtToken:   currentUserJWTToken,
			wantStatus: http.StatusUnprocessableEntity,
		}, {
			name:       "missing provider",
			payload:    `{"sum":5000}`,
			jwtToken:   currentUserJWTToken,
			wantStatus: http.StatusBadRequest,
		}, {
			name:       "not authorized",
			payload:    `{"sum":5000,"provider":"HDFC Bank"}`,
			wantStatus: http.StatusUnauthorized,
		},
	}
	for _, t := range cases {
		s.Run(t.name, func() {
			reqOpts := []func(*testutils.RequestOptions){
				testutils.WithHeader("Content-Type", "application/json"),
			}
			if t.jwtToken != "" {
				reqOpts = append(reqOpts, testutils.WithHeader("Authorization", fmt.Sprintf("Bearer %s", t.jwtToken)))
			}
			res, err := testutils.MakeRequest(testutils.RequestArgs{
				Router: s.router,
				Method: http.MethodPost,
				URL:    RouteGroup + DepositsRoute,
				Body:   bytes.NewReader([]byte(t.payload)),
			}, reqOpts...)
			defer func() {
				closeErr := res.Body.Close()
				s.Require().NoError(closeErr)
			}()

			s.Require().NoError(err)
			s.Equal(t.wantStatus, res.StatusCode)

			if t.wantStatus != http.StatusOK {
				return
			}

			var body DepositCreateResponse
			s.Require().NoError(json.NewDecoder(res.Body).Decode(&body))
			s.Equal(depositToken, body.Token)

			// корреляционный токен вшит в redirect URL провайдера.
			redirectURL, parseErr := url.Parse(body.RedirectURL)
			s.Require().NoError(parseErr)
			s.Equal(depositToken, redirectURL.Query().Get("token"))
		})
	}
}

func (s *DepositHandlerTestSuite) TestIndex() {
	var userID int64 = 1
	userJWTToken := s.userJWT(userID)

	requests := []domain.DepositRequest{
		{
			CreatedAt: time.Now(),
			UserID:    userID,
			Token:     "230e5b3c-0d78-4df9-9ee3-b60d9fa831e1",
			Provider:  "HDFC Bank",
			Amount:    500000,
			Status:    domain.DepositStatusSuccess,
		},
	}
	s.mockDepositService.EXPECT().GetByUserID(gomock.Any(), userID).Return(requests, nil)

	res, err := testutils.MakeRequest(testutils.RequestArgs{
		Router: s.router,
		Method: http.MethodGet,
		URL:    RouteGroup + DepositsRoute,
	}, testutils.WithHeader("Authorization", fmt.Sprintf("Bearer %s", userJWTToken)))
	defer func() {
		closeErr := res.Body.Close()
		s.Require().NoError(closeErr)
	}()

	s.Require().NoError(err)
	s.Equal(http.StatusOK, res.StatusCode)

	var body []DepositHistoryItem
	s.Require().NoError(json.NewDecoder(res.Body).Decode(&body))
	s.Require().Len(body, 1)
	s.Equal(domain.DepositStatusSuccess, body[0].Status)
	s.InDelta(5000.0, body[0].Amount, 0.0001)
}
