package worker

import (
	"errors"
	"testing"
	"time"

	"github.com/fsdevblog/groph-pay/internal/worker/mocks"
	"github.com/golang/mock/gomock"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/suite"
)

type DepositSweeperTestSuite struct {
	suite.Suite
	ctrl        *gomock.Controller
	mockService *mocks.MockDepositServicer
	sweeper     *DepositSweeper
}

func TestDepositSweeperSuite(t *testing.T) {
	suite.Run(t, new(DepositSweeperTestSuite))
}

func (s *DepositSweeperTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockService = mocks.NewMockDepositServicer(s.ctrl)

	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)

	s.sweeper = NewDepositSweeper(s.mockService, 24*time.Hour, time.Minute, logger)
}

func (s *DepositSweeperTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *DepositSweeperTestSuite) TestSweep() {
	s.mockService.EXPECT().
		FailStuckPending(gomock.Any(), 24*time.Hour, defaultSweepLimit).
		Return(2, nil)

	s.NoError(s.sweeper.sweep(s.T().Context()))
}

func (s *DepositSweeperTestSuite) TestSweep_ServiceError() {
	serviceErr := errors.New("db gone")

	s.mockService.EXPECT().
		FailStuckPending(gomock.Any(), 24*time.Hour, defaultSweepLimit).
		Return(0, serviceErr)

	s.ErrorIs(s.sweeper.sweep(s.T().Context()), serviceErr)
}

func (s *DepositSweeperTestSuite) TestSetLimit() {
	s.sweeper.SetLimit(5)

	s.mockService.EXPECT().
		FailStuckPending(gomock.Any(), 24*time.Hour, uint(5)).
		Return(0, nil)

	s.NoError(s.sweeper.sweep(s.T().Context()))
}
