package service

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/fsdevblog/groph-pay/pkg/uow"
)

type AppServices struct {
	UserService     *UserService
	AccountService  *AccountService
	TransferService *TransferService
	DepositService  *DepositService
}

func Factory(unitOfWork uow.UOW, jwtSecret []byte, l logrus.FieldLogger) (*AppServices, error) {
	userService, userServiceErr := NewUserService(unitOfWork, jwtSecret)
	if userServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", userServiceErr.Error())
	}

	accountService, accountServiceErr := NewAccountService(unitOfWork)
	if accountServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", accountServiceErr.Error())
	}

	transferService, transferServiceErr := NewTransferService(unitOfWork)
	if transferServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", transferServiceErr.Error())
	}

	depositService, depositServiceErr := NewDepositService(unitOfWork, l)
	if depositServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", depositServiceErr.Error())
	}

	return &AppServices{
		UserService:     userService,
		AccountService:  accountService,
		TransferService: transferService,
		DepositService:  depositService,
	}, nil
}
