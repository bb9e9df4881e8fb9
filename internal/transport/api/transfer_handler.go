package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/fsdevblog/groph-pay/internal/domain"
)

type TransferHandler struct {
	svs TransferServicer
}

func NewTransferHandler(svs TransferServicer) *TransferHandler {
	return &TransferHandler{
		svs: svs,
	}
}

type TransferParams struct {
	Phone  string          `binding:"required,phone_number" json:"phone"`
	Amount decimal.Decimal `binding:"required"              json:"sum"`
}

type TransferResponse struct {
	ID int64 `json:"id"`
}

// Create POST RouteGroup + TransferRoute. Переводит сумму текущего юзера
// получателю, адресованному номером телефона. Сумма приходит в мажорных
// единицах и конвертируется в минорные на этой границе.
func (t *TransferHandler) Create(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	var params TransferParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}

	amount, amountErr := majorToMinor(params.Amount)
	if amountErr != nil {
		transfersTotal.WithLabelValues(outcomeInvalid).Inc()
		c.AbortWithStatus(http.StatusUnprocessableEntity)
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	transfer, err := t.svs.Transfer(reqCtx, currentUserID, params.Phone, amount)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidTransfer):
			transfersTotal.WithLabelValues(outcomeInvalid).Inc()
			c.AbortWithStatus(http.StatusUnprocessableEntity)
		case errors.Is(err, domain.ErrRecipientNotFound):
			transfersTotal.WithLabelValues(outcomeInvalid).Inc()
			c.AbortWithStatus(http.StatusNotFound)
		case errors.Is(err, domain.ErrInsufficientFunds):
			transfersTotal.WithLabelValues(outcomeInsufficientFunds).Inc()
			c.AbortWithStatus(http.StatusPaymentRequired)
		default:
			transfersTotal.WithLabelValues(outcomeError).Inc()
			_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		}
		return
	}

	transfersTotal.WithLabelValues(outcomeOK).Inc()
	c.JSON(http.StatusOK, &TransferResponse{ID: transfer.ID})
}

type TransferHistoryItem struct {
	ID           int64                `json:"id"`
	Direction    domain.DirectionType `json:"direction"`
	Counterparty int64                `json:"counterparty"`
	Amount       float64              `json:"sum"`
	CreatedAt    string               `json:"created_at"`
}

// Index GET RouteGroup + TransfersRoute. История переводов текущего юзера.
func (t *TransferHandler) Index(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	transfers, err := t.svs.GetByUserID(reqCtx, currentUserID)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	if len(transfers) == 0 {
		c.AbortWithStatus(http.StatusNoContent)
		return
	}

	var response = make([]TransferHistoryItem, len(transfers))
	for i, transfer := range transfers {
		item := TransferHistoryItem{
			ID:        transfer.ID,
			Amount:    minorToMajor(transfer.Amount),
			CreatedAt: transfer.CreatedAt.Format(time.RFC3339),
		}
		if transfer.FromUserID == currentUserID {
			item.Direction = domain.DirectionOutgoing
			item.Counterparty = transfer.ToUserID
		} else {
			item.Direction = domain.DirectionIncoming
			item.Counterparty = transfer.FromUserID
		}
		response[i] = item
	}

	c.JSON(http.StatusOK, response)
}
