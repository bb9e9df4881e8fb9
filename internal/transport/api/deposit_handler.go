package api

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/fsdevblog/groph-pay/internal/domain"
	"github.com/fsdevblog/groph-pay/internal/service"
)

type DepositHandler struct {
	svs DepositServicer
}

func NewDepositHandler(svs DepositServicer) *DepositHandler {
	return &DepositHandler{
		svs: svs,
	}
}

type DepositCreateParams struct {
	Amount   decimal.Decimal `binding:"required" json:"sum"`
	Provider string          `binding:"required" json:"provider"`
}

type DepositCreateResponse struct {
	Token       string `json:"token"`
	RedirectURL string `json:"redirect_url"`
}

// Create POST RouteGroup + DepositsRoute. Регистрирует намерение пополнения и
// возвращает корреляционный токен вместе с redirect URL провайдера, в который
// токен вшит query параметром. Деньги на этом шаге не двигаются.
func (d *DepositHandler) Create(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	var params DepositCreateParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}

	amount, amountErr := majorToMinor(params.Amount)
	if amountErr != nil {
		c.AbortWithStatus(http.StatusUnprocessableEntity)
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	request, provider, err := d.svs.CreateDeposit(reqCtx, currentUserID, amount, params.Provider)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidAmount), errors.Is(err, domain.ErrUnknownProvider):
			c.AbortWithStatus(http.StatusUnprocessableEntity)
		default:
			_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		}
		return
	}

	c.JSON(http.StatusOK, &DepositCreateResponse{
		Token:       request.Token,
		RedirectURL: providerRedirectURL(provider, request.Token),
	})
}

type DepositHistoryItem struct {
	Token     string                   `json:"token"`
	Provider  string                   `json:"provider"`
	Amount    float64                  `json:"sum"`
	Status    domain.DepositStatusType `json:"status"`
	CreatedAt string                   `json:"created_at"`
}

// Index GET RouteGroup + DepositsRoute. История пополнений текущего юзера.
func (d *DepositHandler) Index(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	requests, err := d.svs.GetByUserID(reqCtx, currentUserID)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	if len(requests) == 0 {
		c.AbortWithStatus(http.StatusNoContent)
		return
	}

	var response = make([]DepositHistoryItem, len(requests))
	for i, request := range requests {
		response[i] = DepositHistoryItem{
			Token:     request.Token,
			Provider:  request.Provider,
			Amount:    minorToMajor(request.Amount),
			Status:    request.Status,
			CreatedAt: request.CreatedAt.Format(time.RFC3339),
		}
	}

	c.JSON(http.StatusOK, response)
}

func providerRedirectURL(provider service.Provider, token string) string {
	redirectURL, err := url.Parse(provider.RedirectURL)
	if err != nil {
		// адреса провайдеров статичны и валидны, сюда попасть нельзя
		return provider.RedirectURL
	}
	query := redirectURL.Query()
	query.Set("token", token)
	redirectURL.RawQuery = query.Encode()
	return redirectURL.String()
}
