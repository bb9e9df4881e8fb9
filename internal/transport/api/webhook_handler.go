package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/fsdevblog/groph-pay/internal/domain"
	"github.com/fsdevblog/groph-pay/internal/service"
)

// WebhookHandler принимает асинхронные уведомления банковских провайдеров.
// Эндпоинт не требует авторизации: его вызывает провайдер, а не юзер.
type WebhookHandler struct {
	svs DepositServicer
}

func NewWebhookHandler(svs DepositServicer) *WebhookHandler {
	return &WebhookHandler{
		svs: svs,
	}
}

// BankNotificationParams полезная нагрузка уведомления. Поля строго
// типизированы: все, что не соответствует форме, отклоняется на этапе
// парсинга, а не приводится молча. Сумма приходит в минорных единицах.
type BankNotificationParams struct {
	Token          string `binding:"required"      json:"token"`
	UserIdentifier string `binding:"required"      json:"user_identifier"`
	Amount         int64  `binding:"required,gt=0" json:"amount"`
}

type BankNotificationResponse struct {
	Message string                   `json:"message"`
	Status  domain.DepositStatusType `json:"status,omitempty"`
}

// Notify POST RouteGroup + BankWebhookRoute. Обрабатывает уведомление
// провайдера о завершении платежа. Провайдер доставляет уведомления
// at-least-once, поэтому повтор того же токена отвечает 200 с прежним
// исходом и не зачисляет деньги второй раз. Ответ 500 означает, что провайдер
// должен повторить доставку.
//
// Тело ответа на каждом пути рендерится здесь целиком; ошибки в контекст не
// складываются, иначе Errors middleware допишет в ответ второй json объект.
func (w *WebhookHandler) Notify(c *gin.Context) {
	var params BankNotificationParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		settlementsTotal.WithLabelValues(outcomeInvalid).Inc()
		c.AbortWithStatusJSON(http.StatusBadRequest, &BankNotificationResponse{
			Message: "Missing or invalid fields in the webhook payload",
		})
		return
	}

	userID, userIDErr := strconv.ParseInt(params.UserIdentifier, 10, 64)
	if userIDErr != nil {
		settlementsTotal.WithLabelValues(outcomeInvalid).Inc()
		c.AbortWithStatusJSON(http.StatusBadRequest, &BankNotificationResponse{
			Message: "Invalid user identifier in the webhook payload",
		})
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	request, err := w.svs.Settle(reqCtx, service.SettleArgs{
		Token:  params.Token,
		UserID: userID,
		Amount: params.Amount,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUnknownToken) {
			settlementsTotal.WithLabelValues(outcomeUnknownToken).Inc()
			c.AbortWithStatusJSON(http.StatusNotFound, &BankNotificationResponse{
				Message: "Unknown token",
			})
			return
		}
		settlementsTotal.WithLabelValues(outcomeError).Inc()
		c.AbortWithStatusJSON(http.StatusInternalServerError, &BankNotificationResponse{
			Message: "Error while processing webhook",
		})
		return
	}

	settlementsTotal.WithLabelValues(outcomeOK).Inc()
	c.JSON(http.StatusOK, &BankNotificationResponse{
		Message: "Captured",
		Status:  request.Status,
	})
}
