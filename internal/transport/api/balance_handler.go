package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

type BalanceHandler struct {
	svs AccountServicer
}

func NewBalanceHandler(svs AccountServicer) *BalanceHandler {
	return &BalanceHandler{
		svs: svs,
	}
}

type BalanceResponse struct {
	Available float64 `json:"available"`
	Locked    float64 `json:"locked"`
}

// Index GET RouteGroup + BalanceRoute. Возвращает баланс только текущего юзера.
func (b *BalanceHandler) Index(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	account, err := b.svs.GetBalance(reqCtx, currentUserID)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	c.JSON(http.StatusOK, &BalanceResponse{
		Available: minorToMajor(account.AvailableAmount),
		Locked:    minorToMajor(account.LockedAmount),
	})
}
