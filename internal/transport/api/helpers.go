package api

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/fsdevblog/groph-pay/internal/transport/api/middlewares"
)

// getUserIDFromContext возвращает id текущего юзера, записанный auth
// middleware. Вызывается только в хендлерах за AuthRequired.
func getUserIDFromContext(c *gin.Context) int64 {
	return c.GetInt64(middlewares.CurrentUserIDKey)
}

// majorToMinor переводит сумму из мажорных единиц в минорные (пайсы).
// Граница представления: внутри системы деньги живут только как int64 в
// минорных единицах, десятичные суммы существуют лишь в json запросах.
func majorToMinor(amount decimal.Decimal) (int64, error) {
	shifted := amount.Shift(2) //nolint:mnd
	if !shifted.IsInteger() {
		return 0, fmt.Errorf("amount %s has a fraction of a minor unit", amount.String())
	}
	return shifted.IntPart(), nil
}

// minorToMajor обратное преобразование для json ответов.
func minorToMajor(amount int64) float64 {
	return decimal.NewFromInt(amount).Shift(-2).InexactFloat64() //nolint:mnd
}
