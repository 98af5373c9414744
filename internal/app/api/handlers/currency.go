package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/subwise/subwise/pkg/currency"
	"github.com/subwise/subwise/pkg/response"
)

// @Summary      List supported currencies
// @Tags         Currencies
// @Produce      json
// @Success      200  {object}  handlers.RespOK
// @Router       /api/currencies [get]
func ApiListCurrencies() gin.HandlerFunc {
	return func(c *gin.Context) {
		infos := lo.Map(currency.Codes, func(code string, _ int) currency.Info {
			return currency.GetInfo(code)
		})
		response.OK(c, infos)
	}
}

func RegisterCurrencyRoutes(r gin.IRouter) {
	r.GET("/currencies", ApiListCurrencies())
}
