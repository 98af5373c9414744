package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	paysvc "github.com/subwise/subwise/internal/app/service/payment"
	usersvc "github.com/subwise/subwise/internal/app/service/user"
	"github.com/subwise/subwise/pkg/logctx"
	"github.com/subwise/subwise/pkg/response"
	"github.com/subwise/subwise/pkg/types"
)

// @Summary      Start premium upgrade
// @Description  Creates a payment intent for the premium plan in the user's currency.
// @Tags         Payments
// @Produce      json
// @Param        id path string true "User ID"
// @Success      200  {object}  handlers.RespOK
// @Failure      503  {object}  handlers.RespErr
// @Router       /api/users/{id}/upgrade [post]
func ApiStartUpgrade(users *usersvc.Service, payments *paysvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		u, err := users.Get(ctx, c.Param("id"))
		if err != nil {
			response.Error(c, err)
			return
		}

		customerRef := payments.CreateCustomer(ctx, u.Email, u.Name)
		intent, err := payments.CreateUpgradeIntent(ctx, u.ID, types.PlanPremium, u.Currency, customerRef)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, intent)
	}
}

// @Summary      Confirm payment
// @Description  Reports the processor state of a payment intent. A succeeded upgrade payment promotes the user.
// @Tags         Payments
// @Produce      json
// @Param        intentId path string true "Payment intent ID"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/payments/{intentId} [get]
func ApiConfirmPayment(users *usersvc.Service, payments *paysvc.Service, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		state, err := payments.ConfirmPayment(ctx, c.Param("intentId"))
		if err != nil {
			response.Error(c, err)
			return
		}

		// reconcile from metadata: a settled premium purchase flips the plan
		if state.Status == "succeeded" && state.Metadata["plan"] == string(types.PlanPremium) {
			if userID := state.Metadata["user_id"]; userID != "" {
				if _, err := users.Upgrade(ctx, userID); err != nil {
					logctx.FromGin(c, log).Errorf("failed to apply upgrade for user %s: %v", userID, err)
				}
			}
		}
		response.OK(c, state)
	}
}

func RegisterPaymentRoutes(r gin.IRouter, users *usersvc.Service, payments *paysvc.Service, log *zap.SugaredLogger) {
	r.POST("/users/:id/upgrade", ApiStartUpgrade(users, payments))
	r.GET("/payments/:intentId", ApiConfirmPayment(users, payments, log))
}
