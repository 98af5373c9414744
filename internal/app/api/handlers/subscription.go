package handlers

import (
	"github.com/gin-gonic/gin"

	subsvc "github.com/subwise/subwise/internal/app/service/subscription"
	"github.com/subwise/subwise/pkg/apperr"
	"github.com/subwise/subwise/pkg/response"
)

// @Summary      List user subscriptions
// @Tags         Subscriptions
// @Produce      json
// @Param        id path string true "User ID"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/users/{id}/subscriptions [get]
func ApiListSubscriptions(svc *subsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		subs, err := svc.ListByUser(c.Request.Context(), c.Param("id"))
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, subs)
	}
}

// @Summary      Create subscription
// @Tags         Subscriptions
// @Accept       json
// @Produce      json
// @Param        id path string true "User ID"
// @Param        request body subscription.CreateSubscriptionRequest true "Subscription"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/users/{id}/subscriptions [post]
func ApiCreateSubscription(svc *subsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req subsvc.CreateSubscriptionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, apperr.Wrap(apperr.CodeUnprocessable, err, "invalid request body"))
			return
		}
		sub, err := svc.Create(c.Request.Context(), c.Param("id"), &req)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, sub)
	}
}

// @Summary      Get subscription
// @Tags         Subscriptions
// @Produce      json
// @Param        id path string true "Subscription ID"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/subscriptions/{id} [get]
func ApiGetSubscription(svc *subsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		sub, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, sub)
	}
}

// @Summary      Cancel subscription
// @Tags         Subscriptions
// @Produce      json
// @Param        id path string true "Subscription ID"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/subscriptions/{id}/cancel [put]
func ApiCancelSubscription(svc *subsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		sub, err := svc.Cancel(c.Request.Context(), c.Param("id"))
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, gin.H{"message": "Subscription cancelled successfully", "subscription": sub})
	}
}

// @Summary      Pause subscription
// @Tags         Subscriptions
// @Produce      json
// @Param        id path string true "Subscription ID"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/subscriptions/{id}/pause [put]
func ApiPauseSubscription(svc *subsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		sub, err := svc.Pause(c.Request.Context(), c.Param("id"))
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, gin.H{"message": "Subscription paused successfully", "subscription": sub})
	}
}

// @Summary      Delete subscription
// @Tags         Subscriptions
// @Produce      json
// @Param        id path string true "Subscription ID"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/subscriptions/{id} [delete]
func ApiDeleteSubscription(svc *subsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, gin.H{"message": "Subscription deleted successfully"})
	}
}

func RegisterSubscriptionRoutes(r gin.IRouter, svc *subsvc.Service) {
	r.GET("/users/:id/subscriptions", ApiListSubscriptions(svc))
	r.POST("/users/:id/subscriptions", ApiCreateSubscription(svc))
	r.GET("/subscriptions/:id", ApiGetSubscription(svc))
	r.PUT("/subscriptions/:id/cancel", ApiCancelSubscription(svc))
	r.PUT("/subscriptions/:id/pause", ApiPauseSubscription(svc))
	r.DELETE("/subscriptions/:id", ApiDeleteSubscription(svc))
}
