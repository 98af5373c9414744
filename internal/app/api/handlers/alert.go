package handlers

import (
	"github.com/gin-gonic/gin"

	alertsvc "github.com/subwise/subwise/internal/app/service/alert"
	"github.com/subwise/subwise/internal/models"
	"github.com/subwise/subwise/pkg/apperr"
	"github.com/subwise/subwise/pkg/response"
)

// @Summary      List price alerts
// @Tags         Alerts
// @Produce      json
// @Param        id path string true "User ID"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/users/{id}/price-alerts [get]
func ApiListPriceAlerts(svc *alertsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		alerts, err := svc.ListByUser(c.Request.Context(), c.Param("id"))
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, alerts)
	}
}

type createAlertRequest struct {
	SubscriptionID string  `json:"subscription_id" binding:"required"`
	OldPrice       float64 `json:"old_price" binding:"required,gt=0"`
	NewPrice       float64 `json:"new_price" binding:"required,gt=0"`
}

// @Summary      Create price alert
// @Description  Entry point for external price-change feeds.
// @Tags         Alerts
// @Accept       json
// @Produce      json
// @Param        id path string true "User ID"
// @Param        request body handlers.createAlertRequest true "Price change"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/users/{id}/price-alerts [post]
func ApiCreatePriceAlert(svc *alertsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createAlertRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, apperr.Wrap(apperr.CodeUnprocessable, err, "invalid request body"))
			return
		}
		created, err := svc.Create(c.Request.Context(), &models.PriceAlert{
			UserID:         c.Param("id"),
			SubscriptionID: req.SubscriptionID,
			OldPrice:       req.OldPrice,
			NewPrice:       req.NewPrice,
		})
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, created)
	}
}

// @Summary      Acknowledge price alert
// @Tags         Alerts
// @Produce      json
// @Param        alertId path string true "Alert ID"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/price-alerts/{alertId}/acknowledge [put]
func ApiAcknowledgePriceAlert(svc *alertsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Acknowledge(c.Request.Context(), c.Param("alertId")); err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, gin.H{"message": "Price alert acknowledged"})
	}
}

func RegisterAlertRoutes(r gin.IRouter, svc *alertsvc.Service) {
	r.GET("/users/:id/price-alerts", ApiListPriceAlerts(svc))
	r.POST("/users/:id/price-alerts", ApiCreatePriceAlert(svc))
	r.PUT("/price-alerts/:alertId/acknowledge", ApiAcknowledgePriceAlert(svc))
}
