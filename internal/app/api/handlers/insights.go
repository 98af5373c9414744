package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	insightsvc "github.com/subwise/subwise/internal/app/service/insights"
	"github.com/subwise/subwise/pkg/apperr"
	"github.com/subwise/subwise/pkg/response"
)

// @Summary      Savings report
// @Description  Realized savings from cancelled subscriptions and completed negotiations.
// @Tags         Insights
// @Produce      json
// @Param        id path string true "User ID"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/users/{id}/savings-report [get]
func ApiSavingsReport(svc *insightsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		report, err := svc.SavingsReport(c.Request.Context(), c.Param("id"))
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, report)
	}
}

// @Summary      List unused subscriptions
// @Tags         Insights
// @Produce      json
// @Param        id path string true "User ID"
// @Param        days_unused query int false "Staleness threshold in days" default(30)
// @Success      200  {object}  handlers.RespOK
// @Router       /api/users/{id}/unused-subscriptions [get]
func ApiUnusedSubscriptions(svc *insightsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		days := insightsvc.DefaultStalenessDays
		if v := c.Query("days_unused"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				response.Error(c, apperr.New(apperr.CodeUnprocessable, "days_unused must be a non-negative integer"))
				return
			}
			days = n
		}
		unused, err := svc.UnusedSubscriptions(c.Request.Context(), c.Param("id"), days)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, unused)
	}
}

// @Summary      Subscription insights
// @Description  Period totals, category breakdown and optimization estimate over active subscriptions.
// @Tags         Insights
// @Produce      json
// @Param        id path string true "User ID"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/users/{id}/subscription-insights [get]
func ApiSubscriptionInsights(svc *insightsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		got, err := svc.Breakdown(c.Request.Context(), c.Param("id"))
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, got)
	}
}

func RegisterInsightRoutes(r gin.IRouter, svc *insightsvc.Service) {
	r.GET("/users/:id/savings-report", ApiSavingsReport(svc))
	r.GET("/users/:id/unused-subscriptions", ApiUnusedSubscriptions(svc))
	r.GET("/users/:id/subscription-insights", ApiSubscriptionInsights(svc))
}
