package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	negsvc "github.com/subwise/subwise/internal/app/service/negotiation"
	"github.com/subwise/subwise/pkg/apperr"
	"github.com/subwise/subwise/pkg/response"
)

// @Summary      List user negotiations
// @Tags         Negotiations
// @Produce      json
// @Param        id path string true "User ID"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/users/{id}/negotiations [get]
func ApiListNegotiations(svc *negsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := svc.ListByUser(c.Request.Context(), c.Param("id"))
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, list)
	}
}

// @Summary      Create bill negotiation
// @Description  Opens a pending negotiation seeded with a 15% savings estimate.
// @Tags         Negotiations
// @Accept       json
// @Produce      json
// @Param        id path string true "User ID"
// @Param        request body negotiation.CreateNegotiationRequest true "Negotiation"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/users/{id}/negotiations [post]
func ApiCreateNegotiation(svc *negsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req negsvc.CreateNegotiationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, apperr.Wrap(apperr.CodeUnprocessable, err, "invalid request body"))
			return
		}
		n, err := svc.Create(c.Request.Context(), c.Param("id"), &req)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, n)
	}
}

// @Summary      Complete negotiation
// @Description  Marks the negotiation completed; actual_savings overwrites the estimate.
// @Tags         Negotiations
// @Produce      json
// @Param        id path string true "Negotiation ID"
// @Param        actual_savings query number true "Realized savings amount"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/negotiations/{id}/complete [put]
func ApiCompleteNegotiation(svc *negsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		savings, err := strconv.ParseFloat(c.Query("actual_savings"), 64)
		if err != nil {
			response.Error(c, apperr.New(apperr.CodeUnprocessable, "actual_savings must be a number"))
			return
		}
		n, err := svc.Complete(c.Request.Context(), c.Param("id"), savings)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, gin.H{"message": "Negotiation completed successfully", "negotiation": n})
	}
}

func RegisterNegotiationRoutes(r gin.IRouter, svc *negsvc.Service) {
	r.GET("/users/:id/negotiations", ApiListNegotiations(svc))
	r.POST("/users/:id/negotiations", ApiCreateNegotiation(svc))
	r.PUT("/negotiations/:id/complete", ApiCompleteNegotiation(svc))
}
