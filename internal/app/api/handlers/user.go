package handlers

import (
	"github.com/gin-gonic/gin"

	usersvc "github.com/subwise/subwise/internal/app/service/user"
	"github.com/subwise/subwise/pkg/apperr"
	"github.com/subwise/subwise/pkg/response"
)

// @Summary      Create user
// @Description  Registers a new account. Email must be unique.
// @Tags         Users
// @Accept       json
// @Produce      json
// @Param        request body user.CreateUserRequest true "User signup request"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/users [post]
func ApiCreateUser(svc *usersvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req usersvc.CreateUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, apperr.Wrap(apperr.CodeUnprocessable, err, "invalid request body"))
			return
		}
		u, err := svc.Create(c.Request.Context(), &req)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, u)
	}
}

// @Summary      Get user
// @Tags         Users
// @Produce      json
// @Param        id path string true "User ID"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/users/{id} [get]
func ApiGetUser(svc *usersvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, u)
	}
}

// @Summary      Get user by email
// @Tags         Users
// @Produce      json
// @Param        email path string true "Email address"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/users/email/{email} [get]
func ApiGetUserByEmail(svc *usersvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := svc.GetByEmail(c.Request.Context(), c.Param("email"))
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, u)
	}
}

func RegisterUserRoutes(r gin.IRouter, svc *usersvc.Service) {
	r.POST("/users", ApiCreateUser(svc))
	r.GET("/users/:id", ApiGetUser(svc))
	r.GET("/users/email/:email", ApiGetUserByEmail(svc))
}
