package response

import (
	"github.com/gin-gonic/gin"

	"github.com/subwise/subwise/pkg/apperr"
)

const codeOK = "OK"

// APIResponse is the generic response envelope used by HTTP APIs.
// Use OK / Error helpers to construct instances.
type APIResponse[T any] struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// OK writes a successful envelope with data.
func OK[T any](c *gin.Context, data T) {
	c.JSON(200, &APIResponse[T]{Code: codeOK, Message: "ok", Data: data})
}

// Error maps err onto its taxonomy code and HTTP status.
// Internal errors never leak their message to the client.
func Error(c *gin.Context, err error) {
	code := apperr.CodeOf(err)
	msg := "internal error"
	if code != apperr.CodeInternal {
		if typed := apperr.As(err); typed != nil && typed.Message() != "" {
			msg = typed.Message()
		} else {
			msg = err.Error()
		}
	}
	c.JSON(apperr.HTTPStatus(code), &APIResponse[any]{Code: string(code), Message: msg})
}
