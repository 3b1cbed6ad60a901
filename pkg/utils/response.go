package utils

import (
	"github.com/gin-gonic/gin"
)

// Response is the uniform JSON envelope every endpoint returns.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Code    string      `json:"code,omitempty"`
	Warning string      `json:"warning,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func APIResponse(c *gin.Context, code int, success bool, message string, data interface{}) {
	c.JSON(code, Response{
		Success: success,
		Message: message,
		Data:    data,
	})
}

// APIError carries the machine-readable code alongside the message so
// callers can switch on codes instead of comparing strings.
func APIError(c *gin.Context, status int, code string, message string) {
	c.JSON(status, Response{
		Success: false,
		Message: message,
		Code:    code,
	})
}
