package utils

import "github.com/gin-gonic/gin"

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Success writes v as a 200 JSON body.
func Success(c *gin.Context, v any) {
	c.JSON(200, v)
}

// Error writes a failure body and aborts the handler chain.
func Error(c *gin.Context, code int, msg string) {
	c.AbortWithStatusJSON(code, gin.H{
		"error":  msg,
		"status": StatusError,
	})
}
