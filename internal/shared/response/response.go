package response

import (
	"github.com/gin-gonic/gin"
)

// ErrorBody adalah bentuk standar error untuk semua endpoint.
type ErrorBody struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	Details any    `json:"details,omitempty"`
}

// Success menulis payload apa adanya, misal gin.H{"request": ...}.
func Success(c *gin.Context, status int, data any) {
	c.JSON(status, data)
}

func Error(c *gin.Context, status int, errorCode string, message string, details any) {
	c.JSON(status, ErrorBody{
		Message: message,
		Code:    errorCode,
		Details: details,
	})
}

// Abort sama seperti Error tetapi menghentikan chain middleware.
func Abort(c *gin.Context, status int, errorCode string, message string) {
	c.AbortWithStatusJSON(status, ErrorBody{
		Message: message,
		Code:    errorCode,
	})
}
