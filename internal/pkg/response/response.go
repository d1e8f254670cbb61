package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stressorleads/internal/pkg/apperr"
)

func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
	})
}

func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func ErrorWithDetails(c *gin.Context, statusCode int, code string, message string, details any) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

// FromError writes err as an error envelope. Typed *apperr.Error values keep
// their status and code; anything else becomes a 500 and is attached to the
// gin context so the error logger picks it up.
func FromError(c *gin.Context, err error) {
	if e, ok := apperr.As(err); ok && e.Kind != apperr.KindUnknown {
		if e.Kind == apperr.KindInternal {
			_ = c.Error(err)
		}
		Error(c, e.HTTPStatus(), e.Code, e.Message)
		return
	}
	_ = c.Error(err)
	Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
}
