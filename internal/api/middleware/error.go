package middleware

import (
	"fmt"
	"net/http"

	"mission-control/internal/api/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorHandler middleware turns panics into a 500 with the standard error envelope.
func ErrorHandler(log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		message := "An unexpected error occurred"
		switch v := recovered.(type) {
		case string:
			message = v
		case error:
			message = v.Error()
		}
		log.Error("panic recovered",
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", RequestIDFrom(c)),
			zap.String("panic", fmt.Sprint(recovered)),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INTERNAL_ERROR",
				Message: message,
			},
		})
	})
}
