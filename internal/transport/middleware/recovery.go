package middleware

import (
	"net/http"

	"github.com/ds124wfegd/adgen/internal/entity"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Recovery turns a panic into the JSON error contract. Only error values
// carry their message to the client.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		message := entity.FallbackGenerateError
		if err, ok := recovered.(error); ok && err.Error() != "" {
			message = err.Error()
		}

		logrus.WithFields(logrus.Fields{
			"request_id": GetRequestID(c),
			"panic":      recovered,
		}).Error("Recovered from panic")

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": message})
	})
}
