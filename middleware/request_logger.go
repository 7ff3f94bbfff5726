package middleware

import (
	"hotel/utils"
	"time"

	"github.com/gin-gonic/gin"
)

// RequestLogger ghi access log ra file theo ngày
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		utils.LogRequest(c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}
