package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const sessionHeader = "X-Session-ID"

// KioskSessionMiddleware gán sessionId cho các request tự nhận phòng tại
// kiosk. Kiosk gửi lại header này trong cùng một lượt thao tác để các log
// upload giấy tờ và check-in nhóm được với nhau.
func KioskSessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionId := c.GetHeader(sessionHeader)
		if sessionId == "" {
			sessionId = uuid.NewString()
		}

		c.Set("sessionId", sessionId)
		c.Writer.Header().Set(sessionHeader, sessionId)
		c.Next()
	}
}
