package middleware

import (
	"strings"

	"hotel/errors"
	"hotel/response"
	"hotel/services"

	"github.com/gin-gonic/gin"
)

// roleAllowed kiểm tra role có nằm trong danh sách cho phép không.
// Danh sách rỗng nghĩa là chỉ cần đăng nhập.
func roleAllowed(role int, allowed []int) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}

// bearerToken lấy token từ header Authorization, fallback sang cookie
// access_token cho các client web
func bearerToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		return strings.TrimPrefix(header, "Bearer ")
	}
	if cookie, err := c.Cookie("access_token"); err == nil {
		return cookie
	}
	return ""
}

// AuthMiddleware xác thực token và kiểm tra role nếu có yêu cầu
func AuthMiddleware(roles ...int) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			response.Unauthorized(c)
			c.Abort()
			return
		}

		userID, userRole, err := services.GetUserIDFromToken(token)
		if err != nil {
			response.Unauthorized(c)
			c.Abort()
			return
		}

		if !roleAllowed(userRole, roles) {
			response.Forbidden(c)
			c.Abort()
			return
		}

		c.Set("userID", userID)
		c.Set("userRole", userRole)
		c.Next()
	}
}

// RoleMiddleware kiểm tra role của user đã được AuthMiddleware gán trước đó
func RoleMiddleware(roles ...int) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole, exists := c.Get("userRole")
		if !exists {
			response.Unauthorized(c)
			c.Abort()
			return
		}

		if !roleAllowed(userRole.(int), roles) {
			response.Forbidden(c)
			c.Abort()
			return
		}

		c.Next()
	}
}

// ErrorHandler biến lỗi gom trên context thành response chuẩn
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err
		if appErr, ok := err.(*errors.AppError); ok {
			response.Error(c, 0, appErr.Message)
			return
		}
		response.ServerError(c)
	}
}
