package controllers

import (
	"strings"
	"time"

	"hotel/config"
	"hotel/dto"
	"hotel/models"
	"hotel/response"
	"hotel/services"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// Register đăng ký tài khoản khách mới
func Register(c *gin.Context) {
	var input dto.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user := models.User{
		Name:        input.Name,
		Email:       strings.ToLower(input.Email),
		Password:    input.Password,
		PhoneNumber: input.PhoneNumber,
	}
	if err := user.Validate(); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	hashed, err := services.HashPassword(input.Password)
	if err != nil {
		response.ServerError(c)
		return
	}
	user.Password = hashed

	if err := config.DB.Create(&user).Error; err != nil {
		response.Conflict(c, "Email hoặc số điện thoại đã được sử dụng")
		return
	}

	user.Password = ""
	response.Success(c, user)
}

// Login đăng nhập bằng email hoặc số điện thoại
func Login(c *gin.Context) {
	var input dto.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	input.Identifier = strings.ToLower(input.Identifier)

	var user models.User
	if err := config.DB.Where("email = ? OR phone_number = ?", input.Identifier, input.Identifier).
		First(&user).Error; err != nil {
		response.BadRequest(c, "Email hoặc mật khẩu không hợp lệ")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		response.BadRequest(c, "Email hoặc mật khẩu không hợp lệ")
		return
	}

	accessToken, err := services.GenerateToken(services.UserInfo{
		UserId: user.ID,
		Role:   user.Role,
	}, 72*time.Hour)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, dto.UserLoginResponse{
		UserID:      user.ID,
		UserName:    user.Name,
		UserEmail:   user.Email,
		UserPhone:   user.PhoneNumber,
		UserRole:    user.Role,
		AccessToken: accessToken,
		CreatedAt:   user.CreatedAt,
	})
}
