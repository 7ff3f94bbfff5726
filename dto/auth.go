package dto

import "time"

// RegisterInput dữ liệu đăng ký tài khoản
type RegisterInput struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required"`
	Password    string `json:"password" binding:"required,min=6"`
	PhoneNumber string `json:"phoneNumber" binding:"required"`
}

// LoginInput dữ liệu đăng nhập, identifier là email hoặc số điện thoại
type LoginInput struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

// UserLoginResponse thông tin trả về sau đăng nhập
type UserLoginResponse struct {
	UserID      uint      `json:"userId"`
	UserName    string    `json:"userName"`
	UserEmail   string    `json:"userEmail"`
	UserPhone   string    `json:"userPhone"`
	UserRole    int       `json:"userRole"`
	AccessToken string    `json:"accessToken"`
	CreatedAt   time.Time `json:"createdAt"`
}
