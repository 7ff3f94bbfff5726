package models

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

type User struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
	Name        string    `gorm:"default:New User" json:"name"`
	Email       string    `gorm:"unique" json:"email" validate:"required,email"`
	Password    string    `json:"password" validate:"required,min=6"`
	PhoneNumber string    `gorm:"unique;type:varchar(11);not null" json:"phoneNumber" validate:"required"`
	Role        int       `gorm:"default:0" json:"role"` // 0: khách, 1: lễ tân, 2: admin
	Status      int       `gorm:"default:1" json:"status"`
}

func validatePhoneNumber(phone string) error {
	if len(phone) < 9 || len(phone) > 11 {
		return fmt.Errorf("số điện thoại phải có từ 9 đến 11 chữ số")
	}
	for _, r := range phone {
		if r < '0' || r > '9' {
			return fmt.Errorf("số điện thoại chỉ được chứa chữ số")
		}
	}
	return nil
}

func (u *User) Validate() error {
	validate := validator.New()

	if err := validate.Struct(u); err != nil {
		return err
	}

	return validatePhoneNumber(u.PhoneNumber)
}
