package models

import (
	"encoding/json"
	"time"
)

type Notification struct {
	ID        uint            `json:"id" gorm:"primaryKey"`
	UserID    uint            `json:"userId"`
	Type      string          `gorm:"size:50" json:"type"`    // hold_reminder, hold_expired, overstay_detected...
	Channel   string          `gorm:"size:20" json:"channel"` // email, sms, push
	Message   string          `gorm:"type:text;not null" json:"message"`
	Metadata  json.RawMessage `gorm:"type:json" json:"metadata,omitempty"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime" json:"updatedAt"`
	User      *User           `json:"user,omitempty" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignKey:UserID;references:ID"`
}
