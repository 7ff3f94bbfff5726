package models

import (
	"encoding/json"
	"fmt"
	"time"
)

type Room struct {
	RoomId      uint            `json:"id" gorm:"primaryKey"`
	RoomName    string          `json:"roomName"`
	Type        uint            `json:"type"`
	NumBed      int             `json:"numBed"`
	Acreage     int             `json:"acreage"`
	Price       int             `json:"price"` // Giá cơ bản một đêm
	Description string          `json:"description"`
	Status      int             `json:"status" gorm:"default:1"`
	Avatar      string          `json:"avatar"`
	Img         json.RawMessage `json:"img" gorm:"type:json"`
	People      int             `json:"people"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (r *Room) ValidateStatus() error {
	if r.Status < 1 || r.Status > 5 {
		return fmt.Errorf("invalid status: %d, must be between 1 and 5", r.Status)
	}
	return nil
}
