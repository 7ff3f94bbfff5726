package dto

import "time"

// SetKeyCardStatusRequest là DTO cho request đổi trạng thái thẻ từ
type SetKeyCardStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason"`
}

// KeyCardResponse là DTO cho response của thẻ từ
type KeyCardResponse struct {
	ID           uint       `json:"id"`
	CardNumber   string     `json:"cardNumber"`
	Status       string     `json:"status"`
	AssignedTo   *uint      `json:"assignedTo,omitempty"`
	AssignedRoom *uint      `json:"assignedRoom,omitempty"`
	ActivatedAt  *time.Time `json:"activatedAt,omitempty"`
	ExpiresAt    *time.Time `json:"expiresAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}
