package models

import "time"

// Refund status
const (
	RefundStatusRequested = 0
	RefundStatusProcessed = 1
	RefundStatusRejected  = 2
)

// Refund yêu cầu hoàn tiền, mỗi booking tối đa một bản ghi
type Refund struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	BookingID   uint      `json:"bookingId" gorm:"uniqueIndex"`
	Amount      float64   `json:"amount"`
	Reason      string    `json:"reason"`
	RequestedBy string    `json:"requestedBy"`
	Status      int       `json:"status"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}
