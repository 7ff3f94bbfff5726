package models

import (
	"time"

	"hotel/constants"
)

type Booking struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	UserID       *uint      `json:"userId"`
	User         *User      `json:"user" gorm:"foreignKey:UserID"`
	RoomID       uint       `json:"roomId"`
	Room         Room       `json:"room" gorm:"foreignKey:RoomID"`
	CheckInDate  time.Time  `json:"checkInDate"`
	CheckOutDate time.Time  `json:"checkOutDate"`
	Status       int        `json:"status"`
	HoldUntil    *time.Time `json:"holdUntil,omitempty"` // chỉ được set khi status = OnHold
	GuestName    string     `json:"guestName,omitempty"`
	GuestEmail   string     `json:"guestEmail,omitempty"`
	GuestPhone   string     `json:"guestPhone,omitempty"`

	PaymentMethod string     `json:"paymentMethod"` // cash | card | bank
	BasePrice     float64    `json:"basePrice"`     // Giá phòng cơ bản cho cả kỳ
	TaxAmount     float64    `json:"taxAmount"`     // Thuế
	TotalPrice    float64    `json:"totalPrice"`    // Tổng giá
	PaidAt        *time.Time `json:"paidAt,omitempty"`

	CancelledAt  *time.Time `json:"cancelledAt,omitempty"`
	CancelledBy  string     `json:"cancelledBy,omitempty"`
	CancelReason string     `json:"cancelReason,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// IsTerminal kiểm tra booking đã ở trạng thái kết thúc chưa
func (b *Booking) IsTerminal() bool {
	return b.Status == constants.BookingStatusCompleted ||
		b.Status == constants.BookingStatusCancelled ||
		b.Status == constants.BookingStatusRejected
}

// CanCheckIn kiểm tra trạng thái booking có cho phép nhận phòng không.
// Khách tự check-in được phép thêm trạng thái chờ thanh toán (thanh toán
// tiền mặt tại quầy).
func (b *Booking) CanCheckIn(selfService bool) bool {
	switch b.Status {
	case constants.BookingStatusConfirmed,
		constants.BookingStatusApprovedPaymentPending,
		constants.BookingStatusApprovedPaymentProcessing:
		return true
	case constants.BookingStatusPendingApproval:
		return selfService
	}
	return false
}
