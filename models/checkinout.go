package models

import (
	"encoding/json"
	"time"
)

// StayStatus trạng thái lưu trú của khách
type StayStatus string

const (
	StayStatusPreCheckIn StayStatus = "pre_checkin"
	StayStatusCheckedIn  StayStatus = "checked_in"
	StayStatusCheckedOut StayStatus = "checked_out"
	StayStatusNoShow     StayStatus = "no_show"
)

// OverstayPaymentStatus trạng thái thanh toán phụ thu quá hạn
type OverstayPaymentStatus string

const (
	OverstayPaymentPending             OverstayPaymentStatus = "pending_payment"
	OverstayPaymentPendingApproval     OverstayPaymentStatus = "pending_approval"
	OverstayPaymentPendingVerification OverstayPaymentStatus = "pending_verification"
	OverstayPaymentApproved            OverstayPaymentStatus = "approved"
	OverstayPaymentCompleted           OverstayPaymentStatus = "completed"
	OverstayPaymentRejected            OverstayPaymentStatus = "rejected"
)

// Overstay sub-record nhúng trong CheckInOut, theo dõi khách ở quá hạn.
// CanCheckout là cổng duy nhất mà thao tác trả phòng kiểm tra.
type Overstay struct {
	Detected          bool                  `json:"detected"`
	DaysOverstayed    int                   `json:"daysOverstayed"`
	ScheduledCheckout *time.Time            `json:"scheduledCheckout,omitempty"`
	ActualCheckout    *time.Time            `json:"actualCheckout,omitempty"`
	ChargeAmount      float64               `json:"chargeAmount"`
	PaymentMethod     string                `json:"paymentMethod,omitempty"`
	PaymentStatus     OverstayPaymentStatus `json:"paymentStatus,omitempty" gorm:"size:30"`
	InvoiceID         *uint                 `json:"invoiceId,omitempty"`
	CanCheckout       bool                  `json:"canCheckout"`
}

// CheckInOut bản ghi lưu trú: một booking, một khách, một phòng,
// tối đa một thẻ phòng.
type CheckInOut struct {
	ID        uint     `json:"id" gorm:"primaryKey"`
	BookingID uint     `json:"bookingId" gorm:"index"`
	Booking   Booking  `json:"booking" gorm:"foreignKey:BookingID"`
	UserID    uint     `json:"userId" gorm:"index"`
	RoomID    uint     `json:"roomId" gorm:"index"`
	Room      Room     `json:"room" gorm:"foreignKey:RoomID"`
	KeyCardID *uint    `json:"keyCardId,omitempty"`
	KeyCard   *KeyCard `json:"keyCard,omitempty" gorm:"foreignKey:KeyCardID"`

	Status       StayStatus `json:"status" gorm:"size:20;default:'pre_checkin'"`
	CheckInTime  *time.Time `json:"checkInTime,omitempty"`
	CheckOutTime *time.Time `json:"checkOutTime,omitempty"` // chỉ được set khi status = checked_out
	CheckedInBy  string     `json:"checkedInBy,omitempty"`
	CheckedOutBy string     `json:"checkedOutBy,omitempty"`

	DocumentType     string          `json:"documentType,omitempty"`
	DocumentNumber   string          `json:"documentNumber,omitempty"`
	DocumentImages   json.RawMessage `json:"documentImages,omitempty" gorm:"type:json"`
	DocumentVerified bool            `json:"documentVerified"`

	Preferences json.RawMessage `json:"preferences,omitempty" gorm:"type:json"`

	Overstay Overstay `json:"overstay" gorm:"embedded;embeddedPrefix:overstay_"`

	Notes []StayNote `json:"notes,omitempty" gorm:"foreignKey:CheckInOutID"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// StayNote ghi chú tự do trên bản ghi lưu trú
type StayNote struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	CheckInOutID uint      `json:"checkInOutId" gorm:"index"`
	Author       string    `json:"author"`
	Content      string    `json:"content"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// IsActive bản ghi còn hiệu lực chiếm phòng không
func (c *CheckInOut) IsActive() bool {
	return c.Status == StayStatusPreCheckIn || c.Status == StayStatusCheckedIn
}
