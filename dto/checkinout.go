package dto

import (
	"encoding/json"
	"time"
)

// CheckInRequest là DTO cho request nhận phòng (multipart, ảnh giấy tờ đính kèm)
type CheckInRequest struct {
	BookingID      uint   `form:"bookingId" binding:"required"`
	DocumentType   string `form:"documentType"`
	DocumentNumber string `form:"documentNumber"`
	Preferences    string `form:"preferences"`
}

// CheckOutRequest là DTO cho request trả phòng
type CheckOutRequest struct {
	StayID uint `json:"stayId" binding:"required"`
}

// AddStayNoteRequest là DTO cho request thêm ghi chú vào lượt lưu trú
type AddStayNoteRequest struct {
	Content string `json:"content" binding:"required"`
}

// StayOverstayResponse là DTO cho thông tin quá hạn của lượt lưu trú
type StayOverstayResponse struct {
	Detected          bool       `json:"detected"`
	DaysOverstayed    int        `json:"daysOverstayed"`
	ScheduledCheckout *time.Time `json:"scheduledCheckout,omitempty"`
	ChargeAmount      float64    `json:"chargeAmount"`
	PaymentStatus     string     `json:"paymentStatus"`
	InvoiceID         *uint      `json:"invoiceId,omitempty"`
	CanCheckout       bool       `json:"canCheckout"`
}

// StayResponse là DTO cho response của lượt lưu trú
type StayResponse struct {
	ID             uint                 `json:"id"`
	BookingID      uint                 `json:"bookingId"`
	UserID         uint                 `json:"userId"`
	RoomID         uint                 `json:"roomId"`
	KeyCardID      *uint                `json:"keyCardId,omitempty"`
	Status         string               `json:"status"`
	CheckInTime    *time.Time           `json:"checkInTime,omitempty"`
	CheckOutTime   *time.Time           `json:"checkOutTime,omitempty"`
	CheckedInBy    string               `json:"checkedInBy"`
	CheckedOutBy   string               `json:"checkedOutBy"`
	DocumentType   string               `json:"documentType"`
	DocumentNumber string               `json:"documentNumber"`
	Preferences    json.RawMessage      `json:"preferences,omitempty"`
	Overstay       StayOverstayResponse `json:"overstay"`
	CreatedAt      time.Time            `json:"createdAt"`
	UpdatedAt      time.Time            `json:"updatedAt"`
}
