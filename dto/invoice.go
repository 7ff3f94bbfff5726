package dto

import "time"

// UpdateInvoiceStatusRequest là DTO cho request cập nhật trạng thái hóa đơn
type UpdateInvoiceStatusRequest struct {
	Status int `json:"status" binding:"min=0,max=6"`
}

// InvoiceResponse là DTO cho response của hóa đơn
type InvoiceResponse struct {
	ID              uint       `json:"id"`
	InvoiceCode     string     `json:"invoiceCode"`
	BookingID       uint       `json:"bookingId"`
	CheckInOutID    *uint      `json:"checkInOutId,omitempty"`
	Kind            int        `json:"kind"`
	TotalAmount     float64    `json:"totalAmount"`
	PaidAmount      float64    `json:"paidAmount"`
	RemainingAmount float64    `json:"remainingAmount"`
	Status          int        `json:"status"`
	PaymentDate     *time.Time `json:"paymentDate,omitempty"`
	PaymentMethod   string     `json:"paymentMethod"`
	AdminAdjusted   bool       `json:"adminAdjusted"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}
