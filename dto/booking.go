package dto

import "time"

// CreateBookingRequest là DTO cho request tạo booking
type CreateBookingRequest struct {
	RoomID        uint   `json:"roomId" binding:"required"`
	CheckInDate   string `json:"checkInDate" binding:"required"`  // định dạng 02/01/2006
	CheckOutDate  string `json:"checkOutDate" binding:"required"` // định dạng 02/01/2006
	GuestName     string `json:"guestName"`
	GuestEmail    string `json:"guestEmail"`
	GuestPhone    string `json:"guestPhone"`
	PaymentMethod string `json:"paymentMethod" binding:"required"`
}

// CancelBookingRequest là DTO cho request hủy booking
type CancelBookingRequest struct {
	Reason string `json:"reason"`
}

// BookingResponse là DTO cho response của booking
type BookingResponse struct {
	ID            uint       `json:"id"`
	UserID        *uint      `json:"userId"`
	RoomID        uint       `json:"roomId"`
	CheckInDate   string     `json:"checkInDate"`
	CheckOutDate  string     `json:"checkOutDate"`
	Status        int        `json:"status"`
	HoldUntil     *time.Time `json:"holdUntil,omitempty"`
	GuestName     string     `json:"guestName"`
	GuestEmail    string     `json:"guestEmail"`
	GuestPhone    string     `json:"guestPhone"`
	PaymentMethod string     `json:"paymentMethod"`
	BasePrice     float64    `json:"basePrice"`
	TaxAmount     float64    `json:"taxAmount"`
	TotalPrice    float64    `json:"totalPrice"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// BookingSearchResponse là DTO cho kết quả tìm kiếm booking theo tên khách
type BookingSearchResponse struct {
	ID           uint   `json:"id"`
	GuestName    string `json:"guestName"`
	RoomID       uint   `json:"roomId"`
	CheckInDate  string `json:"checkInDate"`
	CheckOutDate string `json:"checkOutDate"`
	Status       int    `json:"status"`
}
