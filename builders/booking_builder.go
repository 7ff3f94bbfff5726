package builders

import (
	"hotel/constants"
	"hotel/models"
	"time"
)

// BookingBuilder giúp tạo booking theo từng bước
type BookingBuilder struct {
	booking *models.Booking
}

// NewBookingBuilder tạo instance mới của BookingBuilder
func NewBookingBuilder() *BookingBuilder {
	return &BookingBuilder{
		booking: &models.Booking{Status: constants.BookingStatusPending},
	}
}

// WithUser thêm thông tin user
func (b *BookingBuilder) WithUser(userID uint) *BookingBuilder {
	b.booking.UserID = &userID
	return b
}

// WithRoom thêm thông tin phòng
func (b *BookingBuilder) WithRoom(roomID uint) *BookingBuilder {
	b.booking.RoomID = roomID
	return b
}

// WithStatus thêm trạng thái
func (b *BookingBuilder) WithStatus(status int) *BookingBuilder {
	b.booking.Status = status
	return b
}

// WithDates thêm ngày nhận và trả phòng
func (b *BookingBuilder) WithDates(checkIn, checkOut time.Time) *BookingBuilder {
	b.booking.CheckInDate = checkIn
	b.booking.CheckOutDate = checkOut
	return b
}

// WithHoldUntil thêm deadline giữ chỗ
func (b *BookingBuilder) WithHoldUntil(deadline time.Time) *BookingBuilder {
	b.booking.HoldUntil = &deadline
	return b
}

// WithGuestInfo thêm thông tin khách
func (b *BookingBuilder) WithGuestInfo(guestName, guestPhone, guestEmail string) *BookingBuilder {
	b.booking.GuestName = guestName
	b.booking.GuestPhone = guestPhone
	b.booking.GuestEmail = guestEmail
	return b
}

// WithPayment thêm phương thức thanh toán và giá
func (b *BookingBuilder) WithPayment(method string, basePrice, taxAmount float64) *BookingBuilder {
	b.booking.PaymentMethod = method
	b.booking.BasePrice = basePrice
	b.booking.TaxAmount = taxAmount
	b.booking.TotalPrice = basePrice + taxAmount
	return b
}

// Build trả về booking đã được tạo
func (b *BookingBuilder) Build() *models.Booking {
	return b.booking
}
