package validator

import (
	"testing"

	"hotel/constants"
	"hotel/dto"
)

func validBookingRequest() dto.CreateBookingRequest {
	return dto.CreateBookingRequest{
		RoomID:        1,
		CheckInDate:   "08/01/2026",
		CheckOutDate:  "10/01/2026",
		GuestName:     "Nguyễn Văn An",
		PaymentMethod: constants.PaymentMethodCash,
	}
}

func TestValidateCreateBooking(t *testing.T) {
	req := validBookingRequest()
	if err := ValidateCreateBooking(&req); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*dto.CreateBookingRequest)
	}{
		{"missing room", func(r *dto.CreateBookingRequest) { r.RoomID = 0 }},
		{"bad date format", func(r *dto.CreateBookingRequest) { r.CheckInDate = "2026-01-08" }},
		{"checkout before checkin", func(r *dto.CreateBookingRequest) { r.CheckOutDate = "07/01/2026" }},
		{"checkout equals checkin", func(r *dto.CreateBookingRequest) { r.CheckOutDate = r.CheckInDate }},
		{"unknown payment method", func(r *dto.CreateBookingRequest) { r.PaymentMethod = "crypto" }},
		{"bad email", func(r *dto.CreateBookingRequest) { r.GuestEmail = "not-an-email" }},
		{"bad phone", func(r *dto.CreateBookingRequest) { r.GuestPhone = "12ab" }},
	}
	for _, tc := range cases {
		req := validBookingRequest()
		tc.mutate(&req)
		if err := ValidateCreateBooking(&req); err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
	}

	// email và điện thoại là tùy chọn
	req = validBookingRequest()
	req.GuestEmail = "an.nguyen@example.com"
	req.GuestPhone = "0912345678"
	if err := ValidateCreateBooking(&req); err != nil {
		t.Errorf("optional contact fields rejected: %v", err)
	}
}

func TestValidateCheckIn(t *testing.T) {
	req := dto.CheckInRequest{BookingID: 7}
	if err := ValidateCheckIn(&req, false); err != nil {
		t.Errorf("staff check-in without documents rejected: %v", err)
	}
	// khách tự nhận phòng bắt buộc khai giấy tờ
	if err := ValidateCheckIn(&req, true); err == nil {
		t.Error("self check-in without documents accepted")
	}
	req.DocumentType = "cccd"
	req.DocumentNumber = "012345678901"
	if err := ValidateCheckIn(&req, true); err != nil {
		t.Errorf("self check-in with documents rejected: %v", err)
	}
	req.BookingID = 0
	if err := ValidateCheckIn(&req, false); err == nil {
		t.Error("missing booking accepted")
	}
}

func TestValidateOverstayPayment(t *testing.T) {
	req := dto.OverstayPaymentRequest{
		StayID:        3,
		PaymentMethod: constants.PaymentMethodCash,
		Amount:        7500,
	}
	if err := ValidateOverstayPayment(&req); err != nil {
		t.Fatalf("valid cash payment rejected: %v", err)
	}

	req.Amount = 0
	if err := ValidateOverstayPayment(&req); err == nil {
		t.Error("zero amount accepted")
	}

	// thanh toán thẻ phải có đủ thông tin thẻ
	req = dto.OverstayPaymentRequest{
		StayID:        3,
		PaymentMethod: constants.PaymentMethodCard,
		Amount:        7500,
	}
	if err := ValidateOverstayPayment(&req); err == nil {
		t.Error("card payment without card details accepted")
	}
	req.CardNumber = "4111111111111111"
	req.CardExpiry = "12/27"
	req.CardCVC = "123"
	if err := ValidateOverstayPayment(&req); err != nil {
		t.Errorf("valid card payment rejected: %v", err)
	}
	req.CardNumber = "4111"
	if err := ValidateOverstayPayment(&req); err == nil {
		t.Error("short card number accepted")
	}
}

func TestValidateSettings(t *testing.T) {
	req := dto.UpdateSettingsRequest{HoldHours: 24, OverstayMultiplier: 1.5}
	if err := ValidateSettings(&req); err != nil {
		t.Fatalf("valid settings rejected: %v", err)
	}
	req.HoldHours = 0
	if err := ValidateSettings(&req); err == nil {
		t.Error("zero hold hours accepted")
	}
	req.HoldHours = 200
	if err := ValidateSettings(&req); err == nil {
		t.Error("hold hours over a week accepted")
	}
	req = dto.UpdateSettingsRequest{HoldHours: 24, OverstayMultiplier: 0.5}
	if err := ValidateSettings(&req); err == nil {
		t.Error("multiplier below 1 accepted")
	}
}
