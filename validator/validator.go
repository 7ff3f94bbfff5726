package validator

import (
	"hotel/constants"
	"hotel/dto"
	"hotel/errors"
	"regexp"
	"time"
)

// ValidateCreateBooking validate thông tin tạo booking
func ValidateCreateBooking(req *dto.CreateBookingRequest) error {
	if req.RoomID == 0 {
		return errors.NewAppError(errors.ErrCodeRequiredField, "Phòng không được để trống", nil)
	}

	checkIn, err := time.Parse("02/01/2006", req.CheckInDate)
	if err != nil {
		return errors.NewAppError(errors.ErrCodeInvalidFormat, "Ngày nhận phòng không hợp lệ", nil)
	}

	checkOut, err := time.Parse("02/01/2006", req.CheckOutDate)
	if err != nil {
		return errors.NewAppError(errors.ErrCodeInvalidFormat, "Ngày trả phòng không hợp lệ", nil)
	}

	if !checkOut.After(checkIn) {
		return errors.NewAppError(errors.ErrCodeValidation, "Ngày trả phòng phải sau ngày nhận phòng", nil)
	}

	if !isValidPaymentMethod(req.PaymentMethod) {
		return errors.NewAppError(errors.ErrCodeValidation, "Phương thức thanh toán không hợp lệ", nil)
	}

	if req.GuestEmail != "" && !isValidEmail(req.GuestEmail) {
		return errors.NewAppError(errors.ErrCodeInvalidEmail, "Email không hợp lệ", nil)
	}

	if req.GuestPhone != "" && !isValidPhone(req.GuestPhone) {
		return errors.NewAppError(errors.ErrCodeInvalidPhone, "Số điện thoại không hợp lệ", nil)
	}

	return nil
}

// ValidateCheckIn validate thông tin nhận phòng
func ValidateCheckIn(req *dto.CheckInRequest, selfService bool) error {
	if req.BookingID == 0 {
		return errors.NewAppError(errors.ErrCodeRequiredField, "Booking không được để trống", nil)
	}

	// Khách tự nhận phòng bắt buộc phải khai giấy tờ
	if selfService {
		if req.DocumentType == "" {
			return errors.NewAppError(errors.ErrCodeRequiredField, "Loại giấy tờ không được để trống", nil)
		}
		if req.DocumentNumber == "" {
			return errors.NewAppError(errors.ErrCodeRequiredField, "Số giấy tờ không được để trống", nil)
		}
	}

	return nil
}

// ValidateOverstayPayment validate thông tin thanh toán phụ thu quá hạn
func ValidateOverstayPayment(req *dto.OverstayPaymentRequest) error {
	if req.StayID == 0 {
		return errors.NewAppError(errors.ErrCodeRequiredField, "Lượt lưu trú không được để trống", nil)
	}

	if !isValidPaymentMethod(req.PaymentMethod) {
		return errors.NewAppError(errors.ErrCodeValidation, "Phương thức thanh toán không hợp lệ", nil)
	}

	if req.Amount <= 0 {
		return errors.NewAppError(errors.ErrCodeInvalidAmount, "Số tiền phải lớn hơn 0", nil)
	}

	if req.PaymentMethod == constants.PaymentMethodCard {
		if req.CardNumber == "" || req.CardExpiry == "" || req.CardCVC == "" {
			return errors.NewAppError(errors.ErrCodeRequiredField, "Thông tin thẻ không được để trống", nil)
		}
		if !isValidCardNumber(req.CardNumber) {
			return errors.NewAppError(errors.ErrCodeValidation, "Số thẻ không hợp lệ", nil)
		}
	}

	return nil
}

// ValidateSettings validate cấu hình vận hành
func ValidateSettings(req *dto.UpdateSettingsRequest) error {
	if req.HoldHours < 1 || req.HoldHours > 168 {
		return errors.NewAppError(errors.ErrCodeValidation, "Thời gian giữ chỗ phải từ 1 đến 168 giờ", nil)
	}

	if req.OverstayMultiplier < 1.0 {
		return errors.NewAppError(errors.ErrCodeValidation, "Hệ số phụ thu phải lớn hơn hoặc bằng 1", nil)
	}

	return nil
}

func isValidEmail(email string) bool {
	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	return emailRegex.MatchString(email)
}

func isValidPhone(phone string) bool {
	phoneRegex := regexp.MustCompile(`^(0|\+84)[0-9]{9,10}$`)
	return phoneRegex.MatchString(phone)
}

func isValidCardNumber(number string) bool {
	cardRegex := regexp.MustCompile(`^[0-9]{12,19}$`)
	return cardRegex.MatchString(number)
}

func isValidPaymentMethod(method string) bool {
	switch method {
	case constants.PaymentMethodCash, constants.PaymentMethodCard, constants.PaymentMethodBank:
		return true
	}
	return false
}
