package errors

import (
	"errors"
	"fmt"
)

// ErrorCode định nghĩa mã lỗi
type ErrorCode string

const (
	// Auth errors
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeInvalidToken ErrorCode = "INVALID_TOKEN"
	ErrCodeMissingToken ErrorCode = "MISSING_TOKEN"
	ErrCodeUserNotFound ErrorCode = "USER_NOT_FOUND"
	ErrCodeInvalidRole  ErrorCode = "INVALID_ROLE"

	// Booking errors
	ErrCodeBookingNotFound ErrorCode = "BOOKING_NOT_FOUND"
	ErrCodeInvalidBooking  ErrorCode = "INVALID_BOOKING"
	ErrCodeInvalidStatus   ErrorCode = "INVALID_STATUS"
	ErrCodeOutsideWindow   ErrorCode = "OUTSIDE_DATE_WINDOW"

	// Room / key card errors
	ErrCodeRoomNotFound      ErrorCode = "ROOM_NOT_FOUND"
	ErrCodeRoomNotAvailable  ErrorCode = "ROOM_NOT_AVAILABLE"
	ErrCodeNoCardsAvailable  ErrorCode = "NO_CARDS_AVAILABLE"
	ErrCodeInvalidCardStatus ErrorCode = "INVALID_CARD_STATUS"

	// Stay errors
	ErrCodeStayNotFound ErrorCode = "STAY_NOT_FOUND"
	ErrCodeStayConflict ErrorCode = "STAY_CONFLICT"

	// Invoice / payment errors
	ErrCodeInvoiceNotFound ErrorCode = "INVOICE_NOT_FOUND"
	ErrCodeInvalidAmount   ErrorCode = "INVALID_AMOUNT"
	ErrCodeInvalidPayment  ErrorCode = "INVALID_PAYMENT_METHOD"

	// Database errors
	ErrCodeDBError     ErrorCode = "DB_ERROR"
	ErrCodeDBNotFound  ErrorCode = "DB_NOT_FOUND"
	ErrCodeDBDuplicate ErrorCode = "DB_DUPLICATE"

	// Validation errors
	ErrCodeValidation    ErrorCode = "VALIDATION_ERROR"
	ErrCodeRequiredField ErrorCode = "REQUIRED_FIELD"
	ErrCodeInvalidFormat ErrorCode = "INVALID_FORMAT"
	ErrCodeInvalidEmail  ErrorCode = "INVALID_EMAIL"
	ErrCodeInvalidPhone  ErrorCode = "INVALID_PHONE"

	// Business errors
	ErrCodeInvalidOperation ErrorCode = "INVALID_OPERATION"
)

// AppError định nghĩa lỗi của ứng dụng
type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// NewAppError tạo một AppError mới
func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// IsAppError kiểm tra xem error có phải là AppError không
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError lấy AppError từ error
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// PaymentRequiredError không phải lỗi hệ thống: trả phòng bị chặn vì còn
// phụ thu quá hạn chưa thanh toán. Đây là kết quả nghiệp vụ hợp lệ, khách
// thanh toán xong có thể thử lại.
type PaymentRequiredError struct {
	InvoiceID      uint
	Amount         float64
	DaysOverstayed int
}

func (e *PaymentRequiredError) Error() string {
	return fmt.Sprintf("overstay payment required: invoice=%d amount=%.2f days=%d",
		e.InvoiceID, e.Amount, e.DaysOverstayed)
}

// AsPaymentRequired kiểm tra và trả về PaymentRequiredError nếu có
func AsPaymentRequired(err error) (*PaymentRequiredError, bool) {
	var pr *PaymentRequiredError
	if errors.As(err, &pr) {
		return pr, true
	}
	return nil, false
}

var (
	// User errors
	ErrUserNotFound = errors.New("user not found")
	ErrUnauthorized = errors.New("unauthorized")

	// Booking errors
	ErrBookingNotFound  = errors.New("booking not found")
	ErrBookingInvalid   = errors.New("invalid booking")
	ErrBookingCancelled = errors.New("booking already cancelled")
	ErrBookingCompleted = errors.New("booking already completed")
	ErrBookingNotReady  = errors.New("booking status does not allow check-in")

	// Room errors
	ErrRoomNotFound     = errors.New("room not found")
	ErrRoomNotAvailable = errors.New("room not available")

	// Key card errors
	ErrNoCardsAvailable = errors.New("no key cards available")
	ErrCardNotFound     = errors.New("key card not found")

	// Stay errors
	ErrStayNotFound     = errors.New("stay record not found")
	ErrStayNotCheckedIn = errors.New("stay record is not checked in")
	ErrStayExists       = errors.New("an active stay record already exists for this booking")

	// Invoice / payment errors
	ErrInvoiceNotFound      = errors.New("invoice not found")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrInvalidAmount        = errors.New("invalid amount")

	// Validation errors
	ErrInvalidInput    = errors.New("invalid input")
	ErrMissingRequired = errors.New("missing required field")
	ErrInvalidFormat   = errors.New("invalid format")
)
