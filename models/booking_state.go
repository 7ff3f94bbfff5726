package models

import (
	"errors"

	"hotel/constants"
)

// BookingState định nghĩa interface cho các trạng thái booking
type BookingState interface {
	Confirm(booking *Booking) error
	Cancel(booking *Booking) error
	CheckIn(booking *Booking) error
	Complete(booking *Booking) error
}

// leaveHold xóa deadline giữ chỗ khi rời khỏi trạng thái OnHold
func leaveHold(booking *Booking, status int) {
	booking.Status = status
	booking.HoldUntil = nil
}

// PendingState trạng thái chờ xử lý
type PendingState struct{}

func (s *PendingState) Confirm(booking *Booking) error {
	booking.Status = constants.BookingStatusConfirmed
	return nil
}

func (s *PendingState) Cancel(booking *Booking) error {
	booking.Status = constants.BookingStatusCancelled
	return nil
}

func (s *PendingState) CheckIn(booking *Booking) error {
	return errors.New("cannot check in pending booking")
}

func (s *PendingState) Complete(booking *Booking) error {
	return errors.New("cannot complete pending booking")
}

// OnHoldState trạng thái giữ chỗ tạm thời
type OnHoldState struct{}

func (s *OnHoldState) Confirm(booking *Booking) error {
	leaveHold(booking, constants.BookingStatusConfirmed)
	return nil
}

func (s *OnHoldState) Cancel(booking *Booking) error {
	leaveHold(booking, constants.BookingStatusCancelled)
	return nil
}

func (s *OnHoldState) CheckIn(booking *Booking) error {
	return errors.New("cannot check in on-hold booking")
}

func (s *OnHoldState) Complete(booking *Booking) error {
	return errors.New("cannot complete on-hold booking")
}

// PendingApprovalState trạng thái chờ duyệt
type PendingApprovalState struct{}

func (s *PendingApprovalState) Confirm(booking *Booking) error {
	booking.Status = constants.BookingStatusConfirmed
	return nil
}

func (s *PendingApprovalState) Cancel(booking *Booking) error {
	booking.Status = constants.BookingStatusCancelled
	return nil
}

func (s *PendingApprovalState) CheckIn(booking *Booking) error {
	return errors.New("booking not approved yet")
}

func (s *PendingApprovalState) Complete(booking *Booking) error {
	return errors.New("cannot complete unapproved booking")
}

// ConfirmedState trạng thái đã xác nhận, gồm cả hai biến thể
// approved-payment-pending/processing (đã duyệt nhưng còn chờ thanh toán)
type ConfirmedState struct{}

func (s *ConfirmedState) Confirm(booking *Booking) error {
	booking.Status = constants.BookingStatusConfirmed
	return nil
}

func (s *ConfirmedState) Cancel(booking *Booking) error {
	booking.Status = constants.BookingStatusCancelled
	return nil
}

func (s *ConfirmedState) CheckIn(booking *Booking) error {
	booking.Status = constants.BookingStatusCheckedIn
	return nil
}

func (s *ConfirmedState) Complete(booking *Booking) error {
	return errors.New("booking not checked in")
}

// CheckedInState trạng thái khách đang ở
type CheckedInState struct{}

func (s *CheckedInState) Confirm(booking *Booking) error {
	return errors.New("booking already checked in")
}

func (s *CheckedInState) Cancel(booking *Booking) error {
	return errors.New("cannot cancel checked-in booking")
}

func (s *CheckedInState) CheckIn(booking *Booking) error {
	return errors.New("booking already checked in")
}

func (s *CheckedInState) Complete(booking *Booking) error {
	booking.Status = constants.BookingStatusCompleted
	return nil
}

// CompletedState trạng thái hoàn thành
type CompletedState struct{}

func (s *CompletedState) Confirm(booking *Booking) error {
	return errors.New("booking already completed")
}

func (s *CompletedState) Cancel(booking *Booking) error {
	return errors.New("cannot cancel completed booking")
}

func (s *CompletedState) CheckIn(booking *Booking) error {
	return errors.New("booking already completed")
}

func (s *CompletedState) Complete(booking *Booking) error {
	return errors.New("booking already completed")
}

// CancelledState trạng thái đã hủy
type CancelledState struct{}

func (s *CancelledState) Confirm(booking *Booking) error {
	return errors.New("cannot confirm cancelled booking")
}

func (s *CancelledState) Cancel(booking *Booking) error {
	return errors.New("booking already cancelled")
}

func (s *CancelledState) CheckIn(booking *Booking) error {
	return errors.New("cannot check in cancelled booking")
}

func (s *CancelledState) Complete(booking *Booking) error {
	return errors.New("cannot complete cancelled booking")
}

// GetBookingState trả về state tương ứng với trạng thái booking
func GetBookingState(status int) BookingState {
	switch status {
	case constants.BookingStatusPending:
		return &PendingState{}
	case constants.BookingStatusOnHold:
		return &OnHoldState{}
	case constants.BookingStatusPendingApproval:
		return &PendingApprovalState{}
	case constants.BookingStatusConfirmed,
		constants.BookingStatusApprovedPaymentPending,
		constants.BookingStatusApprovedPaymentProcessing:
		return &ConfirmedState{}
	case constants.BookingStatusCheckedIn:
		return &CheckedInState{}
	case constants.BookingStatusCompleted:
		return &CompletedState{}
	case constants.BookingStatusCancelled, constants.BookingStatusRejected:
		return &CancelledState{}
	default:
		return &PendingState{}
	}
}
