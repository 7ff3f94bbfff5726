package services

import (
	"time"

	"hotel/constants"
	"hotel/errors"
	"hotel/models"
	"hotel/services/logger"

	"gorm.io/gorm"
)

// InvoiceSyncService lan truyền thay đổi trạng thái hóa đơn lên booking
// và bản ghi lưu trú. Không gọi scheduler hay key card manager: các phần
// đó phản ứng độc lập qua trạng thái booking/stay.
type InvoiceSyncService struct {
	db     *gorm.DB
	logger logger.Logger
	nowFn  func() time.Time
}

func NewInvoiceSyncService(db *gorm.DB, l logger.Logger) *InvoiceSyncService {
	return &InvoiceSyncService{db: db, logger: l, nowFn: time.Now}
}

// ApplyStatusChange đổi trạng thái hóa đơn và áp các hiệu ứng lên
// booking/stay tương ứng. Mỗi mutation booking đều được ghi xuống DB.
func (s *InvoiceSyncService) ApplyStatusChange(invoiceID uint, newStatus int, actor string) (*models.Invoice, error) {
	var invoice models.Invoice
	if err := s.db.Preload("Booking").First(&invoice, invoiceID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrInvoiceNotFound
		}
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Không đọc được hóa đơn", err)
	}

	if err := s.db.Model(&invoice).Update("status", newStatus).Error; err != nil {
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Không cập nhật được trạng thái hóa đơn", err)
	}
	invoice.Status = newStatus

	var err error
	switch newStatus {
	case constants.InvoiceStatusPaid:
		err = s.onPaid(&invoice, actor)
	case constants.InvoiceStatusFailed:
		err = s.onFailed(&invoice)
	case constants.InvoiceStatusCancelled:
		err = s.onCancelled(&invoice)
	case constants.InvoiceStatusSent:
		err = s.onSent(&invoice)
	}
	if err != nil {
		return nil, err
	}

	if err := s.db.Preload("Booking").First(&invoice, invoiceID).Error; err != nil {
		return nil, err
	}
	return &invoice, nil
}

// onPaid: booking về Confirmed; hóa đơn chính tạo bản ghi pre_checkin
// (idempotent), hóa đơn overstay mở cổng checkout
func (s *InvoiceSyncService) onPaid(invoice *models.Invoice, actor string) error {
	booking := invoice.Booking
	now := s.nowFn()

	if !booking.IsTerminal() && booking.Status != constants.BookingStatusCheckedIn {
		state := models.GetBookingState(booking.Status)
		if err := state.Confirm(&booking); err != nil {
			s.logger.Info("Booking %d không chuyển được sang Confirmed: %v", booking.ID, err)
		} else {
			booking.PaidAt = &now
			if err := s.db.Save(&booking).Error; err != nil {
				return errors.NewAppError(errors.ErrCodeDBError, "Không lưu được booking", err)
			}
		}
	}

	if invoice.Kind == constants.InvoiceKindOverstay {
		if invoice.CheckInOutID == nil {
			return nil
		}
		return s.db.Model(&models.CheckInOut{}).Where("id = ?", *invoice.CheckInOutID).
			Updates(map[string]interface{}{
				"overstay_payment_status": models.OverstayPaymentApproved,
				"overstay_can_checkout":   true,
			}).Error
	}

	return s.EnsurePreCheckInStay(&booking)
}

// onFailed: hóa đơn overstay thất bại chặn lại cổng checkout, kể cả khi
// trước đó đã mở (đường sửa sai cho thanh toán bị tranh chấp)
func (s *InvoiceSyncService) onFailed(invoice *models.Invoice) error {
	if invoice.Kind != constants.InvoiceKindOverstay || invoice.CheckInOutID == nil {
		return nil
	}
	return s.db.Model(&models.CheckInOut{}).Where("id = ?", *invoice.CheckInOutID).
		Update("overstay_can_checkout", false).Error
}

func (s *InvoiceSyncService) onCancelled(invoice *models.Invoice) error {
	booking := invoice.Booking
	if booking.IsTerminal() {
		return nil
	}
	state := models.GetBookingState(booking.Status)
	if err := state.Cancel(&booking); err != nil {
		s.logger.Info("Booking %d không hủy được theo hóa đơn: %v", booking.ID, err)
		return nil
	}
	now := s.nowFn()
	booking.CancelledAt = &now
	booking.CancelledBy = constants.CancelledBySystem
	booking.CancelReason = "invoice cancelled"
	return s.db.Save(&booking).Error
}

// onSent: hóa đơn được gửi lại nghĩa là tiền còn nợ; booking Confirmed
// bị hạ xuống biến thể approved-payment tùy phương thức thanh toán
func (s *InvoiceSyncService) onSent(invoice *models.Invoice) error {
	booking := invoice.Booking
	if booking.Status != constants.BookingStatusConfirmed {
		return nil
	}
	demoted := constants.BookingStatusApprovedPaymentPending
	if booking.PaymentMethod == constants.PaymentMethodCard || booking.PaymentMethod == constants.PaymentMethodBank {
		demoted = constants.BookingStatusApprovedPaymentProcessing
	}
	return s.db.Model(&models.Booking{}).Where("id = ?", booking.ID).
		Update("status", demoted).Error
}

// EnsurePreCheckInStay tạo bản ghi lưu trú pre_checkin cho booking nếu
// chưa có bản ghi active nào. Idempotent: nhiều lần gọi chỉ tạo một.
func (s *InvoiceSyncService) EnsurePreCheckInStay(booking *models.Booking) error {
	var count int64
	err := s.db.Model(&models.CheckInOut{}).
		Where("booking_id = ? AND status IN ?", booking.ID,
			[]models.StayStatus{models.StayStatusPreCheckIn, models.StayStatusCheckedIn}).
		Count(&count).Error
	if err != nil {
		return errors.NewAppError(errors.ErrCodeDBError, "Không kiểm tra được bản ghi lưu trú", err)
	}
	if count > 0 {
		return nil
	}

	var guestID uint
	if booking.UserID != nil {
		guestID = *booking.UserID
	}
	stay := models.CheckInOut{
		BookingID: booking.ID,
		UserID:    guestID,
		RoomID:    booking.RoomID,
		Status:    models.StayStatusPreCheckIn,
	}
	if err := s.db.Create(&stay).Error; err != nil {
		return errors.NewAppError(errors.ErrCodeDBError, "Không tạo được bản ghi pre_checkin", err)
	}
	s.logger.Info("Tạo bản ghi pre_checkin %d cho booking %d", stay.ID, booking.ID)
	return nil
}

// RefreshAfterStay đồng bộ hóa đơn chính sau check-in/check-out.
// Best-effort: caller log lỗi chứ không rollback nghiệp vụ.
func (s *InvoiceSyncService) RefreshAfterStay(bookingID uint) error {
	var invoice models.Invoice
	err := s.db.Where("booking_id = ? AND kind = ?", bookingID, constants.InvoiceKindPrimary).
		First(&invoice).Error
	if err == gorm.ErrRecordNotFound {
		return nil
	}
	if err != nil {
		return err
	}

	switch invoice.Status {
	case constants.InvoiceStatusDraft:
		return s.db.Model(&invoice).Update("status", constants.InvoiceStatusSent).Error
	case constants.InvoiceStatusSent:
		if invoice.RemainingAmount <= 0 {
			now := s.nowFn()
			return s.db.Model(&invoice).Updates(map[string]interface{}{
				"status":       constants.InvoiceStatusPaid,
				"payment_date": now,
			}).Error
		}
	}
	return nil
}
