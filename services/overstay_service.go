package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"hotel/constants"
	"hotel/errors"
	"hotel/models"
	"hotel/services/logger"
	"hotel/services/notification"

	"gorm.io/gorm"
)

// OverstayService phát hiện, lập hóa đơn và gác cổng trả phòng cho
// các khách ở quá hạn
type OverstayService struct {
	db       *gorm.DB
	logger   logger.Logger
	notifier notification.Service
	gateway  PaymentGateway
	settings *SettingsCache
	nowFn    func() time.Time
}

type OverstayServiceOptions struct {
	DB       *gorm.DB
	Logger   logger.Logger
	Notifier notification.Service
	Gateway  PaymentGateway
	Settings *SettingsCache
}

func NewOverstayService(opts OverstayServiceOptions) *OverstayService {
	return &OverstayService{
		db:       opts.DB,
		logger:   opts.Logger,
		notifier: opts.Notifier,
		gateway:  opts.Gateway,
		settings: opts.Settings,
		nowFn:    time.Now,
	}
}

// EndOfDay trả về 23:59:59 của ngày chứa t
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 0, t.Location())
}

// ComputeOverstay tính số ngày quá hạn và phụ thu tại thời điểm now.
// days = 0 nghĩa là chưa quá hạn. Phụ thu = giá phòng × hệ số × số ngày,
// làm tròn lên theo ngày.
func ComputeOverstay(booking *models.Booking, roomPrice int, multiplier float64, now time.Time) (days int, amount float64, scheduled time.Time) {
	scheduled = EndOfDay(booking.CheckOutDate)
	if !now.After(scheduled) {
		return 0, 0, scheduled
	}
	days = int(math.Ceil(now.Sub(scheduled).Hours() / 24))
	if days < 1 {
		days = 1
	}
	amount = float64(roomPrice) * multiplier * float64(days)
	return days, amount, scheduled
}

// multiplier đọc hệ số phụ thu từ settings, fallback về hằng mặc định
func (s *OverstayService) multiplier() float64 {
	if s.settings == nil {
		return constants.OverstayRateMultiplier
	}
	settings, err := s.settings.Get(context.Background())
	if err != nil || settings.OverstayMultiplier <= 0 {
		return constants.OverstayRateMultiplier
	}
	return settings.OverstayMultiplier
}

// overstayColumns ánh xạ sub-record overstay sang các cột nhúng
func overstayColumns(o *models.Overstay) map[string]interface{} {
	return map[string]interface{}{
		"overstay_detected":           o.Detected,
		"overstay_days_overstayed":    o.DaysOverstayed,
		"overstay_scheduled_checkout": o.ScheduledCheckout,
		"overstay_actual_checkout":    o.ActualCheckout,
		"overstay_charge_amount":      o.ChargeAmount,
		"overstay_payment_method":     o.PaymentMethod,
		"overstay_payment_status":     o.PaymentStatus,
		"overstay_invoice_id":         o.InvoiceID,
		"overstay_can_checkout":       o.CanCheckout,
	}
}

// CreateOverstayInvoice tạo hóa đơn overstay cho bản ghi lưu trú.
// Idempotent: mỗi stay chỉ có một hóa đơn overstay, gọi lại trả về
// hóa đơn cũ nguyên vẹn.
func (s *OverstayService) CreateOverstayInvoice(stay *models.CheckInOut, days int, amount float64) (*models.Invoice, error) {
	var existing models.Invoice
	err := s.db.Where("check_in_out_id = ? AND kind = ?", stay.ID, constants.InvoiceKindOverstay).
		First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Không đọc được hóa đơn overstay", err)
	}

	var room models.Room
	if err := s.db.First(&room, stay.RoomID).Error; err != nil {
		return nil, errors.ErrRoomNotFound
	}

	now := s.nowFn()
	scheduled := EndOfDay(stay.Booking.CheckOutDate)
	dailyRate := float64(room.Price) * s.multiplier()

	invoice := models.Invoice{
		BookingID:       stay.BookingID,
		CheckInOutID:    &stay.ID,
		Kind:            constants.InvoiceKindOverstay,
		TotalAmount:     amount,
		RemainingAmount: amount,
		Status:          constants.InvoiceStatusAwaitingApproval,
		PaymentMethod:   constants.PaymentMethodCash, // mặc định, khách đổi khi thanh toán
		OverstayTracking: models.OverstayTracking{
			OriginalCheckout: &scheduled,
			CurrentCheckout:  &now,
			AccumulatedDays:  days,
			DailyRate:        dailyRate,
		},
	}
	if err := s.db.Create(&invoice).Error; err != nil {
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Không tạo được hóa đơn overstay", err)
	}

	// liên kết hai chiều với sub-record trên stay
	stay.Overstay.Detected = true
	stay.Overstay.DaysOverstayed = days
	stay.Overstay.ScheduledCheckout = &scheduled
	stay.Overstay.ChargeAmount = amount
	stay.Overstay.PaymentStatus = models.OverstayPaymentPendingApproval
	stay.Overstay.InvoiceID = &invoice.ID
	stay.Overstay.CanCheckout = false
	if err := s.db.Model(&models.CheckInOut{}).Where("id = ?", stay.ID).
		Updates(overstayColumns(&stay.Overstay)).Error; err != nil {
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Không cập nhật được sub-record overstay", err)
	}

	s.notifyGuest(stay, notification.TypeOverstayDetected,
		notification.NewMessageBuilder(stay.Booking.GuestName, amount).BuildOverstayDetected(days))

	return &invoice, nil
}

// UpdateOverstayInvoice cập nhật hóa đơn khi số ngày quá hạn tăng.
// Guard đơn điệu: chỉ cập nhật khi newDays lớn hơn số đã ghi, không bao
// giờ giảm ngày hay số tiền.
func (s *OverstayService) UpdateOverstayInvoice(stay *models.CheckInOut, newDays int, newAmount float64) (*models.Invoice, error) {
	var invoice models.Invoice
	err := s.db.Where("check_in_out_id = ? AND kind = ?", stay.ID, constants.InvoiceKindOverstay).
		First(&invoice).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrInvoiceNotFound
		}
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Không đọc được hóa đơn overstay", err)
	}

	if newDays <= invoice.OverstayTracking.AccumulatedDays {
		return &invoice, nil
	}
	if invoice.AdminAdjusted {
		// số tiền đã điều chỉnh tay, không ghi đè bằng công thức theo ngày
		return &invoice, nil
	}
	if newAmount < invoice.TotalAmount {
		newAmount = invoice.TotalAmount
	}

	prevDays := invoice.OverstayTracking.AccumulatedDays
	prevAmount := invoice.TotalAmount
	now := s.nowFn()

	updates := map[string]interface{}{
		"total_amount":              newAmount,
		"remaining_amount":          newAmount - invoice.PaidAmount,
		"tracking_accumulated_days": newDays,
		"tracking_current_checkout": now,
	}
	if err := s.db.Model(&invoice).Updates(updates).Error; err != nil {
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Không cập nhật được hóa đơn overstay", err)
	}

	s.auditInvoice(invoice.ID, "system",
		fmt.Sprintf("Tăng quá hạn: %d -> %d ngày, %.2f -> %.2f", prevDays, newDays, prevAmount, newAmount))

	stay.Overstay.DaysOverstayed = newDays
	stay.Overstay.ChargeAmount = newAmount
	if err := s.db.Model(&models.CheckInOut{}).Where("id = ?", stay.ID).
		Updates(map[string]interface{}{
			"overstay_days_overstayed": newDays,
			"overstay_charge_amount":   newAmount,
		}).Error; err != nil {
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Không cập nhật được sub-record overstay", err)
	}

	if err := s.db.First(&invoice, invoice.ID).Error; err != nil {
		return nil, err
	}
	return &invoice, nil
}

// OverstayPaymentParams tham số thanh toán phụ thu do khách gửi
type OverstayPaymentParams struct {
	Method     string
	Amount     float64
	CardNumber string
	CardExpiry string
	CardCVC    string
}

// ProcessPayment xử lý thanh toán phụ thu do khách gửi. Số tiền kỳ vọng
// được tính lại từ thời gian hiện tại, không tin dữ liệu client; hóa đơn
// đã bị admin điều chỉnh tay thì số đã điều chỉnh là nguồn sự thật.
// Lệch trong ±10% chỉ ghi warn, không chặn thanh toán.
func (s *OverstayService) ProcessPayment(guestID, stayID uint, params OverstayPaymentParams) (*models.Invoice, error) {
	var stay models.CheckInOut
	if err := s.db.Preload("Booking").First(&stay, stayID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrStayNotFound
		}
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Không đọc được bản ghi lưu trú", err)
	}

	if stay.UserID != guestID {
		return nil, errors.NewAppError(errors.ErrCodeUnauthorized, "Bản ghi lưu trú không thuộc về khách này", nil)
	}
	if stay.Status != models.StayStatusCheckedIn {
		return nil, errors.ErrStayNotCheckedIn
	}

	var room models.Room
	if err := s.db.First(&room, stay.RoomID).Error; err != nil {
		return nil, errors.ErrRoomNotFound
	}

	now := s.nowFn()
	days, expected, _ := ComputeOverstay(&stay.Booking, room.Price, s.multiplier(), now)
	if days == 0 {
		return nil, errors.NewAppError(errors.ErrCodeInvalidOperation, "Khách không ở quá hạn", nil)
	}

	invoice, err := s.CreateOverstayInvoice(&stay, days, expected)
	if err != nil {
		return nil, err
	}
	if invoice.AdminAdjusted {
		// admin đã điều chỉnh tay, bỏ công thức theo ngày
		expected = invoice.TotalAmount
	} else if days > invoice.OverstayTracking.AccumulatedDays {
		// khách ở thêm từ lúc hóa đơn được tạo, tăng trước khi thu
		invoice, err = s.UpdateOverstayInvoice(&stay, days, expected)
		if err != nil {
			return nil, err
		}
	}

	if expected > 0 {
		variance := math.Abs(params.Amount-expected) / expected
		if variance > 0.10 {
			return nil, errors.NewAppError(errors.ErrCodeInvalidAmount,
				fmt.Sprintf("Số tiền %.2f lệch quá 10%% so với phụ thu %.2f", params.Amount, expected), nil)
		}
		if variance > 0 {
			s.logger.Warn("Số tiền khách gửi %.2f lệch %.1f%% so với phụ thu kỳ vọng %.2f (stay %d)",
				params.Amount, variance*100, expected, stay.ID)
		}
	}

	switch params.Method {
	case constants.PaymentMethodCard:
		if params.CardNumber == "" || params.CardExpiry == "" || params.CardCVC == "" {
			return nil, errors.NewAppError(errors.ErrCodeRequiredField, "Thiếu thông tin thẻ thanh toán", nil)
		}
		txID, err := s.gateway.Authorize(params.Method, expected, invoice.InvoiceCode)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrCodeInvalidPayment, "Ủy quyền thanh toán thất bại", err)
		}
		now := s.nowFn()
		if err := s.db.Model(invoice).Updates(map[string]interface{}{
			"status":           constants.InvoiceStatusPaid,
			"paid_amount":      expected,
			"remaining_amount": 0,
			"payment_date":     now,
			"payment_method":   constants.PaymentMethodCard,
		}).Error; err != nil {
			return nil, errors.NewAppError(errors.ErrCodeDBError, "Không cập nhật được hóa đơn", err)
		}
		s.auditInvoice(invoice.ID, "guest", fmt.Sprintf("Thanh toán card thành công, tx=%s", txID))
		if err := s.setOverstayPayment(stay.ID, constants.PaymentMethodCard, models.OverstayPaymentCompleted, true); err != nil {
			return nil, err
		}

	case constants.PaymentMethodBank:
		if err := s.db.Model(invoice).Update("payment_method", constants.PaymentMethodBank).Error; err != nil {
			return nil, errors.NewAppError(errors.ErrCodeDBError, "Không cập nhật được hóa đơn", err)
		}
		// chuyển khoản phải chờ đối soát, checkout vẫn bị chặn
		if err := s.setOverstayPayment(stay.ID, constants.PaymentMethodBank, models.OverstayPaymentPendingVerification, false); err != nil {
			return nil, err
		}

	case constants.PaymentMethodCash:
		// tiền mặt chờ lễ tân xác nhận, checkout vẫn bị chặn
		if err := s.setOverstayPayment(stay.ID, constants.PaymentMethodCash, models.OverstayPaymentPendingApproval, false); err != nil {
			return nil, err
		}

	default:
		return nil, errors.ErrInvalidPaymentMethod
	}

	s.notifyGuest(&stay, notification.TypeOverstayPayment,
		fmt.Sprintf("Đã ghi nhận thanh toán phụ thu %.2f qua %s", params.Amount, params.Method))

	if err := s.db.First(invoice, invoice.ID).Error; err != nil {
		return nil, err
	}
	return invoice, nil
}

// ApprovePayment lễ tân/admin duyệt thanh toán phụ thu (cash/bank).
// Đây là thẩm quyền duy nhất mở cổng checkout sau khi khách chọn
// thanh toán cash hoặc bank.
func (s *OverstayService) ApprovePayment(invoiceID uint, actor, notes string) (*models.Invoice, error) {
	invoice, err := s.loadOverstayInvoice(invoiceID)
	if err != nil {
		return nil, err
	}

	if invoice.Status != constants.InvoiceStatusAwaitingApproval && invoice.Status != constants.InvoiceStatusSent {
		return nil, errors.NewAppError(errors.ErrCodeInvalidStatus,
			"Hóa đơn không ở trạng thái chờ duyệt", nil)
	}

	now := s.nowFn()
	if err := s.db.Model(invoice).Updates(map[string]interface{}{
		"status":               constants.InvoiceStatusPaid,
		"paid_amount":          invoice.TotalAmount,
		"remaining_amount":     0,
		"payment_date":         now,
		"approval_approved_by": actor,
		"approval_approved_at": now,
		"approval_notes":       notes,
	}).Error; err != nil {
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Không duyệt được hóa đơn", err)
	}

	if invoice.CheckInOutID != nil {
		if err := s.setOverstayPayment(*invoice.CheckInOutID, "", models.OverstayPaymentApproved, true); err != nil {
			return nil, err
		}
		s.notifyStay(*invoice.CheckInOutID, notification.TypeOverstayApproved,
			"Thanh toán phụ thu đã được duyệt, bạn có thể trả phòng")
	}

	if err := s.db.First(invoice, invoiceID).Error; err != nil {
		return nil, err
	}
	return invoice, nil
}

// RejectPayment từ chối thanh toán phụ thu; checkout tiếp tục bị chặn
func (s *OverstayService) RejectPayment(invoiceID uint, actor, reason string) (*models.Invoice, error) {
	invoice, err := s.loadOverstayInvoice(invoiceID)
	if err != nil {
		return nil, err
	}

	now := s.nowFn()
	if err := s.db.Model(invoice).Updates(map[string]interface{}{
		"status":               constants.InvoiceStatusFailed,
		"approval_rejected_by": actor,
		"approval_rejected_at": now,
		"approval_notes":       reason,
	}).Error; err != nil {
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Không từ chối được hóa đơn", err)
	}

	if invoice.CheckInOutID != nil {
		if err := s.setOverstayPayment(*invoice.CheckInOutID, "", models.OverstayPaymentRejected, false); err != nil {
			return nil, err
		}
		s.notifyStay(*invoice.CheckInOutID, notification.TypeOverstayRejected,
			"Thanh toán phụ thu bị từ chối: "+reason)
	}

	if err := s.db.First(invoice, invoiceID).Error; err != nil {
		return nil, err
	}
	return invoice, nil
}

// AdjustCharges admin điều chỉnh tay số tiền phụ thu (giảm giá thiện chí...),
// độc lập với công thức theo ngày
func (s *OverstayService) AdjustCharges(invoiceID uint, actor string, newAmount float64, notes string) (*models.Invoice, error) {
	if newAmount < 0 {
		return nil, errors.ErrInvalidAmount
	}
	invoice, err := s.loadOverstayInvoice(invoiceID)
	if err != nil {
		return nil, err
	}

	prev := invoice.TotalAmount
	if err := s.db.Model(invoice).Updates(map[string]interface{}{
		"total_amount":     newAmount,
		"remaining_amount": newAmount - invoice.PaidAmount,
		"admin_adjusted":   true,
	}).Error; err != nil {
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Không điều chỉnh được hóa đơn", err)
	}

	s.auditInvoice(invoice.ID, actor,
		fmt.Sprintf("Điều chỉnh tay: %.2f -> %.2f. %s", prev, newAmount, notes))

	if invoice.CheckInOutID != nil {
		if err := s.db.Model(&models.CheckInOut{}).Where("id = ?", *invoice.CheckInOutID).
			Update("overstay_charge_amount", newAmount).Error; err != nil {
			return nil, errors.NewAppError(errors.ErrCodeDBError, "Không cập nhật được sub-record overstay", err)
		}
		s.notifyStay(*invoice.CheckInOutID, notification.TypeOverstayAdjusted,
			fmt.Sprintf("Phụ thu quá hạn được điều chỉnh thành %.2f", newAmount))
	}

	if err := s.db.First(invoice, invoiceID).Error; err != nil {
		return nil, err
	}
	return invoice, nil
}

func (s *OverstayService) loadOverstayInvoice(invoiceID uint) (*models.Invoice, error) {
	var invoice models.Invoice
	if err := s.db.First(&invoice, invoiceID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrInvoiceNotFound
		}
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Không đọc được hóa đơn", err)
	}
	if invoice.Kind != constants.InvoiceKindOverstay {
		return nil, errors.NewAppError(errors.ErrCodeInvalidOperation, "Hóa đơn không phải loại overstay", nil)
	}
	return &invoice, nil
}

// setOverstayPayment cập nhật trạng thái thanh toán và cổng checkout
// trên sub-record overstay
func (s *OverstayService) setOverstayPayment(stayID uint, method string, status models.OverstayPaymentStatus, canCheckout bool) error {
	updates := map[string]interface{}{
		"overstay_payment_status": status,
		"overstay_can_checkout":   canCheckout,
	}
	if method != "" {
		updates["overstay_payment_method"] = method
	}
	if err := s.db.Model(&models.CheckInOut{}).Where("id = ?", stayID).Updates(updates).Error; err != nil {
		return errors.NewAppError(errors.ErrCodeDBError, "Không cập nhật được trạng thái thanh toán overstay", err)
	}
	return nil
}

func (s *OverstayService) auditInvoice(invoiceID uint, actor, note string) {
	entry := models.InvoiceAudit{InvoiceID: invoiceID, Actor: actor, Note: note}
	if err := s.db.Create(&entry).Error; err != nil {
		s.logger.Error("Không ghi được audit cho hóa đơn %d: %v", invoiceID, err)
	}
}

func (s *OverstayService) notifyGuest(stay *models.CheckInOut, notifType, message string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(stay.UserID, notifType, "push", message, map[string]interface{}{
		"stayId": stay.ID,
	}); err != nil {
		s.logger.Error("Không gửi được thông báo %s cho khách %d: %v", notifType, stay.UserID, err)
	}
}

func (s *OverstayService) notifyStay(stayID uint, notifType, message string) {
	var stay models.CheckInOut
	if err := s.db.First(&stay, stayID).Error; err != nil {
		s.logger.Error("Không đọc được stay %d để gửi thông báo: %v", stayID, err)
		return
	}
	s.notifyGuest(&stay, notifType, message)
}
