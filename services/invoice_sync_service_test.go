package services

import (
	"testing"
	"time"

	"hotel/builders"
	"hotel/constants"
	"hotel/models"
)

func seedSyncFixture(t *testing.T, svc *InvoiceSyncService, status int, kind int) (*models.Booking, *models.Invoice) {
	t.Helper()
	room := seedRoom(t, svc.db, 5000)
	user := seedUser(t, svc.db, constants.RoleGuest)

	booking := builders.NewBookingBuilder().
		WithUser(user.ID).
		WithRoom(room.RoomId).
		WithStatus(status).
		WithDates(time.Date(2026, 1, 8, 0, 0, 0, 0, time.UTC), time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)).
		WithPayment(constants.PaymentMethodCash, 10000, 800).
		Build()
	if err := svc.db.Create(booking).Error; err != nil {
		t.Fatalf("seed booking: %v", err)
	}
	invoice := &models.Invoice{
		BookingID:       booking.ID,
		Kind:            kind,
		TotalAmount:     10800,
		RemainingAmount: 10800,
		Status:          constants.InvoiceStatusSent,
		PaymentMethod:   booking.PaymentMethod,
	}
	if err := svc.db.Create(invoice).Error; err != nil {
		t.Fatalf("seed invoice: %v", err)
	}
	return booking, invoice
}

func TestApplyStatusChangePaidPrimaryConfirmsBooking(t *testing.T) {
	db := openTestDB(t)
	svc := NewInvoiceSyncService(db, testLogger())
	booking, invoice := seedSyncFixture(t, svc, constants.BookingStatusPending, constants.InvoiceKindPrimary)

	updated, err := svc.ApplyStatusChange(invoice.ID, constants.InvoiceStatusPaid, "receptionist:1")
	if err != nil {
		t.Fatalf("ApplyStatusChange: %v", err)
	}
	if updated.Status != constants.InvoiceStatusPaid {
		t.Errorf("invoice status = %d, want paid", updated.Status)
	}

	var reloaded models.Booking
	if err := db.First(&reloaded, booking.ID).Error; err != nil {
		t.Fatalf("reload booking: %v", err)
	}
	if reloaded.Status != constants.BookingStatusConfirmed {
		t.Errorf("booking status = %d, want confirmed", reloaded.Status)
	}
	if reloaded.PaidAt == nil {
		t.Error("paidAt not stamped")
	}

	// hóa đơn chính đã trả → có bản ghi pre_checkin chờ khách đến
	var stays int64
	db.Model(&models.CheckInOut{}).
		Where("booking_id = ? AND status = ?", booking.ID, models.StayStatusPreCheckIn).
		Count(&stays)
	if stays != 1 {
		t.Errorf("pre_checkin stays = %d, want 1", stays)
	}

	// trả lại lần nữa không nhân đôi bản ghi lưu trú
	if _, err := svc.ApplyStatusChange(invoice.ID, constants.InvoiceStatusPaid, "receptionist:1"); err != nil {
		t.Fatalf("second apply: %v", err)
	}
	db.Model(&models.CheckInOut{}).
		Where("booking_id = ? AND status = ?", booking.ID, models.StayStatusPreCheckIn).
		Count(&stays)
	if stays != 1 {
		t.Errorf("pre_checkin stays after replay = %d, want 1", stays)
	}
}

func TestApplyStatusChangePaidOverstayUnblocksCheckout(t *testing.T) {
	db := openTestDB(t)
	svc := NewInvoiceSyncService(db, testLogger())
	booking, invoice := seedSyncFixture(t, svc, constants.BookingStatusCheckedIn, constants.InvoiceKindOverstay)

	stay := models.CheckInOut{
		BookingID: booking.ID,
		UserID:    *booking.UserID,
		RoomID:    booking.RoomID,
		Status:    models.StayStatusCheckedIn,
		Overstay: models.Overstay{
			Detected:      true,
			PaymentStatus: models.OverstayPaymentPending,
			CanCheckout:   false,
		},
	}
	if err := db.Create(&stay).Error; err != nil {
		t.Fatalf("seed stay: %v", err)
	}
	if err := db.Model(invoice).Update("check_in_out_id", stay.ID).Error; err != nil {
		t.Fatalf("link invoice: %v", err)
	}

	if _, err := svc.ApplyStatusChange(invoice.ID, constants.InvoiceStatusPaid, "admin:2"); err != nil {
		t.Fatalf("ApplyStatusChange: %v", err)
	}

	var reloaded models.CheckInOut
	if err := db.First(&reloaded, stay.ID).Error; err != nil {
		t.Fatalf("reload stay: %v", err)
	}
	if !reloaded.Overstay.CanCheckout {
		t.Error("checkout still blocked after overstay invoice paid")
	}
	if reloaded.Overstay.PaymentStatus != models.OverstayPaymentApproved {
		t.Errorf("payment status = %q, want approved", reloaded.Overstay.PaymentStatus)
	}

	// sửa sai: hóa đơn chuyển Failed chặn lại cổng checkout
	if _, err := svc.ApplyStatusChange(invoice.ID, constants.InvoiceStatusFailed, "admin:2"); err != nil {
		t.Fatalf("mark failed: %v", err)
	}
	if err := db.First(&reloaded, stay.ID).Error; err != nil {
		t.Fatalf("reload stay: %v", err)
	}
	if reloaded.Overstay.CanCheckout {
		t.Error("checkout should be re-blocked after invoice failed")
	}
}

func TestApplyStatusChangeCancelledCancelsBooking(t *testing.T) {
	db := openTestDB(t)
	svc := NewInvoiceSyncService(db, testLogger())
	booking, invoice := seedSyncFixture(t, svc, constants.BookingStatusOnHold, constants.InvoiceKindPrimary)

	if _, err := svc.ApplyStatusChange(invoice.ID, constants.InvoiceStatusCancelled, "admin:2"); err != nil {
		t.Fatalf("ApplyStatusChange: %v", err)
	}

	var reloaded models.Booking
	if err := db.First(&reloaded, booking.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Status != constants.BookingStatusCancelled {
		t.Errorf("booking status = %d, want cancelled", reloaded.Status)
	}
	if reloaded.CancelledBy != constants.CancelledBySystem {
		t.Errorf("cancelledBy = %q, want system", reloaded.CancelledBy)
	}
}

func TestApplyStatusChangeCancelledLeavesTerminalBooking(t *testing.T) {
	db := openTestDB(t)
	svc := NewInvoiceSyncService(db, testLogger())
	booking, invoice := seedSyncFixture(t, svc, constants.BookingStatusCompleted, constants.InvoiceKindPrimary)

	if _, err := svc.ApplyStatusChange(invoice.ID, constants.InvoiceStatusCancelled, "admin:2"); err != nil {
		t.Fatalf("ApplyStatusChange: %v", err)
	}

	var reloaded models.Booking
	if err := db.First(&reloaded, booking.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Status != constants.BookingStatusCompleted {
		t.Errorf("completed booking must stay completed, got %d", reloaded.Status)
	}
}

func TestApplyStatusChangeSentDemotesConfirmedBooking(t *testing.T) {
	db := openTestDB(t)
	svc := NewInvoiceSyncService(db, testLogger())

	// tiền mặt: hạ về chờ thanh toán
	booking, invoice := seedSyncFixture(t, svc, constants.BookingStatusConfirmed, constants.InvoiceKindPrimary)
	if _, err := svc.ApplyStatusChange(invoice.ID, constants.InvoiceStatusSent, "admin:2"); err != nil {
		t.Fatalf("ApplyStatusChange: %v", err)
	}
	var reloaded models.Booking
	if err := db.First(&reloaded, booking.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Status != constants.BookingStatusApprovedPaymentPending {
		t.Errorf("status = %d, want approved/payment pending", reloaded.Status)
	}

	// thẻ: hạ về đang xử lý thanh toán
	cardBooking := builders.NewBookingBuilder().
		WithRoom(booking.RoomID).
		WithStatus(constants.BookingStatusConfirmed).
		WithDates(booking.CheckInDate, booking.CheckOutDate).
		WithPayment(constants.PaymentMethodCard, 10000, 800).
		Build()
	if err := db.Create(cardBooking).Error; err != nil {
		t.Fatalf("seed card booking: %v", err)
	}
	cardInvoice := models.Invoice{
		BookingID:       cardBooking.ID,
		Kind:            constants.InvoiceKindPrimary,
		TotalAmount:     10800,
		RemainingAmount: 10800,
		Status:          constants.InvoiceStatusDraft,
		PaymentMethod:   constants.PaymentMethodCard,
	}
	if err := db.Create(&cardInvoice).Error; err != nil {
		t.Fatalf("seed card invoice: %v", err)
	}
	if _, err := svc.ApplyStatusChange(cardInvoice.ID, constants.InvoiceStatusSent, "admin:2"); err != nil {
		t.Fatalf("ApplyStatusChange card: %v", err)
	}
	reloaded = models.Booking{}
	if err := db.First(&reloaded, cardBooking.ID).Error; err != nil {
		t.Fatalf("reload card booking: %v", err)
	}
	if reloaded.Status != constants.BookingStatusApprovedPaymentProcessing {
		t.Errorf("status = %d, want approved/payment processing", reloaded.Status)
	}
}

func TestRefreshAfterStay(t *testing.T) {
	db := openTestDB(t)
	svc := NewInvoiceSyncService(db, testLogger())
	_, invoice := seedSyncFixture(t, svc, constants.BookingStatusCheckedIn, constants.InvoiceKindPrimary)

	// Draft → Sent khi khách nhận phòng
	if err := db.Model(invoice).Update("status", constants.InvoiceStatusDraft).Error; err != nil {
		t.Fatalf("reset status: %v", err)
	}
	if err := svc.RefreshAfterStay(invoice.BookingID); err != nil {
		t.Fatalf("RefreshAfterStay: %v", err)
	}
	var reloaded models.Invoice
	if err := db.First(&reloaded, invoice.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Status != constants.InvoiceStatusSent {
		t.Errorf("status = %d, want sent", reloaded.Status)
	}

	// Sent còn nợ: giữ nguyên
	if err := svc.RefreshAfterStay(invoice.BookingID); err != nil {
		t.Fatalf("RefreshAfterStay: %v", err)
	}
	if err := db.First(&reloaded, invoice.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Status != constants.InvoiceStatusSent {
		t.Errorf("status with remaining balance = %d, want still sent", reloaded.Status)
	}

	// Sent đã trả đủ: chốt Paid kèm ngày thanh toán
	if err := db.Model(invoice).Updates(map[string]interface{}{
		"paid_amount":      10800,
		"remaining_amount": 0,
	}).Error; err != nil {
		t.Fatalf("settle invoice: %v", err)
	}
	if err := svc.RefreshAfterStay(invoice.BookingID); err != nil {
		t.Fatalf("RefreshAfterStay: %v", err)
	}
	if err := db.First(&reloaded, invoice.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Status != constants.InvoiceStatusPaid {
		t.Errorf("status = %d, want paid", reloaded.Status)
	}
	if reloaded.PaymentDate == nil {
		t.Error("payment date not stamped")
	}
}
