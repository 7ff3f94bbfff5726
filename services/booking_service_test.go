package services

import (
	"testing"
	"time"

	"hotel/builders"
	"hotel/constants"
	"hotel/models"
	"hotel/services/notification"
)

func newBookingService(t *testing.T) (*BookingService, *recordingNotifier) {
	t.Helper()
	db := openTestDB(t)
	log := testLogger()
	notifier := &recordingNotifier{}
	svc := NewBookingService(BookingServiceOptions{
		DB:          db,
		Logger:      log,
		Refunds:     NewRefundService(db, log),
		InvoiceSync: NewInvoiceSyncService(db, log),
		Notifier:    notifier,
		Settings:    NewSettingsCache(SettingsCacheOptions{DB: db, Logger: log}),
	})
	return svc, notifier
}

func TestCreateBookingStartsOnHold(t *testing.T) {
	svc, _ := newBookingService(t)
	room := seedRoom(t, svc.db, 5000)
	user := seedUser(t, svc.db, constants.RoleGuest)

	now := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	svc.nowFn = fixedNow(now)

	booking, err := svc.CreateBooking(CreateBookingParams{
		UserID:        &user.ID,
		RoomID:        room.RoomId,
		CheckInDate:   time.Date(2026, 1, 8, 0, 0, 0, 0, time.UTC),
		CheckOutDate:  time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
		GuestName:     "Nguyễn Văn An",
		PaymentMethod: constants.PaymentMethodCash,
	})
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}

	if booking.Status != constants.BookingStatusOnHold {
		t.Errorf("status = %d, want on hold", booking.Status)
	}
	if booking.HoldUntil == nil {
		t.Fatal("holdUntil not set")
	}
	// mặc định giữ chỗ 24 giờ
	if want := now.Add(24 * time.Hour); !booking.HoldUntil.Equal(want) {
		t.Errorf("holdUntil = %v, want %v", booking.HoldUntil, want)
	}

	// 2 đêm × 5000 + 8% thuế
	if booking.BasePrice != 10000 {
		t.Errorf("basePrice = %.2f, want 10000", booking.BasePrice)
	}
	if booking.TotalPrice != 10800 {
		t.Errorf("totalPrice = %.2f, want 10800", booking.TotalPrice)
	}

	// hóa đơn chính Draft đi kèm
	var invoice models.Invoice
	if err := svc.db.Where("booking_id = ? AND kind = ?", booking.ID, constants.InvoiceKindPrimary).
		First(&invoice).Error; err != nil {
		t.Fatalf("load invoice: %v", err)
	}
	if invoice.Status != constants.InvoiceStatusDraft {
		t.Errorf("invoice status = %d, want draft", invoice.Status)
	}
	if invoice.InvoiceCode == "" {
		t.Error("invoice code not generated")
	}
}

func TestCreateBookingRejectsInvertedDates(t *testing.T) {
	svc, _ := newBookingService(t)
	room := seedRoom(t, svc.db, 5000)

	_, err := svc.CreateBooking(CreateBookingParams{
		RoomID:        room.RoomId,
		CheckInDate:   time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
		CheckOutDate:  time.Date(2026, 1, 8, 0, 0, 0, 0, time.UTC),
		PaymentMethod: constants.PaymentMethodCash,
	})
	if err == nil {
		t.Fatal("expected error for checkOut before checkIn")
	}
}

func TestExpireHolds(t *testing.T) {
	svc, notifier := newBookingService(t)
	room := seedRoom(t, svc.db, 5000)
	user := seedUser(t, svc.db, constants.RoleGuest)

	now := time.Date(2026, 1, 3, 12, 0, 0, 0, time.UTC)
	svc.nowFn = fixedNow(now)

	expired := builders.NewBookingBuilder().
		WithUser(user.ID).
		WithRoom(room.RoomId).
		WithStatus(constants.BookingStatusOnHold).
		WithDates(time.Date(2026, 1, 8, 0, 0, 0, 0, time.UTC), time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)).
		WithHoldUntil(now.Add(-1 * time.Hour)).
		WithGuestInfo("Tran Thi B", "", "").
		Build()
	alive := builders.NewBookingBuilder().
		WithUser(user.ID).
		WithRoom(room.RoomId).
		WithStatus(constants.BookingStatusOnHold).
		WithDates(time.Date(2026, 1, 8, 0, 0, 0, 0, time.UTC), time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)).
		WithHoldUntil(now.Add(5 * time.Hour)).
		Build()
	if err := svc.db.Create(expired).Error; err != nil {
		t.Fatalf("seed expired: %v", err)
	}
	if err := svc.db.Create(alive).Error; err != nil {
		t.Fatalf("seed alive: %v", err)
	}

	processed, failed := svc.ExpireHolds()
	if processed != 1 || failed != 0 {
		t.Fatalf("processed=%d failed=%d, want 1/0", processed, failed)
	}

	var reloaded models.Booking
	if err := svc.db.First(&reloaded, expired.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Status != constants.BookingStatusCancelled {
		t.Errorf("status = %d, want cancelled", reloaded.Status)
	}
	if reloaded.HoldUntil != nil {
		t.Error("holdUntil not cleared")
	}
	if reloaded.CancelledBy != constants.CancelledBySystem {
		t.Errorf("cancelledBy = %q, want system", reloaded.CancelledBy)
	}

	reloaded = models.Booking{}
	if err := svc.db.First(&reloaded, alive.ID).Error; err != nil {
		t.Fatalf("reload alive: %v", err)
	}
	if reloaded.Status != constants.BookingStatusOnHold {
		t.Errorf("alive booking status = %d, want still on hold", reloaded.Status)
	}

	if !notifier.has(notification.TypeHoldExpired) {
		t.Error("guest not notified about expiry")
	}

	// chạy lại: không còn gì để xử lý
	processed, failed = svc.ExpireHolds()
	if processed != 0 || failed != 0 {
		t.Errorf("second run processed=%d failed=%d, want 0/0", processed, failed)
	}
}

func TestSendHoldReminders(t *testing.T) {
	svc, notifier := newBookingService(t)
	room := seedRoom(t, svc.db, 5000)
	user := seedUser(t, svc.db, constants.RoleGuest)

	now := time.Date(2026, 1, 3, 12, 0, 0, 0, time.UTC)
	svc.nowFn = fixedNow(now)

	// hết hạn sau 3 tiếng: trong cửa sổ nhắc 6 tiếng
	soon := builders.NewBookingBuilder().
		WithUser(user.ID).
		WithRoom(room.RoomId).
		WithStatus(constants.BookingStatusOnHold).
		WithDates(time.Date(2026, 1, 8, 0, 0, 0, 0, time.UTC), time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)).
		WithHoldUntil(now.Add(3 * time.Hour)).
		Build()
	// hết hạn sau 12 tiếng: ngoài cửa sổ
	far := builders.NewBookingBuilder().
		WithUser(user.ID).
		WithRoom(room.RoomId).
		WithStatus(constants.BookingStatusOnHold).
		WithDates(time.Date(2026, 1, 8, 0, 0, 0, 0, time.UTC), time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)).
		WithHoldUntil(now.Add(12 * time.Hour)).
		Build()
	if err := svc.db.Create(soon).Error; err != nil {
		t.Fatalf("seed soon: %v", err)
	}
	if err := svc.db.Create(far).Error; err != nil {
		t.Fatalf("seed far: %v", err)
	}

	sent, failed := svc.SendHoldReminders()
	if sent != 1 || failed != 0 {
		t.Errorf("sent=%d failed=%d, want 1/0", sent, failed)
	}
	if !notifier.has(notification.TypeHoldReminder) {
		t.Error("reminder not recorded")
	}
}

func TestCleanupTerminal(t *testing.T) {
	svc, _ := newBookingService(t)
	room := seedRoom(t, svc.db, 5000)

	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	svc.nowFn = fixedNow(now)

	old := builders.NewBookingBuilder().
		WithRoom(room.RoomId).
		WithStatus(constants.BookingStatusCancelled).
		WithDates(time.Date(2026, 1, 8, 0, 0, 0, 0, time.UTC), time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)).
		Build()
	if err := svc.db.Create(old).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}
	// đẩy updated_at ra ngoài cửa sổ lưu trữ 90 ngày
	if err := svc.db.Model(&models.Booking{}).Where("id = ?", old.ID).
		UpdateColumn("updated_at", now.AddDate(0, 0, -120)).Error; err != nil {
		t.Fatalf("age booking: %v", err)
	}

	recent := builders.NewBookingBuilder().
		WithRoom(room.RoomId).
		WithStatus(constants.BookingStatusCancelled).
		WithDates(time.Date(2026, 5, 8, 0, 0, 0, 0, time.UTC), time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)).
		Build()
	if err := svc.db.Create(recent).Error; err != nil {
		t.Fatalf("seed recent: %v", err)
	}

	if deleted := svc.CleanupTerminal(); deleted != 1 {
		t.Fatalf("deleted = %d, want 1", deleted)
	}

	var count int64
	svc.db.Model(&models.Booking{}).Count(&count)
	if count != 1 {
		t.Errorf("remaining bookings = %d, want 1", count)
	}
}

func TestSearchByGuestNameDiacritics(t *testing.T) {
	svc, _ := newBookingService(t)
	room := seedRoom(t, svc.db, 5000)

	names := []string{"Nguyễn Văn An", "Trần Thị Bích", "Lê Hoàng Cường"}
	for _, name := range names {
		b := builders.NewBookingBuilder().
			WithRoom(room.RoomId).
			WithStatus(constants.BookingStatusConfirmed).
			WithDates(time.Date(2026, 1, 8, 0, 0, 0, 0, time.UTC), time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)).
			WithGuestInfo(name, "", "").
			Build()
		if err := svc.db.Create(b).Error; err != nil {
			t.Fatalf("seed %s: %v", name, err)
		}
	}

	// gõ không dấu vẫn tìm được tên có dấu
	results, err := svc.SearchByGuestName("nguyen van an", 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("no results for unaccented query")
	}
	if results[0].GuestName != "Nguyễn Văn An" {
		t.Errorf("top result = %q, want Nguyễn Văn An", results[0].GuestName)
	}

	// sai một ký tự vẫn khớp
	results, err = svc.SearchByGuestName("nguyen van am", 10)
	if err != nil {
		t.Fatalf("search typo: %v", err)
	}
	if len(results) == 0 || results[0].GuestName != "Nguyễn Văn An" {
		t.Error("typo query did not match")
	}
}

func TestCancelBookingCreatesRefundForPaidBooking(t *testing.T) {
	svc, _ := newBookingService(t)
	room := seedRoom(t, svc.db, 5000)
	user := seedUser(t, svc.db, constants.RoleGuest)

	booking := builders.NewBookingBuilder().
		WithUser(user.ID).
		WithRoom(room.RoomId).
		WithStatus(constants.BookingStatusConfirmed).
		WithDates(time.Date(2026, 1, 8, 0, 0, 0, 0, time.UTC), time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)).
		WithPayment(constants.PaymentMethodCard, 10000, 800).
		Build()
	if err := svc.db.Create(booking).Error; err != nil {
		t.Fatalf("seed booking: %v", err)
	}
	invoice := models.Invoice{
		BookingID:   booking.ID,
		Kind:        constants.InvoiceKindPrimary,
		TotalAmount: 10800,
		PaidAmount:  10800,
		Status:      constants.InvoiceStatusPaid,
	}
	if err := svc.db.Create(&invoice).Error; err != nil {
		t.Fatalf("seed invoice: %v", err)
	}

	cancelled, err := svc.Cancel(booking.ID, "guest:1", "đổi kế hoạch")
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if cancelled.Status != constants.BookingStatusCancelled {
		t.Errorf("status = %d, want cancelled", cancelled.Status)
	}

	var refunds int64
	svc.db.Model(&models.Refund{}).Where("booking_id = ?", booking.ID).Count(&refunds)
	if refunds != 1 {
		t.Errorf("refunds = %d, want 1", refunds)
	}

	// hủy lại booking đã hủy: trạng thái không cho phép
	if _, err := svc.Cancel(booking.ID, "guest:1", "again"); err == nil {
		t.Error("expected error cancelling a cancelled booking")
	}
}
