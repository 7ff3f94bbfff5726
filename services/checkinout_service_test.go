package services

import (
	"testing"
	"time"

	"hotel/constants"
	"hotel/errors"
	"hotel/models"
	"hotel/services/notification"
)

type stayFixture struct {
	svc      *CheckInOutService
	overstay *OverstayService
	cards    *KeyCardService
	notifier *recordingNotifier
	room     *models.Room
	user     *models.User
	booking  *models.Booking
}

// booking đã Confirmed, ở từ 08/01 đến 10/01/2026, phòng 5000/đêm,
// pool có 2 thẻ
func newStayFixture(t *testing.T) (*stayFixture, func(time.Time)) {
	t.Helper()
	db := openTestDB(t)
	notifier := &recordingNotifier{}
	log := testLogger()
	settings := NewSettingsCache(SettingsCacheOptions{DB: db, Logger: log})
	cards := NewKeyCardService(KeyCardServiceOptions{DB: db, Logger: log})
	invoiceSync := NewInvoiceSyncService(db, log)
	housekeeping := NewHousekeepingService(db, log)
	overstay := NewOverstayService(OverstayServiceOptions{
		DB:       db,
		Logger:   log,
		Notifier: notifier,
		Gateway:  NewMockGateway(log),
		Settings: settings,
	})
	svc := NewCheckInOutService(CheckInOutServiceOptions{
		DB:           db,
		Logger:       log,
		KeyCards:     cards,
		Overstay:     overstay,
		InvoiceSync:  invoiceSync,
		Housekeeping: housekeeping,
		Notifier:     notifier,
		Settings:     settings,
		Production:   false,
	})

	room := seedRoom(t, db, 5000)
	user := seedUser(t, db, constants.RoleGuest)
	booking := models.Booking{
		UserID:       &user.ID,
		RoomID:       room.RoomId,
		CheckInDate:  time.Date(2026, 1, 8, 0, 0, 0, 0, time.UTC),
		CheckOutDate: time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
		Status:       constants.BookingStatusConfirmed,
		GuestName:    "Nguyen Van A",
		TotalPrice:   10800,
	}
	if err := db.Create(&booking).Error; err != nil {
		t.Fatalf("seed booking: %v", err)
	}
	seedCards(t, db, cards, 2)

	setNow := func(now time.Time) {
		svc.nowFn = fixedNow(now)
		overstay.nowFn = fixedNow(now)
	}
	return &stayFixture{
		svc:      svc,
		overstay: overstay,
		cards:    cards,
		notifier: notifier,
		room:     room,
		user:     user,
		booking:  &booking,
	}, setNow
}

func (fx *stayFixture) checkIn(t *testing.T, setNow func(time.Time)) *models.CheckInOut {
	t.Helper()
	setNow(time.Date(2026, 1, 8, 14, 0, 0, 0, time.UTC))
	stay, err := fx.svc.CheckIn(CheckInParams{
		BookingID:      fx.booking.ID,
		GuestID:        fx.user.ID,
		Actor:          "receptionist:1",
		DocumentType:   "cccd",
		DocumentNumber: "012345678901",
	})
	if err != nil {
		t.Fatalf("CheckIn: %v", err)
	}
	return stay
}

func TestCheckInByStaffRecordsBookingGuest(t *testing.T) {
	fx, setNow := newStayFixture(t)
	staff := seedUser(t, fx.svc.db, constants.RoleReceptionist)

	// lễ tân nhận phòng hộ: danh tính phiên là nhân viên, người lưu trú
	// phải là khách của booking
	setNow(time.Date(2026, 1, 8, 14, 0, 0, 0, time.UTC))
	stay, err := fx.svc.CheckIn(CheckInParams{
		BookingID:      fx.booking.ID,
		GuestID:        staff.ID,
		Actor:          "receptionist:1",
		DocumentType:   "cccd",
		DocumentNumber: "012345678901",
	})
	if err != nil {
		t.Fatalf("CheckIn: %v", err)
	}
	if stay.UserID != fx.user.ID {
		t.Errorf("stay.UserID = %d, want guest %d (không phải nhân viên %d)", stay.UserID, fx.user.ID, staff.ID)
	}
	if stay.KeyCard == nil || stay.KeyCard.AssignedTo == nil || *stay.KeyCard.AssignedTo != fx.user.ID {
		t.Error("key card must be assigned to the booking guest")
	}

	// khách thanh toán phụ thu bằng chính tài khoản mình, không bị chặn
	setNow(time.Date(2026, 1, 12, 10, 0, 0, 0, time.UTC))
	if _, err := fx.overstay.ProcessPayment(fx.user.ID, stay.ID, OverstayPaymentParams{
		Method: constants.PaymentMethodCash,
		Amount: 15000,
	}); err != nil {
		t.Fatalf("guest ProcessPayment sau khi lễ tân check-in: %v", err)
	}
}

func TestCheckInHappyPath(t *testing.T) {
	fx, setNow := newStayFixture(t)
	stay := fx.checkIn(t, setNow)

	if stay.Status != models.StayStatusCheckedIn {
		t.Errorf("stay status = %s, want checked_in", stay.Status)
	}
	if stay.KeyCardID == nil {
		t.Fatal("no key card assigned")
	}
	if stay.KeyCard == nil || stay.KeyCard.Status != models.KeyCardStatusActive {
		t.Error("assigned card is not active")
	}
	if stay.CheckInTime == nil {
		t.Error("checkInTime not set")
	}

	var room models.Room
	if err := fx.svc.db.First(&room, fx.room.RoomId).Error; err != nil {
		t.Fatalf("reload room: %v", err)
	}
	if room.Status != constants.RoomStatusBooked {
		t.Errorf("room status = %d, want booked", room.Status)
	}

	var booking models.Booking
	if err := fx.svc.db.First(&booking, fx.booking.ID).Error; err != nil {
		t.Fatalf("reload booking: %v", err)
	}
	if booking.Status != constants.BookingStatusCheckedIn {
		t.Errorf("booking status = %d, want checked-in", booking.Status)
	}
	if !fx.notifier.has(notification.TypeCheckInDone) {
		t.Error("guest not notified")
	}
}

func TestCheckInRejectsDoubleCheckIn(t *testing.T) {
	fx, setNow := newStayFixture(t)
	fx.checkIn(t, setNow)

	_, err := fx.svc.CheckIn(CheckInParams{
		BookingID: fx.booking.ID,
		GuestID:   fx.user.ID,
		Actor:     "receptionist:1",
	})
	if err == nil {
		t.Fatal("expected error on double check-in")
	}
}

func TestCheckInOutsideDateWindow(t *testing.T) {
	fx, setNow := newStayFixture(t)
	setNow(time.Date(2026, 1, 5, 14, 0, 0, 0, time.UTC))

	_, err := fx.svc.CheckIn(CheckInParams{
		BookingID: fx.booking.ID,
		GuestID:   fx.user.ID,
		Actor:     "receptionist:1",
	})
	if err == nil {
		t.Fatal("expected date window error")
	}
	appErr := errors.GetAppError(err)
	if appErr == nil || appErr.Code != errors.ErrCodeOutsideWindow {
		t.Errorf("err = %v, want OUTSIDE_DATE_WINDOW", err)
	}
}

func TestCheckInSkipDateValidationOutsideProduction(t *testing.T) {
	fx, setNow := newStayFixture(t)

	settings := DefaultSettings()
	settings.SkipDateValidation = true
	if err := fx.svc.db.Create(&settings).Error; err != nil {
		t.Fatalf("seed settings: %v", err)
	}

	setNow(time.Date(2026, 1, 5, 14, 0, 0, 0, time.UTC))
	if _, err := fx.svc.CheckIn(CheckInParams{
		BookingID: fx.booking.ID,
		GuestID:   fx.user.ID,
		Actor:     "receptionist:1",
	}); err != nil {
		t.Fatalf("CheckIn with skip flag: %v", err)
	}
}

func TestCheckInNoCardsAvailable(t *testing.T) {
	fx, setNow := newStayFixture(t)

	// chiếm hết pool trước
	for i := 0; i < 2; i++ {
		if _, err := fx.cards.Allocate(uint(100+i), 99, time.Now().Add(24*time.Hour)); err != nil {
			t.Fatalf("drain pool: %v", err)
		}
	}

	setNow(time.Date(2026, 1, 8, 14, 0, 0, 0, time.UTC))
	_, err := fx.svc.CheckIn(CheckInParams{
		BookingID: fx.booking.ID,
		GuestID:   fx.user.ID,
		Actor:     "receptionist:1",
	})
	if err != errors.ErrNoCardsAvailable {
		t.Fatalf("err = %v, want ErrNoCardsAvailable", err)
	}

	// check-in gãy không được để lại stay checked_in
	var count int64
	fx.svc.db.Model(&models.CheckInOut{}).Where("status = ?", models.StayStatusCheckedIn).Count(&count)
	if count != 0 {
		t.Errorf("checked_in stays = %d, want 0", count)
	}
}

func TestSelfCheckInRequiresOwnership(t *testing.T) {
	fx, setNow := newStayFixture(t)
	setNow(time.Date(2026, 1, 8, 14, 0, 0, 0, time.UTC))

	_, err := fx.svc.CheckIn(CheckInParams{
		BookingID:   fx.booking.ID,
		GuestID:     fx.user.ID + 55,
		Actor:       "guest:999",
		SelfService: true,
	})
	if err == nil {
		t.Fatal("expected ownership error for self check-in")
	}
}

func TestCheckOutOnTime(t *testing.T) {
	fx, setNow := newStayFixture(t)
	stay := fx.checkIn(t, setNow)

	// trả phòng trong ngày checkout, trước 23:59:59
	setNow(time.Date(2026, 1, 10, 11, 0, 0, 0, time.UTC))
	out, err := fx.svc.CheckOut(stay.ID, "receptionist:1")
	if err != nil {
		t.Fatalf("CheckOut: %v", err)
	}
	if out.Status != models.StayStatusCheckedOut {
		t.Errorf("stay status = %s, want checked_out", out.Status)
	}

	// thẻ phải về pool
	var card models.KeyCard
	if err := fx.svc.db.First(&card, *stay.KeyCardID).Error; err != nil {
		t.Fatalf("reload card: %v", err)
	}
	if card.Status != models.KeyCardStatusInactive {
		t.Errorf("card status = %s, want inactive", card.Status)
	}

	var booking models.Booking
	if err := fx.svc.db.First(&booking, fx.booking.ID).Error; err != nil {
		t.Fatalf("reload booking: %v", err)
	}
	if booking.Status != constants.BookingStatusCompleted {
		t.Errorf("booking status = %d, want completed", booking.Status)
	}

	// có task dọn phòng được tạo
	var tasks int64
	fx.svc.db.Model(&models.HousekeepingTask{}).Where("room_id = ?", fx.room.RoomId).Count(&tasks)
	if tasks != 1 {
		t.Errorf("cleaning tasks = %d, want 1", tasks)
	}
}

func TestCheckOutEarlyFreesRoomImmediately(t *testing.T) {
	fx, setNow := newStayFixture(t)
	stay := fx.checkIn(t, setNow)

	setNow(time.Date(2026, 1, 9, 9, 0, 0, 0, time.UTC))
	if _, err := fx.svc.CheckOut(stay.ID, "receptionist:1"); err != nil {
		t.Fatalf("CheckOut early: %v", err)
	}

	var room models.Room
	if err := fx.svc.db.First(&room, fx.room.RoomId).Error; err != nil {
		t.Fatalf("reload room: %v", err)
	}
	if room.Status != constants.RoomStatusAvailable {
		t.Errorf("room status = %d, want available after early checkout", room.Status)
	}

	// ngày trả thật được ghi lại lên booking
	var booking models.Booking
	if err := fx.svc.db.First(&booking, fx.booking.ID).Error; err != nil {
		t.Fatalf("reload booking: %v", err)
	}
	if !booking.CheckOutDate.Equal(time.Date(2026, 1, 9, 9, 0, 0, 0, time.UTC)) {
		t.Errorf("booking checkOutDate = %v, want actual checkout time", booking.CheckOutDate)
	}
}

func TestCheckOutLateMarksRoomCleaning(t *testing.T) {
	fx, setNow := newStayFixture(t)
	stay := fx.checkIn(t, setNow)

	// quá hạn 1 ngày, thanh toán card để mở cổng rồi trả phòng
	setNow(time.Date(2026, 1, 11, 10, 0, 0, 0, time.UTC))
	if _, err := fx.overstay.ProcessPayment(fx.user.ID, stay.ID, OverstayPaymentParams{
		Method:     constants.PaymentMethodCard,
		Amount:     7500,
		CardNumber: "4242424242424242",
		CardExpiry: "12/27",
		CardCVC:    "123",
	}); err != nil {
		t.Fatalf("pay overstay: %v", err)
	}

	if _, err := fx.svc.CheckOut(stay.ID, "receptionist:1"); err != nil {
		t.Fatalf("CheckOut: %v", err)
	}

	var room models.Room
	if err := fx.svc.db.First(&room, fx.room.RoomId).Error; err != nil {
		t.Fatalf("reload room: %v", err)
	}
	if room.Status != constants.RoomStatusCleaning {
		t.Errorf("room status = %d, want cleaning after late checkout", room.Status)
	}
}

func TestCheckOutBlockedByOverstay(t *testing.T) {
	fx, setNow := newStayFixture(t)
	stay := fx.checkIn(t, setNow)

	// quá hạn 2 ngày: lần trả phòng đầu tiên tạo hóa đơn và bị chặn
	setNow(time.Date(2026, 1, 12, 10, 0, 0, 0, time.UTC))
	_, err := fx.svc.CheckOut(stay.ID, "receptionist:1")
	payErr, ok := errors.AsPaymentRequired(err)
	if !ok {
		t.Fatalf("err = %v, want PaymentRequiredError", err)
	}
	if payErr.DaysOverstayed != 2 {
		t.Errorf("days = %d, want 2", payErr.DaysOverstayed)
	}
	if payErr.Amount != 15000 {
		t.Errorf("amount = %.2f, want 15000", payErr.Amount)
	}

	// chưa thanh toán, thử lại vẫn bị chặn
	if _, err := fx.svc.CheckOut(stay.ID, "receptionist:1"); err == nil {
		t.Fatal("second checkout must still be blocked")
	}

	// stay vẫn checked_in, thẻ vẫn active
	var reloaded models.CheckInOut
	if err := fx.svc.db.First(&reloaded, stay.ID).Error; err != nil {
		t.Fatalf("reload stay: %v", err)
	}
	if reloaded.Status != models.StayStatusCheckedIn {
		t.Errorf("stay status = %s, want checked_in while blocked", reloaded.Status)
	}

	// thanh toán card xong thì trả phòng được
	if _, err := fx.overstay.ProcessPayment(fx.user.ID, stay.ID, OverstayPaymentParams{
		Method:     constants.PaymentMethodCard,
		Amount:     15000,
		CardNumber: "4242424242424242",
		CardExpiry: "12/27",
		CardCVC:    "123",
	}); err != nil {
		t.Fatalf("pay overstay: %v", err)
	}
	out, err := fx.svc.CheckOut(stay.ID, "receptionist:1")
	if err != nil {
		t.Fatalf("CheckOut after payment: %v", err)
	}
	if out.Overstay.ActualCheckout == nil {
		t.Error("actual checkout not recorded on overstay sub-record")
	}
}

func TestCheckOutGrowsInvoiceWhileBlocked(t *testing.T) {
	fx, setNow := newStayFixture(t)
	stay := fx.checkIn(t, setNow)

	// ngày 11: phát hiện, 1 ngày 7500
	setNow(time.Date(2026, 1, 11, 10, 0, 0, 0, time.UTC))
	_, err := fx.svc.CheckOut(stay.ID, "receptionist:1")
	payErr, ok := errors.AsPaymentRequired(err)
	if !ok {
		t.Fatalf("err = %v, want PaymentRequiredError", err)
	}
	if payErr.DaysOverstayed != 1 || payErr.Amount != 7500 {
		t.Errorf("first block: days=%d amount=%.2f, want 1/7500", payErr.DaysOverstayed, payErr.Amount)
	}

	// ngày 12: khách vẫn chưa thanh toán, hóa đơn phải lớn lên
	setNow(time.Date(2026, 1, 12, 10, 0, 0, 0, time.UTC))
	_, err = fx.svc.CheckOut(stay.ID, "receptionist:1")
	payErr, ok = errors.AsPaymentRequired(err)
	if !ok {
		t.Fatalf("err = %v, want PaymentRequiredError", err)
	}
	if payErr.DaysOverstayed != 2 || payErr.Amount != 15000 {
		t.Errorf("second block: days=%d amount=%.2f, want 2/15000", payErr.DaysOverstayed, payErr.Amount)
	}
}

func TestCheckOutRequiresCheckedIn(t *testing.T) {
	fx, setNow := newStayFixture(t)
	stay := fx.checkIn(t, setNow)

	setNow(time.Date(2026, 1, 10, 11, 0, 0, 0, time.UTC))
	if _, err := fx.svc.CheckOut(stay.ID, "receptionist:1"); err != nil {
		t.Fatalf("CheckOut: %v", err)
	}

	// trả phòng lần hai trên stay đã checked_out
	if _, err := fx.svc.CheckOut(stay.ID, "receptionist:1"); err != errors.ErrStayNotCheckedIn {
		t.Fatalf("err = %v, want ErrStayNotCheckedIn", err)
	}
}

func TestMarkNoShow(t *testing.T) {
	fx, _ := newStayFixture(t)
	stay := models.CheckInOut{
		BookingID: fx.booking.ID,
		UserID:    fx.user.ID,
		RoomID:    fx.room.RoomId,
		Status:    models.StayStatusPreCheckIn,
	}
	if err := fx.svc.db.Create(&stay).Error; err != nil {
		t.Fatalf("seed stay: %v", err)
	}

	if err := fx.svc.MarkNoShow(stay.ID, "receptionist:1"); err != nil {
		t.Fatalf("MarkNoShow: %v", err)
	}
	// không idempotent: lần hai báo lỗi trạng thái
	if err := fx.svc.MarkNoShow(stay.ID, "receptionist:1"); err == nil {
		t.Fatal("expected error marking no-show twice")
	}
}

func TestAddNote(t *testing.T) {
	fx, setNow := newStayFixture(t)
	stay := fx.checkIn(t, setNow)

	note, err := fx.svc.AddNote(stay.ID, "receptionist:1", "Khách yêu cầu thêm gối")
	if err != nil {
		t.Fatalf("AddNote: %v", err)
	}
	if note.ID == 0 {
		t.Error("note not persisted")
	}

	if _, err := fx.svc.AddNote(stay.ID, "receptionist:1", ""); err == nil {
		t.Error("empty note must be rejected")
	}
	if _, err := fx.svc.AddNote(9999, "receptionist:1", "x"); err != errors.ErrStayNotFound {
		t.Errorf("err = %v, want ErrStayNotFound", err)
	}
}
