package services

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"hotel/constants"
	"hotel/models"
	"hotel/services/logger"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var testDBSeq uint64

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// mỗi test một database in-memory riêng, cache=shared để pool
	// connection của gorm nhìn thấy cùng một database
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", atomic.AddUint64(&testDBSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Room{},
		&models.Booking{},
		&models.CheckInOut{},
		&models.StayNote{},
		&models.KeyCard{},
		&models.KeyCardAudit{},
		&models.Invoice{},
		&models.InvoiceAudit{},
		&models.HousekeepingTask{},
		&models.Refund{},
		&models.Notification{},
		&models.Settings{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func testLogger() logger.Logger {
	return logger.NewDefaultLogger(logger.ErrorLevel)
}

// recordingNotifier ghi lại các thông báo đã gửi thay vì broadcast
type recordingNotifier struct {
	mu    sync.Mutex
	sent  []string
	users []uint
}

func (n *recordingNotifier) Notify(userID uint, notifType, channel, message string, metadata interface{}) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, notifType)
	n.users = append(n.users, userID)
	return nil
}

func (n *recordingNotifier) types() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.sent))
	copy(out, n.sent)
	return out
}

func (n *recordingNotifier) has(notifType string) bool {
	for _, tp := range n.types() {
		if tp == notifType {
			return true
		}
	}
	return false
}

func seedRoom(t *testing.T, db *gorm.DB, price int) *models.Room {
	t.Helper()
	room := models.Room{Price: price, Status: constants.RoomStatusAvailable}
	if err := db.Create(&room).Error; err != nil {
		t.Fatalf("seed room: %v", err)
	}
	return &room
}

var testUserSeq uint64

func seedUser(t *testing.T, db *gorm.DB, role int) *models.User {
	t.Helper()
	// email và phone_number có unique constraint nên phải khác nhau giữa các user
	seq := atomic.AddUint64(&testUserSeq, 1)
	user := models.User{
		Name:        "Nguyen Van A",
		Email:       fmt.Sprintf("guest%d@example.com", seq),
		PhoneNumber: fmt.Sprintf("09%08d", seq),
		Role:        role,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return &user
}

func seedCards(t *testing.T, db *gorm.DB, svc *KeyCardService, n int) []models.KeyCard {
	t.Helper()
	cards := make([]models.KeyCard, 0, n)
	for i := 0; i < n; i++ {
		card, err := svc.CreatePoolCard()
		if err != nil {
			t.Fatalf("seed card: %v", err)
		}
		cards = append(cards, *card)
	}
	return cards
}

func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
