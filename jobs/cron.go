package jobs

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// HoldScheduler định nghĩa interface cho các lượt chạy nền trên booking
type HoldScheduler interface {
	ExpireHolds() (processed int, failed int)
	SendHoldReminders() (sent int, failed int)
	CleanupTerminal() (deleted int)
}

// TaskEscalator định nghĩa interface cho worker leo thang task dọn phòng
type TaskEscalator interface {
	EscalateDueTasks() (escalated int, failed int)
}

// CardSweeper định nghĩa interface cho lượt quét nhất quán thẻ phòng
type CardSweeper interface {
	SweepOrphanCards() (int, error)
}

var holdScheduler HoldScheduler
var taskEscalator TaskEscalator
var cardSweeper CardSweeper

// SetHoldScheduler thiết lập implementation cho HoldScheduler
func SetHoldScheduler(s HoldScheduler) {
	holdScheduler = s
}

// SetTaskEscalator thiết lập implementation cho TaskEscalator
func SetTaskEscalator(e TaskEscalator) {
	taskEscalator = e
}

// SetCardSweeper thiết lập implementation cho CardSweeper
func SetCardSweeper(s CardSweeper) {
	cardSweeper = s
}

// InitCronJobs khởi tạo các cron jobs. Các lượt chạy độc lập với nhau,
// lỗi của một booking/task không làm dừng batch.
func InitCronJobs(c *cron.Cron) error {
	// Mỗi giờ: hủy các booking On Hold quá deadline giữ chỗ
	if _, err := c.AddFunc("0 * * * *", func() {
		if holdScheduler == nil {
			log.Printf("Lỗi: HoldScheduler chưa được thiết lập")
			return
		}
		processed, failed := holdScheduler.ExpireHolds()
		log.Printf("Cron expire holds lúc %v: hủy %d, lỗi %d", time.Now(), processed, failed)
	}); err != nil {
		return err
	}

	// Mỗi 6 tiếng: nhắc khách có giữ chỗ sắp hết hạn
	if _, err := c.AddFunc("0 */6 * * *", func() {
		if holdScheduler == nil {
			return
		}
		sent, failed := holdScheduler.SendHoldReminders()
		log.Printf("Cron hold reminders: gửi %d, lỗi %d", sent, failed)
	}); err != nil {
		return err
	}

	// 2h sáng mỗi ngày: xóa booking kết thúc quá cửa sổ lưu trữ
	if _, err := c.AddFunc("0 2 * * *", func() {
		if holdScheduler == nil {
			return
		}
		deleted := holdScheduler.CleanupTerminal()
		log.Printf("Cron retention cleanup: xóa %d booking", deleted)
	}); err != nil {
		return err
	}

	// Mỗi 10 phút: nâng ưu tiên task dọn phòng đến hạn. Quét bảng thay vì
	// timer trong RAM để escalation sống sót qua restart.
	if _, err := c.AddFunc("*/10 * * * *", func() {
		if taskEscalator == nil {
			return
		}
		escalated, failed := taskEscalator.EscalateDueTasks()
		if escalated > 0 || failed > 0 {
			log.Printf("Cron escalate tasks: nâng %d, lỗi %d", escalated, failed)
		}
	}); err != nil {
		return err
	}

	// Mỗi giờ, lệch 30 phút: quét thẻ active mồ côi sau các lần check-in gãy
	if _, err := c.AddFunc("30 * * * *", func() {
		if cardSweeper == nil {
			return
		}
		released, err := cardSweeper.SweepOrphanCards()
		if err != nil {
			log.Printf("Cron sweep cards lỗi: %v", err)
			return
		}
		if released > 0 {
			log.Printf("Cron sweep cards: thu hồi %d thẻ mồ côi", released)
		}
	}); err != nil {
		return err
	}

	c.Start()
	log.Println("Cron jobs initialized successfully")
	return nil
}
