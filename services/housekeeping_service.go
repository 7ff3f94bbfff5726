package services

import (
	"fmt"
	"time"

	"hotel/constants"
	"hotel/models"
	"hotel/services/logger"

	"gorm.io/gorm"
)

// HousekeepingService quản lý công việc dọn phòng và nâng mức ưu tiên.
// Thang ưu tiên được nâng mỗi giờ bởi worker quét cột next_escalation_at,
// nhờ đó escalation sống sót qua restart thay vì chuỗi timer trong RAM.
type HousekeepingService struct {
	db     *gorm.DB
	logger logger.Logger
	nowFn  func() time.Time
}

func NewHousekeepingService(db *gorm.DB, l logger.Logger) *HousekeepingService {
	return &HousekeepingService{db: db, logger: l, nowFn: time.Now}
}

// CreateCleaningTask tạo công việc dọn phòng sau khi khách trả phòng.
// Luôn được tạo, kể cả khi khách trả phòng sớm.
func (s *HousekeepingService) CreateCleaningTask(roomID uint, stayID *uint) (*models.HousekeepingTask, error) {
	next := s.nowFn().Add(time.Hour)
	task := models.HousekeepingTask{
		RoomID:           roomID,
		CheckInOutID:     stayID,
		Description:      fmt.Sprintf("Dọn phòng %d sau khi khách trả phòng", roomID),
		Priority:         constants.TaskPriorityLow,
		Status:           constants.TaskStatusPending,
		NextEscalationAt: &next,
	}
	if err := s.db.Create(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// EscalateDueTasks nâng mức ưu tiên các task đến hạn. Task lỗi được dời
// sang giờ sau thay vì bỏ; task chạm urgent thì dừng leo thang.
func (s *HousekeepingService) EscalateDueTasks() (escalated int, failed int) {
	now := s.nowFn()
	var tasks []models.HousekeepingTask
	err := s.db.Where("status = ? AND next_escalation_at IS NOT NULL AND next_escalation_at <= ?",
		constants.TaskStatusPending, now).Find(&tasks).Error
	if err != nil {
		s.logger.Error("Không đọc được danh sách task đến hạn: %v", err)
		return 0, 0
	}

	for i := range tasks {
		task := &tasks[i]
		next, ok := models.NextTaskPriority(task.Priority)
		var updates map[string]interface{}
		switch {
		case !ok:
			// đã urgent từ trước, chỉ tắt lịch leo thang
			updates = map[string]interface{}{"next_escalation_at": nil}
		case next == constants.TaskPriorityUrgent:
			updates = map[string]interface{}{"priority": next, "next_escalation_at": nil}
		default:
			updates = map[string]interface{}{"priority": next, "next_escalation_at": now.Add(time.Hour)}
		}

		result := s.db.Model(&models.HousekeepingTask{}).
			Where("id = ? AND status = ?", task.ID, constants.TaskStatusPending).
			Updates(updates)
		if result.Error != nil {
			failed++
			retry := now.Add(time.Hour)
			if err := s.db.Model(&models.HousekeepingTask{}).Where("id = ?", task.ID).
				Update("next_escalation_at", retry).Error; err != nil {
				s.logger.Error("Không dời được lịch leo thang task %d: %v", task.ID, err)
			}
			continue
		}
		if result.RowsAffected == 0 {
			// task vừa được hoàn thành/hủy, coi như đã xử lý
			continue
		}
		escalated++
	}
	return escalated, failed
}

// CompleteTask đánh dấu task hoàn thành, dừng leo thang
func (s *HousekeepingService) CompleteTask(taskID uint) error {
	now := s.nowFn()
	result := s.db.Model(&models.HousekeepingTask{}).
		Where("id = ? AND status = ?", taskID, constants.TaskStatusPending).
		Updates(map[string]interface{}{
			"status":             constants.TaskStatusCompleted,
			"completed_at":       now,
			"next_escalation_at": nil,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("task %d không còn ở trạng thái pending", taskID)
	}
	return nil
}

// CancelTask hủy task, dừng leo thang
func (s *HousekeepingService) CancelTask(taskID uint) error {
	return s.db.Model(&models.HousekeepingTask{}).
		Where("id = ?", taskID).
		Updates(map[string]interface{}{
			"status":             constants.TaskStatusCancelled,
			"next_escalation_at": nil,
		}).Error
}
