package models

import (
	"time"

	"hotel/constants"
)

// HousekeepingTask công việc dọn phòng tạo ra khi khách trả phòng.
// NextEscalationAt được worker quét định kỳ để nâng mức ưu tiên,
// thay cho chuỗi timer trong tiến trình (không sống sót qua restart).
type HousekeepingTask struct {
	ID               uint       `json:"id" gorm:"primaryKey"`
	RoomID           uint       `json:"roomId" gorm:"index"`
	CheckInOutID     *uint      `json:"checkInOutId,omitempty"`
	Description      string     `json:"description"`
	Priority         string     `json:"priority" gorm:"size:10;default:'low'"`
	Status           int        `json:"status"`
	NextEscalationAt *time.Time `json:"nextEscalationAt,omitempty" gorm:"index"`
	CompletedAt      *time.Time `json:"completedAt,omitempty"`
	CreatedAt        time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt        time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
}

// NextTaskPriority trả về mức ưu tiên kế tiếp trên thang
// low -> medium -> high -> urgent. ok = false khi đã ở mức cao nhất.
func NextTaskPriority(p string) (string, bool) {
	switch p {
	case constants.TaskPriorityLow:
		return constants.TaskPriorityMedium, true
	case constants.TaskPriorityMedium:
		return constants.TaskPriorityHigh, true
	case constants.TaskPriorityHigh:
		return constants.TaskPriorityUrgent, true
	}
	return constants.TaskPriorityUrgent, false
}
