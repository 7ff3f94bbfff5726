package models

import (
	"fmt"
	"time"
)

// KeyCardStatus trạng thái của thẻ phòng
type KeyCardStatus string

const (
	KeyCardStatusActive   KeyCardStatus = "active"
	KeyCardStatusInactive KeyCardStatus = "inactive"
	KeyCardStatusLost     KeyCardStatus = "lost"
	KeyCardStatusDamaged  KeyCardStatus = "damaged"
	KeyCardStatusExpired  KeyCardStatus = "expired"
)

// KeyCard thẻ phòng vật lý, số lượng có hạn.
// Thẻ active luôn có AssignedTo và AssignedRoom; thẻ inactive thì không.
type KeyCard struct {
	ID           uint          `json:"id" gorm:"primaryKey"`
	CardNumber   string        `json:"cardNumber" gorm:"unique;size:36"`
	Status       KeyCardStatus `json:"status" gorm:"size:20;default:'inactive'"`
	AssignedTo   *uint         `json:"assignedTo,omitempty"`
	AssignedRoom *uint         `json:"assignedRoom,omitempty"`
	ActivatedAt  *time.Time    `json:"activatedAt,omitempty"`
	ExpiresAt    *time.Time    `json:"expiresAt,omitempty"`
	CreatedAt    time.Time     `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time     `gorm:"autoUpdateTime" json:"updatedAt"`

	Audits []KeyCardAudit `json:"audits,omitempty" gorm:"foreignKey:KeyCardID"`
}

// KeyCardAudit lịch sử thay đổi trạng thái thẻ
type KeyCardAudit struct {
	ID         uint          `json:"id" gorm:"primaryKey"`
	KeyCardID  uint          `json:"keyCardId" gorm:"index"`
	Actor      string        `json:"actor"`
	Reason     string        `json:"reason"`
	FromStatus KeyCardStatus `json:"fromStatus" gorm:"size:20"`
	ToStatus   KeyCardStatus `json:"toStatus" gorm:"size:20"`
	CreatedAt  time.Time     `gorm:"autoCreateTime" json:"createdAt"`
}

// ValidKeyCardStatus kiểm tra giá trị trạng thái hợp lệ
func ValidKeyCardStatus(s KeyCardStatus) bool {
	switch s {
	case KeyCardStatusActive, KeyCardStatusInactive, KeyCardStatusLost,
		KeyCardStatusDamaged, KeyCardStatusExpired:
		return true
	}
	return false
}

// ValidateTransition kiểm tra chuyển trạng thái thẻ.
// Chuyển sang lost/damaged được phép từ mọi trạng thái.
func (k *KeyCard) ValidateTransition(to KeyCardStatus) error {
	if !ValidKeyCardStatus(to) {
		return fmt.Errorf("invalid key card status: %s", to)
	}
	if to == KeyCardStatusLost || to == KeyCardStatusDamaged {
		return nil
	}
	switch k.Status {
	case KeyCardStatusInactive:
		if to == KeyCardStatusActive {
			return nil
		}
	case KeyCardStatusActive:
		if to == KeyCardStatusInactive || to == KeyCardStatusExpired {
			return nil
		}
	case KeyCardStatusLost, KeyCardStatusDamaged, KeyCardStatusExpired:
		// thẻ thu hồi/thay thế quay về pool
		if to == KeyCardStatusInactive {
			return nil
		}
	}
	return fmt.Errorf("cannot change key card status from %s to %s", k.Status, to)
}
