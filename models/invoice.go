package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OverstayTracking khối theo dõi quá hạn nhúng trong hóa đơn overstay
type OverstayTracking struct {
	OriginalCheckout *time.Time `json:"originalCheckout,omitempty"`
	CurrentCheckout  *time.Time `json:"currentCheckout,omitempty"`
	AccumulatedDays  int        `json:"accumulatedDays"`
	DailyRate        float64    `json:"dailyRate"`
}

// PaymentApproval khối duyệt thanh toán nhúng trong hóa đơn
type PaymentApproval struct {
	ApprovedBy string     `json:"approvedBy,omitempty"`
	ApprovedAt *time.Time `json:"approvedAt,omitempty"`
	RejectedBy string     `json:"rejectedBy,omitempty"`
	RejectedAt *time.Time `json:"rejectedAt,omitempty"`
	Notes      string     `json:"notes,omitempty"`
}

type Invoice struct {
	ID           uint    `json:"id" gorm:"primaryKey"`              // Mã hóa đơn
	InvoiceCode  string  `json:"invoiceCode" gorm:"unique;size:20"` // Mã hóa đơn duy nhất
	BookingID    uint    `json:"bookingId" gorm:"index"`
	Booking      Booking `json:"booking" gorm:"foreignKey:BookingID"`
	CheckInOutID *uint   `json:"checkInOutId,omitempty" gorm:"index"` // chỉ có với hóa đơn overstay
	Kind         int     `json:"kind"`                                // 0: hóa đơn chính, 1: hóa đơn overstay

	TotalAmount     float64    `json:"totalAmount"`
	PaidAmount      float64    `json:"paidAmount"`
	RemainingAmount float64    `json:"remainingAmount"`
	Status          int        `json:"status"`
	PaymentDate     *time.Time `json:"paymentDate,omitempty"`
	PaymentMethod   string     `json:"paymentMethod,omitempty"`
	AdminAdjusted   bool       `json:"adminAdjusted"` // số tiền đã bị admin điều chỉnh tay

	OverstayTracking OverstayTracking `json:"overstayTracking" gorm:"embedded;embeddedPrefix:tracking_"`
	PaymentApproval  PaymentApproval  `json:"paymentApproval" gorm:"embedded;embeddedPrefix:approval_"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// InvoiceAudit ghi chú audit trên hóa đơn (tăng ngày quá hạn, điều chỉnh tay...)
type InvoiceAudit struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	InvoiceID uint      `json:"invoiceId" gorm:"index"`
	Actor     string    `json:"actor"`
	Note      string    `json:"note"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (invoice *Invoice) BeforeCreate(tx *gorm.DB) (err error) {
	if invoice.InvoiceCode == "" {
		invoice.InvoiceCode = fmt.Sprintf("HTL-%s", uuid.NewString()[:13])
	}

	var count int64
	if err := tx.Model(&Invoice{}).Where("invoice_code = ?", invoice.InvoiceCode).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("InvoiceCode đã tồn tại, hãy thử lại")
	}
	return nil
}
