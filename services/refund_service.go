package services

import (
	"hotel/constants"
	"hotel/models"
	"hotel/services/logger"

	"gorm.io/gorm"
)

// RefundService tạo yêu cầu hoàn tiền, idempotent theo booking
type RefundService struct {
	db     *gorm.DB
	logger logger.Logger
}

func NewRefundService(db *gorm.DB, l logger.Logger) *RefundService {
	return &RefundService{db: db, logger: l}
}

// CreateRefundRequest tạo bản ghi hoàn tiền cho booking. Nếu đã tồn tại
// yêu cầu cho booking này thì bỏ qua và trả về nil. Chỉ tạo khi booking
// có hóa đơn đã thanh toán.
func (s *RefundService) CreateRefundRequest(booking *models.Booking, reason, actor string) (*models.Refund, error) {
	var existing models.Refund
	err := s.db.Where("booking_id = ?", booking.ID).First(&existing).Error
	if err == nil {
		s.logger.Info("Booking %d đã có yêu cầu hoàn tiền, bỏ qua", booking.ID)
		return nil, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	var paid int64
	if err := s.db.Model(&models.Invoice{}).
		Where("booking_id = ? AND status = ?", booking.ID, constants.InvoiceStatusPaid).
		Count(&paid).Error; err != nil {
		return nil, err
	}
	if paid == 0 {
		return nil, nil
	}

	refund := models.Refund{
		BookingID:   booking.ID,
		Amount:      booking.TotalPrice,
		Reason:      reason,
		RequestedBy: actor,
		Status:      models.RefundStatusRequested,
	}
	if err := s.db.Create(&refund).Error; err != nil {
		return nil, err
	}
	return &refund, nil
}
