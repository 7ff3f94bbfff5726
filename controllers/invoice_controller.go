package controllers

import (
	"fmt"
	"hotel/config"
	"hotel/constants"
	"hotel/dto"
	"hotel/models"
	"hotel/response"
	"hotel/services"
	"time"

	"github.com/gin-gonic/gin"
)

// InvoiceController xử lý các request về hóa đơn
type InvoiceController struct {
	sync *services.InvoiceSyncService
}

func NewInvoiceController(sync *services.InvoiceSyncService) *InvoiceController {
	return &InvoiceController{sync: sync}
}

func toInvoiceResponse(inv *models.Invoice) dto.InvoiceResponse {
	return dto.InvoiceResponse{
		ID:              inv.ID,
		InvoiceCode:     inv.InvoiceCode,
		BookingID:       inv.BookingID,
		CheckInOutID:    inv.CheckInOutID,
		Kind:            inv.Kind,
		TotalAmount:     inv.TotalAmount,
		PaidAmount:      inv.PaidAmount,
		RemainingAmount: inv.RemainingAmount,
		Status:          inv.Status,
		PaymentDate:     inv.PaymentDate,
		PaymentMethod:   inv.PaymentMethod,
		AdminAdjusted:   inv.AdminAdjusted,
		CreatedAt:       inv.CreatedAt,
		UpdatedAt:       inv.UpdatedAt,
	}
}

// ListInvoices danh sách hóa đơn, cache Redis theo trang; khách chỉ thấy
// hóa đơn của mình
func (ctrl *InvoiceController) ListInvoices(c *gin.Context) {
	userID, role, ok := currentUser(c)
	if !ok {
		response.Unauthorized(c)
		return
	}

	page, limit := parsePagination(c)
	statusFilter := c.Query("status")
	kindFilter := c.Query("kind")

	cacheKey := fmt.Sprintf("invoices:user:%d:%s:%s:%d:%d", userID, statusFilter, kindFilter, page, limit)
	rdb := config.RedisClient
	if rdb != nil {
		var cached []dto.InvoiceResponse
		if err := services.GetFromRedis(config.Ctx, rdb, cacheKey, &cached); err == nil && len(cached) > 0 {
			response.SuccessWithPagination(c, cached, page, limit, len(cached))
			return
		}
	}

	query := config.DB.Model(&models.Invoice{})
	if role == constants.RoleGuest {
		query = query.Joins("JOIN bookings ON bookings.id = invoices.booking_id").
			Where("bookings.user_id = ?", userID)
	}
	if statusFilter != "" {
		query = query.Where("invoices.status = ?", statusFilter)
	}
	if kindFilter != "" {
		query = query.Where("invoices.kind = ?", kindFilter)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		response.ServerError(c)
		return
	}

	var invoices []models.Invoice
	if err := query.Order("invoices.created_at DESC").Offset(page * limit).Limit(limit).Find(&invoices).Error; err != nil {
		response.ServerError(c)
		return
	}

	results := make([]dto.InvoiceResponse, 0, len(invoices))
	for i := range invoices {
		results = append(results, toInvoiceResponse(&invoices[i]))
	}

	if rdb != nil {
		_ = services.SetToRedis(config.Ctx, rdb, cacheKey, results, 5*time.Minute)
	}

	response.SuccessWithPagination(c, results, page, limit, int(total))
}

// GetInvoice chi tiết hóa đơn
func (ctrl *InvoiceController) GetInvoice(c *gin.Context) {
	invoiceID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var invoice models.Invoice
	if err := config.DB.First(&invoice, invoiceID).Error; err != nil {
		response.NotFound(c)
		return
	}

	userID, role, _ := currentUser(c)
	if role == constants.RoleGuest {
		var booking models.Booking
		if err := config.DB.First(&booking, invoice.BookingID).Error; err != nil ||
			booking.UserID == nil || *booking.UserID != userID {
			response.Forbidden(c)
			return
		}
	}

	response.Success(c, toInvoiceResponse(&invoice))
}

// UpdateInvoiceStatus đổi trạng thái hóa đơn; synchronizer sẽ lan truyền
// sang booking và bản ghi lưu trú tương ứng
func (ctrl *InvoiceController) UpdateInvoiceStatus(c *gin.Context) {
	invoiceID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateInvoiceStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Trạng thái không hợp lệ")
		return
	}

	userID, role, _ := currentUser(c)
	invoice, err := ctrl.sync.ApplyStatusChange(invoiceID, req.Status, actorName(userID, role))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	invalidateInvoiceCache()
	response.Success(c, toInvoiceResponse(invoice))
}

func invalidateInvoiceCache() {
	rdb := config.RedisClient
	if rdb == nil {
		return
	}
	keys, err := rdb.Keys(config.Ctx, "invoices:*").Result()
	if err != nil || len(keys) == 0 {
		return
	}
	_ = rdb.Del(config.Ctx, keys...).Err()
}
