package controllers

import (
	"hotel/dto"
	"hotel/response"
	"hotel/services"
	"hotel/validator"

	"github.com/gin-gonic/gin"
)

// OverstayController xử lý thanh toán và phê duyệt phụ thu quá hạn
type OverstayController struct {
	service *services.OverstayService
}

func NewOverstayController(service *services.OverstayService) *OverstayController {
	return &OverstayController{service: service}
}

// PayOverstay khách thanh toán phụ thu quá hạn cho lượt lưu trú của mình
func (ctrl *OverstayController) PayOverstay(c *gin.Context) {
	var req dto.OverstayPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Dữ liệu không hợp lệ")
		return
	}

	if err := validator.ValidateOverstayPayment(&req); err != nil {
		handleServiceError(c, err)
		return
	}

	userID, _, ok := currentUser(c)
	if !ok {
		response.Unauthorized(c)
		return
	}

	invoice, err := ctrl.service.ProcessPayment(userID, req.StayID, services.OverstayPaymentParams{
		Method:     req.PaymentMethod,
		Amount:     req.Amount,
		CardNumber: req.CardNumber,
		CardExpiry: req.CardExpiry,
		CardCVC:    req.CardCVC,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, invoice)
}

// ApprovePayment lễ tân/admin duyệt thanh toán tiền mặt hoặc chuyển khoản
func (ctrl *OverstayController) ApprovePayment(c *gin.Context) {
	invoiceID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.ApproveOverstayPaymentRequest
	_ = c.ShouldBindJSON(&req)

	userID, role, _ := currentUser(c)
	invoice, err := ctrl.service.ApprovePayment(invoiceID, actorName(userID, role), req.Notes)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, invoice)
}

// RejectPayment lễ tân/admin từ chối thanh toán, khách phải thanh toán lại
func (ctrl *OverstayController) RejectPayment(c *gin.Context) {
	invoiceID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.RejectOverstayPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Lý do từ chối không được để trống")
		return
	}

	userID, role, _ := currentUser(c)
	invoice, err := ctrl.service.RejectPayment(invoiceID, actorName(userID, role), req.Reason)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, invoice)
}

// AdjustCharges admin điều chỉnh số tiền phụ thu (miễn giảm, sửa sai)
func (ctrl *OverstayController) AdjustCharges(c *gin.Context) {
	invoiceID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.AdjustOverstayChargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Số tiền điều chỉnh không hợp lệ")
		return
	}

	userID, role, _ := currentUser(c)
	invoice, err := ctrl.service.AdjustCharges(invoiceID, actorName(userID, role), req.NewAmount, req.Notes)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, invoice)
}
