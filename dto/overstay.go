package dto

// OverstayPaymentRequest là DTO cho request thanh toán phụ thu quá hạn
type OverstayPaymentRequest struct {
	StayID        uint    `json:"stayId" binding:"required"`
	PaymentMethod string  `json:"paymentMethod" binding:"required"`
	Amount        float64 `json:"amount" binding:"required"`
	CardNumber    string  `json:"cardNumber"`
	CardExpiry    string  `json:"cardExpiry"`
	CardCVC       string  `json:"cardCvc"`
}

// ApproveOverstayPaymentRequest là DTO cho request duyệt thanh toán phụ thu
type ApproveOverstayPaymentRequest struct {
	Notes string `json:"notes"`
}

// RejectOverstayPaymentRequest là DTO cho request từ chối thanh toán phụ thu
type RejectOverstayPaymentRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// AdjustOverstayChargeRequest là DTO cho request admin điều chỉnh phụ thu
type AdjustOverstayChargeRequest struct {
	NewAmount float64 `json:"newAmount" binding:"required"`
	Notes     string  `json:"notes"`
}
