package dto

// UpdateSettingsRequest là DTO cho request cập nhật cấu hình vận hành
type UpdateSettingsRequest struct {
	HoldHours              int     `json:"holdHours" binding:"required,min=1"`
	ReminderLookaheadHours int     `json:"reminderLookaheadHours" binding:"required,min=1"`
	RetentionDays          int     `json:"retentionDays" binding:"required,min=1"`
	OverstayMultiplier     float64 `json:"overstayMultiplier" binding:"required"`
	SkipDateValidation     bool    `json:"skipDateValidation"`
	GatewaySecret          string  `json:"gatewaySecret"`
}

// SettingsResponse là DTO cho response cấu hình (không trả secret)
type SettingsResponse struct {
	HoldHours              int     `json:"holdHours"`
	ReminderLookaheadHours int     `json:"reminderLookaheadHours"`
	RetentionDays          int     `json:"retentionDays"`
	OverstayMultiplier     float64 `json:"overstayMultiplier"`
	SkipDateValidation     bool    `json:"skipDateValidation"`
	HasGatewaySecret       bool    `json:"hasGatewaySecret"`
}
