package controllers

import (
	"hotel/config"
	"hotel/dto"
	"hotel/models"
	"hotel/response"
	"hotel/services"
	"hotel/validator"

	"github.com/gin-gonic/gin"
)

// SettingsController quản trị cấu hình vận hành
type SettingsController struct {
	cache *services.SettingsCache
}

func NewSettingsController(cache *services.SettingsCache) *SettingsController {
	return &SettingsController{cache: cache}
}

// GetSettings đọc cấu hình hiện hành (không trả secret)
func (ctrl *SettingsController) GetSettings(c *gin.Context) {
	settings, err := ctrl.cache.Get(c.Request.Context())
	if err != nil {
		response.ServerError(c)
		return
	}

	response.Success(c, dto.SettingsResponse{
		HoldHours:              settings.HoldHours,
		ReminderLookaheadHours: settings.ReminderLookaheadHours,
		RetentionDays:          settings.RetentionDays,
		OverstayMultiplier:     settings.OverstayMultiplier,
		SkipDateValidation:     settings.SkipDateValidation,
		HasGatewaySecret:       settings.GatewaySecretEnc != "",
	})
}

// UpdateSettings admin cập nhật cấu hình, secret được mã hóa trước khi lưu
func (ctrl *SettingsController) UpdateSettings(c *gin.Context) {
	var req dto.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Dữ liệu không hợp lệ")
		return
	}

	if err := validator.ValidateSettings(&req); err != nil {
		handleServiceError(c, err)
		return
	}

	current, err := ctrl.cache.Get(c.Request.Context())
	if err != nil {
		response.ServerError(c)
		return
	}

	settings := models.Settings{
		ID:                     current.ID,
		HoldHours:              req.HoldHours,
		ReminderLookaheadHours: req.ReminderLookaheadHours,
		RetentionDays:          req.RetentionDays,
		OverstayMultiplier:     req.OverstayMultiplier,
		SkipDateValidation:     req.SkipDateValidation,
		GatewaySecretEnc:       current.GatewaySecretEnc,
	}

	if err := ctrl.cache.Update(c.Request.Context(), &settings, config.SettingsEncKey(), req.GatewaySecret); err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, dto.SettingsResponse{
		HoldHours:              settings.HoldHours,
		ReminderLookaheadHours: settings.ReminderLookaheadHours,
		RetentionDays:          settings.RetentionDays,
		OverstayMultiplier:     settings.OverstayMultiplier,
		SkipDateValidation:     settings.SkipDateValidation,
		HasGatewaySecret:       settings.GatewaySecretEnc != "",
	})
}
