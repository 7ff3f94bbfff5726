package controllers

import (
	"hotel/config"
	"hotel/models"
	"hotel/response"

	"github.com/gin-gonic/gin"
)

// ListNotifications danh sách thông báo của user hiện tại
func ListNotifications(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		response.Unauthorized(c)
		return
	}

	page, limit := parsePagination(c)

	query := config.DB.Model(&models.Notification{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		response.ServerError(c)
		return
	}

	var notifications []models.Notification
	if err := query.Order("created_at DESC").Offset(page * limit).Limit(limit).Find(&notifications).Error; err != nil {
		response.ServerError(c)
		return
	}

	response.SuccessWithPagination(c, notifications, page, limit, int(total))
}
