package controllers

import (
	"hotel/config"
	"hotel/models"
	"hotel/response"
	"hotel/services"

	"github.com/gin-gonic/gin"
)

// HousekeepingController xử lý các request về công việc dọn phòng
type HousekeepingController struct {
	service *services.HousekeepingService
}

func NewHousekeepingController(service *services.HousekeepingService) *HousekeepingController {
	return &HousekeepingController{service: service}
}

// ListTasks danh sách công việc dọn phòng đang chờ
func (ctrl *HousekeepingController) ListTasks(c *gin.Context) {
	page, limit := parsePagination(c)

	query := config.DB.Model(&models.HousekeepingTask{})
	if statusFilter := c.Query("status"); statusFilter != "" {
		query = query.Where("status = ?", statusFilter)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		response.ServerError(c)
		return
	}

	var tasks []models.HousekeepingTask
	if err := query.Order("created_at DESC").Offset(page * limit).Limit(limit).Find(&tasks).Error; err != nil {
		response.ServerError(c)
		return
	}

	response.SuccessWithPagination(c, tasks, page, limit, int(total))
}

// CompleteTask nhân viên dọn phòng báo hoàn thành, phòng trở lại Available
func (ctrl *HousekeepingController) CompleteTask(c *gin.Context) {
	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.service.CompleteTask(taskID); err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, gin.H{"id": taskID, "status": "completed"})
}

// CancelTask hủy công việc dọn phòng
func (ctrl *HousekeepingController) CancelTask(c *gin.Context) {
	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.service.CancelTask(taskID); err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, gin.H{"id": taskID, "status": "cancelled"})
}
