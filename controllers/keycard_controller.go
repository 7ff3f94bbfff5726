package controllers

import (
	"hotel/config"
	"hotel/dto"
	"hotel/models"
	"hotel/response"
	"hotel/services"

	"github.com/gin-gonic/gin"
)

// KeyCardController quản trị pool thẻ từ
type KeyCardController struct {
	service *services.KeyCardService
}

func NewKeyCardController(service *services.KeyCardService) *KeyCardController {
	return &KeyCardController{service: service}
}

// ListCards danh sách thẻ trong pool, lọc theo trạng thái nếu có
func (ctrl *KeyCardController) ListCards(c *gin.Context) {
	page, limit := parsePagination(c)
	statusFilter := c.Query("status")

	query := config.DB.Model(&models.KeyCard{})
	if statusFilter != "" {
		if !models.ValidKeyCardStatus(models.KeyCardStatus(statusFilter)) {
			response.BadRequest(c, "Trạng thái thẻ không hợp lệ")
			return
		}
		query = query.Where("status = ?", statusFilter)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		response.ServerError(c)
		return
	}

	var cards []models.KeyCard
	if err := query.Order("id").Offset(page * limit).Limit(limit).Find(&cards).Error; err != nil {
		response.ServerError(c)
		return
	}

	results := make([]dto.KeyCardResponse, 0, len(cards))
	for _, card := range cards {
		results = append(results, dto.KeyCardResponse{
			ID:           card.ID,
			CardNumber:   card.CardNumber,
			Status:       string(card.Status),
			AssignedTo:   card.AssignedTo,
			AssignedRoom: card.AssignedRoom,
			ActivatedAt:  card.ActivatedAt,
			ExpiresAt:    card.ExpiresAt,
			CreatedAt:    card.CreatedAt,
		})
	}

	response.SuccessWithPagination(c, results, page, limit, int(total))
}

// CreateCard thêm thẻ mới vào pool
func (ctrl *KeyCardController) CreateCard(c *gin.Context) {
	card, err := ctrl.service.CreatePoolCard()
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, card)
}

// SetCardStatus đổi trạng thái thẻ (báo mất, báo hỏng, đưa thẻ về pool)
func (ctrl *KeyCardController) SetCardStatus(c *gin.Context) {
	cardID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.SetKeyCardStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Trạng thái thẻ không được để trống")
		return
	}

	if !models.ValidKeyCardStatus(models.KeyCardStatus(req.Status)) {
		response.BadRequest(c, "Trạng thái thẻ không hợp lệ")
		return
	}

	userID, role, _ := currentUser(c)
	card, err := ctrl.service.SetStatus(cardID, models.KeyCardStatus(req.Status), actorName(userID, role), req.Reason)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, card)
}
