package controllers

import (
	"encoding/json"
	"hotel/config"
	"hotel/constants"
	"hotel/dto"
	"hotel/response"
	"hotel/services"
	"hotel/validator"

	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/gin-gonic/gin"
)

// CheckInOutController xử lý các request nhận phòng và trả phòng
type CheckInOutController struct {
	service *services.CheckInOutService
}

func NewCheckInOutController(service *services.CheckInOutService) *CheckInOutController {
	return &CheckInOutController{service: service}
}

// CheckIn lễ tân nhận phòng cho khách (multipart, kèm ảnh giấy tờ)
func (ctrl *CheckInOutController) CheckIn(c *gin.Context) {
	ctrl.doCheckIn(c, false)
}

// SelfCheckIn khách tự nhận phòng tại kiosk, bắt buộc khai giấy tờ
func (ctrl *CheckInOutController) SelfCheckIn(c *gin.Context) {
	ctrl.doCheckIn(c, true)
}

func (ctrl *CheckInOutController) doCheckIn(c *gin.Context, selfService bool) {
	var req dto.CheckInRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, "Dữ liệu không hợp lệ")
		return
	}

	if err := validator.ValidateCheckIn(&req, selfService); err != nil {
		handleServiceError(c, err)
		return
	}

	userID, role, ok := currentUser(c)
	if !ok {
		response.Unauthorized(c)
		return
	}
	if selfService && role != constants.RoleGuest {
		response.Forbidden(c)
		return
	}

	// Upload ảnh giấy tờ lên Cloudinary nếu có
	var documentImages json.RawMessage
	if form, err := c.MultipartForm(); err == nil {
		files := form.File["documents"]
		urls := make([]string, 0, len(files))
		for _, file := range files {
			src, err := file.Open()
			if err != nil {
				response.BadRequest(c, "Không đọc được file")
				return
			}
			resp, err := config.Cloudinary.Upload.Upload(config.Ctx, src, uploader.UploadParams{Folder: "documents"})
			src.Close()
			if err != nil {
				response.ServerError(c)
				return
			}
			urls = append(urls, resp.SecureURL)
		}
		if len(urls) > 0 {
			documentImages, _ = json.Marshal(urls)
		}
	}

	params := services.CheckInParams{
		BookingID:      req.BookingID,
		GuestID:        userID,
		Actor:          actorName(userID, role),
		SelfService:    selfService,
		DocumentType:   req.DocumentType,
		DocumentNumber: req.DocumentNumber,
		DocumentImages: documentImages,
	}
	if req.Preferences != "" {
		params.Preferences = json.RawMessage(req.Preferences)
	}

	stay, err := ctrl.service.CheckIn(params)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, toStayResponse(stay))
}

// CheckOut trả phòng; nếu khách quá hạn còn phụ thu chưa thanh toán thì
// trả về 402 kèm thông tin hóa đơn
func (ctrl *CheckInOutController) CheckOut(c *gin.Context) {
	stayID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	userID, role, _ := currentUser(c)
	if role == constants.RoleGuest {
		stay, err := ctrl.service.GetStay(stayID)
		if err != nil {
			handleServiceError(c, err)
			return
		}
		if stay.UserID != userID {
			response.Forbidden(c)
			return
		}
	}

	stay, err := ctrl.service.CheckOut(stayID, actorName(userID, role))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, toStayResponse(stay))
}

// GetStay chi tiết lượt lưu trú
func (ctrl *CheckInOutController) GetStay(c *gin.Context) {
	stayID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	stay, err := ctrl.service.GetStay(stayID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	userID, role, _ := currentUser(c)
	if role == constants.RoleGuest && (stay.UserID != userID) {
		response.Forbidden(c)
		return
	}

	response.Success(c, toStayResponse(stay))
}

// AddNote thêm ghi chú vào lượt lưu trú
func (ctrl *CheckInOutController) AddNote(c *gin.Context) {
	stayID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.AddStayNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Nội dung ghi chú không được để trống")
		return
	}

	userID, role, _ := currentUser(c)
	note, err := ctrl.service.AddNote(stayID, actorName(userID, role), req.Content)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, note)
}

// MarkNoShow đánh dấu khách không đến
func (ctrl *CheckInOutController) MarkNoShow(c *gin.Context) {
	stayID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	userID, role, _ := currentUser(c)
	if err := ctrl.service.MarkNoShow(stayID, actorName(userID, role)); err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, gin.H{"id": stayID, "status": "no_show"})
}
