package controllers

import (
	"fmt"
	"hotel/config"
	"hotel/constants"
	"hotel/dto"
	"hotel/response"
	"hotel/services"
	"hotel/validator"
	"time"

	"github.com/gin-gonic/gin"
)

// BookingController xử lý các request về booking
type BookingController struct {
	service *services.BookingService
}

func NewBookingController(service *services.BookingService) *BookingController {
	return &BookingController{service: service}
}

// CreateBooking tạo booking mới, booking bắt đầu ở trạng thái giữ chỗ
func (ctrl *BookingController) CreateBooking(c *gin.Context) {
	var req dto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Dữ liệu không hợp lệ")
		return
	}

	if err := validator.ValidateCreateBooking(&req); err != nil {
		handleServiceError(c, err)
		return
	}

	checkIn, _ := time.Parse("02/01/2006", req.CheckInDate)
	checkOut, _ := time.Parse("02/01/2006", req.CheckOutDate)

	params := services.CreateBookingParams{
		RoomID:        req.RoomID,
		CheckInDate:   checkIn,
		CheckOutDate:  checkOut,
		GuestName:     req.GuestName,
		GuestEmail:    req.GuestEmail,
		GuestPhone:    req.GuestPhone,
		PaymentMethod: req.PaymentMethod,
	}

	// Khách đã đăng nhập thì gắn booking với tài khoản
	if userID, _, ok := currentUser(c); ok {
		params.UserID = &userID
	}

	booking, err := ctrl.service.CreateBooking(params)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	invalidateBookingCache(c)
	response.Success(c, toBookingResponse(booking))
}

// ApproveBooking lễ tân/admin duyệt booking đang chờ
func (ctrl *BookingController) ApproveBooking(c *gin.Context) {
	bookingID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	userID, role, _ := currentUser(c)
	booking, err := ctrl.service.Approve(bookingID, actorName(userID, role))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	invalidateBookingCache(c)
	response.Success(c, toBookingResponse(booking))
}

// CancelBooking hủy booking; khách chỉ được hủy booking của chính mình
func (ctrl *BookingController) CancelBooking(c *gin.Context) {
	bookingID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.CancelBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Dữ liệu không hợp lệ")
		return
	}

	userID, role, _ := currentUser(c)
	if role == constants.RoleGuest {
		booking, err := ctrl.service.GetByID(bookingID)
		if err != nil {
			handleServiceError(c, err)
			return
		}
		if booking.UserID == nil || *booking.UserID != userID {
			response.Forbidden(c)
			return
		}
	}

	booking, err := ctrl.service.Cancel(bookingID, actorName(userID, role), req.Reason)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	invalidateBookingCache(c)
	response.Success(c, toBookingResponse(booking))
}

// GetBooking lấy chi tiết booking
func (ctrl *BookingController) GetBooking(c *gin.Context) {
	bookingID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	booking, err := ctrl.service.GetByID(bookingID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	userID, role, _ := currentUser(c)
	if role == constants.RoleGuest && (booking.UserID == nil || *booking.UserID != userID) {
		response.Forbidden(c)
		return
	}

	response.Success(c, toBookingResponse(booking))
}

// SearchBookings tìm booking theo tên khách, chịu được gõ thiếu dấu và sai chính tả
func (ctrl *BookingController) SearchBookings(c *gin.Context) {
	query := c.Query("name")
	if query == "" {
		response.BadRequest(c, "Thiếu tên khách cần tìm")
		return
	}

	_, limit := parsePagination(c)
	bookings, err := ctrl.service.SearchByGuestName(query, limit)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	results := make([]dto.BookingSearchResponse, 0, len(bookings))
	for _, b := range bookings {
		results = append(results, dto.BookingSearchResponse{
			ID:           b.ID,
			GuestName:    b.GuestName,
			RoomID:       b.RoomID,
			CheckInDate:  formatBookingDate(b.CheckInDate),
			CheckOutDate: formatBookingDate(b.CheckOutDate),
			Status:       b.Status,
		})
	}
	response.Success(c, results)
}

// invalidateBookingCache xóa cache danh sách booking trên Redis
func invalidateBookingCache(c *gin.Context) {
	rdb := config.RedisClient
	if rdb == nil {
		return
	}
	keys, err := rdb.Keys(config.Ctx, "bookings:*").Result()
	if err != nil || len(keys) == 0 {
		return
	}
	_ = rdb.Del(config.Ctx, keys...).Err()
}

// ListBookings danh sách booking có phân trang, cache Redis theo trang
func (ctrl *BookingController) ListBookings(c *gin.Context) {
	page, limit := parsePagination(c)
	statusFilter := c.Query("status")

	cacheKey := fmt.Sprintf("bookings:all:%s:%d:%d", statusFilter, page, limit)
	rdb := config.RedisClient
	if rdb != nil {
		var cached []map[string]interface{}
		if err := services.GetFromRedis(config.Ctx, rdb, cacheKey, &cached); err == nil && len(cached) > 0 {
			response.SuccessWithPagination(c, cached, page, limit, len(cached))
			return
		}
	}

	bookings, total, err := ctrl.service.List(statusFilter, page, limit)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	results := make([]interface{}, 0, len(bookings))
	for i := range bookings {
		results = append(results, toBookingResponse(&bookings[i]))
	}

	if rdb != nil {
		_ = services.SetToRedis(config.Ctx, rdb, cacheKey, results, 10*time.Minute)
	}

	response.SuccessWithPagination(c, results, page, limit, total)
}
