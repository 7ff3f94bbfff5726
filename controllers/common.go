package controllers

import (
	"hotel/constants"
	"hotel/dto"
	"hotel/errors"
	"hotel/models"
	"hotel/response"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// currentUser lấy userID và role đã được AuthMiddleware gán vào context
func currentUser(c *gin.Context) (uint, int, bool) {
	userID, ok := c.Get("userID")
	if !ok {
		return 0, 0, false
	}
	userRole, ok := c.Get("userRole")
	if !ok {
		return 0, 0, false
	}
	return userID.(uint), userRole.(int), true
}

// actorName chuỗi định danh người thao tác ghi vào audit
func actorName(userID uint, role int) string {
	switch role {
	case constants.RoleReceptionist:
		return "receptionist:" + strconv.FormatUint(uint64(userID), 10)
	case constants.RoleAdmin:
		return "admin:" + strconv.FormatUint(uint64(userID), 10)
	}
	return "guest:" + strconv.FormatUint(uint64(userID), 10)
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		response.BadRequest(c, "ID không hợp lệ")
		return 0, false
	}
	return uint(id), true
}

func parsePagination(c *gin.Context) (page, limit int) {
	var query dto.PaginationQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		return 0, 10
	}
	page = query.Page
	if page < 0 {
		page = 0
	}
	limit = query.Limit
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	return page, limit
}

// handleServiceError map lỗi từ service sang HTTP response
func handleServiceError(c *gin.Context, err error) {
	if payErr, ok := errors.AsPaymentRequired(err); ok {
		response.PaymentRequired(c, response.PaymentRequiredData{
			InvoiceID:      payErr.InvoiceID,
			Amount:         payErr.Amount,
			DaysOverstayed: payErr.DaysOverstayed,
		})
		return
	}

	if appErr := errors.GetAppError(err); appErr != nil {
		switch appErr.Code {
		case errors.ErrCodeBookingNotFound, errors.ErrCodeRoomNotFound,
			errors.ErrCodeStayNotFound, errors.ErrCodeInvoiceNotFound,
			errors.ErrCodeUserNotFound, errors.ErrCodeDBNotFound:
			response.NotFound(c)
		case errors.ErrCodeUnauthorized, errors.ErrCodeInvalidToken, errors.ErrCodeMissingToken:
			response.Unauthorized(c)
		case errors.ErrCodeInvalidRole:
			response.Forbidden(c)
		case errors.ErrCodeStayConflict, errors.ErrCodeRoomNotAvailable,
			errors.ErrCodeNoCardsAvailable, errors.ErrCodeDBDuplicate:
			response.Conflict(c, appErr.Message)
		case errors.ErrCodeValidation, errors.ErrCodeRequiredField,
			errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidEmail,
			errors.ErrCodeInvalidPhone, errors.ErrCodeInvalidAmount:
			response.ValidationError(c, appErr.Message)
		case errors.ErrCodeDBError:
			response.ServerError(c)
		default:
			response.BadRequest(c, appErr.Message)
		}
		return
	}

	response.ServerError(c)
}

func formatBookingDate(t time.Time) string {
	return t.Format("02/01/2006")
}

func toBookingResponse(b *models.Booking) dto.BookingResponse {
	return dto.BookingResponse{
		ID:            b.ID,
		UserID:        b.UserID,
		RoomID:        b.RoomID,
		CheckInDate:   formatBookingDate(b.CheckInDate),
		CheckOutDate:  formatBookingDate(b.CheckOutDate),
		Status:        b.Status,
		HoldUntil:     b.HoldUntil,
		GuestName:     b.GuestName,
		GuestEmail:    b.GuestEmail,
		GuestPhone:    b.GuestPhone,
		PaymentMethod: b.PaymentMethod,
		BasePrice:     b.BasePrice,
		TaxAmount:     b.TaxAmount,
		TotalPrice:    b.TotalPrice,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

func toStayResponse(s *models.CheckInOut) dto.StayResponse {
	return dto.StayResponse{
		ID:             s.ID,
		BookingID:      s.BookingID,
		UserID:         s.UserID,
		RoomID:         s.RoomID,
		KeyCardID:      s.KeyCardID,
		Status:         string(s.Status),
		CheckInTime:    s.CheckInTime,
		CheckOutTime:   s.CheckOutTime,
		CheckedInBy:    s.CheckedInBy,
		CheckedOutBy:   s.CheckedOutBy,
		DocumentType:   s.DocumentType,
		DocumentNumber: s.DocumentNumber,
		Preferences:    s.Preferences,
		Overstay: dto.StayOverstayResponse{
			Detected:          s.Overstay.Detected,
			DaysOverstayed:    s.Overstay.DaysOverstayed,
			ScheduledCheckout: s.Overstay.ScheduledCheckout,
			ChargeAmount:      s.Overstay.ChargeAmount,
			PaymentStatus:     string(s.Overstay.PaymentStatus),
			InvoiceID:         s.Overstay.InvoiceID,
			CanCheckout:       s.Overstay.CanCheckout,
		},
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}
