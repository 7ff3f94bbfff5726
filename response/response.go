package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Code 1 là thành công, 0 là lỗi, 2 là yêu cầu thanh toán trước khi tiếp tục
type Response struct {
	Code       int         `json:"code"`
	Mess       string      `json:"mess"`
	Data       interface{} `json:"data,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// Pagination định nghĩa cấu trúc phân trang
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// PaymentRequiredData dữ liệu kèm theo response 402 khi trả phòng bị chặn
// vì phụ thu quá hạn chưa thanh toán
type PaymentRequiredData struct {
	InvoiceID      uint    `json:"invoiceId"`
	Amount         float64 `json:"amount"`
	DaysOverstayed int     `json:"daysOverstayed"`
}

func write(c *gin.Context, status, code int, mess string, data interface{}) {
	c.JSON(status, Response{Code: code, Mess: mess, Data: data})
}

// Success trả về response thành công
func Success(c *gin.Context, data interface{}) {
	write(c, http.StatusOK, 1, "Thành công", data)
}

// SuccessWithPagination trả về response thành công có phân trang
func SuccessWithPagination(c *gin.Context, data interface{}, page, limit, total int) {
	c.JSON(http.StatusOK, Response{
		Code:       1,
		Mess:       "Thành công",
		Data:       data,
		Pagination: &Pagination{Page: page, Limit: limit, Total: total},
	})
}

// Error trả về response lỗi với mã tùy chọn
func Error(c *gin.Context, code int, message string) {
	write(c, http.StatusBadRequest, code, message, nil)
}

// ServerError trả về response lỗi server
func ServerError(c *gin.Context) {
	write(c, http.StatusInternalServerError, 0, "Lỗi server", nil)
}

// Unauthorized trả về response chưa xác thực
func Unauthorized(c *gin.Context) {
	write(c, http.StatusUnauthorized, 0, "Chưa xác thực", nil)
}

// Forbidden trả về response không có quyền
func Forbidden(c *gin.Context) {
	write(c, http.StatusForbidden, 0, "Không có quyền truy cập", nil)
}

// NotFound trả về response không tìm thấy
func NotFound(c *gin.Context) {
	write(c, http.StatusNotFound, 0, "Không tìm thấy", nil)
}

// ValidationError trả về response lỗi validation
func ValidationError(c *gin.Context, message string) {
	write(c, http.StatusBadRequest, 0, message, nil)
}

// BadRequest trả về response lỗi bad request
func BadRequest(c *gin.Context, message string) {
	write(c, http.StatusBadRequest, 0, message, nil)
}

// Conflict trả về response conflict (409)
func Conflict(c *gin.Context, message string) {
	write(c, http.StatusConflict, 0, message, nil)
}

// PaymentRequired trả về response 402 khi checkout bị chặn bởi phụ thu
// quá hạn. Đây là kết quả nghiệp vụ, không phải lỗi.
func PaymentRequired(c *gin.Context, data PaymentRequiredData) {
	write(c, http.StatusPaymentRequired, 2, "Cần thanh toán phụ thu quá hạn trước khi trả phòng", data)
}
