package dto

// PaginationQuery là DTO cho query phân trang
type PaginationQuery struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}
