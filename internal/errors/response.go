package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse cấu trúc phản hồi lỗi chuẩn
type ErrorResponse struct {
	Error   string `json:"error"`   // Mã lỗi (để frontend ánh xạ)
	Message string `json:"message"` // Thông báo thân thiện cho người dùng (tiếng Việt)
}

// RespondWithError trả về phản hồi lỗi
// statusCode: mã trạng thái HTTP
// errorCode: hằng số mã lỗi (xem codes.go)
// message: thông báo tiếng Việt hiển thị cho người dùng
func RespondWithError(c *gin.Context, statusCode int, errorCode string, message string) {
	c.JSON(statusCode, ErrorResponse{
		Error:   errorCode,
		Message: message,
	})
}

// Các hàm rút gọn cho những phản hồi lỗi hay dùng

func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Vui lòng đăng nhập để tiếp tục"
	}
	RespondWithError(c, http.StatusUnauthorized, AuthUnauthorized, message)
}

func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "Bạn không có quyền truy cập"
	}
	RespondWithError(c, http.StatusForbidden, AuthzForbidden, message)
}

func BadRequest(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusBadRequest, errorCode, message)
}

func NotFound(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusNotFound, errorCode, message)
}

func Conflict(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusConflict, errorCode, message)
}

func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "Đã xảy ra lỗi máy chủ. Vui lòng thử lại sau"
	}
	RespondWithError(c, http.StatusInternalServerError, InternalServerError, message)
}

// ValidationError lỗi kiểm tra dữ liệu (tuỳ chọn: nhiều trường cùng lúc)
type ValidationError struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"` // Thông báo lỗi theo từng trường
}

func RespondWithValidationError(c *gin.Context, fields map[string]string) {
	c.JSON(http.StatusBadRequest, ValidationError{
		Error:   ValidationInvalidInput,
		Message: "Dữ liệu nhập vào không hợp lệ",
		Fields:  fields,
	})
}
