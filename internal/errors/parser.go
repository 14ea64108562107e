package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo thông tin lỗi đã phân tích
type ErrorInfo struct {
	Code    string // Mã lỗi (xem codes.go)
	Message string // Thông báo thân thiện cho người dùng
}

// ParseError phân tích lỗi và chuyển thành mã lỗi kèm thông báo dễ hiểu
// Ẩn thông tin nhạy cảm nhưng vẫn đủ để người dùng xử lý được vấn đề
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "Đã xảy ra lỗi máy chủ",
		}
	}

	errStr := err.Error()
	errStrLower := strings.ToLower(errStr)

	// 1. Lỗi GORM cơ bản
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: getNotFoundMessage(context),
		}
	}

	// 2. Phân tích lỗi PostgreSQL

	// 2-1. Vi phạm unique constraint (23505)
	if strings.Contains(errStrLower, "duplicate key") || strings.Contains(errStrLower, "unique constraint") {
		return parseDuplicateKeyError(errStr, context)
	}

	// 2-2. Vi phạm foreign key constraint (23503)
	if strings.Contains(errStrLower, "foreign key constraint") {
		return parseForeignKeyError(errStr, context)
	}

	// 2-3. Vi phạm not null constraint (23502)
	if strings.Contains(errStrLower, "null value") && strings.Contains(errStrLower, "violates not-null constraint") {
		return parseNotNullError(errStr, context)
	}

	// 2-4. Vi phạm check constraint (23514)
	if strings.Contains(errStrLower, "check constraint") {
		return parseCheckConstraintError(errStr, context)
	}

	// 3. Lỗi kết nối/mạng
	if strings.Contains(errStrLower, "connection refused") ||
		strings.Contains(errStrLower, "no such host") ||
		strings.Contains(errStrLower, "timeout") {
		return ErrorInfo{
			Code:    InternalExternalAPI,
			Message: "Không thể kết nối tới dịch vụ bên ngoài. Vui lòng thử lại sau",
		}
	}

	// 4. Lỗi máy chủ mặc định
	return ErrorInfo{
		Code:    InternalServerError,
		Message: getDefaultErrorMessage(context),
	}
}

// parseDuplicateKeyError phân tích lỗi vi phạm unique constraint
func parseDuplicateKeyError(errStr string, context string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	// Email trùng
	if strings.Contains(errLower, "email") || strings.Contains(errLower, "idx_users_email") {
		return ErrorInfo{
			Code:    AuthEmailAlreadyExists,
			Message: "Email này đã được sử dụng",
		}
	}

	// Trùng khoá idempotency của đơn hàng
	if strings.Contains(errLower, "idempotency_key") || strings.Contains(errLower, "idx_orders_idempotency_key") {
		return ErrorInfo{
			Code:    OrderDuplicate,
			Message: "Đơn hàng này đã được tạo trước đó",
		}
	}

	// Trùng slug sản phẩm
	if strings.Contains(errLower, "slug") || strings.Contains(errLower, "idx_products_slug") {
		return ErrorInfo{
			Code:    ResourceAlreadyExists,
			Message: "Định danh sản phẩm đã được sử dụng",
		}
	}

	// Trùng đánh giá
	if strings.Contains(errLower, "reviews") && (strings.Contains(errLower, "user_id") || strings.Contains(errLower, "product_id")) {
		return ErrorInfo{
			Code:    ReviewAlreadyExists,
			Message: "Bạn đã đánh giá sản phẩm này rồi",
		}
	}

	// Trùng mục yêu thích
	if strings.Contains(errLower, "wishlists") {
		return ErrorInfo{
			Code:    ResourceAlreadyExists,
			Message: "Sản phẩm đã có trong danh sách yêu thích",
		}
	}

	// Trùng primary key
	if strings.Contains(errLower, "pkey") || strings.Contains(errLower, "primary key") {
		return ErrorInfo{
			Code:    ResourceAlreadyExists,
			Message: "Dữ liệu đã tồn tại. Vui lòng thử lại",
		}
	}

	// Thông báo trùng lặp mặc định
	return ErrorInfo{
		Code:    ResourceAlreadyExists,
		Message: "Dữ liệu đã tồn tại",
	}
}

// parseForeignKeyError phân tích lỗi vi phạm foreign key constraint
func parseForeignKeyError(errStr string, context string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	// Xoá khi còn dữ liệu tham chiếu
	if strings.Contains(errLower, "still referenced") || strings.Contains(errLower, "is still referenced by") {
		if strings.Contains(context, "product") || strings.Contains(context, "sản phẩm") {
			return ErrorInfo{
				Code:    ResourceConflict,
				Message: "Sản phẩm đang được tham chiếu nên không thể xoá",
			}
		}
		if strings.Contains(context, "user") || strings.Contains(context, "người dùng") {
			return ErrorInfo{
				Code:    ResourceConflict,
				Message: "Người dùng còn dữ liệu liên kết nên không thể xoá",
			}
		}
		return ErrorInfo{
			Code:    ResourceConflict,
			Message: "Còn dữ liệu liên kết nên không thể xoá",
		}
	}

	// Tham chiếu tới dữ liệu không tồn tại
	if strings.Contains(errLower, "user_id") || strings.Contains(errLower, "fk_users") {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: "Người dùng không tồn tại",
		}
	}
	if strings.Contains(errLower, "product_id") || strings.Contains(errLower, "fk_products") {
		return ErrorInfo{
			Code:    ProductNotFound,
			Message: "Sản phẩm không tồn tại",
		}
	}
	if strings.Contains(errLower, "order_id") || strings.Contains(errLower, "fk_orders") {
		return ErrorInfo{
			Code:    OrderNotFound,
			Message: "Đơn hàng không tồn tại",
		}
	}

	return ErrorInfo{
		Code:    ResourceNotFound,
		Message: "Không tìm thấy dữ liệu được tham chiếu",
	}
}

// parseNotNullError phân tích lỗi vi phạm not null constraint
func parseNotNullError(errStr string, context string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	if strings.Contains(errLower, "email") {
		return ErrorInfo{Code: ValidationRequired, Message: "Email là trường bắt buộc"}
	}
	if strings.Contains(errLower, "password") {
		return ErrorInfo{Code: ValidationRequired, Message: "Mật khẩu là trường bắt buộc"}
	}
	if strings.Contains(errLower, "phone") {
		return ErrorInfo{Code: ValidationRequired, Message: "Số điện thoại là trường bắt buộc"}
	}
	if strings.Contains(errLower, "name") {
		return ErrorInfo{Code: ValidationRequired, Message: "Tên là trường bắt buộc"}
	}

	return ErrorInfo{
		Code:    ValidationRequired,
		Message: "Thiếu trường bắt buộc",
	}
}

// parseCheckConstraintError phân tích lỗi vi phạm check constraint
func parseCheckConstraintError(errStr string, context string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	if strings.Contains(errLower, "rating") {
		return ErrorInfo{
			Code:    ReviewInvalidRating,
			Message: "Điểm đánh giá phải từ 1 đến 5",
		}
	}

	if strings.Contains(errLower, "stock_quantity") || strings.Contains(errLower, "quantity") {
		return ErrorInfo{
			Code:    InsufficientStock,
			Message: "Số lượng tồn kho không đủ",
		}
	}

	return ErrorInfo{
		Code:    ValidationInvalidInput,
		Message: "Dữ liệu nhập vào không hợp lệ",
	}
}

// getNotFoundMessage thông báo Not Found theo ngữ cảnh
func getNotFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	if strings.Contains(contextLower, "product") || strings.Contains(contextLower, "sản phẩm") {
		return "Không tìm thấy sản phẩm"
	}
	if strings.Contains(contextLower, "order") || strings.Contains(contextLower, "đơn hàng") {
		return "Không tìm thấy đơn hàng"
	}
	if strings.Contains(contextLower, "user") || strings.Contains(contextLower, "người dùng") {
		return "Không tìm thấy người dùng"
	}
	if strings.Contains(contextLower, "address") || strings.Contains(contextLower, "địa chỉ") {
		return "Không tìm thấy địa chỉ"
	}
	if strings.Contains(contextLower, "review") || strings.Contains(contextLower, "đánh giá") {
		return "Không tìm thấy đánh giá"
	}
	if strings.Contains(contextLower, "cart") || strings.Contains(contextLower, "giỏ hàng") {
		return "Không tìm thấy mục trong giỏ hàng"
	}
	if strings.Contains(contextLower, "notification") || strings.Contains(contextLower, "thông báo") {
		return "Không tìm thấy thông báo"
	}

	return "Không tìm thấy dữ liệu yêu cầu"
}

// getDefaultErrorMessage thông báo lỗi mặc định theo ngữ cảnh
func getDefaultErrorMessage(context string) string {
	contextLower := strings.ToLower(context)

	if strings.Contains(contextLower, "create") || strings.Contains(contextLower, "tạo") {
		return "Đã xảy ra lỗi khi tạo mới. Vui lòng thử lại sau"
	}
	if strings.Contains(contextLower, "update") || strings.Contains(contextLower, "cập nhật") {
		return "Đã xảy ra lỗi khi cập nhật. Vui lòng thử lại sau"
	}
	if strings.Contains(contextLower, "delete") || strings.Contains(contextLower, "xoá") {
		return "Đã xảy ra lỗi khi xoá. Vui lòng thử lại sau"
	}
	if strings.Contains(contextLower, "checkout") || strings.Contains(contextLower, "thanh toán") {
		return "Đã xảy ra lỗi khi xử lý thanh toán. Vui lòng thử lại sau"
	}

	return "Đã xảy ra lỗi máy chủ. Vui lòng thử lại sau"
}

// ParseAndRespond phân tích lỗi rồi trả về phản hồi (hàm tiện ích cho controller)
func ParseAndRespond(c interface{ JSON(int, interface{}) }, statusCode int, err error, context string) {
	errorInfo := ParseError(err, context)
	c.JSON(statusCode, ErrorResponse{
		Error:   errorInfo.Code,
		Message: errorInfo.Message,
	})
}
