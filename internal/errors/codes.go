package errors

// Mã lỗi dạng hằng số
// Định dạng: CATEGORY_SPECIFIC_DETAIL
// Frontend dựa vào mã này để ánh xạ thông báo hiển thị

const (
	// ==================== Xác thực (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"        // Cần đăng nhập
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS" // Sai email/mật khẩu
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"       // Token hết hạn
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"       // Token không hợp lệ
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED"       // Token đã bị thu hồi
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"        // Email đã tồn tại

	// ==================== Phân quyền (AUTHZ_) ====================
	AuthzForbidden    = "AUTHZ_FORBIDDEN"      // Không có quyền truy cập
	AuthzAccessDenied = "AUTHZ_ACCESS_DENIED"  // Không có quyền thao tác
	AuthzAdminOnly    = "AUTHZ_ADMIN_ONLY"     // Chỉ dành cho quản trị viên
	AuthzOwnerOnly    = "AUTHZ_OWNER_ONLY"     // Chỉ dành cho chủ sở hữu
	AuthzRoleNotFound = "AUTHZ_ROLE_NOT_FOUND" // Thiếu thông tin quyền

	// ==================== Kiểm tra dữ liệu (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"  // Dữ liệu không hợp lệ
	ValidationInvalidID     = "VALIDATION_INVALID_ID"     // ID không hợp lệ
	ValidationInvalidFormat = "VALIDATION_INVALID_FORMAT" // Sai định dạng
	ValidationInvalidPhone  = "VALIDATION_INVALID_PHONE"  // Số điện thoại không hợp lệ
	ValidationRequired      = "VALIDATION_REQUIRED"       // Thiếu trường bắt buộc

	// ==================== Tài nguyên (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"      // Không tìm thấy
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS" // Đã tồn tại
	ResourceConflict      = "RESOURCE_CONFLICT"       // Xung đột dữ liệu

	// ==================== Sản phẩm (PRODUCT_) ====================
	ProductNotFound    = "PRODUCT_NOT_FOUND"          // Không tìm thấy sản phẩm
	ProductOutOfStock  = "PRODUCT_OUT_OF_STOCK"       // Hết hàng
	ProductUnavailable = "PRODUCT_UNAVAILABLE"        // Sản phẩm ngừng bán
	CategoryNotFound   = "CATEGORY_NOT_FOUND"         // Không tìm thấy danh mục
	InsufficientStock  = "PRODUCT_INSUFFICIENT_STOCK" // Không đủ tồn kho

	// ==================== Giỏ hàng (CART_) ====================
	CartItemNotFound = "CART_ITEM_NOT_FOUND" // Không tìm thấy mục trong giỏ
	CartEmpty        = "CART_EMPTY"          // Giỏ hàng trống

	// ==================== Thanh toán / checkout (CHECKOUT_) ====================
	CheckoutEmptyCart     = "CHECKOUT_EMPTY_CART"      // Giỏ hàng trống khi checkout
	CheckoutDraftNotFound = "CHECKOUT_DRAFT_NOT_FOUND" // Phiên checkout hết hạn
	CheckoutInvalidInfo   = "CHECKOUT_INVALID_INFO"    // Thông tin giao hàng không hợp lệ

	// ==================== Đơn hàng (ORDER_) ====================
	OrderNotFound        = "ORDER_NOT_FOUND"         // Không tìm thấy đơn hàng
	OrderInvalidStatus   = "ORDER_INVALID_STATUS"    // Trạng thái không hợp lệ
	OrderCannotCancel    = "ORDER_CANNOT_CANCEL"     // Không thể huỷ đơn
	OrderTotalMismatch   = "ORDER_TOTAL_MISMATCH"    // Tổng tiền không khớp
	OrderDuplicate       = "ORDER_DUPLICATE_REQUEST" // Yêu cầu tạo đơn trùng lặp
	PaymentMethodInvalid = "PAYMENT_METHOD_INVALID"  // Phương thức thanh toán không hợp lệ

	// ==================== Địa chỉ (ADDRESS_) ====================
	AddressNotFound = "ADDRESS_NOT_FOUND" // Không tìm thấy địa chỉ
	AddressLimit    = "ADDRESS_LIMIT"     // Vượt số địa chỉ cho phép
	DivisionInvalid = "DIVISION_INVALID"  // Mã tỉnh/quận/phường không hợp lệ

	// ==================== Đánh giá (REVIEW_) ====================
	ReviewNotFound      = "REVIEW_NOT_FOUND"      // Không tìm thấy đánh giá
	ReviewInvalidRating = "REVIEW_INVALID_RATING" // Điểm đánh giá không hợp lệ
	ReviewAlreadyExists = "REVIEW_ALREADY_EXISTS" // Đã đánh giá sản phẩm này

	// ==================== Thông báo (NOTIFICATION_) ====================
	NotificationNotFound = "NOTIFICATION_NOT_FOUND" // Không tìm thấy thông báo

	// ==================== Tải tệp (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE" // Sai định dạng tệp
	UploadFileTooLarge    = "UPLOAD_FILE_TOO_LARGE"    // Tệp quá lớn
	UploadFailed          = "UPLOAD_FAILED"            // Tải lên thất bại

	// ==================== Cấu hình cửa hàng (SETTING_) ====================
	SettingNotFound = "SETTING_NOT_FOUND" // Không tìm thấy cấu hình

	// ==================== Lỗi nội bộ (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"   // Lỗi máy chủ
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR" // Lỗi cơ sở dữ liệu
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"   // Lỗi dịch vụ bên ngoài
	InternalConfigError   = "INTERNAL_CONFIG_ERROR"   // Lỗi cấu hình
)
