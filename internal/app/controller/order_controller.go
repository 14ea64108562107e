package controller

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/minhngo/birdnest-backend/internal/app/model"
	"github.com/minhngo/birdnest-backend/internal/app/service"
	apperrors "github.com/minhngo/birdnest-backend/internal/errors"
	"github.com/minhngo/birdnest-backend/internal/middleware"
)

type OrderController struct {
	orderService service.OrderService
}

func NewOrderController(orderService service.OrderService) *OrderController {
	return &OrderController{
		orderService: orderService,
	}
}

type CreateOrderBody struct {
	Info          CheckoutInfoRequest   `json:"info" binding:"required"`
	Items         []CheckoutItemRequest `json:"items" binding:"required,min=1,dive"`
	DeliveryFee   float64               `json:"delivery_fee"`
	PaymentMethod string                `json:"payment_method" binding:"required"`
	RequestID     string                `json:"request_id"`
	CheckoutToken string                `json:"checkout_token"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type GuestOrderSearchRequest struct {
	Query string `json:"query" binding:"required"`
}

func (b *CreateOrderBody) toServiceRequest() service.CreateOrderRequest {
	items := make([]service.CheckoutItem, 0, len(b.Items))
	for _, item := range b.Items {
		items = append(items, service.CheckoutItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}
	return service.CreateOrderRequest{
		Info: service.CheckoutInfo{
			FullName:     b.Info.FullName,
			Phone:        b.Info.Phone,
			Email:        b.Info.Email,
			ProvinceCode: b.Info.ProvinceCode,
			DistrictCode: b.Info.DistrictCode,
			WardCode:     b.Info.WardCode,
			Address:      b.Info.Address,
			Apartment:    b.Info.Apartment,
			Note:         b.Info.Note,
			AddressMode:  b.Info.AddressMode,
		},
		Items:         items,
		DeliveryFee:   b.DeliveryFee,
		PaymentMethod: b.PaymentMethod,
		RequestID:     b.RequestID,
		CheckoutToken: b.CheckoutToken,
	}
}

func (ctrl *OrderController) createOrder(c *gin.Context, userID *uint) {
	log := middleware.GetLoggerFromContext(c)

	var req CreateOrderBody
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid create order request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Thông tin đơn hàng không hợp lệ")
		return
	}

	order, err := ctrl.orderService.CreateOrder(c.Request.Context(), userID, req.toServiceRequest())
	if err != nil {
		var validationErr *service.CheckoutValidationError
		switch {
		case errors.As(err, &validationErr):
			apperrors.RespondWithValidationError(c, validationErr.Fields)
		case errors.Is(err, service.ErrPaymentMethodInvalid):
			apperrors.BadRequest(c, apperrors.PaymentMethodInvalid, "Phương thức thanh toán không hợp lệ")
		case errors.Is(err, service.ErrCheckoutDraftNotFound):
			apperrors.NotFound(c, apperrors.CheckoutDraftNotFound, "Phiên đặt hàng không tồn tại hoặc đã hết hạn")
		case errors.Is(err, service.ErrProductNotFound):
			apperrors.NotFound(c, apperrors.ResourceNotFound, "Sản phẩm không tồn tại hoặc đã ngừng bán")
		case errors.Is(err, service.ErrInsufficientStock):
			apperrors.Conflict(c, apperrors.ResourceConflict, "Sản phẩm không đủ hàng trong kho")
		case errors.Is(err, service.ErrOrderTotalMismatch):
			apperrors.Conflict(c, apperrors.OrderTotalMismatch, "Tổng tiền đơn hàng không khớp, vui lòng tải lại trang")
		default:
			log.Error("Failed to create order", err, nil)
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create order")
		}
		return
	}

	log.Info("Order created successfully", map[string]interface{}{
		"order_id":       order.ID,
		"payment_method": order.PaymentMethod,
		"total":          order.Total,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Đặt hàng thành công",
		"order":   order,
	})
}

// CreateOrder creates an order for the logged-in user
// POST /api/v1/orders
func (ctrl *OrderController) CreateOrder(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Vui lòng đăng nhập để tiếp tục")
		return
	}
	ctrl.createOrder(c, &userID)
}

// CreateGuestOrder creates an order without authentication
// POST /api/v1/orders/guest
func (ctrl *OrderController) CreateGuestOrder(c *gin.Context) {
	// Khách đã đăng nhập gọi nhầm endpoint guest vẫn gắn đơn vào tài khoản
	var userID *uint
	if id, exists := middleware.GetUserID(c); exists {
		userID = &id
	}
	ctrl.createOrder(c, userID)
}

// GetMyOrders returns order history of the logged-in user
// GET /api/v1/orders
func (ctrl *OrderController) GetMyOrders(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Vui lòng đăng nhập để tiếp tục")
		return
	}

	orders, err := ctrl.orderService.GetUserOrders(userID)
	if err != nil {
		log.Error("Failed to get user orders", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get orders")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
	})
}

// GetOrder returns a single order, owners and admins only
// GET /api/v1/orders/:id
func (ctrl *OrderController) GetOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Mã đơn hàng không hợp lệ")
		return
	}

	var userID *uint
	if id, exists := middleware.GetUserID(c); exists {
		userID = &id
	}
	isAdmin := middleware.IsAdmin(c)

	order, err := ctrl.orderService.GetOrderByID(uint(orderID), userID, isAdmin)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "Không tìm thấy đơn hàng")
			return
		}
		log.Error("Failed to get order", err, map[string]interface{}{
			"order_id": orderID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get order")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order": order,
	})
}

// ListOrders returns all orders with optional status filter, admin only
// GET /api/v1/admin/orders
func (ctrl *OrderController) ListOrders(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	status := strings.ToUpper(strings.TrimSpace(c.Query("status")))
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	orders, total, err := ctrl.orderService.ListOrders(status, page, limit)
	if err != nil {
		if errors.Is(err, service.ErrOrderInvalidStatus) {
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Trạng thái đơn hàng không hợp lệ")
			return
		}
		log.Error("Failed to list orders", err, map[string]interface{}{
			"status": status,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list orders")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"total":  total,
		"page":   page,
		"limit":  limit,
	})
}

// UpdateOrderStatus changes an order's status, admin only
// PUT /api/v1/admin/orders/:id/status
func (ctrl *OrderController) UpdateOrderStatus(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Mã đơn hàng không hợp lệ")
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Thông tin không hợp lệ")
		return
	}

	status := model.OrderStatus(strings.ToUpper(strings.TrimSpace(req.Status)))

	order, err := ctrl.orderService.UpdateOrderStatus(c.Request.Context(), uint(orderID), status)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "Không tìm thấy đơn hàng")
			return
		}
		if errors.Is(err, service.ErrOrderInvalidStatus) {
			apperrors.Conflict(c, apperrors.ResourceConflict, "Không thể chuyển đơn hàng sang trạng thái này")
			return
		}
		log.Error("Failed to update order status", err, map[string]interface{}{
			"order_id": orderID,
			"status":   status,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update order status")
		return
	}

	log.Info("Order status updated", map[string]interface{}{
		"order_id": order.ID,
		"status":   order.Status,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Cập nhật trạng thái đơn hàng thành công",
		"order":   order,
	})
}

// SearchGuestOrders looks up guest orders by email or phone
// POST /api/v1/orders/guest/search
func (ctrl *OrderController) SearchGuestOrders(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req GuestOrderSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Vui lòng nhập mã đơn hàng hoặc số điện thoại")
		return
	}

	orders, err := ctrl.orderService.SearchGuestOrders(req.Query)
	if err != nil {
		log.Error("Failed to search guest orders", err, map[string]interface{}{
			"query": req.Query,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "search guest orders")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
	})
}

// GetDashboardStats returns aggregate sales numbers, admin only
// GET /api/v1/admin/dashboard
func (ctrl *OrderController) GetDashboardStats(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	stats, err := ctrl.orderService.GetDashboardStats()
	if err != nil {
		log.Error("Failed to get dashboard stats", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get dashboard stats")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stats": stats,
	})
}
