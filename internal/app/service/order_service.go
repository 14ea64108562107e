package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/minhngo/birdnest-backend/internal/app/model"
	"github.com/minhngo/birdnest-backend/internal/app/repository"
	"github.com/minhngo/birdnest-backend/internal/division"
	"github.com/minhngo/birdnest-backend/pkg/events"
	"github.com/minhngo/birdnest-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrOrderNotFound        = errors.New("order not found")
	ErrOrderTotalMismatch   = errors.New("order total mismatch")
	ErrOrderInvalidStatus   = errors.New("invalid order status transition")
	ErrPaymentMethodInvalid = errors.New("invalid payment method")
)

// paymentMethodAliases ánh xạ giá trị client gửi lên sang enum nội bộ.
var paymentMethodAliases = map[string]model.PaymentMethod{
	"cod":           model.PaymentMethodCOD,
	"bank":          model.PaymentMethodBankTransfer,
	"bank_transfer": model.PaymentMethodBankTransfer,
	"stripe":        model.PaymentMethodStripe,
	"momo":          model.PaymentMethodMomo,
	"vnpay":         model.PaymentMethodVNPay,
}

// ParsePaymentMethod chấp nhận cả alias thường dùng lẫn giá trị enum.
func ParsePaymentMethod(raw string) (model.PaymentMethod, error) {
	method, ok := paymentMethodAliases[strings.ToLower(strings.TrimSpace(raw))]
	if !ok {
		return "", ErrPaymentMethodInvalid
	}
	return method, nil
}

// orderStatusTransitions ma trận chuyển trạng thái hợp lệ.
// COD có thể đi thẳng PENDING → SHIPPED vì thanh toán khi nhận hàng.
var orderStatusTransitions = map[model.OrderStatus][]model.OrderStatus{
	model.OrderStatusPending:   {model.OrderStatusPaid, model.OrderStatusShipped, model.OrderStatusCancelled},
	model.OrderStatusPaid:      {model.OrderStatusShipped, model.OrderStatusCancelled},
	model.OrderStatusShipped:   {model.OrderStatusDelivered},
	model.OrderStatusDelivered: {},
	model.OrderStatusCancelled: {},
}

func canTransition(from, to model.OrderStatus) bool {
	for _, allowed := range orderStatusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

type CreateOrderRequest struct {
	Info          CheckoutInfo
	Items         []CheckoutItem
	DeliveryFee   float64
	PaymentMethod string
	RequestID     string
	CheckoutToken string
}

type OrderService interface {
	CreateOrder(ctx context.Context, userID *uint, req CreateOrderRequest) (*model.Order, error)
	GetUserOrders(userID uint) ([]model.Order, error)
	GetOrderByID(orderID uint, userID *uint, isAdmin bool) (*model.Order, error)
	ListOrders(status string, page, limit int) ([]model.Order, int64, error)
	UpdateOrderStatus(ctx context.Context, orderID uint, status model.OrderStatus) (*model.Order, error)
	SearchGuestOrders(query string) ([]model.Order, error)
	CancelExpiredOrders(ctx context.Context, olderThan time.Duration) (int, error)
	GetDashboardStats() (map[string]interface{}, error)
}

// lowStockThreshold là ngưỡng cảnh báo sắp hết hàng trên dashboard
const lowStockThreshold = 5

type orderService struct {
	orderRepo       repository.OrderRepository
	productRepo     repository.ProductRepository
	cartRepo        repository.CartRepository
	checkoutRepo    repository.CheckoutRepository
	settingSvc      SettingService
	notificationSvc NotificationService
	producer        *events.Producer
	db              *gorm.DB
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	cartRepo repository.CartRepository,
	checkoutRepo repository.CheckoutRepository,
	settingSvc SettingService,
	notificationSvc NotificationService,
	producer *events.Producer,
	db *gorm.DB,
) OrderService {
	return &orderService{
		orderRepo:       orderRepo,
		productRepo:     productRepo,
		cartRepo:        cartRepo,
		checkoutRepo:    checkoutRepo,
		settingSvc:      settingSvc,
		notificationSvc: notificationSvc,
		producer:        producer,
		db:              db,
	}
}

// buildShippingAddress gộp thông tin giao hàng thành một chuỗi, bỏ phần rỗng.
func buildShippingAddress(info CheckoutInfo) string {
	provinceName, districtName, wardName := division.DisplayNames(
		info.ProvinceCode, info.DistrictCode, info.WardCode)

	parts := []string{
		info.FullName,
		info.Phone,
		info.Email,
		info.Address,
		info.Apartment,
		wardName,
		districtName,
		provinceName,
		info.Note,
	}

	nonEmpty := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			nonEmpty = append(nonEmpty, trimmed)
		}
	}
	return strings.Join(nonEmpty, ", ")
}

func (s *orderService) CreateOrder(ctx context.Context, userID *uint, req CreateOrderRequest) (*model.Order, error) {
	logger.Info("Creating order", map[string]interface{}{
		"user_id":        userID,
		"item_count":     len(req.Items),
		"payment_method": req.PaymentMethod,
		"request_id":     req.RequestID,
	})

	if len(req.Items) == 0 {
		logger.Warn("Cannot create order: no items", map[string]interface{}{
			"user_id": userID,
		})
		return nil, ErrCheckoutEmptyCart
	}

	if vErr := validateInfo(req.Info); vErr != nil {
		logger.Warn("Order info validation failed", map[string]interface{}{
			"user_id": userID,
			"fields":  vErr.Fields,
		})
		return nil, vErr
	}

	paymentMethod, err := ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		logger.Warn("Order rejected: invalid payment method", map[string]interface{}{
			"payment_method": req.PaymentMethod,
		})
		return nil, err
	}

	// Chống gửi trùng: request_id đã có đơn thì trả lại đơn cũ.
	if req.RequestID != "" {
		existing, err := s.orderRepo.FindByIdempotencyKey(req.RequestID)
		if err == nil {
			logger.Info("Duplicate order request, returning existing order", map[string]interface{}{
				"request_id": req.RequestID,
				"order_id":   existing.ID,
			})
			return existing, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("Failed to check idempotency key", err, map[string]interface{}{
				"request_id": req.RequestID,
			})
			return nil, err
		}
	}

	deliveryCfg, err := s.settingSvc.GetDeliveryConfig()
	if err != nil {
		return nil, err
	}

	tx := s.db.Begin()
	if tx.Error != nil {
		logger.Error("Failed to begin transaction", tx.Error)
		return nil, tx.Error
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var subtotal float64
	orderItems := make([]model.OrderItem, 0, len(req.Items))

	for _, item := range req.Items {
		if item.Quantity <= 0 {
			tx.Rollback()
			return nil, &CheckoutValidationError{Fields: map[string]string{
				"products": "Số lượng sản phẩm không hợp lệ",
			}}
		}

		var product model.Product
		if err := tx.First(&product, item.ProductID).Error; err != nil {
			tx.Rollback()
			if errors.Is(err, gorm.ErrRecordNotFound) {
				logger.Warn("Product not found during order creation", map[string]interface{}{
					"product_id": item.ProductID,
				})
				return nil, ErrProductNotFound
			}
			logger.Error("Failed to fetch product in transaction", err, map[string]interface{}{
				"product_id": item.ProductID,
			})
			return nil, err
		}

		if !product.IsActive {
			tx.Rollback()
			logger.Warn("Order rejected: product not active", map[string]interface{}{
				"product_id": item.ProductID,
			})
			return nil, ErrProductNotFound
		}

		// Trừ kho có điều kiện: không bao giờ cho tồn kho âm dưới tải song song.
		result := tx.Model(&model.Product{}).
			Where("id = ? AND stock_quantity >= ?", item.ProductID, item.Quantity).
			Updates(map[string]interface{}{
				"stock_quantity": gorm.Expr("stock_quantity - ?", item.Quantity),
				"sold_count":     gorm.Expr("sold_count + ?", item.Quantity),
			})
		if result.Error != nil {
			tx.Rollback()
			logger.Error("Failed to decrement stock", result.Error, map[string]interface{}{
				"product_id": item.ProductID,
			})
			return nil, result.Error
		}
		if result.RowsAffected == 0 {
			tx.Rollback()
			logger.Warn("Order rejected: insufficient stock", map[string]interface{}{
				"product_id": item.ProductID,
				"requested":  item.Quantity,
				"available":  product.StockQuantity,
			})
			return nil, ErrInsufficientStock
		}

		subtotal += product.Price * float64(item.Quantity)
		orderItems = append(orderItems, model.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    item.Quantity,
			Price:       product.Price,
		})
	}

	// Phí giao hàng luôn tính lại phía server, không tin giá client gửi lên.
	expectedFee := deliveryCfg.Fee
	if subtotal >= deliveryCfg.FreeShippingThreshold {
		expectedFee = 0
	}
	if req.DeliveryFee != expectedFee {
		tx.Rollback()
		logger.Warn("Order rejected: delivery fee mismatch", map[string]interface{}{
			"client_fee":   req.DeliveryFee,
			"expected_fee": expectedFee,
			"subtotal":     subtotal,
		})
		return nil, ErrOrderTotalMismatch
	}

	order := &model.Order{
		UserID:          userID,
		Subtotal:        subtotal,
		DeliveryFee:     expectedFee,
		Total:           subtotal + expectedFee,
		Status:          model.OrderStatusPending,
		PaymentMethod:   paymentMethod,
		ShippingAddress: buildShippingAddress(req.Info),
		OrderItems:      orderItems,
	}
	if userID == nil {
		order.GuestName = req.Info.FullName
		order.GuestEmail = req.Info.Email
		order.GuestPhone = req.Info.Phone
	}
	if req.RequestID != "" {
		key := req.RequestID
		order.IdempotencyKey = &key
	}

	if err := tx.Create(order).Error; err != nil {
		tx.Rollback()
		// Hai request cùng request_id về đích cùng lúc: trả về đơn đã thắng.
		if req.RequestID != "" && strings.Contains(err.Error(), "idempotency_key") {
			if existing, findErr := s.orderRepo.FindByIdempotencyKey(req.RequestID); findErr == nil {
				logger.Info("Concurrent duplicate order request, returning existing order", map[string]interface{}{
					"request_id": req.RequestID,
					"order_id":   existing.ID,
				})
				return existing, nil
			}
		}
		logger.Error("Failed to create order", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit order transaction", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	// Các bước sau commit là best-effort, đơn hàng đã tồn tại.
	if userID != nil {
		if err := s.cartRepo.DeleteByUserID(*userID); err != nil {
			logger.Warn("Failed to clear cart after order", map[string]interface{}{
				"user_id": *userID,
				"error":   err.Error(),
			})
		}
	}
	if req.CheckoutToken != "" {
		if err := s.checkoutRepo.DeleteDraft(ctx, req.CheckoutToken); err != nil {
			logger.Warn("Failed to delete checkout draft after order", map[string]interface{}{
				"token": req.CheckoutToken,
				"error": err.Error(),
			})
		}
	}

	created, err := s.orderRepo.FindByID(order.ID)
	if err != nil {
		logger.Error("Failed to fetch created order", err, map[string]interface{}{
			"order_id": order.ID,
		})
		return nil, err
	}

	if s.notificationSvc != nil {
		s.notificationSvc.NotifyOrderCreated(created)
	}
	s.producer.PublishOrderEvent(ctx, events.OrderEvent{
		Event:         events.EventOrderCreated,
		OrderID:       created.ID,
		UserID:        created.UserID,
		Status:        string(created.Status),
		PaymentMethod: string(created.PaymentMethod),
		Total:         created.Total,
		OccurredAt:    time.Now(),
	})

	logger.Info("Order created successfully", map[string]interface{}{
		"order_id":       created.ID,
		"user_id":        userID,
		"total":          created.Total,
		"payment_method": created.PaymentMethod,
	})
	return created, nil
}

func (s *orderService) GetUserOrders(userID uint) ([]model.Order, error) {
	logger.Debug("Fetching user orders", map[string]interface{}{
		"user_id": userID,
	})

	orders, err := s.orderRepo.FindByUserID(userID)
	if err != nil {
		logger.Error("Failed to fetch user orders", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Info("User orders fetched", map[string]interface{}{
		"user_id": userID,
		"count":   len(orders),
	})
	return orders, nil
}

func (s *orderService) GetOrderByID(orderID uint, userID *uint, isAdmin bool) (*model.Order, error) {
	logger.Debug("Fetching order by ID", map[string]interface{}{
		"order_id": orderID,
		"user_id":  userID,
	})

	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Order not found", map[string]interface{}{
				"order_id": orderID,
			})
			return nil, ErrOrderNotFound
		}
		logger.Error("Failed to fetch order", err, map[string]interface{}{
			"order_id": orderID,
		})
		return nil, err
	}

	if !isAdmin {
		if userID == nil || order.UserID == nil || *order.UserID != *userID {
			logger.Warn("Order access denied: ownership mismatch", map[string]interface{}{
				"order_id": orderID,
				"user_id":  userID,
			})
			return nil, ErrOrderNotFound
		}
	}
	return order, nil
}

func (s *orderService) ListOrders(status string, page, limit int) ([]model.Order, int64, error) {
	logger.Debug("Listing orders", map[string]interface{}{
		"status": status,
		"page":   page,
		"limit":  limit,
	})

	if status != "" && !model.ValidOrderStatus(model.OrderStatus(status)) {
		return nil, 0, ErrOrderInvalidStatus
	}

	orders, total, err := s.orderRepo.FindAll(status, page, limit)
	if err != nil {
		logger.Error("Failed to list orders", err)
		return nil, 0, err
	}
	return orders, total, nil
}

func (s *orderService) UpdateOrderStatus(ctx context.Context, orderID uint, status model.OrderStatus) (*model.Order, error) {
	logger.Info("Updating order status", map[string]interface{}{
		"order_id": orderID,
		"status":   status,
	})

	if !model.ValidOrderStatus(status) {
		return nil, ErrOrderInvalidStatus
	}

	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		logger.Error("Failed to fetch order for status update", err, map[string]interface{}{
			"order_id": orderID,
		})
		return nil, err
	}

	previous := order.Status
	if previous == status {
		return order, nil
	}
	if !canTransition(previous, status) {
		logger.Warn("Illegal order status transition", map[string]interface{}{
			"order_id": orderID,
			"from":     previous,
			"to":       status,
		})
		return nil, ErrOrderInvalidStatus
	}

	order.Status = status
	if status == model.OrderStatusPaid && order.PaidAt == nil {
		now := time.Now()
		order.PaidAt = &now
	}

	if err := s.orderRepo.Update(order); err != nil {
		logger.Error("Failed to update order status", err, map[string]interface{}{
			"order_id": orderID,
		})
		return nil, err
	}

	// CANCELLED là trạng thái cuối nên hàng chỉ được trả về kho một lần.
	if status == model.OrderStatusCancelled {
		s.restockOrderItems(order)
	}

	if s.notificationSvc != nil {
		s.notificationSvc.NotifyOrderStatusChanged(order, previous)
	}
	s.producer.PublishOrderEvent(ctx, events.OrderEvent{
		Event:         events.EventOrderStatusChanged,
		OrderID:       order.ID,
		UserID:        order.UserID,
		Status:        string(order.Status),
		PaymentMethod: string(order.PaymentMethod),
		Total:         order.Total,
		OccurredAt:    time.Now(),
	})

	logger.Info("Order status updated", map[string]interface{}{
		"order_id": orderID,
		"from":     previous,
		"to":       status,
	})
	return order, nil
}

func (s *orderService) restockOrderItems(order *model.Order) {
	for _, item := range order.OrderItems {
		if err := s.productRepo.RestoreStock(item.ProductID, item.Quantity); err != nil {
			logger.Error("Failed to restore stock", err, map[string]interface{}{
				"order_id":   order.ID,
				"product_id": item.ProductID,
				"quantity":   item.Quantity,
			})
		}
	}
}

func (s *orderService) SearchGuestOrders(query string) ([]model.Order, error) {
	logger.Debug("Searching guest orders", map[string]interface{}{
		"query": query,
	})

	query = strings.TrimSpace(query)
	if query == "" {
		return []model.Order{}, nil
	}

	orders, err := s.orderRepo.FindByGuestContact(query, query)
	if err != nil {
		logger.Error("Failed to search guest orders", err, map[string]interface{}{
			"query": query,
		})
		return nil, err
	}

	logger.Info("Guest orders searched", map[string]interface{}{
		"query": query,
		"count": len(orders),
	})
	return orders, nil
}

// CancelExpiredOrders huỷ các đơn PENDING quá hạn thanh toán, trả hàng về kho
// và báo cho người đặt. COD không bị huỷ vì không cần thanh toán trước.
func (s *orderService) CancelExpiredOrders(ctx context.Context, olderThan time.Duration) (int, error) {
	cutoff := time.Now().Add(-olderThan)
	logger.Info("Cancelling expired pending orders", map[string]interface{}{
		"cutoff": cutoff,
	})

	orders, err := s.orderRepo.FindExpiredPending(cutoff)
	if err != nil {
		logger.Error("Failed to fetch expired orders", err)
		return 0, err
	}

	cancelled := 0
	for i := range orders {
		order := &orders[i]

		// Điều kiện status=PENDING chặn race với admin vừa đổi trạng thái.
		result := s.db.Model(&model.Order{}).
			Where("id = ? AND status = ?", order.ID, model.OrderStatusPending).
			Update("status", model.OrderStatusCancelled)
		if result.Error != nil {
			logger.Error("Failed to cancel expired order", result.Error, map[string]interface{}{
				"order_id": order.ID,
			})
			continue
		}
		if result.RowsAffected == 0 {
			continue
		}

		order.Status = model.OrderStatusCancelled
		s.restockOrderItems(order)
		cancelled++

		if s.notificationSvc != nil {
			s.notificationSvc.NotifyOrderExpired(order)
		}
		s.producer.PublishOrderEvent(ctx, events.OrderEvent{
			Event:         events.EventOrderStatusChanged,
			OrderID:       order.ID,
			UserID:        order.UserID,
			Status:        string(model.OrderStatusCancelled),
			PaymentMethod: string(order.PaymentMethod),
			Total:         order.Total,
			OccurredAt:    time.Now(),
		})
	}

	logger.Info("Expired orders cancelled", map[string]interface{}{
		"count": cancelled,
	})
	return cancelled, nil
}

func (s *orderService) GetDashboardStats() (map[string]interface{}, error) {
	logger.Debug("Fetching dashboard stats", nil)

	stats, err := s.orderRepo.GetStats()
	if err != nil {
		logger.Error("Failed to fetch dashboard stats", err)
		return nil, err
	}

	recent, _, err := s.orderRepo.FindAll("", 1, 5)
	if err != nil {
		logger.Error("Failed to fetch recent orders for dashboard", err)
		return nil, err
	}
	stats["recent_orders"] = recent

	lowStock, err := s.productRepo.FindLowStock(lowStockThreshold, 10)
	if err != nil {
		logger.Error("Failed to fetch low stock products for dashboard", err)
		return nil, err
	}
	stats["low_stock_products"] = lowStock

	return stats, nil
}
