package repository

import (
	"time"

	"github.com/minhngo/birdnest-backend/internal/app/model"
	"github.com/minhngo/birdnest-backend/pkg/logger"
	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(order *model.Order) error
	FindByID(id uint) (*model.Order, error)
	FindByUserID(userID uint) ([]model.Order, error)
	FindByGuestContact(email, phone string) ([]model.Order, error)
	FindByIdempotencyKey(key string) (*model.Order, error)
	FindAll(status string, page, limit int) ([]model.Order, int64, error)
	FindExpiredPending(before time.Time) ([]model.Order, error)
	Update(order *model.Order) error
	UpdateStatus(id uint, status model.OrderStatus) error
	GetStats() (map[string]interface{}, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) preloadOrder() *gorm.DB {
	return r.db.Preload("OrderItems", func(db *gorm.DB) *gorm.DB {
		return db.Preload("Product", func(pdb *gorm.DB) *gorm.DB {
			return pdb.Preload("Images")
		})
	}).Preload("User")
}

func (r *orderRepository) Create(order *model.Order) error {
	logger.Debug("Creating order in database", map[string]interface{}{
		"user_id":        order.UserID,
		"total":          order.Total,
		"payment_method": order.PaymentMethod,
	})

	if err := r.db.Create(order).Error; err != nil {
		logger.Error("Failed to create order in database", err, map[string]interface{}{
			"user_id":        order.UserID,
			"total":          order.Total,
			"payment_method": order.PaymentMethod,
		})
		return err
	}

	logger.Debug("Order created in database", map[string]interface{}{
		"order_id":       order.ID,
		"user_id":        order.UserID,
		"total":          order.Total,
		"payment_method": order.PaymentMethod,
	})
	return nil
}

func (r *orderRepository) FindByID(id uint) (*model.Order, error) {
	logger.Debug("Finding order by ID in database", map[string]interface{}{
		"order_id": id,
	})

	var order model.Order
	if err := r.preloadOrder().First(&order, id).Error; err != nil {
		logger.Error("Failed to find order by ID in database", err, map[string]interface{}{
			"order_id": id,
		})
		return nil, err
	}

	logger.Debug("Order found by ID in database", map[string]interface{}{
		"order_id": order.ID,
		"status":   order.Status,
	})
	return &order, nil
}

func (r *orderRepository) FindByUserID(userID uint) ([]model.Order, error) {
	logger.Debug("Finding orders by user ID in database", map[string]interface{}{
		"user_id": userID,
	})

	var orders []model.Order
	if err := r.preloadOrder().Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		logger.Error("Failed to find orders by user ID in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Debug("Orders found by user ID in database", map[string]interface{}{
		"user_id": userID,
		"count":   len(orders),
	})
	return orders, nil
}

// FindByGuestContact tra cứu đơn của khách vãng lai theo email hoặc SĐT
func (r *orderRepository) FindByGuestContact(email, phone string) ([]model.Order, error) {
	logger.Debug("Finding guest orders in database", map[string]interface{}{
		"has_email": email != "",
		"has_phone": phone != "",
	})

	query := r.preloadOrder().Where("user_id IS NULL")
	switch {
	case email != "" && phone != "":
		query = query.Where("guest_email = ? OR guest_phone = ?", email, phone)
	case email != "":
		query = query.Where("guest_email = ?", email)
	default:
		query = query.Where("guest_phone = ?", phone)
	}

	var orders []model.Order
	if err := query.Order("created_at DESC").Find(&orders).Error; err != nil {
		logger.Error("Failed to find guest orders in database", err, nil)
		return nil, err
	}

	logger.Debug("Guest orders found in database", map[string]interface{}{
		"count": len(orders),
	})
	return orders, nil
}

func (r *orderRepository) FindByIdempotencyKey(key string) (*model.Order, error) {
	var order model.Order
	if err := r.preloadOrder().Where("idempotency_key = ?", key).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) FindAll(status string, page, limit int) ([]model.Order, int64, error) {
	logger.Debug("Finding all orders in database", map[string]interface{}{
		"status": status,
		"page":   page,
		"limit":  limit,
	})

	query := r.db.Model(&model.Order{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Error("Failed to count orders in database", err, nil)
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	findQuery := r.preloadOrder()
	if status != "" {
		findQuery = findQuery.Where("status = ?", status)
	}

	var orders []model.Order
	if err := findQuery.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&orders).Error; err != nil {
		logger.Error("Failed to find all orders in database", err, map[string]interface{}{
			"status": status,
		})
		return nil, 0, err
	}

	logger.Debug("Orders found in database", map[string]interface{}{
		"count": len(orders),
		"total": total,
	})
	return orders, total, nil
}

// FindExpiredPending lấy các đơn PENDING không phải COD tạo trước thời điểm cutoff
func (r *orderRepository) FindExpiredPending(before time.Time) ([]model.Order, error) {
	var orders []model.Order
	if err := r.db.Preload("OrderItems").
		Where("status = ? AND payment_method <> ? AND created_at < ?",
			model.OrderStatusPending, model.PaymentMethodCOD, before).
		Find(&orders).Error; err != nil {
		logger.Error("Failed to find expired pending orders in database", err, nil)
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) Update(order *model.Order) error {
	logger.Debug("Updating order in database", map[string]interface{}{
		"order_id": order.ID,
		"status":   order.Status,
	})

	if err := r.db.Save(order).Error; err != nil {
		logger.Error("Failed to update order in database", err, map[string]interface{}{
			"order_id": order.ID,
		})
		return err
	}

	logger.Debug("Order updated in database", map[string]interface{}{
		"order_id": order.ID,
		"status":   order.Status,
	})
	return nil
}

func (r *orderRepository) UpdateStatus(id uint, status model.OrderStatus) error {
	logger.Debug("Updating order status in database", map[string]interface{}{
		"order_id": id,
		"status":   status,
	})

	if err := r.db.Model(&model.Order{}).Where("id = ?", id).
		Update("status", status).Error; err != nil {
		logger.Error("Failed to update order status in database", err, map[string]interface{}{
			"order_id": id,
			"status":   status,
		})
		return err
	}

	logger.Debug("Order status updated in database", map[string]interface{}{
		"order_id": id,
		"status":   status,
	})
	return nil
}

func (r *orderRepository) GetStats() (map[string]interface{}, error) {
	logger.Debug("Getting order statistics in database", nil)

	var totalOrders int64
	var pendingOrders int64
	var paidOrders int64
	var shippedOrders int64
	var deliveredOrders int64
	var cancelledOrders int64
	var totalRevenue float64
	var totalProducts int64
	var totalUsers int64

	if err := r.db.Model(&model.Order{}).Count(&totalOrders).Error; err != nil {
		logger.Error("Failed to count total orders", err, nil)
		return nil, err
	}

	statusCounts := []struct {
		Status model.OrderStatus
		Count  int64
	}{}
	if err := r.db.Model(&model.Order{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&statusCounts).Error; err != nil {
		logger.Error("Failed to count orders by status", err, nil)
		return nil, err
	}

	for _, sc := range statusCounts {
		switch sc.Status {
		case model.OrderStatusPending:
			pendingOrders = sc.Count
		case model.OrderStatusPaid:
			paidOrders = sc.Count
		case model.OrderStatusShipped:
			shippedOrders = sc.Count
		case model.OrderStatusDelivered:
			deliveredOrders = sc.Count
		case model.OrderStatusCancelled:
			cancelledOrders = sc.Count
		}
	}

	// Doanh thu chỉ tính các đơn đã thanh toán hoặc đã giao
	var revenueResult struct {
		TotalRevenue float64
	}
	if err := r.db.Model(&model.Order{}).
		Select("COALESCE(SUM(total), 0) as total_revenue").
		Where("status IN ?", []model.OrderStatus{
			model.OrderStatusPaid, model.OrderStatusShipped, model.OrderStatusDelivered,
		}).
		Scan(&revenueResult).Error; err != nil {
		logger.Error("Failed to calculate total revenue", err, nil)
		return nil, err
	}
	totalRevenue = revenueResult.TotalRevenue

	if err := r.db.Model(&model.Product{}).Count(&totalProducts).Error; err != nil {
		logger.Error("Failed to count total products", err, nil)
		return nil, err
	}

	if err := r.db.Model(&model.User{}).Count(&totalUsers).Error; err != nil {
		logger.Error("Failed to count total users", err, nil)
		return nil, err
	}

	stats := map[string]interface{}{
		"total_orders":     totalOrders,
		"pending_orders":   pendingOrders,
		"paid_orders":      paidOrders,
		"shipped_orders":   shippedOrders,
		"delivered_orders": deliveredOrders,
		"cancelled_orders": cancelledOrders,
		"total_revenue":    totalRevenue,
		"total_products":   totalProducts,
		"total_users":      totalUsers,
	}

	logger.Debug("Order statistics retrieved in database", map[string]interface{}{
		"total_orders":  totalOrders,
		"total_revenue": totalRevenue,
	})

	return stats, nil
}
