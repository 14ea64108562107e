package scheduler

import (
	"context"
	"time"

	"github.com/minhngo/birdnest-backend/internal/app/service"
	"github.com/minhngo/birdnest-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// OrderExpiryScheduler huỷ các đơn chuyển khoản quá hạn chưa thanh toán
type OrderExpiryScheduler struct {
	cron         *cron.Cron
	orderService service.OrderService
	spec         string
	expiryAfter  time.Duration
}

// NewOrderExpiryScheduler tạo scheduler huỷ đơn quá hạn
func NewOrderExpiryScheduler(orderService service.OrderService, spec string, expiryAfter time.Duration) *OrderExpiryScheduler {
	return &OrderExpiryScheduler{
		cron:         cron.New(),
		orderService: orderService,
		spec:         spec,
		expiryAfter:  expiryAfter,
	}
}

// Start đăng ký job và khởi động cron
func (s *OrderExpiryScheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, func() {
		logger.Info("Starting scheduled order expiry sweep", map[string]interface{}{
			"older_than": s.expiryAfter.String(),
		})

		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		cancelled, err := s.orderService.CancelExpiredOrders(ctx, s.expiryAfter)
		if err != nil {
			logger.Error("Failed to cancel expired orders from scheduler", err)
			return
		}

		logger.Info("Order expiry sweep completed", map[string]interface{}{
			"cancelled": cancelled,
		})
	})

	if err != nil {
		logger.Error("Failed to add cron job for order expiry", err)
		return err
	}

	s.cron.Start()
	logger.Info("Order expiry scheduler started successfully", map[string]interface{}{
		"spec": s.spec,
	})

	return nil
}

// Stop dừng scheduler
func (s *OrderExpiryScheduler) Stop() {
	logger.Info("Stopping order expiry scheduler...", nil)
	s.cron.Stop()
	logger.Info("Order expiry scheduler stopped", nil)
}
