// Package events phát sự kiện domain lên Kafka cho các hệ thống hạ nguồn
// (kho vận, đối soát). Việc phát là best-effort: lỗi chỉ được ghi log,
// không bao giờ làm hỏng giao dịch tạo đơn.
package events

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/minhngo/birdnest-backend/config"
	"github.com/minhngo/birdnest-backend/pkg/logger"
	"github.com/segmentio/kafka-go"
)

const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
)

// OrderEvent payload sự kiện đơn hàng ghi lên topic.
type OrderEvent struct {
	Event         string    `json:"event"`
	OrderID       uint      `json:"order_id"`
	UserID        *uint     `json:"user_id,omitempty"`
	Status        string    `json:"status"`
	PaymentMethod string    `json:"payment_method"`
	Total         float64   `json:"total"`
	OccurredAt    time.Time `json:"occurred_at"`
}

type Producer struct {
	writer *kafka.Writer
}

// NewProducer trả về producer vô hiệu (no-op) khi Kafka bị tắt trong cấu hình.
func NewProducer(cfg *config.KafkaConfig) *Producer {
	if !cfg.Enabled || len(cfg.Brokers) == 0 {
		logger.Info("Kafka producer disabled", nil)
		return &Producer{}
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}

	logger.Info("Kafka producer initialized", map[string]interface{}{
		"brokers": cfg.Brokers,
		"topic":   cfg.Topic,
	})
	return &Producer{writer: writer}
}

// PublishOrderEvent ghi một sự kiện đơn hàng, key theo order_id để giữ thứ tự.
func (p *Producer) PublishOrderEvent(ctx context.Context, evt OrderEvent) {
	if p == nil || p.writer == nil {
		return
	}

	data, err := json.Marshal(evt)
	if err != nil {
		logger.Error("Failed to marshal order event", err, map[string]interface{}{
			"order_id": evt.OrderID,
		})
		return
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatUint(uint64(evt.OrderID), 10)),
		Value: data,
	})
	if err != nil {
		logger.Warn("Failed to publish order event", map[string]interface{}{
			"event":    evt.Event,
			"order_id": evt.OrderID,
			"error":    err.Error(),
		})
		return
	}

	logger.Debug("Order event published", map[string]interface{}{
		"event":    evt.Event,
		"order_id": evt.OrderID,
	})
}

func (p *Producer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
