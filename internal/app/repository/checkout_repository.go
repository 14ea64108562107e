package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/minhngo/birdnest-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// CheckoutDraftItem một dòng hàng trong phiên checkout
type CheckoutDraftItem struct {
	ProductID   uint    `json:"product_id"`
	ProductName string  `json:"product_name"`
	Price       float64 `json:"price"` // Đơn giá lấy từ DB tại thời điểm checkout
	Quantity    int     `json:"quantity"`
}

// CheckoutDraftInfo thông tin giao hàng khách nhập ở bước checkout
type CheckoutDraftInfo struct {
	FullName     string `json:"full_name"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	Address      string `json:"address"`
	Apartment    string `json:"apartment,omitempty"`
	ProvinceCode string `json:"province_code"`
	Province     string `json:"province"`
	DistrictCode string `json:"district_code"`
	District     string `json:"district"`
	WardCode     string `json:"ward_code"`
	Ward         string `json:"ward"`
	Note         string `json:"note,omitempty"`
}

// CheckoutDraft phiên checkout lưu trong Redis, cầu nối giữa bước
// nhập thông tin và bước chọn phương thức thanh toán
type CheckoutDraft struct {
	Token       string              `json:"token"`
	UserID      *uint               `json:"user_id,omitempty"`
	Items       []CheckoutDraftItem `json:"items"`
	Info        CheckoutDraftInfo   `json:"info"`
	Subtotal    float64             `json:"subtotal"`
	DeliveryFee float64             `json:"delivery_fee"`
	Total       float64             `json:"total"`
	ExpiresAt   time.Time           `json:"expires_at"`
}

// ErrDraftNotFound được trả về khi phiên checkout không tồn tại hoặc đã hết hạn
var ErrDraftNotFound = redis.Nil

type CheckoutRepository interface {
	SaveDraft(ctx context.Context, draft *CheckoutDraft, ttl time.Duration) error
	GetDraft(ctx context.Context, token string) (*CheckoutDraft, error)
	DeleteDraft(ctx context.Context, token string) error
}

type checkoutRepository struct {
	client *redis.Client
}

func NewCheckoutRepository(client *redis.Client) CheckoutRepository {
	return &checkoutRepository{client: client}
}

func draftKey(token string) string {
	return fmt.Sprintf("checkout:draft:%s", token)
}

func (r *checkoutRepository) SaveDraft(ctx context.Context, draft *CheckoutDraft, ttl time.Duration) error {
	logger.Debug("Saving checkout draft to Redis", map[string]interface{}{
		"token": draft.Token,
		"total": draft.Total,
		"ttl":   ttl.String(),
	})

	data, err := json.Marshal(draft)
	if err != nil {
		logger.Error("Failed to marshal checkout draft", err, map[string]interface{}{
			"token": draft.Token,
		})
		return err
	}

	if err := r.client.Set(ctx, draftKey(draft.Token), data, ttl).Err(); err != nil {
		logger.Error("Failed to save checkout draft to Redis", err, map[string]interface{}{
			"token": draft.Token,
		})
		return err
	}

	logger.Debug("Checkout draft saved to Redis", map[string]interface{}{
		"token": draft.Token,
	})
	return nil
}

func (r *checkoutRepository) GetDraft(ctx context.Context, token string) (*CheckoutDraft, error) {
	logger.Debug("Loading checkout draft from Redis", map[string]interface{}{
		"token": token,
	})

	data, err := r.client.Get(ctx, draftKey(token)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrDraftNotFound
		}
		logger.Error("Failed to load checkout draft from Redis", err, map[string]interface{}{
			"token": token,
		})
		return nil, err
	}

	var draft CheckoutDraft
	if err := json.Unmarshal(data, &draft); err != nil {
		logger.Error("Failed to unmarshal checkout draft", err, map[string]interface{}{
			"token": token,
		})
		return nil, err
	}

	return &draft, nil
}

func (r *checkoutRepository) DeleteDraft(ctx context.Context, token string) error {
	logger.Debug("Deleting checkout draft from Redis", map[string]interface{}{
		"token": token,
	})

	if err := r.client.Del(ctx, draftKey(token)).Err(); err != nil {
		logger.Error("Failed to delete checkout draft from Redis", err, map[string]interface{}{
			"token": token,
		})
		return err
	}
	return nil
}
