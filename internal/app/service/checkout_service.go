package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minhngo/birdnest-backend/internal/app/model"
	"github.com/minhngo/birdnest-backend/internal/app/repository"
	"github.com/minhngo/birdnest-backend/internal/division"
	"github.com/minhngo/birdnest-backend/pkg/logger"
	"github.com/minhngo/birdnest-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrCheckoutEmptyCart     = errors.New("checkout cart is empty")
	ErrCheckoutDraftNotFound = errors.New("checkout draft not found")
)

var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// CheckoutValidationError mang lỗi theo từng trường để client hiển thị inline.
type CheckoutValidationError struct {
	Fields map[string]string
}

func (e *CheckoutValidationError) Error() string {
	return "checkout info validation failed"
}

type CheckoutInfo struct {
	FullName     string
	Phone        string
	Email        string
	ProvinceCode string
	DistrictCode string
	WardCode     string
	Address      string
	Apartment    string
	Note         string
	AddressMode  string
}

type CheckoutItem struct {
	ProductID uint
	Quantity  int
}

type CheckoutRequest struct {
	Info        CheckoutInfo
	Items       []CheckoutItem
	SaveAddress bool
}

type CheckoutResult struct {
	Token       string
	Subtotal    float64
	DeliveryFee float64
	Total       float64
	ExpiresAt   time.Time
}

type CheckoutService interface {
	CreateDraft(ctx context.Context, userID *uint, req CheckoutRequest) (*CheckoutResult, error)
	GetDraft(ctx context.Context, token string) (*repository.CheckoutDraft, error)
	ConsumeDraft(ctx context.Context, token string)
}

type checkoutService struct {
	checkoutRepo repository.CheckoutRepository
	productRepo  repository.ProductRepository
	addressRepo  repository.AddressRepository
	settingSvc   SettingService
	draftTTL     time.Duration
}

func NewCheckoutService(
	checkoutRepo repository.CheckoutRepository,
	productRepo repository.ProductRepository,
	addressRepo repository.AddressRepository,
	settingSvc SettingService,
	draftTTL time.Duration,
) CheckoutService {
	return &checkoutService{
		checkoutRepo: checkoutRepo,
		productRepo:  productRepo,
		addressRepo:  addressRepo,
		settingSvc:   settingSvc,
		draftTTL:     draftTTL,
	}
}

// validateInfo kiểm tra từng trường, trả về lỗi gắn với tên trường.
func validateInfo(info CheckoutInfo) *CheckoutValidationError {
	fields := map[string]string{}

	if len(strings.TrimSpace(info.FullName)) < 2 {
		fields["full_name"] = "Họ tên phải có ít nhất 2 ký tự"
	}
	if !util.IsValidVNPhone(info.Phone) {
		fields["phone"] = "Số điện thoại không hợp lệ"
	}
	if info.Email != "" && !emailRegex.MatchString(info.Email) {
		fields["email"] = "Email không hợp lệ"
	}
	if !division.Valid(info.ProvinceCode, info.DistrictCode, info.WardCode) {
		fields["province"] = "Thiếu mã tỉnh/quận/phường"
	}
	if len(strings.TrimSpace(info.Address)) < 5 {
		fields["address"] = "Địa chỉ phải có ít nhất 5 ký tự"
	}

	if len(fields) > 0 {
		return &CheckoutValidationError{Fields: fields}
	}
	return nil
}

func (s *checkoutService) CreateDraft(ctx context.Context, userID *uint, req CheckoutRequest) (*CheckoutResult, error) {
	logger.Info("Creating checkout draft", map[string]interface{}{
		"user_id":    userID,
		"item_count": len(req.Items),
	})

	if len(req.Items) == 0 {
		logger.Warn("Checkout rejected: empty cart", map[string]interface{}{
			"user_id": userID,
		})
		return nil, ErrCheckoutEmptyCart
	}

	if vErr := validateInfo(req.Info); vErr != nil {
		logger.Warn("Checkout info validation failed", map[string]interface{}{
			"user_id": userID,
			"fields":  vErr.Fields,
		})
		return nil, vErr
	}

	// Giá luôn lấy từ DB, không tin giá phía client.
	var subtotal float64
	draftItems := make([]repository.CheckoutDraftItem, 0, len(req.Items))
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, &CheckoutValidationError{Fields: map[string]string{
				"products": "Số lượng sản phẩm không hợp lệ",
			}}
		}

		product, err := s.productRepo.FindByID(item.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				logger.Warn("Checkout rejected: product not found", map[string]interface{}{
					"product_id": item.ProductID,
				})
				return nil, ErrProductNotFound
			}
			logger.Error("Failed to fetch product for checkout", err, map[string]interface{}{
				"product_id": item.ProductID,
			})
			return nil, err
		}
		if !product.IsActive {
			logger.Warn("Checkout rejected: product not active", map[string]interface{}{
				"product_id": item.ProductID,
			})
			return nil, ErrProductNotFound
		}
		if product.StockQuantity < item.Quantity {
			logger.Warn("Checkout rejected: insufficient stock", map[string]interface{}{
				"product_id": item.ProductID,
				"requested":  item.Quantity,
				"available":  product.StockQuantity,
			})
			return nil, ErrInsufficientStock
		}

		subtotal += product.Price * float64(item.Quantity)
		draftItems = append(draftItems, repository.CheckoutDraftItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Price:       product.Price,
			Quantity:    item.Quantity,
		})
	}

	deliveryCfg, err := s.settingSvc.GetDeliveryConfig()
	if err != nil {
		return nil, err
	}
	deliveryFee := deliveryCfg.Fee
	if subtotal >= deliveryCfg.FreeShippingThreshold {
		deliveryFee = 0
	}

	if userID != nil && req.SaveAddress {
		// Lưu địa chỉ chỉ là tiện ích phụ, lỗi không được chặn checkout.
		s.saveAddressBestEffort(*userID, req.Info)
	}

	provinceName, districtName, wardName := division.DisplayNames(
		req.Info.ProvinceCode, req.Info.DistrictCode, req.Info.WardCode)

	draft := &repository.CheckoutDraft{
		Token:  uuid.New().String(),
		UserID: userID,
		Items:  draftItems,
		Info: repository.CheckoutDraftInfo{
			FullName:     req.Info.FullName,
			Phone:        req.Info.Phone,
			Email:        req.Info.Email,
			Address:      req.Info.Address,
			Apartment:    req.Info.Apartment,
			ProvinceCode: req.Info.ProvinceCode,
			Province:     provinceName,
			DistrictCode: req.Info.DistrictCode,
			District:     districtName,
			WardCode:     req.Info.WardCode,
			Ward:         wardName,
			Note:         req.Info.Note,
		},
		Subtotal:    subtotal,
		DeliveryFee: deliveryFee,
		Total:       subtotal + deliveryFee,
		ExpiresAt:   time.Now().Add(s.draftTTL),
	}

	if err := s.checkoutRepo.SaveDraft(ctx, draft, s.draftTTL); err != nil {
		logger.Error("Failed to save checkout draft", err, map[string]interface{}{
			"token": draft.Token,
		})
		return nil, err
	}

	logger.Info("Checkout draft created", map[string]interface{}{
		"token":        draft.Token,
		"subtotal":     draft.Subtotal,
		"delivery_fee": draft.DeliveryFee,
		"total":        draft.Total,
	})

	return &CheckoutResult{
		Token:       draft.Token,
		Subtotal:    draft.Subtotal,
		DeliveryFee: draft.DeliveryFee,
		Total:       draft.Total,
		ExpiresAt:   draft.ExpiresAt,
	}, nil
}

func (s *checkoutService) saveAddressBestEffort(userID uint, info CheckoutInfo) {
	count, err := s.addressRepo.CountByUserID(userID)
	if err != nil {
		logger.Warn("Failed to count addresses, skipping address save", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		return
	}

	provinceName, districtName, wardName := division.DisplayNames(
		info.ProvinceCode, info.DistrictCode, info.WardCode)

	address := &model.Address{
		UserID:       userID,
		FullName:     info.FullName,
		Phone:        info.Phone,
		Email:        info.Email,
		Address:      info.Address,
		Apartment:    info.Apartment,
		ProvinceCode: info.ProvinceCode,
		Province:     provinceName,
		DistrictCode: info.DistrictCode,
		District:     districtName,
		WardCode:     info.WardCode,
		Ward:         wardName,
		IsDefault:    count == 0,
	}

	if err := s.addressRepo.Create(address); err != nil {
		logger.Warn("Failed to save checkout address", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		return
	}

	logger.Debug("Checkout address saved", map[string]interface{}{
		"user_id":    userID,
		"address_id": address.ID,
	})
}

func (s *checkoutService) GetDraft(ctx context.Context, token string) (*repository.CheckoutDraft, error) {
	logger.Debug("Fetching checkout draft", map[string]interface{}{
		"token": token,
	})

	draft, err := s.checkoutRepo.GetDraft(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrDraftNotFound) {
			logger.Warn("Checkout draft not found or expired", map[string]interface{}{
				"token": token,
			})
			return nil, ErrCheckoutDraftNotFound
		}
		logger.Error("Failed to fetch checkout draft", err, map[string]interface{}{
			"token": token,
		})
		return nil, err
	}
	return draft, nil
}

// ConsumeDraft xoá bản nháp sau khi đơn hàng đã được tạo thành công.
func (s *checkoutService) ConsumeDraft(ctx context.Context, token string) {
	if token == "" {
		return
	}
	if err := s.checkoutRepo.DeleteDraft(ctx, token); err != nil {
		logger.Warn("Failed to delete checkout draft", map[string]interface{}{
			"token": token,
			"error": err.Error(),
		})
	}
}
