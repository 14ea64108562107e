package service

import (
	"github.com/minhngo/birdnest-backend/internal/app/model"
	"github.com/minhngo/birdnest-backend/pkg/logger"
)

// PaymentMethodInfo mô tả một phương thức thanh toán cho màn hình chọn.
// Nội dung hướng dẫn là tĩnh; trạng thái bật/tắt đọc từ settings.
type PaymentMethodInfo struct {
	Method      model.PaymentMethod `json:"method"`
	Alias       string              `json:"alias"`
	Label       string              `json:"label"`
	Description string              `json:"description"`
	Enabled     bool                `json:"enabled"`
	Details     map[string]string   `json:"details,omitempty"`
}

type PaymentService interface {
	ListMethods() ([]PaymentMethodInfo, error)
}

type paymentService struct {
	settingSvc SettingService
}

func NewPaymentService(settingSvc SettingService) PaymentService {
	return &paymentService{settingSvc: settingSvc}
}

func (s *paymentService) ListMethods() ([]PaymentMethodInfo, error) {
	settings, err := s.settingSvc.GetPublicSettings()
	if err != nil {
		logger.Error("Failed to load settings for payment methods", err)
		return nil, err
	}

	enabled := func(key string, fallback bool) bool {
		raw, ok := settings[key]
		if !ok {
			return fallback
		}
		return raw == "true" || raw == "1"
	}

	bankDetails := map[string]string{
		"bank_name":      settings[model.SettingBankName],
		"account_number": settings[model.SettingBankAccountNumber],
		"account_name":   settings[model.SettingBankAccountName],
	}

	methods := []PaymentMethodInfo{
		{
			Method:      model.PaymentMethodCOD,
			Alias:       "cod",
			Label:       "Thanh toán khi nhận hàng",
			Description: "Thanh toán tiền mặt cho nhân viên giao hàng.",
			Enabled:     enabled("payment_cod_enabled", true),
		},
		{
			Method:      model.PaymentMethodBankTransfer,
			Alias:       "bank",
			Label:       "Chuyển khoản ngân hàng",
			Description: "Chuyển khoản theo thông tin bên dưới, ghi rõ mã đơn hàng trong nội dung.",
			Enabled:     enabled("payment_bank_enabled", true),
			Details:     bankDetails,
		},
		{
			Method:      model.PaymentMethodMomo,
			Alias:       "momo",
			Label:       "Ví MoMo",
			Description: "Chuyển qua ví MoMo theo số điện thoại cửa hàng, ghi rõ mã đơn hàng.",
			Enabled:     enabled("payment_momo_enabled", true),
			Details: map[string]string{
				"phone": settings[model.SettingStorePhone],
				"name":  settings[model.SettingStoreName],
			},
		},
		{
			Method:      model.PaymentMethodVNPay,
			Alias:       "vnpay",
			Label:       "VNPAY",
			Description: "Quét mã QR VNPAY tại quầy hoặc theo hướng dẫn của cửa hàng.",
			Enabled:     enabled("payment_vnpay_enabled", false),
		},
		{
			Method:      model.PaymentMethodStripe,
			Alias:       "stripe",
			Label:       "Thẻ quốc tế",
			Description: "Sắp ra mắt.",
			Enabled:     enabled("payment_stripe_enabled", false),
		},
	}

	return methods, nil
}
