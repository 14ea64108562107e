package model

import "time"

// Các khoá cấu hình cửa hàng
const (
	SettingStoreName             = "store_name"
	SettingStorePhone            = "store_phone"
	SettingStoreEmail            = "store_email"
	SettingStoreAddress          = "store_address"
	SettingDeliveryFee           = "delivery_fee"
	SettingFreeShippingThreshold = "free_shipping_threshold"
	SettingBankName              = "bank_name"
	SettingBankAccountNumber     = "bank_account_number"
	SettingBankAccountName       = "bank_account_name"
)

// Setting cấu hình cửa hàng dạng key/value
type Setting struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Key       string    `gorm:"uniqueIndex;not null" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Setting) TableName() string {
	return "settings"
}
