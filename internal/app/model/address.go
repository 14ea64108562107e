package model

import (
	"time"

	"gorm.io/gorm"
)

type Address struct {
	ID           uint           `gorm:"primaryKey" json:"id"`                // ID địa chỉ
	UserID       uint           `gorm:"not null;index" json:"user_id"`       // ID người dùng
	FullName     string         `gorm:"size:100;not null" json:"full_name"`  // Người nhận
	Phone        string         `gorm:"size:30;not null" json:"phone"`       // Số điện thoại
	Email        string         `gorm:"size:255" json:"email"`               // Email liên hệ
	Address      string         `gorm:"type:text;not null" json:"address"`   // Số nhà, tên đường
	Apartment    string         `gorm:"type:text" json:"apartment"`          // Căn hộ / toà nhà (tuỳ chọn)
	ProvinceCode string         `gorm:"size:10" json:"province_code"`        // Mã tỉnh/thành phố
	Province     string         `gorm:"size:100" json:"province"`            // Tên tỉnh/thành phố
	DistrictCode string         `gorm:"size:10" json:"district_code"`        // Mã quận/huyện
	District     string         `gorm:"size:100" json:"district"`            // Tên quận/huyện
	WardCode     string         `gorm:"size:10" json:"ward_code"`            // Mã phường/xã
	Ward         string         `gorm:"size:100" json:"ward"`                // Tên phường/xã
	IsDefault    bool           `gorm:"default:false" json:"is_default"`     // Địa chỉ mặc định
	CreatedAt    time.Time      `json:"created_at"`                          // Thời điểm tạo
	UpdatedAt    time.Time      `json:"updated_at"`                          // Thời điểm cập nhật
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                      // Thời điểm xoá (soft delete)
}

func (Address) TableName() string {
	return "addresses"
}
