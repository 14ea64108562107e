package model

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Review đánh giá sản phẩm
type Review struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Thông tin cơ bản
	ProductID uint    `gorm:"not null;index:idx_review_product_user,unique" json:"product_id"` // Sản phẩm
	Product   Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	UserID    uint    `gorm:"not null;index:idx_review_product_user,unique" json:"user_id"` // Người viết
	User      User    `gorm:"foreignKey:UserID" json:"user"`
	Rating    int     `gorm:"not null" json:"rating"`            // Điểm (1-5)
	Content   string  `gorm:"type:text;not null" json:"content"` // Nội dung

	// Ảnh đính kèm
	ImageURLs pq.StringArray `gorm:"type:text[];default:'{}'" json:"image_urls,omitempty"`

	// Đánh giá từ đơn hàng đã mua
	IsVerified bool `gorm:"default:false" json:"is_verified"`
}

func (Review) TableName() string {
	return "reviews"
}
