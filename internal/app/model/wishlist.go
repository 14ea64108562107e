package model

import (
	"time"

	"gorm.io/gorm"
)

type WishlistItem struct {
	ID        uint           `gorm:"primaryKey" json:"id"`                                              // ID mục yêu thích
	UserID    uint           `gorm:"not null;index:idx_wishlist_user_product,unique" json:"user_id"`    // ID người dùng
	ProductID uint           `gorm:"not null;index:idx_wishlist_user_product,unique" json:"product_id"` // ID sản phẩm
	CreatedAt time.Time      `json:"created_at"`                                                        // Thời điểm tạo
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                                                    // Thời điểm xoá (soft delete)

	// Associations (loaded with Preload)
	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"` // Sản phẩm
}

func (WishlistItem) TableName() string {
	return "wishlist_items"
}
