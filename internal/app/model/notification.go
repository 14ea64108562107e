package model

import (
	"time"

	"gorm.io/gorm"
)

type NotificationType string

const (
	NotificationTypeOrderCreated  NotificationType = "order_created"  // Đơn hàng mới
	NotificationTypeOrderStatus   NotificationType = "order_status"   // Đơn hàng đổi trạng thái
	NotificationTypeOrderExpired  NotificationType = "order_expired"  // Đơn hàng bị huỷ do quá hạn thanh toán
	NotificationTypeReviewCreated NotificationType = "review_created" // Có đánh giá mới
)

type RecipientType string

const (
	RecipientUser  RecipientType = "USER"  // Gửi cho một người dùng cụ thể
	RecipientAdmin RecipientType = "ADMIN" // Gửi cho toàn bộ quản trị viên
)

// Notification thông báo trong hệ thống
type Notification struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Người nhận: UserID NULL với RecipientAdmin nghĩa là gửi cho mọi admin
	RecipientType RecipientType `gorm:"type:varchar(10);not null;index" json:"recipient_type"`
	UserID        *uint         `gorm:"index" json:"user_id,omitempty"`
	User          *User         `gorm:"foreignKey:UserID" json:"user,omitempty"`

	// Loại thông báo
	Type NotificationType `gorm:"type:varchar(50);not null;index" json:"type"`

	// Nội dung
	Title   string `gorm:"type:text;not null" json:"title"`
	Content string `gorm:"type:text;not null" json:"content"`
	Link    string `gorm:"type:text" json:"link"`

	// Trạng thái
	IsRead bool `gorm:"default:false;index" json:"is_read"`

	// Dữ liệu liên quan (nullable)
	RelatedOrderID   *uint `gorm:"index" json:"related_order_id,omitempty"`
	RelatedProductID *uint `gorm:"index" json:"related_product_id,omitempty"`
}

func (Notification) TableName() string {
	return "notifications"
}
