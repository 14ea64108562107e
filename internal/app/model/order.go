package model

import (
	"time"

	"gorm.io/gorm"
)

type OrderStatus string   // Mã trạng thái đơn hàng
type PaymentMethod string // Mã phương thức thanh toán

const (
	OrderStatusPending   OrderStatus = "PENDING"   // Chờ xử lý / chờ thanh toán
	OrderStatusPaid      OrderStatus = "PAID"      // Đã thanh toán
	OrderStatusShipped   OrderStatus = "SHIPPED"   // Đang giao
	OrderStatusDelivered OrderStatus = "DELIVERED" // Đã giao
	OrderStatusCancelled OrderStatus = "CANCELLED" // Đã huỷ

	PaymentMethodCOD          PaymentMethod = "COD"           // Thanh toán khi nhận hàng
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER" // Chuyển khoản ngân hàng
	PaymentMethodStripe       PaymentMethod = "STRIPE"        // Thẻ quốc tế qua Stripe
	PaymentMethodMomo         PaymentMethod = "MOMO"          // Ví MoMo
	PaymentMethodVNPay        PaymentMethod = "VNPAY"         // Cổng VNPAY
)

// ValidOrderStatus kiểm tra chuỗi trạng thái hợp lệ
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

type Order struct {
	ID              uint           `gorm:"primarykey" json:"id"`                                      // ID đơn hàng
	UserID          *uint          `gorm:"index" json:"user_id,omitempty"`                            // ID người mua (NULL nếu là khách vãng lai)
	GuestName       string         `gorm:"size:100" json:"guest_name,omitempty"`                      // Tên khách vãng lai
	GuestEmail      string         `gorm:"size:255;index" json:"guest_email,omitempty"`               // Email khách vãng lai
	GuestPhone      string         `gorm:"size:30;index" json:"guest_phone,omitempty"`                // SĐT khách vãng lai
	Subtotal        float64        `gorm:"not null" json:"subtotal"`                                  // Tổng tiền hàng
	DeliveryFee     float64        `gorm:"not null" json:"delivery_fee"`                              // Phí vận chuyển
	Total           float64        `gorm:"not null" json:"total"`                                     // Tổng thanh toán = Subtotal + DeliveryFee
	Status          OrderStatus    `gorm:"type:varchar(20);default:'PENDING';index" json:"status"`    // Trạng thái đơn
	PaymentMethod   PaymentMethod  `gorm:"type:varchar(20);not null" json:"payment_method"`           // Phương thức thanh toán
	PaidAt          *time.Time     `json:"paid_at,omitempty"`                                         // Thời điểm thanh toán
	ShippingAddress string         `gorm:"type:text;not null" json:"shipping_address"`                // Địa chỉ giao hàng (chuỗi đã ghép)
	IdempotencyKey  *string        `gorm:"size:64;uniqueIndex:idx_orders_idempotency_key" json:"-"`   // Khoá chống tạo trùng (client gửi lên)
	CreatedAt       time.Time      `json:"created_at"`                                                // Thời điểm tạo
	UpdatedAt       time.Time      `json:"updated_at"`                                                // Thời điểm cập nhật
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`                                            // Thời điểm xoá (soft delete)

	User       *User       `gorm:"foreignKey:UserID" json:"user,omitempty"`                                     // Người mua
	OrderItems []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"order_items,omitempty"` // Danh sách mặt hàng
}

func (Order) TableName() string {
	return "orders"
}

type OrderItem struct {
	ID          uint           `gorm:"primarykey" json:"id"`             // ID mặt hàng
	OrderID     uint           `gorm:"not null;index" json:"order_id"`   // ID đơn hàng
	ProductID   uint           `gorm:"not null;index" json:"product_id"` // ID sản phẩm
	ProductName string         `gorm:"not null" json:"product_name"`     // Tên sản phẩm tại thời điểm đặt
	Quantity    int            `gorm:"not null" json:"quantity"`         // Số lượng
	Price       float64        `gorm:"not null" json:"price"`            // Đơn giá tại thời điểm đặt (giá trong DB, không phải giá client gửi)
	CreatedAt   time.Time      `json:"created_at"`                       // Thời điểm tạo
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                   // Thời điểm xoá (soft delete)

	Order   Order   `gorm:"foreignKey:OrderID" json:"-"`                   // Đơn hàng
	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"` // Sản phẩm
}

func (OrderItem) TableName() string {
	return "order_items"
}
