package model

import (
	"time"

	"gorm.io/gorm"
)

// Category danh mục sản phẩm (yến thô, yến tinh chế, yến chưng sẵn, ...)
type Category struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	Name        string         `gorm:"not null" json:"name"`
	Slug        string         `gorm:"uniqueIndex;not null" json:"slug"`
	Description string         `gorm:"type:text" json:"description"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Products []Product `gorm:"foreignKey:CategoryID" json:"-"`
}

func (Category) TableName() string {
	return "categories"
}

type Product struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	Name          string         `gorm:"not null" json:"name"`
	Slug          string         `gorm:"uniqueIndex;not null" json:"slug"`
	Description   string         `gorm:"type:text" json:"description"`
	Price         float64        `gorm:"not null" json:"price"`                 // Giá bán (VND)
	OriginalPrice float64        `json:"original_price"`                        // Giá gốc trước khuyến mãi (VND)
	Weight        float64        `json:"weight"`                                // Khối lượng (gram)
	Origin        string         `json:"origin"`                                // Xuất xứ (ví dụ: Khánh Hoà)
	CategoryID    *uint          `gorm:"index" json:"category_id,omitempty"`    // Danh mục
	StockQuantity int            `gorm:"default:0" json:"stock_quantity"`       // Tồn kho
	IsActive      bool           `gorm:"default:true;index" json:"is_active"`   // Còn kinh doanh
	IsFeatured    bool           `gorm:"default:false" json:"is_featured"`      // Sản phẩm nổi bật
	RatingAvg     float64        `gorm:"default:0" json:"rating_avg"`           // Điểm đánh giá trung bình
	RatingCount   int            `gorm:"default:0" json:"rating_count"`         // Số lượt đánh giá
	SoldCount     int            `gorm:"default:0" json:"sold_count"`           // Số lượng đã bán
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Category   *Category      `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Images     []ProductImage `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"images,omitempty"`
	OrderItems []OrderItem    `gorm:"foreignKey:ProductID" json:"-"`
	CartItems  []CartItem     `gorm:"foreignKey:ProductID" json:"-"`
}

func (Product) TableName() string {
	return "products"
}

// ProductImage ảnh sản phẩm, sắp theo SortOrder
type ProductImage struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	ProductID uint      `gorm:"not null;index" json:"product_id"`
	URL       string    `gorm:"not null" json:"url"`
	SortOrder int       `gorm:"default:0" json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
}

func (ProductImage) TableName() string {
	return "product_images"
}
