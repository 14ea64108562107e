package repository

import (
	"fmt"

	"github.com/minhngo/birdnest-backend/internal/app/model"
	"github.com/minhngo/birdnest-backend/pkg/logger"
	"gorm.io/gorm"
)

type ProductSort string

const (
	ProductSortPrice     ProductSort = "price"
	ProductSortCreatedAt ProductSort = "created_at"
	ProductSortSold      ProductSort = "sold"
	ProductSortRating    ProductSort = "rating"
)

type ProductFilter struct {
	CategoryID    *uint
	CategorySlug  string
	Search        string
	MinPrice      *float64
	MaxPrice      *float64
	FeaturedOnly  bool
	IncludeHidden bool // Gồm cả sản phẩm ngừng bán (dành cho admin)
	SortBy        ProductSort
	SortAscending bool
	Limit         int
	Offset        int
}

type ProductRepository interface {
	Create(product *model.Product) error
	FindAll() ([]model.Product, error)
	FindWithFilter(filter ProductFilter) ([]model.Product, int64, error)
	FindByID(id uint) (*model.Product, error)
	FindBySlug(slug string) (*model.Product, error)
	Update(product *model.Product) error
	Delete(id uint) error
	RestoreStock(id uint, quantity int) error
	IncrementSoldCount(id uint, quantity int) error
	FindRelated(productID uint, categoryID *uint, limit int) ([]model.Product, error)
	FindLowStock(threshold, limit int) ([]model.Product, error)
	ListCategories() ([]model.Category, error)
	FindCategoryBySlug(slug string) (*model.Category, error)
	CreateCategory(category *model.Category) error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(product *model.Product) error {
	logger.Debug("Creating product in database", map[string]interface{}{
		"name":        product.Name,
		"slug":        product.Slug,
		"category_id": product.CategoryID,
	})

	if err := r.db.Create(product).Error; err != nil {
		logger.Error("Failed to create product in database", err, map[string]interface{}{
			"name": product.Name,
			"slug": product.Slug,
		})
		return err
	}

	logger.Debug("Product created in database", map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
	})
	return nil
}

func (r *productRepository) baseQuery() *gorm.DB {
	return r.db.Model(&model.Product{}).
		Preload("Category").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		})
}

func (r *productRepository) FindAll() ([]model.Product, error) {
	products, _, err := r.FindWithFilter(ProductFilter{})
	return products, err
}

func (r *productRepository) FindWithFilter(filter ProductFilter) ([]model.Product, int64, error) {
	logger.Debug("Finding products with filter", map[string]interface{}{
		"category_id":   filter.CategoryID,
		"category_slug": filter.CategorySlug,
		"search":        filter.Search,
		"featured_only": filter.FeaturedOnly,
		"sort_by":       filter.SortBy,
		"ascending":     filter.SortAscending,
		"limit":         filter.Limit,
		"offset":        filter.Offset,
	})

	query := r.db.Model(&model.Product{})

	if !filter.IncludeHidden {
		query = query.Where("products.is_active = ?", true)
	}

	if filter.CategoryID != nil {
		query = query.Where("products.category_id = ?", *filter.CategoryID)
	}

	if filter.CategorySlug != "" {
		query = query.Joins("JOIN categories ON categories.id = products.category_id").
			Where("categories.slug = ?", filter.CategorySlug)
	}

	if filter.Search != "" {
		like := fmt.Sprintf("%%%s%%", filter.Search)
		query = query.Where("products.name LIKE ? OR products.description LIKE ?", like, like)
	}

	if filter.MinPrice != nil {
		query = query.Where("products.price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("products.price <= ?", *filter.MaxPrice)
	}

	if filter.FeaturedOnly {
		query = query.Where("products.is_featured = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Error("Failed to count products with filter", err, nil)
		return nil, 0, err
	}

	query = query.Preload("Category").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		})

	direction := "DESC"
	if filter.SortAscending {
		direction = "ASC"
	}
	switch filter.SortBy {
	case ProductSortPrice:
		query = query.Order("products.price " + direction)
	case ProductSortSold:
		query = query.Order("products.sold_count " + direction)
		query = query.Order("products.created_at DESC")
	case ProductSortRating:
		query = query.Order("products.rating_avg " + direction)
		query = query.Order("products.rating_count DESC")
	case ProductSortCreatedAt:
		fallthrough
	default:
		query = query.Order("products.created_at " + direction)
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var products []model.Product
	if err := query.Find(&products).Error; err != nil {
		logger.Error("Failed to find products with filter", err, map[string]interface{}{
			"search": filter.Search,
		})
		return nil, 0, err
	}

	logger.Debug("Products found with filter", map[string]interface{}{
		"count": len(products),
		"total": total,
	})
	return products, total, nil
}

func (r *productRepository) FindByID(id uint) (*model.Product, error) {
	logger.Debug("Finding product by ID in database", map[string]interface{}{
		"product_id": id,
	})

	var product model.Product
	err := r.baseQuery().First(&product, id).Error
	if err != nil {
		logger.Error("Failed to find product by ID in database", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}

	logger.Debug("Product found by ID in database", map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
	})
	return &product, nil
}

func (r *productRepository) FindBySlug(slug string) (*model.Product, error) {
	logger.Debug("Finding product by slug in database", map[string]interface{}{
		"slug": slug,
	})

	var product model.Product
	err := r.baseQuery().Where("products.slug = ?", slug).First(&product).Error
	if err != nil {
		logger.Error("Failed to find product by slug in database", err, map[string]interface{}{
			"slug": slug,
		})
		return nil, err
	}

	logger.Debug("Product found by slug in database", map[string]interface{}{
		"product_id": product.ID,
		"slug":       slug,
	})
	return &product, nil
}

func (r *productRepository) Update(product *model.Product) error {
	logger.Debug("Updating product in database", map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
	})

	if err := r.db.Save(product).Error; err != nil {
		logger.Error("Failed to update product in database", err, map[string]interface{}{
			"product_id": product.ID,
			"name":       product.Name,
		})
		return err
	}

	logger.Debug("Product updated in database", map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
	})
	return nil
}

func (r *productRepository) Delete(id uint) error {
	logger.Debug("Deleting product from database", map[string]interface{}{
		"product_id": id,
	})

	if err := r.db.Delete(&model.Product{}, id).Error; err != nil {
		logger.Error("Failed to delete product from database", err, map[string]interface{}{
			"product_id": id,
		})
		return err
	}

	logger.Debug("Product deleted from database", map[string]interface{}{
		"product_id": id,
	})
	return nil
}

// RestoreStock cộng trả tồn kho (khi huỷ đơn)
func (r *productRepository) RestoreStock(id uint, quantity int) error {
	logger.Debug("Restoring product stock in database", map[string]interface{}{
		"product_id": id,
		"quantity":   quantity,
	})

	if err := r.db.Model(&model.Product{}).Where("id = ?", id).
		Update("stock_quantity", gorm.Expr("stock_quantity + ?", quantity)).Error; err != nil {
		logger.Error("Failed to restore product stock in database", err, map[string]interface{}{
			"product_id": id,
			"quantity":   quantity,
		})
		return err
	}

	logger.Debug("Product stock restored in database", map[string]interface{}{
		"product_id": id,
		"quantity":   quantity,
	})
	return nil
}

func (r *productRepository) IncrementSoldCount(id uint, quantity int) error {
	if err := r.db.Model(&model.Product{}).Where("id = ?", id).
		Update("sold_count", gorm.Expr("sold_count + ?", quantity)).Error; err != nil {
		logger.Error("Failed to increment product sold count in database", err, map[string]interface{}{
			"product_id": id,
		})
		return err
	}
	return nil
}

func (r *productRepository) FindRelated(productID uint, categoryID *uint, limit int) ([]model.Product, error) {
	query := r.baseQuery().
		Where("id != ? AND is_active = ?", productID, true)
	if categoryID != nil {
		query = query.Where("category_id = ?", *categoryID)
	}

	var products []model.Product
	if err := query.Order("sold_count DESC").Limit(limit).Find(&products).Error; err != nil {
		logger.Error("Failed to find related products in database", err, map[string]interface{}{
			"product_id": productID,
		})
		return nil, err
	}
	return products, nil
}

func (r *productRepository) FindLowStock(threshold, limit int) ([]model.Product, error) {
	var products []model.Product
	err := r.db.Model(&model.Product{}).
		Where("is_active = ? AND stock_quantity <= ?", true, threshold).
		Order("stock_quantity ASC").
		Limit(limit).
		Find(&products).Error
	if err != nil {
		logger.Error("Failed to find low stock products in database", err, nil)
		return nil, err
	}
	return products, nil
}

func (r *productRepository) ListCategories() ([]model.Category, error) {
	logger.Debug("Listing categories in database", nil)

	var categories []model.Category
	if err := r.db.Order("name ASC").Find(&categories).Error; err != nil {
		logger.Error("Failed to list categories in database", err, nil)
		return nil, err
	}

	logger.Debug("Categories listed in database", map[string]interface{}{
		"count": len(categories),
	})
	return categories, nil
}

func (r *productRepository) FindCategoryBySlug(slug string) (*model.Category, error) {
	var category model.Category
	if err := r.db.Where("slug = ?", slug).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *productRepository) CreateCategory(category *model.Category) error {
	logger.Debug("Creating category in database", map[string]interface{}{
		"name": category.Name,
		"slug": category.Slug,
	})

	if err := r.db.Create(category).Error; err != nil {
		logger.Error("Failed to create category in database", err, map[string]interface{}{
			"name": category.Name,
		})
		return err
	}
	return nil
}
