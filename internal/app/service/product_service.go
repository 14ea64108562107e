package service

import (
	"errors"

	"github.com/minhngo/birdnest-backend/internal/app/model"
	"github.com/minhngo/birdnest-backend/internal/app/repository"
	"github.com/minhngo/birdnest-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrCategoryNotFound  = errors.New("category not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

type ProductSort string

const (
	ProductSortPrice     ProductSort = "price"
	ProductSortCreatedAt ProductSort = "created_at"
	ProductSortSold      ProductSort = "sold"
	ProductSortRating    ProductSort = "rating"
)

type ProductListOptions struct {
	CategoryID    *uint
	CategorySlug  string
	Search        string
	MinPrice      *float64
	MaxPrice      *float64
	FeaturedOnly  bool
	IncludeHidden bool
	Sort          ProductSort
	SortAscending bool
	Page          int
	Limit         int
}

type ProductService interface {
	ListProducts(opts ProductListOptions) ([]model.Product, int64, error)
	GetProductByID(id uint) (*model.Product, error)
	GetProductBySlug(slug string) (*model.Product, error)
	GetFeaturedProducts(limit int) ([]model.Product, error)
	GetRelatedProducts(slug string, limit int) ([]model.Product, error)
	ListCategories() ([]model.Category, error)
	GetCategoryBySlug(slug string) (*model.Category, error)
	CreateProduct(product *model.Product) error
	UpdateProduct(product *model.Product) error
	DeleteProduct(id uint) error
	CheckStock(productID uint, quantity int) error
}

type productService struct {
	productRepo repository.ProductRepository
}

func NewProductService(productRepo repository.ProductRepository) ProductService {
	return &productService{productRepo: productRepo}
}

func (s *productService) ListProducts(opts ProductListOptions) ([]model.Product, int64, error) {
	logger.Debug("Listing products", map[string]interface{}{
		"category_id":   opts.CategoryID,
		"category_slug": opts.CategorySlug,
		"search":        opts.Search,
		"sort":          opts.Sort,
		"page":          opts.Page,
		"limit":         opts.Limit,
	})

	if opts.Limit <= 0 {
		opts.Limit = 12
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Page < 1 {
		opts.Page = 1
	}

	filter := repository.ProductFilter{
		CategoryID:    opts.CategoryID,
		CategorySlug:  opts.CategorySlug,
		Search:        opts.Search,
		MinPrice:      opts.MinPrice,
		MaxPrice:      opts.MaxPrice,
		FeaturedOnly:  opts.FeaturedOnly,
		IncludeHidden: opts.IncludeHidden,
		SortAscending: opts.SortAscending,
		Limit:         opts.Limit,
		Offset:        (opts.Page - 1) * opts.Limit,
	}

	switch opts.Sort {
	case ProductSortPrice:
		filter.SortBy = repository.ProductSortPrice
	case ProductSortSold:
		filter.SortBy = repository.ProductSortSold
	case ProductSortRating:
		filter.SortBy = repository.ProductSortRating
	case ProductSortCreatedAt:
		fallthrough
	default:
		filter.SortBy = repository.ProductSortCreatedAt
	}

	products, total, err := s.productRepo.FindWithFilter(filter)
	if err != nil {
		logger.Error("Failed to list products", err)
		return nil, 0, err
	}

	logger.Info("Products listed", map[string]interface{}{
		"count": len(products),
		"total": total,
	})
	return products, total, nil
}

func (s *productService) GetProductByID(id uint) (*model.Product, error) {
	logger.Debug("Fetching product by ID", map[string]interface{}{
		"product_id": id,
	})

	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Product not found", map[string]interface{}{
				"product_id": id,
			})
			return nil, ErrProductNotFound
		}
		logger.Error("Failed to fetch product", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}
	return product, nil
}

func (s *productService) GetProductBySlug(slug string) (*model.Product, error) {
	logger.Debug("Fetching product by slug", map[string]interface{}{
		"slug": slug,
	})

	product, err := s.productRepo.FindBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Product not found by slug", map[string]interface{}{
				"slug": slug,
			})
			return nil, ErrProductNotFound
		}
		logger.Error("Failed to fetch product by slug", err, map[string]interface{}{
			"slug": slug,
		})
		return nil, err
	}
	return product, nil
}

// GetRelatedProducts trả về sản phẩm cùng danh mục, bán chạy xếp trước
func (s *productService) GetRelatedProducts(slug string, limit int) ([]model.Product, error) {
	product, err := s.GetProductBySlug(slug)
	if err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = 4
	}

	related, err := s.productRepo.FindRelated(product.ID, product.CategoryID, limit)
	if err != nil {
		logger.Error("Failed to fetch related products", err, map[string]interface{}{
			"slug": slug,
		})
		return nil, err
	}
	return related, nil
}

func (s *productService) GetFeaturedProducts(limit int) ([]model.Product, error) {
	logger.Debug("Fetching featured products", map[string]interface{}{
		"limit": limit,
	})

	if limit <= 0 {
		limit = 8
	}

	products, _, err := s.productRepo.FindWithFilter(repository.ProductFilter{
		FeaturedOnly: true,
		SortBy:       repository.ProductSortCreatedAt,
		Limit:        limit,
	})
	if err != nil {
		logger.Error("Failed to fetch featured products", err)
		return nil, err
	}

	logger.Info("Featured products fetched", map[string]interface{}{
		"count": len(products),
	})
	return products, nil
}

func (s *productService) ListCategories() ([]model.Category, error) {
	logger.Debug("Listing categories", nil)

	categories, err := s.productRepo.ListCategories()
	if err != nil {
		logger.Error("Failed to list categories", err)
		return nil, err
	}

	logger.Info("Categories listed", map[string]interface{}{
		"count": len(categories),
	})
	return categories, nil
}

func (s *productService) GetCategoryBySlug(slug string) (*model.Category, error) {
	category, err := s.productRepo.FindCategoryBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Category not found", map[string]interface{}{
				"slug": slug,
			})
			return nil, ErrCategoryNotFound
		}
		logger.Error("Failed to fetch category", err, map[string]interface{}{
			"slug": slug,
		})
		return nil, err
	}
	return category, nil
}

func (s *productService) CreateProduct(product *model.Product) error {
	logger.Info("Creating new product", map[string]interface{}{
		"name":        product.Name,
		"slug":        product.Slug,
		"category_id": product.CategoryID,
	})

	if err := s.productRepo.Create(product); err != nil {
		logger.Error("Failed to create product", err, map[string]interface{}{
			"name": product.Name,
			"slug": product.Slug,
		})
		return err
	}

	logger.Info("Product created successfully", map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
	})
	return nil
}

func (s *productService) UpdateProduct(product *model.Product) error {
	logger.Info("Updating product", map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
	})

	if _, err := s.productRepo.FindByID(product.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cannot update: product not found", map[string]interface{}{
				"product_id": product.ID,
			})
			return ErrProductNotFound
		}
		logger.Error("Failed to check product existence", err, map[string]interface{}{
			"product_id": product.ID,
		})
		return err
	}

	if err := s.productRepo.Update(product); err != nil {
		logger.Error("Failed to update product", err, map[string]interface{}{
			"product_id": product.ID,
		})
		return err
	}

	logger.Info("Product updated successfully", map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
	})
	return nil
}

func (s *productService) DeleteProduct(id uint) error {
	logger.Info("Deleting product", map[string]interface{}{
		"product_id": id,
	})

	if _, err := s.productRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cannot delete: product not found", map[string]interface{}{
				"product_id": id,
			})
			return ErrProductNotFound
		}
		logger.Error("Failed to check product existence", err, map[string]interface{}{
			"product_id": id,
		})
		return err
	}

	if err := s.productRepo.Delete(id); err != nil {
		logger.Error("Failed to delete product", err, map[string]interface{}{
			"product_id": id,
		})
		return err
	}

	logger.Info("Product deleted successfully", map[string]interface{}{
		"product_id": id,
	})
	return nil
}

func (s *productService) CheckStock(productID uint, quantity int) error {
	logger.Debug("Checking product stock", map[string]interface{}{
		"product_id": productID,
		"quantity":   quantity,
	})

	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Product not found for stock check", map[string]interface{}{
				"product_id": productID,
			})
			return ErrProductNotFound
		}
		logger.Error("Failed to fetch product for stock check", err, map[string]interface{}{
			"product_id": productID,
		})
		return err
	}

	if product.StockQuantity < quantity {
		logger.Warn("Insufficient product stock", map[string]interface{}{
			"product_id":      productID,
			"requested":       quantity,
			"available_stock": product.StockQuantity,
		})
		return ErrInsufficientStock
	}

	return nil
}
