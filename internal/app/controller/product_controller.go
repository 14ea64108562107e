package controller

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/minhngo/birdnest-backend/internal/app/model"
	"github.com/minhngo/birdnest-backend/internal/app/service"
	"github.com/minhngo/birdnest-backend/internal/middleware"
)

type ProductController struct {
	productService service.ProductService
}

func NewProductController(productService service.ProductService) *ProductController {
	return &ProductController{
		productService: productService,
	}
}

type ProductImageInput struct {
	URL       string `json:"url" binding:"required"`
	SortOrder int    `json:"sort_order"`
}

type CreateProductRequest struct {
	Name          string              `json:"name" binding:"required"`
	Slug          string              `json:"slug" binding:"required"`
	Description   string              `json:"description"`
	Price         float64             `json:"price" binding:"required,gt=0"`
	OriginalPrice float64             `json:"original_price"`
	Weight        float64             `json:"weight"`
	Origin        string              `json:"origin"`
	CategoryID    *uint               `json:"category_id"`
	StockQuantity int                 `json:"stock_quantity" binding:"gte=0"`
	IsActive      *bool               `json:"is_active"`
	IsFeatured    bool                `json:"is_featured"`
	Images        []ProductImageInput `json:"images"`
}

func parseListOptions(c *gin.Context) service.ProductListOptions {
	opts := service.ProductListOptions{
		CategorySlug: c.Query("category"),
		Search:       strings.TrimSpace(c.Query("search")),
	}

	if v, err := strconv.ParseFloat(c.Query("min_price"), 64); err == nil {
		opts.MinPrice = &v
	}
	if v, err := strconv.ParseFloat(c.Query("max_price"), 64); err == nil {
		opts.MaxPrice = &v
	}
	opts.FeaturedOnly = c.Query("featured") == "true"
	opts.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	opts.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "12"))

	switch c.Query("sort") {
	case "price_asc":
		opts.Sort = service.ProductSortPrice
		opts.SortAscending = true
	case "price_desc":
		opts.Sort = service.ProductSortPrice
	case "sold":
		opts.Sort = service.ProductSortSold
	case "rating":
		opts.Sort = service.ProductSortRating
	default:
		opts.Sort = service.ProductSortCreatedAt
	}
	return opts
}

// ListProducts returns the product catalog with filters and pagination
// GET /api/v1/products
func (ctrl *ProductController) ListProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	opts := parseListOptions(c)
	// Admin được xem cả sản phẩm đã ẩn
	opts.IncludeHidden = middleware.IsAdmin(c) && c.Query("include_hidden") == "true"

	products, total, err := ctrl.productService.ListProducts(opts)
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Không tìm thấy danh mục",
			})
			return
		}
		log.Error("Failed to fetch products", err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Không thể tải danh sách sản phẩm",
		})
		return
	}

	log.Info("Products fetched successfully", map[string]interface{}{
		"count": len(products),
		"total": total,
	})

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"total":    total,
		"page":     opts.Page,
		"limit":    opts.Limit,
	})
}

// GetFeaturedProducts returns products highlighted on the home page
// GET /api/v1/products/featured
func (ctrl *ProductController) GetFeaturedProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "8"))

	products, err := ctrl.productService.GetFeaturedProducts(limit)
	if err != nil {
		log.Error("Failed to fetch featured products", err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Không thể tải sản phẩm nổi bật",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"count":    len(products),
	})
}

// GetProductBySlug returns a product by its slug
// GET /api/v1/products/:slug
func (ctrl *ProductController) GetProductBySlug(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	slug := c.Param("slug")

	product, err := ctrl.productService.GetProductBySlug(slug)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			log.Warn("Product not found", map[string]interface{}{
				"slug": slug,
			})
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Không tìm thấy sản phẩm",
			})
			return
		}
		log.Error("Failed to fetch product", err, map[string]interface{}{
			"slug": slug,
		})
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Không thể tải sản phẩm",
		})
		return
	}

	log.Info("Product fetched successfully", map[string]interface{}{
		"product_id": product.ID,
		"slug":       slug,
	})

	c.JSON(http.StatusOK, gin.H{
		"product": product,
	})
}

// GetRelatedProducts returns best sellers from the same category
// GET /api/v1/products/:slug/related
func (ctrl *ProductController) GetRelatedProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	slug := c.Param("slug")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "4"))

	products, err := ctrl.productService.GetRelatedProducts(slug, limit)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Không tìm thấy sản phẩm",
			})
			return
		}
		log.Error("Failed to fetch related products", err, map[string]interface{}{
			"slug": slug,
		})
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Không thể tải sản phẩm liên quan",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"count":    len(products),
	})
}

// ListCategories returns all product categories
// GET /api/v1/categories
func (ctrl *ProductController) ListCategories(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	categories, err := ctrl.productService.ListCategories()
	if err != nil {
		log.Error("Failed to fetch categories", err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Không thể tải danh mục",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"categories": categories,
		"count":      len(categories),
	})
}

func (req *CreateProductRequest) toModel(id uint) *model.Product {
	product := &model.Product{
		ID:            id,
		Name:          req.Name,
		Slug:          req.Slug,
		Description:   req.Description,
		Price:         req.Price,
		OriginalPrice: req.OriginalPrice,
		Weight:        req.Weight,
		Origin:        req.Origin,
		CategoryID:    req.CategoryID,
		StockQuantity: req.StockQuantity,
		IsActive:      true,
		IsFeatured:    req.IsFeatured,
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}
	for _, img := range req.Images {
		product.Images = append(product.Images, model.ProductImage{
			URL:       img.URL,
			SortOrder: img.SortOrder,
		})
	}
	return product
}

// CreateProduct creates a new product (Admin only)
// POST /api/v1/admin/products
func (ctrl *ProductController) CreateProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid product creation request", map[string]interface{}{
			"error": err.Error(),
		})
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Dữ liệu không hợp lệ",
			"details": err.Error(),
		})
		return
	}

	log.Debug("Creating product", map[string]interface{}{
		"name":  req.Name,
		"slug":  req.Slug,
		"price": req.Price,
	})

	product := req.toModel(0)
	if err := ctrl.productService.CreateProduct(product); err != nil {
		log.Error("Failed to create product", err, map[string]interface{}{
			"name": req.Name,
			"slug": req.Slug,
		})
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Không thể tạo sản phẩm",
		})
		return
	}

	log.Info("Product created successfully", map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Tạo sản phẩm thành công",
		"product": product,
	})
}

// UpdateProduct updates an existing product (Admin only)
// PUT /api/v1/admin/products/:id
func (ctrl *ProductController) UpdateProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		log.Warn("Invalid product ID format", map[string]interface{}{
			"product_id": idStr,
			"error":      err.Error(),
		})
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Mã sản phẩm không hợp lệ",
		})
		return
	}

	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid product update request", map[string]interface{}{
			"product_id": id,
			"error":      err.Error(),
		})
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Dữ liệu không hợp lệ",
			"details": err.Error(),
		})
		return
	}

	log.Debug("Updating product", map[string]interface{}{
		"product_id": id,
		"name":       req.Name,
	})

	product := req.toModel(uint(id))
	if err := ctrl.productService.UpdateProduct(product); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			log.Warn("Product not found for update", map[string]interface{}{
				"product_id": id,
			})
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Không tìm thấy sản phẩm",
			})
			return
		}
		log.Error("Failed to update product", err, map[string]interface{}{
			"product_id": id,
		})
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Không thể cập nhật sản phẩm",
		})
		return
	}

	log.Info("Product updated successfully", map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Cập nhật sản phẩm thành công",
		"product": product,
	})
}

// DeleteProduct deletes a product (Admin only)
// DELETE /api/v1/admin/products/:id
func (ctrl *ProductController) DeleteProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		log.Warn("Invalid product ID format", map[string]interface{}{
			"product_id": idStr,
			"error":      err.Error(),
		})
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Mã sản phẩm không hợp lệ",
		})
		return
	}

	log.Debug("Deleting product", map[string]interface{}{
		"product_id": id,
	})

	if err := ctrl.productService.DeleteProduct(uint(id)); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			log.Warn("Product not found for deletion", map[string]interface{}{
				"product_id": id,
			})
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Không tìm thấy sản phẩm",
			})
			return
		}
		log.Error("Failed to delete product", err, map[string]interface{}{
			"product_id": id,
		})
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Không thể xoá sản phẩm",
		})
		return
	}

	log.Info("Product deleted successfully", map[string]interface{}{
		"product_id": id,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Đã xoá sản phẩm",
	})
}
