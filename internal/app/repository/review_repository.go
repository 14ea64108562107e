package repository

import (
	"github.com/minhngo/birdnest-backend/internal/app/model"

	"gorm.io/gorm"
)

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// CreateReview tạo đánh giá mới
func (r *ReviewRepository) CreateReview(review *model.Review) error {
	return r.db.Create(review).Error
}

// GetReviewByID tìm đánh giá theo ID
func (r *ReviewRepository) GetReviewByID(id uint) (*model.Review, error) {
	var review model.Review
	err := r.db.Preload("User").Preload("Product").First(&review, id).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// GetReviewsByProductID danh sách đánh giá theo sản phẩm
func (r *ReviewRepository) GetReviewsByProductID(productID uint, offset, limit int, sortBy, sortOrder string) ([]model.Review, int64, error) {
	var reviews []model.Review
	var total int64

	query := r.db.Model(&model.Review{}).Where("product_id = ?", productID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orderClause := sortBy + " " + sortOrder
	if sortBy == "" {
		orderClause = "created_at DESC"
	}

	err := query.Preload("User").
		Order(orderClause).
		Offset(offset).
		Limit(limit).
		Find(&reviews).Error

	if err != nil {
		return nil, 0, err
	}

	return reviews, total, nil
}

// GetReviewsByUserID danh sách đánh giá của một người dùng
func (r *ReviewRepository) GetReviewsByUserID(userID uint, offset, limit int) ([]model.Review, int64, error) {
	var reviews []model.Review
	var total int64

	query := r.db.Model(&model.Review{}).Where("user_id = ?", userID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("Product").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&reviews).Error

	if err != nil {
		return nil, 0, err
	}

	return reviews, total, nil
}

// HasUserReviewed kiểm tra người dùng đã đánh giá sản phẩm chưa
func (r *ReviewRepository) HasUserReviewed(userID, productID uint) (bool, error) {
	var count int64
	err := r.db.Model(&model.Review{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&count).Error
	return count > 0, err
}

// HasUserPurchased kiểm tra người dùng đã mua sản phẩm (đơn đã giao) chưa
func (r *ReviewRepository) HasUserPurchased(userID, productID uint) (bool, error) {
	var count int64
	err := r.db.Model(&model.OrderItem{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.user_id = ? AND order_items.product_id = ? AND orders.status = ?",
			userID, productID, model.OrderStatusDelivered).
		Count(&count).Error
	return count > 0, err
}

// UpdateReview cập nhật đánh giá
func (r *ReviewRepository) UpdateReview(review *model.Review) error {
	return r.db.Save(review).Error
}

// DeleteReview xoá đánh giá
func (r *ReviewRepository) DeleteReview(id uint) error {
	return r.db.Delete(&model.Review{}, id).Error
}

// RecalculateProductRating tính lại điểm trung bình và số lượt đánh giá của sản phẩm
func (r *ReviewRepository) RecalculateProductRating(productID uint) error {
	var result struct {
		Avg   float64
		Count int64
	}
	if err := r.db.Model(&model.Review{}).
		Select("COALESCE(AVG(rating), 0) as avg, COUNT(*) as count").
		Where("product_id = ?", productID).
		Scan(&result).Error; err != nil {
		return err
	}

	return r.db.Model(&model.Product{}).
		Where("id = ?", productID).
		Updates(map[string]interface{}{
			"rating_avg":   result.Avg,
			"rating_count": result.Count,
		}).Error
}
