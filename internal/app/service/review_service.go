package service

import (
	"errors"

	"github.com/minhngo/birdnest-backend/internal/app/model"
	"github.com/minhngo/birdnest-backend/internal/app/repository"
	"github.com/minhngo/birdnest-backend/pkg/logger"
)

type ReviewService struct {
	reviewRepo      *repository.ReviewRepository
	productRepo     repository.ProductRepository
	notificationSvc NotificationService
}

func NewReviewService(
	reviewRepo *repository.ReviewRepository,
	productRepo repository.ProductRepository,
	notificationSvc NotificationService,
) *ReviewService {
	return &ReviewService{
		reviewRepo:      reviewRepo,
		productRepo:     productRepo,
		notificationSvc: notificationSvc,
	}
}

// CreateReview tạo đánh giá mới cho sản phẩm
func (s *ReviewService) CreateReview(userID uint, input struct {
	ProductID uint     `json:"product_id" binding:"required"`
	Rating    int      `json:"rating" binding:"required,min=1,max=5"`
	Content   string   `json:"content" binding:"required,min=10"`
	ImageURLs []string `json:"image_urls"`
}) (*model.Review, error) {
	// Sản phẩm phải tồn tại
	product, err := s.productRepo.FindByID(input.ProductID)
	if err != nil {
		return nil, errors.New("Không tìm thấy sản phẩm")
	}

	// Mỗi người chỉ đánh giá một sản phẩm một lần
	reviewed, err := s.reviewRepo.HasUserReviewed(userID, input.ProductID)
	if err != nil {
		return nil, err
	}
	if reviewed {
		return nil, errors.New("Bạn đã đánh giá sản phẩm này rồi")
	}

	// Đánh dấu "đã mua hàng" nếu có đơn DELIVERED chứa sản phẩm
	purchased, err := s.reviewRepo.HasUserPurchased(userID, input.ProductID)
	if err != nil {
		return nil, err
	}

	review := &model.Review{
		ProductID:  input.ProductID,
		UserID:     userID,
		Rating:     input.Rating,
		Content:    input.Content,
		ImageURLs:  input.ImageURLs,
		IsVerified: purchased,
	}

	if err := s.reviewRepo.CreateReview(review); err != nil {
		return nil, err
	}

	if err := s.reviewRepo.RecalculateProductRating(input.ProductID); err != nil {
		logger.Warn("Failed to recalculate product rating", map[string]interface{}{
			"product_id": input.ProductID,
			"error":      err.Error(),
		})
	}

	loadedReview, err := s.reviewRepo.GetReviewByID(review.ID)
	if err != nil {
		return nil, err
	}

	if s.notificationSvc != nil {
		s.notificationSvc.NotifyReviewCreated(loadedReview, product.Name)
	}

	return loadedReview, nil
}

// GetReview lấy một đánh giá theo ID
func (s *ReviewService) GetReview(id uint) (*model.Review, error) {
	return s.reviewRepo.GetReviewByID(id)
}

// GetProductReviews danh sách đánh giá của sản phẩm
func (s *ReviewService) GetProductReviews(productID uint, page, pageSize int, sortBy, sortOrder string) ([]model.Review, int64, error) {
	// Sản phẩm phải tồn tại
	if _, err := s.productRepo.FindByID(productID); err != nil {
		return nil, 0, errors.New("Không tìm thấy sản phẩm")
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 50 {
		pageSize = 10
	}

	offset := (page - 1) * pageSize
	return s.reviewRepo.GetReviewsByProductID(productID, offset, pageSize, sortBy, sortOrder)
}

// GetUserReviews danh sách đánh giá của người dùng
func (s *ReviewService) GetUserReviews(userID uint, page, pageSize int) ([]model.Review, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 50 {
		pageSize = 10
	}

	offset := (page - 1) * pageSize
	return s.reviewRepo.GetReviewsByUserID(userID, offset, pageSize)
}

// UpdateReview sửa đánh giá (chỉ người viết)
func (s *ReviewService) UpdateReview(reviewID, userID uint, input struct {
	Rating    *int     `json:"rating"`
	Content   *string  `json:"content"`
	ImageURLs []string `json:"image_urls"`
}) (*model.Review, error) {
	review, err := s.reviewRepo.GetReviewByID(reviewID)
	if err != nil {
		return nil, errors.New("Không tìm thấy đánh giá")
	}

	if review.UserID != userID {
		return nil, errors.New("Bạn không có quyền sửa đánh giá này")
	}

	if input.Rating != nil {
		if *input.Rating < 1 || *input.Rating > 5 {
			return nil, errors.New("Điểm đánh giá phải từ 1 đến 5")
		}
		review.Rating = *input.Rating
	}
	if input.Content != nil {
		if len(*input.Content) < 10 {
			return nil, errors.New("Nội dung đánh giá phải có ít nhất 10 ký tự")
		}
		review.Content = *input.Content
	}
	if input.ImageURLs != nil {
		review.ImageURLs = input.ImageURLs
	}

	if err := s.reviewRepo.UpdateReview(review); err != nil {
		return nil, err
	}

	if err := s.reviewRepo.RecalculateProductRating(review.ProductID); err != nil {
		logger.Warn("Failed to recalculate product rating", map[string]interface{}{
			"product_id": review.ProductID,
			"error":      err.Error(),
		})
	}

	return review, nil
}

// DeleteReview xoá đánh giá (người viết hoặc admin)
func (s *ReviewService) DeleteReview(reviewID, userID uint, isAdmin bool) error {
	review, err := s.reviewRepo.GetReviewByID(reviewID)
	if err != nil {
		return errors.New("Không tìm thấy đánh giá")
	}

	if review.UserID != userID && !isAdmin {
		return errors.New("Bạn không có quyền xoá đánh giá này")
	}

	if err := s.reviewRepo.DeleteReview(reviewID); err != nil {
		return err
	}

	if err := s.reviewRepo.RecalculateProductRating(review.ProductID); err != nil {
		logger.Warn("Failed to recalculate product rating", map[string]interface{}{
			"product_id": review.ProductID,
			"error":      err.Error(),
		})
	}

	return nil
}
