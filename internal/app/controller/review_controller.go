package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/minhngo/birdnest-backend/internal/app/service"
	apperrors "github.com/minhngo/birdnest-backend/internal/errors"
	"github.com/minhngo/birdnest-backend/internal/middleware"
)

type ReviewController struct {
	reviewService *service.ReviewService
}

func NewReviewController(reviewService *service.ReviewService) *ReviewController {
	return &ReviewController{
		reviewService: reviewService,
	}
}

// CreateReview viết đánh giá sản phẩm
// @Summary Viết đánh giá
// @Tags Reviews
// @Accept json
// @Produce json
// @Param review body object true "Nội dung đánh giá"
// @Success 201 {object} model.Review
// @Router /reviews [post]
func (ctrl *ReviewController) CreateReview(c *gin.Context) {
	// Lấy user ID từ JWT middleware
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Vui lòng đăng nhập để tiếp tục")
		return
	}

	var input struct {
		ProductID uint     `json:"product_id" binding:"required"`
		Rating    int      `json:"rating" binding:"required,min=1,max=5"`
		Content   string   `json:"content" binding:"required,min=10"`
		ImageURLs []string `json:"image_urls"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Nội dung đánh giá không hợp lệ")
		return
	}

	review, err := ctrl.reviewService.CreateReview(userID, input)
	if err != nil {
		apperrors.BadRequest(c, apperrors.InternalServerError, err.Error())
		return
	}

	c.JSON(http.StatusCreated, review)
}

// GetProductReviews danh sách đánh giá của một sản phẩm
// @Summary Đánh giá của sản phẩm
// @Tags Reviews
// @Produce json
// @Param product_id query int true "ID sản phẩm"
// @Param page query int false "Trang" default(1)
// @Param page_size query int false "Số dòng mỗi trang" default(20)
// @Param sort_by query string false "Sắp xếp theo" default(created_at)
// @Param sort_order query string false "Chiều sắp xếp" default(desc)
// @Success 200 {object} object
// @Router /reviews [get]
func (ctrl *ReviewController) GetProductReviews(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Query("product_id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Mã sản phẩm không hợp lệ")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	sortBy := c.DefaultQuery("sort_by", "created_at")
	sortOrder := c.DefaultQuery("sort_order", "desc")

	reviews, total, err := ctrl.reviewService.GetProductReviews(uint(productID), page, pageSize, sortBy, sortOrder)
	if err != nil {
		apperrors.InternalError(c, "Không thể tải đánh giá sản phẩm")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":      reviews,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// GetMyReviews danh sách đánh giá của người dùng hiện tại
// @Summary Đánh giá của tôi
// @Tags Reviews
// @Produce json
// @Param page query int false "Trang" default(1)
// @Param page_size query int false "Số dòng mỗi trang" default(20)
// @Success 200 {object} object
// @Router /reviews/me [get]
func (ctrl *ReviewController) GetMyReviews(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Vui lòng đăng nhập để tiếp tục")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	reviews, total, err := ctrl.reviewService.GetUserReviews(userID, page, pageSize)
	if err != nil {
		apperrors.InternalError(c, "Không thể tải đánh giá của bạn")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":      reviews,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// UpdateReview sửa đánh giá
// @Summary Sửa đánh giá
// @Tags Reviews
// @Accept json
// @Produce json
// @Param id path int true "ID đánh giá"
// @Param review body object true "Nội dung sửa"
// @Success 200 {object} model.Review
// @Router /reviews/{id} [put]
func (ctrl *ReviewController) UpdateReview(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Vui lòng đăng nhập để tiếp tục")
		return
	}

	reviewID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Mã đánh giá không hợp lệ")
		return
	}

	var input struct {
		Rating    *int     `json:"rating"`
		Content   *string  `json:"content"`
		ImageURLs []string `json:"image_urls"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Nội dung đánh giá không hợp lệ")
		return
	}

	review, err := ctrl.reviewService.UpdateReview(uint(reviewID), userID, input)
	if err != nil {
		apperrors.BadRequest(c, apperrors.InternalServerError, err.Error())
		return
	}

	c.JSON(http.StatusOK, review)
}

// DeleteReview xoá đánh giá
// @Summary Xoá đánh giá
// @Tags Reviews
// @Param id path int true "ID đánh giá"
// @Success 204
// @Router /reviews/{id} [delete]
func (ctrl *ReviewController) DeleteReview(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Vui lòng đăng nhập để tiếp tục")
		return
	}

	// Admin được xoá mọi đánh giá
	isAdmin := middleware.IsAdmin(c)

	reviewID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Mã đánh giá không hợp lệ")
		return
	}

	if err := ctrl.reviewService.DeleteReview(uint(reviewID), userID, isAdmin); err != nil {
		apperrors.BadRequest(c, apperrors.InternalServerError, err.Error())
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
