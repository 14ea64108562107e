package service

import (
	"errors"
	"strings"

	"github.com/minhngo/birdnest-backend/internal/app/model"
	"github.com/minhngo/birdnest-backend/internal/app/repository"
	"github.com/minhngo/birdnest-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrWishlistItemAlreadyExists = errors.New("product already in wishlist")
	ErrWishlistItemNotFound      = errors.New("wishlist item not found")
)

type WishlistService interface {
	GetUserWishlist(userID uint) ([]model.WishlistItem, error)
	AddToWishlist(userID, productID uint) error
	RemoveFromWishlist(userID, productID uint) error
}

type wishlistService struct {
	wishlistRepo repository.WishlistRepository
	productRepo  repository.ProductRepository
}

func NewWishlistService(
	wishlistRepo repository.WishlistRepository,
	productRepo repository.ProductRepository,
) WishlistService {
	return &wishlistService{
		wishlistRepo: wishlistRepo,
		productRepo:  productRepo,
	}
}

func (s *wishlistService) GetUserWishlist(userID uint) ([]model.WishlistItem, error) {
	items, err := s.wishlistRepo.FindByUserID(userID)
	if err != nil {
		logger.Error("Failed to fetch user wishlist", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return items, nil
}

func (s *wishlistService) AddToWishlist(userID, productID uint) error {
	logger.Info("Adding item to wishlist", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
	})

	// Sản phẩm phải còn tồn tại mới cho thêm vào yêu thích
	if _, err := s.productRepo.FindByID(productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		logger.Error("Failed to fetch product for wishlist", err, map[string]interface{}{
			"product_id": productID,
		})
		return err
	}

	existing, err := s.wishlistRepo.FindByUserAndProduct(userID, productID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to check existing wishlist item", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return err
	}
	if existing != nil {
		return ErrWishlistItemAlreadyExists
	}

	item := &model.WishlistItem{
		UserID:    userID,
		ProductID: productID,
	}
	if err := s.wishlistRepo.Create(item); err != nil {
		// Hai request cùng lúc lọt qua bước kiểm tra: unique index
		// (user_id, product_id) chặn bản ghi thứ hai.
		if isWishlistDuplicate(err) {
			return ErrWishlistItemAlreadyExists
		}
		logger.Error("Failed to create wishlist item", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return err
	}

	logger.Info("Item added to wishlist", map[string]interface{}{
		"wishlist_item_id": item.ID,
		"user_id":          userID,
		"product_id":       productID,
	})
	return nil
}

// isWishlistDuplicate nhận diện lỗi vi phạm unique index idx_wishlist_user_product
// theo thông điệp của cả Postgres lẫn SQLite.
func isWishlistDuplicate(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "idx_wishlist_user_product") ||
		strings.Contains(msg, "UNIQUE constraint failed: wishlist_items")
}

func (s *wishlistService) RemoveFromWishlist(userID, productID uint) error {
	if _, err := s.wishlistRepo.FindByUserAndProduct(userID, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrWishlistItemNotFound
		}
		logger.Error("Failed to find wishlist item", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return err
	}

	if err := s.wishlistRepo.Delete(userID, productID); err != nil {
		logger.Error("Failed to delete wishlist item", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return err
	}

	logger.Info("Item removed from wishlist", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
	})
	return nil
}
