package service

import (
	"errors"
	"testing"

	"github.com/minhngo/birdnest-backend/internal/app/model"
	"github.com/minhngo/birdnest-backend/internal/app/repository"
	"github.com/minhngo/birdnest-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupWishlistServiceTest(t *testing.T) (WishlistService, *model.User, *model.Product, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	user := &model.User{
		Email:        "an@example.com",
		PasswordHash: "hashedpassword",
		Name:         "Nguyễn Văn An",
		Role:         model.RoleUser,
	}
	require.NoError(t, testDB.Create(user).Error)

	product := &model.Product{
		Name:          "Yến sào tinh chế 100g",
		Slug:          "yen-sao-tinh-che-100g",
		Price:         3500000,
		StockQuantity: 10,
		IsActive:      true,
	}
	require.NoError(t, testDB.Create(product).Error)

	wishlistService := NewWishlistService(
		repository.NewWishlistRepository(testDB),
		repository.NewProductRepository(testDB),
	)

	return wishlistService, user, product, testDB
}

func TestWishlistService_AddToWishlist(t *testing.T) {
	wishlistService, user, product, _ := setupWishlistServiceTest(t)

	require.NoError(t, wishlistService.AddToWishlist(user.ID, product.ID))

	items, err := wishlistService.GetUserWishlist(user.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, product.ID, items[0].ProductID)
	assert.Equal(t, "Yến sào tinh chế 100g", items[0].Product.Name)
}

func TestWishlistService_AddToWishlist_Duplicate(t *testing.T) {
	wishlistService, user, product, _ := setupWishlistServiceTest(t)

	require.NoError(t, wishlistService.AddToWishlist(user.ID, product.ID))

	err := wishlistService.AddToWishlist(user.ID, product.ID)
	assert.ErrorIs(t, err, ErrWishlistItemAlreadyExists)
}

func TestWishlistService_AddToWishlist_UnknownProduct(t *testing.T) {
	wishlistService, user, _, _ := setupWishlistServiceTest(t)

	err := wishlistService.AddToWishlist(user.ID, 9999)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

// raceWishlistRepository mô phỏng hai request cùng lúc: bước kiểm tra không
// thấy bản ghi nhưng insert vẫn đụng unique index.
type raceWishlistRepository struct {
	repository.WishlistRepository
}

func (r *raceWishlistRepository) FindByUserAndProduct(_, _ uint) (*model.WishlistItem, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *raceWishlistRepository) Create(_ *model.WishlistItem) error {
	return errors.New(`duplicate key value violates unique constraint "idx_wishlist_user_product"`)
}

func TestWishlistService_AddToWishlist_ConcurrentDuplicate(t *testing.T) {
	_, user, product, testDB := setupWishlistServiceTest(t)

	wishlistService := NewWishlistService(
		&raceWishlistRepository{repository.NewWishlistRepository(testDB)},
		repository.NewProductRepository(testDB),
	)

	err := wishlistService.AddToWishlist(user.ID, product.ID)
	assert.ErrorIs(t, err, ErrWishlistItemAlreadyExists)
}

func TestWishlistService_RemoveFromWishlist(t *testing.T) {
	wishlistService, user, product, _ := setupWishlistServiceTest(t)

	require.NoError(t, wishlistService.AddToWishlist(user.ID, product.ID))
	require.NoError(t, wishlistService.RemoveFromWishlist(user.ID, product.ID))

	items, err := wishlistService.GetUserWishlist(user.ID)
	require.NoError(t, err)
	assert.Empty(t, items)

	err = wishlistService.RemoveFromWishlist(user.ID, product.ID)
	assert.ErrorIs(t, err, ErrWishlistItemNotFound)
}
