package repository

import (
	"testing"

	"github.com/minhngo/birdnest-backend/internal/app/model"
	"github.com/minhngo/birdnest-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCartTest(t *testing.T) (*gorm.DB, CartRepository, *model.User, *model.Product) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

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
		Weight:        100,
		Origin:        "Khánh Hoà",
		StockQuantity: 10,
		IsActive:      true,
	}
	require.NoError(t, testDB.Create(product).Error)

	repo := NewCartRepository(testDB)
	return testDB, repo, user, product
}

func TestCartRepository_Create(t *testing.T) {
	testDB, repo, user, product := setupCartTest(t)
	defer db.CleanupTestDB(testDB)

	cartItem := &model.CartItem{
		UserID:    user.ID,
		ProductID: product.ID,
		Quantity:  2,
	}
	require.NoError(t, repo.Create(cartItem))
	assert.NotZero(t, cartItem.ID)
}

func TestCartRepository_FindByUserID(t *testing.T) {
	testDB, repo, user, product := setupCartTest(t)
	defer db.CleanupTestDB(testDB)

	require.NoError(t, repo.Create(&model.CartItem{
		UserID:    user.ID,
		ProductID: product.ID,
		Quantity:  2,
	}))

	items, err := repo.FindByUserID(user.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, product.ID, items[0].ProductID)
	// Sản phẩm được preload kèm theo
	assert.Equal(t, "Yến sào tinh chế 100g", items[0].Product.Name)

	items, err = repo.FindByUserID(9999)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCartRepository_FindByUserAndProduct(t *testing.T) {
	testDB, repo, user, product := setupCartTest(t)
	defer db.CleanupTestDB(testDB)

	require.NoError(t, repo.Create(&model.CartItem{
		UserID:    user.ID,
		ProductID: product.ID,
		Quantity:  3,
	}))

	found, err := repo.FindByUserAndProduct(user.ID, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, found.Quantity)

	_, err = repo.FindByUserAndProduct(user.ID, 9999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCartRepository_Update(t *testing.T) {
	testDB, repo, user, product := setupCartTest(t)
	defer db.CleanupTestDB(testDB)

	cartItem := &model.CartItem{
		UserID:    user.ID,
		ProductID: product.ID,
		Quantity:  1,
	}
	require.NoError(t, repo.Create(cartItem))

	cartItem.Quantity = 5
	require.NoError(t, repo.Update(cartItem))

	found, err := repo.FindByID(cartItem.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, found.Quantity)
}

func TestCartRepository_Delete(t *testing.T) {
	testDB, repo, user, product := setupCartTest(t)
	defer db.CleanupTestDB(testDB)

	cartItem := &model.CartItem{
		UserID:    user.ID,
		ProductID: product.ID,
		Quantity:  1,
	}
	require.NoError(t, repo.Create(cartItem))

	require.NoError(t, repo.Delete(cartItem.ID))

	_, err := repo.FindByID(cartItem.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCartRepository_DeleteByUserID(t *testing.T) {
	testDB, repo, user, product := setupCartTest(t)
	defer db.CleanupTestDB(testDB)

	other := &model.Product{
		Name:          "Yến sào thô 50g",
		Slug:          "yen-sao-tho-50g",
		Price:         1800000,
		StockQuantity: 20,
		IsActive:      true,
	}
	require.NoError(t, testDB.Create(other).Error)

	require.NoError(t, repo.Create(&model.CartItem{UserID: user.ID, ProductID: product.ID, Quantity: 1}))
	require.NoError(t, repo.Create(&model.CartItem{UserID: user.ID, ProductID: other.ID, Quantity: 2}))

	require.NoError(t, repo.DeleteByUserID(user.ID))

	items, err := repo.FindByUserID(user.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}
