package repository

import (
	"testing"

	"github.com/minhngo/birdnest-backend/internal/app/model"
	"github.com/minhngo/birdnest-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupProductTest(t *testing.T) (*gorm.DB, ProductRepository) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	repo := NewProductRepository(testDB)
	return testDB, repo
}

func createProductTestCategory(t *testing.T, repo ProductRepository, name, slug string) *model.Category {
	t.Helper()
	category := &model.Category{Name: name, Slug: slug}
	require.NoError(t, repo.CreateCategory(category))
	return category
}

func TestProductRepository_Create(t *testing.T) {
	testDB, repo := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	category := createProductTestCategory(t, repo, "Yến tinh chế", "yen-tinh-che")

	product := &model.Product{
		Name:          "Yến sào tinh chế 100g",
		Slug:          "yen-sao-tinh-che-100g",
		Price:         3500000,
		Weight:        100,
		Origin:        "Khánh Hoà",
		CategoryID:    &category.ID,
		StockQuantity: 10,
		IsActive:      true,
	}
	require.NoError(t, repo.Create(product))
	assert.NotZero(t, product.ID)

	// Slug trùng bị từ chối
	err := repo.Create(&model.Product{
		Name:  "Sản phẩm trùng slug",
		Slug:  "yen-sao-tinh-che-100g",
		Price: 100000,
	})
	assert.Error(t, err)
}

func TestProductRepository_FindByID(t *testing.T) {
	testDB, repo := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	category := createProductTestCategory(t, repo, "Yến tinh chế", "yen-tinh-che")
	product := &model.Product{
		Name:          "Yến sào tinh chế 100g",
		Slug:          "yen-sao-tinh-che-100g",
		Price:         3500000,
		CategoryID:    &category.ID,
		StockQuantity: 10,
		IsActive:      true,
	}
	require.NoError(t, repo.Create(product))
	require.NoError(t, testDB.Create(&model.ProductImage{
		ProductID: product.ID,
		URL:       "https://cdn.example.com/yen-100g-2.jpg",
		SortOrder: 2,
	}).Error)
	require.NoError(t, testDB.Create(&model.ProductImage{
		ProductID: product.ID,
		URL:       "https://cdn.example.com/yen-100g-1.jpg",
		SortOrder: 1,
	}).Error)

	found, err := repo.FindByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, product.Slug, found.Slug)
	require.NotNil(t, found.Category)
	assert.Equal(t, "Yến tinh chế", found.Category.Name)
	// Ảnh được sắp theo sort_order
	require.Len(t, found.Images, 2)
	assert.Equal(t, "https://cdn.example.com/yen-100g-1.jpg", found.Images[0].URL)

	_, err = repo.FindByID(9999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestProductRepository_FindBySlug(t *testing.T) {
	testDB, repo := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	product := &model.Product{
		Name:          "Yến sào tinh chế 100g",
		Slug:          "yen-sao-tinh-che-100g",
		Price:         3500000,
		StockQuantity: 10,
		IsActive:      true,
	}
	require.NoError(t, repo.Create(product))

	found, err := repo.FindBySlug("yen-sao-tinh-che-100g")
	require.NoError(t, err)
	assert.Equal(t, product.ID, found.ID)

	_, err = repo.FindBySlug("khong-ton-tai")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestProductRepository_FindWithFilter(t *testing.T) {
	testDB, repo := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	refined := createProductTestCategory(t, repo, "Yến tinh chế", "yen-tinh-che")
	raw := createProductTestCategory(t, repo, "Yến thô", "yen-tho")

	products := []*model.Product{
		{
			Name: "Yến sào tinh chế 100g", Slug: "yen-sao-tinh-che-100g",
			Price: 3500000, CategoryID: &refined.ID, StockQuantity: 10,
			IsActive: true, IsFeatured: true, SoldCount: 30,
		},
		{
			Name: "Yến sào thô 50g", Slug: "yen-sao-tho-50g",
			Price: 1800000, CategoryID: &raw.ID, StockQuantity: 20,
			IsActive: true, SoldCount: 12,
		},
		{
			Name: "Yến chưng đường phèn 70ml", Slug: "yen-chung-duong-phen-70ml",
			Price: 55000, CategoryID: &refined.ID, StockQuantity: 100,
			IsActive: true, SoldCount: 200,
		},
		{
			Name: "Sản phẩm ngừng bán", Slug: "san-pham-ngung-ban",
			Price: 99000, StockQuantity: 0, IsActive: false,
		},
	}
	for _, p := range products {
		require.NoError(t, repo.Create(p))
	}

	t.Run("Hides inactive by default", func(t *testing.T) {
		found, total, err := repo.FindWithFilter(ProductFilter{})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, found, 3)
	})

	t.Run("Include hidden", func(t *testing.T) {
		_, total, err := repo.FindWithFilter(ProductFilter{IncludeHidden: true})
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)
	})

	t.Run("Filter by category slug", func(t *testing.T) {
		found, total, err := repo.FindWithFilter(ProductFilter{CategorySlug: "yen-tho"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, found, 1)
		assert.Equal(t, "yen-sao-tho-50g", found[0].Slug)
	})

	t.Run("Search by name", func(t *testing.T) {
		found, total, err := repo.FindWithFilter(ProductFilter{Search: "đường phèn"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, found, 1)
		assert.Equal(t, "yen-chung-duong-phen-70ml", found[0].Slug)
	})

	t.Run("Price range", func(t *testing.T) {
		minPrice := float64(1000000)
		maxPrice := float64(2000000)
		found, total, err := repo.FindWithFilter(ProductFilter{MinPrice: &minPrice, MaxPrice: &maxPrice})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, found, 1)
		assert.Equal(t, "yen-sao-tho-50g", found[0].Slug)
	})

	t.Run("Featured only", func(t *testing.T) {
		found, _, err := repo.FindWithFilter(ProductFilter{FeaturedOnly: true})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "yen-sao-tinh-che-100g", found[0].Slug)
	})

	t.Run("Sort by price ascending", func(t *testing.T) {
		found, _, err := repo.FindWithFilter(ProductFilter{
			SortBy:        ProductSortPrice,
			SortAscending: true,
		})
		require.NoError(t, err)
		require.Len(t, found, 3)
		assert.Equal(t, "yen-chung-duong-phen-70ml", found[0].Slug)
		assert.Equal(t, "yen-sao-tinh-che-100g", found[2].Slug)
	})

	t.Run("Sort by sold count", func(t *testing.T) {
		found, _, err := repo.FindWithFilter(ProductFilter{SortBy: ProductSortSold})
		require.NoError(t, err)
		require.Len(t, found, 3)
		assert.Equal(t, "yen-chung-duong-phen-70ml", found[0].Slug)
	})

	t.Run("Pagination", func(t *testing.T) {
		found, total, err := repo.FindWithFilter(ProductFilter{
			SortBy:        ProductSortPrice,
			SortAscending: true,
			Limit:         2,
			Offset:        2,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, found, 1)
		assert.Equal(t, "yen-sao-tinh-che-100g", found[0].Slug)
	})
}

func TestProductRepository_RestoreStock(t *testing.T) {
	testDB, repo := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	product := &model.Product{
		Name:          "Yến sào tinh chế 100g",
		Slug:          "yen-sao-tinh-che-100g",
		Price:         3500000,
		StockQuantity: 5,
		IsActive:      true,
	}
	require.NoError(t, repo.Create(product))

	require.NoError(t, repo.RestoreStock(product.ID, 3))

	found, err := repo.FindByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, found.StockQuantity)
}

func TestProductRepository_IncrementSoldCount(t *testing.T) {
	testDB, repo := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	product := &model.Product{
		Name:          "Yến sào tinh chế 100g",
		Slug:          "yen-sao-tinh-che-100g",
		Price:         3500000,
		StockQuantity: 5,
		IsActive:      true,
	}
	require.NoError(t, repo.Create(product))

	require.NoError(t, repo.IncrementSoldCount(product.ID, 2))
	require.NoError(t, repo.IncrementSoldCount(product.ID, 1))

	found, err := repo.FindByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, found.SoldCount)
}

func TestProductRepository_Categories(t *testing.T) {
	testDB, repo := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	createProductTestCategory(t, repo, "Yến tinh chế", "yen-tinh-che")
	createProductTestCategory(t, repo, "Quà biếu", "qua-bieu")

	categories, err := repo.ListCategories()
	require.NoError(t, err)
	require.Len(t, categories, 2)
	// Sắp theo tên
	assert.Equal(t, "Quà biếu", categories[0].Name)

	category, err := repo.FindCategoryBySlug("yen-tinh-che")
	require.NoError(t, err)
	assert.Equal(t, "Yến tinh chế", category.Name)

	_, err = repo.FindCategoryBySlug("khong-ton-tai")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestProductRepository_Delete(t *testing.T) {
	testDB, repo := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	product := &model.Product{
		Name:          "Yến sào tinh chế 100g",
		Slug:          "yen-sao-tinh-che-100g",
		Price:         3500000,
		StockQuantity: 5,
		IsActive:      true,
	}
	require.NoError(t, repo.Create(product))

	require.NoError(t, repo.Delete(product.ID))

	_, err := repo.FindByID(product.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestProductRepository_FindRelated(t *testing.T) {
	testDB, repo := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	tinhChe := createProductTestCategory(t, repo, "Yến tinh chế", "yen-tinh-che")
	quaBieu := createProductTestCategory(t, repo, "Quà biếu", "qua-bieu")

	source := &model.Product{
		Name: "Yến sào tinh chế 100g", Slug: "yen-sao-tinh-che-100g",
		Price: 3500000, StockQuantity: 10, IsActive: true, CategoryID: &tinhChe.ID,
	}
	sameCategory := &model.Product{
		Name: "Yến sào tinh chế 50g", Slug: "yen-sao-tinh-che-50g",
		Price: 1900000, StockQuantity: 8, IsActive: true, CategoryID: &tinhChe.ID,
		SoldCount: 30,
	}
	hidden := &model.Product{
		Name: "Yến tinh chế ngừng bán", Slug: "yen-tinh-che-ngung-ban",
		Price: 900000, StockQuantity: 3, IsActive: false, CategoryID: &tinhChe.ID,
	}
	otherCategory := &model.Product{
		Name: "Hộp quà yến chưng", Slug: "hop-qua-yen-chung",
		Price: 650000, StockQuantity: 20, IsActive: true, CategoryID: &quaBieu.ID,
	}
	for _, p := range []*model.Product{source, sameCategory, hidden, otherCategory} {
		require.NoError(t, repo.Create(p))
	}

	related, err := repo.FindRelated(source.ID, source.CategoryID, 4)
	require.NoError(t, err)

	// Chỉ sản phẩm đang bán cùng danh mục, không gồm chính nó
	require.Len(t, related, 1)
	assert.Equal(t, "yen-sao-tinh-che-50g", related[0].Slug)
}

func TestProductRepository_FindLowStock(t *testing.T) {
	testDB, repo := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	products := []*model.Product{
		{Name: "Yến sào tinh chế 100g", Slug: "yen-sao-tinh-che-100g", Price: 3500000, StockQuantity: 2, IsActive: true},
		{Name: "Yến sào thô 50g", Slug: "yen-sao-tho-50g", Price: 1800000, StockQuantity: 4, IsActive: true},
		{Name: "Yến chưng đường phèn 70ml", Slug: "yen-chung-duong-phen-70ml", Price: 55000, StockQuantity: 50, IsActive: true},
		{Name: "Yến ngừng bán", Slug: "yen-ngung-ban", Price: 90000, StockQuantity: 1, IsActive: false},
	}
	for _, p := range products {
		require.NoError(t, repo.Create(p))
	}

	lowStock, err := repo.FindLowStock(5, 10)
	require.NoError(t, err)

	// Xếp theo tồn kho tăng dần, bỏ qua sản phẩm ngừng bán
	require.Len(t, lowStock, 2)
	assert.Equal(t, "yen-sao-tinh-che-100g", lowStock[0].Slug)
	assert.Equal(t, "yen-sao-tho-50g", lowStock[1].Slug)
}
