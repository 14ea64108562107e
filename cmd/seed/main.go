package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/minhngo/birdnest-backend/config"
	"github.com/minhngo/birdnest-backend/internal/app/model"
	"github.com/minhngo/birdnest-backend/internal/db"
	"github.com/minhngo/birdnest-backend/pkg/util"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// Nhập danh mục sản phẩm từ file XLSX và tạo tài khoản admin ban đầu.
// Cột: tên | mô tả | giá | giá gốc | khối lượng | xuất xứ | danh mục | tồn kho | nổi bật | ảnh (phân cách bằng ;)
func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}

	filePath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	gdb := db.GetDB()

	if err := ensureAdminUser(gdb); err != nil {
		log.Fatal("Failed to create admin user:", err)
	}

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	products, err := readProductsFromXLSX(gdb, filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Total products to import: %d\n", len(products))

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	batchSize := 200
	fmt.Printf("Starting bulk import with batch size: %d\n", batchSize)
	if err := gdb.CreateInBatches(products, batchSize).Error; err != nil {
		log.Fatal("Failed to bulk create products:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Total products imported: %d\n", len(products))
}

// ensureAdminUser tạo tài khoản quản trị từ biến môi trường nếu chưa có
func ensureAdminUser(gdb *gorm.DB) error {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		fmt.Println("ADMIN_EMAIL/ADMIN_PASSWORD not set, skipping admin user")
		return nil
	}

	var count int64
	if err := gdb.Model(&model.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		fmt.Printf("Admin user %s already exists\n", email)
		return nil
	}

	hashed, err := util.HashPassword(password)
	if err != nil {
		return err
	}

	admin := model.User{
		Email:        email,
		PasswordHash: hashed,
		Name:         "Quản trị viên",
		Role:         model.RoleAdmin,
	}
	if err := gdb.Create(&admin).Error; err != nil {
		return err
	}

	fmt.Printf("Admin user %s created\n", email)
	return nil
}

func readProductsFromXLSX(gdb *gorm.DB, filePath string) ([]model.Product, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	fmt.Printf("Reading sheet: %s\n", sheetName)

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("no data found in XLSX file")
	}

	var products []model.Product
	categoryIDs := make(map[string]uint) // cache theo slug danh mục
	slugCounter := make(map[string]int)  // xử lý trùng slug
	skippedCount := 0

	// Hàng đầu là header
	for i, row := range rows {
		if i == 0 {
			fmt.Printf("Headers: %v\n", row)
			continue
		}

		if len(row) < 8 {
			skippedCount++
			continue
		}

		name := strings.TrimSpace(row[0])
		description := strings.TrimSpace(row[1])
		priceStr := strings.TrimSpace(row[2])
		originalPriceStr := strings.TrimSpace(row[3])
		weightStr := strings.TrimSpace(row[4])
		origin := strings.TrimSpace(row[5])
		categoryName := strings.TrimSpace(row[6])
		stockStr := strings.TrimSpace(row[7])

		featured := false
		if len(row) > 8 {
			featured = strings.TrimSpace(row[8]) == "1" || strings.EqualFold(strings.TrimSpace(row[8]), "true")
		}
		var imageURLs []string
		if len(row) > 9 {
			for _, u := range strings.Split(row[9], ";") {
				if u = strings.TrimSpace(u); u != "" {
					imageURLs = append(imageURLs, u)
				}
			}
		}

		if name == "" || priceStr == "" {
			skippedCount++
			continue
		}

		price, err := strconv.ParseFloat(priceStr, 64)
		if err != nil || price <= 0 {
			skippedCount++
			continue
		}
		originalPrice, _ := strconv.ParseFloat(originalPriceStr, 64)
		weight, _ := strconv.ParseFloat(weightStr, 64)
		stock, _ := strconv.Atoi(stockStr)

		var categoryID *uint
		if categoryName != "" {
			id, err := ensureCategory(gdb, categoryIDs, categoryName)
			if err != nil {
				return nil, err
			}
			categoryID = &id
		}

		baseSlug := generateSlug(name)
		slug := baseSlug
		if count, exists := slugCounter[baseSlug]; exists {
			slugCounter[baseSlug] = count + 1
			slug = fmt.Sprintf("%s-%d", baseSlug, count+1)
		} else {
			slugCounter[baseSlug] = 1
		}

		product := model.Product{
			Name:          name,
			Slug:          slug,
			Description:   description,
			Price:         price,
			OriginalPrice: originalPrice,
			Weight:        weight,
			Origin:        origin,
			CategoryID:    categoryID,
			StockQuantity: stock,
			IsActive:      true,
			IsFeatured:    featured,
		}
		for order, u := range imageURLs {
			product.Images = append(product.Images, model.ProductImage{
				URL:       u,
				SortOrder: order,
			})
		}

		products = append(products, product)
	}

	fmt.Printf("\nSummary:\n")
	fmt.Printf("  Total rows: %d\n", len(rows)-1)
	fmt.Printf("  Valid products: %d\n", len(products))
	fmt.Printf("  Skipped rows: %d\n", skippedCount)

	return products, nil
}

// ensureCategory tìm hoặc tạo danh mục theo tên, trả về ID
func ensureCategory(gdb *gorm.DB, cache map[string]uint, name string) (uint, error) {
	slug := generateSlug(name)
	if id, ok := cache[slug]; ok {
		return id, nil
	}

	var category model.Category
	err := gdb.Where("slug = ?", slug).First(&category).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		category = model.Category{Name: name, Slug: slug}
		if err := gdb.Create(&category).Error; err != nil {
			return 0, err
		}
	} else if err != nil {
		return 0, err
	}

	cache[slug] = category.ID
	return category.ID, nil
}

// generateSlug tạo slug URL từ tên sản phẩm, giữ chữ có dấu
func generateSlug(name string) string {
	slug := strings.ToLower(name)

	reg := regexp.MustCompile(`[^\p{L}\p{N}-]+`)
	slug = reg.ReplaceAllString(slug, "-")

	reg = regexp.MustCompile(`-+`)
	slug = reg.ReplaceAllString(slug, "-")

	return strings.Trim(slug, "-")
}
