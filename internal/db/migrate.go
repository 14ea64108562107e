package db

import (
	"github.com/minhngo/birdnest-backend/internal/app/model"
	"github.com/minhngo/birdnest-backend/pkg/logger"
)

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&model.User{},
		&model.Category{},
		&model.Product{},
		&model.ProductImage{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
		&model.Address{},
		&model.Review{},
		&model.WishlistItem{},
		&model.Notification{},
		&model.Setting{},
		&model.PasswordReset{},
	}

	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	if err := seedInitialData(); err != nil {
		logger.Error("Failed to seed initial data during migration", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// Seed adds initial data to the database (optional)
func Seed() error {
	return seedInitialData()
}

func seedInitialData() error {
	logger.Info("Seeding initial data...")

	if err := seedSettings(); err != nil {
		logger.Error("Failed to seed settings", err)
		return err
	}

	logger.Info("Initial data seeded successfully")
	return nil
}

// seedSettings tạo các cấu hình cửa hàng mặc định nếu chưa có
func seedSettings() error {
	defaults := []model.Setting{
		{Key: model.SettingStoreName, Value: "Birdnest Shop"},
		{Key: model.SettingStorePhone, Value: "0901234567"},
		{Key: model.SettingStoreEmail, Value: "contact@birdnest.vn"},
		{Key: model.SettingStoreAddress, Value: "Nha Trang, Khánh Hoà"},
		{Key: model.SettingDeliveryFee, Value: "30000"},
		{Key: model.SettingFreeShippingThreshold, Value: "500000"},
		{Key: model.SettingBankName, Value: "Vietcombank"},
		{Key: model.SettingBankAccountNumber, Value: ""},
		{Key: model.SettingBankAccountName, Value: "Birdnest Shop"},
	}

	totalInserted := 0
	for _, setting := range defaults {
		var count int64
		if err := DB.Model(&model.Setting{}).Where("key = ?", setting.Key).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		if err := DB.Create(&setting).Error; err != nil {
			logger.Error("Failed to create setting", err, map[string]interface{}{
				"key": setting.Key,
			})
			return err
		}
		totalInserted++
	}

	logger.Info("Settings seeded successfully", map[string]interface{}{
		"total_inserted": totalInserted,
	})

	return nil
}
