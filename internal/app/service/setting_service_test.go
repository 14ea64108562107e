package service

import (
	"testing"

	"github.com/minhngo/birdnest-backend/internal/app/model"
	"github.com/minhngo/birdnest-backend/internal/app/repository"
	"github.com/minhngo/birdnest-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupSettingServiceTest(t *testing.T) (SettingService, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	settingRepo := repository.NewSettingRepository(testDB)
	return NewSettingService(settingRepo), testDB
}

func TestSettingService_GetSetting(t *testing.T) {
	settingService, _ := setupSettingServiceTest(t)

	err := settingService.UpdateSettings(map[string]string{
		model.SettingStoreName: "Yến Sào Minh Ngô",
	})
	require.NoError(t, err)

	value, err := settingService.GetSetting(model.SettingStoreName)
	require.NoError(t, err)
	assert.Equal(t, "Yến Sào Minh Ngô", value)

	_, err = settingService.GetSetting("khong_ton_tai")
	assert.ErrorIs(t, err, ErrSettingNotFound)
}

func TestSettingService_UpdateSettings_Overwrite(t *testing.T) {
	settingService, testDB := setupSettingServiceTest(t)

	err := settingService.UpdateSettings(map[string]string{
		model.SettingStorePhone: "0909123456",
	})
	require.NoError(t, err)

	err = settingService.UpdateSettings(map[string]string{
		model.SettingStorePhone: "0909654321",
	})
	require.NoError(t, err)

	value, err := settingService.GetSetting(model.SettingStorePhone)
	require.NoError(t, err)
	assert.Equal(t, "0909654321", value)

	// Ghi đè không được tạo thêm bản ghi trùng khoá
	var count int64
	err = testDB.Model(&model.Setting{}).Where("key = ?", model.SettingStorePhone).Count(&count).Error
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestSettingService_GetPublicSettings(t *testing.T) {
	settingService, _ := setupSettingServiceTest(t)

	err := settingService.UpdateSettings(map[string]string{
		model.SettingStoreName:    "Yến Sào Minh Ngô",
		model.SettingStoreAddress: "25 Trần Phú, Nha Trang",
	})
	require.NoError(t, err)

	settings, err := settingService.GetPublicSettings()
	require.NoError(t, err)
	assert.Equal(t, "Yến Sào Minh Ngô", settings[model.SettingStoreName])
	assert.Equal(t, "25 Trần Phú, Nha Trang", settings[model.SettingStoreAddress])
}

func TestSettingService_GetDeliveryConfig(t *testing.T) {
	t.Run("Defaults when unset", func(t *testing.T) {
		settingService, _ := setupSettingServiceTest(t)

		cfg, err := settingService.GetDeliveryConfig()
		require.NoError(t, err)
		assert.Equal(t, float64(30000), cfg.Fee)
		assert.Equal(t, float64(500000), cfg.FreeShippingThreshold)
	})

	t.Run("Values from settings", func(t *testing.T) {
		settingService, _ := setupSettingServiceTest(t)

		err := settingService.UpdateSettings(map[string]string{
			model.SettingDeliveryFee:           "45000",
			model.SettingFreeShippingThreshold: "2000000",
		})
		require.NoError(t, err)

		cfg, err := settingService.GetDeliveryConfig()
		require.NoError(t, err)
		assert.Equal(t, float64(45000), cfg.Fee)
		assert.Equal(t, float64(2000000), cfg.FreeShippingThreshold)
	})

	t.Run("Invalid number keeps default", func(t *testing.T) {
		settingService, _ := setupSettingServiceTest(t)

		err := settingService.UpdateSettings(map[string]string{
			model.SettingDeliveryFee: "mien-phi",
		})
		require.NoError(t, err)

		cfg, err := settingService.GetDeliveryConfig()
		require.NoError(t, err)
		assert.Equal(t, float64(30000), cfg.Fee)
	})
}
