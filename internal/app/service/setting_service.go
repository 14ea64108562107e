package service

import (
	"errors"
	"strconv"

	"github.com/minhngo/birdnest-backend/internal/app/model"
	"github.com/minhngo/birdnest-backend/internal/app/repository"
	"github.com/minhngo/birdnest-backend/pkg/logger"
	"gorm.io/gorm"
)

var ErrSettingNotFound = errors.New("setting not found")

// DeliveryConfig gom phí giao hàng và ngưỡng miễn phí đọc từ bảng settings.
type DeliveryConfig struct {
	Fee                   float64
	FreeShippingThreshold float64
}

type SettingService interface {
	GetPublicSettings() (map[string]string, error)
	GetSetting(key string) (string, error)
	UpdateSettings(values map[string]string) error
	GetDeliveryConfig() (DeliveryConfig, error)
}

type settingService struct {
	settingRepo repository.SettingRepository
}

func NewSettingService(settingRepo repository.SettingRepository) SettingService {
	return &settingService{settingRepo: settingRepo}
}

func (s *settingService) GetPublicSettings() (map[string]string, error) {
	logger.Debug("Fetching public settings", nil)

	settings, err := s.settingRepo.GetAll()
	if err != nil {
		logger.Error("Failed to fetch settings", err)
		return nil, err
	}
	return settings, nil
}

func (s *settingService) GetSetting(key string) (string, error) {
	value, err := s.settingRepo.Get(key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Setting not found", map[string]interface{}{
				"key": key,
			})
			return "", ErrSettingNotFound
		}
		logger.Error("Failed to fetch setting", err, map[string]interface{}{
			"key": key,
		})
		return "", err
	}
	return value, nil
}

func (s *settingService) UpdateSettings(values map[string]string) error {
	logger.Info("Updating settings", map[string]interface{}{
		"count": len(values),
	})

	for key, value := range values {
		if err := s.settingRepo.Set(key, value); err != nil {
			logger.Error("Failed to update setting", err, map[string]interface{}{
				"key": key,
			})
			return err
		}
	}

	logger.Info("Settings updated successfully", map[string]interface{}{
		"count": len(values),
	})
	return nil
}

func (s *settingService) GetDeliveryConfig() (DeliveryConfig, error) {
	settings, err := s.settingRepo.GetAll()
	if err != nil {
		logger.Error("Failed to fetch delivery settings", err)
		return DeliveryConfig{}, err
	}

	cfg := DeliveryConfig{
		Fee:                   30000,
		FreeShippingThreshold: 500000,
	}
	if raw, ok := settings[model.SettingDeliveryFee]; ok {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			cfg.Fee = v
		}
	}
	if raw, ok := settings[model.SettingFreeShippingThreshold]; ok {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			cfg.FreeShippingThreshold = v
		}
	}
	return cfg, nil
}
