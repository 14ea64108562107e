package repository

import (
	"errors"
	"sync"
	"time"

	"github.com/minhngo/birdnest-backend/internal/app/model"
	"github.com/minhngo/birdnest-backend/pkg/logger"
	"gorm.io/gorm"
)

// settingCacheTTL thời gian cache cấu hình trong bộ nhớ
const settingCacheTTL = 10 * time.Minute

type SettingRepository interface {
	Get(key string) (string, error)
	GetAll() (map[string]string, error)
	Set(key, value string) error
	InvalidateCache()
}

type settingRepository struct {
	db *gorm.DB

	mu       sync.RWMutex
	cache    map[string]string
	cachedAt time.Time
}

func NewSettingRepository(db *gorm.DB) SettingRepository {
	return &settingRepository{db: db}
}

func (r *settingRepository) loadAll() (map[string]string, error) {
	var settings []model.Setting
	if err := r.db.Find(&settings).Error; err != nil {
		logger.Error("Failed to load settings from database", err, nil)
		return nil, err
	}

	values := make(map[string]string, len(settings))
	for _, s := range settings {
		values[s.Key] = s.Value
	}
	return values, nil
}

// GetAll trả về toàn bộ cấu hình, ưu tiên cache trong 10 phút
func (r *settingRepository) GetAll() (map[string]string, error) {
	r.mu.RLock()
	if r.cache != nil && time.Since(r.cachedAt) < settingCacheTTL {
		cached := make(map[string]string, len(r.cache))
		for k, v := range r.cache {
			cached[k] = v
		}
		r.mu.RUnlock()
		return cached, nil
	}
	r.mu.RUnlock()

	values, err := r.loadAll()
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.cache = values
	r.cachedAt = time.Now()
	r.mu.Unlock()

	result := make(map[string]string, len(values))
	for k, v := range values {
		result[k] = v
	}
	return result, nil
}

func (r *settingRepository) Get(key string) (string, error) {
	values, err := r.GetAll()
	if err != nil {
		return "", err
	}

	value, ok := values[key]
	if !ok {
		return "", gorm.ErrRecordNotFound
	}
	return value, nil
}

func (r *settingRepository) Set(key, value string) error {
	logger.Debug("Updating setting in database", map[string]interface{}{
		"key": key,
	})

	var setting model.Setting
	err := r.db.Where("key = ?", key).First(&setting).Error
	switch {
	case err == nil:
		setting.Value = value
		err = r.db.Save(&setting).Error
	case errors.Is(err, gorm.ErrRecordNotFound):
		err = r.db.Create(&model.Setting{Key: key, Value: value}).Error
	}
	if err != nil {
		logger.Error("Failed to update setting in database", err, map[string]interface{}{
			"key": key,
		})
		return err
	}

	r.InvalidateCache()
	return nil
}

func (r *settingRepository) InvalidateCache() {
	r.mu.Lock()
	r.cache = nil
	r.mu.Unlock()
}
