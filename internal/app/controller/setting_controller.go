package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/minhngo/birdnest-backend/internal/app/service"
	apperrors "github.com/minhngo/birdnest-backend/internal/errors"
	"github.com/minhngo/birdnest-backend/internal/middleware"
)

type SettingController struct {
	settingService service.SettingService
}

func NewSettingController(settingService service.SettingService) *SettingController {
	return &SettingController{
		settingService: settingService,
	}
}

// GetPublicSettings returns settings safe to expose to the storefront:
// store contact info, bank transfer details, delivery fee policy.
// GET /api/v1/settings
func (ctrl *SettingController) GetPublicSettings(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	settings, err := ctrl.settingService.GetPublicSettings()
	if err != nil {
		log.Error("Failed to fetch public settings", err, nil)
		apperrors.InternalError(c, "Không thể tải cấu hình cửa hàng")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"settings": settings,
	})
}

// UpdateSettings updates store settings (Admin only)
// PUT /api/v1/admin/settings
func (ctrl *SettingController) UpdateSettings(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req map[string]string
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid update settings request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Dữ liệu cấu hình không hợp lệ")
		return
	}
	if len(req) == 0 {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "Không có cấu hình nào để cập nhật")
		return
	}

	if err := ctrl.settingService.UpdateSettings(req); err != nil {
		log.Error("Failed to update settings", err, map[string]interface{}{
			"count": len(req),
		})
		apperrors.InternalError(c, "Không thể cập nhật cấu hình")
		return
	}

	log.Info("Settings updated successfully", map[string]interface{}{
		"count": len(req),
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Đã cập nhật cấu hình cửa hàng",
	})
}
