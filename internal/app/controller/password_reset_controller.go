package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/minhngo/birdnest-backend/internal/app/service"
	apperrors "github.com/minhngo/birdnest-backend/internal/errors"
	"github.com/minhngo/birdnest-backend/internal/middleware"
)

type PasswordResetController struct {
	resetService service.PasswordResetService
}

func NewPasswordResetController(resetService service.PasswordResetService) *PasswordResetController {
	return &PasswordResetController{
		resetService: resetService,
	}
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

// ForgotPassword issues a reset token for the given email.
// Always responds with success so callers cannot probe which emails exist.
// POST /api/v1/auth/forgot-password
func (ctrl *PasswordResetController) ForgotPassword(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid forgot password request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Email không hợp lệ")
		return
	}

	if err := ctrl.resetService.RequestReset(req.Email); err != nil {
		log.Error("Failed to process password reset request", err, nil)
		apperrors.InternalError(c, "Không thể xử lý yêu cầu đặt lại mật khẩu")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Nếu email tồn tại, hướng dẫn đặt lại mật khẩu đã được gửi",
	})
}

// ResetPassword sets a new password from a valid reset token
// POST /api/v1/auth/reset-password
func (ctrl *PasswordResetController) ResetPassword(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid reset password request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Thông tin đặt lại mật khẩu không hợp lệ")
		return
	}

	if err := ctrl.resetService.ResetPassword(req.Token, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidResetToken), errors.Is(err, service.ErrResetTokenExpired):
			apperrors.BadRequest(c, apperrors.AuthTokenInvalid, "Liên kết đặt lại mật khẩu không hợp lệ hoặc đã hết hạn")
		case errors.Is(err, service.ErrResetTokenUsed):
			apperrors.BadRequest(c, apperrors.AuthTokenInvalid, "Liên kết đặt lại mật khẩu đã được sử dụng")
		default:
			log.Error("Failed to reset password", err, nil)
			apperrors.InternalError(c, "Không thể đặt lại mật khẩu")
		}
		return
	}

	log.Info("Password reset completed", nil)
	c.JSON(http.StatusOK, gin.H{
		"message": "Đặt lại mật khẩu thành công",
	})
}
