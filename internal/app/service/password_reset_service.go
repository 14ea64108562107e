package service

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/minhngo/birdnest-backend/internal/app/model"
	"github.com/minhngo/birdnest-backend/internal/app/repository"
	"github.com/minhngo/birdnest-backend/pkg/logger"
	"github.com/minhngo/birdnest-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrInvalidResetToken = errors.New("invalid or expired reset token")
	ErrResetTokenExpired = errors.New("reset token has expired")
	ErrResetTokenUsed    = errors.New("reset token has already been used")
)

const (
	// ResetTokenExpiry là thời hạn hiệu lực của token đặt lại mật khẩu
	ResetTokenExpiry = 1 * time.Hour
	// ResetTokenLength là số byte ngẫu nhiên của token
	ResetTokenLength = 32
)

type PasswordResetService interface {
	RequestReset(email string) error
	ResetPassword(token, newPassword string) error
}

type passwordResetService struct {
	resetRepo repository.PasswordResetRepository
	userRepo  repository.UserRepository
}

func NewPasswordResetService(
	resetRepo repository.PasswordResetRepository,
	userRepo repository.UserRepository,
) PasswordResetService {
	return &passwordResetService{
		resetRepo: resetRepo,
		userRepo:  userRepo,
	}
}

func (s *passwordResetService) RequestReset(email string) error {
	// Dọn token quá hạn nhân tiện, bảng không phình to theo thời gian
	if err := s.resetRepo.DeleteExpired(); err != nil {
		logger.Warn("Failed to clean up expired reset tokens", map[string]interface{}{
			"error": err.Error(),
		})
	}

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Không tiết lộ email có tồn tại hay không
			logger.Warn("Password reset requested for non-existent email", map[string]interface{}{
				"email": email,
			})
			return nil
		}
		logger.Error("Failed to find user for password reset", err, map[string]interface{}{
			"email": email,
		})
		return err
	}

	token, err := generateResetToken()
	if err != nil {
		logger.Error("Failed to generate reset token", err, nil)
		return err
	}

	reset := &model.PasswordReset{
		Email:     email,
		Token:     token,
		ExpiresAt: time.Now().Add(ResetTokenExpiry),
		Used:      false,
	}

	if err := s.resetRepo.Create(reset); err != nil {
		logger.Error("Failed to create password reset record", err, map[string]interface{}{
			"email": email,
		})
		return err
	}

	// TODO: gửi email chứa link đặt lại mật khẩu, hiện mới ghi log
	logger.Info("Password reset token generated", map[string]interface{}{
		"user_id":    user.ID,
		"expires_at": reset.ExpiresAt,
	})

	return nil
}

func (s *passwordResetService) ResetPassword(token, newPassword string) error {
	reset, err := s.resetRepo.FindByToken(token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Invalid reset token provided", nil)
			return ErrInvalidResetToken
		}
		logger.Error("Failed to find reset record", err, nil)
		return err
	}

	if time.Now().After(reset.ExpiresAt) {
		logger.Warn("Reset token has expired", map[string]interface{}{
			"email": reset.Email,
		})
		return ErrResetTokenExpired
	}

	if reset.Used {
		logger.Warn("Reset token has already been used", map[string]interface{}{
			"email": reset.Email,
		})
		return ErrResetTokenUsed
	}

	user, err := s.userRepo.FindByEmail(reset.Email)
	if err != nil {
		logger.Error("Failed to find user for password reset", err, map[string]interface{}{
			"email": reset.Email,
		})
		return err
	}

	hashedPassword, err := util.HashPassword(newPassword)
	if err != nil {
		logger.Error("Failed to hash new password", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return err
	}

	user.PasswordHash = hashedPassword
	if err := s.userRepo.Update(user); err != nil {
		logger.Error("Failed to update user password", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return err
	}

	// Mật khẩu đã đổi xong, đánh dấu token thất bại cũng không hoàn tác
	if err := s.resetRepo.MarkAsUsed(reset.ID); err != nil {
		logger.Warn("Failed to mark reset token as used", map[string]interface{}{
			"reset_id": reset.ID,
			"error":    err.Error(),
		})
	}

	logger.Info("Password reset successful", map[string]interface{}{
		"user_id": user.ID,
	})

	return nil
}

func generateResetToken() (string, error) {
	bytes := make([]byte, ResetTokenLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
