package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/minhngo/birdnest-backend/internal/app/model"
	"github.com/minhngo/birdnest-backend/internal/app/repository"
	"github.com/minhngo/birdnest-backend/internal/db"
	"github.com/minhngo/birdnest-backend/pkg/util"
)

func setupPasswordResetTest(t *testing.T) (PasswordResetService, *gorm.DB, *model.User) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	hash, err := util.HashPassword("matkhau123")
	require.NoError(t, err)

	user := &model.User{
		Email:        "an@example.com",
		PasswordHash: hash,
		Name:         "Nguyễn Văn An",
		Phone:        "0912345678",
		Role:         model.RoleUser,
	}
	require.NoError(t, testDB.Create(user).Error)

	resetRepo := repository.NewPasswordResetRepository(testDB)
	userRepo := repository.NewUserRepository(testDB)
	svc := NewPasswordResetService(resetRepo, userRepo)

	return svc, testDB, user
}

func TestPasswordResetService_RequestReset(t *testing.T) {
	svc, testDB, user := setupPasswordResetTest(t)

	err := svc.RequestReset(user.Email)
	require.NoError(t, err)

	var reset model.PasswordReset
	require.NoError(t, testDB.Where("email = ?", user.Email).First(&reset).Error)
	assert.NotEmpty(t, reset.Token)
	assert.False(t, reset.Used)
	assert.True(t, reset.ExpiresAt.After(time.Now()))
}

func TestPasswordResetService_RequestReset_UnknownEmail(t *testing.T) {
	svc, testDB, _ := setupPasswordResetTest(t)

	// Không tiết lộ email có tồn tại hay không
	err := svc.RequestReset("khongai@example.com")
	require.NoError(t, err)

	var count int64
	require.NoError(t, testDB.Model(&model.PasswordReset{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestPasswordResetService_ResetPassword(t *testing.T) {
	svc, testDB, user := setupPasswordResetTest(t)

	require.NoError(t, svc.RequestReset(user.Email))

	var reset model.PasswordReset
	require.NoError(t, testDB.Where("email = ?", user.Email).First(&reset).Error)

	err := svc.ResetPassword(reset.Token, "matkhaumoi456")
	require.NoError(t, err)

	var updated model.User
	require.NoError(t, testDB.First(&updated, user.ID).Error)
	assert.True(t, util.VerifyPassword(updated.PasswordHash, "matkhaumoi456"))
	assert.False(t, util.VerifyPassword(updated.PasswordHash, "matkhau123"))

	require.NoError(t, testDB.First(&reset, reset.ID).Error)
	assert.True(t, reset.Used)
}

func TestPasswordResetService_ResetPassword_Errors(t *testing.T) {
	svc, testDB, user := setupPasswordResetTest(t)

	t.Run("Invalid token", func(t *testing.T) {
		err := svc.ResetPassword("token-khong-ton-tai", "matkhaumoi456")
		assert.ErrorIs(t, err, ErrInvalidResetToken)
	})

	t.Run("Expired token", func(t *testing.T) {
		expired := &model.PasswordReset{
			Email:     user.Email,
			Token:     "token-qua-han",
			ExpiresAt: time.Now().Add(-time.Minute),
		}
		require.NoError(t, testDB.Create(expired).Error)

		err := svc.ResetPassword(expired.Token, "matkhaumoi456")
		assert.ErrorIs(t, err, ErrResetTokenExpired)
	})

	t.Run("Used token", func(t *testing.T) {
		used := &model.PasswordReset{
			Email:     user.Email,
			Token:     "token-da-dung",
			ExpiresAt: time.Now().Add(time.Hour),
			Used:      true,
		}
		require.NoError(t, testDB.Create(used).Error)

		err := svc.ResetPassword(used.Token, "matkhaumoi456")
		assert.ErrorIs(t, err, ErrResetTokenUsed)
	})
}
