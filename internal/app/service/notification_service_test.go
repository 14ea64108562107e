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

func setupNotificationServiceTest(t *testing.T) (NotificationService, *model.User, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	service := NewNotificationService(repository.NewNotificationRepository(testDB), nil)

	user := &model.User{
		Email:        "test@example.com",
		PasswordHash: "hash",
		Name:         "Nguyễn Văn An",
		Role:         model.RoleUser,
	}
	testDB.Create(user)

	return service, user, testDB
}

func TestNotificationService_NotifyOrderCreated(t *testing.T) {
	service, user, _ := setupNotificationServiceTest(t)

	order := &model.Order{ID: 1, UserID: &user.ID, Total: 430000}
	service.NotifyOrderCreated(order)

	// Người mua nhận một thông báo
	notifications, total, unread, err := service.GetNotifications(user.ID, false, nil, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, int64(1), unread)
	require.Len(t, notifications, 1)
	assert.Equal(t, model.NotificationTypeOrderCreated, notifications[0].Type)

	// Admin nhận bản broadcast
	adminNotifications, adminTotal, _, err := service.GetNotifications(999, true, nil, 1, 20)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, adminTotal, int64(1))
	found := false
	for _, n := range adminNotifications {
		if n.RecipientType == model.RecipientAdmin {
			found = true
		}
	}
	assert.True(t, found)
}

func TestNotificationService_NotifyOrderCreated_GuestSkipsUser(t *testing.T) {
	service, user, _ := setupNotificationServiceTest(t)

	order := &model.Order{ID: 2, GuestName: "Khách Lẻ", Total: 230000}
	service.NotifyOrderCreated(order)

	_, total, _, err := service.GetNotifications(user.ID, false, nil, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}

func TestNotificationService_MarkAsRead(t *testing.T) {
	service, user, _ := setupNotificationServiceTest(t)

	order := &model.Order{ID: 1, UserID: &user.ID, Total: 430000}
	service.NotifyOrderCreated(order)

	notifications, _, _, err := service.GetNotifications(user.ID, false, nil, 1, 20)
	require.NoError(t, err)
	require.Len(t, notifications, 1)

	marked, err := service.MarkAsRead(notifications[0].ID, user.ID, false)
	require.NoError(t, err)
	assert.True(t, marked.IsRead)

	unread, err := service.GetUnreadCount(user.ID, false)
	require.NoError(t, err)
	assert.Equal(t, int64(0), unread)
}

func TestNotificationService_MarkAsRead_AccessControl(t *testing.T) {
	service, user, _ := setupNotificationServiceTest(t)

	order := &model.Order{ID: 1, UserID: &user.ID, Total: 430000}
	service.NotifyOrderCreated(order)

	notifications, _, _, err := service.GetNotifications(user.ID, false, nil, 1, 20)
	require.NoError(t, err)
	require.Len(t, notifications, 1)

	// Người khác không đọc được thông báo không phải của mình
	_, err = service.MarkAsRead(notifications[0].ID, user.ID+1, false)
	assert.ErrorIs(t, err, ErrNotificationNotFound)

	// Thông báo không tồn tại
	_, err = service.MarkAsRead(9999, user.ID, false)
	assert.ErrorIs(t, err, ErrNotificationNotFound)
}

func TestNotificationService_AdminBroadcastAccess(t *testing.T) {
	service, user, _ := setupNotificationServiceTest(t)

	order := &model.Order{ID: 3, GuestName: "Khách Lẻ", Total: 230000}
	service.NotifyOrderCreated(order)

	adminNotifications, _, _, err := service.GetNotifications(999, true, nil, 1, 20)
	require.NoError(t, err)
	require.Len(t, adminNotifications, 1)

	// Người dùng thường không truy cập được broadcast admin
	_, err = service.MarkAsRead(adminNotifications[0].ID, user.ID, false)
	assert.ErrorIs(t, err, ErrNotificationNotFound)

	// Admin thì được
	marked, err := service.MarkAsRead(adminNotifications[0].ID, 999, true)
	require.NoError(t, err)
	assert.True(t, marked.IsRead)
}

func TestNotificationService_MarkAllAsRead(t *testing.T) {
	service, user, _ := setupNotificationServiceTest(t)

	for i := uint(1); i <= 3; i++ {
		order := &model.Order{ID: i, UserID: &user.ID, Total: 100000}
		service.NotifyOrderCreated(order)
	}

	require.NoError(t, service.MarkAllAsRead(user.ID, false))

	unread, err := service.GetUnreadCount(user.ID, false)
	require.NoError(t, err)
	assert.Equal(t, int64(0), unread)
}

func TestNotificationService_DeleteNotification(t *testing.T) {
	service, user, _ := setupNotificationServiceTest(t)

	order := &model.Order{ID: 1, UserID: &user.ID, Total: 430000}
	service.NotifyOrderCreated(order)

	notifications, _, _, err := service.GetNotifications(user.ID, false, nil, 1, 20)
	require.NoError(t, err)
	require.Len(t, notifications, 1)

	// Người khác không xoá được
	err = service.DeleteNotification(notifications[0].ID, user.ID+1, false)
	assert.ErrorIs(t, err, ErrNotificationNotFound)

	require.NoError(t, service.DeleteNotification(notifications[0].ID, user.ID, false))

	_, total, _, err := service.GetNotifications(user.ID, false, nil, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}

func TestNotificationService_FilterByReadState(t *testing.T) {
	service, user, _ := setupNotificationServiceTest(t)

	for i := uint(1); i <= 2; i++ {
		order := &model.Order{ID: i, UserID: &user.ID, Total: 100000}
		service.NotifyOrderCreated(order)
	}

	notifications, _, _, err := service.GetNotifications(user.ID, false, nil, 1, 20)
	require.NoError(t, err)
	require.Len(t, notifications, 2)

	_, err = service.MarkAsRead(notifications[0].ID, user.ID, false)
	require.NoError(t, err)

	isRead := true
	read, total, _, err := service.GetNotifications(user.ID, false, &isRead, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, read, 1)
	assert.True(t, read[0].IsRead)

	isRead = false
	unread, total, _, err := service.GetNotifications(user.ID, false, &isRead, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, unread, 1)
	assert.False(t, unread[0].IsRead)
}
