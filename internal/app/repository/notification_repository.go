package repository

import (
	"github.com/minhngo/birdnest-backend/internal/app/model"
	"gorm.io/gorm"
)

// NotificationRepository kho thông báo
type NotificationRepository interface {
	Create(notification *model.Notification) error
	FindByID(id uint) (*model.Notification, error)
	FindForUser(userID uint, isAdmin bool, isRead *bool, limit, offset int) ([]model.Notification, int64, error)
	GetUnreadCount(userID uint, isAdmin bool) (int64, error)
	MarkAsRead(id uint) error
	MarkAllAsRead(userID uint, isAdmin bool) error
	Delete(id uint) error
}

type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository khởi tạo kho thông báo
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(notification *model.Notification) error {
	return r.db.Create(notification).Error
}

func (r *notificationRepository) FindByID(id uint) (*model.Notification, error) {
	var notification model.Notification
	if err := r.db.First(&notification, id).Error; err != nil {
		return nil, err
	}
	return &notification, nil
}

// scopeRecipient giới hạn theo người nhận: user thường chỉ thấy thông báo USER
// của chính mình; admin thấy thêm thông báo ADMIN (kể cả broadcast user_id NULL)
func (r *notificationRepository) scopeRecipient(query *gorm.DB, userID uint, isAdmin bool) *gorm.DB {
	if isAdmin {
		return query.Where(
			"(recipient_type = ? AND user_id = ?) OR (recipient_type = ? AND (user_id IS NULL OR user_id = ?))",
			model.RecipientUser, userID, model.RecipientAdmin, userID,
		)
	}
	return query.Where("recipient_type = ? AND user_id = ?", model.RecipientUser, userID)
}

func (r *notificationRepository) FindForUser(userID uint, isAdmin bool, isRead *bool, limit, offset int) ([]model.Notification, int64, error) {
	var notifications []model.Notification
	var total int64

	query := r.scopeRecipient(r.db.Model(&model.Notification{}), userID, isAdmin)

	if isRead != nil {
		query = query.Where("is_read = ?", *isRead)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	if err := query.Find(&notifications).Error; err != nil {
		return nil, 0, err
	}

	return notifications, total, nil
}

func (r *notificationRepository) GetUnreadCount(userID uint, isAdmin bool) (int64, error) {
	var count int64
	err := r.scopeRecipient(r.db.Model(&model.Notification{}), userID, isAdmin).
		Where("is_read = ?", false).
		Count(&count).Error
	return count, err
}

func (r *notificationRepository) MarkAsRead(id uint) error {
	return r.db.Model(&model.Notification{}).
		Where("id = ?", id).
		Update("is_read", true).Error
}

func (r *notificationRepository) MarkAllAsRead(userID uint, isAdmin bool) error {
	return r.scopeRecipient(r.db.Model(&model.Notification{}), userID, isAdmin).
		Where("is_read = ?", false).
		Update("is_read", true).Error
}

func (r *notificationRepository) Delete(id uint) error {
	return r.db.Delete(&model.Notification{}, id).Error
}
