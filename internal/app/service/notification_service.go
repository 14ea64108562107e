package service

import (
	"errors"
	"fmt"

	"github.com/minhngo/birdnest-backend/internal/app/model"
	"github.com/minhngo/birdnest-backend/internal/app/repository"
	"github.com/minhngo/birdnest-backend/internal/websocket"
	"github.com/minhngo/birdnest-backend/pkg/logger"
	"gorm.io/gorm"
)

var ErrNotificationNotFound = errors.New("notification not found")

type NotificationService interface {
	GetNotifications(userID uint, isAdmin bool, isRead *bool, page, pageSize int) ([]model.Notification, int64, int64, error)
	GetUnreadCount(userID uint, isAdmin bool) (int64, error)
	MarkAsRead(notificationID, userID uint, isAdmin bool) (*model.Notification, error)
	MarkAllAsRead(userID uint, isAdmin bool) error
	DeleteNotification(notificationID, userID uint, isAdmin bool) error

	NotifyOrderCreated(order *model.Order)
	NotifyOrderStatusChanged(order *model.Order, previous model.OrderStatus)
	NotifyOrderExpired(order *model.Order)
	NotifyReviewCreated(review *model.Review, productName string)
}

type notificationService struct {
	repo repository.NotificationRepository
	hub  *websocket.Hub
}

func NewNotificationService(repo repository.NotificationRepository, hub *websocket.Hub) NotificationService {
	return &notificationService{
		repo: repo,
		hub:  hub,
	}
}

func (s *notificationService) GetNotifications(
	userID uint,
	isAdmin bool,
	isRead *bool,
	page, pageSize int,
) ([]model.Notification, int64, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}

	offset := (page - 1) * pageSize

	notifications, total, err := s.repo.FindForUser(userID, isAdmin, isRead, pageSize, offset)
	if err != nil {
		logger.Error("Failed to fetch notifications", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, 0, 0, err
	}

	unreadCount, err := s.repo.GetUnreadCount(userID, isAdmin)
	if err != nil {
		return nil, 0, 0, err
	}

	return notifications, total, unreadCount, nil
}

func (s *notificationService) GetUnreadCount(userID uint, isAdmin bool) (int64, error) {
	return s.repo.GetUnreadCount(userID, isAdmin)
}

// canAccess kiểm tra quyền trên một thông báo: của chính mình, hoặc
// broadcast cho admin khi người gọi là admin.
func canAccess(notification *model.Notification, userID uint, isAdmin bool) bool {
	if notification.RecipientType == model.RecipientAdmin {
		return isAdmin
	}
	return notification.UserID != nil && *notification.UserID == userID
}

func (s *notificationService) MarkAsRead(notificationID, userID uint, isAdmin bool) (*model.Notification, error) {
	notification, err := s.repo.FindByID(notificationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, err
	}

	if !canAccess(notification, userID, isAdmin) {
		logger.Warn("Notification access denied", map[string]interface{}{
			"notification_id": notificationID,
			"user_id":         userID,
		})
		return nil, ErrNotificationNotFound
	}

	if notification.IsRead {
		return notification, nil
	}

	if err := s.repo.MarkAsRead(notificationID); err != nil {
		return nil, err
	}

	notification.IsRead = true
	return notification, nil
}

func (s *notificationService) MarkAllAsRead(userID uint, isAdmin bool) error {
	return s.repo.MarkAllAsRead(userID, isAdmin)
}

func (s *notificationService) DeleteNotification(notificationID, userID uint, isAdmin bool) error {
	notification, err := s.repo.FindByID(notificationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotificationNotFound
		}
		return err
	}

	if !canAccess(notification, userID, isAdmin) {
		return ErrNotificationNotFound
	}

	return s.repo.Delete(notificationID)
}

// create ghi thông báo và đẩy realtime; lỗi chỉ ghi log, không lan ra ngoài.
func (s *notificationService) create(notification *model.Notification) {
	if err := s.repo.Create(notification); err != nil {
		logger.Warn("Failed to create notification", map[string]interface{}{
			"type":  notification.Type,
			"error": err.Error(),
		})
		return
	}

	if s.hub == nil {
		return
	}

	message := map[string]interface{}{
		"type":         "new_notification",
		"notification": notification,
	}

	if notification.RecipientType == model.RecipientAdmin {
		s.hub.BroadcastToAdmins(message)
		return
	}
	if notification.UserID != nil {
		s.hub.SendToUser(*notification.UserID, message)
	}
}

func (s *notificationService) NotifyOrderCreated(order *model.Order) {
	if order.UserID != nil {
		s.create(&model.Notification{
			RecipientType:  model.RecipientUser,
			UserID:         order.UserID,
			Type:           model.NotificationTypeOrderCreated,
			Title:          "Đặt hàng thành công",
			Content:        fmt.Sprintf("Đơn hàng #%d của bạn đã được tạo, tổng tiền %.0f₫.", order.ID, order.Total),
			Link:           fmt.Sprintf("/orders/%d", order.ID),
			RelatedOrderID: &order.ID,
		})
	}

	customer := order.GuestName
	if order.User != nil {
		customer = order.User.Name
	}
	s.create(&model.Notification{
		RecipientType:  model.RecipientAdmin,
		Type:           model.NotificationTypeOrderCreated,
		Title:          "Có đơn hàng mới",
		Content:        fmt.Sprintf("Đơn hàng #%d từ %s, tổng tiền %.0f₫.", order.ID, customer, order.Total),
		Link:           fmt.Sprintf("/admin/orders/%d", order.ID),
		RelatedOrderID: &order.ID,
	})
}

func (s *notificationService) NotifyOrderStatusChanged(order *model.Order, previous model.OrderStatus) {
	if order.UserID == nil {
		return
	}

	s.create(&model.Notification{
		RecipientType:  model.RecipientUser,
		UserID:         order.UserID,
		Type:           model.NotificationTypeOrderStatus,
		Title:          "Cập nhật đơn hàng",
		Content:        fmt.Sprintf("Đơn hàng #%d chuyển từ %s sang %s.", order.ID, previous, order.Status),
		Link:           fmt.Sprintf("/orders/%d", order.ID),
		RelatedOrderID: &order.ID,
	})
}

func (s *notificationService) NotifyOrderExpired(order *model.Order) {
	if order.UserID == nil {
		return
	}

	s.create(&model.Notification{
		RecipientType:  model.RecipientUser,
		UserID:         order.UserID,
		Type:           model.NotificationTypeOrderExpired,
		Title:          "Đơn hàng đã bị huỷ",
		Content:        fmt.Sprintf("Đơn hàng #%d bị huỷ do quá hạn thanh toán.", order.ID),
		Link:           fmt.Sprintf("/orders/%d", order.ID),
		RelatedOrderID: &order.ID,
	})
}

func (s *notificationService) NotifyReviewCreated(review *model.Review, productName string) {
	s.create(&model.Notification{
		RecipientType:    model.RecipientAdmin,
		Type:             model.NotificationTypeReviewCreated,
		Title:            "Có đánh giá mới",
		Content:          fmt.Sprintf("Sản phẩm %q nhận đánh giá %d sao.", productName, review.Rating),
		Link:             fmt.Sprintf("/admin/products/%d", review.ProductID),
		RelatedProductID: &review.ProductID,
	})
}
