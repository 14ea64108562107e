package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	gorillaws "github.com/gorilla/websocket"
	"github.com/minhngo/birdnest-backend/internal/app/service"
	apperrors "github.com/minhngo/birdnest-backend/internal/errors"
	"github.com/minhngo/birdnest-backend/internal/middleware"
	"github.com/minhngo/birdnest-backend/internal/websocket"
)

// NotificationController controller thông báo
type NotificationController struct {
	service service.NotificationService
	hub     *websocket.Hub
}

// NewNotificationController khởi tạo controller thông báo
func NewNotificationController(service service.NotificationService, hub *websocket.Hub) *NotificationController {
	return &NotificationController{
		service: service,
		hub:     hub,
	}
}

var wsUpgrader = gorillaws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// CORS đã được kiểm soát ở middleware, chấp nhận mọi origin tại đây
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// GetNotifications godoc
// @Summary Danh sách thông báo
// @Description Trả về thông báo của người dùng, admin thấy cả thông báo hệ thống
// @Tags notifications
// @Accept json
// @Produce json
// @Param page query int false "Trang" default(1)
// @Param page_size query int false "Số dòng mỗi trang" default(20)
// @Param is_read query bool false "Lọc theo trạng thái đã đọc"
// @Success 200 {object} gin.H{data=[]model.Notification,total=int,page=int,page_size=int,unread_count=int}
// @Failure 401 {object} gin.H
// @Security BearerAuth
// @Router /api/v1/notifications [get]
func (c *NotificationController) GetNotifications(ctx *gin.Context) {
	userID, exists := middleware.GetUserID(ctx)
	if !exists {
		apperrors.Unauthorized(ctx, "Vui lòng đăng nhập để tiếp tục")
		return
	}
	isAdmin := middleware.IsAdmin(ctx)

	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(ctx.DefaultQuery("page_size", "20"))

	var isRead *bool
	if isReadStr := ctx.Query("is_read"); isReadStr != "" {
		if isReadStr == "true" {
			t := true
			isRead = &t
		} else if isReadStr == "false" {
			f := false
			isRead = &f
		}
	}

	notifications, total, unreadCount, err := c.service.GetNotifications(userID, isAdmin, isRead, page, pageSize)
	if err != nil {
		apperrors.InternalError(ctx, "Không thể tải danh sách thông báo")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"data":         notifications,
		"total":        total,
		"page":         page,
		"page_size":    pageSize,
		"unread_count": unreadCount,
	})
}

// GetUnreadCount godoc
// @Summary Số thông báo chưa đọc
// @Tags notifications
// @Produce json
// @Success 200 {object} gin.H{unread_count=int}
// @Failure 401 {object} gin.H
// @Security BearerAuth
// @Router /api/v1/notifications/unread-count [get]
func (c *NotificationController) GetUnreadCount(ctx *gin.Context) {
	userID, exists := middleware.GetUserID(ctx)
	if !exists {
		apperrors.Unauthorized(ctx, "Vui lòng đăng nhập để tiếp tục")
		return
	}

	count, err := c.service.GetUnreadCount(userID, middleware.IsAdmin(ctx))
	if err != nil {
		apperrors.InternalError(ctx, "Không thể đếm thông báo chưa đọc")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"unread_count": count,
	})
}

// MarkAsRead godoc
// @Summary Đánh dấu thông báo đã đọc
// @Tags notifications
// @Produce json
// @Param id path int true "ID thông báo"
// @Success 200 {object} gin.H{notification=model.Notification}
// @Failure 401 {object} gin.H
// @Failure 404 {object} gin.H
// @Security BearerAuth
// @Router /api/v1/notifications/{id}/read [patch]
func (c *NotificationController) MarkAsRead(ctx *gin.Context) {
	userID, exists := middleware.GetUserID(ctx)
	if !exists {
		apperrors.Unauthorized(ctx, "Vui lòng đăng nhập để tiếp tục")
		return
	}

	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(ctx, apperrors.ValidationInvalidID, "Mã thông báo không hợp lệ")
		return
	}

	notification, err := c.service.MarkAsRead(uint(id), userID, middleware.IsAdmin(ctx))
	if err != nil {
		apperrors.NotFound(ctx, apperrors.NotificationNotFound, "Không tìm thấy thông báo")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"notification": notification,
	})
}

// MarkAllAsRead godoc
// @Summary Đánh dấu tất cả thông báo đã đọc
// @Tags notifications
// @Produce json
// @Success 200 {object} gin.H{message=string}
// @Failure 401 {object} gin.H
// @Security BearerAuth
// @Router /api/v1/notifications/read-all [patch]
func (c *NotificationController) MarkAllAsRead(ctx *gin.Context) {
	userID, exists := middleware.GetUserID(ctx)
	if !exists {
		apperrors.Unauthorized(ctx, "Vui lòng đăng nhập để tiếp tục")
		return
	}

	if err := c.service.MarkAllAsRead(userID, middleware.IsAdmin(ctx)); err != nil {
		apperrors.InternalError(ctx, "Không thể đánh dấu thông báo đã đọc")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Đã đánh dấu tất cả thông báo là đã đọc",
	})
}

// DeleteNotification godoc
// @Summary Xoá thông báo
// @Tags notifications
// @Produce json
// @Param id path int true "ID thông báo"
// @Success 200 {object} gin.H{message=string}
// @Failure 401 {object} gin.H
// @Failure 404 {object} gin.H
// @Security BearerAuth
// @Router /api/v1/notifications/{id} [delete]
func (c *NotificationController) DeleteNotification(ctx *gin.Context) {
	userID, exists := middleware.GetUserID(ctx)
	if !exists {
		apperrors.Unauthorized(ctx, "Vui lòng đăng nhập để tiếp tục")
		return
	}

	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(ctx, apperrors.ValidationInvalidID, "Mã thông báo không hợp lệ")
		return
	}

	if err := c.service.DeleteNotification(uint(id), userID, middleware.IsAdmin(ctx)); err != nil {
		apperrors.NotFound(ctx, apperrors.NotificationNotFound, "Không tìm thấy thông báo")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Đã xoá thông báo",
	})
}

// ServeWS nâng cấp kết nối HTTP thành WebSocket để đẩy thông báo realtime.
// Token được truyền qua query ?token= vì trình duyệt không gửi được header
// Authorization khi mở WebSocket.
// GET /api/v1/ws
func (c *NotificationController) ServeWS(ctx *gin.Context) {
	log := middleware.GetLoggerFromContext(ctx)

	userID, exists := middleware.GetUserID(ctx)
	if !exists {
		apperrors.Unauthorized(ctx, "Vui lòng đăng nhập để tiếp tục")
		return
	}

	conn, err := wsUpgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		log.Error("Failed to upgrade WebSocket connection", err, map[string]interface{}{
			"user_id": userID,
		})
		return
	}

	client := &websocket.Client{
		Hub:     c.hub,
		Conn:    &websocket.Conn{Conn: conn},
		UserID:  userID,
		IsAdmin: middleware.IsAdmin(ctx),
		Send:    make(chan []byte, 64),
	}
	c.hub.Register(client)

	log.Info("WebSocket client connected", map[string]interface{}{
		"user_id":  userID,
		"is_admin": client.IsAdmin,
	})

	go client.WritePump()
	go client.ReadPump()
}
