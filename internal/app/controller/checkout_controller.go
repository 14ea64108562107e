package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/minhngo/birdnest-backend/internal/app/service"
	apperrors "github.com/minhngo/birdnest-backend/internal/errors"
	"github.com/minhngo/birdnest-backend/internal/middleware"
)

type CheckoutController struct {
	checkoutService service.CheckoutService
}

func NewCheckoutController(checkoutService service.CheckoutService) *CheckoutController {
	return &CheckoutController{
		checkoutService: checkoutService,
	}
}

type CheckoutInfoRequest struct {
	FullName     string `json:"full_name" binding:"required"`
	Phone        string `json:"phone" binding:"required"`
	Email        string `json:"email"`
	ProvinceCode string `json:"province_code" binding:"required"`
	DistrictCode string `json:"district_code" binding:"required"`
	WardCode     string `json:"ward_code" binding:"required"`
	Address      string `json:"address" binding:"required"`
	Apartment    string `json:"apartment"`
	Note         string `json:"note"`
	AddressMode  string `json:"address_mode"`
}

type CheckoutItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

type CreateCheckoutRequest struct {
	Info        CheckoutInfoRequest   `json:"info" binding:"required"`
	Items       []CheckoutItemRequest `json:"items" binding:"dive"` // giỏ rỗng để service báo mã lỗi riêng
	SaveAddress bool                  `json:"save_address"`
}

// CreateCheckout validates shipping info, snapshots the cart items and
// creates a short-lived checkout session
// POST /api/v1/checkout
func (ctrl *CheckoutController) CreateCheckout(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CreateCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid checkout request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.CheckoutInvalidInfo, "Thông tin đặt hàng không hợp lệ")
		return
	}

	// Khách vãng lai vẫn được checkout, userID khi đó là nil
	var userID *uint
	if id, exists := middleware.GetUserID(c); exists {
		userID = &id
	}

	items := make([]service.CheckoutItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, service.CheckoutItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	result, err := ctrl.checkoutService.CreateDraft(c.Request.Context(), userID, service.CheckoutRequest{
		Info: service.CheckoutInfo{
			FullName:     req.Info.FullName,
			Phone:        req.Info.Phone,
			Email:        req.Info.Email,
			ProvinceCode: req.Info.ProvinceCode,
			DistrictCode: req.Info.DistrictCode,
			WardCode:     req.Info.WardCode,
			Address:      req.Info.Address,
			Apartment:    req.Info.Apartment,
			Note:         req.Info.Note,
			AddressMode:  req.Info.AddressMode,
		},
		Items:       items,
		SaveAddress: req.SaveAddress,
	})
	if err != nil {
		var validationErr *service.CheckoutValidationError
		if errors.As(err, &validationErr) {
			log.Warn("Checkout validation failed", map[string]interface{}{
				"fields": validationErr.Fields,
			})
			apperrors.RespondWithValidationError(c, validationErr.Fields)
			return
		}
		if errors.Is(err, service.ErrCheckoutEmptyCart) {
			apperrors.BadRequest(c, apperrors.CheckoutEmptyCart, "Giỏ hàng trống, không thể đặt hàng")
			return
		}
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "Sản phẩm không tồn tại hoặc đã ngừng bán")
			return
		}
		if errors.Is(err, service.ErrInsufficientStock) {
			apperrors.Conflict(c, apperrors.ResourceConflict, "Sản phẩm không đủ hàng trong kho")
			return
		}
		log.Error("Failed to create checkout session", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create checkout")
		return
	}

	log.Info("Checkout session created", map[string]interface{}{
		"token": result.Token,
		"total": result.Total,
	})

	c.JSON(http.StatusCreated, gin.H{
		"token":        result.Token,
		"subtotal":     result.Subtotal,
		"delivery_fee": result.DeliveryFee,
		"total":        result.Total,
		"expires_at":   result.ExpiresAt,
	})
}

// GetCheckout returns an active checkout session for the payment step
// GET /api/v1/checkout/:token
func (ctrl *CheckoutController) GetCheckout(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	token := c.Param("token")
	if token == "" {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "Thiếu mã phiên đặt hàng")
		return
	}

	draft, err := ctrl.checkoutService.GetDraft(c.Request.Context(), token)
	if err != nil {
		if errors.Is(err, service.ErrCheckoutDraftNotFound) {
			log.Warn("Checkout session not found or expired", map[string]interface{}{
				"token": token,
			})
			apperrors.NotFound(c, apperrors.CheckoutDraftNotFound, "Phiên đặt hàng không tồn tại hoặc đã hết hạn")
			return
		}
		log.Error("Failed to get checkout session", err, map[string]interface{}{
			"token": token,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get checkout")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"checkout": draft,
	})
}
