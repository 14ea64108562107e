package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/minhngo/birdnest-backend/internal/app/model"
	"github.com/minhngo/birdnest-backend/internal/app/service"
	apperrors "github.com/minhngo/birdnest-backend/internal/errors"
	"github.com/minhngo/birdnest-backend/internal/middleware"
)

type AddressController struct {
	addressService service.AddressService
}

func NewAddressController(addressService service.AddressService) *AddressController {
	return &AddressController{
		addressService: addressService,
	}
}

type AddressRequest struct {
	FullName     string `json:"full_name" binding:"required"`
	Phone        string `json:"phone" binding:"required"`
	Email        string `json:"email"`
	Address      string `json:"address" binding:"required"`
	Apartment    string `json:"apartment"`
	ProvinceCode string `json:"province_code" binding:"required"`
	DistrictCode string `json:"district_code" binding:"required"`
	WardCode     string `json:"ward_code" binding:"required"`
	IsDefault    bool   `json:"is_default"`
}

func (req *AddressRequest) toModel() *model.Address {
	return &model.Address{
		FullName:     req.FullName,
		Phone:        req.Phone,
		Email:        req.Email,
		Address:      req.Address,
		Apartment:    req.Apartment,
		ProvinceCode: req.ProvinceCode,
		DistrictCode: req.DistrictCode,
		WardCode:     req.WardCode,
		IsDefault:    req.IsDefault,
	}
}

// ListAddresses returns user's addresses
// GET /api/v1/addresses
func (ctrl *AddressController) ListAddresses(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		log.Warn("Unauthorized access to addresses", nil)
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Vui lòng đăng nhập để tiếp tục",
		})
		return
	}

	addresses, err := ctrl.addressService.GetUserAddresses(userID)
	if err != nil {
		log.Error("Failed to fetch addresses", err, map[string]interface{}{
			"user_id": userID,
		})
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Không thể tải sổ địa chỉ",
		})
		return
	}

	log.Info("Addresses fetched successfully", map[string]interface{}{
		"user_id": userID,
		"count":   len(addresses),
	})

	c.JSON(http.StatusOK, gin.H{
		"addresses": addresses,
		"count":     len(addresses),
	})
}

// CreateAddress creates a new address
// POST /api/v1/addresses
func (ctrl *AddressController) CreateAddress(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		log.Warn("Unauthorized attempt to create address", nil)
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Vui lòng đăng nhập để tiếp tục",
		})
		return
	}

	var req AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid create address request", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Dữ liệu không hợp lệ",
			"details": err.Error(),
		})
		return
	}

	log.Debug("Creating address", map[string]interface{}{
		"user_id":   userID,
		"full_name": req.FullName,
	})

	address := req.toModel()

	err := ctrl.addressService.CreateAddress(userID, address)
	if err != nil {
		if errors.Is(err, service.ErrInvalidDivision) {
			apperrors.BadRequest(c, apperrors.DivisionInvalid, "Thiếu mã tỉnh/quận/phường")
			return
		}
		if errors.Is(err, service.ErrInvalidPhone) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Số điện thoại không hợp lệ",
			})
			return
		}
		if errors.Is(err, service.ErrAddressLimit) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Bạn đã đạt giới hạn số địa chỉ cho phép",
			})
			return
		}
		log.Error("Failed to create address", err, map[string]interface{}{
			"user_id": userID,
		})
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Không thể tạo địa chỉ",
		})
		return
	}

	log.Info("Address created successfully", map[string]interface{}{
		"user_id":    userID,
		"address_id": address.ID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Đã thêm địa chỉ",
		"address": address,
	})
}

// UpdateAddress updates an existing address
// PUT /api/v1/addresses/:id
func (ctrl *AddressController) UpdateAddress(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		log.Warn("Unauthorized attempt to update address", nil)
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Vui lòng đăng nhập để tiếp tục",
		})
		return
	}

	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		log.Warn("Invalid address ID format", map[string]interface{}{
			"user_id":    userID,
			"address_id": idStr,
			"error":      err.Error(),
		})
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Mã địa chỉ không hợp lệ",
		})
		return
	}

	var req AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid update address request", map[string]interface{}{
			"user_id":    userID,
			"address_id": id,
			"error":      err.Error(),
		})
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Dữ liệu không hợp lệ",
			"details": err.Error(),
		})
		return
	}

	log.Debug("Updating address", map[string]interface{}{
		"user_id":    userID,
		"address_id": id,
	})

	err = ctrl.addressService.UpdateAddress(userID, uint(id), req.toModel())
	if err != nil {
		if errors.Is(err, service.ErrAddressNotFound) {
			log.Warn("Address not found", map[string]interface{}{
				"user_id":    userID,
				"address_id": id,
			})
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Không tìm thấy địa chỉ",
			})
			return
		}
		if errors.Is(err, service.ErrInvalidDivision) {
			apperrors.BadRequest(c, apperrors.DivisionInvalid, "Thiếu mã tỉnh/quận/phường")
			return
		}
		if errors.Is(err, service.ErrInvalidPhone) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Số điện thoại không hợp lệ",
			})
			return
		}
		log.Error("Failed to update address", err, map[string]interface{}{
			"user_id":    userID,
			"address_id": id,
		})
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Không thể cập nhật địa chỉ",
		})
		return
	}

	log.Info("Address updated successfully", map[string]interface{}{
		"user_id":    userID,
		"address_id": id,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Đã cập nhật địa chỉ",
	})
}

// DeleteAddress deletes an address
// DELETE /api/v1/addresses/:id
func (ctrl *AddressController) DeleteAddress(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		log.Warn("Unauthorized attempt to delete address", nil)
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Vui lòng đăng nhập để tiếp tục",
		})
		return
	}

	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		log.Warn("Invalid address ID format", map[string]interface{}{
			"user_id":    userID,
			"address_id": idStr,
			"error":      err.Error(),
		})
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Mã địa chỉ không hợp lệ",
		})
		return
	}

	log.Debug("Deleting address", map[string]interface{}{
		"user_id":    userID,
		"address_id": id,
	})

	err = ctrl.addressService.DeleteAddress(userID, uint(id))
	if err != nil {
		if errors.Is(err, service.ErrAddressNotFound) {
			log.Warn("Address not found for deletion", map[string]interface{}{
				"user_id":    userID,
				"address_id": id,
			})
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Không tìm thấy địa chỉ",
			})
			return
		}
		log.Error("Failed to delete address", err, map[string]interface{}{
			"user_id":    userID,
			"address_id": id,
		})
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Không thể xoá địa chỉ",
		})
		return
	}

	log.Info("Address deleted successfully", map[string]interface{}{
		"user_id":    userID,
		"address_id": id,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Đã xoá địa chỉ",
	})
}

// SetDefaultAddress sets an address as the default
// PUT /api/v1/addresses/:id/default
func (ctrl *AddressController) SetDefaultAddress(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		log.Warn("Unauthorized attempt to set default address", nil)
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Vui lòng đăng nhập để tiếp tục",
		})
		return
	}

	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		log.Warn("Invalid address ID format", map[string]interface{}{
			"user_id":    userID,
			"address_id": idStr,
			"error":      err.Error(),
		})
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Mã địa chỉ không hợp lệ",
		})
		return
	}

	log.Debug("Setting default address", map[string]interface{}{
		"user_id":    userID,
		"address_id": id,
	})

	err = ctrl.addressService.SetDefaultAddress(userID, uint(id))
	if err != nil {
		if errors.Is(err, service.ErrAddressNotFound) {
			log.Warn("Address not found", map[string]interface{}{
				"user_id":    userID,
				"address_id": id,
			})
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Không tìm thấy địa chỉ",
			})
			return
		}
		log.Error("Failed to set default address", err, map[string]interface{}{
			"user_id":    userID,
			"address_id": id,
		})
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Không thể đặt địa chỉ mặc định",
		})
		return
	}

	log.Info("Default address set successfully", map[string]interface{}{
		"user_id":    userID,
		"address_id": id,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Đã đặt địa chỉ mặc định",
	})
}
