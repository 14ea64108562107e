package service

import (
	"errors"

	"github.com/minhngo/birdnest-backend/internal/app/model"
	"github.com/minhngo/birdnest-backend/internal/app/repository"
	"github.com/minhngo/birdnest-backend/internal/division"
	"github.com/minhngo/birdnest-backend/pkg/logger"
	"github.com/minhngo/birdnest-backend/pkg/util"
	"gorm.io/gorm"
)

// maxAddressesPerUser giới hạn số địa chỉ lưu cho mỗi tài khoản.
const maxAddressesPerUser = 10

var (
	ErrAddressNotFound = errors.New("address not found")
	ErrAddressLimit    = errors.New("address limit reached")
	ErrInvalidDivision = errors.New("invalid administrative division")
)

type AddressService interface {
	GetUserAddresses(userID uint) ([]model.Address, error)
	CreateAddress(userID uint, address *model.Address) error
	UpdateAddress(userID, addressID uint, updatedAddress *model.Address) error
	DeleteAddress(userID, addressID uint) error
	SetDefaultAddress(userID, addressID uint) error
}

type addressService struct {
	addressRepo repository.AddressRepository
}

func NewAddressService(addressRepo repository.AddressRepository) AddressService {
	return &addressService{
		addressRepo: addressRepo,
	}
}

func (s *addressService) GetUserAddresses(userID uint) ([]model.Address, error) {
	logger.Debug("Fetching user addresses", map[string]interface{}{
		"user_id": userID,
	})

	addresses, err := s.addressRepo.FindByUserID(userID)
	if err != nil {
		logger.Error("Failed to fetch user addresses", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Info("User addresses fetched successfully", map[string]interface{}{
		"user_id": userID,
		"count":   len(addresses),
	})
	return addresses, nil
}

// validateAddress kiểm tra số điện thoại và mã đơn vị hành chính,
// đồng thời điền tên hiển thị từ bộ mã.
func validateAddress(address *model.Address) error {
	if !util.IsValidVNPhone(address.Phone) {
		return ErrInvalidPhone
	}
	if !division.Valid(address.ProvinceCode, address.DistrictCode, address.WardCode) {
		return ErrInvalidDivision
	}

	address.Province, address.District, address.Ward = division.DisplayNames(
		address.ProvinceCode, address.DistrictCode, address.WardCode)
	return nil
}

func (s *addressService) CreateAddress(userID uint, address *model.Address) error {
	logger.Info("Creating address", map[string]interface{}{
		"user_id":   userID,
		"full_name": address.FullName,
	})

	if err := validateAddress(address); err != nil {
		logger.Warn("Address validation failed", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		return err
	}

	address.UserID = userID

	count, err := s.addressRepo.CountByUserID(userID)
	if err != nil {
		logger.Error("Failed to count existing addresses", err, map[string]interface{}{
			"user_id": userID,
		})
		return err
	}
	if count >= maxAddressesPerUser {
		logger.Warn("Address limit reached", map[string]interface{}{
			"user_id": userID,
			"count":   count,
		})
		return ErrAddressLimit
	}

	// Địa chỉ đầu tiên luôn là mặc định.
	if count == 0 {
		address.IsDefault = true
	}

	if err := s.addressRepo.Create(address); err != nil {
		logger.Error("Failed to create address", err, map[string]interface{}{
			"user_id": userID,
		})
		return err
	}

	// Đánh dấu mặc định qua SetDefault để không bao giờ có hai mặc định.
	if address.IsDefault {
		if err := s.addressRepo.SetDefault(userID, address.ID); err != nil {
			logger.Error("Failed to set new address as default", err, map[string]interface{}{
				"user_id":    userID,
				"address_id": address.ID,
			})
			return err
		}
	}

	logger.Info("Address created successfully", map[string]interface{}{
		"address_id": address.ID,
		"user_id":    userID,
	})
	return nil
}

func (s *addressService) UpdateAddress(userID, addressID uint, updatedAddress *model.Address) error {
	logger.Info("Updating address", map[string]interface{}{
		"user_id":    userID,
		"address_id": addressID,
	})

	address, err := s.addressRepo.FindByID(addressID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Address not found", map[string]interface{}{
				"address_id": addressID,
			})
			return ErrAddressNotFound
		}
		logger.Error("Failed to fetch address", err, map[string]interface{}{
			"address_id": addressID,
		})
		return err
	}

	if address.UserID != userID {
		logger.Warn("Address access denied: ownership mismatch", map[string]interface{}{
			"user_id":    userID,
			"address_id": addressID,
			"owner_id":   address.UserID,
		})
		return ErrAddressNotFound
	}

	if err := validateAddress(updatedAddress); err != nil {
		logger.Warn("Address validation failed", map[string]interface{}{
			"address_id": addressID,
			"error":      err.Error(),
		})
		return err
	}

	address.FullName = updatedAddress.FullName
	address.Phone = updatedAddress.Phone
	address.Email = updatedAddress.Email
	address.Address = updatedAddress.Address
	address.Apartment = updatedAddress.Apartment
	address.ProvinceCode = updatedAddress.ProvinceCode
	address.Province = updatedAddress.Province
	address.DistrictCode = updatedAddress.DistrictCode
	address.District = updatedAddress.District
	address.WardCode = updatedAddress.WardCode
	address.Ward = updatedAddress.Ward

	if err := s.addressRepo.Update(address); err != nil {
		logger.Error("Failed to update address", err, map[string]interface{}{
			"address_id": addressID,
		})
		return err
	}

	if updatedAddress.IsDefault && !address.IsDefault {
		if err := s.addressRepo.SetDefault(userID, addressID); err != nil {
			logger.Error("Failed to set address as default", err, map[string]interface{}{
				"user_id":    userID,
				"address_id": addressID,
			})
			return err
		}
	}

	logger.Info("Address updated successfully", map[string]interface{}{
		"address_id": addressID,
	})
	return nil
}

func (s *addressService) DeleteAddress(userID, addressID uint) error {
	logger.Info("Deleting address", map[string]interface{}{
		"user_id":    userID,
		"address_id": addressID,
	})

	address, err := s.addressRepo.FindByID(addressID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Address not found for deletion", map[string]interface{}{
				"address_id": addressID,
			})
			return ErrAddressNotFound
		}
		logger.Error("Failed to fetch address for deletion", err, map[string]interface{}{
			"address_id": addressID,
		})
		return err
	}

	if address.UserID != userID {
		logger.Warn("Address delete denied: ownership mismatch", map[string]interface{}{
			"user_id":    userID,
			"address_id": addressID,
			"owner_id":   address.UserID,
		})
		return ErrAddressNotFound
	}

	wasDefault := address.IsDefault

	if err := s.addressRepo.Delete(addressID); err != nil {
		logger.Error("Failed to delete address", err, map[string]interface{}{
			"address_id": addressID,
		})
		return err
	}

	// Xoá địa chỉ mặc định thì địa chỉ mới nhất còn lại lên thay.
	if wasDefault {
		remaining, err := s.addressRepo.FindByUserID(userID)
		if err != nil {
			logger.Error("Failed to fetch remaining addresses", err, map[string]interface{}{
				"user_id": userID,
			})
			return err
		}
		if len(remaining) > 0 {
			if err := s.addressRepo.SetDefault(userID, remaining[0].ID); err != nil {
				logger.Error("Failed to promote new default address", err, map[string]interface{}{
					"user_id":    userID,
					"address_id": remaining[0].ID,
				})
				return err
			}
		}
	}

	logger.Info("Address deleted successfully", map[string]interface{}{
		"address_id": addressID,
	})
	return nil
}

func (s *addressService) SetDefaultAddress(userID, addressID uint) error {
	logger.Info("Setting default address", map[string]interface{}{
		"user_id":    userID,
		"address_id": addressID,
	})

	address, err := s.addressRepo.FindByID(addressID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Address not found", map[string]interface{}{
				"address_id": addressID,
			})
			return ErrAddressNotFound
		}
		logger.Error("Failed to fetch address", err, map[string]interface{}{
			"address_id": addressID,
		})
		return err
	}

	if address.UserID != userID {
		logger.Warn("Set default denied: ownership mismatch", map[string]interface{}{
			"user_id":    userID,
			"address_id": addressID,
			"owner_id":   address.UserID,
		})
		return ErrAddressNotFound
	}

	if err := s.addressRepo.SetDefault(userID, addressID); err != nil {
		logger.Error("Failed to set default address", err, map[string]interface{}{
			"user_id":    userID,
			"address_id": addressID,
		})
		return err
	}

	logger.Info("Default address set successfully", map[string]interface{}{
		"user_id":    userID,
		"address_id": addressID,
	})
	return nil
}
