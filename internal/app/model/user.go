package model

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string // Loại quyền người dùng

const (
	RoleUser  UserRole = "user"  // Khách hàng thông thường
	RoleAdmin UserRole = "admin" // Quản trị viên
)

type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`                        // ID người dùng
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`           // Email
	PasswordHash string         `gorm:"not null" json:"-"`                           // Mật khẩu đã băm
	Name         string         `gorm:"not null" json:"name"`                        // Họ tên
	Phone        string         `json:"phone"`                                       // Số điện thoại (0xxxxxxxxx hoặc +84xxxxxxxxx)
	AvatarURL    string         `json:"avatar_url"`                                  // Ảnh đại diện
	Role         UserRole       `gorm:"type:varchar(20);default:'user'" json:"role"` // Quyền
	CreatedAt    time.Time      `json:"created_at"`                                  // Thời điểm tạo
	UpdatedAt    time.Time      `json:"updated_at"`                                  // Thời điểm cập nhật
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                              // Thời điểm xoá (soft delete)

	Addresses []Address `gorm:"foreignKey:UserID" json:"addresses,omitempty"` // Sổ địa chỉ giao hàng
}

func (User) TableName() string {
	return "users"
}
