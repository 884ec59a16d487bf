package model

import (
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// User represents a staff account (admin or employee)
type User struct {
	BaseModel
	Email        string       `gorm:"type:varchar(255);uniqueIndex;not null" json:"email" validate:"required,email"`
	Password     string       `gorm:"type:varchar(255);not null" json:"-"` // Hidden from JSON
	FirstName    string       `gorm:"type:varchar(255);not null" json:"first_name" validate:"required"`
	LastName     string       `gorm:"type:varchar(255)" json:"last_name"`
	RoleID       *uint        `gorm:"index" json:"role_id"`
	Role         *Role        `gorm:"foreignKey:RoleID" json:"role,omitempty"`
	IsApproved   bool         `gorm:"default:false" json:"is_approved"` // new signups wait for admin approval
	IsActive     bool         `gorm:"default:true" json:"is_active"`
	Permissions  []Permission `gorm:"many2many:user_permissions;" json:"permissions,omitempty"`
	TokenVersion string       `gorm:"type:varchar(255);default:''" json:"-"` // For single session enforcement
}

// SetPassword hashes and sets the user's password
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword verifies if the provided password matches the stored hash
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// HasPermission checks if the user has a specific permission
func (u *User) HasPermission(code string) bool {
	for _, p := range u.Permissions {
		if p.Code == code {
			return true
		}
	}
	return false
}

// GetPermissionCodes returns a slice of all permission codes for this user
func (u *User) GetPermissionCodes() []string {
	codes := make([]string, len(u.Permissions))
	for i, p := range u.Permissions {
		codes[i] = p.Code
	}
	return codes
}

// FullName joins first and last name for display and audit fields.
func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// UserResponse is used for API responses (without sensitive data)
type UserResponse struct {
	ID          uuid.UUID    `json:"id"`
	Email       string       `json:"email"`
	FirstName   string       `json:"first_name"`
	LastName    string       `json:"last_name"`
	RoleID      *uint        `json:"role_id,omitempty"`
	Role        *Role        `json:"role,omitempty"`
	IsApproved  bool         `json:"is_approved"`
	IsActive    bool         `json:"is_active"`
	Permissions []Permission `json:"permissions"`
}

// ToResponse converts User to UserResponse
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		RoleID:      u.RoleID,
		Role:        u.Role,
		IsApproved:  u.IsApproved,
		IsActive:    u.IsActive,
		Permissions: u.Permissions,
	}
}
