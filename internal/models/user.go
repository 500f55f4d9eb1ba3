package models

import (
	"time"
)

type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleManager UserRole = "manager"
	RoleUser    UserRole = "user"
)

type UserStatus string

const (
	StatusActive    UserStatus = "active"
	StatusInactive  UserStatus = "inactive"
	StatusSuspended UserStatus = "suspended"
)

type User struct {
	ID             uint64     `gorm:"primarykey" json:"id"`
	Name           string     `gorm:"type:varchar(255);not null" json:"name"`
	Email          string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Phone          string     `gorm:"type:varchar(20);uniqueIndex;not null" json:"phone"`
	Password       string     `gorm:"type:varchar(255);not null" json:"-"`
	Role           UserRole   `gorm:"type:varchar(20);not null;default:'user'" json:"role"`
	Status         UserStatus `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	Age            *int       `json:"age,omitempty"`
	Gender         *string    `gorm:"type:varchar(20)" json:"gender,omitempty"`
	WhatsappNumber *string    `gorm:"type:varchar(20)" json:"whatsapp_number,omitempty"`
	// Plaintext member PIN kept for support staff. Exposed only through the
	// dedicated admin endpoint, never in list responses.
	LoginPIN  *string   `gorm:"column:login_pin;type:varchar(10)" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Projects      []UserProject `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	AssignedTasks []Task        `gorm:"foreignKey:AssignedUserID" json:"-"`
}

// ValidRole reports whether role is one of the three known roles.
func ValidRole(role string) bool {
	switch UserRole(role) {
	case RoleAdmin, RoleManager, RoleUser:
		return true
	}
	return false
}

// IsPrivileged reports whether the role may operate on any task.
func (r UserRole) IsPrivileged() bool {
	return r == RoleAdmin || r == RoleManager
}
