package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the role a user holds in the catalog. Exactly one at a time.
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID          string     `gorm:"primaryKey;type:uuid" json:"id"`
	Email       string     `gorm:"uniqueIndex;size:75;not null" json:"email"`
	Username    *string    `gorm:"uniqueIndex;size:150" json:"username"` // nil until the user picks one
	FirstName   string     `gorm:"size:200" json:"first_name"`
	LastName    string     `gorm:"size:200" json:"last_name"`
	Bio         string     `gorm:"type:text" json:"bio"`
	Role        Role       `gorm:"size:20;default:'user';not null" json:"role"`
	IsStaff     bool       `gorm:"default:false;not null" json:"-"`
	IsSuperuser bool       `gorm:"default:false;not null" json:"-"`
	LastLogin   *time.Time `json:"-"`
	DateJoined  time.Time  `gorm:"autoCreateTime" json:"-"`
}

// BeforeCreate hook to set UUID before creating a User
func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.Role == "" {
		user.Role = RoleUser
	}
	return
}

// DisplayName is the username, or the email for accounts that never set one.
func (user *User) DisplayName() string {
	if user.Username != nil && *user.Username != "" {
		return *user.Username
	}
	return user.Email
}

func (User) TableName() string {
	return "users"
}
