package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is a tenant-scoped account. Email is unique per tenant.
type User struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID        string         `gorm:"size:50;not null;uniqueIndex:idx_users_tenant_email" json:"-"`
	Name            string         `gorm:"size:25;not null" json:"name"`
	LastName        string         `gorm:"size:150;not null" json:"last_name"`
	Email           string         `gorm:"size:100;not null;uniqueIndex:idx_users_tenant_email" json:"email"`
	Password        string         `gorm:"not null" json:"-"`
	Image           *string        `gorm:"size:500" json:"image"`
	Role            string         `gorm:"size:20;not null;default:'user'" json:"role"`
	IsActive        bool           `gorm:"not null;default:true" json:"is_active"`
	IsBanned        bool           `gorm:"not null;default:false" json:"is_banned"`
	IsEmailVerified bool           `gorm:"not null;default:false" json:"is_email_verified"`
	Addresses       []Address      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	return nil
}
