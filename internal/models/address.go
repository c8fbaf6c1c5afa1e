package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const DefaultCountry = "Brasil"

// Address is a postal address owned by a user. Rows go away with the user.
type Address struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID   string    `gorm:"size:50;not null;index" json:"-"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Street     string    `gorm:"size:255;not null" json:"street"`
	Number     string    `gorm:"size:10;not null" json:"number"`
	Complement *string   `gorm:"size:255" json:"complement"`
	District   string    `gorm:"size:100;not null" json:"district"`
	City       string    `gorm:"size:100;not null" json:"city"`
	State      string    `gorm:"size:50;not null" json:"state"`
	ZipCode    string    `gorm:"size:20;not null" json:"zip_code"`
	Country    string    `gorm:"size:50;not null;default:'Brasil'" json:"country"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Address) TableName() string {
	return "address"
}

func (a *Address) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Country == "" {
		a.Country = DefaultCountry
	}
	return nil
}
