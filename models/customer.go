package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Customer struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`

	Name              string `gorm:"not null" json:"name"`
	Email             string `json:"email"`
	Phone             string `json:"phone"`
	Address           string `gorm:"type:text" json:"address"`
	HospitalOrLabName string `json:"hospitalOrLabName"`

	Services []Service `gorm:"foreignKey:CustomerID" json:"services,omitempty"`
	Invoices []Invoice `gorm:"foreignKey:CustomerID" json:"invoices,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

func (c *Customer) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}
