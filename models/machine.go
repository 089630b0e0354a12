package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type MachineStatus string

const (
	MachineAvailable    MachineStatus = "available"
	MachineSold         MachineStatus = "sold"
	MachineUnderService MachineStatus = "under_service"
)

type Machine struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`

	Name          string          `gorm:"not null" json:"name"`
	Model         string          `json:"model"`
	SerialNumber  string          `json:"serialNumber"`
	PurchasePrice decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"purchasePrice"`
	SellingPrice  decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"sellingPrice"`

	// StockQuantity and Status are mutated only through the stock service.
	StockQuantity int           `gorm:"not null;default:0" json:"stockQuantity"`
	Status        MachineStatus `gorm:"type:varchar(20);not null;default:'available'" json:"status"`

	Services []Service `gorm:"foreignKey:MachineID" json:"services,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

func (m *Machine) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return
}
