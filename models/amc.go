package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type AMCStatus string

const (
	AMCActive    AMCStatus = "active"
	AMCExpired   AMCStatus = "expired"
	AMCRenewed   AMCStatus = "renewed"
	AMCCancelled AMCStatus = "cancelled"
)

// AMC is an annual maintenance contract covering one machine for one customer.
type AMC struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CustomerID uuid.UUID `gorm:"type:uuid;index;not null" json:"customerId"`
	MachineID  uuid.UUID `gorm:"type:uuid;index;not null" json:"machineId"`

	ContractNumber string          `gorm:"uniqueIndex;not null" json:"contractNumber"`
	StartDate      time.Time       `gorm:"not null" json:"startDate"`
	EndDate        time.Time       `gorm:"not null" json:"endDate"`
	ContractValue  decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"contractValue"`
	Status         AMCStatus       `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	RenewalDate    *time.Time      `json:"renewalDate"`
	Notes          string          `gorm:"type:text" json:"notes"`

	Customer *Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Machine  *Machine  `gorm:"foreignKey:MachineID" json:"machine,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (a *AMC) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return
}
