package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ServiceStatus string

const (
	ServicePending    ServiceStatus = "pending"
	ServiceInProgress ServiceStatus = "in_progress"
	ServiceCompleted  ServiceStatus = "completed"
)

// Service is a field-service ticket for a customer's machine.
type Service struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	CustomerID uuid.UUID  `gorm:"type:uuid;index;not null" json:"customerId"`
	MachineID  *uuid.UUID `gorm:"type:uuid;index" json:"machineId"`

	ServiceType string              `gorm:"not null" json:"serviceType"`
	Description string              `gorm:"type:text" json:"description"`
	Status      ServiceStatus       `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	ServiceDate time.Time           `gorm:"not null" json:"serviceDate"`
	Cost        decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"cost"`

	Customer *Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Machine  *Machine  `gorm:"foreignKey:MachineID" json:"machine,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

func (s *Service) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}
