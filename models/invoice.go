package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PaymentStatus string

const (
	PaymentUnpaid  PaymentStatus = "unpaid"
	PaymentPartial PaymentStatus = "partial"
	PaymentPaid    PaymentStatus = "paid"
)

type InvoiceItemType string

const (
	ItemTypeService InvoiceItemType = "service"
	ItemTypeMachine InvoiceItemType = "machine"
)

func (t InvoiceItemType) Valid() bool {
	return t == ItemTypeService || t == ItemTypeMachine
}

type Invoice struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CustomerID uuid.UUID `gorm:"type:uuid;index;not null" json:"customerId"`

	InvoiceNumber string     `gorm:"uniqueIndex;not null" json:"invoiceNumber"`
	InvoiceDate   time.Time  `gorm:"not null" json:"invoiceDate"`
	DueDate       *time.Time `json:"dueDate"`

	// TotalAmount is fixed at creation; PaidAmount/PaymentStatus move
	// together through the payment state machine.
	TotalAmount   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"totalAmount"`
	PaidAmount    decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"paidAmount"`
	PaymentStatus PaymentStatus   `gorm:"type:varchar(20);not null;default:'unpaid'" json:"paymentStatus"`

	Customer *Customer     `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Items    []InvoiceItem `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"items"`

	CreatedAt time.Time `json:"createdAt"`
}

func (i *Invoice) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return
}

// InvoiceItem is a line on an invoice. ReferenceID points into services or
// machines depending on ItemType; Price is the unit price snapshotted at
// invoice time so historical invoices survive later price edits.
type InvoiceItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceID   uuid.UUID       `gorm:"type:uuid;index;not null" json:"invoiceId"`
	ItemType    InvoiceItemType `gorm:"type:varchar(20);index:idx_item_ref;not null" json:"itemType"`
	ReferenceID uuid.UUID       `gorm:"type:uuid;index:idx_item_ref;not null" json:"referenceId"`
	Quantity    int             `gorm:"not null;default:1" json:"quantity"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
}

func (i *InvoiceItem) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return
}
