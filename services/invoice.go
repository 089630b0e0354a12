// services/invoice.go
package services

import (
	"errors"
	"time"

	"medequip-backend/models"
	"medequip-backend/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InvoiceService composes invoices, reverses their stock effects on delete,
// and drives the payment state machine.
type InvoiceService struct {
	db    *gorm.DB
	stock *StockService
}

func NewInvoiceService(db *gorm.DB) *InvoiceService {
	return &InvoiceService{db: db, stock: NewStockService()}
}

type InvoiceLineInput struct {
	ItemType    models.InvoiceItemType `json:"itemType" binding:"required"`
	ReferenceID uuid.UUID              `json:"referenceId" binding:"required"`
	Quantity    int                    `json:"quantity" binding:"min=1"`
	Price       decimal.Decimal        `json:"price" binding:"required"`
}

type CreateInvoiceInput struct {
	CustomerID  uuid.UUID          `json:"customerId" binding:"required"`
	InvoiceDate *time.Time         `json:"invoiceDate"`
	DueDate     *time.Time         `json:"dueDate"`
	Items       []InvoiceLineInput `json:"items" binding:"required,min=1"`
}

type UpdateInvoiceInput struct {
	PaymentStatus *models.PaymentStatus `json:"paymentStatus"`
	PaidAmount    *decimal.Decimal      `json:"paidAmount"`
	DueDate       *time.Time            `json:"dueDate"`
}

// InvoiceItemDetail is a line item joined with the service or machine it
// references.
type InvoiceItemDetail struct {
	models.InvoiceItem
	Details interface{} `json:"details"`
}

type InvoiceDetail struct {
	models.Invoice
	Items []InvoiceItemDetail `json:"items"`
}

// Create validates the customer and every line item, computes the exact
// total, then writes invoice, items, and stock reservations in a single
// transaction. No partial state survives a failure.
func (s *InvoiceService) Create(input CreateInvoiceInput) (*models.Invoice, error) {
	var customer models.Customer
	if err := s.db.First(&customer, "id = ?", input.CustomerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFoundf("customer not found")
		}
		return nil, err
	}

	if len(input.Items) == 0 {
		return nil, utils.BadRequestf("invoice must have at least one item")
	}

	totalAmount := decimal.Zero
	for _, item := range input.Items {
		if !item.ItemType.Valid() {
			return nil, utils.BadRequestf("invalid item type %q", item.ItemType)
		}
		if item.Quantity < 1 {
			return nil, utils.BadRequestf("quantity must be at least 1")
		}
		if !item.Price.IsPositive() {
			return nil, utils.BadRequestf("price must be positive")
		}

		switch item.ItemType {
		case models.ItemTypeService:
			var service models.Service
			if err := s.db.First(&service, "id = ?", item.ReferenceID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, utils.NotFoundf("service %s not found", item.ReferenceID)
				}
				return nil, err
			}
		case models.ItemTypeMachine:
			var machine models.Machine
			if err := s.db.First(&machine, "id = ?", item.ReferenceID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, utils.NotFoundf("machine %s not found", item.ReferenceID)
				}
				return nil, err
			}
			if machine.StockQuantity < item.Quantity {
				return nil, utils.InsufficientStockf("insufficient stock for machine %s", machine.Name)
			}
		}

		totalAmount = totalAmount.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	invoiceDate := time.Now()
	if input.InvoiceDate != nil {
		invoiceDate = *input.InvoiceDate
	}

	var created models.Invoice
	err := s.db.Transaction(func(tx *gorm.DB) error {
		year := time.Now().Year()
		seq, err := NextNumber(tx, ScopeInvoice, year)
		if err != nil {
			return err
		}

		invoice := models.Invoice{
			CustomerID:    input.CustomerID,
			InvoiceNumber: FormatInvoiceNumber(year, seq),
			InvoiceDate:   invoiceDate,
			DueDate:       input.DueDate,
			TotalAmount:   totalAmount,
			PaidAmount:    decimal.Zero,
			PaymentStatus: models.PaymentUnpaid,
		}
		if err := tx.Create(&invoice).Error; err != nil {
			return utils.TranslateDBError(err, "invoice not found")
		}

		items := make([]models.InvoiceItem, 0, len(input.Items))
		for _, item := range input.Items {
			items = append(items, models.InvoiceItem{
				InvoiceID:   invoice.ID,
				ItemType:    item.ItemType,
				ReferenceID: item.ReferenceID,
				Quantity:    item.Quantity,
				Price:       item.Price,
			})
		}
		if err := tx.Create(&items).Error; err != nil {
			return err
		}

		// Stock validation inside the transaction is authoritative; the
		// earlier read was only a fast pre-check.
		for _, item := range input.Items {
			if item.ItemType == models.ItemTypeMachine {
				if err := s.stock.ReserveForSale(tx, item.ReferenceID, item.Quantity); err != nil {
					return err
				}
			}
		}

		return tx.Preload("Items").Preload("Customer").First(&created, "id = ?", invoice.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// CreateForService composes the single-item invoice for a completed service
// ticket. Returns (nil, nil) when the service was already invoiced or has no
// billable cost.
func (s *InvoiceService) CreateForService(service models.Service) (*models.Invoice, error) {
	var count int64
	if err := s.db.Model(&models.InvoiceItem{}).
		Where("item_type = ? AND reference_id = ?", models.ItemTypeService, service.ID).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, nil
	}
	if !service.Cost.Valid || !service.Cost.Decimal.IsPositive() {
		return nil, nil
	}

	return s.Create(CreateInvoiceInput{
		CustomerID: service.CustomerID,
		Items: []InvoiceLineInput{{
			ItemType:    models.ItemTypeService,
			ReferenceID: service.ID,
			Quantity:    1,
			Price:       service.Cost.Decimal,
		}},
	})
}

// GetByID returns the invoice with each line item joined to the service or
// machine it references.
func (s *InvoiceService) GetByID(id uuid.UUID) (*InvoiceDetail, error) {
	var invoice models.Invoice
	if err := s.db.Preload("Items").Preload("Customer").
		First(&invoice, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFoundf("invoice not found")
		}
		return nil, err
	}

	detail := InvoiceDetail{Invoice: invoice}
	for _, item := range invoice.Items {
		entry := InvoiceItemDetail{InvoiceItem: item}
		switch item.ItemType {
		case models.ItemTypeService:
			var service models.Service
			if err := s.db.First(&service, "id = ?", item.ReferenceID).Error; err == nil {
				entry.Details = service
			}
		case models.ItemTypeMachine:
			var machine models.Machine
			if err := s.db.First(&machine, "id = ?", item.ReferenceID).Error; err == nil {
				entry.Details = machine
			}
		}
		detail.Items = append(detail.Items, entry)
	}
	return &detail, nil
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

func paginate(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	return page, limit
}

func totalPages(total int64, limit int) int {
	return int((total + int64(limit) - 1) / int64(limit))
}

// List returns invoices newest-first with pagination metadata.
func (s *InvoiceService) List(page, limit int) ([]models.Invoice, *Pagination, error) {
	page, limit = paginate(page, limit)

	var total int64
	if err := s.db.Model(&models.Invoice{}).Count(&total).Error; err != nil {
		return nil, nil, err
	}

	var invoices []models.Invoice
	if err := s.db.Preload("Items").Preload("Customer").
		Order("created_at DESC").
		Limit(limit).Offset((page - 1) * limit).
		Find(&invoices).Error; err != nil {
		return nil, nil, err
	}

	return invoices, &Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages(total, limit),
	}, nil
}

// UpdatePayment applies the payment state machine. TotalAmount never changes
// here and PaidAmount always lands in [0, TotalAmount].
func (s *InvoiceService) UpdatePayment(id uuid.UUID, input UpdateInvoiceInput) (*models.Invoice, error) {
	var invoice models.Invoice
	if err := s.db.First(&invoice, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFoundf("invoice not found")
		}
		return nil, err
	}

	updates := map[string]interface{}{}

	if input.PaymentStatus != nil {
		switch *input.PaymentStatus {
		case models.PaymentPaid:
			updates["payment_status"] = models.PaymentPaid
			updates["paid_amount"] = invoice.TotalAmount
		case models.PaymentUnpaid:
			updates["payment_status"] = models.PaymentUnpaid
			updates["paid_amount"] = decimal.Zero
		case models.PaymentPartial:
			if input.PaidAmount == nil {
				return nil, utils.BadRequestf("paidAmount is required when setting status to partial")
			}
			if input.PaidAmount.IsNegative() {
				return nil, utils.BadRequestf("paidAmount cannot be negative")
			}
			if input.PaidAmount.Cmp(invoice.TotalAmount) >= 0 {
				return nil, utils.BadRequestf("paidAmount must be less than totalAmount for partial status")
			}
			updates["payment_status"] = models.PaymentPartial
			updates["paid_amount"] = *input.PaidAmount
		default:
			return nil, utils.BadRequestf("invalid payment status %q", *input.PaymentStatus)
		}
	} else if input.PaidAmount != nil {
		// Direct paidAmount updates derive the status.
		paid := *input.PaidAmount
		switch {
		case paid.IsNegative():
			return nil, utils.BadRequestf("paidAmount cannot be negative")
		case paid.IsZero():
			updates["payment_status"] = models.PaymentUnpaid
			updates["paid_amount"] = decimal.Zero
		case paid.Cmp(invoice.TotalAmount) >= 0:
			updates["payment_status"] = models.PaymentPaid
			updates["paid_amount"] = invoice.TotalAmount
		default:
			updates["payment_status"] = models.PaymentPartial
			updates["paid_amount"] = paid
		}
	}

	if input.DueDate != nil {
		updates["due_date"] = *input.DueDate
	}

	if len(updates) > 0 {
		if err := s.db.Model(&invoice).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	var updated models.Invoice
	if err := s.db.Preload("Items").Preload("Customer").
		First(&updated, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete reverses the invoice's stock effects and removes it with its items
// in one transaction. Service-type items are not compensated.
func (s *InvoiceService) Delete(id uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var invoice models.Invoice
		if err := tx.Preload("Items").First(&invoice, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.NotFoundf("invoice not found")
			}
			return err
		}

		for _, item := range invoice.Items {
			if item.ItemType == models.ItemTypeMachine {
				if err := s.stock.Release(tx, item.ReferenceID, item.Quantity); err != nil {
					// A machine deleted after the sale leaves nothing to restore.
					if !errors.Is(err, utils.ErrNotFound) {
						return err
					}
				}
			}
		}

		if err := tx.Where("invoice_id = ?", invoice.ID).Delete(&models.InvoiceItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&invoice).Error
	})
}
