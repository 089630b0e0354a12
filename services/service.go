// services/service.go
package services

import (
	"errors"
	"log"
	"time"

	"medequip-backend/models"
	"medequip-backend/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ServiceService manages field-service tickets. Completing a ticket
// dispatches best-effort auto-invoicing through a swappable hook so the
// "may fail silently" contract stays visible and testable.
type ServiceService struct {
	db       *gorm.DB
	invoices *InvoiceService

	// autoInvoice handles the completion side effect. Defaults to
	// invoiceCompleted; tests may replace it.
	autoInvoice func(service models.Service)
}

func NewServiceService(db *gorm.DB) *ServiceService {
	s := &ServiceService{db: db, invoices: NewInvoiceService(db)}
	s.autoInvoice = s.invoiceCompleted
	return s
}

type CreateServiceInput struct {
	CustomerID  uuid.UUID            `json:"customerId" binding:"required"`
	MachineID   *uuid.UUID           `json:"machineId"`
	ServiceType string               `json:"serviceType" binding:"required"`
	Description string               `json:"description"`
	Status      models.ServiceStatus `json:"status"`
	ServiceDate *time.Time           `json:"serviceDate"`
	Cost        *decimal.Decimal     `json:"cost"`
}

type UpdateServiceInput struct {
	CustomerID  *uuid.UUID            `json:"customerId"`
	MachineID   *uuid.UUID            `json:"machineId"`
	ServiceType *string               `json:"serviceType"`
	Description *string               `json:"description"`
	Status      *models.ServiceStatus `json:"status"`
	ServiceDate *time.Time            `json:"serviceDate"`
	Cost        *decimal.Decimal      `json:"cost"`
}

// PaymentInfo mirrors the invoice state of a ticket that has been billed.
type PaymentInfo struct {
	PaymentStatus models.PaymentStatus `json:"paymentStatus"`
	PaidAmount    decimal.Decimal      `json:"paidAmount"`
	TotalAmount   decimal.Decimal      `json:"totalAmount"`
}

type ServiceWithPayment struct {
	models.Service
	PaymentInfo *PaymentInfo `json:"paymentInfo"`
}

type ServiceFilters struct {
	Status     models.ServiceStatus
	CustomerID *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
}

func (s *ServiceService) Create(input CreateServiceInput) (*models.Service, error) {
	var customer models.Customer
	if err := s.db.First(&customer, "id = ?", input.CustomerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFoundf("customer not found")
		}
		return nil, err
	}

	if input.MachineID != nil {
		var machine models.Machine
		if err := s.db.First(&machine, "id = ?", *input.MachineID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, utils.NotFoundf("machine not found")
			}
			return nil, err
		}
	}

	status := input.Status
	if status == "" {
		status = models.ServicePending
	}
	serviceDate := time.Now()
	if input.ServiceDate != nil {
		serviceDate = *input.ServiceDate
	}
	cost := decimal.NullDecimal{}
	if input.Cost != nil {
		cost = decimal.NullDecimal{Decimal: *input.Cost, Valid: true}
	}

	service := models.Service{
		CustomerID:  input.CustomerID,
		MachineID:   input.MachineID,
		ServiceType: input.ServiceType,
		Description: input.Description,
		Status:      status,
		ServiceDate: serviceDate,
		Cost:        cost,
	}
	if err := s.db.Create(&service).Error; err != nil {
		return nil, err
	}

	return s.GetByID(service.ID)
}

func (s *ServiceService) GetByID(id uuid.UUID) (*models.Service, error) {
	var service models.Service
	if err := s.db.Preload("Customer").Preload("Machine").
		First(&service, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFoundf("service not found")
		}
		return nil, err
	}
	return &service, nil
}

// List returns tickets with pagination and, for invoiced tickets, the
// payment state of their invoice.
func (s *ServiceService) List(page, limit int, filters ServiceFilters) ([]ServiceWithPayment, *Pagination, error) {
	page, limit = paginate(page, limit)

	query := s.db.Model(&models.Service{})
	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}
	if filters.CustomerID != nil {
		query = query.Where("customer_id = ?", *filters.CustomerID)
	}
	if filters.StartDate != nil {
		query = query.Where("service_date >= ?", *filters.StartDate)
	}
	if filters.EndDate != nil {
		query = query.Where("service_date <= ?", *filters.EndDate)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, err
	}

	var services []models.Service
	if err := query.Preload("Customer").Preload("Machine").
		Order("created_at DESC").
		Limit(limit).Offset((page - 1) * limit).
		Find(&services).Error; err != nil {
		return nil, nil, err
	}

	out := make([]ServiceWithPayment, 0, len(services))
	ids := make([]uuid.UUID, 0, len(services))
	for _, svc := range services {
		ids = append(ids, svc.ID)
	}

	paymentByService := map[uuid.UUID]*PaymentInfo{}
	if len(ids) > 0 {
		var items []models.InvoiceItem
		if err := s.db.Where("item_type = ? AND reference_id IN ?", models.ItemTypeService, ids).
			Find(&items).Error; err != nil {
			return nil, nil, err
		}
		for _, item := range items {
			var invoice models.Invoice
			if err := s.db.First(&invoice, "id = ?", item.InvoiceID).Error; err != nil {
				continue
			}
			paymentByService[item.ReferenceID] = &PaymentInfo{
				PaymentStatus: invoice.PaymentStatus,
				PaidAmount:    invoice.PaidAmount,
				TotalAmount:   invoice.TotalAmount,
			}
		}
	}

	for _, svc := range services {
		out = append(out, ServiceWithPayment{Service: svc, PaymentInfo: paymentByService[svc.ID]})
	}

	return out, &Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages(total, limit),
	}, nil
}

// Update edits a ticket. Only the transition edge into completed triggers
// auto-invoicing, never a create that starts out completed.
func (s *ServiceService) Update(id uuid.UUID, input UpdateServiceInput) (*models.Service, error) {
	var service models.Service
	if err := s.db.First(&service, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFoundf("service not found")
		}
		return nil, err
	}

	if input.CustomerID != nil {
		var customer models.Customer
		if err := s.db.First(&customer, "id = ?", *input.CustomerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, utils.NotFoundf("customer not found")
			}
			return nil, err
		}
		service.CustomerID = *input.CustomerID
	}
	if input.MachineID != nil {
		var machine models.Machine
		if err := s.db.First(&machine, "id = ?", *input.MachineID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, utils.NotFoundf("machine not found")
			}
			return nil, err
		}
		service.MachineID = input.MachineID
	}
	if input.ServiceType != nil {
		service.ServiceType = *input.ServiceType
	}
	if input.Description != nil {
		service.Description = *input.Description
	}

	isBeingCompleted := input.Status != nil &&
		*input.Status == models.ServiceCompleted &&
		service.Status != models.ServiceCompleted

	if input.Status != nil {
		service.Status = *input.Status
	}
	if input.ServiceDate != nil {
		service.ServiceDate = *input.ServiceDate
	}
	if input.Cost != nil {
		service.Cost = decimal.NullDecimal{Decimal: *input.Cost, Valid: true}
	}

	if err := s.db.Save(&service).Error; err != nil {
		return nil, err
	}

	updated, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if isBeingCompleted {
		s.autoInvoice(*updated)
	}

	return updated, nil
}

// invoiceCompleted is the default completion hook: compose the invoice,
// swallow and log any failure so the ticket update never fails with it.
func (s *ServiceService) invoiceCompleted(service models.Service) {
	if _, err := s.invoices.CreateForService(service); err != nil {
		log.Printf("Failed to create invoice for completed service %s: %v", service.ID, err)
	}
}

func (s *ServiceService) Delete(id uuid.UUID) error {
	result := s.db.Delete(&models.Service{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return utils.NotFoundf("service not found")
	}
	return nil
}
