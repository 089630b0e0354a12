// services/customer.go
package services

import (
	"errors"

	"medequip-backend/models"
	"medequip-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CustomerService struct {
	db *gorm.DB
}

func NewCustomerService(db *gorm.DB) *CustomerService {
	return &CustomerService{db: db}
}

type CreateCustomerInput struct {
	Name              string `json:"name" binding:"required"`
	Email             string `json:"email" binding:"omitempty,email"`
	Phone             string `json:"phone"`
	Address           string `json:"address"`
	HospitalOrLabName string `json:"hospitalOrLabName"`
}

type UpdateCustomerInput struct {
	Name              *string `json:"name"`
	Email             *string `json:"email" binding:"omitempty,email"`
	Phone             *string `json:"phone"`
	Address           *string `json:"address"`
	HospitalOrLabName *string `json:"hospitalOrLabName"`
}

func (s *CustomerService) Create(input CreateCustomerInput) (*models.Customer, error) {
	if input.Phone != "" && !utils.ValidatePhone(input.Phone) {
		return nil, utils.BadRequestf("invalid phone number")
	}

	customer := models.Customer{
		Name:              input.Name,
		Email:             input.Email,
		Phone:             input.Phone,
		Address:           input.Address,
		HospitalOrLabName: input.HospitalOrLabName,
	}
	if err := s.db.Create(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

func (s *CustomerService) GetByID(id uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	if err := s.db.First(&customer, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFoundf("customer not found")
		}
		return nil, err
	}
	return &customer, nil
}

// List searches customers by name or hospital/lab with pagination.
func (s *CustomerService) List(page, limit int, search string) ([]models.Customer, *Pagination, error) {
	page, limit = paginate(page, limit)

	query := s.db.Model(&models.Customer{})
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("name LIKE ? OR hospital_or_lab_name LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, err
	}

	var customers []models.Customer
	if err := query.Order("created_at DESC").
		Limit(limit).Offset((page - 1) * limit).
		Find(&customers).Error; err != nil {
		return nil, nil, err
	}

	return customers, &Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages(total, limit),
	}, nil
}

func (s *CustomerService) Update(id uuid.UUID, input UpdateCustomerInput) (*models.Customer, error) {
	var customer models.Customer
	if err := s.db.First(&customer, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFoundf("customer not found")
		}
		return nil, err
	}

	if input.Phone != nil && *input.Phone != "" && !utils.ValidatePhone(*input.Phone) {
		return nil, utils.BadRequestf("invalid phone number")
	}

	if input.Name != nil {
		customer.Name = *input.Name
	}
	if input.Email != nil {
		customer.Email = *input.Email
	}
	if input.Phone != nil {
		customer.Phone = *input.Phone
	}
	if input.Address != nil {
		customer.Address = *input.Address
	}
	if input.HospitalOrLabName != nil {
		customer.HospitalOrLabName = *input.HospitalOrLabName
	}

	if err := s.db.Save(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

// Delete removes the customer only. Services, invoices, and contracts that
// reference it are left in place.
func (s *CustomerService) Delete(id uuid.UUID) error {
	result := s.db.Delete(&models.Customer{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return utils.NotFoundf("customer not found")
	}
	return nil
}
