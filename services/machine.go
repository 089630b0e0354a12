// services/machine.go
package services

import (
	"errors"

	"medequip-backend/models"
	"medequip-backend/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type MachineService struct {
	db    *gorm.DB
	stock *StockService
}

func NewMachineService(db *gorm.DB) *MachineService {
	return &MachineService{db: db, stock: NewStockService()}
}

type CreateMachineInput struct {
	Name          string               `json:"name" binding:"required"`
	Model         string               `json:"model"`
	SerialNumber  string               `json:"serialNumber"`
	PurchasePrice decimal.Decimal      `json:"purchasePrice" binding:"required"`
	SellingPrice  decimal.Decimal      `json:"sellingPrice" binding:"required"`
	StockQuantity int                  `json:"stockQuantity" binding:"min=0"`
	Status        models.MachineStatus `json:"status"`
}

type UpdateMachineInput struct {
	Name          *string               `json:"name"`
	Model         *string               `json:"model"`
	SerialNumber  *string               `json:"serialNumber"`
	PurchasePrice *decimal.Decimal      `json:"purchasePrice"`
	SellingPrice  *decimal.Decimal      `json:"sellingPrice"`
	StockQuantity *int                  `json:"stockQuantity"`
	Status        *models.MachineStatus `json:"status"`
}

func (s *MachineService) Create(input CreateMachineInput) (*models.Machine, error) {
	status := input.Status
	if status == "" {
		status = models.MachineAvailable
	}

	machine := models.Machine{
		Name:          input.Name,
		Model:         input.Model,
		SerialNumber:  input.SerialNumber,
		PurchasePrice: input.PurchasePrice,
		SellingPrice:  input.SellingPrice,
		StockQuantity: input.StockQuantity,
		Status:        status,
	}
	if err := s.db.Create(&machine).Error; err != nil {
		return nil, err
	}
	return &machine, nil
}

func (s *MachineService) GetByID(id uuid.UUID) (*models.Machine, error) {
	var machine models.Machine
	if err := s.db.Preload("Services", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at DESC").Limit(10)
	}).First(&machine, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFoundf("machine not found")
		}
		return nil, err
	}
	return &machine, nil
}

func (s *MachineService) List(page, limit int, status models.MachineStatus) ([]models.Machine, *Pagination, error) {
	page, limit = paginate(page, limit)

	query := s.db.Model(&models.Machine{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, err
	}

	var machines []models.Machine
	if err := query.Order("created_at DESC").
		Limit(limit).Offset((page - 1) * limit).
		Find(&machines).Error; err != nil {
		return nil, nil, err
	}

	return machines, &Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages(total, limit),
	}, nil
}

// Update edits machine fields. Marking a machine sold by hand is rejected;
// that transition belongs to the stock service alone.
func (s *MachineService) Update(id uuid.UUID, input UpdateMachineInput) (*models.Machine, error) {
	var machine models.Machine
	if err := s.db.First(&machine, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFoundf("machine not found")
		}
		return nil, err
	}

	if input.Status != nil && *input.Status == models.MachineSold && machine.Status != models.MachineSold {
		return nil, utils.InvalidTransitionf("cannot mark machine as sold directly, create an invoice to sell this machine")
	}

	if input.Name != nil {
		machine.Name = *input.Name
	}
	if input.Model != nil {
		machine.Model = *input.Model
	}
	if input.SerialNumber != nil {
		machine.SerialNumber = *input.SerialNumber
	}
	if input.PurchasePrice != nil {
		machine.PurchasePrice = *input.PurchasePrice
	}
	if input.SellingPrice != nil {
		machine.SellingPrice = *input.SellingPrice
	}
	if input.StockQuantity != nil {
		machine.StockQuantity = *input.StockQuantity
	}
	if input.Status != nil && *input.Status != models.MachineSold {
		machine.Status = *input.Status
	}

	if err := s.db.Save(&machine).Error; err != nil {
		return nil, err
	}
	return &machine, nil
}

// UpdateStock applies a signed manual adjustment through the stock service.
func (s *MachineService) UpdateStock(id uuid.UUID, delta int) (*models.Machine, error) {
	var machine *models.Machine
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		machine, err = s.stock.AdjustStock(tx, id, delta)
		return err
	})
	if err != nil {
		return nil, err
	}
	return machine, nil
}

func (s *MachineService) Delete(id uuid.UUID) error {
	result := s.db.Delete(&models.Machine{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return utils.NotFoundf("machine not found")
	}
	return nil
}
