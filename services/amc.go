// services/amc.go
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

// AMCService manages annual maintenance contracts.
type AMCService struct {
	db *gorm.DB
}

func NewAMCService(db *gorm.DB) *AMCService {
	return &AMCService{db: db}
}

type CreateAMCInput struct {
	CustomerID     uuid.UUID       `json:"customerId" binding:"required"`
	MachineID      uuid.UUID       `json:"machineId" binding:"required"`
	ContractNumber string          `json:"contractNumber"`
	StartDate      time.Time       `json:"startDate" binding:"required"`
	EndDate        time.Time       `json:"endDate" binding:"required"`
	ContractValue  decimal.Decimal `json:"contractValue" binding:"required"`
	RenewalDate    *time.Time      `json:"renewalDate"`
	Notes          string          `json:"notes"`
}

type UpdateAMCInput struct {
	CustomerID     *uuid.UUID        `json:"customerId"`
	MachineID      *uuid.UUID        `json:"machineId"`
	ContractNumber *string           `json:"contractNumber"`
	StartDate      *time.Time        `json:"startDate"`
	EndDate        *time.Time        `json:"endDate"`
	ContractValue  *decimal.Decimal  `json:"contractValue"`
	Status         *models.AMCStatus `json:"status"`
	RenewalDate    *time.Time        `json:"renewalDate"`
	Notes          *string           `json:"notes"`
}

type AMCStats struct {
	Total      int64           `json:"total"`
	Active     int64           `json:"active"`
	Expired    int64           `json:"expired"`
	Expiring30 int64           `json:"expiring30"`
	Expiring60 int64           `json:"expiring60"`
	Expiring90 int64           `json:"expiring90"`
	TotalValue decimal.Decimal `json:"totalValue"`
}

func (s *AMCService) Create(input CreateAMCInput) (*models.AMC, error) {
	var customer models.Customer
	if err := s.db.First(&customer, "id = ?", input.CustomerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFoundf("customer not found")
		}
		return nil, err
	}

	var machine models.Machine
	if err := s.db.First(&machine, "id = ?", input.MachineID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFoundf("machine not found")
		}
		return nil, err
	}

	if !input.EndDate.After(input.StartDate) {
		return nil, utils.BadRequestf("end date must be after start date")
	}
	if !input.ContractValue.IsPositive() {
		return nil, utils.BadRequestf("contract value must be positive")
	}

	// Contracts created already past their end date start out expired.
	status := models.AMCActive
	if input.EndDate.Before(time.Now()) {
		status = models.AMCExpired
	}

	var created models.AMC
	err := s.db.Transaction(func(tx *gorm.DB) error {
		contractNumber := input.ContractNumber
		if contractNumber == "" {
			year := time.Now().Year()
			seq, err := NextNumber(tx, ScopeContract, year)
			if err != nil {
				return err
			}
			contractNumber = FormatContractNumber(year, seq)
		}

		amc := models.AMC{
			CustomerID:     input.CustomerID,
			MachineID:      input.MachineID,
			ContractNumber: contractNumber,
			StartDate:      input.StartDate,
			EndDate:        input.EndDate,
			ContractValue:  input.ContractValue,
			Status:         status,
			RenewalDate:    input.RenewalDate,
			Notes:          input.Notes,
		}
		if err := tx.Create(&amc).Error; err != nil {
			return utils.TranslateDBError(err, "amc not found")
		}
		return tx.Preload("Customer").Preload("Machine").
			First(&created, "id = ?", amc.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *AMCService) GetByID(id uuid.UUID) (*models.AMC, error) {
	var amc models.AMC
	if err := s.db.Preload("Customer").Preload("Machine").
		First(&amc, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFoundf("amc not found")
		}
		return nil, err
	}
	return &amc, nil
}

func (s *AMCService) List(page, limit int, status models.AMCStatus, customerID *uuid.UUID) ([]models.AMC, *Pagination, error) {
	page, limit = paginate(page, limit)

	query := s.db.Model(&models.AMC{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if customerID != nil {
		query = query.Where("customer_id = ?", *customerID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, err
	}

	var amcs []models.AMC
	if err := query.Preload("Customer").Preload("Machine").
		Order("created_at DESC").
		Limit(limit).Offset((page - 1) * limit).
		Find(&amcs).Error; err != nil {
		return nil, nil, err
	}

	return amcs, &Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages(total, limit),
	}, nil
}

func (s *AMCService) Update(id uuid.UUID, input UpdateAMCInput) (*models.AMC, error) {
	var amc models.AMC
	if err := s.db.First(&amc, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFoundf("amc not found")
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
		amc.CustomerID = *input.CustomerID
	}
	if input.MachineID != nil {
		var machine models.Machine
		if err := s.db.First(&machine, "id = ?", *input.MachineID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, utils.NotFoundf("machine not found")
			}
			return nil, err
		}
		amc.MachineID = *input.MachineID
	}

	startDate := amc.StartDate
	endDate := amc.EndDate
	if input.StartDate != nil {
		startDate = *input.StartDate
	}
	if input.EndDate != nil {
		endDate = *input.EndDate
	}
	if !endDate.After(startDate) {
		return nil, utils.BadRequestf("end date must be after start date")
	}
	amc.StartDate = startDate
	amc.EndDate = endDate

	if input.ContractNumber != nil && *input.ContractNumber != amc.ContractNumber {
		var count int64
		if err := s.db.Model(&models.AMC{}).
			Where("contract_number = ?", *input.ContractNumber).
			Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, utils.Conflictf("contract number already exists")
		}
		amc.ContractNumber = *input.ContractNumber
	}

	if input.ContractValue != nil {
		if !input.ContractValue.IsPositive() {
			return nil, utils.BadRequestf("contract value must be positive")
		}
		amc.ContractValue = *input.ContractValue
	}

	if input.Status != nil {
		amc.Status = *input.Status
	} else if amc.Status == models.AMCActive && amc.EndDate.Before(time.Now()) {
		// No explicit status: an active contract past its end date expires.
		amc.Status = models.AMCExpired
	}

	if input.RenewalDate != nil {
		amc.RenewalDate = input.RenewalDate
	}
	if input.Notes != nil {
		amc.Notes = *input.Notes
	}

	if err := s.db.Save(&amc).Error; err != nil {
		return nil, utils.TranslateDBError(err, "amc not found")
	}
	return s.GetByID(id)
}

func (s *AMCService) Delete(id uuid.UUID) error {
	result := s.db.Delete(&models.AMC{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return utils.NotFoundf("amc not found")
	}
	return nil
}

// ExpiringSoon lists active contracts ending within the next days.
func (s *AMCService) ExpiringSoon(days int) ([]models.AMC, error) {
	if days <= 0 {
		days = 30
	}
	now := time.Now()
	until := now.AddDate(0, 0, days)

	var amcs []models.AMC
	err := s.db.Preload("Customer").Preload("Machine").
		Where("status = ? AND end_date BETWEEN ? AND ?", models.AMCActive, now, until).
		Order("end_date ASC").
		Find(&amcs).Error
	return amcs, err
}

// ExpireOverdue flips active contracts past their end date to expired and
// returns how many were updated. Used by the daily sweep.
func (s *AMCService) ExpireOverdue() (int64, error) {
	res := s.db.Model(&models.AMC{}).
		Where("status = ? AND end_date < ?", models.AMCActive, time.Now()).
		Update("status", models.AMCExpired)
	return res.RowsAffected, res.Error
}

func (s *AMCService) Stats() (*AMCStats, error) {
	stats := &AMCStats{}
	now := time.Now()

	if err := s.db.Model(&models.AMC{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.AMC{}).
		Where("status = ?", models.AMCActive).Count(&stats.Active).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.AMC{}).
		Where("status = ?", models.AMCExpired).Count(&stats.Expired).Error; err != nil {
		return nil, err
	}

	counts := []struct {
		days int
		dst  *int64
	}{
		{30, &stats.Expiring30},
		{60, &stats.Expiring60},
		{90, &stats.Expiring90},
	}
	for _, c := range counts {
		if err := s.db.Model(&models.AMC{}).
			Where("status = ? AND end_date BETWEEN ? AND ?",
				models.AMCActive, now, now.AddDate(0, 0, c.days)).
			Count(c.dst).Error; err != nil {
			return nil, err
		}
	}

	if err := s.db.Model(&models.AMC{}).
		Where("status = ?", models.AMCActive).
		Select("COALESCE(SUM(contract_value), 0)").
		Scan(&stats.TotalValue).Error; err != nil {
		return nil, err
	}

	return stats, nil
}
