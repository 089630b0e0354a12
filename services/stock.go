// services/stock.go
package services

import (
	"errors"

	"medequip-backend/models"
	"medequip-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StockService owns machine stock quantities and the available/sold status
// transitions tied to them. All methods take the caller's transaction handle
// and never commit on their own.
type StockService struct{}

func NewStockService() *StockService { return &StockService{} }

// ReserveForSale decrements stock by quantity and marks the machine sold
// when the remaining stock hits zero. The decrement is a single UPDATE
// guarded by the stock predicate, so two concurrent reservations can never
// interleave into negative stock.
func (s *StockService) ReserveForSale(tx *gorm.DB, machineID uuid.UUID, quantity int) error {
	if quantity < 1 {
		return utils.BadRequestf("quantity must be at least 1")
	}

	res := tx.Model(&models.Machine{}).
		Where("id = ? AND stock_quantity >= ?", machineID, quantity).
		Update("stock_quantity", gorm.Expr("stock_quantity - ?", quantity))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var machine models.Machine
		if err := tx.Select("id").First(&machine, "id = ?", machineID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.NotFoundf("machine %s not found", machineID)
			}
			return err
		}
		return utils.InsufficientStockf("insufficient stock for machine %s", machineID)
	}

	return tx.Model(&models.Machine{}).
		Where("id = ? AND stock_quantity = 0", machineID).
		Update("status", models.MachineSold).Error
}

// Release returns quantity units to stock and restores availability. The
// status reset is unconditional, mirroring reserve's inverse even when other
// units of the machine are still out.
func (s *StockService) Release(tx *gorm.DB, machineID uuid.UUID, quantity int) error {
	res := tx.Model(&models.Machine{}).
		Where("id = ?", machineID).
		Updates(map[string]interface{}{
			"stock_quantity": gorm.Expr("stock_quantity + ?", quantity),
			"status":         models.MachineAvailable,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.NotFoundf("machine %s not found", machineID)
	}
	return nil
}

// AdjustStock applies a signed manual stock correction. A depletion to
// exactly zero marks the machine sold; a positive delta never flips the
// status back to available, that only happens through Release.
func (s *StockService) AdjustStock(tx *gorm.DB, machineID uuid.UUID, delta int) (*models.Machine, error) {
	if delta < 0 {
		res := tx.Model(&models.Machine{}).
			Where("id = ? AND stock_quantity >= ?", machineID, -delta).
			Update("stock_quantity", gorm.Expr("stock_quantity + ?", delta))
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			var machine models.Machine
			if err := tx.Select("id").First(&machine, "id = ?", machineID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, utils.NotFoundf("machine %s not found", machineID)
				}
				return nil, err
			}
			return nil, utils.InsufficientStockf("insufficient stock for machine %s", machineID)
		}
	} else {
		res := tx.Model(&models.Machine{}).
			Where("id = ?", machineID).
			Update("stock_quantity", gorm.Expr("stock_quantity + ?", delta))
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, utils.NotFoundf("machine %s not found", machineID)
		}
	}

	if err := tx.Model(&models.Machine{}).
		Where("id = ? AND stock_quantity = 0", machineID).
		Update("status", models.MachineSold).Error; err != nil {
		return nil, err
	}

	var machine models.Machine
	if err := tx.First(&machine, "id = ?", machineID).Error; err != nil {
		return nil, err
	}
	return &machine, nil
}
