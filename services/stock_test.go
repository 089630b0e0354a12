package services

import (
	"sync"
	"testing"

	"medequip-backend/models"
	"medequip-backend/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestReserveForSaleDecrementsAndFlipsStatus(t *testing.T) {
	db := setupTestDB(t)
	machine := seedMachine(t, db, 3)
	stock := NewStockService()

	require.NoError(t, stock.ReserveForSale(db, machine.ID, 1))

	var got models.Machine
	require.NoError(t, db.First(&got, "id = ?", machine.ID).Error)
	require.Equal(t, 2, got.StockQuantity)
	require.Equal(t, models.MachineAvailable, got.Status)

	require.NoError(t, stock.ReserveForSale(db, machine.ID, 2))
	require.NoError(t, db.First(&got, "id = ?", machine.ID).Error)
	require.Equal(t, 0, got.StockQuantity)
	require.Equal(t, models.MachineSold, got.Status)
}

func TestReserveForSaleInsufficientStock(t *testing.T) {
	db := setupTestDB(t)
	machine := seedMachine(t, db, 1)
	stock := NewStockService()

	err := stock.ReserveForSale(db, machine.ID, 2)
	require.ErrorIs(t, err, utils.ErrInsufficientStock)

	var got models.Machine
	require.NoError(t, db.First(&got, "id = ?", machine.ID).Error)
	require.Equal(t, 1, got.StockQuantity)
}

func TestReserveForSaleMachineNotFound(t *testing.T) {
	db := setupTestDB(t)
	stock := NewStockService()

	err := stock.ReserveForSale(db, uuid.New(), 1)
	require.ErrorIs(t, err, utils.ErrNotFound)
}

func TestReleaseRestoresAvailability(t *testing.T) {
	db := setupTestDB(t)
	machine := seedMachine(t, db, 2)
	stock := NewStockService()

	require.NoError(t, stock.ReserveForSale(db, machine.ID, 2))
	require.NoError(t, stock.Release(db, machine.ID, 2))

	var got models.Machine
	require.NoError(t, db.First(&got, "id = ?", machine.ID).Error)
	require.Equal(t, 2, got.StockQuantity)
	require.Equal(t, models.MachineAvailable, got.Status)
}

func TestAdjustStockAsymmetry(t *testing.T) {
	db := setupTestDB(t)
	machine := seedMachine(t, db, 2)
	stock := NewStockService()

	// Deplete to zero: status flips to sold.
	got, err := stock.AdjustStock(db, machine.ID, -2)
	require.NoError(t, err)
	require.Equal(t, 0, got.StockQuantity)
	require.Equal(t, models.MachineSold, got.Status)

	// Restocking does not revert the status; only Release does that.
	got, err = stock.AdjustStock(db, machine.ID, 5)
	require.NoError(t, err)
	require.Equal(t, 5, got.StockQuantity)
	require.Equal(t, models.MachineSold, got.Status)

	_, err = stock.AdjustStock(db, machine.ID, -6)
	require.ErrorIs(t, err, utils.ErrInsufficientStock)
}

func TestConcurrentReservationsNeverGoNegative(t *testing.T) {
	db := setupTestDB(t)
	const n = 8
	machine := seedMachine(t, db, n)
	stock := NewStockService()

	var wg sync.WaitGroup
	errCh := make(chan error, n+2)
	for i := 0; i < n+2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errCh <- stock.ReserveForSale(db, machine.ID, 1)
		}()
	}
	wg.Wait()
	close(errCh)

	succeeded, insufficient := 0, 0
	for err := range errCh {
		switch {
		case err == nil:
			succeeded++
		default:
			require.ErrorIs(t, err, utils.ErrInsufficientStock)
			insufficient++
		}
	}
	require.Equal(t, n, succeeded)
	require.Equal(t, 2, insufficient)

	var got models.Machine
	require.NoError(t, db.First(&got, "id = ?", machine.ID).Error)
	require.Equal(t, 0, got.StockQuantity)
	require.Equal(t, models.MachineSold, got.Status)
}
