package services

import (
	"testing"

	"medequip-backend/models"
	"medequip-backend/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestUpdateMachineRejectsDirectSoldTransition(t *testing.T) {
	db := setupTestDB(t)
	machine := seedMachine(t, db, 3)
	svc := NewMachineService(db)

	sold := models.MachineSold
	_, err := svc.Update(machine.ID, UpdateMachineInput{Status: &sold})
	require.ErrorIs(t, err, utils.ErrInvalidTransition)

	got, err := svc.GetByID(machine.ID)
	require.NoError(t, err)
	require.Equal(t, models.MachineAvailable, got.Status)
}

func TestUpdateMachineSoldNoOpWhenAlreadySold(t *testing.T) {
	db := setupTestDB(t)
	machine := seedMachine(t, db, 0)
	require.NoError(t, db.Model(&models.Machine{}).
		Where("id = ?", machine.ID).
		Update("status", models.MachineSold).Error)
	svc := NewMachineService(db)

	sold := models.MachineSold
	name := "Refurb " + machine.Name
	updated, err := svc.Update(machine.ID, UpdateMachineInput{Status: &sold, Name: &name})
	require.NoError(t, err)
	require.Equal(t, models.MachineSold, updated.Status)
	require.Equal(t, name, updated.Name)
}

func TestUpdateStockManualAdjustments(t *testing.T) {
	db := setupTestDB(t)
	machine := seedMachine(t, db, 2)
	svc := NewMachineService(db)

	// Draining stock by hand marks the machine sold.
	updated, err := svc.UpdateStock(machine.ID, -2)
	require.NoError(t, err)
	require.Equal(t, 0, updated.StockQuantity)
	require.Equal(t, models.MachineSold, updated.Status)

	// Restocking does not resurrect the status on its own.
	updated, err = svc.UpdateStock(machine.ID, 5)
	require.NoError(t, err)
	require.Equal(t, 5, updated.StockQuantity)
	require.Equal(t, models.MachineSold, updated.Status)

	_, err = svc.UpdateStock(machine.ID, -6)
	require.ErrorIs(t, err, utils.ErrInsufficientStock)

	_, err = svc.UpdateStock(uuid.New(), 1)
	require.ErrorIs(t, err, utils.ErrNotFound)
}

func TestMachineListFiltersByStatus(t *testing.T) {
	db := setupTestDB(t)
	seedMachine(t, db, 1)
	svc := NewMachineService(db)

	spare, err := svc.Create(CreateMachineInput{
		Name:          "Spare Parts Bench",
		PurchasePrice: decimal.RequireFromString("100"),
		SellingPrice:  decimal.RequireFromString("150"),
		StockQuantity: 1,
		Status:        models.MachineUnderService,
	})
	require.NoError(t, err)

	machines, pagination, err := svc.List(1, 10, models.MachineUnderService)
	require.NoError(t, err)
	require.Len(t, machines, 1)
	require.Equal(t, spare.ID, machines[0].ID)
	require.EqualValues(t, 1, pagination.Total)

	machines, pagination, err = svc.List(1, 10, "")
	require.NoError(t, err)
	require.Len(t, machines, 2)
	require.EqualValues(t, 2, pagination.Total)
}

func TestDeleteMachine(t *testing.T) {
	db := setupTestDB(t)
	machine := seedMachine(t, db, 1)
	svc := NewMachineService(db)

	require.NoError(t, svc.Delete(machine.ID))
	require.ErrorIs(t, svc.Delete(machine.ID), utils.ErrNotFound)

	_, err := svc.GetByID(machine.ID)
	require.ErrorIs(t, err, utils.ErrNotFound)
}
