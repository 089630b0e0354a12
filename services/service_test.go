package services

import (
	"testing"

	"medequip-backend/models"
	"medequip-backend/utils"

	"github.com/stretchr/testify/require"
)

func completed() *models.ServiceStatus {
	s := models.ServiceCompleted
	return &s
}

func invoiceCount(t *testing.T, svc *ServiceService) int64 {
	t.Helper()
	var count int64
	require.NoError(t, svc.db.Model(&models.Invoice{}).Count(&count).Error)
	return count
}

func TestCompletingServiceCreatesInvoice(t *testing.T) {
	db := setupTestDB(t)
	customer := seedCustomer(t, db)
	service := seedService(t, db, customer, "750.25")
	svc := NewServiceService(db)

	_, err := svc.Update(service.ID, UpdateServiceInput{Status: completed()})
	require.NoError(t, err)
	require.EqualValues(t, 1, invoiceCount(t, svc))

	var invoice models.Invoice
	require.NoError(t, db.Preload("Items").First(&invoice).Error)
	require.True(t, invoice.TotalAmount.Equal(service.Cost.Decimal))
	require.Len(t, invoice.Items, 1)
	require.Equal(t, models.ItemTypeService, invoice.Items[0].ItemType)
	require.Equal(t, service.ID, invoice.Items[0].ReferenceID)
	require.Equal(t, 1, invoice.Items[0].Quantity)
}

func TestCompletingServiceTwiceInvoicesOnce(t *testing.T) {
	db := setupTestDB(t)
	customer := seedCustomer(t, db)
	service := seedService(t, db, customer, "300")
	svc := NewServiceService(db)

	_, err := svc.Update(service.ID, UpdateServiceInput{Status: completed()})
	require.NoError(t, err)

	// Bounce through in_progress and complete again.
	inProgress := models.ServiceInProgress
	_, err = svc.Update(service.ID, UpdateServiceInput{Status: &inProgress})
	require.NoError(t, err)
	_, err = svc.Update(service.ID, UpdateServiceInput{Status: completed()})
	require.NoError(t, err)

	require.EqualValues(t, 1, invoiceCount(t, svc))
}

func TestCompletedUpdateWithoutEdgeDoesNotInvoice(t *testing.T) {
	db := setupTestDB(t)
	customer := seedCustomer(t, db)
	svc := NewServiceService(db)

	// Created already completed: no edge, no invoice.
	created, err := svc.Create(CreateServiceInput{
		CustomerID:  customer.ID,
		ServiceType: "installation",
		Status:      models.ServiceCompleted,
	})
	require.NoError(t, err)
	require.EqualValues(t, 0, invoiceCount(t, svc))

	// Updating an already-completed ticket is not an edge either.
	desc := "replaced filter"
	_, err = svc.Update(created.ID, UpdateServiceInput{Status: completed(), Description: &desc})
	require.NoError(t, err)
	require.EqualValues(t, 0, invoiceCount(t, svc))
}

func TestCompletingServiceWithoutCostDoesNotInvoice(t *testing.T) {
	db := setupTestDB(t)
	customer := seedCustomer(t, db)
	service := seedService(t, db, customer, "")
	svc := NewServiceService(db)

	_, err := svc.Update(service.ID, UpdateServiceInput{Status: completed()})
	require.NoError(t, err)
	require.EqualValues(t, 0, invoiceCount(t, svc))
}

func TestAutoInvoiceFailureNeverFailsTheUpdate(t *testing.T) {
	db := setupTestDB(t)
	customer := seedCustomer(t, db)
	service := seedService(t, db, customer, "500")
	svc := NewServiceService(db)

	// Orphan the ticket so invoice composition fails on the customer check.
	require.NoError(t, db.Delete(&models.Customer{}, "id = ?", customer.ID).Error)

	updated, err := svc.Update(service.ID, UpdateServiceInput{Status: completed()})
	require.NoError(t, err)
	require.Equal(t, models.ServiceCompleted, updated.Status)
	require.EqualValues(t, 0, invoiceCount(t, svc))
}

func TestAutoInvoiceDispatchHookReceivesCompletedTicket(t *testing.T) {
	db := setupTestDB(t)
	customer := seedCustomer(t, db)
	service := seedService(t, db, customer, "120")
	svc := NewServiceService(db)

	var dispatched []models.Service
	svc.autoInvoice = func(s models.Service) { dispatched = append(dispatched, s) }

	_, err := svc.Update(service.ID, UpdateServiceInput{Status: completed()})
	require.NoError(t, err)
	require.Len(t, dispatched, 1)
	require.Equal(t, service.ID, dispatched[0].ID)
	require.Equal(t, models.ServiceCompleted, dispatched[0].Status)
}

func TestServiceCreateChecksReferences(t *testing.T) {
	db := setupTestDB(t)
	customer := seedCustomer(t, db)
	svc := NewServiceService(db)

	_, err := svc.Create(CreateServiceInput{
		CustomerID:  customer.ID,
		ServiceType: "repair",
	})
	require.NoError(t, err)

	missing := seedMachine(t, db, 0).ID
	require.NoError(t, db.Delete(&models.Machine{}, "id = ?", missing).Error)
	_, err = svc.Create(CreateServiceInput{
		CustomerID:  customer.ID,
		MachineID:   &missing,
		ServiceType: "repair",
	})
	require.ErrorIs(t, err, utils.ErrNotFound)
}

func TestServiceListAnnotatesPaymentInfo(t *testing.T) {
	db := setupTestDB(t)
	customer := seedCustomer(t, db)
	billed := seedService(t, db, customer, "900")
	seedService(t, db, customer, "")
	svc := NewServiceService(db)

	_, err := svc.Update(billed.ID, UpdateServiceInput{Status: completed()})
	require.NoError(t, err)

	list, pagination, err := svc.List(1, 10, ServiceFilters{})
	require.NoError(t, err)
	require.EqualValues(t, 2, pagination.Total)

	var withPayment, withoutPayment int
	for _, entry := range list {
		if entry.PaymentInfo != nil {
			withPayment++
			require.Equal(t, models.PaymentUnpaid, entry.PaymentInfo.PaymentStatus)
			require.True(t, entry.PaymentInfo.TotalAmount.Equal(billed.Cost.Decimal))
		} else {
			withoutPayment++
		}
	}
	require.Equal(t, 1, withPayment)
	require.Equal(t, 1, withoutPayment)
}
