package services

import (
	"fmt"
	"testing"
	"time"

	"medequip-backend/models"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	// A single connection keeps concurrent writers serialized the way
	// Postgres row locks would, without tripping sqlite table locks.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&models.User{}, &models.Customer{}, &models.Machine{}, &models.Service{},
		&models.Invoice{}, &models.InvoiceItem{}, &models.AMC{},
		&models.ReminderLog{}, &models.NumberSequence{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedCustomer(t *testing.T, db *gorm.DB) models.Customer {
	t.Helper()
	customer := models.Customer{
		Name:              "City Hospital",
		Email:             "lab@cityhospital.test",
		Phone:             "+14155550123",
		HospitalOrLabName: "City Hospital Pathology",
	}
	if err := db.Create(&customer).Error; err != nil {
		t.Fatalf("customer: %v", err)
	}
	return customer
}

func seedMachine(t *testing.T, db *gorm.DB, stock int) models.Machine {
	t.Helper()
	machine := models.Machine{
		Name:          "Hematology Analyzer",
		Model:         "HA-300",
		SerialNumber:  "SN-" + t.Name(),
		PurchasePrice: decimal.RequireFromString("52000"),
		SellingPrice:  decimal.RequireFromString("68500.50"),
		StockQuantity: stock,
		Status:        models.MachineAvailable,
	}
	if err := db.Create(&machine).Error; err != nil {
		t.Fatalf("machine: %v", err)
	}
	return machine
}

func seedService(t *testing.T, db *gorm.DB, customer models.Customer, cost string) models.Service {
	t.Helper()
	service := models.Service{
		CustomerID:  customer.ID,
		ServiceType: "calibration",
		Status:      models.ServicePending,
		ServiceDate: time.Now(),
	}
	if cost != "" {
		service.Cost = decimal.NullDecimal{Decimal: decimal.RequireFromString(cost), Valid: true}
	}
	if err := db.Create(&service).Error; err != nil {
		t.Fatalf("service: %v", err)
	}
	return service
}
