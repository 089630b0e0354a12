package controllers

import (
	"net/http"
	"time"

	"medequip-backend/config"
	"medequip-backend/models"
	"medequip-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type MonthlyRevenue struct {
	Month   string          `json:"month"` // YYYY-MM
	Revenue decimal.Decimal `json:"revenue"`
}

type DashboardOverview struct {
	TotalCustomers int64            `json:"totalCustomers"`
	ActiveServices int64            `json:"activeServices"`
	TotalRevenue   decimal.Decimal  `json:"totalRevenue"`
	MonthlyRevenue []MonthlyRevenue `json:"monthlyRevenue"`
	ActiveAMCs     int64            `json:"activeAmcs"`
	UnpaidInvoices int64            `json:"unpaidInvoices"`
}

// GetDashboardOverview returns the headline numbers for the landing page
func GetDashboardOverview(c *gin.Context) {
	overview := DashboardOverview{TotalRevenue: decimal.Zero}

	config.DB.Model(&models.Customer{}).Count(&overview.TotalCustomers)

	config.DB.Model(&models.Service{}).
		Where("status IN ?", []models.ServiceStatus{models.ServicePending, models.ServiceInProgress}).
		Count(&overview.ActiveServices)

	// Revenue counts fully paid invoices only.
	if err := config.DB.Model(&models.Invoice{}).
		Where("payment_status = ?", models.PaymentPaid).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&overview.TotalRevenue).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to compute revenue")
		return
	}

	config.DB.Model(&models.AMC{}).
		Where("status = ?", models.AMCActive).
		Count(&overview.ActiveAMCs)

	config.DB.Model(&models.Invoice{}).
		Where("payment_status != ?", models.PaymentPaid).
		Count(&overview.UnpaidInvoices)

	monthly, err := monthlyRevenue(12)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to compute monthly revenue")
		return
	}
	overview.MonthlyRevenue = monthly

	c.JSON(http.StatusOK, gin.H{"success": true, "data": overview})
}

// monthlyRevenue buckets paid invoices of the last n months by calendar
// month. Bucketing happens in Go to stay portable across Postgres and the
// sqlite test databases.
func monthlyRevenue(months int) ([]MonthlyRevenue, error) {
	now := time.Now()
	cutoff := utils.BeginningOfMonth(now).AddDate(0, -(months - 1), 0)

	var invoices []models.Invoice
	if err := config.DB.
		Where("payment_status = ? AND invoice_date >= ?", models.PaymentPaid, cutoff).
		Find(&invoices).Error; err != nil {
		return nil, err
	}

	byMonth := map[string]decimal.Decimal{}
	for _, inv := range invoices {
		key := inv.InvoiceDate.Format("2006-01")
		byMonth[key] = byMonth[key].Add(inv.TotalAmount)
	}

	out := make([]MonthlyRevenue, 0, months)
	for i := 0; i < months; i++ {
		month := cutoff.AddDate(0, i, 0).Format("2006-01")
		out = append(out, MonthlyRevenue{Month: month, Revenue: byMonth[month]})
	}
	return out, nil
}
