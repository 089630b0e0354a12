// controllers/report.go
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

// ReportController handles all reporting functions
type ReportController struct{}

// AnalyticsSummary represents the revenue analytics data
type AnalyticsSummary struct {
	CurrentMonthRevenue  decimal.Decimal   `json:"currentMonthRevenue"`
	PreviousMonthRevenue decimal.Decimal   `json:"previousMonthRevenue"`
	CurrentYearRevenue   decimal.Decimal   `json:"currentYearRevenue"`
	TopCustomers         []CustomerSummary `json:"topCustomers"`
	QuickStats           QuickStatistics   `json:"quickStats"`
}

type CustomerSummary struct {
	Name     string          `json:"name"`
	Invoices int             `json:"invoices"`
	Billed   decimal.Decimal `json:"billed"`
}

type QuickStatistics struct {
	TotalCustomers  int64           `json:"totalCustomers"`
	TotalInvoices   int64           `json:"totalInvoices"`
	TotalMachines   int64           `json:"totalMachines"`
	AvgInvoiceValue decimal.Decimal `json:"avgInvoiceValue"`
}

// GetReportAnalytics returns the revenue analytics summary
func (rc *ReportController) GetReportAnalytics(c *gin.Context) {
	now := time.Now()
	monthStart := utils.BeginningOfMonth(now)
	prevMonthStart := monthStart.AddDate(0, -1, 0)
	yearStart := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())

	summary := AnalyticsSummary{}

	var err error
	if summary.CurrentMonthRevenue, err = paidRevenueBetween(monthStart, now); err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to compute revenue")
		return
	}
	if summary.PreviousMonthRevenue, err = paidRevenueBetween(prevMonthStart, monthStart); err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to compute revenue")
		return
	}
	if summary.CurrentYearRevenue, err = paidRevenueBetween(yearStart, now); err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to compute revenue")
		return
	}

	if err := topCustomers(&summary); err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to compute top customers")
		return
	}

	config.DB.Model(&models.Customer{}).Count(&summary.QuickStats.TotalCustomers)
	config.DB.Model(&models.Invoice{}).Count(&summary.QuickStats.TotalInvoices)
	config.DB.Model(&models.Machine{}).Count(&summary.QuickStats.TotalMachines)
	summary.QuickStats.AvgInvoiceValue = decimal.Zero
	if summary.QuickStats.TotalInvoices > 0 {
		var total decimal.Decimal
		if err := config.DB.Model(&models.Invoice{}).
			Select("COALESCE(SUM(total_amount), 0)").
			Scan(&total).Error; err == nil {
			summary.QuickStats.AvgInvoiceValue = total.
				Div(decimal.NewFromInt(summary.QuickStats.TotalInvoices)).
				Round(2)
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": summary})
}

func paidRevenueBetween(from, to time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := config.DB.Model(&models.Invoice{}).
		Where("payment_status = ? AND invoice_date >= ? AND invoice_date < ?",
			models.PaymentPaid, from, to).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&total).Error
	return total, err
}

func topCustomers(summary *AnalyticsSummary) error {
	type row struct {
		CustomerID string
		Count      int
		Billed     decimal.Decimal
	}
	var rows []row
	if err := config.DB.Model(&models.Invoice{}).
		Select("customer_id, COUNT(*) AS count, COALESCE(SUM(total_amount), 0) AS billed").
		Group("customer_id").
		Order("billed DESC").
		Limit(5).
		Scan(&rows).Error; err != nil {
		return err
	}

	for _, r := range rows {
		var customer models.Customer
		name := "(deleted customer)"
		if err := config.DB.First(&customer, "id = ?", r.CustomerID).Error; err == nil {
			name = customer.Name
		}
		summary.TopCustomers = append(summary.TopCustomers, CustomerSummary{
			Name:     name,
			Invoices: r.Count,
			Billed:   r.Billed,
		})
	}
	return nil
}
