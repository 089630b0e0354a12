// services/sequence.go
package services

import (
	"fmt"

	"medequip-backend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Document number scopes.
const (
	ScopeInvoice  = "invoice"
	ScopeContract = "amc"
)

// NextNumber allocates the next value of the per-scope, per-year counter
// inside the caller's transaction. The counter row is locked by the UPDATE
// until commit, so concurrent allocators serialize; the unique index on the
// formatted document number remains the last line of defense.
func NextNumber(tx *gorm.DB, scope string, year int) (int, error) {
	seq := models.NumberSequence{Scope: scope, Year: year}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&seq).Error; err != nil {
		return 0, err
	}
	if err := tx.Model(&models.NumberSequence{}).
		Where("scope = ? AND year = ?", scope, year).
		Update("value", gorm.Expr("value + 1")).Error; err != nil {
		return 0, err
	}
	var out models.NumberSequence
	if err := tx.Where("scope = ? AND year = ?", scope, year).First(&out).Error; err != nil {
		return 0, err
	}
	return out.Value, nil
}

// FormatInvoiceNumber renders INV-<year>-<seq> with the sequence zero-padded
// to four digits.
func FormatInvoiceNumber(year, seq int) string {
	return fmt.Sprintf("INV-%d-%04d", year, seq)
}

// FormatContractNumber renders AMC-<year>-<seq>.
func FormatContractNumber(year, seq int) string {
	return fmt.Sprintf("AMC-%d-%04d", year, seq)
}
