package models

// NumberSequence backs the per-scope, per-year document number allocator
// (invoice and contract numbers). The composite key plus the unique index on
// the formatted numbers turn allocation races into reported conflicts.
type NumberSequence struct {
	Scope string `gorm:"type:varchar(20);primaryKey"`
	Year  int    `gorm:"primaryKey"`
	Value int    `gorm:"not null;default:0"`
}
