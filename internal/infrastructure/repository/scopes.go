package repository

import (
	"time"

	"gorm.io/gorm"
)

// CreatedBetween returns a GORM scope limiting rows to created_at in [from, to).
// A nil bound is left open.
func CreatedBetween(from, to *time.Time) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if from != nil {
			db = db.Where("created_at >= ?", *from)
		}
		if to != nil {
			db = db.Where("created_at < ?", *to)
		}
		return db
	}
}

// ByStaff returns a GORM scope filtering by staff_id when one is given.
func ByStaff(staffID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if staffID == "" {
			return db
		}
		return db.Where("staff_id = ?", staffID)
	}
}
