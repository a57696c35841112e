package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/trimtime-pos/internal/domain/enum"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Staff is a member of the shop who can operate the register and earn commission
type Staff struct {
	ID           string          `gorm:"size:64;primaryKey" json:"id"`
	Name         string          `gorm:"size:255;not null" json:"name"`
	Username     string          `gorm:"size:100;uniqueIndex;not null" json:"username"`
	Role         enum.StaffRole  `gorm:"size:20;not null;default:employee" json:"role"`
	Commission   decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0" json:"commission"` // percent
	Email        string          `gorm:"size:255" json:"email,omitempty"`
	PasswordHash string          `gorm:"column:password;size:255" json:"-"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// BeforeCreate generates an ID when the client did not supply one
func (s *Staff) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// TableName returns the table name for the Staff model
func (Staff) TableName() string {
	return "staff"
}

func (s Staff) Key() string { return s.ID }

// IsRestricted reports whether this operator may only assign sales to themselves.
func (s Staff) IsRestricted() bool {
	return s.Role.IsRestricted()
}

// SetPassword hashes and stores a plain-text password.
func (s *Staff) SetPassword(plain string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	s.PasswordHash = string(hash)
	return nil
}

// CheckPassword compares a plain-text password with the stored hash.
func (s Staff) CheckPassword(plain string) bool {
	if s.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(s.PasswordHash), []byte(plain)) == nil
}
