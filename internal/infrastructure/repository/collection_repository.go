package repository

import (
	"context"
	"errors"

	"github.com/sangkips/trimtime-pos/internal/domain/entity"
	domainRepo "github.com/sangkips/trimtime-pos/internal/domain/repository"
	"gorm.io/gorm"
)

type serviceRepository struct {
	gormTable[entity.Service]
}

// NewServiceRepository creates a new service catalog repository
func NewServiceRepository(db *gorm.DB) domainRepo.ServiceRepository {
	return &serviceRepository{newGormTable[entity.Service](db)}
}

type customerRepository struct {
	gormTable[entity.Customer]
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *gorm.DB) domainRepo.CustomerRepository {
	return &customerRepository{newGormTable[entity.Customer](db)}
}

type staffRepository struct {
	gormTable[entity.Staff]
}

// NewStaffRepository creates a new staff repository
func NewStaffRepository(db *gorm.DB) domainRepo.StaffRepository {
	return &staffRepository{newGormTable[entity.Staff](db)}
}

func (r *staffRepository) GetByUsername(ctx context.Context, username string) (*entity.Staff, error) {
	var staff entity.Staff
	err := r.db.WithContext(ctx).First(&staff, "username = ?", username).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &staff, nil
}

type expenseRepository struct {
	gormTable[entity.Expense]
}

// NewExpenseRepository creates a new expense ledger repository
func NewExpenseRepository(db *gorm.DB) domainRepo.ExpenseRepository {
	return &expenseRepository{newGormTable[entity.Expense](db)}
}
