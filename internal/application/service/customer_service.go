package service

import (
	"context"
	"strings"

	"github.com/sangkips/trimtime-pos/internal/application/background"
	"github.com/sangkips/trimtime-pos/internal/application/reconcile"
	"github.com/sangkips/trimtime-pos/internal/clock"
	"github.com/sangkips/trimtime-pos/internal/domain/entity"
	"github.com/sangkips/trimtime-pos/internal/domain/repository"
	"github.com/sangkips/trimtime-pos/pkg/apperror"
	"github.com/sangkips/trimtime-pos/pkg/utils"
)

// CustomerService owns the local customer collection
type CustomerService struct {
	customers    *reconcile.Reconciler[entity.Customer]
	customerRepo repository.CustomerRepository
	clock        clock.Clock
}

// NewCustomerService creates a new customer service
func NewCustomerService(customerRepo repository.CustomerRepository, tasks *background.Tasks, clk clock.Clock) *CustomerService {
	return &CustomerService{
		customers:    reconcile.New[entity.Customer]("customers", customerRepo, tasks),
		customerRepo: customerRepo,
		clock:        clk,
	}
}

func (s *CustomerService) Load(ctx context.Context) error {
	return s.customers.Load(ctx, s.customerRepo)
}

func (s *CustomerService) List() []entity.Customer {
	return s.customers.Local().All()
}

func (s *CustomerService) Find(id string) (entity.Customer, bool) {
	return s.customers.Local().Find(id)
}

// Save replaces the customer list
func (s *CustomerService) Save(next []entity.Customer) ([]entity.Customer, error) {
	now := s.clock.Now()
	var errs []apperror.FieldError
	for i := range next {
		next[i].Name = strings.TrimSpace(next[i].Name)
		if next[i].ID == "" {
			next[i].ID = utils.NewID()
		}
		if next[i].CreatedAt.IsZero() {
			next[i].CreatedAt = now
		}
		if next[i].Name == "" {
			errs = append(errs, fieldError(i, "name", "Name is required"))
		}
	}
	if err := duplicateIDs(next, func(c entity.Customer) string { return c.ID }); err != nil {
		errs = append(errs, *err)
	}
	if len(errs) > 0 {
		return nil, apperror.NewValidationError(errs)
	}

	s.customers.Reconcile(next)
	return s.customers.Local().All(), nil
}

// QuickAddCustomerInput is the register's inline customer form
type QuickAddCustomerInput struct {
	Name  string
	Phone string
	Email string
	Notes string
}

// QuickAdd appends a new customer to the collection and returns it
func (s *CustomerService) QuickAdd(input QuickAddCustomerInput) (*entity.Customer, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "name", Message: "Name is required"},
		})
	}

	customer := entity.Customer{
		ID:        utils.NewID(),
		Name:      name,
		Phone:     strings.TrimSpace(input.Phone),
		Email:     strings.TrimSpace(input.Email),
		Notes:     input.Notes,
		CreatedAt: s.clock.Now(),
	}

	next := append(s.customers.Local().All(), customer)
	s.customers.Reconcile(next)
	return &customer, nil
}
