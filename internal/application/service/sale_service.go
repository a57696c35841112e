package service

import (
	"context"
	"log/slog"
	"sort"

	"github.com/sangkips/trimtime-pos/internal/application/background"
	"github.com/sangkips/trimtime-pos/internal/application/cart"
	"github.com/sangkips/trimtime-pos/internal/application/pricing"
	"github.com/sangkips/trimtime-pos/internal/application/reconcile"
	"github.com/sangkips/trimtime-pos/internal/clock"
	"github.com/sangkips/trimtime-pos/internal/domain/entity"
	"github.com/sangkips/trimtime-pos/internal/domain/enum"
	"github.com/sangkips/trimtime-pos/internal/domain/repository"
	"github.com/sangkips/trimtime-pos/internal/metrics"
	"github.com/sangkips/trimtime-pos/pkg/apperror"
	"github.com/sangkips/trimtime-pos/pkg/pagination"
	"github.com/sangkips/trimtime-pos/pkg/utils"
)

// SaleService turns a priced cart into an immutable sale and applies its
// stock side effects
type SaleService struct {
	saleRepo repository.SaleRepository
	catalog  *CatalogService
	tasks    *background.Tasks
	clock    clock.Clock
	metrics  *metrics.Metrics

	sales *reconcile.Collection[entity.Sale]
}

// NewSaleService creates a new sale service
func NewSaleService(
	saleRepo repository.SaleRepository,
	catalog *CatalogService,
	tasks *background.Tasks,
	clk clock.Clock,
	m *metrics.Metrics,
) *SaleService {
	return &SaleService{
		saleRepo: saleRepo,
		catalog:  catalog,
		tasks:    tasks,
		clock:    clk,
		metrics:  m,
		sales:    reconcile.NewCollection[entity.Sale](nil),
	}
}

// CommitInput is everything needed to freeze a sale
type CommitInput struct {
	Cart          cart.Snapshot
	Totals        pricing.Totals
	DiscountCode  string // the resolved code, empty when none applied
	PaymentMethod enum.PaymentMethod
	TaxType       enum.TaxType
}

// Commit validates the input, records the sale locally and dispatches the
// remote insert and one stock decrement per product. Nothing happens when
// validation fails.
func (s *SaleService) Commit(input CommitInput) (*entity.Sale, error) {
	var errs []apperror.FieldError
	if len(input.Cart.Lines) == 0 {
		errs = append(errs, apperror.FieldError{Field: "cart", Message: "Cart is empty"})
	}
	if input.Cart.StaffID == nil || *input.Cart.StaffID == "" {
		errs = append(errs, apperror.FieldError{Field: "staff_id", Message: "Select a staff member"})
	}
	if !input.PaymentMethod.IsValid() {
		errs = append(errs, apperror.FieldError{Field: "payment_method", Message: "Payment method must be cash or card"})
	}
	if len(errs) > 0 {
		return nil, apperror.NewValidationError(errs)
	}

	totals := input.Totals.Rounded()
	sale := entity.Sale{
		ID:            utils.NewID(),
		CreatedAt:     s.clock.Now(),
		Lines:         append([]entity.CartLine(nil), input.Cart.Lines...),
		StaffID:       *input.Cart.StaffID,
		CustomerID:    input.Cart.CustomerID,
		Total:         totals.Total,
		Tax:           totals.Tax,
		Discount:      totals.Discount,
		PaymentMethod: input.PaymentMethod,
		TaxType:       input.TaxType,
	}
	if input.DiscountCode != "" {
		code := input.DiscountCode
		sale.DiscountCode = &code
	}

	s.sales.Append(sale)
	remote := sale
	s.tasks.Go("sales", "insert", []string{sale.ID}, func(ctx context.Context) error {
		return s.saleRepo.Insert(ctx, &remote)
	})

	quantities := sale.ProductQuantities()
	ids := make([]string, 0, len(quantities))
	for id := range quantities {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if !s.catalog.ApplySale(id, quantities[id]) {
			slog.Warn("sold product not in local catalog, stock not adjusted", "sale_id", sale.ID, "product_id", id)
		}
	}

	s.metrics.SaleCommitted(sale.Total)
	slog.Info("sale committed",
		"sale_id", sale.ID,
		"staff_id", sale.StaffID,
		"total", sale.Total.StringFixed(2),
		"payment_method", sale.PaymentMethod,
	)
	return &sale, nil
}

// Recent returns the sales committed by this register since start, newest first
func (s *SaleService) Recent() []entity.Sale {
	all := s.sales.All()
	for i, j := 0, len(all)-1; i < j; i, j = i+1, j-1 {
		all[i], all[j] = all[j], all[i]
	}
	return all
}

// Get finds a sale in the local log, then in the remote store
func (s *SaleService) Get(ctx context.Context, id string) (*entity.Sale, error) {
	if sale, ok := s.sales.Find(id); ok {
		return &sale, nil
	}
	sale, err := s.saleRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, apperror.NewNotFoundError("Sale")
	}
	return sale, nil
}

// List pages through the remote sales log
func (s *SaleService) List(ctx context.Context, params *repository.SaleFilterParams) (*pagination.PaginatedResult[entity.Sale], error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	params.Pagination.Validate()
	sales, total, err := s.saleRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	return pagination.NewPaginatedResult(sales, pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)), nil
}
