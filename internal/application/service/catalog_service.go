package service

import (
	"context"
	"strings"

	"github.com/sangkips/trimtime-pos/internal/application/background"
	"github.com/sangkips/trimtime-pos/internal/application/reconcile"
	"github.com/sangkips/trimtime-pos/internal/domain/entity"
	"github.com/sangkips/trimtime-pos/internal/domain/repository"
	"github.com/sangkips/trimtime-pos/pkg/apperror"
	"github.com/sangkips/trimtime-pos/pkg/utils"
)

// CatalogService owns the local service and product collections
type CatalogService struct {
	services    *reconcile.Reconciler[entity.Service]
	products    *reconcile.Reconciler[entity.Product]
	serviceRepo repository.ServiceRepository
	productRepo repository.ProductRepository
	tasks       *background.Tasks
}

// NewCatalogService creates a new catalog service
func NewCatalogService(
	serviceRepo repository.ServiceRepository,
	productRepo repository.ProductRepository,
	tasks *background.Tasks,
) *CatalogService {
	return &CatalogService{
		services:    reconcile.New[entity.Service]("services", serviceRepo, tasks),
		products:    reconcile.New[entity.Product]("products", productRepo, tasks),
		serviceRepo: serviceRepo,
		productRepo: productRepo,
		tasks:       tasks,
	}
}

// Load fills both collections from the remote store
func (s *CatalogService) Load(ctx context.Context) error {
	if err := s.services.Load(ctx, s.serviceRepo); err != nil {
		return err
	}
	return s.products.Load(ctx, s.productRepo)
}

func (s *CatalogService) Services() []entity.Service {
	return s.services.Local().All()
}

func (s *CatalogService) Products() []entity.Product {
	return s.products.Local().All()
}

func (s *CatalogService) FindService(id string) (entity.Service, bool) {
	return s.services.Local().Find(id)
}

func (s *CatalogService) FindProduct(id string) (entity.Product, bool) {
	return s.products.Local().Find(id)
}

// ProductByBarcode looks a scanned code up in the local product collection
func (s *CatalogService) ProductByBarcode(code string) (entity.Product, bool) {
	code = strings.TrimSpace(code)
	if code == "" {
		return entity.Product{}, false
	}
	return s.products.Local().FindFunc(func(p entity.Product) bool {
		return p.Barcode == code
	})
}

// SaveServices replaces the service list
func (s *CatalogService) SaveServices(next []entity.Service) ([]entity.Service, error) {
	var errs []apperror.FieldError
	for i := range next {
		next[i].Name = strings.TrimSpace(next[i].Name)
		if next[i].ID == "" {
			next[i].ID = utils.NewID()
		}
		if next[i].Name == "" {
			errs = append(errs, fieldError(i, "name", "Name is required"))
		}
		if next[i].Price.IsNegative() {
			errs = append(errs, fieldError(i, "price", "Price cannot be negative"))
		}
		if next[i].Duration < 0 {
			errs = append(errs, fieldError(i, "duration", "Duration cannot be negative"))
		}
	}
	if err := duplicateIDs(next, func(v entity.Service) string { return v.ID }); err != nil {
		errs = append(errs, *err)
	}
	if len(errs) > 0 {
		return nil, apperror.NewValidationError(errs)
	}

	s.services.Reconcile(next)
	return s.services.Local().All(), nil
}

// SaveProducts replaces the product list
func (s *CatalogService) SaveProducts(next []entity.Product) ([]entity.Product, error) {
	var errs []apperror.FieldError
	barcodes := make(map[string]int)
	for i := range next {
		next[i].Name = strings.TrimSpace(next[i].Name)
		next[i].Barcode = strings.TrimSpace(next[i].Barcode)
		if next[i].ID == "" {
			next[i].ID = utils.NewID()
		}
		if next[i].Name == "" {
			errs = append(errs, fieldError(i, "name", "Name is required"))
		}
		if next[i].Price.IsNegative() {
			errs = append(errs, fieldError(i, "price", "Price cannot be negative"))
		}
		if next[i].Cost.IsNegative() {
			errs = append(errs, fieldError(i, "cost", "Cost cannot be negative"))
		}
		if b := next[i].Barcode; b != "" {
			if _, dup := barcodes[b]; dup {
				errs = append(errs, fieldError(i, "barcode", "Barcode is already used by another product"))
			}
			barcodes[b] = i
		}
	}
	if err := duplicateIDs(next, func(v entity.Product) string { return v.ID }); err != nil {
		errs = append(errs, *err)
	}
	if len(errs) > 0 {
		return nil, apperror.NewValidationError(errs)
	}

	s.products.Reconcile(next)
	return s.products.Local().All(), nil
}

// ApplySale subtracts qty from the local stock of a product and dispatches the
// same delta to the remote store. It reports false, doing nothing, when the
// product is not in the local collection.
func (s *CatalogService) ApplySale(productID string, qty int) bool {
	ok := s.products.Local().Update(productID, func(p *entity.Product) {
		p.Stock -= qty
	})
	if !ok {
		return false
	}
	s.tasks.Go("products", "decrement_stock", []string{productID}, func(ctx context.Context) error {
		return s.productRepo.DecrementStock(ctx, productID, qty)
	})
	return true
}
