package service

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/sangkips/trimtime-pos/internal/application/cart"
	"github.com/sangkips/trimtime-pos/internal/application/pricing"
	"github.com/sangkips/trimtime-pos/internal/clock"
	"github.com/sangkips/trimtime-pos/internal/config"
	"github.com/sangkips/trimtime-pos/internal/domain/entity"
	"github.com/sangkips/trimtime-pos/internal/domain/enum"
	"github.com/sangkips/trimtime-pos/internal/metrics"
	"github.com/sangkips/trimtime-pos/pkg/apperror"
	"github.com/sangkips/trimtime-pos/pkg/scanner"
	"github.com/shopspring/decimal"
)

var errEmptyCart = apperror.NewBadRequestError("Cart is empty")

// RegisterService drives the register: one cart per operator, barcode input,
// pricing and checkout
type RegisterService struct {
	clock     clock.Clock
	catalog   *CatalogService
	customers *CustomerService
	staff     *StaffService
	discounts *pricing.Catalog
	settings  *SettingsService
	sales     *SaleService
	metrics   *metrics.Metrics

	gate *scanner.Gate
	scan config.ScannerConfig

	mu    sync.Mutex
	carts map[string]*cart.Cart
	keys  map[string]*scanner.KeyBuffer
}

// RegisterDeps groups the collaborators of the register
type RegisterDeps struct {
	Clock     clock.Clock
	Catalog   *CatalogService
	Customers *CustomerService
	Staff     *StaffService
	Discounts *pricing.Catalog
	Settings  *SettingsService
	Sales     *SaleService
	Metrics   *metrics.Metrics
	Scanner   config.ScannerConfig
}

// NewRegisterService creates a new register service
func NewRegisterService(deps RegisterDeps) *RegisterService {
	return &RegisterService{
		clock:     deps.Clock,
		catalog:   deps.Catalog,
		customers: deps.Customers,
		staff:     deps.Staff,
		discounts: deps.Discounts,
		settings:  deps.Settings,
		sales:     deps.Sales,
		metrics:   deps.Metrics,
		gate:      scanner.NewGate(deps.Scanner.Cooldown),
		scan:      deps.Scanner,
		carts:     make(map[string]*cart.Cart),
		keys:      make(map[string]*scanner.KeyBuffer),
	}
}

// RegisterView is the live cart with its totals
type RegisterView struct {
	cart.Snapshot
	AppliedDiscount *entity.DiscountCode `json:"applied_discount,omitempty"`
	Totals          pricing.Totals       `json:"totals"`
	TaxRate         decimal.Decimal      `json:"tax_rate"`
	TaxType         enum.TaxType         `json:"tax_type"`
	HeldCount       int                  `json:"held_count"`
}

func (s *RegisterService) cartFor(op entity.Staff) *cart.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.carts[op.ID]
	if !ok {
		c = cart.New(s.clock)
		c.AssignOperator(op)
		s.carts[op.ID] = c
	}
	return c
}

func (s *RegisterService) view(c *cart.Cart) *RegisterView {
	snap := c.Snapshot()
	settings := s.settings.Get()
	tax := pricing.TaxConfigFrom(settings)

	v := &RegisterView{
		Snapshot:  snap,
		Totals:    pricing.Compute(snap.Lines, snap.DiscountCode, s.discounts, tax),
		TaxRate:   tax.Rate,
		TaxType:   tax.Mode,
		HeldCount: len(c.Held()),
	}
	if dc, ok := s.discounts.Lookup(snap.DiscountCode); ok {
		v.AppliedDiscount = &dc
	}
	return v
}

// View returns the operator's cart
func (s *RegisterService) View(op entity.Staff) *RegisterView {
	return s.view(s.cartFor(op))
}

// AddItem puts a service or product from the catalog into the cart
func (s *RegisterService) AddItem(op entity.Staff, kind enum.ItemKind, itemID string) (*RegisterView, error) {
	line, err := s.lineFor(kind, itemID)
	if err != nil {
		return nil, err
	}
	c := s.cartFor(op)
	if err := c.AddLine(line); err != nil {
		return nil, err
	}
	return s.view(c), nil
}

func (s *RegisterService) lineFor(kind enum.ItemKind, itemID string) (entity.CartLine, error) {
	switch kind {
	case enum.ItemKindService:
		svc, ok := s.catalog.FindService(itemID)
		if !ok {
			return entity.CartLine{}, apperror.NewNotFoundError("Service")
		}
		return entity.CartLine{ItemID: svc.ID, Name: svc.Name, UnitPrice: svc.Price, Kind: kind}, nil
	case enum.ItemKindProduct:
		p, ok := s.catalog.FindProduct(itemID)
		if !ok {
			return entity.CartLine{}, apperror.NewNotFoundError("Product")
		}
		return entity.CartLine{ItemID: p.ID, Name: p.Name, UnitPrice: p.Price, Kind: kind}, nil
	}
	return entity.CartLine{}, cart.ErrInvalidItem
}

// UpdateQuantity changes a line's quantity by delta, never below 1
func (s *RegisterService) UpdateQuantity(op entity.Staff, kind enum.ItemKind, itemID string, delta int) (*RegisterView, error) {
	c := s.cartFor(op)
	if !c.UpdateQuantity(itemID, kind, delta) {
		return nil, apperror.NewNotFoundError("Cart line")
	}
	return s.view(c), nil
}

// RemoveItem drops a line from the cart
func (s *RegisterService) RemoveItem(op entity.Staff, kind enum.ItemKind, itemID string) *RegisterView {
	c := s.cartFor(op)
	c.RemoveLine(itemID, kind)
	return s.view(c)
}

// SelectStaff assigns the sale to a staff member; "" clears it
func (s *RegisterService) SelectStaff(op entity.Staff, staffID string) (*RegisterView, error) {
	if staffID != "" {
		if _, ok := s.staff.Find(staffID); !ok {
			return nil, apperror.NewNotFoundError("Staff member")
		}
	}
	c := s.cartFor(op)
	if err := c.SelectStaff(op, staffID); err != nil {
		return nil, err
	}
	return s.view(c), nil
}

// SelectCustomer sets the sale's customer; "" makes it a walk-in
func (s *RegisterService) SelectCustomer(op entity.Staff, customerID string) (*RegisterView, error) {
	if customerID != "" {
		if _, ok := s.customers.Find(customerID); !ok {
			return nil, apperror.NewNotFoundError("Customer")
		}
	}
	c := s.cartFor(op)
	c.SelectCustomer(customerID)
	return s.view(c), nil
}

// ApplyDiscount stores the code as typed. An unknown code prices as no discount.
func (s *RegisterService) ApplyDiscount(op entity.Staff, code string) *RegisterView {
	c := s.cartFor(op)
	c.ApplyDiscountCode(strings.TrimSpace(code))
	return s.view(c)
}

// ScanResult reports what a scan did
type ScanResult struct {
	Accepted bool            `json:"accepted"`
	Product  *entity.Product `json:"product,omitempty"`
	Register *RegisterView   `json:"register"`
}

// Scan adds the product whose barcode matches code. Scans inside the
// cooldown window are discarded. An unknown code leaves the cart unchanged.
func (s *RegisterService) Scan(op entity.Staff, code string) (*ScanResult, error) {
	c := s.cartFor(op)
	if !s.gate.AllowAt(s.clock.Now()) {
		s.metrics.Scan(metrics.ScanThrottled)
		return &ScanResult{Accepted: false, Register: s.view(c)}, nil
	}

	p, ok := s.catalog.ProductByBarcode(code)
	if !ok {
		s.metrics.Scan(metrics.ScanMiss)
		return nil, apperror.NewLookupMiss(code)
	}

	if err := c.AddLine(entity.CartLine{ItemID: p.ID, Name: p.Name, UnitPrice: p.Price, Kind: enum.ItemKindProduct}); err != nil {
		return nil, err
	}
	s.metrics.Scan(metrics.ScanAccepted)
	return &ScanResult{Accepted: true, Product: &p, Register: s.view(c)}, nil
}

// Keystroke feeds one key from a keyboard-wedge reader. A completed code is
// scanned; otherwise the result is nil.
func (s *RegisterService) Keystroke(op entity.Staff, key string) (*ScanResult, error) {
	s.mu.Lock()
	kb, ok := s.keys[op.ID]
	if !ok {
		kb = scanner.NewKeyBuffer(s.scan.KeyGap)
		s.keys[op.ID] = kb
	}
	s.mu.Unlock()

	code, done := kb.Key(key, s.clock.Now())
	if !done {
		return nil, nil
	}
	return s.Scan(op, code)
}

// RunDevice scans every code read from src on behalf of the logged-in
// operator until ctx is done. Codes read while nobody is logged in are dropped.
func (s *RegisterService) RunDevice(ctx context.Context, src *scanner.LineSource, operator func() (entity.Staff, bool)) error {
	return src.Run(ctx, func(code string) {
		op, ok := operator()
		if !ok {
			slog.Warn("scan ignored, no operator logged in", "code", code)
			return
		}
		if _, err := s.Scan(op, code); err != nil {
			slog.Info("scan not added", "code", code, "error", err)
		}
	})
}

// Hold parks the cart. It fails on an empty cart.
func (s *RegisterService) Hold(op entity.Staff) (*entity.HeldSale, error) {
	c := s.cartFor(op)
	h, ok := c.Hold(op)
	if !ok {
		return nil, errEmptyCart
	}
	s.metrics.HeldSales(len(c.Held()))
	return &h, nil
}

// Held lists parked sales, newest first
func (s *RegisterService) Held(op entity.Staff) []entity.HeldSale {
	return s.cartFor(op).Held()
}

// Resume brings a parked sale back into the cart
func (s *RegisterService) Resume(op entity.Staff, heldID string) (*RegisterView, error) {
	c := s.cartFor(op)
	if err := c.Resume(op, heldID); err != nil {
		return nil, err
	}
	s.metrics.HeldSales(len(c.Held()))
	return s.view(c), nil
}

// CheckoutInput represents the checkout input
type CheckoutInput struct {
	PaymentMethod enum.PaymentMethod
}

// Checkout prices the cart with the current settings and discount catalog,
// commits the sale and resets the cart. The cart is untouched on failure.
func (s *RegisterService) Checkout(op entity.Staff, input CheckoutInput) (*entity.Sale, error) {
	c := s.cartFor(op)
	tax := pricing.TaxConfigFrom(s.settings.Get())

	var sale *entity.Sale
	err := c.Checkout(op, func(snap cart.Snapshot) error {
		totals := pricing.Compute(snap.Lines, snap.DiscountCode, s.discounts, tax)

		var applied string
		if dc, ok := s.discounts.Lookup(snap.DiscountCode); ok {
			applied = dc.Code
		}

		var err error
		sale, err = s.sales.Commit(CommitInput{
			Cart:          snap,
			Totals:        totals,
			DiscountCode:  applied,
			PaymentMethod: input.PaymentMethod,
			TaxType:       tax.Mode,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return sale, nil
}
