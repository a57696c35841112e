// Package cart holds the in-progress sale of the register and the list of
// parked (held) sales.
package cart

import (
	"sync"

	"github.com/sangkips/trimtime-pos/internal/clock"
	"github.com/sangkips/trimtime-pos/internal/domain/entity"
	"github.com/sangkips/trimtime-pos/internal/domain/enum"
	"github.com/sangkips/trimtime-pos/pkg/apperror"
	"github.com/sangkips/trimtime-pos/pkg/utils"
)

// State of the live cart.
type State string

const (
	StateIdle     State = "idle"
	StateBuilding State = "building"
)

var (
	ErrHeldSaleNotFound = apperror.NewNotFoundError("Held sale")
	ErrStaffNotAllowed  = apperror.NewForbiddenError("Employees can only assign sales to themselves")
	ErrInvalidItem      = apperror.NewBadRequestError("Item id and a service or product kind are required")
)

// Snapshot is a copy of the live cart.
type Snapshot struct {
	State        State             `json:"state"`
	Lines        []entity.CartLine `json:"lines"`
	CustomerID   *string           `json:"customer_id,omitempty"`
	StaffID      *string           `json:"staff_id,omitempty"`
	DiscountCode string            `json:"discount_code,omitempty"`
}

// Cart is the register's live cart plus its held sales. Safe for concurrent use.
type Cart struct {
	mu    sync.Mutex
	clock clock.Clock
	newID func() string

	lines        []entity.CartLine
	customerID   *string
	staffID      *string
	discountCode string
	held         []entity.HeldSale
}

// Option configures a Cart.
type Option func(*Cart)

// WithIDGenerator overrides how held sale ids are generated.
func WithIDGenerator(fn func() string) Option {
	return func(c *Cart) { c.newID = fn }
}

// New creates an empty cart.
func New(clk clock.Clock, opts ...Option) *Cart {
	c := &Cart{clock: clk, newID: utils.GenerateHoldID}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AddLine increments the quantity of a matching line or appends a new one.
func (c *Cart) AddLine(line entity.CartLine) error {
	if line.ItemID == "" || !line.Kind.IsValid() {
		return ErrInvalidItem
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].Matches(line.ItemID, line.Kind) {
			c.lines[i].Quantity = clampQuantity(c.lines[i].Quantity, 1)
			return nil
		}
	}
	line.Quantity = 1
	c.lines = append(c.lines, line)
	return nil
}

// MaxQuantity is the largest quantity a single line can hold.
const MaxQuantity = 9999

// UpdateQuantity adds delta to a line's quantity, keeping it within
// [1, MaxQuantity]. It reports whether the line exists.
func (c *Cart) UpdateQuantity(itemID string, kind enum.ItemKind, delta int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].Matches(itemID, kind) {
			c.lines[i].Quantity = clampQuantity(c.lines[i].Quantity, delta)
			return true
		}
	}
	return false
}

// clampQuantity computes q+delta bounded to [1, MaxQuantity] without
// overflowing for extreme deltas.
func clampQuantity(q, delta int) int {
	switch {
	case delta >= MaxQuantity-q:
		return MaxQuantity
	case delta <= 1-q:
		return 1
	}
	return q + delta
}

// RemoveLine drops a line. Removing an absent line is a no-op.
func (c *Cart) RemoveLine(itemID string, kind enum.ItemKind) {
	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.lines[:0]
	for _, l := range c.lines {
		if !l.Matches(itemID, kind) {
			kept = append(kept, l)
		}
	}
	c.lines = kept
}

// SelectStaff assigns the sale. Restricted operators may only pick themselves.
// An empty staffID clears the selection.
func (c *Cart) SelectStaff(op entity.Staff, staffID string) error {
	if op.IsRestricted() && staffID != op.ID {
		return ErrStaffNotAllowed
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.staffID = optional(staffID)
	return nil
}

// AssignOperator preselects a restricted operator as the sale's staff.
func (c *Cart) AssignOperator(op entity.Staff) {
	if !op.IsRestricted() {
		return
	}
	c.mu.Lock()
	c.staffID = optional(op.ID)
	c.mu.Unlock()
}

// SelectCustomer sets or, with "", clears the customer.
func (c *Cart) SelectCustomer(customerID string) {
	c.mu.Lock()
	c.customerID = optional(customerID)
	c.mu.Unlock()
}

// ApplyDiscountCode stores the code as typed. Unknown codes price as no discount.
func (c *Cart) ApplyDiscountCode(code string) {
	c.mu.Lock()
	c.discountCode = code
	c.mu.Unlock()
}

// Hold parks the live cart and empties it. It returns false on an empty cart.
// The discount code stays on the live cart.
func (c *Cart) Hold(op entity.Staff) (entity.HeldSale, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.lines) == 0 {
		return entity.HeldSale{}, false
	}

	h := entity.HeldSale{
		ID:         c.newID(),
		CreatedAt:  c.clock.Now(),
		Lines:      c.lines,
		CustomerID: c.customerID,
		StaffID:    c.staffID,
	}
	c.held = append([]entity.HeldSale{h}, c.held...)

	c.lines = nil
	c.customerID = nil
	if !op.IsRestricted() {
		c.staffID = nil
	}
	return cloneHeld(h), true
}

// Resume moves a held sale back into the live cart, replacing its lines.
func (c *Cart) Resume(op entity.Staff, heldID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := -1
	for i, h := range c.held {
		if h.ID == heldID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrHeldSaleNotFound
	}

	h := c.held[idx]
	c.held = append(c.held[:idx:idx], c.held[idx+1:]...)

	c.lines = h.Lines
	if h.CustomerID != nil {
		c.customerID = h.CustomerID
	}
	switch {
	case op.IsRestricted():
		c.staffID = optional(op.ID)
	case h.StaffID != nil:
		c.staffID = h.StaffID
	}
	return nil
}

// Held returns the parked sales, newest first.
func (c *Cart) Held() []entity.HeldSale {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]entity.HeldSale, len(c.held))
	for i, h := range c.held {
		out[i] = cloneHeld(h)
	}
	return out
}

// Reset clears the live cart after a commit. Staff is kept for restricted operators.
func (c *Cart) Reset(op entity.Staff) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetLocked(op)
}

func (c *Cart) resetLocked(op entity.Staff) {
	c.lines = nil
	c.customerID = nil
	c.discountCode = ""
	if !op.IsRestricted() {
		c.staffID = nil
	}
}

// Snapshot copies the live cart.
func (c *Cart) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Cart) snapshotLocked() Snapshot {
	state := StateIdle
	if len(c.lines) > 0 {
		state = StateBuilding
	}
	return Snapshot{
		State:        state,
		Lines:        append([]entity.CartLine(nil), c.lines...),
		CustomerID:   copyPtr(c.customerID),
		StaffID:      copyPtr(c.staffID),
		DiscountCode: c.discountCode,
	}
}

// Checkout runs commit against a snapshot with the cart locked and resets the
// cart only when commit succeeds. commit must not call back into the cart.
func (c *Cart) Checkout(op entity.Staff, commit func(Snapshot) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := commit(c.snapshotLocked()); err != nil {
		return err
	}
	c.resetLocked(op)
	return nil
}

func optional(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}

func copyPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneHeld(h entity.HeldSale) entity.HeldSale {
	h.Lines = append([]entity.CartLine(nil), h.Lines...)
	h.CustomerID = copyPtr(h.CustomerID)
	h.StaffID = copyPtr(h.StaffID)
	return h
}
