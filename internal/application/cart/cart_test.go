package cart

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/sangkips/trimtime-pos/internal/clock"
	"github.com/sangkips/trimtime-pos/internal/domain/entity"
	"github.com/sangkips/trimtime-pos/internal/domain/enum"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	now      = time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC)
	admin    = entity.Staff{ID: "admin-1", Role: enum.StaffRoleAdmin}
	employee = entity.Staff{ID: "emp-1", Role: enum.StaffRoleEmployee}
)

func newCart(ids ...string) *Cart {
	i := 0
	return New(clock.NewFixed(now), WithIDGenerator(func() string {
		id := ids[i%len(ids)]
		i++
		return id
	}))
}

func service(id string) entity.CartLine {
	return entity.CartLine{ItemID: id, Name: "Cut " + id, Kind: enum.ItemKindService, UnitPrice: decimal.NewFromInt(25)}
}

func product(id string) entity.CartLine {
	return entity.CartLine{ItemID: id, Name: "Wax " + id, Kind: enum.ItemKindProduct, UnitPrice: decimal.NewFromInt(9)}
}

func TestCart_AddLine(t *testing.T) {
	c := newCart("H1")

	require.NoError(t, c.AddLine(service("1")))
	require.NoError(t, c.AddLine(service("1")))
	require.NoError(t, c.AddLine(product("1")))

	snap := c.Snapshot()
	assert.Equal(t, StateBuilding, snap.State)
	require.Len(t, snap.Lines, 2)
	assert.Equal(t, 2, snap.Lines[0].Quantity)
	assert.Equal(t, 1, snap.Lines[1].Quantity)

	assert.ErrorIs(t, c.AddLine(entity.CartLine{ItemID: "x", Kind: "gift"}), ErrInvalidItem)
}

func TestCart_UpdateQuantity(t *testing.T) {
	c := newCart("H1")
	require.NoError(t, c.AddLine(service("1")))
	c.UpdateQuantity("1", enum.ItemKindService, 2)

	t.Run("clamps at one", func(t *testing.T) {
		assert.True(t, c.UpdateQuantity("1", enum.ItemKindService, -100))
		assert.Equal(t, 1, c.Snapshot().Lines[0].Quantity)
	})

	t.Run("kind is part of the key", func(t *testing.T) {
		assert.False(t, c.UpdateQuantity("1", enum.ItemKindProduct, 1))
	})

	t.Run("extreme deltas saturate", func(t *testing.T) {
		c.UpdateQuantity("1", enum.ItemKindService, 5)
		assert.True(t, c.UpdateQuantity("1", enum.ItemKindService, math.MaxInt))
		assert.Equal(t, MaxQuantity, c.Snapshot().Lines[0].Quantity)

		c.UpdateQuantity("1", enum.ItemKindService, 1)
		assert.Equal(t, MaxQuantity, c.Snapshot().Lines[0].Quantity)

		assert.True(t, c.UpdateQuantity("1", enum.ItemKindService, math.MinInt))
		assert.Equal(t, 1, c.Snapshot().Lines[0].Quantity)
	})
}

func TestCart_RemoveLine(t *testing.T) {
	c := newCart("H1")
	require.NoError(t, c.AddLine(service("1")))
	require.NoError(t, c.AddLine(product("2")))

	c.RemoveLine("1", enum.ItemKindService)
	c.RemoveLine("nope", enum.ItemKindService)

	snap := c.Snapshot()
	require.Len(t, snap.Lines, 1)
	assert.Equal(t, "2", snap.Lines[0].ItemID)

	c.RemoveLine("2", enum.ItemKindProduct)
	assert.Equal(t, StateIdle, c.Snapshot().State)
}

func TestCart_SelectStaff(t *testing.T) {
	c := newCart("H1")

	assert.ErrorIs(t, c.SelectStaff(employee, "admin-1"), ErrStaffNotAllowed)
	require.NoError(t, c.SelectStaff(employee, "emp-1"))
	require.NoError(t, c.SelectStaff(admin, "emp-2"))
	assert.Equal(t, "emp-2", *c.Snapshot().StaffID)

	require.NoError(t, c.SelectStaff(admin, ""))
	assert.Nil(t, c.Snapshot().StaffID)
}

func TestCart_Hold(t *testing.T) {
	t.Run("no-op on empty cart", func(t *testing.T) {
		c := newCart("H1")
		_, ok := c.Hold(admin)
		assert.False(t, ok)
		assert.Empty(t, c.Held())
	})

	t.Run("unrestricted operator clears staff", func(t *testing.T) {
		c := newCart("H1", "H2")
		require.NoError(t, c.AddLine(service("1")))
		c.SelectCustomer("cust-1")
		require.NoError(t, c.SelectStaff(admin, "emp-2"))
		c.ApplyDiscountCode("SAVE10")

		h, ok := c.Hold(admin)
		require.True(t, ok)
		assert.Equal(t, "H1", h.ID)
		assert.Equal(t, now, h.CreatedAt)
		assert.Equal(t, "cust-1", *h.CustomerID)
		assert.Equal(t, "emp-2", *h.StaffID)

		snap := c.Snapshot()
		assert.Equal(t, StateIdle, snap.State)
		assert.Nil(t, snap.CustomerID)
		assert.Nil(t, snap.StaffID)
		assert.Equal(t, "SAVE10", snap.DiscountCode)

		require.NoError(t, c.AddLine(service("2")))
		_, ok = c.Hold(admin)
		require.True(t, ok)
		held := c.Held()
		require.Len(t, held, 2)
		assert.Equal(t, "H2", held[0].ID, "newest first")
	})

	t.Run("restricted operator keeps staff", func(t *testing.T) {
		c := newCart("H1")
		c.AssignOperator(employee)
		require.NoError(t, c.AddLine(service("1")))

		_, ok := c.Hold(employee)
		require.True(t, ok)
		assert.Equal(t, "emp-1", *c.Snapshot().StaffID)
	})
}

func TestCart_HoldResumeRoundTrip(t *testing.T) {
	t.Run("unrestricted keeps snapshot staff", func(t *testing.T) {
		c := newCart("H1")
		require.NoError(t, c.AddLine(service("1")))
		require.NoError(t, c.AddLine(product("2")))
		c.UpdateQuantity("2", enum.ItemKindProduct, 3)
		c.SelectCustomer("cust-1")
		require.NoError(t, c.SelectStaff(admin, "emp-2"))
		before := c.Snapshot()

		h, _ := c.Hold(admin)
		require.NoError(t, c.SelectStaff(admin, "emp-9"))
		require.NoError(t, c.Resume(admin, h.ID))

		after := c.Snapshot()
		assert.Equal(t, before.Lines, after.Lines)
		assert.Equal(t, before.CustomerID, after.CustomerID)
		assert.Equal(t, "emp-2", *after.StaffID)
		assert.Empty(t, c.Held())
	})

	t.Run("restricted operator always gets own id", func(t *testing.T) {
		c := newCart("H1")
		require.NoError(t, c.AddLine(service("1")))
		require.NoError(t, c.SelectStaff(admin, "emp-2"))
		h, _ := c.Hold(admin)

		require.NoError(t, c.Resume(employee, h.ID))
		assert.Equal(t, "emp-1", *c.Snapshot().StaffID)
	})

	t.Run("held sale without customer keeps the selected one", func(t *testing.T) {
		c := newCart("H1")
		require.NoError(t, c.AddLine(service("1")))
		h, _ := c.Hold(admin)

		c.SelectCustomer("cust-7")
		require.NoError(t, c.Resume(admin, h.ID))
		assert.Equal(t, "cust-7", *c.Snapshot().CustomerID)
	})

	t.Run("unknown id", func(t *testing.T) {
		c := newCart("H1")
		assert.ErrorIs(t, c.Resume(admin, "missing"), ErrHeldSaleNotFound)
	})

	t.Run("resume removes only the matching entry", func(t *testing.T) {
		c := newCart("H1", "H2", "H3")
		for _, id := range []string{"a", "b", "c"} {
			require.NoError(t, c.AddLine(service(id)))
			_, ok := c.Hold(admin)
			require.True(t, ok)
		}
		require.NoError(t, c.Resume(admin, "H2"))

		held := c.Held()
		require.Len(t, held, 2)
		assert.Equal(t, "H3", held[0].ID)
		assert.Equal(t, "H1", held[1].ID)
		assert.Equal(t, "b", c.Snapshot().Lines[0].ItemID)
	})
}

func TestCart_Reset(t *testing.T) {
	c := newCart("H1")
	require.NoError(t, c.AddLine(service("1")))
	c.SelectCustomer("cust-1")
	c.ApplyDiscountCode("FLAT5")
	require.NoError(t, c.SelectStaff(employee, "emp-1"))

	c.Reset(employee)
	snap := c.Snapshot()
	assert.Empty(t, snap.Lines)
	assert.Nil(t, snap.CustomerID)
	assert.Empty(t, snap.DiscountCode)
	assert.Equal(t, "emp-1", *snap.StaffID)

	c.Reset(admin)
	assert.Nil(t, c.Snapshot().StaffID)
}

func TestCart_Checkout(t *testing.T) {
	c := newCart("H1")
	require.NoError(t, c.AddLine(service("1")))
	require.NoError(t, c.SelectStaff(admin, "emp-2"))

	boom := errors.New("invalid")
	err := c.Checkout(admin, func(Snapshot) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.Len(t, c.Snapshot().Lines, 1, "failed commit leaves the cart alone")

	var seen Snapshot
	require.NoError(t, c.Checkout(admin, func(s Snapshot) error {
		seen = s
		return nil
	}))
	assert.Len(t, seen.Lines, 1)
	assert.Equal(t, StateIdle, c.Snapshot().State)
}

func TestSnapshot_IsACopy(t *testing.T) {
	c := newCart("H1")
	require.NoError(t, c.AddLine(service("1")))

	snap := c.Snapshot()
	snap.Lines[0].Quantity = 42

	assert.Equal(t, 1, c.Snapshot().Lines[0].Quantity)
}
