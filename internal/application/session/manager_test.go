package session

import (
	"context"
	"testing"
	"time"

	"github.com/sangkips/trimtime-pos/internal/clock"
	"github.com/sangkips/trimtime-pos/internal/config"
	"github.com/sangkips/trimtime-pos/internal/domain/entity"
	"github.com/sangkips/trimtime-pos/internal/domain/enum"
	slotstore "github.com/sangkips/trimtime-pos/internal/infrastructure/session"
	"github.com/sangkips/trimtime-pos/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var start = time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)

func testConfig() config.SessionConfig {
	return config.SessionConfig{
		Secret:      "test-secret",
		ShortTTL:    time.Hour,
		RememberTTL: 30 * 24 * time.Hour,
	}
}

func employee() entity.Staff {
	return entity.Staff{ID: "emp-1", Name: "Leo", Username: "leo", Role: enum.StaffRoleEmployee, PasswordHash: "hash"}
}

func TestManager_LoginDurations(t *testing.T) {
	clk := clock.NewManual(start)
	m := NewManager(testConfig(), slotstore.NewMemorySlot(), clk)

	s, err := m.Login(employee(), false)
	require.NoError(t, err)
	assert.Equal(t, start.Add(time.Hour), s.ExpiresAt)
	assert.Empty(t, s.Staff.PasswordHash)

	s, err = m.Login(employee(), true)
	require.NoError(t, err)
	assert.Equal(t, start.Add(30*24*time.Hour), s.ExpiresAt)
}

func TestManager_RestoreAcrossInstances(t *testing.T) {
	clk := clock.NewManual(start)
	slot := slotstore.NewMemorySlot()

	first := NewManager(testConfig(), slot, clk)
	_, err := first.Login(employee(), false)
	require.NoError(t, err)

	second := NewManager(testConfig(), slot, clk)
	require.NoError(t, second.Restore())
	s, ok := second.Current()
	require.True(t, ok)
	assert.Equal(t, "leo", s.Staff.Username)
	assert.Equal(t, start.Add(time.Hour), s.ExpiresAt)
}

func TestManager_RestoreExpiredClearsSlot(t *testing.T) {
	clk := clock.NewManual(start)
	slot := slotstore.NewMemorySlot()

	_, err := NewManager(testConfig(), slot, clk).Login(employee(), false)
	require.NoError(t, err)

	clk.Advance(2 * time.Hour)
	m := NewManager(testConfig(), slot, clk)
	require.NoError(t, m.Restore())

	_, ok := m.Current()
	assert.False(t, ok)
	token, _ := slot.Load()
	assert.Empty(t, token)
}

func TestManager_Refresh(t *testing.T) {
	clk := clock.NewManual(start)
	slot := slotstore.NewMemorySlot()
	m := NewManager(testConfig(), slot, clk)

	s, err := m.Login(employee(), false)
	require.NoError(t, err)

	changed, err := m.Refresh([]entity.Staff{{ID: "other", Name: "X"}})
	require.NoError(t, err)
	assert.False(t, changed)

	clk.Advance(10 * time.Minute)
	updated := employee()
	updated.Name = "Leonardo"
	changed, err = m.Refresh([]entity.Staff{{ID: "other"}, updated})
	require.NoError(t, err)
	assert.True(t, changed)

	cur, ok := m.Current()
	require.True(t, ok)
	assert.Equal(t, "Leonardo", cur.Staff.Name)
	assert.Equal(t, s.ExpiresAt, cur.ExpiresAt)
	assert.NotEqual(t, s.Token, cur.Token)

	persisted, _ := slot.Load()
	assert.Equal(t, cur.Token, persisted)
}

func TestManager_CheckExpiry(t *testing.T) {
	clk := clock.NewManual(start)
	slot := slotstore.NewMemorySlot()
	expired := 0
	m := NewManager(testConfig(), slot, clk, OnExpire(func() { expired++ }))

	_, err := m.Login(employee(), false)
	require.NoError(t, err)

	assert.False(t, m.CheckExpiry())
	clk.Advance(time.Hour)
	assert.True(t, m.CheckExpiry())
	assert.False(t, m.CheckExpiry())
	assert.Equal(t, 1, expired)

	token, _ := slot.Load()
	assert.Empty(t, token)
}

func TestManager_Authenticate(t *testing.T) {
	clk := clock.NewManual(start)
	m := NewManager(testConfig(), slotstore.NewMemorySlot(), clk)

	_, err := m.Authenticate("garbage")
	assert.ErrorIs(t, err, apperror.ErrInvalidToken)

	s, err := m.Login(employee(), false)
	require.NoError(t, err)

	staff, err := m.Authenticate(s.Token)
	require.NoError(t, err)
	assert.Equal(t, "emp-1", staff.ID)

	updated := employee()
	updated.Name = "Renamed"
	_, err = m.Refresh([]entity.Staff{updated})
	require.NoError(t, err)
	staff, err = m.Authenticate(s.Token)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", staff.Name)

	require.NoError(t, m.Logout())
	_, err = m.Authenticate(s.Token)
	assert.ErrorIs(t, err, apperror.ErrNoSession)

	s, err = m.Login(employee(), false)
	require.NoError(t, err)
	clk.Advance(2 * time.Hour)
	_, err = m.Authenticate(s.Token)
	assert.ErrorIs(t, err, apperror.ErrSessionExpired)
}

func TestManager_WatchStops(t *testing.T) {
	m := NewManager(testConfig(), slotstore.NewMemorySlot(), clock.NewManual(start))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Watch(ctx, time.Millisecond)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}
