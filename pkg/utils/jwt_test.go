package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type profile struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

func TestJWTManager_RoundTrip(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	m := NewJWTManager[profile]("secret", "trimtime", func() time.Time { return now })

	token, err := m.GenerateToken("s1", profile{Name: "Leo", Role: "employee"}, true, now.Add(time.Hour))
	require.NoError(t, err)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "s1", claims.Subject)
	assert.Equal(t, "Leo", claims.Profile.Name)
	assert.True(t, claims.Remember)
	assert.Equal(t, now.Add(time.Hour).Unix(), claims.ExpiresAt.Unix())
}

func TestJWTManager_Expired(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	m := NewJWTManager[profile]("secret", "trimtime", func() time.Time { return now })

	token, err := m.GenerateToken("s1", profile{}, false, now.Add(time.Hour))
	require.NoError(t, err)

	now = now.Add(2 * time.Hour)
	_, err = m.ValidateToken(token)
	require.Error(t, err)
	assert.True(t, IsExpired(err))
}

func TestJWTManager_WrongSecret(t *testing.T) {
	now := time.Now()
	a := NewJWTManager[profile]("one", "trimtime", nil)
	b := NewJWTManager[profile]("two", "trimtime", nil)

	token, err := a.GenerateToken("s1", profile{}, false, now.Add(time.Hour))
	require.NoError(t, err)

	_, err = b.ValidateToken(token)
	assert.Error(t, err)
	assert.False(t, IsExpired(err))
}
