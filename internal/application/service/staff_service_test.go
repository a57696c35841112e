package service

import (
	"context"
	"testing"
	"time"

	"github.com/sangkips/trimtime-pos/internal/domain/enum"
	"github.com/sangkips/trimtime-pos/pkg/apperror"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func staffInputs(e *testEnv) []StaffInput {
	var out []StaffInput
	for _, st := range e.staff.List() {
		out = append(out, StaffInput{ID: st.ID, Name: st.Name, Username: st.Username, Role: st.Role, Commission: st.Commission, Email: st.Email})
	}
	return out
}

func TestAuth_Login(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	_, err := e.auth.Login(ctx, &LoginInput{Username: "lena", Password: "wrong"})
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)
	_, err = e.auth.Login(ctx, &LoginInput{Username: "nobody", Password: "x"})
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)

	sess, err := e.auth.Login(ctx, &LoginInput{Username: "LENA", Password: "lena-pass", RememberMe: true})
	require.NoError(t, err)
	assert.Equal(t, "e1", sess.Staff.ID)
	assert.Empty(t, sess.Staff.PasswordHash)
	assert.Equal(t, testStart.Add(30*24*time.Hour), sess.ExpiresAt)

	cur, err := e.auth.Current()
	require.NoError(t, err)
	assert.Equal(t, sess.Token, cur.Token)

	require.NoError(t, e.auth.Logout())
	_, err = e.auth.Current()
	assert.ErrorIs(t, err, apperror.ErrNoSession)
}

func TestStaff_SaveRefreshesSession(t *testing.T) {
	e := newTestEnv(t)
	sess, err := e.auth.Login(context.Background(), &LoginInput{Username: "lena", Password: "lena-pass"})
	require.NoError(t, err)

	inputs := staffInputs(e)
	for i := range inputs {
		if inputs[i].ID == "e1" {
			inputs[i].Name = "Lena Fischer"
		}
	}
	inputs = append(inputs, StaffInput{Name: "Sam", Username: "sam", Password: "sam-pass", Commission: decimal.NewFromInt(30)})

	saved, err := e.staff.Save(inputs)
	require.NoError(t, err)
	assert.Len(t, saved, 3)

	cur, err := e.auth.Current()
	require.NoError(t, err)
	assert.Equal(t, "Lena Fischer", cur.Staff.Name)
	assert.Equal(t, sess.ExpiresAt, cur.ExpiresAt)
	assert.NotEqual(t, sess.Token, cur.Token)

	// passwords of untouched staff survive the round trip
	e.tasks.Wait()
	stored, err := e.staffRepo.GetByUsername(context.Background(), "lena")
	require.NoError(t, err)
	assert.True(t, stored.CheckPassword("lena-pass"))
	sam, err := e.staffRepo.GetByUsername(context.Background(), "sam")
	require.NoError(t, err)
	require.NotNil(t, sam)
	assert.Equal(t, enum.StaffRoleEmployee, sam.Role)
}

func TestStaff_SaveValidation(t *testing.T) {
	e := newTestEnv(t)

	_, err := e.staff.Save([]StaffInput{
		{ID: "a1", Name: "Marco", Username: "marco", Role: enum.StaffRoleAdmin},
		{Name: "", Username: "MARCO", Role: "owner", Commission: decimal.NewFromInt(120)},
		{Name: "Pat", Username: "pat", Password: "abc"},
	})
	require.Error(t, err)
	appErr := apperror.GetAppError(err)
	require.NotNil(t, appErr)

	fields := make(map[string]bool)
	for _, fe := range appErr.Errors {
		fields[fe.Field] = true
	}
	assert.True(t, fields["[1].name"])
	assert.True(t, fields["[1].username"])
	assert.True(t, fields["[1].role"])
	assert.True(t, fields["[1].commission"])
	assert.True(t, fields["[1].password"])
	assert.True(t, fields["[2].password"])

	assert.Len(t, e.staff.List(), 2, "local collection untouched")
}

func TestStaff_UpdateProfile(t *testing.T) {
	e := newTestEnv(t)
	_, err := e.auth.Login(context.Background(), &LoginInput{Username: "lena", Password: "lena-pass"})
	require.NoError(t, err)

	updated, err := e.staff.UpdateProfile(e.employee, ProfileInput{Name: "Lena F", Username: "lenaf", Email: "lena@example.com", Password: "new-pass"})
	require.NoError(t, err)
	assert.Equal(t, "lenaf", updated.Username)
	assert.Equal(t, enum.StaffRoleEmployee, updated.Role)

	admin, ok := e.staff.Find("a1")
	require.True(t, ok)
	assert.True(t, admin.CheckPassword("admin-pass"))

	cur, err := e.auth.Current()
	require.NoError(t, err)
	assert.Equal(t, "lenaf", cur.Staff.Username)

	_, err = e.auth.Login(context.Background(), &LoginInput{Username: "lenaf", Password: "new-pass"})
	assert.NoError(t, err)
}
