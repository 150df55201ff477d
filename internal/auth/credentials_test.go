// ABOUTME: Tests for the credential store
// ABOUTME: Covers signup validation, login outcomes, and session semantics

package auth

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawbase/shelterd/internal/store"
)

func newTestCreds(t *testing.T) *CredentialStore {
	t.Helper()
	c, err := NewCredentialStore(filepath.Join(t.TempDir(), "credentials.db"))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestSignUp(t *testing.T) {
	c := newTestCreds(t)
	ctx := context.Background()

	err := c.SignUp(ctx, "alice", "hunter22", RoleStaff)
	require.NoError(t, err)

	// Signing up starts a session for the new user
	user, err := c.GetCurrentUser(ctx)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, RoleStaff, user.Role)
}

func TestSignUp_Validation(t *testing.T) {
	c := newTestCreds(t)
	ctx := context.Background()

	err := c.SignUp(ctx, "", "hunter22", RoleCustomer)
	assert.ErrorIs(t, err, store.ErrInvalidInput)

	err = c.SignUp(ctx, "   ", "hunter22", RoleCustomer)
	assert.ErrorIs(t, err, store.ErrInvalidInput)

	err = c.SignUp(ctx, "bob", "12345", RoleCustomer)
	assert.ErrorIs(t, err, store.ErrInvalidInput)

	// Failed signups must not start a session
	user, err := c.GetCurrentUser(ctx)
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestSignUp_DuplicateUsername(t *testing.T) {
	c := newTestCreds(t)
	ctx := context.Background()

	require.NoError(t, c.SignUp(ctx, "alice", "hunter22", RoleStaff))

	err := c.SignUp(ctx, "alice", "different", RoleCustomer)
	assert.ErrorIs(t, err, store.ErrConflict)
}

func TestLogIn_Outcomes(t *testing.T) {
	c := newTestCreds(t)
	ctx := context.Background()

	require.NoError(t, c.SignUp(ctx, "alice", "hunter22", RoleStaff))
	c.LogOut()

	outcome, err := c.LogIn(ctx, "nobody", "whatever")
	require.NoError(t, err)
	assert.Equal(t, LoginUserNotFound, outcome)

	outcome, err = c.LogIn(ctx, "alice", "wrong-password")
	require.NoError(t, err)
	assert.Equal(t, LoginInvalidPassword, outcome)

	// Neither failure starts a session
	user, err := c.GetCurrentUser(ctx)
	require.NoError(t, err)
	assert.Nil(t, user)

	outcome, err = c.LogIn(ctx, "alice", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, LoginSuccess, outcome)

	user, err = c.GetCurrentUser(ctx)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "alice", user.Username)
}

func TestLogIn_FailureKeepsExistingSession(t *testing.T) {
	c := newTestCreds(t)
	ctx := context.Background()

	require.NoError(t, c.SignUp(ctx, "alice", "hunter22", RoleStaff))
	require.NoError(t, c.SignUp(ctx, "bob", "secret99", RoleCustomer))

	// bob is logged in from signup; alice's failed login must not evict him
	outcome, err := c.LogIn(ctx, "alice", "wrong")
	require.NoError(t, err)
	assert.Equal(t, LoginInvalidPassword, outcome)
	assert.Equal(t, "bob", c.CurrentUsername())
}

func TestLogIn_CorruptHashIsHardError(t *testing.T) {
	c := newTestCreds(t)
	ctx := context.Background()

	require.NoError(t, c.SignUp(ctx, "alice", "hunter22", RoleStaff))
	_, err := c.db.Exec(`UPDATE user_authentication SET password_hash = 'not-a-bcrypt-hash' WHERE username = 'alice'`)
	require.NoError(t, err)

	_, err = c.LogIn(ctx, "alice", "hunter22")
	assert.Error(t, err)
}

func TestGetCurrentUser_DanglingSession(t *testing.T) {
	c := newTestCreds(t)
	ctx := context.Background()

	require.NoError(t, c.SignUp(ctx, "alice", "hunter22", RoleStaff))

	// Remove the record behind the session's back
	_, err := c.db.Exec(`DELETE FROM user_authentication WHERE username = 'alice'`)
	require.NoError(t, err)

	_, err = c.GetCurrentUser(ctx)
	assert.ErrorIs(t, err, store.ErrInvariant)
}

func TestGetCurrentUser_CorruptRole(t *testing.T) {
	c := newTestCreds(t)
	ctx := context.Background()

	require.NoError(t, c.SignUp(ctx, "alice", "hunter22", RoleStaff))

	_, err := c.db.Exec(`UPDATE user_authentication SET role = 'superuser' WHERE username = 'alice'`)
	require.NoError(t, err)

	// An unknown stored role fails decoding, never coerces to a default
	_, err = c.GetCurrentUser(ctx)
	assert.Error(t, err)
	assert.False(t, errors.Is(err, store.ErrInvariant))
}

func TestLogOut(t *testing.T) {
	c := newTestCreds(t)
	ctx := context.Background()

	// Logging out with no session is a no-op
	c.LogOut()

	require.NoError(t, c.SignUp(ctx, "alice", "hunter22", RoleStaff))
	c.LogOut()

	user, err := c.GetCurrentUser(ctx)
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestDeleteUser(t *testing.T) {
	c := newTestCreds(t)
	ctx := context.Background()

	require.NoError(t, c.SignUp(ctx, "alice", "hunter22", RoleStaff))

	found, err := c.DeleteUser(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, found)

	// The deleted user's session is cleared, not left dangling
	user, err := c.GetCurrentUser(ctx)
	require.NoError(t, err)
	assert.Nil(t, user)

	found, err = c.DeleteUser(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestDeleteUser_OtherSessionSurvives(t *testing.T) {
	c := newTestCreds(t)
	ctx := context.Background()

	require.NoError(t, c.SignUp(ctx, "alice", "hunter22", RoleStaff))
	require.NoError(t, c.SignUp(ctx, "bob", "secret99", RoleCustomer))

	found, err := c.DeleteUser(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "bob", c.CurrentUsername())
}

func TestParseRole(t *testing.T) {
	role, err := ParseRole("customer")
	require.NoError(t, err)
	assert.Equal(t, RoleCustomer, role)

	_, err = ParseRole("admin")
	assert.Error(t, err)

	_, err = ParseRole("Staff")
	assert.Error(t, err)
}
