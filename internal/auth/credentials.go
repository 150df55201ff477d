// ABOUTME: Credential store with bcrypt password hashing and a session slot
// ABOUTME: Backed by its own SQLite file, separate from the shelter database

// Package auth persists user credentials and tracks the single active
// session of the desktop application.
//
// Passwords are stored as bcrypt hashes, never plaintext. The session is
// one in-memory slot: the application has exactly one interactive user at
// a time.
package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/pawbase/shelterd/internal/store"
)

// Role is a user's role in the system.
type Role string

const (
	RoleStaff    Role = "staff"
	RoleCustomer Role = "customer"
)

// ValidRoles lists all valid user roles.
var ValidRoles = []Role{RoleStaff, RoleCustomer}

// ParseRole decodes a stored role string. Unknown values are an error.
func ParseRole(s string) (Role, error) {
	for _, v := range ValidRoles {
		if s == string(v) {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown user role %q", s)
}

// LoginOutcome is the result of a login attempt. Wrong credentials are an
// outcome, not an error; errors are reserved for store failures and
// corrupt state.
type LoginOutcome string

const (
	LoginSuccess         LoginOutcome = "success"
	LoginInvalidPassword LoginOutcome = "invalid-password"
	LoginUserNotFound    LoginOutcome = "user-not-found"
)

// CurrentUser is the authenticated user of the active session.
type CurrentUser struct {
	Username string
	Role     Role
}

// CredentialStore owns the credentials database and the session slot.
type CredentialStore struct {
	db     *sql.DB
	logger *slog.Logger

	// mu guards only the session slot, never database I/O
	mu          sync.Mutex
	currentUser string
}

// NewCredentialStore opens (or creates) the credentials database at the
// given path. The schema is created if it doesn't exist.
func NewCredentialStore(path string) (*CredentialStore, error) {
	logger := slog.Default().With("component", "auth")

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	// Pragmas go through the DSN so every pooled connection gets them.
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("opening credentials database: %w", err)
	}

	schema := `
		CREATE TABLE IF NOT EXISTS user_authentication (
			username TEXT PRIMARY KEY,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL
		);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating credentials schema: %w", err)
	}

	logger.Info("credential store initialized", "path", path)
	return &CredentialStore{db: db, logger: logger}, nil
}

// Close closes the credentials database connection.
func (c *CredentialStore) Close() error {
	c.logger.Info("closing credential store")
	return c.db.Close()
}

// SignUp creates a new account and makes it the current session.
// Fails with store.ErrInvalidInput for a blank username or a password
// shorter than 6 characters, and store.ErrConflict for a taken username.
func (c *CredentialStore) SignUp(ctx context.Context, username, password string, role Role) error {
	if strings.TrimSpace(username) == "" {
		return fmt.Errorf("username cannot be empty: %w", store.ErrInvalidInput)
	}
	if len(password) < 6 {
		return fmt.Errorf("password must be at least 6 characters: %w", store.ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	query := `INSERT INTO user_authentication (username, password_hash, role) VALUES (?, ?, ?)`
	if _, err := c.db.ExecContext(ctx, query, username, string(hash), string(role)); err != nil {
		if isConstraintViolation(err) {
			return fmt.Errorf("username %s already exists: %w", username, store.ErrConflict)
		}
		return fmt.Errorf("inserting user: %w", err)
	}

	c.setSession(username)
	c.logger.Info("user signed up", "username", username, "role", role)
	return nil
}

// LogIn verifies a password against the stored hash. A missing user or a
// wrong password is an outcome; a malformed stored hash is a hard error.
// The session changes only on success.
func (c *CredentialStore) LogIn(ctx context.Context, username, password string) (LoginOutcome, error) {
	var hash string
	err := c.db.QueryRowContext(ctx,
		`SELECT password_hash FROM user_authentication WHERE username = ?`, username,
	).Scan(&hash)
	if err == sql.ErrNoRows {
		c.logger.Warn("login attempt for unknown user", "username", username)
		return LoginUserNotFound, nil
	}
	if err != nil {
		return "", fmt.Errorf("querying password hash: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			c.logger.Warn("invalid password", "username", username)
			return LoginInvalidPassword, nil
		}
		// Not a mismatch: the stored hash itself is unusable
		return "", fmt.Errorf("verifying password for %s: %w", username, err)
	}

	c.setSession(username)
	c.logger.Info("user logged in", "username", username)
	return LoginSuccess, nil
}

// GetCurrentUser returns the user of the active session, or nil when no
// one is logged in. A session pointing at a missing record is state
// corruption and fails with store.ErrInvariant.
func (c *CredentialStore) GetCurrentUser(ctx context.Context) (*CurrentUser, error) {
	username := c.CurrentUsername()
	if username == "" {
		return nil, nil
	}

	var roleStr string
	err := c.db.QueryRowContext(ctx,
		`SELECT role FROM user_authentication WHERE username = ?`, username,
	).Scan(&roleStr)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("session user %q has no credential record: %w", username, store.ErrInvariant)
	}
	if err != nil {
		return nil, fmt.Errorf("querying user role: %w", err)
	}

	role, err := ParseRole(roleStr)
	if err != nil {
		return nil, fmt.Errorf("decoding user %s: %w", username, err)
	}

	return &CurrentUser{Username: username, Role: role}, nil
}

// LogOut clears the session slot. Logging out with no active session is a
// no-op, not an error.
func (c *CredentialStore) LogOut() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.currentUser != "" {
		c.logger.Info("user logged out", "username", c.currentUser)
	}
	c.currentUser = ""
}

// DeleteUser removes an account administratively. Returns false when no
// account has that username. An active session for the deleted user is
// cleared as well; leaving it would corrupt GetCurrentUser.
func (c *CredentialStore) DeleteUser(ctx context.Context, username string) (bool, error) {
	result, err := c.db.ExecContext(ctx,
		`DELETE FROM user_authentication WHERE username = ?`, username)
	if err != nil {
		return false, fmt.Errorf("deleting user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return false, nil
	}

	c.mu.Lock()
	if c.currentUser == username {
		c.currentUser = ""
	}
	c.mu.Unlock()

	c.logger.Info("deleted user", "username", username)
	return true, nil
}

// CurrentUsername returns the session username without touching the
// database; empty when no one is logged in.
func (c *CredentialStore) CurrentUsername() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentUser
}

func (c *CredentialStore) setSession(username string) {
	c.mu.Lock()
	c.currentUser = username
	c.mu.Unlock()
}

// isConstraintViolation reports whether err is a primary-key or unique
// constraint failure (a taken username).
func isConstraintViolation(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY ||
		se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}
