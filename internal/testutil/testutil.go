// Package testutil builds databases and dependencies for tests
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/pypanta/blog-comments-api/db"
	"github.com/pypanta/blog-comments-api/internal"
	"github.com/pypanta/blog-comments-api/internal/model"
	"github.com/pypanta/blog-comments-api/internal/service"
	"github.com/pypanta/blog-comments-api/pkg/security"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const Secret = "0123456789abcdef0123456789abcdef"

// FastArgon keeps password hashing cheap in tests
func FastArgon() *security.ArgonHash {
	return &security.ArgonHash{
		Memory:      1024,
		Iterations:  1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	}
}

// NewTestDB opens a fresh, migrated in-memory SQLite database
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := db.New(db.DriverSQLite, ":memory:")
	require.NoError(t, err)

	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			sqlDB.Close()
		}
	})

	return conn
}

// NewTestDeps wires every service against a fresh database
func NewTestDeps(t *testing.T) *internal.Deps {
	t.Helper()

	return internal.NewDeps(NewTestDB(t), FastArgon(), internal.SessionConfig{
		Secret:     Secret,
		AccessTTL:  time.Minute,
		RefreshTTL: time.Hour,
		Cookies: security.CookieOpts{
			Secure:      true,
			Partitioned: true,
		},
	})
}

// NewTestUser registers a user through the account service
func NewTestUser(t *testing.T, d *internal.Deps, username, email, password string, admin bool) *model.User {
	t.Helper()
	ctx := context.Background()

	u, err := d.Accounts.Register(ctx, service.RegisterInput{
		Username:        &username,
		Email:           &email,
		Password:        &password,
		PasswordConfirm: &password,
	})
	require.NoError(t, err)

	if admin {
		require.NoError(t, d.Accounts.PromoteAdmin(ctx, email))
		u.IsAdmin = true
	}

	return u
}
