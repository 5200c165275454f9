package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gatepass/visitor-management/internal/model"
	"github.com/gatepass/visitor-management/internal/store"
)

// EnsureAdmin creates the admin account named by ADMIN_USERNAME when it does
// not exist yet, so a fresh deployment has a working console login. Returns
// true when an account was created. Existing accounts are left untouched,
// including their password.
func EnsureAdmin(ctx context.Context, admins store.AdminStore, username, password string, cost int) (bool, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return false, errors.New("admin username is empty")
	}
	if password == "" {
		return false, errors.New("admin password is empty")
	}

	if _, err := admins.GetByUsername(ctx, username); err == nil {
		return false, nil
	} else if !errors.Is(err, store.ErrAdminNotFound) {
		return false, fmt.Errorf("look up admin %q: %w", username, err)
	}

	hash, err := HashPassword(password, cost)
	if err != nil {
		return false, fmt.Errorf("hash admin password: %w", err)
	}
	if _, err := admins.Create(ctx, username, hash, model.RoleAdmin); err != nil {
		// Lost a race against a concurrent seed; the account exists.
		if errors.Is(err, store.ErrAdminExists) {
			return false, nil
		}
		return false, fmt.Errorf("create admin %q: %w", username, err)
	}
	return true, nil
}
