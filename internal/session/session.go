// Package session resolves the active user and scopes operations to it.
//
// The active user travels as an explicit context value, not as process-wide
// state. The store keeps at most one user flagged as logged in, which is what
// restores the session across restarts.
package session

import (
	"context"
	"fmt"

	"github.com/pocketledger/backend/internal/models"
	"gorm.io/gorm"
)

type contextKey int

const userKey contextKey = 0

// WithUser returns a context carrying the given user id as the active user.
func WithUser(ctx context.Context, userID uint64) context.Context {
	return context.WithValue(ctx, userKey, userID)
}

// UserID resolves the active user from the context.
//
// This is a hard precondition for every ledger and query entry point: when it
// fails, the operation is refused before any store access happens.
func UserID(ctx context.Context) (uint64, error) {
	id, ok := ctx.Value(userKey).(uint64)
	if !ok || id == 0 {
		return 0, models.ErrUnauthenticated
	}

	return id, nil
}

// Activate marks the given user as logged in.
//
// Clearing the flag on all other users and setting it on the new one happens
// in one atomic unit, so there is never more than one flagged user.
func Activate(db *gorm.DB, userID uint64) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		err := tx.First(&user, userID).Error
		if err != nil {
			return err
		}

		err = tx.Model(&models.User{}).Where("logged_in = ?", true).Update("logged_in", false).Error
		if err != nil {
			return err
		}

		return tx.Model(&user).Update("logged_in", true).Error
	})
}

// Deactivate clears the logged-in flag on all users.
func Deactivate(db *gorm.DB) error {
	return db.Model(&models.User{}).Where("logged_in = ?", true).Update("logged_in", false).Error
}

// ActiveUser returns the user currently flagged as logged in.
func ActiveUser(db *gorm.DB) (models.User, error) {
	var user models.User

	err := db.Where(&models.User{LoggedIn: true}).First(&user).Error
	if err != nil {
		return models.User{}, fmt.Errorf("resolving the active user failed: %w", err)
	}

	return user, nil
}
