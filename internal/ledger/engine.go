// Package ledger applies transaction mutations and their wallet balance
// effects as single atomic units.
//
// The wallet balance is derived state. Every code path that changes the
// transaction set goes through the Engine, which writes the transaction row
// and the balance delta inside one database transaction: either both are
// visible or neither is.
package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/pocketledger/backend/internal/models"
	"github.com/pocketledger/backend/internal/session"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Event describes a committed mutation. It carries enough information for
// subscribers to decide which views to recompute.
type Event struct {
	UserID      uint64
	WalletIDs   []uint64
	CategoryIDs []uint64
	Dates       []time.Time
}

// Notifier is notified after a mutation has been committed, never before.
type Notifier interface {
	Publish(Event)
}

// Engine is the single write path for transactions and wallet balances.
type Engine struct {
	db       *gorm.DB
	notifier Notifier
}

// New returns an Engine writing through db. The notifier may be nil.
func New(db *gorm.DB, notifier Notifier) *Engine {
	return &Engine{db: db, notifier: notifier}
}

// Record validates and inserts a transaction and applies its delta to the
// referenced wallet.
func (e *Engine) Record(ctx context.Context, transaction models.Transaction) (models.Transaction, error) {
	userID, err := session.UserID(ctx)
	if err != nil {
		return models.Transaction{}, err
	}

	if transaction.UserID != 0 && transaction.UserID != userID {
		return models.Transaction{}, fmt.Errorf("transaction: %w", models.ErrNotOwned)
	}
	transaction.UserID = userID

	if !decimal.Decimal.IsPositive(transaction.Amount) {
		return models.Transaction{}, models.ErrAmountNotPositive
	}

	err = e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := checkReferences(tx, &transaction)
		if err != nil {
			return err
		}

		err = tx.Create(&transaction).Error
		if err != nil {
			return err
		}

		return applyDelta(tx, transaction.WalletID, userID, transaction.Delta())
	})
	if err != nil {
		return models.Transaction{}, err
	}

	e.publish(Event{
		UserID:      userID,
		WalletIDs:   []uint64{transaction.WalletID},
		CategoryIDs: []uint64{transaction.CategoryID},
		Dates:       []time.Time{transaction.Date},
	})

	return transaction, nil
}

// Amend replaces an existing transaction with updated values.
//
// The old delta is reversed and the new one applied within the same atomic
// unit as the row update, so an observer never sees an intermediate balance.
// This also covers kind flips, wallet moves and amount edits in one call.
func (e *Engine) Amend(ctx context.Context, id uint64, updated models.Transaction) (models.Transaction, error) {
	userID, err := session.UserID(ctx)
	if err != nil {
		return models.Transaction{}, err
	}

	if !decimal.Decimal.IsPositive(updated.Amount) {
		return models.Transaction{}, models.ErrAmountNotPositive
	}

	var existing, old models.Transaction
	err = e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.First(&existing, id).Error
		if err != nil {
			return err
		}

		if existing.UserID != userID {
			return fmt.Errorf("transaction: %w", models.ErrNotOwned)
		}

		// Keep the old state around: the event after commit has to name the
		// wallet and category the transaction moved away from.
		old = existing

		// Reverse the effect of the old state first, then apply the new one.
		err = applyDelta(tx, existing.WalletID, userID, existing.Delta().Neg())
		if err != nil {
			return err
		}

		existing.Title = updated.Title
		existing.Amount = updated.Amount
		existing.CategoryID = updated.CategoryID
		existing.WalletID = updated.WalletID
		existing.Date = updated.Date
		existing.Kind = updated.Kind

		err = checkReferences(tx, &existing)
		if err != nil {
			return err
		}

		err = tx.Save(&existing).Error
		if err != nil {
			return err
		}

		return applyDelta(tx, existing.WalletID, userID, existing.Delta())
	})
	if err != nil {
		return models.Transaction{}, err
	}

	e.publish(Event{
		UserID:      userID,
		WalletIDs:   []uint64{old.WalletID, existing.WalletID},
		CategoryIDs: []uint64{old.CategoryID, existing.CategoryID},
		Dates:       []time.Time{old.Date, existing.Date},
	})

	return existing, nil
}

// Remove deletes a transaction and reverses its delta atomically.
func (e *Engine) Remove(ctx context.Context, id uint64) error {
	userID, err := session.UserID(ctx)
	if err != nil {
		return err
	}

	var existing models.Transaction
	err = e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.First(&existing, id).Error
		if err != nil {
			return err
		}

		if existing.UserID != userID {
			return fmt.Errorf("transaction: %w", models.ErrNotOwned)
		}

		err = applyDelta(tx, existing.WalletID, userID, existing.Delta().Neg())
		if err != nil {
			return err
		}

		return tx.Delete(&existing).Error
	})
	if err != nil {
		return err
	}

	e.publish(Event{
		UserID:      userID,
		WalletIDs:   []uint64{existing.WalletID},
		CategoryIDs: []uint64{existing.CategoryID},
		Dates:       []time.Time{existing.Date},
	})

	return nil
}

// checkReferences verifies that wallet and category exist, belong to the
// transaction's user and that the category kind matches.
func checkReferences(tx *gorm.DB, transaction *models.Transaction) error {
	var wallet models.Wallet
	err := tx.First(&wallet, transaction.WalletID).Error
	if err != nil {
		return err
	}

	if wallet.UserID != transaction.UserID {
		return fmt.Errorf("wallet: %w", models.ErrNotOwned)
	}

	var category models.Category
	err = tx.First(&category, transaction.CategoryID).Error
	if err != nil {
		return err
	}

	if category.UserID != transaction.UserID {
		return fmt.Errorf("category: %w", models.ErrNotOwned)
	}

	if category.Kind != transaction.Kind {
		return models.ErrKindMismatch
	}

	return nil
}

// applyDelta adds the signed delta to the wallet's cached balance.
func applyDelta(tx *gorm.DB, walletID, userID uint64, delta decimal.Decimal) error {
	result := tx.Model(&models.Wallet{}).
		Where("id = ? AND user_id = ?", walletID, userID).
		Update("balance", gorm.Expr("balance + ?", delta))
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("%w wallet matching your query", models.ErrResourceNotFound)
	}

	return nil
}

func (e *Engine) publish(event Event) {
	if e.notifier == nil {
		return
	}

	e.notifier.Publish(event)
}
