// Package query derives read models from the entity store.
//
// All reads are scoped to the active user from the context. Aggregates are
// recomputed on demand; together with the Broker this forms the live view
// contract: a notification wakes the subscriber, the subscriber pulls a
// fresh snapshot.
package query

import (
	"context"
	"fmt"
	"time"

	"github.com/pocketledger/backend/internal/models"
	"github.com/pocketledger/backend/internal/session"
	"github.com/ryanuber/go-glob"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// Queries computes user-scoped read models.
type Queries struct {
	db *gorm.DB
}

// New returns Queries reading from db.
func New(db *gorm.DB) *Queries {
	return &Queries{db: db}
}

// Range is an inclusive date range. A nil bound is unbounded.
type Range struct {
	From  *time.Time
	Until *time.Time
}

func (r Range) apply(q *gorm.DB) *gorm.DB {
	if r.From != nil {
		q = q.Where("datetime(transactions.date) >= datetime(?)", *r.From)
	}
	if r.Until != nil {
		q = q.Where("datetime(transactions.date) <= datetime(?)", *r.Until)
	}

	return q
}

// TotalBalance is the sum of all wallet balances for the active user.
//
// Wallet balances are kept consistent by the ledger engine, so this does not
// recompute from the transaction log.
func (q *Queries) TotalBalance(ctx context.Context) (decimal.Decimal, error) {
	userID, err := session.UserID(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	var total decimal.NullDecimal
	err = q.db.WithContext(ctx).Table("wallets").
		Where("user_id = ?", userID).
		Select("SUM(balance)").
		Row().
		Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("summing wallet balances failed: %w", err)
	}

	return total.Decimal, nil
}

// Total sums transaction amounts of one kind, optionally restricted to an
// inclusive date range.
func (q *Queries) Total(ctx context.Context, kind models.Kind, r Range) (decimal.Decimal, error) {
	userID, err := session.UserID(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	var total decimal.NullDecimal
	query := q.db.WithContext(ctx).Table("transactions").
		Where(&models.Transaction{UserID: userID, Kind: kind})

	err = r.apply(query).
		Select("SUM(amount)").
		Row().
		Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("summing transactions failed: %w", err)
	}

	return total.Decimal, nil
}

// Totals sums income and expense amounts within the range in a single read,
// so both numbers describe the same snapshot of the log.
func (q *Queries) Totals(ctx context.Context, r Range) (income, expense decimal.Decimal, err error) {
	userID, err := session.UserID(ctx)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	query := q.db.WithContext(ctx).Table("transactions").
		Where("transactions.user_id = ?", userID).
		Select("transactions.kind AS kind, SUM(transactions.amount) AS total").
		Group("transactions.kind")

	var rows []struct {
		Kind  models.Kind
		Total decimal.Decimal
	}
	err = r.apply(query).Find(&rows).Error
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("summing transactions failed: %w", err)
	}

	for _, row := range rows {
		switch row.Kind {
		case models.Income:
			income = row.Total
		case models.Expense:
			expense = row.Total
		}
	}

	return income, expense, nil
}

// CategoryTotal is the aggregated amount for one category.
type CategoryTotal struct {
	CategoryID uint64          `json:"categoryId"`
	Name       string          `json:"name"`
	Total      decimal.Decimal `json:"total"`
}

// CategoryTotals returns per-category sums of one kind within the range,
// ordered descending by amount. Ties are broken by category id ascending so
// that the ordering is deterministic for display.
func (q *Queries) CategoryTotals(ctx context.Context, kind models.Kind, r Range) ([]CategoryTotal, error) {
	userID, err := session.UserID(ctx)
	if err != nil {
		return nil, err
	}

	query := q.db.WithContext(ctx).Table("transactions").
		Joins("JOIN categories ON categories.id = transactions.category_id").
		Where("transactions.user_id = ? AND transactions.kind = ?", userID, kind).
		Select("transactions.category_id AS category_id, categories.name AS name, SUM(transactions.amount) AS total").
		Group("transactions.category_id")

	totals := make([]CategoryTotal, 0)
	err = r.apply(query).Find(&totals).Error
	if err != nil {
		return nil, fmt.Errorf("summing categories failed: %w", err)
	}

	slices.SortFunc(totals, func(a, b CategoryTotal) int {
		if cmp := b.Total.Cmp(a.Total); cmp != 0 {
			return cmp
		}

		// Stable display order for equal sums
		switch {
		case a.CategoryID < b.CategoryID:
			return -1
		case a.CategoryID > b.CategoryID:
			return 1
		}
		return 0
	})

	return totals, nil
}

// TransactionFilter restricts a transaction listing. Zero values are ignored.
type TransactionFilter struct {
	CategoryID uint64
	WalletID   uint64
	Kind       models.Kind
	Range      Range
	// Title matches with * wildcards, e.g. "rent*"
	Title string
}

// Transactions lists the active user's transactions, newest first.
func (q *Queries) Transactions(ctx context.Context, filter TransactionFilter) ([]models.Transaction, error) {
	userID, err := session.UserID(ctx)
	if err != nil {
		return nil, err
	}

	query := q.db.WithContext(ctx).
		Where(&models.Transaction{
			UserID:     userID,
			CategoryID: filter.CategoryID,
			WalletID:   filter.WalletID,
			Kind:       filter.Kind,
		}).
		Order("datetime(transactions.date) DESC").
		Order("id DESC")

	var transactions []models.Transaction
	err = filter.Range.apply(query).Find(&transactions).Error
	if err != nil {
		return nil, err
	}

	if filter.Title == "" {
		return transactions, nil
	}

	matched := make([]models.Transaction, 0, len(transactions))
	for _, t := range transactions {
		if glob.Glob(filter.Title, t.Title) {
			matched = append(matched, t)
		}
	}

	return matched, nil
}

// Transaction returns a single transaction owned by the active user.
func (q *Queries) Transaction(ctx context.Context, id uint64) (models.Transaction, error) {
	var transaction models.Transaction
	err := q.first(ctx, &transaction, id, func() uint64 { return transaction.UserID })
	return transaction, err
}

// Wallet returns a single wallet owned by the active user.
func (q *Queries) Wallet(ctx context.Context, id uint64) (models.Wallet, error) {
	var wallet models.Wallet
	err := q.first(ctx, &wallet, id, func() uint64 { return wallet.UserID })
	return wallet, err
}

// Category returns a single category owned by the active user.
func (q *Queries) Category(ctx context.Context, id uint64) (models.Category, error) {
	var category models.Category
	err := q.first(ctx, &category, id, func() uint64 { return category.UserID })
	return category, err
}

// Budget returns a single budget owned by the active user.
func (q *Queries) Budget(ctx context.Context, id uint64) (models.Budget, error) {
	var budget models.Budget
	err := q.first(ctx, &budget, id, func() uint64 { return budget.UserID })
	return budget, err
}

// first loads dest by id and verifies ownership. Foreign resources are
// reported as not owned, never returned.
func (q *Queries) first(ctx context.Context, dest any, id uint64, owner func() uint64) error {
	userID, err := session.UserID(ctx)
	if err != nil {
		return err
	}

	err = q.db.WithContext(ctx).First(dest, id).Error
	if err != nil {
		return err
	}

	if owner() != userID {
		return fmt.Errorf("%w", models.ErrNotOwned)
	}

	return nil
}

// Wallets lists the active user's wallets.
func (q *Queries) Wallets(ctx context.Context) ([]models.Wallet, error) {
	userID, err := session.UserID(ctx)
	if err != nil {
		return nil, err
	}

	var wallets []models.Wallet
	err = q.db.WithContext(ctx).
		Where(&models.Wallet{UserID: userID}).
		Order("name ASC").
		Find(&wallets).Error

	return wallets, err
}

// Categories lists the active user's categories, optionally by kind.
func (q *Queries) Categories(ctx context.Context, kind models.Kind) ([]models.Category, error) {
	userID, err := session.UserID(ctx)
	if err != nil {
		return nil, err
	}

	var categories []models.Category
	err = q.db.WithContext(ctx).
		Where(&models.Category{UserID: userID, Kind: kind}).
		Order("name ASC").
		Find(&categories).Error

	return categories, err
}

// Budgets lists the active user's budgets, newest window first.
func (q *Queries) Budgets(ctx context.Context) ([]models.Budget, error) {
	userID, err := session.UserID(ctx)
	if err != nil {
		return nil, err
	}

	var budgets []models.Budget
	err = q.db.WithContext(ctx).
		Where(&models.Budget{UserID: userID}).
		Order("datetime(window_start) DESC").
		Find(&budgets).Error

	return budgets, err
}

// ActiveBudgets lists budgets whose window contains asOf, ordered by the
// window end so that the budget running out next comes first.
func (q *Queries) ActiveBudgets(ctx context.Context, asOf time.Time) ([]models.Budget, error) {
	userID, err := session.UserID(ctx)
	if err != nil {
		return nil, err
	}

	var budgets []models.Budget
	err = q.db.WithContext(ctx).
		Where(&models.Budget{UserID: userID}).
		Where("datetime(window_start) <= datetime(?)", asOf).
		Where("datetime(window_end) >= datetime(?)", asOf).
		Order("datetime(window_end) ASC").
		Find(&budgets).Error

	return budgets, err
}
