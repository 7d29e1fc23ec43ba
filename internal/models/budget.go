package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Budget is a spending limit for one expense category over a fixed time
// window.
type Budget struct {
	DefaultModel
	UserID      uint64          `json:"userId" gorm:"index"`
	User        User            `json:"-"`
	CategoryID  uint64          `json:"categoryId" gorm:"index"`
	Category    Category        `json:"-"`
	Limit       decimal.Decimal `json:"limit" gorm:"column:limit_amount;type:DECIMAL(20,8)"`
	WindowStart time.Time       `json:"windowStart"`
	WindowEnd   time.Time       `json:"windowEnd"`
}

// Band classifies budget consumption for display.
type Band string

const (
	BandNormal   Band = "normal"
	BandWarning  Band = "warning"
	BandExceeded Band = "exceeded"
)

// The warning band starts at 80% consumption.
var bandWarningThreshold = decimal.NewFromFloat(0.8)

// Evaluation is the consumption state of a budget at a point in time.
type Evaluation struct {
	Spent     decimal.Decimal `json:"spent"`
	Remaining decimal.Decimal `json:"remaining"`
	// Ratio is clamped to [0, 1] for display. Over or under budget is decided
	// by the sign of Remaining, not by the clamped ratio.
	Ratio  decimal.Decimal `json:"ratio"`
	Band   Band            `json:"band"`
	Active bool            `json:"active"`
}

// BeforeSave sets the timezone for the window bounds to UTC and verifies
// their order.
func (b *Budget) BeforeSave(_ *gorm.DB) error {
	b.WindowStart = b.WindowStart.In(time.UTC)
	b.WindowEnd = b.WindowEnd.In(time.UTC)

	if b.WindowEnd.Before(b.WindowStart) {
		return ErrWindowInvalid
	}

	return nil
}

// AfterSave runs inside the surrounding database transaction, so a violation
// rolls the whole write back.
func (b *Budget) AfterSave(_ *gorm.DB) error {
	if !decimal.Decimal.IsPositive(b.Limit) {
		return ErrAmountNotPositive
	}

	return nil
}

// BeforeCreate verifies that the referenced category exists, belongs to the
// same user and is an expense category.
func (b *Budget) BeforeCreate(tx *gorm.DB) error {
	toSave := tx.Statement.Dest.(*Budget)
	return b.checkIntegrity(tx, *toSave)
}

// BeforeUpdate verifies the category reference before committing an update.
func (b *Budget) BeforeUpdate(tx *gorm.DB) error {
	if tx.Statement.Changed("CategoryID") {
		toSave := tx.Statement.Dest.(Budget)
		return b.checkIntegrity(tx, toSave)
	}

	return nil
}

func (b *Budget) checkIntegrity(tx *gorm.DB, toSave Budget) error {
	var category Category
	err := tx.First(&category, toSave.CategoryID).Error
	if err != nil {
		return err
	}

	if category.UserID != toSave.UserID {
		return fmt.Errorf("budget category: %w", ErrNotOwned)
	}

	if category.Kind != Expense {
		return fmt.Errorf("budget category: %w", ErrKindMismatch)
	}

	return nil
}

// AfterFind updates the window bounds to use UTC as timezone, see
// DefaultModel.
func (b *Budget) AfterFind(tx *gorm.DB) error {
	_ = b.DefaultModel.AfterFind(tx)
	b.WindowStart = b.WindowStart.In(time.UTC)
	b.WindowEnd = b.WindowEnd.In(time.UTC)

	return nil
}

// IsActive reports whether the window contains the given time. Both bounds
// are inclusive.
func (b Budget) IsActive(asOf time.Time) bool {
	return !asOf.Before(b.WindowStart) && !asOf.After(b.WindowEnd)
}

// Evaluate computes spend against limit for the budget window.
//
// Evaluating twice against an unchanged transaction set yields the identical
// result: the evaluation is a pure function of the stored transactions, the
// limit and asOf.
func (b Budget) Evaluate(db *gorm.DB, asOf time.Time) (Evaluation, error) {
	var spent decimal.NullDecimal

	err := db.Table("transactions").
		Where(&Transaction{UserID: b.UserID, CategoryID: b.CategoryID, Kind: Expense}).
		Where("datetime(transactions.date) >= datetime(?)", b.WindowStart).
		Where("datetime(transactions.date) <= datetime(?)", b.WindowEnd).
		Select("SUM(amount)").
		Row().
		Scan(&spent)
	if err != nil {
		return Evaluation{}, fmt.Errorf("summing spend for budget %d failed: %w", b.ID, err)
	}

	remaining := b.Limit.Sub(spent.Decimal)
	ratio := spent.Decimal.Div(b.Limit)

	band := BandNormal
	switch {
	case ratio.GreaterThanOrEqual(decimal.NewFromInt(1)):
		band = BandExceeded
	case ratio.GreaterThanOrEqual(bandWarningThreshold):
		band = BandWarning
	}

	// Clamp for display only
	if ratio.IsNegative() {
		ratio = decimal.Zero
	} else if ratio.GreaterThan(decimal.NewFromInt(1)) {
		ratio = decimal.NewFromInt(1)
	}

	return Evaluation{
		Spent:     spent.Decimal,
		Remaining: remaining,
		Ratio:     ratio,
		Band:      band,
		Active:    b.IsActive(asOf),
	}, nil
}
