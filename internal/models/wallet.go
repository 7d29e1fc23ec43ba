package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Wallet is an account holding money, e.g. a bank account or a cash wallet.
//
// Balance is derived state: it always equals the sum of the signed amounts of
// all transactions referencing the wallet. It is only ever written together
// with a transaction row, inside the same database transaction (see the
// ledger package). There is no second write path.
type Wallet struct {
	DefaultModel
	UserID         uint64          `json:"userId" gorm:"index"`
	User           User            `json:"-"`
	Name           string          `json:"name"`
	Balance        decimal.Decimal `json:"balance" gorm:"type:DECIMAL(20,8)"`
	InitialBalance decimal.Decimal `json:"initialBalance" gorm:"type:DECIMAL(20,8)"`
	Icon           string          `json:"icon,omitempty"`
	Color          string          `json:"color,omitempty"`
}

// BeforeSave trims whitespace from all strings.
func (w *Wallet) BeforeSave(_ *gorm.DB) error {
	w.Name = strings.TrimSpace(w.Name)
	w.Icon = strings.TrimSpace(w.Icon)
	w.Color = strings.TrimSpace(w.Color)

	return nil
}

// BeforeCreate seeds the cached balance with the initial balance. From here
// on only the ledger engine writes it.
func (w *Wallet) BeforeCreate(_ *gorm.DB) error {
	w.Balance = w.InitialBalance
	return nil
}

// BeforeDelete blocks deletion while transactions still reference the wallet.
func (w *Wallet) BeforeDelete(tx *gorm.DB) error {
	var count int64
	err := tx.Model(&Transaction{}).Where("wallet_id = ?", w.ID).Count(&count).Error
	if err != nil {
		return err
	}

	if count > 0 {
		return fmt.Errorf("the wallet cannot be deleted since %w", ErrStillReferenced)
	}

	return nil
}

// Transactions returns all transactions referencing this wallet.
func (w Wallet) Transactions(db *gorm.DB) ([]Transaction, error) {
	var transactions []Transaction

	err := db.Where(&Transaction{WalletID: w.ID}).Find(&transactions).Error
	return transactions, err
}

// ComputedBalance is the initial balance plus the signed amounts of all
// transactions referencing the wallet. It must always equal Balance and
// exists so that the invariant can be verified without trusting the cached
// value.
func (w Wallet) ComputedBalance(db *gorm.DB) (decimal.Decimal, error) {
	var incoming, outgoing decimal.NullDecimal

	err := db.Table("transactions").
		Where(&Transaction{WalletID: w.ID, Kind: Income}).
		Select("SUM(amount)").
		Row().
		Scan(&incoming)
	if err != nil {
		return decimal.Zero, fmt.Errorf("summing income for wallet %d failed: %w", w.ID, err)
	}

	err = db.Table("transactions").
		Where(&Transaction{WalletID: w.ID, Kind: Expense}).
		Select("SUM(amount)").
		Row().
		Scan(&outgoing)
	if err != nil {
		return decimal.Zero, fmt.Errorf("summing expenses for wallet %d failed: %w", w.ID, err)
	}

	return w.InitialBalance.Add(incoming.Decimal).Sub(outgoing.Decimal), nil
}
