package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Transaction is a single income or expense entry for a wallet.
//
// The amount is always stored positive, the sign of its effect on the wallet
// balance is implied by the kind.
type Transaction struct {
	DefaultModel
	UserID     uint64          `json:"userId" gorm:"index"`
	User       User            `json:"-"`
	Title      string          `json:"title"`
	Amount     decimal.Decimal `json:"amount" gorm:"type:DECIMAL(20,8)"`
	CategoryID uint64          `json:"categoryId" gorm:"index"`
	Category   Category        `json:"-"`
	WalletID   uint64          `json:"walletId" gorm:"index"`
	Wallet     Wallet          `json:"-"`
	Date       time.Time       `json:"date"`
	Kind       Kind            `json:"kind"`
}

// Delta is the signed effect of the transaction on its wallet balance.
func (t Transaction) Delta() decimal.Decimal {
	if t.Kind == Income {
		return t.Amount
	}

	return t.Amount.Neg()
}

// BeforeSave sets the timezone for the Date to UTC and verifies the kind.
func (t *Transaction) BeforeSave(_ *gorm.DB) error {
	if t.Date.IsZero() {
		t.Date = time.Now().In(time.UTC)
	} else {
		t.Date = t.Date.In(time.UTC)
	}

	t.Title = strings.TrimSpace(t.Title)

	if !t.Kind.Valid() {
		return ErrKindInvalid
	}

	return nil
}

// AfterSave runs inside the surrounding database transaction, so a violation
// rolls the whole write back.
func (t *Transaction) AfterSave(_ *gorm.DB) error {
	if !decimal.Decimal.IsPositive(t.Amount) {
		return ErrAmountNotPositive
	}

	return nil
}

// AfterFind updates the date to use UTC as timezone, see DefaultModel.
func (t *Transaction) AfterFind(tx *gorm.DB) error {
	_ = t.DefaultModel.AfterFind(tx)
	t.Date = t.Date.In(time.UTC)

	return nil
}
