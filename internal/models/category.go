package models

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// Kind classifies categories and transactions as spending or earning money.
type Kind string

const (
	Expense Kind = "expense"
	Income  Kind = "income"
)

// Valid reports whether the kind is one of the two known values.
func (k Kind) Valid() bool {
	return k == Expense || k == Income
}

// Category groups transactions of one kind.
//
// The kind constrains which transactions and budgets may reference the
// category.
type Category struct {
	DefaultModel
	UserID uint64 `json:"userId" gorm:"index"`
	User   User   `json:"-"`
	Name   string `json:"name"`
	Kind   Kind   `json:"kind"`
}

// BeforeSave trims whitespace and verifies the kind.
func (c *Category) BeforeSave(_ *gorm.DB) error {
	c.Name = strings.TrimSpace(c.Name)

	if !c.Kind.Valid() {
		return ErrKindInvalid
	}

	return nil
}

// BeforeDelete blocks deletion while transactions still reference the
// category. References are guarded, not cascaded.
func (c *Category) BeforeDelete(tx *gorm.DB) error {
	var count int64
	err := tx.Model(&Transaction{}).Where("category_id = ?", c.ID).Count(&count).Error
	if err != nil {
		return err
	}

	if count > 0 {
		return fmt.Errorf("the category cannot be deleted since %w", ErrStillReferenced)
	}

	return nil
}

// BeforeUpdate refuses a kind change while transactions reference the
// category, since their kinds would no longer match.
func (c *Category) BeforeUpdate(tx *gorm.DB) error {
	if !tx.Statement.Changed("Kind") {
		return nil
	}

	var count int64
	err := tx.Model(&Transaction{}).Where("category_id = ?", c.ID).Count(&count).Error
	if err != nil {
		return err
	}

	if count > 0 {
		return fmt.Errorf("the category kind cannot be changed since %w", ErrStillReferenced)
	}

	return nil
}
