package models

import (
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// User is the owner of all other resources. Every query and mutation is
// scoped to exactly one user.
type User struct {
	DefaultModel
	Name     string `json:"name"`
	Email    string `json:"email" gorm:"uniqueIndex"`
	Password string `json:"-"` // bcrypt hash, never the plain credential
	LoggedIn bool   `json:"loggedIn"`
}

// BeforeSave trims whitespace and normalizes the email address.
func (u *User) BeforeSave(_ *gorm.DB) error {
	u.Name = strings.TrimSpace(u.Name)
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))

	return nil
}

// SetPassword hashes the plain credential and stores the hash.
func (u *User) SetPassword(plain string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	u.Password = string(hash)
	return nil
}

// CheckPassword verifies a plain credential against the stored hash.
func (u User) CheckPassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plain)) == nil
}
