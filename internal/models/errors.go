package models

import "errors"

var (
	// ErrGeneral covers storage faults we cannot give the user details about.
	ErrGeneral = errors.New("an error occurred on the server during your request")

	// ErrResourceNotFound is extended with the resource name by the query callback.
	ErrResourceNotFound = errors.New("there is no")

	// ErrUnauthenticated is returned when an operation is attempted without an
	// active user. It is checked before any store access happens.
	ErrUnauthenticated = errors.New("no user is logged in")

	// ErrNotOwned is returned when a referenced resource belongs to another user.
	ErrNotOwned = errors.New("this resource belongs to another user")

	ErrAmountNotPositive = errors.New("amounts must be larger than zero")
	ErrKindInvalid       = errors.New("kind must be one of 'expense' or 'income'")
	ErrKindMismatch      = errors.New("the category kind does not match the transaction kind")
	ErrStillReferenced   = errors.New("transactions still reference it")
	ErrWindowInvalid     = errors.New("the budget window must not end before it starts")
	ErrEmailNotUnique    = errors.New("the email address is already registered")
	ErrCredentialsWrong  = errors.New("email or password is wrong")
)
