// Package v1 implements the HTTP surface for the presentation collaborator.
//
// Handlers are a thin boundary: every mutation of the transaction set goes
// through the ledger engine, every read through the query layer, and both
// resolve the active user from the request context first.
package v1

import (
	"errors"
	"net/http"

	"github.com/pocketledger/backend/internal/ledger"
	"github.com/pocketledger/backend/internal/models"
	"github.com/pocketledger/backend/internal/query"
	"gorm.io/gorm"
)

// Controller bundles the collaborators the handlers need.
type Controller struct {
	DB      *gorm.DB
	Engine  *ledger.Engine
	Queries *query.Queries
	Broker  *query.Broker
}

// NewController wires engine, queries and view broker over one database.
func NewController(db *gorm.DB) Controller {
	broker := query.NewBroker()

	return Controller{
		DB:      db,
		Engine:  ledger.New(db, broker),
		Queries: query.New(db),
		Broker:  broker,
	}
}

type httpError struct {
	Error string `json:"error"`
}

// status maps the error taxonomy to HTTP status codes.
func status(err error) int {
	switch {
	case errors.Is(err, models.ErrUnauthenticated), errors.Is(err, models.ErrCredentialsWrong):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrNotOwned):
		return http.StatusForbidden
	case errors.Is(err, models.ErrResourceNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrStillReferenced), errors.Is(err, models.ErrEmailNotUnique):
		return http.StatusConflict
	case errors.Is(err, models.ErrGeneral):
		return http.StatusInternalServerError
	}

	return http.StatusBadRequest
}
