package v1

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pocketledger/backend/internal/httputil"
	"github.com/pocketledger/backend/internal/models"
	"github.com/pocketledger/backend/internal/query"
	"github.com/shopspring/decimal"
)

// RegisterTransactionRoutes registers the routes for transactions with
// the RouterGroup that is passed.
func (co Controller) RegisterTransactionRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", httputil.OptionsGetPost)
		r.GET("", co.GetTransactions)
		r.POST("", co.CreateTransaction)
	}

	// Transaction with ID
	{
		r.OPTIONS("/:id", httputil.OptionsGetPatchDelete)
		r.GET("/:id", co.GetTransaction)
		r.PATCH("/:id", co.UpdateTransaction)
		r.DELETE("/:id", co.DeleteTransaction)
	}
}

type TransactionEditable struct {
	Title      string          `json:"title" example:"Lunch"`
	Amount     decimal.Decimal `json:"amount" example:"14.50"`
	CategoryID uint64          `json:"categoryId"`
	WalletID   uint64          `json:"walletId"`
	Date       time.Time       `json:"date"`
	Kind       models.Kind     `json:"kind" example:"expense"`
}

func (e TransactionEditable) model() models.Transaction {
	return models.Transaction{
		Title:      e.Title,
		Amount:     e.Amount,
		CategoryID: e.CategoryID,
		WalletID:   e.WalletID,
		Date:       e.Date,
		Kind:       e.Kind,
	}
}

// CreateTransaction records a transaction through the ledger engine: the row
// and the wallet balance delta are committed as one atomic unit.
func (co Controller) CreateTransaction(c *gin.Context) {
	var editable TransactionEditable
	err := httputil.BindData(c, &editable)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	transaction, err := co.Engine.Record(c.Request.Context(), editable.model())
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, transaction)
}

// GetTransactions lists the active user's transactions, newest first.
func (co Controller) GetTransactions(c *gin.Context) {
	filter := query.TransactionFilter{
		Title: c.Query("title"),
	}

	kind := models.Kind(c.Query("kind"))
	if kind != "" && !kind.Valid() {
		c.JSON(status(models.ErrKindInvalid), httpError{Error: models.ErrKindInvalid.Error()})
		return
	}
	filter.Kind = kind

	for param, target := range map[string]*uint64{
		"category": &filter.CategoryID,
		"wallet":   &filter.WalletID,
	} {
		value := c.Query(param)
		if value == "" {
			continue
		}

		parsed, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, httpError{Error: err.Error()})
			return
		}
		*target = parsed
	}

	var err error
	filter.Range.From, err = httputil.ParseTime(c.Query("from"))
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	filter.Range.Until, err = httputil.ParseUntil(c.Query("until"))
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	transactions, err := co.Queries.Transactions(c.Request.Context(), filter)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, transactions)
}

// GetTransaction returns a specific transaction.
func (co Controller) GetTransaction(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	transaction, err := co.Queries.Transaction(c.Request.Context(), uri.ID)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, transaction)
}

// UpdateTransaction amends a transaction through the ledger engine. The old
// delta is reversed and the new one applied in the same atomic unit as the
// row update.
func (co Controller) UpdateTransaction(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	existing, err := co.Queries.Transaction(c.Request.Context(), uri.ID)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	// Prefilling with the current values makes the update partial: fields
	// absent from the body keep their value.
	editable := TransactionEditable{
		Title:      existing.Title,
		Amount:     existing.Amount,
		CategoryID: existing.CategoryID,
		WalletID:   existing.WalletID,
		Date:       existing.Date,
		Kind:       existing.Kind,
	}

	err = httputil.BindData(c, &editable)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	transaction, err := co.Engine.Amend(c.Request.Context(), uri.ID, editable.model())
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, transaction)
}

// DeleteTransaction removes a transaction through the ledger engine,
// reversing its wallet delta atomically.
func (co Controller) DeleteTransaction(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	err = co.Engine.Remove(c.Request.Context(), uri.ID)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
