package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pocketledger/backend/internal/httputil"
	"github.com/pocketledger/backend/internal/models"
	"github.com/pocketledger/backend/internal/query"
	"github.com/shopspring/decimal"
)

// RegisterStatsRoutes registers the routes for aggregate views with
// the RouterGroup that is passed.
func (co Controller) RegisterStatsRoutes(r *gin.RouterGroup) {
	r.OPTIONS("/balance", httputil.OptionsGet)
	r.GET("/balance", co.GetBalance)
	r.OPTIONS("/totals", httputil.OptionsGet)
	r.GET("/totals", co.GetTotals)
	r.OPTIONS("/categories", httputil.OptionsGet)
	r.GET("/categories", co.GetCategoryTotals)
}

type BalanceResponse struct {
	Balance decimal.Decimal `json:"balance"`
}

// GetBalance returns the sum of all wallet balances for the active user.
func (co Controller) GetBalance(c *gin.Context) {
	balance, err := co.Queries.TotalBalance(c.Request.Context())
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, BalanceResponse{Balance: balance})
}

type TotalsResponse struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// GetTotals returns income and expense sums, optionally restricted to an
// inclusive date range via from and until parameters.
func (co Controller) GetTotals(c *gin.Context) {
	r, err := bindRange(c)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	income, expense, err := co.Queries.Totals(c.Request.Context(), r)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, TotalsResponse{Income: income, Expense: expense})
}

// GetCategoryTotals returns per-category sums for one kind within the range,
// largest first.
func (co Controller) GetCategoryTotals(c *gin.Context) {
	kind := models.Kind(c.DefaultQuery("kind", string(models.Expense)))
	if !kind.Valid() {
		c.JSON(status(models.ErrKindInvalid), httpError{Error: models.ErrKindInvalid.Error()})
		return
	}

	r, err := bindRange(c)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	totals, err := co.Queries.CategoryTotals(c.Request.Context(), kind, r)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, totals)
}

func bindRange(c *gin.Context) (query.Range, error) {
	var r query.Range
	var err error

	r.From, err = httputil.ParseTime(c.Query("from"))
	if err != nil {
		return query.Range{}, err
	}

	r.Until, err = httputil.ParseUntil(c.Query("until"))
	if err != nil {
		return query.Range{}, err
	}

	return r, nil
}
