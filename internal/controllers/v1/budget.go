package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pocketledger/backend/internal/httputil"
	"github.com/pocketledger/backend/internal/models"
	"github.com/pocketledger/backend/internal/session"
	"github.com/shopspring/decimal"
)

// RegisterBudgetRoutes registers the routes for budgets with
// the RouterGroup that is passed.
func (co Controller) RegisterBudgetRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", httputil.OptionsGetPost)
		r.GET("", co.GetBudgets)
		r.POST("", co.CreateBudget)
	}

	// Budget with ID
	{
		r.OPTIONS("/:id", httputil.OptionsGetPatchDelete)
		r.GET("/:id", co.GetBudget)
		r.PATCH("/:id", co.UpdateBudget)
		r.DELETE("/:id", co.DeleteBudget)
		r.GET("/:id/evaluation", co.EvaluateBudget)
	}
}

type BudgetEditable struct {
	CategoryID  uint64          `json:"categoryId"`
	Limit       decimal.Decimal `json:"limit" example:"200.00"`
	WindowStart time.Time       `json:"windowStart"`
	WindowEnd   time.Time       `json:"windowEnd"`
}

// CreateBudget creates a new budget for the active user.
func (co Controller) CreateBudget(c *gin.Context) {
	userID, err := session.UserID(c.Request.Context())
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	var editable BudgetEditable
	err = httputil.BindData(c, &editable)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	budget := models.Budget{
		UserID:      userID,
		CategoryID:  editable.CategoryID,
		Limit:       editable.Limit,
		WindowStart: editable.WindowStart,
		WindowEnd:   editable.WindowEnd,
	}

	err = co.DB.Create(&budget).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, budget)
}

// GetBudgets lists the active user's budgets. With active=true, only budgets
// whose window contains asOf (default now) are returned, ordered by window
// end.
func (co Controller) GetBudgets(c *gin.Context) {
	asOf, err := httputil.ParseTime(c.Query("asOf"))
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	if c.Query("active") == "true" {
		at := time.Now().In(time.UTC)
		if asOf != nil {
			at = *asOf
		}

		budgets, err := co.Queries.ActiveBudgets(c.Request.Context(), at)
		if err != nil {
			c.JSON(status(err), httpError{Error: err.Error()})
			return
		}

		c.JSON(http.StatusOK, budgets)
		return
	}

	budgets, err := co.Queries.Budgets(c.Request.Context())
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, budgets)
}

// GetBudget returns a specific budget.
func (co Controller) GetBudget(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	budget, err := co.Queries.Budget(c.Request.Context(), uri.ID)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, budget)
}

// UpdateBudget updates a budget.
func (co Controller) UpdateBudget(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	budget, err := co.Queries.Budget(c.Request.Context(), uri.ID)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	editable := BudgetEditable{
		CategoryID:  budget.CategoryID,
		Limit:       budget.Limit,
		WindowStart: budget.WindowStart,
		WindowEnd:   budget.WindowEnd,
	}

	err = httputil.BindData(c, &editable)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	err = co.DB.Model(&budget).Select("CategoryID", "Limit", "WindowStart", "WindowEnd").Updates(models.Budget{
		UserID:      budget.UserID,
		CategoryID:  editable.CategoryID,
		Limit:       editable.Limit,
		WindowStart: editable.WindowStart,
		WindowEnd:   editable.WindowEnd,
	}).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, budget)
}

// DeleteBudget deletes a budget. Budgets are not referenced by transactions,
// so no referential guard applies.
func (co Controller) DeleteBudget(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	budget, err := co.Queries.Budget(c.Request.Context(), uri.ID)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	err = co.DB.Delete(&budget).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

// EvaluateBudget computes spend against limit for a budget window. With the
// asOf parameter, the evaluation time can be set for reproducible results.
func (co Controller) EvaluateBudget(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	budget, err := co.Queries.Budget(c.Request.Context(), uri.ID)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	asOf := time.Now().In(time.UTC)
	parsed, err := httputil.ParseTime(c.Query("asOf"))
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}
	if parsed != nil {
		asOf = *parsed
	}

	evaluation, err := budget.Evaluate(co.DB, asOf)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, evaluation)
}
