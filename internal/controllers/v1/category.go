package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pocketledger/backend/internal/httputil"
	"github.com/pocketledger/backend/internal/models"
	"github.com/pocketledger/backend/internal/session"
)

// RegisterCategoryRoutes registers the routes for categories with
// the RouterGroup that is passed.
func (co Controller) RegisterCategoryRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", httputil.OptionsGetPost)
		r.GET("", co.GetCategories)
		r.POST("", co.CreateCategory)
	}

	// Category with ID
	{
		r.OPTIONS("/:id", httputil.OptionsGetPatchDelete)
		r.GET("/:id", co.GetCategory)
		r.PATCH("/:id", co.UpdateCategory)
		r.DELETE("/:id", co.DeleteCategory)
	}
}

type CategoryEditable struct {
	Name string      `json:"name" example:"Groceries"`
	Kind models.Kind `json:"kind" example:"expense"`
}

// CreateCategory creates a new category for the active user.
func (co Controller) CreateCategory(c *gin.Context) {
	userID, err := session.UserID(c.Request.Context())
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	var editable CategoryEditable
	err = httputil.BindData(c, &editable)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	category := models.Category{
		UserID: userID,
		Name:   editable.Name,
		Kind:   editable.Kind,
	}

	err = co.DB.Create(&category).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, category)
}

// GetCategories lists the active user's categories, optionally filtered by
// kind.
func (co Controller) GetCategories(c *gin.Context) {
	kind := models.Kind(c.Query("kind"))
	if kind != "" && !kind.Valid() {
		c.JSON(status(models.ErrKindInvalid), httpError{Error: models.ErrKindInvalid.Error()})
		return
	}

	categories, err := co.Queries.Categories(c.Request.Context(), kind)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, categories)
}

// GetCategory returns a specific category.
func (co Controller) GetCategory(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	category, err := co.Queries.Category(c.Request.Context(), uri.ID)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, category)
}

// UpdateCategory updates a category. Changing the kind is refused while
// transactions reference the category.
func (co Controller) UpdateCategory(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	category, err := co.Queries.Category(c.Request.Context(), uri.ID)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	editable := CategoryEditable{
		Name: category.Name,
		Kind: category.Kind,
	}

	err = httputil.BindData(c, &editable)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	if !editable.Kind.Valid() {
		c.JSON(status(models.ErrKindInvalid), httpError{Error: models.ErrKindInvalid.Error()})
		return
	}

	err = co.DB.Model(&category).Select("Name", "Kind").Updates(models.Category{
		Name: editable.Name,
		Kind: editable.Kind,
	}).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, category)
}

// DeleteCategory deletes a category. Deletion is refused while transactions
// still reference it.
func (co Controller) DeleteCategory(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	category, err := co.Queries.Category(c.Request.Context(), uri.ID)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	err = co.DB.Delete(&category).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
