package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pocketledger/backend/internal/httputil"
	"github.com/pocketledger/backend/internal/models"
	"github.com/pocketledger/backend/internal/session"
	"github.com/shopspring/decimal"
)

// RegisterWalletRoutes registers the routes for wallets with
// the RouterGroup that is passed.
func (co Controller) RegisterWalletRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", httputil.OptionsGetPost)
		r.GET("", co.GetWallets)
		r.POST("", co.CreateWallet)
	}

	// Wallet with ID
	{
		r.OPTIONS("/:id", httputil.OptionsGetPatchDelete)
		r.GET("/:id", co.GetWallet)
		r.PATCH("/:id", co.UpdateWallet)
		r.DELETE("/:id", co.DeleteWallet)
	}
}

type WalletEditable struct {
	Name  string `json:"name" example:"Cash"`
	Icon  string `json:"icon" example:"wallet"`
	Color string `json:"color" example:"#4CAF50"`
}

type WalletCreate struct {
	WalletEditable
	InitialBalance decimal.Decimal `json:"initialBalance" example:"100.00"`
}

// CreateWallet creates a new wallet for the active user.
//
// The initial balance seeds the cached balance once; afterwards the balance
// only changes through the ledger engine.
func (co Controller) CreateWallet(c *gin.Context) {
	userID, err := session.UserID(c.Request.Context())
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	var create WalletCreate
	err = httputil.BindData(c, &create)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	wallet := models.Wallet{
		UserID:         userID,
		Name:           create.Name,
		Icon:           create.Icon,
		Color:          create.Color,
		InitialBalance: create.InitialBalance,
	}

	err = co.DB.Create(&wallet).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, wallet)
}

// GetWallets lists the active user's wallets.
func (co Controller) GetWallets(c *gin.Context) {
	wallets, err := co.Queries.Wallets(c.Request.Context())
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, wallets)
}

// GetWallet returns a specific wallet.
func (co Controller) GetWallet(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	wallet, err := co.Queries.Wallet(c.Request.Context(), uri.ID)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, wallet)
}

// UpdateWallet updates display metadata of a wallet. The balance is derived
// state and cannot be edited here.
func (co Controller) UpdateWallet(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	wallet, err := co.Queries.Wallet(c.Request.Context(), uri.ID)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	// Prefilling with the current values makes the update partial: fields
	// absent from the body keep their value.
	editable := WalletEditable{
		Name:  wallet.Name,
		Icon:  wallet.Icon,
		Color: wallet.Color,
	}

	err = httputil.BindData(c, &editable)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	err = co.DB.Model(&wallet).Select("Name", "Icon", "Color").Updates(models.Wallet{
		Name:  editable.Name,
		Icon:  editable.Icon,
		Color: editable.Color,
	}).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, wallet)
}

// DeleteWallet deletes a wallet. Deletion is refused while transactions
// still reference it.
func (co Controller) DeleteWallet(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	wallet, err := co.Queries.Wallet(c.Request.Context(), uri.ID)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	err = co.DB.Delete(&wallet).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
