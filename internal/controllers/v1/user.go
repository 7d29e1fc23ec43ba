package v1

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pocketledger/backend/internal/httputil"
	"github.com/pocketledger/backend/internal/models"
	"github.com/pocketledger/backend/internal/session"
)

// RegisterUserRoutes registers the routes for user accounts with the
// RouterGroup that is passed.
func (co Controller) RegisterUserRoutes(r *gin.RouterGroup) {
	r.OPTIONS("/register", httputil.OptionsPost)
	r.POST("/register", co.RegisterUser)
	r.OPTIONS("/login", httputil.OptionsPost)
	r.POST("/login", co.Login)
	r.OPTIONS("/logout", httputil.OptionsPost)
	r.POST("/logout", co.Logout)
	r.OPTIONS("/me", httputil.OptionsGet)
	r.GET("/me", co.GetMe)
}

type UserEditable struct {
	Name     string `json:"name" example:"An Nguyen"`
	Email    string `json:"email" binding:"required" example:"an@example.com"`
	Password string `json:"password" binding:"required"`
}

// RegisterUser creates a new user account with a hashed password credential.
func (co Controller) RegisterUser(c *gin.Context) {
	var editable UserEditable
	err := httputil.BindData(c, &editable)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	user := models.User{
		Name:  editable.Name,
		Email: editable.Email,
	}

	err = user.SetPassword(editable.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, httpError{Error: models.ErrGeneral.Error()})
		return
	}

	err = co.DB.Create(&user).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, user)
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login verifies the credentials and flags the user as logged in.
//
// Flipping the flag clears it on every other user in the same atomic unit,
// so at most one user is ever logged in.
func (co Controller) Login(c *gin.Context) {
	var request LoginRequest
	err := httputil.BindData(c, &request)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	var user models.User
	email := strings.ToLower(strings.TrimSpace(request.Email))
	err = co.DB.Where(&models.User{Email: email}).First(&user).Error
	if err != nil || !user.CheckPassword(request.Password) {
		// Do not leak whether the email exists
		c.JSON(status(models.ErrCredentialsWrong), httpError{Error: models.ErrCredentialsWrong.Error()})
		return
	}

	err = session.Activate(co.DB, user.ID)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	user.LoggedIn = true
	c.JSON(http.StatusOK, user)
}

// Logout clears the logged-in flag on all users.
func (co Controller) Logout(c *gin.Context) {
	err := session.Deactivate(co.DB)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

// GetMe returns the active user.
func (co Controller) GetMe(c *gin.Context) {
	userID, err := session.UserID(c.Request.Context())
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	var user models.User
	err = co.DB.First(&user, userID).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, user)
}
