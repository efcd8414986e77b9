package controllers

import (
	"errors"
	"net/http"
	"os"
	"strconv"

	"Postline/auth"
	"Postline/models"
	"Postline/security"
	"Postline/utils/formaterror"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// LoginForm is the anonymous landing spot for gated pages; the next param
// carries the page the visitor was heading to.
func (server *Server) LoginForm(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": http.StatusOK,
		"response": gin.H{
			"message": "Please log in to continue",
			"next":    c.Query("next"),
		},
	})
}

// Login authenticates the user, sets the session cookie and returns the
// token. Browser flows ride the cookie; API clients use the bearer token.
func (server *Server) Login(c *gin.Context) {
	user := models.User{}
	var payload struct {
		Email    string `json:"email" form:"email"`
		Password string `json:"password" form:"password"`
	}

	if err := c.ShouldBind(&payload); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  map[string]string{"Invalid_body": "Invalid request body"},
		})
		return
	}
	user.Email = payload.Email
	user.Password = payload.Password

	user.Prepare()
	errorMessages := user.Validate("login")
	if len(errorMessages) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  errorMessages,
		})
		return
	}

	userData, err := server.SignIn(user.Email, payload.Password)
	if err != nil {
		formattedError := formaterror.FormatError(err.Error())
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  formattedError,
		})
		return
	}

	cookieMaxAge := 60 * 60 // matches token lifetime
	secureCookie := os.Getenv("APP_ENV") == "production"
	c.SetCookie(auth.SessionCookieName, userData["token"].(string), cookieMaxAge, "/", "", secureCookie, true)

	// Form logins go back where they came from; API logins read the token.
	if next := c.Query("next"); next != "" {
		c.Redirect(http.StatusFound, next)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": userData,
	})
}

// SignIn verifies the credentials and mints a token.
func (server *Server) SignIn(email, password string) (map[string]interface{}, error) {
	userData := make(map[string]interface{})

	user := models.User{}
	err := server.DB.Model(models.User{}).Where("email = ?", email).Take(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("Incorrect details")
		}
		return nil, err
	}

	err = security.VerifyPassword(user.Password, password)
	if err != nil && errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return nil, errors.New("Incorrect details")
	}
	if err != nil {
		return nil, err
	}

	token, err := auth.CreateToken(user.ID)
	if err != nil {
		return nil, err
	}

	userData["token"] = token
	userData["id"] = strconv.FormatUint(uint64(user.ID), 10)
	userData["username"] = user.Username
	userData["email"] = user.Email
	return userData, nil
}

// Logout clears the session cookie.
func (server *Server) Logout(c *gin.Context) {
	c.SetCookie(auth.SessionCookieName, "", -1, "/", "", false, true)
	c.Redirect(http.StatusFound, "/")
}
