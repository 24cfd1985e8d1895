package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the JSON body of every storefront error.
// LoginURL is only set when a guarded route turns the visitor away.
type ErrorResponse struct {
	Error    string `json:"error"`
	Message  string `json:"message"`
	LoginURL string `json:"login_url,omitempty"`
}

const (
	msgLoginRequired = "Veuillez vous connecter pour continuer"
	msgInternal      = "Une erreur est survenue. Veuillez réessayer plus tard"
)

func RespondWithError(c *gin.Context, statusCode int, errorCode string, message string) {
	c.JSON(statusCode, ErrorResponse{
		Error:   errorCode,
		Message: message,
	})
}

func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = msgLoginRequired
	}
	RespondWithError(c, http.StatusUnauthorized, AuthUnauthorized, message)
}

// LoginRequired aborts with 401 and points the client at the login page,
// loginURL already carrying the ?next= return path.
func LoginRequired(c *gin.Context, loginURL string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
		Error:    AuthUnauthorized,
		Message:  msgLoginRequired,
		LoginURL: loginURL,
	})
}

// BadRequest covers form and query problems caught before any service call.
func BadRequest(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusBadRequest, errorCode, message)
}

// InternalError never echoes the cause; handlers log it first.
func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = msgInternal
	}
	RespondWithError(c, http.StatusInternalServerError, InternalServerError, message)
}
