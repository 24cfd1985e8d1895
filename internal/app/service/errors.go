package service

import (
	"errors"
	"fmt"
	"io"

	"github.com/joelyk/maison-du-parfum/internal/app/model"
)

// Error kinds. Every error a service returns on bad input wraps exactly one of these.
var (
	ErrValidation = errors.New("validation error")
	ErrConflict   = errors.New("conflict")
	ErrAuth       = errors.New("authentication failed")
	ErrNotFound   = errors.New("not found")
)

var (
	ErrMissingFields           = fmt.Errorf("%w: required field is blank", ErrValidation)
	ErrPasswordMismatch        = fmt.Errorf("%w: passwords do not match", ErrValidation)
	ErrInvalidQuantity         = fmt.Errorf("%w: quantity must be between 1 and %d", ErrValidation, model.MaxLineQuantity)
	ErrInvalidRating           = fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	ErrInvalidPrice            = fmt.Errorf("%w: price must be a non-negative number", ErrValidation)
	ErrInvalidStock            = fmt.Errorf("%w: stock must be a non-negative integer", ErrValidation)
	ErrInvalidStatus           = fmt.Errorf("%w: unknown order status", ErrValidation)
	ErrInvalidStatusTransition = fmt.Errorf("%w: order status transition not allowed", ErrValidation)
	ErrEmptyCart               = fmt.Errorf("%w: cart is empty", ErrValidation)

	ErrEmailAlreadyExists = fmt.Errorf("%w: email already in use", ErrConflict)

	ErrInvalidCredentials = fmt.Errorf("%w: invalid email or password", ErrAuth)
	ErrInvalidAdminLogin  = fmt.Errorf("%w: invalid admin credentials", ErrAuth)

	ErrProductNotFound = fmt.Errorf("%w: product", ErrNotFound)
	ErrUserNotFound    = fmt.Errorf("%w: user", ErrNotFound)
	ErrOrderNotFound   = fmt.Errorf("%w: order", ErrNotFound)
)

// ImageUpload is an uploaded file as received from the client.
type ImageUpload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}
