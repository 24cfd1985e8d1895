package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/joelyk/maison-du-parfum/internal/app/service"
	apperrors "github.com/joelyk/maison-du-parfum/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestRespondServiceError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"missing fields", service.ErrMissingFields, http.StatusBadRequest, apperrors.ValidationRequired},
		{"wrapped rating", fmt.Errorf("submit: %w", service.ErrInvalidRating), http.StatusBadRequest, apperrors.ReviewInvalidRating},
		{"empty cart", service.ErrEmptyCart, http.StatusBadRequest, apperrors.CartEmpty},
		{"duplicate email", service.ErrEmailAlreadyExists, http.StatusConflict, apperrors.AuthEmailAlreadyExists},
		{"bad credentials", service.ErrInvalidCredentials, http.StatusUnauthorized, apperrors.AuthInvalidCredentials},
		{"product not found", service.ErrProductNotFound, http.StatusNotFound, apperrors.ProductNotFound},
		{"order not found", service.ErrOrderNotFound, http.StatusNotFound, apperrors.OrderNotFound},
		{"storage failure", errors.New("disk full"), http.StatusInternalServerError, apperrors.InternalServerError},
		{"unmapped gorm error", gorm.ErrRecordNotFound, http.StatusInternalServerError, apperrors.ResourceNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			respondServiceError(c, tt.err, "Test action")

			assert.Equal(t, tt.wantStatus, w.Code)
			var body apperrors.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body.Error)
			assert.NotEmpty(t, body.Message)
			assert.NotContains(t, body.Message, "disk full")
		})
	}
}

func TestParseIDParam(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/items/:id", func(c *gin.Context) {
		id, ok := parseIDParam(c, "id")
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": id})
	})

	for path, want := range map[string]int{
		"/items/12":  http.StatusOK,
		"/items/0":   http.StatusBadRequest,
		"/items/-3":  http.StatusBadRequest,
		"/items/abc": http.StatusBadRequest,
	} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, want, w.Code, path)
	}
}

func TestSafeNext(t *testing.T) {
	assert.Equal(t, "/account", safeNext("/account", "/"))
	assert.Equal(t, "/", safeNext("", "/"))
	assert.Equal(t, "/", safeNext("https://evil.example.com", "/"))
	assert.Equal(t, "/", safeNext("//evil.example.com", "/"))
	assert.Equal(t, "/admin", safeNext(`/\evil.example.com`, "/admin"))
}
