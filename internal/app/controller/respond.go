package controller

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/joelyk/maison-du-parfum/internal/app/service"
	apperrors "github.com/joelyk/maison-du-parfum/internal/errors"
	"github.com/joelyk/maison-du-parfum/internal/middleware"
)

type serviceErrorMapping struct {
	err     error
	status  int
	code    string
	message string
}

// Checked in order; the first errors.Is match wins.
var serviceErrors = []serviceErrorMapping{
	{service.ErrMissingFields, http.StatusBadRequest, apperrors.ValidationRequired, "Veuillez remplir tous les champs obligatoires"},
	{service.ErrPasswordMismatch, http.StatusBadRequest, apperrors.AuthPasswordMismatch, "Les mots de passe ne correspondent pas"},
	{service.ErrInvalidQuantity, http.StatusBadRequest, apperrors.CartInvalidQuantity, "La quantité doit être comprise entre 1 et 999"},
	{service.ErrInvalidRating, http.StatusBadRequest, apperrors.ReviewInvalidRating, "La note doit être comprise entre 1 et 5"},
	{service.ErrInvalidPrice, http.StatusBadRequest, apperrors.ValidationInvalidPrice, "Le prix doit être un nombre positif"},
	{service.ErrInvalidStock, http.StatusBadRequest, apperrors.ValidationInvalidStock, "Le stock doit être un entier positif"},
	{service.ErrInvalidStatus, http.StatusBadRequest, apperrors.OrderInvalidStatus, "Statut de commande inconnu"},
	{service.ErrInvalidStatusTransition, http.StatusBadRequest, apperrors.OrderInvalidTransition, "Changement de statut impossible"},
	{service.ErrEmptyCart, http.StatusBadRequest, apperrors.CartEmpty, "Votre panier est vide"},
	{service.ErrEmailAlreadyExists, http.StatusConflict, apperrors.AuthEmailAlreadyExists, "Cette adresse e-mail est déjà utilisée"},
	{service.ErrInvalidCredentials, http.StatusUnauthorized, apperrors.AuthInvalidCredentials, "E-mail ou mot de passe incorrect"},
	{service.ErrInvalidAdminLogin, http.StatusUnauthorized, apperrors.AuthInvalidCredentials, "Identifiants administrateur incorrects"},
	{service.ErrProductNotFound, http.StatusNotFound, apperrors.ProductNotFound, "Produit introuvable"},
	{service.ErrUserNotFound, http.StatusNotFound, apperrors.UserNotFound, "Utilisateur introuvable"},
	{service.ErrOrderNotFound, http.StatusNotFound, apperrors.OrderNotFound, "Commande introuvable"},
}

// respondServiceError writes the reply for a service error. Unknown errors are logged and become 500.
func respondServiceError(c *gin.Context, err error, action string) {
	log := middleware.GetLoggerFromContext(c)

	for _, m := range serviceErrors {
		if errors.Is(err, m.err) {
			log.Warn(action+" rejected", map[string]interface{}{
				"error": err.Error(),
			})
			apperrors.RespondWithError(c, m.status, m.code, m.message)
			return
		}
	}

	log.Error(action+" failed", err)
	apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, action)
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		middleware.GetLoggerFromContext(c).Warn("Invalid id parameter", map[string]interface{}{
			name: raw,
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Identifiant invalide")
		return 0, false
	}
	return uint(id), true
}

// formValue returns nil when the field was not submitted at all.
func formValue(c *gin.Context, key string) *string {
	if v, ok := c.GetPostForm(key); ok {
		return &v
	}
	return nil
}

// imageUpload opens the named multipart file. It returns nil when no file was sent;
// the caller closes the returned file.
func imageUpload(c *gin.Context, field string) (*service.ImageUpload, multipart.File, error) {
	header, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil, nil
		}
		return nil, nil, err
	}
	if header.Filename == "" {
		return nil, nil, nil
	}

	file, err := header.Open()
	if err != nil {
		return nil, nil, err
	}
	return &service.ImageUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Body:        file,
	}, file, nil
}

// safeNext keeps post-login redirects on this site.
func safeNext(next, fallback string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, `\`) {
		return fallback
	}
	return next
}
