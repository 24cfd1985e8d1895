package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError turns a storage error into a code and a message that leaks no internals.
// context names the resource or action, e.g. "product" or "create order".
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{Code: InternalServerError, Message: "Une erreur est survenue"}
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{Code: ResourceNotFound, Message: notFoundMessage(context)}
	}

	errLower := strings.ToLower(err.Error())
	if errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(errLower, "duplicate key") ||
		strings.Contains(errLower, "unique constraint") {
		if strings.Contains(errLower, "email") {
			return ErrorInfo{Code: AuthEmailAlreadyExists, Message: "Cette adresse e-mail est déjà utilisée"}
		}
		return ErrorInfo{Code: ResourceAlreadyExists, Message: "Cet élément existe déjà"}
	}

	if strings.Contains(errLower, "check constraint") && strings.Contains(errLower, "rating") {
		return ErrorInfo{Code: ReviewInvalidRating, Message: "La note doit être comprise entre 1 et 5"}
	}

	return ErrorInfo{Code: InternalServerError, Message: defaultMessage(context)}
}

func notFoundMessage(context string) string {
	contextLower := strings.ToLower(context)
	switch {
	case strings.Contains(contextLower, "product"):
		return "Produit introuvable"
	case strings.Contains(contextLower, "order"):
		return "Commande introuvable"
	case strings.Contains(contextLower, "user"):
		return "Utilisateur introuvable"
	case strings.Contains(contextLower, "review"):
		return "Avis introuvable"
	}
	return "Élément introuvable"
}

func defaultMessage(context string) string {
	contextLower := strings.ToLower(context)
	switch {
	case strings.Contains(contextLower, "create"):
		return "Erreur lors de l'enregistrement. Veuillez réessayer plus tard"
	case strings.Contains(contextLower, "update"):
		return "Erreur lors de la modification. Veuillez réessayer plus tard"
	case strings.Contains(contextLower, "delete"):
		return "Erreur lors de la suppression. Veuillez réessayer plus tard"
	}
	return "Une erreur est survenue. Veuillez réessayer plus tard"
}

// ParseAndRespond parses err and writes it with the given status.
func ParseAndRespond(c interface{ JSON(int, interface{}) }, statusCode int, err error, context string) {
	info := ParseError(err, context)
	c.JSON(statusCode, ErrorResponse{
		Error:   info.Code,
		Message: info.Message,
	})
}
