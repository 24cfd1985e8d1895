package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joelyk/maison-du-parfum/internal/app/service"
	apperrors "github.com/joelyk/maison-du-parfum/internal/errors"
	"github.com/joelyk/maison-du-parfum/internal/middleware"
)

type ProductController struct {
	catalogService service.CatalogService
}

func NewProductController(catalogService service.CatalogService) *ProductController {
	return &ProductController{
		catalogService: catalogService,
	}
}

type SubmitReviewRequest struct {
	Rating  *int   `json:"rating" form:"rating" binding:"required"`
	Comment string `json:"comment" form:"comment"`
}

// Home returns the home page highlights
// GET /api/v1/home
func (ctrl *ProductController) Home(c *gin.Context) {
	highlights, err := ctrl.catalogService.Highlights(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Load highlights")
		return
	}
	c.JSON(http.StatusOK, highlights)
}

// ListProducts returns the catalog, optionally filtered by exact category
// GET /api/v1/products?category=
func (ctrl *ProductController) ListProducts(c *gin.Context) {
	listing, err := ctrl.catalogService.List(c.Request.Context(), c.Query("category"))
	if err != nil {
		respondServiceError(c, err, "List products")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products":   listing.Products,
		"categories": listing.Categories,
		"category":   listing.Category,
		"count":      len(listing.Products),
	})
}

// GetProduct returns one product with similar products and reviews
// GET /api/v1/products/:id
func (ctrl *ProductController) GetProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var viewerID *uint
	if userID, ok := middleware.GetUserID(c); ok {
		viewerID = &userID
	}

	detail, err := ctrl.catalogService.Detail(c.Request.Context(), id, viewerID)
	if err != nil {
		respondServiceError(c, err, "Get product")
		return
	}
	c.JSON(http.StatusOK, detail)
}

// SubmitReview creates or replaces the current user's review
// POST /api/v1/products/:id/reviews
func (ctrl *ProductController) SubmitReview(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	var req SubmitReviewRequest
	if err := c.ShouldBind(&req); err != nil {
		log.Warn("Invalid review request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ReviewInvalidRating, "Veuillez choisir une note")
		return
	}

	review, err := ctrl.catalogService.SubmitReview(c.Request.Context(), id, userID, *req.Rating, req.Comment)
	if err != nil {
		respondServiceError(c, err, "Submit review")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Merci pour votre avis",
		"review":  review,
	})
}
