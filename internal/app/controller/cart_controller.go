package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joelyk/maison-du-parfum/internal/app/service"
	apperrors "github.com/joelyk/maison-du-parfum/internal/errors"
	"github.com/joelyk/maison-du-parfum/internal/middleware"
)

type CartController struct {
	cartService service.CartService
}

func NewCartController(cartService service.CartService) *CartController {
	return &CartController{
		cartService: cartService,
	}
}

type AddToCartRequest struct {
	ProductID uint `json:"product_id" form:"product_id" binding:"required"`
	Quantity  *int `json:"quantity" form:"quantity"`
}

type UpdateCartRequest struct {
	Quantity *int `json:"quantity" form:"quantity" binding:"required"`
}

// GetCart returns the priced session cart
// GET /api/v1/cart
func (ctrl *CartController) GetCart(c *gin.Context) {
	view, err := ctrl.cartService.View(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		respondServiceError(c, err, "View cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"lines": view.Lines,
		"total": view.Total.StringFixed(2),
		"count": len(view.Lines),
	})
}

// Count returns the number of distinct products in the cart
// GET /api/v1/cart/count
func (ctrl *CartController) Count(c *gin.Context) {
	count, err := ctrl.cartService.Count(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		respondServiceError(c, err, "Count cart")
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

// AddItem adds a product; quantity defaults to 1
// POST /api/v1/cart/items
func (ctrl *CartController) AddItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req AddToCartRequest
	if err := c.ShouldBind(&req); err != nil {
		log.Warn("Invalid add to cart request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Produit invalide")
		return
	}

	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	count, err := ctrl.cartService.Add(c.Request.Context(), middleware.GetSessionID(c), req.ProductID, quantity)
	if err != nil {
		respondServiceError(c, err, "Add to cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Produit ajouté au panier",
		"count":   count,
	})
}

// UpdateItem sets a line quantity; zero or less removes the line
// PUT /api/v1/cart/items/:id
func (ctrl *CartController) UpdateItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateCartRequest
	if err := c.ShouldBind(&req); err != nil {
		log.Warn("Invalid cart update request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.CartInvalidQuantity, "Quantité invalide")
		return
	}

	if err := ctrl.cartService.SetQuantity(c.Request.Context(), middleware.GetSessionID(c), productID, *req.Quantity); err != nil {
		respondServiceError(c, err, "Update cart")
		return
	}
	ctrl.GetCart(c)
}

// RemoveItem drops a product from the cart
// DELETE /api/v1/cart/items/:id
func (ctrl *CartController) RemoveItem(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.cartService.Remove(c.Request.Context(), middleware.GetSessionID(c), productID); err != nil {
		respondServiceError(c, err, "Remove from cart")
		return
	}
	ctrl.GetCart(c)
}
