package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joelyk/maison-du-parfum/internal/app/service"
	apperrors "github.com/joelyk/maison-du-parfum/internal/errors"
	"github.com/joelyk/maison-du-parfum/internal/middleware"
)

type OrderController struct {
	orderService service.OrderService
}

func NewOrderController(orderService service.OrderService) *OrderController {
	return &OrderController{
		orderService: orderService,
	}
}

type CheckoutRequest struct {
	FirstName  string `json:"first_name" form:"first_name"`
	LastName   string `json:"last_name" form:"last_name"`
	Email      string `json:"email" form:"email"`
	Phone      string `json:"phone" form:"phone"`
	Address    string `json:"address" form:"address"`
	City       string `json:"city" form:"city"`
	PostalCode string `json:"postal_code" form:"postal_code"`
	Country    string `json:"country" form:"country"`
}

func (r CheckoutRequest) details() service.ShippingDetails {
	return service.ShippingDetails{
		FirstName:  r.FirstName,
		LastName:   r.LastName,
		Email:      r.Email,
		Phone:      r.Phone,
		Address:    r.Address,
		City:       r.City,
		PostalCode: r.PostalCode,
		Country:    r.Country,
	}
}

// Preview returns the cart to confirm with a shipping form prefilled from the session
// GET /api/v1/checkout
func (ctrl *OrderController) Preview(c *gin.Context) {
	view, err := ctrl.orderService.Preview(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		respondServiceError(c, err, "Checkout preview")
		return
	}

	data := middleware.GetSession(c)
	c.JSON(http.StatusOK, gin.H{
		"lines": view.Lines,
		"total": view.Total.StringFixed(2),
		"shipping": CheckoutRequest{
			FirstName: data.UserFirstName,
			Email:     data.UserEmail,
		},
	})
}

// PlaceOrder turns the session cart into an order
// POST /api/v1/checkout
func (ctrl *OrderController) PlaceOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	var req CheckoutRequest
	if err := c.ShouldBind(&req); err != nil {
		log.Warn("Invalid checkout request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Formulaire de livraison invalide")
		return
	}

	order, err := ctrl.orderService.PlaceOrder(c.Request.Context(), middleware.GetSessionID(c), &userID, req.details())
	if err != nil {
		respondServiceError(c, err, "Place order")
		return
	}

	log.Info("Order placed", map[string]interface{}{
		"order_id": order.ID,
		"user_id":  userID,
	})
	c.JSON(http.StatusCreated, gin.H{
		"message": "Merci pour votre commande",
		"order":   order,
	})
}
