package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/joelyk/maison-du-parfum/internal/app/model"
	"github.com/joelyk/maison-du-parfum/internal/app/repository"
	"github.com/joelyk/maison-du-parfum/internal/events"
	"github.com/joelyk/maison-du-parfum/pkg/logger"
	"gorm.io/gorm"
)

// ShippingDetails is the contact snapshot copied onto the order.
type ShippingDetails struct {
	FirstName  string
	LastName   string
	Email      string
	Phone      string
	Address    string
	City       string
	PostalCode string
	Country    string
}

func (d ShippingDetails) normalized() ShippingDetails {
	return ShippingDetails{
		FirstName:  strings.TrimSpace(d.FirstName),
		LastName:   strings.TrimSpace(d.LastName),
		Email:      strings.ToLower(strings.TrimSpace(d.Email)),
		Phone:      strings.TrimSpace(d.Phone),
		Address:    strings.TrimSpace(d.Address),
		City:       strings.TrimSpace(d.City),
		PostalCode: strings.TrimSpace(d.PostalCode),
		Country:    strings.TrimSpace(d.Country),
	}
}

// Phone is optional.
func (d ShippingDetails) complete() bool {
	for _, v := range []string{d.FirstName, d.LastName, d.Email, d.Address, d.City, d.PostalCode, d.Country} {
		if v == "" {
			return false
		}
	}
	return true
}

type OrderService interface {
	Preview(ctx context.Context, sessionID string) (*CartView, error)
	PlaceOrder(ctx context.Context, sessionID string, userID *uint, details ShippingDetails) (*model.Order, error)
	ListUserOrders(ctx context.Context, userID uint) ([]model.Order, error)
	GetUserOrder(ctx context.Context, userID, orderID uint) (*model.Order, error)
}

// defaultPublishTimeout bounds the order-placed fan-out after commit.
const defaultPublishTimeout = 5 * time.Second

type orderService struct {
	cartRepo    repository.CartRepository
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	publisher   events.Publisher
	now         func() time.Time

	publishTimeout time.Duration
}

func NewOrderService(
	cartRepo repository.CartRepository,
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	publisher events.Publisher,
) OrderService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &orderService{
		cartRepo:    cartRepo,
		orderRepo:   orderRepo,
		productRepo: productRepo,
		publisher:   publisher,
		now:         time.Now,

		publishTimeout: defaultPublishTimeout,
	}
}

// Preview prices the cart for the checkout page. An empty cart is ErrEmptyCart.
func (s *orderService) Preview(ctx context.Context, sessionID string) (*CartView, error) {
	view, err := s.pricedCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(view.Lines) == 0 {
		return nil, ErrEmptyCart
	}
	return view, nil
}

// PlaceOrder converts the session cart into a pending order priced at current product prices.
// The order and its lines are written atomically. The cart is cleared only after the commit.
func (s *orderService) PlaceOrder(ctx context.Context, sessionID string, userID *uint, details ShippingDetails) (*model.Order, error) {
	details = details.normalized()

	view, err := s.pricedCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(view.Lines) == 0 {
		logger.Warn("Checkout rejected: cart is empty", logger.Fields{
			"user_id": userID,
		})
		return nil, ErrEmptyCart
	}
	if !details.complete() {
		return nil, ErrMissingFields
	}

	order := &model.Order{
		UserID:     userID,
		FirstName:  details.FirstName,
		LastName:   details.LastName,
		Email:      details.Email,
		Phone:      details.Phone,
		Address:    details.Address,
		City:       details.City,
		PostalCode: details.PostalCode,
		Country:    details.Country,
		Total:      view.Total,
		Status:     model.OrderStatusPending,
		Lines:      make([]model.OrderLine, 0, len(view.Lines)),
	}
	for _, line := range view.Lines {
		productID := line.ProductID
		order.Lines = append(order.Lines, model.OrderLine{
			ProductID:   &productID,
			ProductName: line.Name,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			Subtotal:    line.Subtotal,
		})
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		logger.Error("Failed to place order", err, logger.Fields{
			"user_id": userID,
		})
		return nil, err
	}

	// Order is committed at this point, so a clear failure is only logged.
	if err := s.cartRepo.Clear(ctx, sessionID); err != nil {
		logger.Error("Failed to clear cart after checkout", err, logger.Fields{
			"order_id": order.ID,
		})
	}

	s.publishPlaced(ctx, order)

	logger.Info("Order placed", logger.Fields{
		"order_id": order.ID,
		"user_id":  userID,
		"lines":    len(order.Lines),
		"total":    order.Total.StringFixed(2),
	})
	return order, nil
}

func (s *orderService) publishPlaced(ctx context.Context, order *model.Order) {
	event := events.OrderPlaced{
		Type:      events.TypeOrderPlaced,
		OrderID:   order.ID,
		UserID:    order.UserID,
		Email:     order.Email,
		Total:     order.Total,
		LineCount: len(order.Lines),
		PlacedAt:  s.now().UTC(),
	}
	ctx, cancel := context.WithTimeout(ctx, s.publishTimeout)
	defer cancel()

	if err := s.publisher.PublishOrderPlaced(ctx, event); err != nil {
		logger.Warn("Order event not delivered", logger.Fields{
			"order_id": order.ID,
			"error":    err.Error(),
		})
	}
}

func (s *orderService) ListUserOrders(ctx context.Context, userID uint) ([]model.Order, error) {
	return s.orderRepo.FindByUserID(ctx, userID)
}

// GetUserOrder hides orders owned by someone else behind ErrOrderNotFound.
func (s *orderService) GetUserOrder(ctx context.Context, userID, orderID uint) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if order.UserID == nil || *order.UserID != userID {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func (s *orderService) pricedCart(ctx context.Context, sessionID string) (*CartView, error) {
	cart, err := s.cartRepo.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	products, err := s.productRepo.FindByIDs(ctx, cart.ProductIDs())
	if err != nil {
		return nil, err
	}
	return priceCart(cart, products), nil
}
