package service

import (
	"context"
	"errors"

	"github.com/joelyk/maison-du-parfum/internal/app/model"
	"github.com/joelyk/maison-du-parfum/internal/app/repository"
	"github.com/joelyk/maison-du-parfum/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CartLine is one priced cart entry.
type CartLine struct {
	ProductID        uint            `json:"id"`
	Name             string          `json:"name"`
	Image            *string         `json:"image,omitempty"`
	ShortDescription *string         `json:"short_description,omitempty"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	Quantity         int             `json:"quantity"`
	Subtotal         decimal.Decimal `json:"subtotal"`
}

type CartView struct {
	Lines []CartLine      `json:"lines"`
	Total decimal.Decimal `json:"total"`
}

type CartService interface {
	Add(ctx context.Context, sessionID string, productID uint, quantity int) (int, error)
	SetQuantity(ctx context.Context, sessionID string, productID uint, quantity int) error
	Remove(ctx context.Context, sessionID string, productID uint) error
	View(ctx context.Context, sessionID string) (*CartView, error)
	Count(ctx context.Context, sessionID string) (int, error)
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// Add increments the entry for productID and returns the new distinct-entry count.
// Stock is not checked, but the summed quantity may not exceed model.MaxLineQuantity.
func (s *cartService) Add(ctx context.Context, sessionID string, productID uint, quantity int) (int, error) {
	if quantity <= 0 || quantity > model.MaxLineQuantity {
		return 0, ErrInvalidQuantity
	}

	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cannot add to cart: product not found", logger.Fields{
				"product_id": productID,
			})
			return 0, ErrProductNotFound
		}
		return 0, err
	}

	cart, err := s.cartRepo.Load(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	if cart.Quantity(productID)+quantity > model.MaxLineQuantity {
		logger.Warn("Cannot add to cart: quantity above limit", logger.Fields{
			"product_id": productID,
			"quantity":   quantity,
		})
		return 0, ErrInvalidQuantity
	}
	cart = cart.Add(productID, quantity)
	if err := s.cartRepo.Save(ctx, sessionID, cart); err != nil {
		return 0, err
	}

	logger.Info("Item added to cart", logger.Fields{
		"product_id": productID,
		"quantity":   quantity,
		"entries":    cart.Count(),
	})
	return cart.Count(), nil
}

func (s *cartService) SetQuantity(ctx context.Context, sessionID string, productID uint, quantity int) error {
	if quantity > model.MaxLineQuantity {
		return ErrInvalidQuantity
	}
	cart, err := s.cartRepo.Load(ctx, sessionID)
	if err != nil {
		return err
	}
	if err := s.cartRepo.Save(ctx, sessionID, cart.SetQuantity(productID, quantity)); err != nil {
		return err
	}

	logger.Info("Cart quantity updated", logger.Fields{
		"product_id": productID,
		"quantity":   quantity,
	})
	return nil
}

func (s *cartService) Remove(ctx context.Context, sessionID string, productID uint) error {
	cart, err := s.cartRepo.Load(ctx, sessionID)
	if err != nil {
		return err
	}
	if err := s.cartRepo.Save(ctx, sessionID, cart.Remove(productID)); err != nil {
		return err
	}

	logger.Info("Item removed from cart", logger.Fields{
		"product_id": productID,
	})
	return nil
}

func (s *cartService) View(ctx context.Context, sessionID string) (*CartView, error) {
	cart, err := s.cartRepo.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	products, err := s.productRepo.FindByIDs(ctx, cart.ProductIDs())
	if err != nil {
		return nil, err
	}

	view := priceCart(cart, products)
	logger.Debug("Cart priced", logger.Fields{
		"entries": len(cart),
		"lines":   len(view.Lines),
		"total":   view.Total.StringFixed(2),
	})
	return view, nil
}

func (s *cartService) Count(ctx context.Context, sessionID string) (int, error) {
	cart, err := s.cartRepo.Load(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	return cart.Count(), nil
}

// priceCart prices every entry whose product is still live at its current price.
// Entries for deleted products are dropped without affecting the total.
func priceCart(cart model.Cart, products map[uint]model.Product) *CartView {
	view := &CartView{Lines: make([]CartLine, 0, len(cart)), Total: decimal.Zero}
	for _, entry := range cart {
		product, ok := products[entry.ProductID]
		if !ok {
			continue
		}
		subtotal := product.Price.Mul(decimal.NewFromInt(int64(entry.Quantity)))
		view.Lines = append(view.Lines, CartLine{
			ProductID:        product.ID,
			Name:             product.Name,
			Image:            product.Image,
			ShortDescription: product.ShortDescription,
			UnitPrice:        product.Price,
			Quantity:         entry.Quantity,
			Subtotal:         subtotal,
		})
		view.Total = view.Total.Add(subtotal)
	}
	return view
}
