package service

import (
	"context"
	"errors"
	"strings"

	"github.com/joelyk/maison-du-parfum/internal/app/model"
	"github.com/joelyk/maison-du-parfum/internal/app/repository"
	"github.com/joelyk/maison-du-parfum/pkg/logger"
	"gorm.io/gorm"
)

const (
	highlightSize = 4
	similarLimit  = 4
)

type Highlights struct {
	Newest      []model.Product `json:"newest"`
	Bestsellers []model.Product `json:"bestsellers"`
}

type ProductListing struct {
	Products   []model.Product `json:"products"`
	Categories []string        `json:"categories"`
	Category   string          `json:"category"`
}

// ReviewSummary carries a nil Average when there are no reviews.
type ReviewSummary struct {
	Count   int      `json:"count"`
	Average *float64 `json:"average"`
}

type ProductDetail struct {
	Product   model.Product   `json:"product"`
	Similar   []model.Product `json:"similar"`
	Reviews   []model.Review  `json:"reviews"`
	Summary   ReviewSummary   `json:"summary"`
	OwnReview *model.Review   `json:"own_review,omitempty"`
}

type CatalogService interface {
	Highlights(ctx context.Context) (*Highlights, error)
	List(ctx context.Context, category string) (*ProductListing, error)
	Detail(ctx context.Context, productID uint, viewerID *uint) (*ProductDetail, error)
	SubmitReview(ctx context.Context, productID, userID uint, rating int, comment string) (*model.Review, error)
}

type catalogService struct {
	productRepo repository.ProductRepository
	reviewRepo  repository.ReviewRepository
}

func NewCatalogService(productRepo repository.ProductRepository, reviewRepo repository.ReviewRepository) CatalogService {
	return &catalogService{
		productRepo: productRepo,
		reviewRepo:  reviewRepo,
	}
}

// Highlights returns the four newest products and, as bestsellers, the four oldest.
func (s *catalogService) Highlights(ctx context.Context) (*Highlights, error) {
	products, err := s.productRepo.FindAll(ctx, "")
	if err != nil {
		return nil, err
	}

	h := &Highlights{Newest: products, Bestsellers: products}
	if len(products) > highlightSize {
		h.Newest = products[:highlightSize]
		h.Bestsellers = products[len(products)-highlightSize:]
	}
	return h, nil
}

func (s *catalogService) List(ctx context.Context, category string) (*ProductListing, error) {
	category = strings.TrimSpace(category)

	products, err := s.productRepo.FindAll(ctx, category)
	if err != nil {
		return nil, err
	}
	categories, err := s.productRepo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	logger.Debug("Catalog listed", logger.Fields{
		"category": category,
		"count":    len(products),
	})
	return &ProductListing{
		Products:   products,
		Categories: categories,
		Category:   category,
	}, nil
}

func (s *catalogService) Detail(ctx context.Context, productID uint, viewerID *uint) (*ProductDetail, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	similar, err := s.productRepo.FindSimilar(ctx, product.Category, product.ID, similarLimit)
	if err != nil {
		return nil, err
	}

	reviews, err := s.reviewRepo.FindByProduct(ctx, product.ID)
	if err != nil {
		return nil, err
	}

	detail := &ProductDetail{
		Product: *product,
		Similar: similar,
		Reviews: reviews,
		Summary: summarize(reviews),
	}

	if viewerID != nil {
		for i := range reviews {
			if reviews[i].UserID == *viewerID {
				own := reviews[i]
				detail.OwnReview = &own
				break
			}
		}
	}
	return detail, nil
}

func summarize(reviews []model.Review) ReviewSummary {
	summary := ReviewSummary{Count: len(reviews)}
	if len(reviews) == 0 {
		return summary
	}
	total := 0
	for _, r := range reviews {
		total += r.Rating
	}
	avg := float64(total) / float64(len(reviews))
	summary.Average = &avg
	return summary
}

// SubmitReview validates the rating before touching storage, then upserts the (user, product) review.
// A blank comment is stored as absent.
func (s *catalogService) SubmitReview(ctx context.Context, productID, userID uint, rating int, comment string) (*model.Review, error) {
	if rating < model.MinRating || rating > model.MaxRating {
		logger.Warn("Review rejected: rating out of range", logger.Fields{
			"product_id": productID,
			"user_id":    userID,
			"rating":     rating,
		})
		return nil, ErrInvalidRating
	}

	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	review := &model.Review{
		UserID:    userID,
		ProductID: productID,
		Rating:    rating,
	}
	if trimmed := strings.TrimSpace(comment); trimmed != "" {
		review.Comment = &trimmed
	}

	created, err := s.reviewRepo.Upsert(ctx, review)
	if err != nil {
		return nil, err
	}

	logger.Info("Review saved", logger.Fields{
		"product_id": productID,
		"user_id":    userID,
		"rating":     rating,
		"created":    created,
	})
	return review, nil
}
