package repository

import (
	"context"
	"errors"
	"time"

	"github.com/joelyk/maison-du-parfum/internal/app/model"
	"github.com/joelyk/maison-du-parfum/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReviewRepository interface {
	FindByProduct(ctx context.Context, productID uint) ([]model.Review, error)
	FindByUserAndProduct(ctx context.Context, userID, productID uint) (*model.Review, error)
	Upsert(ctx context.Context, review *model.Review) (created bool, err error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

// FindByProduct returns reviews newest first with their authors.
func (r *reviewRepository) FindByProduct(ctx context.Context, productID uint) ([]model.Review, error) {
	var reviews []model.Review
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Preload("User").
		Order("created_at DESC").Order("id DESC").
		Find(&reviews).Error
	if err != nil {
		logger.Error("Failed to find reviews by product in database", err, logger.Fields{
			"product_id": productID,
		})
		return nil, err
	}
	return reviews, nil
}

func (r *reviewRepository) FindByUserAndProduct(ctx context.Context, userID, productID uint) (*model.Review, error) {
	var review model.Review
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&review).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// Upsert overwrites the rating, comment and timestamp of the (user, product) review, creating it when absent.
// The insert resolves on idx_reviews_user_product, so a concurrent first submission updates instead of failing.
func (r *reviewRepository) Upsert(ctx context.Context, review *model.Review) (bool, error) {
	logger.Debug("Upserting review in database", logger.Fields{
		"user_id":    review.UserID,
		"product_id": review.ProductID,
		"rating":     review.Rating,
	})

	db := r.db.WithContext(ctx)
	_, err := r.FindByUserAndProduct(ctx, review.UserID, review.ProductID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}
	created := err != nil

	review.ID = 0
	review.CreatedAt = time.Now()
	err = db.Omit("User").Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"rating", "comment", "created_at"}),
	}).Create(review).Error
	if err != nil {
		logger.Error("Failed to upsert review in database", err, logger.Fields{
			"user_id":    review.UserID,
			"product_id": review.ProductID,
		})
		return false, err
	}

	stored, err := r.FindByUserAndProduct(ctx, review.UserID, review.ProductID)
	if err != nil {
		return false, err
	}
	*review = *stored
	return created, nil
}
