package repository

import (
	"context"
	"errors"

	"github.com/joelyk/maison-du-parfum/internal/app/model"
	"github.com/joelyk/maison-du-parfum/pkg/logger"
	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	FindByID(ctx context.Context, id uint) (*model.Product, error)
	FindByIDs(ctx context.Context, ids []uint) (map[uint]model.Product, error)
	FindAll(ctx context.Context, category string) ([]model.Product, error)
	FindSimilar(ctx context.Context, category string, excludeID uint, limit int) ([]model.Product, error)
	ListCategories(ctx context.Context) ([]string, error)
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
	BulkCreate(ctx context.Context, products []model.Product, batchSize int) error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *model.Product) error {
	logger.Debug("Creating product in database", logger.Fields{
		"name":     product.Name,
		"category": product.Category,
	})

	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		logger.Error("Failed to create product in database", err, logger.Fields{
			"name": product.Name,
		})
		return err
	}

	logger.Debug("Product created in database", logger.Fields{
		"product_id": product.ID,
	})
	return nil
}

func (r *productRepository) FindByID(ctx context.Context, id uint) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).First(&product, id).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("Failed to find product by ID in database", err, logger.Fields{
				"product_id": id,
			})
		}
		return nil, err
	}
	return &product, nil
}

// FindByIDs returns live products keyed by id. Deleted or unknown ids are absent from the map.
func (r *productRepository) FindByIDs(ctx context.Context, ids []uint) (map[uint]model.Product, error) {
	found := make(map[uint]model.Product, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	var products []model.Product
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		logger.Error("Failed to find products by IDs in database", err, logger.Fields{
			"count": len(ids),
		})
		return nil, err
	}

	for _, p := range products {
		found[p.ID] = p
	}
	logger.Debug("Products found by IDs in database", logger.Fields{
		"requested": len(ids),
		"found":     len(found),
	})
	return found, nil
}

// FindAll lists products newest first, optionally restricted to one category.
func (r *productRepository) FindAll(ctx context.Context, category string) ([]model.Product, error) {
	query := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC")
	if category != "" {
		query = query.Where("category = ?", category)
	}

	var products []model.Product
	if err := query.Find(&products).Error; err != nil {
		logger.Error("Failed to find products in database", err, logger.Fields{
			"category": category,
		})
		return nil, err
	}

	logger.Debug("Products found in database", logger.Fields{
		"category": category,
		"count":    len(products),
	})
	return products, nil
}

func (r *productRepository) FindSimilar(ctx context.Context, category string, excludeID uint, limit int) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Where("category = ? AND id <> ?", category, excludeID).
		Order("id ASC").
		Limit(limit).
		Find(&products).Error
	if err != nil {
		logger.Error("Failed to find similar products in database", err, logger.Fields{
			"product_id": excludeID,
			"category":   category,
		})
		return nil, err
	}
	return products, nil
}

func (r *productRepository) ListCategories(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Distinct("category").
		Order("category ASC").
		Pluck("category", &categories).Error
	if err != nil {
		logger.Error("Failed to list product categories", err)
		return nil, err
	}
	return categories, nil
}

func (r *productRepository) Update(ctx context.Context, product *model.Product) error {
	logger.Debug("Updating product in database", logger.Fields{
		"product_id": product.ID,
	})

	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		logger.Error("Failed to update product in database", err, logger.Fields{
			"product_id": product.ID,
		})
		return err
	}
	return nil
}

// Delete soft-deletes; order lines keep their snapshot.
func (r *productRepository) Delete(ctx context.Context, id uint) error {
	logger.Debug("Deleting product from database", logger.Fields{
		"product_id": id,
	})

	result := r.db.WithContext(ctx).Delete(&model.Product{}, id)
	if result.Error != nil {
		logger.Error("Failed to delete product from database", result.Error, logger.Fields{
			"product_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *productRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Product{}).Count(&count).Error; err != nil {
		logger.Error("Failed to count products", err)
		return 0, err
	}
	return count, nil
}

func (r *productRepository) BulkCreate(ctx context.Context, products []model.Product, batchSize int) error {
	if len(products) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Omit("Reviews").CreateInBatches(&products, batchSize).Error; err != nil {
		logger.Error("Failed to bulk create products", err, logger.Fields{
			"count": len(products),
		})
		return err
	}
	logger.Info("Products bulk created", logger.Fields{
		"count": len(products),
	})
	return nil
}
