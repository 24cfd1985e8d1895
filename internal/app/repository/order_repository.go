package repository

import (
	"context"
	"errors"

	"github.com/joelyk/maison-du-parfum/internal/app/model"
	"github.com/joelyk/maison-du-parfum/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	FindByID(ctx context.Context, id uint) (*model.Order, error)
	FindByUserID(ctx context.Context, userID uint) ([]model.Order, error)
	FindAll(ctx context.Context) ([]model.Order, error)
	Count(ctx context.Context) (int64, error)
	SumTotal(ctx context.Context) (decimal.Decimal, error)
	UpdateStatus(ctx context.Context, id uint, status model.OrderStatus) error
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

// Create writes the order and its lines in one transaction.
func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	logger.Debug("Creating order in database", logger.Fields{
		"user_id": order.UserID,
		"total":   order.Total.StringFixed(2),
		"lines":   len(order.Lines),
	})

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lines := order.Lines
		if err := tx.Omit("Lines").Create(order).Error; err != nil {
			return err
		}
		for i := range lines {
			lines[i].OrderID = order.ID
		}
		if len(lines) > 0 {
			if err := tx.Omit("Product").Create(&lines).Error; err != nil {
				return err
			}
		}
		order.Lines = lines
		return nil
	})
	if err != nil {
		logger.Error("Failed to create order in database", err, logger.Fields{
			"user_id": order.UserID,
		})
		return err
	}

	logger.Debug("Order created in database", logger.Fields{
		"order_id": order.ID,
	})
	return nil
}

func (r *orderRepository) FindByID(ctx context.Context, id uint) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&order, id).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("Failed to find order by ID in database", err, logger.Fields{
				"order_id": id,
			})
		}
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) FindByUserID(ctx context.Context, userID uint) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Lines").
		Order("created_at DESC").Order("id DESC").
		Find(&orders).Error
	if err != nil {
		logger.Error("Failed to find orders by user ID in database", err, logger.Fields{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Debug("Orders found by user ID in database", logger.Fields{
		"user_id": userID,
		"count":   len(orders),
	})
	return orders, nil
}

func (r *orderRepository) FindAll(ctx context.Context) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.WithContext(ctx).
		Preload("Lines").
		Order("created_at DESC").Order("id DESC").
		Find(&orders).Error
	if err != nil {
		logger.Error("Failed to find orders in database", err)
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Order{}).Count(&count).Error; err != nil {
		logger.Error("Failed to count orders", err)
		return 0, err
	}
	return count, nil
}

// SumTotal adds every order total regardless of status.
func (r *orderRepository) SumTotal(ctx context.Context) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Select("SUM(total)").
		Row().Scan(&sum)
	if err != nil {
		logger.Error("Failed to sum order totals", err)
		return decimal.Zero, err
	}
	if !sum.Valid {
		return decimal.Zero, nil
	}
	return sum.Decimal, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id uint, status model.OrderStatus) error {
	logger.Debug("Updating order status in database", logger.Fields{
		"order_id": id,
		"status":   status,
	})

	result := r.db.WithContext(ctx).Model(&model.Order{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		logger.Error("Failed to update order status in database", result.Error, logger.Fields{
			"order_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
