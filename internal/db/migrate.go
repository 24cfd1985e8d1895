package db

import (
	"github.com/joelyk/maison-du-parfum/internal/app/model"
	"github.com/joelyk/maison-du-parfum/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Models lists every persisted type in migration order.
func Models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.Product{},
		&model.Order{},
		&model.OrderLine{},
		&model.Review{},
	}
}

// Migrate runs database migrations
func Migrate(seed bool) error {
	logger.Info("Running database migrations...")

	models := Models()
	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	if seed {
		if err := SeedDemoProducts(DB); err != nil {
			logger.Error("Failed to seed initial data during migration", err)
			return err
		}
	}

	logger.Info("Database migrations completed successfully", logger.Fields{
		"models_count": len(models),
	})
	return nil
}

// SeedDemoProducts inserts the two demo products when the catalog is empty.
func SeedDemoProducts(db *gorm.DB) error {
	var count int64
	if err := db.Unscoped().Model(&model.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		logger.Info("Products already seeded, skipping...", logger.Fields{
			"existing_count": count,
		})
		return nil
	}

	products := []model.Product{
		{
			Name:             "Parfum Élégance",
			Price:            decimal.RequireFromString("89.90"),
			Category:         "parfums",
			ShortDescription: strPtr("Un parfum raffiné aux notes florales et boisées"),
			Description:      strPtr("Ce parfum délicat mêle des notes de rose, de jasmin et de santal pour une élégance intemporelle."),
			Image:            strPtr("products/parfum-elegance.jpg"),
			Notes:            strPtr("Tête: Bergamote, Cœur: Rose, Jasmin, Fond: Santal, Vanille"),
			Volume:           strPtr("100ml"),
			SkinType:         strPtr("Tous types"),
			Audience:         strPtr("Femme"),
			Stock:            15,
		},
		{
			Name:             "Crème Hydratante Luxe",
			Price:            decimal.RequireFromString("45.50"),
			Category:         "soins-visage",
			ShortDescription: strPtr("Hydratation intense pour une peau rayonnante"),
			Description:      strPtr("Une crème riche en acide hyaluronique et extraits de rose qui nourrit la peau en profondeur."),
			Image:            strPtr("products/creme-hydratante.jpg"),
			Volume:           strPtr("50ml"),
			SkinType:         strPtr("Peau sèche et normale"),
			Audience:         strPtr("Femme"),
			Stock:            25,
		},
	}

	if err := db.Create(&products).Error; err != nil {
		return err
	}

	logger.Info("Demo products seeded", logger.Fields{
		"count": len(products),
	})
	return nil
}

func strPtr(s string) *string {
	return &s
}
