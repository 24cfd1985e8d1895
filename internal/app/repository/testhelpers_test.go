package repository

import (
	"testing"

	"github.com/joelyk/maison-du-parfum/internal/app/model"
	"github.com/joelyk/maison-du-parfum/internal/db"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })
	return testDB
}

func createProduct(t *testing.T, testDB *gorm.DB, name, category, price string) *model.Product {
	product := &model.Product{
		Name:     name,
		Category: category,
		Price:    decimal.RequireFromString(price),
		Stock:    10,
	}
	require.NoError(t, testDB.Create(product).Error)
	return product
}

func createUser(t *testing.T, testDB *gorm.DB, email string) *model.User {
	user := &model.User{
		FirstName:    "Claire",
		LastName:     "Martin",
		Email:        email,
		PasswordHash: "hash",
	}
	require.NoError(t, testDB.Create(user).Error)
	return user
}
