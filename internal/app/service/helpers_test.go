package service

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/joelyk/maison-du-parfum/internal/app/model"
	"github.com/joelyk/maison-du-parfum/internal/app/repository"
	"github.com/joelyk/maison-du-parfum/internal/db"
	"github.com/joelyk/maison-du-parfum/internal/events"
	"github.com/joelyk/maison-du-parfum/pkg/util"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testSession = "session-1"

type mockFileStorage struct {
	mock.Mock
}

func (m *mockFileStorage) Save(ctx context.Context, folder, filename string, body io.Reader, contentType string) error {
	return m.Called(ctx, folder, filename, body, contentType).Error(0)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishOrderPlaced(ctx context.Context, event events.OrderPlaced) error {
	return m.Called(ctx, event).Error(0)
}

type testEnv struct {
	db       *gorm.DB
	carts    *repository.MemoryCartRepository
	products repository.ProductRepository
	orders   repository.OrderRepository
	reviews  repository.ReviewRepository
	users    repository.UserRepository
	hasher   *util.PasswordHasher
}

func setupTestEnv(t *testing.T) *testEnv {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	return &testEnv{
		db:       testDB,
		carts:    repository.NewMemoryCartRepository(time.Hour),
		products: repository.NewProductRepository(testDB),
		orders:   repository.NewOrderRepository(testDB),
		reviews:  repository.NewReviewRepository(testDB),
		users:    repository.NewUserRepository(testDB),
		hasher:   util.NewPasswordHasher(bcrypt.MinCost),
	}
}

func (e *testEnv) product(t *testing.T, name, category, price string) *model.Product {
	p := &model.Product{
		Name:     name,
		Category: category,
		Price:    decimal.RequireFromString(price),
		Stock:    3,
	}
	require.NoError(t, e.db.Create(p).Error)
	return p
}

func (e *testEnv) user(t *testing.T, email, password string) *model.User {
	hash, err := e.hasher.Hash(password)
	require.NoError(t, err)
	u := &model.User{
		FirstName:    "Claire",
		LastName:     "Martin",
		Email:        email,
		PasswordHash: hash,
		Avatar:       model.DefaultAvatar,
	}
	require.NoError(t, e.db.Create(u).Error)
	return u
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func strp(s string) *string {
	return &s
}

func decFromInt(n int) decimal.Decimal {
	return decimal.NewFromInt(int64(n))
}
