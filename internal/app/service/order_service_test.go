package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/joelyk/maison-du-parfum/internal/app/model"
	"github.com/joelyk/maison-du-parfum/internal/app/repository"
	"github.com/joelyk/maison-du-parfum/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testShipping = ShippingDetails{
	FirstName:  "Claire",
	LastName:   "Martin",
	Email:      "Claire@Example.com",
	Phone:      "0600000000",
	Address:    "12 rue des Lilas",
	City:       "Lyon",
	PostalCode: "69003",
	Country:    "France",
}

type failingOrderRepository struct {
	repository.OrderRepository
}

func (failingOrderRepository) Create(context.Context, *model.Order) error {
	return errors.New("disk full")
}

func setupOrderServiceTest(t *testing.T, publisher events.Publisher) (OrderService, CartService, *testEnv) {
	env := setupTestEnv(t)
	orderService := NewOrderService(env.carts, env.orders, env.products, publisher)
	return orderService, NewCartService(env.carts, env.products), env
}

func countOrders(t *testing.T, env *testEnv) int64 {
	var count int64
	require.NoError(t, env.db.Model(&model.Order{}).Count(&count).Error)
	return count
}

func TestOrderService_PlaceOrder(t *testing.T) {
	publisher := new(mockPublisher)
	publisher.On("PublishOrderPlaced", mock.Anything, mock.MatchedBy(func(e events.OrderPlaced) bool {
		return e.Type == events.TypeOrderPlaced && e.LineCount == 2 && e.Total.Equal(dec("25.00"))
	})).Return(nil).Once()

	orderService, cartService, env := setupOrderServiceTest(t, publisher)
	ctx := context.Background()
	user := env.user(t, "claire@example.com", "secret")
	a := env.product(t, "A", "parfums", "10.00")
	b := env.product(t, "B", "soins-visage", "5.00")

	_, err := cartService.Add(ctx, testSession, a.ID, 2)
	require.NoError(t, err)
	_, err = cartService.Add(ctx, testSession, b.ID, 1)
	require.NoError(t, err)

	order, err := orderService.PlaceOrder(ctx, testSession, &user.ID, testShipping)
	require.NoError(t, err)

	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.True(t, dec("25.00").Equal(order.Total), order.Total.String())
	assert.Equal(t, "claire@example.com", order.Email)
	require.NotNil(t, order.UserID)
	assert.Equal(t, user.ID, *order.UserID)

	stored, err := env.orders.FindByID(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, stored.Lines, 2)
	sum := dec("0")
	for _, line := range stored.Lines {
		assert.True(t, line.UnitPrice.Mul(decFromInt(line.Quantity)).Equal(line.Subtotal))
		sum = sum.Add(line.Subtotal)
	}
	assert.True(t, sum.Equal(stored.Total))
	assert.Equal(t, "A", stored.Lines[0].ProductName)

	count, err := cartService.Count(ctx, testSession)
	require.NoError(t, err)
	assert.Zero(t, count, "cart cleared after checkout")
	assert.Equal(t, int64(1), countOrders(t, env))
	publisher.AssertExpectations(t)
}

func TestOrderService_PlaceOrderGuest(t *testing.T) {
	orderService, cartService, env := setupOrderServiceTest(t, nil)
	ctx := context.Background()
	a := env.product(t, "A", "parfums", "10.00")

	_, err := cartService.Add(ctx, testSession, a.ID, 1)
	require.NoError(t, err)

	order, err := orderService.PlaceOrder(ctx, testSession, nil, testShipping)
	require.NoError(t, err)
	assert.Nil(t, order.UserID)
}

func TestOrderService_PriceCapturedAtCheckout(t *testing.T) {
	orderService, cartService, env := setupOrderServiceTest(t, nil)
	ctx := context.Background()
	a := env.product(t, "A", "parfums", "10.00")

	_, err := cartService.Add(ctx, testSession, a.ID, 1)
	require.NoError(t, err)
	order, err := orderService.PlaceOrder(ctx, testSession, nil, testShipping)
	require.NoError(t, err)

	require.NoError(t, env.db.Model(a).Update("price", dec("99.00")).Error)
	require.NoError(t, env.products.Delete(ctx, a.ID))

	stored, err := env.orders.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, dec("10.00").Equal(stored.Lines[0].UnitPrice))
	assert.Equal(t, "A", stored.Lines[0].ProductName)
}

func TestOrderService_EmptyCartCreatesNoOrder(t *testing.T) {
	orderService, cartService, env := setupOrderServiceTest(t, nil)
	ctx := context.Background()

	_, err := orderService.PlaceOrder(ctx, testSession, nil, testShipping)
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.ErrorIs(t, err, ErrValidation)

	// only deleted products left
	gone := env.product(t, "Gone", "parfums", "10.00")
	_, err = cartService.Add(ctx, testSession, gone.ID, 1)
	require.NoError(t, err)
	require.NoError(t, env.products.Delete(ctx, gone.ID))

	_, err = orderService.PlaceOrder(ctx, testSession, nil, testShipping)
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Zero(t, countOrders(t, env))
}

func TestOrderService_DeletedProductsSkipped(t *testing.T) {
	orderService, cartService, env := setupOrderServiceTest(t, nil)
	ctx := context.Background()
	a := env.product(t, "A", "parfums", "10.00")
	b := env.product(t, "B", "parfums", "5.00")

	_, err := cartService.Add(ctx, testSession, a.ID, 1)
	require.NoError(t, err)
	_, err = cartService.Add(ctx, testSession, b.ID, 2)
	require.NoError(t, err)
	require.NoError(t, env.products.Delete(ctx, b.ID))

	order, err := orderService.PlaceOrder(ctx, testSession, nil, testShipping)
	require.NoError(t, err)
	assert.Len(t, order.Lines, 1)
	assert.True(t, dec("10.00").Equal(order.Total))
}

func TestOrderService_MissingShippingFields(t *testing.T) {
	orderService, cartService, env := setupOrderServiceTest(t, nil)
	ctx := context.Background()
	a := env.product(t, "A", "parfums", "10.00")
	_, err := cartService.Add(ctx, testSession, a.ID, 1)
	require.NoError(t, err)

	details := testShipping
	details.City = "   "
	_, err = orderService.PlaceOrder(ctx, testSession, nil, details)
	assert.ErrorIs(t, err, ErrMissingFields)

	count, err := cartService.Count(ctx, testSession)
	require.NoError(t, err)
	assert.Equal(t, 1, count, "cart kept for retry")
}

func TestOrderService_PersistenceFailureKeepsCart(t *testing.T) {
	env := setupTestEnv(t)
	orderService := NewOrderService(env.carts, failingOrderRepository{}, env.products, nil)
	cartService := NewCartService(env.carts, env.products)
	ctx := context.Background()
	a := env.product(t, "A", "parfums", "10.00")

	_, err := cartService.Add(ctx, testSession, a.ID, 1)
	require.NoError(t, err)

	_, err = orderService.PlaceOrder(ctx, testSession, nil, testShipping)
	assert.EqualError(t, err, "disk full")

	count, err := cartService.Count(ctx, testSession)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestOrderService_PublisherFailureDoesNotFailCheckout(t *testing.T) {
	publisher := new(mockPublisher)
	publisher.On("PublishOrderPlaced", mock.Anything, mock.Anything).Return(errors.New("broker down"))

	orderService, cartService, env := setupOrderServiceTest(t, publisher)
	ctx := context.Background()
	a := env.product(t, "A", "parfums", "10.00")
	_, err := cartService.Add(ctx, testSession, a.ID, 1)
	require.NoError(t, err)

	order, err := orderService.PlaceOrder(ctx, testSession, nil, testShipping)
	require.NoError(t, err)
	assert.NotZero(t, order.ID)
	publisher.AssertNumberOfCalls(t, "PublishOrderPlaced", 1)
}

type stalledPublisher struct{}

func (stalledPublisher) PublishOrderPlaced(ctx context.Context, _ events.OrderPlaced) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestOrderService_StalledPublisherDoesNotBlockCheckout(t *testing.T) {
	env := setupTestEnv(t)
	cartService := NewCartService(env.carts, env.products)
	svc := NewOrderService(env.carts, env.orders, env.products, stalledPublisher{}).(*orderService)
	svc.publishTimeout = 20 * time.Millisecond

	ctx := context.Background()
	a := env.product(t, "A", "parfums", "10.00")
	_, err := cartService.Add(ctx, testSession, a.ID, 1)
	require.NoError(t, err)

	done := make(chan *model.Order, 1)
	go func() {
		order, err := svc.PlaceOrder(ctx, testSession, nil, testShipping)
		assert.NoError(t, err)
		done <- order
	}()

	select {
	case order := <-done:
		require.NotNil(t, order)
		assert.NotZero(t, order.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("checkout blocked on the event publisher")
	}
	assert.EqualValues(t, 1, countOrders(t, env))
}

func TestOrderService_Preview(t *testing.T) {
	orderService, cartService, env := setupOrderServiceTest(t, nil)
	ctx := context.Background()

	_, err := orderService.Preview(ctx, testSession)
	assert.ErrorIs(t, err, ErrEmptyCart)

	a := env.product(t, "A", "parfums", "10.00")
	_, err = cartService.Add(ctx, testSession, a.ID, 3)
	require.NoError(t, err)

	view, err := orderService.Preview(ctx, testSession)
	require.NoError(t, err)
	assert.True(t, dec("30.00").Equal(view.Total))
}

func TestOrderService_UserOrders(t *testing.T) {
	orderService, cartService, env := setupOrderServiceTest(t, nil)
	ctx := context.Background()
	claire := env.user(t, "claire@example.com", "secret")
	paul := env.user(t, "paul@example.com", "secret")
	a := env.product(t, "A", "parfums", "10.00")

	var placed []*model.Order
	for i := 0; i < 2; i++ {
		_, err := cartService.Add(ctx, testSession, a.ID, 1)
		require.NoError(t, err)
		order, err := orderService.PlaceOrder(ctx, testSession, &claire.ID, testShipping)
		require.NoError(t, err)
		placed = append(placed, order)
	}

	orders, err := orderService.ListUserOrders(ctx, claire.ID)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, placed[1].ID, orders[0].ID, "newest first")

	_, err = orderService.GetUserOrder(ctx, claire.ID, placed[0].ID)
	assert.NoError(t, err)
	_, err = orderService.GetUserOrder(ctx, paul.ID, placed[0].ID)
	assert.ErrorIs(t, err, ErrOrderNotFound)
	_, err = orderService.GetUserOrder(ctx, claire.ID, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}
