package repository

import (
	"context"
	"sync"
	"time"

	"github.com/joelyk/maison-du-parfum/internal/app/model"
	"github.com/joelyk/maison-du-parfum/pkg/logger"
	redisutil "github.com/joelyk/maison-du-parfum/pkg/redis"
	"github.com/redis/go-redis/v9"
)

// CartRepository holds session carts keyed by session id.
// Concurrent writes to the same session are last-write-wins.
type CartRepository interface {
	Load(ctx context.Context, sessionID string) (model.Cart, error)
	Save(ctx context.Context, sessionID string, cart model.Cart) error
	Clear(ctx context.Context, sessionID string) error
}

type redisCartRepository struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRedisCartRepository(client redis.Cmdable, ttl time.Duration) CartRepository {
	return &redisCartRepository{client: client, ttl: ttl}
}

func cartKey(sessionID string) string {
	return "cart:" + sessionID
}

func (r *redisCartRepository) Load(ctx context.Context, sessionID string) (model.Cart, error) {
	var cart model.Cart
	if _, err := redisutil.GetJSON(ctx, r.client, cartKey(sessionID), &cart); err != nil {
		logger.Error("Failed to load cart from redis", err)
		return nil, err
	}
	return cart, nil
}

func (r *redisCartRepository) Save(ctx context.Context, sessionID string, cart model.Cart) error {
	if len(cart) == 0 {
		return r.Clear(ctx, sessionID)
	}

	logger.Debug("Saving cart to redis", logger.Fields{
		"entries": len(cart),
	})
	if err := redisutil.SetJSON(ctx, r.client, cartKey(sessionID), cart, r.ttl); err != nil {
		logger.Error("Failed to save cart to redis", err)
		return err
	}
	return nil
}

func (r *redisCartRepository) Clear(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, cartKey(sessionID)).Err(); err != nil {
		logger.Error("Failed to clear cart in redis", err)
		return err
	}
	return nil
}

type memoryCart struct {
	cart      model.Cart
	expiresAt time.Time
}

// MemoryCartRepository keeps carts in process for single-instance deployments and tests.
type MemoryCartRepository struct {
	mu    sync.RWMutex
	carts map[string]memoryCart
	ttl   time.Duration
	now   func() time.Time
}

func NewMemoryCartRepository(ttl time.Duration) *MemoryCartRepository {
	return &MemoryCartRepository{
		carts: make(map[string]memoryCart),
		ttl:   ttl,
		now:   time.Now,
	}
}

func (r *MemoryCartRepository) Load(_ context.Context, sessionID string) (model.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.carts[sessionID]
	if !ok || !r.now().Before(entry.expiresAt) {
		return nil, nil
	}
	return append(model.Cart(nil), entry.cart...), nil
}

func (r *MemoryCartRepository) Save(_ context.Context, sessionID string, cart model.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(cart) == 0 {
		delete(r.carts, sessionID)
		return nil
	}
	r.carts[sessionID] = memoryCart{
		cart:      append(model.Cart(nil), cart...),
		expiresAt: r.now().Add(r.ttl),
	}
	return nil
}

func (r *MemoryCartRepository) Clear(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.carts, sessionID)
	return nil
}

// Sweep drops carts expired at now.
func (r *MemoryCartRepository) Sweep(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for sid, entry := range r.carts {
		if !now.Before(entry.expiresAt) {
			delete(r.carts, sid)
			removed++
		}
	}
	return removed
}
