package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"

	pkgerrors "github.com/urbanshop/urbanshop-backend/pkg/errors"
)

type cartStorage interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

type cartKeyer interface {
	CartKey(ownerID string) string
}

// Store persists cart documents in Redis keyed by the owning user. Carts
// expire after the configured TTL of inactivity; every write refreshes it.
type Store struct {
	storage cartStorage
	keyer   cartKeyer
	ttl     time.Duration
}

// NewStore builds a Redis-backed cart store.
func NewStore(storage cartStorage, keyer cartKeyer, ttl time.Duration) (*Store, error) {
	if storage == nil {
		return nil, fmt.Errorf("cart storage required")
	}
	if keyer == nil {
		return nil, fmt.Errorf("cart keyer required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("cart ttl must be positive")
	}
	return &Store{storage: storage, keyer: keyer, ttl: ttl}, nil
}

// Load returns the owner's cart, or an empty cart when none is stored.
func (s *Store) Load(ctx context.Context, ownerID uuid.UUID) (*Cart, error) {
	raw, err := s.storage.Get(ctx, s.keyer.CartKey(ownerID.String()))
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return &Cart{}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	var cart Cart
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode cart document")
	}
	return &cart, nil
}

// Save writes the cart back and refreshes its TTL. Empty carts are deleted
// instead of stored.
func (s *Store) Save(ctx context.Context, ownerID uuid.UUID, cart *Cart) error {
	key := s.keyer.CartKey(ownerID.String())
	if cart == nil || cart.IsEmpty() {
		if err := s.storage.Del(ctx, key); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
		}
		return nil
	}

	payload, err := json.Marshal(cart)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode cart document")
	}
	if err := s.storage.Set(ctx, key, payload, s.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}
	return nil
}

// Clear removes the owner's cart document.
func (s *Store) Clear(ctx context.Context, ownerID uuid.UUID) error {
	if err := s.storage.Del(ctx, s.keyer.CartKey(ownerID.String())); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}
