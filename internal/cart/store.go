package cart

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/muadee/storefront-gateway/pkg/errors"
	"github.com/muadee/storefront-gateway/pkg/redis"
	"github.com/muadee/storefront-gateway/pkg/types"
)

// Snapshot is the persisted state of one session cart.
type Snapshot struct {
	Items       []types.CartItem `json:"items"`
	Voucher     *types.Voucher   `json:"voucher,omitempty"`
	ShippingFee decimal.Decimal  `json:"shipping_fee"`
}

// SnapshotStore loads and saves session cart snapshots.
type SnapshotStore interface {
	Load(ctx context.Context, sessionID string) (*Snapshot, error)
	Save(ctx context.Context, sessionID string, snapshot *Snapshot) error
	Delete(ctx context.Context, sessionID string) error
}

// RedisStore keeps session carts in Redis with a rolling TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore builds a snapshot store on the shared redis client.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// Load returns the stored snapshot, or nil when the session has no cart.
func (s *RedisStore) Load(ctx context.Context, sessionID string) (*Snapshot, error) {
	raw, err := s.client.Get(ctx, s.client.CartKey(sessionID))
	if err != nil {
		if redis.IsNotFound(err) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart snapshot")
	}
	var snapshot Snapshot
	if err := json.Unmarshal([]byte(raw), &snapshot); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode cart snapshot")
	}
	return &snapshot, nil
}

// Save writes the snapshot and refreshes the session TTL.
func (s *RedisStore) Save(ctx context.Context, sessionID string, snapshot *Snapshot) error {
	encoded, err := json.Marshal(snapshot)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode cart snapshot")
	}
	if err := s.client.Set(ctx, s.client.CartKey(sessionID), string(encoded), s.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart snapshot")
	}
	return nil
}

// Delete removes the session cart entirely.
func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.client.CartKey(sessionID)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart snapshot")
	}
	return nil
}
