package form

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const reservationKeyPrefix = "form:reserve:"

// Reserver claims a persistence identifier while Save creates the file, so
// two writers cannot create the same new form definition at once.
type Reserver interface {
	Reserve(ctx context.Context, persistenceIdentifier string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, persistenceIdentifier string) error
}

// RedisReserver reserves identifiers with SETNX
type RedisReserver struct {
	client *redis.Client
}

// NewRedisReserver 새 예약기 생성. client가 nil이면 항상 성공
func NewRedisReserver(client *redis.Client) *RedisReserver {
	return &RedisReserver{client: client}
}

// Reserve returns false when another caller already holds the identifier
func (r *RedisReserver) Reserve(ctx context.Context, persistenceIdentifier string, ttl time.Duration) (bool, error) {
	if r == nil || r.client == nil {
		return true, nil
	}
	return r.client.SetNX(ctx, reservationKeyPrefix+persistenceIdentifier, time.Now().Unix(), ttl).Result()
}

// Release drops the claim. 만료된 키는 무시
func (r *RedisReserver) Release(ctx context.Context, persistenceIdentifier string) error {
	if r == nil || r.client == nil {
		return nil
	}
	return r.client.Del(ctx, reservationKeyPrefix+persistenceIdentifier).Err()
}

// claimNewFile reserves persistenceIdentifier when no file exists there yet.
// The returned release must be called once the write is done. Overwrites
// of existing files and reservation backend errors proceed unclaimed.
func (m *Manager) claimNewFile(ctx context.Context, persistenceIdentifier string) (func(), error) {
	noop := func() {}
	if m.svc.reserver == nil || m.Exists(ctx, persistenceIdentifier) {
		return noop, nil
	}
	ok, err := m.svc.reserver.Reserve(ctx, persistenceIdentifier, m.svc.settings.ReservationTTL)
	if err != nil {
		m.svc.log.Warn().Err(err).Str("identifier", persistenceIdentifier).Msg("identifier reservation failed")
		return noop, nil
	}
	if !ok {
		return nil, &CreationInProgressError{Identifier: persistenceIdentifier}
	}
	return func() {
		if err := m.svc.reserver.Release(context.WithoutCancel(ctx), persistenceIdentifier); err != nil {
			m.svc.log.Warn().Err(err).Str("identifier", persistenceIdentifier).Msg("identifier release failed")
		}
	}, nil
}
