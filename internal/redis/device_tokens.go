package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/avasilkov/family-organizer-backend/internal/config"
	"github.com/avasilkov/family-organizer-backend/internal/model"
	"github.com/gomodule/redigo/redis"
	"go.uber.org/zap"
)

const deviceTokenPrefix = "device_token:"

// DeviceTokenRepository caches device-token -> member-id lookups. Postgres
// stays the source of truth for revocation; entries here expire and get
// refilled on the next auth.
type DeviceTokenRepository struct {
	pool   *redis.Pool
	logger *zap.SugaredLogger
}

func NewDeviceTokenRepository(pool *redis.Pool, logger *zap.SugaredLogger) *DeviceTokenRepository {
	return &DeviceTokenRepository{
		pool:   pool,
		logger: logger,
	}
}

func (r *DeviceTokenRepository) Add(ctx context.Context, token string, memberID int64) error {
	conn, err := r.pool.GetContext(ctx)
	if err != nil {
		return fmt.Errorf("get conn: %w", err)
	}
	defer r.closeConn(conn)

	ttl := int(config.DeviceCacheTTL().Seconds())
	if _, err := conn.Do("SETEX", deviceTokenPrefix+token, ttl, memberID); err != nil {
		return fmt.Errorf("setex: %w", err)
	}

	return nil
}

func (r *DeviceTokenRepository) Get(ctx context.Context, token string) (int64, error) {
	conn, err := r.pool.GetContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("get conn: %w", err)
	}
	defer r.closeConn(conn)

	id, err := redis.Int64(conn.Do("GET", deviceTokenPrefix+token))
	if err != nil {
		if errors.Is(err, redis.ErrNil) {
			return 0, model.ErrNoRecord
		}
		return 0, fmt.Errorf("get: %w", err)
	}

	return id, nil
}

func (r *DeviceTokenRepository) Delete(ctx context.Context, token string) error {
	conn, err := r.pool.GetContext(ctx)
	if err != nil {
		return fmt.Errorf("get conn: %w", err)
	}
	defer r.closeConn(conn)

	if _, err := conn.Do("DEL", deviceTokenPrefix+token); err != nil {
		return fmt.Errorf("del: %w", err)
	}

	return nil
}

func (r *DeviceTokenRepository) closeConn(conn redis.Conn) {
	if err := conn.Close(); err != nil {
		r.logger.Errorw("failed closing redis connection", "err", err)
	}
}
