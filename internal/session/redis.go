package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "session:"

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// RedisStore keeps sessions in Redis so every app instance sees the same logins.
type RedisStore struct {
	redisdb *redis.Client
	ttl     time.Duration
}

func NewRedisStore(cfg RedisConfig, ttl time.Duration) *RedisStore {
	redisdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	return &RedisStore{redisdb: redisdb, ttl: ttl}
}

func (s *RedisStore) Create(ctx context.Context, sess Session) (string, error) {
	id, err := NewID()
	if err != nil {
		return "", err
	}

	b, err := json.Marshal(sess)
	if err != nil {
		return "", err
	}

	if err := s.redisdb.Set(ctx, keyPrefix+id, b, s.ttl).Err(); err != nil {
		return "", err
	}

	return id, nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (Session, error) {
	b, err := s.redisdb.Get(ctx, keyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Session{}, ErrNotFound
		}
		return Session{}, err
	}

	var sess Session
	if err := json.Unmarshal(b, &sess); err != nil {
		return Session{}, err
	}

	return sess, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return s.redisdb.Del(ctx, keyPrefix+id).Err()
}

// Ping checks redis connectivity.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.redisdb.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.redisdb.Close()
}
