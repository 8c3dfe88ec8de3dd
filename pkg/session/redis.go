// Package session keeps refresh-token state in Redis. Tokens are opaque
// random strings mapped to user ids with a TTL; rotation deletes the
// presented token before issuing a replacement.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/openboard/backend/pkg/auth"
)

const keyPrefix = "session:refresh:"

type Store struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

func (s *Store) Issue(ctx context.Context, user auth.User) (string, error) {
	token, err := newToken()
	if err != nil {
		return "", err
	}
	if err := s.client.Set(ctx, keyPrefix+token, user.ID.String(), s.ttl).Err(); err != nil {
		return "", err
	}
	return token, nil
}

func (s *Store) Rotate(ctx context.Context, refreshToken string) (string, string, error) {
	key := keyPrefix + refreshToken
	userID, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", "", auth.ErrNotFound
		}
		return "", "", err
	}
	// Single-use: drop the old token before handing out a new one.
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return "", "", err
	}
	newTok, err := newToken()
	if err != nil {
		return "", "", err
	}
	if err := s.client.Set(ctx, keyPrefix+newTok, userID, s.ttl).Err(); err != nil {
		return "", "", err
	}
	return userID, newTok, nil
}

func (s *Store) Revoke(ctx context.Context, refreshToken string) error {
	return s.client.Del(ctx, keyPrefix+refreshToken).Err()
}

func newToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
