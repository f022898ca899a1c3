package session

import (
	"context"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
)

// MarkerStore persists the opaque login marker that survives a page reload.
// The browse engine only ever saves, checks and deletes it; whatever
// authenticated the user in the first place is out of scope.
type MarkerStore interface {
	Save(ctx context.Context, marker string, ttl time.Duration) error
	Has(ctx context.Context, marker string) (bool, error)
	Delete(ctx context.Context, marker string) error
}

// MemoryMarkerStore keeps markers in process. Default when no redis endpoint
// is configured.
type MemoryMarkerStore struct {
	mu      sync.Mutex
	markers map[string]time.Time
}

func NewMemoryMarkerStore() *MemoryMarkerStore {
	return &MemoryMarkerStore{markers: make(map[string]time.Time)}
}

func (m *MemoryMarkerStore) Save(_ context.Context, marker string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.markers[marker] = time.Now().Add(ttl)
	return nil
}

func (m *MemoryMarkerStore) Has(_ context.Context, marker string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	expires, ok := m.markers[marker]
	if !ok {
		return false, nil
	}
	if time.Now().After(expires) {
		delete(m.markers, marker)
		return false, nil
	}
	return true, nil
}

func (m *MemoryMarkerStore) Delete(_ context.Context, marker string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.markers, marker)
	return nil
}

const redisMarkerPrefix = "session:"

// RedisMarkerStore persists markers in redis so a session marker outlives
// the process.
type RedisMarkerStore struct {
	client *redis.Client
}

func NewRedisMarkerStore(addr, password string, db int) *RedisMarkerStore {
	return &RedisMarkerStore{client: redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})}
}

func (r *RedisMarkerStore) Save(ctx context.Context, marker string, ttl time.Duration) error {
	return r.client.Set(ctx, redisMarkerPrefix+marker, "1", ttl).Err()
}

func (r *RedisMarkerStore) Has(ctx context.Context, marker string) (bool, error) {
	n, err := r.client.Exists(ctx, redisMarkerPrefix+marker).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *RedisMarkerStore) Delete(ctx context.Context, marker string) error {
	return r.client.Del(ctx, redisMarkerPrefix+marker).Err()
}

func (r *RedisMarkerStore) Close() error {
	return r.client.Close()
}

type markerClaims struct {
	Marker string `json:"marker"`
	jwt.RegisteredClaims
}

// SignMarker wraps a marker in a signed token the client can hold.
func SignMarker(secret []byte, marker string, ttl time.Duration) (string, error) {
	claims := markerClaims{
		Marker: marker,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// ParseMarker extracts the marker from a signed token, rejecting expired or
// tampered tokens.
func ParseMarker(secret []byte, token string) (string, error) {
	var claims markerClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	return claims.Marker, nil
}
