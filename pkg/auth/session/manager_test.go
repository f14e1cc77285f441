package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/alcotrade/alcotrade-cms/pkg/config"
)

type memoryStore struct {
	mu   sync.Mutex
	data map[string]string
	ttls map[string]time.Duration
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (m *memoryStore) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = fmt.Sprint(value)
	m.ttls[key] = ttl
	return nil
}

func (m *memoryStore) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.data[key]
	if !ok {
		return "", redislib.Nil
	}
	return val, nil
}

func (m *memoryStore) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

func (m *memoryStore) AccessSessionKey(accessID string) string {
	return "alcotrade:session:" + accessID
}

var testJWT = config.JWTConfig{ExpirationMinutes: 15, SessionTTLMinutes: 60}

func newTestManager(t *testing.T) (*Manager, *memoryStore) {
	t.Helper()
	store := newMemoryStore()
	manager, err := newManager(store, testJWT)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	manager.now = func() time.Time { return time.Unix(1_700_000_000, 0) }
	return manager, store
}

func TestManagerStoresOnlyRefreshHash(t *testing.T) {
	manager, store := newTestManager(t)

	token, err := manager.Generate(context.Background(), "jti-1")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	raw := store.data[store.AccessSessionKey("jti-1")]
	if strings.Contains(raw, token) {
		t.Fatalf("raw refresh token leaked into redis: %s", raw)
	}
	var rec record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		t.Fatalf("decode record: %v", err)
	}
	if rec.RefreshHash != hashToken(token) || rec.IssuedAt != 1_700_000_000 {
		t.Fatalf("unexpected record %+v", rec)
	}
	if got := store.ttls[store.AccessSessionKey("jti-1")]; got != time.Hour {
		t.Fatalf("expected session ttl of one hour, got %v", got)
	}
}

func TestManagerRotate(t *testing.T) {
	manager, store := newTestManager(t)
	ctx := context.Background()

	token, err := manager.Generate(ctx, "jti-1")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, _, err := manager.Rotate(ctx, "jti-1", "wrong"); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("expected invalid refresh token, got %v", err)
	}

	newID, newToken, err := manager.Rotate(ctx, "jti-1", token)
	if err != nil {
		t.Fatalf("rotate: %v", err)
	}
	if newID == "jti-1" || newToken == token {
		t.Fatalf("rotation must issue a new pair")
	}
	if _, exists := store.data[store.AccessSessionKey("jti-1")]; exists {
		t.Fatalf("old session left behind")
	}
	if _, _, err := manager.Rotate(ctx, "jti-1", token); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("reusing a rotated token must fail, got %v", err)
	}
	if _, _, err := manager.Rotate(ctx, newID, newToken); err != nil {
		t.Fatalf("second rotation: %v", err)
	}
}

func TestManagerRotateRejectsCorruptRecord(t *testing.T) {
	manager, store := newTestManager(t)
	store.data[store.AccessSessionKey("jti-x")] = "not-json"
	if _, _, err := manager.Rotate(context.Background(), "jti-x", "anything"); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("expected invalid refresh token, got %v", err)
	}
}

func TestManagerRevokeAndHasSession(t *testing.T) {
	manager, _ := newTestManager(t)
	ctx := context.Background()

	if _, err := manager.Generate(ctx, "jti-1"); err != nil {
		t.Fatalf("generate: %v", err)
	}
	ok, err := manager.HasSession(ctx, "jti-1")
	if err != nil || !ok {
		t.Fatalf("expected active session, ok=%v err=%v", ok, err)
	}
	if err := manager.Revoke(ctx, "jti-1"); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	ok, err = manager.HasSession(ctx, "jti-1")
	if err != nil || ok {
		t.Fatalf("expected revoked session, ok=%v err=%v", ok, err)
	}
	if _, err := manager.HasSession(ctx, " "); err == nil {
		t.Fatalf("blank access id must fail")
	}
}

func TestNewManagerValidatesTTL(t *testing.T) {
	if _, err := NewManager(nil, testJWT); err == nil {
		t.Fatalf("expected missing client to fail")
	}
	if _, err := newManager(newMemoryStore(), config.JWTConfig{ExpirationMinutes: 60, SessionTTLMinutes: 30}); err == nil {
		t.Fatalf("session shorter than access token must fail")
	}
}
