package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type fakeRedisKV struct {
	setKey    string
	setVal    interface{}
	setTTL    time.Duration
	existsKey []string
	delKey    []string

	setErr    error
	existsErr error
	delErr    error
	existsN   int64
}

func (f *fakeRedisKV) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	f.setKey = key
	f.setVal = value
	f.setTTL = expiration
	cmd := redis.NewStatusCmd(ctx)
	if f.setErr != nil {
		cmd.SetErr(f.setErr)
		return cmd
	}
	cmd.SetVal("OK")
	return cmd
}

func (f *fakeRedisKV) Exists(ctx context.Context, keys ...string) *redis.IntCmd {
	f.existsKey = keys
	cmd := redis.NewIntCmd(ctx)
	if f.existsErr != nil {
		cmd.SetErr(f.existsErr)
		return cmd
	}
	cmd.SetVal(f.existsN)
	return cmd
}

func (f *fakeRedisKV) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	f.delKey = keys
	cmd := redis.NewIntCmd(ctx)
	if f.delErr != nil {
		cmd.SetErr(f.delErr)
		return cmd
	}
	cmd.SetVal(1)
	return cmd
}

func TestMemoryRefreshTokenStore_SessionLifecycle(t *testing.T) {
	store := NewMemoryRefreshTokenStore()

	ok, err := store.Exists("session-never-issued")
	if err != nil || ok {
		t.Fatalf("unknown session should be false,nil; got %v,%v", ok, err)
	}

	if err := store.Store("estimator-session-1", "estimator-ana", 50*time.Millisecond); err != nil {
		t.Fatalf("store failed: %v", err)
	}
	ok, err = store.Exists("estimator-session-1")
	if err != nil || !ok {
		t.Fatalf("fresh session should exist, got %v,%v", ok, err)
	}

	time.Sleep(70 * time.Millisecond)
	ok, err = store.Exists("estimator-session-1")
	if err != nil || ok {
		t.Fatalf("session past its TTL should be gone, got %v,%v", ok, err)
	}
}

func TestMemoryRefreshTokenStore_LogoutRevokesSession(t *testing.T) {
	store := NewMemoryRefreshTokenStore()
	if err := store.Store("", "estimator-ana", time.Minute); err != nil {
		t.Fatalf("empty jti store should be no-op, got %v", err)
	}
	if err := store.Store("viewer-session-7", "viewer-luis", time.Minute); err != nil {
		t.Fatalf("store failed: %v", err)
	}
	if err := store.Revoke("viewer-session-7"); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}
	ok, err := store.Exists("viewer-session-7")
	if err != nil || ok {
		t.Fatalf("revoked session should be absent, got %v,%v", ok, err)
	}
}

func TestRedisRefreshTokenStore_KeyShapeAndTTLFallback(t *testing.T) {
	fake := &fakeRedisKV{existsN: 1}
	store := &redisRefreshTokenStore{
		client: fake,
		prefix: "auth:refresh:",
	}

	if err := store.Store(" estimator-session-9 ", "estimator-ana", 0); err != nil {
		t.Fatalf("store failed: %v", err)
	}
	if fake.setKey != "auth:refresh:estimator-session-9" {
		t.Fatalf("jti should be trimmed and prefixed, got %q", fake.setKey)
	}
	if fake.setTTL <= 0 {
		t.Fatalf("non-positive TTL should fall back to a positive one, got %v", fake.setTTL)
	}

	ok, err := store.Exists(" estimator-session-9 ")
	if err != nil || !ok {
		t.Fatalf("expected exists true,nil; got %v,%v", ok, err)
	}
	if len(fake.existsKey) != 1 || fake.existsKey[0] != "auth:refresh:estimator-session-9" {
		t.Fatalf("unexpected exists key: %+v", fake.existsKey)
	}

	if err := store.Revoke(" estimator-session-9 "); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}
	if len(fake.delKey) != 1 || fake.delKey[0] != "auth:refresh:estimator-session-9" {
		t.Fatalf("unexpected del key: %+v", fake.delKey)
	}
}

func TestRedisRefreshTokenStore_ErrorsAndEmptyJTI(t *testing.T) {
	fake := &fakeRedisKV{
		setErr:    errors.New("set failed"),
		existsErr: errors.New("exists failed"),
		delErr:    errors.New("del failed"),
	}
	store := &redisRefreshTokenStore{
		client: fake,
		prefix: "auth:refresh:",
	}

	if err := store.Store("", "estimator-ana", time.Minute); err != nil {
		t.Fatalf("empty jti store should be no-op, got %v", err)
	}
	ok, err := store.Exists("")
	if err != nil || ok {
		t.Fatalf("empty jti exists should be false,nil; got %v,%v", ok, err)
	}
	if err := store.Revoke(""); err != nil {
		t.Fatalf("empty jti revoke should be no-op, got %v", err)
	}

	if err := store.Store("admin-session-2", "admin-marta", time.Minute); err == nil {
		t.Fatalf("expected store error")
	}
	if _, err := store.Exists("admin-session-2"); err == nil {
		t.Fatalf("expected exists error")
	}
	if err := store.Revoke("admin-session-2"); err == nil {
		t.Fatalf("expected revoke error")
	}
}
