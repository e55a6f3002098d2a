package store_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/capitalize-ai/travel-concierge/internal/store"
	"github.com/capitalize-ai/travel-concierge/internal/store/storetest"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *store.RedisStore) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, store.NewRedisStore(client, "test")
}

func TestRedisStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		_, s := newRedis(t)
		return s
	})
}

func TestRedisStore_Keys(t *testing.T) {
	mr, s := newRedis(t)
	if err := s.Save(context.Background(), storetest.Conversation("conv-1", 2, 0)); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if !mr.Exists("test:conv:conv-1") {
		t.Error("document key missing")
	}
	members, err := mr.ZMembers("test:conv:index")
	if err != nil || len(members) != 1 || members[0] != "conv-1" {
		t.Errorf("index = %v, %v", members, err)
	}
}

func TestRedisStore_StaleIndexEntry(t *testing.T) {
	mr, s := newRedis(t)
	ctx := context.Background()

	if err := s.Save(ctx, storetest.Conversation("conv-1", 2, 0)); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	mr.Del("test:conv:conv-1")

	got, err := s.List(ctx, 10)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("List() = %d conversations, want 0", len(got))
	}
}

func TestRedisStore_ServerDown(t *testing.T) {
	mr, s := newRedis(t)
	mr.Close()

	if _, err := s.Get(context.Background(), "conv-1"); err == nil {
		t.Error("Get() should fail when redis is unreachable")
	}
}
