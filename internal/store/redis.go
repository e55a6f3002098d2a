package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/capitalize-ai/travel-concierge/internal/model"
)

// RedisStore keeps one JSON document per conversation under
// "{prefix}:conv:{id}" and a sorted set "{prefix}:conv:index" scored by the
// update time in milliseconds.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisStore creates a store on an existing client. An empty prefix
// defaults to "concierge".
func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "concierge"
	}
	return &RedisStore{client: client, prefix: prefix}
}

// NewRedisStoreFromURL parses a redis:// URL and verifies the connection.
func NewRedisStoreFromURL(ctx context.Context, url, prefix string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewRedisStore(client, prefix), nil
}

// Close closes the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) key(id string) string {
	return s.prefix + ":conv:" + id
}

func (s *RedisStore) indexKey() string {
	return s.prefix + ":conv:index"
}

func (s *RedisStore) Save(ctx context.Context, c *model.ConversationState) error {
	c.SyncCount()
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode conversation %s: %w", c.ID, err)
	}

	_, err = s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, s.key(c.ID), data, 0)
		p.ZAdd(ctx, s.indexKey(), redis.Z{Score: float64(c.UpdatedAt.UnixMilli()), Member: c.ID})
		return nil
	})
	if err != nil {
		return fmt.Errorf("save conversation %s: %w", c.ID, err)
	}
	return nil
}

// scanChunk is how many index entries Find loads per round trip.
const scanChunk = 100

func (s *RedisStore) List(ctx context.Context, limit int) ([]model.ConversationState, error) {
	return s.Find(ctx, Query{Limit: limit})
}

// Find walks the update-time index from the newest entry, loading documents
// a chunk at a time until q.Limit matches are found. UpdatedBefore bounds the
// index range; the remaining filters apply to the decoded documents.
func (s *RedisStore) Find(ctx context.Context, q Query) ([]model.ConversationState, error) {
	maxScore := "+inf"
	if !q.UpdatedBefore.IsZero() {
		maxScore = strconv.FormatInt(q.UpdatedBefore.UnixMilli(), 10)
	}
	n := listLimit(q.Limit)

	convs := []model.ConversationState{}
	for offset := int64(0); len(convs) < n; offset += scanChunk {
		ids, err := s.client.ZRevRangeByScore(ctx, s.indexKey(), &redis.ZRangeBy{
			Min:    "-inf",
			Max:    maxScore,
			Offset: offset,
			Count:  scanChunk,
		}).Result()
		if err != nil {
			return nil, fmt.Errorf("list conversation index: %w", err)
		}
		if len(ids) == 0 {
			break
		}

		page, err := s.load(ctx, ids)
		if err != nil {
			return nil, err
		}
		for i := range page {
			if len(convs) == n {
				break
			}
			if q.Match(&page[i]) {
				convs = append(convs, page[i])
			}
		}
		if len(ids) < scanChunk {
			break
		}
	}
	return convs, nil
}

func (s *RedisStore) load(ctx context.Context, ids []string) ([]model.ConversationState, error) {
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.key(id)
	}
	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("load conversations: %w", err)
	}

	convs := make([]model.ConversationState, 0, len(vals))
	for i, v := range vals {
		raw, ok := v.(string)
		if !ok {
			// Index entry without a document; the conversation was deleted
			// between the two reads.
			continue
		}
		var c model.ConversationState
		if err := json.Unmarshal([]byte(raw), &c); err != nil {
			return nil, fmt.Errorf("decode conversation %s: %w", ids[i], err)
		}
		convs = append(convs, c)
	}
	return convs, nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (*model.ConversationState, error) {
	raw, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get conversation %s: %w", id, err)
	}

	var c model.ConversationState
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("decode conversation %s: %w", id, err)
	}
	return &c, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	var del *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		del = p.Del(ctx, s.key(id))
		p.ZRem(ctx, s.indexKey(), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete conversation %s: %w", id, err)
	}
	if del.Val() == 0 {
		return ErrNotFound
	}
	return nil
}
