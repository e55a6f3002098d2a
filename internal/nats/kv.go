package nats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/capitalize-ai/travel-concierge/internal/model"
	"github.com/capitalize-ai/travel-concierge/internal/store"
)

// BucketName is the key-value bucket holding conversations.
const BucketName = "concierge_conversations"

// KVStore implements store.Store on a JetStream key-value bucket. Keys are
// conversation ids, which must be valid KV keys.
type KVStore struct {
	kv jetstream.KeyValue
}

// NewKVStore opens or creates the conversation bucket.
func NewKVStore(ctx context.Context, client *Client) (*KVStore, error) {
	kv, err := client.JetStream().CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      BucketName,
		Description: "Concierge conversation state",
		History:     1,
		Storage:     jetstream.FileStorage,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open bucket: %w", err)
	}
	return &KVStore{kv: kv}, nil
}

func (s *KVStore) Save(ctx context.Context, c *model.ConversationState) error {
	c.SyncCount()
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode conversation %s: %w", c.ID, err)
	}
	if _, err := s.kv.Put(ctx, c.ID, data); err != nil {
		return fmt.Errorf("put conversation %s: %w", c.ID, err)
	}
	return nil
}

func (s *KVStore) Get(ctx context.Context, id string) (*model.ConversationState, error) {
	entry, err := s.kv.Get(ctx, id)
	if errors.Is(err, jetstream.ErrKeyNotFound) || errors.Is(err, jetstream.ErrInvalidKey) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get conversation %s: %w", id, err)
	}

	var c model.ConversationState
	if err := json.Unmarshal(entry.Value(), &c); err != nil {
		return nil, fmt.Errorf("decode conversation %s: %w", id, err)
	}
	return &c, nil
}

func (s *KVStore) List(ctx context.Context, limit int) ([]model.ConversationState, error) {
	return s.Find(ctx, store.Query{Limit: limit})
}

// Find scans every key in the bucket and filters the decoded conversations.
func (s *KVStore) Find(ctx context.Context, q store.Query) ([]model.ConversationState, error) {
	keys, err := s.kv.Keys(ctx)
	if errors.Is(err, jetstream.ErrNoKeysFound) {
		return []model.ConversationState{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}

	convs := make([]model.ConversationState, 0, len(keys))
	for _, key := range keys {
		c, err := s.Get(ctx, key)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if q.Match(c) {
			convs = append(convs, *c)
		}
	}
	return store.Select(convs, q), nil
}

func (s *KVStore) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.kv.Purge(ctx, id); err != nil {
		return fmt.Errorf("delete conversation %s: %w", id, err)
	}
	return nil
}
