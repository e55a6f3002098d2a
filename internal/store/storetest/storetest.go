// Package storetest is a conformance suite shared by every store.Store
// implementation.
package storetest

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/capitalize-ai/travel-concierge/internal/model"
	"github.com/capitalize-ai/travel-concierge/internal/store"
)

// Factory returns an empty store. It is called once per subtest.
type Factory func(t *testing.T) store.Store

var base = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

// Conversation builds a conversation with n alternating messages, last
// updated at base plus offset.
func Conversation(id string, n int, offset time.Duration) *model.ConversationState {
	c := model.NewConversationState(id, "sess-"+id, "traveler@example.com", "web", base)
	for i := 0; i < n; i++ {
		at := base.Add(time.Duration(i) * time.Second)
		if i%2 == 0 {
			c.Messages = append(c.Messages, model.NewUserMessage(fmt.Sprintf("question %d", i), at))
		} else {
			c.Messages = append(c.Messages, model.NewAssistantMessage(fmt.Sprintf("answer %d", i),
				model.ConsultantRef{Name: "Sarah Chen", Team: model.TeamFlightOperations}, at))
		}
	}
	c.UpdatedAt = base.Add(offset)
	return c
}

// Run exercises the Store contract against stores produced by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Helper()

	t.Run("GetMissing", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Get(context.Background(), "missing")
		if !errors.Is(err, store.ErrNotFound) {
			t.Errorf("Get() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("DeleteMissing", func(t *testing.T) {
		s := newStore(t)
		if err := s.Delete(context.Background(), "missing"); !errors.Is(err, store.ErrNotFound) {
			t.Errorf("Delete() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("RoundTrip", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		want := Conversation("conv-1", 4, time.Minute)
		want.Messages = append(want.Messages, model.ConversationMessage{
			Role: model.RoleAssistant, Content: "Olá! Tudo bem? ✈️", Timestamp: base.Add(time.Hour).UnixMilli(),
		})
		if err := s.Save(ctx, want); err != nil {
			t.Fatalf("Save() error = %v", err)
		}

		got, err := s.Get(ctx, "conv-1")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if diff := Diff(want, got); diff != "" {
			t.Error(diff)
		}
	})

	t.Run("SaveDerivesMessageCount", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		c := Conversation("conv-1", 3, 0)
		c.Metadata.MessageCount = 42
		if err := s.Save(ctx, c); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		got, err := s.Get(ctx, "conv-1")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got.Metadata.MessageCount != 3 {
			t.Errorf("MessageCount = %d, want 3", got.Metadata.MessageCount)
		}
	})

	t.Run("SaveReplaces", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		c := Conversation("conv-1", 2, 0)
		if err := s.Save(ctx, c); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		c.Messages = append(c.Messages, model.NewUserMessage("one more", base.Add(time.Hour)))
		c.Complete(base.Add(2 * time.Hour))
		if err := s.Save(ctx, c); err != nil {
			t.Fatalf("second Save() error = %v", err)
		}

		got, err := s.Get(ctx, "conv-1")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if len(got.Messages) != 3 || got.Status != model.StatusCompleted {
			t.Errorf("got %d messages, status %q", len(got.Messages), got.Status)
		}
		all, err := s.List(ctx, 10)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(all) != 1 {
			t.Errorf("List() returned %d conversations, want 1", len(all))
		}
	})

	t.Run("ListNewestFirst", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		for i, id := range []string{"b", "a", "d", "c"} {
			offsets := []time.Duration{2 * time.Minute, time.Minute, 4 * time.Minute, 3 * time.Minute}
			if err := s.Save(ctx, Conversation(id, 2, offsets[i])); err != nil {
				t.Fatalf("Save(%s) error = %v", id, err)
			}
		}

		got, err := s.List(ctx, 10)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if ids := idsOf(got); !reflect.DeepEqual(ids, []string{"d", "c", "b", "a"}) {
			t.Errorf("List() ids = %v", ids)
		}

		got, err = s.List(ctx, 2)
		if err != nil {
			t.Fatalf("List(2) error = %v", err)
		}
		if ids := idsOf(got); !reflect.DeepEqual(ids, []string{"d", "c"}) {
			t.Errorf("List(2) ids = %v", ids)
		}
	})

	t.Run("Find", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		seed := []struct {
			id     string
			user   string
			offset time.Duration
			status model.Status
		}{
			{"t1", "traveler@example.com", time.Minute, model.StatusActive},
			{"b1", "bob@example.com", 2 * time.Minute, model.StatusActive},
			{"b2", "bob@example.com", 3 * time.Minute, model.StatusCompleted},
			{"t2", "traveler@example.com", 4 * time.Minute, model.StatusCompleted},
			{"b3", "bob@example.com", 5 * time.Minute, model.StatusActive},
		}
		for _, c := range seed {
			conv := Conversation(c.id, 2, c.offset)
			conv.UserID = c.user
			conv.Status = c.status
			if err := s.Save(ctx, conv); err != nil {
				t.Fatalf("Save(%s) error = %v", c.id, err)
			}
		}

		tests := []struct {
			name string
			q    store.Query
			want []string
		}{
			{"owner beyond newer rows", store.Query{UserID: "traveler@example.com", Limit: 2}, []string{"t2", "t1"}},
			{"owner limit", store.Query{UserID: "bob@example.com", Limit: 2}, []string{"b3", "b2"}},
			{"status", store.Query{Status: model.StatusActive, Limit: 10}, []string{"b3", "b1", "t1"}},
			{"updated before", store.Query{UpdatedBefore: base.Add(3 * time.Minute), Limit: 10}, []string{"b1", "t1"}},
			{"combined", store.Query{UserID: "bob@example.com", Status: model.StatusActive, UpdatedBefore: base.Add(5 * time.Minute), Limit: 10}, []string{"b1"}},
			{"no match", store.Query{UserID: "nobody@example.com"}, []string{}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				got, err := s.Find(ctx, tt.q)
				if err != nil {
					t.Fatalf("Find() error = %v", err)
				}
				if got == nil {
					t.Fatal("Find() returned nil slice")
				}
				if ids := idsOf(got); !reflect.DeepEqual(ids, tt.want) {
					t.Errorf("Find() ids = %v, want %v", ids, tt.want)
				}
			})
		}
	})

	t.Run("ListEmpty", func(t *testing.T) {
		s := newStore(t)
		got, err := s.List(context.Background(), 0)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if got == nil || len(got) != 0 {
			t.Errorf("List() = %#v, want empty non-nil slice", got)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		for _, id := range []string{"keep", "drop"} {
			if err := s.Save(ctx, Conversation(id, 1, 0)); err != nil {
				t.Fatalf("Save(%s) error = %v", id, err)
			}
		}
		if err := s.Delete(ctx, "drop"); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if _, err := s.Get(ctx, "drop"); !errors.Is(err, store.ErrNotFound) {
			t.Errorf("Get(drop) error = %v, want ErrNotFound", err)
		}
		all, err := s.List(ctx, 10)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if ids := idsOf(all); !reflect.DeepEqual(ids, []string{"keep"}) {
			t.Errorf("List() ids = %v", ids)
		}
	})
}

// Diff describes the differences between two conversations, comparing
// timestamps by instant. It returns "" when they match.
func Diff(want, got *model.ConversationState) string {
	if !want.CreatedAt.Equal(got.CreatedAt) || !want.UpdatedAt.Equal(got.UpdatedAt) {
		return fmt.Sprintf("timestamps: want %v/%v, got %v/%v", want.CreatedAt, want.UpdatedAt, got.CreatedAt, got.UpdatedAt)
	}
	w, g := *want, *got
	w.CreatedAt, w.UpdatedAt = time.Time{}, time.Time{}
	g.CreatedAt, g.UpdatedAt = time.Time{}, time.Time{}
	if !reflect.DeepEqual(w, g) {
		return fmt.Sprintf("conversation mismatch:\nwant %+v\ngot  %+v", w, g)
	}
	return ""
}

func idsOf(convs []model.ConversationState) []string {
	ids := make([]string, len(convs))
	for i, c := range convs {
		ids[i] = c.ID
	}
	return ids
}
