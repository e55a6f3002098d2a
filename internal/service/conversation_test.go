package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/capitalize-ai/travel-concierge/internal/model"
	"github.com/capitalize-ai/travel-concierge/internal/session"
	"github.com/capitalize-ai/travel-concierge/internal/store"
	"github.com/capitalize-ai/travel-concierge/pkg/logger"
)

// hookStore runs one-shot callbacks around Get and Find, standing in for a
// request that lands between two steps of an operation.
type hookStore struct {
	*store.MemoryStore
	beforeGet func()
	afterFind func()
}

func (h *hookStore) Get(ctx context.Context, id string) (*model.ConversationState, error) {
	if fn := h.beforeGet; fn != nil {
		h.beforeGet = nil
		fn()
	}
	return h.MemoryStore.Get(ctx, id)
}

func (h *hookStore) Find(ctx context.Context, q store.Query) ([]model.ConversationState, error) {
	convs, err := h.MemoryStore.Find(ctx, q)
	if fn := h.afterFind; fn != nil {
		h.afterFind = nil
		fn()
	}
	return convs, err
}

func TestConversations_OwnerFilter(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.turn(t, "mine", "Hi")
	if _, err := f.svc.ProcessTurn(ctx, TurnRequest{SessionID: "theirs", UserID: "other@example.com", Message: "Hi"}); err != nil {
		t.Fatal(err)
	}

	mine, err := f.svc.Conversations(ctx, "traveler@example.com", 10)
	if err != nil {
		t.Fatalf("Conversations() error = %v", err)
	}
	if len(mine) != 1 || mine[0].ID != "mine" {
		t.Errorf("Conversations() = %+v", mine)
	}

	all, err := f.svc.Conversations(ctx, "", 10)
	if err != nil || len(all) != 2 {
		t.Errorf("Conversations(all) = %d, %v", len(all), err)
	}
}

func TestConversations_OwnerBehindNewerConversations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.turn(t, "mine", "Hi")
	for _, id := range []string{"bob-1", "bob-2"} {
		f.clock = f.clock.Add(time.Minute)
		if _, err := f.svc.ProcessTurn(ctx, TurnRequest{SessionID: id, UserID: "bob@example.com", Message: "Hi"}); err != nil {
			t.Fatal(err)
		}
	}

	mine, err := f.svc.Conversations(ctx, "traveler@example.com", 2)
	if err != nil {
		t.Fatalf("Conversations() error = %v", err)
	}
	if len(mine) != 1 || mine[0].ID != "mine" {
		t.Errorf("Conversations() = %d conversations, want [mine]", len(mine))
	}
}

func TestConversation_Access(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.turn(t, "sess-1", "Hi")

	if _, err := f.svc.Conversation(ctx, "sess-1", "traveler@example.com"); err != nil {
		t.Errorf("owner Conversation() error = %v", err)
	}
	if _, err := f.svc.Conversation(ctx, "sess-1", "intruder@example.com"); !errors.Is(err, ErrForbidden) {
		t.Errorf("intruder Conversation() error = %v, want ErrForbidden", err)
	}
	if _, err := f.svc.Conversation(ctx, "nope", "traveler@example.com"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("missing Conversation() error = %v, want ErrNotFound", err)
	}
}

func TestSave(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c := &model.ConversationState{
		Messages: []model.ConversationMessage{model.NewUserMessage("hello", f.clock)},
	}
	if err := f.svc.Save(ctx, c, "traveler@example.com"); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if c.ID == "" || c.SessionID != c.ID || c.UserID != "traveler@example.com" || c.Status != model.StatusActive {
		t.Errorf("Save() filled = %+v", c)
	}

	stolen := c.Clone()
	stolen.UserID = ""
	if err := f.svc.Save(ctx, stolen, "intruder@example.com"); !errors.Is(err, ErrForbidden) {
		t.Errorf("overwrite by other user error = %v, want ErrForbidden", err)
	}
}

func TestDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.turn(t, "sess-1", "Hi")

	if err := f.svc.Delete(ctx, "sess-1", "intruder@example.com"); !errors.Is(err, ErrForbidden) {
		t.Errorf("intruder Delete() error = %v", err)
	}
	if err := f.svc.Delete(ctx, "sess-1", "traveler@example.com"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, ok := f.svc.sessions.Get("sess-1"); ok {
		t.Error("live context should be discarded")
	}
	if err := f.svc.Delete(ctx, "sess-1", "traveler@example.com"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
}

func TestComplete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.turn(t, "sess-1", "Book the flight to Lisbon please")

	c, err := f.svc.Complete(ctx, "sess-1", "traveler@example.com")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if c.Status != model.StatusCompleted {
		t.Errorf("Status = %q", c.Status)
	}
	if f.events.count(model.EventTypeStatus) != 1 {
		t.Error("completion should publish a status event")
	}

	again, err := f.svc.Complete(ctx, "sess-1", "traveler@example.com")
	if err != nil || again.Status != model.StatusCompleted || f.events.count(model.EventTypeStatus) != 1 {
		t.Errorf("second Complete() = %+v, %v", again, err)
	}
}

func TestComplete_KeepsConcurrentTurn(t *testing.T) {
	hs := &hookStore{MemoryStore: store.NewMemoryStore()}
	clock := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	svc := NewConciergeService(hs, session.NewRegistry(time.Hour), nil, nil, logger.Nop(),
		WithClock(func() time.Time { return clock }))
	ctx := context.Background()

	if _, err := svc.ProcessTurn(ctx, TurnRequest{SessionID: "sess-1", Message: "Hi"}); err != nil {
		t.Fatal(err)
	}
	hs.beforeGet = func() {
		clock = clock.Add(time.Minute)
		if _, err := svc.ProcessTurn(ctx, TurnRequest{SessionID: "sess-1", Message: "Book the flight to Lisbon please"}); err != nil {
			t.Errorf("concurrent ProcessTurn() error = %v", err)
		}
	}

	c, err := svc.Complete(ctx, "sess-1", "")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	stored, err := hs.MemoryStore.Get(ctx, "sess-1")
	if err != nil {
		t.Fatal(err)
	}
	if stored.Status != model.StatusCompleted || stored.Metadata.MessageCount != 4 || c.Metadata.MessageCount != 4 {
		t.Errorf("after Complete: status=%q messageCount=%d, want completed with 4 messages",
			stored.Status, stored.Metadata.MessageCount)
	}
}

func TestAbandonIdle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.turn(t, "stale", "Hi")
	f.clock = f.clock.Add(90 * time.Minute)
	f.turn(t, "fresh", "Hi")
	f.turn(t, "done", "Hi")
	if _, err := f.svc.Complete(ctx, "done", ""); err != nil {
		t.Fatal(err)
	}

	n, err := f.svc.AbandonIdle(ctx, time.Hour)
	if err != nil {
		t.Fatalf("AbandonIdle() error = %v", err)
	}
	if n != 1 {
		t.Errorf("AbandonIdle() = %d, want 1", n)
	}

	want := map[string]model.Status{
		"stale": model.StatusAbandoned,
		"fresh": model.StatusActive,
		"done":  model.StatusCompleted,
	}
	for id, status := range want {
		c, err := f.store.Get(ctx, id)
		if err != nil {
			t.Fatalf("Get(%s) error = %v", id, err)
		}
		if c.Status != status {
			t.Errorf("%s status = %q, want %q", id, c.Status, status)
		}
	}
	if _, ok := f.svc.sessions.Get("stale"); ok {
		t.Error("stale session context should be discarded")
	}
}

func TestAbandonIdle_BeyondOneBatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	old := f.clock.Add(-48 * time.Hour)
	for i := 0; i < sweepBatch+5; i++ {
		c := model.NewConversationState(fmt.Sprintf("old-%04d", i), fmt.Sprintf("old-%04d", i), "", "web", old)
		c.UpdatedAt = old.Add(time.Duration(i) * time.Second)
		if err := f.store.Save(ctx, c); err != nil {
			t.Fatal(err)
		}
	}
	f.turn(t, "fresh", "Hi")

	n, err := f.svc.AbandonIdle(ctx, time.Hour)
	if err != nil {
		t.Fatalf("AbandonIdle() error = %v", err)
	}
	if n != sweepBatch+5 {
		t.Errorf("AbandonIdle() = %d, want %d", n, sweepBatch+5)
	}

	oldest, err := f.store.Get(ctx, "old-0000")
	if err != nil {
		t.Fatal(err)
	}
	if oldest.Status != model.StatusAbandoned {
		t.Errorf("oldest conversation status = %q, want abandoned", oldest.Status)
	}
	fresh, err := f.store.Get(ctx, "fresh")
	if err != nil {
		t.Fatal(err)
	}
	if fresh.Status != model.StatusActive {
		t.Errorf("fresh conversation status = %q, want active", fresh.Status)
	}
}

func TestAbandonIdle_SkipsConversationResumedMeanwhile(t *testing.T) {
	hs := &hookStore{MemoryStore: store.NewMemoryStore()}
	clock := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	svc := NewConciergeService(hs, session.NewRegistry(time.Hour), nil, nil, logger.Nop(),
		WithClock(func() time.Time { return clock }))
	ctx := context.Background()

	if _, err := svc.ProcessTurn(ctx, TurnRequest{SessionID: "sess-1", Message: "Hi"}); err != nil {
		t.Fatal(err)
	}
	clock = clock.Add(2 * time.Hour)
	hs.afterFind = func() {
		if _, err := svc.ProcessTurn(ctx, TurnRequest{SessionID: "sess-1", Message: "I'm back, I need a hotel in Rome"}); err != nil {
			t.Errorf("ProcessTurn() error = %v", err)
		}
	}

	n, err := svc.AbandonIdle(ctx, time.Hour)
	if err != nil {
		t.Fatalf("AbandonIdle() error = %v", err)
	}
	c, err := hs.MemoryStore.Get(ctx, "sess-1")
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 || c.Status != model.StatusActive || c.Metadata.MessageCount != 4 {
		t.Errorf("AbandonIdle() = %d, status=%q messageCount=%d; want 0, active, 4", n, c.Status, c.Metadata.MessageCount)
	}
}

func TestRunJanitor_StopsOnCancel(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		f.svc.RunJanitor(ctx, time.Millisecond, time.Hour)
		close(done)
	}()
	time.Sleep(5 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("RunJanitor did not stop")
	}
}
