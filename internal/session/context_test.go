package session

import (
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/capitalize-ai/travel-concierge/internal/intent"
)

func TestContext_Monotonic(t *testing.T) {
	c := New("sess-1")

	if c.HasInteracted(intent.Greeting) {
		t.Fatal("fresh context should have no interactions")
	}

	sequence := []intent.Intent{
		intent.Greeting,
		intent.ServiceRequest,
		intent.Gratitude,
		intent.ServiceRequest,
	}
	for i, in := range sequence {
		c.AddInteraction(in, "reply")
		for _, prev := range sequence[:i+1] {
			if !c.HasInteracted(prev) {
				t.Fatalf("after %d adds, %q no longer reported", i+1, prev)
			}
		}
	}

	if c.HasInteracted(intent.Farewell) {
		t.Error("farewell was never recorded")
	}
	if c.Len() != len(sequence) {
		t.Errorf("Len() = %d, want %d", c.Len(), len(sequence))
	}
}

func TestContext_InteractionsIsCopy(t *testing.T) {
	c := New("sess-1")
	c.AddInteraction(intent.Greeting, "Hi!")

	got := c.Interactions()
	got[0].Summary = "changed"

	again := c.Interactions()
	if len(again) != 1 || again[0].Summary != "Hi!" {
		t.Errorf("log was mutated through copy: %+v", again)
	}
	if c.SessionID() != "sess-1" {
		t.Errorf("SessionID() = %q", c.SessionID())
	}
}

func TestContext_ConcurrentAdds(t *testing.T) {
	c := New("sess-1")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.AddInteraction(intent.ServiceRequest, "ok")
			_ = c.HasInteracted(intent.ServiceRequest)
		}()
	}
	wg.Wait()

	if c.Len() != 50 {
		t.Errorf("Len() = %d, want 50", c.Len())
	}
}

func TestRegistry_GetOrCreate(t *testing.T) {
	r := NewRegistry(time.Hour)

	a, created := r.GetOrCreate("a")
	if !created {
		t.Error("first GetOrCreate should create")
	}
	a.AddInteraction(intent.Greeting, "Hi")

	again, created := r.GetOrCreate("a")
	if created || again != a {
		t.Error("second GetOrCreate should return the same context")
	}

	b, _ := r.GetOrCreate("b")
	if b.HasInteracted(intent.Greeting) {
		t.Error("sessions must be isolated")
	}

	r.Discard("a")
	if _, ok := r.Get("a"); ok {
		t.Error("discarded context still present")
	}
	if r.Len() != 1 {
		t.Errorf("Len() = %d, want 1", r.Len())
	}
}

func TestRegistry_Sweep(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := start

	r := NewRegistry(30 * time.Minute)
	r.now = func() time.Time { return clock }

	r.GetOrCreate("old")
	clock = start.Add(20 * time.Minute)
	r.GetOrCreate("fresh")

	expired := r.Sweep(start.Add(40 * time.Minute))
	sort.Strings(expired)
	if len(expired) != 1 || expired[0] != "old" {
		t.Fatalf("Sweep() = %v, want [old]", expired)
	}
	if _, ok := r.Get("fresh"); !ok {
		t.Error("fresh context should survive")
	}

	if got := NewRegistry(0).Sweep(start.Add(24 * time.Hour)); got != nil {
		t.Errorf("zero ttl should never expire, got %v", got)
	}
}
