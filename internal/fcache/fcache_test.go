package fcache

import (
	"context"
	"testing"
	"time"
)

func TestEntryNearHorizon(t *testing.T) {
	last := time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC)
	margin := 3 * time.Hour

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"well before horizon", last.Add(-48 * time.Hour), false},
		{"just outside margin", last.Add(-margin), false},
		{"inside margin", last.Add(-margin + time.Minute), true},
		{"at horizon", last, true},
		{"past horizon", last.Add(time.Hour), true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := Entry{LastForecast: last}
			if got := e.NearHorizon(tc.now, margin); got != tc.want {
				t.Errorf("NearHorizon = %v, want %v", got, tc.want)
			}
		})
	}

	// Zero LastForecast means the payload carried no parseable series; only
	// the TTL governs it then.
	e := Entry{}
	if e.NearHorizon(time.Now(), margin) {
		t.Error("zero LastForecast must never be near horizon")
	}
}

func TestMemoryGetSet(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if _, ok, err := m.Get(ctx, "k"); ok || err != nil {
		t.Fatalf("Get on empty store = (ok=%v, err=%v), want miss", ok, err)
	}

	e := Entry{Payload: []byte(`{"daily":{}}`), FetchedAt: time.Now()}
	if err := m.Set(ctx, "k", e, time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, ok, err := m.Get(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("Get = (ok=%v, err=%v), want hit", ok, err)
	}
	if string(got.Payload) != string(e.Payload) {
		t.Errorf("payload = %q, want %q", got.Payload, e.Payload)
	}
}

func TestMemoryExpiry(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	if err := m.Set(ctx, "k", Entry{Payload: []byte("x")}, time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, ok, _ := m.Get(ctx, "k"); !ok {
		t.Fatal("expected hit inside TTL")
	}

	now = now.Add(time.Hour + time.Second)
	if _, ok, _ := m.Get(ctx, "k"); ok {
		t.Fatal("expected miss after TTL")
	}
	// The expired entry is evicted, not just hidden.
	m.mu.RLock()
	_, present := m.data["k"]
	m.mu.RUnlock()
	if present {
		t.Error("expired entry still in map after Get")
	}
}

func TestMemorySetReplaces(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if err := m.Set(ctx, "k", Entry{Payload: []byte("old")}, time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := m.Set(ctx, "k", Entry{Payload: []byte("new")}, time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, ok, _ := m.Get(ctx, "k")
	if !ok || string(got.Payload) != "new" {
		t.Errorf("Get = (%q, %v), want new payload", got.Payload, ok)
	}
}

func TestMemoryClear(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if err := m.Set(ctx, "a", Entry{}, time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := m.Set(ctx, "b", Entry{}, time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := m.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	for _, k := range []string{"a", "b"} {
		if _, ok, _ := m.Get(ctx, k); ok {
			t.Errorf("key %q survived Clear", k)
		}
	}
}

func TestMemoryRespectsContext(t *testing.T) {
	m := NewMemory()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, _, err := m.Get(ctx, "k"); err == nil {
		t.Error("Get with canceled context: expected error")
	}
	if err := m.Set(ctx, "k", Entry{}, time.Minute); err == nil {
		t.Error("Set with canceled context: expected error")
	}
	if err := m.Clear(ctx); err == nil {
		t.Error("Clear with canceled context: expected error")
	}
}
