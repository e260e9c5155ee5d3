package cache

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"trainingpanel/internal/domain/activity"
)

// TestMemory_TTL verifies entries expire and Invalidate drops them.
func TestMemory_TTL(t *testing.T) {
	m := NewMemory(time.Minute)
	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }
	ctx := context.Background()

	m.Set(ctx, "ania", []activity.Config{{Name: "Coffee", Category: "Bad Habits", IsBadHabit: true}})
	cfg, ok, _ := m.Get(ctx, "ania")
	if !ok || len(cfg) != 1 || cfg[0].Name != "Coffee" {
		t.Fatalf("Get = %v, %v", cfg, ok)
	}
	if _, ok, _ := m.Get(ctx, "tomek"); ok {
		t.Error("other tenant must miss")
	}

	now = now.Add(time.Minute)
	if _, ok, _ := m.Get(ctx, "ania"); ok {
		t.Error("entry should expire after TTL")
	}

	m.Set(ctx, "ania", nil)
	m.Invalidate(ctx, "ania")
	if _, ok, _ := m.Get(ctx, "ania"); ok {
		t.Error("entry should be gone after Invalidate")
	}
}

// TestMemory_ReturnsCopies verifies callers cannot mutate the cached snapshot.
func TestMemory_ReturnsCopies(t *testing.T) {
	m := NewMemory(0)
	ctx := context.Background()
	src := []activity.Config{{Name: "Pushups", Category: "Strength"}}
	m.Set(ctx, "ania", src)
	src[0].Name = "changed"

	got, _, _ := m.Get(ctx, "ania")
	got[0].Category = "changed"
	again, _, _ := m.Get(ctx, "ania")
	if again[0].Name != "Pushups" || again[0].Category != "Strength" {
		t.Errorf("cached snapshot was mutated: %+v", again[0])
	}
}

type failingCache struct{}

func (failingCache) Get(context.Context, string) ([]activity.Config, bool, error) {
	return nil, false, errors.New("cache down")
}
func (failingCache) Set(context.Context, string, []activity.Config) error {
	return errors.New("cache down")
}
func (failingCache) Invalidate(context.Context, string) error { return errors.New("cache down") }

// TestReadThrough verifies loads happen once per miss and cache errors degrade to a load.
func TestReadThrough(t *testing.T) {
	ctx := context.Background()
	loads := 0
	load := func(context.Context) ([]activity.Config, error) {
		loads++
		return []activity.Config{{Name: "Squats", Category: "Strength"}}, nil
	}

	m := NewMemory(time.Minute)
	for i := 0; i < 3; i++ {
		cfg, err := ReadThrough(ctx, m, "ania", load)
		if err != nil || len(cfg) != 1 {
			t.Fatalf("ReadThrough = %v, %v", cfg, err)
		}
	}
	if loads != 1 {
		t.Errorf("loads = %d, want 1", loads)
	}
	m.Invalidate(ctx, "ania")
	ReadThrough(ctx, m, "ania", load)
	if loads != 2 {
		t.Errorf("loads after invalidate = %d, want 2", loads)
	}

	cfg, err := ReadThrough(ctx, failingCache{}, "ania", load)
	if err != nil || len(cfg) != 1 {
		t.Errorf("ReadThrough on failing cache = %v, %v", cfg, err)
	}

	_, err = ReadThrough(ctx, NewMemory(0), "ania", func(context.Context) ([]activity.Config, error) {
		return nil, errors.New("db down")
	})
	if err == nil {
		t.Error("loader error must propagate")
	}
}

// TestReadThrough_InvalidateDuringLoad verifies an invalidate racing a load
// leaves the stale snapshot only until the TTL runs out.
func TestReadThrough_InvalidateDuringLoad(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(time.Minute)
	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	current := "Strength"
	load := func(context.Context) ([]activity.Config, error) {
		cfg := []activity.Config{{Name: "Squats", Category: current}}
		// a writer commits and invalidates after the read, before Set
		current = "Legs"
		m.Invalidate(ctx, "ania")
		return cfg, nil
	}
	cfg, _ := ReadThrough(ctx, m, "ania", load)
	if cfg[0].Category != "Strength" {
		t.Fatalf("first read = %v", cfg)
	}

	cached, ok, _ := m.Get(ctx, "ania")
	if !ok || cached[0].Category != "Strength" {
		t.Fatalf("stale snapshot should be cached until expiry, got %v %v", cached, ok)
	}

	now = now.Add(time.Minute)
	cfg, _ = ReadThrough(ctx, m, "ania", func(context.Context) ([]activity.Config, error) {
		return []activity.Config{{Name: "Squats", Category: current}}, nil
	})
	if cfg[0].Category != "Legs" {
		t.Errorf("read after TTL = %v, want the committed category", cfg)
	}
}

// TestRedis_EncodeDecode verifies the stored snapshot format.
func TestRedis_EncodeDecode(t *testing.T) {
	raw, err := encode([]activity.Config{{Name: "Coffee", Category: "Bad Habits", IsBadHabit: true}})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if string(raw) != `[{"name":"Coffee","category":"Bad Habits","is_bad_habit":true}]` {
		t.Errorf("encoded = %s", raw)
	}
	cfg, err := decode(raw)
	if err != nil || len(cfg) != 1 || !cfg[0].IsBadHabit {
		t.Errorf("decode = %+v, %v", cfg, err)
	}
	if _, err := decode([]byte("not json")); err == nil {
		t.Error("decode of garbage should fail")
	}
	if Key("ania") != "trainingpanel:config:ania" {
		t.Errorf("Key = %q", Key("ania"))
	}
}

// TestRedis_RoundTrip runs against a live redis when TRAININGPANEL_TEST_REDIS is set.
func TestRedis_RoundTrip(t *testing.T) {
	addr := os.Getenv("TRAININGPANEL_TEST_REDIS")
	if addr == "" {
		t.Skip("TRAININGPANEL_TEST_REDIS not set")
	}
	ctx := context.Background()
	r, err := NewRedis(ctx, addr, "", 0, time.Minute)
	if err != nil {
		t.Fatalf("NewRedis: %v", err)
	}
	defer r.Close()

	tenant := "test-" + t.Name()
	defer r.Invalidate(ctx, tenant)
	if err := r.Set(ctx, tenant, []activity.Config{{Name: "Yoga", Category: "Recovery"}}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	cfg, ok, err := r.Get(ctx, tenant)
	if err != nil || !ok || cfg[0].Name != "Yoga" {
		t.Fatalf("Get = %v, %v, %v", cfg, ok, err)
	}
	r.Invalidate(ctx, tenant)
	if _, ok, _ := r.Get(ctx, tenant); ok {
		t.Error("expected miss after Invalidate")
	}
}

// TestBind_ScopesToTenant verifies a bound view only touches its own tenant.
func TestBind_ScopesToTenant(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(time.Minute)
	_ = m.Set(ctx, "tomek", []activity.Config{{Name: "Pompki", Category: "Strength"}})

	b := Bind(m, "ania")
	loads := 0
	load := func(context.Context) ([]activity.Config, error) {
		loads++
		return []activity.Config{{Name: "Squats", Category: "Strength"}}, nil
	}
	for i := 0; i < 2; i++ {
		cfg, err := b.Load(ctx, load)
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if len(cfg) != 1 || cfg[0].Name != "Squats" {
			t.Fatalf("cfg = %+v", cfg)
		}
	}
	if loads != 1 {
		t.Errorf("loads = %d, want 1", loads)
	}

	if err := b.Invalidate(ctx); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	if _, ok, _ := m.Get(ctx, "ania"); ok {
		t.Error("ania snapshot survived invalidation")
	}
	if _, ok, _ := m.Get(ctx, "tomek"); !ok {
		t.Error("tomek snapshot dropped by ania invalidation")
	}
}
