package history

import (
	"context"
	"testing"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore()
	ctx := context.Background()

	keys, err := s.LoadKeys(ctx)
	if err != nil {
		t.Fatalf("LoadKeys: %v", err)
	}
	if len(keys) != 0 {
		t.Fatalf("fresh store returned %d keys", len(keys))
	}

	if err := s.AppendKeys(ctx, "run-1", []string{"a", "b"}); err != nil {
		t.Fatalf("AppendKeys: %v", err)
	}
	if err := s.AppendKeys(ctx, "run-2", []string{"b", "c"}); err != nil {
		t.Fatalf("AppendKeys: %v", err)
	}

	keys, err = s.LoadKeys(ctx)
	if err != nil {
		t.Fatalf("LoadKeys: %v", err)
	}
	want := []string{"a", "b", "c"}
	if len(keys) != len(want) {
		t.Fatalf("LoadKeys = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("keys[%d] = %q, want %q", i, keys[i], want[i])
		}
	}
}
