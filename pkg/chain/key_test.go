package chain

import (
	"reflect"
	"testing"
)

func TestStateKey(t *testing.T) {
	c, err := New(sampleCorpus(), WithStateSize[string](2))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	// A single symbol and its one-element sequence share a key.
	single, err := c.StateKey("foo")
	if err != nil {
		t.Fatalf("StateKey() failed: %v", err)
	}
	seq, err := c.StateKey([]string{"foo"}...)
	if err != nil {
		t.Fatalf("StateKey() failed: %v", err)
	}
	if single != seq {
		t.Errorf("single-symbol key %q differs from sequence key %q", single, seq)
	}

	// Order is preserved and distinct sequences get distinct keys.
	ab, _ := c.StateKey("a", "b")
	ba, _ := c.StateKey("b", "a")
	if ab == ba {
		t.Errorf("expected order-sensitive keys, got %q for both", ab)
	}

	// A symbol spelled like the sentinel text still cannot collide with the
	// sentinel token: the JSON encoding carries quotes, the token does not.
	hostile, err := c.StateKey(BeginToken)
	if err != nil {
		t.Fatalf("StateKey() failed: %v", err)
	}
	if hostile == BeginToken {
		t.Error("host symbol collided with the begin sentinel")
	}
}

func TestStateKeyEmbeddedSeparator(t *testing.T) {
	c, err := New[string](nil)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	// A symbol containing the key separator must not produce the same key as
	// the two symbols it would split into.
	joined, _ := c.StateKey(`a b`)
	split, _ := c.StateKey("a", "b")
	if joined == split {
		t.Errorf("key for %q collided with key for [a b]: %q", `a b`, joined)
	}
}

func TestBeginState(t *testing.T) {
	want := []string{BeginToken, BeginToken, BeginToken}
	if got := BeginState(3); !reflect.DeepEqual(got, want) {
		t.Errorf("BeginState(3) = %v, want %v", got, want)
	}
	if got := BeginState(0); len(got) != 0 {
		t.Errorf("BeginState(0) = %v, want empty", got)
	}
}

func TestStats(t *testing.T) {
	c, err := New(sampleCorpus(), WithStateSize[string](2))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	stats := c.Stats()
	if stats.States != 8 {
		t.Errorf("expected 8 states, got %d", stats.States)
	}
	if stats.Links != 9 {
		t.Errorf("expected 9 links, got %d", stats.Links)
	}
	// Two runs of four symbols each: (4+1) windows per run.
	if stats.TotalCount != 10 {
		t.Errorf("expected total count 10, got %d", stats.TotalCount)
	}
	if stats.StartingSymbols != 1 {
		t.Errorf("expected 1 starting symbol, got %d", stats.StartingSymbols)
	}
}
