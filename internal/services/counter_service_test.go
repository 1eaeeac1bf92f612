package services

import (
	"context"
	"errors"
	"testing"

	"github.com/kjiyu/devlog/backend/internal/repositories"
)

func TestVisitIncrementsAndProbes(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	if err := env.visitors.EnsureSeed(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}

	for i := 1; i <= 3; i++ {
		visitor, err := env.counter.Visit(ctx, true)
		if err != nil {
			t.Fatalf("visit %d: %v", i, err)
		}
		if visitor.Views != i {
			t.Fatalf("views = %d after visit %d", visitor.Views, i)
		}
	}

	// a probe returns the value without bumping it
	probe, err := env.counter.Visit(ctx, false)
	if err != nil {
		t.Fatalf("probe: %v", err)
	}
	if probe.Views != 3 {
		t.Fatalf("probe views = %d, want 3", probe.Views)
	}
}

func TestVisitUnseededCounter(t *testing.T) {
	env := newTestEnv()
	if _, err := env.counter.Visit(context.Background(), true); !errors.Is(err, repositories.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on unseeded counter, got %v", err)
	}
}
