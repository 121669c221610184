package app

import (
	"context"
	"errors"
	"testing"
)

func TestLoader_NewerLoadWins(t *testing.T) {
	var l Loader

	ctx1, gen1 := l.Start()
	ctx2, gen2 := l.Start()

	if !errors.Is(ctx1.Err(), context.Canceled) {
		t.Error("starting a new load should cancel the previous context")
	}
	if ctx2.Err() != nil {
		t.Error("newest context should be live")
	}
	if l.Finish(gen1) {
		t.Error("stale generation should be rejected")
	}
	if !l.Finish(gen2) {
		t.Error("current generation should be accepted")
	}
	if ctx2.Err() == nil {
		t.Error("Finish should release the context")
	}
}

func TestLoader_Invalidate(t *testing.T) {
	var l Loader
	ctx, gen := l.Start()

	l.Invalidate()

	if ctx.Err() == nil {
		t.Error("Invalidate should cancel the in-flight load")
	}
	if l.Current(gen) {
		t.Error("Invalidate should make outstanding results stale")
	}
	if l.Generation() != gen+1 {
		t.Errorf("Generation = %d, want %d", l.Generation(), gen+1)
	}

	// Invalidating twice without a load in flight is harmless.
	l.Invalidate()
}
