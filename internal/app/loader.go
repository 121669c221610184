package app

import "context"

// Loader tracks the newest list load of one view. Starting a load cancels the
// previous one, and results carrying an older generation must be dropped.
// It is only touched from Update and needs no locking.
type Loader struct {
	cancel context.CancelFunc
	gen    uint64
}

// Start cancels any in-flight load and returns the context and generation
// for a new one.
func (l *Loader) Start() (context.Context, uint64) {
	l.Invalidate()
	ctx, cancel := context.WithCancel(context.Background())
	l.cancel = cancel
	return ctx, l.gen
}

// Current reports whether gen belongs to the newest load.
func (l *Loader) Current(gen uint64) bool {
	return gen == l.gen
}

// Finish releases the context of load gen if it is still the newest.
// It reports whether the result should be applied.
func (l *Loader) Finish(gen uint64) bool {
	if !l.Current(gen) {
		return false
	}
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	return true
}

// Invalidate cancels the in-flight load and makes every outstanding
// result stale.
func (l *Loader) Invalidate() {
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.gen++
}

// Generation returns the current generation.
func (l *Loader) Generation() uint64 {
	return l.gen
}
