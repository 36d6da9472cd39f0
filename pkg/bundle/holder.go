package bundle

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/gnana997/reactatoms/pkg/metrics"
)

// Loader produces a fresh bundle.
type Loader func(ctx context.Context) (*Bundle, error)

// Holder publishes the current bundle to concurrent readers and replaces
// it on Reload. Readers never see a partially built bundle.
type Holder struct {
	current atomic.Pointer[Bundle]
	load    Loader
	metrics *metrics.Metrics
	logger  *slog.Logger

	reloadMu  sync.Mutex
	listeners []func(*Bundle)
}

// HolderOption configures a Holder.
type HolderOption func(*Holder)

// WithHolderMetrics records reload outcomes.
func WithHolderMetrics(m *metrics.Metrics) HolderOption {
	return func(h *Holder) { h.metrics = m }
}

// WithHolderLogger sets the logger.
func WithHolderLogger(l *slog.Logger) HolderOption {
	return func(h *Holder) { h.logger = l }
}

// NewHolder runs the loader once. A failed initial load is returned as an
// error.
func NewHolder(ctx context.Context, load Loader, opts ...HolderOption) (*Holder, error) {
	if load == nil {
		return nil, errors.New("bundle loader is required")
	}
	h := &Holder{load: load, logger: slog.Default()}
	for _, opt := range opts {
		opt(h)
	}
	b, err := load(ctx)
	if err != nil {
		return nil, err
	}
	h.current.Store(b)
	return h, nil
}

// Static wraps an already loaded bundle. Reload on it reloads nothing
// and returns the same bundle.
func Static(b *Bundle) *Holder {
	h := &Holder{logger: slog.Default()}
	h.load = func(context.Context) (*Bundle, error) { return h.Current(), nil }
	h.current.Store(b)
	return h
}

// Current returns the live bundle.
func (h *Holder) Current() *Bundle {
	return h.current.Load()
}

// OnReload registers fn to run after every successful reload, in
// registration order.
func (h *Holder) OnReload(fn func(*Bundle)) {
	h.reloadMu.Lock()
	defer h.reloadMu.Unlock()
	h.listeners = append(h.listeners, fn)
}

// Reload builds a new bundle and swaps it in. On failure the previous
// bundle stays live and the error is returned. Reloads are serialized.
func (h *Holder) Reload(ctx context.Context) (*Bundle, error) {
	h.reloadMu.Lock()
	defer h.reloadMu.Unlock()

	b, err := h.load(ctx)
	h.metrics.BundleReloaded(err)
	if err != nil {
		h.logger.Error("bundle reload failed, keeping previous bundle", "error", err)
		return h.Current(), err
	}
	h.current.Store(b)
	for _, fn := range h.listeners {
		fn(b)
	}
	return b, nil
}
