package config

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"
	"time"

	"github.com/romdo/go-debounce"

	"github.com/goldirana/agentforge/pkg/logger"
)

// defaultReloadDebounce coalesces the event bursts editors produce on save
// into a single reload.
const defaultReloadDebounce = 100 * time.Millisecond

// Manager owns the resolved configuration of a process. It loads sources,
// exposes the current snapshot atomically and reloads when a watchable
// source reports a change.
type Manager struct {
	// Service resolves and validates raw sources into a Config. Exposed so
	// commands can answer provenance questions via GetSource.
	Service Service

	current        atomic.Value // stores *Config
	sourceMu       sync.Mutex   // guards sources and serializes reloads
	sources        []Source
	onChange       []func(*Config)
	onChangeMu     sync.RWMutex
	watchCtx       context.Context
	watchCancel    context.CancelFunc
	watchWg        sync.WaitGroup
	cancelDebounce func()
	reloadWait     time.Duration
	closeOnce      sync.Once
}

// NewManager creates a manager around the given service. A nil service gets
// the default implementation.
func NewManager(service Service) *Manager {
	if service == nil {
		service = NewService()
	}
	return &Manager{
		Service:    service,
		reloadWait: defaultReloadDebounce,
	}
}

// Load resolves the configuration from the given sources and begins watching
// the ones that support it. The returned snapshot is also available through
// Get.
func (m *Manager) Load(ctx context.Context, sources ...Source) (*Config, error) {
	m.sourceMu.Lock()
	m.sources = append([]Source(nil), sources...)
	m.sourceMu.Unlock()

	cfg, err := m.Service.Load(ctx, sources...)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	m.publish(cfg)

	// The watch outlives the loading call's context. Deriving from
	// WithoutCancel keeps its values (logger) while detaching its lifetime;
	// Close ends the watch.
	if ctx != nil {
		if m.watchCancel != nil {
			m.watchCancel()
		}
		m.watchCtx, m.watchCancel = context.WithCancel(context.WithoutCancel(ctx))
	}
	m.startWatching(sources)

	return cfg, nil
}

// Get returns the current configuration snapshot, or nil before the first
// successful Load.
func (m *Manager) Get() *Config {
	cfg, _ := m.current.Load().(*Config)
	return cfg
}

// Reload re-resolves the configuration from the sources passed to Load.
func (m *Manager) Reload(ctx context.Context) error {
	m.sourceMu.Lock()
	defer m.sourceMu.Unlock()

	cfg, err := m.Service.Load(ctx, m.sources...)
	if err != nil {
		return fmt.Errorf("failed to reload configuration: %w", err)
	}
	m.publish(cfg)
	return nil
}

// OnChange registers a callback invoked with each new snapshot that differs
// from the previous one.
func (m *Manager) OnChange(callback func(*Config)) {
	m.onChangeMu.Lock()
	defer m.onChangeMu.Unlock()
	m.onChange = append(m.onChange, callback)
}

// Close stops watching and closes every source. Idempotent.
func (m *Manager) Close(ctx context.Context) error {
	m.closeOnce.Do(func() {
		if m.watchCancel != nil {
			m.watchCancel()
		}
		m.watchWg.Wait()
		if m.cancelDebounce != nil {
			m.cancelDebounce()
		}

		m.sourceMu.Lock()
		sources := append([]Source(nil), m.sources...)
		m.sourceMu.Unlock()
		for _, source := range sources {
			if source == nil {
				continue
			}
			if err := source.Close(); err != nil {
				logger.FromContext(ctx).Error("failed to close configuration source", "error", err)
			}
		}
	})
	return nil
}

// startWatching subscribes a shared debounced reload to every watchable
// source. Sources that do not support watching return from Watch immediately.
func (m *Manager) startWatching(sources []Source) {
	ctx := m.watchCtx
	if ctx == nil {
		ctx = context.Background()
	}

	wait := m.reloadWait
	if wait <= 0 {
		wait = defaultReloadDebounce
	}
	trigger, cancel := debounce.New(wait, func() {
		if err := m.Reload(ctx); err != nil {
			logger.FromContext(ctx).Error("failed to reload configuration", "error", err)
		}
	})
	m.cancelDebounce = cancel

	for _, source := range sources {
		if source == nil {
			continue
		}
		m.watchWg.Add(1)
		go func(src Source) {
			defer m.watchWg.Done()
			if err := src.Watch(ctx, trigger); err != nil {
				logger.FromContext(ctx).Debug("source does not support watching", "source", src.Type(), "error", err)
			}
		}(source)
	}
}

// publish stores a snapshot and notifies callbacks when it differs from the
// previous one.
func (m *Manager) publish(cfg *Config) {
	old := m.Get()
	m.current.Store(cfg)
	if old != nil && configEqual(old, cfg) {
		return
	}

	m.onChangeMu.RLock()
	callbacks := append(([]func(*Config))(nil), m.onChange...)
	m.onChangeMu.RUnlock()
	for _, callback := range callbacks {
		if callback != nil {
			callback(cfg)
		}
	}
}

// configEqual reports whether two snapshots are functionally equivalent.
func configEqual(a, b *Config) bool {
	return reflect.DeepEqual(a, b)
}
