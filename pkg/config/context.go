package config

import (
	"context"
	"sync"

	"github.com/goldirana/agentforge/pkg/logger"
)

type ctxKey struct{}

// ContextWithManager stores the configuration manager in the context.
func ContextWithManager(ctx context.Context, m *Manager) context.Context {
	return context.WithValue(ctx, ctxKey{}, m)
}

var (
	fallbackManager *Manager
	fallbackOnce    sync.Once
)

// ManagerFromContext retrieves the configuration manager from the context.
// Contexts without one get a shared fallback manager holding defaults plus
// environment overrides, so code paths that run before the CLI pipeline has
// attached a manager still see a valid configuration.
func ManagerFromContext(ctx context.Context) *Manager {
	if ctx != nil {
		if m, ok := ctx.Value(ctxKey{}).(*Manager); ok && m != nil {
			return m
		}
	}
	fallbackOnce.Do(func() {
		m := NewManager(NewService())
		if _, err := m.Load(ctx); err != nil {
			logger.FromContext(ctx).Warn("failed to load fallback configuration", "error", err)
		}
		fallbackManager = m
	})
	return fallbackManager
}

// FromContext returns the active configuration for the provided context.
func FromContext(ctx context.Context) *Config {
	if m := ManagerFromContext(ctx); m != nil {
		return m.Get()
	}
	return nil
}
