package cap

import (
	"context"
	"sync/atomic"
)

type (
	registryKey struct{}
	quitKey     struct{}
)

// NewContext returns a context with the registry attached.
func NewContext(ctx context.Context, reg *Registry) context.Context {
	return context.WithValue(ctx, registryKey{}, reg)
}

// RegistryFromContext retrieves the registry from a context.
func RegistryFromContext(ctx context.Context) (*Registry, bool) {
	reg, ok := ctx.Value(registryKey{}).(*Registry)
	return reg, ok
}

// WithQuit returns a context through which a builtin can ask the read loop
// to stop, and a function reporting whether it has.
func WithQuit(ctx context.Context) (context.Context, func() bool) {
	flag := new(atomic.Bool)
	return context.WithValue(ctx, quitKey{}, flag), flag.Load
}

// RequestQuit marks ctx's read loop for exit. It is a no-op for a context
// not derived from WithQuit, as in a pipeline stage process.
func RequestQuit(ctx context.Context) {
	if flag, ok := ctx.Value(quitKey{}).(*atomic.Bool); ok {
		flag.Store(true)
	}
}
