// Package upstream fetches raw report payloads from the reporting backend.
package upstream

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
)

var (
	// ErrUnavailable wraps every failure to obtain a payload: transport
	// errors, exhausted retries and non-2xx responses.
	ErrUnavailable = errors.New("upstream unavailable")
	ErrBadQuery    = errors.New("invalid upstream query")
)

// Source returns the raw JSON payload behind an endpoint.
type Source interface {
	Fetch(ctx context.Context, endpoint string, query url.Values) ([]byte, error)
}

type SourceFunc func(ctx context.Context, endpoint string, query url.Values) ([]byte, error)

func (f SourceFunc) Fetch(ctx context.Context, endpoint string, query url.Values) ([]byte, error) {
	return f(ctx, endpoint, query)
}

// Mux routes endpoints to dedicated sources and sends everything else to a
// fallback.
type Mux struct {
	mu       sync.RWMutex
	routes   map[string]Source
	fallback Source
}

func NewMux(fallback Source) *Mux {
	return &Mux{
		routes:   make(map[string]Source),
		fallback: fallback,
	}
}

func (m *Mux) Handle(endpoint string, src Source) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.routes[endpoint] = src
}

func (m *Mux) Fetch(ctx context.Context, endpoint string, query url.Values) ([]byte, error) {
	m.mu.RLock()
	src, ok := m.routes[endpoint]
	m.mu.RUnlock()

	if !ok {
		src = m.fallback
	}
	if src == nil {
		return nil, fmt.Errorf("%w: no source for %s", ErrUnavailable, endpoint)
	}
	return src.Fetch(ctx, endpoint, query)
}
