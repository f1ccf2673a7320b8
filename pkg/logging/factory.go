package logging

import (
	"context"
	"sync"
)

// Factory holds a registry of Providers and a cache of category → Logger,
// guaranteeing a single Logger per category regardless of how many times
// CreateLogger is called for it (§4.10). It is the top-level composition
// object a process builds once at startup.
type Factory struct {
	mu        sync.Mutex
	providers []*Provider
	seen      map[*Provider]struct{}
	loggers   map[string]*Logger
	disposed  bool
}

// NewFactory builds an empty Factory. Providers are added with AddProvider.
func NewFactory() *Factory {
	return &Factory{
		seen:    make(map[*Provider]struct{}),
		loggers: make(map[string]*Logger),
	}
}

// AddProvider registers p, deduplicated by pointer identity: registering
// the same *Provider twice is a no-op rather than a second dispose target.
func (f *Factory) AddProvider(p *Provider) {
	if p == nil {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.seen[p]; ok {
		return
	}
	f.seen[p] = struct{}{}
	f.providers = append(f.providers, p)
}

// CreateLogger returns the single Logger cached for category, building it
// from the most recently registered Provider on first use. Calling it
// again for the same category always returns the same *Logger.
func (f *Factory) CreateLogger(category string) *Logger {
	f.mu.Lock()
	defer f.mu.Unlock()
	if l, ok := f.loggers[category]; ok {
		return l
	}
	var l *Logger
	if len(f.providers) > 0 {
		l = f.providers[len(f.providers)-1].CreateLogger(category)
	} else {
		l = newLogger(category, NewSettingsHolder(DefaultSettings()), nil, nil, nil)
	}
	f.loggers[category] = l
	return l
}

// Dispose disposes every registered provider in registration order and
// clears the logger cache. Idempotent: a second call is a no-op and
// returns nil.
func (f *Factory) Dispose(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.disposed {
		return nil
	}
	f.disposed = true

	var firstErr error
	for _, p := range f.providers {
		if err := p.Dispose(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	f.loggers = make(map[string]*Logger)
	return firstErr
}
