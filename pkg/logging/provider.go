package logging

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/DwaineDGIlmer/AiEventing-sub001/pkg/faultanalyzer"
	"github.com/DwaineDGIlmer/AiEventing-sub001/pkg/publisher"
)

// Provider owns one process's collaborators — publishers, an optional
// fault analyzer, and the settings they share — and produces category
// Loggers from them (§4.10). Both the publisher and the analyzer are
// explicit, nullable constructor arguments rather than hidden globals
// (§9): a Provider with a nil analyzer simply never schedules fault
// analysis, regardless of Settings.FaultServiceEnabled.
type Provider struct {
	settings   *SettingsHolder
	publishers []publisher.Publisher
	analyzer   *faultanalyzer.FaultAnalyzer
	internal   *logrus.Logger
}

// NewProvider builds a Provider. publishers defaults to a single
// console sink if empty (§9 "defaults supplied: console publisher").
func NewProvider(settings Settings, publishers []publisher.Publisher, analyzer *faultanalyzer.FaultAnalyzer, internal *logrus.Logger) *Provider {
	if internal == nil {
		internal = logrus.New()
	}
	if len(publishers) == 0 {
		publishers = []publisher.Publisher{
			publisher.New(publisher.NewConsoleSink(os.Stdout), publisher.Config{Name: "console", PollingDelay: settings.PollingDelay}, internal),
		}
	}
	return &Provider{settings: NewSettingsHolder(settings), publishers: publishers, analyzer: analyzer, internal: internal}
}

// CreateLogger builds a Logger bound to this Provider's collaborators for
// category.
func (p *Provider) CreateLogger(category string) *Logger {
	return newLogger(category, p.settings, p.publishers, p.analyzer, p.internal)
}

// UpdateSettings atomically replaces the Settings every Logger this
// Provider has already handed out observes on its next call — the hook
// internal/config's fsnotify watcher drives so a long-lived process can
// pick up a changed minLogLevel or fault-service toggle without
// restarting (§9). Publishers and the analyzer themselves are not
// reconstructed; only the filter/identity/feature-gate fields they read
// through Settings change.
func (p *Provider) UpdateSettings(settings Settings) {
	p.settings.Store(settings)
}

// Dispose releases the provider's publishers and cancels any in-flight
// fault analysis (§5 "disposing the provider cancels outstanding analyzer
// tasks but not in-flight publisher writes"). Each publisher still gets
// its own bounded drain deadline via Publisher.Dispose.
func (p *Provider) Dispose(ctx context.Context) error {
	if p.analyzer != nil {
		p.analyzer.Close()
	}
	var firstErr error
	for _, pub := range p.publishers {
		if err := pub.Dispose(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
