// Command aieventing is the composition root: it loads configuration,
// wires the publisher/cache/resilience/chat-client/fault-analyzer stack
// together behind a logging.Factory, optionally starts the health server
// and config hot-reload watcher, and emits a couple of sample log records
// so the pipeline can be observed end to end. Adapted from the teacher's
// cmd/main.go flag/env config-path resolution and internal/app.New/Run
// composition shape.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/DwaineDGIlmer/AiEventing-sub001/internal/config"
	"github.com/DwaineDGIlmer/AiEventing-sub001/internal/healthserver"
	"github.com/DwaineDGIlmer/AiEventing-sub001/pkg/cache"
	"github.com/DwaineDGIlmer/AiEventing-sub001/pkg/chatclient"
	"github.com/DwaineDGIlmer/AiEventing-sub001/pkg/faultanalyzer"
	"github.com/DwaineDGIlmer/AiEventing-sub001/pkg/logevent"
	"github.com/DwaineDGIlmer/AiEventing-sub001/pkg/logging"
	"github.com/DwaineDGIlmer/AiEventing-sub001/pkg/publisher"
	"github.com/DwaineDGIlmer/AiEventing-sub001/pkg/resilience"
	"github.com/DwaineDGIlmer/AiEventing-sub001/pkg/secrets"
	"github.com/DwaineDGIlmer/AiEventing-sub001/pkg/serializer"
)

func main() {
	var configFile string
	var healthAddr string
	flag.StringVar(&configFile, "config", "", "Path to configuration file")
	flag.StringVar(&healthAddr, "health-addr", "", "Address to serve /healthz, /metrics and /stats on (disabled if empty)")
	flag.Parse()

	if configFile == "" {
		if envConfigFile := os.Getenv("AIEVENTING_CONFIG_FILE"); envConfigFile != "" {
			configFile = envConfigFile
		} else {
			configFile = "/app/configs/config.yaml"
		}
	}

	internal := logrus.New()
	internal.SetFormatter(&logrus.JSONFormatter{})

	if err := run(configFile, healthAddr, internal); err != nil {
		fmt.Fprintf(os.Stderr, "aieventing: %v\n", err)
		os.Exit(1)
	}
}

func run(configFile, healthAddr string, internal *logrus.Logger) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("validating configuration: %w", err)
	}

	// §4.1/§4.11: the serializer is a process-wide singleton, initialized
	// once from the loaded Settings so write_indented and
	// unsafe_relaxed_json_escaping actually reach the JSON encoder instead
	// of being config fields nothing reads. DefaultIgnoreCondition doesn't
	// belong here — it governs LogEvent.IncludeEmptyAttributes, not the
	// codec itself.
	if err := serializer.Init(serializer.Options{
		WriteIndented:         cfg.Settings.WriteIndented,
		UnsafeRelaxedEscaping: cfg.Settings.UnsafeRelaxedJSONEscaping,
	}); err != nil {
		return fmt.Errorf("initializing serializer: %w", err)
	}

	// §6 resolves the chat API key from the environment first; a
	// CachingResolver over a secrets.Resolver backs it up so a deployment
	// that injects secrets through a different mechanism than plain env
	// vars (a mounted file resolver, a vault sidecar) still has a seam to
	// plug into without touching internal/config.
	if cfg.Chat.APIKey == "" {
		resolver := secrets.NewCachingResolver(secrets.EnvResolver{}, 5*time.Minute)
		if key, ok := resolver.Resolve("AIEVENTING_CHAT_API_KEY"); ok {
			cfg.Chat.APIKey = key
		}
	}

	memCache := cache.NewMemoryCache(0, internal)
	var tiered cache.Cache = memCache
	if cfg.Settings.EnableCaching && cfg.Settings.CacheLocation != "" {
		fileCache, err := cache.NewFileCache(cfg.Settings.CacheLocation, internal)
		if err != nil {
			return fmt.Errorf("opening file cache: %w", err)
		}
		tiered = cache.NewTwoTier(memCache, fileCache)
	}

	publishers, err := buildPublishers(cfg, internal)
	if err != nil {
		return fmt.Errorf("building publishers: %w", err)
	}

	var analyzer *faultanalyzer.FaultAnalyzer
	if cfg.Settings.FaultServiceEnabled {
		resilienceCfg := cfg.Settings.ResilientHTTPPolicy.ToResilienceConfig("chat-client")
		transport := resilience.NewTransport(nil, resilienceCfg)
		chatClient := chatclient.New(cfg.Chat, transport)
		analyzer = faultanalyzer.New(tiered, chatClient, faultanalyzer.Config{}, internal)
	}

	provider := logging.NewProvider(cfg.Settings, asPublisherSlice(publishers), analyzer, internal)
	factory := logging.NewFactory()
	factory.AddProvider(provider)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := factory.Dispose(ctx); err != nil {
			internal.WithError(err).Warn("error disposing logging factory")
		}
	}()

	var watcher *config.Watcher
	if configFile != "" {
		watcher, err = config.NewWatcher(configFile, internal, func(reloaded *config.AppConfig) {
			if err := config.Validate(reloaded); err != nil {
				internal.WithError(err).Warn("hot-reloaded configuration failed validation, keeping previous settings")
				return
			}
			provider.UpdateSettings(reloaded.Settings)
		})
		if err != nil {
			internal.WithError(err).Warn("config hot-reload watcher unavailable, continuing without it")
		} else {
			watcher.Start()
			defer watcher.Close()
		}
	}

	var health *healthserver.Server
	if healthAddr != "" {
		stats := map[string]healthserver.PublisherStats{}
		for name, p := range publishers {
			stats[name] = p
		}
		health = healthserver.New(healthAddr, stats, memCache, internal)
		health.Start()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = health.Stop(ctx)
		}()
	}

	logger := factory.CreateLogger("aieventing.demo")
	ctx := logger.BeginScope(context.Background(), "startup")
	logger.Log(ctx, logevent.LevelInformation, 1000, nil, "aieventing pipeline started, environment=%s", cfg.Settings.Environment)
	logger.Log(ctx, logevent.LevelError, 1001, errors.New("sample upstream timeout"), "demonstrating exception capture and fault analysis")

	waitForShutdown(internal)
	return nil
}

// buildPublishers returns every publisher named in cfg, keyed by name, so
// callers can both fan log records out to all of them and report
// per-publisher stats. A nil-safe fall-through to logging.NewProvider's own
// console default only happens when this map is empty.
func buildPublishers(cfg *config.AppConfig, internal *logrus.Logger) (map[string]*publisher.QueuedPublisher, error) {
	out := make(map[string]*publisher.QueuedPublisher)

	if cfg.Settings.CacheLocation != "" {
		// A local file sink beside the cache directory gives every
		// deployment at least one durable sink without requiring Kafka or
		// Elasticsearch to be configured.
		sink, err := publisher.NewFileSink(cfg.Settings.CacheLocation + "/events.log")
		if err != nil {
			return nil, fmt.Errorf("opening file sink: %w", err)
		}
		out["file"] = publisher.New(sink, publisher.Config{Name: "file", PollingDelay: cfg.Settings.PollingDelay}, internal)
	}

	out["console"] = publisher.New(publisher.NewConsoleSink(os.Stdout), publisher.Config{Name: "console", PollingDelay: cfg.Settings.PollingDelay}, internal)
	return out, nil
}

func asPublisherSlice(m map[string]*publisher.QueuedPublisher) []publisher.Publisher {
	out := make([]publisher.Publisher, 0, len(m))
	for _, p := range m {
		out = append(out, p)
	}
	return out
}

func waitForShutdown(logger *logrus.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh
	logger.Info("shutdown signal received")
}
