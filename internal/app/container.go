package app

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"

	appconfig "github.com/doeshing/raix/internal/application/config"
	"github.com/doeshing/raix/internal/application/doctor"
	"github.com/doeshing/raix/internal/application/generate"
	"github.com/doeshing/raix/internal/domain"
	"github.com/doeshing/raix/internal/infrastructure/config"
	"github.com/doeshing/raix/internal/infrastructure/history"
	"github.com/doeshing/raix/internal/infrastructure/logstore"
	"github.com/doeshing/raix/internal/infrastructure/remote"
	"github.com/doeshing/raix/internal/pkg/filesystem"
	"github.com/doeshing/raix/internal/pkg/logger"
	"github.com/doeshing/raix/internal/ports"
)

// Options controls how the container is built.
type Options struct {
	Verbose    bool
	ConfigPath string
	// LogOutput receives verbose logs. Defaults to stderr.
	LogOutput io.Writer
}

// Container wires up application services with infrastructure adapters.
type Container struct {
	Config         domain.Config
	ConfigProvider ports.ConfigProvider
	ConfigLoader   *config.FileLoader
	Logger         *logger.SlogLogger
	SessionID      string
	Backend        *remote.HTTPBackend
	SessionLog     *logstore.MemoryStore
	Exporter       *logstore.Exporter
	Generator      *generate.Service
	DoctorService  *doctor.Service
	HistoryStore   ports.HistoryRepository

	configErr error
}

// BuildContainer constructs the dependency graph. An invalid configuration
// does not fail the build so that config and doctor commands keep working;
// Ready reports it instead.
func BuildContainer(ctx context.Context, opts Options) (*Container, error) {
	cfgLoader := config.NewFileLoader(opts.ConfigPath)
	cfg, err := cfgLoader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", cfgLoader.Path(), err)
	}
	configErr := appconfig.Validate(cfg)

	sessionID := uuid.NewString()
	log := logger.New(logger.Options{
		Verbose:  opts.Verbose,
		Level:    cfg.Logging.Level,
		Terminal: opts.LogOutput,
		File:     expandOptional(cfg.Logging.File),
		Journal:  cfg.Logging.Journal,
	}).With(map[string]interface{}{"session": sessionID})

	backend := remote.NewHTTPBackend(cfg, nil)
	sessionLog := logstore.NewMemoryStore()
	exporter := logstore.NewExporter(sessionLog, filesystem.ExpandPath(cfg.ExportDir()), cfg.ExportPrefix())
	historyStore := history.Open(cfg, log)

	generator := &generate.Service{
		Backend:     backend,
		Logs:        sessionLog,
		Archive:     historyStore,
		Logger:      log,
		SessionID:   sessionID,
		MaxAttempts: cfg.MaxAttempts(),
		RetryDelay:  cfg.RetryDelay(),
	}

	doctorService := &doctor.Service{
		ConfigProvider: cfgLoader,
		Prober:         backend,
		History:        historyStore,
	}

	log.Debug("container ready", map[string]interface{}{
		"endpoint":     backend.Endpoint(),
		"max_attempts": generator.MaxAttempts,
		"history":      cfg.IsHistoryEnabled(),
	})

	return &Container{
		Config:         cfg,
		ConfigProvider: cfgLoader,
		ConfigLoader:   cfgLoader,
		Logger:         log,
		SessionID:      sessionID,
		Backend:        backend,
		SessionLog:     sessionLog,
		Exporter:       exporter,
		Generator:      generator,
		DoctorService:  doctorService,
		HistoryStore:   historyStore,
		configErr:      configErr,
	}, nil
}

// Ready reports whether the loaded configuration can drive a generation.
func (c *Container) Ready() error {
	if c.configErr != nil {
		return fmt.Errorf("invalid configuration at %s: %w", c.ConfigLoader.Path(), c.configErr)
	}
	return nil
}

// Close releases the archive and log sinks.
func (c *Container) Close() error {
	var firstErr error
	if closer, ok := c.HistoryStore.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			firstErr = err
		}
	}
	if c.Logger != nil {
		if err := c.Logger.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func expandOptional(path string) string {
	if path == "" {
		return ""
	}
	return filesystem.ExpandPath(path)
}
