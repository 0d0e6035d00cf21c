package main

// #region imports
import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/danielpatrickdp/orchestra/internal/config"
	"github.com/danielpatrickdp/orchestra/internal/conversation"
	"github.com/danielpatrickdp/orchestra/internal/metrics"
	"github.com/danielpatrickdp/orchestra/internal/orchestrator"
	"github.com/danielpatrickdp/orchestra/internal/provider"
)

// #endregion

// #region app

// app is everything a command needs, built from the loaded config.
type app struct {
	manager  *orchestrator.Manager
	registry *provider.Registry
	promReg  *prometheus.Registry
	db       *sql.DB // nil with the memory driver

	closers []func() error
}

func buildApp(c *config.Config) (*app, error) {
	a := &app{promReg: prometheus.NewRegistry()}
	a.promReg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	reg, err := provider.BuildRegistry(c.ProviderConfigs(), provider.Options{})
	if err != nil {
		return nil, fmt.Errorf("build providers: %w", err)
	}
	a.registry = reg
	a.closers = append(a.closers, reg.Close)

	var store conversation.Store
	switch c.Storage.Driver {
	case "sqlite":
		s, err := conversation.OpenSQLite(c.Storage.Path)
		if err != nil {
			a.Close()
			return nil, err
		}
		store = s
		a.db = s.DB()
		a.closers = append(a.closers, s.Close)
	default:
		store = conversation.NewMemoryStore(c.Storage.MaxTurns)
	}

	l := logger
	mgr, err := orchestrator.NewManager(c.ManagerConfig(), orchestrator.Deps{
		Providers:     reg,
		Conversations: store,
		Metrics:       metrics.NewStore(),
		Recorder:      metrics.NewRecorder(a.promReg),
		Provenance:    a.db,
		Logger:        &l,
	})
	if err != nil {
		a.Close()
		return nil, err
	}
	a.manager = mgr

	logger.Info().
		Int("providers", reg.Len()).
		Str("storage", c.Storage.Driver).
		Str("default_provider", c.Orchestrator.DefaultProvider).
		Msg("orchestrator ready")
	return a, nil
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// #endregion
