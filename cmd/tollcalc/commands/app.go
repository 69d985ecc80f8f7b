package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/wonny/tollcalc/internal/rateconfig"
	"github.com/wonny/tollcalc/internal/table"
	"github.com/wonny/tollcalc/pkg/config"
	"github.com/wonny/tollcalc/pkg/logger"
	"github.com/wonny/tollcalc/pkg/redis"
)

// app bundles what every command needs after flag parsing
type app struct {
	cfg   *config.Config
	log   *logger.Logger
	rates *rateconfig.Config
}

// newApp loads env config, the logger and the rate config, applying global flags
func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if env != "" {
		cfg.Env = env
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	log := logger.New(cfg)

	path := ratesFile
	if path == "" {
		path = cfg.RatesFile
	}
	rates, err := rateconfig.LoadOrDefault(path)
	if err != nil {
		return nil, fmt.Errorf("load rates: %w", err)
	}

	if path != "" {
		for _, w := range rateconfig.Warn(rates) {
			log.WithField("code", w.Code).Warn(w.Message)
		}
		log.WithField("path", path).Debug("rate config loaded")
	}

	return &app{cfg: cfg, log: log, rates: rates}, nil
}

// loadTable reads a CSV input and logs its size
func (r *app) loadTable(path string) (*table.Table, error) {
	t, err := table.LoadCSV(path)
	if err != nil {
		return nil, err
	}
	r.log.WithDataset(path, t.Len()).Info("dataset loaded")
	return t, nil
}

// emit prints t, and writes it as CSV when out is set
func (r *app) emit(t *table.Table, out string) error {
	PrintTable(t, maxPrintedRows)

	if out == "" {
		return nil
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create %s: %w", out, err)
	}
	defer f.Close()

	if err := table.WriteCSV(f, t); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}

	r.log.WithDataset(out, t.Len()).Info("result written")
	return nil
}

// openCache connects to Redis when enabled. Connection failures disable the
// cache instead of failing the command.
func (r *app) openCache(ctx context.Context) (*redis.Cache, func()) {
	client, err := redis.New(ctx, r.cfg)
	if err != nil {
		r.log.WithError(err).Warn("redis unavailable, cache disabled")
		client = &redis.Client{}
	}
	return redis.NewCache(client, "tollcalc"), func() { _ = client.Close() }
}
