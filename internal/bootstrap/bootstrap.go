// Package bootstrap assembles the intake services from configuration. It is shared by the
// API and the MQTT ingestor.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"github.com/ANIKETSHETTY47/facility-intake-engine/internal/cloud"
	"github.com/ANIKETSHETTY47/facility-intake-engine/internal/config"
	"github.com/ANIKETSHETTY47/facility-intake-engine/internal/database"
	"github.com/ANIKETSHETTY47/facility-intake-engine/internal/dispatch"
	"github.com/ANIKETSHETTY47/facility-intake-engine/internal/metrics"
	"github.com/ANIKETSHETTY47/facility-intake-engine/internal/performance"
	"github.com/ANIKETSHETTY47/facility-intake-engine/internal/repository"
	"github.com/ANIKETSHETTY47/facility-intake-engine/internal/service"
)

type App struct {
	Services *service.Services
	Registry *prometheus.Registry

	closers []func() error
}

// Build wires the store, fan-out targets, metrics and services. config.Load must have run.
func Build(ctx context.Context, log zerolog.Logger) (*App, error) {
	app := &App{Registry: prometheus.NewRegistry()}
	app.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.NewIntakeMetrics(app.Registry)

	store, err := app.openStore(ctx, log)
	if err != nil {
		return nil, errors.Join(err, app.Close())
	}

	extra, err := cloudTargets(ctx, log)
	if err != nil {
		return nil, errors.Join(err, app.Close())
	}

	fanout := dispatch.New(dispatch.Options{
		Endpoints: config.Webhooks(),
		Client:    &http.Client{},
		Timeout:   config.DispatchTimeout(),
		Extra:     extra,
		Observer:  m,
		Logger:    log.With().Str("component", "dispatcher").Logger(),
	})

	jitter := performance.Jitter(performance.NoJitter)
	if config.ScoringJitter() {
		jitter = performance.RandomJitter
	}

	app.Services = service.New(service.Options{
		Store:         store,
		Fanout:        fanout,
		Recorder:      m,
		Jitter:        jitter,
		HardQuota:     config.HardQuota(),
		AsyncDispatch: config.DispatchAsync(),
		Logger:        log,
	})
	return app, nil
}

func (a *App) openStore(ctx context.Context, log zerolog.Logger) (repository.Store, error) {
	if config.StoreDriver() == config.StoreMemory {
		log.Warn().Msg("using in-memory store, data is lost on exit")
		return repository.NewMemoryStore(), nil
	}

	db, err := database.Connect(config.DBDSN())
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}
	a.closers = append(a.closers, db.Close)

	if config.RunMigrations() {
		if err := database.Migrate(ctx, db, log); err != nil {
			return nil, err
		}
	}
	return repository.New(db), nil
}

func cloudTargets(ctx context.Context, log zerolog.Logger) ([]dispatch.Target, error) {
	if !config.UseCloudServices() {
		return nil, nil
	}

	var targets []dispatch.Target
	if bucket := config.S3Bucket(); bucket != "" {
		s3c, err := cloud.NewS3Client(ctx, config.AWSRegion(), bucket)
		if err != nil {
			return nil, fmt.Errorf("s3 client: %w", err)
		}
		targets = append(targets, s3c)
	}
	if arn := config.SNSTopicArn(); arn != "" {
		snsc, err := cloud.NewSNSClient(ctx, config.AWSRegion(), arn)
		if err != nil {
			return nil, fmt.Errorf("sns client: %w", err)
		}
		targets = append(targets, snsc)
	}
	log.Info().Int("targets", len(targets)).Msg("cloud fan-out targets enabled")
	return targets, nil
}

// Close releases the database pool, if any.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}
