package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"gopresence/calendar"
	"gopresence/config"
	"gopresence/holiday"
	"gopresence/reconcile"
	"gopresence/schedule"
	"gopresence/source"
	"gopresence/storage"
	"gopresence/upstream"
	"gopresence/workpool"
)

const (
	sourceLocal    = "local"
	sourceUpstream = "upstream"
)

// openCollaborator returns the source backend selected by name and a close
// function that must be called when done.
func openCollaborator(cfg *config.Config, name, dbPath string) (source.Collaborator, func() error, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", sourceLocal:
		store, err := storage.OpenSQLite(resolveDBPath(dbPath, cfg))
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	case sourceUpstream:
		if strings.TrimSpace(cfg.Upstream.URL) == "" {
			return nil, nil, fmt.Errorf("upstream.url is not configured")
		}
		client, err := upstream.NewClient(upstream.ClientConfig{
			BaseURL: cfg.Upstream.URL,
			Token:   cfg.Upstream.Token,
			Timeout: cfg.Upstream.Timeout,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("create upstream client: %w", err)
		}
		return client, func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unsupported source %q (supported: %s|%s)", name, sourceLocal, sourceUpstream)
	}
}

// matrixBuilder gathers sources for one month and reconciles them.
type matrixBuilder struct {
	gatherer *source.Gatherer
	registry *schedule.Registry
	holidays holiday.Func
	include  source.Set
	now      func() time.Time
}

func newMatrixBuilder(cfg *config.Config, client source.Collaborator, view, area string, log *zap.Logger) (*matrixBuilder, error) {
	if log == nil {
		log = zap.NewNop()
	}
	registry, err := cfg.Registry()
	if err != nil {
		return nil, err
	}
	for _, conflict := range registry.Conflicts() {
		log.Warn("employee listed in several schedule groups",
			zap.String("employee", conflict.Identity),
			zap.String("kept", conflict.Kept),
			zap.String("ignored", conflict.Ignored),
		)
	}
	log.Debug("schedule registry loaded", zap.Strings("groups", registry.GroupNames()))

	holidays, err := cfg.HolidayCalendar()
	if err != nil {
		return nil, err
	}
	include, err := cfg.View(view)
	if err != nil {
		return nil, err
	}

	pool := workpool.New(cfg.Upstream.Concurrency, log)
	gatherer := source.NewGatherer(client, pool,
		source.WithOptions(cfg.NormalizeOptions()),
		source.WithSources(include),
		source.WithArea(area),
		source.WithLogger(log),
	)

	return &matrixBuilder{
		gatherer: gatherer,
		registry: registry,
		holidays: holidays.Func(),
		include:  include,
		now:      time.Now,
	}, nil
}

func (b *matrixBuilder) Build(ctx context.Context, month calendar.Month) (reconcile.Matrix, []source.Failure, error) {
	result, err := b.gatherer.Gather(ctx, month)
	if err != nil {
		return reconcile.Matrix{}, nil, err
	}
	matrix := reconcile.BuildMonthlyMatrix(month.First(), result.Employees, result.Sources, b.registry, reconcile.Options{
		Today:    calendar.Today(b.now()),
		Holidays: b.holidays,
		Include:  b.include,
	})
	return matrix, result.Failures, nil
}
