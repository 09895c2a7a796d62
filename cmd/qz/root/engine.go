package root

import (
	"context"
	"time"

	"quizline/internal/config"
	"quizline/internal/dayclock"
	"quizline/internal/engine"
	"quizline/internal/persist"
	"quizline/internal/storage"
	"quizline/pkg/logging"
)

// openEngine wires the full stack: config, storage, engine, scheduler. The
// latest snapshot is loaded and a day-boundary check runs before returning.
func openEngine(ctx context.Context) (*engine.Engine, *persist.Scheduler, func(), error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, nil, err
	}

	log := logging.New(logging.Options{Level: cfg.LogLevel, Pretty: true})

	res, err := dayclock.NewResolver(cfg.Timezone)
	if err != nil {
		return nil, nil, nil, err
	}

	eng, err := engine.New(cfg.Templates, cfg.Policy, cfg.RatingCfg, res, logging.Component(log, "engine"))
	if err != nil {
		return nil, nil, nil, err
	}

	db, err := storage.Open(ctx, cfg.DBPath)
	if err != nil {
		return nil, nil, nil, err
	}
	cleanup := func() {
		_ = db.Close()
	}

	sched := persist.NewScheduler(
		eng,
		storage.NewSnapshotRepo(db),
		dayclock.SystemClock{},
		cfg.AutosaveInterval,
		cfg.AutosaveEnabled,
		logging.Component(log, "persist"),
	)
	if err := sched.Load(ctx); err != nil {
		cleanup()
		return nil, nil, nil, err
	}
	if err := eng.OnTick(time.Now()); err != nil {
		cleanup()
		return nil, nil, nil, err
	}
	return eng, sched, cleanup, nil
}
