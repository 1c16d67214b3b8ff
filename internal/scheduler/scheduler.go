// Package scheduler runs the periodic engine jobs: remote reconciliation
// and day rollover.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"gold-economy/internal/engine"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"
)

// Engine is the part of engine.Engine the jobs drive.
type Engine interface {
	Sync(ctx context.Context) (engine.SyncResult, error)
	Refresh()
}

type Config struct {
	SyncInterval time.Duration
	SyncTimeout  time.Duration
	// Location is the zone whose midnight resets local day counters.
	Location *time.Location
}

type Scheduler struct {
	sched  gocron.Scheduler
	engine Engine
	cfg    Config
	ctx    context.Context
	cancel context.CancelFunc
}

func New(e Engine, cfg Config) (*Scheduler, error) {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.SyncTimeout <= 0 {
		cfg.SyncTimeout = 10 * time.Second
	}
	sched, err := gocron.NewScheduler(gocron.WithLocation(cfg.Location))
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{sched: sched, engine: e, cfg: cfg, ctx: ctx, cancel: cancel}
	if err := s.register(); err != nil {
		cancel()
		_ = sched.Shutdown()
		return nil, err
	}
	return s, nil
}

func (s *Scheduler) register() error {
	if s.cfg.SyncInterval > 0 {
		_, err := s.sched.NewJob(
			gocron.DurationJob(s.cfg.SyncInterval),
			gocron.NewTask(s.syncOnce),
			gocron.WithName("economy-sync"),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
			gocron.WithStartAt(gocron.WithStartImmediately()),
		)
		if err != nil {
			return fmt.Errorf("schedule sync: %w", err)
		}
	}
	_, err := s.sched.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(0, 0, 1))),
		gocron.NewTask(s.engine.Refresh),
		gocron.WithName("local-day-rollover"),
	)
	if err != nil {
		return fmt.Errorf("schedule local rollover: %w", err)
	}
	// Model-scoped counters roll over at UTC midnight.
	_, err = s.sched.NewJob(
		gocron.CronJob("CRON_TZ=UTC 0 0 * * *", false),
		gocron.NewTask(s.engine.Refresh),
		gocron.WithName("utc-day-rollover"),
	)
	if err != nil {
		return fmt.Errorf("schedule utc rollover: %w", err)
	}
	return nil
}

func (s *Scheduler) syncOnce() {
	ctx, cancel := context.WithTimeout(s.ctx, s.cfg.SyncTimeout)
	defer cancel()
	res, err := s.engine.Sync(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("scheduled sync failed")
		return
	}
	if !res.Skipped {
		log.Debug().Int64("balance", res.Balance).Msg("scheduled sync done")
	}
}

func (s *Scheduler) Start() {
	s.sched.Start()
}

// Stop cancels in-flight jobs and waits for them to return.
func (s *Scheduler) Stop() error {
	s.cancel()
	return s.sched.Shutdown()
}
