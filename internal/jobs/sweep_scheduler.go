package jobs

import (
	"context"
	"fmt"
	"time"

	"qrenoo/internal/delivery/dto"

	"github.com/go-co-op/gocron/v2"
	"github.com/sirupsen/logrus"
)

const sweepJobName = "rendezvous-expiry-sweep"

// Sweeper deletes pending rendezvous past their TTL
type Sweeper interface {
	SweepExpired(ctx context.Context) (*dto.SweepResult, error)
}

// SweepScheduler runs the expiry sweep on a fixed interval.
// Runs never overlap; a slow sweep pushes the next one back.
type SweepScheduler struct {
	scheduler gocron.Scheduler
	sweeper   Sweeper
	log       *logrus.Logger
	timeout   time.Duration
}

func NewSweepScheduler(sweeper Sweeper, interval time.Duration, log *logrus.Logger) (*SweepScheduler, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("sweep interval must be positive, got %s", interval)
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	s := &SweepScheduler{
		scheduler: scheduler,
		sweeper:   sweeper,
		log:       log,
		timeout:   interval,
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(s.RunOnce, context.Background()),
		gocron.WithName(sweepJobName),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		scheduler.Shutdown()
		return nil, fmt.Errorf("failed to register %s: %w", sweepJobName, err)
	}

	return s, nil
}

func (s *SweepScheduler) Start() {
	s.log.Infof("Starting %s", sweepJobName)
	s.scheduler.Start()
}

// Stop waits for a running sweep to finish
func (s *SweepScheduler) Stop() error {
	s.log.Infof("Stopping %s", sweepJobName)
	return s.scheduler.Shutdown()
}

// RunOnce performs a single sweep bounded by the interval
func (s *SweepScheduler) RunOnce(ctx context.Context) (*dto.SweepResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	result, err := s.sweeper.SweepExpired(ctx)
	if err != nil {
		s.log.Errorf("Expiry sweep failed: %v", err)
		return nil, err
	}
	return result, nil
}
