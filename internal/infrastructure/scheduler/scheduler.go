package scheduler

import (
	"context"
	"errors"

	"github.com/robfig/cron/v3"
)

// Scheduler runs jobs on 6-field cron specs. A job still running when its
// next tick fires is skipped rather than started twice. Jobs receive a
// context that is cancelled by Stop.
type Scheduler struct {
	cron    *cron.Cron
	onError func(name string, err error)
	ctx     context.Context
	cancel  context.CancelFunc
}

func New(onError func(name string, err error)) *Scheduler {
	if onError == nil {
		onError = func(string, error) {}
	}
	logger := cronLogger{onError: onError}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		ctx:    ctx,
		cancel: cancel,
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
		onError: onError,
	}
}

func (s *Scheduler) AddJob(name, spec string, job func(context.Context) error) error {
	_, err := s.cron.AddFunc(spec, func() {
		if err := job(s.ctx); err != nil && !errors.Is(err, context.Canceled) {
			s.onError(name, err)
		}
	})
	return err
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop cancels running jobs and waits for them to return.
func (s *Scheduler) Stop() {
	s.cancel()
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// cronLogger forwards cron's internal errors, including recovered panics,
// to the error handler.
type cronLogger struct {
	onError func(name string, err error)
}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.onError(msg, err)
}
