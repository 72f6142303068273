package app

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/semmidev/rollzip/internal/adapter/storage"
	"github.com/semmidev/rollzip/internal/config"
	"github.com/semmidev/rollzip/internal/domain"
	"github.com/semmidev/rollzip/internal/infrastructure/logger"
	"github.com/semmidev/rollzip/internal/infrastructure/scheduler"
	"github.com/semmidev/rollzip/internal/usecase"
)

type App struct {
	config        *config.Config
	logger        *logger.Logger
	scheduler     *scheduler.Scheduler
	uploadTargets []usecase.UploadTarget
	sweepJobs     []domain.SweepJob
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	log, err := logger.New(cfg.App.LogLevel, cfg.App.LogFile)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return NewWithLogger(ctx, cfg, log, afero.NewOsFs())
}

func NewWithLogger(ctx context.Context, cfg *config.Config, log *logger.Logger, fs afero.Fs) (*App, error) {
	log.Infof("Starting %s", cfg.App.Name)
	log.Infof("Found %d sweep(s) configured", len(cfg.GetEnabledSweeps()))

	uploadTargets := initializeUploadTargets(ctx, cfg, fs, log)

	sweepJobs := initializeSweepJobs(cfg, fs, uploadTargets, log)
	if len(sweepJobs) == 0 {
		return nil, fmt.Errorf("no enabled sweeps found")
	}

	sched := scheduler.New(func(name string, err error) {
		log.Errorf("Job %s failed: %v", name, err)
	})

	return &App{
		config:        cfg,
		logger:        log,
		scheduler:     sched,
		uploadTargets: uploadTargets,
		sweepJobs:     sweepJobs,
	}, nil
}

func initializeUploadTargets(ctx context.Context, cfg *config.Config, fs afero.Fs, log *logger.Logger) []usecase.UploadTarget {
	var targets []usecase.UploadTarget

	for _, targetCfg := range cfg.GetEnabledUploadTargets() {
		var stor domain.Storage
		var err error

		switch targetCfg.Type {
		case "local":
			stor, err = storage.NewLocal(fs, targetCfg.Path)
			if err != nil {
				log.Errorf("Failed to initialize local target: %v", err)
				continue
			}
			log.Infof("✓ Local copy enabled (path: %s)", targetCfg.Path)

		case "gdrive":
			stor, err = storage.NewGDrive(ctx, fs, &targetCfg)
			if err != nil {
				log.Errorf("Failed to initialize Google Drive: %v", err)
				continue
			}
			log.Infof("✓ Google Drive upload enabled")

		case "s3":
			stor, err = storage.NewS3(ctx, fs, &targetCfg)
			if err != nil {
				log.Errorf("Failed to initialize S3: %v", err)
				continue
			}
			log.Infof("✓ AWS S3 upload enabled (bucket: %s)", targetCfg.Bucket)

		case "telegram":
			stor, err = storage.NewTelegram(fs, &targetCfg)
			if err != nil {
				log.Errorf("Failed to initialize Telegram: %v", err)
				continue
			}
			log.Infof("✓ Telegram upload enabled")

		default:
			log.Warnf("Unknown upload target type: %s", targetCfg.Type)
			continue
		}

		targets = append(targets, usecase.UploadTarget{
			Name:    targetCfg.Type,
			Storage: stor,
		})
	}

	return targets
}

func initializeSweepJobs(
	cfg *config.Config,
	fs afero.Fs,
	uploadTargets []usecase.UploadTarget,
	log *logger.Logger,
) []domain.SweepJob {
	var jobs []domain.SweepJob

	for _, sweepCfg := range cfg.GetEnabledSweeps() {
		if ok, _ := afero.DirExists(fs, sweepCfg.Directory); !ok {
			log.Warnf("Log directory %s for %s does not exist yet", sweepCfg.Directory, sweepCfg.Name)
		}

		sweep, err := usecase.NewSweep(usecase.SweepOptions{
			Name:         sweepCfg.Name,
			Directory:    sweepCfg.Directory,
			Pattern:      sweepCfg.Pattern,
			Format:       sweepCfg.Format,
			ArchiveDir:   sweepCfg.ArchiveDir,
			DeleteSource: sweepCfg.DeleteSource,
			MinAge:       sweepCfg.MinAge,
		}, fs, uploadTargets, log)
		if err != nil {
			log.Errorf("Failed to initialize sweep %s: %v", sweepCfg.Name, err)
			continue
		}

		jobs = append(jobs, domain.SweepJob{
			Name:     sweepCfg.Name,
			Schedule: sweepCfg.Schedule,
			Sweep:    sweep,
		})

		log.Infof("✓ Scheduled sweep %s: %s (%s)", sweepCfg.Name, sweepCfg.Schedule,
			filepath.Join(sweepCfg.Directory, sweepCfg.Pattern))
	}

	return jobs
}

func (a *App) Run(ctx context.Context) error {
	a.logger.Infof("Application started with %d sweep job(s)", len(a.sweepJobs))

	for _, job := range a.sweepJobs {
		sweep := job.Sweep
		name := job.Name

		if err := a.scheduler.AddJob(name, job.Schedule, sweep.Execute); err != nil {
			return fmt.Errorf("failed to schedule sweep %s: %w", name, err)
		}
	}

	if a.config.App.RunOnStart {
		a.RunOnce(ctx)
	}

	a.scheduler.Start()
	a.logger.Infof("Scheduler started successfully")
	a.logger.Infof("Archive destinations: %d upload target(s)", len(a.uploadTargets))

	<-ctx.Done()
	return nil
}

// RunOnce executes every sweep immediately, one after another.
func (a *App) RunOnce(ctx context.Context) {
	for _, job := range a.sweepJobs {
		a.logger.Infof("=== Running sweep %s ===", job.Name)
		if err := job.Sweep.Execute(ctx); err != nil {
			a.logger.Errorf("Sweep %s failed: %v", job.Name, err)
		}
	}
}

func (a *App) Shutdown() {
	a.logger.Infof("Shutting down application...")
	a.scheduler.Stop()
	a.logger.Close()
}
