package usecase

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/spf13/afero"

	"github.com/semmidev/rollzip/internal/adapter/compressor"
	"github.com/semmidev/rollzip/internal/domain"
)

type UploadTarget struct {
	Name    string
	Storage domain.Storage
}

type SweepOptions struct {
	Name         string
	Directory    string
	Pattern      string
	Format       string
	ArchiveDir   string
	DeleteSource bool
	MinAge       time.Duration
}

// Sweep compresses every rolled file matching a glob, one CompressAction per
// file, and ships the resulting archives to the upload targets.
type Sweep struct {
	opts          SweepOptions
	ext           string
	compressor    domain.Compressor
	fs            afero.Fs
	uploadTargets []UploadTarget
	logger        Logger
	now           func() time.Time
}

func NewSweep(
	opts SweepOptions,
	fs afero.Fs,
	uploadTargets []UploadTarget,
	logger Logger,
) (*Sweep, error) {
	comp, err := compressor.New(fs, opts.Format)
	if err != nil {
		return nil, fmt.Errorf("sweep %s: %w", opts.Name, err)
	}
	ext, err := compressor.Extension(opts.Format)
	if err != nil {
		return nil, fmt.Errorf("sweep %s: %w", opts.Name, err)
	}
	if opts.ArchiveDir == "" {
		opts.ArchiveDir = opts.Directory
	}

	return &Sweep{
		opts:          opts,
		ext:           ext,
		compressor:    comp,
		fs:            fs,
		uploadTargets: uploadTargets,
		logger:        logger,
		now:           time.Now,
	}, nil
}

func (uc *Sweep) Execute(ctx context.Context) error {
	start := uc.now()
	name := uc.opts.Name

	candidates, err := uc.findCandidates()
	if err != nil {
		return err
	}
	if len(candidates) == 0 {
		return nil
	}

	uc.logger.Infof("[%s] Found %d rolled file(s) to compress", name, len(candidates))

	compressed := 0
	for _, source := range candidates {
		if err := ctx.Err(); err != nil {
			return err
		}

		dest := filepath.Join(uc.opts.ArchiveDir, filepath.Base(source)+uc.ext)
		if exists, _ := afero.Exists(uc.fs, dest); exists {
			uc.logger.Warnf("[%s] Skipping %s: %s already exists", name, source, dest)
			continue
		}

		action, err := NewCompressAction(source, dest, uc.opts.DeleteSource, uc.compressor,
			WithFs(uc.fs),
			WithLogger(uc.logger),
		)
		if err != nil {
			return err
		}

		if !action.Run() {
			continue
		}
		compressed++

		uc.logCompression(dest)

		if len(uc.uploadTargets) > 0 {
			uc.uploadToTargets(ctx, dest, filepath.Base(dest))
		}
	}

	uc.logger.Infof("[%s] Sweep completed in %s: %d/%d file(s) compressed",
		name, uc.now().Sub(start).Round(time.Millisecond), compressed, len(candidates))

	return nil
}

func (uc *Sweep) findCandidates() ([]string, error) {
	matches, err := afero.Glob(uc.fs, filepath.Join(uc.opts.Directory, uc.opts.Pattern))
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", uc.opts.Pattern, err)
	}

	cutoff := uc.now().Add(-uc.opts.MinAge)

	var candidates []string
	for _, path := range matches {
		if compressor.IsArchive(path) {
			continue
		}

		info, err := uc.fs.Stat(path)
		if err != nil {
			// rotated away between glob and stat
			continue
		}
		if info.IsDir() || info.ModTime().After(cutoff) {
			continue
		}

		candidates = append(candidates, path)
	}
	sort.Strings(candidates)

	return candidates, nil
}

func (uc *Sweep) logCompression(dest string) {
	info, err := uc.fs.Stat(dest)
	if err != nil {
		return
	}
	uc.logger.Infof("[%s] Compressed to %s, size: %.2f KB",
		uc.opts.Name, dest, float64(info.Size())/1024)
}

func (uc *Sweep) uploadToTargets(ctx context.Context, filePath, filename string) {
	var wg sync.WaitGroup
	name := uc.opts.Name

	for _, target := range uc.uploadTargets {
		wg.Add(1)
		go func(t UploadTarget) {
			defer wg.Done()

			uc.logger.Infof("[%s] Uploading %s to %s...", name, filename, t.Name)
			if err := t.Storage.Upload(ctx, filePath, filename); err != nil {
				uc.logger.Errorf("[%s] Failed to upload to %s: %v", name, t.Name, err)
			} else {
				uc.logger.Infof("[%s] Successfully uploaded to %s", name, t.Name)
			}
		}(target)
	}

	wg.Wait()
}
