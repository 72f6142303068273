package usecase

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"

	"github.com/semmidev/rollzip/internal/domain"
)

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrIOFailure       = errors.New("io failure")
)

// ReportFunc receives errors raised while an action runs under a scheduler.
type ReportFunc func(source string, err error)

// CompressAction compresses a rolled log file into an archive and optionally
// removes the original. Failure to remove the original is logged and does not
// affect the result.
type CompressAction struct {
	source       string
	destination  string
	deleteSource bool

	compressor domain.Compressor
	fs         afero.Fs
	logger     Logger
	report     ReportFunc

	mu          sync.Mutex
	interrupted bool
	started     bool
	complete    bool
}

type Option func(*CompressAction)

func WithFs(fs afero.Fs) Option {
	return func(a *CompressAction) { a.fs = fs }
}

func WithLogger(logger Logger) Option {
	return func(a *CompressAction) { a.logger = logger }
}

func WithReporter(report ReportFunc) Option {
	return func(a *CompressAction) { a.report = report }
}

func NewCompressAction(
	source, destination string,
	deleteSource bool,
	compressor domain.Compressor,
	opts ...Option,
) (*CompressAction, error) {
	if source == "" {
		return nil, fmt.Errorf("%w: source", ErrInvalidArgument)
	}
	if destination == "" {
		return nil, fmt.Errorf("%w: destination", ErrInvalidArgument)
	}
	if compressor == nil {
		return nil, fmt.Errorf("%w: compressor", ErrInvalidArgument)
	}
	if samePath(source, destination) {
		return nil, fmt.Errorf("%w: destination %s is the source", ErrInvalidArgument, destination)
	}

	a := &CompressAction{
		source:       source,
		destination:  destination,
		deleteSource: deleteSource,
		compressor:   compressor,
		fs:           afero.NewOsFs(),
		logger:       nopLogger(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.report == nil {
		a.report = warnReporter(a.logger)
	}

	return a, nil
}

func (a *CompressAction) Source() string      { return a.source }
func (a *CompressAction) Destination() string { return a.destination }

// Execute returns false when the source does not exist, true once the archive
// has been written.
func (a *CompressAction) Execute() (bool, error) {
	return ExecuteRequest(a.fs, a.compressor, a.logger, a.source, a.destination, a.deleteSource)
}

// ExecuteRequest is Execute without an action value.
func ExecuteRequest(
	fs afero.Fs,
	compressor domain.Compressor,
	logger Logger,
	source, destination string,
	deleteSource bool,
) (bool, error) {
	// writing the archive would truncate the file before it is read
	if samePath(source, destination) {
		return false, fmt.Errorf("%w: destination %s is the source", ErrInvalidArgument, destination)
	}

	if _, err := fs.Stat(source); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("%w: stat %s: %w", ErrIOFailure, source, err)
	}

	if err := compressor.Compress(source, destination); err != nil {
		return false, fmt.Errorf("%w: compress %s: %w", ErrIOFailure, source, err)
	}

	if deleteSource {
		if err := fs.Remove(source); err != nil {
			logger.Warnf("Unable to delete %s.", source)
		}
	}

	return true, nil
}

// Run executes the action unless it was closed, routing any error to
// ReportException. It reports whether an archive was produced.
func (a *CompressAction) Run() bool {
	a.mu.Lock()
	if a.interrupted || a.started {
		a.mu.Unlock()
		return false
	}
	a.started = true
	a.mu.Unlock()

	ok, err := a.Execute()
	if err != nil {
		a.ReportException(err)
	}

	a.mu.Lock()
	a.complete = true
	a.mu.Unlock()

	return ok && err == nil
}

// Close prevents a pending Run from doing anything. It does not wait for a
// Run already in progress.
func (a *CompressAction) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.interrupted = true
}

func (a *CompressAction) IsComplete() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.complete
}

func (a *CompressAction) ReportException(err error) {
	a.report(a.source, err)
}

func samePath(a, b string) bool {
	return filepath.Clean(a) == filepath.Clean(b)
}

func warnReporter(logger Logger) ReportFunc {
	return func(source string, err error) {
		logger.Warnw(fmt.Sprintf("Exception during compression of '%s'.", source), "error", err)
	}
}
