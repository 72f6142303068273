package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/afero"
	"go.uber.org/zap/zapcore"

	"github.com/semmidev/rollzip/internal/adapter/compressor"
)

type recordingStorage struct {
	mu      sync.Mutex
	uploads []string
	err     error
}

func (r *recordingStorage) Upload(ctx context.Context, localPath string, remoteName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.uploads = append(r.uploads, remoteName)
	return r.err
}

func TestSweep(t *testing.T) {
	Convey("Given a directory of rolled log files", t, func() {
		fs := afero.NewMemMapFs()
		log, logs := observedLogger()
		now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
		old := now.Add(-2 * time.Hour)

		write := func(path, content string, mtime time.Time) {
			So(afero.WriteFile(fs, path, []byte(content), 0644), ShouldBeNil)
			So(fs.Chtimes(path, mtime, mtime), ShouldBeNil)
		}

		write("/var/log/app/app.log", "active", now)
		write("/var/log/app/app.log.2026-10-15", "day one", old)
		write("/var/log/app/app.log.2026-10-16", "day two", old)
		write("/var/log/app/app.log.2026-10-14.gz", "already compressed", old)
		So(fs.MkdirAll("/var/log/app/app.log.d", 0755), ShouldBeNil)

		opts := SweepOptions{
			Name:         "app",
			Directory:    "/var/log/app",
			Pattern:      "app.log.*",
			Format:       compressor.FormatGzip,
			DeleteSource: true,
			MinAge:       time.Hour,
		}

		Convey("When the sweep runs", func() {
			storage := &recordingStorage{}
			sweep, err := NewSweep(opts, fs, []UploadTarget{{Name: "test", Storage: storage}}, log)
			So(err, ShouldBeNil)
			sweep.now = func() time.Time { return now }

			err = sweep.Execute(context.Background())

			Convey("It should compress only eligible files", func() {
				So(err, ShouldBeNil)

				for _, day := range []string{"2026-10-15", "2026-10-16"} {
					exists, _ := afero.Exists(fs, "/var/log/app/app.log."+day+".gz")
					So(exists, ShouldBeTrue)
					exists, _ = afero.Exists(fs, "/var/log/app/app.log."+day)
					So(exists, ShouldBeFalse)
				}

				exists, _ := afero.Exists(fs, "/var/log/app/app.log")
				So(exists, ShouldBeTrue)
				exists, _ = afero.Exists(fs, "/var/log/app/app.log.2026-10-14.gz.gz")
				So(exists, ShouldBeFalse)

				gz := compressor.NewGzip(fs)
				So(gz.Decompress("/var/log/app/app.log.2026-10-15.gz", "/tmp/restored"), ShouldBeNil)
				content, err := afero.ReadFile(fs, "/tmp/restored")
				So(err, ShouldBeNil)
				So(string(content), ShouldEqual, "day one")
			})

			Convey("It should upload every archive it produced", func() {
				So(storage.uploads, ShouldHaveLength, 2)
				So(storage.uploads, ShouldContain, "app.log.2026-10-15.gz")
				So(storage.uploads, ShouldContain, "app.log.2026-10-16.gz")
			})
		})

		Convey("When files are younger than min_age", func() {
			sweep, err := NewSweep(opts, fs, nil, log)
			So(err, ShouldBeNil)
			sweep.now = func() time.Time { return old.Add(30 * time.Minute) }

			So(sweep.Execute(context.Background()), ShouldBeNil)

			Convey("It should leave them alone", func() {
				exists, _ := afero.Exists(fs, "/var/log/app/app.log.2026-10-15")
				So(exists, ShouldBeTrue)
				exists, _ = afero.Exists(fs, "/var/log/app/app.log.2026-10-15.gz")
				So(exists, ShouldBeFalse)
			})
		})

		Convey("When an archive already exists at the destination", func() {
			write("/var/log/app/app.log.2026-10-15.gz", "previous", old)
			sweep, err := NewSweep(opts, fs, nil, log)
			So(err, ShouldBeNil)
			sweep.now = func() time.Time { return now }

			So(sweep.Execute(context.Background()), ShouldBeNil)

			Convey("It should skip the file with a warning", func() {
				content, err := afero.ReadFile(fs, "/var/log/app/app.log.2026-10-15.gz")
				So(err, ShouldBeNil)
				So(string(content), ShouldEqual, "previous")

				exists, _ := afero.Exists(fs, "/var/log/app/app.log.2026-10-15")
				So(exists, ShouldBeTrue)

				warnings := logs.FilterLevelExact(zapcore.WarnLevel).All()
				So(len(warnings), ShouldEqual, 1)
				So(warnings[0].Message, ShouldContainSubstring, "already exists")
			})
		})

		Convey("When an archive directory is configured", func() {
			opts.ArchiveDir = "/var/archive"
			opts.DeleteSource = false
			So(fs.MkdirAll("/var/archive", 0755), ShouldBeNil)
			sweep, err := NewSweep(opts, fs, nil, log)
			So(err, ShouldBeNil)
			sweep.now = func() time.Time { return now }

			So(sweep.Execute(context.Background()), ShouldBeNil)

			Convey("It should write archives there and keep the sources", func() {
				exists, _ := afero.Exists(fs, "/var/archive/app.log.2026-10-16.gz")
				So(exists, ShouldBeTrue)
				exists, _ = afero.Exists(fs, "/var/log/app/app.log.2026-10-16")
				So(exists, ShouldBeTrue)
			})
		})

		Convey("When an upload target fails", func() {
			storage := &recordingStorage{err: errors.New("bucket unavailable")}
			sweep, err := NewSweep(opts, fs, []UploadTarget{{Name: "s3", Storage: storage}}, log)
			So(err, ShouldBeNil)
			sweep.now = func() time.Time { return now }

			err = sweep.Execute(context.Background())

			Convey("It should log the error and keep the archives", func() {
				So(err, ShouldBeNil)
				So(logs.FilterLevelExact(zapcore.ErrorLevel).Len(), ShouldEqual, 2)

				exists, _ := afero.Exists(fs, "/var/log/app/app.log.2026-10-16.gz")
				So(exists, ShouldBeTrue)
			})
		})

		Convey("When the context is already cancelled", func() {
			sweep, err := NewSweep(opts, fs, nil, log)
			So(err, ShouldBeNil)
			sweep.now = func() time.Time { return now }

			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			err = sweep.Execute(ctx)

			Convey("It should stop before compressing anything", func() {
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
				exists, _ := afero.Exists(fs, "/var/log/app/app.log.2026-10-15.gz")
				So(exists, ShouldBeFalse)
			})
		})

		Convey("When the format is unknown", func() {
			opts.Format = "rar"
			_, err := NewSweep(opts, fs, nil, log)

			Convey("It should fail to build", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "unsupported format")
			})
		})
	})
}
