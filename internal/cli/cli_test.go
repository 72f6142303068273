package cli

import (
	"bytes"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/afero"
)

func execute(fs afero.Fs, args ...string) (string, error) {
	root := newRootCmd(fs)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestCompressCommand(t *testing.T) {
	Convey("Given the compress command", t, func() {
		fs := afero.NewMemMapFs()
		So(afero.WriteFile(fs, "/logs/app.log", []byte("hello"), 0644), ShouldBeNil)

		Convey("When compressing with --delete", func() {
			out, err := execute(fs, "compress", "/logs/app.log", "/logs/app.log.zip", "--delete")

			Convey("It should write the archive and remove the source", func() {
				So(err, ShouldBeNil)
				So(out, ShouldContainSubstring, "compressed /logs/app.log -> /logs/app.log.zip")

				exists, _ := afero.Exists(fs, "/logs/app.log")
				So(exists, ShouldBeFalse)

				out, err := execute(fs, "extract", "/logs/app.log.zip", "/restore/app.log")
				So(err, ShouldBeNil)
				So(out, ShouldContainSubstring, "extracted")

				content, err := afero.ReadFile(fs, "/restore/app.log")
				So(err, ShouldBeNil)
				So(string(content), ShouldEqual, "hello")
			})
		})

		Convey("When the source does not exist", func() {
			out, err := execute(fs, "compress", "/logs/missing.log", "/logs/missing.log.gz")

			Convey("It should report there was nothing to do", func() {
				So(err, ShouldBeNil)
				So(out, ShouldContainSubstring, "nothing to compress")

				exists, _ := afero.Exists(fs, "/logs/missing.log.gz")
				So(exists, ShouldBeFalse)
			})
		})

		Convey("When --format overrides the suffix", func() {
			_, err := execute(fs, "compress", "/logs/app.log", "/logs/app.archive", "--format", "xz")

			Convey("It should use the requested format", func() {
				So(err, ShouldBeNil)

				_, err := execute(fs, "extract", "/logs/app.archive", "/restore/app.log", "--format", "xz")
				So(err, ShouldBeNil)
				content, err := afero.ReadFile(fs, "/restore/app.log")
				So(err, ShouldBeNil)
				So(string(content), ShouldEqual, "hello")
			})
		})

		Convey("When the destination suffix is unknown", func() {
			_, err := execute(fs, "compress", "/logs/app.log", "/logs/app.log.rar")

			Convey("It should fail", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "no compression format matches")
			})
		})

		Convey("When the destination cannot be written", func() {
			_, err := execute(afero.NewReadOnlyFs(fs), "compress", "/logs/app.log", "/logs/app.log.zip", "--delete")

			Convey("It should fail and keep the source", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "failed to create dest file")

				exists, _ := afero.Exists(fs, "/logs/app.log")
				So(exists, ShouldBeTrue)
			})
		})

		Convey("When called with the wrong number of arguments", func() {
			_, err := execute(fs, "compress", "/logs/app.log")

			Convey("It should fail", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}

func TestRunCommand(t *testing.T) {
	Convey("Given the run command with a missing config file", t, func() {
		_, err := execute(afero.NewMemMapFs(), "run", "--config", "/nonexistent/rollzip.yaml")

		Convey("It should fail to load the config", func() {
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "load config")
		})
	})
}
