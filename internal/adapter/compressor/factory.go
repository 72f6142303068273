package compressor

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/semmidev/rollzip/internal/domain"
)

const (
	FormatZip    = "zip"
	FormatGzip   = "gzip"
	FormatZstd   = "zstd"
	FormatXz     = "xz"
	FormatLz4    = "lz4"
	FormatBrotli = "brotli"
)

var extensions = map[string]string{
	FormatZip:    ".zip",
	FormatGzip:   ".gz",
	FormatZstd:   ".zst",
	FormatXz:     ".xz",
	FormatLz4:    ".lz4",
	FormatBrotli: ".br",
}

// Formats returns the supported format names in sorted order.
func Formats() []string {
	formats := make([]string, 0, len(extensions))
	for f := range extensions {
		formats = append(formats, f)
	}
	sort.Strings(formats)
	return formats
}

// Extension returns the file suffix, including the dot, used for format.
func Extension(format string) (string, error) {
	ext, ok := extensions[strings.ToLower(format)]
	if !ok {
		return "", fmt.Errorf("unsupported format %q", format)
	}
	return ext, nil
}

func New(fs afero.Fs, format string) (domain.Compressor, error) {
	switch strings.ToLower(format) {
	case FormatZip:
		return NewZip(fs), nil
	case FormatGzip:
		return NewGzip(fs), nil
	case FormatZstd:
		return NewZstd(fs), nil
	case FormatXz:
		return NewXz(fs), nil
	case FormatLz4:
		return NewLz4(fs), nil
	case FormatBrotli:
		return NewBrotli(fs), nil
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

// FormatForPath picks the format whose extension ends path.
func FormatForPath(path string) (string, error) {
	lower := strings.ToLower(path)
	for format, ext := range extensions {
		if strings.HasSuffix(lower, ext) {
			return format, nil
		}
	}
	return "", fmt.Errorf("no compression format matches %q", path)
}

// ForPath builds the compressor matching the suffix of destPath.
func ForPath(fs afero.Fs, destPath string) (domain.Compressor, error) {
	format, err := FormatForPath(destPath)
	if err != nil {
		return nil, err
	}
	return New(fs, format)
}

func IsArchive(path string) bool {
	_, err := FormatForPath(path)
	return err == nil
}
