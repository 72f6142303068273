package compressor

import (
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/spf13/afero"
)

type GzipCompressor struct {
	streamCompressor
}

func NewGzip(fs afero.Fs) *GzipCompressor {
	return &GzipCompressor{streamCompressor{
		fs: fs,
		newWriter: func(w io.Writer) (io.WriteCloser, error) {
			return gzip.NewWriterLevel(w, gzip.BestCompression)
		},
		newReader: func(r io.Reader) (io.ReadCloser, error) {
			return gzip.NewReader(r)
		},
	}}
}
