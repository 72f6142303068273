package compressor

import (
	"io"

	"github.com/andybalholm/brotli"
	"github.com/spf13/afero"
)

type BrotliCompressor struct {
	streamCompressor
}

func NewBrotli(fs afero.Fs) *BrotliCompressor {
	return &BrotliCompressor{streamCompressor{
		fs: fs,
		newWriter: func(w io.Writer) (io.WriteCloser, error) {
			return brotli.NewWriterLevel(w, brotli.BestCompression), nil
		},
		newReader: func(r io.Reader) (io.ReadCloser, error) {
			return nopReadCloser{brotli.NewReader(r)}, nil
		},
	}}
}
