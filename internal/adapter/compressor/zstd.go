package compressor

import (
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/spf13/afero"
)

type ZstdCompressor struct {
	streamCompressor
}

func NewZstd(fs afero.Fs) *ZstdCompressor {
	return &ZstdCompressor{streamCompressor{
		fs: fs,
		newWriter: func(w io.Writer) (io.WriteCloser, error) {
			return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
		},
		newReader: func(r io.Reader) (io.ReadCloser, error) {
			dec, err := zstd.NewReader(r)
			if err != nil {
				return nil, err
			}
			return dec.IOReadCloser(), nil
		},
	}}
}
