package compressor

import (
	"io"

	"github.com/pierrec/lz4/v4"
	"github.com/spf13/afero"
)

type Lz4Compressor struct {
	streamCompressor
}

func NewLz4(fs afero.Fs) *Lz4Compressor {
	return &Lz4Compressor{streamCompressor{
		fs: fs,
		newWriter: func(w io.Writer) (io.WriteCloser, error) {
			enc := lz4.NewWriter(w)
			if err := enc.Apply(lz4.CompressionLevelOption(lz4.Level9)); err != nil {
				return nil, err
			}
			return enc, nil
		},
		newReader: func(r io.Reader) (io.ReadCloser, error) {
			return nopReadCloser{lz4.NewReader(r)}, nil
		},
	}}
}
