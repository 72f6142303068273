package compressor

import (
	"io"

	"github.com/spf13/afero"
	"github.com/ulikunitz/xz"
)

type XzCompressor struct {
	streamCompressor
}

func NewXz(fs afero.Fs) *XzCompressor {
	return &XzCompressor{streamCompressor{
		fs: fs,
		newWriter: func(w io.Writer) (io.WriteCloser, error) {
			return xz.NewWriter(w)
		},
		newReader: func(r io.Reader) (io.ReadCloser, error) {
			dec, err := xz.NewReader(r)
			if err != nil {
				return nil, err
			}
			return nopReadCloser{dec}, nil
		},
	}}
}
