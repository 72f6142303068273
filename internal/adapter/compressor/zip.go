package compressor

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"
	"github.com/spf13/afero"
)

// ZipCompressor writes a zip archive holding a single entry named after the
// source file.
type ZipCompressor struct {
	fs afero.Fs
}

func NewZip(fs afero.Fs) *ZipCompressor {
	return &ZipCompressor{fs: fs}
}

func (z *ZipCompressor) Compress(sourcePath, destPath string) error {
	sourceFile, err := z.fs.Open(sourcePath)
	if err != nil {
		return fmt.Errorf("failed to open source file: %w", err)
	}
	defer sourceFile.Close()

	info, err := sourceFile.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat source file: %w", err)
	}

	return writeDest(z.fs, destPath, func(destFile io.Writer) error {
		w := zip.NewWriter(destFile)
		w.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
			return flate.NewWriter(out, flate.BestCompression)
		})

		header, err := zip.FileInfoHeader(info)
		if err != nil {
			_ = w.Close()
			return fmt.Errorf("failed to create zip header: %w", err)
		}
		header.Name = filepath.Base(sourcePath)
		header.Method = zip.Deflate

		entry, err := w.CreateHeader(header)
		if err != nil {
			_ = w.Close()
			return fmt.Errorf("failed to create zip entry: %w", err)
		}

		if _, err := io.Copy(entry, sourceFile); err != nil {
			_ = w.Close()
			return fmt.Errorf("failed to compress: %w", err)
		}

		if err := w.Close(); err != nil {
			return fmt.Errorf("closing zip writer: %w", err)
		}
		return nil
	})
}

// Decompress writes the first regular entry of the archive to destPath.
func (z *ZipCompressor) Decompress(sourcePath, destPath string) error {
	sourceFile, err := z.fs.Open(sourcePath)
	if err != nil {
		return fmt.Errorf("failed to open source file: %w", err)
	}
	defer sourceFile.Close()

	info, err := sourceFile.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat source file: %w", err)
	}

	r, err := zip.NewReader(sourceFile, info.Size())
	if err != nil {
		return fmt.Errorf("failed to create zip reader: %w", err)
	}

	var entry *zip.File
	for _, f := range r.File {
		if !f.FileInfo().IsDir() {
			entry = f
			break
		}
	}
	if entry == nil {
		return fmt.Errorf("failed to decompress: archive %s has no file entries", sourcePath)
	}

	rc, err := entry.Open()
	if err != nil {
		return fmt.Errorf("failed to open zip entry: %w", err)
	}
	defer rc.Close()

	return writeDest(z.fs, destPath, func(destFile io.Writer) error {
		if _, err := io.Copy(destFile, rc); err != nil {
			return fmt.Errorf("failed to decompress: %w", err)
		}
		return nil
	})
}
