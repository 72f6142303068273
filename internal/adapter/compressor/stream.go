package compressor

import (
	"fmt"
	"io"

	"github.com/spf13/afero"
)

// streamCompressor handles single-stream formats: the whole source file is
// piped through one encoder into the destination.
type streamCompressor struct {
	fs        afero.Fs
	newWriter func(w io.Writer) (io.WriteCloser, error)
	newReader func(r io.Reader) (io.ReadCloser, error)
}

func (s *streamCompressor) Compress(sourcePath, destPath string) error {
	sourceFile, err := s.fs.Open(sourcePath)
	if err != nil {
		return fmt.Errorf("failed to open source file: %w", err)
	}
	defer sourceFile.Close()

	return writeDest(s.fs, destPath, func(destFile io.Writer) error {
		enc, err := s.newWriter(destFile)
		if err != nil {
			return fmt.Errorf("failed to create encoder: %w", err)
		}

		if _, err := io.Copy(enc, sourceFile); err != nil {
			_ = enc.Close()
			return fmt.Errorf("failed to compress: %w", err)
		}

		if err := enc.Close(); err != nil {
			return fmt.Errorf("failed to compress: %w", err)
		}
		return nil
	})
}

func (s *streamCompressor) Decompress(sourcePath, destPath string) error {
	sourceFile, err := s.fs.Open(sourcePath)
	if err != nil {
		return fmt.Errorf("failed to open source file: %w", err)
	}
	defer sourceFile.Close()

	dec, err := s.newReader(sourceFile)
	if err != nil {
		return fmt.Errorf("failed to create decoder: %w", err)
	}
	defer dec.Close()

	return writeDest(s.fs, destPath, func(destFile io.Writer) error {
		if _, err := io.Copy(destFile, dec); err != nil {
			return fmt.Errorf("failed to decompress: %w", err)
		}
		return nil
	})
}

// writeDest creates destPath, hands it to fill and removes it again if
// anything fails, so callers never see a truncated archive.
func writeDest(fs afero.Fs, destPath string, fill func(w io.Writer) error) error {
	destFile, err := fs.Create(destPath)
	if err != nil {
		return fmt.Errorf("failed to create dest file: %w", err)
	}

	if err := fill(destFile); err != nil {
		_ = destFile.Close()
		_ = fs.Remove(destPath)
		return err
	}

	if err := destFile.Close(); err != nil {
		_ = fs.Remove(destPath)
		return fmt.Errorf("failed to close dest file: %w", err)
	}

	return nil
}

type nopReadCloser struct {
	io.Reader
}

func (nopReadCloser) Close() error { return nil }
