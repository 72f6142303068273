package storage

import (
	"context"
	"fmt"

	"github.com/semmidev/rollzip/internal/config"
	"github.com/spf13/afero"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

type GDriveStorage struct {
	fs       afero.Fs
	service  *drive.Service
	folderID string
}

func NewGDrive(ctx context.Context, fs afero.Fs, cfg *config.UploadTarget) (*GDriveStorage, error) {
	service, err := drive.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}

	return &GDriveStorage{
		fs:       fs,
		service:  service,
		folderID: cfg.FolderID,
	}, nil
}

func (g *GDriveStorage) Upload(ctx context.Context, localPath string, remoteName string) error {
	file, err := g.fs.Open(localPath)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	meta := &drive.File{
		Name:     remoteName,
		MimeType: contentType(remoteName),
	}
	if g.folderID != "" {
		meta.Parents = []string{g.folderID}
	}

	_, err = g.service.Files.Create(meta).
		Media(file).
		Fields("id").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to upload to gdrive: %w", err)
	}

	return nil
}
