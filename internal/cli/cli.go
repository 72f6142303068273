// Package cli wires the rollzip commands.
package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/semmidev/rollzip/internal/adapter/compressor"
	"github.com/semmidev/rollzip/internal/app"
	"github.com/semmidev/rollzip/internal/config"
	"github.com/semmidev/rollzip/internal/domain"
	"github.com/semmidev/rollzip/internal/infrastructure/logger"
	"github.com/semmidev/rollzip/internal/usecase"
)

type rootOptions struct {
	logLevel string
	fs       afero.Fs
}

// NewRootCmd builds the command tree on the OS filesystem.
func NewRootCmd() *cobra.Command {
	return newRootCmd(afero.NewOsFs())
}

func newRootCmd(fs afero.Fs) *cobra.Command {
	opts := &rootOptions{fs: fs}

	root := &cobra.Command{
		Use:   "rollzip",
		Short: "Compress rolled log files",
		Long: `rollzip compresses log files that a rotation process has already rolled,
optionally deleting the original once the archive is written.

Formats: zip, gzip, zstd, xz, lz4, brotli. The format is picked from the
destination suffix unless --format is given.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(newCompressCmd(opts))
	root.AddCommand(newExtractCmd(opts))
	root.AddCommand(newRunCmd(opts))

	return root
}

func newCompressCmd(opts *rootOptions) *cobra.Command {
	var deleteSource bool
	var format string

	cmd := &cobra.Command{
		Use:   "compress <source> <destination>",
		Short: "Compress a single file",
		Long: `Compress source into destination. A missing source is not an error:
nothing is written and the command reports that there was nothing to do.
With --delete the source is removed afterwards; failing to remove it only
logs a warning.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := logger.New(opts.logLevel, "")
			if err != nil {
				return err
			}
			defer log.Close()

			comp, err := pickCompressor(opts.fs, format, args[1])
			if err != nil {
				return err
			}

			action, err := usecase.NewCompressAction(args[0], args[1], deleteSource, comp,
				usecase.WithFs(opts.fs),
				usecase.WithLogger(log),
			)
			if err != nil {
				return err
			}

			ok, err := action.Execute()
			if err != nil {
				action.ReportException(err)
				return err
			}

			if !ok {
				fmt.Fprintf(cmd.OutOrStdout(), "%s does not exist, nothing to compress\n", args[0])
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "compressed %s -> %s\n", args[0], args[1])
			return nil
		},
	}

	cmd.Flags().BoolVar(&deleteSource, "delete", false, "delete the source after compressing")
	cmd.Flags().StringVar(&format, "format", "", "compression format (default: from destination suffix)")

	return cmd
}

func newExtractCmd(opts *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "extract <archive> <destination>",
		Short: "Restore the file held in an archive",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			comp, err := pickCompressor(opts.fs, format, args[0])
			if err != nil {
				return err
			}

			if err := comp.Decompress(args[0], args[1]); err != nil {
				return fmt.Errorf("extract %s: %w", args[0], err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "extracted %s -> %s\n", args[0], args[1])
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "compression format (default: from archive suffix)")

	return cmd
}

func newRunCmd(opts *rootOptions) *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the configured sweeps on their schedules",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if cmd.Flags().Changed("log-level") {
				cfg.App.LogLevel = opts.logLevel
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			application, err := app.New(ctx, cfg)
			if err != nil {
				return fmt.Errorf("initialize app: %w", err)
			}
			defer application.Shutdown()

			return application.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "configs/config.yaml", "path to config file")

	return cmd
}

func pickCompressor(fs afero.Fs, format, archivePath string) (domain.Compressor, error) {
	if format != "" {
		return compressor.New(fs, format)
	}
	return compressor.ForPath(fs, archivePath)
}
