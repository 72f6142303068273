package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	App           AppConfig      `mapstructure:"app"`
	Sweeps        []SweepConfig  `mapstructure:"sweeps" validate:"required,min=1,dive"`
	UploadTargets []UploadTarget `mapstructure:"upload_targets" validate:"dive"`
}

type AppConfig struct {
	Name       string `mapstructure:"name"`
	LogLevel   string `mapstructure:"log_level"`
	LogFile    string `mapstructure:"log_file"`
	RunOnStart bool   `mapstructure:"run_on_start"`
}

type SweepConfig struct {
	Name         string        `mapstructure:"name" validate:"required"`
	Directory    string        `mapstructure:"directory" validate:"required"`
	Pattern      string        `mapstructure:"pattern" validate:"required"`
	Format       string        `mapstructure:"format" validate:"oneof=zip gzip zstd xz lz4 brotli"`
	ArchiveDir   string        `mapstructure:"archive_dir"`
	DeleteSource bool          `mapstructure:"delete_source"`
	Schedule     string        `mapstructure:"schedule" validate:"required"`
	MinAge       time.Duration `mapstructure:"min_age" validate:"gte=0"`
	Enabled      bool          `mapstructure:"enabled"`
}

type UploadTarget struct {
	Type    string `mapstructure:"type" validate:"oneof=local s3 gdrive telegram"`
	Enabled bool   `mapstructure:"enabled"`

	// Local directory
	Path string `mapstructure:"path"`

	// Google Drive
	CredentialsFile string `mapstructure:"credentials_file"`
	FolderID        string `mapstructure:"folder_id"`

	// AWS S3
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Prefix    string `mapstructure:"prefix"`

	// Telegram
	BotToken   string `mapstructure:"bot_token"`
	ChatID     string `mapstructure:"chat_id"`
	SendFile   bool   `mapstructure:"send_file"`
	NotifyOnly bool   `mapstructure:"notify_only"`
}

func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetDefault("app.name", "rollzip")
	v.SetDefault("app.log_level", "info")

	v.SetEnvPrefix("ROLLZIP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults fills per-item defaults viper cannot express for list
// entries.
func (c *Config) applyDefaults() {
	for i := range c.Sweeps {
		if c.Sweeps[i].Format == "" {
			c.Sweeps[i].Format = "zip"
		}
	}
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}

	names := make(map[string]bool)
	for i, s := range c.Sweeps {
		if names[s.Name] {
			return fmt.Errorf("sweeps[%d]: duplicate name %q", i, s.Name)
		}
		names[s.Name] = true

		if _, err := filepath.Match(s.Pattern, ""); err != nil {
			return fmt.Errorf("sweeps[%d]: invalid pattern %q: %w", i, s.Pattern, err)
		}
	}

	for i, t := range c.UploadTargets {
		if !t.Enabled {
			continue
		}
		switch t.Type {
		case "local":
			if t.Path == "" {
				return fmt.Errorf("upload_targets[%d]: path is required for local", i)
			}
		case "s3":
			if t.Bucket == "" || t.Region == "" {
				return fmt.Errorf("upload_targets[%d]: bucket and region are required for s3", i)
			}
		case "gdrive":
			if t.CredentialsFile == "" {
				return fmt.Errorf("upload_targets[%d]: credentials_file is required for gdrive", i)
			}
		case "telegram":
			if t.BotToken == "" || t.ChatID == "" {
				return fmt.Errorf("upload_targets[%d]: bot_token and chat_id are required for telegram", i)
			}
		}
	}

	return nil
}

func (c *Config) GetEnabledSweeps() []SweepConfig {
	var enabled []SweepConfig
	for _, s := range c.Sweeps {
		if s.Enabled {
			enabled = append(enabled, s)
		}
	}
	return enabled
}

func (c *Config) GetEnabledUploadTargets() []UploadTarget {
	var enabled []UploadTarget
	for _, target := range c.UploadTargets {
		if target.Enabled {
			enabled = append(enabled, target)
		}
	}
	return enabled
}
