package types

import (
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Log level names accepted in config.yaml.
const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

// AppConfig holds the resolved application configuration: where the files
// live and how the surfaces behave.
type AppConfig struct {
	ConfigDir    string `json:"config_dir" yaml:"-"`
	DataDir      string `json:"data_dir" yaml:"data_dir"`
	LogLevel     string `json:"log_level" yaml:"log_level"`
	ShellPreview int    `json:"shell_preview" yaml:"shell_preview"`
	ShellWatch   bool   `json:"shell_watch" yaml:"shell_watch"`
	ServeAddr    string `json:"serve_addr" yaml:"serve_addr"`
}

// Validate checks that the configuration is usable. Errors wrap
// ErrConfigInvalid.
func (c AppConfig) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.DataDir, validation.Required),
		validation.Field(&c.LogLevel, validation.Required,
			validation.In(LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError)),
		validation.Field(&c.ShellPreview, validation.Min(1)),
		validation.Field(&c.ServeAddr, validation.Required),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConfigInvalid, err)
	}
	return nil
}

// SlogLevel maps LogLevel to a slog level. Unknown names map to warn.
func (c AppConfig) SlogLevel() slog.Level {
	switch c.LogLevel {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelInfo:
		return slog.LevelInfo
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
