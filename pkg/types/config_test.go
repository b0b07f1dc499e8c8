package types

import (
	"errors"
	"log/slog"
	"testing"
)

func TestAppConfigValidate(t *testing.T) {
	valid := AppConfig{
		DataDir:      "/tmp/data",
		LogLevel:     LogLevelWarn,
		ShellPreview: 5,
		ServeAddr:    "127.0.0.1:7423",
	}

	tests := []struct {
		name    string
		mutate  func(c *AppConfig)
		wantErr error
	}{
		{
			name:    "valid config",
			mutate:  func(c *AppConfig) {},
			wantErr: nil,
		},
		{
			name:    "empty data dir returns ErrConfigInvalid",
			mutate:  func(c *AppConfig) { c.DataDir = "" },
			wantErr: ErrConfigInvalid,
		},
		{
			name:    "unknown log level returns ErrConfigInvalid",
			mutate:  func(c *AppConfig) { c.LogLevel = "verbose" },
			wantErr: ErrConfigInvalid,
		},
		{
			name:    "negative preview returns ErrConfigInvalid",
			mutate:  func(c *AppConfig) { c.ShellPreview = -1 },
			wantErr: ErrConfigInvalid,
		},
		{
			name:    "empty serve addr returns ErrConfigInvalid",
			mutate:  func(c *AppConfig) { c.ServeAddr = "" },
			wantErr: ErrConfigInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("expected nil error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestAppConfigSlogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		LogLevelDebug: slog.LevelDebug,
		LogLevelInfo:  slog.LevelInfo,
		LogLevelWarn:  slog.LevelWarn,
		LogLevelError: slog.LevelError,
		"":            slog.LevelWarn,
	}
	for name, want := range tests {
		if got := (AppConfig{LogLevel: name}).SlogLevel(); got != want {
			t.Errorf("SlogLevel(%q) = %v, want %v", name, got, want)
		}
	}
}
