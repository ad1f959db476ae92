package logging_test

import (
	"testing"

	"github.com/JaimeStill/imadjust/pkg/logging"
)

func TestConfig_Merge(t *testing.T) {
	base := &logging.Config{
		Level:  logging.LevelInfo,
		Format: logging.FormatJSON,
	}

	overlay := &logging.Config{
		Level: logging.LevelDebug,
		File:  "run.log",
	}

	base.Merge(overlay)

	if base.Level != logging.LevelDebug {
		t.Errorf("Level = %q, want %q (should merge)", base.Level, logging.LevelDebug)
	}

	if base.Format != logging.FormatJSON {
		t.Errorf("Format = %q, want %q (should not change)", base.Format, logging.FormatJSON)
	}

	if base.File != "run.log" {
		t.Errorf("File = %q, want %q (should merge)", base.File, "run.log")
	}
}

func TestConfig_Finalize_AppliesDefaults(t *testing.T) {
	cfg := &logging.Config{}

	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize() failed: %v", err)
	}

	if cfg.Level != logging.LevelInfo {
		t.Errorf("Level = %q, want %q (default)", cfg.Level, logging.LevelInfo)
	}

	if cfg.Format != logging.FormatText {
		t.Errorf("Format = %q, want %q (default)", cfg.Format, logging.FormatText)
	}

	if cfg.File != "" {
		t.Errorf("File = %q, want empty (default)", cfg.File)
	}
}

func TestConfig_Finalize_EnvOverrides(t *testing.T) {
	t.Setenv("TEST_LOG_LEVEL", "error")
	t.Setenv("TEST_LOG_FORMAT", "json")
	t.Setenv("TEST_LOG_FILE", "batch.log")

	env := &logging.Env{
		Level:  "TEST_LOG_LEVEL",
		Format: "TEST_LOG_FORMAT",
		File:   "TEST_LOG_FILE",
	}

	cfg := &logging.Config{
		Level:  logging.LevelInfo,
		Format: logging.FormatText,
	}

	if err := cfg.Finalize(env); err != nil {
		t.Fatalf("Finalize() failed: %v", err)
	}

	if cfg.Level != logging.LevelError {
		t.Errorf("Level = %q, want %q (env override)", cfg.Level, logging.LevelError)
	}

	if cfg.Format != logging.FormatJSON {
		t.Errorf("Format = %q, want %q (env override)", cfg.Format, logging.FormatJSON)
	}

	if cfg.File != "batch.log" {
		t.Errorf("File = %q, want %q (env override)", cfg.File, "batch.log")
	}
}

func TestConfig_Finalize_Invalid(t *testing.T) {
	tests := []struct {
		name string
		cfg  logging.Config
	}{
		{"invalid level", logging.Config{Level: "loud", Format: logging.FormatJSON}},
		{"invalid format", logging.Config{Level: logging.LevelInfo, Format: "xml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Finalize(nil); err == nil {
				t.Error("Finalize() succeeded, want error")
			}
		})
	}
}
