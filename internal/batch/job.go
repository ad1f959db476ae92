package batch

import (
	"fmt"

	"github.com/JaimeStill/imadjust/internal/config"
	"github.com/JaimeStill/imadjust/internal/storage"
	"github.com/JaimeStill/imadjust/pkg/levels"
)

// Job is the immutable description of one run.
type Job struct {
	InputFolder  string
	OutputFolder string
	Pattern      string
	Spec         levels.Spec

	// Workers > 1 processes files concurrently; 0 or 1 runs sequentially.
	Workers int

	// MaxFileSize skips larger inputs. Zero disables the check.
	MaxFileSize int64

	// Overwrite replaces existing outputs; otherwise they are skipped.
	Overwrite bool
}

// JobFromConfig builds a Job from a finalized configuration.
func JobFromConfig(cfg *config.Config) Job {
	return Job{
		InputFolder:  cfg.Batch.InputFolder,
		OutputFolder: cfg.Batch.OutputFolder,
		Pattern:      cfg.Batch.InputPattern,
		Spec:         cfg.Adjustment.Spec(),
		Workers:      cfg.Batch.Workers,
		MaxFileSize:  cfg.Batch.MaxFileSizeBytes(),
		Overwrite:    cfg.Batch.OverwriteEnabled(),
	}
}

// Validate checks the job without touching the filesystem.
func (j Job) Validate() error {
	if j.InputFolder == "" {
		return fmt.Errorf("%w: input folder required", ErrConfiguration)
	}
	if j.OutputFolder == "" {
		return fmt.Errorf("%w: output folder required", ErrConfiguration)
	}
	if err := storage.ValidatePattern(j.Pattern); err != nil {
		return fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	if err := j.Spec.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	if j.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative", ErrConfiguration)
	}
	if j.MaxFileSize < 0 {
		return fmt.Errorf("%w: max file size must not be negative", ErrConfiguration)
	}
	return nil
}
