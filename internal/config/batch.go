package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/docker/go-units"

	"github.com/JaimeStill/imadjust/internal/storage"
)

const (
	// EnvInputFolder overrides the folder scanned for input images.
	EnvInputFolder = "IMADJUST_INPUT_FOLDER"

	// EnvOutputFolder overrides the folder results are written to.
	EnvOutputFolder = "IMADJUST_OUTPUT_FOLDER"

	// EnvInputPattern overrides the glob pattern selecting input files.
	EnvInputPattern = "IMADJUST_INPUT_PATTERN"

	// EnvWorkers overrides the number of files processed concurrently.
	EnvWorkers = "IMADJUST_WORKERS"

	// EnvMaxFileSize overrides the largest input file accepted (e.g. "512MB").
	EnvMaxFileSize = "IMADJUST_MAX_FILE_SIZE"

	// EnvOverwrite overrides whether existing output files are replaced.
	EnvOverwrite = "IMADJUST_OVERWRITE"

	// EnvFailOnError overrides whether per-file failures fail the run.
	EnvFailOnError = "IMADJUST_FAIL_ON_ERROR"
)

// MaxWorkers bounds the worker count.
const MaxWorkers = 64

// BatchConfig contains the folder, pattern, and execution settings of a run.
type BatchConfig struct {
	InputFolder  string `toml:"input_folder"`
	OutputFolder string `toml:"output_folder"`
	InputPattern string `toml:"input_file_pattern"`

	// Workers is the number of files processed at once. 1 keeps the run strictly sequential.
	Workers int `toml:"workers"`

	// MaxFileSize rejects larger input files before decoding them.
	// Default: "1GB"
	MaxFileSize    string `toml:"max_file_size"`
	maxFileSizeVal int64

	// Overwrite replaces existing output files. Default: true
	Overwrite *bool `toml:"overwrite"`

	// FailOnError turns any per-file failure into a failed run.
	FailOnError bool `toml:"fail_on_error"`
}

// MaxFileSizeBytes returns the parsed MaxFileSize. Valid after Finalize or Validate.
func (c *BatchConfig) MaxFileSizeBytes() int64 {
	return c.maxFileSizeVal
}

// OverwriteEnabled reports whether existing outputs are replaced.
func (c *BatchConfig) OverwriteEnabled() bool {
	return c.Overwrite == nil || *c.Overwrite
}

// Finalize applies defaults, loads environment overrides, and validates the batch configuration.
func (c *BatchConfig) Finalize() error {
	c.loadDefaults()
	if err := c.loadEnv(); err != nil {
		return err
	}
	return c.Validate()
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *BatchConfig) Merge(overlay *BatchConfig) {
	if overlay.InputFolder != "" {
		c.InputFolder = overlay.InputFolder
	}
	if overlay.OutputFolder != "" {
		c.OutputFolder = overlay.OutputFolder
	}
	if overlay.InputPattern != "" {
		c.InputPattern = overlay.InputPattern
	}
	if overlay.Workers != 0 {
		c.Workers = overlay.Workers
	}
	if overlay.MaxFileSize != "" {
		c.MaxFileSize = overlay.MaxFileSize
	}
	if overlay.Overwrite != nil {
		v := *overlay.Overwrite
		c.Overwrite = &v
	}
	if overlay.FailOnError {
		c.FailOnError = true
	}
}

// Validate checks folders, pattern, worker count, and the file size limit.
func (c *BatchConfig) Validate() error {
	if c.InputFolder == "" {
		return fmt.Errorf("input_folder required")
	}
	if c.OutputFolder == "" {
		return fmt.Errorf("output_folder required")
	}
	if err := storage.ValidatePattern(c.InputPattern); err != nil {
		return fmt.Errorf("input_file_pattern: %w", err)
	}
	if c.Workers < 1 || c.Workers > MaxWorkers {
		return fmt.Errorf("workers must be between 1 and %d", MaxWorkers)
	}

	size, err := units.FromHumanSize(c.MaxFileSize)
	if err != nil {
		return fmt.Errorf("invalid max_file_size: %w", err)
	}
	if size <= 0 {
		return fmt.Errorf("max_file_size must be positive")
	}
	c.maxFileSizeVal = size

	return nil
}

func (c *BatchConfig) loadDefaults() {
	if c.InputFolder == "" {
		c.InputFolder = "./data/level_a"
	}
	if c.OutputFolder == "" {
		c.OutputFolder = "./data/level_b"
	}
	if c.InputPattern == "" {
		c.InputPattern = "*.tiff"
	}
	if c.Workers == 0 {
		c.Workers = 1
	}
	if c.MaxFileSize == "" {
		c.MaxFileSize = "1GB"
	}
}

func (c *BatchConfig) loadEnv() error {
	if v := os.Getenv(EnvInputFolder); v != "" {
		c.InputFolder = v
	}
	if v := os.Getenv(EnvOutputFolder); v != "" {
		c.OutputFolder = v
	}
	if v := os.Getenv(EnvInputPattern); v != "" {
		c.InputPattern = v
	}
	if v := os.Getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvWorkers, err)
		}
		c.Workers = n
	}
	if v := os.Getenv(EnvMaxFileSize); v != "" {
		c.MaxFileSize = v
	}
	if v := os.Getenv(EnvOverwrite); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvOverwrite, err)
		}
		c.Overwrite = &b
	}
	if v := os.Getenv(EnvFailOnError); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvFailOnError, err)
		}
		c.FailOnError = b
	}
	return nil
}
