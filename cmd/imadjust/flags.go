package main

import (
	"flag"
	"strconv"
	"strings"

	"github.com/JaimeStill/imadjust/internal/config"
	"github.com/JaimeStill/imadjust/pkg/logging"
)

// floatList is a comma-separated list of numbers given on the command line.
type floatList []float64

func (l *floatList) String() string {
	parts := make([]string, len(*l))
	for i, v := range *l {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(parts, ",")
}

func (l *floatList) Set(s string) error {
	values, err := config.ParseFloats(s)
	if err != nil {
		return err
	}
	*l = values
	return nil
}

// options holds command-line values. Unset flags leave the file and
// environment configuration in place.
type options struct {
	configPath  string
	input       string
	output      string
	pattern     string
	workers     int
	maxFileSize string
	strict      bool
	noOverwrite bool
	logLevel    string
	logFormat   string
	logFile     string

	lowIn, highIn, lowOut, highOut, gamma floatList
}

func registerFlags(fs *flag.FlagSet) *options {
	o := &options{}

	fs.StringVar(&o.configPath, "config", "", "Configuration file (default: ./"+config.BaseConfigFile+" if present)")
	fs.StringVar(&o.input, "input", "", "Folder scanned for input images (default ./data/level_a)")
	fs.StringVar(&o.output, "output", "", "Folder results are written to (default ./data/level_b)")
	fs.StringVar(&o.pattern, "pattern", "", "Glob selecting input files (default *.tiff)")
	fs.IntVar(&o.workers, "workers", 0, "Files processed concurrently (default 1)")
	fs.StringVar(&o.maxFileSize, "max-file-size", "", "Skip inputs larger than this size, e.g. 512MB (default 1GB)")
	fs.BoolVar(&o.strict, "strict", false, "Exit non-zero when any file fails")
	fs.BoolVar(&o.noOverwrite, "no-overwrite", false, "Skip files whose output already exists")
	fs.StringVar(&o.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	fs.StringVar(&o.logFormat, "log-format", "", "Log format: text or json")
	fs.StringVar(&o.logFile, "log-file", "", "Also append log lines to this file")
	fs.Var(&o.lowIn, "low-in", "Lower input bounds, one value or one per channel (e.g. 0.2,0.3,0)")
	fs.Var(&o.highIn, "high-in", "Upper input bounds, one value or one per channel")
	fs.Var(&o.lowOut, "low-out", "Lower output bounds, one value or one per channel")
	fs.Var(&o.highOut, "high-out", "Upper output bounds, one value or one per channel")
	fs.Var(&o.gamma, "gamma", "Gamma exponents, one value or one per channel")

	return o
}

// overrides converts the flags that were set into a configuration overlay.
func (o *options) overrides() *config.Config {
	cfg := &config.Config{
		Batch: config.BatchConfig{
			InputFolder:  o.input,
			OutputFolder: o.output,
			InputPattern: o.pattern,
			Workers:      o.workers,
			MaxFileSize:  o.maxFileSize,
			FailOnError:  o.strict,
		},
		Adjustment: config.AdjustmentConfig{
			LowIn:   o.lowIn,
			HighIn:  o.highIn,
			LowOut:  o.lowOut,
			HighOut: o.highOut,
			Gamma:   o.gamma,
		},
		Logging: logging.Config{
			Level:  logging.Level(o.logLevel),
			Format: logging.Format(o.logFormat),
			File:   o.logFile,
		},
	}

	if o.noOverwrite {
		off := false
		cfg.Batch.Overwrite = &off
	}

	return cfg
}
