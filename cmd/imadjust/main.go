// Command imadjust applies a levels adjustment to every matching image in a
// folder and writes the results, under the same names, to an output folder.
package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/JaimeStill/imadjust/internal/batch"
	"github.com/JaimeStill/imadjust/internal/config"
	"github.com/JaimeStill/imadjust/pkg/logging"
)

// Exit codes.
const (
	exitOK       = 0
	exitFatal    = 1
	exitUsage    = 2
	exitFailures = 3
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

// run executes the command and returns its exit code. Startup diagnostics,
// usage text, and the run log all go to stdout.
func run(args []string, stdout io.Writer) int {
	diag := log.New(stdout, "", log.LstdFlags)

	fs := flag.NewFlagSet("imadjust", flag.ContinueOnError)
	fs.SetOutput(stdout)
	opts := registerFlags(fs)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		diag.Println("config load failed:", err)
		return exitFatal
	}

	if err := cfg.Finalize(); err != nil {
		diag.Println("config finalize failed:", err)
		return exitFatal
	}

	cfg.Merge(opts.overrides())
	if err := cfg.Validate(); err != nil {
		diag.Println("invalid options:", err)
		return exitFatal
	}

	logger, closeLog, err := logging.Open(&cfg.Logging)
	if err != nil {
		diag.Println("logging init failed:", err)
		return exitFatal
	}
	defer closeLog()

	driver, err := batch.New(batch.JobFromConfig(cfg), logger)
	if err != nil {
		logger.Error("batch init failed", "error", err)
		return exitFatal
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary, err := driver.Run(ctx)
	if err != nil {
		logger.Error("batch aborted", "error", err)
		return exitFatal
	}

	if !summary.OK() && cfg.Batch.FailOnError {
		logger.Error("batch finished with failures", "failed", summary.Failed())
		return exitFailures
	}
	return exitOK
}
