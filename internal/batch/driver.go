package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/docker/go-units"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/imadjust/internal/storage"
	"github.com/JaimeStill/imadjust/pkg/codec"
	"github.com/JaimeStill/imadjust/pkg/levels"
)

// Driver runs a Job against the local filesystem.
type Driver struct {
	job    Job
	input  storage.System
	output storage.System
	logger *slog.Logger
}

// New validates job and prepares the input and output storage systems.
// Nothing on disk is read or created until Run.
func New(job Job, logger *slog.Logger) (*Driver, error) {
	if err := job.Validate(); err != nil {
		return nil, err
	}

	input, err := storage.New(job.InputFolder, logger)
	if err != nil {
		return nil, fmt.Errorf("%w: input folder: %w", ErrConfiguration, err)
	}

	output, err := storage.New(job.OutputFolder, logger)
	if err != nil {
		return nil, fmt.Errorf("%w: output folder: %w", ErrConfiguration, err)
	}

	return &Driver{
		job:    job,
		input:  input,
		output: output,
		logger: logger.With("system", "batch"),
	}, nil
}

// Run processes every matching file. It returns an error only for fatal
// conditions: enumeration or output folder failures, or ctx cancellation.
// Per-file failures are reported through the Summary.
func (d *Driver) Run(ctx context.Context) (*Summary, error) {
	start := time.Now()
	runID := uuid.New()
	logger := d.logger.With("run_id", runID.String())
	sum := &Summary{RunID: runID}

	names, err := d.input.Glob(d.job.Pattern)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		logger.Warn("input folder not found", "input", d.input.Root())
	case err != nil:
		return nil, fmt.Errorf("enumerate input: %w", err)
	}
	sum.Matched = len(names)

	if len(names) == 0 {
		logger.Info("no matching files", "input", d.input.Root(), "pattern", d.job.Pattern)
		sum.Elapsed = time.Since(start)
		return sum, nil
	}

	created, err := d.output.EnsureRoot()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrOutputFolder, d.output.Root(), err)
	}
	if created {
		logger.Info("output folder created", "output", d.output.Root())
	}
	if d.input.Root() == d.output.Root() && d.job.Overwrite {
		logger.Warn("output folder is the input folder, originals will be replaced", "folder", d.output.Root())
	}

	logger.Info("batch started", "matched", len(names), "pattern", d.job.Pattern, "workers", d.workers())

	var mu sync.Mutex
	record := func(name string, skipped bool, err error) {
		mu.Lock()
		defer mu.Unlock()

		switch {
		case err == nil && skipped:
			sum.Skipped++
		case err == nil:
			sum.Written++
		case ctx.Err() != nil && errors.Is(err, ctx.Err()):
			logger.Warn("interrupted", "file", name)
		default:
			kind := Kind(err)
			logger.Error("file failed", "file", name, "kind", kind, "error", err)
			sum.Failures = append(sum.Failures, Failure{File: name, Kind: kind, Err: err})
		}
	}

	if d.workers() == 1 {
		for _, name := range names {
			if ctx.Err() != nil {
				break
			}
			skipped, err := d.process(ctx, logger, name)
			record(name, skipped, err)
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(d.workers())
		for _, name := range names {
			if gctx.Err() != nil {
				break
			}
			g.Go(func() error {
				if gctx.Err() != nil {
					return nil
				}
				skipped, err := d.process(gctx, logger, name)
				record(name, skipped, err)
				return nil
			})
		}
		g.Wait()
	}

	slices.SortFunc(sum.Failures, func(a, b Failure) int {
		return strings.Compare(a.File, b.File)
	})
	sum.Elapsed = time.Since(start)

	logger.Info("batch complete",
		"matched", sum.Matched,
		"written", sum.Written,
		"skipped", sum.Skipped,
		"failed", sum.Failed(),
		"elapsed", sum.Elapsed.Round(time.Millisecond),
	)

	if err := ctx.Err(); err != nil {
		return sum, err
	}
	return sum, nil
}

// process converts one file. It reports skipped=true when the output
// already exists and overwriting is disabled.
func (d *Driver) process(ctx context.Context, logger *slog.Logger, name string) (bool, error) {
	if !d.job.Overwrite {
		exists, err := d.output.Validate(ctx, name)
		if err != nil {
			return false, fmt.Errorf("%w: check existing output: %w", ErrEncode, err)
		}
		if exists {
			logger.Info("output exists, skipped", "file", name)
			return true, nil
		}
	}

	if d.job.MaxFileSize > 0 {
		size, err := d.input.Size(ctx, name)
		if err != nil {
			return false, fmt.Errorf("%w: %w", ErrDecode, err)
		}
		if size > d.job.MaxFileSize {
			return false, fmt.Errorf("%w: %s exceeds %s",
				ErrFileTooLarge, units.HumanSize(float64(size)), units.HumanSize(float64(d.job.MaxFileSize)))
		}
	}

	format, err := codec.FormatFromPath(name)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	path, err := d.input.Path(name)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	src, err := codec.Decode(path)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	dst, err := levels.Remap(src, d.job.Spec)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrRemap, err)
	}

	n, err := d.output.Store(ctx, name, func(w io.Writer) error {
		return codec.EncodeWriter(w, dst, format)
	})
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrEncode, err)
	}

	logger.Info("wrote image",
		"file", name,
		"size", units.HumanSize(float64(n)),
		"width", dst.Width,
		"height", dst.Height,
		"channels", dst.Channels,
		"depth", dst.Depth.String(),
	)
	return false, nil
}

func (d *Driver) workers() int {
	if d.job.Workers <= 1 {
		return 1
	}
	return d.job.Workers
}
