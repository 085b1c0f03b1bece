// Package batch drives bounded-concurrency translation of many files.
//
// The coordinator discovers input files, skips unsupported ones immediately,
// and runs at most N translations in flight, recording a terminal outcome
// per file; one file's failure never aborts the batch. Concurrent workers
// that race on an identical request fingerprint may each miss the cache and
// issue duplicate service calls; the coordinator makes no at-most-once
// guarantee.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/ZaguanLabs/polyglot"
	"github.com/ZaguanLabs/polyglot/format"
)

// Concurrency limits accepted by NewCoordinator.
const (
	MinConcurrency     = 1
	MaxConcurrency     = 100
	DefaultConcurrency = 5
)

// SkipReasonUnsupported marks files whose extension has no format handler.
const SkipReasonUnsupported = "Unsupported file type"

// Status is the terminal state of one batch unit.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// Unit is one file-to-target-language translation task. A unit reaches
// exactly one terminal status and is never revisited.
type Unit struct {
	SourcePath string `json:"source_path"`
	TargetLang string `json:"target_lang"`
	OutputPath string `json:"output_path,omitempty"`
	Status     Status `json:"status"`
	Error      string `json:"error,omitempty"`  // Set when failed
	Reason     string `json:"reason,omitempty"` // Set when skipped
}

// Result aggregates the terminal units of a batch run.
type Result struct {
	Successful []Unit `json:"successful"`
	Failed     []Unit `json:"failed"`
	Skipped    []Unit `json:"skipped"`
}

// Progress is reported after each unit reaches success or failure. Skipped
// units consume no slot and fire no progress.
type Progress struct {
	Completed int    // Units finished so far, monotonically increasing
	Total     int    // Supported units in the batch
	Current   string // Source path of the unit that just finished
}

// Stats is a pure count view over a Result.
type Stats struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
	Skipped    int `json:"skipped"`
}

// Statistics derives counts from a batch result.
func Statistics(r *Result) Stats {
	return Stats{
		Total:      len(r.Successful) + len(r.Failed) + len(r.Skipped),
		Successful: len(r.Successful),
		Failed:     len(r.Failed),
		Skipped:    len(r.Skipped),
	}
}

// Options controls discovery, output placement and progress reporting.
type Options struct {
	Recursive      bool           // Descend into subdirectories (directory mode)
	Pattern        string         // Glob matched against file base names (directory mode)
	OutputDir      string         // Base directory for outputs ("" = next to the source)
	OutputTemplate string         // Output name template, default "{name}.{lang}.{ext}"
	OnProgress     func(Progress) // Invoked after each success or failure
}

// Translator is the subset of the orchestrator the coordinator needs.
type Translator interface {
	Translate(ctx context.Context, text string, params polyglot.TranslateParams) (*polyglot.Translation, error)
	TranslateBatch(ctx context.Context, texts []string, params polyglot.TranslateParams) ([]polyglot.Translation, error)
}

// Coordinator translates sets of files with a bounded number in flight.
type Coordinator struct {
	translator  Translator
	concurrency int
	logger      *slog.Logger
}

// CoordinatorOption is a functional option for configuring the Coordinator.
type CoordinatorOption func(*Coordinator)

// WithLogger sets the logger for batch diagnostics.
func WithLogger(logger *slog.Logger) CoordinatorOption {
	return func(c *Coordinator) {
		c.logger = logger
	}
}

// NewCoordinator creates a coordinator running at most concurrency
// translations in flight. Concurrency outside [1, 100] is rejected.
func NewCoordinator(translator Translator, concurrency int, opts ...CoordinatorOption) (*Coordinator, error) {
	if concurrency < MinConcurrency || concurrency > MaxConcurrency {
		return nil, fmt.Errorf("batch: concurrency must be between %d and %d, got %d",
			MinConcurrency, MaxConcurrency, concurrency)
	}

	c := &Coordinator{
		translator:  translator,
		concurrency: concurrency,
		logger:      slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// TranslateFiles translates the given files to params.TargetLang. Files with
// unsupported extensions are skipped; the rest are processed with at most
// the configured concurrency in flight. The call returns once every unit has
// reached a terminal status.
func (c *Coordinator) TranslateFiles(ctx context.Context, paths []string, params polyglot.TranslateParams, opts Options) (*Result, error) {
	return c.run(ctx, paths, "", params, opts)
}

// TranslateDirectory translates every matching supported file under dir.
func (c *Coordinator) TranslateDirectory(ctx context.Context, dir string, params polyglot.TranslateParams, opts Options) (*Result, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("batch: directory not found: %s", dir)
		}
		return nil, fmt.Errorf("batch: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("batch: not a directory: %s", dir)
	}

	paths, err := discover(dir, opts)
	if err != nil {
		return nil, err
	}

	return c.run(ctx, paths, dir, params, opts)
}

func (c *Coordinator) run(ctx context.Context, paths []string, baseDir string, params polyglot.TranslateParams, opts Options) (*Result, error) {
	result := &Result{
		Successful: []Unit{},
		Failed:     []Unit{},
		Skipped:    []Unit{},
	}
	if len(paths) == 0 {
		return result, nil
	}

	// Partition before any I/O: unsupported files are terminal immediately
	// and consume no concurrency slot.
	var supported []Unit
	for _, path := range paths {
		if !format.Supported(path) {
			result.Skipped = append(result.Skipped, Unit{
				SourcePath: path,
				TargetLang: params.TargetLang,
				Status:     StatusSkipped,
				Reason:     SkipReasonUnsupported,
			})
			continue
		}
		supported = append(supported, Unit{
			SourcePath: path,
			TargetLang: params.TargetLang,
			OutputPath: outputPath(path, baseDir, params.TargetLang, opts),
			Status:     StatusSuccess, // Provisional, settled by the worker
		})
	}

	runID := uuid.NewString()[:8]
	total := len(supported)
	c.logger.Debug("starting batch run",
		"run", runID, "files", total, "skipped", len(result.Skipped),
		"target", params.TargetLang, "concurrency", c.concurrency)

	sem := make(chan struct{}, c.concurrency)
	var wg sync.WaitGroup
	var mu sync.Mutex
	completed := 0

	// settle records a terminal outcome and fires the progress callback.
	// Calling back under the lock keeps observed Completed values monotonic.
	settle := func(u Unit, err error) {
		mu.Lock()
		defer mu.Unlock()

		if err != nil {
			u.Status = StatusFailed
			u.Error = err.Error()
			result.Failed = append(result.Failed, u)
		} else {
			result.Successful = append(result.Successful, u)
		}

		completed++
		if opts.OnProgress != nil {
			opts.OnProgress(Progress{
				Completed: completed,
				Total:     total,
				Current:   u.SourcePath,
			})
		}
	}

	for _, unit := range supported {
		// Once the caller cancels, queued units are not dispatched; units
		// already in flight finish and are recorded normally.
		if ctx.Err() != nil {
			settle(unit, ctx.Err())
			continue
		}

		sem <- struct{}{}
		wg.Add(1)
		go func(u Unit) {
			defer wg.Done()
			defer func() { <-sem }()

			settle(u, c.processUnit(ctx, u, params))
		}(unit)
	}

	wg.Wait()

	c.logger.Debug("batch run finished",
		"run", runID,
		"successful", len(result.Successful),
		"failed", len(result.Failed),
		"skipped", len(result.Skipped))

	return result, nil
}

// processUnit runs one file's read-translate-write sequence.
func (c *Coordinator) processUnit(ctx context.Context, u Unit, params polyglot.TranslateParams) error {
	data, err := os.ReadFile(u.SourcePath)
	if err != nil {
		return err
	}

	handler, _ := format.ForPath(u.SourcePath)
	doc, segments, err := handler.Extract(string(data))
	if err != nil {
		return err
	}

	var output string
	switch len(segments) {
	case 0:
		// Nothing translatable, copy through.
		output = string(data)
	case 1:
		tr, err := c.translator.Translate(ctx, segments[0], params)
		if err != nil {
			return err
		}
		output, err = handler.Apply(doc, []string{tr.Text})
		if err != nil {
			return err
		}
	default:
		results, err := c.translator.TranslateBatch(ctx, segments, params)
		if err != nil {
			return err
		}
		translated := make([]string, len(results))
		for i, tr := range results {
			translated[i] = tr.Text
		}
		output, err = handler.Apply(doc, translated)
		if err != nil {
			return err
		}
	}

	if _, ok := handler.(*format.HTMLHandler); ok {
		output = format.SetLangAttribute(output, params.TargetLang)
	}

	if dir := filepath.Dir(u.OutputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(u.OutputPath, []byte(output), 0o644)
}

// discover resolves the input set for a directory scan.
func discover(dir string, opts Options) ([]string, error) {
	var paths []string

	if !opts.Recursive {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			ok, err := matchPattern(opts.Pattern, entry.Name())
			if err != nil {
				return nil, err
			}
			if ok {
				paths = append(paths, filepath.Join(dir, entry.Name()))
			}
		}
		return paths, nil
	}

	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ok, err := matchPattern(opts.Pattern, d.Name())
		if err != nil {
			return err
		}
		if ok {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return paths, nil
}

func matchPattern(pattern, name string) (bool, error) {
	if pattern == "" {
		return true, nil
	}
	ok, err := filepath.Match(pattern, name)
	if err != nil {
		return false, fmt.Errorf("batch: bad pattern %q: %w", pattern, err)
	}
	return ok, nil
}
