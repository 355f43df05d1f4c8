package previewshot

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"
)

// Runner captures one screenshot per style using a single browser page.
type Runner struct {
	Options Options
	engine  Engine
	log     Logger
}

// Report lists the results of a completed run in style order.
type Report struct {
	Results []Result
}

// Saved returns the number of screenshots written.
func (r *Report) Saved() int {
	n := 0
	for _, res := range r.Results {
		if res.Error == nil {
			n++
		}
	}
	return n
}

// Failed returns the results that could not be captured.
func (r *Report) Failed() []Result {
	var failed []Result
	for _, res := range r.Results {
		if res.Error != nil {
			failed = append(failed, res)
		}
	}
	return failed
}

// NewRunner returns a runner for opts. A nil logger logs through goutils/log.
func NewRunner(opts Options, engine Engine, logger Logger) *Runner {
	if logger == nil {
		logger = DefaultLogger()
	}
	return &Runner{Options: opts, engine: engine, log: logger}
}

// Run prepares the output folder, launches the browser and captures every
// style in order. Failures of individual styles are logged and recorded in
// the report; only setup failures and cancellation return an *AbortError.
func (r *Runner) Run(ctx context.Context) (report *Report, err error) {
	opts := r.Options

	if err := opts.Validate(); err != nil {
		return nil, &AbortError{Stage: StageSetup, Err: err}
	}

	if err := EnsureFolder(opts.OutputDir); err != nil {
		return nil, &AbortError{Stage: StageOutput, Err: err}
	}

	browser, err := r.engine.Launch(ctx)
	if err != nil {
		return nil, &AbortError{Stage: StageLaunch, Err: err}
	}
	defer func() {
		if cerr := browser.Close(); cerr != nil {
			r.log.Warnf("Could not close browser: %v", cerr)
		}
	}()

	page, err := browser.NewPage(ctx, opts.Viewport())
	if err != nil {
		return nil, &AbortError{Stage: StagePage, Err: err}
	}

	var dups *duplicateIndex
	if opts.WarnDuplicates {
		dups = newDuplicateIndex(opts.DuplicateThreshold)
	}

	report = &Report{Results: make([]Result, 0, len(opts.Styles))}

	for _, style := range opts.Styles {
		if err := ctx.Err(); err != nil {
			return report, &AbortError{Stage: StageCanceled, Err: err}
		}

		target := NewTarget(opts.BaseURL, opts.OutputDir, style)
		r.log.Infof("Capturing %s...", style)

		img, err := r.capture(ctx, page, target)
		if err != nil {
			r.log.Errorf("Error capturing %s: %v", style, err)
			report.Results = append(report.Results, Result{
				Target: target,
				Error:  &CaptureError{Style: style, URL: target.URL, Err: err},
			})
			continue
		}

		r.log.Infof("Saved %s", absPath(target.Path))
		report.Results = append(report.Results, Result{Target: target, Image: img})

		if dups != nil {
			r.checkDuplicate(dups, style, img)
		}
	}

	r.log.Infof("Done!")
	return report, nil
}

// capture runs the navigate, settle and screenshot sequence for one target.
func (r *Runner) capture(ctx context.Context, page Page, target Target) (Image, error) {
	navCtx, cancel := context.WithTimeout(ctx, r.Options.NavigationTimeout)
	err := page.Navigate(navCtx, target.URL)
	cancel()
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, fmt.Errorf("navigation timeout of %v exceeded: %w", r.Options.NavigationTimeout, err)
		}
		return nil, err
	}

	if err := sleep(ctx, r.Options.SettleDelay); err != nil {
		return nil, err
	}

	img, err := page.Screenshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("screenshot: %w", err)
	}

	if err := SaveImage(target.Path, img); err != nil {
		return nil, err
	}
	return img, nil
}

func (r *Runner) checkDuplicate(dups *duplicateIndex, style string, img Image) {
	similarTo, score, err := dups.Check(style, img)
	if err != nil {
		r.log.Debugf("Could not fingerprint %s: %v", style, err)
		return
	}
	if similarTo != "" {
		r.log.Warnf("%s looks like %s (score %d), the preview server may have served a fallback page", style, similarTo, score)
	}
}

// absPath resolves path against the working directory, falling back to path.
func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
