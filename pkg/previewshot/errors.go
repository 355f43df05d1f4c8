package previewshot

import "fmt"

// CaptureError is returned for a single style that could not be captured.
// The run continues after it.
type CaptureError struct {
	Style string
	URL   string
	Err   error
}

func (e *CaptureError) Error() string {
	return fmt.Sprintf("capture %s (%s): %v", e.Style, e.URL, e.Err)
}

func (e *CaptureError) Unwrap() error {
	return e.Err
}

// Stages at which a run can abort.
const (
	StageSetup    = "setup"
	StageOutput   = "output"
	StageLaunch   = "launch"
	StagePage     = "page"
	StageCanceled = "canceled"
)

// AbortError ends a run before the style list is exhausted.
type AbortError struct {
	Stage string
	Err   error
}

func (e *AbortError) Error() string {
	return fmt.Sprintf("run aborted (%s): %v", e.Stage, e.Err)
}

func (e *AbortError) Unwrap() error {
	return e.Err
}
