package previewshot

import (
	"context"
	"fmt"
)

// Viewport is the logical page size used for every capture.
type Viewport struct {
	Width  int
	Height int
}

// Engine launches headless browser sessions.
type Engine interface {
	Launch(ctx context.Context) (Browser, error)
}

// Browser is one running headless browser session.
type Browser interface {
	NewPage(ctx context.Context, viewport Viewport) (Page, error)
	Close() error
}

// Page is a single tab that is navigated and captured serially.
type Page interface {
	// Navigate loads url and returns once the network is idle or ctx is done.
	Navigate(ctx context.Context, url string) error
	// Screenshot returns the current viewport as PNG bytes.
	Screenshot(ctx context.Context) ([]byte, error)
}

// lifecycleNetworkIdle is the CDP lifecycle event fired once a frame has had
// no network connections for 500ms.
const lifecycleNetworkIdle = "networkIdle"

// mainFrameIdle reports whether a lifecycle event marks the top-level
// document as idle. Events of child frames are ignored. An empty mainFrameID
// accepts any frame.
func mainFrameIdle(name, frameID, mainFrameID string) bool {
	if name != lifecycleNetworkIdle {
		return false
	}
	return mainFrameID == "" || frameID == mainFrameID
}

// NewEngine returns the engine named by opts.Engine.
func NewEngine(opts Options) (Engine, error) {
	switch opts.Engine {
	case "", EngineRod:
		return &RodEngine{Bin: opts.BrowserBin}, nil
	case EngineChromedp:
		return &ChromedpEngine{Bin: opts.BrowserBin}, nil
	default:
		return nil, fmt.Errorf("unknown engine %q", opts.Engine)
	}
}
