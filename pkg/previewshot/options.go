package previewshot

import (
	"fmt"
	"net/url"
	"time"

	"github.com/root4loot/goutils/urlutil"
)

// Engine names accepted by Options.Engine.
const (
	EngineRod      = "rod"
	EngineChromedp = "chromedp"
)

// LandingStyles are the landing page previews captured by default.
var LandingStyles = []string{
	"hero-centric-design",
	"conversion-optimized",
	"feature-rich-showcase",
	"minimal-direct",
	"social-proof-focused",
	"interactive-product-demo",
	"trust-authority",
	"storytelling-driven",
}

// AnalyticsStyles are the BI and analytics dashboard previews captured by default.
var AnalyticsStyles = []string{
	"data-dense-dashboard",
	"heat-map-style",
	"executive-dashboard",
	"real-time-monitoring",
	"drill-down-analytics",
	"comparative-analysis-dashboard",
	"predictive-analytics",
	"user-behavior-analytics",
	"financial-dashboard",
	"sales-intelligence-dashboard",
}

// DefaultStyles returns a fresh copy of the default style list, landing styles first.
func DefaultStyles() []string {
	styles := make([]string, 0, len(LandingStyles)+len(AnalyticsStyles))
	styles = append(styles, LandingStyles...)
	return append(styles, AnalyticsStyles...)
}

// Options contains the options for a capture run.
type Options struct {
	BaseURL            string        // Preview server origin, without trailing slash
	OutputDir          string        // Folder the PNG files are written to
	Styles             []string      // Style identifiers, captured in order
	CaptureWidth       int           // Viewport width
	CaptureHeight      int           // Viewport height
	NavigationTimeout  time.Duration // Timeout for each navigation
	SettleDelay        time.Duration // Pause after navigation before capture
	Engine             string        // Browser engine (rod or chromedp)
	BrowserBin         string        // Browser executable, looked up when empty
	WarnDuplicates     bool          // Warn when two previews look the same
	DuplicateThreshold int           // Similarity score (1-100) considered a duplicate
}

// NewOptions returns an Options struct initialized with default values.
func NewOptions() Options {
	return Options{
		BaseURL:            "http://localhost:5173",
		OutputDir:          "public/previews",
		Styles:             DefaultStyles(),
		CaptureWidth:       1280,
		CaptureHeight:      800,
		NavigationTimeout:  30 * time.Second,
		SettleDelay:        500 * time.Millisecond,
		Engine:             EngineRod,
		DuplicateThreshold: 96,
	}
}

// Viewport returns the page size configured by the options.
func (o Options) Viewport() Viewport {
	return Viewport{Width: o.CaptureWidth, Height: o.CaptureHeight}
}

// Validate reports the first invalid option.
func (o Options) Validate() error {
	if !urlutil.HasScheme(o.BaseURL) {
		return fmt.Errorf("base URL %q has no scheme", o.BaseURL)
	}
	if u, err := url.Parse(o.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("base URL %q must be an absolute http(s) URL", o.BaseURL)
	}
	if o.OutputDir == "" {
		return fmt.Errorf("output folder is empty")
	}
	if o.CaptureWidth <= 0 || o.CaptureHeight <= 0 {
		return fmt.Errorf("invalid viewport %dx%d", o.CaptureWidth, o.CaptureHeight)
	}
	if o.NavigationTimeout <= 0 {
		return fmt.Errorf("navigation timeout must be positive, got %v", o.NavigationTimeout)
	}
	if o.SettleDelay < 0 {
		return fmt.Errorf("settle delay must not be negative, got %v", o.SettleDelay)
	}
	if o.WarnDuplicates && (o.DuplicateThreshold < 1 || o.DuplicateThreshold > 100) {
		return fmt.Errorf("invalid duplicate threshold %d: must be between 1 and 100", o.DuplicateThreshold)
	}
	return nil
}
