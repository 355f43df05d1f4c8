package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/root4loot/goutils/log"
	"github.com/root4loot/previewshot/pkg/previewshot"
)

const (
	author  = "@danielantonsen"
	version = "0.1.0"
	usage   = `USAGE:
  previewshot [options]

INPUT:
  -t,   --styles                 comma separated style identifiers             (Default: built-in list)
  -l,   --list                   input file with style identifiers (one per line)
  -c,   --config                 YAML config file

CONFIGURATIONS:
  -u,   --base-url               preview server origin                         (Default: http://localhost:5173)
  -e,   --engine                 browser engine: rod, chromedp                 (Default: rod)
  -b,   --browser                browser executable                            (Default: auto-detect)
  -to,  --timeout                navigation timeout                            (Default: 30s)
  -sd,  --settle-delay           delay after navigation before capture         (Default: 500ms)
  -cw,  --capture-width          viewport width                                (Default: 1280)
  -ch,  --capture-height         viewport height                               (Default: 800)
  -wd,  --warn-duplicates        warn when two previews look the same          (Default: false)
  -dt,  --duplicate-threshold    similarity percentage considered a duplicate  (Default: 96)

OUTPUT:
  -o,   --outfolder              save screenshots to specified folder          (Default: public/previews)
        --debug                  enable debug mode
        --version                display version
`
)

type cli struct {
	Options    previewshot.Options
	ConfigFile string
	ListFile   string
	Styles     string
	Debug      bool
	Help       bool
	Version    bool
}

func init() {
	log.Init("previewshot")
}

func main() {
	cli, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		log.Errorf("%v", err)
		fmt.Print(usage)
		os.Exit(1)
	}

	if cli.Help {
		fmt.Print(usage)
		os.Exit(0)
	}

	if cli.Version {
		fmt.Println("previewshot", version, "by", author)
		os.Exit(0)
	}

	previewshot.SetDebug(cli.Debug)
	warnDuplicateStyles(cli.Options.Styles)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cli.Options, previewshot.DefaultLogger()); err != nil {
		stop()
		log.Errorf("%v", err)
		os.Exit(1)
	}
}

// run performs a full capture. Only errors that abort the run are returned.
func run(ctx context.Context, opts previewshot.Options, logger previewshot.Logger) error {
	engine, err := previewshot.NewEngine(opts)
	if err != nil {
		return &previewshot.AbortError{Stage: previewshot.StageSetup, Err: err}
	}

	report, err := previewshot.NewRunner(opts, engine, logger).Run(ctx)
	if err != nil {
		return err
	}

	if failed := report.Failed(); len(failed) > 0 {
		logger.Debugf("%d of %d styles failed", len(failed), len(report.Results))
	}
	return nil
}

// parseFlags builds the options from defaults, the config file, the style
// list and explicitly set flags, in that order.
func parseFlags(args []string, output io.Writer) (*cli, error) {
	c := &cli{}
	defaults := previewshot.NewOptions()

	var (
		baseURL, outFolder, engine, browser string
		timeout, settle                     time.Duration
		width, height, threshold            int
		warnDuplicates                      bool
	)

	fs := flag.NewFlagSet("previewshot", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.Usage = func() { fmt.Fprint(output, usage) }

	// INPUT
	fs.StringVar(&c.Styles, "styles", "", "")
	fs.StringVar(&c.Styles, "t", "", "")
	fs.StringVar(&c.ListFile, "list", "", "")
	fs.StringVar(&c.ListFile, "l", "", "")
	fs.StringVar(&c.ConfigFile, "config", "", "")
	fs.StringVar(&c.ConfigFile, "c", "", "")

	// CONFIGURATIONS
	fs.StringVar(&baseURL, "base-url", defaults.BaseURL, "")
	fs.StringVar(&baseURL, "u", defaults.BaseURL, "")
	fs.StringVar(&engine, "engine", defaults.Engine, "")
	fs.StringVar(&engine, "e", defaults.Engine, "")
	fs.StringVar(&browser, "browser", defaults.BrowserBin, "")
	fs.StringVar(&browser, "b", defaults.BrowserBin, "")
	fs.DurationVar(&timeout, "timeout", defaults.NavigationTimeout, "")
	fs.DurationVar(&timeout, "to", defaults.NavigationTimeout, "")
	fs.DurationVar(&settle, "settle-delay", defaults.SettleDelay, "")
	fs.DurationVar(&settle, "sd", defaults.SettleDelay, "")
	fs.IntVar(&width, "capture-width", defaults.CaptureWidth, "")
	fs.IntVar(&width, "cw", defaults.CaptureWidth, "")
	fs.IntVar(&height, "capture-height", defaults.CaptureHeight, "")
	fs.IntVar(&height, "ch", defaults.CaptureHeight, "")
	fs.BoolVar(&warnDuplicates, "warn-duplicates", defaults.WarnDuplicates, "")
	fs.BoolVar(&warnDuplicates, "wd", defaults.WarnDuplicates, "")
	fs.IntVar(&threshold, "duplicate-threshold", defaults.DuplicateThreshold, "")
	fs.IntVar(&threshold, "dt", defaults.DuplicateThreshold, "")

	// OUTPUT
	fs.StringVar(&outFolder, "outfolder", defaults.OutputDir, "")
	fs.StringVar(&outFolder, "o", defaults.OutputDir, "")
	fs.BoolVar(&c.Debug, "debug", false, "")
	fs.BoolVar(&c.Help, "help", false, "")
	fs.BoolVar(&c.Help, "h", false, "")
	fs.BoolVar(&c.Version, "version", false, "")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	opts := defaults
	if c.ConfigFile != "" {
		cfg, err := previewshot.LoadConfig(c.ConfigFile)
		if err != nil {
			return nil, fmt.Errorf("config %s: %w", c.ConfigFile, err)
		}
		cfg.Apply(&opts)
	}

	if c.ListFile != "" {
		styles, err := previewshot.ReadStyles(c.ListFile)
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", c.ListFile, err)
		}
		opts.Styles = styles
	}
	if c.Styles != "" {
		opts.Styles = previewshot.ParseStyles(c.Styles)
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "base-url", "u":
			opts.BaseURL = strings.TrimSuffix(baseURL, "/")
		case "outfolder", "o":
			opts.OutputDir = outFolder
		case "engine", "e":
			opts.Engine = engine
		case "browser", "b":
			opts.BrowserBin = browser
		case "timeout", "to":
			opts.NavigationTimeout = timeout
		case "settle-delay", "sd":
			opts.SettleDelay = settle
		case "capture-width", "cw":
			opts.CaptureWidth = width
		case "capture-height", "ch":
			opts.CaptureHeight = height
		case "warn-duplicates", "wd":
			opts.WarnDuplicates = warnDuplicates
		case "duplicate-threshold", "dt":
			opts.DuplicateThreshold = threshold
		}
	})

	if c.Help || c.Version {
		c.Options = opts
		return c, nil
	}

	if err := opts.Validate(); err != nil {
		return nil, err
	}
	c.Options = opts
	return c, nil
}

// warnDuplicateStyles notes repeated identifiers. They are still captured.
func warnDuplicateStyles(styles []string) {
	seen := make(map[string]bool, len(styles))
	for _, s := range styles {
		if seen[s] {
			log.Debugf("Style %s is listed more than once", s)
		}
		seen[s] = true
	}
}
