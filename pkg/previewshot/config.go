package previewshot

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/root4loot/goutils/fileutil"
	"gopkg.in/yaml.v3"
)

// FileConfig is the YAML form of Options. Zero fields keep the defaults.
type FileConfig struct {
	BaseURL   string   `yaml:"base_url"`
	OutFolder string   `yaml:"outfolder"`
	Engine    string   `yaml:"engine"`
	Browser   string   `yaml:"browser"`
	TimeoutMS int      `yaml:"timeout_ms"`
	SettleMS  *int     `yaml:"settle_ms"`
	Styles    []string `yaml:"styles"`
	Viewport  struct {
		Width  int `yaml:"width"`
		Height int `yaml:"height"`
	} `yaml:"viewport"`
	Duplicates struct {
		Warn      bool `yaml:"warn"`
		Threshold int  `yaml:"threshold"`
	} `yaml:"duplicates"`
}

// LoadConfig reads a YAML config file.
func LoadConfig(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseConfig(data)
}

// ParseConfig decodes YAML config data. Unknown keys are rejected.
func ParseConfig(data []byte) (*FileConfig, error) {
	var cfg FileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

// Apply copies the set fields of cfg onto opts.
func (cfg *FileConfig) Apply(opts *Options) {
	if cfg.BaseURL != "" {
		opts.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	}
	if cfg.OutFolder != "" {
		opts.OutputDir = cfg.OutFolder
	}
	if cfg.Engine != "" {
		opts.Engine = cfg.Engine
	}
	if cfg.Browser != "" {
		opts.BrowserBin = cfg.Browser
	}
	if cfg.TimeoutMS > 0 {
		opts.NavigationTimeout = time.Duration(cfg.TimeoutMS) * time.Millisecond
	}
	if cfg.SettleMS != nil {
		opts.SettleDelay = time.Duration(*cfg.SettleMS) * time.Millisecond
	}
	if len(cfg.Styles) > 0 {
		opts.Styles = cleanStyles(cfg.Styles)
	}
	if cfg.Viewport.Width > 0 {
		opts.CaptureWidth = cfg.Viewport.Width
	}
	if cfg.Viewport.Height > 0 {
		opts.CaptureHeight = cfg.Viewport.Height
	}
	if cfg.Duplicates.Warn {
		opts.WarnDuplicates = true
	}
	if cfg.Duplicates.Threshold > 0 {
		opts.DuplicateThreshold = cfg.Duplicates.Threshold
	}
}

// ReadStyles reads style identifiers from a file, one per line. Blank lines
// and lines starting with # are ignored.
func ReadStyles(path string) ([]string, error) {
	lines, err := fileutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return cleanStyles(lines), nil
}

// ParseStyles splits a comma separated style list.
func ParseStyles(s string) []string {
	return cleanStyles(strings.Split(s, ","))
}

func cleanStyles(in []string) []string {
	var out []string
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, s)
	}
	return out
}
