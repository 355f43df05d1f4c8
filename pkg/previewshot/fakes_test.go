package previewshot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

type logLine struct {
	level string
	text  string
	at    time.Time
}

type recordLogger struct {
	mu    sync.Mutex
	lines []logLine
}

func (l *recordLogger) add(level, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, logLine{level: level, text: fmt.Sprintf(format, args...), at: time.Now()})
}

func (l *recordLogger) Debugf(format string, args ...interface{}) { l.add("debug", format, args...) }
func (l *recordLogger) Infof(format string, args ...interface{})  { l.add("info", format, args...) }
func (l *recordLogger) Warnf(format string, args ...interface{})  { l.add("warn", format, args...) }
func (l *recordLogger) Errorf(format string, args ...interface{}) { l.add("error", format, args...) }

// progress returns info and error lines, the ones a user sees by default.
func (l *recordLogger) progress() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []string
	for _, line := range l.lines {
		if line.level == "info" || line.level == "error" {
			out = append(out, line.text)
		}
	}
	return out
}

func (l *recordLogger) contains(level, substr string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, line := range l.lines {
		if line.level == level && strings.Contains(line.text, substr) {
			return true
		}
	}
	return false
}

// timeOf returns when the first matching line was logged.
func (l *recordLogger) timeOf(level, substr string) (time.Time, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, line := range l.lines {
		if line.level == level && strings.Contains(line.text, substr) {
			return line.at, true
		}
	}
	return time.Time{}, false
}

// fakeEngine hands out fakeBrowsers and counts what the runner does with them.
type fakeEngine struct {
	launchErr  error
	pageErr    error
	navErrs    map[string]error
	shotErr    error
	image      []byte
	launches   int
	browsers   []*fakeBrowser
	navigated  []string
	inFlight   int
	overlapped bool
}

func (e *fakeEngine) Launch(ctx context.Context) (Browser, error) {
	e.launches++
	if e.launchErr != nil {
		return nil, e.launchErr
	}
	b := &fakeBrowser{engine: e}
	e.browsers = append(e.browsers, b)
	return b, nil
}

type fakeBrowser struct {
	engine *fakeEngine
	pages  int
	closed int
}

func (b *fakeBrowser) NewPage(ctx context.Context, viewport Viewport) (Page, error) {
	b.pages++
	if b.engine.pageErr != nil {
		return nil, b.engine.pageErr
	}
	return &fakePage{engine: b.engine, viewport: viewport}, nil
}

func (b *fakeBrowser) Close() error {
	b.closed++
	return nil
}

type fakePage struct {
	engine   *fakeEngine
	viewport Viewport
}

func (p *fakePage) Navigate(ctx context.Context, url string) error {
	e := p.engine
	e.inFlight++
	defer func() { e.inFlight-- }()
	if e.inFlight > 1 {
		e.overlapped = true
	}

	e.navigated = append(e.navigated, url)
	for suffix, err := range e.navErrs {
		if strings.HasSuffix(url, "/"+suffix) {
			return err
		}
	}
	return nil
}

func (p *fakePage) Screenshot(ctx context.Context) ([]byte, error) {
	if p.engine.shotErr != nil {
		return nil, p.engine.shotErr
	}
	if p.engine.image != nil {
		return p.engine.image, nil
	}
	return testPNG(p.viewport.Width, p.viewport.Height, color.White), nil
}

func testPNG(w, h int, c color.Color) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// httpEngine fetches pages over HTTP instead of rendering them, so the
// runner can be driven against an httptest preview server.
type httpEngine struct {
	launches int
	pages    int
	closed   int
}

func (e *httpEngine) Launch(ctx context.Context) (Browser, error) {
	e.launches++
	return &httpBrowser{engine: e}, nil
}

type httpBrowser struct {
	engine *httpEngine
}

func (b *httpBrowser) NewPage(ctx context.Context, viewport Viewport) (Page, error) {
	b.engine.pages++
	return &httpPage{viewport: viewport}, nil
}

func (b *httpBrowser) Close() error {
	b.engine.closed++
	return nil
}

type httpPage struct {
	viewport Viewport
	body     []byte
}

func (p *httpPage) Navigate(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return errors.New(resp.Status)
	}
	p.body = body
	return nil
}

func (p *httpPage) Screenshot(ctx context.Context) ([]byte, error) {
	return testPNG(p.viewport.Width/16, p.viewport.Height/16, color.Gray{Y: uint8(len(p.body))}), nil
}
