package previewshot

import (
	"context"
	"fmt"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/root4loot/goutils/log"
)

// RodEngine launches a local headless Chrome through go-rod.
type RodEngine struct {
	Bin string // Browser executable, looked up when empty
}

type rodBrowser struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
}

type rodPage struct {
	page *rod.Page
}

// Launch starts the browser and connects to it.
func (e *RodEngine) Launch(ctx context.Context) (Browser, error) {
	path := e.Bin
	if path == "" {
		found, has := launcher.LookPath()
		if !has {
			return nil, fmt.Errorf("no browser executable found")
		}
		path = found
	}

	l := launcher.New().
		Context(ctx).
		Headless(true).
		Bin(path).
		NoSandbox(true)

	controlURL, err := l.Launch()
	if err != nil {
		l.Kill()
		return nil, fmt.Errorf("launch %s: %w", path, err)
	}
	log.Debugf("Browser %s listening on %s", path, controlURL)

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Kill()
		l.Cleanup()
		return nil, fmt.Errorf("connect: %w", err)
	}

	return &rodBrowser{launcher: l, browser: browser}, nil
}

func (b *rodBrowser) NewPage(ctx context.Context, viewport Viewport) (Page, error) {
	page, err := b.browser.Context(ctx).Page(proto.TargetCreateTarget{URL: ""})
	if err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}
	// Detach from ctx so per-navigation contexts apply cleanly.
	page = page.Context(context.Background())

	err = page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             viewport.Width,
		Height:            viewport.Height,
		DeviceScaleFactor: 1,
		Mobile:            false,
	})
	if err != nil {
		return nil, fmt.Errorf("set viewport: %w", err)
	}
	return &rodPage{page: page}, nil
}

func (b *rodBrowser) Close() error {
	err := b.browser.Close()
	b.launcher.Kill()
	b.launcher.Cleanup()
	return err
}

func (p *rodPage) Navigate(ctx context.Context, url string) error {
	page := p.page.Context(ctx)

	if err := (proto.PageSetLifecycleEventsEnabled{Enabled: true}).Call(page); err != nil {
		return fmt.Errorf("enable lifecycle events: %w", err)
	}

	mainFrame := string(page.FrameID)
	wait := page.EachEvent(func(e *proto.PageLifecycleEvent) bool {
		return mainFrameIdle(string(e.Name), string(e.FrameID), mainFrame)
	})
	if err := page.Navigate(url); err != nil {
		return fmt.Errorf("navigate to %s: %w", url, err)
	}
	wait()

	// wait returns silently when ctx ends before the page goes idle.
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("waiting for %s to settle: %w", url, err)
	}
	return nil
}

func (p *rodPage) Screenshot(ctx context.Context) ([]byte, error) {
	return p.page.Context(ctx).Screenshot(false, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
}
