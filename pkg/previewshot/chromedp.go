package previewshot

import (
	"context"
	"fmt"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// ChromedpEngine launches a local headless Chrome through chromedp.
type ChromedpEngine struct {
	Bin string // Browser executable, looked up when empty
}

type chromedpBrowser struct {
	ctx         context.Context
	cancelAlloc context.CancelFunc
	cancelCtx   context.CancelFunc
}

type chromedpPage struct {
	ctx  context.Context
	idle chan struct{}
}

// Launch starts the browser. chromedp starts the process on the first Run.
func (e *ChromedpEngine) Launch(ctx context.Context) (Browser, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.NoSandbox,
	)
	if e.Bin != "" {
		opts = append(opts, chromedp.ExecPath(e.Bin))
	}

	allocator, cancelAlloc := chromedp.NewExecAllocator(context.WithoutCancel(ctx), opts...)
	cctx, cancelCtx := chromedp.NewContext(allocator)

	stop := context.AfterFunc(ctx, cancelCtx)
	err := chromedp.Run(cctx)
	stop()
	if err != nil {
		cancelCtx()
		cancelAlloc()
		return nil, fmt.Errorf("launch: %w", err)
	}

	return &chromedpBrowser{ctx: cctx, cancelAlloc: cancelAlloc, cancelCtx: cancelCtx}, nil
}

// NewPage returns the tab opened by Launch. There is only ever one.
func (b *chromedpBrowser) NewPage(ctx context.Context, viewport Viewport) (Page, error) {
	p := &chromedpPage{ctx: b.ctx, idle: make(chan struct{}, 1)}

	// The main frame of a tab shares the target's ID.
	var mainFrame string
	if c := chromedp.FromContext(b.ctx); c != nil && c.Target != nil {
		mainFrame = string(c.Target.TargetID)
	}

	chromedp.ListenTarget(b.ctx, func(ev interface{}) {
		if e, ok := ev.(*page.EventLifecycleEvent); ok && mainFrameIdle(e.Name, string(e.FrameID), mainFrame) {
			select {
			case p.idle <- struct{}{}:
			default:
			}
		}
	})

	err := p.run(ctx,
		page.SetLifecycleEventsEnabled(true),
		chromedp.EmulateViewport(int64(viewport.Width), int64(viewport.Height)),
	)
	if err != nil {
		return nil, fmt.Errorf("set viewport: %w", err)
	}
	return p, nil
}

func (b *chromedpBrowser) Close() error {
	err := chromedp.Cancel(b.ctx)
	b.cancelCtx()
	b.cancelAlloc()
	return err
}

func (p *chromedpPage) Navigate(ctx context.Context, url string) error {
	// Drop an idle signal left over from the previous page.
	select {
	case <-p.idle:
	default:
	}

	if err := p.run(ctx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("navigate to %s: %w", url, err)
	}

	select {
	case <-p.idle:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for %s to settle: %w", url, ctx.Err())
	}
}

func (p *chromedpPage) Screenshot(ctx context.Context) ([]byte, error) {
	var buf []byte
	if err := p.run(ctx, chromedp.CaptureScreenshot(&buf)); err != nil {
		return nil, err
	}
	return buf, nil
}

// run executes actions on the tab, bounded by the deadline and cancellation
// of ctx. Cancelling the tab context itself would close the tab.
func (p *chromedpPage) run(ctx context.Context, actions ...chromedp.Action) error {
	tctx := p.ctx
	if deadline, ok := ctx.Deadline(); ok {
		var cancel context.CancelFunc
		tctx, cancel = context.WithDeadline(tctx, deadline)
		defer cancel()
	}
	tctx, cancel := context.WithCancel(tctx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	return chromedp.Run(tctx, actions...)
}
