package export

import (
	"context"
	"fmt"
	"log"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// ChromedpEngine prints through a headless Chrome driven by chromedp
type ChromedpEngine struct {
	opts EngineOptions
}

// NewChromedpEngine returns a chromedp-backed engine
func NewChromedpEngine(opts EngineOptions) *ChromedpEngine {
	return &ChromedpEngine{opts: opts}
}

// PrintPDF loads html into a blank tab and prints it on A4 with backgrounds
func (e *ChromedpEngine) PrintPDF(ctx context.Context, html []byte) ([]byte, error) {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if e.opts.ChromePath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(e.opts.ChromePath))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, e.opts.timeout())
	defer cancel()

	var pdf []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, string(html)).Do(ctx)
		}),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(paperWidthIn).
				WithPaperHeight(paperHeightIn).
				WithMarginTop(0).
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithMarginRight(0).
				WithPreferCSSPageSize(true).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("chromedp print failed: %w", err)
	}

	log.Printf("[EXPORT] chromedp printed %d bytes", len(pdf))
	return pdf, nil
}
