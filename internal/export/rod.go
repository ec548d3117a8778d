package export

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// RodEngine prints through a headless Chromium driven by go-rod
type RodEngine struct {
	opts EngineOptions
}

// NewRodEngine returns a go-rod backed engine
func NewRodEngine(opts EngineOptions) *RodEngine {
	return &RodEngine{opts: opts}
}

// PrintPDF loads html into a new page and prints it on A4 with backgrounds
func (e *RodEngine) PrintPDF(ctx context.Context, html []byte) ([]byte, error) {
	launch := launcher.New().Context(ctx).Headless(true).NoSandbox(true)
	if e.opts.ChromePath != "" {
		launch = launch.Bin(e.opts.ChromePath)
	} else if path, ok := launcher.LookPath(); ok {
		launch = launch.Bin(path)
	}

	controlURL, err := launch.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch chromium: %w", err)
	}
	defer launch.Cleanup()

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect browser: %w", err)
	}
	defer func() {
		_ = browser.Close()
	}()

	p, err := browser.Timeout(e.opts.timeout()).Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}
	defer func() {
		_ = p.Close()
	}()

	p = p.Timeout(e.opts.timeout())
	if err := p.SetDocumentContent(string(html)); err != nil {
		return nil, fmt.Errorf("set document content: %w", err)
	}
	if err := p.WaitLoad(); err != nil {
		return nil, fmt.Errorf("wait load: %w", err)
	}

	width, height := paperWidthIn, paperHeightIn
	reader, err := p.PDF(&proto.PagePrintToPDF{
		PrintBackground:   true,
		PaperWidth:        &width,
		PaperHeight:       &height,
		PreferCSSPageSize: true,
	})
	if err != nil {
		return nil, fmt.Errorf("export pdf: %w", err)
	}
	defer func() {
		_ = reader.Close()
	}()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read pdf bytes: %w", err)
	}

	log.Printf("[EXPORT] rod printed %d bytes", len(data))
	return data, nil
}
