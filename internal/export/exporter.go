package export

import (
	"context"
	"log"
	"time"

	"github.com/jonathan/cv-generator/internal/rendering"
	"github.com/jonathan/cv-generator/internal/types"
	"golang.org/x/sync/errgroup"
)

// Delivery modes
const (
	ModePreview = "preview"
	ModePDF     = "pdf"
)

// Content types of the two artifacts
const (
	ContentTypeHTML = "text/html; charset=utf-8"
	ContentTypePDF  = "application/pdf"
)

// Artifact is one delivered export
type Artifact struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	Data        []byte `json:"-"`
}

// Observer is told how long each export took and whether it succeeded
type Observer interface {
	ObserveExport(mode string, success bool, elapsed time.Duration)
}

// Exporter renders documents and delivers them in either mode
type Exporter struct {
	engine   Engine
	labels   rendering.Labels
	observer Observer
}

// ExporterOption configures an Exporter
type ExporterOption func(*Exporter)

// WithObserver reports export outcomes to o
func WithObserver(o Observer) ExporterOption {
	return func(e *Exporter) { e.observer = o }
}

// NewExporter returns an exporter printing PDFs with engine
func NewExporter(engine Engine, labels rendering.Labels, opts ...ExporterOption) *Exporter {
	e := &Exporter{engine: engine, labels: labels}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Preview renders doc as an inline HTML page
func (e *Exporter) Preview(doc *types.CVDocument) (*Artifact, error) {
	start := time.Now()
	page, err := rendering.RenderDocument(doc, e.labels)
	e.observe(ModePreview, err, start)
	if err != nil {
		return nil, &Error{Op: ModePreview, Message: "failed to render document", Cause: err}
	}
	return &Artifact{
		Filename:    rendering.Filename(doc, "html"),
		ContentType: ContentTypeHTML,
		Data:        page,
	}, nil
}

// PDF renders doc and prints exactly that page, named CV_{name}_{lastName}.pdf
func (e *Exporter) PDF(ctx context.Context, doc *types.CVDocument) (*Artifact, error) {
	start := time.Now()
	art, err := e.pdf(ctx, doc)
	e.observe(ModePDF, err, start)
	return art, err
}

func (e *Exporter) pdf(ctx context.Context, doc *types.CVDocument) (*Artifact, error) {
	if e.engine == nil {
		return nil, &Error{Op: ModePDF, Message: "no PDF engine configured"}
	}
	page, err := rendering.RenderDocument(doc, e.labels)
	if err != nil {
		return nil, &Error{Op: ModePDF, Message: "failed to render document", Cause: err}
	}
	data, err := e.engine.PrintPDF(ctx, page)
	if err != nil {
		return nil, &Error{Op: ModePDF, Message: "failed to print document", Cause: err}
	}
	if len(data) == 0 {
		return nil, &Error{Op: ModePDF, Message: "engine returned an empty document"}
	}
	return &Artifact{
		Filename:    rendering.Filename(doc, "pdf"),
		ContentType: ContentTypePDF,
		Data:        data,
	}, nil
}

// Bundle produces the HTML and PDF artifacts of one snapshot concurrently.
// The HTML artifact comes first.
func (e *Exporter) Bundle(ctx context.Context, doc *types.CVDocument) ([]*Artifact, error) {
	snap := doc.Clone()
	out := make([]*Artifact, 2)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		art, err := e.Preview(&snap)
		out[0] = art
		return err
	})
	g.Go(func() error {
		art, err := e.PDF(gctx, &snap)
		out[1] = art
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (e *Exporter) observe(mode string, err error, start time.Time) {
	elapsed := time.Since(start)
	if err != nil {
		log.Printf("[EXPORT] %s failed after %v: %v", mode, elapsed, err)
	}
	if e.observer != nil {
		e.observer.ObserveExport(mode, err == nil, elapsed)
	}
}
