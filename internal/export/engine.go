package export

import (
	"context"
	"time"
)

// Engine names accepted by NewEngine
const (
	EngineChromedp = "chromedp"
	EngineRod      = "rod"
)

// A4 paper size in inches
const (
	paperWidthIn  = 8.27
	paperHeightIn = 11.69
)

// DefaultTimeout bounds a single PDF print
const DefaultTimeout = 60 * time.Second

// Engine prints an HTML page to PDF
type Engine interface {
	PrintPDF(ctx context.Context, html []byte) ([]byte, error)
}

// EngineOptions configures a headless browser engine
type EngineOptions struct {
	// Timeout bounds one print; DefaultTimeout when zero
	Timeout time.Duration
	// ChromePath overrides the browser binary lookup
	ChromePath string
}

func (o EngineOptions) timeout() time.Duration {
	if o.Timeout <= 0 {
		return DefaultTimeout
	}
	return o.Timeout
}

// NewEngine returns the engine registered under name
func NewEngine(name string, opts EngineOptions) (Engine, error) {
	switch name {
	case "", EngineChromedp:
		return NewChromedpEngine(opts), nil
	case EngineRod:
		return NewRodEngine(opts), nil
	default:
		return nil, &UnknownEngineError{Name: name}
	}
}

// EngineNames lists the supported engine names
func EngineNames() []string {
	return []string{EngineChromedp, EngineRod}
}
