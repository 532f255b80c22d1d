// Package ocr provides text recognition for identity card images.
//
// Recognition is abstracted behind the Engine interface so the extraction
// pipeline stays independent of the backend. Three engines are available:
//
//   - tesseract: local recognition via the Tesseract library (default,
//     no credentials required, works offline)
//   - vision: Google Cloud Vision document text detection
//   - documentai: Google Document AI OCR processor
//
// Cloud engines expect credentials in the environment:
//   - GOOGLE_APPLICATION_CREDENTIALS: Path to service account JSON file, OR
//   - GOOGLE_CREDENTIALS: Inline JSON credentials string
//
// Engines return line-level results in the backend's reading order. Line
// order is significant downstream: field extraction anchors on line
// positions, so engines must never reorder or merge lines.
package ocr

import (
	"context"
	"fmt"
	"image"
)

// Engine backend names accepted by NewEngine.
const (
	EngineTesseract  = "tesseract"
	EngineVision     = "vision"
	EngineDocumentAI = "documentai"
)

// RawLine is one recognized text line, in the order reported by the engine.
type RawLine struct {
	// Text is the recognized content of the line, unmodified.
	Text string

	// Confidence is the engine's confidence for the line in [0.0, 1.0].
	// Zero when the engine does not report per-line confidence.
	Confidence float64

	// Polygon is the bounding polygon of the line in image coordinates,
	// when the engine reports one.
	Polygon []image.Point
}

// Engine defines the interface for text recognition backends.
type Engine interface {
	// Recognize extracts text lines from an image in reading order.
	// An image with no detectable text yields an empty slice, not an error.
	Recognize(ctx context.Context, img image.Image) ([]RawLine, error)
}

// Config selects and parameterizes a recognition backend.
type Config struct {
	// Kind is one of EngineTesseract, EngineVision, EngineDocumentAI.
	Kind string

	// Languages are the Tesseract language models to load (e.g. "msa", "eng").
	Languages []string

	// ProjectID, Location and ProcessorID address a Document AI OCR
	// processor. Only required for the documentai engine.
	ProjectID   string
	Location    string
	ProcessorID string
}

// NewEngine creates the recognition backend named by cfg.Kind.
func NewEngine(ctx context.Context, cfg Config) (Engine, error) {
	const op = "NewEngine"

	switch cfg.Kind {
	case EngineTesseract, "":
		return NewTesseractEngine(cfg.Languages...), nil
	case EngineVision:
		return NewVisionEngine(ctx)
	case EngineDocumentAI:
		return NewDocumentAIEngine(ctx, cfg)
	default:
		return nil, NewOCRError(op, ErrUnknownEngine, fmt.Sprintf("engine: %q", cfg.Kind))
	}
}
