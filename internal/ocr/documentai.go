package ocr

import (
	"context"
	"fmt"
	"image"
	"os"
	"strings"

	documentai "cloud.google.com/go/documentai/apiv1"
	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"google.golang.org/api/option"

	"mykadocr/internal/logger"

	"github.com/rs/zerolog"
)

// DocumentAIEngine implements Engine using a Google Document AI OCR processor.
type DocumentAIEngine struct {
	client        *documentai.DocumentProcessorClient
	processorName string
	log           zerolog.Logger
}

// NewDocumentAIEngine creates a Document AI engine with credentials from the
// environment. Requires cfg.ProjectID and cfg.ProcessorID; cfg.Location
// defaults to "us".
func NewDocumentAIEngine(ctx context.Context, cfg Config) (*DocumentAIEngine, error) {
	const op = "NewDocumentAIEngine"

	if cfg.ProjectID == "" || cfg.ProcessorID == "" {
		return nil, NewOCRError(op, ErrMissingProcessor, "")
	}
	location := cfg.Location
	if location == "" {
		location = "us"
	}

	// Create Document AI client with regional endpoint
	var clientOptions []option.ClientOption
	if location != "us" {
		endpoint := fmt.Sprintf("%s-documentai.googleapis.com:443", location)
		clientOptions = append(clientOptions, option.WithEndpoint(endpoint))
	}

	// Add credentials
	if credJSON := os.Getenv("GOOGLE_CREDENTIALS"); credJSON != "" {
		clientOptions = append(clientOptions, option.WithCredentialsJSON([]byte(credJSON)))
	} else if credFile := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); credFile != "" {
		clientOptions = append(clientOptions, option.WithCredentialsFile(credFile))
	}

	client, err := documentai.NewDocumentProcessorClient(ctx, clientOptions...)
	if err != nil {
		if len(clientOptions) == 0 {
			return nil, NewOCRError(op, ErrMissingCredentials, "no credentials found in environment")
		}
		return nil, WrapOCRError(op, err, fmt.Sprintf("failed to create Document AI client for location: %s", location))
	}

	return &DocumentAIEngine{
		client:        client,
		processorName: fmt.Sprintf("projects/%s/locations/%s/processors/%s", cfg.ProjectID, location, cfg.ProcessorID),
		log:           logger.WithComponent("document-ai"),
	}, nil
}

// NewDocumentAIEngineWithClient creates an engine with an explicit client (for testing).
func NewDocumentAIEngineWithClient(client *documentai.DocumentProcessorClient, processorName string) *DocumentAIEngine {
	return &DocumentAIEngine{
		client:        client,
		processorName: processorName,
		log:           logger.WithComponent("document-ai"),
	}
}

// Close releases the underlying API client.
func (d *DocumentAIEngine) Close() error {
	return d.client.Close()
}

// Recognize sends the image through the OCR processor and returns the
// detected page lines in reading order.
func (d *DocumentAIEngine) Recognize(ctx context.Context, img image.Image) ([]RawLine, error) {
	const op = "Recognize"

	data, err := encodePNG(img)
	if err != nil {
		return nil, WrapOCRError(op, ErrInvalidImage, err.Error())
	}

	req := &documentaipb.ProcessRequest{
		Name: d.processorName,
		Source: &documentaipb.ProcessRequest_RawDocument{
			RawDocument: &documentaipb.RawDocument{
				Content:  data,
				MimeType: "image/png",
			},
		},
	}

	resp, err := d.client.ProcessDocument(ctx, req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, NewOCRError(op, ErrContextCanceled, ctx.Err().Error())
		}
		return nil, WrapOCRError(op, ErrRecognitionFailed, err.Error())
	}

	doc := resp.GetDocument()
	fullText := doc.GetText()

	var lines []RawLine
	for _, page := range doc.GetPages() {
		for _, line := range page.GetLines() {
			layout := line.GetLayout()
			text := strings.TrimSpace(anchorText(fullText, layout.GetTextAnchor()))
			if text == "" {
				continue
			}
			lines = append(lines, RawLine{
				Text:       text,
				Confidence: float64(layout.GetConfidence()),
				Polygon:    layoutPolygon(layout.GetBoundingPoly()),
			})
		}
	}

	d.log.Debug().
		Int("lines", len(lines)).
		Msg("Document AI recognition completed")

	return lines, nil
}

// anchorText resolves a text anchor's segments against the document text.
func anchorText(fullText string, anchor *documentaipb.Document_TextAnchor) string {
	if anchor == nil {
		return ""
	}
	var sb strings.Builder
	for _, segment := range anchor.GetTextSegments() {
		start := int(segment.GetStartIndex())
		end := int(segment.GetEndIndex())
		if start < 0 || end > len(fullText) || start >= end {
			continue
		}
		sb.WriteString(fullText[start:end])
	}
	return sb.String()
}

func layoutPolygon(poly *documentaipb.BoundingPoly) []image.Point {
	vertices := poly.GetVertices()
	if len(vertices) == 0 {
		return nil
	}
	polygon := make([]image.Point, 0, len(vertices))
	for _, v := range vertices {
		polygon = append(polygon, image.Point{X: int(v.GetX()), Y: int(v.GetY())})
	}
	return polygon
}
