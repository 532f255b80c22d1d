package ocr

import (
	"bytes"
	"context"
	"image"
	"os"
	"strings"

	vision "cloud.google.com/go/vision/v2/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"google.golang.org/api/option"

	"mykadocr/internal/logger"

	"github.com/rs/zerolog"
)

// VisionEngine implements Engine using Google Cloud Vision document text detection.
type VisionEngine struct {
	client *vision.ImageAnnotatorClient
	log    zerolog.Logger
}

// NewVisionEngine creates a Vision engine with credentials from the environment.
// It expects either GOOGLE_APPLICATION_CREDENTIALS path or GOOGLE_CREDENTIALS JSON in env.
func NewVisionEngine(ctx context.Context) (*VisionEngine, error) {
	const op = "NewVisionEngine"

	var client *vision.ImageAnnotatorClient
	var err error

	// Check for inline credentials first
	if credJSON := os.Getenv("GOOGLE_CREDENTIALS"); credJSON != "" {
		client, err = vision.NewImageAnnotatorClient(ctx, option.WithCredentialsJSON([]byte(credJSON)))
		if err != nil {
			return nil, WrapOCRError(op, err, "failed to create client with GOOGLE_CREDENTIALS")
		}
	} else if credFile := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); credFile != "" {
		client, err = vision.NewImageAnnotatorClient(ctx, option.WithCredentialsFile(credFile))
		if err != nil {
			return nil, WrapOCRError(op, err, "failed to create client with GOOGLE_APPLICATION_CREDENTIALS")
		}
	} else {
		// Try default credentials as fallback
		client, err = vision.NewImageAnnotatorClient(ctx)
		if err != nil {
			return nil, WrapOCRError(op, ErrMissingCredentials, "no credentials found in environment")
		}
	}

	return &VisionEngine{
		client: client,
		log:    logger.WithComponent("vision"),
	}, nil
}

// NewVisionEngineWithClient creates a Vision engine with an explicit client (for testing).
func NewVisionEngineWithClient(client *vision.ImageAnnotatorClient) *VisionEngine {
	return &VisionEngine{
		client: client,
		log:    logger.WithComponent("vision"),
	}
}

// Close releases the underlying API client.
func (v *VisionEngine) Close() error {
	return v.client.Close()
}

// Recognize runs document text detection and flattens the annotation
// hierarchy into physical text lines.
func (v *VisionEngine) Recognize(ctx context.Context, img image.Image) ([]RawLine, error) {
	const op = "Recognize"

	data, err := encodePNG(img)
	if err != nil {
		return nil, WrapOCRError(op, ErrInvalidImage, err.Error())
	}

	visionImg, err := vision.NewImageFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, WrapOCRError(op, ErrInvalidImage, err.Error())
	}

	annotation, err := v.client.DetectDocumentText(ctx, visionImg, nil)
	if err != nil {
		if ctx.Err() != nil {
			return nil, NewOCRError(op, ErrContextCanceled, ctx.Err().Error())
		}
		return nil, WrapOCRError(op, ErrRecognitionFailed, err.Error())
	}
	if annotation == nil {
		return nil, nil
	}

	var lines []RawLine
	for _, page := range annotation.GetPages() {
		for _, block := range page.GetBlocks() {
			for _, paragraph := range block.GetParagraphs() {
				lines = append(lines, paragraphLines(paragraph)...)
			}
		}
	}

	v.log.Debug().
		Int("lines", len(lines)).
		Msg("Vision recognition completed")

	return lines, nil
}

// paragraphLines reassembles a paragraph's symbols into physical lines using
// the detected break annotations.
func paragraphLines(paragraph *visionpb.Paragraph) []RawLine {
	polygon := vertexPolygon(paragraph.GetBoundingBox())
	confidence := float64(paragraph.GetConfidence())

	var lines []RawLine
	var sb strings.Builder

	flush := func() {
		text := strings.TrimSpace(sb.String())
		sb.Reset()
		if text == "" {
			return
		}
		lines = append(lines, RawLine{
			Text:       text,
			Confidence: confidence,
			Polygon:    polygon,
		})
	}

	for _, word := range paragraph.GetWords() {
		for _, symbol := range word.GetSymbols() {
			sb.WriteString(symbol.GetText())

			switch symbol.GetProperty().GetDetectedBreak().GetType() {
			case visionpb.TextAnnotation_DetectedBreak_SPACE,
				visionpb.TextAnnotation_DetectedBreak_SURE_SPACE:
				sb.WriteString(" ")
			case visionpb.TextAnnotation_DetectedBreak_EOL_SURE_SPACE,
				visionpb.TextAnnotation_DetectedBreak_LINE_BREAK:
				flush()
			}
		}
	}
	flush()

	return lines
}

func vertexPolygon(box *visionpb.BoundingPoly) []image.Point {
	vertices := box.GetVertices()
	if len(vertices) == 0 {
		return nil
	}
	polygon := make([]image.Point, 0, len(vertices))
	for _, v := range vertices {
		polygon = append(polygon, image.Point{X: int(v.GetX()), Y: int(v.GetY())})
	}
	return polygon
}
