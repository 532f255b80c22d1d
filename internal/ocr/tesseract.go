package ocr

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"strings"

	"github.com/otiai10/gosseract/v2"
	"github.com/rs/zerolog"

	"mykadocr/internal/logger"
)

// DefaultLanguages are the Tesseract models loaded when none are configured.
// Malay first, English second, matching the language mix on a MyKad.
var DefaultLanguages = []string{"msa", "eng"}

// TesseractEngine performs local recognition through the Tesseract library.
type TesseractEngine struct {
	languages []string
	log       zerolog.Logger
}

// NewTesseractEngine creates a local Tesseract engine. With no arguments the
// default language set is used.
func NewTesseractEngine(languages ...string) *TesseractEngine {
	if len(languages) == 0 {
		languages = DefaultLanguages
	}
	return &TesseractEngine{
		languages: languages,
		log:       logger.WithComponent("tesseract"),
	}
}

// Recognize extracts text lines from an image using Tesseract's text line
// iterator. A fresh client is created per call; gosseract clients are not
// safe for concurrent use.
func (t *TesseractEngine) Recognize(ctx context.Context, img image.Image) ([]RawLine, error) {
	const op = "Recognize"

	if err := ctx.Err(); err != nil {
		return nil, NewOCRError(op, ErrContextCanceled, err.Error())
	}

	data, err := encodePNG(img)
	if err != nil {
		return nil, WrapOCRError(op, ErrInvalidImage, err.Error())
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(t.languages...); err != nil {
		return nil, WrapOCRError(op, err, "failed to set languages: "+strings.Join(t.languages, "+"))
	}
	if err := client.SetImageFromBytes(data); err != nil {
		return nil, WrapOCRError(op, err, "failed to set image")
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err != nil {
		return nil, WrapOCRError(op, ErrRecognitionFailed, err.Error())
	}

	lines := make([]RawLine, 0, len(boxes))
	for _, box := range boxes {
		text := strings.TrimSpace(box.Word)
		if text == "" {
			continue
		}
		lines = append(lines, RawLine{
			Text:       text,
			Confidence: box.Confidence / 100.0,
			Polygon: []image.Point{
				box.Box.Min,
				{X: box.Box.Max.X, Y: box.Box.Min.Y},
				box.Box.Max,
				{X: box.Box.Min.X, Y: box.Box.Max.Y},
			},
		})
	}

	t.log.Debug().
		Int("lines", len(lines)).
		Msg("Tesseract recognition completed")

	return lines, nil
}

// encodePNG serializes an image for backends that consume encoded bytes.
func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
