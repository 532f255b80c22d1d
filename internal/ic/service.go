// Package ic extracts structured identity fields from Malaysian identity
// card (MyKad) text. The pipeline runs orientation selection, OCR error
// correction, compound word splitting and field extraction, then attaches an
// advisory postcode check.
package ic

import (
	"context"
	"errors"
	"image"

	"github.com/rs/zerolog"

	"mykadocr/internal/logger"
	"mykadocr/internal/ocr"
	"mykadocr/internal/orientation"
	"mykadocr/internal/postcode"
	"mykadocr/pkg/models"
)

// Service runs the full extraction pipeline over card images.
type Service struct {
	selector  *orientation.Selector
	extractor *Extractor
	postcodes *postcode.Table
	log       zerolog.Logger
}

// NewService builds the pipeline. table may be nil when no postcode
// database is available; validation is skipped in that case.
func NewService(engine ocr.Engine, params orientation.Params, table *postcode.Table) *Service {
	return &Service{
		selector:  orientation.NewSelector(engine, params),
		extractor: NewExtractor(),
		postcodes: table,
		log:       logger.WithComponent("ic-service"),
	}
}

// Process extracts an identity record from a card image. The image should
// already be decoded and size-normalized by the caller.
func (s *Service) Process(ctx context.Context, img image.Image) (*models.IdentityRecord, error) {
	const op = "Process"

	selected, err := s.selector.Select(ctx, img)
	if err != nil {
		if errors.Is(err, orientation.ErrNoReadableOrientation) {
			return nil, NewExtractionError(op, ErrUnreadableDocument, err.Error())
		}
		return nil, WrapExtractionError(op, err, "orientation selection failed")
	}

	raw := make([]string, 0, len(selected.Lines))
	for _, line := range selected.Lines {
		raw = append(raw, line.Text)
	}

	lines := s.extractor.NormalizeLines(raw)
	record, err := s.extractor.Extract(lines)
	if err != nil {
		return nil, WrapExtractionError(op, err, "")
	}

	record.OrientationAngle = selected.Angle
	if record.Address != "" && s.postcodes != nil {
		record.PostcodeValidation = s.postcodes.Validate(record.Address)
	}

	s.log.Info().
		Str("id_number", record.IDNumber).
		Str("document_type", record.DocumentType).
		Int("orientation_angle", record.OrientationAngle).
		Bool("has_address", record.Address != "").
		Msg("Identity record extracted")

	return record, nil
}
