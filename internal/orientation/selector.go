package orientation

import (
	"context"
	"errors"
	"image"
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"mykadocr/internal/logger"
	"mykadocr/internal/ocr"
)

// ErrNoReadableOrientation is returned when no rotation or flip of the image
// yields recognizable text.
var ErrNoReadableOrientation = errors.New("no readable orientation: text could not be recognized at any rotation or flip")

// scoreKeywords are phrases expected on the front of a Malaysian identity
// card. Each occurrence raises a candidate's readability score.
var scoreKeywords = []string{
	"KAD PENGENALAN",
	"MYKAD",
	"IDENTITYCARD",
	"IDENTITY CARD",
	"WARGANEGARA",
}

var idNumberPattern = regexp.MustCompile(`\d{6}-\d{2}-\d{4}`)

// Params tune candidate scoring and selection.
type Params struct {
	KeywordWeight   float64 // per keyword occurrence
	IDPatternWeight float64 // when an identity number pattern is present
	LineCountBonus  float64 // when at least LineCountMin lines were recognized
	LineCountMin    int
	NoisePenalty    float64 // per noise line, applied when noise lines exceed NoiseThreshold
	NoiseThreshold  int
	EarlyExitScore  float64 // stop scanning once a candidate reaches this score
	EarlyExitLines  int     // and at least this many lines
	FallbackLines   int     // minimum lines for the zero-score fallback
	Parallel        bool    // evaluate all candidates concurrently
}

// DefaultParams returns the scoring parameters tuned for MyKad images.
func DefaultParams() Params {
	return Params{
		KeywordWeight:   2,
		IDPatternWeight: 3,
		LineCountBonus:  1,
		LineCountMin:    5,
		NoisePenalty:    0.5,
		NoiseThreshold:  5,
		EarlyExitScore:  5,
		EarlyExitLines:  8,
		FallbackLines:   3,
	}
}

// Result is the winning orientation and its recognized text.
type Result struct {
	Lines []ocr.RawLine
	Angle int
	Flip  Flip
	Score float64
}

type candidate struct {
	angle int
	flip  Flip
	lines []ocr.RawLine
	score float64
	err   error
}

// Selector runs recognition across the eight orientation candidates and
// picks the most readable one.
type Selector struct {
	engine ocr.Engine
	params Params
	log    zerolog.Logger
}

// NewSelector creates a selector over the given recognition engine.
func NewSelector(engine ocr.Engine, params Params) *Selector {
	return &Selector{
		engine: engine,
		params: params,
		log:    logger.WithComponent("orientation"),
	}
}

// Select recognizes text at every rotation/flip combination and returns the
// highest scoring candidate. Recognition failures on individual candidates
// are contained; only a total failure across all eight is an error.
//
// Ties break deterministically: higher score, then more recognized lines,
// then rotation 0, then no flip.
func (s *Selector) Select(ctx context.Context, img image.Image) (*Result, error) {
	var candidates []candidate
	if s.params.Parallel {
		candidates = s.evaluateParallel(ctx, img)
	} else {
		candidates = s.evaluateSequential(ctx, img)
	}

	var best *candidate
	for i := range candidates {
		c := &candidates[i]
		if c.err != nil || c.score <= 0 {
			continue
		}
		if best == nil || better(c, best) {
			best = c
		}
	}

	if best == nil {
		// Nothing scored: settle for the first candidate that produced a
		// usable number of lines at all.
		for i := range candidates {
			c := &candidates[i]
			if c.err == nil && len(c.lines) >= s.params.FallbackLines {
				s.log.Warn().
					Int("angle", c.angle).
					Str("flip", c.flip.String()).
					Int("lines", len(c.lines)).
					Msg("No candidate scored, falling back to first readable orientation")
				best = c
				break
			}
		}
	}

	if best == nil {
		return nil, ErrNoReadableOrientation
	}

	s.log.Info().
		Int("angle", best.angle).
		Str("flip", best.flip.String()).
		Float64("score", best.score).
		Int("lines", len(best.lines)).
		Msg("Orientation selected")

	return &Result{
		Lines: best.lines,
		Angle: best.angle,
		Flip:  best.flip,
		Score: best.score,
	}, nil
}

// evaluateSequential walks candidates in enumeration order and stops early
// once a clear winner appears.
func (s *Selector) evaluateSequential(ctx context.Context, img image.Image) []candidate {
	var out []candidate
	var bestScore float64
	var bestLines int

	for _, angle := range Rotations {
		for _, flip := range []Flip{FlipNone, FlipHorizontal} {
			c := s.evaluate(ctx, img, angle, flip)
			out = append(out, c)

			if c.err == nil && c.score > bestScore {
				bestScore = c.score
				bestLines = len(c.lines)
			}
			if bestScore >= s.params.EarlyExitScore && bestLines >= s.params.EarlyExitLines {
				return out
			}
		}
	}
	return out
}

// evaluateParallel recognizes all eight candidates concurrently. Results are
// collected by index so selection stays deterministic.
func (s *Selector) evaluateParallel(ctx context.Context, img image.Image) []candidate {
	out := make([]candidate, len(Rotations)*2)

	var wg sync.WaitGroup
	for ri, angle := range Rotations {
		for fi, flip := range []Flip{FlipNone, FlipHorizontal} {
			wg.Add(1)
			go func(idx, angle int, flip Flip) {
				defer wg.Done()
				out[idx] = s.evaluate(ctx, img, angle, flip)
			}(ri*2+fi, angle, flip)
		}
	}
	wg.Wait()

	return out
}

func (s *Selector) evaluate(ctx context.Context, img image.Image, angle int, flip Flip) candidate {
	lines, err := s.engine.Recognize(ctx, Transform(img, angle, flip))
	if err != nil {
		s.log.Warn().
			Err(err).
			Int("angle", angle).
			Str("flip", flip.String()).
			Msg("Recognition failed for orientation candidate")
		return candidate{angle: angle, flip: flip, err: err}
	}

	c := candidate{angle: angle, flip: flip, lines: lines}
	c.score = s.score(lines)

	s.log.Debug().
		Int("angle", angle).
		Str("flip", flip.String()).
		Int("lines", len(lines)).
		Float64("score", c.score).
		Msg("Orientation candidate scored")

	return c
}

// score rates recognized text for identity card readability.
func (s *Selector) score(lines []ocr.RawLine) float64 {
	if len(lines) == 0 {
		return 0
	}

	var sb strings.Builder
	noise := 0
	for _, line := range lines {
		text := strings.TrimSpace(line.Text)
		if utf8.RuneCountInString(text) <= 1 {
			noise++
		}
		sb.WriteString(strings.ToUpper(text))
		sb.WriteString(" ")
	}
	joined := sb.String()

	var score float64
	for _, kw := range scoreKeywords {
		if strings.Contains(joined, kw) {
			score += s.params.KeywordWeight
		}
	}
	if idNumberPattern.MatchString(joined) {
		score += s.params.IDPatternWeight
	}
	if len(lines) >= s.params.LineCountMin {
		score += s.params.LineCountBonus
	}
	if noise > s.params.NoiseThreshold {
		score -= float64(noise) * s.params.NoisePenalty
	}

	return score
}

func better(c, best *candidate) bool {
	switch {
	case c.score != best.score:
		return c.score > best.score
	case len(c.lines) != len(best.lines):
		return len(c.lines) > len(best.lines)
	case (c.angle == 0) != (best.angle == 0):
		return c.angle == 0
	case c.flip != best.flip:
		return c.flip == FlipNone
	}
	return false
}
