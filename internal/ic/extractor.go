package ic

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/rs/zerolog"

	"mykadocr/internal/logger"
	"mykadocr/pkg/models"
)

// maxNameLinesBefore and maxNameLinesAfter bound how far name collection
// extends around its anchor line.
const (
	maxNameLinesBefore = 3
	maxNameLinesAfter  = 2
)

// Extractor parses corrected text lines into identity fields. Line order is
// the engine's reading order and drives all positional logic.
type Extractor struct {
	corrector *Corrector
	splitter  *Splitter
	log       zerolog.Logger
}

// NewExtractor creates an extractor with the default correction rules and
// splitting dictionaries.
func NewExtractor() *Extractor {
	return &Extractor{
		corrector: NewCorrector(),
		splitter:  NewSplitter(),
		log:       logger.WithComponent("extractor"),
	}
}

// NormalizeLines uppercases, corrects and splits each raw line, dropping
// empties and lines of CJK glyphs. The result preserves reading order.
func (e *Extractor) NormalizeLines(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, line := range raw {
		text := strings.ToUpper(strings.TrimSpace(line))
		if text == "" || hasCJK(text) {
			continue
		}
		text = e.corrector.Correct(text)
		text = e.splitter.Split(text)
		if text == "" {
			continue
		}
		out = append(out, text)
	}
	return out
}

// Extract parses normalized lines into an identity record. Missing fields
// stay empty; only an empty input is an error.
func (e *Extractor) Extract(lines []string) (*models.IdentityRecord, error) {
	const op = "Extract"

	if len(lines) == 0 {
		return nil, NewExtractionError(op, ErrNoTextLines, "")
	}

	fullText := strings.Join(lines, " ")

	record := &models.IdentityRecord{
		RawTextLines: lines,
	}

	idNumber, anchorIdx := findIDNumber(lines)
	record.IDNumber = idNumber
	record.Gender = extractGender(fullText, idNumber)
	record.Religion = extractReligion(fullText)

	name, nameLines := e.extractName(lines, anchorIdx)
	record.Name = name

	record.Address = e.extractAddress(lines, idNumber, nameLines)
	record.DocumentType = classifyDocument(fullText, idNumber)

	e.log.Debug().
		Str("id_number", idNumber).
		Str("name", name).
		Str("gender", record.Gender).
		Str("document_type", record.DocumentType).
		Msg("Extraction completed")

	return record, nil
}

// findIDNumber scans for the identity number pattern. When the pattern
// occurs on several lines (front and back of card in one scan), the
// occurrence followed by a name-like line wins; otherwise the first.
func findIDNumber(lines []string) (string, int) {
	type hit struct {
		value string
		idx   int
	}
	var hits []hit
	for i, line := range lines {
		if m := idNumberPattern.FindString(line); m != "" {
			hits = append(hits, hit{value: m, idx: i})
		}
	}
	if len(hits) == 0 {
		return "", -1
	}

	for _, h := range hits {
		if h.idx+1 >= len(lines) {
			continue
		}
		next := lines[h.idx+1]
		if markerPattern.MatchString(next) {
			return h.value, h.idx
		}
		if isNameLike(next) && !containsAny(next, headerKeywords) && !containsAny(next, metadataKeywords) {
			return h.value, h.idx
		}
	}
	return hits[0].value, hits[0].idx
}

// extractGender prefers an explicit keyword; the identity number's last
// digit decides otherwise, odd for male and even for female.
func extractGender(fullText, idNumber string) string {
	if strings.Contains(fullText, "PEREMPUAN") {
		return models.GenderFemale
	}
	if strings.Contains(fullText, "LELAKI") {
		return models.GenderMale
	}

	if idNumber == "" {
		return ""
	}
	last := idNumber[len(idNumber)-1]
	if (last-'0')%2 == 1 {
		return models.GenderMale
	}
	return models.GenderFemale
}

func extractReligion(fullText string) string {
	for _, rk := range religionKeywords {
		if strings.Contains(fullText, rk.Keyword) {
			return rk.Value
		}
	}
	return ""
}

// classifyDocument requires both a card keyword and an identity number
// before claiming the image is a MyKad.
func classifyDocument(fullText, idNumber string) string {
	if idNumber != "" && containsAny(fullText, documentKeywords) {
		return models.DocumentTypeMyKad
	}
	return models.DocumentTypeUnknown
}

// extractName collects the holder's name and reports which line indexes it
// consumed so address collection can skip them.
//
// The primary strategy anchors on the patronymic marker (BIN or BINTI):
// name-like lines immediately before the marker line come first, the marker
// line follows, and up to two name-like lines after it complete the name.
// Without a marker, collection falls back to scanning the lines after the
// identity number.
func (e *Extractor) extractName(lines []string, anchorIdx int) (string, map[int]bool) {
	used := make(map[int]bool)

	markerIdx := -1
	for i, line := range lines {
		if markerPattern.MatchString(line) {
			markerIdx = i
			break
		}
	}

	var parts []string
	switch {
	case markerIdx >= 0:
		parts = e.collectAroundMarker(lines, markerIdx, used)
	case anchorIdx >= 0:
		parts = e.collectAfterAnchor(lines, anchorIdx, used)
	default:
		// No marker and no identity number: best-effort scan of the
		// whole sequence.
		parts = e.collectAfterAnchor(lines, -1, used)
	}

	if len(parts) == 0 {
		return "", used
	}
	return e.finalizeName(parts), used
}

func (e *Extractor) collectAroundMarker(lines []string, markerIdx int, used map[int]bool) []string {
	parts := []string{lines[markerIdx]}
	used[markerIdx] = true

	// Walk backward for the given-name lines printed above the marker.
	// The given name sits directly above it, so the first line that does
	// not look like a name ends the walk.
	collected := 0
	for i := markerIdx - 1; i >= 0 && collected < maxNameLinesBefore; i-- {
		line := lines[i]
		if !isNameLike(line) || idNumberPattern.MatchString(line) ||
			containsAny(line, metadataKeywords) || containsAny(line, placeNameFilters) ||
			containsAny(line, noiseWords) || startsWithAny(line, nameStopAddressKeywords) {
			break
		}
		parts = append([]string{line}, parts...)
		used[i] = true
		collected++
	}

	// A father's name sometimes wraps to the next line.
	collected = 0
	for i := markerIdx + 1; i < len(lines) && collected < maxNameLinesAfter; i++ {
		line := lines[i]
		if strings.ContainsAny(line, "0123456789") || containsAny(line, metadataKeywords) || startsWithAny(line, nameStopAddressKeywords) {
			break
		}
		if !isNameLike(line) || containsAny(line, placeNameFilters) || containsAny(line, noiseWords) {
			continue
		}
		parts = append(parts, line)
		used[i] = true
		collected++
	}

	return parts
}

// collectAfterAnchor gathers up to two name-like lines following the
// identity number line. With no anchor it scans from the top.
func (e *Extractor) collectAfterAnchor(lines []string, anchorIdx int, used map[int]bool) []string {
	var parts []string
	for i := anchorIdx + 1; i < len(lines) && len(parts) < 2; i++ {
		line := lines[i]
		if len(line) <= 1 {
			continue
		}
		if containsAny(line, headerKeywords) || containsAny(line, noiseWords) {
			continue
		}
		if strings.ContainsAny(line, "0123456789") {
			if anchorIdx < 0 && len(parts) == 0 {
				// Still above the name block, keep scanning.
				continue
			}
			break
		}
		if containsAny(line, metadataKeywords) || containsAny(line, placeNameFilters) || startsWithAny(line, nameStopAddressKeywords) {
			if anchorIdx < 0 && len(parts) == 0 {
				// Still above the name block, keep scanning.
				continue
			}
			break
		}
		if !isNameLike(line) {
			continue
		}
		parts = append(parts, line)
		used[i] = true
	}
	return parts
}

var (
	binTiSplit      = regexp.MustCompile(`BIN\s+TI\b`)
	bintiGlueAfter  = regexp.MustCompile(`BINTI([A-Z])`)
	binGlueAfter    = regexp.MustCompile(`BIN([A-Z])`)
	bintiGlueBefore = regexp.MustCompile(`([A-Z]+)(BINTI)\b`)
	binGlueBefore   = regexp.MustCompile(`([A-Z]+)(BIN)\b`)
)

// finalizeName joins the collected lines and normalizes marker spacing.
func (e *Extractor) finalizeName(parts []string) string {
	name := strings.Join(dedupeFold(parts), " ")

	name = binTiSplit.ReplaceAllString(name, "BINTI")
	name = bintiGlueAfter.ReplaceAllString(name, "BINTI $1")
	if strings.Contains(name, "BIN") && !strings.Contains(name, "BINTI") {
		name = binGlueAfter.ReplaceAllString(name, "BIN $1")
	}
	name = bintiGlueBefore.ReplaceAllString(name, "$1 $2")
	if !strings.Contains(name, "BINTI") {
		name = binGlueBefore.ReplaceAllString(name, "$1 $2")
	}

	name = e.corrector.Correct(name)
	name = e.splitter.Split(name)
	return collapseSpaces(name)
}

// isNameLike reports whether a line could be part of a person's name:
// letters, spaces and the few glyphs that appear in Malaysian names.
func isNameLike(line string) bool {
	return len(line) > 2 && nameLinePattern.MatchString(line)
}

func startsWithAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.HasPrefix(s, kw) {
			return true
		}
	}
	return false
}

func dedupeFold(parts []string) []string {
	seen := make(map[string]bool, len(parts))
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		key := strings.ToUpper(strings.TrimSpace(p))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, p)
	}
	return out
}

func hasCJK(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Han, r) {
			return true
		}
	}
	return false
}
