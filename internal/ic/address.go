package ic

import (
	"regexp"
	"strings"
)

type addressPhase int

const (
	notCollecting addressPhase = iota
	collecting
	stopped
)

var (
	numericLine      = regexp.MustCompile(`^[\d\-\s]+$`)
	shortDigitLine   = regexp.MustCompile(`^\d{1,2}$`)
	sixDigitRun      = regexp.MustCompile(`\d{6,}`)
	idPartialPattern = regexp.MustCompile(`\d{6}-\d{2}-\d{3,4}`)
	postcodePrefix   = regexp.MustCompile(`^\d{5}\s`)
	trailingBackOfIC = regexp.MustCompile(`,?\s*\d{6}-\d{2}-\d{4}-\d{2}-\d{2}.*$`)

	letterDigitBoundary = regexp.MustCompile(`([A-Z])(\d)`)
	digitLetterBoundary = regexp.MustCompile(`(\d)([A-Z])`)
)

var streetKeywords = []string{"LORONG", "JALAN", "LEBUH", "JLN"}
var areaKeywords = []string{"TAMAN", "DESA", "PERMAI", "INDAH", "BANDAR", "FELDA"}

// extractAddress walks the line sequence with a three-phase collector. Lines
// before the first address trigger are ignored, retained lines pass the
// digit and noise filters, and a back-of-card marker ends collection for
// good. Retained lines are then reordered into Malaysian address order.
func (e *Extractor) extractAddress(lines []string, idNumber string, nameLines map[int]bool) string {
	var retained []string
	phase := notCollecting

	for i, line := range lines {
		if phase == stopped {
			break
		}
		if nameLines[i] || len(line) <= 1 {
			continue
		}
		if containsAny(line, headerKeywords) {
			continue
		}
		if idNumber != "" && strings.Contains(line, idNumber) {
			continue
		}
		if idNumberLine.MatchString(line) || rawIDNumberLine.MatchString(line) {
			continue
		}
		if containsAny(line, backOfCardMarkers) {
			if phase == collecting {
				phase = stopped
			}
			continue
		}
		if backOfCardPattern.MatchString(line) {
			// A second, longer number pattern means back-of-card text.
			// Keep whatever real address text surrounds it.
			line = strings.Trim(backOfCardPattern.ReplaceAllString(line, ""), " ,")
			if line == "" {
				if phase == collecting {
					phase = stopped
				}
				continue
			}
		}
		if strings.Contains(line, "WARGANEGARA") {
			continue
		}
		// Gender and religion sit between name and address on the card;
		// skip them unless the line also carries a state name.
		if containsAny(line, genderReligionKeywords) && !containsAny(line, stateNames) {
			continue
		}

		// Bare numbers: a short house number deep enough into the card
		// starts the address, everything else is noise or ID fragments.
		if numericLine.MatchString(line) {
			if shortDigitLine.MatchString(line) || sixDigitRun.MatchString(line) {
				continue
			}
			if i >= 4 && len(line) <= 5 {
				phase = collecting
				retained = append(retained, line)
			}
			continue
		}

		if phase == notCollecting && isAddressStart(line) {
			phase = collecting
		}
		if phase != collecting {
			continue
		}

		if sixDigitRun.MatchString(line) && !postcodeCitySpace.MatchString(line) {
			continue
		}
		if idPartialPattern.MatchString(line) {
			continue
		}
		if containsAny(line, noiseWords) {
			continue
		}
		if mostlyDigits(line) && !postcodeCitySpace.MatchString(line) {
			continue
		}
		if len(line) <= 4 && !containsAny(line, addressKeywords) {
			continue
		}

		processed := e.processAddressLine(line)
		if processed == "" {
			continue
		}
		if mostlyDigits(processed) && !postcodeCitySpace.MatchString(processed) {
			continue
		}
		retained = append(retained, processed)
	}

	if len(retained) == 0 {
		return ""
	}
	return assembleAddress(retained)
}

// isAddressStart reports whether a line opens the address block.
func isAddressStart(line string) bool {
	for _, kw := range addressKeywords {
		if strings.HasPrefix(line, kw) {
			if !prefixOnlyKeywords[kw] {
				return true
			}
			// NO, JLN and KG need a digit or space next so words like
			// "NOS" do not count.
			if len(line) > len(kw) {
				next := line[len(kw)]
				if next == ' ' || (next >= '0' && next <= '9') {
					return true
				}
			}
			continue
		}
		if !prefixOnlyKeywords[kw] && strings.Contains(line, kw) {
			return true
		}
	}

	if unitPattern.MatchString(line) {
		return true
	}
	if postcodeCityLine.MatchString(line) {
		return true
	}
	return containsAny(line, stateNames)
}

// processAddressLine normalizes one retained line: corrections, word
// splitting, digit boundary spacing and state name fixups. Corrections and
// splitting are idempotent, so re-running them on normalized input is safe.
func (e *Extractor) processAddressLine(line string) string {
	line = e.corrector.Correct(line)
	line = e.splitter.Split(line)
	line = spaceDigitBoundaries(line)
	for _, fix := range stateNameFixups {
		line = fix.From.ReplaceAllString(line, fix.To)
	}
	return collapseSpaces(line)
}

// spaceDigitBoundaries inserts a space between letter and digit runs.
// Tokens containing a slash are unit designators like "9B/KU" and stay
// verbatim.
func spaceDigitBoundaries(line string) string {
	tokens := strings.Fields(line)
	for i, tok := range tokens {
		if strings.Contains(tok, "/") {
			continue
		}
		tok = letterDigitBoundary.ReplaceAllString(tok, "$1 $2")
		tok = digitLetterBoundary.ReplaceAllString(tok, "$1 $2")
		tokens[i] = tok
	}
	return strings.Join(tokens, " ")
}

// assembleAddress reorders retained lines into unit, street, area, locality,
// postcode and state, deduplicates case-insensitively, and joins with commas.
func assembleAddress(retained []string) string {
	var units, streets, areas, localities, postcodes, states []string

	for _, line := range retained {
		switch {
		case containsAny(line, stateNames):
			states = append(states, line)
		case postcodePrefix.MatchString(line):
			postcodes = append(postcodes, line)
		case unitPattern.MatchString(line) || strings.HasPrefix(line, "LOT") || strings.HasPrefix(line, "NO"):
			units = append(units, line)
		case containsAny(line, streetKeywords):
			streets = append(streets, line)
		case containsAny(line, areaKeywords):
			areas = append(areas, line)
		default:
			localities = append(localities, line)
		}
	}

	ordered := make([]string, 0, len(retained))
	ordered = append(ordered, units...)
	ordered = append(ordered, streets...)
	ordered = append(ordered, areas...)
	ordered = append(ordered, localities...)
	ordered = append(ordered, postcodes...)
	ordered = append(ordered, states...)

	address := strings.Join(dedupeFold(ordered), ", ")
	return strings.TrimSpace(trailingBackOfIC.ReplaceAllString(address, ""))
}

// mostlyDigits reports lines that are 70% or more digits with at least five
// digit characters, the shape of ID fragments leaking from the card back.
func mostlyDigits(line string) bool {
	stripped := strings.TrimSpace(line)
	if stripped == "" {
		return false
	}
	digits := 0
	for _, r := range stripped {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	return digits >= 5 && digits*10 >= len(stripped)*7
}
