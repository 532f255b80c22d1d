package ic

import (
	"regexp"
	"strings"
)

// Rule is one correction applied to recognized text. Literal rules replace a
// fixed string; regexp rules use RE2 syntax with $1-style references in the
// replacement.
type Rule struct {
	Find    string
	Replace string
	Regexp  bool
}

// DefaultRules is the ordered correction table for Malaysian identity card
// text. Ordering is part of the contract: doubled leading consonants collapse
// before keyword-shaped rules run, and "BIN TI" rejoins before any name
// spacing. Every rule is idempotent, so correcting already-corrected text is
// a no-op.
var DefaultRules = []Rule{
	// Doubled leading consonants from dark card backgrounds
	{Find: `L{2,}OT`, Replace: "LOT", Regexp: true},
	{Find: `L{2,}ORONG`, Replace: "LORONG", Regexp: true},
	{Find: `J{2,}\s*ALAN`, Replace: "JALAN", Regexp: true},

	// Dropped leading letters on address keywords
	{Find: `\bORONG`, Replace: "LORONG", Regexp: true},
	{Find: `\bOT(\d+)`, Replace: "LOT $1", Regexp: true},
	{Find: `\bALAN(\d)`, Replace: "JALAN $1", Regexp: true},
	{Find: `\bALAN\b`, Replace: "JALAN", Regexp: true},

	// Patronymic marker split by the engine
	{Find: `BIN\s+TI\b`, Replace: "BINTI", Regexp: true},

	// Spacing around block and unit designators
	{Find: `BLOK([A-Z])\b`, Replace: "BLOK $1", Regexp: true},
	{Find: `(\d+)\s+([A-Z]+/[A-Z]+)`, Replace: "$1$2", Regexp: true},
	{Find: `(\d+)([A-Z])-`, Replace: "$1 $2-", Regexp: true},

	// Postcode and long-word boundaries
	{Find: `(\d{5})([A-Z])`, Replace: "$1 $2", Regexp: true},
	{Find: `(\d+)([A-Z]{5,})`, Replace: "$1 $2", Regexp: true},
	{Find: `\bNO(\d)`, Replace: "NO $1", Regexp: true},

	// Recurring literal misreads
	{Find: "MOHAMED SAD", Replace: "MOHAMED SAID"},
	{Find: "SERAYAA", Replace: "SERAYA A"},
	{Find: "PELANGAI", Replace: "PELANGI"},
	{Find: "INDAE", Replace: "INDAH"},
	{Find: "1OO", Replace: "100"},
}

type compiledRule struct {
	re      *regexp.Regexp
	find    string
	replace string
}

// Corrector applies an ordered rule table to recognized text. It holds no
// mutable state and is safe for concurrent use.
type Corrector struct {
	rules []compiledRule
}

// NewCorrector builds a corrector over DefaultRules.
func NewCorrector() *Corrector {
	return NewCorrectorWithRules(DefaultRules)
}

// NewCorrectorWithRules builds a corrector over an explicit rule table.
// Panics on an invalid regexp rule; rule tables are program data.
func NewCorrectorWithRules(rules []Rule) *Corrector {
	compiled := make([]compiledRule, 0, len(rules))
	for _, r := range rules {
		cr := compiledRule{find: r.Find, replace: r.Replace}
		if r.Regexp {
			cr.re = regexp.MustCompile(r.Find)
		}
		compiled = append(compiled, cr)
	}
	return &Corrector{rules: compiled}
}

// Correct runs the rule table over one line of text, in table order.
func (c *Corrector) Correct(line string) string {
	for _, r := range c.rules {
		if r.re != nil {
			line = r.re.ReplaceAllString(line, r.replace)
		} else {
			line = strings.ReplaceAll(line, r.find, r.replace)
		}
	}
	return line
}

// CorrectAll corrects every line, preserving order and count.
func (c *Corrector) CorrectAll(lines []string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = c.Correct(line)
	}
	return out
}
