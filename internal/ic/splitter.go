package ic

import (
	"fmt"
	"sort"
	"strings"
)

// malayWords are place and address words that OCR merges into neighbors.
var malayWords = []string{
	"KAMPUNG", "TAMAN", "JALAN", "LORONG", "PERUMAHAN", "BANDAR",
	"KOTA", "BUKIT", "PETALING", "SHAH", "DAMANSARA", "SETIAWANGSA",
	"PUTRAJAYA", "CYBERJAYA", "AMPANG", "CHERAS", "SENTOSA", "KEPONG",
	"MELAYU", "SUBANG", "SEKSYEN", "FELDA", "DESA", "ALAM", "IDAMAN", "LEMBAH",
	"PERMAI", "INDAH", "NEGERI", "SEMBILAN", "BINTI", "BIN", "PADANG", "PALOH",
	"KUALA", "BATU", "PAHAT", "LOJING", "SALAK", "TINGGI", "BARU", "WANGSA",
	"MAJU", "JAYA", "ALOR", "SETAR",
}

// malayNames are given names commonly merged on card scans.
var malayNames = []string{
	"MUHAMMAD", "ABDUL", "ABDULLAH", "AHMAD", "MOHD", "MOHAMED", "MOHAMMAD", "MUHAMAD",
	"FIRDAUS", "FARID", "FARIS", "FAIZ", "FAIZAL", "FAZL", "HAFIZ", "HAFIZZAH", "HAFIZUL",
	"HAJAR", "HAKIM", "HALIM", "HAMID", "HAMZAH", "HANIF", "HARIS", "HARITH", "HARUN",
	"HASAN", "HASSAN", "HIDAYAT", "HUSAIN", "HUSSAIN", "IBRAHIM", "IDRIS", "ILYAS",
	"IMRAN", "ISMAIL", "IZZAT", "JAFAR", "JAMIL", "KAMAL", "KARIM", "KHALID",
	"KHAMIS", "KHAIRUL", "AIMAN", "MAHDI", "MAHIR", "MAHMUD", "MAJID", "MALIK",
	"MANSOR", "MARZUQI", "MASHUD", "MASRI", "MUSTAFA", "NAIM", "NASIR", "NASRUL",
	"NAZMI", "NOOR", "NOR", "NUR", "NURUL", "RAHIM", "RAHMAN", "RAIS", "RAJA",
	"RAMLI", "RASHID", "RAZAK", "RAZALI", "RIDWAN", "ROSLAN", "ROSLEE", "ROSLI",
	"ROZMAN", "SAAD", "SABRI", "SAIFUL", "SALAHUDDIN", "SALIM", "SALLEH",
	"SAMAD", "SAMSUDDIN", "SANUSI", "SHAFIQ", "SHAHRUL", "SHAHRIL", "SHAMSUL",
	"SHARIF", "SHUKRI", "SIDDIQ", "SULAIMAN", "SYAFIQ", "SYAHIR", "SYAMSUL",
	"SYED", "TAHIR", "TAJUDDIN", "TALIB", "TAMRIN", "TARMIZI", "TAUFIK",
	"THAIB", "UMAR", "USMAN", "WAHID", "WAKI", "YAHYA", "YUSOF", "YUSOFF",
	"YUSUF", "ZAHARI", "ZAINAL", "ZAINUDDIN", "ZAKARIA", "ZAKI", "ZAMRI",
	"ZULKIFLI", "ZULKEFLI", "HAMIDEE", "NIK", "AMIN", "MAT", "ZIN",
}

// protectedWords are compounds that contain dictionary entries but must
// survive splitting intact (MAHKOTA holds KOTA, SETAPAK holds common noise).
var protectedWords = []string{"MAHKOTA", "SETAPAK"}

// Splitter breaks merged Malay words apart using a dictionary of names and
// place words. Longer entries take precedence so HAMIDEE never fragments
// into HAMID, and BINTI wins over BIN.
type Splitter struct {
	entries   []string
	protected []string
}

// NewSplitter builds a splitter over the default dictionaries.
func NewSplitter() *Splitter {
	return NewSplitterWithEntries(append(append([]string{}, malayWords...), malayNames...))
}

// NewSplitterWithEntries builds a splitter over an explicit dictionary.
func NewSplitterWithEntries(entries []string) *Splitter {
	sorted := append([]string{}, entries...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i]) > len(sorted[j])
	})
	return &Splitter{
		entries:   sorted,
		protected: protectedWords,
	}
}

// Split inserts spaces around every dictionary entry found in text and
// collapses the result to single spaces. Only whitespace changes: stripping
// all spaces from input and output yields the same character sequence.
func (s *Splitter) Split(text string) string {
	// Shield protected compounds behind letter-free placeholders so the
	// dictionary cannot match inside them.
	for i, word := range s.protected {
		text = strings.ReplaceAll(text, word, protectedPlaceholder(i))
	}

	// Replace entries longest-first with unique markers, then expand the
	// markers with surrounding spaces. Direct replacement would let short
	// entries match inside the expansions of longer ones.
	type replacement struct {
		marker string
		word   string
	}
	var replacements []replacement
	for _, entry := range s.entries {
		if !strings.Contains(text, entry) {
			continue
		}
		marker := entryMarker(len(replacements))
		text = strings.ReplaceAll(text, entry, marker)
		replacements = append(replacements, replacement{marker: marker, word: entry})
	}
	for _, r := range replacements {
		text = strings.ReplaceAll(text, r.marker, " "+r.word+" ")
	}

	for i, word := range s.protected {
		text = strings.ReplaceAll(text, protectedPlaceholder(i), word)
	}

	return collapseSpaces(text)
}

// Markers and placeholders contain no letters, so no dictionary entry can
// match inside them.
func entryMarker(n int) string {
	return fmt.Sprintf("\x00%03d\x00", n)
}

func protectedPlaceholder(n int) string {
	return fmt.Sprintf("\x01%03d\x01", n)
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
