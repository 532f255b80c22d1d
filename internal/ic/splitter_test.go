package ic

import (
	"strings"
	"testing"
)

func TestSplitterSplit(t *testing.T) {
	s := NewSplitter()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"merged name with marker", "NIKAMINBIN MATZIN", "NIK AMIN BIN MAT ZIN"},
		{"merged city", "ALORSETAR", "ALOR SETAR"},
		{"postcode before merged city", "06800 ALORSETAR", "06800 ALOR SETAR"},
		{"merged area name", "BANDARBARUSALAKTINGGI", "BANDAR BARU SALAK TINGGI"},
		{"binti wins over bin", "SITIBINTIROSLAN", "SITI BINTI ROSLAN"},
		{"already split stays put", "TAMAN SERI INDAH", "TAMAN SERI INDAH"},
		{"no dictionary hits", "XYZQW", "XYZQW"},
		{"collapses extra spaces", "TAMAN   SERI    INDAH", "TAMAN SERI INDAH"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Split(tt.in); got != tt.want {
				t.Errorf("Split(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

// Protected compounds contain dictionary entries but must come through whole.
func TestSplitterProtectedWords(t *testing.T) {
	s := NewSplitter()

	tests := []struct {
		in   string
		want string
	}{
		{"TAMAN MAHKOTA", "TAMAN MAHKOTA"},
		{"SETAPAK KUALA LUMPUR", "SETAPAK KUALA LUMPUR"},
	}

	for _, tt := range tests {
		if got := s.Split(tt.in); got != tt.want {
			t.Errorf("Split(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// Longer dictionary entries take precedence: HAMIDEE must not fragment into
// HAMID plus leftovers.
func TestSplitterLongestEntryWins(t *testing.T) {
	s := NewSplitter()

	if got := s.Split("HAMIDEE"); got != "HAMIDEE" {
		t.Errorf("Split(HAMIDEE) = %q, want HAMIDEE", got)
	}
	if got := s.Split("MOHDHAMIDEE"); got != "MOHD HAMIDEE" {
		t.Errorf("Split(MOHDHAMIDEE) = %q, want MOHD HAMIDEE", got)
	}
}

// Splitting only moves whitespace: removing all spaces from input and output
// must yield the same character sequence.
func TestSplitterOnlyWhitespaceChanges(t *testing.T) {
	s := NewSplitter()

	inputs := []string{
		"NIKAMINBIN MATZIN",
		"06800 ALORSETAR",
		"BANDARBARUSALAKTINGGI",
		"TAMAN MAHKOTA SETAPAK",
		"NO 12 JALAN MAWAR",
		"MUHAMMAD AFIQ HAMZI BIN ABD RAHMAN",
	}

	strip := func(v string) string {
		return strings.ReplaceAll(v, " ", "")
	}

	for _, in := range inputs {
		got := s.Split(in)
		if strip(got) != strip(in) {
			t.Errorf("Split(%q) changed characters: got %q", in, got)
		}
	}
}

func TestSplitterCustomEntries(t *testing.T) {
	s := NewSplitterWithEntries([]string{"FOO", "FOOBAR"})

	// FOOBAR is longer and must match before FOO.
	if got := s.Split("XFOOBARX"); got != "X FOOBAR X" {
		t.Errorf("Split(XFOOBARX) = %q, want %q", got, "X FOOBAR X")
	}
}
