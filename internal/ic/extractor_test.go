package ic

import (
	"errors"
	"testing"

	"mykadocr/pkg/models"
)

func TestExtractFrontOfCard(t *testing.T) {
	e := NewExtractor()

	lines := []string{
		"KAD PENGENALAN MALAYSIA",
		"960325-10-5977",
		"MUHAMMAD",
		"AFIQ HAMZI",
		"BIN ABD RAHMAN",
		"ISLAM",
		"LELAKI",
		"NO 12 JALAN MAWAR",
		"TAMAN SERI INDAH",
		"43000 KAJANG",
		"SELANGOR",
	}

	record, err := e.Extract(lines)
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}

	if record.IDNumber != "960325-10-5977" {
		t.Errorf("IDNumber = %q, want %q", record.IDNumber, "960325-10-5977")
	}
	if record.Name != "MUHAMMAD AFIQ HAMZI BIN ABD RAHMAN" {
		t.Errorf("Name = %q, want %q", record.Name, "MUHAMMAD AFIQ HAMZI BIN ABD RAHMAN")
	}
	if record.Gender != models.GenderMale {
		t.Errorf("Gender = %q, want %q", record.Gender, models.GenderMale)
	}
	if record.Religion != "ISLAM" {
		t.Errorf("Religion = %q, want ISLAM", record.Religion)
	}
	if record.Address != "NO 12 JALAN MAWAR, TAMAN SERI INDAH, 43000 KAJANG, SELANGOR" {
		t.Errorf("Address = %q", record.Address)
	}
	if record.DocumentType != models.DocumentTypeMyKad {
		t.Errorf("DocumentType = %q, want %q", record.DocumentType, models.DocumentTypeMyKad)
	}
}

// The minimal readable sequence: ID number, name split over three lines,
// one state line. Gender comes from ID parity since no keyword is present.
func TestExtractMinimalSequence(t *testing.T) {
	e := NewExtractor()

	record, err := e.Extract([]string{
		"960325-10-5977",
		"MUHAMMAD",
		"AFIQ HAMZI",
		"BIN ABD RAHMAN",
		"SELANGOR",
	})
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}

	if record.IDNumber != "960325-10-5977" {
		t.Errorf("IDNumber = %q", record.IDNumber)
	}
	if record.Name != "MUHAMMAD AFIQ HAMZI BIN ABD RAHMAN" {
		t.Errorf("Name = %q", record.Name)
	}
	if record.Gender != models.GenderMale {
		t.Errorf("Gender = %q, want %q", record.Gender, models.GenderMale)
	}
	if record.Address != "SELANGOR" {
		t.Errorf("Address = %q, want SELANGOR", record.Address)
	}
	// No card keyword in the text, so the classification stays unknown.
	if record.DocumentType != models.DocumentTypeUnknown {
		t.Errorf("DocumentType = %q", record.DocumentType)
	}
}

func TestExtractMergedNameAndCity(t *testing.T) {
	e := NewExtractor()

	raw := []string{
		"kad pengenalan MALAYSIA",
		"880705-08-5501",
		"NIKAMINBIN MATZIN",
		"ISLAM",
		"LELAKI",
		"LOT 123",
		"06800 ALORSETAR",
		"KEDAH",
	}

	record, err := e.Extract(e.NormalizeLines(raw))
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}

	if record.Name != "NIK AMIN BIN MAT ZIN" {
		t.Errorf("Name = %q, want %q", record.Name, "NIK AMIN BIN MAT ZIN")
	}
	if record.Address != "LOT 123, 06800 ALOR SETAR, KEDAH" {
		t.Errorf("Address = %q, want %q", record.Address, "LOT 123, 06800 ALOR SETAR, KEDAH")
	}
	if record.Gender != models.GenderMale {
		t.Errorf("Gender = %q, want %q", record.Gender, models.GenderMale)
	}
}

func TestExtractEmptyInput(t *testing.T) {
	e := NewExtractor()

	_, err := e.Extract(nil)
	if err == nil {
		t.Fatal("Extract(nil) returned no error")
	}
	if !errors.Is(err, ErrNoTextLines) {
		t.Errorf("error = %v, want ErrNoTextLines", err)
	}
}

func TestNormalizeLines(t *testing.T) {
	e := NewExtractor()

	raw := []string{
		"  kad pengenalan  ",
		"",
		"身份证",
		"nikaminbin matzin",
		"llot 1858",
	}
	want := []string{
		"KAD PENGENALAN",
		"NIK AMIN BIN MAT ZIN",
		"LOT 1858",
	}

	got := e.NormalizeLines(raw)
	if len(got) != len(want) {
		t.Fatalf("NormalizeLines returned %d lines %v, want %d", len(got), got, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

// With the ID number on both card faces in one scan, the occurrence followed
// by the name block must win, and repeat runs must agree.
func TestFindIDNumberPrefersNameAnchor(t *testing.T) {
	lines := []string{
		"PENDAFTARAN NEGARA",
		"770101-05-1234",
		"KAD PENGENALAN MALAYSIA",
		"770101-05-1234",
		"ROSLAN",
		"BIN HASSAN",
	}

	for i := 0; i < 3; i++ {
		id, idx := findIDNumber(lines)
		if id != "770101-05-1234" {
			t.Fatalf("id = %q", id)
		}
		if idx != 3 {
			t.Fatalf("anchor index = %d, want 3", idx)
		}
	}
}

func TestExtractGender(t *testing.T) {
	tests := []struct {
		name     string
		fullText string
		idNumber string
		want     string
	}{
		{"explicit female keyword", "SITI PEREMPUAN ISLAM", "960325-10-5977", models.GenderFemale},
		{"explicit male keyword", "AHMAD LELAKI ISLAM", "960325-10-5978", models.GenderMale},
		{"odd last digit", "AHMAD", "960325-10-5977", models.GenderMale},
		{"even last digit", "SITI", "960325-10-5978", models.GenderFemale},
		{"last digit one", "X", "960325-10-5971", models.GenderMale},
		{"last digit zero", "X", "960325-10-5970", models.GenderFemale},
		{"last digit nine", "X", "960325-10-5979", models.GenderMale},
		{"last digit eight", "X", "960325-10-5978", models.GenderFemale},
		{"no id no keyword", "AHMAD", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractGender(tt.fullText, tt.idNumber); got != tt.want {
				t.Errorf("extractGender(%q, %q) = %q, want %q", tt.fullText, tt.idNumber, got, tt.want)
			}
		})
	}
}

func TestExtractReligion(t *testing.T) {
	tests := []struct {
		fullText string
		want     string
	}{
		{"AHMAD ISLAM LELAKI", "ISLAM"},
		{"AHMAD ISL.AM LELAKI", "ISLAM"},
		{"AHMAD SLAM LELAKI", "ISLAM"},
		{"MARY KRISTIAN", "KRISTIAN"},
		{"TAN BUDDHA", "BUDDHA"},
		{"KUMAR HINDU", "HINDU"},
		{"SINGH SIKH", "SIKH"},
		{"NO RELIGION HERE", ""},
	}

	for _, tt := range tests {
		if got := extractReligion(tt.fullText); got != tt.want {
			t.Errorf("extractReligion(%q) = %q, want %q", tt.fullText, got, tt.want)
		}
	}
}

func TestClassifyDocument(t *testing.T) {
	tests := []struct {
		name     string
		fullText string
		idNumber string
		want     string
	}{
		{"keyword and id", "KAD PENGENALAN MALAYSIA 960325-10-5977", "960325-10-5977", models.DocumentTypeMyKad},
		{"mykad keyword", "MYKAD 960325-10-5977", "960325-10-5977", models.DocumentTypeMyKad},
		{"keyword without id", "KAD PENGENALAN MALAYSIA", "", models.DocumentTypeUnknown},
		{"id without keyword", "960325-10-5977 AHMAD", "960325-10-5977", models.DocumentTypeUnknown},
		{"neither", "RANDOM TEXT", "", models.DocumentTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyDocument(tt.fullText, tt.idNumber); got != tt.want {
				t.Errorf("classifyDocument = %q, want %q", got, tt.want)
			}
		})
	}
}

// Without a BIN/BINTI marker the name is taken from the lines after the ID
// number.
func TestExtractNameWithoutMarker(t *testing.T) {
	e := NewExtractor()

	lines := []string{
		"KAD PENGENALAN MALAYSIA",
		"900101-10-1234",
		"TAN AH KOW",
		"BUDDHA",
		"LELAKI",
	}

	record, err := e.Extract(lines)
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if record.Name != "TAN AH KOW" {
		t.Errorf("Name = %q, want %q", record.Name, "TAN AH KOW")
	}
	if record.Religion != "BUDDHA" {
		t.Errorf("Religion = %q, want BUDDHA", record.Religion)
	}
}

// When the religion and gender lines follow the ID number directly, name
// collection ends there rather than scanning past them to later lines.
func TestExtractNameStopsAtMetadataAfterAnchor(t *testing.T) {
	e := NewExtractor()

	record, err := e.Extract([]string{
		"900101-10-1234",
		"ISLAM",
		"LELAKI",
		"TAN AH KOW",
	})
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if record.Name != "" {
		t.Errorf("Name = %q, want empty", record.Name)
	}
	if record.Religion != "ISLAM" {
		t.Errorf("Religion = %q, want ISLAM", record.Religion)
	}
	if record.Gender != models.GenderMale {
		t.Errorf("Gender = %q, want %q", record.Gender, models.GenderMale)
	}
}

// The backward walk above the marker only takes the lines directly over it;
// card text separated from the name block by a junk line stays out.
func TestExtractNameBoundedAboveMarker(t *testing.T) {
	e := NewExtractor()

	lines := []string{
		"960325-10-5977",
		"KAD JENIS LAMA",
		"1/2",
		"NURUL AIN",
		"BINTI ABDULLAH",
		"ISLAM",
		"PEREMPUAN",
	}

	record, err := e.Extract(lines)
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if record.Name != "NURUL AIN BINTI ABDULLAH" {
		t.Errorf("Name = %q, want %q", record.Name, "NURUL AIN BINTI ABDULLAH")
	}
}

// A father's name wrapped onto the line after the marker is glued back on.
func TestExtractNameWrappedAfterMarker(t *testing.T) {
	e := NewExtractor()

	lines := []string{
		"960325-10-5977",
		"NURUL AIN",
		"BINTI",
		"ABDULLAH",
		"ISLAM",
		"PEREMPUAN",
	}

	record, err := e.Extract(lines)
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if record.Name != "NURUL AIN BINTI ABDULLAH" {
		t.Errorf("Name = %q, want %q", record.Name, "NURUL AIN BINTI ABDULLAH")
	}
	if record.Gender != models.GenderFemale {
		t.Errorf("Gender = %q, want %q", record.Gender, models.GenderFemale)
	}
}
