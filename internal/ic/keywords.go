package ic

import (
	"regexp"
	"strings"
)

// Keyword tables for Malaysian identity card text. All matching happens on
// uppercased lines.

// documentKeywords identify the front of a MyKad for classification.
var documentKeywords = []string{
	"KAD PENGENALAN",
	"MYKAD",
	"IDENTITYCARD",
	"IDENTITY CARD",
	"WARGANEGARA",
}

// headerKeywords mark card boilerplate lines that carry no field data.
// Includes common OCR misreads of the header.
var headerKeywords = []string{
	"KAD PENGENALAN",
	"KAD PENGENJALAN",
	"PENGENALAN",
	"MYKAD",
	"MALAYSIA",
	"IDENTITY",
	"CARD",
}

// noiseWords are watermarks and misreads that never belong to a field.
var noiseWords = []string{
	"ONLY", "SAMPLE", "SPECIMEN", "WATERMARK", "COPYRIGHT",
	"AKER", "ERAJ", "MALAY", "SIA", "PENT", "PENGENJALAN",
	"LALAYSI", "TOUCH", "CHIP", "SEFA",
}

// backOfCardMarkers indicate text from the reverse side of the card;
// address collection stops when one appears.
var backOfCardMarkers = []string{"PENDAFTARAN", "CHIP", "TOUCH", "80K"}

// religionKeywords map card text to a religion, checked in priority order so
// OCR variants of ISLAM win over later faiths.
var religionKeywords = []struct {
	Keyword string
	Value   string
}{
	{"ISLAM", "ISLAM"},
	{"ISL.AM", "ISLAM"},
	{"SLAM", "ISLAM"},
	{"ISLAMIC", "ISLAM"},
	{"KRISTIAN", "KRISTIAN"},
	{"BUDDHA", "BUDDHA"},
	{"HINDU", "HINDU"},
	{"SIKH", "SIKH"},
}

// genderReligionKeywords flag lines that hold gender or religion text and so
// cannot be part of the address.
var genderReligionKeywords = []string{
	"LELAKI", "PEREMPUAN", "ISLAM", "KRISTIAN", "BUDDHA", "HINDU", "SIKH",
	"ISL.AM", "ISLAMIC",
}

// addressKeywords start or continue address collection when a line begins
// with one of them.
var addressKeywords = []string{
	"LOT", "JALAN", "KAMPUNG", "KG", "JLN", "NO", "BATU", "LEBUH", "LORONG",
	"JAMBATAN", "PPR", "BLOK", "UNIT", "TINGKAT", "TAMAN", "BANDAR",
	"PERINGKAT", "FELDA", "DESA", "PERMAI",
}

// prefixOnlyKeywords must be followed by a digit or space to count as an
// address prefix, so "NOS" or "KGS" do not trigger collection.
var prefixOnlyKeywords = map[string]bool{"NO": true, "JLN": true, "KG": true}

// stateNames cover the Malaysian states with the spaceless OCR variants.
var stateNames = []string{
	"TERENGGANU", "SELANGOR", "KUALA LUMPUR", "KUALALUMPUR",
	"JOHOR", "KEDAH", "KELANTAN", "LABUAN", "MELAKA",
	"NEGERI SEMBILAN", "NEGERISEMBILAN", "PAHANG", "PENANG", "PERAK",
	"PERLIS", "SABAH", "SARAWAK", "WILAYAH PERSEKUTUAN",
	"PULAU PINANG", "PINANG", "PUTRAJAYA",
}

// stateNameFixups normalize spaceless state misreads, applied in order.
var stateNameFixups = []struct {
	From *regexp.Regexp
	To   string
}{
	{regexp.MustCompile(`NEGERISEMBILAN`), "NEGERI SEMBILAN"},
	{regexp.MustCompile(`KUALALUMPUR`), "KUALA LUMPUR"},
	{regexp.MustCompile(`\bKL\b`), "KUALA LUMPUR"},
}

// placeNameFilters are place names that look name-like but must never be
// collected into a person's name.
var placeNameFilters = []string{
	"PULAU PINANG", "SUNGAI DUA", "GELUGOR", "SELANGOR", "JOHOR", "KEDAH",
	"PERAK", "PAHANG", "KELANTAN", "TERENGGANU", "MELAKA", "SABAH", "SARAWAK",
	"KUALA LUMPUR", "PUTRAJAYA", "LABUAN", "PERLIS", "NEGERI SEMBILAN",
	"PENANG", "PINANG", "PETALING", "SHAH ALAM", "IPOH", "KOTA BHARU",
}

// metadataKeywords stop name collection: field labels, religions, genders
// and card boilerplate.
var metadataKeywords = []string{
	"LELAKI", "PEREMPUAN", "ISLAM", "KRISTIAN", "BUDDHA", "HINDU", "SIKH",
	"WARGANEGARA", "KAD PENGENALAN", "PENGENALAN", "MYKAD", "MALAYSIA",
	"IDENTITY", "AGAMA", "JANTINA", "KETURUNAN",
}

// nameStopAddressKeywords end name collection when a line begins an address.
var nameStopAddressKeywords = []string{
	"LOT", "JLN", "JALAN", "LORONG", "KAMPUNG", "APARTMENT", "APT", "BLOK",
	"PERINGKAT", "FELDA", "TAMAN",
}

// Shared patterns.
var (
	idNumberPattern   = regexp.MustCompile(`\d{6}-\d{2}-\d{4}`)
	idNumberLine      = regexp.MustCompile(`^\d{6}-\d{2}-\d{3,4}$`)
	rawIDNumberLine   = regexp.MustCompile(`^\d{12}$`)
	backOfCardPattern = regexp.MustCompile(`\d{6}-\d{2}-\d{4}-\d{2}-\d{2}`)
	unitPattern       = regexp.MustCompile(`^[A-Z]{1,2}-\d`)
	postcodeCityLine  = regexp.MustCompile(`^\d{5}\s*[A-Z]`)
	postcodeCitySpace = regexp.MustCompile(`^\d{5}\s+[A-Z]`)
	nameLinePattern   = regexp.MustCompile(`^[A-Z\s'@.\-/]+$`)
	markerPattern     = regexp.MustCompile(`\bBIN(TI)?\b`)
)

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
