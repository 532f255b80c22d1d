package models

// Gender values for an identity record. Derived from an explicit keyword on
// the card or, failing that, from the last digit of the identity number.
const (
	GenderMale   = "Male"
	GenderFemale = "Female"
)

// Document type classifications.
const (
	DocumentTypeMyKad   = "Malaysia Identity Card (MyKad)"
	DocumentTypeUnknown = "Unknown Document"
)

// PostcodeValidation is the advisory result of checking the postcode found in
// an extracted address against the Malaysian postcode table. A failed lookup
// never invalidates the address itself.
type PostcodeValidation struct {
	Postcode string `json:"postcode"`
	Valid    bool   `json:"valid"`
	State    string `json:"state,omitempty"`
	Message  string `json:"message,omitempty"`
}

// IdentityRecord holds the structured fields extracted from one identity card
// image. Fields that could not be extracted are empty.
type IdentityRecord struct {
	// Core identity fields
	IDNumber string `json:"id_number,omitempty"` // 12-digit number in 6-2-4 form, e.g. "960325-10-5977"
	Name     string `json:"name,omitempty"`      // Full name, uppercase, space separated
	Gender   string `json:"gender,omitempty"`    // GenderMale or GenderFemale
	Religion string `json:"religion,omitempty"`  // e.g. "ISLAM", only when printed on the card
	Address  string `json:"address,omitempty"`   // Comma-joined address components

	// Advisory postcode check, nil when no five-digit postcode was found
	// or no postcode table was loaded.
	PostcodeValidation *PostcodeValidation `json:"postcode_validation,omitempty"`

	// Classification and provenance
	DocumentType     string   `json:"document_type"`
	OrientationAngle int      `json:"orientation_angle"`        // Rotation applied before recognition, degrees
	RawTextLines     []string `json:"raw_text_lines,omitempty"` // Corrected text lines in recognition order
}
