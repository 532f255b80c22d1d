// Package postcode validates Malaysian postcodes against a reference table.
// The check is advisory: extraction results stand whether or not the
// postcode resolves to a state.
package postcode

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"

	"mykadocr/pkg/models"
)

// NotFoundMessage is reported when a postcode has no entry in the table.
const NotFoundMessage = "Postcode not found in Malaysia database"

var postcodePattern = regexp.MustCompile(`\d{5}`)

// Table maps five-digit postcodes to state names. Immutable once built.
type Table struct {
	states map[string]string
}

// databaseFile mirrors the layout of the bundled malaysia_postcodes.json:
// states contain cities, cities list their postcodes.
type databaseFile struct {
	States []struct {
		Name   string `json:"name"`
		Cities []struct {
			Name      string   `json:"name"`
			Postcodes []string `json:"postcodes"`
		} `json:"cities"`
	} `json:"states"`
}

// Load reads a postcode table from the JSON database at path.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read postcode database: %w", err)
	}

	var db databaseFile
	if err := json.Unmarshal(data, &db); err != nil {
		return nil, fmt.Errorf("parse postcode database: %w", err)
	}

	states := make(map[string]string)
	for _, state := range db.States {
		for _, city := range state.Cities {
			for _, code := range city.Postcodes {
				states[code] = state.Name
			}
		}
	}
	return &Table{states: states}, nil
}

// New builds a table from an explicit postcode-to-state mapping.
func New(mapping map[string]string) *Table {
	states := make(map[string]string, len(mapping))
	for code, state := range mapping {
		states[code] = state
	}
	return &Table{states: states}
}

// Len reports the number of postcodes in the table.
func (t *Table) Len() int {
	return len(t.states)
}

// Lookup resolves a postcode to its state.
func (t *Table) Lookup(code string) (string, bool) {
	state, ok := t.states[code]
	return state, ok
}

// Validate finds the first five-digit run in address and checks it against
// the table. Returns nil when the address holds no postcode or the table is
// empty, so callers can attach the result directly to a record.
func (t *Table) Validate(address string) *models.PostcodeValidation {
	if t == nil || len(t.states) == 0 {
		return nil
	}

	code := postcodePattern.FindString(address)
	if code == "" {
		return nil
	}

	if state, ok := t.states[code]; ok {
		return &models.PostcodeValidation{
			Postcode: code,
			Valid:    true,
			State:    state,
		}
	}
	return &models.PostcodeValidation{
		Postcode: code,
		Valid:    false,
		Message:  NotFoundMessage,
	}
}
