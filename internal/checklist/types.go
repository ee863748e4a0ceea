package checklist

import (
	"encoding/json"
	"strconv"
)

// UnknownCountMarker is displayed when an observation carries no usable count.
const UnknownCountMarker = "X"

// UnknownLocation is used when neither the checklist nor the hotspot lookup names the site.
const UnknownLocation = "Unknown Location"

// TaxonEntry holds the display names for one species code.
type TaxonEntry struct {
	Name    string `json:"name"`
	SciName string `json:"sci_name,omitempty"`
}

// Taxonomy maps eBird species codes to their names.
type Taxonomy map[string]TaxonEntry

// Lookup returns the entry for code, falling back to the code itself as the
// common name when the taxonomy does not know it.
func (t Taxonomy) Lookup(code string) TaxonEntry {
	if entry, ok := t[code]; ok {
		return entry
	}
	return TaxonEntry{Name: code}
}

// Observation is one species record inside a checklist-view response.
type Observation struct {
	SpeciesCode    string `json:"speciesCode"`
	HowManyAtleast *int   `json:"howManyAtleast,omitempty"`
	HowManyAtmost  *int   `json:"howManyAtmost,omitempty"`
}

// Checklist is the decoded checklist-view payload.
type Checklist struct {
	SubID   string        `json:"subId"`
	LocID   string        `json:"locId"`
	LocName string        `json:"locName,omitempty"`
	ObsDt   string        `json:"obsDt"`
	Obs     []Observation `json:"obs"`
}

// Count is an observed count, or the unknown sentinel.
type Count struct {
	value int
	known bool
}

// KnownCount wraps an observed number of individuals.
func KnownCount(n int) Count {
	return Count{value: n, known: true}
}

// UnknownCount returns the sentinel used when no count was reported.
func UnknownCount() Count {
	return Count{}
}

// Value returns the count and whether it is known.
func (c Count) Value() (int, bool) {
	return c.value, c.known
}

// String renders the count for display.
func (c Count) String() string {
	if !c.known {
		return UnknownCountMarker
	}
	return strconv.Itoa(c.value)
}

// MarshalJSON encodes known counts as numbers and the sentinel as "X".
func (c Count) MarshalJSON() ([]byte, error) {
	if !c.known {
		return json.Marshal(UnknownCountMarker)
	}
	return json.Marshal(c.value)
}

// SpeciesEntry is one row of the assembled checklist.
type SpeciesEntry struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	SciName  string `json:"sci_name,omitempty"`
	Count    Count  `json:"count"`
	PhotoURL string `json:"photo_url,omitempty"`
}

// HasPhoto reports whether a photo was resolved for the species.
func (e SpeciesEntry) HasPhoto() bool {
	return e.PhotoURL != ""
}

// Summary is the normalized checklist handed to the site generator.
type Summary struct {
	Location string         `json:"location"`
	Date     string         `json:"date"`
	Species  []SpeciesEntry `json:"species"`
}
