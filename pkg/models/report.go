package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrSerialization is returned when a report cannot be encoded or decoded
var ErrSerialization = errors.New("report serialization failed")

// DuplicatePair is two records of one location sharing an identity
type DuplicatePair struct {
	Location  Location   `json:"location"`
	Kept      FileRecord `json:"photo1"`
	Displaced FileRecord `json:"photo2"`
}

// MissingEntry is a record with no counterpart on the other side.
// Location is where the record lives.
type MissingEntry struct {
	Location Location
	Record   FileRecord
}

// RenamedEntry is a record that only matched its counterpart after a path
// transform rule was applied
type RenamedEntry struct {
	Location Location   `json:"location"`
	Record   FileRecord `json:"photo"`
	Match    FileRecord `json:"match"`
	Rule     string     `json:"rule"`
}

// Report accumulates the results of one reconciliation run
type Report struct {
	// RunID identifies the run in logs; it is not persisted
	RunID string

	Duplicates []DuplicatePair
	Missing    map[Location][]FileRecord
	Renamed    []RenamedEntry

	// Scan counts per location, filled by the index builder
	Scanned map[Location]int
	Unique  map[Location]int
}

// NewReport creates an empty report with a missing list for every location
func NewReport() *Report {
	r := &Report{
		Duplicates: []DuplicatePair{},
		Missing:    make(map[Location][]FileRecord),
		Renamed:    []RenamedEntry{},
		Scanned:    make(map[Location]int),
		Unique:     make(map[Location]int),
	}
	for _, loc := range Locations() {
		r.Missing[loc] = []FileRecord{}
	}
	return r
}

// AddDuplicate records that displaced was replaced by kept within location
func (r *Report) AddDuplicate(location Location, kept, displaced FileRecord) {
	r.Duplicates = append(r.Duplicates, DuplicatePair{
		Location:  location,
		Kept:      kept,
		Displaced: displaced,
	})
}

// AddMissing records that record, which lives at location, has no counterpart
func (r *Report) AddMissing(location Location, record FileRecord) {
	r.ensure()
	r.Missing[location] = append(r.Missing[location], record)
}

// AddScan adds the record and distinct identity counts of one indexed batch
func (r *Report) AddScan(location Location, scanned, unique int) {
	r.ensure()
	r.Scanned[location] += scanned
	r.Unique[location] += unique
}

// ensure allocates the maps of a zero Report
func (r *Report) ensure() {
	if r.Missing == nil {
		r.Missing = make(map[Location][]FileRecord)
	}
	if r.Scanned == nil {
		r.Scanned = make(map[Location]int)
	}
	if r.Unique == nil {
		r.Unique = make(map[Location]int)
	}
}

// AddRenamed records a transform-rule match
func (r *Report) AddRenamed(entry RenamedEntry) {
	r.Renamed = append(r.Renamed, entry)
}

// MissingEntries flattens Missing in location order
func (r *Report) MissingEntries() []MissingEntry {
	var entries []MissingEntry
	for _, loc := range Locations() {
		for _, rec := range r.Missing[loc] {
			entries = append(entries, MissingEntry{Location: loc, Record: rec})
		}
	}
	return entries
}

// document is the persisted shape of a report
type document struct {
	Duplicates []DuplicatePair           `json:"duplicates"`
	Missing    map[Location][]FileRecord `json:"missing"`
	Renamed    []RenamedEntry            `json:"renamed,omitempty"`
}

// Serialize encodes the report as its persisted JSON document
func (r *Report) Serialize() ([]byte, error) {
	return r.encode(false)
}

// SerializeWithRenamed also persists transform-rule matches under "renamed"
func (r *Report) SerializeWithRenamed() ([]byte, error) {
	return r.encode(true)
}

func (r *Report) encode(withRenamed bool) ([]byte, error) {
	doc := document{
		Duplicates: r.Duplicates,
		Missing:    r.Missing,
	}
	if doc.Duplicates == nil {
		doc.Duplicates = []DuplicatePair{}
	}
	if doc.Missing == nil {
		doc.Missing = make(map[Location][]FileRecord)
	}
	for _, loc := range Locations() {
		if doc.Missing[loc] == nil {
			doc.Missing[loc] = []FileRecord{}
		}
	}
	if withRenamed {
		doc.Renamed = r.Renamed
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	return data, nil
}

// DeserializeReport decodes a persisted report document
func DeserializeReport(data []byte) (*Report, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialization, err)
	}

	r := NewReport()
	if doc.Duplicates != nil {
		r.Duplicates = doc.Duplicates
	}
	for loc, records := range doc.Missing {
		if records == nil {
			records = []FileRecord{}
		}
		r.Missing[loc] = records
	}
	if doc.Renamed != nil {
		r.Renamed = doc.Renamed
	}
	return r, nil
}
