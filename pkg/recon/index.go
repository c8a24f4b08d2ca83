package recon

import (
	"fmt"

	"github.com/sdejongh/photorecon/pkg/models"
)

type indexEntry struct {
	record       models.FileRecord
	relativePath string
}

// Index maps identities to records for one location.
// Iteration follows the order in which identities were first seen.
type Index struct {
	location models.Location
	entries  map[models.Identity]indexEntry
	order    []models.Identity
}

// BuildIndex consumes records in order and indexes them by identity.
// When an identity repeats, the later record is kept and the pair is
// reported as a duplicate of location. A malformed record fails the
// whole build before anything is reported.
func BuildIndex(location models.Location, records []models.FileRecord, report *models.Report) (*Index, error) {
	rels := make([]string, len(records))
	for i, rec := range records {
		rel, err := rec.RelativePath()
		if err != nil {
			return nil, fmt.Errorf("failed to index %s: %w", location, err)
		}
		rels[i] = rel
	}

	ix := &Index{
		location: location,
		entries:  make(map[models.Identity]indexEntry, len(records)),
		order:    make([]models.Identity, 0, len(records)),
	}

	for i, rec := range records {
		id := models.IdentityOf(rels[i], rec.Size)
		if prev, exists := ix.entries[id]; exists {
			report.AddDuplicate(location, rec, prev.record)
		} else {
			ix.order = append(ix.order, id)
		}
		ix.entries[id] = indexEntry{record: rec, relativePath: rels[i]}
	}

	report.AddScan(location, len(records), len(ix.order))

	return ix, nil
}

// Location returns the side this index was built for
func (ix *Index) Location() models.Location {
	return ix.location
}

// Len returns the number of distinct identities
func (ix *Index) Len() int {
	return len(ix.order)
}

// Lookup returns the record kept for id
func (ix *Index) Lookup(id models.Identity) (models.FileRecord, bool) {
	e, ok := ix.entries[id]
	return e.record, ok
}

// Contains reports whether id is indexed
func (ix *Index) Contains(id models.Identity) bool {
	_, ok := ix.entries[id]
	return ok
}

// Identities returns the indexed identities in first-seen order
func (ix *Index) Identities() []models.Identity {
	out := make([]models.Identity, len(ix.order))
	copy(out, ix.order)
	return out
}

// Missing returns the identities of ix absent from other, in ix order
func (ix *Index) Missing(other *Index) []models.Identity {
	var out []models.Identity
	for _, id := range ix.order {
		if !other.Contains(id) {
			out = append(out, id)
		}
	}
	return out
}
