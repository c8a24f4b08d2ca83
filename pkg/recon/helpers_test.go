package recon

import (
	"testing"

	"github.com/sdejongh/photorecon/pkg/models"
)

const (
	srcRoot  = "/photos/old"
	destRoot = "/photos/new"
)

func rec(root, rel string, size uint64) models.FileRecord {
	return models.FileRecord{Root: root, FullPath: root + "/" + rel, Size: size}
}

func mustIndex(t *testing.T, loc models.Location, records []models.FileRecord, report *models.Report) *Index {
	t.Helper()
	ix, err := BuildIndex(loc, records, report)
	if err != nil {
		t.Fatalf("BuildIndex(%s) error = %v", loc, err)
	}
	return ix
}

func fullPaths(records []models.FileRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.FullPath
	}
	return out
}
