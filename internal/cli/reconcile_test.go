package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdejongh/photorecon/pkg/config"
	"github.com/sdejongh/photorecon/pkg/models"
	"github.com/sdejongh/photorecon/pkg/output"
	"github.com/sdejongh/photorecon/pkg/recon"
	"github.com/sdejongh/photorecon/pkg/storage"
)

// TestHelper provides temporary source and destination trees
type TestHelper struct {
	t       *testing.T
	tempDir string
	source  string
	dest    string
}

// NewTestHelper creates empty source and destination directories
func NewTestHelper(t *testing.T) *TestHelper {
	t.Helper()
	tempDir := t.TempDir()
	h := &TestHelper{
		t:       t,
		tempDir: tempDir,
		source:  filepath.Join(tempDir, "source"),
		dest:    filepath.Join(tempDir, "dest"),
	}
	require.NoError(t, os.MkdirAll(h.source, 0755))
	require.NoError(t, os.MkdirAll(h.dest, 0755))
	return h
}

func (h *TestHelper) write(root, rel string, size int) {
	h.t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(h.t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(h.t, os.WriteFile(path, make([]byte, size), 0644))
}

// CreateSourceFile creates a zero-filled file of size bytes under source
func (h *TestHelper) CreateSourceFile(rel string, size int) { h.write(h.source, rel, size) }

// CreateDestFile creates a zero-filled file of size bytes under dest
func (h *TestHelper) CreateDestFile(rel string, size int) { h.write(h.dest, rel, size) }

// Config returns a quiet configuration for the helper's trees
func (h *TestHelper) Config() *config.Config {
	cfg := config.Default()
	cfg.Sources = []string{h.source}
	cfg.Destination = h.dest
	cfg.Report.Path = filepath.Join(h.tempDir, "report.json")
	cfg.Output.Progress = false
	cfg.Exclude = nil
	return cfg
}

func (h *TestHelper) execute(cfg *config.Config) (*models.Report, string) {
	h.t.Helper()
	var stdout, stderr bytes.Buffer
	report, err := Execute(context.Background(), cfg, &stdout, &stderr, true)
	require.NoError(h.t, err)
	return report, stdout.String()
}

func names(records []models.FileRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = filepath.Base(r.FullPath)
	}
	return out
}

func TestExecute_MissingAndDuplicates(t *testing.T) {
	h := NewTestHelper(t)
	h.CreateSourceFile("a.jpg", 100)
	h.CreateSourceFile("b.jpg", 200)
	h.CreateDestFile("a.jpg", 100)
	h.CreateDestFile("extra.jpg", 5)

	cfg := h.Config()
	report, out := h.execute(cfg)

	assert.Equal(t, []string{"b.jpg"}, names(report.Missing[models.LocationSource]))
	assert.Equal(t, []string{"extra.jpg"}, names(report.Missing[models.LocationDestination]))
	assert.Empty(t, report.Duplicates)
	assert.NotEmpty(t, report.RunID)
	assert.Contains(t, out, "Missing from destination: 1")
	assert.Contains(t, out, "Report saved to "+cfg.Report.Path)

	saved, err := output.ReadReport(cfg.Report.Path)
	require.NoError(t, err)
	assert.Equal(t, report.Missing, saved.Missing)
}

func TestExecute_MultipleSourcesCollide(t *testing.T) {
	h := NewTestHelper(t)
	second := filepath.Join(h.tempDir, "source2")
	h.CreateSourceFile("c.jpg", 50)
	h.write(second, "C.JPG", 50)
	h.CreateDestFile("c.jpg", 50)

	cfg := h.Config()
	cfg.Sources = []string{h.source, second}
	report, _ := h.execute(cfg)

	require.Len(t, report.Duplicates, 1)
	dup := report.Duplicates[0]
	assert.Equal(t, models.LocationSource, dup.Location)
	assert.Equal(t, filepath.Join(second, "C.JPG"), dup.Kept.FullPath, "the later root wins")
	assert.Equal(t, filepath.Join(h.source, "c.jpg"), dup.Displaced.FullPath)
	assert.Empty(t, report.Missing[models.LocationSource])
}

func TestExecute_TransformRules(t *testing.T) {
	h := NewTestHelper(t)
	h.CreateSourceFile("d.jpg", 300)
	h.CreateDestFile("d-2.jpg", 300)

	cfg := h.Config()
	cfg.Transform.Destination = recon.RuleSet{{Match: ".jpg", Replace: "-2.jpg"}}
	cfg.Transform.Source = recon.RuleSet{{Match: "-2.", Replace: "."}}
	cfg.Report.IncludeRenamed = true
	report, _ := h.execute(cfg)

	assert.Empty(t, report.Missing[models.LocationSource])
	assert.Empty(t, report.Missing[models.LocationDestination])
	assert.Len(t, report.Renamed, 2)

	data, err := os.ReadFile(cfg.Report.Path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"renamed"`)
}

func TestExecute_OneWayAndFilters(t *testing.T) {
	h := NewTestHelper(t)
	h.CreateSourceFile("a.jpg", 1)
	h.CreateSourceFile("desktop.ini", 1)
	h.CreateSourceFile("sub/deep.jpg", 1)
	h.CreateDestFile("only-dest.jpg", 1)

	cfg := h.Config()
	cfg.Mode = models.ModeOneWay
	cfg.Recursive = false
	cfg.ExcludeExtensions = []string{"ini"}
	report, _ := h.execute(cfg)

	assert.Equal(t, []string{"a.jpg"}, names(report.Missing[models.LocationSource]))
	assert.Empty(t, report.Missing[models.LocationDestination])
}

func TestExecute_EmptyCollections(t *testing.T) {
	h := NewTestHelper(t)
	report, _ := h.execute(h.Config())

	assert.Empty(t, report.Duplicates)
	for _, loc := range models.Locations() {
		assert.Empty(t, report.Missing[loc])
	}
}

func TestExecute_ManifestDestination(t *testing.T) {
	tests := []struct {
		name     string
		manifest string
	}{
		{"slash paths", `root: /Internal storage/WhatsApp Images
files:
  - path: /Internal storage/WhatsApp Images/IMG-1.jpg
    size: 10
  - path: /Internal storage/WhatsApp Images/Sent/IMG-3.jpg
    size: 30
`},
		{"backslash paths", `root: '\Internal storage\WhatsApp Images'
files:
  - path: '\Internal storage\WhatsApp Images\IMG-1.jpg'
    size: 10
  - path: '\Internal storage\WhatsApp Images\Sent\IMG-3.jpg'
    size: 30
`},
		{"trailing slash root", `root: /Internal storage/WhatsApp Images/
files:
  - path: /Internal storage/WhatsApp Images/IMG-1.jpg
    size: 10
  - path: /Internal storage/WhatsApp Images/Sent/IMG-3.jpg
    size: 30
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewTestHelper(t)
			h.CreateSourceFile("IMG-1.jpg", 10)
			h.CreateSourceFile("IMG-2.jpg", 20)
			h.CreateSourceFile(filepath.Join("Sent", "IMG-3.jpg"), 30)

			manifest := filepath.Join(h.tempDir, "phone.yaml")
			require.NoError(t, os.WriteFile(manifest, []byte(tt.manifest), 0644))

			cfg := h.Config()
			cfg.Destination = "manifest:" + manifest
			report, _ := h.execute(cfg)

			assert.Equal(t, []string{"IMG-2.jpg"}, names(report.Missing[models.LocationSource]))
			assert.Empty(t, report.Missing[models.LocationDestination])
		})
	}
}

func TestExecute_UnavailableRootFailsRun(t *testing.T) {
	h := NewTestHelper(t)
	h.CreateSourceFile("a.jpg", 1)

	cfg := h.Config()
	cfg.Destination = filepath.Join(h.tempDir, "unplugged")

	var stdout bytes.Buffer
	report, err := Execute(context.Background(), cfg, &stdout, &bytes.Buffer{}, false)
	assert.ErrorIs(t, err, storage.ErrSourceUnavailable)
	assert.Nil(t, report)
	assert.NoFileExists(t, cfg.Report.Path, "no report is written for an aborted run")
}

func TestExecute_ReportWriteFailureKeepsReport(t *testing.T) {
	h := NewTestHelper(t)
	h.CreateSourceFile("a.jpg", 1)

	cfg := h.Config()
	blocker := filepath.Join(h.tempDir, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))
	cfg.Report.Path = filepath.Join(blocker, "report.json")

	report, err := Execute(context.Background(), cfg, &bytes.Buffer{}, &bytes.Buffer{}, false)
	assert.ErrorIs(t, err, models.ErrSerialization)
	require.NotNil(t, report)
	assert.Len(t, report.Missing[models.LocationSource], 1)
}

func TestExecute_LogFile(t *testing.T) {
	h := NewTestHelper(t)
	h.CreateSourceFile("a.jpg", 1)

	cfg := h.Config()
	cfg.Logging.Enabled = true
	cfg.Logging.File = filepath.Join(h.tempDir, "logs", "recon.log")
	cfg.Output.Quiet = true
	report, out := h.execute(cfg)

	assert.Empty(t, out, "quiet mode prints nothing")
	data, err := os.ReadFile(cfg.Logging.File)
	require.NoError(t, err)
	assert.Contains(t, string(data), "run_id="+report.RunID)
	assert.Contains(t, string(data), "reconciliation completed")
}

func TestValidateRun(t *testing.T) {
	h := NewTestHelper(t)

	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{"valid", func(*config.Config) {}, ""},
		{"no sources", func(c *config.Config) { c.Sources = nil }, "sources"},
		{"same path", func(c *config.Config) { c.Destination = h.source }, "cannot be the same"},
		{"dest inside source", func(c *config.Config) { c.Destination = filepath.Join(h.source, "x") }, "inside source"},
		{"source inside dest", func(c *config.Config) { c.Sources = []string{filepath.Join(h.dest, "x")} }, "inside destination"},
		{"duplicate source", func(c *config.Config) { c.Sources = []string{h.source, h.source} }, "listed twice"},
		{"manifest skips path checks", func(c *config.Config) { c.Destination = "manifest:" + h.source }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := h.Config()
			tt.mutate(cfg)
			err := validateRun(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, strings.Contains(err.Error(), tt.wantErr), "error %q should mention %q", err, tt.wantErr)
		})
	}
}

func TestApplyFlagsToConfig(t *testing.T) {
	cfg := config.Default()
	flags := &ReconcileFlags{
		Sources:     []string{"/a", "/b"},
		Dest:        "/c",
		Mode:        "oneway",
		DestRules:   []string{".jpg=-2.jpg"},
		SourceRules: []string{"-2.=.", "-3.=."},
		Report:      "out.json",
		NoRecursive: true,
		Parallel:    8,
		LogFile:     "recon.log",
	}

	require.NoError(t, applyFlagsToConfig(cfg, flags))
	assert.Equal(t, []string{"/a", "/b"}, cfg.Sources)
	assert.Equal(t, "/c", cfg.Destination)
	assert.Equal(t, models.ModeOneWay, cfg.Mode)
	assert.Equal(t, recon.RuleSet{{Match: ".jpg", Replace: "-2.jpg"}}, cfg.Transform.Destination)
	assert.Len(t, cfg.Transform.Source, 2)
	assert.Equal(t, "out.json", cfg.Report.Path)
	assert.False(t, cfg.Recursive)
	assert.Equal(t, 8, cfg.Performance.MaxWorkers)
	assert.True(t, cfg.Logging.Enabled)

	assert.Error(t, applyFlagsToConfig(config.Default(), &ReconcileFlags{Mode: "sideways"}))
	assert.Error(t, applyFlagsToConfig(config.Default(), &ReconcileFlags{DestRules: []string{"nope"}}))
}
