package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/sdejongh/photorecon/pkg/models"
)

var (
	headerColor  = color.New(color.Bold)
	okColor      = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
	missingColor = color.New(color.FgRed)
)

// missingLabels names each Missing list by the side it is absent from
var missingLabels = map[models.Location]string{
	models.LocationSource:      "Missing from destination",
	models.LocationDestination: "Missing from source",
}

// WriteSummary writes a human-readable summary of report.
// With verbose set, every duplicate, rename and missing file is listed.
func WriteSummary(w io.Writer, report *models.Report, verbose bool) error {
	title := "Reconciliation Summary"
	headerColor.Fprintf(w, "%s\n%s\n", title, strings.Repeat("=", len(title)))
	if report.RunID != "" {
		fmt.Fprintf(w, "Run:          %s\n", report.RunID)
	}
	fmt.Fprintln(w)

	for _, loc := range models.Locations() {
		if scanned, ok := report.Scanned[loc]; ok {
			fmt.Fprintf(w, "%-13s %d files, %d unique\n", string(loc)+":", scanned, report.Unique[loc])
		}
	}

	dupColor := okColor
	if len(report.Duplicates) > 0 {
		dupColor = warnColor
	}
	dupColor.Fprintf(w, "%-13s %d\n", "Duplicates:", len(report.Duplicates))
	if len(report.Renamed) > 0 {
		fmt.Fprintf(w, "%-13s %d\n", "Renamed:", len(report.Renamed))
	}

	for _, loc := range models.Locations() {
		missing := report.Missing[loc]
		c := okColor
		if len(missing) > 0 {
			c = missingColor
		}
		c.Fprintf(w, "%s: %d\n", missingLabels[loc], len(missing))
	}

	if !verbose {
		return nil
	}

	if len(report.Duplicates) > 0 {
		writeSection(w, fmt.Sprintf("Duplicates (%d)", len(report.Duplicates)))
		for _, d := range report.Duplicates {
			fmt.Fprintf(w, "  [%s] %s\n", d.Location, d.Kept.FullPath)
			fmt.Fprintf(w, "    also: %s (%s)\n", d.Displaced.FullPath, formatBytes(d.Displaced.Size))
		}
	}

	if len(report.Renamed) > 0 {
		writeSection(w, fmt.Sprintf("Renamed (%d)", len(report.Renamed)))
		for _, r := range report.Renamed {
			fmt.Fprintf(w, "  [%s] %s -> %s (%s)\n", r.Location, r.Record.FullPath, r.Match.FullPath, r.Rule)
		}
	}

	for _, loc := range models.Locations() {
		missing := report.Missing[loc]
		if len(missing) == 0 {
			continue
		}
		writeSection(w, fmt.Sprintf("%s (%d)", missingLabels[loc], len(missing)))
		for _, rec := range missing {
			fmt.Fprintf(w, "  %s (%s)\n", rec.FullPath, formatBytes(rec.Size))
		}
	}

	return nil
}

func writeSection(w io.Writer, label string) {
	fmt.Fprintf(w, "\n%s\n%s\n", label, strings.Repeat("-", len(label)))
}

// formatBytes formats bytes in human-readable format
func formatBytes(bytes uint64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := uint64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
