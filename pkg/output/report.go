package output

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sdejongh/photorecon/pkg/models"
)

// WriteReport persists report as JSON at path.
// The "renamed" section is only written when includeRenamed is set.
func WriteReport(report *models.Report, path string, includeRenamed bool) error {
	var (
		data []byte
		err  error
	)
	if includeRenamed {
		data, err = report.SerializeWithRenamed()
	} else {
		data, err = report.Serialize()
	}
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("%w: failed to create report directory: %v", models.ErrSerialization, err)
		}
	}

	// Written to a sibling temp file, then renamed over path
	tmp, err := os.CreateTemp(filepath.Dir(path), ".report-*.json")
	if err != nil {
		return fmt.Errorf("%w: failed to create report file: %v", models.ErrSerialization, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: failed to write report: %v", models.ErrSerialization, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: failed to write report: %v", models.ErrSerialization, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: failed to move report into place: %v", models.ErrSerialization, err)
	}

	return nil
}

// ReadReport loads a report previously written by WriteReport
func ReadReport(path string) (*models.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report: %w", err)
	}
	return models.DeserializeReport(data)
}
