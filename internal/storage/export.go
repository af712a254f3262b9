package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/morsesim/internal/metrics"
)

type ExportData struct {
	Run     RunMetadata      `json:"run"`
	Reports []metrics.Report `json:"reports"`
}

// ExportJSON writes one run and its samples as a single JSON document.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	reports, err := s.LoadSamples(runID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ExportData{Run: *meta, Reports: reports})
}

func (s *Store) ExportJSONFile(path, runID string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return s.ExportJSON(file, runID)
}
