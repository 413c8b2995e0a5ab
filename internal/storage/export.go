package storage

import (
	"encoding/json"
	"io"
	"os"
)

type ExportData struct {
	Run     RunMetadata `json:"run"`
	Columns []string    `json:"columns"`
	Times   []float64   `json:"times"`
	Rows    [][]float64 `json:"rows"`
}

// ExportJSON writes a run's metadata and frames as a single JSON document.
func (s *Store) ExportJSON(runID string, w io.Writer) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	table, err := s.LoadFrames(runID)
	if err != nil {
		return err
	}

	data := ExportData{
		Run:     *meta,
		Columns: table.Columns,
		Times:   table.Times,
		Rows:    table.Rows,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// ExportCSV copies a run's frames.csv to w.
func (s *Store) ExportCSV(runID string, w io.Writer) error {
	if _, err := s.Load(runID); err != nil {
		return err
	}
	f, err := os.Open(s.FramesPath(runID))
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(w, f)
	return err
}
