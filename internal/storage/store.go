package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/letterfall/internal/menu"
	"github.com/san-kum/letterfall/internal/sim"
)

const (
	metadataFile = "metadata.json"
	framesFile   = "frames.csv"
)

var ErrRunNotFound = errors.New("storage: run not found")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string { return s.baseDir }

// RunInfo describes how a run was configured.
type RunInfo struct {
	Variant  string
	Labels   []string
	Dt       float64
	Duration float64
	Seed     int64
	Script   string
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Variant   string             `json:"variant"`
	Labels    []string           `json:"labels"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Dt        float64            `json:"dt"`
	Duration  float64            `json:"duration"`
	Script    string             `json:"script,omitempty"`
	Steps     int                `json:"steps"`
	Frames    int                `json:"frames"`
	Events    int                `json:"events"`
	Metrics   map[string]float64 `json:"metrics"`
}

func (s *Store) Save(info RunInfo, result *sim.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", info.Variant, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Variant:   info.Variant,
		Labels:    info.Labels,
		Timestamp: now,
		Seed:      info.Seed,
		Dt:        info.Dt,
		Duration:  info.Duration,
		Script:    info.Script,
		Steps:     result.StepsTaken,
		Frames:    len(result.Frames),
		Events:    len(result.Events),
		Metrics:   result.Metrics,
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeFrames(filepath.Join(runDir, framesFile), result.Frames); err != nil {
		return "", err
	}
	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// ColumnName names the CSV column of one letter coordinate.
func ColumnName(l menu.LetterFrame, field string) string {
	return fmt.Sprintf("L%d_%d_%c_%s", l.Label, l.Index, l.Char, field)
}

func writeFrames(path string, frames []menu.Frame) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)

	header := []string{"time"}
	if len(frames) > 0 {
		for _, l := range frames[0].Letters {
			header = append(header, ColumnName(l, "x"), ColumnName(l, "y"), ColumnName(l, "angle"))
		}
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, fr := range frames {
		row := []string{strconv.FormatFloat(fr.Time, 'f', 6, 64)}
		for _, l := range fr.Letters {
			row = append(row,
				strconv.FormatFloat(l.Pos.X(), 'f', 6, 64),
				strconv.FormatFloat(l.Pos.Y(), 'f', 6, 64),
				strconv.FormatFloat(l.Angle, 'f', 6, 64),
			)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// List returns every stored run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// FrameTable is the parsed content of frames.csv.
type FrameTable struct {
	Columns []string
	Times   []float64
	Rows    [][]float64
}

// Column returns the series stored under name.
func (t *FrameTable) Column(name string) ([]float64, bool) {
	idx := -1
	for i, c := range t.Columns {
		if c == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, false
	}
	out := make([]float64, 0, len(t.Rows))
	for _, row := range t.Rows {
		if idx < len(row) {
			out = append(out, row[idx])
		}
	}
	return out, true
}

func (s *Store) LoadFrames(runID string) (*FrameTable, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, framesFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	table := &FrameTable{}
	if len(records) == 0 {
		return table, nil
	}
	table.Columns = records[0][1:]

	for _, record := range records[1:] {
		if len(record) == 0 {
			continue
		}
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}
		row := make([]float64, 0, len(record)-1)
		for _, field := range record[1:] {
			val, err := strconv.ParseFloat(field, 64)
			if err != nil {
				val = 0
			}
			row = append(row, val)
		}
		table.Times = append(table.Times, t)
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

// FramesPath returns the location of a run's frames.csv.
func (s *Store) FramesPath(runID string) string {
	return filepath.Join(s.baseDir, runID, framesFile)
}
