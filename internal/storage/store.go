package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/attractor/internal/config"
	"github.com/san-kum/attractor/internal/sim"
)

var (
	ErrNoSamples = errors.New("storage: run has no recorded states")
	// ErrNonFinite is returned for results holding NaN or Inf, which JSON
	// cannot represent.
	ErrNonFinite = errors.New("storage: run result is not finite")
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Attractor  string             `json:"attractor"`
	Timestamp  time.Time          `json:"timestamp"`
	Config     *config.Config     `json:"config"`
	Steps      int                `json:"steps"`
	ElapsedMS  float64            `json:"elapsed_ms"`
	BoundsMin  []float64          `json:"bounds_min"`
	BoundsMax  []float64          `json:"bounds_max"`
	Final      []float64          `json:"final"`
	OutputPath string             `json:"output_path,omitempty"`
	Samples    int                `json:"samples"`
	Metrics    map[string]float64 `json:"metrics,omitempty"`
}

// Save writes metadata.json and, when rec holds samples, states.csv into a
// fresh run directory. rec and metrics may be nil.
func (s *Store) Save(cfg *config.Config, res *sim.Result, rec *sim.Recorder, metrics map[string]float64) (string, error) {
	if err := checkFinite(res, metrics); err != nil {
		return "", err
	}
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", res.System, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		Attractor:  res.System,
		Timestamp:  now,
		Config:     cfg,
		Steps:      res.Steps,
		ElapsedMS:  float64(res.Elapsed.Microseconds()) / 1000,
		BoundsMin:  res.Bounds.Min,
		BoundsMax:  res.Bounds.Max,
		Final:      res.Final,
		OutputPath: cfg.OutputPath,
		Metrics:    metrics,
	}
	if rec != nil {
		meta.Samples = rec.Len()
	}

	if err := writeJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", err
	}
	if meta.Samples == 0 {
		return runID, nil
	}
	if err := writeStates(filepath.Join(runDir, "states.csv"), rec); err != nil {
		return "", err
	}
	return runID, nil
}

func checkFinite(res *sim.Result, metrics map[string]float64) error {
	if !res.Final.IsValid() {
		return fmt.Errorf("%w: final state %v", ErrNonFinite, res.Final)
	}
	if !res.Bounds.Min.IsValid() || !res.Bounds.Max.IsValid() {
		return fmt.Errorf("%w: bounds %v", ErrNonFinite, res.Bounds)
	}
	for name, v := range metrics {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: metric %s=%v", ErrNonFinite, name, v)
		}
	}
	return nil
}

func closeFile(f *os.File, err *error) {
	if cerr := f.Close(); cerr != nil && *err == nil {
		*err = cerr
	}
}

func writeJSON(path string, v any) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer closeFile(f, &err)

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeStates(path string, rec *sim.Recorder) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer closeFile(f, &err)

	w := csv.NewWriter(f)
	header := []string{"time"}
	for i := range rec.States[0] {
		header = append(header, fmt.Sprintf("x%d", i))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i, st := range rec.States {
		row := make([]string, 0, len(st)+1)
		row = append(row, strconv.FormatFloat(rec.Times[i], 'g', -1, 64))
		for _, v := range st {
			row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns stored runs, newest first. Unreadable entries are skipped.
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

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("storage: %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadStates reads the recorded samples of a run.
func (s *Store) LoadStates(runID string) ([][]float64, []float64, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "states.csv"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("%w: %s", ErrNoSamples, runID)
		}
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) < 2 {
		return [][]float64{}, []float64{}, nil
	}

	times := make([]float64, 0, len(records)-1)
	states := make([][]float64, 0, len(records)-1)
	for i, record := range records[1:] {
		vals := make([]float64, len(record))
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, nil, fmt.Errorf("storage: %s line %d: %w", runID, i+2, err)
			}
			vals[j] = v
		}
		times = append(times, vals[0])
		states = append(states, vals[1:])
	}
	return states, times, nil
}
