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

	"github.com/san-kum/vibsim/internal/dynamo"
	"github.com/san-kum/vibsim/internal/sim"
)

const (
	metadataFile   = "metadata.json"
	trajectoryFile = "trajectory.csv"
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
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Solver    string             `json:"solver"`
	Timestamp time.Time          `json:"timestamp"`
	Params    dynamo.Params      `json:"params"`
	Steps     int                `json:"steps"`
	Horizon   float64            `json:"horizon"`
	Stable    bool               `json:"stable"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Save writes metadata.json and trajectory.csv (time,u,exact) under a new
// run directory and returns the run id.
func (s *Store) Save(name string, result *sim.Result) (string, error) {
	if err := result.Trajectory.Check(); err != nil {
		return "", err
	}

	now := time.Now()
	runID := fmt.Sprintf("%s_%d", name, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Name:      name,
		Solver:    result.Solver,
		Timestamp: now,
		Params:    result.Params,
		Steps:     result.Trajectory.Steps(),
		Horizon:   result.Horizon(),
		Stable:    result.Stable,
		Metrics:   finiteMetrics(result.Metrics),
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}

	if err := writeTrajectory(filepath.Join(runDir, trajectoryFile), result); err != nil {
		return "", err
	}

	return runID, nil
}

// finiteMetrics drops values JSON cannot encode, as produced by runs past
// the stability limit.
func finiteMetrics(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out[k] = v
		}
	}
	return out
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

func writeTrajectory(path string, result *sim.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"time", "u", "exact"}); err != nil {
		return err
	}

	tr := result.Trajectory
	for i := range tr.U {
		row := []string{
			strconv.FormatFloat(tr.T[i], 'g', -1, 64),
			strconv.FormatFloat(tr.U[i], 'g', -1, 64),
			strconv.FormatFloat(result.Exact[i], 'g', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// List returns stored runs, oldest first. Unreadable run directories are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
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

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}

	return &meta, nil
}

// LoadTrajectory reads back the stored samples and the exact column.
func (s *Store) LoadTrajectory(runID string) (*dynamo.Trajectory, []float64, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, trajectoryFile))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = 3

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("run %s: %w", runID, err)
	}

	if len(records) < 2 {
		return nil, nil, dynamo.ErrEmptyTrajectory
	}

	n := len(records) - 1
	tr := &dynamo.Trajectory{U: make([]float64, n), T: make([]float64, n)}
	exact := make([]float64, n)

	for i, record := range records[1:] {
		vals := [3]float64{}
		for j := range vals {
			v, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				return nil, nil, fmt.Errorf("run %s row %d: %w", runID, i+1, err)
			}
			vals[j] = v
		}
		tr.T[i], tr.U[i], exact[i] = vals[0], vals[1], vals[2]
	}

	return tr, exact, nil
}

// Result reassembles a stored run.
func (s *Store) Result(runID string) (*RunMetadata, *sim.Result, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, nil, err
	}

	tr, exact, err := s.LoadTrajectory(runID)
	if err != nil {
		return nil, nil, err
	}

	return meta, &sim.Result{
		Solver:     meta.Solver,
		Params:     meta.Params,
		Trajectory: tr,
		Exact:      exact,
		Metrics:    meta.Metrics,
		Stable:     meta.Stable,
	}, nil
}
