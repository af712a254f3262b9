package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/morsesim/internal/config"
	"github.com/san-kum/morsesim/internal/dynamo"
	"github.com/san-kum/morsesim/internal/experiment"
	"github.com/san-kum/morsesim/internal/metrics"
)

const (
	metadataFile    = "metadata.json"
	diagnosticsFile = "diagnostics.csv"
)

// Store keeps one directory per recorded run. It records diagnostics only;
// nothing here can restore an ensemble.
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
	Timestamp  time.Time          `json:"timestamp"`
	Config     config.Config      `json:"config"`
	Tau        float64            `json:"tau"`
	BoxSize    float64            `json:"box_size"`
	Iterations int                `json:"iterations"`
	Time       float64            `json:"time"`
	Samples    int                `json:"samples"`
	Final      *metrics.Report    `json:"final,omitempty"`
	Metrics    map[string]float64 `json:"metrics"`
	Error      string             `json:"error,omitempty"`
}

var header = []string{
	"iteration", "time", "kinetic_energy", "temperature_proxy",
	"momentum_x", "momentum_y", "momentum_z",
	"stress_x", "stress_y", "stress_z",
	"tracked",
	"pos_x", "pos_y", "pos_z",
	"vel_x", "vel_y", "vel_z",
	"acc_x", "acc_y", "acc_z",
	"tstress_x", "tstress_y", "tstress_z",
}

func (s *Store) Save(cfg *config.Config, tau, boxSize float64, result *experiment.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", cfg.Material.Name, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		Timestamp:  now,
		Config:     *cfg,
		Tau:        tau,
		BoxSize:    boxSize,
		Iterations: result.Iterations,
		Time:       result.Time,
		Samples:    len(result.Reports),
		Metrics:    result.Metrics,
	}
	if n := len(result.Reports); n > 0 {
		final := result.Reports[n-1]
		meta.Final = &final
	}
	if result.Err != nil {
		meta.Error = result.Err.Error()
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeSamples(filepath.Join(runDir, diagnosticsFile), result.Reports); err != nil {
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

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

func appendVec(row []string, v dynamo.Vec3) []string {
	return append(row, formatFloat(v[0]), formatFloat(v[1]), formatFloat(v[2]))
}

func writeSamples(path string, reports []metrics.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	for _, r := range reports {
		row := []string{strconv.Itoa(r.Iteration), formatFloat(r.Time), formatFloat(r.KineticEnergy), formatFloat(r.Temperature)}
		row = appendVec(row, r.NetMomentum)
		row = appendVec(row, r.MeanStress)
		row = append(row, strconv.Itoa(r.Tracked))
		row = appendVec(row, r.Position)
		row = appendVec(row, r.Velocity)
		row = appendVec(row, r.Acceleration)
		row = appendVec(row, r.Stress)
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns every readable run, oldest first.
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
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadSamples(runID string) ([]metrics.Report, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, diagnosticsFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(header)

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []metrics.Report{}, nil
	}

	reports := make([]metrics.Report, 0, len(records)-1)
	for line, record := range records[1:] {
		rep, err := parseRow(record)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", diagnosticsFile, line+2, err)
		}
		reports = append(reports, rep)
	}
	return reports, nil
}

func parseRow(record []string) (metrics.Report, error) {
	var rep metrics.Report
	var err error

	if rep.Iteration, err = strconv.Atoi(record[0]); err != nil {
		return rep, err
	}
	if rep.Tracked, err = strconv.Atoi(record[10]); err != nil {
		return rep, err
	}

	vals := make([]float64, len(record))
	for i, field := range record {
		if i == 0 || i == 10 {
			continue
		}
		if vals[i], err = strconv.ParseFloat(field, 64); err != nil {
			return rep, err
		}
	}
	vec := func(at int) dynamo.Vec3 { return dynamo.Vec3{vals[at], vals[at+1], vals[at+2]} }

	rep.Time = vals[1]
	rep.KineticEnergy = vals[2]
	rep.Temperature = vals[3]
	rep.NetMomentum = vec(4)
	rep.MeanStress = vec(7)
	rep.Position = vec(11)
	rep.Velocity = vec(14)
	rep.Acceleration = vec(17)
	rep.Stress = vec(20)
	return rep, nil
}
