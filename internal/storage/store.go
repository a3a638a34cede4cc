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

// RunMetadata describes one recording.
type RunMetadata struct {
	ID          string    `json:"id"`
	Preset      string    `json:"preset"`
	Timestamp   time.Time `json:"timestamp"`
	Seed        int64     `json:"seed"`
	Width       float64   `json:"width"`
	Height      float64   `json:"height"`
	MaxBalls    int       `json:"max_balls"`
	Cooldown    float64   `json:"cooldown"`
	FPS         int       `json:"fps"`
	Captured    int       `json:"captured"`
	Rejected    int       `json:"rejected"`
	Written     int       `json:"written"`
	Failed      int       `json:"failed"`
	Lost        int       `json:"lost"`
	FinalBalls  int       `json:"final_balls"`
	Output      string    `json:"output"`
	Encoded     bool      `json:"encoded"`
	EncodeError string    `json:"encode_error,omitempty"`
	Elapsed     float64   `json:"elapsed_seconds"`
}

// Sample is the population at one frame.
type Sample struct {
	Frame int
	Time  float64
	Balls int
}

func (s *Store) Save(meta RunMetadata, samples []Sample) (string, error) {
	name := meta.Preset
	if name == "" {
		name = "run"
	}
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	meta.ID = fmt.Sprintf("%s_%d", name, meta.Timestamp.UnixMilli())
	runDir := filepath.Join(s.baseDir, meta.ID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "population.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write([]string{"frame", "time", "balls"}); err != nil {
		return "", err
	}
	for _, sm := range samples {
		row := []string{
			strconv.Itoa(sm.Frame),
			strconv.FormatFloat(sm.Time, 'f', 6, 64),
			strconv.Itoa(sm.Balls),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return meta.ID, nil
}

// List returns stored runs, oldest first.
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
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadPopulation(runID string) ([]Sample, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "population.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []Sample{}, nil
	}

	samples := make([]Sample, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) < 3 {
			continue
		}
		frame, err := strconv.Atoi(record[0])
		if err != nil {
			continue
		}
		t, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			continue
		}
		balls, err := strconv.Atoi(record[2])
		if err != nil {
			continue
		}
		samples = append(samples, Sample{Frame: frame, Time: t, Balls: balls})
	}
	return samples, nil
}
