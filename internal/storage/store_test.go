package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	meta := RunMetadata{Preset: "video", Seed: 42, FPS: 30, Captured: 3, Written: 3, FinalBalls: 2}
	samples := []Sample{{1, 1.0 / 60, 1}, {2, 2.0 / 60, 1}, {3, 3.0 / 60, 2}}

	runID, err := st.Save(meta, samples)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Error("expected non-empty run id")
	}

	loaded, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Preset != "video" || loaded.Seed != 42 || loaded.FinalBalls != 2 {
		t.Errorf("unexpected metadata: %+v", loaded)
	}

	pop, err := st.LoadPopulation(runID)
	if err != nil {
		t.Fatalf("load population failed: %v", err)
	}
	if len(pop) != 3 {
		t.Fatalf("expected 3 samples, got %d", len(pop))
	}
	if pop[2].Balls != 2 || pop[2].Frame != 3 {
		t.Errorf("unexpected sample: %+v", pop[2])
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	for i, preset := range []string{"b", "a"} {
		meta := RunMetadata{Preset: preset, Timestamp: base.Add(time.Duration(i) * time.Second)}
		if _, err := st.Save(meta, nil); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].Preset != "b" {
		t.Errorf("expected oldest run first, got %s", runs[0].Preset)
	}
}

func TestStoreListMissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "absent"))
	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save(RunMetadata{}, nil)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	for _, name := range []string{"metadata.json", "population.csv"} {
		if _, err := os.Stat(filepath.Join(tmpDir, runID, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}
}
