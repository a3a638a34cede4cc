package capture

import (
	"os"
	"path/filepath"
)

// RemoveFrames deletes the frame directory and everything in it. A missing
// directory is not an error.
func RemoveFrames(dir string) error {
	return os.RemoveAll(dir)
}

// prepareDir creates dir and drops frame files left over from an earlier
// run so the encoder only sees this recording.
func prepareDir(dir, ext string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	stale, err := filepath.Glob(filepath.Join(dir, "frame_*."+ext))
	if err != nil {
		return err
	}
	for _, path := range stale {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}
