package pathutil

import (
	"fmt"
	"os"
	"path/filepath"
)

// SanitizeOutputPath cleans path and resolves it to an absolute path.
// An existing symlink at the resolved location is rejected; a missing
// file is accepted.
func SanitizeOutputPath(path string) (string, error) {
	abs, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("pathutil: resolve %s: %w", path, err)
	}

	info, err := os.Lstat(abs)
	if os.IsNotExist(err) {
		return abs, nil
	}
	if err != nil {
		return "", fmt.Errorf("pathutil: stat %s: %w", abs, err)
	}
	if info.Mode()&os.ModeSymlink != 0 {
		return "", fmt.Errorf("pathutil: refusing to write to symlink: %s", abs)
	}
	return abs, nil
}

// PrepareOutputFile sanitizes path and creates its parent directories.
// It returns the absolute path to write.
func PrepareOutputFile(path string) (string, error) {
	target, err := SanitizeOutputPath(path)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("pathutil: create %s: %w", filepath.Dir(target), err)
	}
	return target, nil
}

// WriteFile writes data to path after PrepareOutputFile.
func WriteFile(path string, data []byte, perm os.FileMode) (string, error) {
	target, err := PrepareOutputFile(path)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(target, data, perm); err != nil {
		return "", fmt.Errorf("pathutil: write %s: %w", target, err)
	}
	return target, nil
}
