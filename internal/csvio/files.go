package csvio

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ListFiles returns the CSV files directly under dir, sorted by name. A
// missing directory yields an empty list, not an error: an empty incoming
// directory is a normal state between drops.
func ListFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !strings.EqualFold(filepath.Ext(entry.Name()), ".csv") {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// MoveToBackup relocates path into backupDir, inserting tag before the
// extension: customers.csv with tag 20250101 becomes customers_20250101.csv.
// It returns the destination path.
func MoveToBackup(path, backupDir, tag string) (string, error) {
	if err := os.MkdirAll(backupDir, 0o755); err != nil {
		return "", fmt.Errorf("create backup dir %s: %w", backupDir, err)
	}

	base := filepath.Base(path)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext)
	dest := filepath.Join(backupDir, fmt.Sprintf("%s_%s%s", name, tag, ext))

	if err := os.Rename(path, dest); err != nil {
		// Fall back to copy+remove for cross-device moves.
		if copyErr := copyFile(path, dest); copyErr != nil {
			return "", fmt.Errorf("move %s to %s: %w", path, dest, err)
		}
		if rmErr := os.Remove(path); rmErr != nil {
			return "", fmt.Errorf("remove %s after copy: %w", path, rmErr)
		}
	}
	return dest, nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
