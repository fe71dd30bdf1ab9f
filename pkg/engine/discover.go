package engine

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/src-d/enry/v2"
)

// javaLanguage is the enry name of the language the engine analyzes.
const javaLanguage = "Java"

// ErrNoPaths is returned when Discover is called without paths.
var ErrNoPaths = errors.New("no paths to check")

// IsJava reports whether enry classifies path as Java by its name.
func IsJava(path string) bool {
	return enry.GetLanguage(filepath.Base(path), nil) == javaLanguage
}

// Discover expands paths into the Java sources beneath them, sorted and
// deduplicated. Directories are walked skipping vendored and dot entries;
// files named explicitly are kept when they are Java, wherever they live.
func Discover(paths []string) ([]string, error) {
	if len(paths) == 0 {
		return nil, ErrNoPaths
	}

	var files []string

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("discover %s: %w", root, err)
		}

		if !info.IsDir() {
			if IsJava(root) {
				files = append(files, filepath.Clean(root))
			}

			continue
		}

		err = filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
			skip, err := shouldSkip(root, path, entry, walkErr)
			if skip || err != nil {
				return err
			}

			files = append(files, path)

			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", root, err)
		}
	}

	slices.Sort(files)

	return slices.Compact(files), nil
}

// shouldSkip decides whether a walk entry is left out. Unreadable entries
// are skipped instead of failing the walk.
func shouldSkip(root, path string, entry fs.DirEntry, walkErr error) (bool, error) {
	if walkErr != nil {
		if errors.Is(walkErr, fs.ErrPermission) || errors.Is(walkErr, fs.ErrNotExist) {
			if entry != nil && entry.IsDir() {
				return true, filepath.SkipDir
			}

			return true, nil
		}

		return false, walkErr
	}

	if entry == nil {
		return true, nil
	}

	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return true, nil
	}

	rel = filepath.ToSlash(rel)

	if entry.IsDir() {
		if enry.IsDotFile(rel) || enry.IsVendor(rel+"/") {
			return true, filepath.SkipDir
		}

		return true, nil
	}

	if enry.IsDotFile(rel) || enry.IsVendor(rel) || !IsJava(path) {
		return true, nil
	}

	return false, nil
}
