package driver

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ListJavaFiles returns the sorted *.java files under path.
// A regular file is returned as is, whatever its extension.
func ListJavaFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			// skip hidden directories (.git, .idea)
			if p != path && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(p, ".java") {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// deterministic order
	sort.Strings(files)
	return files, nil
}

// ListInputs expands every input path and drops duplicates, keeping the
// first occurrence.
func ListInputs(paths []string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	for _, p := range paths {
		files, err := ListJavaFiles(p)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			clean := filepath.Clean(f)
			if seen[clean] {
				continue
			}
			seen[clean] = true
			out = append(out, clean)
		}
	}
	return out, nil
}
