package loader

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ============================================================================
// FILE DISCOVERY
// ============================================================================

// FindFiles lists the files in dir matching the glob pattern, sorted by
// name. Excel lock files ("~$export.xlsx") are excluded — Excel leaves them
// behind while a workbook is open and they are not readable datasets.
func FindFiles(dir, pattern string) ([]string, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, err
	}

	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, err
	}

	files := matches[:0]
	for _, m := range matches {
		if strings.HasPrefix(filepath.Base(m), "~$") {
			continue
		}
		if info, err := os.Stat(m); err != nil || info.IsDir() {
			continue
		}
		files = append(files, m)
	}
	sort.Strings(files)
	return files, nil
}
