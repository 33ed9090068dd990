package fileprocessor

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/retroenv/retrogolib/log"
)

// Test set files are named by hex opcode group, like C0.json, C0.1.json,
// D1.json. The optional digit separates multiple files of one group.
var testFilePattern = regexp.MustCompile(`(?i)^([0-9a-f]{2})(?:\.([0-9a-f]))?\.json$`)

// SortTestFilenames orders output file names by hex opcode group and
// sub-file number, so "A0.json" sorts after "9F.json". Names that do not
// match the test set pattern are dropped.
func SortTestFilenames(names []string) []string {
	type parsed struct {
		name  string
		group int64
		sub   int64
	}

	var files []parsed
	for _, name := range names {
		m := testFilePattern.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		group, _ := strconv.ParseInt(m[1], 16, 32)
		var sub int64
		if m[2] != "" {
			sub, _ = strconv.ParseInt(m[2], 16, 32)
		}
		files = append(files, parsed{name: name, group: group, sub: sub})
	}

	sort.Slice(files, func(i, j int) bool {
		if files[i].group != files[j].group {
			return files[i].group < files[j].group
		}
		return files[i].sub < files[j].sub
	})

	sorted := make([]string, 0, len(files))
	for _, f := range files {
		sorted = append(sorted, f.name)
	}
	return sorted
}

// UpdateFileTimes touches all test set files in the directory in hex group
// order, bumping their mtimes a second apart so that listing by time shows
// them in opcode order.
func UpdateFileTimes(logger *log.Logger, directory string) error {
	entries, err := os.ReadDir(directory)
	if err != nil {
		return fmt.Errorf("reading directory %s: %w", directory, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}

	now := time.Now()
	for i, name := range SortTestFilenames(names) {
		stamp := now.Add(time.Duration(i+1) * time.Second)
		path := filepath.Join(directory, name)
		if err := os.Chtimes(path, stamp, stamp); err != nil {
			return fmt.Errorf("touching file %s: %w", path, err)
		}
		logger.Debug("Touched file", log.String("file", name))
	}
	return nil
}
