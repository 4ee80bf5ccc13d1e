// Package walker discovers the source files worth indexing under a project
// root, honoring an ignore file and skipping binaries, symlinks, and
// oversized files.
package walker

import (
	"bufio"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FileInfo holds metadata about a discovered source file.
type FileInfo struct {
	Path    string
	RelPath string
	Size    int64
}

// maxFileSize is the largest file we'll consider (256 KB). Anything bigger
// produces a useless repository map and burns model tokens.
const maxFileSize = 256 << 10

// sourceExts are the file extensions considered source code.
var sourceExts = map[string]bool{
	"go": true, "js": true, "jsx": true, "ts": true, "tsx": true,
	"py": true, "rb": true, "rs": true, "java": true, "kt": true,
	"c": true, "h": true, "cpp": true, "hpp": true, "cs": true,
	"php": true, "swift": true, "scala": true, "sh": true,
	"sql": true, "proto": true,
}

// defaultIgnores are used when no .aidxignore file exists.
var defaultIgnores = []string{
	".git",
	".svn",
	".hg",
	"node_modules",
	"vendor",
	"__pycache__",
	".idea",
	".vscode",
	".aidx",
	"dist",
	"build",
	"target",
}

// Walk traverses the directory tree rooted at root and sends discovered
// source files on the returned channel, skipping directories matching
// .aidxignore patterns.
func Walk(root string) (<-chan FileInfo, <-chan error) {
	files := make(chan FileInfo, 64)
	errs := make(chan error, 1)

	go func() {
		defer close(files)
		defer close(errs)

		absRoot, err := filepath.Abs(root)
		if err != nil {
			errs <- err
			return
		}

		ignores := loadIgnorePatterns(absRoot)

		err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil // skip errors, keep walking
			}

			if d.IsDir() {
				if path == absRoot {
					return nil
				}
				rel, _ := filepath.Rel(absRoot, path)
				if matchesIgnore(d.Name(), filepath.ToSlash(rel), ignores) {
					return filepath.SkipDir
				}
				return nil
			}

			// Skip symlinks.
			if d.Type()&fs.ModeSymlink != 0 {
				return nil
			}

			ext := strings.TrimPrefix(filepath.Ext(path), ".")
			if !sourceExts[ext] {
				return nil
			}

			info, err := d.Info()
			if err != nil {
				return nil
			}

			// Skip large or empty files.
			if info.Size() > maxFileSize || info.Size() == 0 {
				return nil
			}

			relPath, _ := filepath.Rel(absRoot, path)
			files <- FileInfo{
				Path:    path,
				RelPath: filepath.ToSlash(relPath),
				Size:    info.Size(),
			}
			return nil
		})
		if err != nil {
			errs <- err
		}
	}()

	return files, errs
}

// loadIgnorePatterns reads .aidxignore from the project root, falling back
// to the defaults when the file is missing or empty.
func loadIgnorePatterns(root string) []string {
	f, err := os.Open(filepath.Join(root, ".aidxignore"))
	if err != nil {
		return defaultIgnores
	}
	defer f.Close()

	var patterns []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	if len(patterns) == 0 {
		return defaultIgnores
	}
	return patterns
}

// matchesIgnore checks if a directory name or relative path matches any ignore pattern.
func matchesIgnore(name, relPath string, patterns []string) bool {
	for _, p := range patterns {
		if name == p {
			return true
		}
		if strings.HasPrefix(relPath, p) {
			return true
		}
		if matched, _ := filepath.Match(p, relPath); matched {
			return true
		}
		if matched, _ := filepath.Match(p, name); matched {
			return true
		}
	}
	return false
}
