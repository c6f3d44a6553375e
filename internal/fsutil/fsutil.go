// Package fsutil provides the file system primitives the CLI relies on:
// wildcard expansion, recursive source discovery, and file kind checks.
package fsutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FindByExtension recursively searches rootPath for all files ending with
// the given extension and returns their paths in walk order.
func FindByExtension(rootPath string, extension string) ([]string, error) {
	if extension == "" {
		panic("extension must not be empty")
	}

	var files []string
	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), extension) {
			files = append(files, path)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	return files, nil
}

// Wildcard expands a glob pattern to the paths matching it, in sorted order.
// Patterns containing a "**" segment match files at any depth below the
// pattern prefix, with the remainder applied to the file name. A pattern
// without metacharacters matches itself when the path exists. Expansion
// failures count as no matches.
func Wildcard(pattern string) []string {
	if i := strings.Index(pattern, "**"); i >= 0 {
		return deepWildcard(pattern, i)
	}
	if !strings.ContainsAny(pattern, "*?[") {
		if _, err := os.Lstat(pattern); err != nil {
			return nil
		}
		return []string{pattern}
	}
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil
	}
	return matches
}

// deepWildcard handles the "<prefix>/**/<name glob>" form by walking the
// prefix and matching the trailing segment against each file name.
func deepWildcard(pattern string, starAt int) []string {
	root := filepath.Dir(pattern[:starAt])
	nameGlob := strings.TrimPrefix(pattern[starAt+2:], string(filepath.Separator))
	if nameGlob == "" {
		nameGlob = "*"
	}

	// The common <dir>/**/*.ext form is a plain extension search.
	if suffix, ok := strings.CutPrefix(nameGlob, "*"); ok && suffix != "" && !strings.ContainsAny(suffix, "*?[") {
		files, err := FindByExtension(root, suffix)
		if err != nil {
			return nil
		}
		return files
	}

	var matches []string
	filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if ok, _ := filepath.Match(nameGlob, d.Name()); ok {
			matches = append(matches, path)
		}
		return nil
	})
	return matches
}

// IsRegular reports whether path names an existing regular file.
func IsRegular(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// IsDir reports whether path names an existing directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
