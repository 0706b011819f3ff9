package config

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// safeReadFile splits path into a directory and a base name and reads
// through fs.ReadFile(os.DirFS(dir), name) rather than os.ReadFile(path)
// directly. A base name of "", "." or ".." is rejected. ".." elements
// before the base name are resolved by filepath.Dir, so the file read is
// the one the cleaned path names.
func safeReadFile(path string) ([]byte, error) {
	dir := filepath.Dir(path)
	name := filepath.Base(path)
	if name == "" || name == "." || name == ".." || filepath.Base(name) != name {
		return nil, fmt.Errorf("config: invalid override file name: %q", name)
	}
	return fs.ReadFile(os.DirFS(dir), name)
}
