package watcher

import (
	"os"
	"path/filepath"
)

// directoriesUnder returns path plus every directory beneath it, so a
// single logical Watch(path) call can register the whole tree with
// fsnotify, which only observes one directory level at a time.
func directoriesUnder(path string) []string {
	var dirs []string
	info, err := os.Stat(path)
	if err != nil {
		return []string{path}
	}
	if !info.IsDir() {
		return []string{filepath.Dir(path)}
	}

	_ = filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			dirs = append(dirs, p)
		}
		return nil
	})
	if len(dirs) == 0 {
		dirs = append(dirs, path)
	}
	return dirs
}
