package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// SymlinkFs extends afero.Fs with symlink support. afero.OsFs satisfies it.
type SymlinkFs interface {
	afero.Fs
	ReadlinkIfPossible(name string) (string, error)
}

// BasicSymlinkFs implements SymlinkFs for filesystems without symlinks
type BasicSymlinkFs struct {
	afero.Fs
}

// ReadlinkIfPossible implements SymlinkFs for BasicSymlinkFs
func (fs *BasicSymlinkFs) ReadlinkIfPossible(name string) (string, error) {
	return "", &os.PathError{Op: "readlink", Path: name, Err: afero.ErrNoReadlink}
}

// NewSymlinkFs returns fs itself when it can read links, otherwise a
// BasicSymlinkFs around it
func NewSymlinkFs(fs afero.Fs) SymlinkFs {
	if s, ok := fs.(SymlinkFs); ok {
		return s
	}
	return &BasicSymlinkFs{Fs: fs}
}

// isSymlink reports whether a ReadDir entry is a symbolic link
func isSymlink(entry os.FileInfo) bool {
	return entry.Mode()&os.ModeSymlink != 0
}

// isDirEntry reports whether the entry of dir is a directory, following a
// symbolic link to its target
func isDirEntry(fs afero.Fs, dir string, entry os.FileInfo) bool {
	if entry.IsDir() {
		return true
	}
	if !isSymlink(entry) {
		return false
	}
	info, err := fs.Stat(filepath.Join(dir, entry.Name()))
	return err == nil && info.IsDir()
}

// maxLinkHops bounds symlink resolution, matching the usual kernel limit
const maxLinkHops = 40

// realPath resolves every symlink along path, one component at a time.
// Components that are not links, or that the filesystem cannot read, are
// kept as they are.
func realPath(fs SymlinkFs, path string) (string, error) {
	sep := string(filepath.Separator)

	resolved := ""
	if filepath.IsAbs(path) {
		resolved = sep
	}
	rest := strings.Split(filepath.Clean(path), sep)

	hops := 0
	for len(rest) > 0 {
		name := rest[0]
		rest = rest[1:]

		switch name {
		case "", ".":
			continue
		case "..":
			if resolved == "" || resolved == "." || filepath.Base(resolved) == ".." {
				resolved = filepath.Join(resolved, "..")
			} else {
				resolved = filepath.Dir(resolved)
			}
			continue
		}

		next := filepath.Join(resolved, name)
		target, err := fs.ReadlinkIfPossible(next)
		if err != nil {
			resolved = next
			continue
		}

		hops++
		if hops > maxLinkHops {
			return "", fmt.Errorf("too many levels of symbolic links: %s", path)
		}
		if filepath.IsAbs(target) {
			resolved = sep
		}
		rest = append(strings.Split(filepath.Clean(target), sep), rest...)
	}

	if resolved == "" {
		return ".", nil
	}
	return resolved, nil
}
