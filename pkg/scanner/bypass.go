package scanner

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/mdnmdn/asimeow/pkg/oracle"
)

// ExcludePath excludes a single path without walking. Only a missing path is
// an error; oracle failures come back as Unchanged.
func ExcludePath(ctx context.Context, fs afero.Fs, o oracle.Oracle, path string) (Change, error) {
	info, err := statExisting(fs, path)
	if err != nil {
		return Change{}, err
	}

	change := Change{Path: path, IsDir: info.IsDir(), Kind: Unchanged}
	if o.Exclude(ctx, path) {
		change.Kind = Changed
	}
	return change, nil
}

// IncludePath removes the exclusion of a single path.
func IncludePath(ctx context.Context, fs afero.Fs, o oracle.Oracle, path string) (Change, error) {
	info, err := statExisting(fs, path)
	if err != nil {
		return Change{}, err
	}

	change := Change{Path: path, IsDir: info.IsDir(), Kind: Unchanged}
	if o.Include(ctx, path) {
		change.Kind = Changed
	}
	return change, nil
}

// List reports the exclusion status of path. When wholeDir is set and path is
// a directory, its immediate entries are listed in name order; otherwise the
// listing holds path alone.
func List(ctx context.Context, fs afero.Fs, o oracle.Oracle, path string, wholeDir bool) (Listing, error) {
	info, err := statExisting(fs, path)
	if err != nil {
		return Listing{}, err
	}

	listing := Listing{
		Path:     path,
		IsDir:    info.IsDir(),
		WholeDir: wholeDir && info.IsDir(),
	}

	if !listing.WholeDir {
		name := filepath.Base(path)
		if name == string(filepath.Separator) || name == "." {
			name = path
		}
		listing.Entries = []ListEntry{{
			Name:     name,
			Path:     path,
			IsDir:    info.IsDir(),
			Excluded: o.IsExcluded(ctx, path),
		}}
		return listing, nil
	}

	entries, err := afero.ReadDir(fs, path)
	if err != nil {
		return Listing{}, &ReadDirError{Path: path, Err: err}
	}

	listing.Entries = make([]ListEntry, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return listing, err
		}
		entryPath := filepath.Join(path, entry.Name())
		listing.Entries = append(listing.Entries, ListEntry{
			Name:     entry.Name(),
			Path:     entryPath,
			IsDir:    isDirEntry(fs, path, entry),
			Excluded: o.IsExcluded(ctx, entryPath),
		})
	}
	return listing, nil
}

func statExisting(fs afero.Fs, path string) (os.FileInfo, error) {
	info, err := fs.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &NotFoundError{Path: path, Err: err}
		}
		return nil, err
	}
	return info, nil
}
