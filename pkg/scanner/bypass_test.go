package scanner

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdnmdn/asimeow/pkg/oracle"
)

func TestExcludeIncludePath(t *testing.T) {
	ctx := context.Background()
	fs := setupTestFS(t, []string{"/p/node_modules"}, []string{"/p/notes.txt"})
	o := oracle.NewMemory()

	change, err := ExcludePath(ctx, fs, o, "/p/node_modules")
	require.NoError(t, err)
	assert.Equal(t, Change{Path: "/p/node_modules", IsDir: true, Kind: Changed}, change)

	change, err = ExcludePath(ctx, fs, o, "/p/node_modules")
	require.NoError(t, err)
	assert.Equal(t, Unchanged, change.Kind)
	assert.Equal(t, 1, o.ExcludeCalls("/p/node_modules"))

	change, err = IncludePath(ctx, fs, o, "/p/node_modules")
	require.NoError(t, err)
	assert.Equal(t, Changed, change.Kind)

	change, err = IncludePath(ctx, fs, o, "/p/node_modules")
	require.NoError(t, err)
	assert.Equal(t, Unchanged, change.Kind)

	change, err = ExcludePath(ctx, fs, o, "/p/notes.txt")
	require.NoError(t, err)
	assert.False(t, change.IsDir)
	assert.Equal(t, Changed, change.Kind)
}

func TestBypassMissingPath(t *testing.T) {
	ctx := context.Background()
	fs := setupTestFS(t, []string{"/p"}, nil)
	o := oracle.NewMemory()

	tests := []struct {
		name string
		run  func() error
	}{
		{
			name: "exclude",
			run: func() error {
				_, err := ExcludePath(ctx, fs, o, "/p/missing")
				return err
			},
		},
		{
			name: "include",
			run: func() error {
				_, err := IncludePath(ctx, fs, o, "/p/missing")
				return err
			},
		},
		{
			name: "list",
			run: func() error {
				_, err := List(ctx, fs, o, "/p/missing", true)
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run()
			require.Error(t, err)

			var notFound *NotFoundError
			require.True(t, errors.As(err, &notFound))
			assert.Equal(t, "/p/missing", notFound.Path)
			assert.Equal(t, "path does not exist: /p/missing", err.Error())
		})
	}

	assert.Empty(t, o.Excluded())
}

func TestList(t *testing.T) {
	ctx := context.Background()
	fs := setupTestFS(t,
		[]string{"/p/node_modules", "/p/src"},
		[]string{"/p/package.json"},
	)
	o := oracle.NewMemory("/p/node_modules")

	tests := []struct {
		name     string
		path     string
		wholeDir bool
		want     Listing
	}{
		{
			name:     "directory contents",
			path:     "/p",
			wholeDir: true,
			want: Listing{
				Path:     "/p",
				IsDir:    true,
				WholeDir: true,
				Entries: []ListEntry{
					{Name: "node_modules", Path: "/p/node_modules", IsDir: true, Excluded: true},
					{Name: "package.json", Path: "/p/package.json"},
					{Name: "src", Path: "/p/src", IsDir: true},
				},
			},
		},
		{
			name: "single directory",
			path: "/p/node_modules",
			want: Listing{
				Path:  "/p/node_modules",
				IsDir: true,
				Entries: []ListEntry{
					{Name: "node_modules", Path: "/p/node_modules", IsDir: true, Excluded: true},
				},
			},
		},
		{
			name:     "whole dir on a file lists the file",
			path:     "/p/package.json",
			wholeDir: true,
			want: Listing{
				Path: "/p/package.json",
				Entries: []ListEntry{
					{Name: "package.json", Path: "/p/package.json"},
				},
			},
		},
		{
			name:     "empty directory",
			path:     "/p/src",
			wholeDir: true,
			want: Listing{
				Path:     "/p/src",
				IsDir:    true,
				WholeDir: true,
				Entries:  []ListEntry{},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := List(ctx, fs, o, tt.path, tt.wholeDir)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
