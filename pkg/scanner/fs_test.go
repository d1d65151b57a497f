package scanner

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdnmdn/asimeow/pkg/oracle"
)

func symlink(t *testing.T, target, link string) {
	t.Helper()
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks not available: %v", err)
	}
}

func mkdirs(t *testing.T, dirs ...string) {
	t.Helper()
	for _, d := range dirs {
		require.NoError(t, os.MkdirAll(d, 0755))
	}
}

func touch(t *testing.T, files ...string) {
	t.Helper()
	for _, f := range files {
		require.NoError(t, os.WriteFile(f, nil, 0644))
	}
}

func TestScanFollowsSymlinkedDirectories(t *testing.T) {
	base := t.TempDir()
	root := filepath.Join(base, "root")
	web := filepath.Join(base, "elsewhere", "web")

	mkdirs(t, root, filepath.Join(web, "node_modules", "left-pad"))
	touch(t, filepath.Join(web, "package.json"))
	symlink(t, filepath.Join("..", "elsewhere", "web"), filepath.Join(root, "web"))

	o := oracle.NewMemory()
	events := &eventRecorder{}
	s := NewScanner(Config{
		Workers: 2,
		Roots:   []string{root},
		Rules:   []Rule{nodeRule},
		OnEvent: events.handle,
	}, afero.NewOsFs(), o, nil)

	result, err := s.Scan(context.Background())
	require.NoError(t, err)

	excluded := filepath.Join(root, "web", "node_modules")
	assert.Equal(t, int64(2), result.ProcessedPaths)
	assert.Equal(t, int64(1), result.ExclusionFound)
	assert.Equal(t, 1, o.ExcludeCalls(excluded))
	assert.Equal(t, "node", events.byPath()[excluded].Rule)
}

func TestScanSymlinkLoops(t *testing.T) {
	root := filepath.Join(t.TempDir(), "root")
	sub := filepath.Join(root, "sub")

	mkdirs(t, sub)
	symlink(t, ".", filepath.Join(sub, "loop"))
	symlink(t, "..", filepath.Join(sub, "back"))

	s := NewScanner(Config{
		Workers: 4,
		Roots:   []string{root},
		Rules:   []Rule{nodeRule},
	}, afero.NewOsFs(), oracle.NewMemory(), nil)

	result, err := s.Scan(context.Background())
	require.NoError(t, err)

	// root, sub, and sub/loop once; every other link resolves to a walked target
	assert.Equal(t, int64(3), result.ProcessedPaths)
}

func TestScanSkipsSymlinksToFiles(t *testing.T) {
	root := filepath.Join(t.TempDir(), "root")
	mkdirs(t, root)
	touch(t, filepath.Join(root, "notes.txt"))
	symlink(t, "notes.txt", filepath.Join(root, "link.txt"))
	symlink(t, "missing", filepath.Join(root, "dangling"))

	s := NewScanner(Config{Workers: 1, Roots: []string{root}}, afero.NewOsFs(), oracle.NewMemory(), nil)

	result, err := s.Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.ProcessedPaths)
}

func TestRealPath(t *testing.T) {
	base := t.TempDir()
	target := filepath.Join(base, "a", "b")
	mkdirs(t, target)
	symlink(t, filepath.Join("a", "b"), filepath.Join(base, "ab"))

	fs := NewSymlinkFs(afero.NewOsFs())

	want, err := realPath(fs, target)
	require.NoError(t, err)

	got, err := realPath(fs, filepath.Join(base, "ab"))
	require.NoError(t, err)
	assert.Equal(t, want, got)

	got, err = realPath(fs, filepath.Join(base, "ab", "..", "b"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(filepath.Dir(want), "b"), got)
}

func TestRealPathWithoutSymlinkSupport(t *testing.T) {
	fs := NewSymlinkFs(afero.NewMemMapFs())
	_, ok := fs.(*BasicSymlinkFs)
	assert.True(t, ok)

	got, err := realPath(fs, "/r/./a/../b")
	require.NoError(t, err)
	assert.Equal(t, "/r/b", got)

	got, err = realPath(fs, "rel/dir")
	require.NoError(t, err)
	assert.Equal(t, "rel/dir", got)
}

func TestListReportsSymlinkedDirectories(t *testing.T) {
	base := t.TempDir()
	root := filepath.Join(base, "root")
	mkdirs(t, root, filepath.Join(base, "target"))
	symlink(t, filepath.Join("..", "target"), filepath.Join(root, "linked"))

	listing, err := List(context.Background(), afero.NewOsFs(), oracle.NewMemory(), root, true)
	require.NoError(t, err)
	require.Len(t, listing.Entries, 1)
	assert.Equal(t, "linked", listing.Entries[0].Name)
	assert.True(t, listing.Entries[0].IsDir)
}
