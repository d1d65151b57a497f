package app

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdnmdn/asimeow/internal/config"
	"github.com/mdnmdn/asimeow/internal/lock"
	"github.com/mdnmdn/asimeow/pkg/logger"
	"github.com/mdnmdn/asimeow/pkg/oracle"
	"github.com/mdnmdn/asimeow/pkg/scanner"
)

const testConfig = `roots:
  - path: /src
ignore:
  - .git
rules:
  - name: node
    file_match: package.json
    exclusions:
      - node_modules
`

type fixture struct {
	app    *App
	fs     afero.Fs
	oracle *oracle.Memory
	out    *bytes.Buffer
	lock   string
}

func newFixture(t *testing.T, settings config.Settings, excluded ...string) *fixture {
	t.Helper()

	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/src/app/node_modules/pkg", 0755))
	require.NoError(t, fs.MkdirAll("/src/.git/objects", 0755))
	require.NoError(t, afero.WriteFile(fs, "/src/app/package.json", []byte("{}"), 0644))
	require.NoError(t, afero.WriteFile(fs, "/etc/asimeow.yaml", []byte(testConfig), 0644))

	if settings.Workers == 0 {
		settings.Workers = 2
	}
	if settings.Output == "" {
		settings.Output = "text"
	}
	settings.NoProgress = true

	f := &fixture{
		fs:     fs,
		oracle: oracle.NewMemory(excluded...),
		out:    &bytes.Buffer{},
		lock:   filepath.Join(t.TempDir(), "asimeow.lock"),
	}
	f.app = New(settings,
		WithFs(fs),
		WithOracle(f.oracle),
		WithOutput(f.out),
		WithLogger(logger.Nop()),
		WithLockPath(f.lock),
	)
	t.Cleanup(f.app.Shutdown)
	return f
}

func TestScan(t *testing.T) {
	tests := []struct {
		name        string
		settings    config.Settings
		excluded    []string
		contains    []string
		notContains []string
		mutations   int
	}{
		{
			name: "new exclusion",
			contains: []string{
				"✅ /src/app/node_modules - node\n",
				"Total paths processed: 2\n",
				"Total exclusions found: 1\n",
				"Newly excluded from Time Machine: 1\n",
			},
			notContains: []string{"Duration:"},
			mutations:   1,
		},
		{
			name:     "already excluded",
			excluded: []string{"/src/app/node_modules"},
			contains: []string{
				"🟡 /src/app/node_modules - node\n",
				"Newly excluded from Time Machine: 0\n",
			},
			mutations: 0,
		},
		{
			name:     "dry run leaves exclusions untouched",
			settings: config.Settings{DryRun: true},
			contains: []string{
				"✅ /src/app/node_modules - node\n",
				"Newly excluded from Time Machine: 1\n",
			},
			mutations: 0,
		},
		{
			name:      "verbose adds duration",
			settings:  config.Settings{Verbose: 1},
			contains:  []string{"Duration:"},
			mutations: 1,
		},
		{
			name:     "json summary",
			settings: config.Settings{Output: "json"},
			contains: []string{
				`"processedPaths": 2`,
				`"newlyExcluded": 1`,
				`"path": "/src/app/node_modules"`,
			},
			notContains: []string{"✅"},
			mutations:   1,
		},
		{
			name:     "yaml summary",
			settings: config.Settings{Output: "yaml"},
			contains: []string{
				"processed_paths: 2",
				"rule: node",
			},
			mutations: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.settings, tt.excluded...)

			require.NoError(t, f.app.LoadConfig("/etc/asimeow.yaml"))
			assert.Equal(t, "/etc/asimeow.yaml", f.app.ConfigPath())
			require.NoError(t, f.app.Scan())

			out := f.out.String()
			for _, want := range tt.contains {
				assert.Contains(t, out, want)
			}
			for _, unwanted := range tt.notContains {
				assert.NotContains(t, out, unwanted)
			}
			assert.Equal(t, tt.mutations, f.oracle.ExcludeCalls("/src/app/node_modules"))
		})
	}
}

func TestScanLocked(t *testing.T) {
	f := newFixture(t, config.Settings{})
	require.NoError(t, f.app.LoadConfig("/etc/asimeow.yaml"))

	held := lock.New(f.lock)
	require.NoError(t, held.TryLock())
	defer held.Unlock()

	err := f.app.Scan()
	require.Error(t, err)
	assert.True(t, errors.Is(err, lock.ErrLocked))
	assert.Empty(t, f.out.String())
	assert.Equal(t, 0, f.oracle.ExcludeCalls("/src/app/node_modules"))
}

func TestLoadConfigMissing(t *testing.T) {
	f := newFixture(t, config.Settings{})

	err := f.app.LoadConfig("")
	require.Error(t, err)
	assert.True(t, errors.Is(err, config.ErrNoConfigFile))

	err = f.app.LoadConfig("/etc/missing.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "specified config file not found")
}

func TestExcludeInclude(t *testing.T) {
	f := newFixture(t, config.Settings{})
	path := "/src/app/node_modules"

	require.NoError(t, f.app.Exclude(path))
	require.NoError(t, f.app.Exclude(path))
	require.NoError(t, f.app.Include(path))
	require.NoError(t, f.app.Include(path))

	assert.Equal(t,
		"✅ Successfully excluded: "+path+"\n"+
			"🟡 Already excluded: "+path+"\n"+
			"✅ Successfully included: "+path+"\n"+
			"  Already included: "+path+"\n",
		f.out.String())

	err := f.app.Exclude("/src/missing")
	var notFound *scanner.NotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "/src/missing", notFound.Path)
}

func TestList(t *testing.T) {
	f := newFixture(t, config.Settings{}, "/src/app/node_modules")

	require.NoError(t, f.app.List("/src/app", true))
	out := f.out.String()
	assert.Contains(t, out, "Listing contents of: /src/app\n")
	assert.Contains(t, out, "node_modules/")
	assert.Contains(t, out, "package.json")

	f.out.Reset()
	require.NoError(t, f.app.List("/src/app/package.json", false))
	assert.Contains(t, f.out.String(), "Status of file: /src/app/package.json\n")

	f.out.Reset()
	err := f.app.List("/nope", true)
	require.Error(t, err)
	assert.Empty(t, f.out.String())
}

func TestListStatusCache(t *testing.T) {
	tests := []struct {
		name        string
		cacheSize   int
		wantQueries int
	}{
		{name: "default cache memoizes lookups", cacheSize: 0, wantQueries: 1},
		{name: "sized cache memoizes lookups", cacheSize: 16, wantQueries: 1},
		{name: "negative size disables the cache", cacheSize: -1, wantQueries: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, config.Settings{StatusCacheSize: tt.cacheSize})

			require.NoError(t, f.app.List("/src/app", true))
			require.NoError(t, f.app.List("/src/app", true))
			assert.Equal(t, tt.wantQueries, f.oracle.Queries("/src/app/node_modules"))
			assert.Equal(t, tt.wantQueries, f.oracle.Queries("/src/app/package.json"))
		})
	}
}

func TestListAfterExclude(t *testing.T) {
	f := newFixture(t, config.Settings{})

	require.NoError(t, f.app.List("/src/app/node_modules", false))
	assert.Contains(t, f.out.String(), "   node_modules/\n")

	require.NoError(t, f.app.Exclude("/src/app/node_modules"))
	assert.Equal(t, 1, f.oracle.ExcludeCalls("/src/app/node_modules"))

	f.out.Reset()
	require.NoError(t, f.app.List("/src/app/node_modules", false))
	assert.Contains(t, f.out.String(), "🟡 node_modules/\n")
	// one lookup for the first listing, one inside Exclude; the second listing is memoized
	assert.Equal(t, 2, f.oracle.Queries("/src/app/node_modules"))
}

func TestInit(t *testing.T) {
	f := newFixture(t, config.Settings{})

	path, err := f.app.Init("/home/me/.config/asimeow/config.yaml")
	require.NoError(t, err)
	assert.Equal(t, "/home/me/.config/asimeow/config.yaml", path)

	require.NoError(t, f.app.LoadConfig(path))
	assert.Equal(t, config.Default(), f.app.Config())

	_, err = f.app.Init(path)
	assert.ErrorIs(t, err, config.ErrConfigExists)
}

func TestShutdownIdempotent(t *testing.T) {
	f := newFixture(t, config.Settings{})
	f.app.Shutdown()
	f.app.Shutdown()
	assert.Error(t, f.app.ctx.Err())
}

func TestScannerRules(t *testing.T) {
	rules := scannerRules([]config.Rule{
		{Name: "node", FileMatch: "package.json", Exclusions: []string{"node_modules", "dist"}},
	})
	assert.Equal(t, []scanner.Rule{
		{Name: "node", FileMatch: "package.json", Exclusions: []string{"node_modules", "dist"}},
	}, rules)
}
