package commands

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdnmdn/asimeow/internal/config"
	"github.com/mdnmdn/asimeow/internal/version"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestResolveSettings(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
		args    []string
		check   func(t *testing.T, s config.Settings)
		wantErr string
	}{
		{
			name: "defaults",
			check: func(t *testing.T, s config.Settings) {
				assert.Equal(t, config.DefaultWorkers, s.Workers)
				assert.Equal(t, "text", s.Output)
				assert.False(t, s.DryRun)
			},
		},
		{
			name: "flags override environment",
			envVars: map[string]string{
				"ASIMEOW_WORKERS": "2",
				"ASIMEOW_OUTPUT":  "yaml",
			},
			args: []string{"-t", "16", "-o", "json", "-vv", "--dry-run", "--rate-limit", "50"},
			check: func(t *testing.T, s config.Settings) {
				assert.Equal(t, 16, s.Workers)
				assert.Equal(t, "json", s.Output)
				assert.Equal(t, 2, s.Verbose)
				assert.True(t, s.DryRun)
				assert.Equal(t, 50, s.RateLimit)
			},
		},
		{
			name:    "environment kept when flag unset",
			envVars: map[string]string{"ASIMEOW_WORKERS": "2", "ASIMEOW_NO_PROGRESS": "true"},
			check: func(t *testing.T, s config.Settings) {
				assert.Equal(t, 2, s.Workers)
				assert.True(t, s.NoProgress)
			},
		},
		{
			name:    "invalid thread count",
			args:    []string{"-t", "0"},
			wantErr: "workers count must be positive",
		},
		{
			name:    "invalid output flag",
			args:    []string{"-o", "xml"},
			wantErr: "invalid output format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			opts := &Options{}
			cmd := newRootCommand(opts)
			require.NoError(t, cmd.ParseFlags(tt.args))

			s, err := resolveSettings(cmd, opts)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, s)
		})
	}
}

func TestListTarget(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		path     string
		wholeDir bool
	}{
		{name: "no argument", path: ".", wholeDir: true},
		{name: "trailing slash", args: []string{"src/"}, path: "src/", wholeDir: true},
		{name: "plain path", args: []string{"src"}, path: "src", wholeDir: false},
		{name: "root", args: []string{"/"}, path: "/", wholeDir: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, wholeDir := listTarget(tt.args)
			assert.Equal(t, tt.path, path)
			assert.Equal(t, tt.wholeDir, wholeDir)
		})
	}
}

func TestInitPath(t *testing.T) {
	assert.Equal(t, "/tmp/x.yaml", initPath(true, "/tmp/x.yaml"))
	assert.Equal(t, config.FileName, initPath(true, ""))
	assert.Equal(t, config.DefaultPath(), initPath(false, ""))
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, version.Short()+"\n", out)

	out, err = execute(t, "version", "--full")
	require.NoError(t, err)
	assert.Contains(t, out, "Go Version:")

	out, err = execute(t, "--version")
	require.NoError(t, err)
	assert.Equal(t, version.Short()+"\n", out)
}

func TestInitCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	out, err := execute(t, "init", "-p", path)
	require.NoError(t, err)
	assert.Contains(t, out, "✅ Created default config file at: "+path)

	_, err = execute(t, "init", "-p", path)
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrConfigExists)
}

func TestArgumentValidation(t *testing.T) {
	_, err := execute(t, "exclude")
	assert.Error(t, err)

	_, err = execute(t, "include", "a", "b")
	assert.Error(t, err)

	_, err = execute(t, "list", "a", "b")
	assert.Error(t, err)

	_, err = execute(t, "unexpected-arg")
	assert.Error(t, err)
}
