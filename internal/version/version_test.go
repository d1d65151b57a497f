package version

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShort(t *testing.T) {
	old := Version
	t.Cleanup(func() { Version = old })

	Version = "1.2.0"
	assert.Equal(t, "Asimeow version 1.2.0", Short())
}

func TestGetBuildInfo(t *testing.T) {
	old := Version
	t.Cleanup(func() { Version = old })

	Version = "v0.4.1-rc1"
	info := GetBuildInfo()

	assert.Equal(t, "v0.4.1-rc1", info.Version)
	assert.Equal(t, "0.4.1", info.SemVer)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, info.Platform)
}

func TestFullVersion(t *testing.T) {
	out := FullVersion()
	assert.Contains(t, out, "Asimeow version")
	assert.Contains(t, out, "Go Version:")
	assert.Contains(t, out, "Platform:")
}
