package version

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfoCarriesDefaults(t *testing.T) {
	info := Info()
	assert.Equal(t, Version, info.Version)
	assert.NotEmpty(t, info.GoVersion)
	assert.True(t, strings.HasPrefix(info.GoVersion, "go"))
}

func TestStringFormat(t *testing.T) {
	info := BuildInfo{
		Version:   "1.2.3",
		BuildDate: "2026-01-02",
		GitCommit: "abcdef1234567890",
		GoVersion: "go1.24",
	}
	s := info.String()
	assert.Contains(t, s, "Version: 1.2.3")
	assert.Contains(t, s, "Git Commit: abcdef1")
	assert.Contains(t, s, "Build Date: 2026-01-02")
}

func TestIsRelease(t *testing.T) {
	assert.False(t, IsRelease())
}
