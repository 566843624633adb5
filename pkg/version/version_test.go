package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetPrefersLinkerValues(t *testing.T) {
	defer func(v, c string) { BridgectlVersion, GitCommit = v, c }(BridgectlVersion, GitCommit)
	BridgectlVersion, GitCommit = "v0.3.1", "abc123"

	info := Get()
	assert.Equal(t, "v0.3.1", info.Version)
	assert.Equal(t, "abc123", info.Commit)
	assert.Contains(t, String(), "bridgectl version: v0.3.1\n Git commit: abc123\n")
}

func TestGetDefaults(t *testing.T) {
	defer func(v, c string) { BridgectlVersion, GitCommit = v, c }(BridgectlVersion, GitCommit)
	BridgectlVersion, GitCommit = "", ""

	info := Get()
	assert.NotEmpty(t, info.Version)
	assert.NotEmpty(t, info.Commit)
}

func TestInfoString(t *testing.T) {
	assert.Equal(t, "bridgectl version: v1\n Git commit: c\n", Info{Version: "v1", Commit: "c"}.String())
	assert.Equal(t, "bridgectl version: v1\n Git commit: c\n Go: go1.22.0\n", Info{Version: "v1", Commit: "c", Go: "go1.22.0"}.String())
}
