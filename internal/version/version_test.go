package version

import (
	"strings"
	"testing"
)

func TestGetVersion_DefaultValues(t *testing.T) {
	origVersion := Version
	defer func() { Version = origVersion }()

	Version = "dev"

	got := GetVersion()
	if got == "" {
		t.Error("GetVersion() returned empty string")
	}
}

func TestGetVersion_WithLdflags(t *testing.T) {
	origVersion := Version
	defer func() { Version = origVersion }()

	Version = "v0.2.0"

	if got := GetVersion(); got != "v0.2.0" {
		t.Errorf("GetVersion() = %v, want v0.2.0", got)
	}
}

func TestGetFullVersion(t *testing.T) {
	origVersion := Version
	origCommit := GitCommit
	defer func() {
		Version = origVersion
		GitCommit = origCommit
	}()

	Version = "v0.2.0"
	GitCommit = "abc1234"

	got := GetFullVersion()
	if !strings.Contains(got, "v0.2.0") || !strings.Contains(got, "abc1234") {
		t.Errorf("GetFullVersion() = %v, want version and commit", got)
	}
}
