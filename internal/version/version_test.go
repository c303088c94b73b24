package version

import (
	"strings"
	"testing"
)

func TestGetCurrentVersion(t *testing.T) {
	if got := GetCurrentVersion("dev"); got != DevVersion {
		t.Errorf("GetCurrentVersion(dev) = %v, want %v", got, DevVersion)
	}
	if got := GetCurrentVersion("demo"); got != DevVersion {
		t.Errorf("GetCurrentVersion(demo) = %v, want %v", got, DevVersion)
	}
	if got := GetCurrentVersion("prod"); got != Version {
		t.Errorf("GetCurrentVersion(prod) = %v, want %v", got, Version)
	}
}

func TestString_AppendsShortCommit(t *testing.T) {
	origCommit := GitCommit
	defer func() { GitCommit = origCommit }()

	GitCommit = "unknown"
	if got := String(); got != Version {
		t.Errorf("String() = %v, want %v", got, Version)
	}

	GitCommit = "0123456789abcdef"
	want := Version + "-01234567"
	if got := String(); got != want {
		t.Errorf("String() = %v, want %v", got, want)
	}
}

func TestStringFull(t *testing.T) {
	origCommit, origBuildTime := GitCommit, BuildTime
	defer func() { GitCommit, BuildTime = origCommit, origBuildTime }()

	GitCommit = "0123456789abcdef"
	BuildTime = "2026-08-01T00:00:00Z"

	full := StringFull()
	for _, part := range []string{"Version=" + Version, "Commit=01234567", "BuildTime=2026-08-01T00:00:00Z"} {
		if !strings.Contains(full, part) {
			t.Errorf("StringFull() = %v, missing %v", full, part)
		}
	}
}
