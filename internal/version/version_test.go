package version

import (
	"testing"

	"github.com/fatih/color"
)

func TestString(t *testing.T) {
	orig := Version
	t.Cleanup(func() { Version = orig })

	Version = "  "
	if got := String(); got != "dev" {
		t.Fatalf("String() = %q, want dev", got)
	}
	Version = "1.2.3"
	if got := String(); got != "1.2.3" {
		t.Fatalf("String() = %q", got)
	}
}

func TestColoredWithoutColor(t *testing.T) {
	orig, origNoColor := Version, color.NoColor
	t.Cleanup(func() { Version, color.NoColor = orig, origNoColor })
	color.NoColor = true

	cases := map[string]string{
		"0.1.0-dev":            "0.1.0-dev",
		"1.2.3-rc.1+build.123": "1.2.3-rc.1+build.123",
		"nightly":              "nightly",
	}
	for in, want := range cases {
		Version = in
		if got := Colored(); got != want {
			t.Fatalf("Colored(%q) = %q, want %q", in, got, want)
		}
	}
}
