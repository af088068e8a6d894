package clikit

import (
	"testing"

	"github.com/sdaclin/cli-kit/clierr"
)

func TestParseOptionFormatLongOnly(t *testing.T) {
	opt, err := ParseOptionFormat("--verbose")
	if err != nil {
		t.Fatalf("ParseOptionFormat failed: %v", err)
	}
	if opt.Long != "verbose" {
		t.Errorf("Long = %q, want %q", opt.Long, "verbose")
	}
	if opt.ValueBearing {
		t.Error("ValueBearing = true, want false")
	}
	if got := opt.CanonicalName(); got != "verbose" {
		t.Errorf("CanonicalName() = %q, want %q", got, "verbose")
	}
}

func TestParseOptionFormatShortAndLong(t *testing.T) {
	opt, err := ParseOptionFormat("-o, --output <path>")
	if err != nil {
		t.Fatalf("ParseOptionFormat failed: %v", err)
	}
	if opt.Long != "output" {
		t.Errorf("Long = %q, want %q", opt.Long, "output")
	}
	if opt.Short != "o" {
		t.Errorf("Short = %q, want %q", opt.Short, "o")
	}
	if !opt.ValueBearing {
		t.Error("ValueBearing = false, want true")
	}
	if !opt.ValueRequired {
		t.Error("ValueRequired = false, want true")
	}
}

func TestParseOptionFormatOptionalValue(t *testing.T) {
	opt, err := ParseOptionFormat("--level [value]")
	if err != nil {
		t.Fatalf("ParseOptionFormat failed: %v", err)
	}
	if !opt.ValueBearing {
		t.Error("ValueBearing = false, want true")
	}
	if opt.ValueRequired {
		t.Error("ValueRequired = true, want false")
	}
}

func TestParseOptionFormatNegated(t *testing.T) {
	opt, err := ParseOptionFormat("--no-color")
	if err != nil {
		t.Fatalf("ParseOptionFormat failed: %v", err)
	}
	if !opt.Negated {
		t.Error("Negated = false, want true")
	}
	if opt.Long != "color" {
		t.Errorf("Long = %q, want %q", opt.Long, "color")
	}
	if opt.Default != true {
		t.Errorf("Default = %v, want true", opt.Default)
	}

	longs, _ := opt.names()
	found := false
	for _, l := range longs {
		if l == "no-color" {
			found = true
		}
	}
	if !found {
		t.Errorf("names() longs = %v, want to contain %q", longs, "no-color")
	}
}

func TestParseOptionFormatAliases(t *testing.T) {
	opt, err := ParseOptionFormat("--output, --out, -o, -O <path>")
	if err != nil {
		t.Fatalf("ParseOptionFormat failed: %v", err)
	}
	longs, shorts := opt.names()
	assertElementsMatch(t, longs, []string{"output", "out"})
	assertElementsMatch(t, shorts, []string{"o", "O"})
}

func TestParseOptionFormatRejectsEmpty(t *testing.T) {
	_, err := ParseOptionFormat("")
	if err == nil {
		t.Fatal("ParseOptionFormat: expected error, got nil")
	}
	if !clierr.Has(err, clierr.InvalidOptionFormat) {
		t.Errorf("ParseOptionFormat: want clierr.InvalidOptionFormat, got %v", err)
	}
}

func TestParseOptionFormatRejectsMalformed(t *testing.T) {
	_, err := ParseOptionFormat("not-an-option-token")
	if err == nil {
		t.Fatal("ParseOptionFormat: expected error, got nil")
	}
	if !clierr.Has(err, clierr.InvalidOptionFormat) {
		t.Errorf("ParseOptionFormat: want clierr.InvalidOptionFormat, got %v", err)
	}
}

func TestParseOptionFormatRejectsNoName(t *testing.T) {
	_, err := ParseOptionFormat("<value>")
	if err == nil {
		t.Fatal("ParseOptionFormat: expected error, got nil")
	}
	if !clierr.Has(err, clierr.InvalidOptionFormat) {
		t.Errorf("ParseOptionFormat: want clierr.InvalidOptionFormat, got %v", err)
	}
}

func TestOptionCanonicalNameFallsBackToShort(t *testing.T) {
	opt, err := ParseOptionFormat("-x")
	if err != nil {
		t.Fatalf("ParseOptionFormat failed: %v", err)
	}
	if got := opt.CanonicalName(); got != "x" {
		t.Errorf("CanonicalName() = %q, want %q", got, "x")
	}
}
