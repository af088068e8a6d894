package naming

import "testing"

func TestCamelCase(t *testing.T) {
	cases := map[string]string{
		"":            "",
		"banner":      "banner",
		"no-banner":   "noBanner",
		"output_dir":  "outputDir",
		"output-dir":  "outputDir",
		"a":           "a",
	}
	for in, want := range cases {
		if got := CamelCase(in); got != want {
			t.Errorf("CamelCase(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestKebab(t *testing.T) {
	if got := Kebab("OutputDir"); got != "output-dir" {
		t.Errorf("Kebab(%q) = %q, want %q", "OutputDir", got, "output-dir")
	}
}

func TestIsAlphaNumeric(t *testing.T) {
	if !IsAlphaNumeric("abc123") {
		t.Error("expected abc123 to be alphanumeric")
	}
	if IsAlphaNumeric("abc-123") {
		t.Error("expected abc-123 to not be alphanumeric")
	}
	if IsAlphaNumeric("") {
		t.Error("expected empty string to not be alphanumeric")
	}
}
