package clikit

import (
	"reflect"
	"testing"

	"github.com/sdaclin/cli-kit/clierr"
)

func newTestRoot(t *testing.T) *Context {
	t.Helper()
	root := NewContext("app", "App", "")
	return root
}

func TestParseLongOptionWithValue(t *testing.T) {
	root := newTestRoot(t)
	if _, err := root.Option("--output <path>"); err != nil {
		t.Fatalf("Option failed: %v", err)
	}

	res, err := Parse([]string{"--output=build/out"}, root)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if res.Argv["output"] != "build/out" {
		t.Errorf("Argv[output] = %v, want %q", res.Argv["output"], "build/out")
	}

	res, err = Parse([]string{"--output", "build/out"}, root)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if res.Argv["output"] != "build/out" {
		t.Errorf("Argv[output] = %v, want %q", res.Argv["output"], "build/out")
	}
}

func TestParseLongOptionMissingRequiredValue(t *testing.T) {
	root := newTestRoot(t)
	if _, err := root.Option("--output <path>"); err != nil {
		t.Fatalf("Option failed: %v", err)
	}

	_, err := Parse([]string{"--output"}, root)
	if err == nil {
		t.Fatal("Parse: expected error, got nil")
	}
	if !clierr.Has(err, clierr.MissingRequiredOption) {
		t.Errorf("Parse: want clierr.MissingRequiredOption, got %v", err)
	}
}

func TestParseShortOptionClustering(t *testing.T) {
	root := newTestRoot(t)
	if _, err := root.Option("-v, --verbose"); err != nil {
		t.Fatalf("Option failed: %v", err)
	}
	if _, err := root.Option("-f, --force"); err != nil {
		t.Fatalf("Option failed: %v", err)
	}

	res, err := Parse([]string{"-vf"}, root)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if res.Argv["verbose"] != true {
		t.Errorf("Argv[verbose] = %v, want true", res.Argv["verbose"])
	}
	if res.Argv["force"] != true {
		t.Errorf("Argv[force] = %v, want true", res.Argv["force"])
	}
}

func TestParseShortOptionClusterTrailingValue(t *testing.T) {
	root := newTestRoot(t)
	if _, err := root.Option("-v, --verbose"); err != nil {
		t.Fatalf("Option failed: %v", err)
	}
	if _, err := root.Option("-o <path>"); err != nil {
		t.Fatalf("Option failed: %v", err)
	}

	res, err := Parse([]string{"-vopath"}, root)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if res.Argv["verbose"] != true {
		t.Errorf("Argv[verbose] = %v, want true", res.Argv["verbose"])
	}
	if res.Argv["o"] != "path" {
		t.Errorf("Argv[o] = %v, want %q", res.Argv["o"], "path")
	}
}

func TestParseNegatedOption(t *testing.T) {
	root := newTestRoot(t)
	if _, err := root.Option("--no-color"); err != nil {
		t.Fatalf("Option failed: %v", err)
	}

	res, err := Parse(nil, root)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if res.Argv["color"] != true {
		t.Errorf("Argv[color] = %v, want true", res.Argv["color"])
	}

	res, err = Parse([]string{"--no-color"}, root)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if res.Argv["color"] != false {
		t.Errorf("Argv[color] = %v, want false", res.Argv["color"])
	}
}

func TestParseEndOfOptionsMarker(t *testing.T) {
	root := newTestRoot(t)
	if _, err := root.Option("--verbose"); err != nil {
		t.Fatalf("Option failed: %v", err)
	}

	res, err := Parse([]string{"--", "--verbose"}, root)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	want := []string{"--verbose"}
	if !reflect.DeepEqual(res.Positional, want) {
		t.Errorf("Positional = %v, want %v", res.Positional, want)
	}
	if _, set := res.Argv["verbose"]; set {
		t.Error("Argv[verbose] set, want unset")
	}
}

func TestParseUnknownOptionRecorded(t *testing.T) {
	root := newTestRoot(t)
	res, err := Parse([]string{"--mystery"}, root)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if res.Unknown["mystery"] != "--mystery" {
		t.Errorf("Unknown[mystery] = %q, want %q", res.Unknown["mystery"], "--mystery")
	}
	if len(res.Positional) != 0 {
		t.Errorf("Positional = %v, want empty", res.Positional)
	}
}

func TestParseUnknownOptionTreatedAsArgument(t *testing.T) {
	root := newTestRoot(t)
	root.SetProp("treatUnknownOptionsAsArguments", true)
	res, err := Parse([]string{"--mystery"}, root)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	want := []string{"--mystery"}
	if !reflect.DeepEqual(res.Positional, want) {
		t.Errorf("Positional = %v, want %v", res.Positional, want)
	}
}

func TestParseDescendsIntoCommand(t *testing.T) {
	root := newTestRoot(t)
	build, err := root.Command("build", CommandParams{})
	if err != nil {
		t.Fatalf("Command failed: %v", err)
	}
	if _, err := build.Context.Option("--release"); err != nil {
		t.Fatalf("Option failed: %v", err)
	}

	res, err := Parse([]string{"build", "--release"}, root)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(res.Contexts) != 2 {
		t.Fatalf("len(Contexts) = %d, want 2", len(res.Contexts))
	}
	if res.Terminal() != build.Context {
		t.Errorf("Terminal() = %v, want %v", res.Terminal(), build.Context)
	}
	if res.Argv["release"] != true {
		t.Errorf("Argv[release] = %v, want true", res.Argv["release"])
	}
}

func TestParseGroupConflict(t *testing.T) {
	root := newTestRoot(t)
	if _, err := root.Option("--json", "format", OptionParams{}); err != nil {
		t.Fatalf("Option failed: %v", err)
	}
	if _, err := root.Option("--yaml", "format", OptionParams{}); err != nil {
		t.Fatalf("Option failed: %v", err)
	}

	_, err := Parse([]string{"--json", "--yaml"}, root)
	if err == nil {
		t.Fatal("Parse: expected error, got nil")
	}
	if !clierr.Has(err, clierr.Conflict) {
		t.Errorf("Parse: want clierr.Conflict, got %v", err)
	}
}

func TestParseGroupSameOptionTwiceNoConflict(t *testing.T) {
	root := newTestRoot(t)
	if _, err := root.Option("--json", "format", OptionParams{}); err != nil {
		t.Fatalf("Option failed: %v", err)
	}

	res, err := Parse([]string{"--json", "--json"}, root)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if res.Argv["json"] != true {
		t.Errorf("Argv[json] = %v, want true", res.Argv["json"])
	}
}

func TestParseDefaultsSeeded(t *testing.T) {
	root := newTestRoot(t)
	if _, err := root.Option("--level <value>", "", OptionParams{Default: "info"}); err != nil {
		t.Fatalf("Option failed: %v", err)
	}

	res, err := Parse(nil, root)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if res.Argv["level"] != "info" {
		t.Errorf("Argv[level] = %v, want %q", res.Argv["level"], "info")
	}
}

func TestParseCallbackChainShortCircuit(t *testing.T) {
	root := newTestRoot(t)
	var calls []string
	_, err := root.Option("--first", "", OptionParams{
		Callback: func(args OptionCallbackArgs) error {
			calls = append(calls, "first")
			return nil // does not call Next: stops the chain
		},
	})
	if err != nil {
		t.Fatalf("Option failed: %v", err)
	}
	_, err = root.Option("--second", "", OptionParams{
		Callback: func(args OptionCallbackArgs) error {
			calls = append(calls, "second")
			return args.Next()
		},
	})
	if err != nil {
		t.Fatalf("Option failed: %v", err)
	}

	if _, err := Parse([]string{"--first", "--second"}, root); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	want := []string{"first"}
	if !reflect.DeepEqual(calls, want) {
		t.Errorf("calls = %v, want %v", calls, want)
	}
}

func TestParseCallbackChainContinues(t *testing.T) {
	root := newTestRoot(t)
	var calls []string
	_, err := root.Option("--first", "", OptionParams{
		Callback: func(args OptionCallbackArgs) error {
			calls = append(calls, "first")
			return args.Next()
		},
	})
	if err != nil {
		t.Fatalf("Option failed: %v", err)
	}
	_, err = root.Option("--second", "", OptionParams{
		Callback: func(args OptionCallbackArgs) error {
			calls = append(calls, "second")
			return args.Next()
		},
	})
	if err != nil {
		t.Fatalf("Option failed: %v", err)
	}

	if _, err := Parse([]string{"--first", "--second"}, root); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	want := []string{"first", "second"}
	if !reflect.DeepEqual(calls, want) {
		t.Errorf("calls = %v, want %v", calls, want)
	}
}

func TestParseRequiredArgumentBinding(t *testing.T) {
	root := newTestRoot(t)
	if err := root.Argument(&Argument{Name: "file", Required: true}); err != nil {
		t.Fatalf("Argument failed: %v", err)
	}

	_, err := Parse(nil, root)
	if err == nil {
		t.Fatal("Parse: expected error, got nil")
	}
	if !clierr.Has(err, clierr.MissingRequiredArgument) {
		t.Errorf("Parse: want clierr.MissingRequiredArgument, got %v", err)
	}

	res, err := Parse([]string{"main.go"}, root)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if res.Argv["file"] != "main.go" {
		t.Errorf("Argv[file] = %v, want %q", res.Argv["file"], "main.go")
	}
}

func TestParseNestedScopeOptionVisible(t *testing.T) {
	root := newTestRoot(t)
	if _, err := root.Option("--verbose"); err != nil {
		t.Fatalf("Option failed: %v", err)
	}
	build, err := root.Command("build", CommandParams{})
	if err != nil {
		t.Fatalf("Command failed: %v", err)
	}

	res, err := Parse([]string{"build", "--verbose"}, root)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if res.Argv["verbose"] != true {
		t.Errorf("Argv[verbose] = %v, want true", res.Argv["verbose"])
	}
	if res.Terminal() != build.Context {
		t.Errorf("Terminal() = %v, want %v", res.Terminal(), build.Context)
	}
}

func TestParsePassesThroughAfterExecutableExtension(t *testing.T) {
	root := newTestRoot(t)
	if _, err := root.Option("--flag"); err != nil {
		t.Fatalf("Option failed: %v", err)
	}
	cmd, err := newCommand("myext", CommandParams{})
	if err != nil {
		t.Fatalf("newCommand failed: %v", err)
	}
	ext := &Extension{Command: cmd, Variant: VariantExecutable, Executable: "/usr/bin/true"}
	ext.Command.self = ext
	if err := root.registerCommand(ext.Command); err != nil {
		t.Fatalf("registerCommand failed: %v", err)
	}

	res, err := Parse([]string{"myext", "--flag", "x"}, root)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if want := []string{"--flag", "x"}; !reflect.DeepEqual(res.Positional, want) {
		t.Errorf("Positional = %v, want %v", res.Positional, want)
	}
	if _, set := res.Argv["flag"]; set {
		t.Errorf("Argv[flag] set to %v, want passthrough untouched", res.Argv["flag"])
	}
}

func TestParseCamelCaseDisabledKeepsDeclaredKeys(t *testing.T) {
	root := newTestRoot(t)
	root.SetProp("camelCase", false)
	if _, err := root.Option("--output-dir <d>"); err != nil {
		t.Fatalf("Option failed: %v", err)
	}

	res, err := Parse([]string{"--output-dir", "build"}, root)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if res.Argv["output-dir"] != "build" {
		t.Errorf("Argv[output-dir] = %v, want %q", res.Argv["output-dir"], "build")
	}
	if _, set := res.Argv["outputDir"]; set {
		t.Error("Argv[outputDir] set, want declared spelling only")
	}
}
