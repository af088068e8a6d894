// Copyright 2020 Vedran Vuk. All rights reserved.
// Use of this source code is governed by a MIT
// license that can be found in the LICENSE file.

package clikit

import (
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"

	"github.com/sdaclin/cli-kit/clierr"
	"github.com/sdaclin/cli-kit/logging"
)

// ExtensionVariant names which of the three terminal states an Extension
// resolved to.
type ExtensionVariant string

const (
	VariantCLIKit     ExtensionVariant = "clikit"
	VariantExecutable ExtensionVariant = "executable"
	VariantInvalid    ExtensionVariant = "invalid"
)

// ExtensionLoader loads a cli-kit-compatible entry point and returns the
// Context tree it exports. The default implementation rejects every entry
// point; a host that builds its extensions as Go plugins (or links them in
// statically) supplies its own loader.
type ExtensionLoader func(entryPath string) (*Context, error)

// defaultLoader is the ExtensionLoader used when none is supplied.
func defaultLoader(entryPath string) (*Context, error) {
	return nil, clierr.New(clierr.InvalidExtension,
		"in-process extension loading requires a platform plugin loader; none registered for %s", entryPath)
}

// ExtensionOptions configures how an Extension tolerates load failures,
// matching the root CLIParams flags that govern it.
type ExtensionOptions struct {
	IgnoreMissingExtensions bool
	IgnoreInvalidExtensions bool
	Loader                  ExtensionLoader
	// Log receives a Warnf call whenever a load failure is tolerated instead
	// of aborting construction. logging.Nop is used when Log is nil.
	Log logging.Logger
}

// Extension is a Command that wraps an external subtree or executable.
type Extension struct {
	*Command

	IsCLIKitExtension bool
	Executable        string
	ExecArgs          []string
	Variant           ExtensionVariant

	// Diagnostic holds the message an invalid stub prints instead of
	// running, or "" for the other variants.
	Diagnostic string
}

// NewExtension resolves ref into an Extension adopted under parent: an
// executable on PATH, a package directory (cli-kit-compatible or script),
// or an invalid stub. warn receives load-time warnings
// that don't abort construction (root CLIParams-controlled tolerance);
// nil warn means such warnings are dropped.
func NewExtension(parent *Context, ref, name string, opts ExtensionOptions, warn func(error)) (*Extension, error) {
	if opts.Loader == nil {
		opts.Loader = defaultLoader
	}
	if opts.Log == nil {
		opts.Log = logging.Nop
	}
	if name == "" {
		name = filepath.Base(ref)
	}
	baseCmd, err := newCommand(name, CommandParams{})
	if err != nil {
		return nil, err
	}
	ext := &Extension{Command: baseCmd}
	ext.Command.self = ext

	if path, err := exec.LookPath(ref); err == nil {
		ext.Variant = VariantExecutable
		ext.Executable = path
		if err := parent.registerCommand(ext.Command); err != nil {
			return nil, err
		}
		ext.addNonCLIKitVersionStub()
		return ext, nil
	}

	if info, err := os.Stat(ref); err == nil {
		dir := ref
		if !info.IsDir() {
			dir = filepath.Dir(ref)
		}
		manifest, mErr := findManifest(dir)
		switch {
		case mErr == nil && manifest.IsCLIKitCompatible():
			ctx, lErr := opts.Loader(manifest.EntryPath())
			if lErr == nil {
				ext.IsCLIKitExtension = true
				ext.Variant = VariantCLIKit
				if err := ext.Context.Mix(ctx, false); err != nil {
					return nil, err
				}
				ext.applyManifestAliases(manifest, name)
				if err := parent.registerCommand(ext.Command); err != nil {
					return nil, err
				}
				return ext, nil
			}
			if opts.IgnoreInvalidExtensions {
				return ext.invalidStub(parent, warn, opts.Log, errors.Wrapf(lErr, "loading extension %q", ref))
			}
			return nil, clierr.Wrap(clierr.InvalidExtension, lErr, "loading extension %q", ref)
		case mErr == nil:
			if fields, ok, rErr := manifest.RunCommand(); rErr != nil {
				return nil, rErr
			} else if ok {
				ext.Variant = VariantExecutable
				ext.Executable = fields[0]
				ext.ExecArgs = fields[1:]
			} else {
				ext.scriptVariant(ref)
			}
			ext.applyManifestAliases(manifest, name)
			ext.addNonCLIKitVersionStub()
			if err := parent.registerCommand(ext.Command); err != nil {
				return nil, err
			}
			return ext, nil
		default:
			ext.scriptVariant(ref)
			ext.addNonCLIKitVersionStub()
			if err := parent.registerCommand(ext.Command); err != nil {
				return nil, err
			}
			return ext, nil
		}
	}

	if opts.IgnoreMissingExtensions {
		return ext.invalidStub(parent, warn, opts.Log, clierr.New(clierr.FileNotFound, "extension %q not found", ref))
	}
	return nil, clierr.New(clierr.InvalidExtension, "extension %q not found", ref)
}

// scriptVariant configures ext to run ref as a script via `go run`.
func (ext *Extension) scriptVariant(ref string) {
	ext.Variant = VariantExecutable
	ext.Executable = "go"
	ext.ExecArgs = []string{"run", ref}
}

// invalidStub finishes construction as an invalid stub: it is still
// registered under parent so command-line lookups resolve it, but its
// Action only writes a diagnostic.
func (ext *Extension) invalidStub(parent *Context, warn func(error), log logging.Logger, cause error) (*Extension, error) {
	ext.Variant = VariantInvalid
	ext.Diagnostic = cause.Error()
	ext.Action = func(dc *DispatchContext) (any, error) {
		io.WriteString(dc.Stderr, ext.Diagnostic+"\n")
		return nil, nil
	}
	log.Warnf("extension %q: %s", ext.Name, cause)
	if warn != nil {
		warn(cause)
	}
	if err := parent.registerCommand(ext.Command); err != nil {
		return nil, err
	}
	return ext, nil
}

// applyManifestAliases adds aliases declared by the manifest plus every
// sibling bin sharing this extension's target, and adopts the manifest's
// description when the extension has none of its own.
func (ext *Extension) applyManifestAliases(m *Manifest, name string) {
	for _, a := range m.Aliases {
		ext.Command.Aliases[a] = true
	}
	target := m.Bin[name]
	for _, a := range m.siblingBins(target) {
		ext.Command.Aliases[a] = true
	}
	if ext.Context.Desc == "" {
		ext.Context.Desc = m.Description
	}
}

// addNonCLIKitVersionStub adds a hidden -v/--version option to a non-cli-kit
// extension so the root's --version option does not leak into the
// extension's own scope.
func (ext *Extension) addNonCLIKitVersionStub() {
	_, _ = ext.Context.Option("-v, --version", "", OptionParams{
		Hidden: true,
		Callback: func(args OptionCallbackArgs) error {
			return clierr.New(clierr.NotAnOption, "version is not available on this extension")
		},
	})
}

// Exec spawns the Extension's executable/script with ExecArgs followed by
// passthrough: stdio is inherited when the process streams are real
// terminals, piped otherwise. It returns the child's exit code on process
// exit and does not fail on non-zero exit.
func (ext *Extension) Exec(passthrough []string, stdin io.Reader, stdout, stderr io.Writer) (int, error) {
	args := append(append([]string{}, ext.ExecArgs...), passthrough...)
	cmd := exec.Command(ext.Executable, args...)

	if isRealTerminalPair(stdin, stdout) {
		cmd.Stdin, cmd.Stdout, cmd.Stderr = os.Stdin, os.Stdout, os.Stderr
	} else {
		cmd.Stdin, cmd.Stdout, cmd.Stderr = stdin, stdout, stderr
	}

	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return exitErr.ExitCode(), nil
		}
		return -1, clierr.Wrap(clierr.NoExecutable, err, "running extension %q", ext.Executable)
	}
	return 0, nil
}

// isRealTerminalPair reports whether in/out are the process's own real
// stdio streams attached to a terminal, in which case a child process can
// inherit them directly instead of being piped.
func isRealTerminalPair(in io.Reader, out io.Writer) bool {
	inf, ok := in.(*os.File)
	if !ok || inf.Fd() != os.Stdin.Fd() {
		return false
	}
	of, ok := out.(*os.File)
	if !ok || of.Fd() != os.Stdout.Fd() {
		return false
	}
	return isatty.IsTerminal(of.Fd()) || isatty.IsCygwinTerminal(of.Fd())
}
