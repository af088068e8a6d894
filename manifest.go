// Copyright 2020 Vedran Vuk. All rights reserved.
// Use of this source code is governed by a MIT
// license that can be found in the LICENSE file.

package clikit

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/google/shlex"

	"github.com/sdaclin/cli-kit/clierr"
)

// CLIKitMetadata declares that a package manifest's module is compatible
// with the in-process extension loading path.
type CLIKitMetadata struct {
	Compatible bool   `json:"compatible"`
	Entry      string `json:"entry"`
}

// Manifest is the package manifest contract extensions are resolved
// against: a JSON file naming the package, its entry point,
// description, aliases and declared binaries, plus an optional cli-kit
// compatibility block.
type Manifest struct {
	Name        string            `json:"name"`
	Main        string            `json:"main"`
	Description string            `json:"description"`
	Aliases     []string          `json:"aliases"`
	Bin         map[string]string `json:"bin"`
	CLIKit      *CLIKitMetadata   `json:"cli-kit,omitempty"`

	// Run, if set, is a full "runtime plus arguments" command line for a
	// non-cli-kit extension (e.g. "python3 script.py --flag"), overriding
	// the default "go run <extension path>" fallback scriptVariant otherwise
	// uses.
	Run string `json:"run,omitempty"`

	dir string
}

// RunCommand tokenizes Run the way a shell would, splitting quoted
// arguments correctly, and returns false if Run is unset.
func (m *Manifest) RunCommand() ([]string, bool, error) {
	if m == nil || m.Run == "" {
		return nil, false, nil
	}
	fields, err := shlex.Split(m.Run)
	if err != nil {
		return nil, false, clierr.Wrap(clierr.InvalidPackageJSON, err, "parsing manifest run command %q", m.Run)
	}
	if len(fields) == 0 {
		return nil, false, nil
	}
	return fields, true, nil
}

// manifestNames are the files findManifest looks for, nearest directory
// first.
var manifestNames = []string{"clikit.json", "package.json"}

// findManifest walks up from dir looking for the nearest manifest file. It
// returns clierr.FileNotFound if none is found before reaching the
// filesystem root.
func findManifest(dir string) (*Manifest, error) {
	cur := dir
	for {
		for _, name := range manifestNames {
			path := filepath.Join(cur, name)
			if data, err := os.ReadFile(path); err == nil {
				m := &Manifest{dir: cur}
				if err := json.Unmarshal(data, m); err != nil {
					return nil, clierr.Wrap(clierr.InvalidPackageJSON, err, "parsing manifest %s", path)
				}
				return m, nil
			}
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return nil, clierr.New(clierr.FileNotFound, "no package manifest found above %s", dir)
		}
		cur = parent
	}
}

// IsCLIKitCompatible reports whether the manifest declares itself loadable
// as an in-process extension subtree.
func (m *Manifest) IsCLIKitCompatible() bool {
	return m != nil && m.CLIKit != nil && m.CLIKit.Compatible
}

// EntryPath resolves the manifest's declared entry point relative to the
// manifest's directory; the result is absolute only if that directory is.
func (m *Manifest) EntryPath() string {
	entry := m.Main
	if m.CLIKit != nil && m.CLIKit.Entry != "" {
		entry = m.CLIKit.Entry
	}
	if entry == "" {
		entry = "main.go"
	}
	return filepath.Join(m.dir, entry)
}

// siblingBins returns every bin name in the manifest whose target matches,
// so an extension answers to every spelling the package installs it under.
func (m *Manifest) siblingBins(target string) []string {
	var out []string
	for name, bin := range m.Bin {
		if bin == target {
			out = append(out, name)
		}
	}
	return out
}
