package clikit

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdaclin/cli-kit/clierr"
)

func TestNewExtensionResolvesExecutableOnPath(t *testing.T) {
	path, err := exec.LookPath("ls")
	if err != nil {
		t.Skip("ls not available on PATH")
	}

	root := NewContext("app", "App", "")
	ext, err := NewExtension(root, "ls", "", ExtensionOptions{}, nil)
	require.NoError(t, err)
	assert.Equal(t, VariantExecutable, ext.Variant)
	assert.Equal(t, path, ext.Executable)

	_, ok := root.ownerExtension()
	assert.False(t, ok) // root itself is not an extension's owning Context

	owner, ok := ext.Context.ownerExtension()
	require.True(t, ok)
	assert.Same(t, ext, owner)
}

func TestNewExtensionMissingNotIgnored(t *testing.T) {
	root := NewContext("app", "App", "")
	_, err := NewExtension(root, "/no/such/path/or/binary-xyz", "", ExtensionOptions{}, nil)
	require.Error(t, err)
	assert.True(t, clierr.Has(err, clierr.InvalidExtension))
}

func TestNewExtensionMissingIgnored(t *testing.T) {
	root := NewContext("app", "App", "")
	var warned error
	ext, err := NewExtension(root, "/no/such/path/or/binary-xyz", "stub", ExtensionOptions{
		IgnoreMissingExtensions: true,
	}, func(e error) { warned = e })
	require.NoError(t, err)
	assert.Equal(t, VariantInvalid, ext.Variant)
	assert.NotEmpty(t, ext.Diagnostic)
	assert.Error(t, warned)

	_, ok := root.findCommand("stub")
	assert.True(t, ok)
}

func TestNewExtensionDirectoryWithManifestScriptVariant(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "clikit.json", `{"name":"tool","main":"main.go"}`)

	root := NewContext("app", "App", "")
	ext, err := NewExtension(root, dir, "tool", ExtensionOptions{}, nil)
	require.NoError(t, err)
	assert.Equal(t, VariantExecutable, ext.Variant)
	assert.Equal(t, "go", ext.Executable)
	assert.Equal(t, []string{"run", dir}, ext.ExecArgs)

	_, ok := ext.Context.Lookup().Long("version")
	assert.True(t, ok)
}

func TestNewExtensionDirectoryWithManifestRunOverride(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "clikit.json", `{"name":"tool","main":"main.go","run":"python3 tool.py --fast"}`)

	root := NewContext("app", "App", "")
	ext, err := NewExtension(root, dir, "tool", ExtensionOptions{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "python3", ext.Executable)
	assert.Equal(t, []string{"tool.py", "--fast"}, ext.ExecArgs)
}

func TestNewExtensionDirectoryCLIKitCompatibleUsesLoader(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "clikit.json", `{"name":"tool","cli-kit":{"compatible":true,"entry":"main.go"}}`)

	loaded := NewContext("loaded", "Loaded", "")
	_, err := loaded.Option("--loaded-flag")
	require.NoError(t, err)

	root := NewContext("app", "App", "")
	ext, err := NewExtension(root, dir, "tool", ExtensionOptions{
		Loader: func(entryPath string) (*Context, error) {
			assert.Equal(t, filepath.Join(dir, "main.go"), entryPath)
			return loaded, nil
		},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, VariantCLIKit, ext.Variant)
	assert.True(t, ext.IsCLIKitExtension)

	_, ok := ext.Context.Lookup().Long("loaded-flag")
	assert.True(t, ok)
}

func TestNewExtensionDirectoryCLIKitLoaderFailsIgnored(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "clikit.json", `{"name":"tool","cli-kit":{"compatible":true,"entry":"main.go"}}`)

	root := NewContext("app", "App", "")
	ext, err := NewExtension(root, dir, "tool", ExtensionOptions{
		IgnoreInvalidExtensions: true,
		Loader: func(entryPath string) (*Context, error) {
			return nil, os.ErrNotExist
		},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, VariantInvalid, ext.Variant)
}

func TestDefaultLoaderAlwaysErrors(t *testing.T) {
	_, err := defaultLoader("/some/entry.go")
	require.Error(t, err)
	assert.True(t, clierr.Has(err, clierr.InvalidExtension))
}

func TestExtensionExecPropagatesExitCode(t *testing.T) {
	truePath, err := exec.LookPath("true")
	if err != nil {
		t.Skip("true not available on PATH")
	}
	falsePath, err := exec.LookPath("false")
	if err != nil {
		t.Skip("false not available on PATH")
	}

	root := NewContext("app", "App", "")
	ext, err := NewExtension(root, truePath, "ok", ExtensionOptions{}, nil)
	require.NoError(t, err)

	var out, errOut bytes.Buffer
	code, err := ext.Exec([]string{"x", "y"}, strings.NewReader(""), &out, &errOut)
	require.NoError(t, err)
	assert.Equal(t, 0, code)

	root2 := NewContext("app", "App", "")
	ext2, err := NewExtension(root2, falsePath, "fail", ExtensionOptions{}, nil)
	require.NoError(t, err)

	code, err = ext2.Exec(nil, strings.NewReader(""), &out, &errOut)
	require.NoError(t, err) // non-zero exit is not an error
	assert.Equal(t, 1, code)
}
