// Copyright 2020 Vedran Vuk. All rights reserved.
// Use of this source code is governed by a MIT
// license that can be found in the LICENSE file.

package clikit

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"sync"

	"github.com/sdaclin/cli-kit/clierr"
	"github.com/sdaclin/cli-kit/execenv"
	"github.com/sdaclin/cli-kit/help"
	"github.com/sdaclin/cli-kit/logging"
)

// minGoVersion is the library's own minimum required Go runtime, consulted
// alongside CLIParams.GoVersion during CLI.Exec's preflight; the stricter
// of the two must be satisfied.
const minGoVersion = "go1.21"

// OptionDecl declares one Option at CLI construction time.
type OptionDecl struct {
	Format string
	Desc   string
	Group  string
	Params OptionParams
}

// ExtensionDecl declares one extension to load at CLI construction time.
type ExtensionDecl struct {
	Ref  string
	Name string
}

// CLIParams configures a CLI at construction.
type CLIParams struct {
	Name    string
	Title   string
	Desc    string
	Version string
	Banner  string
	// GoVersion is the caller's minimum required Go runtime, e.g. "go1.22".
	GoVersion string

	// Colors defaults to true when nil.
	Colors             *bool
	HideNoColorOption  bool
	HideNoBannerOption bool

	Help            bool
	HelpExitCode    *int
	ShowHelpOnError *bool

	DefaultCommand         string
	ErrorIfUnknownCommand  *bool
	TreatUnknownAsArgument bool
	// CamelCase controls whether argv keys are camelCased ("output-dir"
	// becomes "outputDir") or keep their declared spelling. Defaults to
	// true when nil.
	CamelCase *bool

	ShowBannerForExternalCLIs bool

	Commands map[string]CommandParams
	// CommandsDir, if set, loads one command per JSON file in the named
	// directory.
	CommandsDir string

	Options []OptionDecl
	Args    []*Argument

	Extensions              []ExtensionDecl
	IgnoreMissingExtensions bool
	IgnoreInvalidExtensions bool
	Loader                  ExtensionLoader

	Stdout io.Writer
	Stderr io.Writer

	Env      execenv.ExecEnv
	Log      logging.Logger
	Renderer help.Renderer
}

// CLI is the root Context: it wires auto options, owns the output streams
// and extension/runtime surface, and runs the dispatch loop.
type CLI struct {
	*Context

	params CLIParams
	env    execenv.ExecEnv
	log    logging.Logger
	render help.Renderer

	stdout *stream
	stderr *stream

	warnings  []error
	closeOnce sync.Once

	// versionRan is set by the auto --version callback so Exec can return
	// the parse result without dispatching a command afterward.
	versionRan bool
}

// stream wraps an output writer with the single-banner-emission guard;
// whichever stream writes first emits the banner, at most once.
type stream struct {
	w          io.Writer
	bannerGate *sync.Once
	bannerText string
}

func (s *stream) Write(p []byte) (int, error) {
	if s.bannerGate != nil {
		s.bannerGate.Do(func() {
			if s.bannerText != "" {
				io.WriteString(s.w, s.bannerText+"\n")
			}
		})
	}
	return s.w.Write(p)
}

// NewCLI builds the root Context and wires the auto-generated options and
// commands.
func NewCLI(params CLIParams) (*CLI, error) {
	if params.Name == "" {
		return nil, clierr.New(clierr.InvalidArgument, "CLIParams.Name is required")
	}
	root := NewContext(params.Name, params.Title, params.Desc)
	root.SetProp("treatUnknownOptionsAsArguments", params.TreatUnknownAsArgument)
	root.SetProp("camelCase", params.CamelCase == nil || *params.CamelCase)

	env := params.Env
	if env == nil {
		env = execenv.NewStdlib()
	}
	log := params.Log
	if log == nil {
		log = logging.NewDefault(env.Stderr(), "warn")
	}
	renderer := params.Renderer
	if renderer == nil {
		r, err := help.NewTemplateRenderer("")
		if err != nil {
			return nil, err
		}
		renderer = r
	}

	cli := &CLI{
		Context: root,
		params:  params,
		env:     env,
		log:     log,
		render:  renderer,
	}

	bannerGate := &sync.Once{}
	stdoutW := params.Stdout
	if stdoutW == nil {
		stdoutW = env.Stdout()
	}
	stderrW := params.Stderr
	if stderrW == nil {
		stderrW = env.Stderr()
	}
	cli.stdout = &stream{w: stdoutW, bannerGate: bannerGate, bannerText: params.Banner}
	cli.stderr = &stream{w: stderrW, bannerGate: bannerGate, bannerText: params.Banner}

	for _, arg := range params.Args {
		if err := root.Argument(arg); err != nil {
			return nil, err
		}
	}
	for _, od := range params.Options {
		if _, err := root.Option(od.Format, od.Group, od.Params); err != nil {
			return nil, err
		}
	}
	for cname, cparams := range params.Commands {
		if _, err := root.Command(cname, cparams); err != nil {
			return nil, err
		}
	}
	if params.CommandsDir != "" {
		if err := cli.loadCommandsDir(params.CommandsDir); err != nil {
			return nil, err
		}
	}

	if params.Help {
		if _, err := root.Command("help", CommandParams{
			Desc: "Show help for a command.",
			Action: func(dc *DispatchContext) (any, error) {
				text, err := dc.Help()
				if err != nil {
					return nil, err
				}
				io.WriteString(dc.Stdout, text)
				if params.HelpExitCode != nil {
					dc.Env.Exit(*params.HelpExitCode)
				}
				return text, nil
			},
		}); err != nil {
			return nil, err
		}
		if params.DefaultCommand == "" {
			cli.params.DefaultCommand = "help"
		}
		if _, err := root.Option("-h, --help"); err != nil {
			return nil, err
		}
	}

	if params.Banner != "" && !params.HideNoBannerOption {
		if _, err := root.Option("--no-banner"); err != nil {
			return nil, err
		}
	}

	colors := params.Colors == nil || *params.Colors
	if colors && !params.HideNoColorOption {
		if _, err := root.Option("--no-color, --no-colors"); err != nil {
			return nil, err
		}
	}
	root.SetProp("colors", colors)

	if params.Version != "" {
		if _, found := root.findLongOption("version"); found == nil {
			if _, found2 := root.findShortOption("v"); found2 == nil {
				if _, err := root.Option("-v, --version", "", OptionParams{
					Callback: func(args OptionCallbackArgs) error {
						io.WriteString(cli.stdout, params.Version+"\n")
						cli.versionRan = true
						return nil
					},
				}); err != nil {
					return nil, err
				}
			}
		}
	}

	// Extensions load last so options they inject can see the auto options.
	for _, decl := range params.Extensions {
		if _, err := cli.Extension(decl.Ref, decl.Name); err != nil {
			return nil, err
		}
	}

	return cli, nil
}

// Warnings returns every non-fatal load-time issue accumulated while
// building the CLI (extension-load failures tolerated by
// IgnoreInvalidExtensions/IgnoreMissingExtensions).
func (c *CLI) Warnings() []error { return c.warnings }

// Extension resolves ref and grafts it under the root, using the tolerance
// flags and loader the CLI was constructed with. name defaults to the last
// path element of ref.
func (c *CLI) Extension(ref, name string) (*Extension, error) {
	return NewExtension(c.Context, ref, name, ExtensionOptions{
		IgnoreMissingExtensions: c.params.IgnoreMissingExtensions,
		IgnoreInvalidExtensions: c.params.IgnoreInvalidExtensions,
		Loader:                  c.params.Loader,
		Log:                     c.log,
	}, func(err error) { c.warnings = append(c.warnings, err) })
}

type flusher interface{ Flush() error }

// Shutdown flushes both output streams if their writers buffer. The
// consumer calls it once when done with the CLI instead of the library
// hooking process exit itself; repeated calls flush once.
func (c *CLI) Shutdown() {
	c.closeOnce.Do(func() {
		if f, ok := c.stdout.w.(flusher); ok {
			f.Flush()
		}
		if f, ok := c.stderr.w.(flusher); ok {
			f.Flush()
		}
	})
}

// preflight checks that the running Go version satisfies the stricter of
// the caller's required minimum and the library's own.
func (c *CLI) preflight() error {
	required := c.params.GoVersion
	if required == "" || compareGoVersion(minGoVersion, required) > 0 {
		required = minGoVersion
	}
	if compareGoVersion(runtime.Version(), required) < 0 {
		return clierr.New(clierr.InvalidNodeJS,
			"go runtime %s does not satisfy required minimum %s", runtime.Version(), required)
	}
	return nil
}

// compareGoVersion does a best-effort lexical/numeric compare of "goX.Y"
// strings; good enough for the preflight's minimum-satisfied check without
// depending on golang.org/x/mod/semver for two-component runtime tags.
func compareGoVersion(a, b string) int {
	pa, pb := parseGoVersion(a), parseGoVersion(b)
	for i := 0; i < 2; i++ {
		if pa[i] != pb[i] {
			if pa[i] < pb[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

func parseGoVersion(v string) [2]int {
	var out [2]int
	fmt.Sscanf(v, "go%d.%d", &out[0], &out[1])
	return out
}

// Exec parses tokens and dispatches the terminal command. ctx governs
// cancellation of a running action's own context.Context; tokens defaults
// to c.env.Args() minus the program name when nil.
func (c *CLI) Exec(ctx context.Context, tokens []string) (any, error) {
	if err := c.preflight(); err != nil {
		return nil, err
	}
	if tokens == nil {
		if args := c.env.Args(); len(args) > 1 {
			tokens = args[1:]
		}
	}

	result, parseErr := Parse(tokens, c.Context)
	if parseErr != nil {
		return c.handleError(parseErr, nil)
	}
	if c.versionRan {
		c.versionRan = false
		return result, nil
	}

	// --no-color/--no-banner take effect only once the whole vector parsed,
	// never mid-callback.
	if v, ok := result.Argv["color"].(bool); ok && !v {
		c.Context.SetProp("colors", false)
	}

	terminal := result.Terminal()
	cmd, isCommand := terminal.ownerCommand()
	isOpaqueExt := false
	if ext, ok := terminal.ownerExtension(); ok {
		isOpaqueExt = ext.Variant == VariantExecutable
	}

	// Explicit help flag wins terminal-command selection, except when the
	// terminal is an opaque external extension.
	wantHelp, _ := result.Argv["help"].(bool)
	if wantHelp && !isOpaqueExt {
		if helpCmd, ok := c.Context.findCommand("help"); ok {
			cmd, isCommand = helpCmd, true
			terminal = helpCmd.Context
		}
	}

	if !isCommand && c.params.DefaultCommand != "" {
		dflt, ok := c.Context.findCommand(c.params.DefaultCommand)
		if !ok {
			return nil, clierr.New(clierr.DefaultCommandNotFound, "default command %q not found", c.params.DefaultCommand)
		}
		cmd, isCommand = dflt, true
		terminal = dflt.Context
	}

	errorIfUnknown := true
	if c.params.ErrorIfUnknownCommand != nil {
		errorIfUnknown = *c.params.ErrorIfUnknownCommand
	}
	if !isCommand && errorIfUnknown && len(c.Context.commands) > 0 && len(result.Positional) > 0 {
		return c.handleError(clierr.New(clierr.InvalidArgument, "unknown command %q", result.Positional[0]), result)
	}

	banner := c.effectiveBanner(cmd)
	if v, ok := result.Argv["banner"].(bool); ok && !v {
		banner = ""
	}
	c.stdout.bannerText, c.stderr.bannerText = banner, banner

	if !isCommand || cmd == nil {
		return result, nil
	}

	runCtx, cancel := signalCancel(ctx, c.env)
	defer cancel()

	dc := &DispatchContext{
		Context:    terminal,
		Argv:       result.Argv,
		Positional: result.Positional,
		Warnings:   append(append([]error{}, c.warnings...), result.Warnings...),
		Stdout:     c.stdout,
		Stderr:     c.stderr,
		Env:        c.env,
		Log:        c.log,
		Ctx:        runCtx,
		Help: func() (string, error) {
			return c.renderHelp(terminal)
		},
	}

	if ext, ok := cmd.self.(*Extension); ok && ext.Variant == VariantExecutable {
		code, err := ext.Exec(result.Positional, c.env.Stdin(), c.stdout, c.stderr)
		if err != nil {
			return c.handleError(err, result)
		}
		return code, nil
	}

	if cmd.Action == nil {
		return result, nil
	}
	val, err := cmd.Action(dc)
	if err != nil {
		return c.handleError(err, result)
	}
	return val, nil
}

// handleError renders help for the failing context when help-on-error is
// enabled, then returns the error unchanged either way.
func (c *CLI) handleError(err error, result *ParseResult) (any, error) {
	c.log.Errorf("%s: %v", c.Name, err)

	showHelpOnError := true
	if c.params.ShowHelpOnError != nil {
		showHelpOnError = *c.params.ShowHelpOnError
	}
	if !c.params.Help || !showHelpOnError {
		return nil, err
	}
	terminal := c.Context
	if result != nil {
		if t := result.Terminal(); t != nil {
			terminal = t
		}
	}
	text, rErr := c.renderHelp(terminal)
	if rErr != nil {
		return nil, err
	}
	io.WriteString(c.stderr, text)
	return nil, err
}

// renderHelp builds a help.Model from ctx's declared tree and renders it.
func (c *CLI) renderHelp(ctx *Context) (string, error) {
	ctx.Emit("help")
	var buf strings.Builder
	model := help.Model{
		Name:    c.Name,
		Title:   c.Title,
		Desc:    c.Desc,
		Version: c.params.Version,
		Root:    buildCommandModel(ctx),
	}
	if err := c.render.Render(&buf, model); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// buildCommandModel renders ctx's own arguments/commands plus every Option
// visible from ctx, nearest scope first, so a command's help lists options
// it inherited from its parents without duplicating one it redeclared
// itself.
func buildCommandModel(ctx *Context) help.CommandModel {
	m := help.CommandModel{Name: ctx.Name, Desc: ctx.Desc}
	for _, arg := range ctx.args {
		m.Arguments = append(m.Arguments, help.ArgumentModel{
			Name: arg.Name, Desc: arg.Desc, Required: arg.Required,
			Multiple: arg.Multiple, Type: string(arg.Type),
		})
	}
	for _, opt := range ctx.visibleOptions() {
		m.Options = append(m.Options, help.OptionModel{
			Long: opt.Long, Short: opt.Short, Desc: opt.Desc,
			Hidden: opt.Hidden, Negated: opt.Negated,
			HasValue: opt.ValueBearing, Default: opt.Default,
		})
	}
	for _, cmd := range ctx.commands {
		m.Commands = append(m.Commands, buildCommandModel(cmd.Context))
	}
	return m
}

// effectiveBanner resolves which banner text (if any) applies for this
// dispatch: the terminal command's banner overrides the root's, and
// non-cli-kit extensions get none unless ShowBannerForExternalCLIs.
func (c *CLI) effectiveBanner(cmd *Command) string {
	if cmd == nil {
		return c.params.Banner
	}
	if ext, ok := cmd.self.(*Extension); ok && !ext.IsCLIKitExtension {
		if !c.params.ShowBannerForExternalCLIs {
			return ""
		}
	}
	if b := cmd.effectiveBanner(); b != "" {
		return b
	}
	return c.params.Banner
}

// signalCancel derives a context.Context from parent that is canceled when
// the process is interrupted.
func signalCancel(parent context.Context, env execenv.ExecEnv) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	sigCh := make(chan execenv.Signal, 1)
	env.SignalNotify(sigCh, os.Interrupt)
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()
	return ctx, cancel
}

// ownerCommand returns the Command that owns this Context, if any (the CLI
// root itself is not a Command). For a Context backed by an Extension, it
// still returns the embedded *Command, so callers that only need the
// Context/Action surface don't need to know about Extension.
func (ctx *Context) ownerCommand() (*Command, bool) {
	switch owner := ctx.props["__owner__"].(type) {
	case *Command:
		return owner, true
	case *Extension:
		return owner.Command, true
	}
	return nil, false
}

// ownerExtension returns the Extension backing this Context, if the
// Context's owning Command is actually an Extension.
func (ctx *Context) ownerExtension() (*Extension, bool) {
	ext, ok := ctx.props["__owner__"].(*Extension)
	return ext, ok
}
