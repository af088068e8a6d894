// Copyright 2020 Vedran Vuk. All rights reserved.
// Use of this source code is governed by a MIT
// license that can be found in the LICENSE file.

package clikit

import (
	"context"
	"io"
	"strings"

	"github.com/sdaclin/cli-kit/clierr"
	"github.com/sdaclin/cli-kit/execenv"
	"github.com/sdaclin/cli-kit/internal/naming"
	"github.com/sdaclin/cli-kit/logging"
)

// DispatchContext is passed to a Command's ActionFunc. It carries the
// parsed values for that invocation plus the handles an action needs to
// talk back to the world.
type DispatchContext struct {
	*Context

	// Argv holds the argument/option values bound for this dispatch, merged
	// root-to-leaf, keyed as in ParseResult.Argv (camelCased unless the
	// CLI's CamelCase setting is off).
	Argv map[string]any
	// Positional holds every positional token of the parse, in order,
	// including those already bound to this Context's Arguments.
	Positional []string
	// Warnings accumulates the non-fatal load-time and parse-time issues
	// the CLI tolerated before this dispatch.
	Warnings []error

	// Stdout and Stderr are the CLI's banner-aware output streams. Actions
	// write user-facing output here rather than to Env's raw streams, so
	// banner emission and stream overrides apply.
	Stdout io.Writer
	Stderr io.Writer

	// Env is the execution environment (args/env/std streams/signals) the
	// CLI was constructed with.
	Env execenv.ExecEnv
	// Log is the CLI's logger.
	Log logging.Logger
	// Ctx is canceled when the running CLI.Exec's own context is canceled or
	// the process is interrupted. An Action that runs long work should
	// select on Ctx.Done() alongside its own work.
	Ctx context.Context
	// Help renders and returns this Context's help text on demand, rather
	// than eagerly, so an action only pays for it if it asks.
	Help func() (string, error)
}

// ActionFunc is a Command's behavior. It returns a result value (passed back
// to whatever invoked CLI.Exec) or an error.
type ActionFunc func(dc *DispatchContext) (any, error)

// CommandParams configures a Command at construction time.
type CommandParams struct {
	Title   string
	Desc    string
	Aliases []string
	Action  ActionFunc
	// Banner overrides the inherited banner text for this Command and its
	// descendants, or "" to inherit.
	Banner string
}

// Command is a Context that can be the terminal node of a dispatch: it adds
// an optional set of Aliases it additionally answers to, and an ActionFunc
// invoked once the parser descends all the way into it.
type Command struct {
	*Context

	Aliases map[string]bool
	Action  ActionFunc
	Banner  string

	// self holds the outermost value this Command is embedded in: the
	// Command itself for a plain command, or the owning *Extension when
	// this Command underlies one. CLI.Exec dispatches on this so an
	// Extension's executable-spawning path is reachable from the terminal
	// Context alone.
	self any
}

// newCommand builds a Command named name from params. It does not register
// the Command anywhere; callers go through Context.Command or
// Context.AdoptCommand for that. It fails with clierr.InvalidAlias if any
// declared alias is empty or contains characters other than letters, digits
// and hyphens.
func newCommand(name string, params CommandParams) (*Command, error) {
	ctx := NewContext(name, params.Title, params.Desc)
	aliases := map[string]bool{}
	for _, a := range params.Aliases {
		if err := validateAlias(a); err != nil {
			return nil, err
		}
		aliases[a] = true
	}
	if params.Banner != "" {
		ctx.SetProp("banner", params.Banner)
	}
	cmd := &Command{
		Context: ctx,
		Aliases: aliases,
		Action:  params.Action,
		Banner:  params.Banner,
	}
	cmd.self = cmd
	return cmd, nil
}

// validateAlias rejects an empty alias or one containing anything but
// letters, digits and internal hyphens.
func validateAlias(a string) error {
	if a == "" {
		return clierr.New(clierr.InvalidAlias, "alias must not be empty")
	}
	if a[0] == '-' || a[len(a)-1] == '-' || !naming.IsAlphaNumeric(strings.ReplaceAll(a, "-", "")) {
		return clierr.New(clierr.InvalidAlias, "alias %q is ill-formed", a)
	}
	return nil
}

// Self returns the outermost value (*Command or *Extension) this Command
// underlies.
func (cmd *Command) Self() any { return cmd.self }

// effectiveBanner returns the nearest declared banner text visible from this
// Command, walking outward through its Context chain; a sub-command without
// its own banner inherits the nearest ancestor's.
func (cmd *Command) effectiveBanner() string {
	if b, ok := cmd.Context.Prop("banner", "").(string); ok {
		return b
	}
	return ""
}
