// Copyright 2020 Vedran Vuk. All rights reserved.
// Use of this source code is governed by a MIT
// license that can be found in the LICENSE file.

package clikit

import (
	"github.com/sdaclin/cli-kit/clierr"
	"github.com/sdaclin/cli-kit/internal/naming"
)

// EventFunc is a subscriber callback for Context events.
type EventFunc func(ctx *Context)

// emitter is a minimal publish/subscribe trait composed into Context.
// Only "help" is published today, at the point help is computed for a
// Context.
type emitter struct {
	subs map[string][]EventFunc
}

func newEmitter() *emitter { return &emitter{subs: map[string][]EventFunc{}} }

func (e *emitter) On(event string, fn EventFunc) {
	e.subs[event] = append(e.subs[event], fn)
}

func (e *emitter) Emit(event string, ctx *Context) {
	for _, fn := range e.subs[event] {
		fn(ctx)
	}
}

// reservedProps are the Context fields that are never copied verbatim when
// mixing one Context's declarations into another; each has its own
// reindexing path instead.
var reservedProps = map[string]bool{
	"args": true, "commands": true, "options": true,
	"lookup": true, "_events": true, "_links": true,
}

// Context is a node in the command tree: it owns Arguments, Options and
// child Commands, plus a Lookup over its own Options/Commands, and chains to
// its parent for scoped property reads.
type Context struct {
	parent *Context

	Title string
	Name  string
	Desc  string

	args       ArgumentList
	commands   []*Command
	options    map[string][]*Option
	groupOrder []string
	lookup     *Lookup
	props      map[string]any
	events     *emitter
}

// NewContext returns a new root Context (no parent). Commands/Extensions
// adopt a Context as they're constructed under a parent.
func NewContext(name, title, desc string) *Context {
	return &Context{
		Name:    name,
		Title:   title,
		Desc:    desc,
		options: map[string][]*Option{},
		lookup:  newLookup(),
		props:   map[string]any{},
		events:  newEmitter(),
	}
}

// CamelCase returns the camelCased form of Name.
func (c *Context) CamelCase() string { return naming.CamelCase(c.Name) }

// On subscribes fn to an event published on this Context. "help" is
// published when help text is computed for the Context.
func (c *Context) On(event string, fn EventFunc) { c.events.On(event, fn) }

// Emit publishes an event to this Context's subscribers.
func (c *Context) Emit(event string) { c.events.Emit(event, c) }

// Parent returns the enclosing Context, or nil at the root.
func (c *Context) Parent() *Context { return c.parent }

// Arguments returns the Arguments declared directly on this Context.
func (c *Context) Arguments() ArgumentList { return c.args }

// Commands returns the Commands declared directly on this Context.
func (c *Context) Commands() []*Command { return c.commands }

// Lookup returns this Context's own Lookup (not the scoped chain).
func (c *Context) Lookup() *Lookup { return c.lookup }

// Options returns the Options declared directly on this Context, keyed by
// Option.Group; GroupOrder gives the order the groups were declared in.
func (c *Context) Options() map[string][]*Option { return c.options }

// GroupOrder returns the declared option group names in the order they were
// first used, "" (the default group) included wherever it was first seen.
func (c *Context) GroupOrder() []string { return c.groupOrder }

// Argument appends arg to this Context's ArgumentList, validating the
// ordering invariant.
func (c *Context) Argument(arg *Argument) error {
	return c.args.Add(arg)
}

// OptionParams configures registration details beyond what the format
// string itself encodes.
type OptionParams struct {
	Hidden    bool
	Default   any
	Type      Type
	Callback  OptionCallback
	Validator Validator
}

// Option registers an Option on this Context built from format, optionally
// followed by a description string, or a group name and OptionParams:
//
//	Option(format)
//	Option(format, desc)
//	Option(format, group, params)
//
// It fails with clierr.AlreadyExists if any of the option's canonical names
// or visible aliases collide with one already declared directly on this
// Context.
func (c *Context) Option(format string, rest ...any) (*Option, error) {
	opt, err := ParseOptionFormat(format)
	if err != nil {
		return nil, err
	}
	group := ""
	switch len(rest) {
	case 0:
	case 1:
		if desc, ok := rest[0].(string); ok {
			opt.Desc = desc
		} else {
			return nil, clierr.New(clierr.InvalidArgument, "Option: second argument must be a description string")
		}
	case 2:
		g, ok := rest[0].(string)
		if !ok {
			return nil, clierr.New(clierr.InvalidArgument, "Option: second argument must be a group name")
		}
		group = g
		params, ok := rest[1].(OptionParams)
		if !ok {
			return nil, clierr.New(clierr.InvalidArgument, "Option: third argument must be OptionParams")
		}
		opt.Hidden = params.Hidden
		opt.Default = params.Default
		if params.Type != "" {
			opt.Type = params.Type
		}
		opt.Callback = params.Callback
		opt.Validator = params.Validator
	default:
		return nil, clierr.New(clierr.InvalidArgument, "Option: too many arguments")
	}
	return c.addOption(opt, group)
}

func (c *Context) addOption(opt *Option, group string) (*Option, error) {
	opt.Group = group
	opt.parent = c
	if err := c.lookup.addOption(opt); err != nil {
		return nil, err
	}
	if _, seen := c.options[group]; !seen {
		c.groupOrder = append(c.groupOrder, group)
	}
	c.options[group] = append(c.options[group], opt)
	return opt, nil
}

// registerCommand adopts cmd under this Context: sets its parent, and adds
// it (and its visible aliases) to the Lookup.
func (c *Context) registerCommand(cmd *Command) error {
	if err := c.lookup.addCommand(cmd); err != nil {
		return err
	}
	cmd.parent = c
	c.commands = append(c.commands, cmd)
	cmd.Context.SetProp("__owner__", cmd.self)
	return nil
}

// Command constructs a Command named name under this Context and registers
// it.
func (c *Context) Command(name string, params CommandParams) (*Command, error) {
	cmd, err := newCommand(name, params)
	if err != nil {
		return nil, err
	}
	if err := c.registerCommand(cmd); err != nil {
		return nil, err
	}
	return cmd, nil
}

// AdoptCommand registers an already-constructed Command under this Context.
func (c *Context) AdoptCommand(cmd *Command) error {
	return c.registerCommand(cmd)
}

// Get implements the "get" scoped property read: it walks from the root
// down to this Context and returns the first non-nil value found, so a
// value declared at the root wins over one shadowed by a descendant.
func (c *Context) Get(name string, def any) any {
	chain := c.chainToRoot()
	for i := len(chain) - 1; i >= 0; i-- {
		if v, ok := chain[i].props[name]; ok && v != nil {
			return v
		}
	}
	return def
}

// Prop implements the "prop" scoped property read: it walks from this
// Context outward to the root and returns the first non-nil value found, so
// the nearest (most local) declaration wins, falling back outward.
func (c *Context) Prop(name string, def any) any {
	for cur := c; cur != nil; cur = cur.parent {
		if v, ok := cur.props[name]; ok && v != nil {
			return v
		}
	}
	return def
}

// SetProp sets a scoped property directly on this Context.
func (c *Context) SetProp(name string, value any) {
	if c.props == nil {
		c.props = map[string]any{}
	}
	c.props[name] = value
}

// chainToRoot returns the Contexts from this one up to the root, this
// Context first.
func (c *Context) chainToRoot() []*Context {
	var chain []*Context
	for cur := c; cur != nil; cur = cur.parent {
		chain = append(chain, cur)
	}
	return chain
}

// findLongOption walks from this Context to the root looking up name as a
// long option name, returning the option found in the nearest scope; the
// nearest scope wins at recognition time.
func (c *Context) findLongOption(name string) (*Option, *Context) {
	for cur := c; cur != nil; cur = cur.parent {
		if o, ok := cur.lookup.Long(name); ok {
			return o, cur
		}
	}
	return nil, nil
}

func (c *Context) findShortOption(name string) (*Option, *Context) {
	for cur := c; cur != nil; cur = cur.parent {
		if o, ok := cur.lookup.Short(name); ok {
			return o, cur
		}
	}
	return nil, nil
}

func (c *Context) findCommand(name string) (*Command, bool) {
	cmd, ok := c.lookup.Command(name)
	return cmd, ok
}

// visibleOptions returns every Option visible from this Context: its own
// plus every ancestor's, nearest scope first so a caller seeding argv
// defaults can let a child's declaration of the same canonical name shadow
// its parent's.
func (c *Context) visibleOptions() []*Option {
	seen := map[string]bool{}
	var out []*Option
	for cur := c; cur != nil; cur = cur.parent {
		for _, group := range cur.groupOrder {
			for _, opt := range cur.options[group] {
				key := opt.CanonicalName()
				if seen[key] {
					continue
				}
				seen[key] = true
				out = append(out, opt)
			}
		}
	}
	return out
}

// Mix copies other's declarations into c: every own property except the
// reserved set {args, commands, options, lookup, _events, _links}, then
// re-adds other's options (so they reindex into c's own Lookup) and
// sub-commands. Used to graft an extension-provided Context tree.
//
// When fromRootCLI is true, options already visible in c's ancestor chain
// are skipped during re-registration, except "version" which is always
// copied so an extension can override the parent's version behavior.
func (c *Context) Mix(other *Context, fromRootCLI bool) error {
	for k, v := range other.props {
		if reservedProps[k] {
			continue
		}
		c.SetProp(k, v)
	}
	if other.Title != "" {
		c.Title = other.Title
	}
	if other.Desc != "" {
		c.Desc = other.Desc
	}
	for _, group := range other.groupOrder {
		for _, opt := range other.options[group] {
			if fromRootCLI && opt.Long != "version" {
				if _, found := c.findLongOption(opt.Long); found != nil {
					continue
				}
			}
			clone := *opt
			clone.camelCase = ""
			if _, err := c.addOption(&clone, group); err != nil {
				return err
			}
		}
	}
	for _, cmd := range other.commands {
		if err := c.registerCommand(cmd); err != nil {
			return err
		}
	}
	for _, arg := range other.args {
		if err := c.args.Add(arg); err != nil {
			return err
		}
	}
	return nil
}
