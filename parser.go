// Copyright 2020 Vedran Vuk. All rights reserved.
// Use of this source code is governed by a MIT
// license that can be found in the LICENSE file.

package clikit

import (
	"strings"

	"github.com/sdaclin/cli-kit/clierr"
)

// ParseResult is the outcome of a Parse call.
type ParseResult struct {
	// Positional holds every token classified as positional, in the order
	// seen, including tokens following an end-of-options marker.
	Positional []string
	// Argv maps an Option's CanonicalName (or Argument's CamelCase name)
	// to its coerced value.
	Argv map[string]any
	// Contexts holds the Contexts traversed during descent, terminal
	// (innermost) first, root last.
	Contexts []*Context
	// Unknown maps an unrecognized option's raw spelling to the raw token
	// it was found in.
	Unknown map[string]string
	// Warnings accumulates non-fatal issues noticed during this parse.
	Warnings []error
}

// Terminal returns the innermost Context reached during the parse.
func (r *ParseResult) Terminal() *Context {
	if len(r.Contexts) == 0 {
		return nil
	}
	return r.Contexts[0]
}

type pendingCallback struct {
	run func(next func() error) error
}

// parser holds the mutable state threaded through one Parse call.
type parser struct {
	tokens []string
	pos    int

	ctx        *Context
	result     *ParseResult
	endOfOpts  bool
	camel      bool
	callbacks  []pendingCallback
	groupOwner map[string]*Option
}

// key returns the argv key for opt under the parse's camelCase setting.
func (p *parser) key(opt *Option) string {
	if p.camel {
		return opt.CanonicalName()
	}
	if opt.Long != "" {
		return opt.Long
	}
	return opt.Short
}

// Parse walks tokens against root: it descends commands, recognizes
// long/short options (including clustering and negation), applies defaults,
// and separates unknown tokens, returning a ParseResult.
func Parse(tokens []string, root *Context) (*ParseResult, error) {
	p := &parser{
		tokens: tokens,
		ctx:    root,
		result: &ParseResult{
			Argv:     map[string]any{},
			Unknown:  map[string]string{},
			Contexts: []*Context{root},
		},
		groupOwner: map[string]*Option{},
	}
	p.camel, _ = root.Prop("camelCase", true).(bool)
	p.seedDefaults(root, map[string]bool{})

	for p.pos < len(p.tokens) {
		tok := p.tokens[p.pos]

		if p.endOfOpts {
			p.result.Positional = append(p.result.Positional, tok)
			p.pos++
			continue
		}

		switch {
		case tok == "--":
			p.endOfOpts = true
			p.pos++
		case strings.HasPrefix(tok, "--"):
			if err := p.consumeLong(tok); err != nil {
				return nil, err
			}
		case strings.HasPrefix(tok, "-") && tok != "-":
			if err := p.consumeShort(tok); err != nil {
				return nil, err
			}
		default:
			if cmd, ok := p.ctx.findCommand(tok); ok {
				p.descend(cmd.Context)
				p.pos++
			} else {
				p.result.Positional = append(p.result.Positional, tok)
				p.pos++
			}
		}
	}

	if err := p.runCallbacks(); err != nil {
		return nil, err
	}

	terminal := p.result.Terminal()
	if err := terminal.args.bind(p.result.Positional, p.result.Argv, p.camel); err != nil {
		return nil, err
	}
	p.applyRemainingDefaults(terminal)

	return p.result, nil
}

// seedDefaults writes every visible option's Default into argv, skipping
// options already recorded in seen (so re-seeding on descent never
// clobbers a value already set from a previous scope) and options whose
// key is already present in argv.
func (p *parser) seedDefaults(ctx *Context, seen map[string]bool) {
	for _, opt := range ctx.visibleOptions() {
		name := p.key(opt)
		if seen[name] {
			continue
		}
		seen[name] = true
		if _, set := p.result.Argv[name]; set {
			continue
		}
		if opt.Default != nil {
			p.result.Argv[name] = opt.Default
		}
	}
}

// descend moves the parser into child: it records the new Context
// terminal-first, and seeds defaults for any option newly visible there.
// Descending into an opaque executable extension ends option recognition:
// everything after the extension's name on the command line is passthrough
// for the child process, never this parser's to interpret.
func (p *parser) descend(child *Context) {
	p.result.Contexts = append([]*Context{child}, p.result.Contexts...)
	p.ctx = child
	if ext, ok := child.ownerExtension(); ok && ext.Variant == VariantExecutable {
		p.endOfOpts = true
		return
	}
	seen := map[string]bool{}
	for _, ctx := range p.result.Contexts[1:] {
		for _, opt := range ctx.visibleOptions() {
			seen[p.key(opt)] = true
		}
	}
	p.seedDefaults(child, seen)
}

// treatUnknownAsArgs reports the effective treatUnknownOptionsAsArguments
// setting for the parser's current Context.
func (p *parser) treatUnknownAsArgs() bool {
	v, _ := p.ctx.Prop("treatUnknownOptionsAsArguments", false).(bool)
	return v
}

func (p *parser) recordUnknown(name, raw string) {
	p.result.Unknown[name] = raw
	if p.treatUnknownAsArgs() {
		p.result.Positional = append(p.result.Positional, raw)
	}
}

// consumeLong handles a "--name", "--name=value" or "--no-name" token.
func (p *parser) consumeLong(tok string) error {
	body := strings.TrimPrefix(tok, "--")
	name, explicitValue, hasValue := body, "", false
	if idx := strings.IndexByte(body, '='); idx >= 0 {
		name, explicitValue, hasValue = body[:idx], body[idx+1:], true
	}

	opt, _ := p.ctx.findLongOption(name)
	if opt == nil {
		p.recordUnknown(name, tok)
		p.pos++
		return nil
	}
	p.pos++

	if opt.Negated {
		return p.setArgv(opt, false)
	}
	if !opt.ValueBearing {
		return p.setArgv(opt, true)
	}

	var raw string
	switch {
	case hasValue:
		raw = explicitValue
	case opt.ValueRequired:
		if p.pos >= len(p.tokens) {
			return clierr.New(clierr.MissingRequiredOption, "option --%s requires a value", name)
		}
		raw = p.tokens[p.pos]
		p.pos++
	default:
		// Optional-value ("[value]") option with no "=value": treat bare
		// presence as a boolean flag rather than guessing whether the next
		// token is its value or a positional argument.
		return p.setArgv(opt, true)
	}

	val, err := coerce(opt.Type, raw, opt.Validator)
	if err != nil {
		return err
	}
	return p.setArgv(opt, val)
}

// consumeShort handles "-x", "-xyz", "-x=value" and "-xvalue".
func (p *parser) consumeShort(tok string) error {
	body := strings.TrimPrefix(tok, "-")
	p.pos++

	if idx := strings.IndexByte(body, '='); idx >= 0 {
		name, raw := body[:idx], body[idx+1:]
		opt, _ := p.ctx.findShortOption(name)
		if opt == nil {
			p.recordUnknown(name, tok)
			return nil
		}
		val, err := coerce(opt.Type, raw, opt.Validator)
		if err != nil {
			return err
		}
		return p.setArgv(opt, val)
	}

	for i := 0; i < len(body); i++ {
		name := string(body[i])
		opt, _ := p.ctx.findShortOption(name)
		if opt == nil {
			p.recordUnknown(name, tok)
			continue
		}
		if opt.Negated {
			if err := p.setArgv(opt, false); err != nil {
				return err
			}
			continue
		}
		if !opt.ValueBearing {
			if err := p.setArgv(opt, true); err != nil {
				return err
			}
			continue
		}
		rest := body[i+1:]
		var raw string
		if rest != "" {
			raw = rest
			i = len(body)
		} else if opt.ValueRequired {
			if p.pos >= len(p.tokens) {
				return clierr.New(clierr.MissingRequiredOption, "option -%s requires a value", name)
			}
			raw = p.tokens[p.pos]
			p.pos++
		} else {
			if err := p.setArgv(opt, true); err != nil {
				return err
			}
			continue
		}
		val, err := coerce(opt.Type, raw, opt.Validator)
		if err != nil {
			return err
		}
		if err := p.setArgv(opt, val); err != nil {
			return err
		}
	}
	return nil
}

// setArgv writes val to argv under opt's canonical name, queuing the
// option's Callback (if any) to run after the full token loop, chained in
// encounter order via Next. It fails with clierr.Conflict if opt belongs to
// a non-empty Group already claimed by a different Option during this
// parse.
func (p *parser) setArgv(opt *Option, val any) error {
	if opt.Group != "" {
		if owner, ok := p.groupOwner[opt.Group]; ok && owner != opt {
			return clierr.New(clierr.Conflict, "option --%s conflicts with --%s in group %q",
				opt.Long, owner.Long, opt.Group)
		}
		p.groupOwner[opt.Group] = opt
	}
	name := p.key(opt)
	prev := p.result.Argv[name]
	p.result.Argv[name] = val
	if opt.Callback == nil {
		return nil
	}
	cb := opt.Callback
	p.callbacks = append(p.callbacks, pendingCallback{
		run: func(next func() error) error {
			return cb(OptionCallbackArgs{Value: val, Previous: prev, Next: next})
		},
	})
	return nil
}

// runCallbacks invokes queued option callbacks in encounter order, each
// given a Next continuation to invoke the rest of the chain. A callback
// that returns without calling Next stops the remainder, which is how
// --version suppresses everything after it.
func (p *parser) runCallbacks() error {
	var invoke func(i int) error
	invoke = func(i int) error {
		if i >= len(p.callbacks) {
			return nil
		}
		return p.callbacks[i].run(func() error { return invoke(i + 1) })
	}
	return invoke(0)
}

// applyRemainingDefaults fills any option key still absent from argv after
// binding, for options visible from the terminal Context.
func (p *parser) applyRemainingDefaults(terminal *Context) {
	for _, opt := range terminal.visibleOptions() {
		name := p.key(opt)
		if _, set := p.result.Argv[name]; !set && opt.Default != nil {
			p.result.Argv[name] = opt.Default
		}
	}
}
