package clikit

import (
	"regexp"
	"strings"

	"github.com/sdaclin/cli-kit/clierr"
	"github.com/sdaclin/cli-kit/internal/naming"
)

// OptionCallbackArgs is passed to an Option's callback when it is recognized
// during parsing.
type OptionCallbackArgs struct {
	// Value is the coerced value this invocation produced.
	Value any
	// Previous is the value argv held for this option before this
	// invocation, if any.
	Previous any
	// Next continues invoking any remaining option callbacks in the
	// order the parser encountered their tokens. A callback
	// that does not call Next stops the remaining callback chain for this
	// parse, which is how --version suppresses everything after it.
	Next func() error
}

// OptionCallback is invoked once per recognized occurrence of its option,
// after the parser's token loop has finished. Callbacks run sequentially in
// token order.
type OptionCallback func(args OptionCallbackArgs) error

// AliasSet records the extra long/short spellings an Option answers to,
// beyond its canonical Long/Short, each mapped to whether it is shown in
// help output.
type AliasSet struct {
	Long  map[string]bool
	Short map[string]bool
}

func newAliasSet() AliasSet {
	return AliasSet{Long: map[string]bool{}, Short: map[string]bool{}}
}

// Option describes one named flag/parameter of a Context.
type Option struct {
	// Long is the canonical long name, without "--", or "" if none.
	Long string
	// Short is the canonical short name, a single character without "-",
	// or "" if none.
	Short string
	// Negated marks an option declared with a "no-" prefix; the value is
	// true by default and presence on the command line sets it false.
	Negated bool
	// ValueBearing is true when the option takes a value.
	ValueBearing bool
	// ValueRequired distinguishes "<value>" (required) from "[value]"
	// (optional) in the format string. Only meaningful if ValueBearing.
	ValueRequired bool
	// Type is the value type tag used for coercion.
	Type Type
	// Default is applied to argv when the option is absent from input.
	Default any
	// Hidden excludes the option from help listings.
	Hidden bool
	// Desc is a short description for help rendering.
	Desc string
	// Group optionally classifies the option for display and for mutual
	// exclusivity: two parsed options sharing a non-empty Group conflict.
	Group string
	// Aliases are additional spellings that resolve to this Option.
	Aliases AliasSet
	// Callback, if set, runs when the option is recognized during parsing.
	Callback OptionCallback
	// Validator, if set, is run against the raw token before coercion.
	Validator Validator

	parent    *Context
	camelCase string
}

// CanonicalName returns the camelCased argv key for this Option: its long
// name camelCased, or its short name if it has no long name.
func (o *Option) CanonicalName() string {
	if o.camelCase != "" {
		return o.camelCase
	}
	switch {
	case o.Long != "":
		o.camelCase = naming.CamelCase(o.Long)
	case o.Short != "":
		o.camelCase = o.Short
	}
	return o.camelCase
}

// formatTokenRe splits an option format string into tokens on commas, pipes
// and whitespace runs.
var formatTokenRe = regexp.MustCompile(`[ ,|]+`)
var longTokenRe = regexp.MustCompile(`^--(no-)?([A-Za-z0-9][A-Za-z0-9-]*)$`)
var shortTokenRe = regexp.MustCompile(`^-([A-Za-z0-9])$`)
var valueTokenRe = regexp.MustCompile(`^([<\[])([A-Za-z][A-Za-z0-9-]*)([>\]])$`)

// ParseOptionFormat parses an option declaration format string into an
// Option. The grammar:
//
//	format  := token ( /[ ,|]+/ token )*
//	token   := ("--no-"? longName) | ("-" shortChar) value?
//	value   := "<" name ">" | "[" name "]"
//
// It fails with clierr.InvalidOptionFormat on a malformed format.
func ParseOptionFormat(format string) (*Option, error) {
	format = strings.TrimSpace(format)
	if format == "" {
		return nil, clierr.New(clierr.InvalidOptionFormat, "empty option format")
	}
	opt := &Option{Aliases: newAliasSet()}
	for _, tok := range formatTokenRe.Split(format, -1) {
		if tok == "" {
			continue
		}
		switch {
		case valueTokenRe.MatchString(tok):
			m := valueTokenRe.FindStringSubmatch(tok)
			opt.ValueBearing = true
			opt.ValueRequired = m[1] == "<"
		case longTokenRe.MatchString(tok):
			m := longTokenRe.FindStringSubmatch(tok)
			negated, name := m[1] == "no-", m[2]
			if opt.Long == "" {
				opt.Long = name
				opt.Negated = negated
			} else {
				opt.Aliases.Long[name] = true
			}
		case shortTokenRe.MatchString(tok):
			m := shortTokenRe.FindStringSubmatch(tok)
			name := m[1]
			if opt.Short == "" {
				opt.Short = name
			} else {
				opt.Aliases.Short[name] = true
			}
		default:
			return nil, clierr.New(clierr.InvalidOptionFormat, "malformed option token %q in format %q", tok, format)
		}
	}
	if opt.Long == "" && opt.Short == "" {
		return nil, clierr.New(clierr.InvalidOptionFormat, "option format %q declares no long or short name", format)
	}
	if opt.Negated {
		if opt.Default == nil {
			opt.Default = true
		}
	}
	return opt, nil
}

// NewOption builds an Option from a format string, failing the same way
// ParseOptionFormat does.
func NewOption(format, desc string) (*Option, error) {
	opt, err := ParseOptionFormat(format)
	if err != nil {
		return nil, err
	}
	opt.Desc = desc
	return opt, nil
}

// names returns every long and short spelling (canonical plus visible
// aliases) this Option should be registered under in a Lookup. Negated
// options register under their "no-"-prefixed spelling, since that is the
// literal token a user types on the command line; CanonicalName (the argv
// key) stays the un-prefixed name.
func (o *Option) names() (longs, shorts []string) {
	prefix := func(name string) string {
		if o.Negated {
			return "no-" + name
		}
		return name
	}
	if o.Long != "" {
		longs = append(longs, prefix(o.Long))
	}
	for alias := range o.Aliases.Long {
		longs = append(longs, prefix(alias))
	}
	if o.Short != "" {
		shorts = append(shorts, o.Short)
	}
	for alias := range o.Aliases.Short {
		shorts = append(shorts, alias)
	}
	return
}
