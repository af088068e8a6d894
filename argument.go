// Copyright 2020 Vedran Vuk. All rights reserved.
// Use of this source code is governed by a MIT
// license that can be found in the LICENSE file.

package clikit

import (
	"github.com/sdaclin/cli-kit/clierr"
	"github.com/sdaclin/cli-kit/internal/naming"
)

// Type is the value type tag attached to an Argument or Option.
type Type string

// The value types a coerced argv entry can carry.
const (
	TypeString Type = "string"
	TypeNumber Type = "number"
	TypeBool   Type = "bool"
	TypeFile   Type = "file"
	TypeDate   Type = "date"
	TypeYesNo  Type = "yesno"
)

// Validator validates a raw string argument before it is coerced. Returning
// a non-nil error aborts the parse with a clierr.InvalidValue error wrapping
// it.
type Validator func(raw string) error

// Argument describes one positional parameter of a Command.
type Argument struct {
	// Name is the argument's name; non-empty.
	Name string
	// Desc is a short description for help rendering.
	Desc string
	// Required marks the argument as mandatory.
	Required bool
	// Multiple marks this as the variadic, trailing argument that absorbs
	// every remaining positional token.
	Multiple bool
	// Type is the value type tag used for coercion.
	Type Type
	// Default is used when the argument was not present in input.
	Default any
	// Validator, if set, is run against the raw token before coercion.
	Validator Validator

	// camelCase is the computed camelCase form of Name, used as the argv key.
	camelCase string
}

// CamelCase returns the argv key this Argument is bound under.
func (a *Argument) CamelCase() string {
	if a.camelCase == "" {
		a.camelCase = naming.CamelCase(a.Name)
	}
	return a.camelCase
}

// ArgumentList is an ordered set of Arguments belonging to one Context.
//
// Invariant: within an ArgumentList no non-required argument may
// precede a required one, and at most one Multiple argument exists, which
// must be last.
type ArgumentList []*Argument

// Add appends arg to the list, validating the ordering invariant. It fails
// with clierr.InvalidArgument when arg would break the invariant.
func (l *ArgumentList) Add(arg *Argument) error {
	if arg == nil || arg.Name == "" {
		return clierr.New(clierr.InvalidArgument, "argument must have a non-empty name")
	}
	if len(*l) > 0 {
		last := (*l)[len(*l)-1]
		if last.Multiple {
			return clierr.New(clierr.InvalidArgument,
				"argument %q: cannot declare another argument after a multiple argument %q", arg.Name, last.Name)
		}
		if !last.Required && arg.Required {
			return clierr.New(clierr.InvalidArgument,
				"argument %q: required argument cannot follow optional argument %q", arg.Name, last.Name)
		}
	}
	*l = append(*l, arg)
	return nil
}

// Bind fills argv from positional, honoring Required/Multiple and applying
// Default for any Argument left unset, under camelCased keys. It fails with
// clierr.MissingRequiredArgument if a required Argument has no value.
func (l ArgumentList) Bind(positional []string, argv map[string]any) error {
	return l.bind(positional, argv, true)
}

func (l ArgumentList) bind(positional []string, argv map[string]any, camel bool) error {
	key := func(arg *Argument) string {
		if camel {
			return arg.CamelCase()
		}
		return arg.Name
	}
	i := 0
	for _, arg := range l {
		switch {
		case arg.Multiple:
			rest := positional[min(i, len(positional)):]
			if len(rest) == 0 {
				if arg.Required {
					return clierr.New(clierr.MissingRequiredArgument, "argument %q is required", arg.Name)
				}
				if arg.Default != nil {
					argv[key(arg)] = arg.Default
				}
				continue
			}
			vals := make([]any, 0, len(rest))
			for _, raw := range rest {
				v, err := coerce(arg.Type, raw, arg.Validator)
				if err != nil {
					return err
				}
				vals = append(vals, v)
			}
			argv[key(arg)] = vals
			i += len(rest)
		default:
			if i >= len(positional) {
				if arg.Required {
					return clierr.New(clierr.MissingRequiredArgument, "argument %q is required", arg.Name)
				}
				if arg.Default != nil {
					argv[key(arg)] = arg.Default
				}
				continue
			}
			v, err := coerce(arg.Type, positional[i], arg.Validator)
			if err != nil {
				return err
			}
			argv[key(arg)] = v
			i++
		}
	}
	return nil
}
