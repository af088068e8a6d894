// Copyright 2020 Vedran Vuk. All rights reserved.
// Use of this source code is governed by a MIT
// license that can be found in the LICENSE file.

package clikit

import "github.com/sdaclin/cli-kit/clierr"

// Lookup holds the three keyed maps a Context maintains over its own
// Options and Commands. It is rebuilt whenever a Context is mixed
// into another tree, and is intentionally not copied by value: cloning a
// Context into a new one always re-adds its options so they reindex into
// the new Context's own Lookup.
type Lookup struct {
	long     map[string]*Option
	short    map[string]*Option
	commands map[string]*Command
}

func newLookup() *Lookup {
	return &Lookup{
		long:     make(map[string]*Option),
		short:    make(map[string]*Option),
		commands: make(map[string]*Command),
	}
}

// Long returns the Option registered under the given long name in this
// Lookup only (no parent walk).
func (l *Lookup) Long(name string) (*Option, bool) {
	o, ok := l.long[name]
	return o, ok
}

// Short returns the Option registered under the given short name in this
// Lookup only (no parent walk).
func (l *Lookup) Short(name string) (*Option, bool) {
	o, ok := l.short[name]
	return o, ok
}

// Command returns the Command registered under name in this Lookup only.
func (l *Lookup) Command(name string) (*Command, bool) {
	c, ok := l.commands[name]
	return c, ok
}

// addOption registers every canonical name and visible alias of opt. It
// fails with clierr.AlreadyExists if any of those names are already taken in
// this Lookup.
func (l *Lookup) addOption(opt *Option) error {
	longs, shorts := opt.names()
	for _, name := range longs {
		if _, exists := l.long[name]; exists {
			return clierr.New(clierr.AlreadyExists, "option --%s already declared in this context", name)
		}
	}
	for _, name := range shorts {
		if _, exists := l.short[name]; exists {
			return clierr.New(clierr.AlreadyExists, "option -%s already declared in this context", name)
		}
	}
	for _, name := range longs {
		l.long[name] = opt
	}
	for _, name := range shorts {
		l.short[name] = opt
	}
	return nil
}

// addCommand registers cmd and its visible aliases. A colliding command
// name fails the registration outright, but a colliding
// alias is silently dropped rather than overwriting the existing entry.
func (l *Lookup) addCommand(cmd *Command) error {
	if _, exists := l.commands[cmd.Name]; exists {
		return clierr.New(clierr.AlreadyExists, "command %q already declared in this context", cmd.Name)
	}
	l.commands[cmd.Name] = cmd
	for alias := range cmd.Aliases {
		if _, exists := l.commands[alias]; exists {
			continue
		}
		l.commands[alias] = cmd
	}
	return nil
}
