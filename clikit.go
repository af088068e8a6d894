// Copyright 2020 Vedran Vuk. All rights reserved.
// Use of this source code is governed by a MIT
// license that can be found in the LICENSE file.

// Package clikit is a command-line toolkit: it lets a program declare a
// tree of commands, options and positional arguments, parse an argument
// vector against that tree, and dispatch to the matching action.
//
// A CLI is a Context: declare options and arguments on it, attach
// Commands (which are themselves Contexts, so they nest), and optionally
// wrap an external subtree or executable as an Extension. Context.Get and
// Context.Prop give two different answers to "what is this setting" —
// Get walks to the outermost declaration, Prop to the nearest one — which
// matters once commands start shadowing options declared by their parents.
//
// Parsing is handled by Parse, a single multi-pass function that
// classifies each token as an end-of-options marker, a long option, a
// short option (possibly clustered), a sub-command name, or a plain
// positional token, descending the Context tree as it recognizes
// commands. CLI.Exec wraps Parse with the auto-generated --help/--version
// machinery, runtime preflight, banner emission and help-on-error
// fallback described in the package's design notes.
package clikit
