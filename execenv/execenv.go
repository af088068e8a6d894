// Package execenv abstracts the process surface cli-kit touches: argv, exit,
// environment, signals and standard streams. Keeping it behind an interface
// (rather than calling os.* directly from the CLI entry point) lets the
// runtime preflight and exit handling be exercised without a real process,
// and lets a consumer swap in a fake for tests.
package execenv

import (
	"io"
	"os"
	"os/signal"
)

// Signal is an alias for [os.Signal], keeping signal types decoupled from
// the os package at call sites.
type Signal = os.Signal

// ExecEnv is the execution environment a CLI runs against.
type ExecEnv interface {
	// Args returns the full process argument vector, program name included.
	Args() []string
	// Exit terminates the program with the given exit code.
	Exit(exitcode int)
	// LookupEnv returns the value of the environment variable named by key.
	LookupEnv(key string) (string, bool)
	// SignalNotify relays the given signals onto c.
	SignalNotify(c chan<- Signal, sig ...Signal)
	// Stdin is the standard input stream.
	Stdin() io.Reader
	// Stdout is the standard output stream.
	Stdout() io.Writer
	// Stderr is the standard error stream.
	Stderr() io.Writer
}

// Stdlib is the default [ExecEnv], backed directly by the os package.
//
// The zero value is not ready to use; call [NewStdlib].
type Stdlib struct {
	OSArgs           []string
	OSExit           func(exitcode int)
	OSLookupEnv      func(key string) (string, bool)
	SignalNotifyFunc func(c chan<- Signal, sig ...Signal)
	OSStdin          io.Reader
	OSStdout         io.Writer
	OSStderr         io.Writer
}

var _ ExecEnv = (*Stdlib)(nil)

// NewStdlib returns a [Stdlib] wired to the real process.
func NewStdlib() *Stdlib {
	return &Stdlib{
		OSArgs:           os.Args,
		OSExit:           os.Exit,
		OSLookupEnv:      os.LookupEnv,
		SignalNotifyFunc: signal.Notify,
		OSStdin:          os.Stdin,
		OSStdout:         os.Stdout,
		OSStderr:         os.Stderr,
	}
}

func (e *Stdlib) Args() []string { return e.OSArgs }
func (e *Stdlib) Exit(code int)  { e.OSExit(code) }

func (e *Stdlib) LookupEnv(key string) (string, bool) { return e.OSLookupEnv(key) }

func (e *Stdlib) SignalNotify(c chan<- Signal, sig ...Signal) { e.SignalNotifyFunc(c, sig...) }

func (e *Stdlib) Stdin() io.Reader  { return e.OSStdin }
func (e *Stdlib) Stdout() io.Writer { return e.OSStdout }
func (e *Stdlib) Stderr() io.Writer { return e.OSStderr }
