// Package logging is the console logging surface used throughout the
// pipeline: colored output via fatih/color's SprintFuncs, a consistent
// debug/info/warning/error vocabulary, exposed as a small leveled Logger
// interface so components depend on an interface rather than a package of
// free functions.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Logger is the narrow capability interface components log through.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

var (
	errorColor = color.New(color.FgRed).SprintFunc()
	warnColor  = color.New(color.FgYellow).SprintFunc()
	infoColor  = color.New(color.FgCyan).SprintFunc()
	dimColor   = color.New(color.Faint).SprintFunc()
)

// Console is the default Logger implementation: colored, prefixed lines
// written to an io.Writer (stderr by default), using a ·/•/⚠/✗ vocabulary.
type Console struct {
	out     io.Writer
	debug   bool
}

// Option configures a Console.
type Option func(*Console)

// WithWriter overrides the default stderr destination.
func WithWriter(w io.Writer) Option {
	return func(c *Console) { c.out = w }
}

// WithDebug enables Debugf output, which is otherwise suppressed.
func WithDebug(enabled bool) Option {
	return func(c *Console) { c.debug = enabled }
}

// NewConsole constructs a Console logger.
func NewConsole(opts ...Option) *Console {
	c := &Console{out: os.Stderr}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ Logger = (*Console)(nil)

func (c *Console) Debugf(format string, args ...interface{}) {
	if !c.debug {
		return
	}
	fmt.Fprintf(c.out, "%s %s\n", dimColor("·"), fmt.Sprintf(format, args...))
}

func (c *Console) Infof(format string, args ...interface{}) {
	fmt.Fprintf(c.out, "%s %s\n", infoColor("•"), fmt.Sprintf(format, args...))
}

func (c *Console) Warnf(format string, args ...interface{}) {
	fmt.Fprintf(c.out, "%s %s\n", warnColor("⚠"), fmt.Sprintf(format, args...))
}

func (c *Console) Errorf(format string, args ...interface{}) {
	fmt.Fprintf(c.out, "%s %s\n", errorColor("✗"), fmt.Sprintf(format, args...))
}

// Noop discards everything — used as the default when no Logger is
// supplied, so callers never need a nil check.
type Noop struct{}

var _ Logger = Noop{}

func (Noop) Debugf(string, ...interface{}) {}
func (Noop) Infof(string, ...interface{})  {}
func (Noop) Warnf(string, ...interface{})  {}
func (Noop) Errorf(string, ...interface{}) {}
