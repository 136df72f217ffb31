// Package cmd implements the cddl command-line tool: parse, validate, and
// help subcommands over the cddl package. The Command wrapper, mkRunE
// adapter, and Stderr error-counting writer are adapted from
// cmd/cue/cmd/root.go's equivalent types; the CUE-specific pieces of that
// file (user-defined "_tool.cue" command discovery, multi-package command
// indexing) have no CDDL analog and were not carried over — see DESIGN.md.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

type runFunction func(cmd *Command, args []string) error

func mkRunE(c *Command, f runFunction) func(*cobra.Command, []string) error {
	return func(cc *cobra.Command, args []string) error {
		c.Command = cc
		err := f(c, args)
		if err != nil {
			exitOnErr(c, err, true)
		}
		return err
	}
}

// Command wraps a *cobra.Command the way the teacher's Command does,
// tracking whether anything has been written to the error stream so Run
// can report a non-zero exit without every subcommand managing os.Exit
// itself.
type Command struct {
	*cobra.Command
	root   *cobra.Command
	hasErr bool
}

type errWriter Command

func (w *errWriter) Write(b []byte) (int, error) {
	c := (*Command)(w)
	c.hasErr = true
	return c.Command.OutOrStderr().Write(b)
}

// Stderr returns a writer that should be used for error messages; writing
// to it marks the run as failed for Run's exit-code decision.
func (c *Command) Stderr() io.Writer { return (*errWriter)(c) }

func (c *Command) SetOutput(w io.Writer) { c.root.SetOutput(w) }

// ErrPrintedError indicates error messages have already been printed to
// stderr, so Main should not print err again.
var ErrPrintedError = fmt.Errorf("terminating because of errors")

func exitOnErr(c *Command, err error, fatal bool) {
	if err == nil {
		return
	}
	fmt.Fprintln(c.Stderr(), err)
	if fatal {
		panic(panicError{ErrPrintedError})
	}
}

type panicError struct{ Err error }

func (c *Command) Run(ctx context.Context) (err error) {
	defer func() {
		switch e := recover().(type) {
		case nil:
		case panicError:
			err = e.Err
		default:
			panic(e)
		}
	}()

	if err := c.root.Execute(); err != nil {
		return err
	}
	if c.hasErr {
		return ErrPrintedError
	}
	return nil
}

func newRootCmd() *Command {
	root := &cobra.Command{
		Use:   "cddl",
		Short: "cddl parses and validates data against RFC 8610 CDDL schemas.",
		Long: `cddl parses Concise Data Definition Language (RFC 8610) documents
and validates CBOR or JSON data against them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	c := &Command{Command: root, root: root}
	addGlobalFlags(root.PersistentFlags())

	root.AddCommand(
		newParseCmd(c),
		newValidateCmd(c),
	)
	return c
}

// New builds a Command ready to run with args (os.Args[1:]).
func New(args []string) *Command {
	c := newRootCmd()
	c.root.SetArgs(args)
	return c
}

// Main runs the cddl tool and returns the process exit code: 0 on success,
// 1 on a CDDL construction (parse) error, 2 on one or more validation
// errors, 3 on a usage/I-O error (SPEC_FULL.md §6 exit code table).
func Main() int {
	c := New(os.Args[1:])
	err := c.Run(context.Background())
	switch {
	case err == nil:
		return 0
	case err == ErrPrintedError:
		return exitCodeOf(c)
	default:
		// errors cobra reports before any subcommand runs: bad flags,
		// wrong argument count, unknown subcommand
		fmt.Fprintln(os.Stderr, err)
		return 3
	}
}

func exitCodeOf(c *Command) int {
	if code, ok := c.Command.Annotations["exitCode"]; ok {
		switch code {
		case "1":
			return 1
		case "2":
			return 2
		case "3":
			return 3
		}
	}
	return 3
}
