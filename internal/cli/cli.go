// Copyright 2026 Google LLC
// SPDX-License-Identifier: Apache-2.0

// Package cli runs a validated configuration through a cobra command.
package cli

import (
	"context"
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// Streams are the standard streams a command reads and writes.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// StreamsOf returns the streams configured on cmd, falling back to the
// process streams.
func StreamsOf(cmd *cobra.Command) Streams {
	return Streams{In: cmd.InOrStdin(), Out: cmd.OutOrStdout(), Err: cmd.ErrOrStderr()}
}

// Validator is implemented by command configurations.
type Validator interface {
	Validate() error
}

// StreamSetter is implemented by command dependencies.
type StreamSetter interface {
	SetStreams(Streams)
}

// Runner runs a command against a configuration of type C using
// dependencies of type D.
type Runner[C Validator, D StreamSetter] struct {
	// Args copies positional arguments into the configuration. Nil for
	// commands configured by flags alone.
	Args func(cfg *C, args []string) error
	// Setup builds the dependencies once the configuration is valid.
	Setup func(context.Context) (D, error)
	// Run does the work.
	Run func(context.Context, C, D) error
}

// RunE returns a cobra RunE reading into cfg, which the command's flags are
// expected to be bound to.
func (r Runner[C, D]) RunE(cfg *C) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := r.configure(cfg, args); err != nil {
			return err
		}
		// Past this point failures are not about command-line usage.
		cmd.SilenceUsage = true
		deps, err := r.Setup(cmd.Context())
		if err != nil {
			return errors.Wrap(err, "setting up")
		}
		deps.SetStreams(StreamsOf(cmd))
		return r.Run(cmd.Context(), *cfg, deps)
	}
}

func (r Runner[C, D]) configure(cfg *C, args []string) error {
	if r.Args != nil {
		if err := r.Args(cfg, args); err != nil {
			return err
		}
	}
	return (*cfg).Validate()
}
