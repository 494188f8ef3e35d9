// Copyright 2026 Google LLC
// SPDX-License-Identifier: Apache-2.0

// dump-env prints environment variables and merges them into .env templates.
//
// It is intended for CI pipelines that keep configuration in pipeline
// variables and need to produce a .env file from them.
package main

import (
	"log"
	"os"

	"github.com/dump-env/dump-env/internal/command/dump"
	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	log.SetFlags(0)
	log.SetPrefix("dump-env: ")
	if err := rootCommand().Execute(); err != nil {
		log.Print(err)
		os.Exit(1)
	}
}

func rootCommand() *cobra.Command {
	cmd := dump.Command()
	cmd.Version = version
	cmd.SilenceErrors = true
	return cmd
}
