// Copyright 2026 Google LLC
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"
	"slices"
)

func main() {
	args := os.Args[1:]
	if slices.Contains(args, "-v") {
		verbose = true
		args = slices.DeleteFunc(args, func(s string) bool { return s == "-v" })
	}
	if slices.Contains(args, "-k") {
		continueOnFailure = true
		args = slices.DeleteFunc(args, func(s string) bool { return s == "-k" })
	}

	if len(args) < 1 {
		usage()
		os.Exit(1)
	}

	cfg := configFromEnv(os.Getenv)
	commands := map[string]func(buildConfig) error{
		"format-check":  formatCheck,
		"fmt":           fmtFix,
		"lint-check":    lintCheck,
		"license-check": licenseCheck,
		"build-tests":   buildTests,
		"run-tests":     runTests,
		"run-doc-tests": runDocTests,
		"release-build": releaseBuild,
		"package":       packageRelease,
		"release":       releaseAll,
		"check":         check,
	}

	cmd, ok := commands[args[0]]
	if !ok {
		usage()
		os.Exit(1)
	}

	if err := cmd(cfg); err != nil {
		os.Exit(1)
	}
}

func usage() {
	fmt.Print(`Usage: go run ./ci [-v] [-k] <command>

Options:
  -v             Verbose output (stream command output to terminal)
  -k             Keep going after a task fails

Commands:
  format-check   Check formatting
  fmt            Format code
  lint-check     Run go vet and staticcheck
  license-check  Check license headers
  build-tests    Compile tests without running them
  run-tests      Run tests
  run-doc-tests  Run Example functions only
  release-build  Build the dump-env binary into bin/
  package        Archive the release binary into dist/
  release        release-build followed by package
  check          Run all checks (CI)

Environment:
  RELEASE        1 or true for an optimized release build
  EXTRA_ARGS     extra arguments for the go command
  VERSION        version stamped into the binary (default: dev)
  GOOS, GOARCH   target platform
  GOTOOLCHAIN    toolchain selection, passed through to go
`)
}
