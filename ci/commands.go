// Copyright 2026 Google LLC
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dump-env/dump-env/internal/release"
	"github.com/google/shlex"
	"github.com/pkg/errors"
)

const (
	binName     = "dump-env"
	mainPkg     = "./cmd/dump-env"
	binDir      = "bin"
	distDir     = "dist"
	staticcheck = "honnef.co/go/tools/cmd/staticcheck@2025.1.1"
	addlicense  = "github.com/google/addlicense@v1.1.1"
)

// buildConfig is read from the environment so the same targets behave
// identically under make and in the release workflow.
type buildConfig struct {
	Release   bool
	ExtraArgs []string
	Version   string
	Target    release.Target
}

func configFromEnv(getenv func(string) string) buildConfig {
	cfg := buildConfig{
		Version: "dev",
		Target:  release.HostTarget(),
	}
	switch strings.ToLower(getenv("RELEASE")) {
	case "1", "true", "yes":
		cfg.Release = true
	}
	if extra := getenv("EXTRA_ARGS"); extra != "" {
		args, err := shlex.Split(extra)
		if err != nil {
			// Fall back to whitespace splitting on unbalanced quotes.
			args = strings.Fields(extra)
		}
		cfg.ExtraArgs = args
	}
	if v := getenv("VERSION"); v != "" {
		cfg.Version = v
	}
	if v := getenv("GOOS"); v != "" {
		cfg.Target.GOOS = v
	}
	if v := getenv("GOARCH"); v != "" {
		cfg.Target.GOARCH = v
	}
	return cfg
}

func (c buildConfig) binaryPath() string {
	return filepath.Join(binDir, c.Target.BinaryName(binName))
}

func (c buildConfig) archivePath() string {
	return filepath.Join(distDir, release.ArchiveName(binName, c.Version, c.Target))
}

// buildArgs returns the go build invocation for the release binary.
func (c buildConfig) buildArgs() []string {
	ldflags := "-X main.version=" + c.Version
	args := []string{"go", "build"}
	if c.Release {
		args = append(args, "-trimpath")
		ldflags = "-s -w " + ldflags
	} else {
		args = append(args, "-gcflags=all=-N -l")
	}
	args = append(args, "-ldflags="+ldflags, "-o", c.binaryPath())
	args = append(args, c.ExtraArgs...)
	return append(args, mainPkg)
}

// goArgs appends the extra arguments to a go subcommand over all packages.
func (c buildConfig) goArgs(sub string, flags ...string) []string {
	args := append([]string{"go", sub}, flags...)
	args = append(args, c.ExtraArgs...)
	return append(args, "./...")
}

// --- Task builders ---

func run(args ...string) taskFn {
	return func(ctx context.Context) (string, string, error) {
		if verbose {
			return runLoud(ctx, args[0], args[1:]...)
		}
		return runQuiet(ctx, args[0], args[1:]...)
	}
}

func (fn taskFn) failIfOutput(msg string) taskFn {
	return func(ctx context.Context) (string, string, error) {
		stdout, stderr, err := fn(ctx)
		if err != nil {
			return stdout, stderr, err
		}
		if strings.TrimSpace(stdout) != "" {
			return msg + ":\n" + stdout, stderr, errors.New(msg)
		}
		return "", stderr, nil
	}
}

// --- Task definitions ---

// sourceDirs excludes _examples, which gofmt would otherwise walk.
var sourceDirs = []string{"ci", "cmd", "internal", "pkg"}

func fmtCheckTask() taskFn {
	return run(append([]string{"gofmt", "-l"}, sourceDirs...)...).failIfOutput("files need formatting")
}
func fmtFixTask() taskFn { return run(append([]string{"gofmt", "-w"}, sourceDirs...)...) }

func vetTask(c buildConfig) taskFn { return run(c.goArgs("vet")...) }

// staticcheck prints findings on stdout and exits non-zero, so warnings fail.
func staticcheckTask() taskFn {
	return run("go", "run", staticcheck, "./...")
}

func licenseCheckTask() taskFn {
	return run("go", "run", addlicense, "-check", "-s=only", "-ignore=.*/**", "-ignore=_examples/**", "-ignore=bin/**", "-ignore=dist/**", ".")
}

func buildTestsTask(c buildConfig) taskFn { return run(c.goArgs("test", "-count=1", "-run=^$")...) }
func runTestsTask(c buildConfig) taskFn   { return run(c.goArgs("test")...) }
func docTestsTask(c buildConfig) taskFn   { return run(c.goArgs("test", "-count=1", "-run=^Example")...) }
func releaseBuildTask(c buildConfig) taskFn {
	return run(c.buildArgs()...)
}

func packageTask(c buildConfig) taskFn {
	return func(context.Context) (string, string, error) {
		err := writePackage(c)
		return "", "", err
	}
}

func writePackage(c buildConfig) error {
	bin, err := os.Open(c.binaryPath())
	if err != nil {
		return errors.Wrap(err, "opening release binary (run release-build first)")
	}
	defer bin.Close()
	fi, err := bin.Stat()
	if err != nil {
		return errors.Wrap(err, "stat release binary")
	}
	if err := os.MkdirAll(distDir, 0o755); err != nil {
		return errors.Wrap(err, "creating dist dir")
	}
	dst, err := os.Create(c.archivePath())
	if err != nil {
		return errors.Wrap(err, "creating archive")
	}
	if err := release.WriteArchive(dst, c.Target.BinaryName(binName), bin, fi.Size()); err != nil {
		dst.Close()
		return err
	}
	if err := dst.Close(); err != nil {
		return errors.Wrap(err, "closing archive")
	}
	return nil
}

// --- Single commands ---

func formatCheck(buildConfig) error    { return runSingle("format-check", fmtCheckTask()) }
func fmtFix(buildConfig) error         { return runSingle("fmt", fmtFixTask()) }
func licenseCheck(buildConfig) error   { return runSingle("license-check", licenseCheckTask()) }
func buildTests(c buildConfig) error   { return runSingle("build-tests", buildTestsTask(c)) }
func runTests(c buildConfig) error     { return runSingle("run-tests", runTestsTask(c)) }
func runDocTests(c buildConfig) error  { return runSingle("run-doc-tests", docTestsTask(c)) }
func releaseBuild(c buildConfig) error { return runSingle("release-build", releaseBuildTask(c)) }

func packageRelease(c buildConfig) error {
	if err := runSingle("package", packageTask(c)); err != nil {
		return err
	}
	fmt.Fprintln(console, c.archivePath())
	return nil
}

// --- Composite commands ---

func releaseAll(c buildConfig) error {
	if err := runSequential([]task{
		{"release-build", releaseBuildTask(c)},
		{"package", packageTask(c)},
	}); err != nil {
		return err
	}
	fmt.Fprintln(console, c.archivePath())
	return nil
}

func lintCheck(c buildConfig) error {
	return runParallel([]task{
		{"vet", vetTask(c)},
		{"staticcheck", staticcheckTask()},
	})
}

func check(c buildConfig) error {
	return runParallel([]task{
		{"format-check", fmtCheckTask()},
		{"vet", vetTask(c)},
		{"staticcheck", staticcheckTask()},
		{"license-check", licenseCheckTask()},
		{"build-tests", buildTestsTask(c)},
		{"run-tests", runTestsTask(c)},
	})
}
