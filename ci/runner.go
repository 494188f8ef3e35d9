// Copyright 2026 Google LLC
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/fatih/color"
)

var verbose bool
var continueOnFailure bool

// console receives task status lines.
var console io.Writer = os.Stdout

var (
	okMark     = color.New(color.FgGreen).Sprint("✓")
	failMark   = color.New(color.FgRed).Sprint("✗")
	cancelMark = color.New(color.FgHiBlack).Sprint("?")
	failTitle  = color.New(color.FgRed).SprintfFunc()
)

type task struct {
	name string
	fn   taskFn
}

type taskFn func(context.Context) (stdout, stderr string, err error)

type taskResult struct {
	name   string
	stdout string
	stderr string
	err    error
}

func isCancelled(err error) bool {
	return err == context.Canceled || strings.Contains(err.Error(), "signal: killed")
}

// runParallel runs all tasks concurrently. Unless continueOnFailure is set,
// the first failure cancels the remaining tasks.
func runParallel(tasks []task) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	results := make(chan taskResult, len(tasks))
	for _, t := range tasks {
		go func(t task) {
			out, errOut, err := t.fn(ctx)
			results <- taskResult{name: t.name, stdout: out, stderr: errOut, err: err}
		}(t)
	}

	var failed []taskResult
	for range tasks {
		r := <-results
		switch {
		case r.err == nil:
			fmt.Fprintf(console, "%s %s\n", okMark, r.name)
		case isCancelled(r.err):
			fmt.Fprintf(console, "%s %s\n", cancelMark, r.name)
		default:
			fmt.Fprintf(console, "%s %s\n", failMark, r.name)
			failed = append(failed, r)
			if !continueOnFailure {
				cancel()
			}
		}
	}

	if len(failed) > 0 {
		fmt.Fprintln(console)
		for _, r := range failed {
			fmt.Fprintln(console, failTitle("=== %s failed ===", r.name))
			printFailure(r)
		}
		return fmt.Errorf("%d task(s) failed", len(failed))
	}
	return nil
}

// runSequential runs tasks in order, stopping at the first failure unless
// continueOnFailure is set.
func runSequential(tasks []task) error {
	ctx := context.Background()
	var firstErr error
	for _, t := range tasks {
		out, errOut, err := t.fn(ctx)
		if err == nil {
			fmt.Fprintf(console, "%s %s\n", okMark, t.name)
			continue
		}
		fmt.Fprintf(console, "%s %s\n", failMark, t.name)
		printFailure(taskResult{name: t.name, stdout: out, stderr: errOut, err: err})
		if firstErr == nil {
			firstErr = err
		}
		if !continueOnFailure {
			return err
		}
	}
	return firstErr
}

func printFailure(r taskResult) {
	if r.stdout != "" {
		fmt.Fprintln(console, strings.TrimRight(r.stdout, "\n"))
	}
	if r.stderr != "" && !verbose {
		fmt.Fprintln(console, strings.TrimRight(r.stderr, "\n"))
	}
	if r.err != nil && r.err.Error() != "exit status 1" {
		fmt.Fprintf(console, "%v\n", r.err)
	}
}

func runQuiet(ctx context.Context, name string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var outbuf, errbuf bytes.Buffer
	cmd.Stdout = &outbuf
	cmd.Stderr = &errbuf
	err := cmd.Run()
	return outbuf.String(), errbuf.String(), err
}

func runLoud(ctx context.Context, name string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var outbuf, errbuf bytes.Buffer
	cmd.Stdout = io.MultiWriter(os.Stdout, &outbuf)
	cmd.Stderr = io.MultiWriter(os.Stderr, &errbuf)
	err := cmd.Run()
	return outbuf.String(), errbuf.String(), err
}

func runSingle(name string, fn taskFn) error {
	return runParallel([]task{{name: name, fn: fn}})
}
