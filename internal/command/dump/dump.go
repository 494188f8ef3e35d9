// Copyright 2026 Google LLC
// SPDX-License-Identifier: Apache-2.0

package dump

import (
	"bytes"
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/dump-env/dump-env/internal/cli"
	"github.com/dump-env/dump-env/pkg/envfile"
	"github.com/dump-env/dump-env/pkg/envfmt"
	"github.com/dump-env/dump-env/pkg/envmerge"
	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Config holds all configuration for the dump command.
type Config struct {
	Source       string
	Template     string
	Prefixes     []string
	OnlyPrefixed bool
	Format       string
	Output       string
}

// Validate ensures the configuration is valid.
func (c Config) Validate() error {
	if _, err := envfmt.Lookup(c.Format); err != nil {
		return err
	}
	if c.OnlyPrefixed && len(c.Prefixes) == 0 {
		return errors.New("--only-prefixed requires at least one --prefixes value")
	}
	return nil
}

// Deps holds dependencies for the command.
type Deps struct {
	Streams cli.Streams
	FS      billy.Filesystem
	Environ func() []string
}

func (d *Deps) SetStreams(s cli.Streams) { d.Streams = s }

// InitDeps initializes Deps against the host filesystem and environment.
func InitDeps(context.Context) (*Deps, error) {
	return &Deps{
		FS:      osfs.New("/"),
		Environ: os.Environ,
	}, nil
}

// Handler prints the environment, optionally merged into a template.
func Handler(ctx context.Context, cfg Config, deps *Deps) error {
	env := envfile.FromEnviron(deps.Environ())
	if cfg.OnlyPrefixed {
		env = envmerge.FilterPrefixed(cfg.Prefixes, env)
	}
	env = envmerge.StripPrefixes(cfg.Prefixes, env)
	items := env
	switch {
	case cfg.Source != "":
		if cfg.Template != "" {
			log.Printf("Both --source and --template given, ignoring --template %s", cfg.Template)
		}
		template, err := loadTemplate(deps.FS, cfg.Source)
		if err != nil {
			return err
		}
		items = envmerge.LeftJoin(template, env)
	case cfg.Template != "":
		template, err := loadTemplate(deps.FS, cfg.Template)
		if err != nil {
			return err
		}
		items = envmerge.FullJoin(template, env)
	}
	enc, err := envfmt.Lookup(cfg.Format)
	if err != nil {
		return err
	}
	if cfg.Output == "" {
		return enc(deps.Streams.Out, items)
	}
	var buf bytes.Buffer
	if err := enc(&buf, items); err != nil {
		return err
	}
	path, err := filepath.Abs(cfg.Output)
	if err != nil {
		return errors.Wrap(err, "resolving output path")
	}
	if err := util.WriteFile(deps.FS, path, buf.Bytes(), 0o644); err != nil {
		return errors.Wrapf(err, "writing %s", cfg.Output)
	}
	log.Printf("Wrote %d variables to %s", len(items), cfg.Output)
	return nil
}

func loadTemplate(fs billy.Filesystem, name string) (envfile.Items, error) {
	path, err := filepath.Abs(name)
	if err != nil {
		return nil, errors.Wrap(err, "resolving template path")
	}
	items, err := envfile.Load(fs, path)
	if errors.Is(err, envfile.ErrTemplateNotFound) {
		// Report the path as the user wrote it.
		return nil, errors.Wrap(envfile.ErrTemplateNotFound, name)
	}
	return items, err
}

// Command creates a new dump command instance.
func Command() *cobra.Command {
	cfg := Config{}
	cmd := &cobra.Command{
		Use:   "dump-env [-s <source>|-t <template>] [-p <prefix>]... [-f <format>] [-o <file>]",
		Short: "Print environment variables, optionally merged into a .env template",
		Long: `Print environment variables as KEY=VALUE lines.

With --source, only the keys of the template are printed, using values from
the environment where present. With --template, the template is extended
with every environment variable and the result is sorted by key. Prefixes
given with --prefixes are stripped from environment variable names before
matching.`,
		Args: cobra.NoArgs,
		RunE: cli.Runner[Config, *Deps]{Setup: InitDeps, Run: Handler}.RunE(&cfg),
	}
	cmd.Flags().AddFlagSet(flagSet(cmd.Name(), &cfg))
	return cmd
}

// flagSet returns the command-line flags for the Config struct.
func flagSet(name string, cfg *Config) *pflag.FlagSet {
	set := pflag.NewFlagSet(name, pflag.ContinueOnError)
	set.StringVarP(&cfg.Source, "source", "s", "", "template whose keys are filled from the environment")
	set.StringVarP(&cfg.Template, "template", "t", "", "template merged with the full environment")
	set.StringArrayVarP(&cfg.Prefixes, "prefixes", "p", nil, "prefix stripped from environment variable names (repeatable)")
	set.BoolVar(&cfg.OnlyPrefixed, "only-prefixed", false, "drop environment variables matching no prefix")
	set.StringVarP(&cfg.Format, "format", "f", envfmt.Default, "output format, one of "+strings.Join(envfmt.Names(), ", "))
	set.StringVarP(&cfg.Output, "output", "o", "", "write to this file instead of stdout")
	return set
}
