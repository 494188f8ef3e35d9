// Copyright 2026 Google LLC
// SPDX-License-Identifier: Apache-2.0

// Package envfmt writes environment variables in several output formats.
package envfmt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"slices"
	"strings"

	"github.com/dump-env/dump-env/pkg/envfile"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v3"
)

// Encoder writes items to w.
type Encoder func(w io.Writer, items envfile.Items) error

// Default is the name of the format used when none is given.
const Default = "env"

var encoders = []struct {
	name string
	enc  Encoder
}{
	{"env", Env},
	{"export", Export},
	{"dotenv", Dotenv},
	{"json", JSON},
	{"yaml", YAML},
	{"toml", TOML},
}

// Names returns the supported format names.
func Names() []string {
	names := make([]string, 0, len(encoders))
	for _, e := range encoders {
		names = append(names, e.name)
	}
	return names
}

// Lookup returns the encoder registered under name.
func Lookup(name string) (Encoder, error) {
	for _, e := range encoders {
		if e.name == name {
			return e.enc, nil
		}
	}
	return nil, errors.Errorf("unknown format %q, want one of [%s]", name, strings.Join(Names(), ", "))
}

// Env writes KEY=VALUE lines verbatim, duplicates included.
func Env(w io.Writer, items envfile.Items) error {
	for _, it := range items {
		if _, err := fmt.Fprintf(w, "%s=%s\n", it.Key, it.Value); err != nil {
			return err
		}
	}
	return nil
}

// Export writes shell export statements with single-quoted values.
func Export(w io.Writer, items envfile.Items) error {
	for _, it := range items {
		if _, err := fmt.Fprintf(w, "export %s=%s\n", it.Key, shellQuote(it.Value)); err != nil {
			return err
		}
	}
	return nil
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// Dotenv writes KEY="VALUE" lines sorted by key. Every value is quoted,
// including numeric ones, so values like 01234 survive a round trip.
func Dotenv(w io.Writer, items envfile.Items) error {
	m := items.Map()
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		if _, err := fmt.Fprintf(w, "%s=\"%s\"\n", k, dotenvEscaper.Replace(m[k])); err != nil {
			return err
		}
	}
	return nil
}

// dotenvEscaper applies the escapes godotenv reverses inside double quotes.
var dotenvEscaper = strings.NewReplacer(
	`\`, `\\`,
	"\n", `\n`,
	"\r", `\r`,
	`"`, `\"`,
	"!", `\!`,
	"$", `\$`,
	"`", "\\`",
)

// JSON writes a single object preserving item order.
func JSON(w io.Writer, items envfile.Items) error {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, it := range items.Dedupe() {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(it.Key)
		if err != nil {
			return errors.Wrap(err, "encoding key")
		}
		v, err := json.Marshal(it.Value)
		if err != nil {
			return errors.Wrap(err, "encoding value")
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", "  "); err != nil {
		return errors.Wrap(err, "indenting json")
	}
	out.WriteByte('\n')
	_, err := out.WriteTo(w)
	return err
}

// YAML writes a mapping preserving item order. Values are always strings,
// and scalars a YAML 1.1 reader would not read back as strings are quoted.
func YAML(w io.Writer, items envfile.Items) error {
	doc := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, it := range items.Dedupe() {
		doc.Content = append(doc.Content, yamlString(it.Key), yamlString(it.Value))
	}
	e := yaml.NewEncoder(w)
	e.SetIndent(2)
	if err := e.Encode(doc); err != nil {
		return errors.Wrap(err, "encoding yaml")
	}
	return e.Close()
}

func yamlString(s string) *yaml.Node {
	n := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
	if yaml11Bools[s] || yaml11Sexagesimal.MatchString(s) {
		n.Style = yaml.DoubleQuotedStyle
	}
	return n
}

// yaml.v3 resolves plain scalars per YAML 1.2, which leaves these bare.
var (
	yaml11Bools = map[string]bool{
		"y": true, "Y": true, "yes": true, "Yes": true, "YES": true,
		"n": true, "N": true, "no": true, "No": true, "NO": true,
		"on": true, "On": true, "ON": true,
		"off": true, "Off": true, "OFF": true,
	}
	yaml11Sexagesimal = regexp.MustCompile(`^[-+]?[0-9][0-9_]*(?::[0-5]?[0-9])+(?:\.[0-9_]*)?$`)
)

// TOML writes a flat table sorted by key.
func TOML(w io.Writer, items envfile.Items) error {
	if err := toml.NewEncoder(w).Encode(items.Map()); err != nil {
		return errors.Wrap(err, "encoding toml")
	}
	return nil
}
