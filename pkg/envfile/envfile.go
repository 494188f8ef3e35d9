// Copyright 2026 Google LLC
// SPDX-License-Identifier: Apache-2.0

// Package envfile reads environment variables from .env templates and from
// the process environment into an ordered list of key/value items.
package envfile

import (
	"bufio"
	"io"
	"os"
	"strings"
	"unicode"

	billy "github.com/go-git/go-billy/v5"
	"github.com/pkg/errors"
)

// ErrTemplateNotFound is returned by Load when the template does not exist.
var ErrTemplateNotFound = errors.New("template not found")

// maxLineSize bounds a single template line.
const maxLineSize = 1 << 20

// Item is a single environment variable.
type Item struct {
	Key   string
	Value string
}

// String renders the item as KEY=VALUE.
func (i Item) String() string {
	return i.Key + "=" + i.Value
}

// Items is an ordered list of variables. Keys may repeat.
type Items []Item

// Lookup returns the value of the first item with the given key.
func (items Items) Lookup(key string) (string, bool) {
	for _, it := range items {
		if it.Key == key {
			return it.Value, true
		}
	}
	return "", false
}

// Has reports whether any item has the given key.
func (items Items) Has(key string) bool {
	_, ok := items.Lookup(key)
	return ok
}

// Keys returns the keys in order, including repeats.
func (items Items) Keys() []string {
	keys := make([]string, 0, len(items))
	for _, it := range items {
		keys = append(keys, it.Key)
	}
	return keys
}

// Dedupe returns one item per key. Each key keeps the position of its first
// occurrence and the value of its last.
func (items Items) Dedupe() Items {
	pos := make(map[string]int, len(items))
	var out Items
	for _, it := range items {
		if i, ok := pos[it.Key]; ok {
			out[i].Value = it.Value
			continue
		}
		pos[it.Key] = len(out)
		out = append(out, it)
	}
	return out
}

// Map returns the items as a map, later values overwriting earlier ones.
func (items Items) Map() map[string]string {
	m := make(map[string]string, len(items))
	for _, it := range items {
		m[it.Key] = it.Value
	}
	return m
}

// Parse reads a .env template.
// - Each line is split on its first '='.
// - Keys and values are trimmed of surrounding whitespace.
// - Lines starting with '#' (after leading whitespace) are comments.
// - Lines without '=' are ignored.
// No quote handling or variable expansion is performed.
func Parse(r io.Reader) (Items, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxLineSize)
	var items Items
	for scanner.Scan() {
		line := strings.TrimLeftFunc(scanner.Text(), unicode.IsSpace)
		if strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		items = append(items, Item{Key: strings.TrimSpace(key), Value: strings.TrimSpace(value)})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading template")
	}
	return items, nil
}

// Load parses the template at path within fs.
func Load(fs billy.Filesystem, path string) (Items, error) {
	if _, err := fs.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, errors.Wrap(ErrTemplateNotFound, path)
		}
		return nil, errors.Wrapf(err, "stat %s", path)
	}
	f, err := fs.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()
	items, err := Parse(f)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return items, nil
}

// FromEnviron converts entries in the form returned by os.Environ.
// Entries without a separator are dropped.
func FromEnviron(entries []string) Items {
	items := make(Items, 0, len(entries))
	for _, e := range entries {
		if e == "" {
			continue
		}
		// Windows keeps per-drive working directories in keys like "=C:".
		i := strings.IndexByte(e[1:], '=')
		if i == -1 {
			continue
		}
		items = append(items, Item{Key: e[:i+1], Value: e[i+2:]})
	}
	return items
}
