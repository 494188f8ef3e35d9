// Copyright 2026 Google LLC
// SPDX-License-Identifier: Apache-2.0

// Package envmerge combines environment variables with .env templates.
//
// The template is always the left side of a join and the environment the
// right side. Values from the environment overwrite those in the template.
package envmerge

import (
	"slices"
	"strings"

	"github.com/dump-env/dump-env/pkg/envfile"
)

// StripPrefixes removes the first matching prefix from each key.
func StripPrefixes(prefixes []string, items envfile.Items) envfile.Items {
	out := make(envfile.Items, 0, len(items))
	for _, it := range items {
		for _, pfx := range prefixes {
			if rest, ok := strings.CutPrefix(it.Key, pfx); ok {
				it.Key = rest
				break
			}
		}
		out = append(out, it)
	}
	return out
}

// FilterPrefixed keeps the items whose key starts with any of prefixes.
func FilterPrefixed(prefixes []string, items envfile.Items) envfile.Items {
	var out envfile.Items
	for _, it := range items {
		if slices.ContainsFunc(prefixes, func(pfx string) bool { return strings.HasPrefix(it.Key, pfx) }) {
			out = append(out, it)
		}
	}
	return out
}

// LeftJoin returns every template item, in template order, with its value
// replaced by the first env item sharing its key.
func LeftJoin(template, env envfile.Items) envfile.Items {
	out := make(envfile.Items, 0, len(template))
	for _, it := range template {
		if v, ok := env.Lookup(it.Key); ok {
			it.Value = v
		}
		out = append(out, it)
	}
	return out
}

// FullJoin is LeftJoin extended with the env items whose keys the template
// lacks. The result is sorted by key, then value.
func FullJoin(template, env envfile.Items) envfile.Items {
	out := LeftJoin(template, env)
	for _, it := range env {
		if !out.Has(it.Key) {
			out = append(out, it)
		}
	}
	slices.SortFunc(out, func(a, b envfile.Item) int {
		if c := strings.Compare(a.Key, b.Key); c != 0 {
			return c
		}
		return strings.Compare(a.Value, b.Value)
	})
	return out
}
