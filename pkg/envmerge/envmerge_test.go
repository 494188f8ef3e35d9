// Copyright 2026 Google LLC
// SPDX-License-Identifier: Apache-2.0

package envmerge

import (
	"testing"

	"github.com/dump-env/dump-env/pkg/envfile"
	"github.com/google/go-cmp/cmp"
)

func TestLeftJoin(t *testing.T) {
	tests := []struct {
		name     string
		template envfile.Items
		env      envfile.Items
		want     envfile.Items
	}{
		{
			name:     "all overwritten",
			template: envfile.Items{{Key: "a", Value: "1"}, {Key: "b", Value: "2"}},
			env:      envfile.Items{{Key: "a", Value: "10"}, {Key: "b", Value: "20"}},
			want:     envfile.Items{{Key: "a", Value: "10"}, {Key: "b", Value: "20"}},
		},
		{
			name:     "second overwritten",
			template: envfile.Items{{Key: "a", Value: "1"}, {Key: "b", Value: "2"}},
			env:      envfile.Items{{Key: "b", Value: "20"}},
			want:     envfile.Items{{Key: "a", Value: "1"}, {Key: "b", Value: "20"}},
		},
		{
			name:     "first overwritten",
			template: envfile.Items{{Key: "a", Value: "1"}, {Key: "b", Value: "2"}},
			env:      envfile.Items{{Key: "a", Value: "10"}},
			want:     envfile.Items{{Key: "a", Value: "10"}, {Key: "b", Value: "2"}},
		},
		{
			name:     "template defaults kept",
			template: envfile.Items{{Key: "a", Value: "1"}, {Key: "b", Value: "2"}, {Key: "c", Value: "3"}},
			env:      envfile.Items{{Key: "a", Value: "10"}},
			want:     envfile.Items{{Key: "a", Value: "10"}, {Key: "b", Value: "2"}, {Key: "c", Value: "3"}},
		},
		{
			name:     "env only keys dropped",
			template: envfile.Items{{Key: "a", Value: "1"}, {Key: "b", Value: "2"}, {Key: "c", Value: "3"}},
			env:      envfile.Items{{Key: "a", Value: "10"}, {Key: "b", Value: "20"}, {Key: "c", Value: "5"}, {Key: "d", Value: "4"}},
			want:     envfile.Items{{Key: "a", Value: "10"}, {Key: "b", Value: "20"}, {Key: "c", Value: "5"}},
		},
		{
			name:     "first env occurrence wins",
			template: envfile.Items{{Key: "a", Value: "1"}},
			env:      envfile.Items{{Key: "a", Value: "10"}, {Key: "a", Value: "11"}},
			want:     envfile.Items{{Key: "a", Value: "10"}},
		},
		{
			name:     "template order kept",
			template: envfile.Items{{Key: "z", Value: "1"}, {Key: "a", Value: "2"}},
			env:      envfile.Items{{Key: "a", Value: "20"}, {Key: "z", Value: "10"}},
			want:     envfile.Items{{Key: "z", Value: "10"}, {Key: "a", Value: "20"}},
		},
		{
			name:     "empty template",
			template: nil,
			env:      envfile.Items{{Key: "a", Value: "10"}},
			want:     envfile.Items{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LeftJoin(tt.template, tt.env)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("LeftJoin() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFullJoin(t *testing.T) {
	tests := []struct {
		name     string
		template envfile.Items
		env      envfile.Items
		want     envfile.Items
	}{
		{
			name:     "all overwritten",
			template: envfile.Items{{Key: "a", Value: "1"}, {Key: "b", Value: "2"}},
			env:      envfile.Items{{Key: "a", Value: "10"}, {Key: "b", Value: "20"}},
			want:     envfile.Items{{Key: "a", Value: "10"}, {Key: "b", Value: "20"}},
		},
		{
			name:     "env only keys appended",
			template: envfile.Items{{Key: "a", Value: "1"}, {Key: "b", Value: "2"}},
			env:      envfile.Items{{Key: "a", Value: "10"}, {Key: "b", Value: "20"}, {Key: "c", Value: "30"}},
			want:     envfile.Items{{Key: "a", Value: "10"}, {Key: "b", Value: "20"}, {Key: "c", Value: "30"}},
		},
		{
			name:     "sorted by key",
			template: envfile.Items{{Key: "z", Value: "1"}, {Key: "m", Value: "2"}},
			env:      envfile.Items{{Key: "b", Value: "3"}, {Key: "m", Value: "20"}},
			want:     envfile.Items{{Key: "b", Value: "3"}, {Key: "m", Value: "20"}, {Key: "z", Value: "1"}},
		},
		{
			name:     "duplicate template keys sorted by value",
			template: envfile.Items{{Key: "a", Value: "2"}, {Key: "a", Value: "1"}},
			env:      nil,
			want:     envfile.Items{{Key: "a", Value: "1"}, {Key: "a", Value: "2"}},
		},
		{
			name:     "duplicate env keys appended once",
			template: nil,
			env:      envfile.Items{{Key: "c", Value: "1"}, {Key: "c", Value: "2"}},
			want:     envfile.Items{{Key: "c", Value: "1"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FullJoin(tt.template, tt.env)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("FullJoin() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestStripPrefixes(t *testing.T) {
	tests := []struct {
		name     string
		prefixes []string
		items    envfile.Items
		want     envfile.Items
	}{
		{
			name:     "first hit only",
			prefixes: []string{"test_", "test2_"},
			items:    envfile.Items{{Key: "test_a", Value: "10"}, {Key: "test2_b", Value: "20"}, {Key: "test_test2_c", Value: "30"}},
			want:     envfile.Items{{Key: "a", Value: "10"}, {Key: "b", Value: "20"}, {Key: "test2_c", Value: "30"}},
		},
		{
			name:     "unmatched kept",
			prefixes: []string{"APP_"},
			items:    envfile.Items{{Key: "APP_PORT", Value: "80"}, {Key: "HOME", Value: "/root"}},
			want:     envfile.Items{{Key: "PORT", Value: "80"}, {Key: "HOME", Value: "/root"}},
		},
		{
			name:     "prefix order matters",
			prefixes: []string{"A", "AB"},
			items:    envfile.Items{{Key: "ABC", Value: "1"}},
			want:     envfile.Items{{Key: "BC", Value: "1"}},
		},
		{
			name:     "no prefixes",
			prefixes: nil,
			items:    envfile.Items{{Key: "a", Value: "1"}},
			want:     envfile.Items{{Key: "a", Value: "1"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StripPrefixes(tt.prefixes, tt.items)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("StripPrefixes() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestStripPrefixesDoesNotMutateInput(t *testing.T) {
	items := envfile.Items{{Key: "APP_PORT", Value: "80"}}
	StripPrefixes([]string{"APP_"}, items)
	if items[0].Key != "APP_PORT" {
		t.Errorf("input mutated: %v", items)
	}
}

func TestFilterPrefixed(t *testing.T) {
	items := envfile.Items{{Key: "APP_PORT", Value: "80"}, {Key: "HOME", Value: "/root"}, {Key: "CI_JOB", Value: "7"}}
	got := FilterPrefixed([]string{"APP_", "CI_"}, items)
	want := envfile.Items{{Key: "APP_PORT", Value: "80"}, {Key: "CI_JOB", Value: "7"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FilterPrefixed() mismatch (-want +got):\n%s", diff)
	}
}
