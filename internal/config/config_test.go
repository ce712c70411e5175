// Copyright 2026 The lualens Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestParse(t *testing.T) {
	const data = `
project: [src, /abs/game]
libraries:
  - vendor/lua
exclude: ["*_spec.lua", "build/*"]
verbose: true
`
	cfg, err := Parse([]byte(data), filepath.Join("proj", FileName))
	if err != nil {
		t.Fatal(err)
	}
	want := &Config{
		Project:   []string{"src", "/abs/game"},
		Libraries: []string{"vendor/lua"},
		Exclude:   []string{"*_spec.lua", "build/*"},
		Verbose:   true,
	}
	if diff := cmp.Diff(want, cfg, cmpopts.IgnoreUnexported(Config{})); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
	wantRoots := []string{
		filepath.Join("proj", "src"),
		filepath.Clean("/abs/game"),
		filepath.Join("proj", "vendor", "lua"),
	}
	if diff := cmp.Diff(wantRoots, cfg.Roots()); diff != "" {
		t.Errorf("roots mismatch (-want +got):\n%s", diff)
	}

	scope := cfg.Scope()
	for _, test := range []struct {
		path string
		want bool
	}{
		{filepath.Join("proj", "src", "main.lua"), true},
		{filepath.Join("proj", "src", "main_spec.lua"), false},
		{filepath.Join("proj", "src", "build", "gen.lua"), false},
		{filepath.Join("proj", "vendor", "lua", "json.lua"), true},
		{filepath.Join("proj", "vendor", "lua", "build", "x.lua"), false},
		{filepath.Join("proj", "other", "main.lua"), false},
	} {
		if got := scope.Contains(test.path); got != test.want {
			t.Errorf("Contains(%s) = %t, want %t", test.path, got, test.want)
		}
	}
}

func TestDefaults(t *testing.T) {
	cfg, err := Parse([]byte("verbose: false\n"), filepath.Join("p", FileName))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"p"}, cfg.Roots()); diff != "" {
		t.Errorf("roots mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"d"}, Default("d").Roots()); diff != "" {
		t.Errorf("default roots mismatch (-want +got):\n%s", diff)
	}
}

func TestParseErrors(t *testing.T) {
	for _, test := range []struct {
		data, want string
	}{
		{"project: [\"\"]", "project[0]: empty directory"},
		{"libraries: [\"\"]", "libraries[0]: empty directory"},
		{"exclude: [\"[\"]", "exclude[0]: bad pattern"},
		{"project: {a: 1}", "parsing c.yaml"},
	} {
		_, err := Parse([]byte(test.data), "c.yaml")
		if err == nil || !strings.Contains(err.Error(), test.want) {
			t.Errorf("Parse(%q) = %v, want error containing %q", test.data, err, test.want)
		}
	}
}

func TestLoadAndFind(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	if path, err := Find(sub); err != nil || path != "" {
		t.Fatalf("Find without file = %q, %v", path, err)
	}
	file := filepath.Join(root, FileName)
	if err := os.WriteFile(file, []byte("project: [a]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	path, err := Find(sub)
	if err != nil || path != file {
		t.Fatalf("Find = %q, %v; want %q", path, err, file)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{filepath.Join(root, "a")}, cfg.Roots()); diff != "" {
		t.Errorf("roots mismatch (-want +got):\n%s", diff)
	}
	if _, err := Load(filepath.Join(root, "missing.yaml")); err == nil {
		t.Errorf("Load of missing file succeeded")
	}
}
