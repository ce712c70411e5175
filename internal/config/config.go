// Copyright 2026 The lualens Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config loads the project configuration file, .lualens.yaml:
//
//	project: [src]          # directories of the project's own files
//	libraries: [vendor/lua] # directories of library files
//	exclude: ["*_test.lua", "build/*"]
//	verbose: true
//
// Relative directories are resolved against the directory holding the
// file. Exclude patterns use filepath.Match syntax and apply to the
// base name of a file and to its path relative to its root.
package config // import "github.com/lualens/lualens/internal/config"

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/lualens/lualens/index"
)

// FileName is the name of the configuration file.
const FileName = ".lualens.yaml"

// Config is the content of a configuration file.
type Config struct {
	// Project lists the directories of the project's files.
	// It defaults to the directory of the configuration file.
	Project []string `yaml:"project"`

	// Libraries lists directories of library files, which are indexed
	// along with the project.
	Libraries []string `yaml:"libraries,omitempty"`

	// Exclude lists patterns of files not to index.
	Exclude []string `yaml:"exclude,omitempty"`

	// Verbose enables progress messages.
	Verbose bool `yaml:"verbose,omitempty"`

	dir string // directory of the configuration file
}

// Default returns the configuration of a project rooted at dir
// with no configuration file.
func Default(dir string) *Config {
	return &Config{Project: []string{"."}, dir: dir}
}

// Load reads and parses a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse parses configuration file content.
// The path locates relative directories and appears in error messages.
func Parse(data []byte, path string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	if len(cfg.Project) == 0 {
		cfg.Project = []string{"."}
	}
	cfg.dir = filepath.Dir(path)
	return &cfg, nil
}

func (c *Config) validate(path string) error {
	for i, dir := range c.Project {
		if dir == "" {
			return fmt.Errorf("%s: project[%d]: empty directory", path, i)
		}
	}
	for i, dir := range c.Libraries {
		if dir == "" {
			return fmt.Errorf("%s: libraries[%d]: empty directory", path, i)
		}
	}
	for i, pattern := range c.Exclude {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return fmt.Errorf("%s: exclude[%d]: bad pattern %q: %w", path, i, pattern, err)
		}
	}
	return nil
}

// Find searches for a configuration file in dir and its parents.
// It returns "" and a nil error if there is none.
func Find(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// Roots returns the project directories followed by the library
// directories, relative ones resolved against the configuration's
// directory.
func (c *Config) Roots() []string {
	var roots []string
	for _, list := range [][]string{c.Project, c.Libraries} {
		for _, dir := range list {
			if !filepath.IsAbs(dir) {
				dir = filepath.Join(c.dir, dir)
			}
			roots = append(roots, filepath.Clean(dir))
		}
	}
	return roots
}

// Scope returns the index scope of the project and library files.
func (c *Config) Scope() *index.Roots {
	return &index.Roots{Dirs: c.Roots(), Exclude: c.Exclude}
}
