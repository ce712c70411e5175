// Copyright 2026 The lualens Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The lualens command reports completions and inferred types in a Lua
// file. With no arguments and a terminal on standard input, it starts
// an interactive session.
//
// Usage:
//
//	lualens [flags] file.lua
//	lualens [flags] -c 'program'
//	lualens [flags] < file.lua
//
// By default it prints the completions at the end of the file, or at
// the position given by -pos. With -type it prints the inferred type
// of the innermost expression at -pos instead.
//
// The files of the project, found by searching for .lualens.yaml in
// the current directory and its parents, are indexed first so that
// global definitions in other files are known.
package main // import "github.com/lualens/lualens/cmd/lualens"

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"

	"golang.org/x/term"

	"github.com/lualens/lualens/complete"
	"github.com/lualens/lualens/infer"
	"github.com/lualens/lualens/internal/config"
	"github.com/lualens/lualens/repl"
	"github.com/lualens/lualens/syntax"
)

// flags
var (
	cpuprofile = flag.String("cpuprofile", "", "gather Go CPU profile in this file")
	memprofile = flag.String("memprofile", "", "gather Go memory profile in this file")
	execprog   = flag.String("c", "", "analyze program `prog`")
	posFlag    = flag.String("pos", "", "analyze at position `line:col` (default: end of input)")
	typeFlag   = flag.Bool("type", false, "print the inferred type of the expression at -pos")
	configFlag = flag.String("config", "", "read configuration from `file` (default: nearest "+config.FileName+")")
	outputFlag = flag.String("output", "text", "output format (text, json, prototext, wire)")
	jsonFlag   = flag.Bool("json", false, "shorthand for -output=json")
	verbose    = flag.Bool("v", false, "print progress messages")
)

func main() {
	os.Exit(doMain())
}

func doMain() int {
	log.SetPrefix("lualens: ")
	log.SetFlags(0)
	flag.Parse()

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		check(err)
		err = pprof.StartCPUProfile(f)
		check(err)
		defer func() {
			pprof.StopCPUProfile()
			err := f.Close()
			check(err)
		}()
	}
	if *memprofile != "" {
		f, err := os.Create(*memprofile)
		check(err)
		defer func() {
			runtime.GC()
			err := pprof.Lookup("heap").WriteTo(f, 0)
			check(err)
			err = f.Close()
			check(err)
		}()
	}
	if *jsonFlag {
		*outputFlag = "json"
	}
	enc, err := newEncoder(*outputFlag)
	if err != nil {
		log.Print(err)
		return 1
	}

	cfg, err := loadConfig(*configFlag)
	if err != nil {
		log.Print(err)
		return 1
	}
	if cfg.Verbose {
		*verbose = true
	}
	idx := buildIndex(cfg, *verbose)
	src := complete.Source{Engine: infer.Engine{Index: idx, Scope: cfg.Scope()}}

	var (
		filename string
		data     []byte
	)
	switch {
	case *execprog != "":
		filename, data = "cmdline", []byte(*execprog)
	case flag.NArg() == 1:
		filename = flag.Arg(0)
		data, err = os.ReadFile(filename)
		if err != nil {
			log.Print(err)
			return 1
		}
		// Indexed paths are absolute.
		if abs, err := filepath.Abs(filename); err == nil {
			filename = abs
		}
	case flag.NArg() == 0 && term.IsTerminal(int(os.Stdin.Fd())):
		fmt.Println("Welcome to lualens")
		repl.REPL(repl.NewSession("<stdin>", src))
		return 0
	case flag.NArg() == 0:
		filename = "<stdin>"
		data, err = io.ReadAll(os.Stdin)
		if err != nil {
			log.Print(err)
			return 1
		}
	default:
		log.Print("want at most one Lua file name")
		return 1
	}

	text := string(data)
	offset := len(text)
	if *posFlag != "" {
		line, col, err := parsePos(*posFlag)
		if err == nil {
			offset, err = offsetOf(text, line, col)
		}
		if err != nil {
			log.Printf("-pos: %v", err)
			return 1
		}
	} else if *typeFlag {
		log.Print("-type requires -pos")
		return 1
	}

	var result interface{}
	if *typeFlag {
		f, err := syntax.Parse(filename, text, syntax.Lenient)
		if err != nil {
			repl.PrintError(err)
			return 1
		}
		result = typeResult(src.Engine, f, position(f, text[:offset]))
	} else {
		items, err := src.Complete(filename, text, offset)
		if err != nil {
			repl.PrintError(err)
			return 1
		}
		result = items
	}
	if err := enc.encode(os.Stdout, result); err != nil {
		log.Print(err)
		return 1
	}
	return 0
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		found, err := config.Find(".")
		if err != nil {
			return nil, err
		}
		if found == "" {
			cwd, err := os.Getwd()
			if err != nil {
				return nil, err
			}
			return config.Default(cwd), nil
		}
		path = found
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	return config.Load(abs)
}

func check(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
