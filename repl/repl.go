// Copyright 2026 The lualens Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package repl provides an interactive session for exploring the
// types and completions lualens computes.
//
// It supports readline-style command editing,
// and Control-C to discard a partial input.
//
// Input lines that parse as Lua statements are appended to the
// session's chunk; a line that leaves a statement unfinished, such as
// "function f()", is continued on the following lines. Other inputs
// are commands:
//
//	= expr    print the inferred type of expr at the end of the chunk
//	? text    print the completions at the end of text appended to the chunk
//	:chunk    print the chunk
//	:reset    clear the chunk
package repl // import "github.com/lualens/lualens/repl"

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"

	"github.com/lualens/lualens/complete"
	"github.com/lualens/lualens/syntax"
)

// A Session holds the chunk built up by an interactive session.
type Session struct {
	Filename string
	Source   complete.Source
	chunk    string
}

// NewSession returns an empty session whose chunk is analyzed as the
// named file.
func NewSession(filename string, src complete.Source) *Session {
	return &Session{Filename: filename, Source: src}
}

// Chunk returns the statements accumulated so far.
func (s *Session) Chunk() string { return s.chunk }

// errIncomplete indicates that input ends within a statement.
var errIncomplete = errors.New("incomplete input")

// Eval handles one input, writing its results to w.
// It returns errIncomplete if the input ends within a statement;
// the caller should append further lines and try again.
func (s *Session) Eval(input string, w io.Writer) error {
	line := strings.TrimSpace(input)
	switch {
	case line == "":
		return nil
	case line == ":reset":
		s.chunk = ""
		return nil
	case line == ":chunk":
		fmt.Fprint(w, s.chunk)
		return nil
	case strings.HasPrefix(line, "="):
		return s.printType(strings.TrimSpace(line[1:]), w)
	case strings.HasPrefix(line, "?"):
		return s.printCompletions(strings.TrimLeft(line[1:], " "), w)
	}

	text := s.chunk + input
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	if _, err := syntax.Parse(s.Filename, text, 0); err != nil {
		if incomplete(err) {
			return errIncomplete
		}
		return err
	}
	s.chunk = text
	return nil
}

// incomplete reports whether err was caused by input ending early.
func incomplete(err error) bool {
	var serr syntax.Error
	if !errors.As(err, &serr) {
		return false
	}
	return strings.Contains(serr.Msg, "got end of file") ||
		strings.HasPrefix(serr.Msg, "unfinished long string")
}

func (s *Session) printType(expr string, w io.Writer) error {
	if expr == "" {
		return fmt.Errorf("usage: = expr")
	}
	f, err := syntax.Parse(s.Filename, s.chunk+"return "+expr+"\n", syntax.Lenient)
	if err != nil {
		return err
	}
	ret, ok := f.Body.Stmts[len(f.Body.Stmts)-1].(*syntax.ReturnStmt)
	if !ok || len(ret.Results) != 1 {
		return fmt.Errorf("%s is not a single expression", expr)
	}
	fmt.Fprintln(w, s.Source.Engine.InferType(f, ret.Results[0]))
	return nil
}

func (s *Session) printCompletions(text string, w io.Writer) error {
	src := s.chunk + text
	items, err := s.Source.Complete(s.Filename, src, len(src))
	if err != nil {
		return err
	}
	for _, item := range items {
		if item.TypeText != "" {
			fmt.Fprintf(w, "%s\t%s\t%s\n", item.Label, item.Kind, item.TypeText)
		} else {
			fmt.Fprintf(w, "%s\t%s\n", item.Label, item.Kind)
		}
	}
	return nil
}

// REPL runs an interactive session until end of input.
func REPL(s *Session) {
	rl, err := readline.New(">>> ")
	if err != nil {
		PrintError(err)
		return
	}
	defer rl.Close()
	for {
		if err := rep(rl, s); err != nil {
			if err == readline.ErrInterrupt {
				fmt.Println(err)
				continue
			}
			break
		}
	}
	fmt.Println()
}

// rep reads and handles one input, which may span several lines.
//
// It returns an error (possibly readline.ErrInterrupt)
// only if readline failed. Other errors are printed.
func rep(rl *readline.Instance, s *Session) error {
	rl.SetPrompt(">>> ")
	var input strings.Builder
	for {
		line, err := rl.Readline()
		if err != nil {
			return err
		}
		input.WriteString(line)
		input.WriteByte('\n')

		err = s.Eval(input.String(), rl.Stdout())
		if err == errIncomplete {
			rl.SetPrompt("... ")
			continue
		}
		if err != nil {
			PrintError(err)
		}
		return nil
	}
}

// PrintError prints the error to stderr.
func PrintError(err error) {
	fmt.Fprintln(os.Stderr, err)
}
