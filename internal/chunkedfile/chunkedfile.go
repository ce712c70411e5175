// Copyright 2026 The lualens Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package chunkedfile provides utilities for data-driven tests over
// Lua source files.
//
// A chunked file consists of several chunks of input text separated by
// "---" lines.  Each chunk is an input to the program under test, such
// as the parser or the completion provider.  Lines containing "###"
// are interpreted as expectations: the following text is a Go string
// literal denoting a regular expression that should match the message
// reported for that line. Inside Lua sources the marker is written in
// a comment so that the chunk still parses:
//
//	x = = 1 -- ### "want primary expression"
//	---
//	local t = {a = 1}
//	t.--[[caret]] -- ### "^a$"
//
// A client test feeds each chunk of text into the program under test,
// then calls chunk.GotError for each message that actually occurred.
// Any discrepancy between the actual and expected messages is reported
// using the client's reporter, which is typically a testing.T.
package chunkedfile // import "github.com/lualens/lualens/internal/chunkedfile"

import (
	"os"
	"regexp"
	"runtime"
	"sort"
	"strconv"
	"strings"
)

// A Chunk is a portion of a source file.
// It contains a set of expected messages, keyed by line.
type Chunk struct {
	Source   string
	filename string
	report   Reporter
	wantErrs map[int]*regexp.Regexp
}

// Reporter is implemented by *testing.T.
type Reporter interface {
	Errorf(format string, args ...interface{})
}

// marker introduces an expectation within a line.
const marker = "###"

// Read parses a chunked file and returns its chunks.
// It reports failures using the reporter.
//
// Messages are prefixed by a newline so that the Go source position
// that (*testing.T).Errorf adds appears on a line of its own.
func Read(filename string, report Reporter) []Chunk {
	data, err := os.ReadFile(filename)
	if err != nil {
		report.Errorf("%s", err)
		return nil
	}
	eol := "\n"
	if runtime.GOOS == "windows" {
		eol = "\r\n"
	}
	return readBytes(filename, data, report, eol)
}

func readBytes(filename string, data []byte, report Reporter, eol string) []Chunk {
	var chunks []Chunk
	first := 1 // line number of the chunk's first line
	for _, text := range strings.Split(string(data), eol+"---"+eol) {
		c := Chunk{
			// Leading newlines keep line numbers those of the file.
			Source:   strings.Repeat("\n", first-1) + text,
			filename: filename,
			report:   report,
			wantErrs: make(map[int]*regexp.Regexp),
		}
		lines := strings.Split(text, "\n")
		for i, line := range lines {
			if rx := c.expectation(first+i, line); rx != nil {
				c.wantErrs[first+i] = rx
			}
		}
		chunks = append(chunks, c)
		first += len(lines) + 1 // the separator occupies a line
	}
	return chunks
}

// expectation returns the pattern expected on a line, or nil.
func (c *Chunk) expectation(linenum int, line string) *regexp.Regexp {
	i := strings.Index(line, marker)
	if i < 0 {
		return nil
	}
	quoted := strings.TrimSpace(line[i+len(marker):])
	pattern, err := strconv.Unquote(quoted)
	if err != nil {
		c.report.Errorf("\n%s:%d: not a quoted regexp: %s", c.filename, linenum, quoted)
		return nil
	}
	rx, err := regexp.Compile(pattern)
	if err != nil {
		c.report.Errorf("\n%s:%d: %v", c.filename, linenum, err)
		return nil
	}
	return rx
}

// Lines returns the line numbers that carry an expectation, in order.
func (c *Chunk) Lines() []int {
	lines := make([]int, 0, len(c.wantErrs))
	for linenum := range c.wantErrs {
		lines = append(lines, linenum)
	}
	sort.Ints(lines)
	return lines
}

// GotError records that the program under test reported msg at a line.
// A message on a line without an expectation, or one not matching it,
// is reported as a failure.
func (c *Chunk) GotError(linenum int, msg string) {
	rx, ok := c.wantErrs[linenum]
	if !ok {
		c.report.Errorf("\n%s:%d: unexpected error: %v", c.filename, linenum, msg)
		return
	}
	delete(c.wantErrs, linenum)
	if !rx.MatchString(msg) {
		c.report.Errorf("\n%s:%d: error %q does not match pattern %q", c.filename, linenum, msg, rx)
	}
}

// Done reports each expectation for which no message was recorded.
func (c *Chunk) Done() {
	for _, linenum := range c.Lines() {
		c.report.Errorf("\n%s:%d: expected error matching %q", c.filename, linenum, c.wantErrs[linenum])
	}
}
