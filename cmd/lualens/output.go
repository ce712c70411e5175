// Copyright 2026 The lualens Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"strings"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/encoding/prototext"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/lualens/lualens/complete"
)

// An encoder prints analysis results in one output format.
type encoder struct {
	marshal func(protoreflect.ProtoMessage) ([]byte, error) // nil for text
	newline bool                                            // terminate output with a newline
}

func newEncoder(format string) (*encoder, error) {
	switch format {
	case "text":
		return &encoder{}, nil
	case "json":
		return &encoder{protojson.MarshalOptions{Multiline: true, Indent: "\t"}.Marshal, true}, nil
	case "prototext":
		return &encoder{prototext.MarshalOptions{Multiline: true, Indent: "\t"}.Marshal, true}, nil
	case "wire":
		return &encoder{marshal: proto.Marshal}, nil
	}
	return nil, fmt.Errorf("unsupported -output format: %s", format)
}

// encode writes v, a []complete.Item or a typeReport, to w.
func (e *encoder) encode(w io.Writer, v interface{}) error {
	if e.marshal == nil {
		return encodeText(w, v)
	}
	msg, err := structpb.NewValue(toPlain(v))
	if err != nil {
		return err
	}
	data, err := e.marshal(msg)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	if e.newline && (len(data) == 0 || data[len(data)-1] != '\n') {
		_, err = io.WriteString(w, "\n")
	}
	return err
}

func encodeText(w io.Writer, v interface{}) error {
	var buf strings.Builder
	switch v := v.(type) {
	case []complete.Item:
		for _, item := range v {
			buf.WriteString(item.Label)
			buf.WriteByte('\t')
			buf.WriteString(item.Kind.String())
			if item.TypeText != "" {
				buf.WriteByte('\t')
				buf.WriteString(item.TypeText)
			}
			buf.WriteByte('\n')
		}
	case typeReport:
		if v.Pos.IsValid() {
			fmt.Fprintf(&buf, "%s: ", v.Pos)
		}
		buf.WriteString(v.Types.String())
		if v.Hint != "" {
			fmt.Fprintf(&buf, " (did you mean %s?)", v.Hint)
		}
		buf.WriteByte('\n')
	default:
		return fmt.Errorf("cannot encode %T", v)
	}
	_, err := io.WriteString(w, buf.String())
	return err
}

// toPlain converts v to the maps, slices and strings accepted by
// structpb.NewValue.
func toPlain(v interface{}) interface{} {
	switch v := v.(type) {
	case []complete.Item:
		items := make([]interface{}, len(v))
		for i, item := range v {
			m := map[string]interface{}{
				"label": item.Label,
				"kind":  item.Kind.String(),
			}
			if item.TypeText != "" {
				m["type"] = item.TypeText
			}
			items[i] = m
		}
		return map[string]interface{}{"items": items}
	case typeReport:
		var names []interface{}
		for _, t := range v.Types.Types() {
			names = append(names, t.String())
		}
		m := map[string]interface{}{
			"type":  v.Types.String(),
			"types": names,
		}
		if v.Pos.IsValid() {
			m["pos"] = v.Pos.String()
		}
		if v.Hint != "" {
			m["hint"] = v.Hint
		}
		return m
	}
	return nil
}
