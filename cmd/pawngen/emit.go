package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"go/format"
	"io"

	"github.com/hailam/pawnpush/internal/board"
)

// emit writes both table rows to w in the given format.
func emit(w io.Writer, t *board.PushTable, formatName, pkg string) error {
	switch formatName {
	case "go":
		return emitGo(w, t, pkg)
	case "c":
		return emitBraces(w, t)
	case "json":
		return emitJSON(w, t)
	}
	return fmt.Errorf("unknown format %q (want go, c or json)", formatName)
}

func emitGo(w io.Writer, t *board.PushTable, pkg string) error {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "// Code generated by pawngen. DO NOT EDIT.\n\n")
	fmt.Fprintf(&buf, "package %s\n\n", pkg)
	fmt.Fprintf(&buf, "// PawnPushes holds push destinations indexed [color][square].\n")
	fmt.Fprintf(&buf, "// Squares run A1=0 to H8=63; color 0 is White, moving toward H8.\n")
	fmt.Fprintf(&buf, "var PawnPushes = [2][64]uint64{\n")
	for _, c := range board.Colors {
		fmt.Fprintf(&buf, "// %s\n{\n", c)
		row := t.Row(c)
		for sq, v := range row {
			fmt.Fprintf(&buf, "%#016x, // %s\n", v, board.Square(sq))
		}
		fmt.Fprintf(&buf, "},\n")
	}
	fmt.Fprintf(&buf, "}\n")

	src, err := format.Source(buf.Bytes())
	if err != nil {
		return fmt.Errorf("format generated source: %w", err)
	}
	_, err = w.Write(src)
	return err
}

// emitBraces prints one brace-delimited list per color, usable as a C or
// C# array initializer. The UL suffix is valid 64-bit unsigned in both.
func emitBraces(w io.Writer, t *board.PushTable) error {
	var buf bytes.Buffer
	buf.WriteString("{\n")
	for i, c := range board.Colors {
		buf.WriteString("  {")
		for sq, v := range t.Row(c) {
			if sq%8 == 0 {
				buf.WriteString("\n    ")
			}
			fmt.Fprintf(&buf, "%dUL, ", v)
		}
		buf.WriteString("\n  }")
		if i < len(board.Colors)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	buf.WriteString("}\n")
	_, err := w.Write(buf.Bytes())
	return err
}

func emitJSON(w io.Writer, t *board.PushTable) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		White [board.NumSquares]uint64 `json:"white"`
		Black [board.NumSquares]uint64 `json:"black"`
	}{t.Row(board.White), t.Row(board.Black)})
}
