// Package jsonwriter serializes decoded MOO containers to the canonical
// JSON layout.
//
// The layout is an interchange contract: downstream tooling diffs and
// line-scans the produced files, so the output has to be byte reproducible.
// Field order, indentation, inline arrays and comma placement are therefore
// written explicitly instead of going through a generic JSON encoder whose
// formatting is not under contract.
package jsonwriter

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/retroenv/moo2json/internal/moo"
)

const indent = "  "

// Write serializes the container's test sequence. The output is a
// top-level array with one object per test, fields in the fixed order
// idx, name, bytes, initial, final, cycles, exception, hash, absent fields
// omitted and no trailing commas.
func Write(w io.Writer, container *moo.Container) error {
	buf := bufio.NewWriter(w)
	cw := &containerWriter{buf: buf, family: container.Family}
	cw.writeTests(container.Tests)
	return buf.Flush()
}

// containerWriter writes into a bufio.Writer, which latches the first write
// error and turns later writes into no-ops; the error surfaces on Flush.
type containerWriter struct {
	buf    *bufio.Writer
	family moo.Family
}

func (w *containerWriter) writeTests(tests []moo.TestRecord) {
	w.buf.WriteString("[\n")
	for i := range tests {
		w.buf.WriteString(indent + "{\n")
		w.writeTest(&tests[i])
		w.buf.WriteString(indent + "}" + comma(i == len(tests)-1) + "\n")
	}
	w.buf.WriteString("]\n")
}

func (w *containerWriter) writeTest(test *moo.TestRecord) {
	// emitters for the present fields, in the fixed field order; comma
	// placement only depends on which fields are present
	fields := []func(comma string){
		func(c string) { w.scalarField("idx", formatUint(uint64(test.Index)), c) },
	}
	if test.Name != nil {
		fields = append(fields, func(c string) { w.scalarField("name", quote(*test.Name), c) })
	}
	if test.Bytes != nil {
		fields = append(fields, func(c string) { w.scalarField("bytes", inlineBytes(test.Bytes), c) })
	}
	if test.Initial != nil {
		fields = append(fields, func(c string) { w.writeState("initial", test.Initial, c) })
	}
	if test.Final != nil {
		fields = append(fields, func(c string) { w.writeState("final", test.Final, c) })
	}
	if test.Cycles != nil {
		fields = append(fields, func(c string) { w.writeCycles(test.Cycles, c) })
	}
	if test.Exception != nil {
		fields = append(fields, func(c string) { w.writeException(test.Exception, c) })
	}
	if test.Hash != nil {
		fields = append(fields, func(c string) { w.scalarField("hash", quote(*test.Hash), c) })
	}

	for i, emit := range fields {
		emit(comma(i == len(fields)-1))
	}
}

// scalarField writes a single-line field at test object level.
func (w *containerWriter) scalarField(name, value, comma string) {
	fmt.Fprintf(w.buf, "%s%q: %s%s\n", level(2), name, value, comma)
}

// writeState writes an initial/final state object. The regs, ram and queue
// sub-fields are always present; ea only when decoded. queue is last and
// never followed by a comma.
func (w *containerWriter) writeState(name string, state *moo.CPUState, fieldComma string) {
	fmt.Fprintf(w.buf, "%s%q: {\n", level(2), name)

	w.writeRegs(state.Regs, ",")
	if state.EA != nil {
		w.writeEA(state.EA, ",")
	}
	w.writeRAM(state.RAM, ",")
	fmt.Fprintf(w.buf, "%s\"queue\": %s\n", level(3), inlineBytes(state.Queue))

	fmt.Fprintf(w.buf, "%s}%s\n", level(2), fieldComma)
}

func (w *containerWriter) writeRegs(regs []moo.Register, comma string) {
	if len(regs) == 0 {
		fmt.Fprintf(w.buf, "%s\"regs\": {}%s\n", level(3), comma)
		return
	}

	fmt.Fprintf(w.buf, "%s\"regs\": {\n", level(3))
	for i, reg := range regs {
		sep := ","
		if i == len(regs)-1 {
			sep = ""
		}
		fmt.Fprintf(w.buf, "%s%s: %d%s\n", level(4), quote(reg.Name), reg.Value, sep)
	}
	fmt.Fprintf(w.buf, "%s}%s\n", level(3), comma)
}

func (w *containerWriter) writeEA(ea *moo.EffectiveAddress, comma string) {
	fmt.Fprintf(w.buf, "%s\"ea\": {\n", level(3))
	fmt.Fprintf(w.buf, "%s\"seg\": %s,\n", level(4), quote(ea.Segment))
	fmt.Fprintf(w.buf, "%s\"sel\": %d,\n", level(4), ea.Selector)
	fmt.Fprintf(w.buf, "%s\"base\": %d,\n", level(4), ea.Base)
	fmt.Fprintf(w.buf, "%s\"limit\": %d,\n", level(4), ea.Limit)
	fmt.Fprintf(w.buf, "%s\"offset\": %d,\n", level(4), ea.Offset)
	fmt.Fprintf(w.buf, "%s\"l_addr\": %d,\n", level(4), ea.Linear)
	fmt.Fprintf(w.buf, "%s\"p_addr\": %d\n", level(4), ea.Physical)
	fmt.Fprintf(w.buf, "%s}%s\n", level(3), comma)
}

func (w *containerWriter) writeRAM(entries []moo.RAMEntry, comma string) {
	fmt.Fprintf(w.buf, "%s\"ram\": [\n", level(3))
	for i, entry := range entries {
		sep := ","
		if i == len(entries)-1 {
			sep = ""
		}
		fmt.Fprintf(w.buf, "%s[%d, %d]%s\n", level(4), entry.Address, entry.Value, sep)
	}
	fmt.Fprintf(w.buf, "%s]%s\n", level(3), comma)
}

func (w *containerWriter) writeCycles(cycles []moo.Cycle, fieldComma string) {
	fmt.Fprintf(w.buf, "%s\"cycles\": [\n", level(2))
	for i := range cycles {
		sep := ","
		if i == len(cycles)-1 {
			sep = ""
		}
		fmt.Fprintf(w.buf, "%s%s%s\n", level(3), w.inlineCycle(&cycles[i]), sep)
	}
	fmt.Fprintf(w.buf, "%s]%s\n", level(2), fieldComma)
}

// inlineCycle renders one bus cycle as an inline array. The element
// sequence differs by family: the classic layout carries the decoded
// segment, flag strings and queue fields, the 286/386 layouts carry raw
// flag bytes and the masked raw status instead.
func (w *containerWriter) inlineCycle(cycle *moo.Cycle) string {
	switch w.family {
	case moo.Family80286, moo.Family80386:
		return fmt.Sprintf("[%d, %d, %d, %d, %d, %s, %d, %s]",
			cycle.Pin, cycle.Address, cycle.MemRaw, cycle.IORaw,
			cycle.DataBus, quote(cycle.BusStatus), cycle.RawStatus, quote(cycle.TState))
	default:
		return fmt.Sprintf("[%d, %d, %s, %s, %s, %d, %d, %s, %s, %s, %d]",
			cycle.Pin, cycle.Address, quote(cycle.Segment),
			quote(cycle.MemFlags), quote(cycle.IOFlags), cycle.BHE,
			cycle.DataBus, quote(cycle.BusStatus), quote(cycle.TState),
			quote(cycle.QueueOp), cycle.QueueRead)
	}
}

func (w *containerWriter) writeException(exception *moo.Exception, fieldComma string) {
	fmt.Fprintf(w.buf, "%s\"exception\": {\n", level(2))
	fmt.Fprintf(w.buf, "%s\"number\": %d,\n", level(3), exception.Number)
	fmt.Fprintf(w.buf, "%s\"flag_address\": %d\n", level(3), exception.FlagAddress)
	fmt.Fprintf(w.buf, "%s}%s\n", level(2), fieldComma)
}

// inlineBytes renders a byte sequence as an inline JSON array of numbers.
func inlineBytes(data []byte) string {
	out := []byte{'['}
	for i, b := range data {
		if i > 0 {
			out = append(out, ',', ' ')
		}
		out = strconv.AppendUint(out, uint64(b), 10)
	}
	return string(append(out, ']'))
}

func formatUint(v uint64) string {
	return strconv.FormatUint(v, 10)
}

func comma(last bool) string {
	if last {
		return ""
	}
	return ","
}

func level(n int) string {
	switch n {
	case 2:
		return indent + indent
	case 3:
		return indent + indent + indent
	default:
		return indent + indent + indent + indent
	}
}

// quote JSON-escapes a string with ASCII-safe output: control characters
// use the short escapes or \u00xx, characters outside ASCII are written as
// \uXXXX escapes (surrogate pairs above the BMP).
func quote(s string) string {
	out := []byte{'"'}
	for _, r := range s {
		switch {
		case r == '"':
			out = append(out, '\\', '"')
		case r == '\\':
			out = append(out, '\\', '\\')
		case r == '\b':
			out = append(out, '\\', 'b')
		case r == '\f':
			out = append(out, '\\', 'f')
		case r == '\n':
			out = append(out, '\\', 'n')
		case r == '\r':
			out = append(out, '\\', 'r')
		case r == '\t':
			out = append(out, '\\', 't')
		case r < 0x20 || r > 0x7e:
			if r > 0xffff {
				r -= 0x10000
				out = appendEscape(out, 0xd800+(r>>10))
				out = appendEscape(out, 0xdc00+(r&0x3ff))
			} else {
				out = appendEscape(out, r)
			}
		default:
			out = append(out, byte(r))
		}
	}
	return string(append(out, '"'))
}

func appendEscape(out []byte, r rune) []byte {
	return append(out, fmt.Sprintf("\\u%04x", r)...)
}
