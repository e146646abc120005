package jsondoc

import (
	"io"
	"strconv"
	"strings"
)

const indentStep = 2

// Writer serializes Value trees as indented JSON text.
//
// Objects are written one member per line with keys in ascending order.
// Arrays holding only scalars are written on a single line; arrays holding
// at least one object or array are written one element per line.
type Writer struct {
	out    io.Writer
	b      strings.Builder
	indent int
}

// NewWriter returns a Writer that writes to out.
func NewWriter(out io.Writer) *Writer {
	return &Writer{out: out}
}

// Write serializes v. A nil value writes nothing.
func (w *Writer) Write(v Value) error {
	w.b.Reset()
	w.indent = 0
	Accept(v, w)
	_, err := io.WriteString(w.out, w.b.String())
	return err
}

// AsString returns the serialized form of v, or "" for a nil value.
func AsString(v Value) string {
	var b strings.Builder
	if err := NewWriter(&b).Write(v); err != nil {
		return ""
	}
	return b.String()
}

func (w *Writer) VisitString(s String) { writeQuoted(&w.b, string(s)) }

func (w *Writer) VisitBool(v Bool) { w.b.WriteString(strconv.FormatBool(bool(v))) }

func (w *Writer) VisitNull(Null) { w.b.WriteString("null") }

func (w *Writer) VisitRaw(r Raw) { w.b.WriteString(string(r)) }

func (w *Writer) VisitInt32(i Int32) { w.b.WriteString(strconv.FormatInt(int64(i), 10)) }

func (w *Writer) VisitUInt32(i UInt32) { w.b.WriteString(strconv.FormatUint(uint64(i), 10)) }

func (w *Writer) VisitInt64(i Int64) { w.b.WriteString(strconv.FormatInt(int64(i), 10)) }

func (w *Writer) VisitUInt64(i UInt64) { w.b.WriteString(strconv.FormatUint(uint64(i), 10)) }

func (w *Writer) VisitDouble(d Double) { writeDouble(&w.b, d.rep) }

func (w *Writer) VisitObject(o *Object) {
	if o.IsEmpty() {
		w.b.WriteString("{}")
		return
	}
	w.b.WriteString("{\n")
	w.indent += indentStep
	first := true
	for k, v := range o.Members() {
		if !first {
			w.b.WriteString(",\n")
		}
		first = false
		w.writeIndent()
		writeQuoted(&w.b, k)
		w.b.WriteString(": ")
		v.Accept(w)
	}
	w.indent -= indentStep
	w.b.WriteByte('\n')
	w.writeIndent()
	w.b.WriteByte('}')
}

func (w *Writer) VisitArray(a *Array) {
	if a.IsEmpty() {
		w.b.WriteString("[]")
		return
	}
	if !a.IsComplex() {
		w.b.WriteByte('[')
		for i, e := range a.Elements() {
			if i > 0 {
				w.b.WriteString(", ")
			}
			e.Accept(w)
		}
		w.b.WriteByte(']')
		return
	}

	w.b.WriteString("[\n")
	w.indent += indentStep
	for i, e := range a.Elements() {
		if i > 0 {
			w.b.WriteString(",\n")
		}
		w.writeIndent()
		e.Accept(w)
	}
	w.indent -= indentStep
	w.b.WriteByte('\n')
	w.writeIndent()
	w.b.WriteByte(']')
}

func (w *Writer) writeIndent() {
	for range w.indent {
		w.b.WriteByte(' ')
	}
}

const hexDigits = "0123456789abcdef"

func writeQuoted(b *strings.Builder, s string) {
	b.WriteByte('"')
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		var esc string
		switch c {
		case '"':
			esc = `\"`
		case '\\':
			esc = `\\`
		case '/':
			esc = `\/`
		case '\b':
			esc = `\b`
		case '\f':
			esc = `\f`
		case '\n':
			esc = `\n`
		case '\r':
			esc = `\r`
		case '\t':
			esc = `\t`
		default:
			if c >= 0x20 {
				continue
			}
		}
		b.WriteString(s[start:i])
		if esc != "" {
			b.WriteString(esc)
		} else {
			b.WriteString(`\u00`)
			b.WriteByte(hexDigits[c>>4])
			b.WriteByte(hexDigits[c&0xF])
		}
		start = i + 1
	}
	b.WriteString(s[start:])
	b.WriteByte('"')
}
