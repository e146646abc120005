// Package jsondoc implements a JSON value tree with exact number
// representations, a recursive-descent parser, a canonical writer and RFC 6901
// JSON Pointers.
package jsondoc

// Kind identifies the variant of a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindString
	KindInt32
	KindUInt32
	KindInt64
	KindUInt64
	KindDouble
	KindRaw
	KindObject
	KindArray
)

var kindNames = [...]string{
	KindNull:   "null",
	KindBool:   "bool",
	KindString: "string",
	KindInt32:  "int32",
	KindUInt32: "uint32",
	KindInt64:  "int64",
	KindUInt64: "uint64",
	KindDouble: "double",
	KindRaw:    "raw",
	KindObject: "object",
	KindArray:  "array",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Value is a node in a JSON document tree. The set of implementations is
// closed: String, Bool, Null, Int32, UInt32, Int64, UInt64, Double, Raw,
// *Object and *Array.
//
// Containers exclusively own their children. A Value stored in one container
// must not be stored in another; use Clone to copy it.
type Value interface {
	Kind() Kind
	// Clone returns a deep copy.
	Clone() Value
	// Accept calls the Visit method of v that matches the variant.
	Accept(v Visitor)

	isValue()
}

// String is a JSON string.
type String string

// Bool is a JSON boolean.
type Bool bool

// Null is the JSON null literal.
type Null struct{}

// Raw is pre-serialized JSON text. The writer emits it verbatim without
// validation.
type Raw string

func (String) Kind() Kind { return KindString }
func (Bool) Kind() Kind   { return KindBool }
func (Null) Kind() Kind   { return KindNull }
func (Raw) Kind() Kind    { return KindRaw }

func (s String) Clone() Value { return s }
func (b Bool) Clone() Value   { return b }
func (n Null) Clone() Value   { return n }
func (r Raw) Clone() Value    { return r }

func (s String) Accept(v Visitor) { v.VisitString(s) }
func (b Bool) Accept(v Visitor)   { v.VisitBool(b) }
func (n Null) Accept(v Visitor)   { v.VisitNull(n) }
func (r Raw) Accept(v Visitor)    { v.VisitRaw(r) }

func (String) isValue() {}
func (Bool) isValue()   {}
func (Null) isValue()   {}
func (Raw) isValue()    {}

// IsContainer reports whether v is an Object or an Array.
func IsContainer(v Value) bool {
	switch v.(type) {
	case *Object, *Array:
		return true
	}
	return false
}
