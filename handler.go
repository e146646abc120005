package jsondoc

// Handler receives the events produced by a Parser during a single forward
// scan of the input.
//
// Begin is called once before the first value and End once after the top level
// value, only if it parsed successfully. SetError is called for the first
// syntax error; no further events follow it.
type Handler interface {
	Begin()
	End()
	String(value string)
	Number(value Number)
	Bool(value bool)
	Null()
	OpenArray()
	CloseArray()
	OpenObject()
	ObjectKey(key string)
	CloseObject()
	SetError(msg string)
}

type builderFrame struct {
	container Value
	key       string
}

// TreeBuilder is a Handler that materializes the events into a Value tree.
// Duplicate object keys keep the last value.
type TreeBuilder struct {
	root  Value
	stack []builderFrame
	err   string
}

// NewTreeBuilder returns an empty TreeBuilder.
func NewTreeBuilder() *TreeBuilder {
	return &TreeBuilder{}
}

func (b *TreeBuilder) Begin() {
	b.root = nil
	b.stack = b.stack[:0]
	b.err = ""
}

func (b *TreeBuilder) End() {}

func (b *TreeBuilder) String(value string) { b.add(String(value)) }
func (b *TreeBuilder) Number(value Number) { b.add(value) }
func (b *TreeBuilder) Bool(value bool)     { b.add(Bool(value)) }
func (b *TreeBuilder) Null()               { b.add(Null{}) }

func (b *TreeBuilder) OpenArray() {
	a := NewArray()
	b.add(a)
	b.stack = append(b.stack, builderFrame{container: a})
}

func (b *TreeBuilder) CloseArray() { b.pop() }

func (b *TreeBuilder) OpenObject() {
	o := NewObject()
	b.add(o)
	b.stack = append(b.stack, builderFrame{container: o})
}

func (b *TreeBuilder) ObjectKey(key string) {
	if len(b.stack) == 0 {
		return
	}
	b.stack[len(b.stack)-1].key = key
}

func (b *TreeBuilder) CloseObject() { b.pop() }

func (b *TreeBuilder) SetError(msg string) {
	if b.err == "" {
		b.err = msg
	}
}

// Err returns the first error passed to SetError.
func (b *TreeBuilder) Err() string { return b.err }

// ClaimRoot returns the built tree and releases it from the builder. It
// returns nil if an error was recorded or the tree is still open.
func (b *TreeBuilder) ClaimRoot() Value {
	if b.err != "" || len(b.stack) != 0 {
		return nil
	}
	root := b.root
	b.root = nil
	return root
}

func (b *TreeBuilder) add(v Value) {
	if len(b.stack) == 0 {
		if b.root != nil {
			b.SetError("Multiple top level values")
			return
		}
		b.root = v
		return
	}
	top := &b.stack[len(b.stack)-1]
	switch c := top.container.(type) {
	case *Array:
		c.Append(v)
	case *Object:
		c.Add(top.key, v)
	}
}

func (b *TreeBuilder) pop() {
	if len(b.stack) > 0 {
		b.stack = b.stack[:len(b.stack)-1]
	}
}
