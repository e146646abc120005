package jsonpatch

import (
	"fmt"
	"iter"
	"slices"

	"github.com/agentflare-ai/jsondoc"
)

// OpError reports the operation of a set that failed to apply.
type OpError struct {
	Index int // position of the operation within the set
	Op    Op
	Err   error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("patch operation %d (%s) failed: %v", e.Index, e.Op, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

// Set is an ordered list of patch operations.
type Set struct {
	ops []PatchOp
}

// NewSet returns a Set holding ops.
func NewSet(ops ...PatchOp) *Set {
	return &Set{ops: slices.Clone(ops)}
}

// Append adds op to the end of the set.
func (s *Set) Append(op PatchOp) {
	s.ops = append(s.ops, op)
}

// Len returns the number of operations.
func (s *Set) Len() int { return len(s.ops) }

// Empty reports whether the set has no operations.
func (s *Set) Empty() bool { return len(s.ops) == 0 }

// Ops iterates over the operations in order.
func (s *Set) Ops() iter.Seq2[int, PatchOp] {
	return slices.All(s.ops)
}

// Apply runs the operations in order against the document held by root and
// stops at the first one that fails, returning an *OpError. Operations before
// the failing one stay applied, so callers wanting all or nothing semantics
// must apply the set to a copy.
func (s *Set) Apply(root *jsondoc.Value) error {
	for i, op := range s.ops {
		if err := op.Apply(root); err != nil {
			return &OpError{Index: i, Op: op.Op(), Err: err}
		}
	}
	return nil
}

// Value returns the set as a JSON Patch document.
func (s *Set) Value() *jsondoc.Array {
	a := jsondoc.NewArray()
	for _, op := range s.ops {
		a.Append(op.Object())
	}
	return a
}

// String returns the JSON Patch document text of the set.
func (s *Set) String() string {
	return jsondoc.AsString(s.Value())
}
