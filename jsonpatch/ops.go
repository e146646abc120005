// Package jsonpatch implements RFC 6902 JSON Patch operations over jsondoc
// value trees.
package jsonpatch

import (
	"errors"
	"fmt"

	"github.com/agentflare-ai/jsondoc"
)

// Op represents JSON Patch operation types
type Op string

const (
	Add     Op = "add"
	Remove  Op = "remove"
	Replace Op = "replace"
	Move    Op = "move"
	Copy    Op = "copy"
	Test    Op = "test"
)

var (
	ErrInvalidPointer  = errors.New("invalid pointer")
	ErrEmptyDocument   = errors.New("document is empty")
	ErrMissingValue    = errors.New("missing value")
	ErrMissingParent   = errors.New("parent not found")
	ErrNotContainer    = errors.New("parent is not an object or array")
	ErrInvalidIndex    = errors.New("invalid array index")
	ErrIndexOutOfRange = errors.New("array index out of range")
	ErrMissingTarget   = errors.New("target not found")
	ErrCycle           = errors.New("cannot move a value into one of its children")
	ErrTestFailed      = errors.New("test failed")
)

// PatchOp is a single operation of a patch set.
type PatchOp interface {
	// Op returns the operation type.
	Op() Op
	// Apply mutates the document held by root. The document may be replaced
	// or set to nil, which represents an absent document.
	Apply(root *jsondoc.Value) error
	// Object returns the JSON Patch document form of the operation.
	Object() *jsondoc.Object
}

// AddOp adds a value at Path. Adding at the root replaces the document.
type AddOp struct {
	Path  jsondoc.Pointer
	Value jsondoc.Value
}

// NewAddOp returns an AddOp. A nil value is only accepted at the root, where
// it clears the document.
func NewAddOp(path jsondoc.Pointer, value jsondoc.Value) *AddOp {
	return &AddOp{Path: path, Value: value}
}

func (op *AddOp) Op() Op { return Add }

func (op *AddOp) Apply(root *jsondoc.Value) error {
	return add(root, op.Path, cloneOrNil(op.Value), false)
}

func (op *AddOp) Object() *jsondoc.Object {
	return opObject(Add, op.Path, nil, op.Value)
}

// RemoveOp removes the value at Path. For arrays the "-" token refers to the
// last element.
type RemoveOp struct {
	Path jsondoc.Pointer
}

func NewRemoveOp(path jsondoc.Pointer) *RemoveOp {
	return &RemoveOp{Path: path}
}

func (op *RemoveOp) Op() Op { return Remove }

func (op *RemoveOp) Apply(root *jsondoc.Value) error {
	if !op.Path.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPointer, op.Path)
	}
	if op.Path.IsRoot() {
		*root = nil
		return nil
	}
	if *root == nil {
		return ErrEmptyDocument
	}
	return takeActionOn(*root, op.Path, removeAction{})
}

func (op *RemoveOp) Object() *jsondoc.Object {
	return opObject(Remove, op.Path, nil, nil)
}

// ReplaceOp replaces the existing value at Path.
type ReplaceOp struct {
	Path  jsondoc.Pointer
	Value jsondoc.Value
}

func NewReplaceOp(path jsondoc.Pointer, value jsondoc.Value) *ReplaceOp {
	return &ReplaceOp{Path: path, Value: value}
}

func (op *ReplaceOp) Op() Op { return Replace }

func (op *ReplaceOp) Apply(root *jsondoc.Value) error {
	if !op.Path.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPointer, op.Path)
	}
	if op.Path.IsRoot() {
		*root = cloneOrNil(op.Value)
		return nil
	}
	if *root == nil {
		return ErrEmptyDocument
	}
	if op.Value == nil {
		return ErrMissingValue
	}
	return takeActionOn(*root, op.Path, replaceAction{value: op.Value.Clone()})
}

func (op *ReplaceOp) Object() *jsondoc.Object {
	return opObject(Replace, op.Path, nil, op.Value)
}

// MoveOp removes the value at From and adds it at Path.
type MoveOp struct {
	From jsondoc.Pointer
	Path jsondoc.Pointer
}

func NewMoveOp(from, path jsondoc.Pointer) *MoveOp {
	return &MoveOp{From: from, Path: path}
}

func (op *MoveOp) Op() Op { return Move }

func (op *MoveOp) Apply(root *jsondoc.Value) error {
	if !op.From.IsValid() || !op.Path.IsValid() {
		return ErrInvalidPointer
	}
	if op.From.Equal(op.Path) {
		return nil
	}
	if op.From.IsPrefixOf(op.Path) {
		return fmt.Errorf("%w: %q to %q", ErrCycle, op.From, op.Path)
	}
	if *root == nil {
		return ErrEmptyDocument
	}
	source, ok := jsondoc.Lookup(*root, op.From)
	if !ok {
		return fmt.Errorf("%w: %q", ErrMissingTarget, op.From)
	}

	// Detach first so array indices in Path refer to the document without the
	// moved element, which may leave Path one past the end.
	if err := takeActionOn(*root, op.From, removeAction{}); err != nil {
		return fmt.Errorf("failed to remove %q: %w", op.From, err)
	}
	if err := add(root, op.Path, source, true); err != nil {
		// put the value back into the slot it was just removed from
		if rerr := add(root, op.From, source, true); rerr != nil {
			return errors.Join(err, fmt.Errorf("failed to restore %q: %w", op.From, rerr))
		}
		return err
	}
	return nil
}

func (op *MoveOp) Object() *jsondoc.Object {
	return opObject(Move, op.Path, &op.From, nil)
}

// CopyOp adds a copy of the value at From at Path.
type CopyOp struct {
	From jsondoc.Pointer
	Path jsondoc.Pointer
}

func NewCopyOp(from, path jsondoc.Pointer) *CopyOp {
	return &CopyOp{From: from, Path: path}
}

func (op *CopyOp) Op() Op { return Copy }

func (op *CopyOp) Apply(root *jsondoc.Value) error {
	if !op.From.IsValid() || !op.Path.IsValid() {
		return ErrInvalidPointer
	}
	if op.From.Equal(op.Path) {
		return nil
	}
	if *root == nil {
		return ErrEmptyDocument
	}
	source, ok := jsondoc.Lookup(*root, op.From)
	if !ok {
		return fmt.Errorf("%w: %q", ErrMissingTarget, op.From)
	}
	return add(root, op.Path, source.Clone(), false)
}

func (op *CopyOp) Object() *jsondoc.Object {
	return opObject(Copy, op.Path, &op.From, nil)
}

// TestOp checks that the value at Path equals Value.
type TestOp struct {
	Path  jsondoc.Pointer
	Value jsondoc.Value
}

func NewTestOp(path jsondoc.Pointer, value jsondoc.Value) *TestOp {
	return &TestOp{Path: path, Value: value}
}

func (op *TestOp) Op() Op { return Test }

func (op *TestOp) Apply(root *jsondoc.Value) error {
	if !op.Path.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPointer, op.Path)
	}
	if *root == nil {
		if op.Path.IsRoot() && isNullOrAbsent(op.Value) {
			return nil
		}
		return fmt.Errorf("%w: document is empty", ErrTestFailed)
	}
	actual, ok := jsondoc.Lookup(*root, op.Path)
	if !ok {
		return fmt.Errorf("%w: %q", ErrMissingTarget, op.Path)
	}
	if !jsondoc.Equal(actual, op.Value) {
		return fmt.Errorf("%w: expected %s, got %s", ErrTestFailed, jsondoc.AsString(op.Value), jsondoc.AsString(actual))
	}
	return nil
}

func (op *TestOp) Object() *jsondoc.Object {
	return opObject(Test, op.Path, nil, op.Value)
}

// add inserts value, which the caller hands over, at target. atEnd allows a
// numeric array index equal to the array length.
func add(root *jsondoc.Value, target jsondoc.Pointer, value jsondoc.Value, atEnd bool) error {
	if !target.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPointer, target)
	}
	if target.IsRoot() {
		*root = value
		return nil
	}
	if *root == nil {
		return ErrEmptyDocument
	}
	if value == nil {
		return ErrMissingValue
	}
	return takeActionOn(*root, target, addAction{value: value, atEnd: atEnd})
}

func cloneOrNil(v jsondoc.Value) jsondoc.Value {
	if v == nil {
		return nil
	}
	return v.Clone()
}

func isNullOrAbsent(v jsondoc.Value) bool {
	if v == nil {
		return true
	}
	_, ok := v.(jsondoc.Null)
	return ok
}

func opObject(op Op, path jsondoc.Pointer, from *jsondoc.Pointer, value jsondoc.Value) *jsondoc.Object {
	o := jsondoc.NewObject()
	o.Add("op", jsondoc.String(op))
	o.Add("path", jsondoc.String(path.String()))
	if from != nil {
		o.Add("from", jsondoc.String(from.String()))
	}
	if value != nil {
		o.Add("value", value.Clone())
	}
	return o
}
