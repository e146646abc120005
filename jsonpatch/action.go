package jsonpatch

import (
	"fmt"

	"github.com/agentflare-ai/jsondoc"
)

// action is the per-operation part of add, remove and replace. The parent
// resolution they share lives in takeActionOn.
type action interface {
	object(o *jsondoc.Object, key string) error
	arrayIndex(a *jsondoc.Array, index int) error
	// arrayLast is called for the "-" token.
	arrayLast(a *jsondoc.Array) error
}

func takeActionOn(root jsondoc.Value, target jsondoc.Pointer, act action) error {
	parentPath := target.Parent()
	parent, ok := jsondoc.Lookup(root, parentPath)
	if !ok {
		return fmt.Errorf("%w: %q", ErrMissingParent, parentPath)
	}
	key := target.LastToken()

	switch p := parent.(type) {
	case *jsondoc.Object:
		return act.object(p, key)
	case *jsondoc.Array:
		if key == jsondoc.AppendToken {
			return act.arrayLast(p)
		}
		index, ok := jsondoc.ParseArrayIndex(key)
		if !ok {
			return fmt.Errorf("%w: %q", ErrInvalidIndex, key)
		}
		return act.arrayIndex(p, index)
	}
	return fmt.Errorf("%w: %q is a %s", ErrNotContainer, parentPath, parent.Kind())
}

type addAction struct {
	value jsondoc.Value
	// atEnd accepts an index equal to the array length.
	atEnd bool
}

func (a addAction) object(o *jsondoc.Object, key string) error {
	o.Add(key, a.value)
	return nil
}

// arrayIndex inserts before an existing element. Appending needs the "-"
// token unless atEnd is set.
func (a addAction) arrayIndex(arr *jsondoc.Array, index int) error {
	if (index == arr.Len() && !a.atEnd) || !arr.InsertAt(index, a.value) {
		return fmt.Errorf("%w: %d is beyond the end of an array of length %d", ErrIndexOutOfRange, index, arr.Len())
	}
	return nil
}

func (a addAction) arrayLast(arr *jsondoc.Array) error {
	arr.Append(a.value)
	return nil
}

type removeAction struct{}

func (removeAction) object(o *jsondoc.Object, key string) error {
	if !o.Remove(key) {
		return fmt.Errorf("%w: key %q", ErrMissingTarget, key)
	}
	return nil
}

func (removeAction) arrayIndex(arr *jsondoc.Array, index int) error {
	if !arr.RemoveAt(index) {
		return fmt.Errorf("%w: %d in an array of length %d", ErrIndexOutOfRange, index, arr.Len())
	}
	return nil
}

func (removeAction) arrayLast(arr *jsondoc.Array) error {
	if arr.IsEmpty() {
		return fmt.Errorf("%w: array is empty", ErrIndexOutOfRange)
	}
	arr.RemoveAt(arr.Len() - 1)
	return nil
}

type replaceAction struct {
	value jsondoc.Value
}

func (r replaceAction) object(o *jsondoc.Object, key string) error {
	if !o.Replace(key, r.value) {
		return fmt.Errorf("%w: key %q", ErrMissingTarget, key)
	}
	return nil
}

func (r replaceAction) arrayIndex(arr *jsondoc.Array, index int) error {
	if !arr.ReplaceAt(index, r.value) {
		return fmt.Errorf("%w: %d in an array of length %d", ErrIndexOutOfRange, index, arr.Len())
	}
	return nil
}

func (r replaceAction) arrayLast(arr *jsondoc.Array) error {
	if arr.IsEmpty() {
		return fmt.Errorf("%w: array is empty", ErrIndexOutOfRange)
	}
	arr.ReplaceAt(arr.Len()-1, r.value)
	return nil
}
