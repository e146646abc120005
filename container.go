package jsondoc

import (
	"iter"
	"maps"
	"slices"
)

// Object is a JSON object. Keys are unique; adding an existing key replaces
// its value. Members are iterated in ascending key order.
type Object struct {
	members map[string]Value
}

// NewObject returns an empty Object.
func NewObject() *Object {
	return &Object{members: make(map[string]Value)}
}

func (o *Object) Kind() Kind { return KindObject }

func (o *Object) Clone() Value {
	c := &Object{members: make(map[string]Value, len(o.members))}
	for k, v := range o.members {
		c.members[k] = v.Clone()
	}
	return c
}

func (o *Object) Accept(v Visitor) { v.VisitObject(o) }

func (*Object) isValue() {}

// Add sets key to value, replacing and releasing any previous value.
func (o *Object) Add(key string, value Value) {
	if o.members == nil {
		o.members = make(map[string]Value)
	}
	o.members[key] = value
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (Value, bool) {
	v, ok := o.members[key]
	return v, ok
}

// Replace sets key to value only if key is already present.
func (o *Object) Replace(key string, value Value) bool {
	if _, ok := o.members[key]; !ok {
		return false
	}
	o.members[key] = value
	return true
}

// Remove deletes key and reports whether it was present.
func (o *Object) Remove(key string) bool {
	if _, ok := o.members[key]; !ok {
		return false
	}
	delete(o.members, key)
	return true
}

// Len returns the number of members.
func (o *Object) Len() int { return len(o.members) }

// IsEmpty reports whether the object has no members.
func (o *Object) IsEmpty() bool { return len(o.members) == 0 }

// Keys returns the member keys in iteration order.
func (o *Object) Keys() []string {
	return slices.Sorted(maps.Keys(o.members))
}

// Members iterates over the members in key order.
func (o *Object) Members() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for _, k := range o.Keys() {
			if !yield(k, o.members[k]) {
				return
			}
		}
	}
}

// VisitProperties calls visitor once per member, in key order.
func (o *Object) VisitProperties(visitor ObjectPropertyVisitor) {
	for k, v := range o.Members() {
		visitor.VisitProperty(k, v)
	}
}

// Array is an ordered JSON array. It tracks whether any element is an Object
// or an Array, which decides how the writer lays it out.
type Array struct {
	elements []Value
	complex  bool
}

// NewArray returns an Array holding elements.
func NewArray(elements ...Value) *Array {
	a := &Array{elements: make([]Value, 0, len(elements))}
	for _, e := range elements {
		a.Append(e)
	}
	return a
}

func (a *Array) Kind() Kind { return KindArray }

func (a *Array) Clone() Value {
	c := &Array{elements: make([]Value, len(a.elements)), complex: a.complex}
	for i, e := range a.elements {
		c.elements[i] = e.Clone()
	}
	return c
}

func (a *Array) Accept(v Visitor) { v.VisitArray(a) }

func (*Array) isValue() {}

// Append adds value to the end of the array.
func (a *Array) Append(value Value) {
	a.elements = append(a.elements, value)
	if IsContainer(value) {
		a.complex = true
	}
}

// InsertAt inserts value before index, shifting later elements. index may
// equal Len, which appends.
func (a *Array) InsertAt(index int, value Value) bool {
	if index < 0 || index > len(a.elements) {
		return false
	}
	a.elements = slices.Insert(a.elements, index, value)
	if IsContainer(value) {
		a.complex = true
	}
	return true
}

// ReplaceAt replaces the element at index.
func (a *Array) ReplaceAt(index int, value Value) bool {
	if index < 0 || index >= len(a.elements) {
		return false
	}
	old := a.elements[index]
	a.elements[index] = value
	switch {
	case IsContainer(value):
		a.complex = true
	case IsContainer(old):
		a.updateComplex()
	}
	return true
}

// RemoveAt deletes the element at index, shifting later elements.
func (a *Array) RemoveAt(index int) bool {
	if index < 0 || index >= len(a.elements) {
		return false
	}
	old := a.elements[index]
	a.elements = slices.Delete(a.elements, index, index+1)
	if IsContainer(old) {
		a.updateComplex()
	}
	return true
}

// At returns the element at index.
func (a *Array) At(index int) (Value, bool) {
	if index < 0 || index >= len(a.elements) {
		return nil, false
	}
	return a.elements[index], true
}

// Len returns the number of elements.
func (a *Array) Len() int { return len(a.elements) }

// IsEmpty reports whether the array has no elements.
func (a *Array) IsEmpty() bool { return len(a.elements) == 0 }

// IsComplex reports whether at least one element is an Object or an Array.
func (a *Array) IsComplex() bool { return a.complex }

// Elements iterates over the elements in order.
func (a *Array) Elements() iter.Seq2[int, Value] {
	return slices.All(a.elements)
}

func (a *Array) updateComplex() {
	a.complex = slices.ContainsFunc(a.elements, IsContainer)
}
