package jsondoc

import "strconv"

type trackerFrame struct {
	array  bool
	index  int
	pushed bool
}

// PointerTracker maintains the JSON Pointer of the value currently being
// processed while a stream of parse events is consumed.
//
// Inside an array, IncrementIndex must be called before each scalar element;
// opening a nested container advances the index itself. Calls that do not
// match the current container are ignored.
type PointerTracker struct {
	pointer Pointer
	stack   []trackerFrame
}

// NewPointerTracker returns a tracker positioned at the root.
func NewPointerTracker() *PointerTracker {
	return &PointerTracker{}
}

// Pointer returns the current location.
func (t *PointerTracker) Pointer() Pointer { return t.pointer }

// OpenObject records the start of an object.
func (t *PointerTracker) OpenObject() {
	t.IncrementIndex()
	t.stack = append(t.stack, trackerFrame{index: -1})
}

// OpenArray records the start of an array.
func (t *PointerTracker) OpenArray() {
	t.IncrementIndex()
	t.stack = append(t.stack, trackerFrame{array: true, index: -1})
}

// SetProperty records the key of the object member about to be processed.
func (t *PointerTracker) SetProperty(key string) {
	top := t.top()
	if top == nil || top.array {
		return
	}
	if top.pushed {
		t.pointer.Pop()
	}
	t.pointer.Push(key)
	top.pushed = true
}

// IncrementIndex advances to the next array element.
func (t *PointerTracker) IncrementIndex() {
	top := t.top()
	if top == nil || !top.array {
		return
	}
	if top.pushed {
		t.pointer.Pop()
	}
	top.index++
	t.pointer.Push(strconv.Itoa(top.index))
	top.pushed = true
}

// CloseObject records the end of an object.
func (t *PointerTracker) CloseObject() { t.close(false) }

// CloseArray records the end of an array.
func (t *PointerTracker) CloseArray() { t.close(true) }

func (t *PointerTracker) close(array bool) {
	top := t.top()
	if top == nil || top.array != array {
		return
	}
	if top.pushed {
		t.pointer.Pop()
	}
	t.stack = t.stack[:len(t.stack)-1]
}

func (t *PointerTracker) top() *trackerFrame {
	if len(t.stack) == 0 {
		return nil
	}
	return &t.stack[len(t.stack)-1]
}
