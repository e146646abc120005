package jsonpatch

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/agentflare-ai/jsondoc"
)

// Operation represents a single JSON Patch operation
type Operation struct {
	Op    Op     `json:"op" yaml:"op"`
	Path  string `json:"path" yaml:"path"`
	From  string `json:"from,omitempty" yaml:"from,omitempty"`
	Value any    `json:"value,omitempty" yaml:"value,omitempty"`
}

// Patch represents a collection of JSON Patch operations
type Patch []Operation

// Set converts the patch into a Set. A nil Value is taken to be JSON null,
// which is what encoding/json decodes it to.
func (p Patch) Set() (*Set, error) {
	set := NewSet()
	for i, op := range p {
		patchOp, err := op.patchOp()
		if err != nil {
			return nil, fmt.Errorf("patch operation %d: %w", i, err)
		}
		set.Append(patchOp)
	}
	return set, nil
}

// DecodeYAML decodes a patch written as a YAML sequence of operations, the
// form kustomize style patch files use.
func DecodeYAML(data []byte) (Patch, error) {
	var patch Patch
	if err := yaml.Unmarshal(data, &patch); err != nil {
		return nil, fmt.Errorf("failed to decode YAML patch: %w", err)
	}
	return patch, nil
}

func (op Operation) patchOp() (PatchOp, error) {
	path := jsondoc.ParsePointer(op.Path)
	switch op.Op {
	case Remove:
		return NewRemoveOp(path), nil
	case Move:
		return NewMoveOp(jsondoc.ParsePointer(op.From), path), nil
	case Copy:
		return NewCopyOp(jsondoc.ParsePointer(op.From), path), nil
	case Add, Replace, Test:
	default:
		return nil, fmt.Errorf("unsupported patch operation: %s", op.Op)
	}

	value, err := jsondoc.FromInterface(op.Value)
	if err != nil {
		return nil, fmt.Errorf("invalid value for %s: %w", op.Op, err)
	}
	switch op.Op {
	case Add:
		return NewAddOp(path, value), nil
	case Replace:
		return NewReplaceOp(path, value), nil
	}
	return NewTestOp(path, value), nil
}

// Apply applies a series of JSON Patch operations to a document, returning a new
// modified document. The original document is not changed.
func Apply(document any, patch Patch) (any, error) {
	root, err := jsondoc.FromInterface(document)
	if err != nil {
		return nil, fmt.Errorf("failed to convert document: %w", err)
	}
	if err := apply(&root, patch); err != nil {
		return nil, err
	}
	return jsondoc.ToInterface(root)
}

// ApplyStream applies a series of JSON Patch operations to the document read
// from reader and writes the result to writer. Numbers are carried through
// exactly.
func ApplyStream(reader io.Reader, writer io.Writer, patch Patch) error {
	var doc any
	decoder := json.NewDecoder(reader)
	decoder.UseNumber()
	if err := decoder.Decode(&doc); err != nil {
		return fmt.Errorf("failed to decode document: %w", err)
	}

	root, err := jsondoc.FromInterface(doc)
	if err != nil {
		return fmt.Errorf("failed to convert document: %w", err)
	}
	if err := apply(&root, patch); err != nil {
		return err
	}

	if err := jsondoc.NewWriter(writer).Write(root); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	_, err = io.WriteString(writer, "\n")
	return err
}

func apply(root *jsondoc.Value, patch Patch) error {
	set, err := patch.Set()
	if err != nil {
		return err
	}
	return set.Apply(root)
}
