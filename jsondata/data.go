// Package jsondata holds a JSON document that only changes through whole,
// validated updates.
package jsondata

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/agentflare-ai/jsondoc"
	"github.com/agentflare-ai/jsondoc/jsonpatch"
)

// ErrSchemaViolation is returned when a new document fails schema validation.
var ErrSchemaViolation = errors.New("document does not match the schema")

// Schema decides whether a document is acceptable.
type Schema interface {
	IsValid(v jsondoc.Value) bool
}

// ValidatorSchema adapts a visitor based validator to Schema. The function
// must return a fresh validator on every call.
type ValidatorSchema func() jsondoc.Validator

func (f ValidatorSchema) IsValid(v jsondoc.Value) bool {
	validator := f()
	jsondoc.Accept(v, validator)
	return validator.IsValid()
}

// Option configures a Data.
type Option func(*Data)

// WithSchema validates every new document against schema. The schema must
// remain usable for the lifetime of the Data.
func WithSchema(schema Schema) Option {
	return func(d *Data) { d.schema = schema }
}

// WithLogger sets the logger used to report rejected updates.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Data) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// Data owns a document. Updates either fully succeed or leave the document
// as it was. It is safe for concurrent use.
type Data struct {
	mu     sync.RWMutex
	root   jsondoc.Value
	schema Schema
	logger *slog.Logger
}

// New returns a Data holding root, which may be nil for an absent document.
// The initial document is not validated.
func New(root jsondoc.Value, opts ...Option) *Data {
	d := &Data{
		root:   root,
		logger: slog.Default().With("component", "jsondata"),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Value returns a copy of the document, or nil if it is absent.
func (d *Data) Value() jsondoc.Value {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.root == nil {
		return nil
	}
	return d.root.Clone()
}

// SetValue replaces the document with v after validating it. Data takes
// ownership of v only on success.
func (d *Data) SetValue(v jsondoc.Value) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.isValid(v) {
		d.logger.Warn("rejected document", slog.String("reason", "schema violation"))
		return ErrSchemaViolation
	}
	d.root = v
	d.logger.Debug("document replaced")
	return nil
}

// Apply applies set to a copy of the document and keeps the result only if
// every operation succeeded and the schema accepts it. A nil set is empty.
func (d *Data) Apply(set *jsonpatch.Set) error {
	if set == nil {
		set = jsonpatch.NewSet()
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	var work jsondoc.Value
	if d.root != nil {
		work = d.root.Clone()
	}
	if err := set.Apply(&work); err != nil {
		d.logger.Info("patch rejected",
			slog.Int("operations", set.Len()),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to apply patch: %w", err)
	}
	if !d.isValid(work) {
		d.logger.Warn("patch rejected",
			slog.Int("operations", set.Len()),
			slog.String("reason", "schema violation"),
		)
		return ErrSchemaViolation
	}
	d.root = work
	d.logger.Debug("patch applied", slog.Int("operations", set.Len()))
	return nil
}

// String returns the document text, or "" when the document is absent.
func (d *Data) String() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return jsondoc.AsString(d.root)
}

// isValid reports whether v may become the document. An absent document is
// always valid.
func (d *Data) isValid(v jsondoc.Value) bool {
	if d.schema == nil || v == nil {
		return true
	}
	return d.schema.IsValid(v)
}
