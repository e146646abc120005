package jsonpatch

import (
	"errors"
	"fmt"

	"github.com/agentflare-ai/jsondoc"
)

const (
	errPatchList    = "A JSON Patch document must be an array"
	errPatchElement = "Elements within a JSON Patch array must be objects"
	errMissingPath  = "Missing path specifier"
	errMissingValue = "Missing or invalid value"
	errMissingFrom  = "Missing from specifier"
	errInvalidOp    = "Invalid or missing 'op'"
	errInvalidData  = "Invalid JSON data"
)

const (
	keyOp    = "op"
	keyPath  = "path"
	keyFrom  = "from"
	keyValue = "value"
)

// ParseError describes why a JSON Patch document was rejected.
type ParseError struct {
	Msg     string
	Pointer string // location of the offending patch element
	Err     error  // underlying syntax error, if any
}

func (e *ParseError) Error() string {
	if e.Pointer != "" {
		return fmt.Sprintf("invalid patch document at %q: %s", e.Pointer, e.Msg)
	}
	return "invalid patch document: " + e.Msg
}

func (e *ParseError) Unwrap() error { return e.Err }

type parserState int

const (
	stateTop parserState = iota
	statePatchList
	statePatch
	stateValue
)

// Parser builds a Set from JSON Patch document text. It implements
// jsondoc.Handler and is driven by a jsondoc.Parser.
type Parser struct {
	lexer *jsondoc.Parser

	set     *Set
	state   parserState
	key     string
	depth   int
	builder *jsondoc.TreeBuilder
	tracker *jsondoc.PointerTracker
	err     *ParseError

	op    string
	path  *string
	from  *string
	value jsondoc.Value
}

// NewParser returns a Parser that lexes with cfg. A nil cfg selects the
// jsondoc defaults.
func NewParser(cfg *jsondoc.Config) *Parser {
	return &Parser{lexer: jsondoc.NewParser(cfg)}
}

var defaultParser = NewParser(nil)

// ParseSet parses a JSON Patch document. On failure the returned set is empty
// and the error is a *ParseError.
func ParseSet(input string) (*Set, error) {
	return defaultParser.Parse(input)
}

// Parse parses a JSON Patch document. A Parser must not be used by more than
// one goroutine at a time.
func (p *Parser) Parse(input string) (*Set, error) {
	p.set = NewSet()
	p.err = nil
	p.tracker = jsondoc.NewPointerTracker()
	lexErr := p.lexer.ParseHandler(input, p)
	if p.err == nil && lexErr != nil {
		p.SetError(lexErr.Error())
	}
	if p.err == nil {
		return p.set, nil
	}

	var syntaxErr *jsondoc.SyntaxError
	if errors.As(lexErr, &syntaxErr) && syntaxErr.Msg == p.err.Msg {
		p.err.Pointer = syntaxErr.Pointer
		p.err.Err = lexErr
	}
	return NewSet(), p.err
}

func (p *Parser) Begin() {
	p.state = stateTop
	p.key = ""
	p.depth = 0
	p.builder = jsondoc.NewTreeBuilder()
}

func (p *Parser) End() {
	if p.state != stateTop {
		p.SetError(errInvalidData)
	}
}

func (p *Parser) String(value string) {
	switch p.state {
	case statePatch:
		switch p.key {
		case keyOp:
			p.op = value
		case keyPath:
			p.path = &value
		case keyFrom:
			p.from = &value
		case keyValue:
			p.value = jsondoc.String(value)
		}
	case stateValue:
		p.builder.String(value)
	default:
		p.scalarOutsidePatch()
	}
}

func (p *Parser) Number(value jsondoc.Number) {
	p.scalar(value, func() { p.builder.Number(value) })
}

func (p *Parser) Bool(value bool) {
	p.scalar(jsondoc.Bool(value), func() { p.builder.Bool(value) })
}

func (p *Parser) Null() {
	p.scalar(jsondoc.Null{}, p.builder.Null)
}

// scalar handles a non-string scalar. Only "value" keeps it; "op", "path"
// and "from" must be strings.
func (p *Parser) scalar(v jsondoc.Value, inValue func()) {
	switch p.state {
	case statePatch:
		if p.key == keyValue {
			p.value = v
		}
	case stateValue:
		inValue()
	default:
		p.scalarOutsidePatch()
	}
}

func (p *Parser) scalarOutsidePatch() {
	if p.state == stateTop {
		p.SetError(errPatchList)
		return
	}
	p.tracker.IncrementIndex()
	p.SetError(errPatchElement)
}

func (p *Parser) OpenArray() {
	switch p.state {
	case stateTop:
		p.state = statePatchList
		p.tracker.OpenArray()
	case statePatchList:
		p.tracker.IncrementIndex()
		p.SetError(errPatchElement)
	case statePatch:
		p.enterValue()
		fallthrough
	case stateValue:
		p.depth++
		p.builder.OpenArray()
	}
}

func (p *Parser) CloseArray() {
	switch p.state {
	case statePatchList:
		p.state = stateTop
		p.tracker.CloseArray()
	case stateValue:
		p.builder.CloseArray()
		p.leaveValue()
	}
}

func (p *Parser) OpenObject() {
	switch p.state {
	case stateTop:
		p.SetError(errPatchList)
	case statePatchList:
		p.state = statePatch
		p.tracker.OpenObject()
		p.op = ""
		p.path = nil
		p.from = nil
		p.value = nil
	case statePatch:
		p.enterValue()
		fallthrough
	case stateValue:
		p.depth++
		p.builder.OpenObject()
	}
}

func (p *Parser) ObjectKey(key string) {
	if p.state == stateValue {
		p.builder.ObjectKey(key)
		return
	}
	p.key = key
}

func (p *Parser) CloseObject() {
	switch p.state {
	case statePatch:
		p.state = statePatchList
		p.tracker.CloseObject()
		p.handlePatch()
	case stateValue:
		p.builder.CloseObject()
		p.leaveValue()
	}
}

// SetError records the first error.
func (p *Parser) SetError(msg string) {
	if p.err == nil {
		p.err = &ParseError{Msg: msg, Pointer: p.tracker.Pointer().String()}
	}
}

func (p *Parser) enterValue() {
	p.depth = 0
	p.state = stateValue
	p.builder.Begin()
}

func (p *Parser) leaveValue() {
	p.depth--
	if p.depth > 0 {
		return
	}
	root := p.builder.ClaimRoot()
	if p.key == keyValue {
		p.value = root
	}
	p.state = statePatch
}

func (p *Parser) handlePatch() {
	if p.path == nil {
		p.SetError(errMissingPath)
		return
	}
	path := jsondoc.ParsePointer(*p.path)

	switch Op(p.op) {
	case Add:
		if p.value == nil {
			p.SetError(errMissingValue)
			return
		}
		p.set.Append(NewAddOp(path, p.value))
	case Remove:
		p.set.Append(NewRemoveOp(path))
	case Replace:
		if p.value == nil {
			p.SetError(errMissingValue)
			return
		}
		p.set.Append(NewReplaceOp(path, p.value))
	case Move:
		if p.from == nil {
			p.SetError(errMissingFrom)
			return
		}
		p.set.Append(NewMoveOp(jsondoc.ParsePointer(*p.from), path))
	case Copy:
		if p.from == nil {
			p.SetError(errMissingFrom)
			return
		}
		p.set.Append(NewCopyOp(jsondoc.ParsePointer(*p.from), path))
	case Test:
		if p.value == nil {
			p.SetError(errMissingValue)
			return
		}
		p.set.Append(NewTestOp(path, p.value))
	default:
		p.SetError(errInvalidOp)
	}
	p.value = nil
}
