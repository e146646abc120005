package jsondoc

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
)

// DefaultMaxDepth is the default limit on nested arrays and objects.
const DefaultMaxDepth = 1000

var (
	// ErrSyntax is matched by every error returned for malformed input.
	ErrSyntax = errors.New("jsondoc: syntax error")
	// ErrUnicodeEscape is returned for \u escapes, which are not decoded.
	ErrUnicodeEscape = errors.New("jsondoc: unicode escape sequences are not supported")
	// ErrDepthLimit is returned when nesting exceeds Config.MaxDepth.
	ErrDepthLimit = errors.New("jsondoc: maximum nesting depth exceeded")
)

// SyntaxError describes the first problem found in malformed input.
type SyntaxError struct {
	Msg     string // human readable reason
	Offset  int    // byte offset where the problem was detected
	Pointer string // JSON Pointer of the value being parsed
	Err     error  // specific cause, if any
}

func (e *SyntaxError) Error() string {
	if e.Pointer != "" {
		return fmt.Sprintf("jsondoc: %s at offset %d (pointer %q)", e.Msg, e.Offset, e.Pointer)
	}
	return fmt.Sprintf("jsondoc: %s at offset %d", e.Msg, e.Offset)
}

func (e *SyntaxError) Unwrap() error { return e.Err }

// Is matches ErrSyntax as well as the specific cause.
func (e *SyntaxError) Is(target error) bool {
	return target == ErrSyntax
}

// Config controls a Parser.
type Config struct {
	// MaxDepth limits the nesting of arrays and objects.
	MaxDepth int
	// Logger receives debug records about rejected input. Nil discards them.
	Logger *slog.Logger
}

// DefaultConfig returns the default parser configuration.
func DefaultConfig() *Config {
	return &Config{
		MaxDepth: DefaultMaxDepth,
	}
}

// Parser converts JSON text into parse events or a Value tree. A Parser holds
// no per-parse state and may be shared.
type Parser struct {
	maxDepth int
	logger   *slog.Logger
}

// NewParser returns a Parser for cfg. A nil cfg or a non-positive MaxDepth
// selects the defaults.
func NewParser(cfg *Config) *Parser {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	p := &Parser{maxDepth: cfg.MaxDepth, logger: cfg.Logger}
	if p.maxDepth <= 0 {
		p.maxDepth = DefaultMaxDepth
	}
	if p.logger == nil {
		p.logger = slog.New(slog.DiscardHandler)
	}
	return p
}

var defaultParser = NewParser(nil)

// Parse parses input, which must hold exactly one JSON value, with the default
// configuration.
func Parse(input string) (Value, error) {
	return defaultParser.Parse(input)
}

// ParseHandler scans input with the default configuration, feeding h.
func ParseHandler(input string, h Handler) error {
	return defaultParser.ParseHandler(input, h)
}

// Parse parses input into a Value tree. No value is returned on error.
func (p *Parser) Parse(input string) (Value, error) {
	b := NewTreeBuilder()
	if err := p.ParseHandler(input, b); err != nil {
		return nil, err
	}
	root := b.ClaimRoot()
	if root == nil {
		return nil, &SyntaxError{Msg: b.Err(), Offset: len(input)}
	}
	return root, nil
}

// ParseHandler scans input, calling the methods of h as tokens are
// recognised. The returned error is a *SyntaxError.
func (p *Parser) ParseHandler(input string, h Handler) error {
	l := &lexer{
		cursor:   cursor{input: input},
		handler:  h,
		maxDepth: p.maxDepth,
		logger:   p.logger,
	}
	if !l.skipWhitespace() {
		l.fail("No JSON data found", nil)
		return l.err
	}
	h.Begin()
	if !l.parseValue() {
		return l.err
	}
	if l.skipWhitespace() {
		l.fail("Unexpected data after JSON value", nil)
		return l.err
	}
	h.End()
	return nil
}

type cursor struct {
	input string
	pos   int
}

func (c *cursor) atEnd() bool { return c.pos >= len(c.input) }

func (c *cursor) peek() byte {
	if c.atEnd() {
		return 0
	}
	return c.input[c.pos]
}

// skipWhitespace moves past insignificant whitespace and reports whether
// input remains.
func (c *cursor) skipWhitespace() bool {
	for !c.atEnd() {
		switch c.input[c.pos] {
		case ' ', '\t', '\r', '\n':
			c.pos++
		default:
			return true
		}
	}
	return false
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

type lexer struct {
	cursor
	handler  Handler
	tracker  PointerTracker
	depth    int
	maxDepth int
	logger   *slog.Logger
	err      *SyntaxError
}

// fail records the first error and reports it to the handler. It always
// returns false.
func (l *lexer) fail(msg string, cause error) bool {
	if l.err != nil {
		return false
	}
	l.err = &SyntaxError{
		Msg:     msg,
		Offset:  l.pos,
		Pointer: l.tracker.Pointer().String(),
		Err:     cause,
	}
	l.logger.Debug("json parse failed",
		slog.String("error", msg),
		slog.Int("offset", l.pos),
		slog.String("pointer", l.err.Pointer),
	)
	l.handler.SetError(msg)
	return false
}

func (l *lexer) parseValue() bool {
	rest := l.input[l.pos:]
	switch c := l.peek(); {
	case c == '"':
		l.pos++
		s, ok := l.parseString()
		if !ok {
			return false
		}
		l.handler.String(s)
		return true
	case strings.HasPrefix(rest, "true"):
		l.pos += len("true")
		l.handler.Bool(true)
		return true
	case strings.HasPrefix(rest, "false"):
		l.pos += len("false")
		l.handler.Bool(false)
		return true
	case strings.HasPrefix(rest, "null"):
		l.pos += len("null")
		l.handler.Null()
		return true
	case c == '-' || isDigit(c):
		return l.parseNumber()
	case c == '[':
		l.pos++
		return l.parseArray()
	case c == '{':
		l.pos++
		return l.parseObject()
	}
	return l.fail("Invalid JSON value", nil)
}

// parseString starts after the opening quote and consumes the closing one.
func (l *lexer) parseString() (string, bool) {
	var b strings.Builder
	for {
		i := l.pos
		for i < len(l.input) {
			c := l.input[i]
			if c == '"' || c == '\\' || c < 0x20 {
				break
			}
			i++
		}
		if i == len(l.input) {
			l.pos = i
			return "", l.fail("Unterminated string", nil)
		}
		b.WriteString(l.input[l.pos:i])
		l.pos = i
		c := l.input[i]
		if c < 0x20 {
			return "", l.fail("Invalid control character in string", nil)
		}
		l.pos++
		if c == '"' {
			return b.String(), true
		}

		if l.atEnd() {
			return "", l.fail("Unterminated string", nil)
		}
		switch e := l.input[l.pos]; e {
		case '"', '\\', '/':
			b.WriteByte(e)
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case 'u':
			return "", l.fail("Unicode escape sequences are not supported", ErrUnicodeEscape)
		default:
			l.logger.Debug("invalid escape character", slog.String("char", string(e)))
			return "", l.fail("Invalid string escape sequence", nil)
		}
		l.pos++
	}
}

func (l *lexer) parseNumber() bool {
	parts, msg := scanNumber(&l.cursor)
	if msg != "" {
		return l.fail(msg, nil)
	}
	if parts.decimal {
		l.handler.Number(NewDouble(parts.rep))
		return true
	}
	n, ok := NewInteger(parts.rep.Negative, parts.rep.Full)
	if !ok {
		return l.fail("Number out of range", nil)
	}
	l.handler.Number(n)
	return true
}

type numberParts struct {
	rep     DoubleRepresentation
	decimal bool
}

// scanNumber consumes <full>[.<fractional>][e<exponent>] with an optional
// leading minus sign. On failure it returns a non-empty message. Each digit
// run must fit in a uint64, so a fraction past 19 significant digits is out
// of range once its digits exceed 2^64-1. So is a scale apd.Decimal cannot
// hold.
func scanNumber(c *cursor) (numberParts, string) {
	var parts numberParts
	if c.peek() == '-' {
		parts.rep.Negative = true
		c.pos++
	}

	switch ch := c.peek(); {
	case ch == '0':
		c.pos++
	case isDigit(ch):
		if !extractDigits(c, &parts.rep.Full, nil) {
			return parts, "Number out of range"
		}
	default:
		return parts, "Invalid number"
	}

	if c.peek() == '.' {
		c.pos++
		if !isDigit(c.peek()) {
			return parts, "Invalid number"
		}
		if !extractDigits(c, &parts.rep.Fractional, &parts.rep.LeadingFractionalZeros) {
			return parts, "Number out of range"
		}
		parts.decimal = true
	}

	if ch := c.peek(); ch == 'e' || ch == 'E' {
		c.pos++
		negative := false
		switch c.peek() {
		case '-':
			negative = true
			c.pos++
		case '+':
			c.pos++
		}
		if !isDigit(c.peek()) {
			return parts, "Invalid number"
		}
		var exponent uint64
		if !extractDigits(c, &exponent, nil) || exponent > math.MaxInt64 {
			return parts, "Number out of range"
		}
		parts.rep.Exponent = int64(exponent)
		if negative {
			parts.rep.Exponent = -parts.rep.Exponent
		}
		parts.decimal = true
	}
	if parts.decimal && !smallScale(parts.rep) {
		if _, ok := NewDouble(parts.rep).decimal(); !ok {
			return parts, "Number out of range"
		}
	}
	return parts, ""
}

// smallScale reports whether rep is well inside apd.Decimal's exponent range.
func smallScale(rep DoubleRepresentation) bool {
	const limit = 1000
	return rep.Exponent > -limit && rep.Exponent < limit && rep.LeadingFractionalZeros < limit
}

// extractDigits consumes a run of digits into v, counting the leading zeros if
// zeros is not nil. It returns false if the value overflows 64 bits.
func extractDigits(c *cursor, v *uint64, zeros *uint32) bool {
	*v = 0
	atStart := true
	var leading uint32
	for isDigit(c.peek()) {
		d := uint64(c.peek() - '0')
		if atStart && d == 0 {
			leading++
		} else {
			atStart = false
		}
		if *v > (math.MaxUint64-d)/10 {
			return false
		}
		*v = *v*10 + d
		c.pos++
	}
	if zeros != nil {
		*zeros = leading
	}
	return true
}

func (l *lexer) open() bool {
	l.depth++
	if l.depth > l.maxDepth {
		return l.fail("Maximum nesting depth exceeded", ErrDepthLimit)
	}
	return true
}

// parseArray starts after the '['.
func (l *lexer) parseArray() bool {
	if !l.open() {
		return false
	}
	if !l.skipWhitespace() {
		return l.fail("Unterminated array", nil)
	}
	l.handler.OpenArray()
	l.tracker.OpenArray()

	if l.peek() == ']' {
		l.pos++
		l.closeArray()
		return true
	}

	for {
		if !l.skipWhitespace() {
			return l.fail("Unterminated array", nil)
		}
		if c := l.peek(); c != '[' && c != '{' {
			l.tracker.IncrementIndex()
		}
		if !l.parseValue() {
			return false
		}
		if !l.skipWhitespace() {
			return l.fail("Unterminated array", nil)
		}
		switch l.peek() {
		case ']':
			l.pos++
			l.closeArray()
			return true
		case ',':
			l.pos++
		default:
			return l.fail("Expected either , or ] after an array element", nil)
		}
	}
}

func (l *lexer) closeArray() {
	l.tracker.CloseArray()
	l.handler.CloseArray()
	l.depth--
}

// parseObject starts after the '{'.
func (l *lexer) parseObject() bool {
	if !l.open() {
		return false
	}
	if !l.skipWhitespace() {
		return l.fail("Unterminated object", nil)
	}
	l.handler.OpenObject()
	l.tracker.OpenObject()

	if l.peek() == '}' {
		l.pos++
		l.closeObject()
		return true
	}

	for {
		if !l.skipWhitespace() {
			return l.fail("Unterminated object", nil)
		}
		if l.peek() != '"' {
			return l.fail("Expected key for object", nil)
		}
		l.pos++
		key, ok := l.parseString()
		if !ok {
			return false
		}
		l.handler.ObjectKey(key)
		l.tracker.SetProperty(key)

		if !l.skipWhitespace() {
			return l.fail("Missing : after key", nil)
		}
		if l.peek() != ':' {
			return l.fail("Incorrect character after key, should be :", nil)
		}
		l.pos++

		if !l.skipWhitespace() {
			return l.fail("Unterminated object", nil)
		}
		if !l.parseValue() {
			return false
		}
		if !l.skipWhitespace() {
			return l.fail("Unterminated object", nil)
		}
		switch l.peek() {
		case '}':
			l.pos++
			l.closeObject()
			return true
		case ',':
			l.pos++
		default:
			return l.fail("Expected either , or } after an object value", nil)
		}
	}
}

func (l *lexer) closeObject() {
	l.tracker.CloseObject()
	l.handler.CloseObject()
	l.depth--
}
