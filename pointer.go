package jsondoc

import (
	"iter"
	"math"
	"slices"
	"strings"

	"github.com/agentflare-ai/jsonpointer"
)

// AppendToken is the array token that refers to the position one past the
// last element.
const AppendToken = "-"

var tokenEscaper = strings.NewReplacer("~", "~0", "/", "~1")

// Pointer is an RFC 6901 JSON Pointer. The zero value is the valid root
// pointer "".
//
// Besides its real tokens a pointer has an implicit terminal empty token, so
// TokenCount is one more than the number of path segments and
// TokenAt(TokenCount()-1) is always "".
type Pointer struct {
	tokens  []string
	invalid bool
	raw     string
}

// ParsePointer parses path. The empty path is the root pointer. A non-empty
// path that does not start with '/' yields an invalid pointer, as does one
// with a malformed escape sequence.
func ParsePointer(path string) Pointer {
	if path == "" {
		return Pointer{}
	}
	if path[0] != '/' {
		return Pointer{invalid: true, raw: path}
	}
	p, err := jsonpointer.New(path)
	if err != nil {
		return Pointer{invalid: true, raw: path}
	}
	tokens := make([]string, 0, len(p))
	for _, tok := range p {
		tokens = append(tokens, string(tok))
	}
	return Pointer{tokens: tokens}
}

// IsValid reports whether the pointer was parsed from a well formed path.
func (p Pointer) IsValid() bool { return !p.invalid }

// TokenCount returns the number of tokens including the terminal empty token.
func (p Pointer) TokenCount() int { return len(p.tokens) + 1 }

// TokenAt returns the unescaped token at index i, or "" for the terminal token
// and out of range indices.
func (p Pointer) TokenAt(i int) string {
	if i < 0 || i >= len(p.tokens) {
		return ""
	}
	return p.tokens[i]
}

// LastToken returns the final real token, or "" for the root pointer.
func (p Pointer) LastToken() string {
	return p.TokenAt(p.TokenCount() - 2)
}

// IsRoot reports whether p is the valid root pointer.
func (p Pointer) IsRoot() bool { return p.IsValid() && len(p.tokens) == 0 }

// Push appends token to the path.
func (p *Pointer) Push(token string) {
	if p.invalid {
		return
	}
	p.tokens = append(p.tokens[:len(p.tokens):len(p.tokens)], token)
}

// Pop removes the last real token. Popping the root pointer has no effect.
func (p *Pointer) Pop() {
	if p.invalid || len(p.tokens) == 0 {
		return
	}
	p.tokens = p.tokens[:len(p.tokens)-1:len(p.tokens)-1]
}

// Parent returns a copy of p without its last real token.
func (p Pointer) Parent() Pointer {
	p.Pop()
	return p
}

// String returns the escaped path. For an invalid pointer it returns the text
// it was parsed from.
func (p Pointer) String() string {
	if p.invalid {
		return p.raw
	}
	var b strings.Builder
	for _, tok := range p.tokens {
		b.WriteByte('/')
		b.WriteString(tokenEscaper.Replace(tok))
	}
	return b.String()
}

// Equal reports whether p and other are valid and have the same tokens.
func (p Pointer) Equal(other Pointer) bool {
	return p.IsValid() && other.IsValid() && slices.Equal(p.tokens, other.tokens)
}

// IsPrefixOf reports whether the tokens of p are a strict prefix of the
// tokens of other. A pointer is not a prefix of itself.
func (p Pointer) IsPrefixOf(other Pointer) bool {
	if !p.IsValid() || !other.IsValid() {
		return false
	}
	if len(p.tokens) >= len(other.tokens) {
		return false
	}
	return slices.Equal(p.tokens, other.tokens[:len(p.tokens)])
}

// Tokens iterates over the real tokens.
func (p Pointer) Tokens() iter.Seq[string] {
	return slices.Values(p.tokens)
}

// Iterator returns an iterator positioned at the first token.
func (p Pointer) Iterator() *PointerIterator {
	return &PointerIterator{pointer: p}
}

// PointerIterator walks the tokens of a Pointer, including the terminal empty
// token.
type PointerIterator struct {
	pointer Pointer
	index   int
}

// IsValid reports whether the iterator is on a token, counting the terminal.
func (it *PointerIterator) IsValid() bool {
	return it.pointer.IsValid() && it.index < it.pointer.TokenCount()
}

// AtEnd reports whether every real token has been consumed, leaving the
// iterator on the terminal token.
func (it *PointerIterator) AtEnd() bool {
	return it.index+1 == it.pointer.TokenCount()
}

// Token returns the current token.
func (it *PointerIterator) Token() string { return it.pointer.TokenAt(it.index) }

// Index returns the position of the current token.
func (it *PointerIterator) Index() int { return it.index }

// Next advances to the following token.
func (it *PointerIterator) Next() { it.index++ }

// Reset moves the iterator back to the first token.
func (it *PointerIterator) Reset() { it.index = 0 }

// ParseArrayIndex parses an RFC 6901 array index token: "0" or a digit run
// without leading zeros. The append token "-" is not an index.
func ParseArrayIndex(token string) (int, bool) {
	if token == "" || token == AppendToken {
		return 0, false
	}
	if len(token) > 1 && token[0] == '0' {
		return 0, false
	}
	for i := 0; i < len(token); i++ {
		if !isDigit(token[i]) {
			return 0, false
		}
	}
	idx, err := jsonpointer.ParseArrayIndex(token)
	if err != nil || idx > math.MaxInt32 {
		return 0, false
	}
	return int(idx), true
}

// Lookup resolves p against root. Array tokens must be in-range indices; the
// append token never resolves.
func Lookup(root Value, p Pointer) (Value, bool) {
	if root == nil || !p.IsValid() {
		return nil, false
	}
	current := root
	for it := p.Iterator(); !it.AtEnd(); it.Next() {
		token := it.Token()
		switch c := current.(type) {
		case *Object:
			v, ok := c.Get(token)
			if !ok {
				return nil, false
			}
			current = v
		case *Array:
			idx, ok := ParseArrayIndex(token)
			if !ok {
				return nil, false
			}
			v, ok := c.At(idx)
			if !ok {
				return nil, false
			}
			current = v
		default:
			return nil, false
		}
	}
	return current, true
}
