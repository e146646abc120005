package jsondoc_test

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentflare-ai/jsondoc"
)

func TestParsePointer(t *testing.T) {
	testCases := []struct {
		name   string
		path   string
		valid  bool
		tokens []string
	}{
		{name: "root", path: "", valid: true},
		{name: "slash", path: "/", valid: true, tokens: []string{""}},
		{name: "single", path: "/foo", valid: true, tokens: []string{"foo"}},
		{name: "nested", path: "/foo/0/bar", valid: true, tokens: []string{"foo", "0", "bar"}},
		{name: "escaped slash", path: "/a~1b", valid: true, tokens: []string{"a/b"}},
		{name: "escaped tilde", path: "/m~0n", valid: true, tokens: []string{"m~n"}},
		{name: "escape order", path: "/~01", valid: true, tokens: []string{"~1"}},
		{name: "empty segments", path: "//", valid: true, tokens: []string{"", ""}},
		{name: "append", path: "/foo/-", valid: true, tokens: []string{"foo", "-"}},
		{name: "no leading slash", path: "foo", valid: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := jsondoc.ParsePointer(tc.path)
			require.Equal(t, tc.valid, p.IsValid())
			if !tc.valid {
				assert.False(t, p.IsRoot())
				assert.Equal(t, tc.path, p.String())
				return
			}
			assert.Equal(t, len(tc.tokens)+1, p.TokenCount())
			assert.Equal(t, tc.tokens, nilIfEmpty(slices.Collect(p.Tokens())))
			assert.Equal(t, "", p.TokenAt(p.TokenCount()-1))
			assert.Equal(t, tc.path, p.String())
			assert.Equal(t, len(tc.tokens) == 0, p.IsRoot())
		})
	}
}

func nilIfEmpty(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return s
}

func TestPointerZeroValueIsRoot(t *testing.T) {
	var p jsondoc.Pointer
	assert.True(t, p.IsValid())
	assert.True(t, p.IsRoot())
	assert.Equal(t, 1, p.TokenCount())
	assert.Equal(t, "", p.String())
	assert.True(t, p.Equal(jsondoc.ParsePointer("")))
}

func TestPointerPushPop(t *testing.T) {
	p := jsondoc.ParsePointer("/foo")
	p.Push("a/b")
	p.Push("~")
	assert.Equal(t, "/foo/a~1b/~0", p.String())
	assert.Equal(t, "~", p.LastToken())

	p.Pop()
	assert.Equal(t, "/foo/a~1b", p.String())
	assert.Equal(t, "/foo", p.Parent().String())
	assert.Equal(t, "/foo/a~1b", p.String())

	p.Pop()
	p.Pop()
	p.Pop()
	assert.True(t, p.IsRoot())

	base := jsondoc.ParsePointer("/x")
	child1 := base
	child1.Push("1")
	child2 := base
	child2.Push("2")
	assert.Equal(t, "/x/1", child1.String())
	assert.Equal(t, "/x/2", child2.String())
}

func TestPointerPrefixAndEqual(t *testing.T) {
	testCases := []struct {
		a, b   string
		prefix bool
		equal  bool
	}{
		{a: "", b: "/a", prefix: true},
		{a: "/a", b: "/a/b", prefix: true},
		{a: "/a", b: "/a", equal: true},
		{a: "/a/b", b: "/a"},
		{a: "/a", b: "/ab"},
		{a: "/a", b: "/b/a"},
		{a: "/a~1b", b: "/a/b"},
		{a: "", b: "", equal: true},
	}

	for _, tc := range testCases {
		a := jsondoc.ParsePointer(tc.a)
		b := jsondoc.ParsePointer(tc.b)
		assert.Equal(t, tc.prefix, a.IsPrefixOf(b), "%q prefix of %q", tc.a, tc.b)
		assert.Equal(t, tc.equal, a.Equal(b), "%q equal %q", tc.a, tc.b)
	}

	invalid := jsondoc.ParsePointer("x")
	assert.False(t, invalid.Equal(invalid))
	assert.False(t, invalid.IsPrefixOf(jsondoc.ParsePointer("/a")))
}

func TestPointerIterator(t *testing.T) {
	p := jsondoc.ParsePointer("/a/b")
	it := p.Iterator()

	var tokens []string
	for ; !it.AtEnd(); it.Next() {
		require.True(t, it.IsValid())
		tokens = append(tokens, it.Token())
	}
	assert.Equal(t, []string{"a", "b"}, tokens)
	assert.True(t, it.IsValid())
	assert.Equal(t, 2, it.Index())
	assert.Equal(t, "", it.Token())

	it.Next()
	assert.False(t, it.IsValid())

	it.Reset()
	assert.Equal(t, "a", it.Token())
	assert.False(t, it.AtEnd())

	assert.True(t, jsondoc.ParsePointer("").Iterator().AtEnd())
	assert.False(t, jsondoc.ParsePointer("x").Iterator().IsValid())
}

func TestParseArrayIndex(t *testing.T) {
	testCases := []struct {
		token string
		index int
		ok    bool
	}{
		{"0", 0, true},
		{"12", 12, true},
		{"-", 0, false},
		{"", 0, false},
		{"-1", 0, false},
		{"01", 0, false},
		{"1a", 0, false},
		{"99999999999", 0, false},
		{"2147483647", 2147483647, true},
		{"2147483648", 0, false},
		{"~1", 0, false},
	}
	for _, tc := range testCases {
		t.Run(tc.token, func(t *testing.T) {
			idx, ok := jsondoc.ParseArrayIndex(tc.token)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, tc.index, idx)
			}
		})
	}
}

func TestLookup(t *testing.T) {
	root := mustParse(t, `{"foo": ["bar", "baz"], "": 0, "a/b": 1, "m~n": 8, "obj": {"k": null}}`)

	testCases := []struct {
		path     string
		expected string
		found    bool
	}{
		{path: "", expected: jsondoc.AsString(root), found: true},
		{path: "/foo", expected: `["bar", "baz"]`, found: true},
		{path: "/foo/0", expected: `"bar"`, found: true},
		{path: "/foo/1", expected: `"baz"`, found: true},
		{path: "/", expected: "0", found: true},
		{path: "/a~1b", expected: "1", found: true},
		{path: "/m~0n", expected: "8", found: true},
		{path: "/obj/k", expected: "null", found: true},
		{path: "/foo/2"},
		{path: "/foo/-"},
		{path: "/foo/bar"},
		{path: "/missing"},
		{path: "/foo/0/x"},
		{path: "foo"},
	}

	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			v, ok := jsondoc.Lookup(root, jsondoc.ParsePointer(tc.path))
			require.Equal(t, tc.found, ok)
			if ok {
				assert.Equal(t, tc.expected, jsondoc.AsString(v))
			}
		})
	}

	_, ok := jsondoc.Lookup(nil, jsondoc.ParsePointer(""))
	assert.False(t, ok)
}
