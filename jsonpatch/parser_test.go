package jsonpatch_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentflare-ai/jsondoc"
	"github.com/agentflare-ai/jsondoc/jsonpatch"
)

func TestParseSetInvalid(t *testing.T) {
	testCases := []struct {
		input   string
		msg     string
		pointer string
	}{
		{``, "No JSON data found", ""},
		{`{}`, "A JSON Patch document must be an array", ""},
		{`null`, "A JSON Patch document must be an array", ""},
		{`1`, "A JSON Patch document must be an array", ""},
		{`"foo"`, "A JSON Patch document must be an array", ""},
		{`true`, "A JSON Patch document must be an array", ""},
		{`[null]`, "Elements within a JSON Patch array must be objects", "/0"},
		{`[1]`, "Elements within a JSON Patch array must be objects", "/0"},
		{`[1.2]`, "Elements within a JSON Patch array must be objects", "/0"},
		{`["foo"]`, "Elements within a JSON Patch array must be objects", "/0"},
		{`[[]]`, "Elements within a JSON Patch array must be objects", "/0"},
		{`[{}]`, "Missing path specifier", "/0"},
		{`[{"op": "", "path": "/a"}]`, "Invalid or missing 'op'", "/0"},
		{`[{"op": "foo", "path": "/a"}]`, "Invalid or missing 'op'", "/0"},
		{`[{"op": 1, "path": "/a"}]`, "Invalid or missing 'op'", "/0"},
		{`[{"op": "remove", "path": "/a"}, 7]`, "Elements within a JSON Patch array must be objects", "/1"},
		{`[{"op": "remove", "path": "/a"}, {"op": "add", "path": "/b"}]`, "Missing or invalid value", "/1"},
		{`[{"op": "remove" "path": "/a"}]`, "Expected either , or } after an object value", "/0/op"},
		{`[{"op": "remove", "path": "/a"}`, "Unterminated array", "/0"},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			set, err := jsonpatch.ParseSet(tc.input)
			require.Error(t, err)
			require.NotNil(t, set)
			assert.True(t, set.Empty())

			var parseErr *jsonpatch.ParseError
			require.ErrorAs(t, err, &parseErr)
			assert.Equal(t, tc.msg, parseErr.Msg)
			assert.Equal(t, tc.pointer, parseErr.Pointer)
		})
	}
}

func TestParseSetWrapsSyntaxErrors(t *testing.T) {
	_, err := jsonpatch.ParseSet(`[{"op": tru}]`)
	require.Error(t, err)
	assert.True(t, errors.Is(err, jsondoc.ErrSyntax))

	_, err = jsonpatch.ParseSet(`[{}]`)
	require.Error(t, err)
	assert.False(t, errors.Is(err, jsondoc.ErrSyntax))
}

func TestParseSetMissingFields(t *testing.T) {
	testCases := map[string][]string{
		"add": {
			`[{"op": "add"}]`,
			`[{"op": "add", "path": null, "value": {}}]`,
			`[{"op": "add", "path": true, "value": {}}]`,
			`[{"op": "add", "path": 1, "value": {}}]`,
			`[{"op": "add", "path": 1.2, "value": {}}]`,
			`[{"op": "add", "path": {}, "value": {}}]`,
			`[{"op": "add", "path": [], "value": {}}]`,
			`[{"op": "add", "value": {}}]`,
			`[{"op": "add", "path": "/foo"}]`,
		},
		"remove": {
			`[{"op": "remove"}]`,
			`[{"op": "remove", "path": null}]`,
			`[{"op": "remove", "path": true}]`,
			`[{"op": "remove", "path": 1}]`,
			`[{"op": "remove", "path": 1.2}]`,
			`[{"op": "remove", "path": {}}]`,
			`[{"op": "remove", "path": []}]`,
		},
		"replace": {
			`[{"op": "replace"}]`,
			`[{"op": "replace", "path": null, "value": {}}]`,
			`[{"op": "replace", "path": {}, "value": {}}]`,
			`[{"op": "replace", "value": {}}]`,
			`[{"op": "replace", "path": "/foo"}]`,
		},
		"move": {
			`[{"op": "move"}]`,
			`[{"op": "move", "path": null, "from": "/foo"}]`,
			`[{"op": "move", "path": [], "from": "/foo"}]`,
			`[{"op": "move", "from": {}}]`,
			`[{"op": "move", "path": "/foo"}]`,
			`[{"op": "move", "path": "/foo", "from": null}]`,
			`[{"op": "move", "path": "/foo", "from": true}]`,
			`[{"op": "move", "path": "/foo", "from": 1}]`,
			`[{"op": "move", "path": "/foo", "from": []}]`,
			`[{"op": "move", "path": "/foo", "from": {}}]`,
		},
		"copy": {
			`[{"op": "copy"}]`,
			`[{"op": "copy", "path": true, "from": "/foo"}]`,
			`[{"op": "copy", "path": "/foo"}]`,
			`[{"op": "copy", "path": "/foo", "from": null}]`,
			`[{"op": "copy", "path": "/foo", "from": {}}]`,
		},
		"test": {
			`[{"op": "test"}]`,
			`[{"op": "test", "path": 1.2, "value": {}}]`,
			`[{"op": "test", "value": {}}]`,
			`[{"op": "test", "path": "/foo"}]`,
		},
	}

	for op, inputs := range testCases {
		for _, input := range inputs {
			t.Run(op+" "+input, func(t *testing.T) {
				set, err := jsonpatch.ParseSet(input)
				assert.Error(t, err)
				assert.True(t, set.Empty())
			})
		}
	}
}

func TestParseSetValid(t *testing.T) {
	testCases := []struct {
		name     string
		doc      string
		patch    string
		expected string
	}{
		{
			name:     "add",
			doc:      `{}`,
			patch:    `[{"op": "add", "path": "/foo", "value": {}}]`,
			expected: `{"foo": {}}`,
		},
		{
			name:     "add nested value",
			doc:      `{}`,
			patch:    `[{"op": "add", "path": "/foo", "value": [{"foo": [[]]}] }]`,
			expected: `{"foo": [{"foo": [[]]}]}`,
		},
		{
			name:     "add null",
			doc:      `{}`,
			patch:    `[{"op": "add", "path": "/foo", "value": null}]`,
			expected: `{"foo": null}`,
		},
		{
			name:     "value before op",
			doc:      `{}`,
			patch:    `[{"value": {"x": [1, {"y": 2}]}, "path": "/foo", "op": "add"}]`,
			expected: `{"foo": {"x": [1, {"y": 2}]}}`,
		},
		{
			name:     "unknown members are ignored",
			doc:      `{}`,
			patch:    `[{"op": "add", "path": "/foo", "comment": {"a": 1}, "value": 2}]`,
			expected: `{"foo": 2}`,
		},
		{
			name:     "remove",
			doc:      sampleDoc,
			patch:    `[{"op": "remove", "path": "/object"}, {"op": "remove", "path": "/array"}]`,
			expected: `{"foo": "bar", "baz": false}`,
		},
		{
			name:     "replace number",
			doc:      sampleDoc,
			patch:    `[{"op": "replace", "path": "/foo", "value": 42}]`,
			expected: `{"foo": 42, "baz": false, "object": {"bat": 1}, "array": [1,2,3]}`,
		},
		{
			name:     "replace bool",
			doc:      sampleDoc,
			patch:    `[{"op": "replace", "path": "/foo", "value": true}]`,
			expected: `{"foo": true, "baz": false, "object": {"bat": 1}, "array": [1,2,3]}`,
		},
		{
			name:     "replace array",
			doc:      sampleDoc,
			patch:    `[{"op": "replace", "path": "/foo", "value": []}]`,
			expected: `{"foo": [], "baz": false, "object": {"bat": 1}, "array": [1,2,3]}`,
		},
		{
			name:     "move",
			doc:      sampleDoc,
			patch:    `[{"op": "move", "path": "/foo", "from": "/baz"}, {"op": "move", "path": "/bar", "from": "/array/1"}]`,
			expected: `{"foo": false, "bar": 2, "object": {"bat": 1}, "array": [1,3]}`,
		},
		{
			name:     "copy",
			doc:      sampleDoc,
			patch:    `[{"op": "copy", "path": "/foo", "from": "/object/bat"}]`,
			expected: `{"foo": 1, "baz": false, "object": {"bat": 1}, "array": [1,2,3]}`,
		},
		{
			name: "test",
			doc:  sampleDoc,
			patch: `[{"op": "test", "path": "/foo", "value": "bar"},
				{"op": "test", "path": "/array", "value": [1,2,3]},
				{"op": "test", "path": "/object/bat", "value": 1},
				{"op": "test", "path": "/baz", "value": false}]`,
			expected: sampleDoc,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			set, err := jsonpatch.ParseSet(tc.patch)
			require.NoError(t, err)
			require.False(t, set.Empty())

			doc := parseDoc(t, tc.doc)
			require.NoError(t, set.Apply(&doc))
			assertDoc(t, tc.expected, doc)
		})
	}
}

func TestParseSetEmptyList(t *testing.T) {
	set, err := jsonpatch.ParseSet(`[]`)
	require.NoError(t, err)
	assert.True(t, set.Empty())
}

func TestParserReuse(t *testing.T) {
	p := jsonpatch.NewParser(&jsondoc.Config{MaxDepth: 4})

	_, err := p.Parse(`[{"op": "add", "path": "/a", "value": [[[[1]]]]}]`)
	require.Error(t, err)
	assert.ErrorIs(t, err, jsondoc.ErrDepthLimit)

	set, err := p.Parse(`[{"op": "add", "path": "/a", "value": [1]}]`)
	require.NoError(t, err)
	assert.Equal(t, 1, set.Len())
}
