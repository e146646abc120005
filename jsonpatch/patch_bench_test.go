package jsonpatch_test

import (
	"encoding/json"
	"testing"

	"github.com/agentflare-ai/jsondoc"
	"github.com/agentflare-ai/jsondoc/jsonpatch"
)

var baseDoc = `{
	"foo": "bar",
	"baz": ["qux", "quux"],
	"a": {
		"b": {
			"c": "hello"
		}
	},
	"d": null
}`

const combinedDoc = `{
	"metadata": {
		"id": "12345",
		"version": 1.0,
		"tags": ["alpha", "beta"]
	},
	"data": {
		"items": [
			{"name": "item1", "value": 100},
			{"name": "item2", "value": 200}
		]
	}
}`

const combinedPatch = `[
	{"op": "replace", "path": "/metadata/version", "value": 1.1},
	{"op": "add", "path": "/data/items/1", "value": {"name": "item1.5", "value": 150}},
	{"op": "remove", "path": "/metadata/tags"},
	{"op": "test", "path": "/data/items/0/name", "value": "item1"},
	{"op": "copy", "from": "/data/items/2", "path": "/data/items/0/copy"},
	{"op": "move", "from": "/data/items/0", "path": "/data/items/1"}
]`

func runBenchmark(b *testing.B, docStr string, patchStr string) {
	var doc any
	if err := json.Unmarshal([]byte(docStr), &doc); err != nil {
		b.Fatalf("Failed to unmarshal document: %v", err)
	}

	var patch jsonpatch.Patch
	if err := json.Unmarshal([]byte(patchStr), &patch); err != nil {
		b.Fatalf("Failed to unmarshal patch: %v", err)
	}

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, err := jsonpatch.Apply(doc, patch)
		if err != nil {
			b.Fatalf("Apply failed: %v", err)
		}
	}
}

func BenchmarkAdd_Object(b *testing.B) {
	runBenchmark(b, baseDoc, `[{"op": "add", "path": "/foo2", "value": "bar2"}]`)
}

func BenchmarkAdd_Array(b *testing.B) {
	runBenchmark(b, baseDoc, `[{"op": "add", "path": "/baz/1", "value": "new"}]`)
}

func BenchmarkRemove_Object(b *testing.B) {
	runBenchmark(b, baseDoc, `[{"op": "remove", "path": "/foo"}]`)
}

func BenchmarkRemove_Array(b *testing.B) {
	runBenchmark(b, baseDoc, `[{"op": "remove", "path": "/baz/0"}]`)
}

func BenchmarkReplace_Simple(b *testing.B) {
	runBenchmark(b, baseDoc, `[{"op": "replace", "path": "/foo", "value": "baz"}]`)
}

func BenchmarkReplace_Nested(b *testing.B) {
	runBenchmark(b, baseDoc, `[{"op": "replace", "path": "/a/b/c", "value": "world"}]`)
}

func BenchmarkMove(b *testing.B) {
	runBenchmark(b, baseDoc, `[{"op": "move", "from": "/foo", "path": "/foo2"}]`)
}

func BenchmarkCopy(b *testing.B) {
	runBenchmark(b, baseDoc, `[{"op": "copy", "from": "/a/b", "path": "/a/d"}]`)
}

func BenchmarkTest_Success(b *testing.B) {
	runBenchmark(b, baseDoc, `[{"op": "test", "path": "/foo", "value": "bar"}]`)
}

func BenchmarkTest_Failure(b *testing.B) {
	var doc any
	if err := json.Unmarshal([]byte(baseDoc), &doc); err != nil {
		b.Fatalf("Failed to unmarshal document: %v", err)
	}

	var patch jsonpatch.Patch
	patchStr := `[{"op": "test", "path": "/foo", "value": "wrong"}]`
	if err := json.Unmarshal([]byte(patchStr), &patch); err != nil {
		b.Fatalf("Failed to unmarshal patch: %v", err)
	}

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, err := jsonpatch.Apply(doc, patch)
		if err == nil {
			b.Fatalf("Expected an error but got none")
		}
	}
}

func BenchmarkCombinedOperations_Copy(b *testing.B) {
	runBenchmark(b, combinedDoc, combinedPatch)
}

// BenchmarkCombinedOperations_Set applies a parsed set to a fresh copy of a
// parsed tree, skipping the conversion from Go values.
func BenchmarkCombinedOperations_Set(b *testing.B) {
	doc, err := jsondoc.Parse(combinedDoc)
	if err != nil {
		b.Fatalf("Failed to parse document: %v", err)
	}
	set, err := jsonpatch.ParseSet(combinedPatch)
	if err != nil {
		b.Fatalf("Failed to parse patch: %v", err)
	}

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		work := doc.Clone()
		if err := set.Apply(&work); err != nil {
			b.Fatalf("Apply failed: %v", err)
		}
	}
}

func BenchmarkParseSet(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := jsonpatch.ParseSet(combinedPatch); err != nil {
			b.Fatalf("ParseSet failed: %v", err)
		}
	}
}
