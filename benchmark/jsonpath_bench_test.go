package benchmark

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/itchyny/gojq"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/genuineh/strictjson"
)

var pathJSONBytes []byte
var pathJSONParsed *strictjson.Value
var pathJSONAny interface{}
var gojqArrayLen *gojq.Code

func init() {
	pathJSONBytes = []byte(`{"store":{"book":[`)
	for i := 0; i < 500; i++ {
		if i > 0 {
			pathJSONBytes = append(pathJSONBytes, ',')
		}
		item := fmt.Sprintf(`{"category":"fiction","title":"Book %d","price":%d.5}`, i, i%50)
		pathJSONBytes = append(pathJSONBytes, []byte(item)...)
	}
	pathJSONBytes = append(pathJSONBytes, []byte(`]}}`)...)

	pathJSONParsed, _ = strictjson.Parse(pathJSONBytes)
	json.Unmarshal(pathJSONBytes, &pathJSONAny)

	parsed, _ := gojq.Parse(".store.book | length")
	gojqArrayLen, _ = gojq.Compile(parsed)
}

func BenchmarkQuery_Index_STRICTJSON(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		strictjson.Query(pathJSONParsed, "$.store.book[250].title")
	}
}

func BenchmarkQuery_Index_GJSON(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		gjson.GetBytes(pathJSONBytes, "store.book.250.title")
	}
}

func BenchmarkQuery_Filter_STRICTJSON(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		strictjson.Query(pathJSONParsed, "$.store.book[?(@.price < 10)]")
	}
}

func BenchmarkQuery_Filter_GJSON(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		gjson.GetBytes(pathJSONBytes, `store.book.#(price<10)#`)
	}
}

func BenchmarkQuery_ArrayLength_GOJQ(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		iter := gojqArrayLen.Run(pathJSONAny)
		iter.Next()
	}
}

func BenchmarkQueryWith_CachedPath_STRICTJSON(b *testing.B) {
	cache := strictjson.NewPathCache()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		strictjson.QueryWith(cache, pathJSONParsed, "$.store.book[250].title")
	}
}

func BenchmarkUpdate_Index_STRICTJSON(b *testing.B) {
	b.ReportAllocs()
	replacement := strictjson.String("updated")
	for i := 0; i < b.N; i++ {
		strictjson.Update(pathJSONParsed, "$.store.book[250].title", replacement)
	}
}

func BenchmarkUpdate_Index_SJSON(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		sjson.SetBytes(pathJSONBytes, "store.book.250.title", "updated")
	}
}
