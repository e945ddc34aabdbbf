// Package benchmark compares strictjson against the ecosystem libraries
// the retrieval pack pulled in, the same role dhawalhost-nqjson's own
// benchmark module plays against its peers.
package benchmark

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/Jeffail/gabs/v2"
	"github.com/tidwall/gjson"
	"github.com/valyala/fastjson"

	"github.com/genuineh/strictjson"
)

var smallJSON = []byte(`{"name":"John","age":30,"city":"New York"}`)

var mediumJSON = []byte(`{
  "name": "John Smith",
  "age": 35,
  "address": {
    "street": "123 Main St",
    "city": "San Francisco",
    "state": "CA",
    "zip": "94103"
  },
  "phones": [
    {"type": "home", "number": "555-1234"},
    {"type": "work", "number": "555-5678"}
  ],
  "email": "john@example.com",
  "active": true,
  "scores": [95, 87, 92, 78, 85]
}`)

var largeJSON []byte

func init() {
	largeJSON = []byte(`{"items":[`)
	for i := 0; i < 1000; i++ {
		if i > 0 {
			largeJSON = append(largeJSON, ',')
		}
		item := fmt.Sprintf(`{"id":%d,"name":"Item %d","value":%d,"tags":["t%da","t%db"]}`, i, i, i*10, i, i)
		largeJSON = append(largeJSON, []byte(item)...)
	}
	largeJSON = append(largeJSON, []byte(`],"count":1000}`)...)
}

func BenchmarkParse_Small_STRICTJSON(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		strictjson.Parse(smallJSON)
	}
}

func BenchmarkParse_Small_ENCODING_JSON(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		var v interface{}
		json.Unmarshal(smallJSON, &v)
	}
}

func BenchmarkParse_Small_GJSON(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		gjson.ParseBytes(smallJSON)
	}
}

func BenchmarkParse_Small_FASTJSON(b *testing.B) {
	b.ReportAllocs()
	var p fastjson.Parser
	for i := 0; i < b.N; i++ {
		p.ParseBytes(smallJSON)
	}
}

func BenchmarkParse_Small_GABS(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		gabs.ParseJSON(smallJSON)
	}
}

func BenchmarkParse_Medium_STRICTJSON(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		strictjson.Parse(mediumJSON)
	}
}

func BenchmarkParse_Medium_ENCODING_JSON(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		var v interface{}
		json.Unmarshal(mediumJSON, &v)
	}
}

func BenchmarkParse_Medium_GJSON(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		gjson.ParseBytes(mediumJSON)
	}
}

func BenchmarkParse_Large_STRICTJSON(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		strictjson.Parse(largeJSON)
	}
}

func BenchmarkParse_Large_GJSON(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		gjson.ParseBytes(largeJSON)
	}
}

func BenchmarkParse_Large_FASTJSON(b *testing.B) {
	b.ReportAllocs()
	var p fastjson.Parser
	for i := 0; i < b.N; i++ {
		p.ParseBytes(largeJSON)
	}
}

func BenchmarkSerialize_Medium_STRICTJSON(b *testing.B) {
	v, _ := strictjson.Parse(mediumJSON)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = v.String()
	}
}

func BenchmarkSerialize_Medium_ENCODING_JSON(b *testing.B) {
	var v interface{}
	json.Unmarshal(mediumJSON, &v)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		json.Marshal(v)
	}
}
