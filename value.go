// Package strictjson implements a strict RFC 8259 JSON parser/serializer and
// a JSONPath query engine over a single in-memory document model.
package strictjson

import "sort"

// Kind identifies which variant of the JSON value union a Value currently
// holds.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindLong
	KindFloat
	KindDouble
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindLong:
		return "long"
	case KindFloat:
		return "float"
	case KindDouble:
		return "double"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// member is one key/value pair of an Object value. Objects keep members
// sorted by key so that iteration is always byte-wise ascending, per the
// data model invariant in spec.md §3.
type member struct {
	key string
	val *Value
}

// Value is the tagged union at the root of the document model (component
// C1). It is a single struct with a kind tag and typed payload fields,
// mirroring the arena-friendly Value struct in blastbao-fastjson/parser.go
// and the tag+payload Result struct in dhawalhost-nqjson/nqjson_get.go,
// rather than an interface{}-based sum type: this keeps a freshly
// constructed Value (or one pulled from a pool) allocation-free for
// scalars.
//
// A Value is not safe for concurrent mutation; see the concurrency model
// in spec.md §5.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f32  float32
	f64  float64
	s    string
	arr  []*Value
	obj  []member
}

// Null returns a new Null value.
func Null() *Value { return &Value{kind: KindNull} }

// Bool returns a new Bool value.
func Bool(b bool) *Value { return &Value{kind: KindBool, b: b} }

// Long returns a new exact 64-bit signed integer value.
func Long(i int64) *Value { return &Value{kind: KindLong, i: i} }

// Float returns a new 32-bit float value. Float is never produced by the
// parser (spec.md §3 invariant 5); it exists only for programmatic
// construction.
func Float(f float32) *Value { return &Value{kind: KindFloat, f32: f} }

// Double returns a new 64-bit float value.
func Double(f float64) *Value { return &Value{kind: KindDouble, f64: f} }

// String returns a new String value. s must already be valid UTF-8;
// callers that cannot guarantee this should go through Parse instead.
func String(s string) *Value { return &Value{kind: KindString, s: s} }

// Array returns a new, empty Array value.
func Array() *Value { return &Value{kind: KindArray} }

// Object returns a new, empty Object value.
func Object() *Value { return &Value{kind: KindObject} }

// Kind reports which variant v currently holds.
func (v *Value) Kind() Kind { return v.kind }

func (v *Value) IsNull() bool   { return v.kind == KindNull }
func (v *Value) IsBool() bool   { return v.kind == KindBool }
func (v *Value) IsString() bool { return v.kind == KindString }
func (v *Value) IsArray() bool  { return v.kind == KindArray }
func (v *Value) IsObject() bool { return v.kind == KindObject }

// IsNumber reports whether v is any of the three number tags (Long, Float,
// Double); they are distinct tags but share the "number" type predicate
// per spec.md §3.
func (v *Value) IsNumber() bool {
	return v.kind == KindLong || v.kind == KindFloat || v.kind == KindDouble
}

// BoolValue returns the Bool payload. It is a programmer error to call
// this on a non-Bool value (spec.md §7: type-access errors are
// unchecked preconditions, never a parse status).
func (v *Value) BoolValue() bool {
	if v.kind != KindBool {
		panic("strictjson: BoolValue on non-bool Value (kind=" + v.kind.String() + ")")
	}
	return v.b
}

// LongValue returns the exact int64 payload of a Long value.
func (v *Value) LongValue() int64 {
	if v.kind != KindLong {
		panic("strictjson: LongValue on non-long Value (kind=" + v.kind.String() + ")")
	}
	return v.i
}

// Float64 returns v's numeric payload as a float64 regardless of which of
// the three number tags it carries. It panics if v is not a number.
func (v *Value) Float64() float64 {
	switch v.kind {
	case KindLong:
		return float64(v.i)
	case KindFloat:
		return float64(v.f32)
	case KindDouble:
		return v.f64
	default:
		panic("strictjson: Float64 on non-number Value (kind=" + v.kind.String() + ")")
	}
}

// StringValue returns the String payload.
func (v *Value) StringValue() string {
	if v.kind != KindString {
		panic("strictjson: StringValue on non-string Value (kind=" + v.kind.String() + ")")
	}
	return v.s
}

// Len reports the number of elements (Array) or members (Object) in v. It
// is zero for every other kind.
func (v *Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.arr)
	case KindObject:
		return len(v.obj)
	default:
		return 0
	}
}

// ArrayItems returns the backing slice of an Array value in order. The
// caller must not retain it past further mutation of v.
func (v *Value) ArrayItems() []*Value {
	if v.kind != KindArray {
		return nil
	}
	return v.arr
}

// Keys returns an Object value's keys in their (already sorted) iteration
// order.
func (v *Value) Keys() []string {
	if v.kind != KindObject {
		return nil
	}
	keys := make([]string, len(v.obj))
	for i, m := range v.obj {
		keys[i] = m.key
	}
	return keys
}

// objectIndex returns the index of key within v.obj and whether it was
// found, using binary search since members are kept sorted by key.
func (v *Value) objectIndex(key string) (int, bool) {
	i := sort.Search(len(v.obj), func(i int) bool { return v.obj[i].key >= key })
	if i < len(v.obj) && v.obj[i].key == key {
		return i, true
	}
	return i, false
}

// Get returns the array element at index i, or nil if v is not an Array or
// the index is out of bounds. It never mutates v (contrast SetArrayItem).
func (v *Value) Get(i int) *Value {
	if v.kind != KindArray || i < 0 || i >= len(v.arr) {
		return nil
	}
	return v.arr[i]
}

// GetKey returns the object member stored at key, or nil if v is not an
// Object or key is absent.
func (v *Value) GetKey(key string) *Value {
	if v.kind != KindObject {
		return nil
	}
	if i, ok := v.objectIndex(key); ok {
		return v.obj[i].val
	}
	return nil
}

// Exists reports whether v is an Object containing key.
func (v *Value) Exists(key string) bool {
	if v.kind != KindObject {
		return false
	}
	_, ok := v.objectIndex(key)
	return ok
}

// SetArray forces v to become an empty Array, discarding any prior
// payload. It is the explicit conversion named in spec.md §3.
func (v *Value) SetArray() {
	*v = Value{kind: KindArray}
}

// SetObject forces v to become an empty Object, discarding any prior
// payload.
func (v *Value) SetObject() {
	*v = Value{kind: KindObject}
}

// SetArrayItem stores child at index i of v, converting v to an Array
// first if necessary and growing it with Null-filled elements up to
// index i+1 if it is too short (spec.md §3: "indexing a non-container
// forces conversion... resizing with null fill up to index+1").
func (v *Value) SetArrayItem(i int, child *Value) {
	if v.kind != KindArray {
		v.SetArray()
	}
	for len(v.arr) <= i {
		v.arr = append(v.arr, Null())
	}
	v.arr[i] = child
}

// AppendArrayItem appends child to the end of v, converting v to an Array
// first if necessary.
func (v *Value) AppendArrayItem(child *Value) {
	if v.kind != KindArray {
		v.SetArray()
	}
	v.arr = append(v.arr, child)
}

// SetObjectItem stores child at key, converting v to an Object first if
// necessary. Keys are kept unique and sorted; re-inserting an existing key
// overwrites its value in place.
func (v *Value) SetObjectItem(key string, child *Value) {
	if v.kind != KindObject {
		v.SetObject()
	}
	i, ok := v.objectIndex(key)
	if ok {
		v.obj[i].val = child
		return
	}
	v.obj = append(v.obj, member{})
	copy(v.obj[i+1:], v.obj[i:])
	v.obj[i] = member{key: key, val: child}
}

// DeleteKey removes key from an Object value, returning whether it was
// present. It is a no-op (and returns false) for any other kind.
func (v *Value) DeleteKey(key string) bool {
	if v.kind != KindObject {
		return false
	}
	i, ok := v.objectIndex(key)
	if !ok {
		return false
	}
	v.obj = append(v.obj[:i], v.obj[i+1:]...)
	return true
}

// DeleteIndex removes the element at index i from an Array value.
func (v *Value) DeleteIndex(i int) bool {
	if v.kind != KindArray || i < 0 || i >= len(v.arr) {
		return false
	}
	v.arr = append(v.arr[:i], v.arr[i+1:]...)
	return true
}

// Clone returns a deep, independent copy of v (spec.md §3 invariant 3).
func (v *Value) Clone() *Value {
	if v == nil {
		return nil
	}
	out := &Value{kind: v.kind, b: v.b, i: v.i, f32: v.f32, f64: v.f64, s: v.s}
	if v.kind == KindArray {
		out.arr = make([]*Value, len(v.arr))
		for i, e := range v.arr {
			out.arr[i] = e.Clone()
		}
	}
	if v.kind == KindObject {
		out.obj = make([]member, len(v.obj))
		for i, m := range v.obj {
			out.obj[i] = member{key: m.key, val: m.val.Clone()}
		}
	}
	return out
}

// Assign makes v a deep copy of src, the in-place form used by Update
// (spec.md §4.6: "assign new_value by copy to each matched node").
func (v *Value) Assign(src *Value) {
	*v = *src.Clone()
}

// Truthy implements the truthiness rule used by filter expressions
// (spec.md §4.5, glossary "Truthy"): null/false/0/""/[]/{} are false,
// everything else is true.
func (v *Value) Truthy() bool {
	switch v.kind {
	case KindNull:
		return false
	case KindBool:
		return v.b
	case KindLong:
		return v.i != 0
	case KindFloat:
		return v.f32 != 0
	case KindDouble:
		return v.f64 != 0
	case KindString:
		return v.s != ""
	case KindArray:
		return len(v.arr) > 0
	case KindObject:
		return len(v.obj) > 0
	default:
		return false
	}
}

// Equal implements the equality rule used by the filter evaluator's `==`
// operator: same variant and same content, except the three number tags
// are mutually comparable by numeric value.
func (v *Value) Equal(o *Value) bool {
	if v.IsNumber() && o.IsNumber() {
		return v.Float64() == o.Float64()
	}
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == o.b
	case KindString:
		return v.s == o.s
	case KindArray:
		if len(v.arr) != len(o.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(o.arr[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(v.obj) != len(o.obj) {
			return false
		}
		for i := range v.obj {
			if v.obj[i].key != o.obj[i].key || !v.obj[i].val.Equal(o.obj[i].val) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
