package cache

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Kind tags the variant held by a Value.
type Kind int

const (
	KindString Kind = iota
	KindInteger
	KindFloat
	KindBytes
	KindHash
	KindList
	KindSet
)

// containerOverhead is the fixed per-container accounting term added to
// Hash/List/Set memory usage, standing in for the base allocation cost a
// map/slice header carries beyond its elements.
const containerOverhead = 48

// Value is a tagged union over the seven datatypes the cache can store.
// Exactly one payload field is meaningful, selected by Kind.
type Value struct {
	kind  Kind
	str   string
	i     int64
	f     float64
	bytes []byte
	hash  map[string]Value
	list  []Value
	set   map[string]struct{}
}

// NewString constructs a String value.
func NewString(s string) Value { return Value{kind: KindString, str: s} }

// NewInteger constructs an Integer value.
func NewInteger(i int64) Value { return Value{kind: KindInteger, i: i} }

// NewFloat constructs a Float value.
func NewFloat(f float64) Value { return Value{kind: KindFloat, f: f} }

// NewBytes constructs a Bytes value. The slice is copied so the Value owns
// its storage independently of the caller's buffer.
func NewBytes(b []byte) Value {
	cp := make([]byte, len(b))
	copy(cp, b)
	return Value{kind: KindBytes, bytes: cp}
}

// NewHash constructs a Hash value from a string-keyed map of Values.
func NewHash(h map[string]Value) Value {
	cp := make(map[string]Value, len(h))
	for k, v := range h {
		cp[k] = v
	}
	return Value{kind: KindHash, hash: cp}
}

// NewList constructs a List value from an ordered sequence of Values.
func NewList(l []Value) Value {
	cp := make([]Value, len(l))
	copy(cp, l)
	return Value{kind: KindList, list: cp}
}

// NewSet constructs a Set value from a collection of unique strings.
func NewSet(members []string) Value {
	s := make(map[string]struct{}, len(members))
	for _, m := range members {
		s[m] = struct{}{}
	}
	return Value{kind: KindSet, set: s}
}

// Kind reports the variant this Value holds.
func (v Value) Kind() Kind { return v.kind }

// TypeName reports the canonical lowercase name of the variant:
// string|integer|float|bytes|hash|list|set.
func (v Value) TypeName() string {
	switch v.kind {
	case KindString:
		return "string"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindBytes:
		return "bytes"
	case KindHash:
		return "hash"
	case KindList:
		return "list"
	case KindSet:
		return "set"
	default:
		return "unknown"
	}
}

// MemoryUsage is the best-effort sum of heap-held payload bytes. String and
// Bytes variants are accounted by length (Go strings/slices created here
// carry no extra capacity beyond what NewBytes copied); container variants
// recurse and add containerOverhead.
func (v Value) MemoryUsage() int {
	switch v.kind {
	case KindString:
		return len(v.str)
	case KindInteger:
		return 8
	case KindFloat:
		return 8
	case KindBytes:
		return len(v.bytes)
	case KindHash:
		size := containerOverhead
		for k, e := range v.hash {
			size += len(k) + e.MemoryUsage()
		}
		return size
	case KindList:
		size := containerOverhead
		for _, e := range v.list {
			size += e.MemoryUsage()
		}
		return size
	case KindSet:
		size := containerOverhead
		for m := range v.set {
			size += len(m)
		}
		return size
	default:
		return 0
	}
}

// String implements fmt.Stringer, giving the display form used by the
// executor's Value/KeyInfo responses.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindInteger:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindBytes:
		return fmt.Sprintf("<%d bytes>", len(v.bytes))
	case KindHash:
		return fmt.Sprintf("<hash with %d fields>", len(v.hash))
	case KindList:
		return fmt.Sprintf("<list with %d items>", len(v.list))
	case KindSet:
		if len(v.set) <= 8 {
			return fmt.Sprintf("<set: %s>", v.setMarshalString())
		}
		return fmt.Sprintf("<set with %d members>", len(v.set))
	default:
		return ""
	}
}

// Clone returns an independent copy; container variants are deep-copied.
func (v Value) Clone() Value {
	switch v.kind {
	case KindHash:
		cp := make(map[string]Value, len(v.hash))
		for k, e := range v.hash {
			cp[k] = e.Clone()
		}
		return Value{kind: KindHash, hash: cp}
	case KindList:
		cp := make([]Value, len(v.list))
		for i, e := range v.list {
			cp[i] = e.Clone()
		}
		return Value{kind: KindList, list: cp}
	case KindSet:
		cp := make(map[string]struct{}, len(v.set))
		for m := range v.set {
			cp[m] = struct{}{}
		}
		return Value{kind: KindSet, set: cp}
	case KindBytes:
		cp := make([]byte, len(v.bytes))
		copy(cp, v.bytes)
		return Value{kind: KindBytes, bytes: cp}
	default:
		return v
	}
}

// Equal reports structural equality between two Values.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.str == other.str
	case KindInteger:
		return v.i == other.i
	case KindFloat:
		return v.f == other.f
	case KindBytes:
		if len(v.bytes) != len(other.bytes) {
			return false
		}
		for i := range v.bytes {
			if v.bytes[i] != other.bytes[i] {
				return false
			}
		}
		return true
	case KindHash:
		if len(v.hash) != len(other.hash) {
			return false
		}
		for k, e := range v.hash {
			oe, ok := other.hash[k]
			if !ok || !e.Equal(oe) {
				return false
			}
		}
		return true
	case KindList:
		if len(v.list) != len(other.list) {
			return false
		}
		for i, e := range v.list {
			if !e.Equal(other.list[i]) {
				return false
			}
		}
		return true
	case KindSet:
		if len(v.set) != len(other.set) {
			return false
		}
		for m := range v.set {
			if _, ok := other.set[m]; !ok {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// StringValue returns the payload for KindString; ok is false otherwise.
func (v Value) StringValue() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.str, true
}

// IntegerValue returns the payload for KindInteger; ok is false otherwise.
func (v Value) IntegerValue() (int64, bool) {
	if v.kind != KindInteger {
		return 0, false
	}
	return v.i, true
}

// FloatValue returns the payload for KindFloat; ok is false otherwise.
func (v Value) FloatValue() (float64, bool) {
	if v.kind != KindFloat {
		return 0, false
	}
	return v.f, true
}

// BytesValue returns the payload for KindBytes; ok is false otherwise.
func (v Value) BytesValue() ([]byte, bool) {
	if v.kind != KindBytes {
		return nil, false
	}
	return v.bytes, true
}

// HashValue returns the payload for KindHash; ok is false otherwise.
func (v Value) HashValue() (map[string]Value, bool) {
	if v.kind != KindHash {
		return nil, false
	}
	return v.hash, true
}

// ListValue returns the payload for KindList; ok is false otherwise.
func (v Value) ListValue() ([]Value, bool) {
	if v.kind != KindList {
		return nil, false
	}
	return v.list, true
}

// SetValue returns the payload for KindSet as a sorted slice for
// deterministic iteration; ok is false otherwise.
func (v Value) SetValue() ([]string, bool) {
	if v.kind != KindSet {
		return nil, false
	}
	out := make([]string, 0, len(v.set))
	for m := range v.set {
		out = append(out, m)
	}
	sort.Strings(out)
	return out, true
}

// setMarshalString joins set members deterministically; used by String()
// callers that want a stable textual form beyond the summary above.
func (v Value) setMarshalString() string {
	members, _ := v.SetValue()
	return strings.Join(members, ",")
}
