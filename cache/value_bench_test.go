package cache

import (
	"strconv"
	"testing"
)

// valueBenchCases mirrors the representative variant/size matrix the
// original memory-usage benchmarks covered: every Value kind, each at
// a small and a large size.
func valueBenchCases() map[string]Value {
	hashSmall := map[string]Value{"key1": NewString("value1")}
	hashLarge := make(map[string]Value, 100)
	for i := 0; i < 100; i++ {
		hashLarge["key"+strconv.Itoa(i)] = NewString("value" + strconv.Itoa(i))
	}

	listSmall := []Value{NewInteger(1), NewInteger(2), NewInteger(3)}
	listLarge := make([]Value, 100)
	for i := range listLarge {
		listLarge[i] = NewInteger(int64(i))
	}

	setSmall := make([]string, 5)
	for i := range setSmall {
		setSmall[i] = "member" + strconv.Itoa(i)
	}
	setLarge := make([]string, 100)
	for i := range setLarge {
		setLarge[i] = "member" + strconv.Itoa(i)
	}

	return map[string]Value{
		"String_Small": NewString("hello world"),
		"String_Large": NewString(string(make([]byte, 10_000))),
		"Integer":      NewInteger(12345),
		"Float":        NewFloat(123.45),
		"Bytes_Small":  NewBytes(make([]byte, 100)),
		"Bytes_Large":  NewBytes(make([]byte, 10_000)),
		"Hash_Small":   NewHash(hashSmall),
		"Hash_Large":   NewHash(hashLarge),
		"List_Small":   NewList(listSmall),
		"List_Large":   NewList(listLarge),
		"Set_Small":    NewSet(setSmall),
		"Set_Large":    NewSet(setLarge),
	}
}

// BenchmarkValue_MemoryUsage reports the cost of computing MemoryUsage
// for each Value kind at representative sizes.
func BenchmarkValue_MemoryUsage(b *testing.B) {
	for name, v := range valueBenchCases() {
		v := v
		b.Run(name, func(b *testing.B) {
			b.ReportAllocs()
			var sink int
			for i := 0; i < b.N; i++ {
				sink = v.MemoryUsage()
			}
			_ = sink
		})
	}
}

// BenchmarkCache_ScalingByValueKind fills a fresh Cache with num_items
// copies of one Value kind and measures the per-Set cost, tracking how
// memory accounting scales with item count across kinds.
func BenchmarkCache_ScalingByValueKind(b *testing.B) {
	cases := map[string]Value{
		"String":  NewString("test_value"),
		"Integer": NewInteger(12345),
		"Hash":    NewHash(map[string]Value{"key": NewString("value")}),
	}

	for name, v := range cases {
		v := v
		for _, numItems := range []int{100, 1000, 5000} {
			numItems := numItems
			b.Run(name+"_"+strconv.Itoa(numItems)+"_items", func(b *testing.B) {
				b.ReportAllocs()
				for i := 0; i < b.N; i++ {
					c := New(DefaultConfig())
					for j := 0; j < numItems; j++ {
						_, _ = c.Set("key_"+strconv.Itoa(j), v, SetOptions{})
					}
					_ = c.MemoryUsage()
				}
			})
		}
	}
}
