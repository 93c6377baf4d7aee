package storage

import (
	"reflect"
	"unsafe"
)

// DeepCopier lets a shared-memory seed supply its own clone, bypassing
// the reflection fallback below.
type DeepCopier interface {
	DeepCopy() any
}

// SharedMemory wraps a per-workgroup shared-memory seed. One instance is
// cloned per workgroup by the dispatcher: the clone must
// traverse nested slices/maps/pointers so workgroups observe independent
// shared state — a shallow copy would let two workgroups corrupt each
// other through a shared pointer.
type SharedMemory struct {
	Seed any
}

// Empty is the zero-sized placeholder used when a dispatch passes no
// shared-memory seed.
var Empty = SharedMemory{}

// Clone deep-copies the seed for one workgroup slot.
func (s SharedMemory) Clone() SharedMemory {
	if s.Seed == nil {
		return SharedMemory{}
	}
	if dc, ok := s.Seed.(DeepCopier); ok {
		return SharedMemory{Seed: dc.DeepCopy()}
	}
	return SharedMemory{Seed: deepCopy(reflect.ValueOf(s.Seed)).Interface()}
}

// deepCopy recursively clones slices, arrays, maps, pointers and structs
// so that two workgroup slots sharing a seed never alias mutable storage.
// Scalar kinds are copied by value already, which is why this is the
// reflection fallback only nested reference types need.
func deepCopy(v reflect.Value) reflect.Value {
	switch v.Kind() {
	case reflect.Ptr:
		if v.IsNil() {
			return v
		}
		out := reflect.New(v.Type().Elem())
		out.Elem().Set(deepCopy(v.Elem()))
		return out
	case reflect.Slice:
		if v.IsNil() {
			return v
		}
		out := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		for i := 0; i < v.Len(); i++ {
			out.Index(i).Set(deepCopy(v.Index(i)))
		}
		return out
	case reflect.Array:
		out := reflect.New(v.Type()).Elem()
		for i := 0; i < v.Len(); i++ {
			out.Index(i).Set(deepCopy(v.Index(i)))
		}
		return out
	case reflect.Map:
		if v.IsNil() {
			return v
		}
		out := reflect.MakeMapWithSize(v.Type(), v.Len())
		iter := v.MapRange()
		for iter.Next() {
			out.SetMapIndex(deepCopy(iter.Key()), deepCopy(iter.Value()))
		}
		return out
	case reflect.Struct:
		if !v.CanAddr() {
			tmp := reflect.New(v.Type()).Elem()
			tmp.Set(v)
			v = tmp
		}
		out := reflect.New(v.Type()).Elem()
		for i := 0; i < v.NumField(); i++ {
			src := reflect.NewAt(v.Field(i).Type(), unsafe.Pointer(v.Field(i).UnsafeAddr())).Elem()
			dst := reflect.NewAt(out.Field(i).Type(), unsafe.Pointer(out.Field(i).UnsafeAddr())).Elem()
			dst.Set(deepCopy(src))
		}
		return out
	case reflect.Interface:
		if v.IsNil() {
			return v
		}
		out := reflect.New(v.Type()).Elem()
		out.Set(deepCopy(v.Elem()))
		return out
	default:
		return v
	}
}
