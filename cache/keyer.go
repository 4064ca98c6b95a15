package cache

import (
	"bytes"
	"cmp"
	"crypto/sha256"
	"encoding"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"
)

// KeyFunc derives a fingerprint from a call's argument.
//
// Contract:
// - Determinism: the same argument must produce the same fingerprint. The
//   dispatcher does not check this; Clear relies on it.
// - Errors: a returned error fails the call before the store is touched.
type KeyFunc[A any] func(arg A) (string, error)

// FallbackSeparator joins elements in the degraded fingerprint used when an
// argument cannot be encoded as JSON.
const FallbackSeparator = "\x1f"

// MaxPlainKeyLength is the longest fingerprint Hashed leaves untouched.
const MaxPlainKeyLength = 128

// DefaultKey fingerprints arg as canonical JSON: map keys sorted, slice and
// struct field order preserved. It never fails.
//
// Arguments JSON would encode lossily or not at all take the structural
// path instead: structs with unexported fields (JSON drops them), channels,
// funcs, complex numbers, NaN and reference cycles. Each element of a slice
// or array argument is rendered with its type and values, unexported fields
// included, and the elements are joined by FallbackSeparator. A reference
// met again while it is still being rendered is written as its type and
// address, so cyclic arguments are fingerprinted by identity.
//
// Structural fingerprints of channels, funcs and cycles depend on addresses
// and are stable only for the same values. Supply a KeyFunc when equal
// arguments of those kinds must share an entry.
func DefaultKey[A any](arg A) (string, error) {
	v := reflect.ValueOf(arg)
	if !hasHiddenFields(v, make(map[visit]bool)) {
		if data, err := canonicalize(arg); err == nil {
			return string(data), nil
		}
	}
	return fallbackKey(v), nil
}

// canonicalize encodes v as compact JSON without HTML escaping.
// encoding/json sorts map keys, which makes the output deterministic.
func canonicalize(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func fallbackKey(v reflect.Value) string {
	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		var b strings.Builder
		render(&b, v, make(map[visit]bool))
		return b.String()
	}

	parts := make([]string, v.Len())
	for i := range parts {
		var b strings.Builder
		render(&b, v.Index(i), make(map[visit]bool))
		parts[i] = b.String()
	}
	return strings.Join(parts, FallbackSeparator)
}

// visit identifies a map, slice or pointer on the current rendering path.
type visit struct {
	ptr uintptr
	typ reflect.Type
	len int
}

func visitOf(v reflect.Value) (visit, bool) {
	switch v.Kind() {
	case reflect.Map, reflect.Pointer:
		if v.IsNil() {
			return visit{}, false
		}
		return visit{ptr: v.Pointer(), typ: v.Type()}, true
	case reflect.Slice:
		if v.IsNil() || v.Len() == 0 {
			return visit{}, false
		}
		return visit{ptr: v.Pointer(), typ: v.Type(), len: v.Len()}, true
	default:
		return visit{}, false
	}
}

var (
	jsonMarshalerType = reflect.TypeFor[json.Marshaler]()
	textMarshalerType = reflect.TypeFor[encoding.TextMarshaler]()
)

// marshalsItself reports whether JSON encodes t through its own method,
// which makes unexported fields of t irrelevant.
func marshalsItself(t reflect.Type) bool {
	if t.Implements(jsonMarshalerType) || t.Implements(textMarshalerType) {
		return true
	}
	pt := reflect.PointerTo(t)
	return pt.Implements(jsonMarshalerType) || pt.Implements(textMarshalerType)
}

// hasHiddenFields reports whether v holds, at any depth, a struct with an
// unexported field that encoding/json would silently skip.
func hasHiddenFields(v reflect.Value, onPath map[visit]bool) bool {
	if !v.IsValid() {
		return false
	}
	if key, ok := visitOf(v); ok {
		if onPath[key] {
			return false
		}
		onPath[key] = true
		defer delete(onPath, key)
	}

	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return false
		}
		return hasHiddenFields(v.Elem(), onPath)
	case reflect.Struct:
		if marshalsItself(v.Type()) {
			return false
		}
		t := v.Type()
		for i := range t.NumField() {
			f := t.Field(i)
			if !f.IsExported() && !f.Anonymous {
				return true
			}
			if hasHiddenFields(v.Field(i), onPath) {
				return true
			}
		}
		return false
	case reflect.Map:
		iter := v.MapRange()
		for iter.Next() {
			if hasHiddenFields(iter.Key(), onPath) || hasHiddenFields(iter.Value(), onPath) {
				return true
			}
		}
		return false
	case reflect.Slice, reflect.Array:
		for i := range v.Len() {
			if hasHiddenFields(v.Index(i), onPath) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// render writes a structural form of v. It reads unexported fields through
// reflect accessors and never calls Interface, so it works on any field.
func render(b *strings.Builder, v reflect.Value, onPath map[visit]bool) {
	if !v.IsValid() {
		b.WriteString("nil")
		return
	}
	if key, ok := visitOf(v); ok {
		if onPath[key] {
			fmt.Fprintf(b, "<cycle %s@%#x>", v.Type(), key.ptr)
			return
		}
		onPath[key] = true
		defer delete(onPath, key)
	}

	switch v.Kind() {
	case reflect.Bool:
		b.WriteString(strconv.FormatBool(v.Bool()))
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		b.WriteString(strconv.FormatInt(v.Int(), 10))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		b.WriteString(strconv.FormatUint(v.Uint(), 10))
	case reflect.Float32, reflect.Float64:
		b.WriteString(strconv.FormatFloat(v.Float(), 'g', -1, v.Type().Bits()))
	case reflect.Complex64, reflect.Complex128:
		b.WriteString(strconv.FormatComplex(v.Complex(), 'g', -1, v.Type().Bits()))
	case reflect.String:
		b.WriteString(strconv.Quote(v.String()))
	case reflect.Pointer:
		if v.IsNil() {
			b.WriteString("nil")
			return
		}
		b.WriteByte('&')
		render(b, v.Elem(), onPath)
	case reflect.Interface:
		if v.IsNil() {
			b.WriteString("nil")
			return
		}
		render(b, v.Elem(), onPath)
	case reflect.Struct:
		t := v.Type()
		b.WriteString(t.String())
		b.WriteByte('{')
		for i := range t.NumField() {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(t.Field(i).Name)
			b.WriteByte(':')
			render(b, v.Field(i), onPath)
		}
		b.WriteByte('}')
	case reflect.Slice, reflect.Array:
		if v.Kind() == reflect.Slice && v.IsNil() {
			b.WriteString("nil")
			return
		}
		b.WriteByte('[')
		for i := range v.Len() {
			if i > 0 {
				b.WriteByte(' ')
			}
			render(b, v.Index(i), onPath)
		}
		b.WriteByte(']')
	case reflect.Map:
		if v.IsNil() {
			b.WriteString("nil")
			return
		}
		renderMap(b, v, onPath)
	default:
		// Chan, Func, UnsafePointer: identity is all there is.
		fmt.Fprintf(b, "%s(%#x)", v.Type(), v.Pointer())
	}
}

// renderMap writes map entries sorted by their rendered keys.
func renderMap(b *strings.Builder, v reflect.Value, onPath map[visit]bool) {
	type pair struct{ key, val string }
	pairs := make([]pair, 0, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		var kb, vb strings.Builder
		render(&kb, iter.Key(), onPath)
		render(&vb, iter.Value(), onPath)
		pairs = append(pairs, pair{kb.String(), vb.String()})
	}
	slices.SortFunc(pairs, func(a, b pair) int {
		return cmp.Or(strings.Compare(a.key, b.key), strings.Compare(a.val, b.val))
	})

	b.WriteString("map[")
	for i, p := range pairs {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(p.key)
		b.WriteByte(':')
		b.WriteString(p.val)
	}
	b.WriteByte(']')
}

// Hashed wraps kf so fingerprints longer than MaxPlainKeyLength are replaced
// by "sha256:" and the hex digest. Short fingerprints stay readable in Stats.
func Hashed[A any](kf KeyFunc[A]) KeyFunc[A] {
	return func(arg A) (string, error) {
		key, err := kf(arg)
		if err != nil || len(key) <= MaxPlainKeyLength {
			return key, err
		}
		sum := sha256.Sum256([]byte(key))
		return "sha256:" + hex.EncodeToString(sum[:]), nil
	}
}
