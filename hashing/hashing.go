// Package hashing produces stable FNV-64a digests of configuration values
// and lint inputs, used as cache keys.
package hashing

import (
	"fmt"
	"hash/fnv"
	"reflect"
	"slices"
	"strconv"
	"strings"
)

// Hash digests v. Maps hash independently of iteration order, nil pointers
// and empty values contribute nothing, and unexported struct fields are
// ignored.
func Hash(v any) string {
	hasher := fnv.New64a()
	_, _ = hasher.Write([]byte(toHashableString(v)))
	return formatHash(hasher.Sum64())
}

// Fingerprint digests one lint input: the source text, the language version
// and the linter scope (frontend, build and resolved rule configuration).
func Fingerprint(src []byte, languageVersion string, config any) string {
	hasher := fnv.New64a()
	_, _ = hasher.Write(src)
	_, _ = hasher.Write([]byte{0})
	_, _ = hasher.Write([]byte(languageVersion))
	_, _ = hasher.Write([]byte{0})
	_, _ = hasher.Write([]byte(toHashableString(config)))
	return formatHash(hasher.Sum64())
}

// formatHash converts a uint64 hash to a zero-padded 16-character hex string
// without the allocation overhead of fmt.Sprintf.
func formatHash(h uint64) string {
	const hexDigits = "0123456789abcdef"
	var buf [16]byte
	for i := 15; i >= 0; i-- {
		buf[i] = hexDigits[h&0xf]
		h >>= 4
	}
	return string(buf[:])
}

func toHashableString(v any) string {
	if v == nil {
		return ""
	}

	var builder strings.Builder

	typ := reflect.TypeOf(v)
	switch typ.Kind() {
	case reflect.Slice, reflect.Array:
		sliceVal := reflect.ValueOf(v)

		if typ.Kind() == reflect.Slice && sliceVal.IsNil() {
			return ""
		}

		for i := 0; i < sliceVal.Len(); i++ {
			builder.WriteString(toHashableString(sliceVal.Index(i).Interface()))
		}
	case reflect.Map:
		mapVal := reflect.ValueOf(v)

		if mapVal.IsNil() {
			return ""
		}

		mapKeys := mapVal.MapKeys()
		// Sort keys for deterministic output
		slices.SortFunc(mapKeys, func(a, b reflect.Value) int {
			return strings.Compare(toHashableString(a.Interface()), toHashableString(b.Interface()))
		})

		for _, key := range mapKeys {
			builder.WriteString(toHashableString(key.Interface()))
			builder.WriteString(toHashableString(mapVal.MapIndex(key).Interface()))
		}
	case reflect.Struct:
		builder.WriteString(structToHashableString(v))
	case reflect.Ptr, reflect.Interface:
		val := reflect.ValueOf(v)
		if val.IsNil() {
			return ""
		}
		if s, ok := v.(fmt.Stringer); ok && typ.Elem().Kind() == reflect.Struct && !hasExportedFields(typ.Elem()) {
			builder.WriteString(s.String())
		} else {
			builder.WriteString(toHashableString(val.Elem().Interface()))
		}
	default:
		switch v := v.(type) {
		case string:
			builder.WriteString(v)
		case int:
			builder.WriteString(strconv.Itoa(v))
		case int64:
			builder.WriteString(strconv.FormatInt(v, 10))
		case float64:
			builder.WriteString(strconv.FormatFloat(v, 'f', -1, 64))
		case bool:
			builder.WriteString(strconv.FormatBool(v))
		case uint64:
			builder.WriteString(strconv.FormatUint(v, 10))
		case fmt.Stringer:
			builder.WriteString(v.String())
		default:
			builder.WriteString(fmt.Sprintf("%v", v))
		}
	}

	return builder.String()
}

func hasExportedFields(typ reflect.Type) bool {
	for i := 0; i < typ.NumField(); i++ {
		if typ.Field(i).IsExported() {
			return true
		}
	}
	return false
}

func structToHashableString(v any) string {
	var builder strings.Builder

	structVal := reflect.ValueOf(v)
	structType := structVal.Type()

	for i := 0; i < structVal.NumField(); i++ {
		fieldType := structType.Field(i)
		if !fieldType.IsExported() || fieldType.Tag.Get("hash") == "-" {
			continue
		}

		val := toHashableString(structVal.Field(i).Interface())
		if val == "" {
			continue
		}

		builder.WriteString(fieldType.Name)
		builder.WriteString(val)
	}

	return builder.String()
}
