package query

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

// Key addresses one cache slot. It is an ordered tuple, usually a resource
// name followed by an optional id. Keys compare structurally: numeric ids and
// their decimal string form ("42" and 42) address the same slot.
type Key []any

// K builds a Key.
func K(parts ...any) Key {
	return Key(parts)
}

// String renders the key as its elements joined by ':', e.g. "todo:3".
func (k Key) String() string {
	parts := make([]string, len(k))
	for i, v := range k {
		parts[i] = fmt.Sprint(normalize(v))
	}
	return strings.Join(parts, ":")
}

// Equal reports whether k and other address the same slot.
func (k Key) Equal(other Key) bool {
	return len(k) == len(other) && k.HasPrefix(other)
}

// HasPrefix reports whether the first len(prefix) elements of k equal prefix.
// An empty prefix matches every key.
func (k Key) HasPrefix(prefix Key) bool {
	if len(prefix) > len(k) {
		return false
	}
	for i := range prefix {
		if !bytes.Equal(encode(normalize(k[i])), encode(normalize(prefix[i]))) {
			return false
		}
	}
	return true
}

// hash returns the canonical encoding used as the map key and the
// singleflight key.
func (k Key) hash() string {
	norm := make([]any, len(k))
	for i, v := range k {
		norm[i] = normalize(v)
	}
	return string(encode(norm))
}

func normalize(v any) any {
	switch x := v.(type) {
	case int:
		return int64(x)
	case int8:
		return int64(x)
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case int64:
		return x
	case uint:
		return int64(x)
	case uint8:
		return int64(x)
	case uint16:
		return int64(x)
	case uint32:
		return int64(x)
	case uint64:
		if x <= math.MaxInt64 {
			return int64(x)
		}
	case float32:
		if f := float64(x); f == math.Trunc(f) && math.Abs(f) < 1<<53 {
			return int64(f)
		}
	case float64:
		if x == math.Trunc(x) && math.Abs(x) < 1<<53 {
			return int64(x)
		}
	case string:
		if n, err := strconv.ParseInt(x, 10, 64); err == nil && strconv.FormatInt(n, 10) == x {
			return n
		}
	}
	return v
}

// encode is a deterministic msgpack encoding: map keys are sorted so equal
// values always produce equal bytes. Values msgpack cannot encode fall back
// to their printed form.
func encode(v any) []byte {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(v); err != nil {
		return []byte(fmt.Sprintf("%T:%v", v, v))
	}
	return buf.Bytes()
}
