package query

import (
	"bytes"

	"github.com/cespare/xxhash/v2"
	"github.com/vmihailenco/msgpack/v5"
)

// digestOf hashes the msgpack encoding of v. The second value is false when
// v cannot be encoded, in which case every write counts as a change.
func digestOf(v any) (uint64, bool) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetSortMapKeys(true)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(v); err != nil {
		return 0, false
	}
	return xxhash.Sum64(buf.Bytes()), true
}
