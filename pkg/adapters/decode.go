package adapters

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/samber/lo"
)

// ErrMalformedPayload is returned when the top-level shape of a payload is
// wrong. Malformed individual entries never produce it; they are dropped.
var ErrMalformedPayload = errors.New("malformed payload")

// Parsed holds the entries that passed validation and the number of entries
// that did not.
type Parsed[T any] struct {
	Records []T
	Dropped int
}

func decodeObject(payload []byte) (map[string]json.RawMessage, error) {
	var entries map[string]json.RawMessage
	if err := json.Unmarshal(payload, &entries); err != nil {
		return nil, fmt.Errorf("%w: expected a JSON object: %v", ErrMalformedPayload, err)
	}
	return entries, nil
}

// decodeEntries decodes every entry on its own, in key order, and maps it
// with fn. Entries failing either step are counted as dropped.
func decodeEntries[R, T any](entries map[string]json.RawMessage, fn func(key string, raw R) (T, bool)) Parsed[T] {
	var out Parsed[T]
	keys := lo.Keys(entries)
	slices.Sort(keys)
	for _, key := range keys {
		var raw R
		if err := json.Unmarshal(entries[key], &raw); err != nil {
			out.Dropped++
			continue
		}
		record, ok := fn(key, raw)
		if !ok {
			out.Dropped++
			continue
		}
		out.Records = append(out.Records, record)
	}
	return out
}
