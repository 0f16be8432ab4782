package client

import (
	"encoding/json"
	"fmt"
)

// document is an inbound partial record before it is normalized into one of
// the typed records. Keys keep whatever casing the producer used.
type document map[string]json.RawMessage

func parseDocument(b []byte) (document, error) {
	var d document
	if err := json.Unmarshal(b, &d); err != nil {
		return nil, err
	}
	return d, nil
}

// coalesce returns the first key holding a non-null value.
func (d document) coalesce(keys ...string) (json.RawMessage, bool) {
	for _, k := range keys {
		if raw, ok := d[k]; ok && !isNull(raw) {
			return raw, true
		}
	}
	return nil, false
}

type binding struct {
	keys    []string
	dst     any
	present bool
}

// aliased decodes the first non-null key; null and absent leave dst alone.
func aliased(dst any, keys ...string) binding {
	return binding{keys: keys, dst: dst}
}

// keyed decodes the key whenever it is in the document, null included. It
// is used with optional.Field targets.
func keyed(dst any, key string) binding {
	return binding{keys: []string{key}, dst: dst, present: true}
}

func (d document) decode(bindings ...binding) error {
	for _, b := range bindings {
		var (
			raw json.RawMessage
			ok  bool
		)
		if b.present {
			raw, ok = d[b.keys[0]]
		} else {
			raw, ok = d.coalesce(b.keys...)
		}
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, b.dst); err != nil {
			return fmt.Errorf("field %s: %w", b.keys[0], err)
		}
	}
	return nil
}
