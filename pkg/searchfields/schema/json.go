package schema

import (
	"bytes"
	"encoding/json"
	"sort"

	sferrors "github.com/nonibytes/searchfields/pkg/searchfields/errors"
)

// FromJSON parses and validates a field table. The document is an object
// keyed by field name. Every malformed entry is a configuration error.
func FromJSON(b []byte) (Table, error) {
	var raw map[string]map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, sferrors.Wrap(sferrors.ErrConfiguration, "json parse", err)
	}
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		entry := raw[key]
		if entry == nil {
			return nil, sferrors.Configuration(key, "descriptor must be an object")
		}
		fields := make(map[string][]byte, len(entry))
		for k, v := range entry {
			fields[k] = bytes.TrimSpace(v)
		}
		if err := checkKeys(key, fields); err != nil {
			return nil, err
		}
	}

	var t Table
	if err := json.Unmarshal(b, &t); err != nil {
		return nil, sferrors.Wrap(sferrors.ErrConfiguration, "json decode", err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// ToJSON encodes the table. encoding/json sorts map keys, so output is stable.
func (t Table) ToJSON() ([]byte, error) {
	b, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return nil, sferrors.Wrap(sferrors.ErrConfiguration, "json encode", err)
	}
	return b, nil
}
