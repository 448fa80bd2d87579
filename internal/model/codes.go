package model

import (
	"encoding/json"
	"sort"

	"github.com/rotisserie/eris"
)

// CodeMapping is a bidirectional association between a closed set of names
// (crops or cities) and small integer codes. Codes are assigned once from the
// training corpus's distinct values in sorted order, so re-deriving the
// mapping from the same corpus always yields the same assignment. The mapping
// is immutable after construction and shared read-only across requests.
type CodeMapping struct {
	codes map[string]int
	names []string
}

// NewCodeMapping builds a mapping from the distinct values in names, sorted
// lexicographically, coded 0..n-1.
func NewCodeMapping(names []string) *CodeMapping {
	seen := make(map[string]struct{}, len(names))
	var distinct []string
	for _, n := range names {
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		distinct = append(distinct, n)
	}
	sort.Strings(distinct)

	codes := make(map[string]int, len(distinct))
	for i, n := range distinct {
		codes[n] = i
	}
	return &CodeMapping{codes: codes, names: distinct}
}

// Code returns the integer code for name.
func (m *CodeMapping) Code(name string) (int, bool) {
	c, ok := m.codes[name]
	return c, ok
}

// Name returns the name assigned to code.
func (m *CodeMapping) Name(code int) (string, bool) {
	if code < 0 || code >= len(m.names) {
		return "", false
	}
	return m.names[code], true
}

// Names returns all known names in code order.
func (m *CodeMapping) Names() []string {
	out := make([]string, len(m.names))
	copy(out, m.names)
	return out
}

// Len returns the number of coded names.
func (m *CodeMapping) Len() int {
	return len(m.names)
}

// MarshalJSON serializes the mapping as {"name": code, ...}.
func (m *CodeMapping) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.codes)
}

// UnmarshalJSON restores a mapping serialized by MarshalJSON. Codes must form
// a dense 0..n-1 range.
func (m *CodeMapping) UnmarshalJSON(data []byte) error {
	var codes map[string]int
	if err := json.Unmarshal(data, &codes); err != nil {
		return eris.Wrap(err, "codes: unmarshal")
	}
	names := make([]string, len(codes))
	for n, c := range codes {
		if c < 0 || c >= len(codes) {
			return eris.Errorf("codes: code %d for %q out of range", c, n)
		}
		if names[c] != "" {
			return eris.Errorf("codes: duplicate code %d (%q, %q)", c, names[c], n)
		}
		names[c] = n
	}
	m.codes = codes
	m.names = names
	return nil
}
