package model

import "strings"

// PostalEntry maps a region label to its postal code.
type PostalEntry struct {
	Region string
	Code   string
}

// Prefix returns the first three characters of the code.
func (e PostalEntry) Prefix() string {
	r := []rune(e.Code)
	if len(r) > 3 {
		r = r[:3]
	}
	return string(r)
}

// PostalMapping is an ordered region → postal code table. Lookups scan the
// entries in insertion order and the first region contained in the address
// wins, even when a later, longer region would also match.
type PostalMapping struct {
	entries []PostalEntry
}

// NewPostalMapping builds a mapping from entries, preserving order. Entries
// with an empty region are skipped because they would match every address.
func NewPostalMapping(entries []PostalEntry) *PostalMapping {
	m := &PostalMapping{entries: make([]PostalEntry, 0, len(entries))}
	for _, e := range entries {
		e.Region = strings.TrimSpace(e.Region)
		e.Code = strings.TrimSpace(e.Code)
		if e.Region == "" {
			continue
		}
		m.entries = append(m.entries, e)
	}
	return m
}

// Len returns the number of entries.
func (m *PostalMapping) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// Lookup returns the first entry whose region appears in address.
func (m *PostalMapping) Lookup(address string) (PostalEntry, bool) {
	if m == nil {
		return PostalEntry{}, false
	}
	for _, e := range m.entries {
		if strings.Contains(address, e.Region) {
			return e, true
		}
	}
	return PostalEntry{}, false
}

// Augment prefixes address with the 3-character postal prefix of the first
// matching region, separated by a space. Unmatched addresses are returned
// unchanged.
func (m *PostalMapping) Augment(address string) string {
	e, ok := m.Lookup(address)
	if !ok {
		return address
	}
	prefix := e.Prefix()
	if prefix == "" {
		return address
	}
	return prefix + " " + address
}
