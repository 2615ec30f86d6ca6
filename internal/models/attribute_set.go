package models

import (
	"database/sql/driver"
	"encoding/json"
	"sort"
	"strings"
)

// AttributePair is one (name, value) entry of a variant attribute mapping.
type AttributePair struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// AttributeSet is an ordered set of attribute pairs. The canonical order is
// case-insensitive by attribute name, which makes equality and matching
// well-defined regardless of input order.
type AttributeSet []AttributePair

// NormalizeAttributeSet trims names and values, drops empty pairs, removes
// duplicate names (last value wins) and sorts the result canonically.
func NormalizeAttributeSet(pairs AttributeSet) AttributeSet {
	byName := make(map[string]string, len(pairs))
	order := make([]string, 0, len(pairs))
	for _, pair := range pairs {
		name := strings.TrimSpace(pair.Name)
		value := strings.TrimSpace(pair.Value)
		if name == "" || value == "" {
			continue
		}
		if _, ok := byName[name]; !ok {
			order = append(order, name)
		}
		byName[name] = value
	}
	result := make(AttributeSet, 0, len(order))
	for _, name := range order {
		result = append(result, AttributePair{Name: name, Value: byName[name]})
	}
	sort.Slice(result, func(i, j int) bool {
		return strings.ToLower(result[i].Name) < strings.ToLower(result[j].Name)
	})
	return result
}

// Get returns the value selected for an attribute name.
func (s AttributeSet) Get(name string) (string, bool) {
	for _, pair := range s {
		if strings.EqualFold(pair.Name, name) {
			return pair.Value, true
		}
	}
	return "", false
}

// Names returns the attribute names in canonical order.
func (s AttributeSet) Names() []string {
	names := make([]string, 0, len(s))
	for _, pair := range s {
		names = append(names, pair.Name)
	}
	return names
}

// Canonical returns a stable key usable for uniqueness checks and indexing,
// e.g. "color=Red|size=M".
func (s AttributeSet) Canonical() string {
	normalized := NormalizeAttributeSet(s)
	parts := make([]string, 0, len(normalized))
	for _, pair := range normalized {
		parts = append(parts, strings.ToLower(pair.Name)+"="+pair.Value)
	}
	return strings.Join(parts, "|")
}

// Label returns a human-presentable rendering, e.g. "Color: Red, Size: M".
func (s AttributeSet) Label() string {
	parts := make([]string, 0, len(s))
	for _, pair := range s {
		parts = append(parts, pair.Name+": "+pair.Value)
	}
	return strings.Join(parts, ", ")
}

// Covers reports whether every pair of the selection is present in this set
// with an equal value.
func (s AttributeSet) Covers(selection AttributeSet) bool {
	for _, want := range selection {
		got, ok := s.Get(want.Name)
		if !ok || !strings.EqualFold(strings.TrimSpace(got), strings.TrimSpace(want.Value)) {
			return false
		}
	}
	return true
}

// Value implements driver.Valuer.
func (s AttributeSet) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(s)
}

// Scan implements sql.Scanner.
func (s *AttributeSet) Scan(value interface{}) error {
	if value == nil {
		*s = AttributeSet{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		if str, isStr := value.(string); isStr {
			bytes = []byte(str)
		} else {
			return nil
		}
	}
	return json.Unmarshal(bytes, s)
}
