package schema

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Value holds a field's runtime or default value: a scalar string for every
// field type except checkbox, which stores the list of selected option
// values. The zero Value is an empty scalar.
type Value struct {
	scalar string
	list   []string
	isList bool
}

// StringValue wraps a scalar string.
func StringValue(s string) Value {
	return Value{scalar: s}
}

// ListValue wraps a list of selected option values.
func ListValue(items ...string) Value {
	return Value{list: append([]string(nil), items...), isList: true}
}

// IsList reports whether the value is a checkbox-style list.
func (v Value) IsList() bool {
	return v.isList
}

// String returns the scalar value, or the list entries joined with ", " for
// display purposes.
func (v Value) String() string {
	if v.isList {
		return strings.Join(v.list, ", ")
	}
	return v.scalar
}

// List returns a copy of the list entries; nil for scalar values.
func (v Value) List() []string {
	if !v.isList {
		return nil
	}
	return append([]string(nil), v.list...)
}

// Empty reports whether the value is an empty string or an empty list.
func (v Value) Empty() bool {
	if v.isList {
		return len(v.list) == 0
	}
	return v.scalar == ""
}

// Equal reports structural equality: same kind and same contents.
func (v Value) Equal(other Value) bool {
	if v.isList != other.isList {
		return false
	}
	if !v.isList {
		return v.scalar == other.scalar
	}
	if len(v.list) != len(other.list) {
		return false
	}
	for i := range v.list {
		if v.list[i] != other.list[i] {
			return false
		}
	}
	return true
}

// MarshalJSON encodes scalars as JSON strings and lists as string arrays,
// matching the shape the registry has always persisted.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.isList {
		if v.list == nil {
			return json.Marshal([]string{})
		}
		return json.Marshal(v.list)
	}
	return json.Marshal(v.scalar)
}

// UnmarshalJSON accepts a JSON string, a string array, or null (treated as an
// empty scalar).
func (v *Value) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*v = Value{}
		return nil
	}
	if strings.HasPrefix(trimmed, "[") {
		var items []string
		if err := json.Unmarshal(data, &items); err != nil {
			return fmt.Errorf("schema: value must be a list of strings: %w", err)
		}
		*v = ListValue(items...)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("schema: value must be a string or list of strings: %w", err)
	}
	*v = StringValue(s)
	return nil
}
