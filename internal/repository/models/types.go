package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"

	"quizvault/internal/domain"
)

// StringSlice stores a string array as a JSON text column.
type StringSlice []string

// Value implements the driver.Valuer interface
func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	jsonData, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(jsonData), nil
}

// Scan implements the sql.Scanner interface
func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = StringSlice{}
		return nil
	}

	var bytesToParse []byte
	switch v := value.(type) {
	case []byte:
		bytesToParse = v
	case string:
		bytesToParse = []byte(v)
	default:
		return errors.New("StringSlice Scan: unsupported type " + fmt.Sprintf("%T", value))
	}

	if len(bytesToParse) == 0 || string(bytesToParse) == "null" {
		*s = StringSlice{}
		return nil
	}
	return json.Unmarshal(bytesToParse, s)
}

// CategoryMap stores per-category results as a JSON text column. A nil
// map round-trips as SQL NULL, matching records saved without a
// category breakdown.
type CategoryMap map[string]domain.CategoryResult

// Value implements the driver.Valuer interface
func (m CategoryMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	jsonData, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(jsonData), nil
}

// Scan implements the sql.Scanner interface
func (m *CategoryMap) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}

	var bytesToParse []byte
	switch v := value.(type) {
	case []byte:
		bytesToParse = v
	case string:
		bytesToParse = []byte(v)
	default:
		return errors.New("CategoryMap Scan: unsupported type " + fmt.Sprintf("%T", value))
	}

	if len(bytesToParse) == 0 || string(bytesToParse) == "null" {
		*m = nil
		return nil
	}
	return json.Unmarshal(bytesToParse, m)
}

// JSONValue stores an arbitrary settings value as its JSON encoding, so
// numbers, booleans, strings and nested structures survive unchanged.
type JSONValue struct {
	V any
}

// Value implements the driver.Valuer interface
func (j JSONValue) Value() (driver.Value, error) {
	jsonData, err := json.Marshal(j.V)
	if err != nil {
		return nil, err
	}
	return string(jsonData), nil
}

// Scan implements the sql.Scanner interface
func (j *JSONValue) Scan(value interface{}) error {
	if value == nil {
		j.V = nil
		return nil
	}

	var bytesToParse []byte
	switch v := value.(type) {
	case []byte:
		bytesToParse = v
	case string:
		bytesToParse = []byte(v)
	default:
		return errors.New("JSONValue Scan: unsupported type " + fmt.Sprintf("%T", value))
	}

	if len(bytesToParse) == 0 {
		j.V = nil
		return nil
	}
	return json.Unmarshal(bytesToParse, &j.V)
}
