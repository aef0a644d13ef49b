package models

import (
	"database/sql/driver"
	"reflect"
	"testing"

	"quizvault/internal/domain"
)

func TestStringSlice_Value(t *testing.T) {
	tests := []struct {
		name    string
		s       StringSlice
		wantVal driver.Value
	}{
		{
			name:    "nil slice",
			s:       nil,
			wantVal: "[]",
		},
		{
			name:    "empty slice",
			s:       StringSlice{},
			wantVal: "[]",
		},
		{
			name:    "single element",
			s:       StringSlice{"apple"},
			wantVal: `["apple"]`,
		},
		{
			name:    "multiple elements",
			s:       StringSlice{"apple", "banana"},
			wantVal: `["apple","banana"]`,
		},
		{
			name:    "element with quotes survives encoding",
			s:       StringSlice{`say "stop"`},
			wantVal: `["say \"stop\""]`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotVal, err := tt.s.Value()
			if err != nil {
				t.Errorf("StringSlice.Value() error = %v", err)
				return
			}
			if !reflect.DeepEqual(gotVal, tt.wantVal) {
				t.Errorf("StringSlice.Value() gotVal = %v, want %v", gotVal, tt.wantVal)
			}
		})
	}
}

func TestStringSlice_Scan(t *testing.T) {
	tests := []struct {
		name    string
		value   interface{}
		wantS   StringSlice
		wantErr bool
	}{
		{
			name:  "nil input",
			value: nil,
			wantS: StringSlice{},
		},
		{
			name:  "empty string input",
			value: "",
			wantS: StringSlice{},
		},
		{
			name:  "json null input",
			value: "null",
			wantS: StringSlice{},
		},
		{
			name:  "string input",
			value: `["apple","banana"]`,
			wantS: StringSlice{"apple", "banana"},
		},
		{
			name:  "byte slice input",
			value: []byte(`["apple"]`),
			wantS: StringSlice{"apple"},
		},
		{
			name:    "unsupported type int",
			value:   int(123),
			wantErr: true,
		},
		{
			name:    "malformed json",
			value:   `["apple`,
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s StringSlice
			err := s.Scan(tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("StringSlice.Scan() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && !reflect.DeepEqual(s, tt.wantS) {
				t.Errorf("StringSlice.Scan() gotS = %v, want %v", s, tt.wantS)
			}
		})
	}
}

func TestCategoryMap_RoundTrip(t *testing.T) {
	m := CategoryMap{"Safety": domain.CategoryResult{Correct: 4, Total: 5}}

	val, err := m.Value()
	if err != nil {
		t.Fatalf("CategoryMap.Value() error = %v", err)
	}

	var got CategoryMap
	if err := got.Scan(val); err != nil {
		t.Fatalf("CategoryMap.Scan() error = %v", err)
	}
	if !reflect.DeepEqual(got, m) {
		t.Errorf("CategoryMap round trip = %v, want %v", got, m)
	}
}

func TestCategoryMap_NilIsNull(t *testing.T) {
	var m CategoryMap
	val, err := m.Value()
	if err != nil {
		t.Fatalf("CategoryMap.Value() error = %v", err)
	}
	if val != nil {
		t.Errorf("nil CategoryMap.Value() = %v, want SQL NULL", val)
	}

	var got CategoryMap
	if err := got.Scan(nil); err != nil {
		t.Fatalf("CategoryMap.Scan(nil) error = %v", err)
	}
	if got != nil {
		t.Errorf("CategoryMap.Scan(nil) = %v, want nil", got)
	}
}

func TestJSONValue_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		v    any
		want any
	}{
		{name: "string", v: "Acme", want: "Acme"},
		{name: "float", v: 80.0, want: 80.0},
		{name: "int becomes float64", v: 30, want: 30.0},
		{name: "bool", v: true, want: true},
		{name: "nested map", v: map[string]any{"a": "b"}, want: map[string]any{"a": "b"}},
		{name: "nil", v: nil, want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			val, err := JSONValue{V: tt.v}.Value()
			if err != nil {
				t.Fatalf("JSONValue.Value() error = %v", err)
			}
			var got JSONValue
			if err := got.Scan(val); err != nil {
				t.Fatalf("JSONValue.Scan() error = %v", err)
			}
			if !reflect.DeepEqual(got.V, tt.want) {
				t.Errorf("JSONValue round trip = %v (%T), want %v (%T)", got.V, got.V, tt.want, tt.want)
			}
		})
	}
}
