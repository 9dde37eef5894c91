package traits

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateTraits(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		valid bool
	}{
		{"ok", `{"Background": ["Red", "Blue"], "Eyes": []}`, true},
		{"empty object", `{}`, true},
		{"value not array", `{"Background": "Red"}`, false},
		{"non-string item", `{"Background": ["Red", 1]}`, false},
		{"top-level array", `[["Red"]]`, false},
		{"null", `null`, false},
		{"malformed", `{"Background": [`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ValidateTraits([]byte(tt.doc))
			assert.Equal(t, tt.valid, res.Valid, res.Errors)
			if !tt.valid {
				assert.NotEmpty(t, res.Errors)
			}
		})
	}
}

func TestValidateImageMap(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		valid bool
	}{
		{"ok", `{"1": "Image#1", "2": "Image#2"}`, true},
		{"float key", `{"1.5": "a"}`, true},
		{"word key", `{"one": "a"}`, false},
		{"empty key", `{"": "a"}`, false},
		{"NaN key", `{"NaN": "a"}`, false},
		{"inf key", `{"inf": "a"}`, false},
		{"Infinity key", `{"Infinity": "a"}`, false},
		{"negative infinity key", `{"-Infinity": "a"}`, false},
		{"number value", `{"1": 1}`, false},
		{"not object", `["a"]`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, ValidateImageMap([]byte(tt.doc)).Valid)
		})
	}
}

func TestValidateSchema(t *testing.T) {
	assert.True(t, ValidateSchema([]byte(`{"anything": {"goes": [1, 2]}}`)).Valid)
	assert.True(t, ValidateSchema([]byte(`{}`)).Valid)
	assert.False(t, ValidateSchema([]byte(`null`)).Valid)
	assert.False(t, ValidateSchema([]byte(`42`)).Valid)
	assert.False(t, ValidateSchema([]byte(`not json`)).Valid)
}
