package env

import (
	"github.com/stretchr/testify/assert"
	"strings"
	"testing"
	"time"
)

func TestVal(t *testing.T) {
	const key = "TEST_VAL"

	tests := []struct {
		name     string
		value    string
		expected string
		unset    bool
	}{
		{
			name:     "Unset",
			unset:    true,
			expected: "default",
		},
		{
			name:     "Empty",
			value:    "",
			expected: "default",
		},
		{
			name:     "Trimmed",
			value:    "\n\t abc \t\n",
			expected: "abc",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if !tc.unset {
				t.Setenv(key, tc.value)
			}
			assert.Equal(t, tc.expected, Val(key, "default"))
			assert.Equal(t, tc.expected, Val(strings.ToLower(key), "default"), "Lower-case key should find the upper-case variable")
		})
	}
}

func TestBool(t *testing.T) {
	const key = "TEST_BOOL"
	tests := []struct {
		name     string
		unset    bool
		value    string
		expected bool
	}{
		{
			name:     "Unset",
			unset:    true,
			expected: false,
		},
		{
			name:     "Not a bool",
			value:    "blah",
			expected: false,
		},
		{
			name:     "Truthy Uppercase",
			value:    strings.ToUpper(DefaultTrue[2]),
			expected: true,
		},
		{
			name:     "Falsy",
			value:    DefaultFalse[0],
			expected: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if !tc.unset {
				t.Setenv(key, tc.value)
			}
			assert.Equal(t, tc.expected, Bool(key, false))
		})
	}
}

func TestDuration(t *testing.T) {
	const (
		key        = "TEST_DURATION"
		defaultVal = 100 * time.Millisecond
	)
	tests := map[string]struct {
		value    string
		expected time.Duration
	}{
		"Empty":        {value: "", expected: defaultVal},
		"Not duration": {value: "soon", expected: defaultVal},
		"Go duration":  {value: "1.5s", expected: 1500 * time.Millisecond},
		"Bare millis":  {value: "250", expected: 250 * time.Millisecond},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Setenv(key, tc.value)
			assert.Equal(t, tc.expected, Duration(key, defaultVal))
		})
	}
}

func TestOneOf(t *testing.T) {
	type mode string
	const key = "TEST_ONEOF"
	t.Setenv(key, "FIRST")
	assert.Equal(t, mode("first"), OneOf[mode](key, "last", "first", "last"))
	t.Setenv(key, "middle")
	assert.Equal(t, mode("last"), OneOf[mode](key, "last", "first", "last"))
}
