package assert_test

import (
	"github.com/saylorsolutions/eventnode/assert"
	testify "github.com/stretchr/testify/assert"
	"testing"
)

func TestComparable(t *testing.T) {
	tests := map[string]any{
		"Slice": []byte("a"),
		"Map":   map[string]bool{},
		"Func":  func() {},
	}
	for name, val := range tests {
		t.Run(name, func(t *testing.T) {
			testify.Panics(t, func() {
				assert.Comparable(name, val)
			})
		})
	}
	testify.NotPanics(t, func() {
		assert.Comparable("nil", nil)
		assert.Comparable("string", "busy")
		assert.Comparable("int", 5)
	})
}

func TestTrue(t *testing.T) {
	testify.NotPanics(t, func() {
		assert.True("true", true)
	})
	testify.Panics(t, func() {
		assert.True("false", false)
	})
}

func TestDisable(t *testing.T) {
	assert.Disable()
	t.Cleanup(func() {
		assert.Enable()
	})
	testify.NotPanics(t, func() {
		assert.True("false", false)
		assert.Comparable("slice", []int{})
	})
}
