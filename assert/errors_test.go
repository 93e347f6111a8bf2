package assert

import (
	"errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestCollector_Unwrap(t *testing.T) {
	var (
		ErrA = errors.New("A")
		ErrB = errors.New("B")
		err  = CollectErrors().Add(ErrA).Add(ErrB).Result()
		as   = new(Collector)
	)

	require.NotNil(t, err)
	assert.ErrorIs(t, err, ErrA)
	assert.ErrorIs(t, err, ErrB)
	assert.ErrorAs(t, err, &as)
}

func TestCollector_Error(t *testing.T) {
	var (
		ErrA = errors.New("A")
		ErrB = errors.New("B")
		err  = CollectErrors(" ").Add(ErrA).Add(ErrB).AddString("C").Result()
	)
	require.NotNil(t, err)
	assert.Equal(t, "A B C", err.Error())
}

func TestCollector_AddIf(t *testing.T) {
	c := CollectErrors(", ").
		AddIf(false, "not added").
		AddIf(true, "timeout %d is negative", -1)
	assert.Equal(t, 1, c.Len())
	assert.EqualError(t, c.Result(), "timeout -1 is negative")
	assert.NoError(t, CollectErrors().AddIf(false, "nope").Result())
}
