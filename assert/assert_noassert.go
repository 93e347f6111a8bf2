//go:build noassert

package assert

// Disable does nothing, since assertions are compiled out with the noassert build tag.
func Disable() {}

// Enable does nothing, since assertions are compiled out with the noassert build tag.
func Enable() {}

func True(string, bool) {}

func Comparable(string, any) {}
