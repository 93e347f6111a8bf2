//go:build !noassert

package assert

import (
	"fmt"
	"reflect"
	"runtime"
	"sync/atomic"
)

var disabled atomic.Bool

// Disable will disable assertion evaluation globally.
// This is concurrency safe, but can have side effects in other goroutines that use assertions.
func Disable() {
	disabled.Store(true)
}

// Enable can be used to re-enable assertion evaluation if Disable was called previously.
func Enable() {
	disabled.Store(false)
}

func getCallerDetails() string {
	_, file, line, ok := runtime.Caller(2)
	if !ok {
		return "unknown"
	}
	return fmt.Sprintf("'%s#%d'", file, line)
}

// True will panic with descriptive information if result is not true.
func True(label string, result bool) {
	if disabled.Load() {
		return
	}
	if !result {
		panic(fmt.Sprintf("assertion '%s' failed at %s", label, getCallerDetails()))
	}
}

// Comparable will panic if val can't be used with the == operator without panicking at runtime.
// A nil val is comparable.
func Comparable(label string, val any) {
	if disabled.Load() {
		return
	}
	if val == nil {
		return
	}
	if !reflect.TypeOf(val).Comparable() {
		panic(fmt.Sprintf("assertion '%s' failed at %s: %T is not comparable", label, getCallerDetails(), val))
	}
}
