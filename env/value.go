package env

import (
	"os"
	"strings"
	"time"
)

// Val will attempt to get an environment variable value using the given key.
// If the variable isn't set, or is empty, then the defaultVal will be returned.
// Keys are tried as given and then upper-cased, since conventional variable names are upper-case.
func Val(key string, defaultVal string) string {
	val, ok := os.LookupEnv(key)
	if !ok {
		val, ok = os.LookupEnv(strings.ToUpper(key))
	}
	if !ok {
		return defaultVal
	}
	trimmed := strings.TrimSpace(val)
	if len(trimmed) == 0 {
		return defaultVal
	}
	return trimmed
}

var (
	DefaultTrue  = []string{"1", "yes", "true", "on"}  // DefaultTrue are the values considered "true" when using [Bool], and can be changed.
	DefaultFalse = []string{"0", "no", "false", "off"} // DefaultFalse are the values considered "false" when using [Bool], and can be changed.
)

// Bool interprets an environment variable as a boolean, using [DefaultTrue] and [DefaultFalse].
// The defaultVal will be returned if the variable isn't set, is empty, or can't be a boolean value.
func Bool(key string, defaultVal bool) bool {
	sval := Val(key, "")
	switch {
	case len(sval) == 0:
		return defaultVal
	case containsFold(DefaultTrue, sval):
		return true
	case containsFold(DefaultFalse, sval):
		return false
	default:
		return defaultVal
	}
}

// Duration will attempt to interpret an environment variable as a [time.Duration], returning the defaultVal if the environment variable isn't found or can't be a valid [time.Duration].
// A bare integer is interpreted as milliseconds.
func Duration(key string, defaultVal time.Duration) time.Duration {
	sval := Val(key, "")
	if len(sval) == 0 {
		return defaultVal
	}
	if isDigits(sval) {
		sval += "ms"
	}
	dval, err := time.ParseDuration(sval)
	if err != nil {
		return defaultVal
	}
	return dval
}

// OneOf returns the environment variable value if it matches one of the allowed values (case-insensitive), normalized to the allowed spelling.
// Otherwise, defaultVal is returned.
func OneOf[T ~string](key string, defaultVal T, allowed ...T) T {
	sval := Val(key, "")
	if len(sval) == 0 {
		return defaultVal
	}
	for _, a := range allowed {
		if strings.EqualFold(string(a), sval) {
			return a
		}
	}
	return defaultVal
}

func containsFold(vals []string, val string) bool {
	for _, v := range vals {
		if strings.EqualFold(v, val) {
			return true
		}
	}
	return false
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
