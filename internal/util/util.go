package util

import (
	"os"
)

// Getenv parses the variable as T, falling back to def when it is unset,
// empty or unparsable.
func Getenv[T StringParsable](key string, def T) T {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	return ParseStringAs(v, def)
}
