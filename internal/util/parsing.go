package util

import (
	"strconv"
	"strings"
	"time"
)

type StringParsable interface {
	string | []string | int | []int | uint32 | bool | time.Duration
}

func envVarStringSplitter(s string) []string {
	parts := strings.Split(s, ",")
	v := make([]string, 0, len(parts))
	for _, p := range parts {
		v = append(v, strings.TrimSpace(p))
	}
	return v
}

func envSliceTypeParser[T StringParsable](s string, f func(string) (T, error)) ([]T, error) {
	parts := envVarStringSplitter(s)
	v := make([]T, 0, len(parts))
	for _, p := range parts {
		v2, err := f(p)
		if err != nil {
			return v, err
		}
		v = append(v, v2)
	}
	return v, nil
}

// parseInt accepts decimal and 0x-prefixed hex, which is how memory
// addresses are usually written.
func parseInt(s string) (int, error) {
	n, err := strconv.ParseInt(s, 0, 0)
	return int(n), err
}

// ParseStringAs parses the input string as a StringParsable type, returning the default
// if an error occurs. It will panic if the type from StringParsable is not implemented.
func ParseStringAs[T StringParsable](v string, def T) T {
	v = strings.Trim(v, `"`) // in case something comes in as if it were a json string

	var parser func(string) (any, error)
	switch any(def).(type) {
	case string:
		parser = func(s string) (any, error) { return s, nil }
	case []string:
		parser = func(s string) (any, error) {
			return envSliceTypeParser(s, func(s string) (string, error) { return s, nil })
		}
	case int:
		parser = func(s string) (any, error) { return parseInt(s) }
	case []int:
		parser = func(s string) (any, error) {
			return envSliceTypeParser(s, parseInt)
		}
	case uint32:
		parser = func(s string) (any, error) {
			n, err := strconv.ParseUint(s, 0, 32)
			return uint32(n), err
		}
	case time.Duration:
		parser = func(s string) (any, error) { return time.ParseDuration(s) }
	case bool:
		parser = func(s string) (any, error) { return strconv.ParseBool(s) }
	default:
		panic("ParseStringAs got a type we can't handle")
	}

	val, err := parser(v)
	if err != nil {
		return def
	}
	return val.(T)
}
