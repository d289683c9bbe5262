package utils

import "strings"

// Value dereferences v, returning the zero value for nil.
func Value[T any](v *T) T {
	if v == nil {
		return *new(T)
	}
	return *v
}

func Ptr[T any](v T) *T {
	return &v
}

// IsBlank reports whether s is nil or holds only whitespace.
func IsBlank(s *string) bool {
	return strings.TrimSpace(Value(s)) == ""
}
