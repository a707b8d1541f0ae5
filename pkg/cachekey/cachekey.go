package cachekey

import (
	"fmt"
	"sort"
	"strings"
)

const (
	// Separator divides the resource name from its discriminating fields.
	Separator = "~"
	// FieldSeparator joins field=value pairs.
	FieldSeparator = "_"
)

// Build returns the cache key for a resource name and its discriminating fields.
// Fields are sorted by name; nil and empty-string values are skipped.
// Without any remaining field the key is the bare name.
func Build(name string, fields map[string]any) string {
	pairs := make([]string, 0, len(fields))
	for k, v := range fields {
		if v == nil {
			continue
		}
		s := fmt.Sprint(v)
		if s == "" {
			continue
		}
		pairs = append(pairs, k+"="+s)
	}
	if len(pairs) == 0 {
		return name
	}
	sort.Strings(pairs)
	return name + Separator + strings.Join(pairs, FieldSeparator)
}

// Name recovers the resource name from a key.
func Name(key string) string {
	name, _, _ := strings.Cut(key, Separator)
	return name
}

// Matches reports whether key belongs to the resource name: it equals name
// exactly or starts with name followed by Separator. "users" does not match
// "user"; "user~id=1" does.
func Matches(key, name string) bool {
	if key == name {
		return true
	}
	return strings.HasPrefix(key, name+Separator)
}

// MatchesAny reports whether key matches at least one of names.
func MatchesAny(key string, names ...string) bool {
	for _, name := range names {
		if Matches(key, name) {
			return true
		}
	}
	return false
}
