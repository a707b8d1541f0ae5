package logger

import (
	"log/slog"
	"strconv"
	"time"
)

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Errors groups multiple non-nil errors under the key "errors".
// If all errors are nil, it returns an empty Attr.
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Key records a cache key under the key "cache_key".
func Key(key string) slog.Attr {
	return slog.String("cache_key", key)
}

// Keys records several cache keys under the key "cache_keys".
func Keys(keys []string) slog.Attr {
	return slog.Any("cache_keys", keys)
}

// Owner records an owner identity under the key "owner".
// An empty owner yields an empty Attr.
func Owner[T ~string](owner T) slog.Attr {
	if owner == "" {
		return slog.Attr{}
	}
	return slog.String("owner", string(owner))
}

// Status records a transport status code under the key "status".
// Zero means no round-trip happened and yields an empty Attr.
func Status(code int) slog.Attr {
	if code == 0 {
		return slog.Attr{}
	}
	return slog.Int("status", code)
}

// Timeout records an eviction or fetch timeout under the key "timeout".
func Timeout(d time.Duration) slog.Attr {
	return slog.Duration("timeout", d)
}

// Count records a number of affected items under the key "count".
func Count(n int) slog.Attr {
	return slog.Int("count", n)
}

// Duration records a duration under the key "duration".
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Event records the event name under the key "event".
func Event(name string) slog.Attr {
	return slog.String("event", name)
}
