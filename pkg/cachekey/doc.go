// Package cachekey builds and matches resource cache keys.
//
// A key is a resource name optionally followed by Separator and an
// alphabetized, FieldSeparator-joined list of field=value pairs:
//
//	cachekey.Build("user", map[string]any{"userId": "zorah"}) // "user~userId=zorah"
//	cachekey.Build("users", nil)                              // "users"
//
// Bulk invalidation relies on Matches, which accepts a key only when it equals
// the name or starts with the name plus Separator. A plain prefix test would
// wrongly treat "users" as belonging to "user".
package cachekey
