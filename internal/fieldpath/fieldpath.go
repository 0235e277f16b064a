// Package fieldpath implements dotted-path access into semi-structured event
// documents (map[string]any views of semantic events).
//
// Paths look like "user.email" or, with an array wildcard segment,
// "cart.lineItems[].product.id". The package deliberately keeps the source
// semantics of the tracking pipeline: a falsy value (nil, empty string, zero
// number, false, empty map or slice) counts as absent. See Falsy.
package fieldpath

import "strings"

const wildcardSuffix = "[]"

// Get resolves a plain dotted path (no wildcards) against doc.
// The second return value reports whether a non-falsy value was found.
func Get(doc map[string]any, path string) (any, bool) {
	cur := any(doc)
	for _, seg := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[seg]
		if !ok {
			return nil, false
		}
	}
	if Falsy(cur) {
		return nil, false
	}
	return cur, true
}

// Collect resolves a path that may contain wildcard segments ("seg[]").
// Every matched leaf position contributes one entry; positions where the
// remainder of the path is missing contribute nil. A missing collection
// yields an empty result.
func Collect(doc map[string]any, path string) []any {
	return collect(any(doc), strings.Split(path, "."))
}

func collect(cur any, segs []string) []any {
	if len(segs) == 0 {
		return []any{cur}
	}
	seg := segs[0]

	if rest, ok := strings.CutSuffix(seg, wildcardSuffix); ok {
		m, isMap := cur.(map[string]any)
		if !isMap {
			return nil
		}
		items, isSlice := asSlice(m[rest])
		if !isSlice {
			return nil
		}
		var out []any
		for _, item := range items {
			sub := collect(item, segs[1:])
			if sub == nil {
				out = append(out, nil)
				continue
			}
			out = append(out, sub...)
		}
		return out
	}

	m, isMap := cur.(map[string]any)
	if !isMap {
		return nil
	}
	next, ok := m[seg]
	if !ok {
		if len(segs) == 1 {
			return []any{nil}
		}
		return []any{nil}
	}
	return collect(next, segs[1:])
}

// Set writes v at the dotted path, creating intermediate maps as needed.
// Wildcard segments are not supported for writes.
func Set(doc map[string]any, path string, v any) {
	segs := strings.Split(path, ".")
	cur := doc
	for _, seg := range segs[:len(segs)-1] {
		next, ok := cur[seg].(map[string]any)
		if !ok {
			next = map[string]any{}
			cur[seg] = next
		}
		cur = next
	}
	cur[segs[len(segs)-1]] = v
}

// Delete removes the value at the dotted path, if present.
func Delete(doc map[string]any, path string) {
	segs := strings.Split(path, ".")
	cur := doc
	for _, seg := range segs[:len(segs)-1] {
		next, ok := cur[seg].(map[string]any)
		if !ok {
			return
		}
		cur = next
	}
	delete(cur, segs[len(segs)-1])
}

// Clean deep-prunes falsy entries from a payload. Maps lose keys whose
// cleaned value is falsy; slices keep their order but drop falsy elements.
// Returns nil when nothing survives, so callers can drop the whole key.
func Clean(doc map[string]any) map[string]any {
	out := map[string]any{}
	for k, v := range doc {
		cv := cleanValue(v)
		if Falsy(cv) {
			continue
		}
		out[k] = cv
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func cleanValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		cm := Clean(t)
		if cm == nil {
			return nil
		}
		return cm
	case []any:
		var out []any
		for _, item := range t {
			ci := cleanValue(item)
			if Falsy(ci) {
				continue
			}
			out = append(out, ci)
		}
		if len(out) == 0 {
			return nil
		}
		return out
	default:
		return v
	}
}

// Falsy reports whether v counts as absent for tracking purposes.
// Zero numbers, empty strings and false are treated as absent on purpose:
// the upstream pipeline has always conflated "missing" and "falsy", and
// destinations rely on that, see fieldpath package docs.
func Falsy(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case bool:
		return !t
	case int:
		return t == 0
	case int32:
		return t == 0
	case int64:
		return t == 0
	case float32:
		return t == 0
	case float64:
		return t == 0
	case map[string]any:
		return len(t) == 0
	case []any:
		return len(t) == 0
	case []string:
		return len(t) == 0
	default:
		return false
	}
}

func asSlice(v any) ([]any, bool) {
	switch t := v.(type) {
	case []any:
		return t, true
	case []map[string]any:
		out := make([]any, len(t))
		for i, m := range t {
			out[i] = m
		}
		return out, true
	default:
		return nil, false
	}
}
