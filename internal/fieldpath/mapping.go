package fieldpath

// SourceKind discriminates where a mapped value comes from.
type SourceKind int16

const (
	// SourceEvent resolves the value from a dotted path into the event document.
	SourceEvent SourceKind = iota + 1
	// SourceConstant yields a fixed operator-configured value.
	SourceConstant
)

// Source describes a single mapped value: either a constant or an
// extraction path into an event document.
type Source struct {
	Kind  SourceKind
	Path  string // set when Kind == SourceEvent
	Value any    // set when Kind == SourceConstant
}

// Path builds an event-path source.
func Path(p string) Source {
	return Source{Kind: SourceEvent, Path: p}
}

// Constant builds a fixed-value source.
func Constant(v any) Source {
	return Source{Kind: SourceConstant, Value: v}
}

// Resolve evaluates the source against doc. Falsy results count as absent.
func (s Source) Resolve(doc map[string]any) (any, bool) {
	switch s.Kind {
	case SourceConstant:
		if Falsy(s.Value) {
			return nil, false
		}
		return s.Value, true
	case SourceEvent:
		return Get(doc, s.Path)
	default:
		return nil, false
	}
}

// Mapping binds logical output keys to value sources. It is used uniformly
// for user variables, product variables and multi-system identifier tables.
type Mapping map[string]Source

// Values resolves every source against doc and returns a pruned object:
// keys whose source value is absent are omitted. Returns nil when nothing
// resolves, so callers can drop the enclosing key entirely.
func (m Mapping) Values(doc map[string]any) map[string]any {
	if len(m) == 0 {
		return nil
	}
	out := map[string]any{}
	for key, src := range m {
		if v, ok := src.Resolve(doc); ok {
			out[key] = v
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// EnrichablePaths lists the event paths this mapping reads. The dispatcher
// uses them to know which fields must be populated before delivery.
func (m Mapping) EnrichablePaths() []string {
	var paths []string
	for _, src := range m {
		if src.Kind == SourceEvent && src.Path != "" {
			paths = append(paths, src.Path)
		}
	}
	return paths
}

// Paths builds a Mapping where every entry is an event path. This is the
// common shorthand for identifier tables like {"bitrixId": "id"}.
func Paths(table map[string]string) Mapping {
	if len(table) == 0 {
		return nil
	}
	m := make(Mapping, len(table))
	for key, p := range table {
		m[key] = Path(p)
	}
	return m
}
