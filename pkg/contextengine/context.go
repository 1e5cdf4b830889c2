package contextengine

// Context is the business context: arbitrary JSON-shaped facts keyed by name.
// The keys "role", "mode" and "instructions" get special rendering in the
// builders; everything else is a generic fact.
type Context map[string]any

// Reserved keys with dedicated rendering.
const (
	KeyRole         = "role"
	KeyMode         = "mode"
	KeyInstructions = "instructions"
)

// Clone returns a deep copy. Mutating the result (including nested maps and
// slices) never affects the receiver.
func (c Context) Clone() Context {
	if c == nil {
		return Context{}
	}
	out := make(Context, len(c))
	for k, v := range c {
		out[k] = cloneValue(v)
	}
	return out
}

// Merge returns a new context holding base overlaid with upd: a key present
// in upd replaces the base value for that key entirely. There is no deep
// merge of nested structures.
func Merge(base, upd Context) Context {
	out := base.Clone()
	for k, v := range upd {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(val))
		for k, e := range val {
			m[k] = cloneValue(e)
		}
		return m
	case Context:
		return map[string]any(val.Clone())
	case []any:
		s := make([]any, len(val))
		for i, e := range val {
			s[i] = cloneValue(e)
		}
		return s
	case []string:
		s := make([]string, len(val))
		copy(s, val)
		return s
	default:
		return v
	}
}
