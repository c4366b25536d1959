package report

// Fields is the ordered key/value view of a report's findings.
// Keys are table column names or section label names.
type Fields struct {
	keys   []string
	values map[string]string
}

// NewFields creates an empty Fields
func NewFields() *Fields {
	return &Fields{values: make(map[string]string)}
}

// SetIfAbsent stores value under key unless the key already exists.
// It reports whether the value was stored.
func (f *Fields) SetIfAbsent(key, value string) bool {
	if _, ok := f.values[key]; ok {
		return false
	}
	f.keys = append(f.keys, key)
	f.values[key] = value
	return true
}

// Get returns the value stored under key
func (f *Fields) Get(key string) (string, bool) {
	if f == nil {
		return "", false
	}
	v, ok := f.values[key]
	return v, ok
}

// Keys returns the keys in insertion order
func (f *Fields) Keys() []string {
	if f == nil {
		return nil
	}
	return append([]string(nil), f.keys...)
}

// Len returns the number of keys
func (f *Fields) Len() int {
	if f == nil {
		return 0
	}
	return len(f.keys)
}

// Map returns a copy of the fields as a plain map
func (f *Fields) Map() map[string]string {
	out := make(map[string]string, f.Len())
	for _, k := range f.Keys() {
		out[k] = f.values[k]
	}
	return out
}
