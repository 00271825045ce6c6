package pguri

// Params is an insertion-ordered mapping from connection-parameter name to
// value. Values are string, int or bool depending on the parameter. Setting
// an existing key overwrites its value but keeps the key's original position,
// so entries added later (query-string fields) take precedence over entries
// added earlier (positional URI fields). Callers should rely only on key
// presence and value, not on ordering.
type Params struct {
	keys   []string
	values map[string]any
}

func newParams() *Params {
	return &Params{values: make(map[string]any)}
}

// Set stores value under key, overwriting any previous value.
func (p *Params) Set(key string, value any) {
	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.values[key] = value
}

// Get returns the value stored under key.
func (p *Params) Get(key string) (any, bool) {
	v, ok := p.values[key]
	return v, ok
}

// Has reports whether key is present.
func (p *Params) Has(key string) bool {
	_, ok := p.values[key]
	return ok
}

// Keys returns the parameter names in insertion order.
func (p *Params) Keys() []string {
	keys := make([]string, len(p.keys))
	copy(keys, p.keys)
	return keys
}

// Len returns the number of parameters.
func (p *Params) Len() int {
	return len(p.keys)
}

// String returns the value under key if it is a string.
func (p *Params) String(key string) (string, bool) {
	s, ok := p.values[key].(string)
	return s, ok
}

// Int returns the value under key if it is an int.
func (p *Params) Int(key string) (int, bool) {
	n, ok := p.values[key].(int)
	return n, ok
}

// Bool returns the value under key if it is a bool.
func (p *Params) Bool(key string) (bool, bool) {
	b, ok := p.values[key].(bool)
	return b, ok
}
