package protocol

// Property is one named value, in insertion order.
type Property struct {
	Name  string
	Value Value
}

// PropMap maps names to values and remembers insertion order. Setting an
// existing name replaces its value in place. The zero value is ready to use.
type PropMap struct {
	keys []string
	vals map[string]Value
}

func (p *PropMap) Set(name string, v Value) {
	if p.vals == nil {
		p.vals = make(map[string]Value)
	}
	if _, ok := p.vals[name]; !ok {
		p.keys = append(p.keys, name)
	}
	p.vals[name] = v
}

func (p *PropMap) Get(name string) (Value, bool) {
	v, ok := p.vals[name]
	return v, ok
}

func (p *PropMap) Len() int { return len(p.keys) }

// All returns the properties in insertion order.
func (p *PropMap) All() []Property {
	out := make([]Property, 0, len(p.keys))
	for _, k := range p.keys {
		out = append(out, Property{Name: k, Value: p.vals[k]})
	}
	return out
}

// pairs renders each entry as name or name=value.
func (p *PropMap) pairs() []string {
	out := make([]string, 0, len(p.keys))
	for _, k := range p.keys {
		if s := p.vals[k].String(); s != "" {
			out = append(out, k+"="+s)
			continue
		}
		out = append(out, k)
	}
	return out
}
