package shelltypes

// Args holds the bound arguments of one invocation, in parameter order.
// It exists only for the duration of a single handler call.
type Args struct {
	values []Value
	names  []string
}

// NewArgs pairs bound values with the names of the parameters they were bound to.
func NewArgs(params []ParameterSpec, values []Value) Args {
	names := make([]string, len(values))
	for i := range values {
		if i < len(params) {
			names[i] = params[i].Name
		}
	}
	copied := make([]Value, len(values))
	copy(copied, values)
	return Args{values: copied, names: names}
}

// Len returns the number of bound parameters.
func (a Args) Len() int { return len(a.values) }

// At returns the value bound to parameter i, or the zero Value when i is out of range.
func (a Args) At(i int) Value {
	if i < 0 || i >= len(a.values) {
		return Value{}
	}
	return a.values[i]
}

// Get returns the value bound to the named parameter.
func (a Args) Get(name string) (Value, bool) {
	for i, n := range a.names {
		if n == name {
			return a.values[i], true
		}
	}
	return Value{}, false
}

// Text returns the source text of parameter i.
func (a Args) Text(i int) string { return a.At(i).Text() }

// Int returns parameter i as a signed integer.
func (a Args) Int(i int) int64 { return a.At(i).Int() }

// Uint returns parameter i as an unsigned integer.
func (a Args) Uint(i int) uint64 { return a.At(i).Uint() }

// Float returns parameter i as a float.
func (a Args) Float(i int) float64 { return a.At(i).Float() }

// Bool returns parameter i as a boolean.
func (a Args) Bool(i int) bool { return a.At(i).Bool() }

// List returns the items bound to variadic parameter i.
func (a Args) List(i int) []Value { return a.At(i).Items() }

// Strings returns the texts of a variadic parameter's items.
func (a Args) Strings(i int) []string {
	items := a.List(i)
	out := make([]string, len(items))
	for j, item := range items {
		out[j] = item.Text()
	}
	return out
}
