package shelltypes

import (
	"context"
	"fmt"
	"io"
	"strings"
	"unicode"
)

// HandlerFunc is the host-supplied callback executed when its command is successfully bound.
// The returned value is reported as the Success payload and may be nil. A returned error is
// reported as a HandlerError; returning ErrExit asks the interpreter loop to terminate.
type HandlerFunc func(ctx context.Context, args Args, out io.Writer) (any, error)

// ParameterSpec describes one expected argument of a command.
type ParameterSpec struct {
	Name        string
	Type        ParamType
	Description string
	// Default is substituted when the input has no token for this parameter.
	Default *Value
	// Choices is the accepted set for TypeChoice parameters.
	Choices []string
	// Bits is the integer width for TypeInt and TypeUint: 8, 16, 32 or 64. Zero means 64.
	Bits int
	// Validate is applied after coercion; a non-nil error rejects the value as out of range.
	Validate func(Value) error
	// Variadic collects every surplus token. Only the last parameter may be variadic.
	Variadic bool
}

// StringParam returns a string parameter spec.
func StringParam(name string) ParameterSpec {
	return ParameterSpec{Name: name, Type: TypeString}
}

// IntParam returns a 64-bit signed integer parameter spec.
func IntParam(name string) ParameterSpec {
	return ParameterSpec{Name: name, Type: TypeInt}
}

// UintParam returns an unsigned integer parameter spec of the given width.
func UintParam(name string, bits int) ParameterSpec {
	return ParameterSpec{Name: name, Type: TypeUint, Bits: bits}
}

// FloatParam returns a floating-point parameter spec.
func FloatParam(name string) ParameterSpec {
	return ParameterSpec{Name: name, Type: TypeFloat}
}

// BoolParam returns a boolean parameter spec.
func BoolParam(name string) ParameterSpec {
	return ParameterSpec{Name: name, Type: TypeBool}
}

// ChoiceParam returns an enumerated parameter spec accepting one of choices.
func ChoiceParam(name string, choices ...string) ParameterSpec {
	return ParameterSpec{Name: name, Type: TypeChoice, Choices: append([]string(nil), choices...)}
}

// WithDefault returns a copy of p that binds v when no token is supplied.
func (p ParameterSpec) WithDefault(v Value) ParameterSpec {
	p.Default = &v
	return p
}

// WithBits returns a copy of p with the given integer width.
func (p ParameterSpec) WithBits(bits int) ParameterSpec {
	p.Bits = bits
	return p
}

// WithDescription returns a copy of p with a description used by help output.
func (p ParameterSpec) WithDescription(desc string) ParameterSpec {
	p.Description = desc
	return p
}

// WithValidator returns a copy of p with a post-coercion validity predicate.
func (p ParameterSpec) WithValidator(fn func(Value) error) ParameterSpec {
	p.Validate = fn
	return p
}

// WithRange returns a copy of p that rejects numeric values outside [minimum, maximum].
func (p ParameterSpec) WithRange(minimum, maximum float64) ParameterSpec {
	p.Validate = func(v Value) error {
		f := v.Float()
		if f < minimum || f > maximum {
			return fmt.Errorf("%s not in [%g, %g]", v.Text(), minimum, maximum)
		}
		return nil
	}
	return p
}

// AsRest returns a copy of p marked variadic.
func (p ParameterSpec) AsRest() ParameterSpec {
	p.Variadic = true
	return p
}

// HasDefault reports whether the parameter declares a default value.
func (p ParameterSpec) HasDefault() bool { return p.Default != nil }

// BitSize returns the effective integer width.
func (p ParameterSpec) BitSize() int {
	if p.Bits == 0 {
		return 64
	}
	return p.Bits
}

// TypeName returns a human readable type, e.g. "int", "uint8" or "plain|styled".
func (p ParameterSpec) TypeName() string {
	switch p.Type {
	case TypeInt, TypeUint:
		if p.Bits != 0 && p.Bits != 64 {
			return fmt.Sprintf("%s%d", p.Type, p.Bits)
		}
		return p.Type.String()
	case TypeChoice:
		return strings.Join(p.Choices, "|")
	default:
		return p.Type.String()
	}
}

// Usage renders the parameter for a usage line: <name:type>, [name:type=default] or <name:type>...
func (p ParameterSpec) Usage() string {
	body := p.Name + ":" + p.TypeName()
	switch {
	case p.Variadic && p.HasDefault():
		return "[" + body + "]..."
	case p.Variadic:
		return "<" + body + ">..."
	case p.HasDefault() && p.Default.String() == "":
		return "[" + body + "]"
	case p.HasDefault():
		return "[" + body + "=" + p.Default.String() + "]"
	default:
		return "<" + body + ">"
	}
}

// Descriptor is the registered shape of a command.
type Descriptor struct {
	Name    string
	Aliases []string
	Params  []ParameterSpec
	Handler HandlerFunc
	Help    string
}

// Clone returns a deep copy of the descriptor's slices so later edits by the caller
// cannot change a registered command.
func (d *Descriptor) Clone() *Descriptor {
	c := *d
	c.Aliases = append([]string(nil), d.Aliases...)
	c.Params = make([]ParameterSpec, len(d.Params))
	for i, p := range d.Params {
		p.Choices = append([]string(nil), p.Choices...)
		if p.Default != nil {
			v := *p.Default
			p.Default = &v
		}
		c.Params[i] = p
	}
	return &c
}

// Usage returns the command name followed by its parameters.
func (d *Descriptor) Usage() string {
	parts := []string{d.Name}
	for _, p := range d.Params {
		parts = append(parts, p.Usage())
	}
	return strings.Join(parts, " ")
}

// Validate checks the rules enforced at registration.
func (d *Descriptor) Validate() error {
	if err := validateName(d.Name); err != nil {
		return err
	}
	for _, alias := range d.Aliases {
		if err := validateName(alias); err != nil {
			return fmt.Errorf("alias: %w", err)
		}
	}
	if d.Handler == nil {
		return fmt.Errorf("%w: command %s has no handler", ErrInvalidDescriptor, d.Name)
	}
	for i, p := range d.Params {
		if p.Name == "" {
			return fmt.Errorf("%w: command %s parameter %d has no name", ErrInvalidDescriptor, d.Name, i)
		}
		if p.Variadic && i != len(d.Params)-1 {
			return fmt.Errorf("%w: command %s parameter %s: only the last parameter may be variadic", ErrInvalidDescriptor, d.Name, p.Name)
		}
		if p.Type == TypeChoice && len(p.Choices) == 0 {
			return fmt.Errorf("%w: command %s parameter %s: choice parameter has no choices", ErrInvalidDescriptor, d.Name, p.Name)
		}
		switch p.Bits {
		case 0, 8, 16, 32, 64:
		default:
			return fmt.Errorf("%w: command %s parameter %s: unsupported bit width %d", ErrInvalidDescriptor, d.Name, p.Name, p.Bits)
		}
		if p.Default != nil {
			if err := validateDefault(p); err != nil {
				return fmt.Errorf("%w: command %s parameter %s: %v", ErrInvalidDescriptor, d.Name, p.Name, err)
			}
		}
	}
	return nil
}

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: command name cannot be empty", ErrInvalidDescriptor)
	}
	if strings.IndexFunc(name, unicode.IsSpace) >= 0 || strings.ContainsRune(name, '"') {
		return fmt.Errorf("%w: command name %q contains whitespace or quotes", ErrInvalidDescriptor, name)
	}
	return nil
}

func validateDefault(p ParameterSpec) error {
	def := *p.Default
	if def.Kind() != p.Type {
		return fmt.Errorf("default has type %s, want %s", def.Kind(), p.Type)
	}
	if def.IsList() != p.Variadic {
		return fmt.Errorf("default list shape does not match parameter")
	}
	if p.Type != TypeChoice {
		return nil
	}
	values := []Value{def}
	if def.IsList() {
		values = def.Items()
	}
	for _, v := range values {
		found := false
		for _, c := range p.Choices {
			if c == v.Text() {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("default %q is not one of %s", v.Text(), strings.Join(p.Choices, ", "))
		}
	}
	return nil
}

// HelpInfo is structured help information for a command, used by help output and docs export.
type HelpInfo struct {
	Command     string       `json:"command" yaml:"command"`
	Aliases     []string     `json:"aliases,omitempty" yaml:"aliases,omitempty"`
	Description string       `json:"description" yaml:"description"`
	Usage       string       `json:"usage" yaml:"usage"`
	Options     []HelpOption `json:"options,omitempty" yaml:"options,omitempty"`
}

// HelpOption describes one parameter in HelpInfo.
type HelpOption struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Required    bool   `json:"required" yaml:"required"`
	Type        string `json:"type" yaml:"type"`
	Default     string `json:"default,omitempty" yaml:"default,omitempty"`
	Variadic    bool   `json:"variadic,omitempty" yaml:"variadic,omitempty"`
}

// HelpInfo builds structured help from the descriptor.
func (d *Descriptor) HelpInfo() HelpInfo {
	info := HelpInfo{
		Command:     d.Name,
		Aliases:     append([]string(nil), d.Aliases...),
		Description: d.Help,
		Usage:       d.Usage(),
	}
	for _, p := range d.Params {
		opt := HelpOption{
			Name:        p.Name,
			Description: p.Description,
			Required:    !p.HasDefault() && !p.Variadic,
			Type:        p.TypeName(),
			Variadic:    p.Variadic,
		}
		if p.Default != nil {
			opt.Default = p.Default.String()
		}
		info.Options = append(info.Options, opt)
	}
	return info
}
