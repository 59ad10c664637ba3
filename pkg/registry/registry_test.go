package registry

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cmdshell/pkg/shelltypes"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func newTestRegistry(options ...Option) *Registry {
	return New(append(options, WithLogger(quietLogger()))...)
}

func noop(_ context.Context, _ shelltypes.Args, _ io.Writer) (any, error) {
	return nil, nil
}

func descriptor(name string, aliases ...string) *shelltypes.Descriptor {
	return &shelltypes.Descriptor{
		Name:    name,
		Aliases: aliases,
		Handler: noop,
		Help:    "help for " + name,
	}
}

func TestRegistry_New(t *testing.T) {
	r := newTestRegistry()

	assert.NotNil(t, r)
	assert.Equal(t, 0, r.Len())
	assert.False(t, r.IsCaseInsensitive())
	assert.Empty(t, r.Names())
}

func TestRegistry_RegisterAndLookup(t *testing.T) {
	r := newTestRegistry()
	d := descriptor("add")
	d.Params = []shelltypes.ParameterSpec{shelltypes.IntParam("a"), shelltypes.IntParam("b")}

	require.NoError(t, r.Register(d))
	assert.True(t, r.Has("add"))
	assert.Equal(t, 1, r.Len())

	found, err := r.Lookup("add")
	require.NoError(t, err)
	assert.Equal(t, "add", found.Name)
	assert.Len(t, found.Params, 2)
	assert.Equal(t, "help for add", found.Help)
}

func TestRegistry_StoresCopies(t *testing.T) {
	r := newTestRegistry()
	d := descriptor("add")
	d.Params = []shelltypes.ParameterSpec{shelltypes.IntParam("a")}
	require.NoError(t, r.Register(d))

	d.Params[0].Name = "changed"
	d.Help = "changed"

	found, err := r.Lookup("add")
	require.NoError(t, err)
	assert.Equal(t, "a", found.Params[0].Name)
	assert.Equal(t, "help for add", found.Help)

	found.Params[0].Name = "mutated"
	again, err := r.Lookup("add")
	require.NoError(t, err)
	assert.Equal(t, "a", again.Params[0].Name)
}

func TestRegistry_DuplicateKeepsFirst(t *testing.T) {
	r := newTestRegistry()
	first := descriptor("add")
	first.Help = "first"
	second := descriptor("add")
	second.Help = "second"

	require.NoError(t, r.Register(first))
	err := r.Register(second)
	require.Error(t, err)
	assert.True(t, errors.Is(err, shelltypes.ErrDuplicateCommand))

	var dupErr *shelltypes.DuplicateCommandError
	require.True(t, errors.As(err, &dupErr))
	assert.Equal(t, "add", dupErr.Name)

	found, err := r.Lookup("add")
	require.NoError(t, err)
	assert.Equal(t, "first", found.Help)
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_Aliases(t *testing.T) {
	r := newTestRegistry()
	require.NoError(t, r.Register(descriptor("help", "?", "h")))

	for _, name := range []string{"help", "?", "h"} {
		found, err := r.Lookup(name)
		require.NoError(t, err, name)
		assert.Equal(t, "help", found.Name)
	}

	tests := []struct {
		name string
		desc *shelltypes.Descriptor
	}{
		{name: "name collides with alias", desc: descriptor("h")},
		{name: "alias collides with name", desc: descriptor("other", "help")},
		{name: "alias collides with alias", desc: descriptor("other", "?")},
		{name: "alias repeats own name", desc: descriptor("self", "self")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := r.Register(tt.desc)
			assert.True(t, errors.Is(err, shelltypes.ErrDuplicateCommand))
		})
	}
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_CaseSensitivity(t *testing.T) {
	t.Run("case-sensitive by default", func(t *testing.T) {
		r := newTestRegistry()
		require.NoError(t, r.Register(descriptor("led")))
		require.NoError(t, r.Register(descriptor("LED")))

		assert.True(t, r.Has("led"))
		assert.True(t, r.Has("LED"))
		assert.False(t, r.Has("Led"))
	})

	t.Run("case-insensitive option", func(t *testing.T) {
		r := newTestRegistry(CaseInsensitive())
		require.NoError(t, r.Register(descriptor("led", "Light")))

		found, err := r.Lookup("LED")
		require.NoError(t, err)
		assert.Equal(t, "led", found.Name)
		assert.True(t, r.Has("light"))

		err = r.Register(descriptor("Led"))
		assert.True(t, errors.Is(err, shelltypes.ErrDuplicateCommand))
	})
}

func TestRegistry_LookupUnknown(t *testing.T) {
	r := newTestRegistry()

	_, err := r.Lookup("bogus")
	require.Error(t, err)
	assert.True(t, errors.Is(err, shelltypes.ErrUnknownCommand))

	var unknown *shelltypes.UnknownCommandError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "bogus", unknown.Name)
}

func TestRegistry_Unregister(t *testing.T) {
	r := newTestRegistry()
	require.NoError(t, r.Register(descriptor("a")))
	require.NoError(t, r.Register(descriptor("b", "bee")))
	require.NoError(t, r.Register(descriptor("c")))

	require.NoError(t, r.Unregister("b"))
	assert.False(t, r.Has("b"))
	assert.False(t, r.Has("bee"))
	assert.Equal(t, []string{"a", "c"}, r.Names())

	err := r.Unregister("b")
	assert.True(t, errors.Is(err, shelltypes.ErrUnknownCommand))

	require.NoError(t, r.Register(descriptor("bee")))
	assert.Equal(t, []string{"a", "c", "bee"}, r.Names())
}

func TestRegistry_ListOrder(t *testing.T) {
	r := newTestRegistry()
	names := []string{"zeta", "alpha", "mid", "beta"}
	for _, name := range names {
		require.NoError(t, r.Register(descriptor(name)))
	}

	seq := r.List()
	var first, second []string
	for d := range seq {
		first = append(first, d.Name)
	}
	for d := range seq {
		second = append(second, d.Name)
	}

	assert.Equal(t, names, first)
	assert.Equal(t, first, second, "sequence must be restartable")
}

func TestRegistry_ListEarlyBreak(t *testing.T) {
	r := newTestRegistry()
	for _, name := range []string{"a", "b", "c"} {
		require.NoError(t, r.Register(descriptor(name)))
	}

	var seen []string
	for d := range r.List() {
		seen = append(seen, d.Name)
		if len(seen) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"a", "b"}, seen)
}

func TestRegistry_InvalidDescriptors(t *testing.T) {
	tests := []struct {
		name string
		desc *shelltypes.Descriptor
	}{
		{name: "nil", desc: nil},
		{name: "empty name", desc: descriptor("")},
		{name: "whitespace in name", desc: descriptor("two words")},
		{name: "quote in name", desc: descriptor(`say"`)},
		{name: "bad alias", desc: descriptor("ok", "")},
		{name: "no handler", desc: &shelltypes.Descriptor{Name: "nohandler"}},
		{
			name: "variadic not last",
			desc: &shelltypes.Descriptor{
				Name:    "bad",
				Handler: noop,
				Params: []shelltypes.ParameterSpec{
					shelltypes.IntParam("rest").AsRest(),
					shelltypes.IntParam("tail"),
				},
			},
		},
		{
			name: "choice without choices",
			desc: &shelltypes.Descriptor{
				Name:    "bad",
				Handler: noop,
				Params:  []shelltypes.ParameterSpec{shelltypes.ChoiceParam("mode")},
			},
		},
		{
			name: "unsupported width",
			desc: &shelltypes.Descriptor{
				Name:    "bad",
				Handler: noop,
				Params:  []shelltypes.ParameterSpec{shelltypes.UintParam("n", 12)},
			},
		},
		{
			name: "default of wrong type",
			desc: &shelltypes.Descriptor{
				Name:    "bad",
				Handler: noop,
				Params:  []shelltypes.ParameterSpec{shelltypes.IntParam("n").WithDefault(shelltypes.StringValue("x"))},
			},
		},
		{
			name: "default outside choices",
			desc: &shelltypes.Descriptor{
				Name:    "bad",
				Handler: noop,
				Params: []shelltypes.ParameterSpec{
					shelltypes.ChoiceParam("mode", "on", "off").WithDefault(shelltypes.ChoiceValue("maybe")),
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRegistry()
			err := r.Register(tt.desc)
			require.Error(t, err)
			assert.True(t, errors.Is(err, shelltypes.ErrInvalidDescriptor), "got %v", err)
			assert.Equal(t, 0, r.Len())
		})
	}
}

func TestRegistry_MustRegisterPanics(t *testing.T) {
	r := newTestRegistry()
	r.MustRegister(descriptor("add"))

	assert.Panics(t, func() {
		r.MustRegister(descriptor("add"))
	})
}

func TestRegistry_Suggest(t *testing.T) {
	r := newTestRegistry()
	for _, name := range []string{"add", "led", "leds", "parse", "ps", "help"} {
		require.NoError(t, r.Register(descriptor(name)))
	}

	tests := []struct {
		input    string
		max      int
		expected []string
	}{
		{input: "ad", max: 3, expected: []string{"add"}},
		{input: "ledz", max: 3, expected: []string{"led", "leds"}},
		{input: "pars", max: 3, expected: []string{"parse", "ps"}},
		{input: "lod", max: 3, expected: []string{"led"}},
		{input: "HELP", max: 3, expected: []string{"help"}},
		{input: "xyzzy", max: 3, expected: []string{}},
		{input: "led", max: 1, expected: []string{"led"}},
		{input: "add", max: 0, expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, r.Suggest(tt.input, tt.max))
		})
	}
}

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b     string
		expected int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"led", "leds", 1},
		{"lde", "led", 2},
		{"héllo", "hello", 1},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, levenshtein(tt.a, tt.b), "%q vs %q", tt.a, tt.b)
	}
}
