package testutils

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cmdshell/pkg/shelltypes"
)

func TestGenerateID(t *testing.T) {
	ResetTestCounters()
	t.Cleanup(ResetTestCounters)

	assert.Equal(t, "00000001-0000-4000-8000-000000000001", GenerateID(true))
	assert.Equal(t, "00000002-0000-4000-8000-000000000002", GenerateID(true))

	_, err := uuid.Parse(GenerateID(false))
	assert.NoError(t, err)

	ResetTestCounters()
	assert.Equal(t, "00000001-0000-4000-8000-000000000001", GenerateID(true))
}

func TestHarness(t *testing.T) {
	h := NewHarness()
	require.NoError(t, h.Interp.Register("greet",
		[]shelltypes.ParameterSpec{shelltypes.StringParam("name")},
		func(_ context.Context, args shelltypes.Args, _ io.Writer) (any, error) {
			return "hello " + args.Text(0), nil
		}, "greets"))

	require.NoError(t, h.Run("greet bob", "greet"))
	assert.Equal(t, "hello bob\nerror: argument: 0 (name): missing\n", h.Output())
	assert.Equal(t, ">>> >>> >>> ", h.Prompts.String())
	assert.Empty(t, h.Output(), "Output clears the buffer")

	r := h.Exec("greet ann")
	assert.True(t, r.OK())
	assert.Equal(t, "hello ann", r.Value)
}

func TestCreateTempDir(t *testing.T) {
	dir := CreateTempDir(t, map[string]string{
		"a.cmd":        "add 1 2\n",
		"nested/b.cmd": "help\n",
	})

	data, err := os.ReadFile(filepath.Join(dir, "nested", "b.cmd"))
	require.NoError(t, err)
	assert.Equal(t, "help\n", string(data))
}
