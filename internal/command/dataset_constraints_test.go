package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datalad/datalad-core/internal/constraints"
)

func TestEnsureDataset_WrapsSpec(t *testing.T) {
	c := NewEnsureDataset()

	v, err := c.Validate("/some/path")
	require.NoError(t, err)
	ds, ok := v.(*Dataset)
	require.True(t, ok)
	assert.Equal(t, "/some/path", ds.PristineSpec())

	v, err = c.Validate(nil)
	require.NoError(t, err)
	require.IsType(t, (*Dataset)(nil), v)
}

func TestEnsureDataset_IdempotentForDataset(t *testing.T) {
	c := NewEnsureDataset()
	ds, err := NewDataset("/some/path")
	require.NoError(t, err)

	v, err := c.Validate(ds)
	require.NoError(t, err)
	assert.Same(t, ds, v, "existing datasets pass through unwrapped")
}

func TestEnsureDataset_RejectsUnsupported(t *testing.T) {
	c := NewEnsureDataset()
	_, err := c.Validate(3.14)
	require.Error(t, err)
	assert.True(t, constraints.IsConstraintError(err))

	var ce *constraints.ConstraintError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, 3.14, ce.Value)
}
