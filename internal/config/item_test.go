package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnyToBool(t *testing.T) {
	for _, val := range []string{"", "off", "No", "FALSE", "0"} {
		v, err := AnyToBool(val)
		require.NoError(t, err, val)
		assert.False(t, v, val)
	}
	for _, val := range []string{"on", "Yes", "TRUE", "1", "-5", "42"} {
		v, err := AnyToBool(val)
		require.NoError(t, err, val)
		assert.True(t, v, val)
	}
	_, err := AnyToBool("maybe")
	assert.Error(t, err)
}

func TestItem_Coerced(t *testing.T) {
	plain := NewItem("7")
	v, err := plain.Coerced()
	require.NoError(t, err)
	assert.Equal(t, "7", v, "no coercer keeps the pristine string")

	typed := Item{Value: "7", Coerce: func(s string) (any, error) {
		return len(s), nil
	}}
	v, err = typed.Coerced()
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}

func TestItem_Bool(t *testing.T) {
	v, err := NewItem("yes").Bool()
	require.NoError(t, err)
	assert.True(t, v)

	v, err = Item{Value: "anything", Coerce: func(string) (any, error) {
		return true, nil
	}}.Bool()
	require.NoError(t, err)
	assert.True(t, v)

	_, err = Item{Value: "x", Coerce: func(string) (any, error) {
		return 3, nil
	}}.Bool()
	assert.Error(t, err, "non-bool coercer result must not pass as a bool")

	boom := errors.New("boom")
	_, err = Item{Value: "x", Coerce: func(string) (any, error) {
		return nil, boom
	}}.Bool()
	assert.ErrorIs(t, err, boom)
}

func TestDefaults(t *testing.T) {
	d := GetDefaults()
	assert.Same(t, d, GetDefaults())

	vals, err := d.GetAll("core.bare")
	require.NoError(t, err)
	require.Len(t, vals, 1)
	v, err := vals[0].Bool()
	require.NoError(t, err)
	assert.False(t, v)

	vals, err = d.GetAll("extensions.worktreeConfig")
	require.NoError(t, err)
	require.Len(t, vals, 1)
	assert.NotNil(t, vals[0].Coerce)
}

func TestDefaults_KeyNormalization(t *testing.T) {
	d := GetDefaults()

	// queries follow git-config's case rules, matching the git-backed
	// scopes: section and variable names are case-insensitive
	for _, key := range []string{
		"extensions.worktreeconfig",
		"extensions.worktreeConfig",
		"Extensions.WorktreeConfig",
	} {
		vals, err := d.GetAll(key)
		require.NoError(t, err, key)
		require.Len(t, vals, 1, key)
		assert.Equal(t, "false", vals[0].Value, key)
	}

	keys, err := d.Keys()
	require.NoError(t, err)
	assert.Contains(t, keys, "extensions.worktreeconfig")
}
