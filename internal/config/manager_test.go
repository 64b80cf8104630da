package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) (*Manager, *MemorySource, *MemorySource) {
	t.Helper()
	strong := NewMemorySource()
	weak := NewMemorySource()
	m := NewManager(
		NamedSource{"strong", strong},
		NamedSource{"weak", weak},
	)
	return m, strong, weak
}

func TestManager_PrecedenceOrder(t *testing.T) {
	m, strong, weak := newTestManager(t)
	require.NoError(t, weak.SetString("k", "weak-value"))
	require.NoError(t, strong.SetString("k", "strong-value"))

	it, ok := m.Get("k")
	require.True(t, ok)
	assert.Equal(t, "strong-value", it.Value, "earlier sources in the list win")
}

func TestManager_GetAll_MultiValueOrder(t *testing.T) {
	m, strong, weak := newTestManager(t)
	require.NoError(t, weak.SetString("k", "w1", "w2"))
	require.NoError(t, strong.SetString("k", "s1", "s1"))

	vals := m.GetAll("k")
	require.Len(t, vals, 4)
	// weakest first, in-source order preserved, duplicates kept
	assert.Equal(t, "w1", vals[0].Value)
	assert.Equal(t, "w2", vals[1].Value)
	assert.Equal(t, "s1", vals[2].Value)
	assert.Equal(t, "s1", vals[3].Value)
}

func TestManager_UnsetKey(t *testing.T) {
	m, _, _ := newTestManager(t)

	assert.Empty(t, m.GetAll("nowhere"))
	_, ok := m.Get("nowhere")
	assert.False(t, ok)
	assert.Equal(t, "fallback", m.GetOr("nowhere", NewItem("fallback")).Value)
}

func TestManager_ProtectedSources(t *testing.T) {
	// the protected scope must stay visible through GetFromProtectedSources
	// even when a stronger, non-protected source overrides the key
	protected := NewMemorySource()
	normal := NewMemorySource()
	m := NewManager(
		NamedSource{"normal", normal},
		NamedSource{"protected", protected},
	)
	require.NoError(t, m.DeclareSourceProtected("protected"))
	require.NoError(t, protected.SetString("k", "trusted"))
	require.NoError(t, normal.SetString("k", "override"))

	it, ok := m.Get("k")
	require.True(t, ok)
	assert.Equal(t, "override", it.Value, "normal precedes protected in merge order")

	it, ok = m.GetFromProtectedSources("k")
	require.True(t, ok)
	assert.Equal(t, "trusted", it.Value, "protected accessor bypasses the override")
}

func TestManager_DeclareSourceProtected_Unknown(t *testing.T) {
	m, _, _ := newTestManager(t)
	assert.Error(t, m.DeclareSourceProtected("no-such-source"))
}

func TestManager_OwnershipIsNotContentIdentity(t *testing.T) {
	src := NewMemorySource()
	require.NoError(t, src.SetString("k", "v"))
	m1 := NewManager(NamedSource{"s", src})
	m2 := NewManager(NamedSource{"s", src})

	assert.NotSame(t, m1, m2)
	require.NoError(t, m1.DeclareSourceProtected("s"))
	// protection declared on one manager never leaks into the other
	_, ok := m2.GetFromProtectedSources("k")
	assert.False(t, ok)
}

func TestManager_GetBool(t *testing.T) {
	m, strong, _ := newTestManager(t)

	v, err := m.GetBool("k", true)
	require.NoError(t, err)
	assert.True(t, v, "default applies when unset")

	require.NoError(t, strong.SetString("k", "yes"))
	v, err = m.GetBool("k", false)
	require.NoError(t, err)
	assert.True(t, v)

	require.NoError(t, strong.SetString("k", "junk-value"))
	_, err = m.GetBool("k", false)
	assert.Error(t, err)
}

func TestManager_String(t *testing.T) {
	m, _, _ := newTestManager(t)
	assert.Equal(t, "Manager(strong<<weak)", m.String())
}

func TestGetManager_SingletonAndProtection(t *testing.T) {
	m := GetManager()
	assert.Same(t, m, GetManager())

	names := m.SourceNames()
	assert.Equal(t, []string{SrcGitCommand, SrcGitGlobal, SrcGitSystem, SrcDefaults}, names)

	// built-in defaults are resolvable through the protected accessor
	it, ok := m.GetFromProtectedSources("core.bare")
	require.True(t, ok)
	v, err := it.Bool()
	require.NoError(t, err)
	assert.False(t, v)
}
