package symtab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefineThenRef(t *testing.T) {
	tab := New()
	require.NoError(t, tab.DefineLabel("start", 0x10))

	sym := tab.Ref("start")
	assert.Equal(t, uint16(0x10), sym.Addr)
	assert.True(t, sym.Resolved)
}

func TestForwardReferenceResolvesInPlace(t *testing.T) {
	tab := New()
	sym := tab.Ref("later")
	assert.False(t, sym.Resolved)

	require.NoError(t, tab.DefineLabel("later", 0x42))

	// The pointer obtained before definition must observe the mutation.
	assert.True(t, sym.Resolved)
	assert.Equal(t, uint16(0x42), sym.Addr)
}

func TestDuplicateDefinitionIsAnError(t *testing.T) {
	tab := New()
	require.NoError(t, tab.DefineLabel("start", 0))
	err := tab.DefineLabel("start", 1)
	assert.Error(t, err)
}

func TestUnresolvedAfterOnlyRef(t *testing.T) {
	tab := New()
	tab.Ref("ghost")
	unresolved := tab.Unresolved()
	require.Len(t, unresolved, 1)
	assert.Equal(t, "ghost", unresolved[0].Name)
}

func TestAllIncludesResolvedAndUnresolved(t *testing.T) {
	tab := New()
	require.NoError(t, tab.DefineLabel("a", 0))
	tab.Ref("b")
	assert.Len(t, tab.All(), 2)
}
