package gen

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blizzardhq/blizzgen/schema"
)

func TestLeaf(t *testing.T) {
	t.Run("EveryLeafComplete", func(t *testing.T) {
		for _, name := range LeafNames() {
			l, err := Leaf(name)
			require.NoError(t, err, name)
			assert.NotEmpty(t, l.Native, name)
			assert.NotEmpty(t, l.Param, name)
			assert.NotEmpty(t, l.Getter, name)
			assert.NotEmpty(t, l.Setter, name)
			assert.NotEmpty(t, l.Init, name)
		}
	})

	t.Run("String", func(t *testing.T) {
		l, err := Leaf(schema.TypeString)
		require.NoError(t, err)
		assert.Equal(t, "char*", l.Native)
		assert.Equal(t, "char const*", l.Param)
		assert.Equal(t, ClassString, l.Class)
		assert.True(t, l.NeedsFree)
		assert.False(t, l.NeedsLen)
	})

	t.Run("Bytes", func(t *testing.T) {
		l, err := Leaf(schema.TypeBytes)
		require.NoError(t, err)
		assert.True(t, l.NeedsLen)
		assert.True(t, l.NeedsFree)
		assert.Equal(t, ClassNone, l.Class)
	})

	t.Run("Integer", func(t *testing.T) {
		l, err := Leaf(schema.TypeInteger)
		require.NoError(t, err)
		assert.Equal(t, "int64_t", l.Native)
		assert.Equal(t, ClassInt, l.Class)
	})

	t.Run("Unknown", func(t *testing.T) {
		_, err := Leaf(schema.BasicType("float128"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidSchema))
		assert.Contains(t, err.Error(), "Unknown basic type: float128")
	})
}

func TestGetterExpr(t *testing.T) {
	l, err := Leaf(schema.TypeString)
	require.NoError(t, err)
	assert.Equal(t, "rbusValue_GetString(v_name, NULL)", l.GetterExpr("v_name"))
}

func TestTypeClassString(t *testing.T) {
	assert.Equal(t, "string", ClassString.String())
	assert.Equal(t, "int", ClassInt.String())
	assert.Equal(t, "uint", ClassUint.String())
	assert.Equal(t, "none", ClassNone.String())
}
