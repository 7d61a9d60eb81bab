package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/blizzardhq/blizzgen/schema"
)

func decode(t *testing.T, doc string) *schema.Schema {
	t.Helper()
	s := &schema.Schema{}
	require.NoError(t, yaml.Unmarshal([]byte(doc), s))
	return s
}

func TestSchemaDecode(t *testing.T) {
	t.Run("Basic", func(t *testing.T) {
		s := decode(t, "kind: basic\nbasic: integer\n")
		assert.Equal(t, schema.KindBasic, s.Kind)
		assert.Equal(t, schema.TypeInteger, s.Basic)
	})

	t.Run("List", func(t *testing.T) {
		s := decode(t, `
kind: list
list:
  items:
    kind: basic
    basic: string
`)
		require.Equal(t, schema.KindList, s.Kind)
		require.NotNil(t, s.Items)
		assert.Equal(t, schema.TypeString, s.Items.Basic)
	})

	t.Run("Object", func(t *testing.T) {
		s := decode(t, `
kind: object
object:
  properties:
    name:
      kind: basic
      basic: string
    count:
      kind: basic
      basic: integer
`)
		require.Equal(t, schema.KindObject, s.Kind)
		require.Len(t, s.Properties, 2)
		name, ok := s.Property("name")
		require.True(t, ok)
		assert.Equal(t, schema.TypeString, name.Basic)
		_, ok = s.Property("missing")
		assert.False(t, ok)
	})

	t.Run("Optional", func(t *testing.T) {
		s := decode(t, `
kind: optional
optional:
  item:
    kind: basic
    basic: double
`)
		require.Equal(t, schema.KindOptional, s.Kind)
		require.NotNil(t, s.Item)
		assert.Equal(t, schema.TypeDouble, s.Item.Basic)
	})

	t.Run("Nested", func(t *testing.T) {
		s := decode(t, `
kind: object
object:
  properties:
    tags:
      kind: list
      list:
        items:
          kind: optional
          optional:
            item:
              kind: basic
              basic: string
`)
		tags, ok := s.Property("tags")
		require.True(t, ok)
		require.Equal(t, schema.KindList, tags.Kind)
		require.Equal(t, schema.KindOptional, tags.Items.Kind)
		assert.Equal(t, schema.TypeString, tags.Items.Item.Basic)
	})
}

func TestSchemaDecodeCaseInsensitive(t *testing.T) {
	s := decode(t, "kind: BASIC\nbasic: Integer\n")
	assert.Equal(t, schema.KindBasic, s.Kind)
	assert.Equal(t, schema.TypeInteger, s.Basic)
}

func TestSchemaDecodeObjectAlias(t *testing.T) {
	// Older documents write "object" where "any_object" is meant.
	s := decode(t, "kind: basic\nbasic: object\n")
	assert.Equal(t, schema.TypeAnyObject, s.Basic)
}

func TestSchemaDecodePreservesPropertyOrder(t *testing.T) {
	s := decode(t, `
kind: object
object:
  properties:
    zebra: {kind: basic, basic: string}
    alpha: {kind: basic, basic: integer}
    mango: {kind: basic, basic: boolean}
`)
	names := make([]string, 0, len(s.Properties))
	for _, p := range s.Properties {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"zebra", "alpha", "mango"}, names)
}

func TestSchemaDecodeErrors(t *testing.T) {
	t.Run("UnknownKind", func(t *testing.T) {
		s := &schema.Schema{}
		err := yaml.Unmarshal([]byte("kind: blob\n"), s)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Unknown schema kind: blob")
	})

	t.Run("UnknownBasic", func(t *testing.T) {
		s := &schema.Schema{}
		err := yaml.Unmarshal([]byte("kind: basic\nbasic: float128\n"), s)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Unknown basic type: float128")
	})

	t.Run("UnknownKindPath", func(t *testing.T) {
		s := &schema.Schema{}
		err := yaml.Unmarshal([]byte(`
kind: object
object:
  properties:
    bad:
      kind: tuple
`), s)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Unknown schema kind: tuple")
		assert.Contains(t, err.Error(), "properties.bad")
	})

	t.Run("MissingKind", func(t *testing.T) {
		s := &schema.Schema{}
		err := yaml.Unmarshal([]byte("basic: integer\n"), s)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing kind")
	})

	t.Run("ListWithoutItems", func(t *testing.T) {
		s := &schema.Schema{}
		err := yaml.Unmarshal([]byte("kind: list\nlist: {}\n"), s)
		require.Error(t, err)
	})
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "basic", schema.KindBasic.String())
	assert.Equal(t, "list", schema.KindList.String())
	assert.Equal(t, "object", schema.KindObject.String())
	assert.Equal(t, "optional", schema.KindOptional.String())
}
