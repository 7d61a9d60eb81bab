package gen

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blizzardhq/blizzgen/cfmt"
	"github.com/blizzardhq/blizzgen/schema"
)

func renderPack(t *testing.T, s *schema.Schema) string {
	t.Helper()
	g := cfmt.NewGroup()
	require.NoError(t, compilePack(s, "result", "response_any", g))
	return g.Render()
}

func TestCompilePack(t *testing.T) {
	t.Run("Integer", func(t *testing.T) {
		code := renderPack(t, schema.NewBasic(schema.TypeInteger))
		assert.Contains(t, code, "Blizzard__Value__Value response_any_value = BLIZZARD__VALUE__VALUE__INIT;")
		assert.Contains(t, code, "response_any_value.kind_case = BLIZZARD__VALUE__VALUE__KIND_INTEGER;")
		assert.Contains(t, code, "response_any_value.integer = result;")
	})

	t.Run("String", func(t *testing.T) {
		code := renderPack(t, schema.NewBasic(schema.TypeString))
		assert.Contains(t, code, "response_any_value.kind_case = BLIZZARD__VALUE__VALUE__KIND_STRING;")
		assert.Contains(t, code, "response_any_value.string = strdup(result);")
	})

	t.Run("AnyObject", func(t *testing.T) {
		code := renderPack(t, schema.NewBasic(schema.TypeAnyObject))
		assert.Contains(t, code, "response_any_value.kind_case = BLIZZARD__VALUE__VALUE__KIND_OBJECT;")
		assert.Contains(t, code, "response_any_value.object = result;")
	})

	t.Run("Envelope", func(t *testing.T) {
		code := renderPack(t, schema.NewBasic(schema.TypeInteger))
		assert.Contains(t, code, "size_t response_any_size = blizzard__value__value__get_packed_size(&response_any_value);")
		assert.Contains(t, code, "uint8_t* response_any_buf = malloc(response_any_size);")
		assert.Contains(t, code, `send_error_response(sock, id, "Malloc failed for response buffer");`)
		assert.Contains(t, code, "blizzard__value__value__pack(&response_any_value, response_any_buf);")
		assert.Contains(t, code, "Google__Protobuf__Any* response_any = malloc(sizeof(Google__Protobuf__Any));")
		assert.Contains(t, code, "google__protobuf__any__init(response_any);")
		assert.Contains(t, code, `response_any->type_url = "type.googleapis.com/blizzard.value.Value";`)
		assert.Contains(t, code, "response_any->value.len = response_any_size;")
		assert.Contains(t, code, "response_any->value.data = response_any_buf;")
	})

	t.Run("UnsupportedLeaf", func(t *testing.T) {
		g := cfmt.NewGroup()
		err := compilePack(schema.NewBasic(schema.TypeDouble), "result", "response_any", g)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Unsupported basic type for packing: double")
	})

	t.Run("CompositeKinds", func(t *testing.T) {
		for _, tt := range []struct {
			s       *schema.Schema
			feature string
		}{
			{schema.NewList(schema.NewBasic(schema.TypeInteger)), "List result packing"},
			{schema.NewObject(schema.Prop("x", schema.NewBasic(schema.TypeInteger))), "Object result packing"},
			{schema.NewOptional(schema.NewBasic(schema.TypeInteger)), "Optional result packing"},
		} {
			g := cfmt.NewGroup()
			err := compilePack(tt.s, "result", "response_any", g)
			require.Error(t, err, tt.feature)
			var nie *NotImplementedError
			require.True(t, errors.As(err, &nie), tt.feature)
			assert.Equal(t, tt.feature, nie.Feature)
		}
	})
}
