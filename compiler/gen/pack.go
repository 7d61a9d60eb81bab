package gen

import (
	"fmt"

	"github.com/blizzardhq/blizzgen/cfmt"
	"github.com/blizzardhq/blizzgen/schema"
)

// compilePack appends statements that construct a tagged wire Value from
// the native variable valueVar, serialize it into a freshly allocated
// buffer, and wrap it in a leaf-value envelope named outVar. Only Basic
// leaf kinds are packable; composite result kinds are an explicit
// generation-time error, not a silent no-op.
func compilePack(s *schema.Schema, valueVar, outVar string, g *cfmt.Group) error {
	g.Stmtf("Blizzard__Value__Value %s_value = BLIZZARD__VALUE__VALUE__INIT", outVar)
	switch s.Kind {
	case schema.KindBasic:
		switch s.Basic {
		case schema.TypeInteger:
			g.Stmtf("%s_value.kind_case = BLIZZARD__VALUE__VALUE__KIND_INTEGER", outVar)
			g.Stmtf("%s_value.integer = %s", outVar, valueVar)
		case schema.TypeString:
			g.Stmtf("%s_value.kind_case = BLIZZARD__VALUE__VALUE__KIND_STRING", outVar)
			g.Stmtf("%s_value.string = strdup(%s)", outVar, valueVar)
		case schema.TypeAnyObject:
			g.Stmtf("%s_value.kind_case = BLIZZARD__VALUE__VALUE__KIND_OBJECT", outVar)
			g.Stmtf("%s_value.object = %s", outVar, valueVar)
		default:
			return NewSchemaError("", "", "Unsupported basic type for packing: "+string(s.Basic), ErrInvalidSchema)
		}
	case schema.KindList:
		return NewNotImplementedError("", "List result packing")
	case schema.KindObject:
		return NewNotImplementedError("", "Object result packing")
	case schema.KindOptional:
		return NewNotImplementedError("", "Optional result packing")
	default:
		return NewGenerationError("pack", "", fmt.Sprintf("unhandled schema kind %d", s.Kind), nil)
	}

	sizeVar := outVar + "_size"
	bufVar := outVar + "_buf"
	g.Stmtf("size_t %s = blizzard__value__value__get_packed_size(&%s_value)", sizeVar, outVar)
	g.Stmtf("uint8_t* %s = malloc(%s)", bufVar, sizeVar)
	noMem := g.If("!%s", bufVar)
	fail(noMem, abortRequest, "Malloc failed for response buffer")
	g.Stmtf("blizzard__value__value__pack(&%s_value, %s)", outVar, bufVar)
	g.Stmtf("Google__Protobuf__Any* %s = malloc(sizeof(Google__Protobuf__Any))", outVar)
	g.Stmtf("google__protobuf__any__init(%s)", outVar)
	g.Stmtf("%s->type_url = %q", outVar, valuePayload.typeURL)
	g.Stmtf("%s->value.len = %s", outVar, sizeVar)
	g.Stmtf("%s->value.data = %s", outVar, bufVar)
	return nil
}
