package gen

import (
	"fmt"
	"strings"

	"github.com/blizzardhq/blizzgen/cfmt"
	"github.com/blizzardhq/blizzgen/schema"
)

// compileDescriptor appends statements that build a static protobuf-c
// descriptor tree mirroring the schema. Every recursive call derives its
// variable name from the parent plus a fixed suffix (property index,
// "_items", "_item"), which is the sole mechanism preventing symbol
// collisions within one method.
func compileDescriptor(s *schema.Schema, varName string, g *cfmt.Group) error {
	g.Stmtf("static Blizzard__Descriptor__Descriptor %s = BLIZZARD__DESCRIPTOR__DESCRIPTOR__INIT", varName)
	switch s.Kind {
	case schema.KindBasic:
		g.Stmtf("%s.kind_case = BLIZZARD__DESCRIPTOR__DESCRIPTOR__KIND_BASIC", varName)
		g.Stmtf("%s.basic = BLIZZARD__DESCRIPTOR__BASIC_TYPES__%s", varName, strings.ToUpper(string(s.Basic)))
	case schema.KindList:
		listVar := varName + "_list"
		itemsVar := varName + "_items"
		g.Stmtf("static Blizzard__Descriptor__List %s = BLIZZARD__DESCRIPTOR__LIST__INIT", listVar)
		if err := compileDescriptor(s.Items, itemsVar, g); err != nil {
			return err
		}
		g.Stmtf("%s.items = &%s", listVar, itemsVar)
		g.Stmtf("%s.list = &%s", varName, listVar)
		g.Stmtf("%s.kind_case = BLIZZARD__DESCRIPTOR__DESCRIPTOR__KIND_LIST", varName)
	case schema.KindObject:
		objectVar := varName + "_object"
		entriesVar := varName + "_entries"
		g.Stmtf("static Blizzard__Descriptor__Object %s = BLIZZARD__DESCRIPTOR__OBJECT__INIT", objectVar)
		entries := make([]string, 0, len(s.Properties))
		for i, p := range s.Properties {
			entryVar := fmt.Sprintf("%s_prop_%d", varName, i)
			valueVar := fmt.Sprintf("%s_value_%d", varName, i)
			g.Stmtf("static Blizzard__Descriptor__Object__PropertiesEntry %s = BLIZZARD__DESCRIPTOR__OBJECT__PROPERTIES_ENTRY__INIT", entryVar)
			g.Stmtf("%s.key = %q", entryVar, p.Name)
			if err := compileDescriptor(p.Schema, valueVar, g); err != nil {
				return err
			}
			g.Stmtf("%s.value = &%s", entryVar, valueVar)
			entries = append(entries, "&"+entryVar)
		}
		g.Stmtf("static Blizzard__Descriptor__Object__PropertiesEntry* %s[] = {%s}", entriesVar, strings.Join(entries, ", "))
		g.Stmtf("%s.n_properties = sizeof(%s) / sizeof(%s[0])", objectVar, entriesVar, entriesVar)
		g.Stmtf("%s.properties = %s", objectVar, entriesVar)
		g.Stmtf("%s.object = &%s", varName, objectVar)
		g.Stmtf("%s.kind_case = BLIZZARD__DESCRIPTOR__DESCRIPTOR__KIND_OBJECT", varName)
	case schema.KindOptional:
		optionalVar := varName + "_optional"
		itemVar := varName + "_item"
		g.Stmtf("static Blizzard__Descriptor__Optional %s = BLIZZARD__DESCRIPTOR__OPTIONAL__INIT", optionalVar)
		if err := compileDescriptor(s.Item, itemVar, g); err != nil {
			return err
		}
		g.Stmtf("%s.item = &%s", optionalVar, itemVar)
		g.Stmtf("%s.optional = &%s", varName, optionalVar)
		g.Stmtf("%s.kind_case = BLIZZARD__DESCRIPTOR__DESCRIPTOR__KIND_OPTIONAL", varName)
	default:
		return NewGenerationError("descriptor", "", fmt.Sprintf("unhandled schema kind %d", s.Kind), nil)
	}
	return nil
}
