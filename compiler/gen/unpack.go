package gen

import (
	"fmt"
	"strings"

	"github.com/blizzardhq/blizzgen/cfmt"
	"github.com/blizzardhq/blizzgen/schema"
)

// Binding is one flattened native variable produced by the unpack
// compiler.
type Binding struct {
	// Type is the native C type of the bound variable.
	Type string
	// Name is the variable name.
	Name string
}

// failMode decides what the generated validation-failure path does after
// sending the error response. At the top level and inside objects a
// failure aborts handling of the whole request; inside a list loop it
// skips only the current element. The mode is threaded through the
// recursive compiler so the decision is structural, never a textual
// rewrite of generated statements.
type failMode uint8

const (
	abortRequest failMode = iota
	skipElement
)

func (m failMode) stmt() string {
	if m == skipElement {
		return "continue"
	}
	return "return"
}

// fail appends the validation-failure protocol: send an error response
// carrying the in-flight request id and a fixed message, then abort the
// request (or skip the element, per mode). The generated host process is
// never terminated.
func fail(g *cfmt.Group, mode failMode, message string) {
	g.Stmtf("send_error_response(sock, id, %q)", message)
	g.Stmtf("%s", mode.stmt())
}

// compileUnpack appends validating extraction statements for a wire value
// reference against the schema and returns the flattened native bindings.
// valueRef is a C expression for a Blizzard__Value__Value*, outPrefix the
// stem for bound variable names.
func compileUnpack(s *schema.Schema, valueRef, outPrefix string, mode failMode, g *cfmt.Group) ([]Binding, error) {
	switch s.Kind {
	case schema.KindBasic:
		return unpackBasic(s.Basic, valueRef, outPrefix, mode, g)
	case schema.KindList:
		return unpackList(s, valueRef, outPrefix, mode, g)
	case schema.KindObject:
		return unpackObject(s, valueRef, outPrefix, mode, g)
	case schema.KindOptional:
		return unpackOptional(s, valueRef, outPrefix, mode, g)
	default:
		return nil, NewGenerationError("unpack", "", fmt.Sprintf("unhandled schema kind %d", s.Kind), nil)
	}
}

func unpackBasic(t schema.BasicType, valueRef, outPrefix string, mode failMode, g *cfmt.Group) ([]Binding, error) {
	switch t {
	case schema.TypeInteger:
		then, els := g.IfElse("%s && %s->kind_case == BLIZZARD__VALUE__VALUE__KIND_INTEGER", valueRef, valueRef)
		then.Stmtf("int64_t %s = %s->integer", outPrefix, valueRef)
		fail(els, mode, "Expected integer value")
		return []Binding{{Type: "int64_t", Name: outPrefix}}, nil
	case schema.TypeString:
		// Owned copy: the wire value's lifetime is not guaranteed to
		// outlive extraction.
		g.Stmtf("char* %s = NULL", outPrefix)
		then, els := g.IfElse("%s && %s->kind_case == BLIZZARD__VALUE__VALUE__KIND_STRING", valueRef, valueRef)
		then.Stmtf("%s = strdup(%s->string)", outPrefix, valueRef)
		fail(els, mode, "Expected string value")
		return []Binding{{Type: "char*", Name: outPrefix}}, nil
	case schema.TypeAnyObject:
		// Non-owning reference; callers must not retain it beyond the
		// handling scope without their own copy.
		g.Stmtf("Blizzard__Value__Object* %s = NULL", outPrefix)
		then, els := g.IfElse("%s && %s->kind_case == BLIZZARD__VALUE__VALUE__KIND_OBJECT", valueRef, valueRef)
		then.Stmtf("%s = %s->object", outPrefix, valueRef)
		fail(els, mode, "Expected object value")
		return []Binding{{Type: "Blizzard__Value__Object*", Name: outPrefix}}, nil
	default:
		return nil, NewSchemaError("", "", "Unsupported basic type: "+string(t), ErrInvalidSchema)
	}
}

func unpackList(s *schema.Schema, valueRef, outPrefix string, mode failMode, g *cfmt.Group) ([]Binding, error) {
	itemsVar := outPrefix + "_items"
	nVar := "n_" + itemsVar

	// Probe-compile the item schema once in a throwaway scope to learn
	// its native element type before emitting the allocation.
	probe := cfmt.NewGroup()
	probeBindings, err := compileUnpack(s.Items, "list->elements[i]", "temp_item", skipElement, probe)
	if err != nil {
		return nil, err
	}
	itemType := "void*"
	if len(probeBindings) > 0 {
		itemType = probeBindings[0].Type
	}

	g.Stmtf("size_t %s = 0", nVar)
	g.Stmtf("%s* %s = NULL", itemType, itemsVar)
	then, els := g.IfElse("%s && %s->kind_case == BLIZZARD__VALUE__VALUE__KIND_LIST", valueRef, valueRef)
	then.Stmtf("Blizzard__Value__List* list = %s->list", valueRef)
	then.Stmtf("%s = list->n_elements", nVar)
	then.Stmtf("%s = malloc(%s * sizeof(%s))", itemsVar, nVar, itemType)
	noMem := then.If("!%s", itemsVar)
	fail(noMem, mode, "Malloc failed for list items")
	loop := then.Forf("size_t i = 0; i < %s; i++", nVar)
	// Inside the loop a failed element skips to the next iteration
	// instead of returning from the enclosing handler.
	if _, err := compileUnpack(s.Items, "list->elements[i]", "temp_item", skipElement, loop); err != nil {
		return nil, err
	}
	loop.Stmtf("%s[i] = temp_item", itemsVar)
	fail(els, mode, "Expected list value")
	return []Binding{
		{Type: "size_t", Name: nVar},
		{Type: itemType + "*", Name: itemsVar},
	}, nil
}

func unpackObject(s *schema.Schema, valueRef, outPrefix string, mode failMode, g *cfmt.Group) ([]Binding, error) {
	then, els := g.IfElse("%s && %s->kind_case == BLIZZARD__VALUE__VALUE__KIND_OBJECT", valueRef, valueRef)
	then.Stmtf("Blizzard__Value__Object* obj = %s->object", valueRef)
	var bindings []Binding
	for _, p := range s.Properties {
		propVar := outPrefix + "_" + p.Name
		then.Stmtf("Blizzard__Value__Value* %s_value = NULL", propVar)
		// Linear scan; wire objects are expected to be small enough
		// that building an index is not worth it.
		scan := then.Forf("size_t i = 0; i < obj->n_children; i++")
		match := scan.If("strcmp(obj->children[i]->key, %q) == 0", p.Name)
		match.Stmtf("%s_value = obj->children[i]->value", propVar)
		match.Stmtf("break")
		missing := then.If("!%s_value", propVar)
		fail(missing, mode, "Missing property "+p.Name)
		propBindings, err := compileUnpack(p.Schema, propVar+"_value", propVar, mode, then)
		if err != nil {
			return nil, err
		}
		bindings = append(bindings, propBindings...)
	}
	fail(els, mode, "Expected object value")
	return bindings, nil
}

func unpackOptional(s *schema.Schema, valueRef, outPrefix string, mode failMode, g *cfmt.Group) ([]Binding, error) {
	then, els := g.IfElse("%s && %s->kind_case != BLIZZARD__VALUE__VALUE__KIND__NOT_SET", valueRef, valueRef)
	itemBindings, err := compileUnpack(s.Item, valueRef, outPrefix, mode, then)
	if err != nil {
		return nil, err
	}
	if len(itemBindings) == 0 {
		return nil, NewGenerationError("unpack", "", "optional item produced no bindings", nil)
	}
	// Absent optionals bind the inner schema's native type to its default
	// without running the inner validation, so no failure protocol fires.
	bound := itemBindings[0]
	els.Linef("// Optional not set")
	els.Stmtf("%s %s = %s", bound.Type, outPrefix, defaultValue(bound.Type))
	return []Binding{{Type: bound.Type, Name: outPrefix}}, nil
}

// defaultValue returns the absent-optional default for a native type:
// NULL for pointer-like types, numeric zero otherwise.
func defaultValue(ctype string) string {
	if strings.Contains(ctype, "*") {
		return "NULL"
	}
	return "0"
}
