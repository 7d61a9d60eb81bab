package gen

import (
	"strings"

	"github.com/blizzardhq/blizzgen/schema"
)

// TypeClass is the coarse bucket used to match result slots to parameters
// for auto-wiring.
type TypeClass uint8

const (
	ClassNone TypeClass = iota
	ClassString
	ClassInt
	ClassUint
)

// String returns the class name used in manifests and tests.
func (c TypeClass) String() string {
	switch c {
	case ClassString:
		return "string"
	case ClassInt:
		return "int"
	case ClassUint:
		return "uint"
	default:
		return "none"
	}
}

// LeafType is one row of the canonical leaf-type table. It covers both
// directions (reading a parameter value, writing a result value) and both
// value models (the tagged Blizzard wire Value and the rbus parameter
// marshalling API).
type LeafType struct {
	// Native is the owned result-side C type, e.g. "char*".
	Native string
	// Param is the borrowed parameter-side C type, e.g. "char const*".
	Param string
	// Getter is the rbus accessor expression with a {v} placeholder for
	// the rbusValue_t variable.
	Getter string
	// Setter is the rbus mutator function writing a native variable into
	// an rbusValue_t.
	Setter string
	// Init is the initial value for result slot declarations.
	Init string
	// Class drives auto-wiring; ClassNone slots are never auto-wired.
	Class TypeClass
	// NeedsLen marks variable-length buffers that carry a paired length
	// out-parameter.
	NeedsLen bool
	// PassAddr marks value types whose setter mutates them in place and
	// therefore takes the variable's address.
	PassAddr bool
	// NeedsFree marks owned heap allocations that the request handler
	// must release after the response is sent.
	NeedsFree bool
}

// GetterExpr returns the getter expression for the given rbus value
// variable.
func (l LeafType) GetterExpr(valueVar string) string {
	return strings.ReplaceAll(l.Getter, "{v}", valueVar)
}

// leafTypes is the one canonical table keyed by normalized leaf name.
var leafTypes = map[schema.BasicType]LeafType{
	schema.TypeBoolean: {
		Native: "bool",
		Param:  "bool",
		Getter: "rbusValue_GetBoolean({v})",
		Setter: "rbusValue_SetBoolean",
		Init:   "false",
	},
	schema.TypeInteger: {
		Native: "int64_t",
		Param:  "int64_t",
		Getter: "rbusValue_GetInt64({v})",
		Setter: "rbusValue_SetInt64",
		Init:   "0",
		Class:  ClassInt,
	},
	schema.TypeDouble: {
		Native: "double",
		Param:  "double",
		Getter: "rbusValue_GetDouble({v})",
		Setter: "rbusValue_SetDouble",
		Init:   "0",
	},
	schema.TypeString: {
		Native:    "char*",
		Param:     "char const*",
		Getter:    "rbusValue_GetString({v}, NULL)",
		Setter:    "rbusValue_SetString",
		Init:      "NULL",
		Class:     ClassString,
		NeedsFree: true,
	},
	schema.TypeBytes: {
		Native:    "uint8_t*",
		Param:     "uint8_t const*",
		Getter:    "rbusValue_GetBytes({v}, NULL)",
		Setter:    "rbusValue_SetBytes",
		Init:      "NULL",
		NeedsLen:  true,
		NeedsFree: true,
	},
	schema.TypeAnyObject: {
		Native: "rbusObject_t",
		Param:  "rbusObject_t",
		Getter: "rbusValue_GetObject({v})",
		Setter: "rbusValue_SetObject",
		Init:   "NULL",
	},
}

// Leaf returns the canonical table entry for a leaf type. An unknown leaf
// is a generation-time fault.
func Leaf(t schema.BasicType) (LeafType, error) {
	l, ok := leafTypes[t]
	if !ok {
		return LeafType{}, NewSchemaError("", "", "Unknown basic type: "+string(t), ErrInvalidSchema)
	}
	return l, nil
}

// LeafNames returns the normalized leaf names present in the canonical
// table.
func LeafNames() []schema.BasicType {
	names := make([]schema.BasicType, 0, len(leafTypes))
	for t := range leafTypes {
		names = append(names, t)
	}
	return names
}
