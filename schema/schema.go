// Package schema defines the recursive method-schema model used by the
// blizzgen code generator. A schema describes the shape of a method's
// parameters or result with four kinds: Basic (leaf), List, Object and
// Optional. Schemas are decoded from YAML mapping nodes; Object property
// order follows declaration order in the document.
package schema

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Kind is the closed set of schema node kinds.
type Kind uint8

const (
	KindBasic Kind = iota
	KindList
	KindObject
	KindOptional
)

// String returns the normalized kind name as it appears in input documents.
func (k Kind) String() string {
	switch k {
	case KindBasic:
		return "basic"
	case KindList:
		return "list"
	case KindObject:
		return "object"
	case KindOptional:
		return "optional"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// BasicType is a normalized leaf-type name.
type BasicType string

// Leaf types understood by the generator.
const (
	TypeBoolean   BasicType = "boolean"
	TypeInteger   BasicType = "integer"
	TypeDouble    BasicType = "double"
	TypeString    BasicType = "string"
	TypeBytes     BasicType = "bytes"
	TypeAnyObject BasicType = "any_object"
)

// basicTypes is the set of recognized leaf names. "object" is accepted as
// an alias of any_object for compatibility with older plugin documents.
var basicTypes = map[string]BasicType{
	"boolean":    TypeBoolean,
	"integer":    TypeInteger,
	"double":     TypeDouble,
	"string":     TypeString,
	"bytes":      TypeBytes,
	"any_object": TypeAnyObject,
	"object":     TypeAnyObject,
}

// Schema is one node of the recursive method-schema tree. Exactly one
// variant is populated, selected by Kind.
type Schema struct {
	Kind Kind
	// Basic holds the leaf type when Kind is KindBasic.
	Basic BasicType
	// Items holds the element schema when Kind is KindList.
	Items *Schema
	// Properties holds the ordered property list when Kind is KindObject.
	Properties []Property
	// Item holds the wrapped schema when Kind is KindOptional.
	Item *Schema
}

// Property is a named child schema of an Object node.
type Property struct {
	Name   string
	Schema *Schema
}

// NewBasic returns a Basic leaf schema.
func NewBasic(t BasicType) *Schema {
	return &Schema{Kind: KindBasic, Basic: t}
}

// NewList returns a List schema with the given item schema.
func NewList(items *Schema) *Schema {
	return &Schema{Kind: KindList, Items: items}
}

// NewObject returns an Object schema with the given properties, in order.
func NewObject(props ...Property) *Schema {
	return &Schema{Kind: KindObject, Properties: props}
}

// NewOptional returns an Optional schema wrapping the given item schema.
func NewOptional(item *Schema) *Schema {
	return &Schema{Kind: KindOptional, Item: item}
}

// Prop is a convenience constructor for Object properties.
func Prop(name string, s *Schema) Property {
	return Property{Name: name, Schema: s}
}

// Property returns the schema of the named property and reports whether it
// was declared. Lookup is by key, not position.
func (s *Schema) Property(name string) (*Schema, bool) {
	for _, p := range s.Properties {
		if p.Name == name {
			return p.Schema, true
		}
	}
	return nil, false
}

// UnknownKindError reports a schema node whose kind matches none of the
// four variants. Path identifies the offending node in the document.
type UnknownKindError struct {
	Kind string
	Path string
}

func (e *UnknownKindError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("Unknown schema kind: %s (at %s)", e.Kind, e.Path)
	}
	return "Unknown schema kind: " + e.Kind
}

// UnknownBasicError reports a Basic node with an unrecognized leaf type.
type UnknownBasicError struct {
	Basic string
	Path  string
}

func (e *UnknownBasicError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("Unknown basic type: %s (at %s)", e.Basic, e.Path)
	}
	return "Unknown basic type: " + e.Basic
}

// UnmarshalYAML decodes a schema node from its YAML mapping form:
//
//	kind: basic
//	basic: integer
//
//	kind: list
//	list: {items: <schema>}
//
//	kind: object
//	object: {properties: {<name>: <schema>, ...}}
//
//	kind: optional
//	optional: {item: <schema>}
//
// Kind and leaf names are case-insensitive. Object property order is
// preserved as declared.
func (s *Schema) UnmarshalYAML(node *yaml.Node) error {
	return s.decode(node, "")
}

func (s *Schema) decode(node *yaml.Node, path string) error {
	if node.Kind == yaml.AliasNode {
		node = node.Alias
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("schema node at %s: expected a mapping, got %s", pathOr(path, "root"), nodeKind(node))
	}
	kindNode := mapValue(node, "kind")
	if kindNode == nil {
		return fmt.Errorf("schema node at %s: missing kind", pathOr(path, "root"))
	}
	kind := strings.ToLower(strings.TrimSpace(kindNode.Value))
	switch kind {
	case "basic":
		basicNode := mapValue(node, "basic")
		if basicNode == nil {
			return fmt.Errorf("schema node at %s: basic kind requires a basic type", pathOr(path, "root"))
		}
		name := strings.ToLower(strings.TrimSpace(basicNode.Value))
		t, ok := basicTypes[name]
		if !ok {
			return &UnknownBasicError{Basic: basicNode.Value, Path: path}
		}
		s.Kind = KindBasic
		s.Basic = t
	case "list":
		body := mapValue(node, "list")
		if body == nil {
			return fmt.Errorf("schema node at %s: list kind requires a list body", pathOr(path, "root"))
		}
		itemsNode := mapValue(body, "items")
		if itemsNode == nil {
			return fmt.Errorf("schema node at %s: list body requires items", pathOr(path, "root"))
		}
		items := &Schema{}
		if err := items.decode(itemsNode, joinPath(path, "items")); err != nil {
			return err
		}
		s.Kind = KindList
		s.Items = items
	case "object":
		body := mapValue(node, "object")
		if body == nil {
			return fmt.Errorf("schema node at %s: object kind requires an object body", pathOr(path, "root"))
		}
		propsNode := mapValue(body, "properties")
		if propsNode == nil {
			return fmt.Errorf("schema node at %s: object body requires properties", pathOr(path, "root"))
		}
		if propsNode.Kind != yaml.MappingNode {
			return fmt.Errorf("schema node at %s: properties must be a mapping", pathOr(path, "root"))
		}
		props := make([]Property, 0, len(propsNode.Content)/2)
		for i := 0; i+1 < len(propsNode.Content); i += 2 {
			key := propsNode.Content[i].Value
			child := &Schema{}
			if err := child.decode(propsNode.Content[i+1], joinPath(path, "properties."+key)); err != nil {
				return err
			}
			props = append(props, Property{Name: key, Schema: child})
		}
		s.Kind = KindObject
		s.Properties = props
	case "optional":
		body := mapValue(node, "optional")
		if body == nil {
			return fmt.Errorf("schema node at %s: optional kind requires an optional body", pathOr(path, "root"))
		}
		itemNode := mapValue(body, "item")
		if itemNode == nil {
			return fmt.Errorf("schema node at %s: optional body requires an item", pathOr(path, "root"))
		}
		item := &Schema{}
		if err := item.decode(itemNode, joinPath(path, "item")); err != nil {
			return err
		}
		s.Kind = KindOptional
		s.Item = item
	default:
		return &UnknownKindError{Kind: kindNode.Value, Path: path}
	}
	return nil
}

// mapValue returns the value node for the given key of a mapping node,
// or nil when the key is absent.
func mapValue(node *yaml.Node, key string) *yaml.Node {
	if node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			v := node.Content[i+1]
			if v.Kind == yaml.AliasNode {
				v = v.Alias
			}
			return v
		}
	}
	return nil
}

func joinPath(path, elem string) string {
	if path == "" {
		return elem
	}
	return path + "." + elem
}

func pathOr(path, fallback string) string {
	if path == "" {
		return fallback
	}
	return path
}

func nodeKind(node *yaml.Node) string {
	switch node.Kind {
	case yaml.ScalarNode:
		return "a scalar"
	case yaml.SequenceNode:
		return "a sequence"
	case yaml.MappingNode:
		return "a mapping"
	default:
		return "an unsupported node"
	}
}
