package gen

import (
	"errors"
	"fmt"

	"github.com/go-openapi/inflect"

	"github.com/blizzardhq/blizzgen/cfmt"
	"github.com/blizzardhq/blizzgen/compiler/load"
	"github.com/blizzardhq/blizzgen/schema"
)

// Prop is one declared parameter on the rbus marshalling surface: the
// borrowed native type and the accessor expression reading it out of an
// rbusValue_t named ValueVar.
type Prop struct {
	Name     string
	CType    string
	ValueVar string
	Expr     string
	Class    TypeClass
}

// LenParam is the paired length out-parameter of a variable-length result
// slot.
type LenParam struct {
	CType   string
	Name    string
	CallArg string
}

// ResultSlot is one flattened result of a method: its native type, rbus
// setter, out-parameter shape and auto-wire source.
type ResultSlot struct {
	Name      string
	CType     string
	Init      string
	SetFunc   string
	Class     TypeClass
	NeedsLen  bool
	PassAddr  bool
	NeedsFree bool
	// AutoFrom names the first parameter whose type class matches this
	// slot's, in declaration order; empty when no candidate exists.
	AutoFrom string
	// OutCType is the out-parameter type in the impl signature:
	// pointer-to-type by default, pointer-to-pointer for setters that
	// let the callee allocate (strings, byte buffers).
	OutCType string
	// CallArg is the argument expression at the impl call site.
	CallArg string
	// Len is non-nil when the slot carries a length out-parameter.
	Len *LenParam
}

// Method is the compiled, per-method artifact bundle handed to the output
// dialects. All code fields are rendered text ready for splicing.
type Method struct {
	Name        string
	Symbol      string
	Index       int
	Description string

	ParamsSchema *schema.Schema
	ResultSchema *schema.Schema

	ParamDescVar    string
	ParamAnyVar     string
	ResultDescVar   string
	ResultAnyVar    string
	ParamInitCode   string
	ParamAnyCode    string
	ResultInitCode  string
	ResultAnyCode   string
	ParamUnpackCode string
	ResultPackCode  string

	Params  []Binding
	Props   []Prop
	Results []ResultSlot

	ReturnType string
}

// compileMethod produces the full artifact bundle for one declared method.
// Any fault aborts generation for the whole run.
func compileMethod(idx int, def *load.MethodDef) (*Method, error) {
	m := &Method{
		Name:         def.Name,
		Symbol:       inflect.Underscore(def.Name),
		Index:        idx,
		Description:  def.Description,
		ParamsSchema: def.ParametersSchema,
		ResultSchema: def.ResultSchema,

		ParamDescVar:  fmt.Sprintf("method_%d_param_desc", idx),
		ParamAnyVar:   fmt.Sprintf("method_%d_param_any", idx),
		ResultDescVar: fmt.Sprintf("method_%d_result_desc", idx),
		ResultAnyVar:  fmt.Sprintf("method_%d_result_any", idx),
	}

	// Descriptor construction and envelope framing, parameters and result.
	paramInit := cfmt.NewGroup()
	if err := compileDescriptor(def.ParametersSchema, m.ParamDescVar, paramInit); err != nil {
		return nil, methodErr(def.Name, err)
	}
	m.ParamInitCode = paramInit.Render()
	paramAny := cfmt.NewGroup()
	frameEnvelope(m.ParamAnyVar, m.ParamDescVar, descriptorPayload, paramAny)
	m.ParamAnyCode = paramAny.Render()

	resultInit := cfmt.NewGroup()
	if err := compileDescriptor(def.ResultSchema, m.ResultDescVar, resultInit); err != nil {
		return nil, methodErr(def.Name, err)
	}
	m.ResultInitCode = resultInit.Render()
	resultAny := cfmt.NewGroup()
	frameEnvelope(m.ResultAnyVar, m.ResultDescVar, descriptorPayload, resultAny)
	m.ResultAnyCode = resultAny.Render()

	// Validating parameter extraction against the handler's wire value.
	unpack := cfmt.NewGroup()
	params, err := compileUnpack(def.ParametersSchema, "params", m.Symbol+"_param", abortRequest, unpack)
	if err != nil {
		return nil, methodErr(def.Name, err)
	}
	m.ParamUnpackCode = unpack.Render()
	m.Params = params

	// Parameter props on the rbus marshalling surface.
	if def.ParametersSchema.Kind == schema.KindObject {
		for _, p := range def.ParametersSchema.Properties {
			prop, ok, perr := propFor(p)
			if perr != nil {
				return nil, methodErr(def.Name, perr)
			}
			if ok {
				m.Props = append(m.Props, prop)
			}
		}
	}

	// Result slots: one per declared property for object results, a
	// single "result" slot otherwise.
	if def.ResultSchema.Kind == schema.KindObject {
		for _, p := range def.ResultSchema.Properties {
			slot, serr := slotFor(p.Name, p.Schema)
			if serr != nil {
				return nil, methodErr(def.Name, serr)
			}
			m.Results = append(m.Results, slot)
		}
	} else {
		slot, serr := slotFor("result", def.ResultSchema)
		if serr != nil {
			return nil, methodErr(def.Name, serr)
		}
		m.Results = append(m.Results, slot)

		// Non-object results are answered on the wire-value path too.
		pack := cfmt.NewGroup()
		if err := compilePack(def.ResultSchema, "result", "response_any", pack); err != nil {
			return nil, methodErr(def.Name, err)
		}
		m.ResultPackCode = pack.Render()
	}

	// Auto-wiring: first parameter whose type class matches, in
	// declaration order.
	for i := range m.Results {
		if m.Results[i].Class == ClassNone {
			continue
		}
		for _, p := range m.Props {
			if p.Class == m.Results[i].Class {
				m.Results[i].AutoFrom = p.Name
				break
			}
		}
	}

	for i := range m.Results {
		shapeSlot(&m.Results[i])
	}

	m.ReturnType = returnType(def.ResultSchema)
	return m, nil
}

// propFor maps a declared parameter onto the rbus accessor surface. List
// and optional parameters have no direct rbus accessor and are reachable
// only through the wire-value bindings.
func propFor(p schema.Property) (Prop, bool, error) {
	valueVar := "v_" + p.Name
	switch p.Schema.Kind {
	case schema.KindBasic:
		l, err := Leaf(p.Schema.Basic)
		if err != nil {
			return Prop{}, false, err
		}
		return Prop{
			Name:     p.Name,
			CType:    l.Param,
			ValueVar: valueVar,
			Expr:     l.GetterExpr(valueVar),
			Class:    l.Class,
		}, true, nil
	case schema.KindObject:
		return Prop{
			Name:     p.Name,
			CType:    "rbusObject_t",
			ValueVar: valueVar,
			Expr:     fmt.Sprintf("rbusValue_GetObject(%s)", valueVar),
		}, true, nil
	default:
		return Prop{}, false, nil
	}
}

// slotFor builds the canonical-table half of a result slot.
func slotFor(name string, s *schema.Schema) (ResultSlot, error) {
	switch s.Kind {
	case schema.KindBasic:
		l, err := Leaf(s.Basic)
		if err != nil {
			return ResultSlot{}, err
		}
		return ResultSlot{
			Name:      name,
			CType:     l.Native,
			Init:      l.Init,
			SetFunc:   l.Setter,
			Class:     l.Class,
			NeedsLen:  l.NeedsLen,
			PassAddr:  l.PassAddr,
			NeedsFree: l.NeedsFree,
		}, nil
	case schema.KindObject:
		return ResultSlot{
			Name:    name,
			CType:   "rbusObject_t",
			Init:    "NULL",
			SetFunc: "rbusValue_SetObject",
		}, nil
	default:
		// List and optional result slots carry an opaque rbus value; the
		// impl fills it directly.
		return ResultSlot{
			Name:  name,
			CType: "rbusValue_t",
			Init:  "NULL",
		}, nil
	}
}

// shapeSlot computes the out-parameter shape. Strings and byte buffers
// pass pointer-to-pointer so the callee may allocate; everything else
// passes a pointer to the native type.
func shapeSlot(r *ResultSlot) {
	switch {
	case r.SetFunc == "rbusValue_SetString":
		r.OutCType = "char**"
	case r.SetFunc == "rbusValue_SetBytes":
		r.OutCType = "uint8_t**"
		r.NeedsLen = true
	default:
		r.OutCType = r.CType + "*"
	}
	r.CallArg = "&" + r.Name
	if r.NeedsLen {
		r.Len = &LenParam{
			CType:   "int*",
			Name:    r.Name + "_len",
			CallArg: "&" + r.Name + "_len",
		}
	}
}

// returnType derives the interface return type of a method: the native
// leaf type for basic results (the wire object type for any_object),
// void otherwise.
func returnType(s *schema.Schema) string {
	if s.Kind != schema.KindBasic {
		return "void"
	}
	if s.Basic == schema.TypeAnyObject {
		return "Blizzard__Value__Object*"
	}
	if l, err := Leaf(s.Basic); err == nil {
		return l.Native
	}
	return "void"
}

// methodErr attributes a compile fault to its method.
func methodErr(name string, err error) error {
	var se *SchemaError
	if errors.As(err, &se) && se.Method == "" {
		se.Method = name
		return err
	}
	var ne *NotImplementedError
	if errors.As(err, &ne) && ne.Method == "" {
		ne.Method = name
		return err
	}
	return fmt.Errorf("method %q: %w", name, err)
}
