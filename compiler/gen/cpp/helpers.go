package cppgen

import (
	"strconv"
	"strings"
	"text/template"

	"github.com/go-openapi/inflect"

	"github.com/blizzardhq/blizzgen/compiler/gen"
)

var funcs = template.FuncMap{
	"indent":     indent,
	"upper":      strings.ToUpper,
	"camel":      inflect.Camelize,
	"cstr":       strconv.Quote,
	"implParams": implParams,
	"implArgs":   implArgs,
	"autoExpr":   autoExpr,
	"outSet":     outSet,
}

func indent(n int, s string) string {
	prefix := strings.Repeat("   ", n)
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = prefix + l
		}
	}
	return strings.Join(lines, "\n")
}

func implParams(m *gen.Method) string {
	var parts []string
	for _, p := range m.Props {
		parts = append(parts, p.CType+" "+p.Name)
	}
	for _, r := range m.Results {
		parts = append(parts, r.OutCType+" "+r.Name)
		if r.Len != nil {
			parts = append(parts, r.Len.CType+" "+r.Len.Name)
		}
	}
	if len(parts) == 0 {
		return "void"
	}
	return strings.Join(parts, ", ")
}

func implArgs(m *gen.Method) string {
	var parts []string
	for _, p := range m.Props {
		parts = append(parts, p.Name)
	}
	for _, r := range m.Results {
		parts = append(parts, r.CallArg)
		if r.Len != nil {
			parts = append(parts, r.Len.CallArg)
		}
	}
	return strings.Join(parts, ", ")
}

func autoExpr(r gen.ResultSlot) string {
	if r.Class == gen.ClassString {
		return "strdup(" + r.AutoFrom + ")"
	}
	return r.AutoFrom
}

func outSet(r gen.ResultSlot) string {
	var b strings.Builder
	q := strconv.Quote(r.Name)
	if r.SetFunc == "" {
		b.WriteString("   if (" + r.Name + ") {\n")
		b.WriteString("      rbusObject_SetValue(outParams, " + q + ", " + r.Name + ");\n")
		b.WriteString("      rbusValue_Release(" + r.Name + ");\n")
		b.WriteString("   }\n")
		return b.String()
	}
	out := "out_" + r.Name
	b.WriteString("   rbusValue_t " + out + ";\n")
	b.WriteString("   rbusValue_Init(&" + out + ");\n")
	switch {
	case r.NeedsLen:
		b.WriteString("   " + r.SetFunc + "(" + out + ", " + r.Name + ", " + r.Name + "_len);\n")
	case r.PassAddr:
		b.WriteString("   " + r.SetFunc + "(" + out + ", &" + r.Name + ");\n")
	default:
		b.WriteString("   " + r.SetFunc + "(" + out + ", " + r.Name + ");\n")
	}
	b.WriteString("   rbusObject_SetValue(outParams, " + q + ", " + out + ");\n")
	b.WriteString("   rbusValue_Release(" + out + ");\n")
	if r.NeedsFree {
		b.WriteString("   free(" + r.Name + ");\n")
	}
	return b.String()
}
