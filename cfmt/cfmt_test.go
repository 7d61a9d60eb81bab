package cfmt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/blizzardhq/blizzgen/cfmt"
)

func TestGroupRender(t *testing.T) {
	t.Run("Statements", func(t *testing.T) {
		g := cfmt.NewGroup()
		g.Stmtf("int x = %d", 1)
		g.Stmtf("x++")
		assert.Equal(t, "int x = 1;\nx++;\n", g.Render())
	})

	t.Run("RawLine", func(t *testing.T) {
		g := cfmt.NewGroup()
		g.Linef("// a comment")
		assert.Equal(t, "// a comment\n", g.Render())
	})

	t.Run("If", func(t *testing.T) {
		g := cfmt.NewGroup()
		body := g.If("!%s", "ptr")
		body.Stmtf("return")
		assert.Equal(t, "if (!ptr) {\n   return;\n}\n", g.Render())
	})

	t.Run("IfElse", func(t *testing.T) {
		g := cfmt.NewGroup()
		then, els := g.IfElse("ok")
		then.Stmtf("a()")
		els.Stmtf("b()")
		assert.Equal(t, "if (ok) {\n   a();\n} else {\n   b();\n}\n", g.Render())
	})

	t.Run("EmptyElseOmitted", func(t *testing.T) {
		g := cfmt.NewGroup()
		then, _ := g.IfElse("ok")
		then.Stmtf("a()")
		assert.Equal(t, "if (ok) {\n   a();\n}\n", g.Render())
	})

	t.Run("For", func(t *testing.T) {
		g := cfmt.NewGroup()
		loop := g.Forf("size_t i = 0; i < %s; i++", "n")
		loop.Stmtf("use(i)")
		assert.Equal(t, "for (size_t i = 0; i < n; i++) {\n   use(i);\n}\n", g.Render())
	})

	t.Run("NestedIndent", func(t *testing.T) {
		g := cfmt.NewGroup()
		outer := g.If("a")
		inner := outer.If("b")
		inner.Stmtf("c()")
		assert.Equal(t, "if (a) {\n   if (b) {\n      c();\n   }\n}\n", g.Render())
	})
}

func TestGroupAppend(t *testing.T) {
	a := cfmt.NewGroup()
	a.Stmtf("first()")
	b := cfmt.NewGroup()
	b.Stmtf("second()")
	a.Append(b)
	assert.Equal(t, "first();\nsecond();\n", a.Render())
}

func TestGroupEmpty(t *testing.T) {
	g := cfmt.NewGroup()
	assert.True(t, g.Empty())
	g.Stmtf("x()")
	assert.False(t, g.Empty())
}
