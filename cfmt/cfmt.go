// Package cfmt provides a small structured builder for C statement
// sequences. Compilers append statements and nested control-flow blocks
// to a Group, and a separate rendering pass produces the final text.
// Indentation is applied only at render time and is purely cosmetic.
package cfmt

import (
	"fmt"
	"strings"
)

// indentUnit matches the three-space indentation of the emitted plugin
// sources.
const indentUnit = "   "

type node interface {
	render(b *strings.Builder, depth int)
}

// Group is an ordered sequence of statements and nested blocks.
type Group struct {
	nodes []node
}

// NewGroup returns an empty statement group.
func NewGroup() *Group {
	return &Group{}
}

// Stmtf appends a single statement; the trailing semicolon is added by
// the builder.
func (g *Group) Stmtf(format string, args ...any) *Group {
	g.nodes = append(g.nodes, line(fmt.Sprintf(format, args...) + ";"))
	return g
}

// Linef appends a raw line (comments, preprocessor directives, labels).
func (g *Group) Linef(format string, args ...any) *Group {
	g.nodes = append(g.nodes, line(fmt.Sprintf(format, args...)))
	return g
}

// If appends an if statement and returns its body group.
func (g *Group) If(condf string, args ...any) *Group {
	stmt := &ifStmt{cond: fmt.Sprintf(condf, args...), then: NewGroup()}
	g.nodes = append(g.nodes, stmt)
	return stmt.then
}

// IfElse appends an if/else statement and returns both body groups. The
// else branch is omitted from the output when it remains empty.
func (g *Group) IfElse(condf string, args ...any) (then, els *Group) {
	stmt := &ifStmt{cond: fmt.Sprintf(condf, args...), then: NewGroup(), els: NewGroup()}
	g.nodes = append(g.nodes, stmt)
	return stmt.then, stmt.els
}

// Forf appends a for loop with the given header and returns its body group.
func (g *Group) Forf(headerf string, args ...any) *Group {
	stmt := &forStmt{header: fmt.Sprintf(headerf, args...), body: NewGroup()}
	g.nodes = append(g.nodes, stmt)
	return stmt.body
}

// Append moves the contents of other to the end of g.
func (g *Group) Append(other *Group) *Group {
	g.nodes = append(g.nodes, other.nodes...)
	return g
}

// Empty reports whether the group holds no statements.
func (g *Group) Empty() bool {
	return len(g.nodes) == 0
}

// Render produces the group's text with one line per statement. Nested
// blocks are indented one unit per depth level.
func (g *Group) Render() string {
	var b strings.Builder
	g.render(&b, 0)
	return b.String()
}

func (g *Group) render(b *strings.Builder, depth int) {
	for _, n := range g.nodes {
		n.render(b, depth)
	}
}

type line string

func (l line) render(b *strings.Builder, depth int) {
	b.WriteString(strings.Repeat(indentUnit, depth))
	b.WriteString(string(l))
	b.WriteByte('\n')
}

type ifStmt struct {
	cond string
	then *Group
	els  *Group
}

func (s *ifStmt) render(b *strings.Builder, depth int) {
	pad := strings.Repeat(indentUnit, depth)
	b.WriteString(pad)
	b.WriteString("if (")
	b.WriteString(s.cond)
	b.WriteString(") {\n")
	s.then.render(b, depth+1)
	if s.els != nil && !s.els.Empty() {
		b.WriteString(pad)
		b.WriteString("} else {\n")
		s.els.render(b, depth+1)
	}
	b.WriteString(pad)
	b.WriteString("}\n")
}

type forStmt struct {
	header string
	body   *Group
}

func (s *forStmt) render(b *strings.Builder, depth int) {
	pad := strings.Repeat(indentUnit, depth)
	b.WriteString(pad)
	b.WriteString("for (")
	b.WriteString(s.header)
	b.WriteString(") {\n")
	s.body.render(b, depth+1)
	b.WriteString(pad)
	b.WriteString("}\n")
}
