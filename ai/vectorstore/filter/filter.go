package filter

import (
	"strings"

	"github.com/spf13/cast"
)

type Expression interface {
	Expression() string
}

type Field struct {
	field string
}

func (f *Field) Expression() string {
	return f.field
}

// Name returns the bare field name, used by converters that need the
// identifier rather than its string rendering.
func (f *Field) Name() string {
	return f.field
}

type Value struct {
	value any
}

func (v *Value) Expression() string {
	return cast.ToString(v.value)
}

// Raw returns the underlying value, used by converters building typed
// backend filters instead of a textual expression.
func (v *Value) Raw() any {
	return v.value
}

type ListValue struct {
	values []any
}

func (l *ListValue) Expression() string {
	parts := make([]string, len(l.values))
	for i, v := range l.values {
		parts[i] = cast.ToString(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (l *ListValue) Raw() []any {
	return l.values
}

// Range is the right-hand operand of a BETWEEN condition.
type Range struct {
	From any
	To   any
}

func (r *Range) Expression() string {
	return cast.ToString(r.From) + " AND " + cast.ToString(r.To)
}

type Operator string

func (o Operator) Expression() string {
	return string(o)
}

const (
	AND     Operator = "AND"
	OR      Operator = "OR"
	NOT     Operator = "NOT"
	EQ      Operator = "="
	NEQ     Operator = "!="
	GT      Operator = ">"
	GTE     Operator = ">="
	LT      Operator = "<"
	LTE     Operator = "<="
	IN      Operator = "IN"
	NIN     Operator = "NOT IN"
	LIKE    Operator = "LIKE"
	MATCHES Operator = "MATCHES"
	BETWEEN Operator = "BETWEEN"
)

type Condition struct {
	operator Operator
	left     Expression
	right    Expression
}

func (c *Condition) Expression() string {
	return c.left.Expression() + " " + c.operator.Expression() + " " + c.right.Expression()
}

// Operator exposes the condition's operator for converters that type-switch
// on it rather than re-parsing Expression().
func (c *Condition) Operator() Operator {
	return c.operator
}

func (c *Condition) Left() Expression  { return c.left }
func (c *Condition) Right() Expression { return c.right }

type Group struct {
	inner Expression
}

func (g *Group) Expression() string {
	return "(" + g.inner.Expression() + ")"
}

func (g *Group) Inner() Expression {
	return g.inner
}
