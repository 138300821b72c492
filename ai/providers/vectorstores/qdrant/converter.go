package qdrant

import (
	"fmt"

	"github.com/qdrant/go-client/qdrant"
	"github.com/spf13/cast"

	"github.com/i-dot-ai/lex/ai/vectorstore/filter"
	"github.com/i-dot-ai/lex/pkg/ptr"
)

// ToFilter converts a filter expression tree into a Qdrant filter. The tree
// is a fixed shape built programmatically by callers via filter.ExprBuilder
// (field = value, field IN set, field BETWEEN range, field MATCHES pattern,
// negation, and AND/OR composition) rather than parsed from free text, so
// conversion is a single recursive walk with no separate syntax-checking
// pass.
func ToFilter(expr filter.Expression) (*qdrant.Filter, error) {
	cond, err := toCondition(expr)
	if err != nil {
		return nil, err
	}
	return &qdrant.Filter{Must: []*qdrant.Condition{cond}}, nil
}

func toCondition(expr filter.Expression) (*qdrant.Condition, error) {
	switch e := expr.(type) {
	case *filter.Condition:
		return conditionToQdrant(e)
	case *filter.Group:
		return toCondition(e.Inner())
	default:
		return nil, fmt.Errorf("qdrant: unsupported top-level filter expression %T", expr)
	}
}

func conditionToQdrant(c *filter.Condition) (*qdrant.Condition, error) {
	switch c.Operator() {
	case filter.AND:
		return combine(c, true)
	case filter.OR:
		return combine(c, false)
	case filter.NOT:
		inner, err := toCondition(c.Right())
		if err != nil {
			return nil, fmt.Errorf("qdrant: NOT operand: %w", err)
		}
		return qdrant.NewFilterAsCondition(&qdrant.Filter{MustNot: []*qdrant.Condition{inner}}), nil
	case filter.EQ:
		return fieldMatch(c)
	case filter.NEQ:
		match, err := fieldMatch(c)
		if err != nil {
			return nil, err
		}
		return qdrant.NewFilterAsCondition(&qdrant.Filter{MustNot: []*qdrant.Condition{match}}), nil
	case filter.GT, filter.GTE, filter.LT, filter.LTE:
		return rangeCondition(c)
	case filter.BETWEEN:
		return betweenCondition(c)
	case filter.IN:
		return inCondition(c)
	case filter.LIKE, filter.MATCHES:
		return matchesCondition(c)
	default:
		return nil, fmt.Errorf("qdrant: unsupported operator %q", c.Operator())
	}
}

// combine handles a binary AND/OR condition whose left operand is itself the
// accumulated expression built by ExprBuilder's chaining (a flat AND/OR
// sequence is represented as left-nested Conditions of the same operator).
func combine(c *filter.Condition, isAnd bool) (*qdrant.Condition, error) {
	left, err := toCondition(c.Left())
	if err != nil {
		return nil, fmt.Errorf("qdrant: left operand: %w", err)
	}
	right, err := toCondition(c.Right())
	if err != nil {
		return nil, fmt.Errorf("qdrant: right operand: %w", err)
	}

	if isAnd {
		return qdrant.NewFilterAsCondition(&qdrant.Filter{Must: []*qdrant.Condition{left, right}}), nil
	}
	return qdrant.NewFilterAsCondition(&qdrant.Filter{Should: []*qdrant.Condition{left, right}}), nil
}

func fieldKey(expr filter.Expression) (string, error) {
	f, ok := expr.(*filter.Field)
	if !ok {
		return "", fmt.Errorf("qdrant: expected a field, got %T", expr)
	}
	return f.Name(), nil
}

func fieldMatch(c *filter.Condition) (*qdrant.Condition, error) {
	key, err := fieldKey(c.Left())
	if err != nil {
		return nil, err
	}

	value, ok := c.Right().(*filter.Value)
	if !ok {
		return nil, fmt.Errorf("qdrant: equality requires a scalar value, got %T", c.Right())
	}

	return matchCondition(key, value.Raw())
}

func matchCondition(key string, value any) (*qdrant.Condition, error) {
	switch v := value.(type) {
	case string:
		return qdrant.NewMatchKeyword(key, v), nil
	case bool:
		return qdrant.NewMatchBool(key, v), nil
	default:
		n, err := cast.ToInt64E(v)
		if err != nil {
			return nil, fmt.Errorf("qdrant: unsupported match value type %T for field %q", value, key)
		}
		return qdrant.NewMatchInt(key, n), nil
	}
}

func rangeCondition(c *filter.Condition) (*qdrant.Condition, error) {
	key, err := fieldKey(c.Left())
	if err != nil {
		return nil, err
	}

	value, ok := c.Right().(*filter.Value)
	if !ok {
		return nil, fmt.Errorf("qdrant: ordering comparison requires a scalar value, got %T", c.Right())
	}

	n, err := cast.ToFloat64E(value.Raw())
	if err != nil {
		return nil, fmt.Errorf("qdrant: cannot compare field %q to a non-numeric value: %w", key, err)
	}

	rng := &qdrant.Range{}
	switch c.Operator() {
	case filter.GT:
		rng.Gt = ptr.Pointer(n)
	case filter.GTE:
		rng.Gte = ptr.Pointer(n)
	case filter.LT:
		rng.Lt = ptr.Pointer(n)
	case filter.LTE:
		rng.Lte = ptr.Pointer(n)
	}

	return qdrant.NewRange(key, rng), nil
}

func betweenCondition(c *filter.Condition) (*qdrant.Condition, error) {
	key, err := fieldKey(c.Left())
	if err != nil {
		return nil, err
	}

	rangeExpr, ok := c.Right().(*filter.Range)
	if !ok {
		return nil, fmt.Errorf("qdrant: BETWEEN requires a range operand, got %T", c.Right())
	}

	from, err := cast.ToFloat64E(rangeExpr.From)
	if err != nil {
		return nil, fmt.Errorf("qdrant: BETWEEN lower bound for field %q must be numeric: %w", key, err)
	}
	to, err := cast.ToFloat64E(rangeExpr.To)
	if err != nil {
		return nil, fmt.Errorf("qdrant: BETWEEN upper bound for field %q must be numeric: %w", key, err)
	}

	return qdrant.NewRange(key, &qdrant.Range{Gte: ptr.Pointer(from), Lte: ptr.Pointer(to)}), nil
}

func inCondition(c *filter.Condition) (*qdrant.Condition, error) {
	key, err := fieldKey(c.Left())
	if err != nil {
		return nil, err
	}

	list, ok := c.Right().(*filter.ListValue)
	if !ok {
		return nil, fmt.Errorf("qdrant: IN requires a list operand, got %T", c.Right())
	}

	values := list.Raw()
	if len(values) == 0 {
		return nil, fmt.Errorf("qdrant: IN requires a non-empty list for field %q", key)
	}

	switch values[0].(type) {
	case string:
		keywords := make([]string, len(values))
		for i, v := range values {
			keywords[i] = cast.ToString(v)
		}
		return qdrant.NewMatchKeywords(key, keywords...), nil

	case bool:
		conds := make([]*qdrant.Condition, len(values))
		for i, v := range values {
			conds[i] = qdrant.NewMatchBool(key, cast.ToBool(v))
		}
		return qdrant.NewFilterAsCondition(&qdrant.Filter{Should: conds}), nil

	default:
		ints := make([]int64, len(values))
		for i, v := range values {
			n, err := cast.ToInt64E(v)
			if err != nil {
				return nil, fmt.Errorf("qdrant: unsupported IN value type %T for field %q", v, key)
			}
			ints[i] = n
		}
		return qdrant.NewMatchInts(key, ints...), nil
	}
}

func matchesCondition(c *filter.Condition) (*qdrant.Condition, error) {
	key, err := fieldKey(c.Left())
	if err != nil {
		return nil, err
	}

	value, ok := c.Right().(*filter.Value)
	if !ok {
		return nil, fmt.Errorf("qdrant: LIKE/MATCHES requires a string value, got %T", c.Right())
	}

	pattern, ok := value.Raw().(string)
	if !ok {
		return nil, fmt.Errorf("qdrant: LIKE/MATCHES pattern must be a string, got %T", value.Raw())
	}

	return qdrant.NewMatchText(key, pattern), nil
}
