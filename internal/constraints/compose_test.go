package constraints

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// upper and prefix are tiny pipeline stages for composition tests.
type upper struct{}

func (upper) Validate(v any) (any, error) {
	s, ok := v.(string)
	if !ok {
		return nil, NewConstraintError(upper{}, v, "not a string")
	}
	return strings.ToUpper(s), nil
}
func (upper) Synopsis() string    { return "uppercase string" }
func (upper) Description() string { return "uppercase string" }

type prefix struct{ p string }

func (c prefix) Validate(v any) (any, error) {
	s, ok := v.(string)
	if !ok {
		return nil, NewConstraintError(c, v, "not a string")
	}
	return c.p + s, nil
}
func (c prefix) Synopsis() string    { return fmt.Sprintf("string prefixed with %q", c.p) }
func (c prefix) Description() string { return c.Synopsis() }

func TestAllOf_Pipeline(t *testing.T) {
	c1, c2 := upper{}, prefix{p: ">"}
	all := NewAllOf(c1, c2)

	got, err := all.Validate("abc")
	require.NoError(t, err)

	// AllOf([C1, C2]).Validate(x) == C2.Validate(C1.Validate(x))
	mid, err := c1.Validate("abc")
	require.NoError(t, err)
	want, err := c2.Validate(mid)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, ">ABC", got)
}

func TestAllOf_FirstFailureAborts(t *testing.T) {
	all := NewAllOf(upper{}, prefix{p: ">"})

	_, err := all.Validate(5)
	require.Error(t, err)
	var ce *ConstraintError
	require.ErrorAs(t, err, &ce)
	// the failing sub-constraint is reported, not the composite
	assert.IsType(t, upper{}, ce.Constraint)
}

func TestAllOf_Flattens(t *testing.T) {
	inner := NewAllOf(upper{}, prefix{p: "a"})
	outer := NewAllOf(inner, prefix{p: "b"})
	assert.Len(t, outer.Constraints(), 3)

	chained := outer.And(prefix{p: "c"})
	assert.Len(t, chained.Constraints(), 4)
}

func TestAnyOf_FirstSuccessWins(t *testing.T) {
	any_ := NewAnyOf(NewEnsureChoice("a", "b"), upper{})

	got, err := any_.Validate("a")
	require.NoError(t, err)
	assert.Equal(t, "a", got, "first accepting alternative provides the result")

	got, err = any_.Validate("z")
	require.NoError(t, err)
	assert.Equal(t, "Z", got)
}

func TestAnyOf_AggregatesAllFailures(t *testing.T) {
	c1 := NewEnsureChoice("a", "b")
	c2 := NewEnsureMappingHasKeys("k")
	any_ := NewAnyOf(c1, c2)

	_, err := any_.Validate(5)
	require.Error(t, err)

	var ce *ConstraintError
	require.ErrorAs(t, err, &ce)
	causes := ce.Causes()
	require.Len(t, causes, 2)

	// declared order is preserved in the aggregate
	var first, second *ConstraintError
	require.ErrorAs(t, causes[0], &first)
	require.ErrorAs(t, causes[1], &second)
	assert.Same(t, Constraint(c1), first.Constraint)
	assert.Same(t, Constraint(c2), second.Constraint)

	// both underlying failures are referenced in the rendered message
	assert.Contains(t, err.Error(), "is not one of")
	assert.Contains(t, err.Error(), "not a mapping")
}

func TestAnyOf_UnwrapsCauses(t *testing.T) {
	sentinel := NewEnsureChoice("a")
	any_ := NewAnyOf(sentinel)

	_, err := any_.Validate("b")
	require.Error(t, err)

	var ce *ConstraintError
	require.True(t, errors.As(err, &ce))
	assert.Same(t, Constraint(any_), ce.Constraint)
}

func TestComposite_Descriptions(t *testing.T) {
	all := NewAllOf(upper{}, prefix{p: ">"})
	assert.Equal(t, `uppercase string and string prefixed with ">"`, all.Synopsis())

	or := NewAnyOf(upper{}, NewNoConstraint())
	// empty synopses are dropped from the aggregate
	assert.Equal(t, "uppercase string", or.Synopsis())
}
