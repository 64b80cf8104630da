package constraints

import (
	"fmt"
	"reflect"
	"strings"
)

// EnsureChoice ensures an input equals one of a fixed, ordered set of
// allowed values. Comparison is type- and case-exact.
type EnsureChoice struct {
	choices []any
}

// NewEnsureChoice creates a choice constraint over the given values. The
// declaration order is preserved for error reporting.
func NewEnsureChoice(values ...any) *EnsureChoice {
	return &EnsureChoice{choices: values}
}

// Choices returns the allowed values in declaration order.
func (c *EnsureChoice) Choices() []any {
	return c.choices
}

func (c *EnsureChoice) Validate(value any) (any, error) {
	for _, choice := range c.choices {
		if reflect.DeepEqual(value, choice) {
			return value, nil
		}
	}
	return nil, NewConstraintError(c, value,
		"%v is not one of %s", value, formatChoices(c.choices))
}

func (c *EnsureChoice) Synopsis() string {
	return fmt.Sprintf("one of %s", formatChoices(c.choices))
}

func (c *EnsureChoice) Description() string { return c.Synopsis() }

func formatChoices(choices []any) string {
	parts := make([]string, len(choices))
	for i, c := range choices {
		parts[i] = fmt.Sprintf("%#v", c)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// EnsureMappingHasKeys ensures an input is a mapping with string keys that
// contains every required key. Extra keys are permitted.
type EnsureMappingHasKeys struct {
	required []string
}

// NewEnsureMappingHasKeys creates a mapping-keys constraint requiring the
// given keys.
func NewEnsureMappingHasKeys(required ...string) *EnsureMappingHasKeys {
	return &EnsureMappingHasKeys{required: required}
}

func (c *EnsureMappingHasKeys) Validate(value any) (any, error) {
	rv := reflect.ValueOf(value)
	if !rv.IsValid() || rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, NewConstraintError(c, value, "not a mapping")
	}
	var missing []string
	for _, k := range c.required {
		if !rv.MapIndex(reflect.ValueOf(k).Convert(rv.Type().Key())).IsValid() {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return nil, NewConstraintError(c, value,
			"missing keys %q", missing)
	}
	return value, nil
}

func (c *EnsureMappingHasKeys) Synopsis() string {
	if len(c.required) == 0 {
		return "mapping"
	}
	return fmt.Sprintf("mapping with required keys %q", c.required)
}

func (c *EnsureMappingHasKeys) Description() string { return c.Synopsis() }
