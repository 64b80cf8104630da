package config

import (
	"fmt"
	"strconv"
	"strings"
)

// CoerceFunc converts a configuration value's pristine string form into a
// typed value.
type CoerceFunc func(string) (any, error)

// Item is a single configuration value. The pristine string form is always
// retained; an optional coercer produces the typed value.
type Item struct {
	Value  string
	Coerce CoerceFunc
}

// NewItem creates an Item holding the given pristine value.
func NewItem(value string) Item {
	return Item{Value: value}
}

func (i Item) String() string { return i.Value }

// Coerced returns the typed value of the item, or the pristine string when
// no coercer is configured.
func (i Item) Coerced() (any, error) {
	if i.Coerce == nil {
		return i.Value, nil
	}
	return i.Coerce(i.Value)
}

// Bool interprets the item using git's boolean semantics.
func (i Item) Bool() (bool, error) {
	if i.Coerce != nil {
		v, err := i.Coerce(i.Value)
		if err != nil {
			return false, err
		}
		if b, ok := v.(bool); ok {
			return b, nil
		}
		return false, fmt.Errorf("coercer produced %T, not a bool", v)
	}
	v, err := AnyToBool(i.Value)
	if err != nil {
		return false, err
	}
	return v, nil
}

// AnyToBool interprets a configuration string the way git-config interprets
// booleans. The empty string is false; bare numeric values follow their
// integer truth value.
func AnyToBool(val string) (bool, error) {
	switch strings.ToLower(val) {
	case "", "off", "no", "false", "0":
		return false, nil
	case "on", "yes", "true":
		return true, nil
	}
	if n, err := strconv.Atoi(val); err == nil {
		return n != 0, nil
	}
	return false, fmt.Errorf("cannot interpret %q as a boolean", val)
}

// boolCoercer adapts AnyToBool to the CoerceFunc signature.
func boolCoercer(val string) (any, error) {
	return AnyToBool(val)
}
