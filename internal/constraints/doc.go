// Package constraints implements typed, composable input validation for
// command parameters.
//
// A Constraint validates a single value and returns its canonical form, or a
// *ConstraintError describing the violation. Constraints compose:
//
//   - AllOf pipelines constraints, feeding each canonical output into the
//     next constraint's input.
//   - AnyOf tries alternatives in order and aggregates every failure when
//     none accepts the value.
//   - WithDescription replaces a constraint's self-description without
//     changing its behavior.
//
// Constraints that can specialize for a resolved dataset context implement
// the DatasetTailored capability interface. Tailoring is opt-in: a constraint
// without the capability is used as-is, which is never an error.
package constraints
