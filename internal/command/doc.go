// Package command provides the building blocks command implementations use
// to resolve their inputs: the Dataset abstraction, dataset-aware
// constraints, and the joint parameter processor that validates a command's
// keyword arguments as one unit.
package command
