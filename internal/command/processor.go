package command

import (
	"errors"
	"sort"

	"github.com/datalad/datalad-core/internal/config"
	"github.com/datalad/datalad-core/internal/constraints"
)

// OnErrorMode selects how Process reacts to constraint violations.
type OnErrorMode int

const (
	// ModeFromConfig defers the choice to the datalad.runtime
	// configuration at call time.
	ModeFromConfig OnErrorMode = iota
	// RaiseEarly aborts on the first violation.
	RaiseEarly
	// RaiseAtEnd validates all parameters and reports every violation
	// jointly.
	RaiseAtEnd
)

// violationModeKey selects the default OnErrorMode for processors that did
// not fix one at construction.
const violationModeKey = "datalad.runtime.parameter-violation"

func init() {
	_ = config.GetDefaults().Set(violationModeKey, config.NewItem("raise-early"))
}

// ParamSetConstraint validates a relationship across several already
// processed parameters. Validate receives the full processed mapping
// (map[string]any) and returns it, possibly amended.
type ParamSetConstraint interface {
	constraints.Constraint

	// ParamNames returns the names of the parameters this constraint
	// draws on, for reporting purposes.
	ParamNames() []string
}

// JointParamProcessor validates a command's keyword arguments as one unit:
// per-parameter constraints with optional dataset tailoring, followed by
// cross-parameter constraints over the processed mapping.
//
// Tailoring dependencies are declared as dependent→provider pairs; the
// processing order is computed once at construction (providers first) and
// a cyclic declaration fails construction with a *ConfigurationError.
type JointParamProcessor struct {
	constraints  map[string]constraints.Constraint
	procDefaults map[string]bool
	tailor       map[string]string
	onError      OnErrorMode
	paramSet     []ParamSetConstraint
	rank         map[string]int
}

// ProcessorOption adjusts a JointParamProcessor declaration.
type ProcessorOption func(*JointParamProcessor)

// WithProcDefaults names parameters whose constraint runs even when the
// given value is the declared default.
func WithProcDefaults(names ...string) ProcessorOption {
	return func(p *JointParamProcessor) {
		for _, n := range names {
			p.procDefaults[n] = true
		}
	}
}

// WithTailorForDataset declares, per dependent parameter, the parameter
// whose processed value provides the dataset context to tailor the
// dependent's constraint with.
func WithTailorForDataset(deps map[string]string) ProcessorOption {
	return func(p *JointParamProcessor) {
		for dependent, provider := range deps {
			p.tailor[dependent] = provider
		}
	}
}

// WithOnError fixes the violation handling mode, overriding the
// configuration default.
func WithOnError(mode OnErrorMode) ProcessorOption {
	return func(p *JointParamProcessor) { p.onError = mode }
}

// WithParamSetConstraints appends cross-parameter constraints, run in the
// given order after all per-parameter work.
func WithParamSetConstraints(cs ...ParamSetConstraint) ProcessorOption {
	return func(p *JointParamProcessor) {
		p.paramSet = append(p.paramSet, cs...)
	}
}

// NewJointParamProcessor creates a processor for the given per-parameter
// constraints. It fails with a *ConfigurationError when the tailoring
// declaration is cyclic; a valid declaration never fails at Process time
// for structural reasons.
func NewJointParamProcessor(
	paramConstraints map[string]constraints.Constraint,
	opts ...ProcessorOption,
) (*JointParamProcessor, error) {
	p := &JointParamProcessor{
		constraints:  paramConstraints,
		procDefaults: make(map[string]bool),
		tailor:       make(map[string]string),
	}
	for _, opt := range opts {
		opt(p)
	}
	rank, err := tailorRanks(p.tailor)
	if err != nil {
		return nil, err
	}
	p.rank = rank
	return p, nil
}

// tailorRanks topologically sorts the dependent→provider declaration and
// assigns each parameter its processing tier: providers strictly before
// their dependents. Cycles (self-loops included) are declaration errors.
func tailorRanks(tailor map[string]string) (map[string]int, error) {
	for dependent, provider := range tailor {
		if dependent == provider {
			return nil, NewConfigurationError(
				"parameter %s cannot provide its own tailoring context", dependent)
		}
	}
	// Kahn's algorithm over provider→dependent edges
	indegree := make(map[string]int)
	dependents := make(map[string][]string)
	for dependent, provider := range tailor {
		indegree[dependent]++
		if _, ok := indegree[provider]; !ok {
			indegree[provider] = 0
		}
		dependents[provider] = append(dependents[provider], dependent)
	}
	var frontier []string
	for name, deg := range indegree {
		if deg == 0 {
			frontier = append(frontier, name)
		}
	}
	rank := make(map[string]int, len(indegree))
	for tier := 0; len(frontier) > 0; tier++ {
		var next []string
		for _, name := range frontier {
			rank[name] = tier
			for _, dep := range dependents[name] {
				indegree[dep]--
				if indegree[dep] == 0 {
					next = append(next, dep)
				}
			}
		}
		frontier = next
	}
	if len(rank) != len(indegree) {
		var cyclic []string
		for name := range indegree {
			if _, ok := rank[name]; !ok {
				cyclic = append(cyclic, name)
			}
		}
		sort.Strings(cyclic)
		return nil, NewConfigurationError(
			"cyclic tailoring dependency involving %v", cyclic)
	}
	return rank, nil
}

// Process validates kwargs and returns the processed mapping. atDefault
// flags parameters whose given value is their declared default; such
// parameters pass through untouched unless named in WithProcDefaults.
//
// Constraint violations are reported as a *ParamErrors; any other failure
// bubbles up unchanged. On error no partial results are returned.
func (p *JointParamProcessor) Process(
	kwargs map[string]any,
	atDefault map[string]bool,
) (map[string]any, error) {
	mode := p.onError
	if mode == ModeFromConfig {
		mode = violationModeFromConfig()
	}

	out := make(map[string]any, len(kwargs))
	var violations []ParamViolation
	failed := make(map[string]bool)

	for _, name := range p.processingOrder(kwargs) {
		value := kwargs[name]
		if atDefault[name] && !p.procDefaults[name] {
			out[name] = value
			continue
		}
		c, ok := p.constraints[name]
		if !ok || c == nil {
			c = constraints.NewNoConstraint()
		}
		if provider, ok := p.tailor[name]; ok {
			if ds, ok := out[provider].(*Dataset); ok && ds != nil {
				c = constraints.TailorForDataset(c, ds)
			}
		}
		processed, err := c.Validate(value)
		if err != nil {
			var ce *constraints.ConstraintError
			if !errors.As(err, &ce) {
				return nil, err
			}
			violations = append(violations, ParamViolation{Name: name, Err: ce})
			if mode == RaiseEarly {
				return nil, NewParamErrors(violations...)
			}
			failed[name] = true
			continue
		}
		out[name] = processed
	}

	for _, psc := range p.paramSet {
		// a joint constraint over a parameter that already failed would
		// only report the same problem a second time
		if drawsOnFailed(psc, failed) {
			continue
		}
		processed, err := psc.Validate(out)
		if err != nil {
			var ce *constraints.ConstraintError
			if !errors.As(err, &ce) {
				return nil, err
			}
			violations = append(violations, ParamViolation{Err: ce})
			if mode == RaiseEarly {
				return nil, NewParamErrors(violations...)
			}
			continue
		}
		if amended, ok := processed.(map[string]any); ok {
			out = amended
		}
	}

	if len(violations) > 0 {
		return nil, NewParamErrors(violations...)
	}
	return out, nil
}

// drawsOnFailed reports whether any of the constraint's parameters already
// has a recorded violation.
func drawsOnFailed(psc ParamSetConstraint, failed map[string]bool) bool {
	if len(failed) == 0 {
		return false
	}
	for _, name := range psc.ParamNames() {
		if failed[name] {
			return true
		}
	}
	return false
}

// processingOrder sorts the given parameter names by tailoring tier, then
// name. The order is deterministic and independent of map iteration.
func (p *JointParamProcessor) processingOrder(kwargs map[string]any) []string {
	names := make([]string, 0, len(kwargs))
	for name := range kwargs {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		ri, rj := p.rank[names[i]], p.rank[names[j]]
		if ri != rj {
			return ri < rj
		}
		return names[i] < names[j]
	})
	return names
}

func violationModeFromConfig() OnErrorMode {
	it, ok := config.GetManager().Get(violationModeKey)
	if ok && it.Value == "raise-at-end" {
		return RaiseAtEnd
	}
	return RaiseEarly
}
