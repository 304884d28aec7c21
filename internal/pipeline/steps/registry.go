// Package steps describes the pipeline stages, their order and what each one
// reads its input from.
package steps

import (
	"fmt"
	"strings"
)

// Stage names.
const (
	Ingest   = "ingest"
	Scrape   = "scrape"
	Generate = "generate"
	Draft    = "draft"
	Report   = "report"
)

// Categories group stages for progress output.
const (
	CategoryInput   = "input"
	CategoryContent = "content"
	CategoryOutput  = "output"
)

// StepDefinition defines metadata for a pipeline stage
type StepDefinition struct {
	Name     string
	Category string
	// Dependencies are stages whose output table feeds this one within a run.
	// When a dependency is not part of the run the stage reads pending work from the store.
	Dependencies []string
}

// Order is the fixed execution order of stages.
var Order = []string{Ingest, Scrape, Generate, Draft, Report}

// StepRegistry holds all stage definitions
var StepRegistry = map[string]StepDefinition{
	Ingest:   {Name: Ingest, Category: CategoryInput},
	Scrape:   {Name: Scrape, Category: CategoryContent},
	Generate: {Name: Generate, Category: CategoryContent, Dependencies: []string{Scrape}},
	Draft:    {Name: Draft, Category: CategoryOutput, Dependencies: []string{Generate}},
	Report:   {Name: Report, Category: CategoryOutput},
}

// UnknownStepError is returned for a stage name that is not registered.
type UnknownStepError struct {
	Name string
}

func (e *UnknownStepError) Error() string {
	return fmt.Sprintf("unknown step: %s (known: %s)", e.Name, strings.Join(Order, ", "))
}

// Plan is the ordered set of stages selected for one run.
type Plan struct {
	stages []string
}

// NewPlan orders the named stages for execution. No names selects every stage.
// Duplicates are ignored.
func NewPlan(names ...string) (*Plan, error) {
	if len(names) == 0 {
		return &Plan{stages: append([]string(nil), Order...)}, nil
	}

	selected := make(map[string]bool, len(names))
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		if _, ok := StepRegistry[n]; !ok {
			return nil, &UnknownStepError{Name: n}
		}
		selected[n] = true
	}

	p := &Plan{}
	for _, n := range Order {
		if selected[n] {
			p.stages = append(p.stages, n)
		}
	}
	return p, nil
}

// Stages returns the stages in execution order.
func (p *Plan) Stages() []string {
	return append([]string(nil), p.stages...)
}

// Includes reports whether stage runs.
func (p *Plan) Includes(stage string) bool {
	for _, s := range p.stages {
		if s == stage {
			return true
		}
	}
	return false
}

// ChainedInput reports whether stage takes its input from its dependency's
// output in this run rather than from the store.
func (p *Plan) ChainedInput(stage string) bool {
	def, ok := StepRegistry[stage]
	if !ok || len(def.Dependencies) == 0 {
		return false
	}
	for _, dep := range def.Dependencies {
		if !p.Includes(dep) {
			return false
		}
	}
	return true
}

// Position returns the 1-based position of stage and the number of stages.
func (p *Plan) Position(stage string) (int, int) {
	for i, s := range p.stages {
		if s == stage {
			return i + 1, len(p.stages)
		}
	}
	return 0, len(p.stages)
}
