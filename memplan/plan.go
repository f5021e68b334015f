package memplan

import (
	"github.com/q0jt/go-memplan/memplan/config"
	"go.uber.org/zap"
)

// Layout is the result of a planner run.
type Layout struct {
	Plan    *MemoryPlan
	Symbols SymbolTable

	// Warnings holds non-fatal conditions such as an empty heap.
	Warnings []error
}

// Planner runs the validate, region and symbol stages in order.
type Planner struct {
	// Logger overrides the package logger when set.
	Logger *zap.Logger

	// RequireHeap turns an empty heap into a failure.
	RequireHeap bool
}

// Plan runs the planner with default settings.
func Plan(cfg *config.LayoutConfig) (*Layout, error) {
	var p Planner
	return p.Plan(cfg)
}

// Plan computes the layout of cfg. Nothing is returned on error except when
// the only problem is an empty heap and RequireHeap is unset, in which case
// the layout carries the warning.
func (p *Planner) Plan(cfg *config.LayoutConfig) (*Layout, error) {
	log := p.Logger
	if log == nil {
		log = Logger()
	}

	v, err := Validate(cfg)
	if err != nil {
		log.Error("invalid layout config", zap.Error(err))
		return nil, err
	}
	plan, err := ComputeRegions(v)
	if err != nil {
		log.Error("region calculation failed", zap.Error(err))
		return nil, err
	}
	symbols, err := ExportSymbols(plan)
	out := &Layout{Plan: plan, Symbols: symbols}
	if err != nil {
		if !IsWarning(err) || p.RequireHeap {
			log.Error("symbol export failed", zap.Error(err))
			return nil, err
		}
		log.Warn("layout has no heap", zap.Error(err))
		out.Warnings = append(out.Warnings, err)
	}

	log.Info("planned layout",
		zap.Stringer("mode", plan.Mode),
		zap.Int("regions", len(plan.Regions)),
		zap.String("stack", hexAddr(symbols[SymStackStart])),
		zap.String("heap", hexAddr(symbols[SymHeapSize])))
	return out, nil
}
