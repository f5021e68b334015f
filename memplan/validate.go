package memplan

import (
	"math/bits"

	"github.com/q0jt/go-memplan/memplan/config"
	"github.com/q0jt/go-memplan/memplan/config/mode"
)

// Span is a physical address range supplied by the config.
type Span struct {
	Base uint64
	Size uint64
}

// End returns the first address past the span.
func (s Span) End() uint64 {
	return s.Base + s.Size
}

// ValidatedConfig is a config that passed Validate. Every field required by
// its mode is set.
type ValidatedConfig struct {
	Mode      mode.Mode
	Mem0      Span
	Mem1      Span // zero in single-region mode
	StackSize uint64
	Hardware  config.Hardware
	Sections  config.Sections
}

// stackHost returns the span the stack is carved from.
func (v *ValidatedConfig) stackHost() Span {
	if v.Mode == mode.SingleRegion {
		return v.Mem0
	}
	return v.Mem1
}

// Validate checks that cfg is complete and consistent for its mode.
func Validate(cfg *config.LayoutConfig) (*ValidatedConfig, error) {
	if cfg == nil {
		return nil, invalidMode("")
	}
	switch cfg.Mode {
	case mode.SingleRegion, mode.DualRegionRelocated, mode.DualRegionFixed:
	default:
		return nil, invalidMode(string(cfg.Mode))
	}

	type param struct {
		name string
		v    *uint
	}
	params := []param{
		{"mem0Base", cfg.Mem0Base},
		{"mem0Size", cfg.Mem0Size},
		{"stackSize", cfg.StackSize},
	}
	if cfg.Mode != mode.SingleRegion {
		params = append(params,
			param{"mem1Base", cfg.Mem1Base},
			param{"mem1Size", cfg.Mem1Size})
	}
	for _, p := range params {
		if p.v == nil {
			return nil, missingParameter(p.name)
		}
	}

	v := &ValidatedConfig{
		Mode:      cfg.Mode,
		Mem0:      Span{Base: uint64(*cfg.Mem0Base), Size: uint64(*cfg.Mem0Size)},
		StackSize: uint64(*cfg.StackSize),
		Hardware:  DefaultHardware(),
	}
	if cfg.Mode != mode.SingleRegion {
		v.Mem1 = Span{Base: uint64(*cfg.Mem1Base), Size: uint64(*cfg.Mem1Size)}
	}
	if cfg.Hardware != nil {
		v.Hardware = *cfg.Hardware
	}
	if cfg.Sections != nil {
		v.Sections = *cfg.Sections
	}

	hostName := "mem1Size"
	if cfg.Mode == mode.SingleRegion {
		hostName = "mem0Size"
	}
	if host := v.stackHost(); v.StackSize >= host.Size {
		return nil, stackTooLarge(hostName, v.StackSize, host.Size)
	}

	if err := checkSpan(StageValidate, "mem0", v.Mem0); err != nil {
		return nil, err
	}
	if cfg.Mode != mode.SingleRegion {
		if err := checkSpan(StageValidate, "mem1", v.Mem1); err != nil {
			return nil, err
		}
	}
	fast := Span{Base: uint64(v.Hardware.FastMemOrigin), Size: uint64(v.Hardware.FastMemLength)}
	if err := checkSpan(StageValidate, "fastMem", fast); err != nil {
		return nil, err
	}
	return v, nil
}

func checkSpan(stage Stage, name string, s Span) error {
	if _, carry := bits.Add64(s.Base, s.Size, 0); carry != 0 {
		return addressOverflow(stage, name, s.Base, s.Size)
	}
	return nil
}
