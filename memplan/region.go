package memplan

import (
	"fmt"
	"math"
	"math/bits"

	"github.com/q0jt/go-memplan/memplan/config"
	"github.com/q0jt/go-memplan/memplan/config/mode"
	"go.uber.org/zap"
)

// Region names used in every plan.
const (
	RegionMem0  = "mem0"
	RegionMem1  = "mem1"
	RegionStack = "stack"
	RegionFast  = "fast"
)

// Perm is a set of access permissions of a region.
type Perm uint8

const (
	PermRead Perm = 1 << iota
	PermWrite
	PermExec
)

// String returns the permissions in linker attribute order, e.g. "rwx".
func (p Perm) String() string {
	var b []byte
	if p&PermRead != 0 {
		b = append(b, 'r')
	}
	if p&PermWrite != 0 {
		b = append(b, 'w')
	}
	if p&PermExec != 0 {
		b = append(b, 'x')
	}
	return string(b)
}

type MemoryRegion struct {
	Name   string
	Origin uint64
	Length uint64
	Perm   Perm
}

func (r MemoryRegion) End() uint64 {
	return r.Origin + r.Length
}

func (r MemoryRegion) String() string {
	return fmt.Sprintf("%s [%#x, %#x)", r.Name, r.Origin, r.End())
}

func (r MemoryRegion) overlaps(o MemoryRegion) bool {
	if r.Length == 0 || o.Length == 0 {
		return false
	}
	return r.Origin < o.End() && o.Origin < r.End()
}

// Placement names the region each output section targets.
type Placement struct {
	Text     string
	FastData string // empty when the target has no fast memory
	DataLoad string
	DataRun  string
	Bss      string
}

// MemoryPlan is the set of regions derived from a validated config.
type MemoryPlan struct {
	Mode      mode.Mode
	Regions   []MemoryRegion
	Placement Placement
	Sections  config.Sections
	Hardware  config.Hardware
}

// Region returns the region with the given name.
func (p *MemoryPlan) Region(name string) (MemoryRegion, bool) {
	for _, r := range p.Regions {
		if r.Name == name {
			return r, true
		}
	}
	return MemoryRegion{}, false
}

// Relocated reports whether initialized data is copied from its load
// address to a different run address at startup.
func (p *MemoryPlan) Relocated() bool {
	return p.Placement.DataLoad != p.Placement.DataRun
}

// ComputeRegions derives the memory plan of v.
func ComputeRegions(v *ValidatedConfig) (*MemoryPlan, error) {
	var (
		plan *MemoryPlan
		err  error
	)
	switch v.Mode {
	case mode.SingleRegion:
		plan, err = singleRegion(v)
	case mode.DualRegionRelocated:
		plan, err = dualRegionRelocated(v)
	case mode.DualRegionFixed:
		plan, err = dualRegionFixed(v)
	default:
		return nil, invalidMode(string(v.Mode))
	}
	if err != nil {
		return nil, err
	}

	plan.Mode = v.Mode
	plan.Sections = v.Sections
	plan.Hardware = v.Hardware
	if err := checkPrivilegedStack(plan, uint64(v.Hardware.PrivilegedStackSize)); err != nil {
		return nil, err
	}
	if v.Hardware.FastMemLength > 0 {
		plan.Regions = append(plan.Regions, MemoryRegion{
			Name:   RegionFast,
			Origin: uint64(v.Hardware.FastMemOrigin),
			Length: uint64(v.Hardware.FastMemLength),
			Perm:   PermRead | PermWrite,
		})
		plan.Placement.FastData = RegionFast
	}

	if err := checkOverlap(plan.Regions); err != nil {
		return nil, err
	}
	if err := checkUsage(plan); err != nil {
		return nil, err
	}

	log := Logger()
	for _, r := range plan.Regions {
		log.Debug("region",
			zap.String("name", r.Name),
			zap.String("origin", hexAddr(r.Origin)),
			zap.String("length", hexAddr(r.Length)),
			zap.Stringer("perm", r.Perm))
	}
	return plan, nil
}

func singleRegion(v *ValidatedConfig) (*MemoryPlan, error) {
	stack, err := placeStack(v.Mem0, v.StackSize)
	if err != nil {
		return nil, err
	}
	mem0 := MemoryRegion{
		Name:   RegionMem0,
		Origin: v.Mem0.Base,
		Length: v.Mem0.Size - v.StackSize,
		Perm:   PermRead | PermWrite | PermExec,
	}
	return &MemoryPlan{
		Regions: []MemoryRegion{mem0, stack},
		Placement: Placement{
			Text:     RegionMem0,
			DataLoad: RegionMem0,
			DataRun:  RegionMem0,
			Bss:      RegionMem0,
		},
	}, nil
}

func dualRegionRelocated(v *ValidatedConfig) (*MemoryPlan, error) {
	regions, err := dualRegions(v)
	if err != nil {
		return nil, err
	}
	return &MemoryPlan{
		Regions: regions,
		Placement: Placement{
			Text:     RegionMem0,
			DataLoad: RegionMem0,
			DataRun:  RegionMem1,
			Bss:      RegionMem1,
		},
	}, nil
}

func dualRegionFixed(v *ValidatedConfig) (*MemoryPlan, error) {
	regions, err := dualRegions(v)
	if err != nil {
		return nil, err
	}
	return &MemoryPlan{
		Regions: regions,
		Placement: Placement{
			Text:     RegionMem0,
			DataLoad: RegionMem1,
			DataRun:  RegionMem1,
			Bss:      RegionMem1,
		},
	}, nil
}

// dualRegions is the geometry shared by both dual-region modes.
func dualRegions(v *ValidatedConfig) ([]MemoryRegion, error) {
	stack, err := placeStack(v.Mem1, v.StackSize)
	if err != nil {
		return nil, err
	}
	mem0 := MemoryRegion{
		Name:   RegionMem0,
		Origin: v.Mem0.Base,
		Length: v.Mem0.Size,
		Perm:   PermRead | PermExec,
	}
	mem1 := MemoryRegion{
		Name:   RegionMem1,
		Origin: v.Mem1.Base,
		Length: v.Mem1.Size - v.StackSize,
		Perm:   PermRead | PermWrite | PermExec,
	}
	return []MemoryRegion{mem0, mem1, stack}, nil
}

// placeStack carves the stack from the tail of host. The base is rounded up
// and the end rounded down, independently, so the aligned stack can be up to
// StackAlignment-1 bytes smaller than requested.
func placeStack(host Span, size uint64) (MemoryRegion, error) {
	end := host.End()
	base, ok := alignUp(end - size)
	if !ok {
		return MemoryRegion{}, addressOverflow(StageRegions, RegionStack, end-size, size)
	}
	top, carry := bits.Add64(base, size, 0)
	if carry != 0 {
		return MemoryRegion{}, addressOverflow(StageRegions, RegionStack, base, size)
	}
	top = alignDown(top)
	// An unaligned host end would let the rounded end pass it.
	if limit := alignDown(end); top > limit {
		top = limit
	}
	if top <= base {
		return MemoryRegion{}, stackDoesNotFit(base, size, -int64(base-top))
	}
	return MemoryRegion{
		Name:   RegionStack,
		Origin: base,
		Length: top - base,
		Perm:   PermRead | PermWrite,
	}, nil
}

// checkPrivilegedStack verifies the privileged partition fits inside the
// stack it is carved from.
func checkPrivilegedStack(p *MemoryPlan, size uint64) error {
	stack, _ := p.Region(RegionStack)
	if size > stack.Length {
		return privilegedStackDoesNotFit(stack, size)
	}
	return nil
}

func alignUp(x uint64) (uint64, bool) {
	v, carry := bits.Add64(x, StackAlignment-1, 0)
	return alignDown(v), carry == 0
}

func alignDown(x uint64) uint64 {
	return x &^ (StackAlignment - 1)
}

func checkOverlap(regions []MemoryRegion) error {
	for i, a := range regions {
		for _, b := range regions[i+1:] {
			if a.overlaps(b) {
				return regionOverlap(a, b)
			}
		}
	}
	return nil
}

// checkUsage verifies the configured sections fit their target regions. The
// fast data load copy follows text, so it is charged to the text region too.
func checkUsage(p *MemoryPlan) error {
	s := p.Sections
	usage := map[string]uint64{}
	add := func(region string, n uint) {
		sum, carry := bits.Add64(usage[region], uint64(n), 0)
		if carry != 0 {
			sum = math.MaxUint64
		}
		usage[region] = sum
	}
	add(p.Placement.Text, s.Text)
	if s.FastData > 0 {
		if p.Placement.FastData == "" {
			return sectionOverflow("fastData", uint64(s.FastData), MemoryRegion{Name: RegionFast})
		}
		add(p.Placement.Text, s.FastData)
		add(p.Placement.FastData, s.FastData)
	}
	add(p.Placement.DataLoad, s.Data)
	if p.Relocated() {
		add(p.Placement.DataRun, s.Data)
	}
	add(p.Placement.Bss, s.Bss)

	for _, r := range p.Regions {
		if need := usage[r.Name]; need > r.Length {
			return sectionOverflow(r.Name, need, r)
		}
	}
	return nil
}

func hexAddr(v uint64) string {
	return fmt.Sprintf("%#x", v)
}
