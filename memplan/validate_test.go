package memplan

import (
	"errors"
	"testing"

	"github.com/q0jt/go-memplan/memplan/config"
	"github.com/q0jt/go-memplan/memplan/config/mode"
)

func singleConfig(base, size, stack uint) *config.LayoutConfig {
	return &config.LayoutConfig{
		Mode:      mode.SingleRegion,
		Mem0Base:  Uint(base),
		Mem0Size:  Uint(size),
		StackSize: Uint(stack),
	}
}

func dualConfig(m mode.Mode, base0, size0, base1, size1, stack uint) *config.LayoutConfig {
	return &config.LayoutConfig{
		Mode:      m,
		Mem0Base:  Uint(base0),
		Mem0Size:  Uint(size0),
		Mem1Base:  Uint(base1),
		Mem1Size:  Uint(size1),
		StackSize: Uint(stack),
	}
}

func TestValidate(t *testing.T) {
	v, err := Validate(dualConfig(mode.DualRegionFixed, 0, 0x4000, 0x8000, 0x1000, 0x40))
	if err != nil {
		t.Fatal(err)
	}
	if v.Mem1 != (Span{Base: 0x8000, Size: 0x1000}) {
		t.Errorf("mem1 = %+v", v.Mem1)
	}
	if v.StackSize != 0x40 {
		t.Errorf("stack size = %#x", v.StackSize)
	}
	if v.Hardware != DefaultHardware() {
		t.Errorf("hardware = %+v, want defaults", v.Hardware)
	}
	if v.Sections != (config.Sections{}) {
		t.Errorf("sections = %+v, want zero", v.Sections)
	}
}

func TestDefaultHardware(t *testing.T) {
	hw := DefaultHardware()
	hw.FastMemOrigin = 0
	hw.PrivilegedStackSize = 0x1000
	got := DefaultHardware()
	if got == hw || got.FastMemOrigin != 0x10000000 || got.PrivilegedStackSize != 0x20 {
		t.Errorf("defaults changed by caller: %+v", got)
	}
}

func TestValidate_SingleIgnoresMem1(t *testing.T) {
	cfg := singleConfig(0x1000, 0x2000, 0x100)
	cfg.Mem1Base = Uint(0x9000)
	v, err := Validate(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if v.Mem1 != (Span{}) {
		t.Errorf("mem1 = %+v, want zero in single-region mode", v.Mem1)
	}
}

func TestValidate_InvalidMode(t *testing.T) {
	for _, m := range []mode.Mode{"", "single", "dual-region"} {
		cfg := singleConfig(0x1000, 0x2000, 0x100)
		cfg.Mode = m
		_, err := Validate(cfg)
		if !errors.Is(err, ErrInvalidMode) {
			t.Errorf("mode %q: err = %v, want invalid_mode", m, err)
		}
	}
	if _, err := Validate(nil); !errors.Is(err, ErrInvalidMode) {
		t.Errorf("nil config: err = %v", err)
	}
}

func TestValidate_MissingParameter(t *testing.T) {
	tests := []struct {
		name  string
		cfg   func() *config.LayoutConfig
		param string
	}{
		{
			name: "mem0Base",
			cfg: func() *config.LayoutConfig {
				c := singleConfig(0x1000, 0x2000, 0x100)
				c.Mem0Base = nil
				return c
			},
			param: "mem0Base",
		},
		{
			name: "mem0Size",
			cfg: func() *config.LayoutConfig {
				c := singleConfig(0x1000, 0x2000, 0x100)
				c.Mem0Size = nil
				return c
			},
			param: "mem0Size",
		},
		{
			name: "stackSize",
			cfg: func() *config.LayoutConfig {
				c := singleConfig(0x1000, 0x2000, 0x100)
				c.StackSize = nil
				return c
			},
			param: "stackSize",
		},
		{
			name: "first of several",
			cfg: func() *config.LayoutConfig {
				c := dualConfig(mode.DualRegionFixed, 0, 0x4000, 0x8000, 0x1000, 0x40)
				c.Mem0Size = nil
				c.StackSize = nil
				c.Mem1Base = nil
				return c
			},
			param: "mem0Size",
		},
		{
			// Scenario D
			name: "relocated without mem1",
			cfg: func() *config.LayoutConfig {
				c := dualConfig(mode.DualRegionRelocated, 0, 0x4000, 0, 0, 0x40)
				c.Mem1Base = nil
				c.Mem1Size = nil
				return c
			},
			param: "mem1Base",
		},
		{
			name: "fixed without mem1Size",
			cfg: func() *config.LayoutConfig {
				c := dualConfig(mode.DualRegionFixed, 0, 0x4000, 0x8000, 0, 0x40)
				c.Mem1Size = nil
				return c
			},
			param: "mem1Size",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Validate(tt.cfg())
			var e *Error
			if !errors.As(err, &e) {
				t.Fatalf("err = %v, want *Error", err)
			}
			if e.Kind != KindMissingParameter {
				t.Errorf("kind = %s, want %s", e.Kind, KindMissingParameter)
			}
			if e.Param != tt.param {
				t.Errorf("param = %q, want %q", e.Param, tt.param)
			}
		})
	}
}

func TestValidate_StackTooLarge(t *testing.T) {
	tests := []struct {
		name string
		cfg  *config.LayoutConfig
		ok   bool
	}{
		{"single equal", singleConfig(0x1000, 0x2000, 0x2000), false},
		{"single larger", singleConfig(0x1000, 0x2000, 0x3000), false},
		{"single smaller", singleConfig(0x1000, 0x2000, 0x1ff8), true},
		{"dual equal", dualConfig(mode.DualRegionRelocated, 0, 0x4000, 0x8000, 0x1000, 0x1000), false},
		{"dual checks mem1", dualConfig(mode.DualRegionFixed, 0, 0x100, 0x8000, 0x1000, 0x800), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Validate(tt.cfg)
			if tt.ok {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, ErrStackTooLarge) {
				t.Errorf("err = %v, want stack_too_large", err)
			}
		})
	}
}

func TestValidate_AddressOverflow(t *testing.T) {
	top := ^uint(0)

	_, err := Validate(singleConfig(top-0x10, 0x100, 0x40))
	if !errors.Is(err, ErrAddressOverflow) {
		t.Errorf("mem0: err = %v, want address_overflow", err)
	}

	_, err = Validate(dualConfig(mode.DualRegionFixed, 0, 0x4000, top-0x10, 0x100, 0x40))
	if !errors.Is(err, ErrAddressOverflow) {
		t.Errorf("mem1: err = %v, want address_overflow", err)
	}

	cfg := singleConfig(0x1000, 0x2000, 0x100)
	cfg.Hardware = &config.Hardware{FastMemOrigin: top, FastMemLength: 2}
	if _, err := Validate(cfg); !errors.Is(err, ErrAddressOverflow) {
		t.Errorf("fastMem: err = %v, want address_overflow", err)
	}
}
