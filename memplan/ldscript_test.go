package memplan

import (
	"strings"
	"testing"

	"github.com/q0jt/go-memplan/memplan/config"
	"github.com/q0jt/go-memplan/memplan/config/mode"
)

func TestWriteLinkerScript(t *testing.T) {
	cfg := dualConfig(mode.DualRegionRelocated, 0, 0x4000, 0x8000, 0x1000, 0x40)
	cfg.Sections = &config.Sections{Text: 0x100, Data: 0x30}
	l, err := Plan(cfg)
	if err != nil {
		t.Fatal(err)
	}

	var b strings.Builder
	if err := WriteLinkerScript(&b, l); err != nil {
		t.Fatal(err)
	}
	script := b.String()

	for _, want := range []string{
		"dual-region-relocated layout",
		"  mem0 (rx) : ORIGIN = 0x0, LENGTH = 0x4000\n",
		"  mem1 (rwx) : ORIGIN = 0x8000, LENGTH = 0xfc0\n",
		"  stack (rw) : ORIGIN = 0x8fc0, LENGTH = 0x40\n",
		"  fast (rw) : ORIGIN = 0x10000000, LENGTH = 0x1000\n",
		`REGION_ALIAS("REGION_TEXT", mem0);`,
		`REGION_ALIAS("REGION_DATA_LOAD", mem0);`,
		`REGION_ALIAS("REGION_DATA", mem1);`,
		`REGION_ALIAS("REGION_FAST_DATA", fast);`,
		"PROVIDE(DATA_LOAD_START = 0x100);",
		"PROVIDE(DATA_START = 0x8000);",
		"PROVIDE(STACK_TOP = 0x9000);",
	} {
		if !strings.Contains(script, want) {
			t.Errorf("script lacks %q:\n%s", want, script)
		}
	}
	for _, s := range l.Symbols.Symbols() {
		if !strings.Contains(script, "PROVIDE("+s.Name+" = ") {
			t.Errorf("script lacks symbol %s", s.Name)
		}
	}
}

func TestWriteLinkerScript_NoFastMemory(t *testing.T) {
	cfg := singleConfig(0x1000, 0x2000, 0x100)
	cfg.Hardware = &config.Hardware{}
	l, err := Plan(cfg)
	if err != nil {
		t.Fatal(err)
	}
	var b strings.Builder
	if err := WriteLinkerScript(&b, l); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(b.String(), "REGION_FAST_DATA") {
		t.Errorf("fast data alias without fast memory:\n%s", b.String())
	}
}
