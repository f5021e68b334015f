package memplan

import (
	"errors"
	"fmt"
	"strings"
)

// Stage indicates which pipeline stage produced the error
type Stage string

const (
	StageLoad     Stage = "load"     // config evaluation
	StageValidate Stage = "validate" // config checks
	StageRegions  Stage = "regions"  // region calculation
	StageSymbols  Stage = "symbols"  // symbol export
	StageImage    Stage = "image"    // firmware image checks
)

// Kind categorizes the error
type Kind string

const (
	KindInvalidMode      Kind = "invalid_mode"
	KindMissingParameter Kind = "missing_parameter"
	KindStackTooLarge    Kind = "stack_too_large"
	KindStackDoesNotFit  Kind = "stack_does_not_fit"
	KindHeapRegionEmpty  Kind = "heap_region_empty"
	KindAddressOverflow  Kind = "address_overflow"
	KindRegionOverlap    Kind = "region_overlap"
	KindSectionOverflow  Kind = "section_overflow"
	KindImageOutOfRange  Kind = "image_out_of_range"
	KindInvalidData      Kind = "invalid_data"
)

// Sentinels for errors.Is. They match any *Error of the same kind.
var (
	ErrInvalidMode      = &Error{Kind: KindInvalidMode}
	ErrMissingParameter = &Error{Kind: KindMissingParameter}
	ErrStackTooLarge    = &Error{Kind: KindStackTooLarge}
	ErrStackDoesNotFit  = &Error{Kind: KindStackDoesNotFit}
	ErrHeapRegionEmpty  = &Error{Kind: KindHeapRegionEmpty}
	ErrAddressOverflow  = &Error{Kind: KindAddressOverflow}
	ErrRegionOverlap    = &Error{Kind: KindRegionOverlap}
	ErrSectionOverflow  = &Error{Kind: KindSectionOverflow}
	ErrImageOutOfRange  = &Error{Kind: KindImageOutOfRange}
)

// Error is the structured error returned by every planner stage.
type Error struct {
	Value  any
	Cause  error
	Stage  Stage
	Kind   Kind
	Param  string
	Detail string
}

func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Stage))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Param != "" {
		b.WriteString(" ")
		b.WriteString(e.Param)
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target has the same kind. A target with a stage set
// must also match the stage.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Stage != "" && t.Stage != e.Stage {
		return false
	}
	return e.Kind == t.Kind
}

// IsWarning reports whether err is a condition the caller may choose to
// accept, currently only an empty heap.
func IsWarning(err error) bool {
	return errors.Is(err, ErrHeapRegionEmpty)
}

func invalidMode(m string) *Error {
	return &Error{
		Stage:  StageValidate,
		Kind:   KindInvalidMode,
		Value:  m,
		Detail: fmt.Sprintf("%q is not a recognized layout mode", m),
	}
}

func missingParameter(name string) *Error {
	return &Error{
		Stage:  StageValidate,
		Kind:   KindMissingParameter,
		Param:  name,
		Detail: fmt.Sprintf("required parameter %q not supplied", name),
	}
}

func stackTooLarge(param string, stackSize, regionSize uint64) *Error {
	return &Error{
		Stage:  StageValidate,
		Kind:   KindStackTooLarge,
		Param:  param,
		Value:  stackSize,
		Detail: fmt.Sprintf("stack size %#x is not smaller than %s %#x", stackSize, param, regionSize),
	}
}

func addressOverflow(stage Stage, param string, base, size uint64) *Error {
	return &Error{
		Stage:  stage,
		Kind:   KindAddressOverflow,
		Param:  param,
		Detail: fmt.Sprintf("%#x + %#x wraps the address space", base, size),
	}
}

func stackDoesNotFit(base, size uint64, aligned int64) *Error {
	return &Error{
		Stage:  StageRegions,
		Kind:   KindStackDoesNotFit,
		Value:  aligned,
		Detail: fmt.Sprintf("stack of %#x bytes at %#x aligns down to %d bytes", size, base, aligned),
	}
}

func privilegedStackDoesNotFit(stack MemoryRegion, size uint64) *Error {
	return &Error{
		Stage:  StageRegions,
		Kind:   KindStackDoesNotFit,
		Param:  "privilegedStackSize",
		Value:  size,
		Detail: fmt.Sprintf("privileged stack of %#x bytes does not fit in %s (%#x bytes)", size, stack, stack.Length),
	}
}

func regionOverlap(a, b MemoryRegion) *Error {
	return &Error{
		Stage:  StageRegions,
		Kind:   KindRegionOverlap,
		Param:  a.Name,
		Detail: fmt.Sprintf("%s overlaps %s", a, b),
	}
}

func sectionOverflow(what string, need uint64, r MemoryRegion) *Error {
	return &Error{
		Stage:  StageRegions,
		Kind:   KindSectionOverflow,
		Param:  what,
		Value:  need,
		Detail: fmt.Sprintf("%#x bytes do not fit in %s", need, r),
	}
}

func heapRegionEmpty(start, end uint64) *Error {
	return &Error{
		Stage:  StageSymbols,
		Kind:   KindHeapRegionEmpty,
		Detail: fmt.Sprintf("heap [%#x, %#x) is empty", start, end),
	}
}
