package memplan

import (
	"bytes"
	"fmt"
	"io"
	"math"

	"github.com/marcinbor85/gohex"
	"go.uber.org/zap"
)

// ImageReport describes how an Intel HEX image uses the planned regions.
type ImageReport struct {
	Segments int
	// Used is the number of bytes per region covered by segments.
	Used map[string]uint64
	// LoadEnd is the first address past the last segment in the text region.
	LoadEnd uint64
}

// CheckImage parses an Intel HEX image and verifies every data segment lies
// inside a region the image is allowed to load into: the text region and,
// when data is not relocated, the data region.
func CheckImage(p *MemoryPlan, r io.Reader) (*ImageReport, error) {
	mem, err := parseHex(r)
	if err != nil {
		return nil, err
	}
	return checkSegments(p, mem.GetDataSegments())
}

// CheckImageFile is CheckImage over the contents of a hex file.
func CheckImageFile(p *MemoryPlan, b []byte) (*ImageReport, error) {
	return CheckImage(p, bytes.NewReader(b))
}

func checkSegments(p *MemoryPlan, segments []gohex.DataSegment) (*ImageReport, error) {
	allowed := []string{p.Placement.Text}
	if p.Placement.DataLoad != p.Placement.Text {
		allowed = append(allowed, p.Placement.DataLoad)
	}
	text, _ := p.Region(p.Placement.Text)
	report := &ImageReport{Used: map[string]uint64{}, LoadEnd: text.Origin}

	for _, seg := range segments {
		start := uint64(seg.Address)
		end := start + uint64(len(seg.Data))
		region, ok := containingRegion(p, allowed, start, end)
		if !ok {
			return nil, &Error{
				Stage:  StageImage,
				Kind:   KindImageOutOfRange,
				Value:  start,
				Detail: fmt.Sprintf("segment [%#x, %#x) is outside %v", start, end, allowed),
			}
		}
		report.Segments++
		report.Used[region.Name] += end - start
		if region.Name == text.Name && end > report.LoadEnd {
			report.LoadEnd = end
		}
	}
	Logger().Debug("checked image",
		zap.Int("segments", report.Segments),
		zap.String("loadEnd", hexAddr(report.LoadEnd)))
	return report, nil
}

func containingRegion(p *MemoryPlan, names []string, start, end uint64) (MemoryRegion, bool) {
	for _, name := range names {
		r, ok := p.Region(name)
		if ok && start >= r.Origin && end <= r.End() {
			return r, true
		}
	}
	return MemoryRegion{}, false
}

// LoadImage flattens the text region part of an Intel HEX image into a
// binary that starts at the text region origin. Gaps are filled with 0xFF.
func LoadImage(p *MemoryPlan, r io.Reader) ([]byte, error) {
	mem, err := parseHex(r)
	if err != nil {
		return nil, err
	}
	report, err := checkSegments(p, mem.GetDataSegments())
	if err != nil {
		return nil, err
	}
	text, _ := p.Region(p.Placement.Text)
	if report.LoadEnd > math.MaxUint32 {
		return nil, &Error{
			Stage:  StageImage,
			Kind:   KindImageOutOfRange,
			Param:  text.Name,
			Detail: "text region is beyond the 32-bit hex address space",
		}
	}
	size := uint32(report.LoadEnd - text.Origin)
	return mem.ToBinary(uint32(text.Origin), size, 0xFF), nil
}

func parseHex(r io.Reader) (*gohex.Memory, error) {
	mem := gohex.NewMemory()
	if err := mem.ParseIntelHex(r); err != nil {
		return nil, &Error{Stage: StageImage, Kind: KindInvalidData, Detail: "bad intel hex", Cause: err}
	}
	return mem, nil
}
