package windowing

import (
	"strconv"
	"strings"
)

// SizeFunc returns the extent of the item at index along the primary axis.
type SizeFunc func(index int) float64

type sizeKind uint8

const (
	sizeFixed sizeKind = iota
	sizePercent
	sizePerIndex
	sizeMeasured
)

// SizeSpec describes how item sizes are known. It is resolved once per
// session into a SizeFunc so the hot paths never branch on its kind.
type SizeSpec struct {
	kind    sizeKind
	value   float64 // fixed size, percentage or measured default
	raw     string
	perItem SizeFunc
}

// Fixed sizes every item the same.
func Fixed(size float64) SizeSpec {
	return SizeSpec{kind: sizeFixed, value: size}
}

// Percent sizes every item as a percentage of the container, e.g. "25%".
// The string is validated when the spec is resolved.
func Percent(s string) SizeSpec {
	return SizeSpec{kind: sizePercent, raw: s}
}

// PerIndex sizes items with a callback. Item data the callback needs is
// captured by the closure.
func PerIndex(fn SizeFunc) SizeSpec {
	return SizeSpec{kind: sizePerIndex, perItem: fn}
}

// Measured means sizes are only learned from rendered content.
// defaultSize stands in for items that have not been measured yet.
func Measured(defaultSize float64) SizeSpec {
	return SizeSpec{kind: sizeMeasured, value: defaultSize}
}

// ParseSize accepts either a plain number ("25") or a percentage ("50%").
func ParseSize(s string) (SizeSpec, error) {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "%") {
		spec := Percent(s)
		if _, err := spec.percent(); err != nil {
			return SizeSpec{}, err
		}
		return spec, nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return SizeSpec{}, configError("size %q is neither a number nor a percentage", s)
	}
	if n < 0 || !finite(n) {
		return SizeSpec{}, configError("size %q is not a finite non-negative number", s)
	}
	return Fixed(n), nil
}

// IsMeasured reports whether sizes come from measurement only.
func (s SizeSpec) IsMeasured() bool { return s.kind == sizeMeasured }

// DependsOnContainer reports whether a container resize changes the sizes.
func (s SizeSpec) DependsOnContainer() bool { return s.kind == sizePercent }

// DefaultSize is the stand-in size of a measured spec, or zero.
func (s SizeSpec) DefaultSize() float64 {
	if s.kind == sizeMeasured {
		return s.value
	}
	return 0
}

func (s SizeSpec) String() string {
	switch s.kind {
	case sizeFixed:
		return strconv.FormatFloat(s.value, 'f', -1, 64)
	case sizePercent:
		return s.raw
	case sizePerIndex:
		return "func"
	default:
		return "measured(" + strconv.FormatFloat(s.value, 'f', -1, 64) + ")"
	}
}

func (s SizeSpec) percent() (float64, error) {
	if !strings.HasSuffix(s.raw, "%") {
		return 0, configError("size %q must end in %%", s.raw)
	}
	p, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(s.raw, "%")), 64)
	if err != nil || p < 0 || !finite(p) {
		return 0, configError("size %q is not a valid percentage", s.raw)
	}
	return p, nil
}

// Validate checks the spec without resolving it against a container.
func (s SizeSpec) Validate() error {
	switch s.kind {
	case sizeFixed:
		if s.value < 0 || !finite(s.value) {
			return configError("fixed size %v is not a finite non-negative number", s.value)
		}
	case sizePercent:
		_, err := s.percent()
		return err
	case sizePerIndex:
		if s.perItem == nil {
			return configError("per-index size callback is nil")
		}
	case sizeMeasured:
		if !(s.value > 0) || !finite(s.value) {
			return configError("measured default size %v must be positive and finite", s.value)
		}
	}
	return nil
}

// Resolve turns the spec into a size function. containerSize <= 0 means the
// container is not known yet, which is an error for percentages. Measured
// specs resolve to a nil function: their sizes live in a DynamicCache.
func (s SizeSpec) Resolve(containerSize float64) (SizeFunc, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	switch s.kind {
	case sizeFixed:
		v := s.value
		return func(int) float64 { return v }, nil
	case sizePercent:
		if containerSize <= 0 {
			return nil, configError("percentage size %q needs a known container size", s.raw)
		}
		p, _ := s.percent()
		v := containerSize * p / 100
		return func(int) float64 { return v }, nil
	case sizePerIndex:
		return s.perItem, nil
	default:
		return nil, nil
	}
}
