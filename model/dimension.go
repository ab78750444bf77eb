package model

import (
	"strings"

	"golang.org/x/text/cases"
)

// Dimension names one indexed attribute of a clothing item.
type Dimension string

const (
	DimensionStyle    Dimension = "style"
	DimensionBrand    Dimension = "brand"
	DimensionType     Dimension = "type"
	DimensionSize     Dimension = "size"
	DimensionDirty    Dimension = "dirty"
	DimensionMaterial Dimension = "material"
	DimensionColor    Dimension = "color"
)

// AllDimensions lists every indexed dimension in a fixed order.
var AllDimensions = []Dimension{
	DimensionStyle,
	DimensionBrand,
	DimensionType,
	DimensionSize,
	DimensionDirty,
	DimensionMaterial,
	DimensionColor,
}

// Valid reports whether d is one of the known dimensions.
func (d Dimension) Valid() bool {
	for _, known := range AllDimensions {
		if d == known {
			return true
		}
	}
	return false
}

// NormalizeValue returns the key under which an attribute value is indexed.
// Values are compared without regard to case or surrounding whitespace.
func NormalizeValue(v string) string {
	return cases.Fold().String(strings.TrimSpace(v))
}
