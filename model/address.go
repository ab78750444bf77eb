package model

import "strconv"

// NoLimit asks for every matching item.
const NoLimit = 0

// ClothingAddress is the parsed form of a closet query such as
// "brand=nike,adidas;size=l;dirty=no;". Each list behaves as a set: adding a
// value that is already present is a no-op.
type ClothingAddress struct {
	Brands    []string `json:"brands,omitempty"`
	Sizes     []Size   `json:"sizes,omitempty"`
	Styles    []string `json:"styles,omitempty"`
	Types     []string `json:"types,omitempty"`
	Materials []string `json:"materials,omitempty"`
	Colors    []string `json:"colors,omitempty"`
	// Dirty is nil when the query does not constrain cleanliness.
	Dirty *bool `json:"dirty,omitempty"`
	// Limit caps the number of results; NoLimit or a negative value means unbounded.
	Limit int `json:"limit,omitempty"`
}

// NewClothingAddress returns an empty address with no limit.
func NewClothingAddress() *ClothingAddress {
	return &ClothingAddress{Limit: NoLimit}
}

// AddValues appends free-text values to the list of dimension d.
// It returns false when d is not a free-text dimension.
func (a *ClothingAddress) AddValues(d Dimension, values ...string) bool {
	var list *[]string
	switch d {
	case DimensionBrand:
		list = &a.Brands
	case DimensionStyle:
		list = &a.Styles
	case DimensionType:
		list = &a.Types
	case DimensionMaterial:
		list = &a.Materials
	case DimensionColor:
		list = &a.Colors
	default:
		return false
	}
	*list = appendUnique(*list, values...)
	return true
}

// AddSizes appends sizes to the size list.
func (a *ClothingAddress) AddSizes(sizes ...Size) {
	a.Sizes = appendUnique(a.Sizes, sizes...)
}

// SetDirty constrains cleanliness.
func (a *ClothingAddress) SetDirty(dirty bool) {
	a.Dirty = &dirty
}

// Unbounded reports whether every match should be returned.
func (a *ClothingAddress) Unbounded() bool {
	return a.Limit <= NoLimit
}

// Terms returns the queried values of every dimension. The dirty flag, when
// set, is a single value of its own dimension.
func (a *ClothingAddress) Terms() map[Dimension][]string {
	terms := make(map[Dimension][]string)
	add := func(d Dimension, values []string) {
		if len(values) > 0 {
			terms[d] = append(terms[d], values...)
		}
	}

	add(DimensionBrand, a.Brands)
	add(DimensionStyle, a.Styles)
	add(DimensionType, a.Types)
	add(DimensionMaterial, a.Materials)
	add(DimensionColor, a.Colors)
	for _, s := range a.Sizes {
		add(DimensionSize, []string{s.String()})
	}
	if a.Dirty != nil {
		add(DimensionDirty, []string{strconv.FormatBool(*a.Dirty)})
	}
	return terms
}

// IsEmpty reports whether the address constrains nothing.
func (a *ClothingAddress) IsEmpty() bool {
	return len(a.Terms()) == 0
}

func appendUnique[T comparable](list []T, values ...T) []T {
outer:
	for _, v := range values {
		for _, existing := range list {
			if existing == v {
				continue outer
			}
		}
		list = append(list, v)
	}
	return list
}
