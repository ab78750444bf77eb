package model

import (
	"strconv"
	"strings"
)

// Item is a piece of clothing stored in a closet.
// ItemID is the only field used for identity and ordering.
type Item struct {
	ItemID    string   `json:"itemID"`
	Name      string   `json:"name,omitempty"`
	Brand     string   `json:"brand,omitempty"`
	Size      Size     `json:"size,omitempty"`
	Styles    []string `json:"styles,omitempty"`
	Types     []string `json:"types,omitempty"`
	Materials []string `json:"materials,omitempty"`
	Colors    []string `json:"colors,omitempty"`
	Dirty     bool     `json:"dirty"`
}

// Attributes returns the item's values in dimension d, one per bucket it
// belongs to.
func (i *Item) Attributes(d Dimension) []string {
	switch d {
	case DimensionStyle:
		return nonEmpty(i.Styles)
	case DimensionBrand:
		return nonEmpty([]string{i.Brand})
	case DimensionType:
		return nonEmpty(i.Types)
	case DimensionSize:
		if !i.Size.Valid() {
			return nil
		}
		return []string{i.Size.String()}
	case DimensionDirty:
		return []string{strconv.FormatBool(i.Dirty)}
	case DimensionMaterial:
		return nonEmpty(i.Materials)
	case DimensionColor:
		return nonEmpty(i.Colors)
	default:
		return nil
	}
}

// Compare orders items by ItemID.
func (i *Item) Compare(other *Item) int {
	return strings.Compare(i.ItemID, other.ItemID)
}

// Clone returns a deep copy of the item.
func (i *Item) Clone() *Item {
	c := *i
	c.Styles = append([]string(nil), i.Styles...)
	c.Types = append([]string(nil), i.Types...)
	c.Materials = append([]string(nil), i.Materials...)
	c.Colors = append([]string(nil), i.Colors...)
	return &c
}

func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}
