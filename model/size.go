package model

import "fmt"

// Size is a garment size. The zero value means the size is not known.
type Size int

const (
	SizeUnspecified Size = iota
	SizeXXS
	SizeXS
	SizeS
	SizeM
	SizeL
	SizeXL
	SizeXXL
	SizeXXXL
	SizeOneSize
)

// SizeWordSeparator joins the words of multi-word size names.
const SizeWordSeparator = "_"

var sizeNames = []string{"", "XXS", "XS", "S", "M", "L", "XL", "XXL", "XXXL", "ONE_SIZE"}

// SizeNames maps every size name to its value.
func SizeNames() map[string]Size {
	names := make(map[string]Size, len(sizeNames)-1)
	for i, name := range sizeNames[1:] {
		names[name] = Size(i + 1)
	}
	return names
}

func (s Size) String() string {
	if s < 0 || int(s) >= len(sizeNames) {
		return fmt.Sprintf("Size(%d)", int(s))
	}
	return sizeNames[s]
}

// Valid reports whether s is a known, specified size.
func (s Size) Valid() bool {
	return s > SizeUnspecified && int(s) < len(sizeNames)
}

// ParseSize looks up a size by its exact name.
func ParseSize(name string) (Size, error) {
	if s, ok := SizeNames()[name]; ok {
		return s, nil
	}
	return SizeUnspecified, fmt.Errorf("unknown size %q", name)
}

// MarshalText encodes the size as its name.
func (s Size) MarshalText() ([]byte, error) {
	if s != SizeUnspecified && !s.Valid() {
		return nil, fmt.Errorf("invalid size %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText decodes a size name. An empty name leaves the size unspecified.
func (s *Size) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*s = SizeUnspecified
		return nil
	}
	parsed, err := ParseSize(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
