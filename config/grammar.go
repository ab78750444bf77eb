package config

import (
	"strings"

	"github.com/gcbaptista/go-wardrobe-search/model"
)

// Grammar holds every literal token of the closet query language.
// A clause reads: key Equality value (Separator value)* Terminator.
type Grammar struct {
	Equality   string                     `json:"equality" yaml:"equality"`     // Between a key and its values (e.g., "=")
	Separator  string                     `json:"separator" yaml:"separator"`   // Between two values (e.g., ",")
	Terminator string                     `json:"terminator" yaml:"terminator"` // Ends a clause (e.g., ";")
	Yes        string                     `json:"yes" yaml:"yes"`               // True value of boolean fields
	No         string                     `json:"no" yaml:"no"`                 // False value of boolean fields
	Keys       map[model.Dimension]string `json:"keys" yaml:"keys"`             // Field key per dimension, matched case-insensitively
}

// DefaultGrammar returns the grammar used when nothing is configured:
// brand=nike,adidas;size=l;dirty=no;
func DefaultGrammar() Grammar {
	g := Grammar{}
	g.ApplyDefaults()
	return g
}

// ApplyDefaults fills every empty token with its default.
func (g *Grammar) ApplyDefaults() {
	if g.Equality == "" {
		g.Equality = "="
	}
	if g.Separator == "" {
		g.Separator = ","
	}
	if g.Terminator == "" {
		g.Terminator = ";"
	}
	if g.Yes == "" {
		g.Yes = "yes"
	}
	if g.No == "" {
		g.No = "no"
	}
	if g.Keys == nil {
		g.Keys = make(map[model.Dimension]string, len(model.AllDimensions))
	}
	for _, d := range model.AllDimensions {
		if strings.TrimSpace(g.Keys[d]) == "" {
			g.Keys[d] = string(d)
		}
	}
}

// Validate returns every problem that would make the grammar ambiguous.
// An empty result means the grammar is usable.
func (g *Grammar) Validate() []string {
	var errors []string

	tokens := map[string]string{
		"equality":   g.Equality,
		"separator":  g.Separator,
		"terminator": g.Terminator,
		"yes":        g.Yes,
		"no":         g.No,
	}
	for name, token := range tokens {
		if token == "" {
			errors = append(errors, "Token '"+name+"' cannot be empty")
		}
	}

	if g.Separator != "" && g.Separator == g.Terminator {
		errors = append(errors, "Separator and terminator must differ")
	}
	// A terminator match always ends the list, so a separator starting with
	// the terminator could never be seen.
	if g.Terminator != "" && g.Separator != g.Terminator && strings.HasPrefix(g.Separator, g.Terminator) {
		errors = append(errors, "Terminator '"+g.Terminator+"' cannot be a prefix of separator '"+g.Separator+"'")
	}
	if g.Yes != "" && strings.EqualFold(strings.TrimSpace(g.Yes), strings.TrimSpace(g.No)) {
		errors = append(errors, "Boolean words 'yes' and 'no' must differ")
	}

	keys := make([]string, 0, len(g.Keys))
	for d, key := range g.Keys {
		if !d.Valid() {
			errors = append(errors, "Unknown dimension '"+string(d)+"' in keys")
			continue
		}
		normalized := strings.ToLower(strings.TrimSpace(key))
		if normalized == "" {
			errors = append(errors, "Key for dimension '"+string(d)+"' cannot be empty or whitespace-only")
			continue
		}
		if g.Equality != "" && strings.Contains(key, g.Equality) {
			errors = append(errors, "Key '"+key+"' cannot contain the equality token")
		}
		keys = append(keys, normalized)
	}
	errors = append(errors, checkDuplicates("keys", keys)...)

	return errors
}

// KeyIndex maps every normalized field key to its dimension.
func (g *Grammar) KeyIndex() map[string]model.Dimension {
	index := make(map[string]model.Dimension, len(g.Keys))
	for d, key := range g.Keys {
		index[strings.ToLower(strings.TrimSpace(key))] = d
	}
	return index
}
