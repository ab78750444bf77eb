// Package config provides configuration structures for the wardrobe search service.
// It defines closet settings, the query grammar, and server options.
package config

import (
	"path/filepath"
	"regexp"
	"strings"
)

// MaxClosetNameLength bounds closet names, which double as directory names.
const MaxClosetNameLength = 64

// closetNamePattern starts with a letter or digit, so "." and ".." never match.
var closetNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)

// ValidClosetName reports whether name is safe to use as a directory name
// directly under the data directory.
func ValidClosetName(name string) bool {
	return len(name) <= MaxClosetNameLength &&
		closetNamePattern.MatchString(name) &&
		filepath.Base(name) == name
}

// ClosetSettings contains all configuration options for a closet.
// Each closet carries its own grammar so the surface syntax of queries can be
// remapped per closet (e.g. "marque:=nike|adidas." for a French closet).
type ClosetSettings struct {
	Name         string  `json:"name"`          // Unique name for the closet
	Grammar      Grammar `json:"grammar"`       // Tokens of the query language
	DefaultLimit int     `json:"default_limit"` // Result cap used when a search does not give one; 0 means unbounded
}

// ValidateFieldNames validates the closet name and its grammar.
func (settings *ClosetSettings) ValidateFieldNames() []string {
	var conflicts []string

	if strings.TrimSpace(settings.Name) == "" {
		conflicts = append(conflicts, "Closet name cannot be empty or whitespace-only")
	} else if strings.TrimSpace(settings.Name) != settings.Name {
		conflicts = append(conflicts, "Closet name cannot have leading or trailing whitespace")
	}
	if strings.ContainsAny(settings.Name, `/\`) {
		conflicts = append(conflicts, "Closet name cannot contain path separators")
	} else if strings.TrimSpace(settings.Name) == settings.Name && settings.Name != "" && !ValidClosetName(settings.Name) {
		conflicts = append(conflicts, "Closet name must start with a letter or digit, use only letters, digits, '_', '-' or '.', and be at most 64 characters")
	}
	if settings.DefaultLimit < 0 {
		conflicts = append(conflicts, "Default limit cannot be negative")
	}

	conflicts = append(conflicts, settings.Grammar.Validate()...)
	return conflicts
}

// checkDuplicates checks for duplicate values in a slice and returns error messages
func checkDuplicates(fieldName string, fields []string) []string {
	var errors []string
	seen := make(map[string]bool)

	for _, field := range fields {
		if seen[field] {
			errors = append(errors, "Duplicate value '"+field+"' found in "+fieldName)
		}
		seen[field] = true
	}

	return errors
}

// ApplyDefaults applies default values to the closet settings
func (settings *ClosetSettings) ApplyDefaults() {
	settings.Grammar.ApplyDefaults()
}
