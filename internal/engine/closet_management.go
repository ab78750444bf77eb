package engine

import (
	"fmt"
	"os"

	"github.com/gcbaptista/go-wardrobe-search/config"
	"github.com/gcbaptista/go-wardrobe-search/internal/errors"
	"github.com/gcbaptista/go-wardrobe-search/store"
)

// CreateCloset creates a new closet with the given settings and persists it.
// A closet created without grammar tokens gets the engine's default grammar.
func (e *Engine) CreateCloset(settings config.ClosetSettings) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.closets[settings.Name]; exists {
		return errors.NewClosetAlreadyExistsError(settings.Name)
	}
	settings = e.withDefaultGrammar(settings)
	if problems := settings.ValidateFieldNames(); len(problems) > 0 {
		return errors.NewValidationError("settings", fmt.Sprintf("%v", problems))
	}

	instance, err := newClosetInstance(settings, store.NewItemStore(), e.logger, e.metrics)
	if err != nil {
		return fmt.Errorf("failed to create closet '%s': %w", settings.Name, err)
	}

	if err := e.persistClosetUnsafe(instance); err != nil {
		return fmt.Errorf("failed to persist new closet '%s': %w", settings.Name, err)
	}

	e.closets[settings.Name] = instance
	e.logger.Info("closet created", "closet", settings.Name)
	return nil
}

// UpdateClosetSettings replaces the grammar and default limit of a closet.
// The closet name cannot change. Items are untouched: the index does not
// depend on the grammar.
func (e *Engine) UpdateClosetSettings(name string, settings config.ClosetSettings) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	instance, exists := e.closets[name]
	if !exists {
		return errors.NewClosetNotFoundError(name)
	}
	if settings.Name == "" {
		settings.Name = name
	}
	if settings.Name != name {
		return errors.NewValidationError("name", "closet name cannot be changed through a settings update")
	}
	settings = e.withDefaultGrammar(settings)
	if problems := settings.ValidateFieldNames(); len(problems) > 0 {
		return errors.NewValidationError("settings", fmt.Sprintf("%v", problems))
	}

	if err := instance.applySettings(settings); err != nil {
		return fmt.Errorf("failed to apply settings to closet '%s': %w", name, err)
	}
	if err := e.persistClosetUnsafe(instance); err != nil {
		return fmt.Errorf("failed to persist settings of closet '%s': %w", name, err)
	}

	e.logger.Info("closet settings updated", "closet", name)
	return nil
}

// DeleteCloset deletes a closet and its data from disk.
func (e *Engine) DeleteCloset(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.closets[name]; !exists {
		return errors.NewClosetNotFoundError(name)
	}
	closetPath, err := e.closetDir(name)
	if err != nil {
		return err
	}

	delete(e.closets, name)
	e.metrics.ForgetCloset(name)

	if err := os.RemoveAll(closetPath); err != nil {
		return fmt.Errorf("failed to remove closet directory %s: %w", closetPath, err)
	}

	e.logger.Info("closet deleted", "closet", name)
	return nil
}

// withDefaultGrammar fills an unset grammar from the engine default. A
// partially set grammar keeps its own tokens and gets the built-in defaults
// for the rest.
func (e *Engine) withDefaultGrammar(settings config.ClosetSettings) config.ClosetSettings {
	g := settings.Grammar
	if g.Equality == "" && g.Separator == "" && g.Terminator == "" && g.Yes == "" && g.No == "" && len(g.Keys) == 0 {
		settings.Grammar = e.defaultGrammar
		settings.Grammar.Keys = cloneKeys(e.defaultGrammar.Keys)
	}
	settings.Grammar.Keys = cloneKeys(settings.Grammar.Keys)
	settings.ApplyDefaults()
	return settings
}
