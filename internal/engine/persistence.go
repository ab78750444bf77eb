package engine

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gcbaptista/go-wardrobe-search/config"
	apperrors "github.com/gcbaptista/go-wardrobe-search/internal/errors"
	"github.com/gcbaptista/go-wardrobe-search/internal/persistence"
	"github.com/gcbaptista/go-wardrobe-search/model"
	"github.com/gcbaptista/go-wardrobe-search/store"
)

// loadClosetsFromDisk loads every closet directory under the data directory.
// The category index is not persisted; it is rebuilt from the item store.
func (e *Engine) loadClosetsFromDisk() {
	e.logger.Info("loading closets from disk", "dir", e.dataDir)

	entries, err := os.ReadDir(e.dataDir)
	if err != nil {
		e.logger.Warn("failed to read data directory, no closets loaded", "dir", e.dataDir, "error", err)
		return
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		log := e.logger.With("closet", name)
		closetPath, err := e.closetDir(name)
		if err != nil {
			log.Warn("directory is not a valid closet name, skipping", "error", err)
			continue
		}

		var settings config.ClosetSettings
		if err := persistence.LoadGob(filepath.Join(closetPath, settingsFile), &settings); err != nil {
			log.Warn("failed to load settings, skipping closet", "error", err)
			continue
		}
		if settings.Name != name {
			log.Warn("closet name in settings does not match directory, skipping closet", "settings_name", settings.Name)
			continue
		}

		items := store.NewItemStore()
		if err := persistence.LoadGob(filepath.Join(closetPath, itemsFile), items); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				log.Info("item file not found, starting empty")
			} else {
				log.Warn("failed to load items, starting empty", "error", err)
			}
			items = store.NewItemStore()
		}

		instance, err := newClosetInstance(settings, items, e.logger, e.metrics)
		if err != nil {
			log.Error("failed to build closet, skipping", "error", err)
			continue
		}

		e.closets[name] = instance
		log.Info("closet loaded", "items", items.Len())
	}
}

// PersistClosetData persists the data for a specific closet to disk.
func (e *Engine) PersistClosetData(name string) error {
	e.mu.RLock()
	instance, exists := e.closets[name]
	e.mu.RUnlock()

	if !exists {
		return apperrors.NewClosetNotFoundError(name)
	}
	return e.persistClosetUnsafe(instance)
}

// persistClosetUnsafe writes settings and items of a closet.
// This method assumes the caller holds the engine lock or the instance is not yet shared.
func (e *Engine) persistClosetUnsafe(instance *ClosetInstance) error {
	settings := instance.Settings()
	closetPath, err := e.closetDir(settings.Name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(closetPath, dataDirPerm); err != nil {
		return fmt.Errorf("failed to create directory for closet %s: %w", settings.Name, err)
	}

	if err := persistence.SaveGob(filepath.Join(closetPath, settingsFile), settings); err != nil {
		return fmt.Errorf("failed to save settings for closet %s: %w", settings.Name, err)
	}
	if err := persistence.SaveGob(filepath.Join(closetPath, itemsFile), instance.store); err != nil {
		return fmt.Errorf("failed to save items for closet %s: %w", settings.Name, err)
	}
	return nil
}

// closetDir returns the directory of closet name. It refuses any name that
// does not resolve to a direct child of the data directory.
func (e *Engine) closetDir(name string) (string, error) {
	if !config.ValidClosetName(name) {
		return "", apperrors.NewValidationError("name", fmt.Sprintf("invalid closet name %q", name))
	}
	dir := filepath.Join(e.dataDir, name)
	if rel, err := filepath.Rel(e.dataDir, dir); err != nil || rel != name {
		return "", apperrors.NewValidationError("name", fmt.Sprintf("closet %q resolves outside the data directory", name))
	}
	return dir, nil
}

func cloneKeys(keys map[model.Dimension]string) map[model.Dimension]string {
	if keys == nil {
		return nil
	}
	out := make(map[model.Dimension]string, len(keys))
	for d, k := range keys {
		out[d] = k
	}
	return out
}
