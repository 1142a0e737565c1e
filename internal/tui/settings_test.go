package tui

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/aristath/todograph/internal/config"
)

func TestSettingsFormPrefill(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.StrictRecurrence = true

	m := NewSettingsForm(cfg, "/global/config.json", "/project/config.json")

	if m.store != config.StoreFile || m.dueTag != "due" || !m.strictRecurrence {
		t.Errorf("form not prefilled from config: %+v", m)
	}
	if m.TargetPath() != "/global/config.json" {
		t.Errorf("default target = %s, want global", m.TargetPath())
	}
}

func TestSettingsFormSave(t *testing.T) {
	dir := t.TempDir()
	globalPath := filepath.Join(dir, "global", "config.json")
	projectPath := filepath.Join(dir, "project", "config.json")

	m := NewSettingsForm(config.DefaultConfig(), globalPath, projectPath)
	m.saveTarget = TargetProject
	m.store = config.StoreSQLite
	m.databaseFile = filepath.Join(dir, "todo.db")
	m.recurrenceTag = " every "

	path, err := m.Save()
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if path != projectPath {
		t.Errorf("saved to %s, want %s", path, projectPath)
	}

	loaded, err := config.Load("", projectPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Store != config.StoreSQLite || loaded.Tags.Recurrence != "every" {
		t.Errorf("saved config not applied: %+v", loaded)
	}
}

func TestSettingsFormSaveRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	m := NewSettingsForm(config.DefaultConfig(), filepath.Join(dir, "config.json"), "")
	m.dueTag = "t"

	if _, err := m.Save(); !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}
