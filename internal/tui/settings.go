package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/aristath/todograph/internal/config"
)

// Save targets offered by the settings form.
const (
	TargetGlobal  = "global"
	TargetProject = "project"
)

// SettingsForm edits a config and saves it to the global or project file.
type SettingsForm struct {
	form        *huh.Form
	config      *config.Config
	globalPath  string
	projectPath string

	// Form field bindings
	saveTarget       string
	store            string
	todoFile         string
	archiveFile      string
	databaseFile     string
	startTag         string
	dueTag           string
	recurrenceTag    string
	strictRecurrence bool
}

// NewSettingsForm creates a form prefilled from cfg.
func NewSettingsForm(cfg *config.Config, globalPath, projectPath string) *SettingsForm {
	m := &SettingsForm{
		config:      cfg,
		globalPath:  globalPath,
		projectPath: projectPath,

		saveTarget:       TargetGlobal,
		store:            cfg.Store,
		todoFile:         cfg.TodoFile,
		archiveFile:      cfg.ArchiveFile,
		databaseFile:     cfg.DatabaseFile,
		startTag:         cfg.Tags.Start,
		dueTag:           cfg.Tags.Due,
		recurrenceTag:    cfg.Tags.Recurrence,
		strictRecurrence: cfg.StrictRecurrence,
	}

	m.buildForm()
	return m
}

func notEmpty(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s cannot be empty", field)
		}
		return nil
	}
}

// buildForm constructs the huh form with all settings fields.
func (m *SettingsForm) buildForm() {
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("saveTarget").
				Title("Save To").
				Options(
					huh.NewOption("Global ("+m.globalPath+")", TargetGlobal),
					huh.NewOption("Project ("+m.projectPath+")", TargetProject),
				).
				Value(&m.saveTarget),
		).Title("Save Target"),

		huh.NewGroup(
			huh.NewSelect[string]().
				Key("store").
				Title("Store").
				Options(
					huh.NewOption("todo.txt files", config.StoreFile),
					huh.NewOption("SQLite database", config.StoreSQLite),
				).
				Value(&m.store),

			huh.NewInput().
				Key("todoFile").
				Title("Todo File").
				Value(&m.todoFile).
				Placeholder("todo.txt"),

			huh.NewInput().
				Key("archiveFile").
				Title("Archive File").
				Value(&m.archiveFile).
				Placeholder("done.txt"),

			huh.NewInput().
				Key("databaseFile").
				Title("Database File").
				Value(&m.databaseFile),
		).Title("Storage"),

		huh.NewGroup(
			huh.NewInput().
				Key("startTag").
				Title("Start Date Tag").
				Value(&m.startTag).
				Placeholder("t").
				Validate(notEmpty("start tag")),

			huh.NewInput().
				Key("dueTag").
				Title("Due Date Tag").
				Value(&m.dueTag).
				Placeholder("due").
				Validate(notEmpty("due tag")),

			huh.NewInput().
				Key("recurrenceTag").
				Title("Recurrence Tag").
				Value(&m.recurrenceTag).
				Placeholder("rec").
				Validate(notEmpty("recurrence tag")),

			huh.NewConfirm().
				Key("strictRecurrence").
				Title("Strict Recurrence").
				Description("Count every recurrence from the previous due date").
				Value(&m.strictRecurrence),
		).Title("Tags"),
	)
}

// Apply copies form field values back to the config struct.
func (m *SettingsForm) Apply() {
	m.config.Store = m.store
	m.config.TodoFile = strings.TrimSpace(m.todoFile)
	m.config.ArchiveFile = strings.TrimSpace(m.archiveFile)
	m.config.DatabaseFile = strings.TrimSpace(m.databaseFile)
	m.config.Tags = config.TagsConfig{
		Start:      strings.TrimSpace(m.startTag),
		Due:        strings.TrimSpace(m.dueTag),
		Recurrence: strings.TrimSpace(m.recurrenceTag),
	}
	m.config.StrictRecurrence = m.strictRecurrence
}

// TargetPath returns the file the config will be saved to.
func (m *SettingsForm) TargetPath() string {
	if m.saveTarget == TargetProject {
		return m.projectPath
	}
	return m.globalPath
}

// Save validates the edited config and writes it to TargetPath.
func (m *SettingsForm) Save() (string, error) {
	m.Apply()

	path := m.TargetPath()
	if err := config.Save(m.config, path); err != nil {
		return "", err
	}
	return path, nil
}

// Run shows the form on the terminal and saves the result. A form closed
// without finishing saves nothing and returns "" with a nil error.
func (m *SettingsForm) Run() (string, error) {
	if err := m.form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", nil
		}
		return "", fmt.Errorf("running settings form: %w", err)
	}
	return m.Save()
}
