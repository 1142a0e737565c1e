package config

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
)

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("invalid config")

// Validate reports the first setting the program cannot work with.
func (c *Config) Validate() error {
	switch c.Store {
	case StoreFile:
		if c.TodoFile == "" || c.ArchiveFile == "" {
			return fmt.Errorf("%w: store %q needs todo_file and archive_file", ErrInvalidConfig, c.Store)
		}
	case StoreSQLite:
		if c.DatabaseFile == "" {
			return fmt.Errorf("%w: store %q needs database_file", ErrInvalidConfig, c.Store)
		}
	default:
		return fmt.Errorf("%w: unknown store %q", ErrInvalidConfig, c.Store)
	}

	tags := map[string]string{
		"start":      c.Tags.Start,
		"due":        c.Tags.Due,
		"recurrence": c.Tags.Recurrence,
	}
	seen := make(map[string]string, len(tags))
	for _, name := range []string{"start", "due", "recurrence"} {
		value := tags[name]
		if value == "" {
			return fmt.Errorf("%w: tags.%s is empty", ErrInvalidConfig, name)
		}
		if other, ok := seen[value]; ok {
			return fmt.Errorf("%w: tags.%s and tags.%s are both %q", ErrInvalidConfig, other, name, value)
		}
		seen[value] = name
	}

	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log.level: %w", ErrInvalidConfig, err)
	}
	switch c.Log.Format {
	case "text", "json", "logfmt":
	default:
		return fmt.Errorf("%w: unknown log.format %q", ErrInvalidConfig, c.Log.Format)
	}

	return nil
}
