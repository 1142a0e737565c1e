package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// DefaultConfig returns the default configuration: todo.txt files in the
// working directory and the conventional tag names.
func DefaultConfig() *Config {
	return &Config{
		TodoFile:     "todo.txt",
		ArchiveFile:  "done.txt",
		Store:        StoreFile,
		DatabaseFile: filepath.Join(xdg.DataHome, "todograph", "todo.db"),
		Tags: TagsConfig{
			Start:      "t",
			Due:        "due",
			Recurrence: "rec",
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}
