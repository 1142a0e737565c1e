package config

// Store backends.
const (
	StoreFile   = "file"   // todo.txt and done.txt
	StoreSQLite = "sqlite" // database_file
)

// TagsConfig names the todo.txt tags with special meaning.
type TagsConfig struct {
	Start      string `json:"start,omitempty" yaml:"start,omitempty"`           // Start date (threshold), e.g. "t"
	Due        string `json:"due,omitempty" yaml:"due,omitempty"`               // Due date, e.g. "due"
	Recurrence string `json:"recurrence,omitempty" yaml:"recurrence,omitempty"` // Recurrence pattern, e.g. "rec"
}

// LogConfig controls diagnostic output on stderr.
type LogConfig struct {
	Level  string `json:"level,omitempty" yaml:"level,omitempty"`   // debug, info, warn, error
	Format string `json:"format,omitempty" yaml:"format,omitempty"` // text, json, logfmt
}

// Config is the top-level configuration.
type Config struct {
	TodoFile     string `json:"todo_file,omitempty" yaml:"todo_file,omitempty"`
	ArchiveFile  string `json:"archive_file,omitempty" yaml:"archive_file,omitempty"`
	Store        string `json:"store,omitempty" yaml:"store,omitempty"`                 // StoreFile or StoreSQLite
	DatabaseFile string `json:"database_file,omitempty" yaml:"database_file,omitempty"` // Used when Store is StoreSQLite

	Tags TagsConfig `json:"tags" yaml:"tags"`

	// StrictRecurrence counts every recurrence from the old due date.
	StrictRecurrence bool `json:"strict_recurrence,omitempty" yaml:"strict_recurrence,omitempty"`

	Log LogConfig `json:"log" yaml:"log"`
}
