package persistence

import (
	"fmt"

	"github.com/mitchellh/hashstructure/v2"

	"github.com/aristath/todograph/internal/todolist"
)

// snapshot is what Fingerprint hashes. Encoded lines carry the dependency
// tags, so edges are covered without hashing them separately.
type snapshot struct {
	IDs   []string
	Lines []string
}

// Fingerprint hashes the persisted content of list. Equal fingerprints
// before and after a command mean there is nothing to save.
func Fingerprint(list *todolist.TodoList) (uint64, error) {
	snap := snapshot{Lines: list.Encode()}
	for _, t := range list.Todos() {
		snap.IDs = append(snap.IDs, t.ID)
	}

	h, err := hashstructure.Hash(snap, hashstructure.FormatV2, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to fingerprint list: %w", err)
	}
	return h, nil
}
