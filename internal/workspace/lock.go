package workspace

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// LockRelPath is the lock file location relative to the workspace root.
// The file is written by the registry tool; skilldep only reads it.
const LockRelPath = ".clawhub/lock.json"

// LockEntry is the installation metadata recorded for one skill.
// Only the key matters for presence checks; the metadata is informational.
type LockEntry struct {
	Version     string    `json:"version,omitempty"`
	Source      string    `json:"source,omitempty"`
	InstalledAt time.Time `json:"installed_at,omitempty"`
}

// Lock maps installed skill identifiers to their installation metadata.
type Lock map[string]LockEntry

// LockPath returns the lock file path for this workspace.
func (w *Workspace) LockPath() string {
	return filepath.Join(w.root, LockRelPath)
}

// LoadLock reads the lock file. A missing, unreadable, or unparsable lock
// is treated as "nothing installed" and returns an empty mapping; it never
// fails the run.
func (w *Workspace) LoadLock() Lock {
	data, err := os.ReadFile(w.LockPath())
	if err != nil {
		return Lock{}
	}

	var lock Lock
	if err := json.Unmarshal(data, &lock); err != nil {
		return Lock{}
	}
	if lock == nil {
		return Lock{}
	}
	return lock
}
