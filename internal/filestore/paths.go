package filestore

import (
	"path/filepath"
)

// Paths resolves the fixed JSON layout under a data directory. The
// layout is shared with older deployments, so the names never change.
type Paths struct {
	Root string
}

func NewPaths(root string) Paths {
	return Paths{Root: root}
}

func (p Paths) Users() string     { return filepath.Join(p.Root, "users.json") }
func (p Paths) Questions() string { return filepath.Join(p.Root, "questions.json") }
func (p Paths) Scores() string    { return filepath.Join(p.Root, "scores.json") }
func (p Paths) Settings() string  { return filepath.Join(p.Root, "settings.json") }

// BackupDir receives both superseded versions and quarantined corrupt
// files.
func (p Paths) BackupDir() string { return filepath.Join(p.Root, "backups") }

// UserSettings is the per-user preference blob. These files stay
// file-backed regardless of the active storage backend.
func (p Paths) UserSettings(username string) string {
	return filepath.Join(p.Root, "user_settings", username+".json")
}
