package filestore

import (
	"os"
	"path/filepath"
	"testing"

	"quizvault/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSONReadJSONRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.json")
	backups := filepath.Join(dir, "backups")

	in := map[string]any{"passing_score": 80.0, "company_name": "Acme"}
	require.NoError(t, WriteJSON(path, backups, in))

	out := map[string]any{}
	require.NoError(t, ReadJSON(path, backups, &out))
	assert.Equal(t, in, out)
}

func TestReadJSONMissingFileKeepsDefault(t *testing.T) {
	dir := t.TempDir()

	out := map[string]any{"passing_score": 80.0}
	err := ReadJSON(filepath.Join(dir, "absent.json"), filepath.Join(dir, "backups"), &out)
	require.NoError(t, err)
	// The caller's default value must stand untouched.
	assert.Equal(t, map[string]any{"passing_score": 80.0}, out)
}

func TestReadJSONCorruptFileQuarantined(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scores.json")
	backups := filepath.Join(dir, "backups")
	corrupt := []byte("{not json at all")
	require.NoError(t, os.WriteFile(path, corrupt, 0o644))

	var out []map[string]any
	err := ReadJSON(path, backups, &out)
	require.Error(t, err)
	assert.True(t, domain.HasCode(err, domain.ErrCorruptedFile))

	// Exactly one quarantine copy with the original bytes.
	entries, err := os.ReadDir(backups)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Name(), "scores.json.bak.")
	saved, err := os.ReadFile(filepath.Join(backups, entries[0].Name()))
	require.NoError(t, err)
	assert.Equal(t, corrupt, saved)

	// The corrupt original is left in place for manual repair.
	orig, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, corrupt, orig)
}

func TestWriteJSONBackupOnOverwrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "users.json")
	backups := filepath.Join(dir, "backups")

	require.NoError(t, WriteJSON(path, backups, map[string]string{"v": "1"}))

	// The first write has nothing to back up.
	_, err := os.Stat(backups)
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, WriteJSON(path, backups, map[string]string{"v": "2"}))

	entries, err := os.ReadDir(backups)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Name(), "users.json.bak.")

	var prev map[string]string
	require.NoError(t, ReadJSON(filepath.Join(backups, entries[0].Name()), backups, &prev))
	assert.Equal(t, map[string]string{"v": "1"}, prev)

	var current map[string]string
	require.NoError(t, ReadJSON(path, backups, &current))
	assert.Equal(t, map[string]string{"v": "2"}, current)
}

func TestWriteJSONLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "questions.json")

	require.NoError(t, WriteJSON(path, filepath.Join(dir, "backups"), []int{1, 2, 3}))

	_, err := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}
