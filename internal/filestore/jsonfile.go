package filestore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"quizvault/internal/domain"
	"quizvault/internal/logger"

	"go.uber.org/zap"
)

// backupTimeFormat names backup copies down to the second, matching the
// historical <name>.bak.<YYYYMMDDHHMMSS> scheme.
const backupTimeFormat = "20060102150405"

// ReadJSON decodes the file at path into dst.
//
// A missing file leaves dst untouched and returns nil, so the caller's
// default value stands. An undecodable file is copied into backupDir
// for inspection, the original is left in place, and a DomainError with
// code ErrCorruptedFile is returned; dst must be discarded in that case
// because the decoder may have partially filled it. Any other I/O
// failure is returned as a storage error.
func ReadJSON(path, backupDir string, dst any) error {
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return domain.NewStorageError(fmt.Sprintf("failed to read %s", path), err)
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		backup, backupErr := backupCopy(path, raw, backupDir)
		logger.Get().Warn("quarantined corrupted data file",
			zap.String("path", path),
			zap.String("backup", backup),
			zap.Error(err),
		)
		if backupErr != nil {
			return domain.NewStorageError(fmt.Sprintf("failed to back up corrupted file %s", path), backupErr)
		}
		return domain.NewError(domain.ErrCorruptedFile, fmt.Sprintf("corrupted data file %s", path), err)
	}
	return nil
}

// WriteJSON atomically replaces the file at path with the JSON encoding
// of v. The new content goes to a sibling .tmp file first and is
// renamed over the target, so readers never observe a partial write. An
// existing target is copied into backupDir before being replaced. On
// any failure the target keeps its previous content.
func WriteJSON(path, backupDir string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return domain.NewStorageError(fmt.Sprintf("failed to create directory for %s", path), err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return domain.NewStorageError(fmt.Sprintf("failed to encode %s", path), err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return domain.NewStorageError(fmt.Sprintf("failed to write %s", tmp), err)
	}

	if prev, err := os.ReadFile(path); err == nil {
		if _, err := backupCopy(path, prev, backupDir); err != nil {
			return domain.NewStorageError(fmt.Sprintf("failed to back up %s", path), err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return domain.NewStorageError(fmt.Sprintf("failed to read %s for backup", path), err)
	}

	if err := os.Rename(tmp, path); err != nil {
		return domain.NewStorageError(fmt.Sprintf("failed to replace %s", path), err)
	}
	return nil
}

// backupCopy writes raw to a timestamped backup file named after path.
// The same naming serves both quarantined corrupt files and versions
// superseded by a write.
func backupCopy(path string, raw []byte, backupDir string) (string, error) {
	if err := os.MkdirAll(backupDir, 0o755); err != nil {
		return "", err
	}
	backup := filepath.Join(backupDir,
		fmt.Sprintf("%s.bak.%s", filepath.Base(path), time.Now().Format(backupTimeFormat)))
	if err := os.WriteFile(backup, raw, 0o644); err != nil {
		return "", err
	}
	return backup, nil
}
