package executor

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"trainingportal-hq/janitor/pkg/janitor"
)

// Archiver exports entities to JSON files before destructive actions, so a
// deleted record can still be inspected after the fact.
type Archiver struct {
	path   string
	logger *slog.Logger
}

// NewArchiver creates an archiver writing into the given directory.
func NewArchiver(path string) *Archiver {
	return &Archiver{
		path:   path,
		logger: slog.Default().With("component", "janitor.archiver"),
	}
}

// Archive writes one entity to a timestamped JSON file under the archive
// directory, creating the directory if needed. Safe to call concurrently:
// file names embed the entity ID, so workers never collide.
func (a *Archiver) Archive(ctx context.Context, entity *janitor.Entity) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.MkdirAll(a.path, 0755); err != nil {
		return fmt.Errorf("failed to create archive directory: %w", err)
	}

	name := fmt.Sprintf("%s-%s-%s.json",
		entity.Category, entity.ID, time.Now().Format("2006-01-02-150405"))
	archiveFile := filepath.Join(a.path, name)

	data, err := json.MarshalIndent(entity, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal entity %q: %w", entity.ID, err)
	}

	if err := os.WriteFile(archiveFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write archive file: %w", err)
	}

	a.logger.Debug("entity archived",
		"entity_id", entity.ID,
		"archive_file", archiveFile,
	)

	return nil
}
