package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/saishagoel27/scribbly/internal/shared"
	"github.com/urfave/cli/v3"
)

// Upload validates a document, posts it to the backend and starts a new
// session with the extracted metadata.
func (r *Runner) Upload(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	useJSON := cmd.Bool("json")

	if path == "" {
		return fmt.Errorf("%w: document path is required", shared.ErrMissingArgument)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(content) == 0 {
		return fmt.Errorf("%w: %s", shared.ErrEmptyFile, path)
	}
	if int64(len(content)) > r.config.MaxFileBytes() {
		return fmt.Errorf("%w: %s is %s, limit is %s", shared.ErrFileTooLarge, path,
			shared.FormatBytes(int64(len(content))), shared.FormatBytes(r.config.MaxFileBytes()))
	}
	if ext := shared.FileExtension(path); !r.config.SupportsFileType(ext) {
		return fmt.Errorf("%w: .%s", shared.ErrUnsupportedFile, ext)
	}

	r.logger.Info("uploading document", "path", path, "size", len(content))

	meta, err := r.scribbly.Upload(ctx, filepath.Base(path), content)
	if err != nil {
		return err
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	store, err := r.newStore(db)
	if err != nil {
		return err
	}
	if err := store.SetFile(meta); err != nil {
		return err
	}

	r.logger.Info("session started", "session", store.Session().ID())

	if useJSON {
		return r.writeJSON(meta, true)
	}

	r.writePlain("✓ Uploaded %s\n\n", meta.Filename)
	r.writePlain("Size: %s\n", shared.FormatBytes(meta.SizeBytes))
	r.writePlain("Pages: ~%d\n", meta.Pages)
	r.writePlain("Reading time: %s\n", meta.ReadingTime)
	r.writePlain("Complexity: %s\n", meta.Complexity)
	r.writePlainln("Session %s created. Next: scribbly configure", store.Session().ID())
	return nil
}
